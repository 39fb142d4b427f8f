package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/inferlab/unload/cmd/sinks"
)

// Static errors for configuration and argument validation
var (
	ErrRelationRequired    = errors.New("relation argument is required")
	ErrRelationInvalid     = errors.New("relation name is invalid: must start with a letter or underscore, and contain only letters, numbers, and underscores")
	ErrFormatInvalid       = errors.New("format must be one of: tsj, tsv, csv")
	ErrDatabaseURLRequired = errors.New("database URL is required (set DB_URL, pass --db-url, or add a db.url file to the application root)")
	ErrDatabaseURLInvalid  = errors.New("database URL is invalid")
)

type Config struct {
	Debug     bool
	LogFormat string

	// DatabaseURL is the connection URL; when empty it is read from the
	// application root's db.url file.
	DatabaseURL string

	// ForcedFormat forces the output format for every sink and disables
	// filename sniffing (LOAD_FORMAT).
	ForcedFormat string

	// DefaultFormat is the fallback when filename sniffing fails
	// (LOAD_FORMAT_DEFAULT).
	DefaultFormat string

	S3 S3Config
}

// S3Config holds the optional settings for s3:// sink destinations.
type S3Config struct {
	Endpoint string
	Region   string
}

// validIdentifier checks if a string is a valid SQL identifier
// to prevent SQL injection attacks
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// isValidRelationName validates that a relation name is safe to use in queries
func isValidRelationName(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	return validIdentifier.MatchString(name)
}

// isValidFormat validates an output format name (empty means unset)
func isValidFormat(format string) bool {
	switch format {
	case "", sinks.FormatTSJ, sinks.FormatTSV, sinks.FormatCSV:
		return true
	}
	return false
}

func (c *Config) Validate() error {
	if !isValidFormat(c.ForcedFormat) {
		return fmt.Errorf("%w: got '%s'", ErrFormatInvalid, c.ForcedFormat)
	}
	if !isValidFormat(c.DefaultFormat) {
		return fmt.Errorf("%w: got '%s'", ErrFormatInvalid, c.DefaultFormat)
	}

	if c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}
	if _, err := url.Parse(c.DatabaseURL); err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseURLInvalid, err)
	}

	return nil
}
