package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dbURLFile      = "db.url"
	compiledSchema = "run/schema.json"
)

// AppContext is a located application directory. The root is the closest
// ancestor of the working directory containing a db.url marker file.
type AppContext struct {
	Root string
}

// LocateApp walks up from dir looking for a db.url marker file. The second
// return value is false when no application root exists; the command still
// works against a bare database URL in that case.
func LocateApp(dir string) (*AppContext, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, false
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, dbURLFile)); err == nil && !info.IsDir() {
			return &AppContext{Root: dir}, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, false
		}
		dir = parent
	}
}

// Compiled reports whether the application has a compiled schema artifact.
func (a *AppContext) Compiled() bool {
	info, err := os.Stat(a.SchemaPath())
	return err == nil && !info.IsDir()
}

// SchemaPath returns the path of the compiled schema artifact.
func (a *AppContext) SchemaPath() string {
	return filepath.Join(a.Root, filepath.FromSlash(compiledSchema))
}

// InputDir returns the directory probed for default sink paths.
func (a *AppContext) InputDir() string {
	return filepath.Join(a.Root, "input")
}

// DatabaseURL reads the connection URL from the db.url marker file.
func (a *AppContext) DatabaseURL() (string, error) {
	data, err := os.ReadFile(filepath.Join(a.Root, dbURLFile))
	if err != nil {
		return "", fmt.Errorf("failed to read db.url: %w", err)
	}
	url := strings.TrimSpace(string(data))
	if url == "" {
		return "", ErrDatabaseURLRequired
	}
	return url, nil
}
