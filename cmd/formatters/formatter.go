package formatters

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Format type constants
const (
	FormatTSJ = "tsj"
	FormatTSV = "tsv"
	FormatCSV = "csv"
)

// ErrUnsupportedFormat is returned when an unsupported output format is requested
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formatter defines the interface for output format handlers
type Formatter interface {
	// WriteRow encodes one row of column values to w
	WriteRow(w io.Writer, values []interface{}) error

	// Extension returns the file extension for this format (e.g., ".tsj", ".tsv", ".csv")
	Extension() string
}

// GetFormatter returns the appropriate formatter based on the format string
func GetFormatter(format string) (Formatter, error) {
	switch format {
	case FormatTSJ:
		return NewTSJFormatter(), nil
	case FormatTSV:
		return NewTSVFormatter(), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// text renders a scanned database value as a plain string. The second return
// value is false for NULL.
func text(v interface{}) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case []byte:
		return string(v), true
	case string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case time.Time:
		return v.Format(time.RFC3339Nano), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}
