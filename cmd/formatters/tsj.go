package formatters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// nullText marks a NULL column in tsj and tsv rows
const nullText = `\N`

// TSJFormatter writes tab-separated JSON: one row per line, each column
// value JSON-encoded, NULL written as \N.
type TSJFormatter struct{}

// NewTSJFormatter creates a new tab-separated JSON formatter
func NewTSJFormatter() *TSJFormatter {
	return &TSJFormatter{}
}

// WriteRow encodes one row as tab-separated JSON values
func (f *TSJFormatter) WriteRow(w io.Writer, values []interface{}) error {
	var line bytes.Buffer
	for i, v := range values {
		if i > 0 {
			line.WriteByte('\t')
		}
		if v == nil {
			line.WriteString(nullText)
			continue
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode column %d: %w", i, err)
		}
		line.Write(encoded)
	}
	line.WriteByte('\n')

	_, err := w.Write(line.Bytes())
	return err
}

// Extension returns the file extension for tab-separated JSON
func (f *TSJFormatter) Extension() string {
	return ".tsj"
}
