package formatters

import (
	"bytes"
	"io"
	"strings"
)

// tsvEscaper escapes the characters that would break a tab-separated row
var tsvEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\t", `\t`,
	"\n", `\n`,
	"\r", `\r`,
)

// TSVFormatter writes tab-separated values with NULL as \N, matching the
// text dump conventions of the database loaders.
type TSVFormatter struct{}

// NewTSVFormatter creates a new tab-separated values formatter
func NewTSVFormatter() *TSVFormatter {
	return &TSVFormatter{}
}

// WriteRow encodes one row as escaped tab-separated values
func (f *TSVFormatter) WriteRow(w io.Writer, values []interface{}) error {
	var line bytes.Buffer
	for i, v := range values {
		if i > 0 {
			line.WriteByte('\t')
		}
		s, ok := text(v)
		if !ok {
			line.WriteString(nullText)
			continue
		}
		line.WriteString(tsvEscaper.Replace(s))
	}
	line.WriteByte('\n')

	_, err := w.Write(line.Bytes())
	return err
}

// Extension returns the file extension for tab-separated values
func (f *TSVFormatter) Extension() string {
	return ".tsv"
}
