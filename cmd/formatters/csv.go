package formatters

import (
	"encoding/csv"
	"io"
)

// CSVFormatter writes RFC 4180 comma-separated values. NULL becomes an
// empty field; quoting is handled by encoding/csv.
type CSVFormatter struct{}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

// WriteRow encodes one row as a CSV record
func (f *CSVFormatter) WriteRow(w io.Writer, values []interface{}) error {
	record := make([]string, len(values))
	for i, v := range values {
		s, ok := text(v)
		if ok {
			record[i] = s
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(record); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// Extension returns the file extension for CSV
func (f *CSVFormatter) Extension() string {
	return ".csv"
}
