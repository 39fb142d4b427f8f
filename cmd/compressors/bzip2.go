package compressors

import (
	"errors"
	"io"
)

// ErrNoBzip2Tool is returned when neither pbzip2 nor bzip2 is installed
var ErrNoBzip2Tool = errors.New("no bzip2 compressor found on PATH (install pbzip2 or bzip2)")

// Bzip2Compressor shells out to pbzip2 when available, falling back to the
// single-threaded bzip2 tool.
type Bzip2Compressor struct {
	tool string
}

// NewBzip2Compressor creates a new bzip2 compressor, probing PATH once
func NewBzip2Compressor() *Bzip2Compressor {
	return &Bzip2Compressor{tool: probeTool("pbzip2", "bzip2")}
}

// NewWriter starts the compressor process writing to dst
func (c *Bzip2Compressor) NewWriter(dst io.Writer) (io.WriteCloser, error) {
	if c.tool == "" {
		return nil, ErrNoBzip2Tool
	}
	return startExecWriter(c.tool, []string{"-c"}, dst)
}

// Extension returns the file extension for bzip2 compression
func (c *Bzip2Compressor) Extension() string {
	return ".bz2"
}
