package compressors

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCompressor shells out to pigz when available, then gzip. When neither
// tool is installed it falls back to an in-process gzip stream.
type GzipCompressor struct {
	tool string
}

// NewGzipCompressor creates a new gzip compressor, probing PATH once
func NewGzipCompressor() *GzipCompressor {
	return &GzipCompressor{tool: probeTool("pigz", "gzip")}
}

// NewWriter starts the compressor process writing to dst, or an in-process
// gzip writer when no external tool exists
func (c *GzipCompressor) NewWriter(dst io.Writer) (io.WriteCloser, error) {
	if c.tool == "" {
		return gzip.NewWriterLevel(dst, gzip.DefaultCompression)
	}
	return startExecWriter(c.tool, []string{"-c"}, dst)
}

// Extension returns the file extension for gzip compression
func (c *GzipCompressor) Extension() string {
	return ".gz"
}
