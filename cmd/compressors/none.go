package compressors

import "io"

// NoneCompressor passes data through without compression
type NoneCompressor struct{}

// NewNoneCompressor creates a new passthrough compressor
func NewNoneCompressor() *NoneCompressor {
	return &NoneCompressor{}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter returns dst unchanged behind a no-op Close
func (c *NoneCompressor) NewWriter(dst io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{dst}, nil
}

// Extension returns the file extension for no compression
func (c *NoneCompressor) Extension() string {
	return ""
}
