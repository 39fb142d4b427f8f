package compressors

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// ErrUnsupportedCompression is returned when an unsupported compression scheme is requested
var ErrUnsupportedCompression = errors.New("unsupported compression scheme")

// Compressor defines the interface for streaming compression handlers
type Compressor interface {
	// NewWriter returns a writer whose compressed output lands in dst.
	// Closing the returned writer finishes the stream; dst is not closed.
	NewWriter(dst io.Writer) (io.WriteCloser, error)

	// Extension returns the file extension for this compression (e.g., ".bz2", ".gz")
	Extension() string
}

// GetCompressor returns the appropriate compressor based on the compression string
func GetCompressor(compression string) (Compressor, error) {
	switch compression {
	case "bzip2":
		return NewBzip2Compressor(), nil
	case "gzip":
		return NewGzipCompressor(), nil
	case "none":
		return NewNoneCompressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, compression)
	}
}

// probeTool returns the first executable found on PATH, so parallel variants
// listed first win over the single-threaded tools.
func probeTool(names ...string) string {
	for _, name := range names {
		if _, err := exec.LookPath(name); err == nil {
			return name
		}
	}
	return ""
}
