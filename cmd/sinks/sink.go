package sinks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format constants
const (
	FormatTSJ = "tsj"
	FormatTSV = "tsv"
	FormatCSV = "csv"
)

// Compression constants
const (
	CompressionNone  = "none"
	CompressionBzip2 = "bzip2"
	CompressionGzip  = "gzip"
)

// ErrUnrecognizedFormat is returned when a sink's format cannot be
// determined and no default format is configured
var ErrUnrecognizedFormat = errors.New("unable to determine output format")

// Spec is one classified sink destination. Derived once per sink argument,
// immutable afterwards.
type Spec struct {
	Path        string
	Format      string
	Compression string
}

// Suffix tables consulted first-match-wins. Format suffixes may themselves
// be followed by a compression suffix.
var formatSuffixes = []struct {
	suffix string
	format string
}{
	{".tsj", FormatTSJ},
	{".tsv", FormatTSV},
	{".csv", FormatCSV},
}

var compressionSuffixes = []struct {
	suffix      string
	compression string
}{
	{".bz2", CompressionBzip2},
	{".gz", CompressionGzip},
}

// Classify determines a sink's format and compression from its path. Format
// detection order: forcedFormat wins unconditionally and disables sniffing;
// otherwise the filename suffix decides; otherwise defaultFormat applies;
// otherwise the path is unrecognized. Compression is sniffed from the suffix
// independently of format and is never overridable.
func Classify(path, forcedFormat, defaultFormat string) (Spec, error) {
	spec := Spec{Path: path, Compression: CompressionNone}

	trimmed := path
	for _, c := range compressionSuffixes {
		if strings.HasSuffix(path, c.suffix) {
			spec.Compression = c.compression
			trimmed = strings.TrimSuffix(path, c.suffix)
			break
		}
	}

	if forcedFormat != "" {
		spec.Format = forcedFormat
		return spec, nil
	}

	for _, f := range formatSuffixes {
		if strings.HasSuffix(trimmed, f.suffix) {
			spec.Format = f.format
			return spec, nil
		}
	}

	if defaultFormat != "" {
		spec.Format = defaultFormat
		return spec, nil
	}

	return Spec{}, fmt.Errorf("%w: %s", ErrUnrecognizedFormat, path)
}

// DefaultPath synthesizes the sink path used when the caller supplied no
// sinks. It probes inputDir for an existing relation input file across the
// full format x compression cross product, and falls back to a fresh
// input/<relation>.<format> path where format is forcedFormat, then
// defaultFormat, then tsj.
func DefaultPath(inputDir, relation, forcedFormat, defaultFormat string) string {
	for _, format := range []string{FormatTSJ, FormatTSV, FormatCSV} {
		for _, ext := range []string{"", ".bz2", ".gz"} {
			candidate := filepath.Join(inputDir, relation+"."+format+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}

	format := forcedFormat
	if format == "" {
		format = defaultFormat
	}
	if format == "" {
		format = FormatTSJ
	}
	return filepath.Join(inputDir, relation+"."+format)
}
