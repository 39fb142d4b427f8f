package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/inferlab/unload/cmd/compressors"
	"github.com/inferlab/unload/cmd/formatters"
	"github.com/inferlab/unload/cmd/sinks"
	"golang.org/x/sync/errgroup"
)

// Unloader executes unload batches in input order, one extraction query per
// batch. Sink consumer failures are recorded out of band and surface
// through Failed once every batch has flushed.
type Unloader struct {
	config   *Config
	driver   Driver
	logger   *slog.Logger
	failures *failureList

	// stdout receives zero-sink batches and "-" sinks; overridden in tests
	stdout io.Writer

	// compressorFor is swapped in tests
	compressorFor func(scheme string) (compressors.Compressor, error)

	// uploader is initialized lazily on the first s3:// sink
	uploader s3Uploader
}

func NewUnloader(config *Config, driver Driver, logger *slog.Logger) *Unloader {
	return &Unloader{
		config:        config,
		driver:        driver,
		logger:        logger,
		failures:      &failureList{},
		stdout:        os.Stdout,
		compressorFor: compressors.GetCompressor,
	}
}

// buildQuery constructs the extraction query for one batch. An empty column
// list selects all columns.
func buildQuery(relation string, columns []string) string {
	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(columns, ",")
	}
	return fmt.Sprintf("SELECT %s FROM %s", cols, relation)
}

// UnloadBatch runs one extraction query and fans the row stream out to
// every sink in the batch. A batch with zero sinks writes to stdout. Driver
// failure is fatal and aborts the remaining batches; compression and upload
// failures are recorded for the final status check instead.
func (u *Unloader) UnloadBatch(ctx context.Context, relation string, columns []string, batch Batch) error {
	formatter, err := formatters.GetFormatter(batch.Format)
	if err != nil {
		return err
	}

	query := buildQuery(relation, columns)
	u.logger.Info(fmt.Sprintf("📤 Unloading %s(%s) to %s as %s",
		relation, columnsLabel(columns), destinationsLabel(batch.Sinks), batch.Format))

	var consumers errgroup.Group
	writers := make([]io.Writer, 0, len(batch.Sinks))
	closers := make([]func() error, 0, len(batch.Sinks))

	if len(batch.Sinks) == 0 {
		writers = append(writers, u.stdout)
	}
	for _, s := range batch.Sinks {
		w, closeSink, err := u.openSink(ctx, s, &consumers)
		if err != nil {
			for _, c := range closers {
				_ = c()
			}
			return err
		}
		writers = append(writers, w)
		closers = append(closers, closeSink)
	}

	unloadErr := u.driver.Unload(ctx, query, formatter, io.MultiWriter(writers...))

	// Finish compression streams and join background consumers regardless
	// of the unload outcome; their failures are recorded, not returned.
	for _, closeSink := range closers {
		u.failures.record(closeSink())
	}
	u.failures.record(consumers.Wait())

	if unloadErr != nil {
		return fmt.Errorf("unload of %s failed: %w", relation, unloadErr)
	}
	return nil
}

// Failed returns the aggregated asynchronous sink failures. It is checked
// exactly once, after the last batch has been flushed.
func (u *Unloader) Failed() error {
	return u.failures.err()
}

// openSink materializes one sink expression: the destination writer (file,
// S3 upload, or stdout) wrapped in the sink's compression stream. The
// returned close function finishes the stream and reports consumer errors.
func (u *Unloader) openSink(ctx context.Context, s sinks.Spec, consumers *errgroup.Group) (io.Writer, func() error, error) {
	var base io.WriteCloser
	switch {
	case s.Path == "-":
		base = nopCloser{u.stdout}
	case isS3Path(s.Path):
		pw, err := u.newS3Sink(ctx, s.Path, consumers)
		if err != nil {
			return nil, nil, err
		}
		base = pw
	default:
		if dir := filepath.Dir(s.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create sink directory for %s: %w", s.Path, err)
			}
		}
		f, err := os.Create(s.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sink %s: %w", s.Path, err)
		}
		base = f
	}

	compressor, err := u.compressorFor(s.Compression)
	if err != nil {
		base.Close()
		return nil, nil, err
	}
	cw, err := compressor.NewWriter(base)
	if err != nil {
		base.Close()
		return nil, nil, err
	}

	closeSink := func() error {
		err := cw.Close()
		if baseErr := base.Close(); err == nil {
			err = baseErr
		}
		if err != nil {
			return fmt.Errorf("sink %s: %w", s.Path, err)
		}
		return nil
	}
	return cw, closeSink, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func columnsLabel(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	return strings.Join(columns, ",")
}

func destinationsLabel(specs []sinks.Spec) string {
	if len(specs) == 0 {
		return "stdout"
	}
	paths := make([]string, len(specs))
	for i, s := range specs {
		paths[i] = s.Path
	}
	return strings.Join(paths, ", ")
}
