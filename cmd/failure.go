package cmd

import (
	"errors"
	"sync"
)

// failureList records asynchronous sink failures (compression consumers, S3
// uploads) so they can force a non-zero exit after every batch has flushed,
// even though the primary unload calls all reported success. Recording is
// safe from multiple goroutines; the list is inspected once at the end of
// the run.
type failureList struct {
	mu   sync.Mutex
	errs []error
}

func (f *failureList) record(err error) {
	if err == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
}

// err joins every recorded failure, or returns nil when none occurred.
func (f *failureList) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return errors.Join(f.errs...)
}
