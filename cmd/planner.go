package cmd

import (
	"errors"

	"github.com/inferlab/unload/cmd/sinks"
)

// ErrMissingFormat is returned when a batch would be flushed with no
// determinable format
var ErrMissingFormat = errors.New("no output format determined for batch")

// Batch is a maximal run of consecutive same-format sinks served by a single
// extraction query. A batch with zero sinks unloads to the default output
// stream.
type Batch struct {
	Format string
	Sinks  []sinks.Spec
}

// BatchPlanner groups incoming sinks into consecutive same-format batches
// and hands each completed batch to the flush callback, preserving input
// order. A format change flushes the open batch; runs of the same format
// separated by another format are never merged.
type BatchPlanner struct {
	open  Batch
	flush func(Batch) error
}

func NewBatchPlanner(flush func(Batch) error) *BatchPlanner {
	return &BatchPlanner{flush: flush}
}

// DeclareFormat pre-declares the open batch's format without queueing a
// sink, so that a final flush with no sinks still unloads once.
func (p *BatchPlanner) DeclareFormat(format string) {
	if p.open.Format == "" {
		p.open.Format = format
	}
}

// Add queues one classified sink, flushing the open batch first when the
// format changes.
func (p *BatchPlanner) Add(s sinks.Spec) error {
	if p.open.Format != "" && p.open.Format != s.Format {
		if err := p.doFlush(); err != nil {
			return err
		}
	}
	p.open.Format = s.Format
	p.open.Sinks = append(p.open.Sinks, s)
	return nil
}

// Finish flushes the final open batch unconditionally, even when it holds
// zero sinks.
func (p *BatchPlanner) Finish() error {
	return p.doFlush()
}

func (p *BatchPlanner) doFlush() error {
	if p.open.Format == "" {
		return ErrMissingFormat
	}
	batch := p.open
	p.open = Batch{}
	return p.flush(batch)
}
