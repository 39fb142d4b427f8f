package cmd

import (
	"errors"
	"testing"

	"github.com/inferlab/unload/cmd/sinks"
)

func TestBatchPlanner(t *testing.T) {
	t.Run("ConsecutiveRunsAreNeverMergedAcrossFormats", func(t *testing.T) {
		var flushed []Batch
		planner := NewBatchPlanner(func(b Batch) error {
			flushed = append(flushed, b)
			return nil
		})

		for _, path := range []string{"a.tsj", "b.tsj", "c.csv", "d.tsj"} {
			spec, err := sinks.Classify(path, "", "")
			if err != nil {
				t.Fatalf("unexpected classify error: %v", err)
			}
			if err := planner.Add(spec); err != nil {
				t.Fatalf("unexpected add error: %v", err)
			}
		}
		if err := planner.Finish(); err != nil {
			t.Fatalf("unexpected finish error: %v", err)
		}

		if len(flushed) != 3 {
			t.Fatalf("expected 3 batches, got %d", len(flushed))
		}
		expectFormats := []string{"tsj", "csv", "tsj"}
		expectSizes := []int{2, 1, 1}
		for i, batch := range flushed {
			if batch.Format != expectFormats[i] {
				t.Fatalf("batch %d: expected format %s, got %s", i, expectFormats[i], batch.Format)
			}
			if len(batch.Sinks) != expectSizes[i] {
				t.Fatalf("batch %d: expected %d sinks, got %d", i, expectSizes[i], len(batch.Sinks))
			}
		}
		if flushed[0].Sinks[0].Path != "a.tsj" || flushed[0].Sinks[1].Path != "b.tsj" {
			t.Fatalf("first batch lost sink order: %+v", flushed[0].Sinks)
		}
	})

	t.Run("SingleFormatCollapsesToOneBatch", func(t *testing.T) {
		var flushed []Batch
		planner := NewBatchPlanner(func(b Batch) error {
			flushed = append(flushed, b)
			return nil
		})
		for _, path := range []string{"a.csv", "b.csv", "c.csv"} {
			spec, _ := sinks.Classify(path, "", "")
			if err := planner.Add(spec); err != nil {
				t.Fatalf("unexpected add error: %v", err)
			}
		}
		if err := planner.Finish(); err != nil {
			t.Fatalf("unexpected finish error: %v", err)
		}
		if len(flushed) != 1 || len(flushed[0].Sinks) != 3 {
			t.Fatalf("expected one batch of 3 sinks, got %+v", flushed)
		}
	})

	t.Run("FinishWithoutFormatFails", func(t *testing.T) {
		planner := NewBatchPlanner(func(Batch) error { return nil })
		if err := planner.Finish(); !errors.Is(err, ErrMissingFormat) {
			t.Fatalf("expected ErrMissingFormat, got %v", err)
		}
	})

	t.Run("DeclaredFormatFlushesEmptyBatch", func(t *testing.T) {
		var flushed []Batch
		planner := NewBatchPlanner(func(b Batch) error {
			flushed = append(flushed, b)
			return nil
		})
		planner.DeclareFormat("tsv")
		if err := planner.Finish(); err != nil {
			t.Fatalf("unexpected finish error: %v", err)
		}
		if len(flushed) != 1 || flushed[0].Format != "tsv" || len(flushed[0].Sinks) != 0 {
			t.Fatalf("expected one empty tsv batch, got %+v", flushed)
		}
	})

	t.Run("FlushErrorStopsPlanning", func(t *testing.T) {
		flushErr := errors.New("boom")
		planner := NewBatchPlanner(func(Batch) error { return flushErr })
		tsj, _ := sinks.Classify("a.tsj", "", "")
		csv, _ := sinks.Classify("b.csv", "", "")
		if err := planner.Add(tsj); err != nil {
			t.Fatalf("first add should not flush: %v", err)
		}
		if err := planner.Add(csv); !errors.Is(err, flushErr) {
			t.Fatalf("expected flush error on format change, got %v", err)
		}
	})
}
