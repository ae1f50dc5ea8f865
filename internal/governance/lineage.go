package governance

import (
	"context"
	"log/slog"
	"time"

	"github.com/lakegov/lakegov/internal/metastore"
)

// multiSourceNote is the note attached to the terminal step of a
// chain that ends in a multi-source transformation.
const multiSourceNote = "this dataset was created from multiple source datasets"

// Step is one element of a reconstructed lineage chain. A regular
// step carries both endpoints; the terminal step of a multi-source
// chain carries no source and a note instead.
type Step struct {
	Timestamp      time.Time      `json:"timestamp"`
	Source         *metastore.Ref `json:"source,omitempty"`
	Target         *metastore.Ref `json:"target,omitempty"`
	Transformation string         `json:"transformation"`
	Note           string         `json:"note,omitempty"`
}

// Tracer reconstructs lineage chains from the lineage records in the
// metadata store.
type Tracer struct {
	meta   *metastore.Store
	logger *slog.Logger
}

// NewTracer creates a Tracer.
func NewTracer(meta *metastore.Store, logger *slog.Logger) *Tracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracer{meta: meta, logger: logger}
}

// Trace returns the chain of transformation steps that produced the
// target, oldest first. A dataset no record names as a target is an
// origin and yields an empty chain. A chain derived from a
// multi-source join ends (at its oldest step) in a terminal note with
// no source reference.
//
// The walk is resolved entirely from lineage records; the target does
// not need a metadata record.
func (t *Tracer) Trace(ctx context.Context, target metastore.Ref) ([]Step, error) {
	records, err := t.meta.ListLineage(ctx)
	if err != nil {
		return nil, err
	}

	// One scan, indexed by target. Keeping the first record seen per
	// target preserves scan-order semantics when the store holds
	// duplicate targets, which the key scheme prevents for identical
	// transformations but cannot for distinct sources.
	byTarget := make(map[metastore.Ref]metastore.LineageRecord, len(records))
	for _, rec := range records {
		if _, ok := byTarget[rec.Target]; !ok {
			byTarget[rec.Target] = rec
		}
	}

	var chain []Step
	visited := make(map[metastore.Ref]bool)
	current := target
	for {
		if visited[current] {
			t.logger.Warn("lineage records form a cycle, stopping walk", "target", current.String())
			break
		}
		visited[current] = true

		rec, ok := byTarget[current]
		if !ok {
			// No record claims this dataset as a target: it is an
			// origin and the chain is complete.
			break
		}

		if rec.Source.Multiple {
			tgt := rec.Target
			chain = append(chain, Step{
				Timestamp:      rec.Timestamp,
				Target:         &tgt,
				Transformation: rec.Transformation,
				Note:           multiSourceNote,
			})
			break
		}

		src, tgt := rec.Source.Ref, rec.Target
		chain = append(chain, Step{
			Timestamp:      rec.Timestamp,
			Source:         &src,
			Target:         &tgt,
			Transformation: rec.Transformation,
		})
		current = rec.Source.Ref
	}

	// The walk collects newest first; flip to chronological order.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
