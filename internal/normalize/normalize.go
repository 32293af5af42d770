// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize runs the per-record normalization pass: pending result
// ingestion, notebook naming, input reconciliation, and notebook
// generation, in that order.
package normalize

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/analysis-engine/internal/journal"
	"github.com/pdiddy/analysis-engine/internal/notebook"
	"github.com/pdiddy/analysis-engine/internal/platform"
	"github.com/pdiddy/analysis-engine/internal/reconcile"
	"github.com/pdiddy/analysis-engine/internal/record"
)

// Journal records completed passes. Implemented by *journal.Store.
type Journal interface {
	Record(ctx context.Context, run journal.Run) (journal.Run, error)
}

// Normalizer wires the pass stages together. Journal may be nil.
type Normalizer struct {
	Store      platform.Store
	Reconciler *reconcile.Reconciler
	Generator  *notebook.Generator
	Journal    Journal
	Log        *zap.SugaredLogger
}

// New builds a Normalizer. A nil log is replaced with a no-op logger.
func New(store platform.Store, rec *reconcile.Reconciler, gen *notebook.Generator, jnl Journal, log *zap.SugaredLogger) *Normalizer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Normalizer{
		Store:      store,
		Reconciler: rec,
		Generator:  gen,
		Journal:    jnl,
		Log:        log,
	}
}

// Outcome summarizes one pass.
type Outcome struct {
	Renamed         bool   `json:"renamed" yaml:"renamed"`
	NotebookWritten bool   `json:"notebook_written" yaml:"notebook_written"`
	GenerationMode  string `json:"generation_mode,omitempty" yaml:"generation_mode,omitempty"`
	InputsTotal     int    `json:"inputs_total" yaml:"inputs_total"`
	InputsDropped   int    `json:"inputs_dropped" yaml:"inputs_dropped"`
	ResultsIngested int    `json:"results_ingested" yaml:"results_ingested"`
}

// Normalize runs the pass over f, mutating it in place. When the record's
// reset flag is set the notebook is written and the flag cleared. One
// journal row is recorded per pass; journal failures are warnings.
func (n *Normalizer) Normalize(ctx context.Context, f *record.File) (Outcome, error) {
	start := time.Now()
	var out Outcome

	out.ResultsIngested = n.ingestResults(&f.Analysis)

	renamed, err := n.Generator.SetName(&f.Analysis)
	if err != nil {
		return out, fmt.Errorf("setting notebook name: %w", err)
	}
	out.Renamed = renamed

	rout, err := n.Reconciler.Reconcile(ctx, &f.Analysis)
	if err != nil {
		return out, err
	}
	f.Analysis.Inputs = rout.Refs
	out.InputsTotal = len(rout.Refs)
	out.InputsDropped = rout.Dropped

	if f.Analysis.ResetNotebook {
		mode, err := n.Generator.Generate(&f.Analysis, f.EntryID)
		if err != nil {
			return out, fmt.Errorf("generating notebook: %w", err)
		}
		out.NotebookWritten = true
		out.GenerationMode = string(mode)
		f.Analysis.ResetNotebook = false
	}

	n.recordRun(ctx, f, out, time.Since(start))
	return out, nil
}

func (n *Normalizer) recordRun(ctx context.Context, f *record.File, out Outcome, d time.Duration) {
	if n.Journal == nil {
		return
	}
	_, err := n.Journal.Record(ctx, journal.Run{
		RecordName:      f.Analysis.Name,
		UploadID:        f.UploadID,
		EntryID:         f.EntryID,
		AnalysisType:    string(f.Analysis.EffectiveType()),
		GenerationMode:  out.GenerationMode,
		Renamed:         out.Renamed,
		NotebookWritten: out.NotebookWritten,
		InputsTotal:     out.InputsTotal,
		InputsDropped:   out.InputsDropped,
		ResultsIngested: out.ResultsIngested,
		Duration:        d,
	})
	if err != nil {
		n.Log.Warnw("journal write failed", "record", f.Analysis.Name, "error", err)
	}
}
