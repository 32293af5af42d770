// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile merges the input-reference sources of an analysis
// record into a single deduplicated, named list.
package reconcile

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/analysis-engine/internal/platform"
	"github.com/pdiddy/analysis-engine/pkg/types"
)

// Searcher finds entries by ELN section class.
type Searcher interface {
	SearchClass(ctx context.Context, class string) ([]types.EntryMeta, error)
}

// Resolver fetches the section a proxy value points at.
type Resolver interface {
	Resolve(ctx context.Context, proxyValue string) (types.ResolvedSection, error)
}

// Reconciler merges existing references, class-search hits, and stored
// query results. Resolver must be set; Searcher may be nil when no live
// search is wanted.
type Reconciler struct {
	Searcher Searcher
	Resolver Resolver
	Log      *zap.SugaredLogger
}

// New builds a Reconciler. A nil log is replaced with a no-op logger.
func New(searcher Searcher, resolver Resolver, log *zap.SugaredLogger) *Reconciler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Reconciler{Searcher: searcher, Resolver: resolver, Log: log}
}

// Output holds the merged list and its bookkeeping counters.
type Output struct {
	Refs       []types.InputReference `json:"refs" yaml:"refs"`
	Candidates int                    `json:"candidates" yaml:"candidates"`
	Dropped    int                    `json:"dropped" yaml:"dropped"`
	Duplicates int                    `json:"duplicates" yaml:"duplicates"`
}

// candidate pairs a reference with the section name its proxy resolved to,
// kept aside until the display-name fill.
type candidate struct {
	ref          types.InputReference
	resolvedName string
}

// Reconcile builds the deduplicated reference list for rec. Candidate
// order is existing references, class-search hits, stored query results.
// A candidate that fails resolution is dropped with a warning; a failed
// class search contributes nothing. The record is not mutated. The error
// return is reserved for context cancellation.
func (r *Reconciler) Reconcile(ctx context.Context, rec *types.AnalysisRecord) (Output, error) {
	var out Output

	// Existing references first, proxy values normalized. A value that
	// does not normalize is kept as stored.
	var refs []types.InputReference
	for _, ref := range rec.Inputs {
		normalized, ok := platform.NormalizeProxy(ref.ProxyValue)
		if !ok {
			r.Log.Warnw("proxy value not normalizable, keeping original",
				"proxy_value", ref.ProxyValue)
		}
		ref.ProxyValue = normalized
		refs = append(refs, ref)
	}

	if rec.InputEntryClass != "" && r.Searcher != nil {
		entries, err := r.Searcher.SearchClass(ctx, rec.InputEntryClass)
		if err != nil {
			r.Log.Warnw("class search failed, no candidates from this source",
				"class", rec.InputEntryClass, "error", err)
		}
		for _, e := range entries {
			refs = append(refs, types.InputReference{
				ProxyValue: platform.BuildProxy(e.UploadID, e.EntryID),
			})
		}
	}

	if rec.QueryForInputs != nil {
		for _, e := range rec.QueryForInputs.Data {
			refs = append(refs, types.InputReference{
				ProxyValue: platform.BuildProxy(e.UploadID, e.EntryID),
			})
		}
	}

	out.Candidates = len(refs)

	// Resolve every candidate to learn its lab id ahead of dedup.
	var resolved []candidate
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		sec, err := r.Resolver.Resolve(ctx, ref.ProxyValue)
		if err != nil {
			r.Log.Warnw("dropping unresolvable reference",
				"proxy_value", ref.ProxyValue, "error", err)
			out.Dropped++
			continue
		}
		ref.LabID = sec.LabID
		resolved = append(resolved, candidate{ref: ref, resolvedName: sec.Name})
	}

	// Deduplicate in candidate order. The proxy value is the primary key;
	// a later candidate whose lab id was already kept is a duplicate even
	// when its proxy value differs.
	kept := make(map[string]string) // proxy value → lab id
	var deduped []candidate
	for _, c := range resolved {
		if _, ok := kept[c.ref.ProxyValue]; ok {
			out.Duplicates++
			continue
		}
		if c.ref.LabID != "" && keptLabID(kept, c.ref.LabID) {
			out.Duplicates++
			continue
		}
		kept[c.ref.ProxyValue] = c.ref.LabID
		deduped = append(deduped, c)
	}

	// Fill display names where missing: lab id first, then the resolved
	// section name. Stored names are never overridden.
	for _, c := range deduped {
		if c.ref.Name == "" {
			switch {
			case c.ref.LabID != "":
				c.ref.Name = c.ref.LabID
			case c.resolvedName != "":
				c.ref.Name = c.resolvedName
			}
		}
		out.Refs = append(out.Refs, c.ref)
	}

	return out, nil
}

func keptLabID(kept map[string]string, labID string) bool {
	for _, id := range kept {
		if id == labID {
			return true
		}
	}
	return false
}
