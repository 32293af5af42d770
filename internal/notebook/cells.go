// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/analysis-engine/internal/platform"
	"github.com/pdiddy/analysis-engine/internal/snippets"
	"github.com/pdiddy/analysis-engine/pkg/types"
)

// defaultBlankCells starter cells appended on fresh generation.
const defaultBlankCells = 3

const provenanceSource = Marker + `

# This notebook has been generated by the analysis schema.
# It gets the data of the entries referenced in the 'inputs' sub-section.
# The analysis functions are predefined based on the type of analysis.
`

// Mode labels how a notebook write happened.
type Mode string

const (
	// ModeFresh means a new notebook was written with blank starter cells.
	ModeFresh Mode = "fresh"
	// ModePatch means the predefined cells were recomputed and the user
	// cells of the existing file preserved.
	ModePatch Mode = "patch"
)

// Generator builds and writes analysis notebooks into a raw-file store.
type Generator struct {
	Store    platform.Store
	Registry *snippets.Registry
	Config   types.NotebookConfig
	BaseURL  string
	Token    string
	Log      *zap.SugaredLogger
}

// NewGenerator builds a Generator. A nil registry falls back to the
// built-in catalog; a nil log is replaced with a no-op logger.
func NewGenerator(store platform.Store, registry *snippets.Registry, cfg types.NotebookConfig, baseURL, token string, log *zap.SugaredLogger) *Generator {
	if registry == nil {
		registry = snippets.Default
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Generator{
		Store:    store,
		Registry: registry,
		Config:   cfg,
		BaseURL:  baseURL,
		Token:    token,
		Log:      log,
	}
}

// PredefinedCells returns the generated cells for an analysis type, in
// order: provenance comment, environment, then for non-Generic types with
// registered snippets a functions cell, and for XRD the widget invocation.
func (g *Generator) PredefinedCells(typ types.AnalysisType, entryID string) []Cell {
	cells := []Cell{
		NewCodeCell(provenanceSource),
		g.environmentCell(entryID),
	}
	if typ != types.AnalysisGeneric && g.Registry.Has(string(typ)) {
		cells = append(cells, g.functionsCell(typ))
	}
	if typ == types.AnalysisXRD {
		cells = append(cells, NewCodeCell(Marker+"\n\nxrd_voila_analysis(input_data)\n"))
	}
	return cells
}

// environmentCell bakes the API endpoint, the caller's token, and the
// record's entry id into the notebook, followed by the Generic snippets
// and the input-data load.
func (g *Generator) environmentCell(entryID string) Cell {
	var b strings.Builder
	b.WriteString(Marker + "\n\n")
	b.WriteString("import requests\n\n")
	fmt.Fprintf(&b, "base_url = '%s'\n", g.BaseURL)
	fmt.Fprintf(&b, "token_header = {'Authorization': 'Bearer %s'}\n", g.Token)
	fmt.Fprintf(&b, "analysis_entry_id = '%s'\n", entryID)
	b.WriteString("\n")
	b.WriteString(joinSources(g.Registry.Sources(snippets.CategoryGeneric)))
	b.WriteString("input_data = get_input_data(token_header, base_url, analysis_entry_id)\n")
	return NewCodeCell(b.String())
}

func (g *Generator) functionsCell(typ types.AnalysisType) Cell {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n# %s analysis functions\n\n", Marker, typ)
	b.WriteString(joinSources(g.Registry.Sources(string(typ))))
	return NewCodeCell(b.String())
}

// joinSources appends a newline to each source, leaving one blank line
// between consecutive snippets.
func joinSources(sources []string) string {
	var b strings.Builder
	for _, src := range sources {
		b.WriteString(src)
		b.WriteString("\n")
	}
	return b.String()
}

// Generate writes the record's notebook and reports the mode used. When
// the recorded file exists, predefined cells are recomputed and the user
// cells preserved after them; otherwise a fresh notebook with blank
// starter cells is written. The record's notebook name is assigned when
// unset, and the written file is flagged for reprocessing.
func (g *Generator) Generate(rec *types.AnalysisRecord, entryID string) (Mode, error) {
	name := rec.Notebook
	if name == "" {
		name = FileName(rec.Name, rec.EffectiveType())
	}

	predefined := g.PredefinedCells(rec.EffectiveType(), entryID)
	doc := g.newDocument()

	var mode Mode
	if g.Store.Exists(name) {
		mode = ModePatch
		f, err := g.Store.Open(name)
		if err != nil {
			return "", fmt.Errorf("opening notebook %s: %w", name, err)
		}
		existing, err := Decode(f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("reading notebook %s: %w", name, err)
		}

		doc.Cells = append(doc.Cells, predefined...)
		for _, c := range existing.Cells {
			if !c.IsPredefined() {
				doc.Cells = append(doc.Cells, c)
			}
		}
	} else {
		mode = ModeFresh
		doc.Cells = append(doc.Cells, predefined...)
		for i := 0; i < g.blankCells(); i++ {
			doc.Cells = append(doc.Cells, NewCodeCell(""))
		}
	}

	data, err := doc.Bytes()
	if err != nil {
		return "", err
	}
	if err := g.Store.Write(name, data); err != nil {
		return "", fmt.Errorf("writing notebook %s: %w", name, err)
	}
	g.Store.MarkUpdated(name)
	rec.Notebook = name
	g.Log.Infow("wrote notebook", "file", name, "mode", mode, "cells", len(doc.Cells))
	return mode, nil
}

func (g *Generator) blankCells() int {
	if g.Config.BlankCells > 0 {
		return g.Config.BlankCells
	}
	return defaultBlankCells
}

func (g *Generator) newDocument() *Document {
	kernelName := g.Config.KernelName
	if kernelName == "" {
		kernelName = "python3"
	}
	displayName := g.Config.KernelDisplayName
	if displayName == "" {
		displayName = "Python 3"
	}
	return &Document{
		Cells: []Cell{},
		Metadata: map[string]any{
			"trusted": true,
			"kernelspec": map[string]any{
				"name":         kernelName,
				"display_name": displayName,
				"language":     "python",
			},
			"language_info": map[string]any{"name": "python"},
		},
		NBFormat:      4,
		NBFormatMinor: 5,
	}
}
