// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"strings"
	"testing"

	"github.com/pdiddy/analysis-engine/internal/platform"
	"github.com/pdiddy/analysis-engine/pkg/types"
)

func testGenerator(t *testing.T) (*Generator, *platform.DirStore) {
	t.Helper()
	store, err := platform.NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	g := NewGenerator(store, nil, types.NotebookConfig{}, "https://lab.example/api/v1", "tok123", nil)
	return g, store
}

func TestPredefinedCellCounts(t *testing.T) {
	tests := []struct {
		typ  types.AnalysisType
		want int
	}{
		{types.AnalysisGeneric, 2},
		{types.AnalysisXRD, 4},
		{types.AnalysisType("NMR"), 2}, // no registered snippets
	}

	g, _ := testGenerator(t)
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			cells := g.PredefinedCells(tt.typ, "entry1")
			if len(cells) != tt.want {
				t.Fatalf("PredefinedCells(%s) = %d cells, want %d", tt.typ, len(cells), tt.want)
			}
			for i, c := range cells {
				if !c.IsPredefined() {
					t.Errorf("cell %d lacks the marker", i)
				}
			}
		})
	}
}

func TestEnvironmentCell(t *testing.T) {
	g, _ := testGenerator(t)
	cells := g.PredefinedCells(types.AnalysisGeneric, "entry7")
	src := string(cells[1].Source)

	for _, want := range []string{
		"base_url = 'https://lab.example/api/v1'\n",
		"token_header = {'Authorization': 'Bearer tok123'}\n",
		"analysis_entry_id = 'entry7'\n",
		"def get_input_data(",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("environment cell missing %q", want)
		}
	}
	if !strings.HasSuffix(src, "input_data = get_input_data(token_header, base_url, analysis_entry_id)\n") {
		t.Error("environment cell does not end with the input-data load")
	}
}

func TestXRDFunctionsCell(t *testing.T) {
	g, _ := testGenerator(t)
	cells := g.PredefinedCells(types.AnalysisXRD, "entry1")

	src := string(cells[2].Source)
	if !strings.Contains(src, "# XRD analysis functions") {
		t.Error("functions cell missing the type header")
	}
	for _, fn := range []string{
		"def xrd_plot_intensity_two_theta(",
		"def xrd_find_peaks(",
		"def xrd_conduct_analysis(",
		"def xrd_voila_analysis(",
	} {
		if !strings.Contains(src, fn) {
			t.Errorf("functions cell missing %q", fn)
		}
	}

	if got := strings.TrimSpace(strings.TrimPrefix(string(cells[3].Source), Marker)); got != "xrd_voila_analysis(input_data)" {
		t.Errorf("invocation cell = %q", got)
	}
}

func TestGenerateFresh(t *testing.T) {
	g, store := testGenerator(t)
	rec := &types.AnalysisRecord{Name: "Sample1"}

	mode, err := g.Generate(rec, "entry1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if mode != ModeFresh {
		t.Errorf("mode = %s, want fresh", mode)
	}
	if rec.Notebook != "Sample1_generic_notebook.ipynb" {
		t.Errorf("notebook name = %q, want Sample1_generic_notebook.ipynb", rec.Notebook)
	}

	f, err := store.Open(rec.Notebook)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	doc, err := Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(doc.Cells) != 5 {
		t.Fatalf("fresh Generic notebook has %d cells, want 2 predefined + 3 blank", len(doc.Cells))
	}
	for i, c := range doc.Cells[:2] {
		if !c.IsPredefined() {
			t.Errorf("cell %d should carry the marker", i)
		}
	}
	for i, c := range doc.Cells[2:] {
		if c.Source != "" || c.CellType != "code" {
			t.Errorf("starter cell %d = %+v, want blank code cell", i, c)
		}
	}

	if trusted, _ := doc.Metadata["trusted"].(bool); !trusted {
		t.Error("generated notebook is not marked trusted")
	}
	if doc.NBFormat != 4 || doc.NBFormatMinor != 5 {
		t.Errorf("nbformat = %d.%d, want 4.5", doc.NBFormat, doc.NBFormatMinor)
	}

	updated := store.Updated()
	if len(updated) != 1 || updated[0] != rec.Notebook {
		t.Errorf("Updated() = %v, want the written notebook", updated)
	}
}

func TestGenerateFreshXRD(t *testing.T) {
	g, store := testGenerator(t)
	rec := &types.AnalysisRecord{Name: "Powder run", AnalysisType: types.AnalysisXRD}

	if _, err := g.Generate(rec, "entry1"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec.Notebook != "Powder_run_xrd_notebook.ipynb" {
		t.Errorf("notebook name = %q", rec.Notebook)
	}

	f, _ := store.Open(rec.Notebook)
	doc, err := Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(doc.Cells) != 7 {
		t.Errorf("fresh XRD notebook has %d cells, want 4 predefined + 3 blank", len(doc.Cells))
	}
}

func TestGeneratePatchPreservesUserCells(t *testing.T) {
	g, store := testGenerator(t)

	// An earlier version of the file: stale predefined cell plus two
	// user-authored cells.
	old := g.newDocument()
	old.Cells = []Cell{
		NewCodeCell(Marker + "\n\n# stale generated content\n"),
		NewCodeCell("first user cell\n"),
		NewCodeCell("second user cell\n"),
	}
	data, err := old.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	name := "Sample1_generic_notebook.ipynb"
	if err := store.Write(name, data); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rec := &types.AnalysisRecord{Name: "Sample1", Notebook: name}
	mode, err := g.Generate(rec, "entry1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if mode != ModePatch {
		t.Errorf("mode = %s, want patch", mode)
	}

	f, _ := store.Open(name)
	doc, err := Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	// 2 recomputed predefined cells, then the user cells, no new blanks.
	if len(doc.Cells) != 4 {
		t.Fatalf("patched notebook has %d cells, want 4", len(doc.Cells))
	}
	for _, c := range doc.Cells {
		if strings.Contains(string(c.Source), "stale generated content") {
			t.Error("stale predefined cell survived the patch")
		}
	}
	if doc.Cells[2].Source != "first user cell\n" || doc.Cells[3].Source != "second user cell\n" {
		t.Errorf("user cells not preserved in order: %q, %q", doc.Cells[2].Source, doc.Cells[3].Source)
	}
}

func TestGeneratePatchReadsLineArraySources(t *testing.T) {
	g, store := testGenerator(t)

	// Notebook as the Jupyter UI writes it, with sources as line arrays.
	raw := `{
  "cells": [
    {"cell_type": "code", "source": ["# Pre-defined block\n", "# stale\n"], "metadata": {}, "execution_count": null, "outputs": []},
    {"cell_type": "code", "source": ["kept = 1\n", "kept += 1\n"], "metadata": {}, "execution_count": 3, "outputs": []}
  ],
  "metadata": {"trusted": true},
  "nbformat": 4,
  "nbformat_minor": 5
}`
	name := "Sample1_generic_notebook.ipynb"
	if err := store.Write(name, []byte(raw)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rec := &types.AnalysisRecord{Name: "Sample1", Notebook: name}
	if _, err := g.Generate(rec, "entry1"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	f, _ := store.Open(name)
	doc, err := Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(doc.Cells) != 3 {
		t.Fatalf("patched notebook has %d cells, want 3", len(doc.Cells))
	}
	if doc.Cells[2].Source != "kept = 1\nkept += 1\n" {
		t.Errorf("user cell source = %q", doc.Cells[2].Source)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		recordName string
		typ        types.AnalysisType
		want       string
	}{
		{"Sample1", types.AnalysisGeneric, "Sample1_generic_notebook.ipynb"},
		{"My Sample", types.AnalysisGeneric, "My_Sample_generic_notebook.ipynb"},
		{"Powder run", types.AnalysisXRD, "Powder_run_xrd_notebook.ipynb"},
		{"", types.AnalysisGeneric, "untitled.ipynb"},
		{"", types.AnalysisXRD, "untitled.ipynb"},
	}
	for _, tt := range tests {
		if got := FileName(tt.recordName, tt.typ); got != tt.want {
			t.Errorf("FileName(%q, %s) = %q, want %q", tt.recordName, tt.typ, got, tt.want)
		}
	}
}

func TestSetName(t *testing.T) {
	t.Run("assigns when unset", func(t *testing.T) {
		g, store := testGenerator(t)
		rec := &types.AnalysisRecord{Name: "Sample1"}

		renamed, err := g.SetName(rec)
		if err != nil {
			t.Fatalf("SetName: %v", err)
		}
		if renamed {
			t.Error("renamed = true with no prior file")
		}
		if rec.Notebook != "Sample1_generic_notebook.ipynb" {
			t.Errorf("notebook = %q", rec.Notebook)
		}
		if len(store.Updated()) != 0 {
			t.Error("assignment alone should not flag reprocessing")
		}
	})

	t.Run("no-op when canonical", func(t *testing.T) {
		g, _ := testGenerator(t)
		rec := &types.AnalysisRecord{Name: "Sample1", Notebook: "Sample1_generic_notebook.ipynb"}

		renamed, err := g.SetName(rec)
		if err != nil || renamed {
			t.Fatalf("SetName = (%v, %v), want no-op", renamed, err)
		}
	})

	t.Run("renames backing file", func(t *testing.T) {
		g, store := testGenerator(t)
		if err := store.Write("Old_generic_notebook.ipynb", []byte("cells")); err != nil {
			t.Fatalf("Write: %v", err)
		}
		rec := &types.AnalysisRecord{Name: "New", Notebook: "Old_generic_notebook.ipynb"}

		renamed, err := g.SetName(rec)
		if err != nil {
			t.Fatalf("SetName: %v", err)
		}
		if !renamed {
			t.Error("renamed = false, want true")
		}
		if rec.Notebook != "New_generic_notebook.ipynb" {
			t.Errorf("notebook = %q", rec.Notebook)
		}
		if store.Exists("Old_generic_notebook.ipynb") {
			t.Error("old file still present")
		}
		f, err := store.Open("New_generic_notebook.ipynb")
		if err != nil {
			t.Fatalf("Open renamed file: %v", err)
		}
		f.Close()

		updated := store.Updated()
		if len(updated) != 1 || updated[0] != "New_generic_notebook.ipynb" {
			t.Errorf("Updated() = %v, want the new name", updated)
		}
	})

	t.Run("assigns when recorded file absent", func(t *testing.T) {
		g, store := testGenerator(t)
		rec := &types.AnalysisRecord{Name: "New", Notebook: "Old_generic_notebook.ipynb"}

		renamed, err := g.SetName(rec)
		if err != nil {
			t.Fatalf("SetName: %v", err)
		}
		if renamed {
			t.Error("renamed = true with nothing to move")
		}
		if rec.Notebook != "New_generic_notebook.ipynb" {
			t.Errorf("notebook = %q", rec.Notebook)
		}
		if len(store.Updated()) != 0 {
			t.Error("nothing was written, nothing should be flagged")
		}
	})
}
