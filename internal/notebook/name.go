// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"fmt"
	"strings"

	"github.com/pdiddy/analysis-engine/pkg/types"
)

// FileName returns the canonical notebook file name for a record name and
// analysis type, or "untitled.ipynb" when the record name is unset.
func FileName(recordName string, typ types.AnalysisType) string {
	if recordName == "" {
		return "untitled.ipynb"
	}
	return strings.ReplaceAll(recordName, " ", "_") + "_" + strings.ToLower(string(typ)) + "_notebook.ipynb"
}

// SetName reconciles the record's notebook file name with the canonical
// one. An unset name is assigned without touching storage. A recorded name
// that differs renames the backing file and flags the new name for
// reprocessing; when the recorded file is absent the canonical name is
// assigned with nothing to move. The renamed return reports whether a
// storage rename happened.
func (g *Generator) SetName(rec *types.AnalysisRecord) (renamed bool, err error) {
	want := FileName(rec.Name, rec.EffectiveType())
	switch {
	case rec.Notebook == "":
		rec.Notebook = want
		return false, nil
	case rec.Notebook == want:
		return false, nil
	}

	if !g.Store.Exists(rec.Notebook) {
		g.Log.Debugw("recorded notebook absent, assigning canonical name",
			"recorded", rec.Notebook, "file", want)
		rec.Notebook = want
		return false, nil
	}

	if err := g.Store.Rename(rec.Notebook, want); err != nil {
		return false, fmt.Errorf("renaming notebook %s to %s: %w", rec.Notebook, want, err)
	}
	g.Store.MarkUpdated(want)
	g.Log.Infow("renamed notebook", "from", rec.Notebook, "to", want)
	rec.Notebook = want
	return true, nil
}
