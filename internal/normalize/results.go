// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/pdiddy/analysis-engine/pkg/types"
)

// ResultsFile is written into the raw area by the analysis notebook and
// picked up on the next pass.
const ResultsFile = "tmp_analysis_results.json"

// ingestResults moves pending notebook results into the record's outputs
// and deletes the temp file. A malformed or unreadable file is left in
// place with a warning and nothing is appended.
func (n *Normalizer) ingestResults(rec *types.AnalysisRecord) int {
	if !n.Store.Exists(ResultsFile) {
		return 0
	}
	f, err := n.Store.Open(ResultsFile)
	if err != nil {
		n.Log.Warnw("cannot open results file", "file", ResultsFile, "error", err)
		return 0
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		n.Log.Warnw("cannot read results file", "file", ResultsFile, "error", err)
		return 0
	}

	results, ok := decodeResults(data)
	if !ok {
		n.Log.Warnw("malformed results file left in place", "file", ResultsFile)
		return 0
	}

	for _, res := range results {
		appendResult(rec, res)
	}
	if err := n.Store.Remove(ResultsFile); err != nil {
		n.Log.Warnw("cannot remove results file", "file", ResultsFile, "error", err)
	}
	n.Log.Infow("ingested analysis results", "count", len(results))
	return len(results)
}

// decodeResults parses the temp file. A document whose top-level values
// are all objects is a result-name → payload map, appended in name order;
// any other object is one unnamed result. Anything else is malformed.
func decodeResults(data []byte) ([]types.AnalysisResult, bool) {
	var byName map[string]map[string]any
	if err := json.Unmarshal(data, &byName); err == nil && len(byName) > 0 {
		allObjects := true
		for _, payload := range byName {
			if payload == nil {
				allObjects = false
				break
			}
		}
		if allObjects {
			names := make([]string, 0, len(byName))
			for name := range byName {
				names = append(names, name)
			}
			sort.Strings(names)

			results := make([]types.AnalysisResult, 0, len(names))
			for _, name := range names {
				results = append(results, types.AnalysisResult{Name: name, Payload: byName[name]})
			}
			return results, true
		}
	}

	var single map[string]any
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, false
	}
	return []types.AnalysisResult{{Payload: single}}, true
}

// appendResult replaces an existing output with the same name, otherwise
// appends.
func appendResult(rec *types.AnalysisRecord, res types.AnalysisResult) {
	for i := range rec.Outputs {
		if rec.Outputs[i].Name == res.Name {
			rec.Outputs[i] = res
			return
		}
	}
	rec.Outputs = append(rec.Outputs, res)
}
