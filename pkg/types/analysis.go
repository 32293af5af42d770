// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the analysis-engine:
// the analysis record and its input references, stored query payloads,
// result and step sections, and per-stage configuration.
package types

import "time"

// AnalysisType tags an analysis record with the kind of analysis performed.
// The set is open: deployments can register snippet categories for new tags.
// Snippets from the Generic category are always included in the notebook.
type AnalysisType string

const (
	AnalysisGeneric AnalysisType = "Generic"
	AnalysisXRD     AnalysisType = "XRD"
)

// InputReference links an analysis to one referenced data entry.
type InputReference struct {
	// ProxyValue is a path-like string identifying the remote section for
	// lazy resolution, e.g. "../uploads/{upload_id}/archive/{entry_id}#/data".
	// At most one reference per distinct proxy value is retained.
	ProxyValue string `json:"proxy_value" yaml:"proxy_value"`

	// Name is the display name of the reference. Reconciliation fills it
	// from the referenced section's lab ID, falling back to its name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// LabID is the user-assigned stable identifier of the referenced sample
	// or entity, when known. At most one reference per distinct lab ID is
	// retained.
	LabID string `json:"lab_id,omitempty" yaml:"lab_id,omitempty"`
}

// EntryMeta identifies one platform entry as returned by search.
type EntryMeta struct {
	EntryID  string `json:"entry_id" yaml:"entry_id"`
	UploadID string `json:"upload_id" yaml:"upload_id"`
	Mainfile string `json:"mainfile,omitempty" yaml:"mainfile,omitempty"`
}

// ResolvedSection is the subset of a referenced data section that
// reconciliation needs: the display name and the lab ID.
type ResolvedSection struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	LabID string `json:"lab_id,omitempty" yaml:"lab_id,omitempty"`
}

// StoredQuery is a saved platform search whose result set seeds input
// reconciliation without re-querying.
type StoredQuery struct {
	// Class is the section class the query filtered on, when any.
	Class string `json:"class,omitempty" yaml:"class,omitempty"`

	// Data holds the entries the query returned.
	Data []EntryMeta `json:"data" yaml:"data"`

	// RunAt records when the query was executed.
	RunAt time.Time `json:"run_at,omitempty" yaml:"run_at,omitempty"`
}

// AnalysisResult is a named result entity produced by an analysis run.
type AnalysisResult struct {
	// Name identifies the result within the record's outputs.
	Name string `json:"name" yaml:"name"`

	// Payload carries the result body as free-form data, e.g. XRD peak
	// positions and intensities.
	Payload map[string]any `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// AnalysisStep is one step of an analysis activity.
type AnalysisStep struct {
	// Name identifies the step.
	Name string `json:"name" yaml:"name"`

	// StartTime records when the step began.
	StartTime time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"`

	// Comment is free text about the step.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	// Results names the outputs this step produced.
	Results []string `json:"results,omitempty" yaml:"results,omitempty"`
}

// AnalysisRecord is the analysis section of an ELN entry: entity fields,
// notebook bookkeeping, and the reconciled input references.
type AnalysisRecord struct {
	// Name is the user-facing name of the analysis. It drives the canonical
	// notebook file name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// LabID is the user-assigned stable identifier of this analysis entry.
	LabID string `json:"lab_id,omitempty" yaml:"lab_id,omitempty"`

	// Datetime records when the analysis was created or performed.
	Datetime time.Time `json:"datetime,omitempty" yaml:"datetime,omitempty"`

	// Location names where the analysis took place.
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Description is free text about the analysis.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// AnalysisType selects which predefined notebook cells are generated.
	AnalysisType AnalysisType `json:"analysis_type,omitempty" yaml:"analysis_type,omitempty"`

	// Notebook is the generated notebook's file name in the raw area.
	Notebook string `json:"notebook,omitempty" yaml:"notebook,omitempty"`

	// ResetNotebook requests regeneration of the predefined cells on the
	// next normalization pass. Cleared after the notebook is written.
	ResetNotebook bool `json:"reset_notebook" yaml:"reset_notebook"`

	// Inputs are the reconciled references to the analysed entries.
	Inputs []InputReference `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	// QueryForInputs seeds reconciliation with a saved search result set.
	QueryForInputs *StoredQuery `json:"query_for_inputs,omitempty" yaml:"query_for_inputs,omitempty"`

	// InputEntryClass pulls every visible entry of this class in as an input.
	InputEntryClass string `json:"input_entry_class,omitempty" yaml:"input_entry_class,omitempty"`

	// Steps are the ordered steps of the analysis activity.
	Steps []AnalysisStep `json:"steps,omitempty" yaml:"steps,omitempty"`

	// Outputs are the named results ingested from completed analysis runs.
	Outputs []AnalysisResult `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// EffectiveType returns the record's analysis type, defaulting to Generic.
func (r *AnalysisRecord) EffectiveType() AnalysisType {
	if r.AnalysisType == "" {
		return AnalysisGeneric
	}
	return r.AnalysisType
}
