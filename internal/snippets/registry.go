// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snippets holds the catalog of analysis functions embedded into
// generated notebooks. A registry maps a category tag to an ordered list of
// Python function sources; categories correspond to analysis types, and the
// Generic category is included in every notebook. The catalog is explicit:
// sources are registered up front, never discovered by introspection.
package snippets

import "sort"

// Snippet is one analysis function: its name and its Python source. The
// source carries its own imports so the generated cell is self-contained,
// and ends with a single trailing newline.
type Snippet struct {
	Name   string
	Source string
}

// Registry maps category tags to ordered snippet lists.
type Registry struct {
	categories map[string][]Snippet
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{categories: make(map[string][]Snippet)}
}

// Register appends s to the category, preserving registration order.
// Deployments call this to add functions for new analysis types.
func (r *Registry) Register(category string, s Snippet) {
	r.categories[category] = append(r.categories[category], s)
}

// Snippets returns the category's snippets in registration order, or nil
// when the category has none.
func (r *Registry) Snippets(category string) []Snippet {
	list := r.categories[category]
	if len(list) == 0 {
		return nil
	}
	out := make([]Snippet, len(list))
	copy(out, list)
	return out
}

// Sources returns the category's snippet sources in registration order.
func (r *Registry) Sources(category string) []string {
	list := r.categories[category]
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Source
	}
	return out
}

// Lookup finds a snippet by category and name.
func (r *Registry) Lookup(category, name string) (Snippet, bool) {
	for _, s := range r.categories[category] {
		if s.Name == name {
			return s, true
		}
	}
	return Snippet{}, false
}

// Has reports whether the category has any snippets.
func (r *Registry) Has(category string) bool {
	return len(r.categories[category]) > 0
}

// Categories returns the registered category tags, sorted.
func (r *Registry) Categories() []string {
	out := make([]string, 0, len(r.categories))
	for c := range r.categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Default is the built-in catalog. The Generic category holds the data
// loader every notebook needs; XRD holds the diffraction analysis chain.
var Default = NewRegistry()

func init() {
	Default.Register(CategoryGeneric, Snippet{Name: "get_input_data", Source: srcGetInputData})

	Default.Register(CategoryXRD, Snippet{Name: "xrd_plot_intensity_two_theta", Source: srcXRDPlotIntensityTwoTheta})
	Default.Register(CategoryXRD, Snippet{Name: "xrd_plot_logy_intensity_two_theta", Source: srcXRDPlotLogyIntensityTwoTheta})
	Default.Register(CategoryXRD, Snippet{Name: "xrd_find_peaks", Source: srcXRDFindPeaks})
	Default.Register(CategoryXRD, Snippet{Name: "xrd_save_analysis_results", Source: srcXRDSaveAnalysisResults})
	Default.Register(CategoryXRD, Snippet{Name: "xrd_conduct_analysis", Source: srcXRDConductAnalysis})
	Default.Register(CategoryXRD, Snippet{Name: "xrd_voila_analysis", Source: srcXRDVoilaAnalysis})
}
