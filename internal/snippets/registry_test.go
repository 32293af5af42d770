// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snippets

import (
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	tests := []struct {
		category string
		want     []string
	}{
		{
			category: CategoryGeneric,
			want:     []string{"get_input_data"},
		},
		{
			category: CategoryXRD,
			want: []string{
				"xrd_plot_intensity_two_theta",
				"xrd_plot_logy_intensity_two_theta",
				"xrd_find_peaks",
				"xrd_save_analysis_results",
				"xrd_conduct_analysis",
				"xrd_voila_analysis",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := Default.Snippets(tt.category)
			if len(got) != len(tt.want) {
				t.Fatalf("Snippets(%q) returned %d entries, want %d", tt.category, len(got), len(tt.want))
			}
			for i, s := range got {
				if s.Name != tt.want[i] {
					t.Errorf("Snippets(%q)[%d] = %q, want %q", tt.category, i, s.Name, tt.want[i])
				}
				if !strings.HasSuffix(s.Source, "\n") {
					t.Errorf("snippet %q source does not end with a newline", s.Name)
				}
				if !strings.Contains(s.Source, "def "+s.Name+"(") {
					t.Errorf("snippet %q source does not define a function of the same name", s.Name)
				}
			}
		})
	}
}

func TestLookup(t *testing.T) {
	s, ok := Default.Lookup(CategoryXRD, "xrd_save_analysis_results")
	if !ok {
		t.Fatal("Lookup(XRD, xrd_save_analysis_results) not found")
	}
	if !strings.Contains(s.Source, "tmp_analysis_results.json") {
		t.Error("xrd_save_analysis_results does not write the results hand-off file")
	}

	if _, ok := Default.Lookup(CategoryGeneric, "xrd_find_peaks"); ok {
		t.Error("Lookup found an XRD snippet under the Generic category")
	}
	if _, ok := Default.Lookup("NMR", "anything"); ok {
		t.Error("Lookup found a snippet in an unknown category")
	}
}

func TestGetInputDataReadsProxyValues(t *testing.T) {
	s, ok := Default.Lookup(CategoryGeneric, "get_input_data")
	if !ok {
		t.Fatal("get_input_data missing from the Generic category")
	}
	// The loader walks the serialized inputs list, so its field access has
	// to match the json tags on the reference type.
	if !strings.Contains(s.Source, "entry['proxy_value']") {
		t.Error("get_input_data does not read the proxy_value field of input references")
	}
}

func TestRegisterAndCategories(t *testing.T) {
	r := NewRegistry()
	if cats := r.Categories(); len(cats) != 0 {
		t.Fatalf("fresh registry lists categories %v, want none", cats)
	}

	r.Register("NMR", Snippet{Name: "nmr_fit", Source: "def nmr_fit():\n    pass\n"})
	r.Register("NMR", Snippet{Name: "nmr_plot", Source: "def nmr_plot():\n    pass\n"})
	r.Register("Raman", Snippet{Name: "raman_baseline", Source: "def raman_baseline():\n    pass\n"})

	cats := r.Categories()
	if len(cats) != 2 || cats[0] != "NMR" || cats[1] != "Raman" {
		t.Fatalf("Categories() = %v, want [NMR Raman]", cats)
	}
	if !r.Has("NMR") {
		t.Error("Has(NMR) = false after Register")
	}
	if r.Has("XRD") {
		t.Error("Has(XRD) = true on a registry that never registered it")
	}

	got := r.Snippets("NMR")
	if len(got) != 2 || got[0].Name != "nmr_fit" || got[1].Name != "nmr_plot" {
		t.Fatalf("Snippets(NMR) = %v, want registration order preserved", got)
	}
}

func TestSourcesJoinsInOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("demo", Snippet{Name: "a", Source: "def a():\n    pass\n"})
	r.Register("demo", Snippet{Name: "b", Source: "def b():\n    pass\n"})

	got := r.Sources("demo")
	want := []string{"def a():\n    pass\n", "def b():\n    pass\n"}
	if len(got) != len(want) {
		t.Fatalf("Sources(demo) returned %d sources, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sources(demo)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if src := r.Sources("missing"); src != nil {
		t.Errorf("Sources(missing) = %v, want nil", src)
	}
}
