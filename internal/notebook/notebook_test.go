// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSourceTextUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "string form", in: `"print(1)\n"`, want: "print(1)\n"},
		{name: "line array form", in: `["a = 1\n", "b = 2\n"]`, want: "a = 1\nb = 2\n"},
		{name: "empty array", in: `[]`, want: ""},
		{name: "number", in: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s SourceText
			err := json.Unmarshal([]byte(tt.in), &s)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) accepted invalid source", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.in, err)
			}
			if string(s) != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, s, tt.want)
			}
		})
	}
}

func TestIsPredefined(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{Marker + "\n\ncode", true},
		{Marker, true},
		{"# a comment\n" + Marker, false},
		{"print(1)", false},
		{"", false},
	}
	for _, tt := range tests {
		c := NewCodeCell(tt.source)
		if got := c.IsPredefined(); got != tt.want {
			t.Errorf("IsPredefined(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := &Document{
		Cells: []Cell{
			NewCodeCell(Marker + "\n\nx = 1\n"),
			NewCodeCell("user code\n"),
		},
		Metadata:      map[string]any{"trusted": true},
		NBFormat:      4,
		NBFormatMinor: 5,
	}

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	back, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back.NBFormat != 4 || back.NBFormatMinor != 5 {
		t.Errorf("nbformat = %d.%d, want 4.5", back.NBFormat, back.NBFormatMinor)
	}
	if len(back.Cells) != 2 {
		t.Fatalf("decoded %d cells, want 2", len(back.Cells))
	}
	for i := range doc.Cells {
		if back.Cells[i].Source != doc.Cells[i].Source {
			t.Errorf("cell %d source = %q, want %q", i, back.Cells[i].Source, doc.Cells[i].Source)
		}
	}
	if trusted, _ := back.Metadata["trusted"].(bool); !trusted {
		t.Error("trusted metadata lost in round trip")
	}
}

func TestCodeCellJSONShape(t *testing.T) {
	data, err := json.Marshal(NewCodeCell("x = 1\n"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	// Code cells must carry both keys even when unexecuted.
	if string(raw["execution_count"]) != "null" {
		t.Errorf("execution_count = %s, want null", raw["execution_count"])
	}
	if string(raw["outputs"]) != "[]" {
		t.Errorf("outputs = %s, want []", raw["outputs"])
	}
	if string(raw["cell_type"]) != `"code"` {
		t.Errorf("cell_type = %s, want \"code\"", raw["cell_type"])
	}
}

func TestMarkdownCellJSONShape(t *testing.T) {
	in := `{"cell_type": "markdown", "source": "## Notes\n", "metadata": {}}`
	var c Cell
	if err := json.Unmarshal([]byte(in), &c); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	// Markdown cells must not gain the code-only keys on a round trip.
	if _, ok := raw["execution_count"]; ok {
		t.Error("markdown cell gained execution_count")
	}
	if _, ok := raw["outputs"]; ok {
		t.Error("markdown cell gained outputs")
	}
	if string(raw["source"]) != `"## Notes\n"` {
		t.Errorf("source = %s, want \"## Notes\\n\"", raw["source"])
	}
}
