// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebook builds and rewrites the Jupyter notebooks backing
// analysis records. Generated cells carry a marker line so later passes
// can tell them apart from user-authored cells.
package notebook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Marker is the first line of every generated cell.
const Marker = "# Pre-defined block"

// SourceText is a cell source that unmarshals from either the string or
// the line-array form of nbformat and marshals back as a single string.
type SourceText string

func (s *SourceText) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = SourceText(str)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("cell source is neither a string nor a line array")
	}
	*s = SourceText(strings.Join(lines, ""))
	return nil
}

// Cell is one notebook cell.
type Cell struct {
	CellType       string         `json:"cell_type"`
	Source         SourceText     `json:"source"`
	Metadata       map[string]any `json:"metadata"`
	ExecutionCount *int           `json:"execution_count"`
	Outputs        []any          `json:"outputs"`
}

// NewCodeCell returns an unexecuted code cell with the given source.
func NewCodeCell(source string) Cell {
	return Cell{
		CellType: "code",
		Source:   SourceText(source),
		Metadata: map[string]any{},
		Outputs:  []any{},
	}
}

// MarshalJSON writes the nbformat shape for the cell type: only code
// cells carry the execution_count and outputs keys.
func (c Cell) MarshalJSON() ([]byte, error) {
	meta := c.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	m := map[string]any{
		"cell_type": c.CellType,
		"source":    string(c.Source),
		"metadata":  meta,
	}
	if c.CellType == "code" {
		outputs := c.Outputs
		if outputs == nil {
			outputs = []any{}
		}
		m["execution_count"] = c.ExecutionCount
		m["outputs"] = outputs
	}
	return json.Marshal(m)
}

// IsPredefined reports whether the cell starts with the generated-cell
// marker.
func (c Cell) IsPredefined() bool {
	return strings.HasPrefix(string(c.Source), Marker)
}

// Document is an nbformat 4 notebook.
type Document struct {
	Cells         []Cell         `json:"cells"`
	Metadata      map[string]any `json:"metadata"`
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
}

// Decode parses an nbformat JSON document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding notebook: %w", err)
	}
	return &doc, nil
}

// Bytes serializes the document as indented JSON.
func (d *Document) Bytes() ([]byte, error) {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encoding notebook: %w", err)
	}
	return []byte(b.String()), nil
}
