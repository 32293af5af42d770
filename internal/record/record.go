// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record loads and saves analysis record files. A record file is
// the YAML working copy of one analysis entry: the analysis section under
// the "analysis" key plus the platform identity of the entry holding it.
package record

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/analysis-engine/pkg/types"
)

// File is one analysis record on disk.
type File struct {
	UploadID string               `yaml:"upload_id,omitempty" json:"upload_id,omitempty"`
	EntryID  string               `yaml:"entry_id,omitempty" json:"entry_id,omitempty"`
	Analysis types.AnalysisRecord `yaml:"analysis" json:"analysis"`
}

// New builds a record file for a fresh analysis.
func New(name string, typ types.AnalysisType, inputClass string) *File {
	return &File{
		Analysis: types.AnalysisRecord{
			Name:            name,
			AnalysisType:    typ,
			Datetime:        time.Now().UTC(),
			InputEntryClass: inputClass,
			ResetNotebook:   true,
		},
	}
}

// Load reads a record file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing record %s: %w", path, err)
	}
	return &f, nil
}

// Save writes a record file, creating parent directories as needed.
func Save(path string, f *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating records directory: %w", err)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing record %s: %w", path, err)
	}
	return nil
}

// Path returns the conventional file path for a record name inside the
// records directory.
func Path(recordsDir, name string) string {
	if name == "" {
		name = "unnamed"
	}
	return filepath.Join(recordsDir, strings.ReplaceAll(name, " ", "_")+".analysis.yaml")
}
