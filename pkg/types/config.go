// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "analysis-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PlatformConfig holds settings for talking to the lab data platform API.
type PlatformConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the root of the platform API, without a trailing slash
	// (e.g. "https://lab.example.com/api/v1").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// UploadID scopes raw-file operations and entry creation to one upload.
	UploadID string `json:"upload_id" yaml:"upload_id"`

	// Token authenticates API requests. Usually loaded from .secrets/
	// rather than the config file.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Owner is the visibility scope for class searches (default "visible").
	Owner string `json:"owner" yaml:"owner"`

	// PageSize bounds class-search result pages (default 10000).
	PageSize int `json:"page_size" yaml:"page_size"`
}

// WorkspaceConfig holds the local working directories.
type WorkspaceConfig struct {
	// RecordsDir is the directory for analysis record files.
	RecordsDir string `json:"records_dir" yaml:"records_dir"`

	// RawDir is the local working copy of the upload's raw-file area, where
	// generated notebooks live.
	RawDir string `json:"raw_dir" yaml:"raw_dir"`
}

// NotebookConfig holds settings for notebook generation.
type NotebookConfig struct {
	// BlankCells is the number of empty code cells appended on fresh
	// generation (default 3).
	BlankCells int `json:"blank_cells" yaml:"blank_cells"`

	// KernelName is the kernelspec name written to generated notebooks.
	KernelName string `json:"kernel_name" yaml:"kernel_name"`

	// KernelDisplayName is the kernelspec display name.
	KernelDisplayName string `json:"kernel_display_name" yaml:"kernel_display_name"`
}

// JournalConfig holds settings for the normalization run journal.
type JournalConfig struct {
	// Path is the SQLite database file (e.g. "journal/analysis-engine.db").
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of listed runs (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Platform  PlatformConfig  `json:"platform" yaml:"platform"`
	Workspace WorkspaceConfig `json:"workspace" yaml:"workspace"`
	Notebook  NotebookConfig  `json:"notebook" yaml:"notebook"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
}

// DefaultEngineConfig returns the built-in defaults. Flags, config files,
// and environment variables override individual fields.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Platform: PlatformConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "analysis-engine/0.1",
			},
			Owner:    "visible",
			PageSize: 10000,
		},
		Workspace: WorkspaceConfig{
			RecordsDir: "records",
			RawDir:     "raw",
		},
		Notebook: NotebookConfig{
			BlankCells:        3,
			KernelName:        "python3",
			KernelDisplayName: "Python 3",
		},
		Journal: JournalConfig{
			Path:       "journal/analysis-engine.db",
			MaxResults: 20,
		},
	}
}
