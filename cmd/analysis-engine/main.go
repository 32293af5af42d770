// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the analysis-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/analysis-engine/internal/logging"
	"github.com/pdiddy/analysis-engine/internal/secrets"
	"github.com/pdiddy/analysis-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if it is non-empty, or the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the analysis-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "analysis-engine",
	Short: "Normalization engine for lab analysis entries",
	Long: `analysis-engine keeps analysis records, their generated Jupyter notebooks,
and the lab data platform in agreement. The normalize subcommand runs the
full pass; inputs, notebook, record, snippets, and journal expose the
individual stages for inspection and scripting.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./analysis-engine.yaml or ~/.config/analysis-engine/analysis-engine.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "platform API root, e.g. https://lab.example.com/api/v1")
	rootCmd.PersistentFlags().String("upload-id", "", "upload holding the raw-file area")
	rootCmd.PersistentFlags().String("records-dir", "", "directory for analysis record files (default records)")
	rootCmd.PersistentFlags().String("raw-dir", "", "local working copy of the upload's raw files (default raw)")
	rootCmd.PersistentFlags().String("log-mode", "dev", "log output mode: dev or prod")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("analysis-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "analysis-engine"))
		}
	}

	viper.SetEnvPrefix("ANALYSIS_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig assembles the effective configuration: built-in defaults,
// overridden by the config file and environment through viper, then by
// flags. The API token falls back to the secrets directory.
func engineConfig(cmd *cobra.Command) types.EngineConfig {
	def := types.DefaultEngineConfig()
	viper.SetDefault("platform.base_url", def.Platform.BaseURL)
	viper.SetDefault("platform.upload_id", def.Platform.UploadID)
	viper.SetDefault("platform.owner", def.Platform.Owner)
	viper.SetDefault("platform.page_size", def.Platform.PageSize)
	viper.SetDefault("platform.timeout", def.Platform.Timeout)
	viper.SetDefault("platform.user_agent", def.Platform.UserAgent)
	viper.SetDefault("workspace.records_dir", def.Workspace.RecordsDir)
	viper.SetDefault("workspace.raw_dir", def.Workspace.RawDir)
	viper.SetDefault("notebook.blank_cells", def.Notebook.BlankCells)
	viper.SetDefault("notebook.kernel_name", def.Notebook.KernelName)
	viper.SetDefault("notebook.kernel_display_name", def.Notebook.KernelDisplayName)
	viper.SetDefault("journal.path", def.Journal.Path)
	viper.SetDefault("journal.max_results", def.Journal.MaxResults)

	cfg := types.EngineConfig{
		Platform: types.PlatformConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("platform.timeout"),
				UserAgent: viper.GetString("platform.user_agent"),
			},
			BaseURL:  strings.TrimRight(viper.GetString("platform.base_url"), "/"),
			UploadID: viper.GetString("platform.upload_id"),
			Token:    viper.GetString("platform.token"),
			Owner:    viper.GetString("platform.owner"),
			PageSize: viper.GetInt("platform.page_size"),
		},
		Workspace: types.WorkspaceConfig{
			RecordsDir: viper.GetString("workspace.records_dir"),
			RawDir:     viper.GetString("workspace.raw_dir"),
		},
		Notebook: types.NotebookConfig{
			BlankCells:        viper.GetInt("notebook.blank_cells"),
			KernelName:        viper.GetString("notebook.kernel_name"),
			KernelDisplayName: viper.GetString("notebook.kernel_display_name"),
		},
		Journal: types.JournalConfig{
			Path:       viper.GetString("journal.path"),
			MaxResults: viper.GetInt("journal.max_results"),
		},
	}

	f := cmd.Flags()
	if v, _ := f.GetString("base-url"); v != "" {
		cfg.Platform.BaseURL = strings.TrimRight(v, "/")
	}
	if v, _ := f.GetString("upload-id"); v != "" {
		cfg.Platform.UploadID = v
	}
	if v, _ := f.GetString("records-dir"); v != "" {
		cfg.Workspace.RecordsDir = v
	}
	if v, _ := f.GetString("raw-dir"); v != "" {
		cfg.Workspace.RawDir = v
	}

	cfg.Platform.Token = secretDefault(secrets.KeyAPIToken, cfg.Platform.Token)
	return cfg
}

// newLogger builds the stage logger from the root log-mode flag.
func newLogger(cmd *cobra.Command) (*zap.SugaredLogger, error) {
	mode, _ := cmd.Flags().GetString("log-mode")
	return logging.New(mode)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
