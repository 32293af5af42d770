package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analysis-engine/internal/launch"
	"github.com/pdiddy/analysis-engine/internal/notebook"
	"github.com/pdiddy/analysis-engine/internal/platform"
	"github.com/pdiddy/analysis-engine/internal/record"
)

var notebookCmd = &cobra.Command{
	Use:   "notebook",
	Short: "Generate, rename, open, and export analysis notebooks",
}

// --- generate subcommand ---

var notebookGenerateCmd = &cobra.Command{
	Use:   "generate [record file]",
	Short: "Write the record's notebook with regenerated predefined cells",
	Long: `Generate writes the record's notebook into the raw-file area. A fresh
notebook carries the predefined cells plus blank starter cells; when the
notebook already exists its predefined cells are replaced and the user's
cells kept. The record file is updated with the notebook name.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotebookGenerate,
}

func runNotebookGenerate(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	f, err := record.Load(args[0])
	if err != nil {
		return err
	}

	store, err := platform.NewDirStore(cfg.Workspace.RawDir)
	if err != nil {
		return err
	}
	gen := notebook.NewGenerator(store, nil, cfg.Notebook, cfg.Platform.BaseURL, cfg.Platform.Token, log)

	if _, err := gen.SetName(&f.Analysis); err != nil {
		return err
	}
	mode, err := gen.Generate(&f.Analysis, f.EntryID)
	if err != nil {
		return err
	}
	if err := record.Save(args[0], f); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%s)\n", f.Analysis.Notebook, mode)
	return nil
}

// --- name subcommand ---

var notebookNameCmd = &cobra.Command{
	Use:   "name [record file]",
	Short: "Align the notebook file name with the record name",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotebookName,
}

func runNotebookName(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	f, err := record.Load(args[0])
	if err != nil {
		return err
	}

	store, err := platform.NewDirStore(cfg.Workspace.RawDir)
	if err != nil {
		return err
	}
	gen := notebook.NewGenerator(store, nil, cfg.Notebook, cfg.Platform.BaseURL, cfg.Platform.Token, log)

	renamed, err := gen.SetName(&f.Analysis)
	if err != nil {
		return err
	}
	if err := record.Save(args[0], f); err != nil {
		return err
	}

	if renamed {
		fmt.Printf("renamed notebook to %s\n", f.Analysis.Notebook)
	} else {
		fmt.Printf("notebook name: %s\n", f.Analysis.Notebook)
	}
	return nil
}

// --- open subcommand ---

var notebookOpenCmd = &cobra.Command{
	Use:   "open [record file]",
	Short: "Open the record's notebook with voila or jupyter lab",
	Long: `Open launches the record's notebook in the first available tool: voila
for a rendered dashboard view, falling back to jupyter lab for editing.
The command blocks until the tool exits.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotebookOpen,
}

func runNotebookOpen(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)

	f, err := record.Load(args[0])
	if err != nil {
		return err
	}
	if f.Analysis.Notebook == "" {
		return fmt.Errorf("record has no notebook: run notebook generate first")
	}

	tool, err := launch.DetectTool()
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.Workspace.RawDir, f.Analysis.Notebook)
	fmt.Fprintf(os.Stderr, "Opening %s with %s\n", path, tool.Name())
	return tool.Open(context.Background(), path, os.Stdout, os.Stderr)
}

// --- export subcommand ---

var notebookExportCmd = &cobra.Command{
	Use:   "export [record file]",
	Short: "Export the record's notebook via jupyter nbconvert",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotebookExport,
}

func runNotebookExport(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)

	f, err := record.Load(args[0])
	if err != nil {
		return err
	}
	if f.Analysis.Notebook == "" {
		return fmt.Errorf("record has no notebook: run notebook generate first")
	}

	format, _ := cmd.Flags().GetString("format")
	path := filepath.Join(cfg.Workspace.RawDir, f.Analysis.Notebook)
	return launch.Export(context.Background(), path, format, os.Stdout, os.Stderr)
}

func init() {
	notebookExportCmd.Flags().String("format", "html", "nbconvert output format, e.g. html or pdf")

	notebookCmd.AddCommand(notebookGenerateCmd)
	notebookCmd.AddCommand(notebookNameCmd)
	notebookCmd.AddCommand(notebookOpenCmd)
	notebookCmd.AddCommand(notebookExportCmd)

	rootCmd.AddCommand(notebookCmd)
}
