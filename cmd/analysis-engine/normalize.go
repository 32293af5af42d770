// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analysis-engine/internal/journal"
	"github.com/pdiddy/analysis-engine/internal/normalize"
	"github.com/pdiddy/analysis-engine/internal/notebook"
	"github.com/pdiddy/analysis-engine/internal/platform"
	"github.com/pdiddy/analysis-engine/internal/reconcile"
	"github.com/pdiddy/analysis-engine/internal/record"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [record file]",
	Short: "Run the full normalization pass for an analysis record",
	Long: `Normalize ingests pending analysis results, reconciles the record's input
references against the platform, aligns the notebook file name with the
record name, and regenerates the predefined notebook cells when the record
requests it. The updated record is written back unless --dry-run is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func runNormalize(cmd *cobra.Command, args []string) error {
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
	client := platform.NewClient(cfg.Platform, cfg.Platform.Token)
	rec := reconcile.New(client, client, log)

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		return printNormalizePlan(context.Background(), f, store, rec)
	}

	gen := notebook.NewGenerator(store, nil, cfg.Notebook, cfg.Platform.BaseURL, cfg.Platform.Token, log)

	var jnl normalize.Journal
	jstore, err := journal.Open(cfg.Journal)
	if err != nil {
		log.Warnw("journal unavailable, pass will not be recorded", "error", err)
	} else {
		defer jstore.Close()
		jnl = jstore
	}

	n := normalize.New(store, rec, gen, jnl, log)
	out, err := n.Normalize(context.Background(), f)
	if err != nil {
		return err
	}
	if err := record.Save(args[0], f); err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatNormalizeOutcome(f, out, jsonOutput)
}

// printNormalizePlan reports what a pass would change without writing
// anything. Reconciliation still queries the platform, which is read-only.
func printNormalizePlan(ctx context.Context, f *record.File, store platform.Store, rec *reconcile.Reconciler) error {
	out, err := rec.Reconcile(ctx, &f.Analysis)
	if err != nil {
		return err
	}

	fmt.Printf("record: %s\n", f.Analysis.Name)
	fmt.Printf("inputs: %d reconciled, %d dropped, %d duplicates\n",
		len(out.Refs), out.Dropped, out.Duplicates)

	name := notebook.FileName(f.Analysis.Name, f.Analysis.EffectiveType())
	if f.Analysis.Notebook != "" && f.Analysis.Notebook != name && store.Exists(f.Analysis.Notebook) {
		fmt.Printf("would rename notebook %s to %s\n", f.Analysis.Notebook, name)
	}
	if f.Analysis.ResetNotebook {
		mode := notebook.ModeFresh
		if store.Exists(name) {
			mode = notebook.ModePatch
		}
		fmt.Printf("would write notebook %s (%s)\n", name, mode)
	}
	if store.Exists(normalize.ResultsFile) {
		fmt.Printf("would ingest pending results from %s\n", normalize.ResultsFile)
	}
	return nil
}

func formatNormalizeOutcome(f *record.File, out normalize.Outcome, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("record: %s\n", f.Analysis.Name)
	fmt.Printf("inputs: %d reconciled, %d dropped\n", out.InputsTotal, out.InputsDropped)
	if out.ResultsIngested > 0 {
		fmt.Printf("results ingested: %d\n", out.ResultsIngested)
	}
	if out.Renamed {
		fmt.Printf("notebook renamed to %s\n", f.Analysis.Notebook)
	}
	if out.NotebookWritten {
		fmt.Printf("notebook written: %s (%s)\n", f.Analysis.Notebook, out.GenerationMode)
	}
	return nil
}

func init() {
	normalizeCmd.Flags().Bool("dry-run", false, "report planned changes without writing anything")
	normalizeCmd.Flags().Bool("json", false, "output the pass outcome as JSON")

	rootCmd.AddCommand(normalizeCmd)
}
