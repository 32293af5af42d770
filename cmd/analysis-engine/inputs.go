package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analysis-engine/internal/platform"
	"github.com/pdiddy/analysis-engine/internal/reconcile"
	"github.com/pdiddy/analysis-engine/internal/record"
)

var inputsCmd = &cobra.Command{
	Use:   "inputs",
	Short: "Inspect and reconcile a record's input references",
}

// --- reconcile subcommand ---

var inputsReconcileCmd = &cobra.Command{
	Use:   "reconcile [record file]",
	Short: "Merge, resolve, and deduplicate the record's input references",
	Long: `Reconcile gathers input candidates from the record's existing references,
its input entry class, and its stored query, resolves each against the
platform, and keeps one reference per entry. The record file is only
updated when --write is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runInputsReconcile,
}

func runInputsReconcile(cmd *cobra.Command, args []string) error {
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

	client := platform.NewClient(cfg.Platform, cfg.Platform.Token)
	rec := reconcile.New(client, client, log)

	out, err := rec.Reconcile(context.Background(), &f.Analysis)
	if err != nil {
		return err
	}

	write, _ := cmd.Flags().GetBool("write")
	if write {
		f.Analysis.Inputs = out.Refs
		if err := record.Save(args[0], f); err != nil {
			return err
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatReconcileOutput(out, jsonOutput)
}

func formatReconcileOutput(out reconcile.Output, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(out.Refs) == 0 {
		fmt.Println("No input references.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-30s  %-15s  %s\n", "Name", "Lab ID", "Proxy value")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, ref := range out.Refs {
		name := ref.Name
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		labID := ref.LabID
		if len(labID) > 15 {
			labID = labID[:12] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-30s  %-15s  %s\n", name, labID, ref.ProxyValue)
	}
	fmt.Fprintf(os.Stdout, "\n%d references (%d candidates, %d dropped, %d duplicates)\n",
		len(out.Refs), out.Candidates, out.Dropped, out.Duplicates)
	return nil
}

func init() {
	inputsReconcileCmd.Flags().Bool("write", false, "write the reconciled references back to the record file")
	inputsReconcileCmd.Flags().Bool("json", false, "output the reconciliation result as JSON")

	inputsCmd.AddCommand(inputsReconcileCmd)
	rootCmd.AddCommand(inputsCmd)
}
