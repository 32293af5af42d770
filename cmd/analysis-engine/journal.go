package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analysis-engine/internal/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect recorded normalization runs",
}

// --- list subcommand ---

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent normalization runs, newest first",
	RunE:  runJournalList,
}

func runJournalList(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)

	store, err := journal.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer store.Close()

	recordName, _ := cmd.Flags().GetString("record")
	limit, _ := cmd.Flags().GetInt("limit")

	runs, err := store.List(context.Background(), journal.ListOptions{
		RecordName: recordName,
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatJournalRuns(runs, jsonOutput)
}

func formatJournalRuns(runs []journal.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-25s  %-8s  %-6s  %-7s  %-8s  %s\n",
		"Started", "Record", "Type", "Mode", "Inputs", "Results", "Duration")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 95))
	for _, r := range runs {
		name := r.RecordName
		if len(name) > 25 {
			name = name[:22] + "..."
		}
		mode := r.GenerationMode
		if mode == "" {
			mode = "-"
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-25s  %-8s  %-6s  %-7d  %-8d  %s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			name, r.AnalysisType, mode, r.InputsTotal, r.ResultsIngested,
			r.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

func init() {
	journalListCmd.Flags().String("record", "", "filter runs by record name")
	journalListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = use default)")
	journalListCmd.Flags().Bool("json", false, "output runs as JSON")

	journalCmd.AddCommand(journalListCmd)

	rootCmd.AddCommand(journalCmd)
}
