package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analysis-engine/internal/platform"
	"github.com/pdiddy/analysis-engine/internal/record"
	"github.com/pdiddy/analysis-engine/pkg/types"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Create analysis records and push them to the platform",
}

// --- create subcommand ---

var recordCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new analysis record file",
	Long: `Create writes a fresh analysis record into the records directory. The
record starts with its reset flag set, so the next normalization pass
generates its notebook. With --push the record is also uploaded as a new
platform entry.`,
	RunE: runRecordCreate,
}

func runRecordCreate(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)

	name, _ := cmd.Flags().GetString("name")
	typ, _ := cmd.Flags().GetString("type")
	inputClass, _ := cmd.Flags().GetString("input-class")

	f := record.New(name, types.AnalysisType(typ), inputClass)
	path := record.Path(cfg.Workspace.RecordsDir, name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("record %s already exists", path)
	}
	if err := record.Save(path, f); err != nil {
		return err
	}
	fmt.Printf("created %s\n", path)

	push, _ := cmd.Flags().GetBool("push")
	if !push {
		return nil
	}

	proxy, err := pushRecord(context.Background(), cfg, f)
	if err != nil {
		return err
	}
	if err := record.Save(path, f); err != nil {
		return err
	}
	fmt.Printf("pushed %s\n", proxy)
	return nil
}

// --- push subcommand ---

var recordPushCmd = &cobra.Command{
	Use:   "push [record file]",
	Short: "Upload the record as a platform entry",
	Long: `Push writes the record's analysis section into the upload's raw-file
area and waits for processing. The resulting entry identity is stored back
in the record file, and a copy of the uploaded payload is kept in the
local raw directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecordPush,
}

func runRecordPush(cmd *cobra.Command, args []string) error {
	cfg := engineConfig(cmd)

	f, err := record.Load(args[0])
	if err != nil {
		return err
	}

	proxy, err := pushRecord(context.Background(), cfg, f)
	if err != nil {
		return err
	}
	if err := record.Save(args[0], f); err != nil {
		return err
	}

	fmt.Printf("pushed %s\n", proxy)
	return nil
}

// --- shared helpers ---

// pushRecord uploads f's analysis section as a new entry and stores the
// returned identity on f. The archive file name is probed against the
// local raw directory so repeated pushes never overwrite an earlier
// archive, and the uploaded payload is mirrored there.
func pushRecord(ctx context.Context, cfg types.EngineConfig, f *record.File) (string, error) {
	if cfg.Platform.UploadID == "" {
		return "", fmt.Errorf("upload id required: set --upload-id or platform.upload_id")
	}

	store, err := platform.NewDirStore(cfg.Workspace.RawDir)
	if err != nil {
		return "", err
	}
	client := platform.NewClient(cfg.Platform, cfg.Platform.Token)

	prefix := strings.ReplaceAll(f.Analysis.Name, " ", "_")
	fileName := platform.UniqueName(store, prefix, "archive.json")

	proxy, err := client.CreateEntry(ctx, f.Analysis, fileName)
	if err != nil {
		return "", err
	}

	if uploadID, entryID, ok := platform.ParseProxy(proxy); ok {
		f.UploadID = uploadID
		f.EntryID = entryID
	}

	payload, err := json.MarshalIndent(map[string]any{"data": f.Analysis}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding archive payload: %w", err)
	}
	if err := store.Write(fileName, payload); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not keep local copy %s: %v\n", fileName, err)
	}

	return proxy, nil
}

func init() {
	recordCreateCmd.Flags().String("name", "", "name of the analysis")
	recordCreateCmd.Flags().String("type", "", "analysis type tag, e.g. Generic or XRD")
	recordCreateCmd.Flags().String("input-class", "", "section class whose entries become inputs")
	recordCreateCmd.Flags().Bool("push", false, "also upload the record as a platform entry")

	recordCmd.AddCommand(recordCreateCmd)
	recordCmd.AddCommand(recordPushCmd)

	rootCmd.AddCommand(recordCmd)
}
