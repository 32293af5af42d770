package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/analysis-engine/internal/snippets"
)

var snippetsCmd = &cobra.Command{
	Use:   "snippets",
	Short: "List and show the predefined notebook code snippets",
}

// --- list subcommand ---

var snippetsListCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List snippet categories, or the snippets of one category",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnippetsList,
}

func runSnippetsList(cmd *cobra.Command, args []string) error {
	reg := snippets.Default

	if len(args) == 0 {
		for _, category := range reg.Categories() {
			fmt.Printf("%s (%d snippets)\n", category, len(reg.Snippets(category)))
		}
		return nil
	}

	category := args[0]
	if !reg.Has(category) {
		return fmt.Errorf("unknown snippet category %q", category)
	}
	for _, s := range reg.Snippets(category) {
		fmt.Println(s.Name)
	}
	return nil
}

// --- show subcommand ---

var snippetsShowCmd = &cobra.Command{
	Use:   "show [category] [name]",
	Short: "Print one snippet's Python source",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnippetsShow,
}

func runSnippetsShow(cmd *cobra.Command, args []string) error {
	s, ok := snippets.Default.Lookup(args[0], args[1])
	if !ok {
		return fmt.Errorf("no snippet %q in category %q", args[1], args[0])
	}
	fmt.Print(s.Source)
	return nil
}

func init() {
	snippetsCmd.AddCommand(snippetsListCmd)
	snippetsCmd.AddCommand(snippetsShowCmd)

	rootCmd.AddCommand(snippetsCmd)
}
