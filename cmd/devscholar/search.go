// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/devscholar/pkg/devscholar"
)

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search OpenAlex for papers by free text",
	Long: `Search runs a free-text paper search against OpenAlex and prints the
top matches. Useful for finding the identifier of a paper you only know
by title or topic.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", 10, "maximum number of results to return")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if query == "" {
		return fmt.Errorf("provide search terms")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	engine := devscholar.New(engineConfig(), os.Stderr)
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout())
	defer cancel()

	results, err := engine.Search(ctx, query, maxResults)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No results found.")
		return nil
	}
	printMetadata(results)
	return nil
}
