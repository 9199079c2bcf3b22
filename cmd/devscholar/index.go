// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/devscholar/internal/index"
	"github.com/pdiddy/devscholar/pkg/devscholar"
	"github.com/pdiddy/devscholar/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Maintain and query the full-text metadata index",
	Long: `Index maintains a SQLite FTS database over resolved metadata. Use
"index rebuild" to populate it from the cache and "index query" to
search titles, abstracts, authors, and venues.`,
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the index from cached metadata",
	RunE:  runIndexRebuild,
}

var indexQueryCmd = &cobra.Command{
	Use:   "query [terms...]",
	Short: "Search the index with FTS5 full-text queries",
	RunE:  runIndexQuery,
}

func init() {
	indexQueryCmd.Flags().String("type", "", "filter by identifier type: arxiv, doi, s2cid, openalex, pubmed, ieee")
	indexQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexQueryCmd)

	rootCmd.AddCommand(indexCmd)
}

func runIndexRebuild(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	engine := devscholar.New(cfg, os.Stderr)
	defer engine.Close()

	store, err := index.NewStore(cfg.Index)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.RebuildFrom(context.Background(), engine.CachedRecords())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "indexed %d record(s)\n", n)
	return nil
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	idType, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	opts := index.QueryOptions{
		Query:      strings.Join(args, " "),
		Type:       types.IdentifierType(idType),
		MaxResults: limit,
	}
	if opts.Query == "" && opts.Type == "" {
		return fmt.Errorf("query or --type required")
	}

	store, err := index.NewStore(engineConfig().Index)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(context.Background(), opts)
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
