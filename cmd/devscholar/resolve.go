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
	"github.com/pdiddy/devscholar/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [identifiers...]",
	Short: "Resolve paper identifiers to bibliographic metadata",
	Long: `Resolve looks up paper identifiers (arxiv:2301.07041, doi:10.1038/...,
arXiv URLs, and so on) against their metadata providers. Results come
from the local cache when fresh; misses are fetched concurrently and
cached for subsequent runs.

Use --offline to consult only the cache.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().Bool("json", false, "output metadata as JSON")
	resolveCmd.Flags().Bool("offline", false, "consult only the cache, never the network")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more paper identifiers (e.g. arxiv:1706.03762, doi:10.1038/nature14539)")
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	offline, _ := cmd.Flags().GetBool("offline")

	engine := devscholar.New(engineConfig(), os.Stderr)
	defer engine.Close()

	var refs []types.Reference
	for _, arg := range args {
		found := engine.ExtractLine(arg)
		if len(found) == 0 {
			fmt.Fprintf(os.Stderr, "warning: %q is not a recognized identifier\n", arg)
			continue
		}
		refs = append(refs, found...)
	}
	if len(refs) == 0 {
		return fmt.Errorf("no recognized identifiers")
	}

	var records []types.Metadata
	if offline {
		for _, ref := range refs {
			if m := engine.GetCached(ref.Type, ref.ID); m != nil {
				records = append(records, *m)
			} else {
				fmt.Fprintf(os.Stderr, "warning: %s not in cache\n", ref.Key())
			}
		}
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout())
		defer cancel()
		records = engine.Resolve(ctx, refs)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	printMetadata(records)
	return nil
}

func printMetadata(records []types.Metadata) {
	for i, m := range records {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintf(os.Stdout, "%s\n", m.Key())
		if m.Title != "" {
			fmt.Fprintf(os.Stdout, "  title:     %s\n", m.Title)
		}
		if len(m.Authors) > 0 {
			fmt.Fprintf(os.Stdout, "  authors:   %s\n", strings.Join(m.Authors, ", "))
		}
		if m.Published != "" {
			fmt.Fprintf(os.Stdout, "  published: %s\n", m.Published)
		}
		if m.Venue != "" {
			fmt.Fprintf(os.Stdout, "  venue:     %s\n", m.Venue)
		}
		if m.DOI != "" {
			fmt.Fprintf(os.Stdout, "  doi:       %s\n", m.DOI)
		}
		if m.AbstractURL != "" {
			fmt.Fprintf(os.Stdout, "  url:       %s\n", m.AbstractURL)
		}
		if m.CitationCount > 0 {
			fmt.Fprintf(os.Stdout, "  citations: %d\n", m.CitationCount)
		}
		if m.Partial {
			fmt.Fprintf(os.Stdout, "  (partial record)\n")
		}
	}
	fmt.Fprintf(os.Stdout, "\n%d record(s)\n", len(records))
}
