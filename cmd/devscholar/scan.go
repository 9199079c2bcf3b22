// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/devscholar/internal/refextract"
	"github.com/pdiddy/devscholar/pkg/devscholar"
	"github.com/pdiddy/devscholar/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "Scan source files for paper references",
	Long: `Scan reads source files, looks for paper identifiers inside comment
lines, and prints the references it finds. With no files, scan reads
from standard input.

Use --all-lines to match identifiers anywhere, not just in comments, and
--resolve to also fetch metadata for everything found.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().Bool("json", false, "output references as JSON")
	scanCmd.Flags().Bool("all-lines", false, "scan every line, not just comment lines")
	scanCmd.Flags().Bool("resolve", false, "resolve found references to metadata")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	allLines, _ := cmd.Flags().GetBool("all-lines")
	doResolve, _ := cmd.Flags().GetBool("resolve")

	extractor := refextract.NewExtractor(nil)

	type fileRefs struct {
		File       string            `json:"file"`
		References []types.Reference `json:"references"`
	}
	var scanned []fileRefs

	scanOne := func(name string, lines []string) {
		var refs []types.Reference
		if allLines {
			for i, line := range lines {
				for _, ref := range extractor.ScanLine(line) {
					ref.Line = i
					refs = append(refs, ref)
				}
			}
		} else {
			refs = extractor.ScanDocument(lines)
		}
		scanned = append(scanned, fileRefs{File: name, References: refs})
	}

	if len(args) == 0 {
		lines, err := readLines(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		scanOne("-", lines)
	}
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		lines, err := readLines(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		scanOne(path, lines)
	}

	if doResolve {
		var all []types.Reference
		for _, fr := range scanned {
			all = append(all, fr.References...)
		}
		engine := devscholar.New(engineConfig(), os.Stderr)
		defer engine.Close()

		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout())
		defer cancel()
		records := engine.Resolve(ctx, all)

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}
		printMetadata(records)
		return nil
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(scanned)
	}

	total := 0
	for _, fr := range scanned {
		for _, ref := range fr.References {
			fmt.Fprintf(os.Stdout, "%s:%d: %s:%s", fr.File, ref.Line+1, ref.Type, ref.ID)
			if ref.Version != "" {
				fmt.Fprintf(os.Stdout, " (v%s)", ref.Version)
			}
			fmt.Fprintln(os.Stdout)
			total++
		}
	}
	fmt.Fprintf(os.Stdout, "\n%d reference(s)\n", total)
	return nil
}

func readLines(f *os.File) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}
