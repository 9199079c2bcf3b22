// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/devscholar/internal/export"
	"github.com/pdiddy/devscholar/pkg/devscholar"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cached metadata to YAML or JSON",
	Long: `Export writes every live cache entry to a YAML or JSON file, sorted
by identifier for stable diffs.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("out", "", "output file (default references.yaml or references.json)")
	exportCmd.Flags().String("split", "", "write one YAML file per record into this directory")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	split, _ := cmd.Flags().GetString("split")

	engine := devscholar.New(engineConfig(), os.Stderr)
	defer engine.Close()

	records := engine.CachedRecords()

	if split != "" {
		if err := export.WriteSplitYAML(split, records); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Exported %d record(s) to %s/\n", len(records), split)
		return nil
	}

	switch format {
	case "yaml", "":
		if out == "" {
			out = "references.yaml"
		}
		if err := export.WriteYAML(out, records); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = "references.json"
		}
		if err := export.WriteJSON(out, records); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Fprintf(os.Stdout, "Exported %d record(s) to %s\n", len(records), out)
	return nil
}
