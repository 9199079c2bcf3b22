// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/devscholar/pkg/devscholar"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the metadata cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := devscholar.New(engineConfig(), os.Stderr)
		defer engine.Close()

		stats := engine.CacheStats()
		fmt.Fprintf(os.Stdout, "memory entries: %d\ndisk entries:   %d\n",
			stats.MemoryCount, stats.DiskCount)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all cached metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		// No Close here: closing flushes, which would recreate the
		// snapshot file just removed.
		engine := devscholar.New(engineConfig(), os.Stderr)

		if err := engine.ClearCache(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "cache cleared")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
