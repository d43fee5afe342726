// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubfetch/internal/memo"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the persistent lookup cache",
	Long: `Cache manages the SQLite file holding resolved CrossRef and Altmetric
lookups. Entries never expire on their own; clear them to force fresh
lookups.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached entries per source",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCacheFile()
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Cache: %s\n", store.Path())
		if len(stats) == 0 {
			fmt.Fprintln(out, "No cached entries.")
			return nil
		}
		sources := make([]string, 0, len(stats))
		for s := range stats {
			sources = append(sources, s)
		}
		sort.Strings(sources)
		for _, s := range sources {
			fmt.Fprintf(out, "  %-12s %d\n", s, stats[s])
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")

		store, err := openCacheFile()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear(cmd.Context(), source)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries.\n", n)
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().String("source", "", "only clear entries from this source (crossref or altmetric)")

	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCacheFile() (*memo.SQLiteStore, error) {
	path := viper.GetString("cache.path")
	if path == "" {
		return nil, fmt.Errorf("no cache path configured")
	}
	return memo.OpenSQLite(path)
}
