// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/namingpaper/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently completed renames",
	Long: `History lists completed rename and copy operations recorded in the local
SQLite history database. Recording is off by default; enable it with
history.enabled in the config file.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg := buildConfig().History
	dir := cfg.Path
	if dir == "" {
		dir = history.DefaultDir()
	}

	store, err := history.NewStore(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No operations recorded.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-6s  %s -> %s\n",
			e.ExecutedAt.Local().Format("2006-01-02 15:04"),
			e.Mode,
			filepath.Base(e.Source),
			filepath.Base(e.Destination),
		)
	}
	fmt.Printf("\n%d operation(s)\n", len(entries))
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of operations to show")

	rootCmd.AddCommand(historyCmd)
}
