// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/namingpaper/internal/format"
	"github.com/pdiddy/namingpaper/pkg/types"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in filename templates",
	Long: `Templates lists the built-in filename presets with an example rendering
for each. Pass a preset name or a custom template to the rename and batch
commands with --template; valid placeholders are {authors}, {authors_full},
{authors_abbrev}, {year}, {journal}, {journal_abbrev}, {journal_full}, and
{title}.`,
	RunE: runTemplates,
}

func runTemplates(cmd *cobra.Command, args []string) error {
	// A familiar paper makes the example renderings concrete.
	sample := types.PaperMetadata{
		Authors:       []string{"Fama", "French"},
		AuthorsFull:   []string{"Eugene F. Fama", "Kenneth R. French"},
		Year:          1993,
		Journal:       "Journal of Financial Economics",
		JournalAbbrev: "JFE",
		Title:         "Common risk factors in the returns on stocks and bonds",
	}
	cfg := buildConfig().Format

	names := make([]string, 0, len(format.Presets))
	for name := range format.Presets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rendered, err := format.BuildFromTemplate(sample, name, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("%-9s %s\n", name, format.Presets[name])
		fmt.Printf("          e.g. %s\n\n", rendered)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
