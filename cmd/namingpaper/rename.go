// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/namingpaper/internal/extract"
	"github.com/pdiddy/namingpaper/internal/format"
	"github.com/pdiddy/namingpaper/internal/history"
	"github.com/pdiddy/namingpaper/internal/provider"
	"github.com/pdiddy/namingpaper/internal/rename"
	"github.com/pdiddy/namingpaper/pkg/types"
)

var renameCmd = &cobra.Command{
	Use:   "rename <file.pdf>",
	Short: "Rename a single PDF from its extracted metadata",
	Long: `Rename extracts metadata from one PDF and renames it. By default it
only previews the new name; pass --execute to apply it. With --output-dir
the file is copied (timestamps preserved) instead of moved.

Exit code 2 means the extraction confidence fell below the configured
threshold, i.e. the file is probably not an academic paper.`,
	Args: cobra.ExactArgs(1),
	RunE: runRename,
}

func runRename(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	applyExtractionFlags(cmd, &cfg.Extraction)

	template, _ := cmd.Flags().GetString("template")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	execute, _ := cmd.Flags().GetBool("execute")
	yes, _ := cmd.Flags().GetBool("yes")
	collision, _ := cmd.Flags().GetString("collision")

	strategy, err := rename.ParseStrategy(collision)
	if err != nil {
		return err
	}
	if template != "" {
		if err := format.Validate(format.Resolve(template)); err != nil {
			return err
		}
	}

	p, err := provider.New(cfg.Extraction, loadedSecrets)
	if err != nil {
		return err
	}
	defer p.Close()

	op, err := extract.PlanRename(cmd.Context(), p, args[0], cfg, extract.Options{
		Template:  template,
		OutputDir: outputDir,
	})
	if err != nil {
		return err
	}

	copyMode := outputDir != ""
	fmt.Println(rename.Preview(op, copyMode))

	warnings, err := rename.Validate(op)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if !execute {
		fmt.Println("\nDry run. Pass --execute to apply.")
		return nil
	}
	if !yes && !confirm("Proceed?") {
		fmt.Println("Aborted.")
		return nil
	}

	final, err := rename.Execute(op, strategy, copyMode)
	if err != nil {
		return err
	}
	if final == "" {
		fmt.Println("Skipped: destination already exists.")
		return nil
	}

	fmt.Printf("Renamed to %s\n", final)
	recordHistory(cfg.History, types.RenameOperation{
		Source:      op.Source,
		Destination: final,
		Metadata:    op.Metadata,
	}, copyMode)
	return nil
}

// applyExtractionFlags layers command-line overrides over the config file.
func applyExtractionFlags(cmd *cobra.Command, cfg *types.ExtractionConfig) {
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.Provider = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetString("ocr-model"); v != "" {
		cfg.Ollama.OCRModel = v
	}
}

// recordHistory stores a completed operation, warning instead of failing:
// the rename itself already succeeded.
func recordHistory(cfg types.HistoryConfig, op types.RenameOperation, copyMode bool) {
	if !cfg.Enabled {
		return
	}
	dir := cfg.Path
	if dir == "" {
		dir = history.DefaultDir()
	}
	store, err := history.NewStore(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	mode := "rename"
	if copyMode {
		mode = "copy"
	}
	if err := store.Record(op, mode); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording history: %v\n", err)
	}
}

func init() {
	renameCmd.Flags().Bool("execute", false, "apply the rename (default is a dry run)")
	renameCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	renameCmd.Flags().String("provider", "", "AI backend: claude, openai, gemini, or ollama")
	renameCmd.Flags().String("model", "", "model identifier override")
	renameCmd.Flags().String("ocr-model", "", "Ollama vision model for the OCR stage")
	renameCmd.Flags().String("template", "", "filename template or preset name (see templates command)")
	renameCmd.Flags().String("output-dir", "", "copy into this directory instead of renaming in place")
	renameCmd.Flags().String("collision", "skip", "collision strategy: skip, increment, or overwrite")

	rootCmd.AddCommand(renameCmd)
}
