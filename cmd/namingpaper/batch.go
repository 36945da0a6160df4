// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/namingpaper/internal/batch"
	"github.com/pdiddy/namingpaper/internal/format"
	"github.com/pdiddy/namingpaper/internal/provider"
	"github.com/pdiddy/namingpaper/internal/rename"
	"github.com/pdiddy/namingpaper/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Rename every PDF in a directory from extracted metadata",
	Long: `Batch scans a directory for PDF files, extracts metadata from each with
the configured AI backend, and renames them. Extractions run with bounded
concurrency (--parallel); filesystem mutations are applied serially after
a preview. By default nothing is renamed; pass --execute to apply.

Name collisions, both against existing files and between items in the same
batch, are flagged and resolved per --collision. A machine-readable report
is available with --json (stdout) or --report <file> (JSON or YAML by
extension).`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	applyExtractionFlags(cmd, &cfg.Extraction)

	recursive, _ := cmd.Flags().GetBool("recursive")
	filter, _ := cmd.Flags().GetString("filter")
	template, _ := cmd.Flags().GetString("template")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	execute, _ := cmd.Flags().GetBool("execute")
	yes, _ := cmd.Flags().GetBool("yes")
	collision, _ := cmd.Flags().GetString("collision")
	parallel, _ := cmd.Flags().GetInt("parallel")
	jsonOut, _ := cmd.Flags().GetBool("json")
	reportPath, _ := cmd.Flags().GetString("report")
	includeCollisions, _ := cmd.Flags().GetBool("include-collisions")

	strategy, err := rename.ParseStrategy(collision)
	if err != nil {
		return err
	}
	if template != "" {
		if err := format.Validate(format.Resolve(template)); err != nil {
			return err
		}
	}
	if parallel <= 0 {
		parallel = cfg.Batch.Concurrency
	}

	files, err := batch.Scan(args[0], recursive, filter)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No PDF files found.")
		return nil
	}
	fmt.Fprintf(os.Stderr, "Found %d PDF file(s)\n", len(files))

	p, err := provider.New(cfg.Extraction, loadedSecrets)
	if err != nil {
		return err
	}
	defer p.Close()

	items := batch.ProcessBatch(cmd.Context(), p, files, batch.Options{
		Config:      cfg,
		Template:    template,
		OutputDir:   outputDir,
		Concurrency: parallel,
		OnProgress: func(current, total int, item types.BatchItem) {
			fmt.Fprintf(os.Stderr, "[%d/%d] %-9s %s\n", current, total, item.Status, filepath.Base(item.Source))
		},
	})
	batch.DetectCollisions(items)

	copyMode := outputDir != ""
	printPlan(items, copyMode)

	processable := 0
	for _, item := range items {
		switch item.Status {
		case types.StatusOK:
			processable++
		case types.StatusCollision:
			if includeCollisions {
				processable++
			}
		}
	}

	if jsonOut && !execute {
		if err := batch.WriteJSON(os.Stdout, batch.BuildReport(items)); err != nil {
			return err
		}
	}

	if !execute {
		fmt.Printf("\nDry run: %d of %d file(s) would be renamed. Pass --execute to apply.\n",
			processable, len(items))
		return writeReportFile(reportPath, items)
	}

	if processable == 0 {
		fmt.Println("Nothing to rename.")
		return writeReportFile(reportPath, items)
	}
	if !yes && !confirm(fmt.Sprintf("Rename %d file(s)?", processable)) {
		fmt.Println("Aborted.")
		return nil
	}

	// Collisions excluded from the processable count are not executed
	// either; the strategy never sees them.
	if !includeCollisions {
		for i := range items {
			if items[i].Status == types.StatusCollision {
				items[i].Status = types.StatusSkipped
			}
		}
	}

	result := batch.ExecuteBatch(items, strategy, copyMode, func(current, total int, item types.BatchItem) {
		if item.Status == types.StatusCompleted {
			fmt.Printf("[%d/%d] %s -> %s\n", current, total, filepath.Base(item.Source), filepath.Base(item.Destination))
		}
	})

	for _, item := range result.Items {
		if item.Status == types.StatusCompleted && item.Metadata != nil {
			recordHistory(cfg.History, types.RenameOperation{
				Source:      item.Source,
				Destination: item.Destination,
				Metadata:    *item.Metadata,
			}, copyMode)
		}
	}

	fmt.Printf("\nBatch summary: %d renamed, %d skipped, %d failed (total: %d)\n",
		result.Successful, result.Skipped, result.Errors, result.Total)

	if jsonOut {
		if err := batch.WriteJSON(os.Stdout, batch.BuildReport(result.Items)); err != nil {
			return err
		}
	}
	if err := writeReportFile(reportPath, result.Items); err != nil {
		return err
	}

	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed", result.Errors)
	}
	return nil
}

// printPlan shows the per-file outcome of the extraction pass.
func printPlan(items []types.BatchItem, copyMode bool) {
	fmt.Println()
	for _, item := range items {
		switch item.Status {
		case types.StatusOK, types.StatusCollision:
			line := rename.Preview(types.RenameOperation{Source: item.Source, Destination: item.Destination}, copyMode)
			if item.Status == types.StatusCollision {
				line += fmt.Sprintf("  [collision: %s]", item.Error)
			}
			fmt.Println(line)
		default:
			fmt.Printf("%s  [%s: %s]\n", filepath.Base(item.Source), item.Status, item.Error)
		}
	}
}

// writeReportFile writes the machine report to path, JSON or YAML by
// extension. An empty path is a no-op.
func writeReportFile(path string, items []types.BatchItem) error {
	if path == "" {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	report := batch.BuildReport(items)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = batch.WriteYAML(f, report)
	default:
		err = batch.WriteJSON(f, report)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
	return nil
}

func init() {
	batchCmd.Flags().Bool("execute", false, "apply the renames (default is a dry run)")
	batchCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	batchCmd.Flags().BoolP("recursive", "r", false, "scan subdirectories too")
	batchCmd.Flags().String("filter", "", "shell glob applied to filenames (e.g. 'fama*')")
	batchCmd.Flags().String("provider", "", "AI backend: claude, openai, gemini, or ollama")
	batchCmd.Flags().String("model", "", "model identifier override")
	batchCmd.Flags().String("ocr-model", "", "Ollama vision model for the OCR stage")
	batchCmd.Flags().String("template", "", "filename template or preset name (see templates command)")
	batchCmd.Flags().String("output-dir", "", "copy into this directory instead of renaming in place")
	batchCmd.Flags().String("collision", "skip", "collision strategy: skip, increment, or overwrite")
	batchCmd.Flags().IntP("parallel", "p", 0, "concurrent extractions (0 = config default)")
	batchCmd.Flags().Bool("json", false, "print the machine report as JSON on stdout")
	batchCmd.Flags().String("report", "", "write the machine report to a file (.json or .yaml)")
	batchCmd.Flags().Bool("include-collisions", true, "count collision items as processable")

	rootCmd.AddCommand(batchCmd)
}
