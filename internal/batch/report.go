// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/namingpaper/pkg/types"
)

// Report is the machine-readable outcome of a batch run.
type Report struct {
	RunID       string        `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time     `json:"generated_at" yaml:"generated_at"`
	Files       []ReportFile  `json:"files" yaml:"files"`
	Summary     ReportSummary `json:"summary" yaml:"summary"`
}

// ReportFile is one batch item in the report. Destination, Error, and
// Metadata serialize as null when absent.
type ReportFile struct {
	Source      string               `json:"source" yaml:"source"`
	Destination *string              `json:"destination" yaml:"destination"`
	Status      string               `json:"status" yaml:"status"`
	Error       *string              `json:"error" yaml:"error"`
	Metadata    *types.PaperMetadata `json:"metadata" yaml:"metadata"`
}

// ReportSummary holds the per-status counts. Completed items count as ok.
type ReportSummary struct {
	Total     int `json:"total" yaml:"total"`
	OK        int `json:"ok" yaml:"ok"`
	Collision int `json:"collision" yaml:"collision"`
	Error     int `json:"error" yaml:"error"`
	Skipped   int `json:"skipped" yaml:"skipped"`
}

// BuildReport assembles a Report from batch items, stamping a fresh run ID.
func BuildReport(items []types.BatchItem) Report {
	report := Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Files:       make([]ReportFile, 0, len(items)),
		Summary:     ReportSummary{Total: len(items)},
	}

	for _, item := range items {
		file := ReportFile{
			Source:   item.Source,
			Status:   string(item.Status),
			Metadata: item.Metadata,
		}
		if item.Destination != "" {
			dest := item.Destination
			file.Destination = &dest
		}
		if item.Error != "" {
			msg := item.Error
			file.Error = &msg
		}
		report.Files = append(report.Files, file)

		switch item.Status {
		case types.StatusOK, types.StatusCompleted:
			report.Summary.OK++
		case types.StatusCollision:
			report.Summary.Collision++
		case types.StatusError:
			report.Summary.Error++
		case types.StatusSkipped:
			report.Summary.Skipped++
		}
	}
	return report
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}

// WriteYAML writes the report as YAML.
func WriteYAML(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding YAML report: %w", err)
	}
	return nil
}
