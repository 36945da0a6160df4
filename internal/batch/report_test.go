// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/namingpaper/pkg/types"
)

func reportItems() []types.BatchItem {
	md := testMetadata()
	return []types.BatchItem{
		{Source: "a.pdf", Destination: "/out/a-renamed.pdf", Status: types.StatusCompleted, Metadata: &md},
		{Source: "b.pdf", Destination: "/out/clash.pdf", Status: types.StatusCollision, Error: "Collides with 1 other file(s)", Metadata: &md},
		{Source: "c.pdf", Status: types.StatusSkipped, Error: "Not a valid PDF file"},
		{Source: "d.pdf", Status: types.StatusError, Error: "model not found"},
	}
}

func TestBuildReport(t *testing.T) {
	report := BuildReport(reportItems())

	if _, err := uuid.Parse(report.RunID); err != nil {
		t.Errorf("run_id is not a UUID: %q", report.RunID)
	}
	if report.GeneratedAt.IsZero() {
		t.Error("generated_at not stamped")
	}
	if len(report.Files) != 4 {
		t.Fatalf("files = %d, want 4", len(report.Files))
	}

	s := report.Summary
	if s.Total != 4 || s.OK != 1 || s.Collision != 1 || s.Skipped != 1 || s.Error != 1 {
		t.Errorf("summary = %+v", s)
	}

	// Absent fields serialize as null, not empty strings.
	if report.Files[2].Destination != nil {
		t.Errorf("skipped item destination = %v, want nil", *report.Files[2].Destination)
	}
	if report.Files[2].Metadata != nil {
		t.Error("skipped item metadata should be nil")
	}
	if report.Files[0].Error != nil {
		t.Errorf("completed item error = %v, want nil", *report.Files[0].Error)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, BuildReport(reportItems())); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	for _, key := range []string{"run_id", "generated_at", "files", "summary"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}

	files := decoded["files"].([]any)
	skipped := files[2].(map[string]any)
	if skipped["destination"] != nil {
		t.Errorf("skipped destination = %v, want null", skipped["destination"])
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, BuildReport(reportItems())); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid YAML: %v", err)
	}
	if _, ok := decoded["summary"]; !ok {
		t.Error("missing summary")
	}
}
