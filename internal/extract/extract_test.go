// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/namingpaper/pkg/types"
)

// mockProvider returns canned metadata or a canned error.
type mockProvider struct {
	md  types.PaperMetadata
	err error

	gotContent types.PDFContent
}

func (m *mockProvider) ExtractMetadata(_ context.Context, content types.PDFContent) (types.PaperMetadata, error) {
	m.gotContent = content
	return m.md, m.err
}

func (m *mockProvider) Close() error { return nil }

// stubContent substitutes extractContent for the duration of a test.
func stubContent(t *testing.T, content types.PDFContent, err error) {
	t.Helper()
	orig := extractContent
	extractContent = func(path string, maxPages int, withImage bool) (types.PDFContent, error) {
		content.Path = path
		return content, err
	}
	t.Cleanup(func() { extractContent = orig })
}

func famaFrench() types.PaperMetadata {
	return types.PaperMetadata{
		Authors:       []string{"Fama", "French"},
		AuthorsFull:   []string{"Eugene F. Fama", "Kenneth R. French"},
		Year:          1993,
		Journal:       "Journal of Financial Economics",
		JournalAbbrev: "JFE",
		Title:         "Common risk factors in the returns on stocks and bonds",
		Confidence:    0.95,
	}
}

func testConfig() types.Config {
	return types.Config{}.WithDefaults()
}

func TestMetadata(t *testing.T) {
	stubContent(t, types.PDFContent{Text: "some paper text"}, nil)
	p := &mockProvider{md: famaFrench()}

	md, err := Metadata(context.Background(), p, "/papers/in.pdf", testConfig().Extraction)
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if md.Title != "Common risk factors in the returns on stocks and bonds" {
		t.Errorf("unexpected title %q", md.Title)
	}
	if p.gotContent.Path != "/papers/in.pdf" {
		t.Errorf("provider saw path %q", p.gotContent.Path)
	}
}

func TestMetadataLowConfidence(t *testing.T) {
	stubContent(t, types.PDFContent{Text: "a grocery list"}, nil)
	md := famaFrench()
	md.Confidence = 0.1
	p := &mockProvider{md: md}

	got, err := Metadata(context.Background(), p, "/papers/in.pdf", testConfig().Extraction)

	var lce *types.LowConfidenceError
	if !errors.As(err, &lce) {
		t.Fatalf("want LowConfidenceError, got %v", err)
	}
	if !strings.Contains(err.Error(), "10%") || !strings.Contains(err.Error(), "50%") {
		t.Errorf("message should name both percentages: %q", err.Error())
	}
	// The extracted metadata still comes back so callers can show it.
	if got.Title == "" {
		t.Error("metadata dropped on low confidence")
	}
}

func TestMetadataContentError(t *testing.T) {
	stubContent(t, types.PDFContent{}, &types.ContentError{Path: "/papers/in.pdf", Err: errors.New("no pages")})
	p := &mockProvider{md: famaFrench()}

	_, err := Metadata(context.Background(), p, "/papers/in.pdf", testConfig().Extraction)

	var ce *types.ContentError
	if !errors.As(err, &ce) {
		t.Fatalf("want ContentError, got %v", err)
	}
}

func TestMetadataProviderError(t *testing.T) {
	stubContent(t, types.PDFContent{Text: "text"}, nil)
	p := &mockProvider{err: errors.New("invalid API key")}

	_, err := Metadata(context.Background(), p, "/papers/in.pdf", testConfig().Extraction)
	if err == nil || !strings.Contains(err.Error(), "invalid API key") {
		t.Fatalf("want provider error, got %v", err)
	}
}

func TestPlanRename(t *testing.T) {
	stubContent(t, types.PDFContent{Text: "text"}, nil)
	p := &mockProvider{md: famaFrench()}

	op, err := PlanRename(context.Background(), p, "/papers/1234.pdf", testConfig(), Options{})
	if err != nil {
		t.Fatalf("PlanRename: %v", err)
	}

	want := "/papers/Fama and French, (1993, JFE), Common risk factors in the returns....pdf"
	if op.Destination != want {
		t.Errorf("destination = %q, want %q", op.Destination, want)
	}
	if op.Source != "/papers/1234.pdf" {
		t.Errorf("source = %q", op.Source)
	}
	if op.Metadata.Year != 1993 {
		t.Errorf("metadata not attached: %+v", op.Metadata)
	}
}

func TestPlanRenameTemplate(t *testing.T) {
	stubContent(t, types.PDFContent{Text: "text"}, nil)
	p := &mockProvider{md: famaFrench()}

	op, err := PlanRename(context.Background(), p, "/papers/1234.pdf", testConfig(), Options{Template: "compact"})
	if err != nil {
		t.Fatalf("PlanRename: %v", err)
	}

	want := "/papers/Fama and French (1993) Common risk factors in the returns....pdf"
	if op.Destination != want {
		t.Errorf("destination = %q, want %q", op.Destination, want)
	}
}

func TestPlanRenameInvalidTemplate(t *testing.T) {
	stubContent(t, types.PDFContent{Text: "text"}, nil)
	p := &mockProvider{md: famaFrench()}

	_, err := PlanRename(context.Background(), p, "/papers/1234.pdf", testConfig(), Options{Template: "{bogus}"})
	if err == nil {
		t.Fatal("want template validation error")
	}
}

func TestPlanRenameOutputDir(t *testing.T) {
	stubContent(t, types.PDFContent{Text: "text"}, nil)
	p := &mockProvider{md: famaFrench()}

	op, err := PlanRename(context.Background(), p, "/papers/1234.pdf", testConfig(), Options{OutputDir: "/renamed"})
	if err != nil {
		t.Fatalf("PlanRename: %v", err)
	}
	if filepath.Dir(op.Destination) != "/renamed" {
		t.Errorf("destination dir = %q, want /renamed", filepath.Dir(op.Destination))
	}
}
