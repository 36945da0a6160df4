// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract orchestrates single-file metadata extraction: PDF content
// out, provider in, confidence threshold applied. The batch coordinator wraps
// this per file; the rename command uses it directly.
package extract

import (
	"context"
	"path/filepath"

	"github.com/pdiddy/namingpaper/internal/format"
	"github.com/pdiddy/namingpaper/internal/pdftext"
	"github.com/pdiddy/namingpaper/internal/provider"
	"github.com/pdiddy/namingpaper/pkg/types"
)

// extractContent reads PDF text and the first-page image. Tests substitute
// this to avoid needing real PDF fixtures.
var extractContent = pdftext.Extract

// Options adjusts how a rename is planned.
type Options struct {
	// Template is a preset name or placeholder template. Empty means the
	// fixed "{authors}, ({year}, {journal}), {title}" layout.
	Template string

	// OutputDir places the destination in a different directory. Empty
	// means alongside the source file.
	OutputDir string
}

// Metadata extracts paper metadata for a single PDF. Content failures come
// back as *types.ContentError; a result below cfg.MinConfidence comes back
// with the metadata AND a *types.LowConfidenceError so callers can still
// show what was extracted.
func Metadata(ctx context.Context, p provider.Provider, path string, cfg types.ExtractionConfig) (types.PaperMetadata, error) {
	content, err := extractContent(path, pdftext.DefaultMaxPages, true)
	if err != nil {
		return types.PaperMetadata{}, err
	}

	md, err := p.ExtractMetadata(ctx, content)
	if err != nil {
		return types.PaperMetadata{}, err
	}

	if md.Confidence < cfg.MinConfidence {
		return md, &types.LowConfidenceError{
			Confidence: md.Confidence,
			Threshold:  cfg.MinConfidence,
		}
	}
	return md, nil
}

// PlanRename extracts metadata and computes the destination path, producing
// a RenameOperation ready for validation and execution.
func PlanRename(ctx context.Context, p provider.Provider, path string, cfg types.Config, opts Options) (types.RenameOperation, error) {
	md, err := Metadata(ctx, p, path, cfg.Extraction)
	if err != nil {
		return types.RenameOperation{}, err
	}

	var name string
	if opts.Template != "" {
		name, err = format.BuildFromTemplate(md, opts.Template, cfg.Format)
		if err != nil {
			return types.RenameOperation{}, err
		}
	} else {
		name = format.BuildFilename(md, cfg.Format)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = filepath.Dir(path)
	}

	return types.RenameOperation{
		Source:      path,
		Destination: filepath.Join(dir, name),
		Metadata:    md,
	}, nil
}
