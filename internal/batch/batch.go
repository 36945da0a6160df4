// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch coordinates the per-file extraction pipeline over many
// files: bounded-concurrency fan-out, cross-file collision detection, and
// serialized execution of the approved renames.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pdiddy/namingpaper/internal/extract"
	"github.com/pdiddy/namingpaper/internal/provider"
	"github.com/pdiddy/namingpaper/internal/rename"
	"github.com/pdiddy/namingpaper/pkg/types"
)

// pdfMagic is the signature every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// planRename is swapped by tests to avoid real PDF parsing and AI calls.
var planRename = extract.PlanRename

// Options configures a batch run.
type Options struct {
	// Config carries the formatting and extraction settings.
	Config types.Config

	// Template is a preset name or placeholder template; empty means the
	// fixed layout.
	Template string

	// OutputDir redirects destinations to another directory; empty means
	// alongside each source.
	OutputDir string

	// Concurrency bounds in-flight extractions (<=0 means 1, strictly
	// sequential).
	Concurrency int

	// OnProgress, when set, fires exactly once per completed item with a
	// monotonically increasing current count, in completion order.
	OnProgress func(current, total int, item types.BatchItem)
}

// ProcessFile runs the single-item pipeline: signature check, content
// extraction, AI call, destination computation, filesystem collision check.
// It never returns an error; every failure is captured in the returned item
// so one bad file cannot abort a batch.
func ProcessFile(ctx context.Context, p provider.Provider, path string, opts Options) types.BatchItem {
	item := types.BatchItem{Source: path, Status: types.StatusPending}

	if err := checkSignature(path); err != nil {
		item.Status = types.StatusSkipped
		item.Error = err.Error()
		return item
	}

	op, err := planRename(ctx, p, path, opts.Config, extract.Options{
		Template:  opts.Template,
		OutputDir: opts.OutputDir,
	})
	if err != nil {
		var contentErr *types.ContentError
		var lowConf *types.LowConfidenceError
		if errors.As(err, &contentErr) || errors.As(err, &lowConf) {
			item.Status = types.StatusSkipped
		} else {
			item.Status = types.StatusError
		}
		item.Error = err.Error()
		return item
	}

	md := op.Metadata
	item.Destination = op.Destination
	item.Metadata = &md

	if rename.CheckCollision(op.Destination) {
		item.Status = types.StatusCollision
		item.Error = "File already exists"
	} else {
		item.Status = types.StatusOK
	}
	return item
}

// checkSignature reads the leading bytes and rejects files that do not start
// with the PDF magic marker.
func checkSignature(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if !hasPDFMagic(f) {
		return errors.New("Not a valid PDF file")
	}
	return nil
}

// hasPDFMagic reads exactly len(pdfMagic) bytes; a single Read may legally
// return fewer without error.
func hasPDFMagic(r io.Reader) bool {
	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(r, head); err != nil {
		return false
	}
	return bytes.Equal(head, pdfMagic)
}

// ProcessBatch runs ProcessFile over files with at most opts.Concurrency
// extractions in flight. The returned slice matches the input 1:1 by index
// regardless of completion order; a panicking worker is recovered into an
// error item in its original slot. Progress callbacks are serialized behind
// the completion counter's mutex.
func ProcessBatch(ctx context.Context, p provider.Provider, files []string, opts Options) []types.BatchItem {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	items := make([]types.BatchItem, len(files))
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	completed := 0

	for i, file := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, file string) {
			defer wg.Done()
			defer func() { <-sem }()

			func() {
				defer func() {
					if r := recover(); r != nil {
						items[i] = types.BatchItem{
							Source: file,
							Status: types.StatusError,
							Error:  fmt.Sprintf("internal error: %v", r),
						}
					}
				}()
				items[i] = ProcessFile(ctx, p, file, opts)
			}()

			mu.Lock()
			completed++
			if opts.OnProgress != nil {
				opts.OnProgress(completed, len(files), items[i])
			}
			mu.Unlock()
		}(i, file)
	}

	wg.Wait()
	return items
}

// DetectCollisions groups OK and COLLISION items by the case-folded form of
// their destination (case-insensitive filesystems collapse such paths) and
// forces every member of a group larger than one to COLLISION. Other
// statuses are left untouched. The input slice is mutated and returned.
func DetectCollisions(items []types.BatchItem) []types.BatchItem {
	groups := make(map[string][]int)
	for i := range items {
		switch items[i].Status {
		case types.StatusOK, types.StatusCollision:
			key := strings.ToLower(items[i].Destination)
			groups[key] = append(groups[key], i)
		}
	}

	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		for _, i := range members {
			items[i].Status = types.StatusCollision
			items[i].Error = fmt.Sprintf("Collides with %d other file(s)", len(members)-1)
		}
	}
	return items
}

// ExecuteBatch performs the approved renames in list order. Execution is
// deliberately serial: the increment strategy must observe each mutation
// before probing for the next free suffix, so parallelizing would
// reintroduce the race the probe avoids. SKIPPED/ERROR items pass through
// untouched into the summary counts.
func ExecuteBatch(items []types.BatchItem, strategy rename.Strategy, copyMode bool, onProgress func(current, total int, item types.BatchItem)) types.BatchResult {
	result := types.BatchResult{Total: len(items)}

	for i := range items {
		item := &items[i]

		switch item.Status {
		case types.StatusOK, types.StatusCollision:
			if item.Destination == "" || item.Metadata == nil {
				item.Status = types.StatusError
				item.Error = "Missing destination or metadata"
				result.Errors++
				break
			}

			op := types.RenameOperation{
				Source:      item.Source,
				Destination: item.Destination,
				Metadata:    *item.Metadata,
			}
			final, err := rename.Execute(op, strategy, copyMode)
			switch {
			case err != nil:
				item.Status = types.StatusError
				item.Error = err.Error()
				result.Errors++
			case final == "":
				item.Status = types.StatusSkipped
				if item.Error == "" {
					item.Error = "Destination already exists"
				}
				result.Skipped++
			default:
				item.Status = types.StatusCompleted
				item.Destination = final
				item.Error = ""
				result.Successful++
			}
		case types.StatusError:
			result.Errors++
		default:
			result.Skipped++
		}

		if onProgress != nil {
			onProgress(i+1, len(items), items[i])
		}
	}

	result.Items = items
	return result
}
