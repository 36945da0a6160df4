// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rename

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/namingpaper/pkg/types"
)

// Strategy selects how a destination collision is handled.
type Strategy string

const (
	// StrategySkip aborts the item without mutating the filesystem.
	StrategySkip Strategy = "skip"
	// StrategyIncrement picks a free " (N)" suffixed name.
	StrategyIncrement Strategy = "increment"
	// StrategyOverwrite replaces the existing destination file.
	StrategyOverwrite Strategy = "overwrite"
)

// ParseStrategy converts a user-supplied string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case StrategySkip, StrategyIncrement, StrategyOverwrite:
		return Strategy(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("unknown collision strategy %q (expected skip, increment, or overwrite)", s)
	}
}

// warning messages checked by Execute.
const (
	warnDestinationExists = "destination already exists"
	warnSameFile          = "source and destination are the same file"
)

// Validate performs pre-flight checks on a rename operation. It fails when
// the source is a symbolic link (targets are ambiguous for renaming), when
// the source is not a regular existing file, or when the destination's
// parent directory does not exist. Non-fatal conditions come back as
// warnings: the destination already exists, or source and destination
// resolve to the same file.
func Validate(op types.RenameOperation) ([]string, error) {
	info, err := os.Lstat(op.Source)
	if err != nil {
		return nil, fmt.Errorf("source is not a regular file or does not exist: %s", op.Source)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("source is a symlink (not supported): %s", op.Source)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("source is not a regular file or does not exist: %s", op.Source)
	}

	parent := filepath.Dir(op.Destination)
	if pi, err := os.Stat(parent); err != nil || !pi.IsDir() {
		return nil, fmt.Errorf("destination directory does not exist: %s", parent)
	}

	var warnings []string
	if CheckCollision(op.Destination) {
		warnings = append(warnings, fmt.Sprintf("%s: %s", warnDestinationExists, op.Destination))
	}
	if sameFile(op.Source, op.Destination) {
		warnings = append(warnings, warnSameFile)
	}
	return warnings, nil
}

// sameFile reports whether two paths resolve to the identical file. A
// nonexistent destination is never the same file.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// Execute validates and performs a rename operation. The returned path is
// the final destination, or "" when the skip strategy passed over an
// existing destination. When source and destination are already the same
// file the operation is a successful no-op.
func Execute(op types.RenameOperation, strategy Strategy, copyMode bool) (string, error) {
	warnings, err := Validate(op)
	if err != nil {
		return "", err
	}

	collided := false
	for _, w := range warnings {
		if strings.HasPrefix(w, warnDestinationExists) {
			collided = true
		}
	}

	destination := op.Destination
	if collided {
		switch strategy {
		case StrategySkip:
			return "", nil
		case StrategyIncrement:
			destination, err = ResolveIncrement(destination)
			if err != nil {
				return "", err
			}
		case StrategyOverwrite:
			// Proceed against the original destination.
		}
	}

	if sameFile(op.Source, destination) {
		return destination, nil
	}

	if copyMode {
		if err := copyPreserving(op.Source, destination); err != nil {
			return "", err
		}
		return destination, nil
	}

	if err := os.Rename(op.Source, destination); err != nil {
		return "", fmt.Errorf("renaming %s: %w", op.Source, err)
	}
	return destination, nil
}

// Preview renders a human-readable one-line description of the operation.
// The destination directory is shown only when it differs from the source's.
func Preview(op types.RenameOperation, copyMode bool) string {
	dest := filepath.Base(op.Destination)
	if filepath.Dir(op.Source) != filepath.Dir(op.Destination) {
		dest = op.Destination
	}
	arrow := "->"
	if copyMode {
		arrow = "-> (copy)"
	}
	return fmt.Sprintf("%s %s %s", filepath.Base(op.Source), arrow, dest)
}

// copyPreserving copies src to dst, carrying over the file mode and
// modification time.
func copyPreserving(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		os.Remove(dst)
		return fmt.Errorf("copying to %s: %w", dst, copyErr)
	}
	if closeErr != nil {
		os.Remove(dst)
		return fmt.Errorf("closing destination: %w", closeErr)
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("preserving timestamps: %w", err)
	}
	return nil
}
