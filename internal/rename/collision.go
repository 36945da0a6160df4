// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rename performs safe filesystem mutations: collision detection and
// resolution, pre-flight validation, and the rename/copy itself.
package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrTooManyCollisions is returned when the increment probe exhausts its
// attempt budget without finding a free filename.
var ErrTooManyCollisions = errors.New("too many collisions")

// maxIncrementProbes bounds the increment search on pathological directories.
const maxIncrementProbes = 1000

// CheckCollision reports whether a file already exists at path. The check is
// inherently racy against external filesystem modification; callers treat it
// as best-effort.
func CheckCollision(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ResolveIncrement finds an unused path by appending " (N)" before the
// extension, probing N = 1, 2, 3, ... It fails with ErrTooManyCollisions
// after 1000 attempts.
//
//	paper.pdf -> paper (1).pdf -> paper (2).pdf
func ResolveIncrement(path string) (string, error) {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)

	for n := 1; n <= maxIncrementProbes; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if !CheckCollision(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w for %s", ErrTooManyCollisions, path)
}
