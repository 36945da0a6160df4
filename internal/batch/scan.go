// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Scan enumerates the PDF files in dir. The .pdf extension is matched
// case-insensitively; pattern, when non-empty, is a shell glob applied to the
// filename only. Results are sorted case-insensitively by filename so batch
// runs are deterministic.
func Scan(dir string, recursive bool, pattern string) ([]string, error) {
	if pattern != "" {
		// Surface a bad glob once, up front, instead of per file.
		if _, err := path.Match(pattern, "probe.pdf"); err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
		}
	}

	var files []string
	add := func(p string, name string) error {
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			return nil
		}
		if pattern != "" {
			ok, err := path.Match(pattern, name)
			if err != nil || !ok {
				return err
			}
		}
		files = append(files, p)
		return nil
	}

	if recursive {
		err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			return add(p, d.Name())
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if err := add(filepath.Join(dir, entry.Name()), entry.Name()); err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(files, func(i, j int) bool {
		a := strings.ToLower(filepath.Base(files[i]))
		b := strings.ToLower(filepath.Base(files[j]))
		if a != b {
			return a < b
		}
		return files[i] < files[j]
	})
	return files, nil
}
