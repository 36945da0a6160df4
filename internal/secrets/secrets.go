// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads provider API keys. Keys come from two places: a
// directory of plain-text files (the filename is the key name and the
// trimmed contents are the value) and NAMINGPAPER_* environment variables,
// with files taking precedence.
//
// Supported key names: anthropic-api-key, openai-api-key, gemini-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const envPrefix = "NAMINGPAPER_"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// EnvVar maps a key name to its environment-variable form, e.g.
// "anthropic-api-key" -> "NAMINGPAPER_ANTHROPIC_API_KEY".
func EnvVar(key string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// MergeEnv fills the named keys from their environment variables when the
// file-based loader left them unset. Values from Load win.
func MergeEnv(s map[string]string, keys ...string) {
	for _, key := range keys {
		if s[key] != "" {
			continue
		}
		if v := os.Getenv(EnvVar(key)); v != "" {
			s[key] = v
		}
	}
}
