// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdiddy/namingpaper/pkg/types"
)

// metadataSchema constrains backend responses before they are trusted.
// Models drift; validating here turns a malformed response into one clear
// error instead of a half-populated metadata record.
const metadataSchema = `{
	"type": "object",
	"required": ["authors", "year", "journal", "title"],
	"properties": {
		"authors": {"type": "array", "items": {"type": "string"}},
		"authors_full": {"type": "array", "items": {"type": "string"}},
		"year": {"type": "integer"},
		"journal": {"type": "string", "minLength": 1},
		"journal_abbrev": {"type": ["string", "null"]},
		"title": {"type": "string", "minLength": 1},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	}
}`

var compiledSchema = jsonschema.MustCompileString("metadata.json", metadataSchema)

// parseMetadata turns a raw backend response into PaperMetadata. It strips
// markdown code fences, validates against the metadata schema, and defaults
// a missing confidence to 1.0.
func parseMetadata(raw, backend string) (types.PaperMetadata, error) {
	text := stripCodeFences(raw)

	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return types.PaperMetadata{}, fmt.Errorf("%s returned invalid JSON: %w", backend, err)
	}
	if err := compiledSchema.Validate(v); err != nil {
		return types.PaperMetadata{}, fmt.Errorf("%s response does not match the metadata schema: %w", backend, err)
	}

	md := types.PaperMetadata{Confidence: 1.0}
	if err := json.Unmarshal([]byte(text), &md); err != nil {
		return types.PaperMetadata{}, fmt.Errorf("decoding %s response: %w", backend, err)
	}
	return md, nil
}

// stripCodeFences unwraps a ```json ... ``` (or bare ```) block when a model
// ignores the strict-JSON instruction.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if body, ok := fencedBody(s, "```json"); ok {
		return body
	}
	if body, ok := fencedBody(s, "```"); ok {
		return body
	}
	return s
}

func fencedBody(s, fence string) (string, bool) {
	start := strings.Index(s, fence)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(fence):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}
