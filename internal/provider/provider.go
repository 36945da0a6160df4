// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements the AI metadata capability: given extracted
// PDF content, each backend returns structured paper metadata. The batch
// coordinator and extraction pipeline depend only on the Provider interface,
// never on a concrete backend.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/namingpaper/internal/secrets"
	"github.com/pdiddy/namingpaper/pkg/types"
)

// Provider extracts paper metadata from PDF content.
type Provider interface {
	// ExtractMetadata returns metadata for the given content, or a
	// backend-specific error (bad credentials, unknown model, unreachable
	// endpoint, timeout) with a diagnostic message.
	ExtractMetadata(ctx context.Context, content types.PDFContent) (types.PaperMetadata, error)

	// Close releases the backend handle. For local-model backends this
	// unloads cached model weights.
	Close() error
}

// Names of the supported backends.
const (
	NameClaude = "claude"
	NameOpenAI = "openai"
	NameGemini = "gemini"
	NameOllama = "ollama"
)

// Secret-file keys under .secrets/ (also accepted from the environment as
// NAMINGPAPER_<KEY> with dashes mapped to underscores).
const (
	SecretAnthropic = "anthropic-api-key"
	SecretOpenAI    = "openai-api-key"
	SecretGemini    = "gemini-api-key"
)

// New constructs the configured backend. A missing API key or unknown
// provider name is an orchestration error: the whole batch cannot proceed.
func New(cfg types.ExtractionConfig, keys map[string]string) (Provider, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	switch strings.ToLower(cfg.Provider) {
	case NameClaude:
		key := keys[SecretAnthropic]
		if key == "" {
			return nil, fmt.Errorf("claude provider requires the %s secret or %s", SecretAnthropic, secrets.EnvVar(SecretAnthropic))
		}
		return newClaude(key, cfg, client), nil
	case NameOpenAI:
		key := keys[SecretOpenAI]
		if key == "" {
			return nil, fmt.Errorf("openai provider requires the %s secret or %s", SecretOpenAI, secrets.EnvVar(SecretOpenAI))
		}
		return newOpenAI(key, cfg, client), nil
	case NameGemini:
		key := keys[SecretGemini]
		if key == "" {
			return nil, fmt.Errorf("gemini provider requires the %s secret or %s", SecretGemini, secrets.EnvVar(SecretGemini))
		}
		return newGemini(key, cfg, client), nil
	case NameOllama:
		return newOllama(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (expected claude, openai, gemini, or ollama)", cfg.Provider)
	}
}

// truncateText caps the text sent to a backend, marking the cut.
func truncateText(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	return text[:maxChars] + "\n\n[Text truncated...]"
}
