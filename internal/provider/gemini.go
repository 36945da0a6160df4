// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/namingpaper/internal/httputil"
	"github.com/pdiddy/namingpaper/pkg/types"
)

// geminiBaseURL is the Generative Language API base. Package-level var for
// test substitution.
var geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const geminiDefaultModel = "gemini-1.5-flash"

// Gemini calls Google's generateContent endpoint.
type Gemini struct {
	apiKey       string
	model        string
	maxTextChars int
	maxRetries   int
	client       *http.Client
}

func newGemini(apiKey string, cfg types.ExtractionConfig, client *http.Client) *Gemini {
	model := cfg.Model
	if model == "" {
		model = geminiDefaultModel
	}
	return &Gemini{
		apiKey:       apiKey,
		model:        model,
		maxTextChars: cfg.MaxTextChars,
		maxRetries:   cfg.MaxRetries,
		client:       client,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractMetadata sends the extraction prompt with optional inline image
// data and parses the JSON reply.
func (g *Gemini) ExtractMetadata(ctx context.Context, content types.PDFContent) (types.PaperMetadata, error) {
	prompt, err := renderPrompt(content.Text, g.maxTextChars)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("rendering prompt: %w", err)
	}

	var parts []geminiPart
	if content.FirstPageImage != nil {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MimeType: "image/jpeg",
				Data:     base64.StdEncoding.EncodeToString(content.FirstPageImage),
			},
		})
	}
	parts = append(parts, geminiPart{Text: prompt})

	reqBody := geminiRequest{Contents: []geminiContent{{Parts: parts}}}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", geminiBaseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, g.client, req, g.maxRetries)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.PaperMetadata{}, fmt.Errorf("invalid Gemini API key; check your %s secret", SecretGemini)
	case http.StatusNotFound:
		return types.PaperMetadata{}, fmt.Errorf("model %q not found; check available models at https://ai.google.dev/gemini-api/docs/models", g.model)
	default:
		body, _ := io.ReadAll(resp.Body)
		return types.PaperMetadata{}, fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return types.PaperMetadata{}, fmt.Errorf("decoding Gemini response: %w", err)
	}
	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return types.PaperMetadata{}, fmt.Errorf("Gemini returned an empty response")
	}
	return parseMetadata(gResp.Candidates[0].Content.Parts[0].Text, "Gemini")
}

// Close is a no-op; the API is stateless per request.
func (g *Gemini) Close() error { return nil }
