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

// claudeAPIURL is the Claude Messages API endpoint. Package-level var for
// test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const claudeDefaultModel = "claude-sonnet-4-20250514"

// Claude calls Anthropic's Messages API. Vision-capable: the first-page
// image, when present, is sent alongside the text.
type Claude struct {
	apiKey       string
	model        string
	maxTextChars int
	maxRetries   int
	client       *http.Client
}

func newClaude(apiKey string, cfg types.ExtractionConfig, client *http.Client) *Claude {
	model := cfg.Model
	if model == "" {
		model = claudeDefaultModel
	}
	return &Claude{
		apiKey:       apiKey,
		model:        model,
		maxTextChars: cfg.MaxTextChars,
		maxRetries:   cfg.MaxRetries,
		client:       client,
	}
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string               `json:"role"`
	Content []claudeContentBlock `json:"content"`
}

type claudeContentBlock struct {
	Type   string             `json:"type"`
	Text   string             `json:"text,omitempty"`
	Source *claudeImageSource `json:"source,omitempty"`
}

type claudeImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// ExtractMetadata sends the extraction prompt (plus the page image when one
// exists) and parses the JSON reply.
func (c *Claude) ExtractMetadata(ctx context.Context, content types.PDFContent) (types.PaperMetadata, error) {
	prompt, err := renderPrompt(content.Text, c.maxTextChars)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("rendering prompt: %w", err)
	}

	var blocks []claudeContentBlock
	if content.FirstPageImage != nil {
		blocks = append(blocks, claudeContentBlock{
			Type: "image",
			Source: &claudeImageSource{
				Type:      "base64",
				MediaType: "image/jpeg",
				Data:      base64.StdEncoding.EncodeToString(content.FirstPageImage),
			},
		})
	}
	blocks = append(blocks, claudeContentBlock{Type: "text", Text: prompt})

	reqBody := claudeRequest{
		Model:     c.model,
		MaxTokens: 1024,
		Messages:  []claudeMessage{{Role: "user", Content: blocks}},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.maxRetries)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.PaperMetadata{}, fmt.Errorf("invalid Anthropic API key; check your %s secret", SecretAnthropic)
	case http.StatusNotFound:
		return types.PaperMetadata{}, fmt.Errorf("model %q not found; check available models at https://docs.anthropic.com/en/docs/about-claude/models", c.model)
	default:
		body, _ := io.ReadAll(resp.Body)
		return types.PaperMetadata{}, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return types.PaperMetadata{}, fmt.Errorf("decoding Claude response: %w", err)
	}
	for _, block := range cResp.Content {
		if block.Type == "text" {
			return parseMetadata(block.Text, "Claude")
		}
	}
	return types.PaperMetadata{}, fmt.Errorf("Claude returned an empty response")
}

// Close is a no-op; the API is stateless per request.
func (c *Claude) Close() error { return nil }
