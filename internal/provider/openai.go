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

// openaiAPIURL is the Chat Completions endpoint. Package-level var for test
// substitution.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

const openaiDefaultModel = "gpt-4o"

// OpenAI calls the Chat Completions API with optional vision input.
type OpenAI struct {
	apiKey       string
	model        string
	maxTextChars int
	maxRetries   int
	client       *http.Client
}

func newOpenAI(apiKey string, cfg types.ExtractionConfig, client *http.Client) *OpenAI {
	model := cfg.Model
	if model == "" {
		model = openaiDefaultModel
	}
	return &OpenAI{
		apiKey:       apiKey,
		model:        model,
		maxTextChars: cfg.MaxTextChars,
		maxRetries:   cfg.MaxRetries,
		client:       client,
	}
}

type openaiRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []openaiMessage `json:"messages"`
}

type openaiMessage struct {
	Role    string       `json:"role"`
	Content []openaiPart `json:"content"`
}

type openaiPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openaiImageURL `json:"image_url,omitempty"`
}

type openaiImageURL struct {
	URL string `json:"url"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractMetadata sends the extraction prompt (image first when present, as
// the vision API prefers) and parses the JSON reply.
func (o *OpenAI) ExtractMetadata(ctx context.Context, content types.PDFContent) (types.PaperMetadata, error) {
	prompt, err := renderPrompt(content.Text, o.maxTextChars)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("rendering prompt: %w", err)
	}

	var parts []openaiPart
	if content.FirstPageImage != nil {
		parts = append(parts, openaiPart{
			Type: "image_url",
			ImageURL: &openaiImageURL{
				URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(content.FirstPageImage),
			},
		})
	}
	parts = append(parts, openaiPart{Type: "text", Text: prompt})

	reqBody := openaiRequest{
		Model:     o.model,
		MaxTokens: 1024,
		Messages:  []openaiMessage{{Role: "user", Content: parts}},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := httputil.DoWithRetry(ctx, o.client, req, o.maxRetries)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return types.PaperMetadata{}, fmt.Errorf("invalid OpenAI API key; check your %s secret", SecretOpenAI)
	case http.StatusNotFound:
		return types.PaperMetadata{}, fmt.Errorf("model %q not found; check available models at https://platform.openai.com/docs/models", o.model)
	default:
		body, _ := io.ReadAll(resp.Body)
		return types.PaperMetadata{}, fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return types.PaperMetadata{}, fmt.Errorf("decoding OpenAI response: %w", err)
	}
	if len(oResp.Choices) == 0 || oResp.Choices[0].Message.Content == "" {
		return types.PaperMetadata{}, fmt.Errorf("OpenAI returned an empty response")
	}
	return parseMetadata(oResp.Choices[0].Message.Content, "OpenAI")
}

// Close is a no-op; the API is stateless per request.
func (o *OpenAI) Close() error { return nil }
