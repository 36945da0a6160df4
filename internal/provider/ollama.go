// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/pdiddy/namingpaper/internal/httputil"
	"github.com/pdiddy/namingpaper/pkg/types"
)

const (
	ollamaDefaultTextModel = "llama3.1:8b"

	// minUsefulText is the extracted-text length below which the OCR stage
	// runs. Vector PDFs comfortably exceed this; scans yield almost nothing.
	minUsefulText = 100

	// ollamaMinTimeout floors the request timeout; local inference on CPU
	// routinely takes minutes.
	ollamaMinTimeout = 300 * time.Second
)

// Ollama runs metadata extraction against a local model server in two
// stages: an OCR pass over the first-page image feeding a text-parsing
// pass. The OCR stage is skipped when the extracted text is already
// substantial, and an OCR failure falls back to whatever text there is.
type Ollama struct {
	baseURL      string
	textModel    string
	ocrModel     string
	keepAlive    string
	maxTextChars int
	maxRetries   int
	client       *http.Client
}

func newOllama(cfg types.ExtractionConfig) *Ollama {
	model := cfg.Model
	if model == "" {
		model = ollamaDefaultTextModel
	}
	timeout := cfg.Timeout
	if timeout < ollamaMinTimeout {
		timeout = ollamaMinTimeout
	}
	return &Ollama{
		baseURL:      strings.TrimRight(cfg.Ollama.BaseURL, "/"),
		textModel:    model,
		ocrModel:     cfg.Ollama.OCRModel,
		keepAlive:    cfg.Ollama.KeepAlive,
		maxTextChars: cfg.MaxTextChars,
		maxRetries:   cfg.MaxRetries,
		client:       &http.Client{Timeout: timeout},
	}
}

type ollamaChatRequest struct {
	Model     string          `json:"model"`
	Messages  []ollamaMessage `json:"messages"`
	Stream    bool            `json:"stream"`
	KeepAlive string          `json:"keep_alive,omitempty"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaGenerateRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	Stream    bool   `json:"stream"`
	Format    string `json:"format,omitempty"`
	KeepAlive string `json:"keep_alive,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Message  struct {
		Content string `json:"content"`
	} `json:"message"`
}

// ExtractMetadata picks the cheapest sufficient path: parse extracted text
// directly when there is enough of it, otherwise OCR the page image first.
func (o *Ollama) ExtractMetadata(ctx context.Context, content types.PDFContent) (types.PaperMetadata, error) {
	text := strings.TrimSpace(content.Text)

	combined := text
	if len(text) <= minUsefulText && content.FirstPageImage != nil {
		ocrText, err := o.ocrExtract(ctx, content.FirstPageImage)
		switch {
		case err != nil:
			// OCR failed: fall back to whatever text we have.
		case text != "":
			combined = ocrText + "\n\n" + text
		default:
			combined = ocrText
		}
	}

	return o.parseText(ctx, combined)
}

// ocrExtract runs the vision model over the page image.
func (o *Ollama) ocrExtract(ctx context.Context, image []byte) (string, error) {
	payload := ollamaChatRequest{
		Model: o.ocrModel,
		Messages: []ollamaMessage{{
			Role:    "user",
			Content: "Extract all text from this academic paper image. Include title, authors, abstract, and any visible text.",
			Images:  []string{base64.StdEncoding.EncodeToString(image)},
		}},
		Stream:    false,
		KeepAlive: o.keepAlive,
	}

	result, err := o.call(ctx, "/api/chat", o.ocrModel, payload)
	if err != nil {
		return "", err
	}
	if result.Message.Content != "" {
		return result.Message.Content, nil
	}
	return result.Response, nil
}

// parseText runs the text model over the combined text with JSON-mode output.
func (o *Ollama) parseText(ctx context.Context, text string) (types.PaperMetadata, error) {
	prompt, err := renderPrompt(text, o.maxTextChars)
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("rendering prompt: %w", err)
	}

	payload := ollamaGenerateRequest{
		Model:     o.textModel,
		Prompt:    prompt,
		Stream:    false,
		Format:    "json",
		KeepAlive: o.keepAlive,
	}

	result, err := o.call(ctx, "/api/generate", o.textModel, payload)
	if err != nil {
		return types.PaperMetadata{}, err
	}
	if result.Response == "" {
		return types.PaperMetadata{}, fmt.Errorf(
			"Ollama returned an empty response; model %q may not be available. Run: ollama pull %s",
			o.textModel, o.textModel)
	}
	return parseMetadata(result.Response, "Ollama")
}

// call posts a payload to an Ollama endpoint and decodes the response,
// mapping the common failure modes to actionable messages.
func (o *Ollama) call(ctx context.Context, endpoint, model string, payload any) (ollamaResponse, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return ollamaResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return ollamaResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httputil.DoWithRetry(ctx, o.client, req, o.maxRetries)
	if err != nil {
		var uerr *url.Error
		switch {
		case errors.Is(err, syscall.ECONNREFUSED):
			return ollamaResponse{}, fmt.Errorf("cannot connect to Ollama at %s. Is Ollama running?", o.baseURL)
		case errors.As(err, &uerr) && uerr.Timeout():
			return ollamaResponse{}, fmt.Errorf("Ollama timed out after %v; model %q may be too slow", o.client.Timeout, model)
		default:
			return ollamaResponse{}, fmt.Errorf("calling Ollama: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ollamaResponse{}, fmt.Errorf("model %q not found. Pull it first with: ollama pull %s", model, model)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return ollamaResponse{}, fmt.Errorf("Ollama API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return ollamaResponse{}, fmt.Errorf("decoding Ollama response: %w", err)
	}
	return oResp, nil
}

// Close asks the server to unload the model weights immediately. Best
// effort: an unreachable server at teardown is not worth failing over.
func (o *Ollama) Close() error {
	payload := ollamaGenerateRequest{Model: o.textModel, KeepAlive: "0s"}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	resp, err := o.client.Post(o.baseURL+"/api/generate", "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}
