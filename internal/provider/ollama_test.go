// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/namingpaper/pkg/types"
)

func ollamaConfig(baseURL string) types.ExtractionConfig {
	cfg := types.Config{Extraction: types.ExtractionConfig{Provider: "ollama"}}.WithDefaults().Extraction
	cfg.Ollama.BaseURL = baseURL
	return cfg
}

func TestOllamaTextSufficientSkipsOCR(t *testing.T) {
	longText := strings.Repeat("word ", 50) // well past the OCR threshold

	var chatCalls, generateCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			chatCalls++
			w.Write([]byte(`{"message": {"content": "ocr text"}}`))
		case "/api/generate":
			generateCalls++
			var req ollamaGenerateRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Format != "json" {
				t.Errorf("generate format = %q, want json", req.Format)
			}
			if !strings.Contains(req.Prompt, "word word") {
				t.Error("prompt missing the extracted text")
			}
			json.NewEncoder(w).Encode(map[string]string{"response": validMetadataJSON})
		}
	}))
	defer srv.Close()

	o := newOllama(ollamaConfig(srv.URL))
	md, err := o.ExtractMetadata(context.Background(), types.PDFContent{
		Text:           longText,
		FirstPageImage: []byte{0xFF, 0xD8},
	})
	if err != nil {
		t.Fatalf("ExtractMetadata: %v", err)
	}
	if md.Year != 1993 {
		t.Errorf("metadata = %+v", md)
	}
	if chatCalls != 0 {
		t.Errorf("OCR ran despite sufficient text (%d calls)", chatCalls)
	}
	if generateCalls != 1 {
		t.Errorf("generate calls = %d", generateCalls)
	}
}

func TestOllamaOCRStageForScans(t *testing.T) {
	var chatCalls int
	var generatePrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			chatCalls++
			var req ollamaChatRequest
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.Messages) == 0 || len(req.Messages[0].Images) != 1 {
				t.Errorf("chat request missing image: %+v", req.Messages)
			}
			w.Write([]byte(`{"message": {"content": "OCR RECOVERED TITLE"}}`))
		case "/api/generate":
			var req ollamaGenerateRequest
			json.NewDecoder(r.Body).Decode(&req)
			generatePrompt = req.Prompt
			json.NewEncoder(w).Encode(map[string]string{"response": validMetadataJSON})
		}
	}))
	defer srv.Close()

	o := newOllama(ollamaConfig(srv.URL))
	_, err := o.ExtractMetadata(context.Background(), types.PDFContent{
		Text:           "short", // below the threshold
		FirstPageImage: []byte{0xFF, 0xD8},
	})
	if err != nil {
		t.Fatalf("ExtractMetadata: %v", err)
	}
	if chatCalls != 1 {
		t.Errorf("OCR calls = %d, want 1", chatCalls)
	}
	// OCR output is combined with the original text.
	if !strings.Contains(generatePrompt, "OCR RECOVERED TITLE") || !strings.Contains(generatePrompt, "short") {
		t.Error("generate prompt missing OCR output or original text")
	}
}

func TestOllamaOCRFailureFallsBackToText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			w.WriteHeader(http.StatusInternalServerError)
		case "/api/generate":
			var req ollamaGenerateRequest
			json.NewDecoder(r.Body).Decode(&req)
			if !strings.Contains(req.Prompt, "short text") {
				t.Error("fallback prompt missing the original text")
			}
			json.NewEncoder(w).Encode(map[string]string{"response": validMetadataJSON})
		}
	}))
	defer srv.Close()

	o := newOllama(ollamaConfig(srv.URL))
	_, err := o.ExtractMetadata(context.Background(), types.PDFContent{
		Text:           "short text",
		FirstPageImage: []byte{0xFF, 0xD8},
	})
	if err != nil {
		t.Fatalf("OCR failure should fall back to text, got %v", err)
	}
}

func TestOllamaModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	o := newOllama(ollamaConfig(srv.URL))
	_, err := o.ExtractMetadata(context.Background(), types.PDFContent{Text: strings.Repeat("x", 200)})
	if err == nil || !strings.Contains(err.Error(), "ollama pull") {
		t.Errorf("error = %v, want pull hint", err)
	}
}

func TestOllamaConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens here anymore

	o := newOllama(ollamaConfig(srv.URL))
	_, err := o.ExtractMetadata(context.Background(), types.PDFContent{Text: strings.Repeat("x", 200)})
	if err == nil || !strings.Contains(err.Error(), "Is Ollama running?") {
		t.Errorf("error = %v", err)
	}
}

func TestOllamaEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": ""}`))
	}))
	defer srv.Close()

	o := newOllama(ollamaConfig(srv.URL))
	_, err := o.ExtractMetadata(context.Background(), types.PDFContent{Text: strings.Repeat("x", 200)})
	if err == nil || !strings.Contains(err.Error(), "ollama pull") {
		t.Errorf("error = %v", err)
	}
}

func TestOllamaCloseUnloadsModel(t *testing.T) {
	var unloadReq ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&unloadReq)
		w.Write([]byte(`{"response": ""}`))
	}))
	defer srv.Close()

	o := newOllama(ollamaConfig(srv.URL))
	if err := o.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if unloadReq.KeepAlive != "0s" {
		t.Errorf("unload keep_alive = %q, want 0s", unloadReq.KeepAlive)
	}
}

func TestOllamaCloseUnreachableServer(t *testing.T) {
	o := newOllama(ollamaConfig("http://127.0.0.1:1"))
	if err := o.Close(); err != nil {
		t.Errorf("Close should be best-effort, got %v", err)
	}
}
