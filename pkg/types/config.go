package types

import "time"

// FormatConfig holds filename formatting settings.
type FormatConfig struct {
	// MaxAuthors is the author count above which the filename uses
	// "{first author} et al" (default 3).
	MaxAuthors int `json:"max_authors" yaml:"max_authors"`

	// MaxFilenameLength is the maximum filename length including the
	// .pdf extension (default 200).
	MaxFilenameLength int `json:"max_filename_length" yaml:"max_filename_length"`

	// MaxTitleWords is the number of title words kept before truncation
	// (default 6).
	MaxTitleWords int `json:"max_title_words" yaml:"max_title_words"`
}

// OllamaConfig holds settings for the local Ollama backend.
type OllamaConfig struct {
	// BaseURL is the Ollama API base URL (default "http://localhost:11434").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// OCRModel is the vision model used for the OCR stage
	// (default "deepseek-ocr").
	OCRModel string `json:"ocr_model" yaml:"ocr_model"`

	// KeepAlive controls how long Ollama keeps model weights loaded after a
	// request (e.g. "60s"; "0s" unloads immediately).
	KeepAlive string `json:"keep_alive" yaml:"keep_alive"`
}

// ExtractionConfig holds settings for AI metadata extraction.
type ExtractionConfig struct {
	// Provider selects the AI backend: claude, openai, gemini, or ollama.
	Provider string `json:"provider" yaml:"provider"`

	// Model overrides the backend's default model identifier.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// MinConfidence is the threshold below which extraction is rejected as
	// "probably not an academic paper" (default 0.5).
	MinConfidence float64 `json:"min_confidence" yaml:"min_confidence"`

	// MaxTextChars caps how much extracted text is sent to the backend
	// (default 8000).
	MaxTextChars int `json:"max_text_chars" yaml:"max_text_chars"`

	// MaxRetries is the number of retry attempts for rate-limited API calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the per-request HTTP timeout (default 120s; Ollama requests
	// use a longer internal floor since local inference is slow).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	Ollama OllamaConfig `json:"ollama" yaml:"ollama"`
}

// BatchConfig holds batch coordinator settings.
type BatchConfig struct {
	// Concurrency bounds in-flight extractions (default 1 = sequential).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// HistoryConfig holds rename history settings.
type HistoryConfig struct {
	// Enabled controls whether completed operations are recorded.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database location (default ~/.namingpaper/history.db).
	Path string `json:"path" yaml:"path"`
}

// Config groups all settings. It is constructed once at process start from
// viper and passed by value into the pipeline; there is no global state.
type Config struct {
	Format     FormatConfig     `json:"format" yaml:"format"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Batch      BatchConfig      `json:"batch" yaml:"batch"`
	History    HistoryConfig    `json:"history" yaml:"history"`
}

// Default values applied by WithDefaults.
const (
	DefaultMaxAuthors        = 3
	DefaultMaxFilenameLength = 200
	DefaultMaxTitleWords     = 6
	DefaultMinConfidence     = 0.5
	DefaultMaxTextChars      = 8000
	DefaultMaxRetries        = 3
	DefaultTimeout           = 120 * time.Second
	DefaultConcurrency       = 1
	DefaultProvider          = "ollama"
	DefaultOllamaBaseURL     = "http://localhost:11434"
	DefaultOllamaOCRModel    = "deepseek-ocr"
)

// WithDefaults returns a copy of c with zero-valued fields replaced by
// defaults.
func (c Config) WithDefaults() Config {
	if c.Format.MaxAuthors <= 0 {
		c.Format.MaxAuthors = DefaultMaxAuthors
	}
	if c.Format.MaxFilenameLength <= 0 {
		c.Format.MaxFilenameLength = DefaultMaxFilenameLength
	}
	if c.Format.MaxTitleWords <= 0 {
		c.Format.MaxTitleWords = DefaultMaxTitleWords
	}
	if c.Extraction.Provider == "" {
		c.Extraction.Provider = DefaultProvider
	}
	if c.Extraction.MinConfidence <= 0 {
		c.Extraction.MinConfidence = DefaultMinConfidence
	}
	if c.Extraction.MaxTextChars <= 0 {
		c.Extraction.MaxTextChars = DefaultMaxTextChars
	}
	if c.Extraction.MaxRetries <= 0 {
		c.Extraction.MaxRetries = DefaultMaxRetries
	}
	if c.Extraction.Timeout <= 0 {
		c.Extraction.Timeout = DefaultTimeout
	}
	if c.Extraction.Ollama.BaseURL == "" {
		c.Extraction.Ollama.BaseURL = DefaultOllamaBaseURL
	}
	if c.Extraction.Ollama.OCRModel == "" {
		c.Extraction.Ollama.OCRModel = DefaultOllamaOCRModel
	}
	if c.Extraction.Ollama.KeepAlive == "" {
		c.Extraction.Ollama.KeepAlive = "0s"
	}
	if c.Batch.Concurrency <= 0 {
		c.Batch.Concurrency = DefaultConcurrency
	}
	return c
}
