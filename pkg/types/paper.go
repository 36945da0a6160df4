// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// PaperMetadata holds the facts extracted from an academic paper by an AI
// backend. Values are immutable once produced by extraction.
type PaperMetadata struct {
	// Authors lists author surnames in publication order.
	Authors []string `json:"authors" yaml:"authors"`

	// AuthorsFull lists full author names in publication order. May be empty
	// when the backend returns surnames only.
	AuthorsFull []string `json:"authors_full,omitempty" yaml:"authors_full,omitempty"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Journal is the full journal name.
	Journal string `json:"journal" yaml:"journal"`

	// JournalAbbrev is the common journal abbreviation (e.g. "JFE"), if known.
	JournalAbbrev string `json:"journal_abbrev,omitempty" yaml:"journal_abbrev,omitempty"`

	// Title is the main paper title, without subtitle.
	Title string `json:"title" yaml:"title"`

	// Confidence is the backend's certainty, in [0, 1], that the metadata is
	// correct and the document is genuinely an academic paper.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// PDFContent is the material extracted from a PDF file before it is handed
// to an AI backend.
type PDFContent struct {
	// Text is the extracted text of the leading pages, pages separated by a
	// blank line.
	Text string

	// FirstPageImage holds the first page as embedded image bytes (JPEG),
	// or nil when the PDF carries no usable page image.
	FirstPageImage []byte

	// Path is the source file the content came from.
	Path string
}

// LowConfidenceError reports that extraction confidence fell below the
// configured minimum threshold.
type LowConfidenceError struct {
	Confidence float64
	Threshold  float64
}

func (e *LowConfidenceError) Error() string {
	return fmt.Sprintf("confidence %.0f%% is below threshold %.0f%%. The document may not be an academic paper",
		e.Confidence*100, e.Threshold*100)
}

// ContentError reports that no usable content could be extracted from a PDF.
// It is distinct from AI-backend failures: the batch pipeline skips the file
// instead of marking it as an error.
type ContentError struct {
	Path string
	Err  error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("cannot read PDF %s: %v", e.Path, e.Err)
}

func (e *ContentError) Unwrap() error { return e.Err }
