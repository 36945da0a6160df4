// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts text and a first-page image from PDF files.
// It uses ledongthuc/pdf (pure Go, no CGO) for text extraction.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/namingpaper/pkg/types"
)

// DefaultMaxPages is how many leading pages are read for text. Paper titles,
// authors, and journal lines live on the first page; the second catches
// papers with a cover sheet.
const DefaultMaxPages = 2

// minImageSize filters out logos and decorations when probing for an
// embedded page scan.
const minImageSize = 4096

// Extract reads up to maxPages of text from the PDF at path, pages joined by
// a blank line, and optionally the first page's embedded scan image. A PDF
// that yields neither text nor an image is a content failure: there is
// nothing to hand to an AI backend.
//
// All failures, including panics from malformed files inside the PDF
// library, are reported as *types.ContentError so the batch pipeline can
// skip the file rather than abort.
func Extract(path string, maxPages int, withImage bool) (content types.PDFContent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &types.ContentError{Path: path, Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.PDFContent{}, &types.ContentError{Path: path, Err: err}
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return types.PDFContent{}, &types.ContentError{Path: path, Err: err}
	}
	if r.NumPage() == 0 {
		return types.PDFContent{}, &types.ContentError{Path: path, Err: errors.New("PDF has no pages")}
	}

	var parts []string
	last := maxPages
	if r.NumPage() < last {
		last = r.NumPage()
	}
	for i := 1; i <= last; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip unreadable pages
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	var image []byte
	if withImage {
		image = firstPageJPEG(data)
	}

	if len(parts) == 0 && image == nil {
		return types.PDFContent{}, &types.ContentError{
			Path: path,
			Err:  errors.New("no extractable text or page image"),
		}
	}

	return types.PDFContent{
		Text:           strings.Join(parts, "\n\n"),
		FirstPageImage: image,
		Path:           path,
	}, nil
}

// ExtractText extracts only the text (no image probing).
func ExtractText(path string, maxPages int) (string, error) {
	content, err := Extract(path, maxPages, false)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

var (
	jpegSOI = []byte{0xFF, 0xD8, 0xFF}
	jpegEOI = []byte{0xFF, 0xD9}
)

// firstPageJPEG returns the largest DCTDecode (JPEG) stream embedded in the
// file, or nil. Scanned papers store each page as one full-page JPEG
// XObject, stored verbatim in the PDF body, so the first large SOI..EOI span
// is the page scan. Vector-only PDFs simply have none.
func firstPageJPEG(data []byte) []byte {
	var best []byte
	rest := data
	offset := 0
	for {
		start := bytes.Index(rest, jpegSOI)
		if start < 0 {
			break
		}
		start += offset
		end := bytes.Index(data[start:], jpegEOI)
		if end < 0 {
			break
		}
		end += start + len(jpegEOI)

		if end-start >= minImageSize && end-start > len(best) {
			best = data[start:end]
		}

		offset = end
		rest = data[offset:]
	}
	return best
}
