// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/namingpaper/pkg/types"
)

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.pdf"), 2, true)
	var ce *types.ContentError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *types.ContentError", err)
	}
}

func TestExtractGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 but not really a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Extract(path, 2, true)
	var ce *types.ContentError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *types.ContentError", err)
	}
}

func jpegBlob(payload int) []byte {
	var b bytes.Buffer
	b.Write(jpegSOI)
	b.Write(bytes.Repeat([]byte{0x00}, payload))
	b.Write(jpegEOI)
	return b.Bytes()
}

func TestFirstPageJPEG(t *testing.T) {
	t.Run("none present", func(t *testing.T) {
		if got := firstPageJPEG([]byte("plain pdf operators, no images")); got != nil {
			t.Errorf("got %d bytes, want nil", len(got))
		}
	})

	t.Run("small images ignored", func(t *testing.T) {
		data := append([]byte("header "), jpegBlob(16)...)
		if got := firstPageJPEG(data); got != nil {
			t.Errorf("got %d bytes, want nil for sub-threshold image", len(got))
		}
	})

	t.Run("largest stream wins", func(t *testing.T) {
		small := jpegBlob(minImageSize)
		large := jpegBlob(minImageSize * 3)
		data := append(append([]byte("x"), small...), append([]byte("y"), large...)...)

		got := firstPageJPEG(data)
		if !bytes.Equal(got, large) {
			t.Errorf("got %d bytes, want the %d-byte stream", len(got), len(large))
		}
	})

	t.Run("result is a complete marker-delimited stream", func(t *testing.T) {
		data := append([]byte("prefix"), jpegBlob(minImageSize)...)
		got := firstPageJPEG(data)
		if got == nil {
			t.Fatal("expected an image")
		}
		if !bytes.HasPrefix(got, jpegSOI) || !bytes.HasSuffix(got, jpegEOI) {
			t.Error("image is not SOI..EOI delimited")
		}
	})
}
