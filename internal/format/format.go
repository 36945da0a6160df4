// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format turns extracted paper metadata into sanitized,
// length-bounded filenames, via a fixed layout or a placeholder template.
package format

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/namingpaper/pkg/types"
)

// forbidden is the set of characters never allowed in a filename.
const forbidden = `<>:"/\|?*`

// Sanitize removes characters that are invalid or awkward in filenames.
// It is idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(name string) string {
	// Decompose only when non-ASCII is present; NFKD is the identity on
	// pure-ASCII input anyway and skipping it avoids the allocation.
	if !isASCII(name) {
		name = norm.NFKD.String(name)
	}

	var b strings.Builder
	b.Grow(len(name))
	prevSpace := false
	for _, r := range name {
		switch {
		case unicode.In(r, unicode.C):
			// Drop control, format, surrogate, and unassigned runes.
		case strings.ContainsRune(forbidden, r):
		case unicode.IsSpace(r) || r == '_':
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}

	out := strings.Trim(b.String(), ". ")
	// Deleting a rune between two combining-mark sequences can leave the
	// marks out of canonical order; re-normalize so the result is a fixed
	// point of Sanitize.
	if !isASCII(out) {
		out = norm.NFKD.String(out)
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// FormatAuthors formats an author-name list for a filename:
//
//	[]                          -> "Unknown"
//	["Smith"]                   -> "Smith"
//	["Smith", "Jones"]          -> "Smith and Jones"
//	["Smith", "Jones", "Brown"] -> "Smith, Jones, and Brown"
//	more than maxAuthors        -> "Smith et al"
func FormatAuthors(authors []string, maxAuthors int) string {
	switch {
	case len(authors) == 0:
		return "Unknown"
	case len(authors) > maxAuthors:
		return authors[0] + " et al"
	case len(authors) == 1:
		return authors[0]
	case len(authors) == 2:
		return authors[0] + " and " + authors[1]
	default:
		return strings.Join(authors[:len(authors)-1], ", ") + ", and " + authors[len(authors)-1]
	}
}

// AbbrevName rewrites a full name as "Surname, F. M.". Names with fewer than
// two space-separated tokens are returned unchanged.
func AbbrevName(full string) string {
	tokens := strings.Fields(full)
	if len(tokens) < 2 {
		return full
	}

	surname := tokens[len(tokens)-1]
	initials := make([]string, 0, len(tokens)-1)
	for _, tok := range tokens[:len(tokens)-1] {
		r := []rune(tok)
		initials = append(initials, string(r[0])+".")
	}
	return surname + ", " + strings.Join(initials, " ")
}

// abbrevAll maps AbbrevName over a full-name list.
func abbrevAll(full []string) []string {
	out := make([]string, len(full))
	for i, name := range full {
		out[i] = AbbrevName(name)
	}
	return out
}

// FormatJournal prefers the abbreviation when one is known.
func FormatJournal(journal, abbrev string) string {
	if abbrev != "" {
		return abbrev
	}
	return journal
}

// FormatTitle keeps the first maxWords words of the title. When truncated,
// trailing punctuation is stripped from the last retained word and an
// ellipsis marker is appended.
func FormatTitle(title string, maxWords int) string {
	words := strings.Fields(title)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	result := strings.Join(words[:maxWords], " ")
	return strings.TrimRight(result, ".,;:") + "..."
}

// BuildFilename assembles the fixed-layout filename
// "{authors}, ({year}, {journal}), {title}.pdf", sanitized and truncated to
// cfg.MaxFilenameLength. Pure function of its inputs.
func BuildFilename(md types.PaperMetadata, cfg types.FormatConfig) string {
	name := fmt.Sprintf("%s, (%d, %s), %s.pdf",
		FormatAuthors(md.Authors, cfg.MaxAuthors),
		md.Year,
		FormatJournal(md.Journal, md.JournalAbbrev),
		FormatTitle(md.Title, cfg.MaxTitleWords),
	)
	return enforceLength(Sanitize(name), cfg.MaxFilenameLength)
}

// BuildDestination places the fixed-layout filename alongside the source file.
func BuildDestination(source string, md types.PaperMetadata, cfg types.FormatConfig) string {
	return filepath.Join(filepath.Dir(source), BuildFilename(md, cfg))
}

// enforceLength truncates the stem so the whole name fits within max runes,
// keeping the ".pdf" suffix intact. Trailing dots and spaces left dangling by
// the cut are stripped from the stem before the suffix is re-appended.
func enforceLength(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	stem := strings.TrimSuffix(name, ".pdf")
	stemRunes := []rune(stem)
	keep := max - len(".pdf")
	if keep < 0 {
		keep = 0
	}
	if keep > len(stemRunes) {
		keep = len(stemRunes)
	}
	trimmed := strings.TrimRight(string(stemRunes[:keep]), ". ")
	return trimmed + ".pdf"
}
