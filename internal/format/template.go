// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/namingpaper/pkg/types"
)

// Presets are the built-in filename templates, selectable by name.
var Presets = map[string]string{
	"default": "{authors}, ({year}, {journal}), {title}",
	"compact": "{authors} ({year}) {title}",
	"full":    "{authors}, ({year}, {journal_full}), {title}",
	"simple":  "{authors}_{year}_{title}",
}

// validPlaceholders is the set of tokens a template may use.
var validPlaceholders = map[string]bool{
	"authors":        true,
	"authors_full":   true,
	"authors_abbrev": true,
	"year":           true,
	"journal":        true,
	"journal_abbrev": true,
	"journal_full":   true,
	"title":          true,
}

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// Resolve maps a preset name to its template string; anything that is not a
// preset name is treated as a custom template and returned as-is.
func Resolve(templateOrName string) string {
	if tmpl, ok := Presets[templateOrName]; ok {
		return tmpl
	}
	return templateOrName
}

// Validate checks that a template contains at least one known placeholder
// and no unrecognized ones.
func Validate(template string) error {
	matches := placeholderRe.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return fmt.Errorf("template must contain at least one placeholder")
	}
	for _, m := range matches {
		if !validPlaceholders[m[1]] {
			return fmt.Errorf("invalid placeholder {%s}; valid placeholders: %s",
				m[1], strings.Join(placeholderNames(), ", "))
		}
	}
	return nil
}

func placeholderNames() []string {
	names := make([]string, 0, len(validPlaceholders))
	for name := range validPlaceholders {
		names = append(names, "{"+name+"}")
	}
	sort.Strings(names)
	return names
}

// BuildFromTemplate assembles a filename from a template or preset name.
// The author-list rules apply independently to the surname, full-name, and
// abbreviated-name variants. The result is sanitized, given a .pdf
// extension, and truncated to cfg.MaxFilenameLength.
func BuildFromTemplate(md types.PaperMetadata, templateOrName string, cfg types.FormatConfig) (string, error) {
	tmpl := Resolve(templateOrName)
	if err := Validate(tmpl); err != nil {
		return "", err
	}

	replacements := map[string]string{
		"authors":        FormatAuthors(md.Authors, cfg.MaxAuthors),
		"authors_full":   FormatAuthors(md.AuthorsFull, cfg.MaxAuthors),
		"authors_abbrev": FormatAuthors(abbrevAll(md.AuthorsFull), cfg.MaxAuthors),
		"year":           fmt.Sprintf("%d", md.Year),
		"journal":        FormatJournal(md.Journal, md.JournalAbbrev),
		"journal_abbrev": md.JournalAbbrev,
		"journal_full":   md.Journal,
		"title":          FormatTitle(md.Title, cfg.MaxTitleWords),
	}

	name := tmpl
	for key, value := range replacements {
		name = strings.ReplaceAll(name, "{"+key+"}", value)
	}

	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}

	return enforceLength(Sanitize(name), cfg.MaxFilenameLength), nil
}
