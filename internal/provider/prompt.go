// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"text/template"
)

// extractionPromptTmpl is the prompt sent to every backend. It asks for a
// strict-JSON metadata object and seeds the model with the abbreviations of
// the journals this tool is most often pointed at.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`Paper text:

{{.Text}}

Extract metadata from this academic paper.

Return a JSON object with these fields:
- authors: list of author last names only (e.g., ["Fama", "French"])
- authors_full: list of author full names (e.g., ["Eugene F. Fama", "Kenneth R. French"])
- year: publication year as integer
- journal: full journal name
- journal_abbrev: common abbreviation if known (e.g., "JFE" for Journal of Financial Economics, "AER" for American Economic Review), or null
- title: paper title (just the main title, not subtitle)
- confidence: your confidence in the extraction from 0.0 to 1.0

Common journal abbreviations:
- Journal of Finance -> JF
- Journal of Financial Economics -> JFE
- Review of Financial Studies -> RFS
- American Economic Review -> AER
- Quarterly Journal of Economics -> QJE
- Journal of Political Economy -> JPE
- Econometrica -> ECMA
- Review of Economic Studies -> REStud
- Journal of Monetary Economics -> JME
- Journal of Economic Theory -> JET

Only return valid JSON, no other text.`))

// renderPrompt executes the extraction prompt template over truncated text.
func renderPrompt(text string, maxChars int) (string, error) {
	var buf bytes.Buffer
	err := extractionPromptTmpl.Execute(&buf, struct{ Text string }{Text: truncateText(text, maxChars)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
