// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/paperwiz/pkg/types"
)

// summaryPromptTmpl asks for one structured summary per title. Titles are the
// only input; the model is told not to invent data.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`You are an academic research assistant. Your goal is to generate structured summaries for each of the following papers **based only on their titles**. Do not invent specific data, but you can infer **general methods, contributions, and challenges** based on standard research naming conventions.

**Instructions:**
1. Write each summary under the paper title.
2. Use clear, readable markdown formatting with bullet points.
3. Structure each summary with these sections:
   - **Likely Research Focus**
   - **Probable Methodologies or Approaches**
   - **Expected Results or Applications**
   - **Potential Challenges or Limitations**

### Papers:
{{range .Titles}}- {{.}}
{{end}}
Generate the markdown-formatted summaries below.
`))

// comparePromptTmpl asks for a structured comparison of every title.
var comparePromptTmpl = template.Must(template.New("compare").Parse(`You are a senior academic researcher. Your task is to compare the following research papers based on their titles. Even without full access to the content, use your expert-level understanding of research naming conventions to infer what each paper is about.

For each paper, estimate the likely **methodologies**, **experiments**, **results**, and **contributions**, and then write a **structured comparison** highlighting similarities and differences.

**Instructions:**
1. **Do not fabricate data** or pretend to know specific content. Base your response purely on title-based inference.
2. Use markdown formatting for readability.
3. Present your output in the following structure:

### Comparison of Research Papers
- **Paper 1: _Title_**
  - Methodologies:
  - Key Focus:
  - Expected Findings:
  - Possible Limitations:

... repeat for all papers ...

**Comparative Insights:**
- Point out overlaps in methods or aims
- Note any differences in scope, domain, or novelty
- Comment on how the papers may complement or contrast each other

### Papers to Compare:
{{range .Titles}}- {{.}}
{{end}}
Now provide the structured markdown comparison below.
`))

// bibtexPromptTmpl asks for a BibTeX entry from search metadata alone.
var bibtexPromptTmpl = template.Must(template.New("bibtex").Parse(`Please generate a BibTeX citation entry for the following paper information:

Title: {{.Title}}
Authors: {{.Authors}}
Citation Count: {{.CitationCount}}
PDF URL: {{.PDFURL}}
External IDs: {{.ExternalIDs}}

Ensure it's well-structured and ready to be used in academic BibTeX format.
`))

type groupPromptData struct {
	Titles []string
}

type bibtexPromptData struct {
	Title         string
	Authors       string
	CitationCount int
	PDFURL        string
	ExternalIDs   string
}

// GroupPrompt renders the Summary or Compare prompt for titles.
func GroupPrompt(view types.ViewKind, titles []string) (string, error) {
	var tmpl *template.Template
	switch view {
	case types.ViewSummary:
		tmpl = summaryPromptTmpl
	case types.ViewCompare:
		tmpl = comparePromptTmpl
	default:
		return "", fmt.Errorf("view %s has no group prompt", view)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, groupPromptData{Titles: titles}); err != nil {
		return "", fmt.Errorf("executing %s prompt: %w", view, err)
	}
	return buf.String(), nil
}

// BibTeXPrompt renders the fallback BibTeX prompt for p.
func BibTeXPrompt(p types.Paper) (string, error) {
	data := bibtexPromptData{
		Title:         p.Title,
		Authors:       strings.Join(p.Authors, ", "),
		CitationCount: p.CitationCount,
		PDFURL:        p.PDFURL,
		ExternalIDs:   p.ExternalIDList(),
	}
	if data.Title == "" {
		data.Title = "Unknown Title"
	}
	if data.PDFURL == "" {
		data.PDFURL = "N/A"
	}
	var buf bytes.Buffer
	if err := bibtexPromptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing bibtex prompt: %w", err)
	}
	return buf.String(), nil
}
