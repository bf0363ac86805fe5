package axe

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RenderMarkdown turns pdftotext output into a markdown document. With
// metadata, a header block and a BibTeX citation are added.
func RenderMarkdown(title, text string, paper *Paper) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if paper != nil {
		writeMetadata(&sb, paper)
	}

	for _, para := range Paragraphs(text) {
		sb.WriteString(para)
		sb.WriteString("\n\n")
	}

	if paper != nil && paper.ID != "" {
		sb.WriteString("## Citation\n\n```bibtex\n")
		sb.WriteString(paper.BibTeX())
		sb.WriteString("```\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

func writeMetadata(sb *strings.Builder, p *Paper) {
	var lines []string
	if len(p.Authors) > 0 {
		lines = append(lines, "**Authors:** "+strings.Join(p.Authors, ", "))
	}
	if p.ID != "" {
		lines = append(lines, fmt.Sprintf("**arXiv:** [%s](%s)", p.ID, p.AbstractURL()))
	}
	if p.Categories != "" {
		lines = append(lines, "**Categories:** "+p.Categories)
	}
	if !p.Published.IsZero() {
		lines = append(lines, "**Published:** "+p.Published.Format("2006-01-02"))
	}
	if p.DOI != "" {
		lines = append(lines, "**DOI:** "+p.DOI)
	}
	for _, l := range lines {
		sb.WriteString("- " + l + "\n")
	}
	if len(lines) > 0 {
		sb.WriteString("\n")
	}

	if p.Abstract != "" {
		sb.WriteString("## Abstract\n\n")
		sb.WriteString(p.Abstract)
		sb.WriteString("\n\n")
	}
	sb.WriteString("---\n\n")
}

// Paragraphs splits extracted text into reflowed paragraphs. Blank lines
// and form feeds (page breaks) end a paragraph; wrapped lines are joined
// and end-of-line hyphenation is undone.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\f", "\n\n")

	var paras []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, joinLines(cur))
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return paras
}

func joinLines(lines []string) string {
	joined := lines[0]
	for _, l := range lines[1:] {
		if hyphenated(joined, l) {
			joined = joined[:len(joined)-1] + l
			continue
		}
		joined += " " + l
	}
	return joined
}

// hyphenated reports whether prev ends in a word broken across lines,
// e.g. "trans-" followed by "former".
func hyphenated(prev, next string) bool {
	if !strings.HasSuffix(prev, "-") || len(prev) < 2 {
		return false
	}
	before, _ := utf8.DecodeLastRuneInString(prev[:len(prev)-1])
	after, _ := utf8.DecodeRuneInString(next)
	return unicode.IsLetter(before) && unicode.IsLower(after)
}
