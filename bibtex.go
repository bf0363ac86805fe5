package axe

import (
	"fmt"
	"strings"
)

// bibtexFieldOrder is the order fields are written in.
var bibtexFieldOrder = []string{"title", "author", "year", "month", "journal", "eprint", "archivePrefix", "primaryClass", "doi", "url"}

// BibTeX renders the paper as a BibTeX entry.
func (p *Paper) BibTeX() string {
	entryType := "misc"
	if p.JournalRef != "" {
		entryType = "article"
	}

	fields := map[string]string{
		"title":         p.Title,
		"author":        p.bibtexAuthors(),
		"journal":       p.JournalRef,
		"eprint":        p.ID,
		"archivePrefix": "arXiv",
		"primaryClass":  p.PrimaryCategory(),
		"doi":           p.DOI,
		"url":           p.AbstractURL(),
	}
	if !p.Published.IsZero() {
		fields["year"] = fmt.Sprintf("%d", p.Published.Year())
		fields["month"] = p.Published.Format("January")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "@%s{%s,\n", entryType, p.BibTeXKey())
	for _, name := range bibtexFieldOrder {
		if v := fields[name]; v != "" {
			fmt.Fprintf(&sb, "  %s = {%s},\n", name, escapeBibTeX(v))
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// BibTeXKey generates a citation key: first author's last name, year, and
// the first five letters of the title.
func (p *Paper) BibTeXKey() string {
	key := ""
	if len(p.Authors) > 0 {
		words := strings.Fields(p.Authors[0])
		if len(words) > 0 {
			key = strings.ToLower(strings.Trim(words[len(words)-1], ".,"))
		}
	}

	if !p.Published.IsZero() {
		key += fmt.Sprintf("%d", p.Published.Year())
	}

	if words := strings.Fields(p.Title); len(words) > 0 {
		first := strings.ToLower(strings.Trim(words[0], ".,!?;:"))
		key += first[:min(len(first), 5)]
	}

	if key == "" {
		key = "arxiv" + strings.ReplaceAll(p.ID, ".", "")
	}
	return key
}

// bibtexAuthors formats authors as "Last, First and Last, First".
func (p *Paper) bibtexAuthors() string {
	var formatted []string
	for _, name := range p.Authors {
		words := strings.Fields(name)
		switch {
		case len(words) == 0:
			continue
		case len(words) == 1 || strings.Contains(name, ","):
			formatted = append(formatted, name)
		default:
			last := words[len(words)-1]
			formatted = append(formatted, last+", "+strings.Join(words[:len(words)-1], " "))
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeBibTeX escapes special characters in BibTeX strings.
func escapeBibTeX(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\textbackslash{}")
	for _, c := range []string{"{", "}", "&", "%", "$", "#", "_"} {
		s = strings.ReplaceAll(s, c, "\\"+c)
	}
	s = strings.ReplaceAll(s, "\\textbackslash\\{\\}", "\\textbackslash{}")
	s = strings.ReplaceAll(s, "^", "\\textasciicircum{}")
	s = strings.ReplaceAll(s, "~", "\\textasciitilde{}")
	return s
}
