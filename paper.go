package axe

import (
	"strings"
	"time"
)

// Paper represents an arXiv paper's metadata as returned by the API.
type Paper struct {
	// ID is the arXiv identifier without version (e.g., "2301.00001")
	ID string

	// Title of the paper, whitespace-normalized
	Title string

	// Abstract of the paper
	Abstract string

	// Authors in submission order
	Authors []string

	// Categories is a space-separated list of arXiv categories
	Categories string

	// Published is when the first version was submitted
	Published time.Time

	// Updated is when the latest version was submitted
	Updated time.Time

	// Comments from the submitter (e.g., "10 pages, 3 figures")
	Comments string

	// JournalRef is the journal reference if published
	JournalRef string

	// DOI is the Digital Object Identifier if available
	DOI string

	// PDFLink is the public PDF location for the requested identifier
	PDFLink string
}

// PrimaryCategory returns the primary (first) category.
func (p *Paper) PrimaryCategory() string {
	cats := strings.Fields(p.Categories)
	if len(cats) == 0 {
		return ""
	}
	return cats[0]
}

// AbstractURL returns the arXiv abstract page URL.
func (p *Paper) AbstractURL() string {
	return "https://arxiv.org/abs/" + p.ID
}
