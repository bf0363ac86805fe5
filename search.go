package axe

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sajari/fuzzy"
)

// SearchResult is a converted output that matched a query.
type SearchResult struct {
	JobID      uint    `json:"job_id"`
	Identifier string  `json:"identifier,omitempty"`
	Title      string  `json:"title,omitempty"`
	Path       string  `json:"path"`
	Context    string  `json:"context"`
	Score      float64 `json:"score"`
}

const searchContextLen = 160

// SearchOutputs searches the text and markdown files written by successful
// jobs. Exact mode is a case-insensitive substring match. Fuzzy mode also
// accepts the closest spelling of query found in a document. Outputs that
// no longer exist are ignored.
func (l *Ledger) SearchOutputs(ctx context.Context, query string, limit int, fuzzyMode bool) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ValidationError{Field: "query", Message: "must not be empty"}
	}

	var recs []JobRecord
	if err := l.db.WithContext(ctx).
		Where("status = ? AND outputs != ''", string(StatusSuccess)).
		Order("id DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}

	lowerQuery, _ := foldCase(query)
	seen := make(map[string]bool)
	var results []SearchResult
	for _, rec := range recs {
		for _, path := range rec.OutputPaths() {
			if seen[path] || !searchable(path) {
				continue
			}
			seen[path] = true

			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			text := string(data)
			lowerText, offsets := foldCase(text)
			pos, matched, score := matchText(lowerText, lowerQuery, fuzzyMode)
			if pos < 0 {
				continue
			}
			start, end := offsets[pos], offsets[pos+len(matched)]
			results = append(results, SearchResult{
				JobID:      rec.ID,
				Identifier: rec.Identifier,
				Title:      rec.Title,
				Path:       path,
				Context:    extractContextAt(text, start, end-start, searchContextLen),
				Score:      score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// foldCase lowercases s rune by rune. Lowercasing can change a rune's
// encoded length, so offsets maps each byte of the result (and its end)
// to the byte offset in s of the rune it came from.
func foldCase(s string) (string, []int) {
	var b strings.Builder
	b.Grow(len(s))
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		lr := unicode.ToLower(r)
		b.WriteRune(lr)
		for n := utf8.RuneLen(lr); n > 0; n-- {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(s))
	return b.String(), offsets
}

func searchable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".txt" || ext == ".md"
}

// matchText finds query in lowerText. It returns the match position (-1
// when nothing matched), the matched term and a score in (0, 1].
func matchText(lowerText, lowerQuery string, fuzzyMode bool) (int, string, float64) {
	if pos := strings.Index(lowerText, lowerQuery); pos >= 0 {
		return pos, lowerQuery, 1
	}
	if !fuzzyMode || strings.ContainsAny(lowerQuery, " \t") {
		return -1, "", 0
	}

	var words []string
	for _, w := range strings.FieldsFunc(lowerText, isWordSep) {
		if len(w) >= 3 {
			words = append(words, w)
		}
	}
	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(2)
	model.Train(words)

	suggestion := model.SpellCheck(lowerQuery)
	if suggestion == "" {
		return -1, "", 0
	}
	pos := strings.Index(lowerText, suggestion)
	if pos < 0 {
		return -1, "", 0
	}
	dist := fuzzy.Levenshtein(&suggestion, &lowerQuery)
	score := 1 - float64(dist)/float64(max(len(suggestion), len(lowerQuery)))
	if score <= 0 {
		return -1, "", 0
	}
	return pos, suggestion, score
}

func isWordSep(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		return false
	case r < 128:
		return true
	}
	return false
}

// extractContextAt returns the text around a match at pos, single-spaced.
func extractContextAt(text string, pos, matchLen, contextLen int) string {
	start := max(pos-contextLen/2, 0)
	end := min(pos+matchLen+contextLen/2, len(text))
	if start > end {
		start = end
	}

	snippet := collapseSpace(strings.ToValidUTF8(text[start:end], ""))
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet += "..."
	}
	return snippet
}
