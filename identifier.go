package axe

import (
	"regexp"
	"strings"
)

// Identifier is a canonical arXiv identifier such as "2103.15538" or
// "2103.15538v2".
type Identifier string

// identifierPatterns are tried in order; the first match wins.
//
// The bare pattern matches any NNNN.NNNN[N] run, so file names or URLs with
// unrelated digits can produce false positives. The prefixed pattern can
// never win over the bare one; it stays for ordering parity.
var identifierPatterns = []*regexp.Regexp{
	// arxiv.org/abs/YYMM.NNNNN or arxiv.org/pdf/YYMM.NNNNN
	regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/(\d{4}\.\d{4,5}(?:v\d+)?)`),
	// YYMM.NNNNN anywhere
	regexp.MustCompile(`(?i)(\d{4}\.\d{4,5}(?:v\d+)?)`),
	// arxiv:YYMM.NNNNN, arxiv-YYMM.NNNNN, arxiv YYMM.NNNNN
	regexp.MustCompile(`(?i)arxiv[:\-\s]*(\d{4}\.\d{4,5}(?:v\d+)?)`),
}

// ExtractIdentifier pulls an arXiv identifier out of a URL, file name or
// free text. The matched text is returned verbatim, version suffix included.
func ExtractIdentifier(text string) (Identifier, bool) {
	for _, pat := range identifierPatterns {
		if m := pat.FindStringSubmatch(text); len(m) > 1 {
			return Identifier(m[1]), true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (id Identifier) String() string {
	return string(id)
}

// Base strips the version suffix (e.g. "2301.00001v2" -> "2301.00001").
func (id Identifier) Base() Identifier {
	base, _ := id.split()
	return base
}

// Version returns the version suffix without the leading "v", or "" when
// the identifier is unversioned.
func (id Identifier) Version() string {
	_, v := id.split()
	return v
}

func (id Identifier) split() (Identifier, string) {
	s := string(id)
	idx := strings.LastIndexAny(s, "vV")
	if idx <= 0 {
		return id, ""
	}
	suffix := s[idx+1:]
	if suffix == "" {
		return id, ""
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return id, ""
		}
	}
	return Identifier(s[:idx]), suffix
}
