package axe

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxFilenameLength caps sanitized base names, leaving room for extensions.
const MaxFilenameLength = 200

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	// Whitespace runs, newlines and tabs included
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// SanitizeFilename turns a paper title into a base file name: illegal
// characters removed, whitespace runs collapsed to one space, trimmed and
// capped at MaxFilenameLength runes. Returns "" when nothing usable is left.
func SanitizeFilename(title string) string {
	name := norm.NFC.String(title)
	// Control characters are whitespace in titles ("Deep\nLearning"), so
	// collapse before stripping.
	name = whitespaceRuns.ReplaceAllString(name, " ")
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = whitespaceRuns.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) > MaxFilenameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxFilenameLength]))
	}
	return name
}
