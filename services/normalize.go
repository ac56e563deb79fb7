package services

import (
	"regexp"
	"strings"
)

// nonWordRe matches runes that are neither word characters nor whitespace.
// RE2's \s is ASCII-only, so the remaining Unicode spaces are listed too.
var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`)

// Normalize lower-cases text, trims it and strips punctuation so that
// differently typed questions compare equal.
func Normalize(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = nonWordRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
