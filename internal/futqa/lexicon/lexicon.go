// Package lexicon holds the curated phrase lists the classifier matches
// against, and the matcher that applies them.
//
// Matching is case-insensitive and anchored on word boundaries, so "it"
// matches "who teaches it" but not "submit", and "how far" matches as a
// phrase but not inside "however far".
package lexicon

import (
	"regexp"
	"sort"
	"strings"
)

// Set is a named, compiled list of phrases.
type Set struct {
	Name    string
	Phrases []string
	re      *regexp.Regexp
}

// NewSet compiles phrases into a single alternation. Longer phrases are
// tried first so Find reports "how are you" rather than "how".
func NewSet(name string, phrases ...string) *Set {
	cleaned := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = Normalize(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	ordered := append([]string(nil), cleaned...)
	sort.SliceStable(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })

	quoted := make([]string, len(ordered))
	for i, p := range ordered {
		quoted[i] = regexp.QuoteMeta(p)
	}
	s := &Set{Name: name, Phrases: cleaned}
	if len(quoted) > 0 {
		s.re = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return s
}

// Match reports whether any phrase occurs in text.
func (s *Set) Match(text string) bool {
	if s == nil || s.re == nil {
		return false
	}
	return s.re.MatchString(Normalize(text))
}

// Find returns the matched phrases in order of appearance, without
// duplicates.
func (s *Set) Find(text string) []string {
	if s == nil || s.re == nil {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	for _, m := range s.re.FindAllString(Normalize(text), -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// Count returns how many distinct phrases of the set occur in text.
func (s *Set) Count(text string) int {
	return len(s.Find(text))
}

var (
	spaceRe = regexp.MustCompile(`\s+`)
	tokenRe = regexp.MustCompile(`[a-z0-9]+(?:'[a-z]+)?`)

	apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")
)

// Normalize lowercases text, unifies apostrophes and collapses whitespace.
func Normalize(text string) string {
	text = apostrophes.Replace(strings.ToLower(text))
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// Tokens splits text into lowercase word tokens.
func Tokens(text string) []string {
	return tokenRe.FindAllString(Normalize(text), -1)
}

// ContentWords returns the tokens of text that carry meaning: three letters
// or longer and not a stopword. Order is preserved, duplicates dropped.
func ContentWords(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range Tokens(text) {
		if len(tok) < 3 || stopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// Keywords returns the distinct tokens of four or more characters.
func Keywords(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range Tokens(text) {
		if len(tok) < 4 || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// WordCount is the number of tokens in text.
func WordCount(text string) int {
	return len(Tokens(text))
}
