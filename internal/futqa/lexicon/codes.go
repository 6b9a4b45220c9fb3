package lexicon

import (
	"regexp"
	"strings"
)

// codeRe matches course-code shaped text: "COS101", "cos 101",
// "FTM-CPT111", "ftm-cpt 112".
var codeRe = regexp.MustCompile(`\b((?:[a-z]{3}-)?[a-z]{3}) ?(\d{3})\b`)

// CanonicalCode upper-cases code and removes the optional space between
// the letters and digits ("cos 101" -> "COS101").
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
}

// CodePrefix returns the letter part of a canonical code ("FTM-CPT111" ->
// "FTM-CPT").
func CodePrefix(code string) string {
	return strings.TrimRight(CanonicalCode(code), "0123456789")
}

// ExtractCodes returns the canonical course codes found in text, in order of
// appearance. Only codes whose letter prefix is in prefixes are kept so that
// "courses for 100 level" does not yield "FOR100".
func ExtractCodes(text string, prefixes map[string]bool) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range codeRe.FindAllStringSubmatch(Normalize(text), -1) {
		prefix := strings.ToUpper(m[1])
		if !prefixes[prefix] {
			continue
		}
		code := prefix + m[2]
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

var levelRe = regexp.MustCompile(`\b([1-5]00) ?(?:level|lvl|l)\b`)

// Level returns the academic level mentioned in text ("200 level" -> 200),
// or 0.
func Level(text string) int {
	m := levelRe.FindStringSubmatch(Normalize(text))
	if m == nil {
		return 0
	}
	return int(m[1][0]-'0') * 100
}

var fullCodeRe = regexp.MustCompile(`^(?:[a-z]{3}-)?[a-z]{3} ?\d{3}$`)

// IsCode reports whether s is shaped like a course code, known or not.
func IsCode(s string) bool {
	return fullCodeRe.MatchString(Normalize(s))
}
