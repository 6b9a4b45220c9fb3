package intent

import (
	"strings"

	"github.com/bdobrica/futqa/internal/futqa/knowledge"
	"github.com/bdobrica/futqa/internal/futqa/lexicon"
)

var honorifics = map[string]bool{"dr": true, "prof": true, "mr": true, "mrs": true, "ms": true, "engr": true}

// Registry recognises the entities a knowledge store knows about: course
// codes (including unknown numbers under a known prefix), course titles and
// aliases, and lecturer names.
type Registry struct {
	prefixes map[string]bool

	aliases    *lexicon.Set
	aliasCodes map[string]string

	lecturers     *lexicon.Set
	lecturerNames map[string]string
}

// NewRegistry indexes the courses of store.
func NewRegistry(store knowledge.Store) *Registry {
	r := &Registry{
		prefixes:      make(map[string]bool),
		aliasCodes:    make(map[string]string),
		lecturerNames: make(map[string]string),
	}
	var aliasPhrases, namePhrases []string
	for _, c := range store.ListCourses(0) {
		code := lexicon.CanonicalCode(c.Code)
		r.prefixes[lexicon.CodePrefix(code)] = true

		for _, a := range append([]string{c.Title}, c.Aliases...) {
			key := tokenForm(a)
			if key == "" || len(strings.Fields(key)) < 2 {
				continue
			}
			if _, taken := r.aliasCodes[key]; !taken {
				r.aliasCodes[key] = code
				aliasPhrases = append(aliasPhrases, key)
			}
		}
		for _, name := range c.Lecturers {
			for _, key := range nameForms(name) {
				if _, taken := r.lecturerNames[key]; !taken {
					r.lecturerNames[key] = name
					namePhrases = append(namePhrases, key)
				}
			}
		}
	}
	r.aliases = lexicon.NewSet("course_aliases", aliasPhrases...)
	r.lecturers = lexicon.NewSet("lecturer_names", namePhrases...)
	return r
}

// Prefixes returns the known course-code prefixes.
func (r *Registry) Prefixes() map[string]bool { return r.prefixes }

// Entities returns the course codes, aliased course codes and lecturer
// names in text, in that order and without duplicates.
func (r *Registry) Entities(text string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(e string) {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}

	for _, code := range lexicon.ExtractCodes(text, r.prefixes) {
		add(code)
	}
	flat := tokenForm(text)
	for _, a := range r.aliases.Find(flat) {
		add(r.aliasCodes[a])
	}
	for _, n := range r.lecturers.Find(flat) {
		add(r.lecturerNames[n])
	}
	return out
}

// IsLecturer reports whether entity is a lecturer name rather than a
// course code.
func (r *Registry) IsLecturer(entity string) bool {
	for _, name := range r.lecturerNames {
		if name == entity {
			return true
		}
	}
	return false
}

func tokenForm(s string) string {
	return strings.Join(lexicon.Tokens(s), " ")
}

// nameForms returns the phrases that identify a lecturer: the full name
// without honorifics and, when different, the name without initials.
func nameForms(name string) []string {
	var full, bare []string
	for _, tok := range lexicon.Tokens(name) {
		if honorifics[tok] {
			continue
		}
		full = append(full, tok)
		if len(tok) > 1 {
			bare = append(bare, tok)
		}
	}
	if len(full) == 0 {
		return nil
	}
	forms := []string{strings.Join(full, " ")}
	if b := strings.Join(bare, " "); b != forms[0] && len(b) >= 5 {
		forms = append(forms, b)
	}
	return forms
}
