package knowledge

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is the in-memory Store built from a Document. It is immutable
// after NewCatalog returns and safe for concurrent readers.
type Catalog struct {
	institution Institution
	courses     map[string]Course
	ordered     []Course
	guidance    map[string]map[string]Guide
	faq         []QA
	facts       map[string]string

	lecturers map[string][]string // normalised name -> course codes
	names     map[string]string   // normalised name -> display name
}

var _ Store = (*Catalog)(nil)

// NewCatalog indexes doc. Duplicate course codes and prerequisites that are
// neither known codes nor free-text qualifications are rejected.
func NewCatalog(doc Document) (*Catalog, error) {
	c := &Catalog{
		institution: doc.Institution,
		courses:     make(map[string]Course, len(doc.Courses)),
		guidance:    doc.Guidance,
		faq:         doc.FAQ,
		lecturers:   make(map[string][]string),
		names:       make(map[string]string),
	}
	if c.guidance == nil {
		c.guidance = map[string]map[string]Guide{}
	}

	for _, course := range doc.Courses {
		code := normCode(course.Code)
		if code == "" {
			return nil, fmt.Errorf("%w: course without code", ErrInvalid)
		}
		if _, dup := c.courses[code]; dup {
			return nil, fmt.Errorf("%w: duplicate course code %s", ErrInvalid, code)
		}
		course.Code = code
		c.courses[code] = course
		c.ordered = append(c.ordered, course)
		for _, name := range course.Lecturers {
			key := normName(name)
			if key == "" {
				continue
			}
			if _, ok := c.names[key]; !ok {
				c.names[key] = name
			}
			c.lecturers[key] = append(c.lecturers[key], code)
		}
	}

	for _, course := range c.ordered {
		for _, p := range course.Prerequisites {
			if looksLikeCode(p) {
				if _, ok := c.courses[normCode(p)]; !ok {
					return nil, fmt.Errorf("%w: %s lists unknown prerequisite %s", ErrInvalid, course.Code, p)
				}
			}
		}
	}

	sort.SliceStable(c.ordered, func(i, j int) bool {
		if c.ordered[i].Level != c.ordered[j].Level {
			return c.ordered[i].Level < c.ordered[j].Level
		}
		return c.ordered[i].Code < c.ordered[j].Code
	})

	c.facts = renderFacts(doc.Institution)
	return c, nil
}

func (c *Catalog) GetCourse(code string) (Course, bool) {
	course, ok := c.courses[normCode(code)]
	return course, ok
}

func (c *Catalog) ListCourses(level int) []Course {
	var out []Course
	for _, course := range c.ordered {
		if level == 0 || course.Level == level {
			out = append(out, course)
		}
	}
	return out
}

func (c *Catalog) GetInstitutionalFact(topic string) (string, bool) {
	fact, ok := c.facts[strings.ToLower(strings.TrimSpace(topic))]
	return fact, ok
}

func (c *Catalog) Guide(section, topic string) (Guide, bool) {
	g, ok := c.guidance[section][topic]
	return g, ok
}

func (c *Catalog) CoursesByLecturer(name string) []Course {
	var out []Course
	for _, code := range c.lecturers[normName(name)] {
		out = append(out, c.courses[code])
	}
	return out
}

func (c *Catalog) CoursesBySubject(subject string) []Course {
	subject = normName(subject)
	var out []Course
	for _, course := range c.ordered {
		for _, s := range course.Subjects {
			if normName(s) == subject {
				out = append(out, course)
				break
			}
		}
	}
	return out
}

func (c *Catalog) FAQ() []QA { return c.faq }

func (c *Catalog) Institution() Institution { return c.institution }

// Stats reports catalogue sizes for status endpoints.
func (c *Catalog) Stats() map[string]int {
	notes, pqs := 0, 0
	for _, course := range c.ordered {
		if course.Notes != nil {
			notes++
		}
		pqs += len(course.PastQuestions)
	}
	return map[string]int{
		"courses":        len(c.ordered),
		"lecturers":      len(c.names),
		"lecture_notes":  notes,
		"past_questions": pqs,
		"faq":            len(c.faq),
	}
}

func normCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), " ", ""))
}

func normName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// looksLikeCode separates "COS101" from free-text prerequisites such as
// "O'Level Mathematics".
func looksLikeCode(s string) bool {
	s = normCode(s)
	if len(s) < 6 {
		return false
	}
	digits := s[len(s)-3:]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return !strings.ContainsAny(s, "'")
}
