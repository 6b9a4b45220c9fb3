package strategy

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/knowledge"
	"github.com/bdobrica/futqa/internal/futqa/lexicon"
)

// courseAspects are the topics that narrow a course answer to one view.
var courseAspects = []string{
	"lecturers", "prerequisites", "credits", "assessment", "materials",
	"office_hours", "practical", "tips", "lecture_notes", "past_questions",
}

// aspects returns the course aspects among topics, in courseAspects order.
func aspects(topics []string) []string {
	var out []string
	for _, a := range courseAspects {
		if slices.Contains(topics, a) {
			out = append(out, a)
		}
	}
	return out
}

// resolved is the outcome of looking entities up in the store.
type resolved struct {
	courses   []knowledge.Course
	lecturers []string
	unknown   []string
}

func (r resolved) empty() bool {
	return len(r.courses) == 0 && len(r.lecturers) == 0 && len(r.unknown) == 0
}

func resolve(store knowledge.Store, entities []string) resolved {
	var r resolved
	for _, e := range entities {
		if c, ok := store.GetCourse(e); ok {
			r.courses = append(r.courses, c)
			continue
		}
		if lexicon.IsCode(e) {
			r.unknown = append(r.unknown, lexicon.CanonicalCode(e))
			continue
		}
		if len(store.CoursesByLecturer(e)) > 0 {
			r.lecturers = append(r.lecturers, e)
		}
	}
	return r
}

// CourseSpecific answers about the courses or lecturers named in the
// utterance. A course code missing from the catalogue gets a polite
// not-found answer rather than a refusal.
type CourseSpecific struct {
	store knowledge.Store
}

var _ Strategy = (*CourseSpecific)(nil)

func NewCourseSpecific(store knowledge.Store) *CourseSpecific {
	return &CourseSpecific{store: store}
}

func (s *CourseSpecific) Name() string { return intent.StrategyCourseSpecific }

func (s *CourseSpecific) Respond(_ context.Context, req Request) (Result, bool) {
	a := req.Analysis
	r := resolve(s.store, a.Entities)
	if r.empty() {
		if a.HasTopic("lecturers") {
			return s.lecturersBySubject(req.Utterance)
		}
		return Result{}, false
	}

	var b strings.Builder
	focus := aspects(a.Topics)
	for _, c := range r.courses {
		writeCourse(&b, c, focus, a.UserType)
	}
	for _, name := range r.lecturers {
		writeLecturer(&b, name, s.store.CoursesByLecturer(name))
	}
	for _, code := range r.unknown {
		s.writeNotFound(&b, code)
	}

	confidence := 0.95
	if len(r.courses) == 0 && len(r.lecturers) == 0 {
		confidence = 0.70
	}
	return result(s.Name(), SourceCourses, confidence, b.String())
}

// lecturersBySubject serves "who teaches programming" style questions that
// name a subject instead of a code.
func (s *CourseSpecific) lecturersBySubject(utterance string) (Result, bool) {
	var courses []knowledge.Course
	for _, subject := range lexicon.Subjects.Find(utterance) {
		for _, c := range s.store.CoursesBySubject(subject) {
			if !slices.ContainsFunc(courses, func(x knowledge.Course) bool { return x.Code == c.Code }) {
				courses = append(courses, c)
			}
		}
	}
	if len(courses) == 0 {
		return Result{}, false
	}
	var b strings.Builder
	for _, c := range courses {
		writeCourse(&b, c, []string{"lecturers"}, "")
	}
	return result(s.Name(), SourceCourses, 0.80, b.String())
}

func (s *CourseSpecific) writeNotFound(b *strings.Builder, code string) {
	heading(b, code+" not found")
	fmt.Fprintf(b, "I couldn't find %s in the %s Computer Science catalogue. Please check the course code.\n\n",
		code, shortName(s.store))

	prefix := lexicon.CodePrefix(code)
	var similar []string
	for _, c := range s.store.ListCourses(0) {
		if lexicon.CodePrefix(c.Code) == prefix {
			similar = append(similar, courseLabel(c))
		}
	}
	if len(similar) > 5 {
		similar = similar[:5]
	}
	listSection(b, "Courses with the same prefix", similar)
}

// writeCourse renders c in full, or only the requested aspects.
func writeCourse(b *strings.Builder, c knowledge.Course, focus []string, userType string) {
	if len(focus) == 0 {
		writeCourseDetail(b, c)
		return
	}
	heading(b, courseLabel(c))
	for _, f := range focus {
		writeAspect(b, c, f)
	}
	if userType == intent.StrugglingStudent && !slices.Contains(focus, "tips") {
		writeAspect(b, c, "tips")
	}
	fmt.Fprintf(b, "Ask me about other parts of %s: lecturers, materials, assessment, lecture notes or past questions.\n", c.Code)
}

func writeCourseDetail(b *strings.Builder, c knowledge.Course) {
	heading(b, courseLabel(c))
	fmt.Fprintf(b, "**Level:** %d | **Semester:** %d | **Credits:** %d\n", c.Level, c.Semester, c.Credits)
	writeAspect(b, c, "prerequisites")
	if c.Description != "" {
		fmt.Fprintf(b, "\n%s\n\n", c.Description)
	}
	writeAspect(b, c, "lecturers")
	listSection(b, "Materials", c.Materials)
	listSection(b, "Success tips", c.SuccessTips)
	field(b, "Assessment", c.Assessment)
	field(b, "Office hours", c.OfficeHours)
	field(b, "Practical sessions", c.Practical)

	var extras []string
	if c.Notes != nil {
		extras = append(extras, "lecture notes")
	}
	if n := len(c.PastQuestions); n > 0 {
		extras = append(extras, plural(n, "past question", "past questions"))
	}
	if len(extras) > 0 {
		fmt.Fprintf(b, "\nAlso available for %s: %s. Just ask.\n", c.Code, strings.Join(extras, " and "))
	}
}

func writeAspect(b *strings.Builder, c knowledge.Course, aspect string) {
	switch aspect {
	case "lecturers":
		if len(c.Lecturers) == 0 {
			fmt.Fprintf(b, "Lecturers for %s have not been announced yet.\n\n", c.Code)
			return
		}
		subheading(b, "Lecturers for "+c.Code)
		numbered(b, c.Lecturers)
		field(b, "Office hours", c.OfficeHours)
	case "prerequisites":
		if len(c.Prerequisites) == 0 {
			field(b, "Prerequisites", "None")
			return
		}
		field(b, "Prerequisites", strings.Join(c.Prerequisites, ", "))
	case "credits":
		fmt.Fprintf(b, "%s carries %s.\n\n", c.Code, plural(c.Credits, "credit unit", "credit units"))
	case "assessment":
		field(b, "Assessment", orNotListed(c.Assessment))
	case "materials":
		if len(c.Materials) == 0 {
			fmt.Fprintf(b, "No materials are listed for %s yet.\n\n", c.Code)
			return
		}
		listSection(b, "Materials for "+c.Code, c.Materials)
	case "office_hours":
		field(b, "Office hours", orNotListed(c.OfficeHours))
	case "practical":
		field(b, "Practical sessions", orNotListed(c.Practical))
	case "tips":
		listSection(b, "Success tips for "+c.Code, c.SuccessTips)
	case "lecture_notes":
		writeNotes(b, c)
	case "past_questions":
		writePastQuestions(b, c)
	}
}

func writeLecturer(b *strings.Builder, name string, courses []knowledge.Course) {
	heading(b, name)
	items := make([]string, len(courses))
	for i, c := range courses {
		items[i] = fmt.Sprintf("%s (%d level)", courseLabel(c), c.Level)
	}
	listSection(b, "Courses taught", items)
}

func orNotListed(s string) string {
	if s == "" {
		return "not listed yet"
	}
	return s
}

// CourseGeneral lists the catalogue grouped by level, or one level when
// the utterance asked for it. A subject mention narrows the list to the
// courses tagged with that subject.
type CourseGeneral struct {
	store knowledge.Store
}

var _ Strategy = (*CourseGeneral)(nil)

func NewCourseGeneral(store knowledge.Store) *CourseGeneral {
	return &CourseGeneral{store: store}
}

func (s *CourseGeneral) Name() string { return intent.StrategyCourseGeneral }

func (s *CourseGeneral) Respond(_ context.Context, req Request) (Result, bool) {
	a := req.Analysis
	var b strings.Builder

	if subjects := lexicon.Subjects.Find(req.Utterance); len(subjects) > 0 && a.Level == 0 {
		for _, subj := range subjects {
			courses := s.store.CoursesBySubject(subj)
			if len(courses) == 0 {
				continue
			}
			heading(&b, "Courses covering "+subj)
			writeCourseList(&b, courses)
		}
		if b.Len() > 0 {
			b.WriteString("Ask about any course code for its lecturers, materials and assessment.\n")
			return result(s.Name(), SourceCourses, 0.85, b.String())
		}
	}

	courses := s.store.ListCourses(a.Level)
	if len(courses) == 0 {
		return Result{}, false
	}
	if a.Level > 0 {
		heading(&b, fmt.Sprintf("%d Level Computer Science Courses", a.Level))
	} else {
		heading(&b, "Computer Science Courses at "+shortName(s.store))
	}

	level := 0
	var group []knowledge.Course
	flush := func() {
		if len(group) == 0 {
			return
		}
		subheading(&b, fmt.Sprintf("%d Level", level))
		writeCourseList(&b, group)
		group = nil
	}
	for _, c := range courses {
		if c.Level != level {
			flush()
			level = c.Level
		}
		group = append(group, c)
	}
	flush()

	b.WriteString("Ask about any course code (for example \"" + courses[0].Code + "\") for its lecturers, materials and assessment.\n")
	return result(s.Name(), SourceCourses, 0.90, b.String())
}

func writeCourseList(b *strings.Builder, courses []knowledge.Course) {
	items := make([]string, len(courses))
	for i, c := range courses {
		items[i] = fmt.Sprintf("%s (%s, semester %d)", courseLabel(c), plural(c.Credits, "credit", "credits"), c.Semester)
	}
	bullets(b, items)
}
