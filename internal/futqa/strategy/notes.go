package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/knowledge"
)

// targetCourses returns the known courses the analysis is about, falling
// back to the conversation context for follow-ups.
func targetCourses(store knowledge.Store, a intent.Analysis) []knowledge.Course {
	courses := resolve(store, a.Entities).courses
	if len(courses) == 0 && a.Category == intent.FollowUp {
		courses = resolve(store, a.ContextEntities).courses
	}
	return courses
}

func writeNotes(b *strings.Builder, c knowledge.Course) {
	if c.Notes == nil {
		fmt.Fprintf(b, "No lecture notes are on file for %s yet. Check with the course lecturers or the departmental office.\n\n", c.Code)
		return
	}
	n := c.Notes
	subheading(b, "Lecture notes for "+c.Code+": "+n.Title)
	b.WriteString("\n")
	listSection(b, "Files", n.Files)
	listSection(b, "Topics covered", n.Topics)
	listSection(b, "Key concepts", n.KeyConcepts)
}

func writePastQuestions(b *strings.Builder, c knowledge.Course) {
	if len(c.PastQuestions) == 0 {
		fmt.Fprintf(b, "No past questions are on file for %s yet. Senior students and the departmental library usually keep copies.\n\n", c.Code)
		return
	}
	subheading(b, c.Code+" past questions")
	b.WriteString("\n")
	for i, qa := range c.PastQuestions {
		fmt.Fprintf(b, "%d. **%s**\n", i+1, qa.Question)
		var meta []string
		if qa.Difficulty != "" {
			meta = append(meta, "difficulty: "+qa.Difficulty)
		}
		if qa.Topic != "" {
			meta = append(meta, "topic: "+qa.Topic)
		}
		if len(meta) > 0 {
			fmt.Fprintf(b, "   _%s_\n", strings.Join(meta, ", "))
		}
		fmt.Fprintf(b, "   Answer: %s\n\n", qa.Answer)
	}
}

// LectureNotes describes the notes for the courses in question, or lists
// every course that has notes.
type LectureNotes struct {
	store knowledge.Store
}

var _ Strategy = (*LectureNotes)(nil)

func NewLectureNotes(store knowledge.Store) *LectureNotes {
	return &LectureNotes{store: store}
}

func (s *LectureNotes) Name() string { return intent.StrategyLectureNotes }

func (s *LectureNotes) Respond(_ context.Context, req Request) (Result, bool) {
	var b strings.Builder
	if courses := targetCourses(s.store, req.Analysis); len(courses) > 0 {
		for _, c := range courses {
			heading(&b, courseLabel(c))
			writeNotes(&b, c)
		}
		b.WriteString("Review the notes before each lecture and pair them with past questions when revising.\n")
		return result(s.Name(), SourceLectureNotes, 0.90, b.String())
	}

	var items []string
	for _, c := range s.store.ListCourses(0) {
		if c.Notes != nil {
			items = append(items, fmt.Sprintf("**%s**: %s", c.Code, c.Notes.Title))
		}
	}
	if len(items) == 0 {
		return Result{}, false
	}
	heading(&b, "Available lecture notes")
	bullets(&b, items)
	b.WriteString("Ask for a course by code (for example \"lecture notes for COS101\") to see its files and topics.\n")
	return result(s.Name(), SourceLectureNotes, 0.85, b.String())
}

// PastQuestions shows worked past exam questions for the courses in
// question, or lists the courses that have them.
type PastQuestions struct {
	store knowledge.Store
}

var _ Strategy = (*PastQuestions)(nil)

func NewPastQuestions(store knowledge.Store) *PastQuestions {
	return &PastQuestions{store: store}
}

func (s *PastQuestions) Name() string { return intent.StrategyPastQuestions }

func (s *PastQuestions) Respond(_ context.Context, req Request) (Result, bool) {
	var b strings.Builder
	if courses := targetCourses(s.store, req.Analysis); len(courses) > 0 {
		for _, c := range courses {
			heading(&b, courseLabel(c))
			writePastQuestions(&b, c)
		}
		b.WriteString("Work through each question yourself before reading the answer.\n")
		return result(s.Name(), SourcePastQuestions, 0.90, b.String())
	}

	var items []string
	for _, c := range s.store.ListCourses(0) {
		if n := len(c.PastQuestions); n > 0 {
			items = append(items, fmt.Sprintf("**%s**: %s available", c.Code, plural(n, "question", "questions")))
		}
	}
	if len(items) == 0 {
		return Result{}, false
	}
	heading(&b, "Past questions and answers")
	bullets(&b, items)
	b.WriteString("Ask for a course by code (for example \"MAT121 past questions\") to see the questions with worked answers.\n")
	return result(s.Name(), SourcePastQuestions, 0.85, b.String())
}
