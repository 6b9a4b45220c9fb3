package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/knowledge"
)

// nonCourse are base categories whose own strategy should answer unless the
// follow-up asks about a course aspect.
var nonCourse = map[intent.Category]bool{
	intent.InstitutionalInfo: true,
	intent.CSGuidance:        true,
	intent.Materials:         true,
	intent.SuccessTips:       true,
	intent.CourseGeneral:     true,
}

// Contextual answers a follow-up relative to the most recent turn that
// named a course or lecturer: "who teaches it" after "tell me about COS101"
// lists COS101's lecturers.
type Contextual struct {
	store knowledge.Store
}

var _ Strategy = (*Contextual)(nil)

func NewContextual(store knowledge.Store) *Contextual {
	return &Contextual{store: store}
}

func (s *Contextual) Name() string { return intent.StrategyContextual }

func (s *Contextual) Respond(_ context.Context, req Request) (Result, bool) {
	a := req.Analysis
	focus := aspects(a.Topics)
	if nonCourse[a.Base] && len(focus) == 0 {
		return Result{}, false
	}

	entities := a.ContextEntities
	if len(entities) == 0 {
		for i := len(req.Recent) - 1; i >= 0; i-- {
			if e := req.Recent[i].Resolved(); len(e) > 0 {
				entities = e
				break
			}
		}
	}
	r := resolve(s.store, entities)
	if len(r.courses) == 0 && len(r.lecturers) == 0 {
		return Result{}, false
	}

	var names []string
	for _, c := range r.courses {
		names = append(names, c.Code)
	}
	names = append(names, r.lecturers...)

	var b strings.Builder
	fmt.Fprintf(&b, "Following up on %s:\n", strings.Join(names, ", "))
	for _, c := range r.courses {
		writeCourse(&b, c, focus, a.UserType)
	}
	for _, name := range r.lecturers {
		writeLecturer(&b, name, s.store.CoursesByLecturer(name))
	}
	return result(s.Name(), SourceContext, 0.90, b.String())
}
