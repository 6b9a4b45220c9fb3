package strategy

import (
	"time"

	"github.com/bdobrica/futqa/internal/futqa/knowledge"
)

// Deps are the collaborators of the default strategies.
type Deps struct {
	Store knowledge.Store
	// Rand chooses conversational templates. Nil seeds one randomly.
	Rand *Rand
	// Backend powers the generative strategy. Nil disables it.
	Backend Completer
	// BackendTimeout bounds one generative call. Zero uses the backend's
	// own default.
	BackendTimeout time.Duration
}

// Defaults registers every built-in strategy.
func Defaults(d Deps) *Set {
	return NewSet(
		NewCourseSpecific(d.Store),
		NewCourseGeneral(d.Store),
		NewCSGuidance(d.Store),
		NewMaterials(d.Store),
		NewSuccessTips(d.Store),
		NewInstitutionalInfo(d.Store),
		NewLectureNotes(d.Store),
		NewPastQuestions(d.Store),
		NewConversational(d.Rand),
		Adaptive{},
		NewContextual(d.Store),
		NewGenerative(d.Backend, d.BackendTimeout),
		NewBoundary(d.Store),
		NewGeneral(d.Store),
	)
}
