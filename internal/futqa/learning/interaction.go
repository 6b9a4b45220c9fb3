// Package learning records the outcome of every interaction for offline
// analysis. Recording never affects the answer already computed: the
// persistent sink is written asynchronously and its failures are only
// logged.
package learning

import (
	"errors"
	"strings"
	"time"

	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/lexicon"
)

// ErrUnknownInteraction is returned when feedback names an interaction
// that was never recorded.
var ErrUnknownInteraction = errors.New("learning: unknown interaction")

// SuccessMinLen is the answer length an interaction must exceed to count as
// successful.
const SuccessMinLen = 50

// Question types assigned by ExtractPattern.
const (
	CourseInquiry    = "course_inquiry"
	CareerInquiry    = "career_inquiry"
	MaterialsInquiry = "materials_inquiry"
	GreetingType     = "greeting"
	GeneralInquiry   = "general_inquiry"
)

// Interaction is one recorded question and answer.
type Interaction struct {
	ID         string    `json:"id"`
	TraceID    string    `json:"trace_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	At         time.Time `json:"at"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Strategy   string    `json:"strategy"`
	Category   string    `json:"category"`
	Confidence float64   `json:"confidence"`
	Entities   []string  `json:"entities,omitempty"`
	Pattern    Pattern   `json:"pattern"`
	// Success is true when the answer was substantive and not the generic
	// capability overview.
	Success  bool   `json:"success"`
	Feedback string `json:"feedback,omitempty"`
}

// Pattern describes how a question was phrased.
type Pattern struct {
	Length       int      `json:"length"`
	HasGreeting  bool     `json:"has_greeting"`
	HasThanks    bool     `json:"has_thanks"`
	QuestionType string   `json:"question_type"`
	Keywords     []string `json:"keywords,omitempty"`
}

var (
	courseWords    = lexicon.NewSet("course_words", "course", "courses")
	careerWords    = lexicon.NewSet("career_words", "career", "careers", "job", "jobs", "work")
	materialsWords = lexicon.NewSet("materials_words", "book", "books", "material", "materials", "study")
	greetingWords  = lexicon.NewSet("greeting_words", "hello", "hi", "hey")
	thanksWords    = lexicon.NewSet("thanks_words", "thank", "thanks", "thank you")
)

// ExtractPattern describes question.
func ExtractPattern(question string) Pattern {
	p := Pattern{
		Length:      len([]rune(question)),
		HasGreeting: greetingWords.Match(question),
		HasThanks:   thanksWords.Match(question),
		Keywords:    lexicon.Keywords(question),
	}
	switch {
	case courseWords.Match(question):
		p.QuestionType = CourseInquiry
	case careerWords.Match(question):
		p.QuestionType = CareerInquiry
	case materialsWords.Match(question):
		p.QuestionType = MaterialsInquiry
	case p.HasGreeting:
		p.QuestionType = GreetingType
	default:
		p.QuestionType = GeneralInquiry
	}
	return p
}

// Successful reports whether an answer produced by strategy counts as a
// success.
func Successful(answer, strategy string) bool {
	return len(strings.TrimSpace(answer)) > SuccessMinLen && strategy != intent.StrategyGeneral
}
