// Package intent turns a raw utterance into an Analysis: which category of
// question it is, which courses or lecturers it names, how it is phrased
// and which response strategies should be tried, in order.
//
// Classification is deterministic rule matching over the phrase sets in
// the lexicon package. The pipeline is boundary check, rule table, then
// follow-up detection against the recent turns of the conversation.
package intent

import "slices"

// Category is the coarse intent of an utterance.
type Category string

const (
	CourseSpecific    Category = "course_specific"
	CourseGeneral     Category = "course_general"
	CSGuidance        Category = "cs_guidance"
	Materials         Category = "materials"
	SuccessTips       Category = "success_tips"
	InstitutionalInfo Category = "institutional_info"
	Conversational    Category = "conversational"
	Adaptive          Category = "adaptive"
	FollowUp          Category = "follow_up"
	Boundary          Category = "boundary"
	General           Category = "general"
)

// Style is the register the utterance was written in.
type Style string

const (
	Neutral    Style = "neutral"
	Casual     Style = "casual"
	Formal     Style = "formal"
	Colloquial Style = "colloquial_regional"
)

// Strategy identifiers used in Analysis.Priority. The strategy package
// registers its implementations under these names.
const (
	StrategyCourseSpecific    = "course_specific"
	StrategyCourseGeneral     = "course_general"
	StrategyCSGuidance        = "cs_guidance"
	StrategyMaterials         = "materials"
	StrategySuccessTips       = "success_tips"
	StrategyInstitutionalInfo = "institutional_info"
	StrategyLectureNotes      = "lecture_notes"
	StrategyPastQuestions     = "past_questions"
	StrategyConversational    = "conversational"
	StrategyAdaptive          = "adaptive"
	StrategyContextual        = "contextual"
	StrategyGenerative        = "generative"
	StrategyBoundary          = "boundary"
	StrategyGeneral           = "general"
)

// User types inferred from the wording of a question.
const (
	NewStudent        = "new_student"
	AdvancedStudent   = "advanced_student"
	StrugglingStudent = "struggling_student"
	CareerFocused     = "career_focused"
	GeneralStudent    = "general_student"
)

// Analysis is the classifier's verdict on one utterance. It is built fresh
// for every utterance and not modified afterwards.
type Analysis struct {
	Category Category `json:"category"`
	// Base is the category the rule table chose before a follow-up
	// override. Equal to Category when no override happened.
	Base       Category `json:"base_category"`
	Confidence float64  `json:"confidence"`
	// Entities are the course codes and lecturer names found in the
	// utterance, in order of appearance.
	Entities []string `json:"entities,omitempty"`
	Style    Style    `json:"style"`
	// Priority is the ordered list of strategies to try. Never empty and
	// always ends with StrategyGeneral.
	Priority []string `json:"priority"`
	Rule     string   `json:"rule"`
	Topics   []string `json:"topics,omitempty"`
	Level    int      `json:"level,omitempty"`
	// ContextEntities are the entities of the most recent earlier turn that
	// named any.
	ContextEntities []string `json:"context_entities,omitempty"`
	UserType        string   `json:"user_type"`
	Complexity      string   `json:"complexity"`
}

// HasTopic reports whether topic was detected in the utterance.
func (a Analysis) HasTopic(topic string) bool {
	return slices.Contains(a.Topics, topic)
}

// Turn is what the classifier needs to know about an earlier exchange.
type Turn struct {
	Text     string
	Entities []string
}

// withGeneral returns a copy of priority with duplicates removed and
// StrategyGeneral appended last.
func withGeneral(priority ...string) []string {
	out := make([]string, 0, len(priority)+1)
	for _, p := range priority {
		if p == StrategyGeneral || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return append(out, StrategyGeneral)
}
