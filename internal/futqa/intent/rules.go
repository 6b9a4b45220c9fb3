package intent

import "github.com/bdobrica/futqa/internal/futqa/lexicon"

// Rule is one row of the classification table. A rule fires when the
// utterance names an entity (OnEntity) or when at least Threshold distinct
// phrases from Phrases occur in it. The first rule that fires decides the
// category.
type Rule struct {
	Name       string
	Category   Category
	Confidence float64
	// BareConfidence replaces Confidence when the rule fires on phrases
	// alone and the utterance names no entity. Zero keeps Confidence.
	BareConfidence float64
	Phrases        []*lexicon.Set
	OnEntity       bool
	// Threshold is the number of distinct phrases required. Zero means one.
	Threshold int
	Priority  []string
}

// fires reports whether the rule matches an utterance with the given
// entities.
func (r Rule) fires(text string, entities []string) bool {
	if r.OnEntity && len(entities) > 0 {
		return true
	}
	need := max(r.Threshold, 1)
	found := 0
	for _, set := range r.Phrases {
		found += set.Count(text)
		if found >= need {
			return true
		}
	}
	return false
}

func (r Rule) confidence(entities []string) float64 {
	if len(entities) == 0 && r.BareConfidence > 0 {
		return r.BareConfidence
	}
	return r.Confidence
}

// FallbackRule applies when no rule in the table fires.
var FallbackRule = Rule{
	Name:       "none",
	Category:   General,
	Confidence: 0.50,
	Priority:   []string{StrategyGenerative, StrategyAdaptive, StrategyGeneral},
}

// DefaultRules is the classification table, in evaluation order. Entity
// rules come first so that an utterance naming a known course is always
// answered about that course.
var DefaultRules = []Rule{
	{
		Name:           "lecturer_question",
		Category:       CourseSpecific,
		Confidence:     0.95,
		BareConfidence: 0.80,
		Phrases:        []*lexicon.Set{lexicon.Lecturer},
		Priority:       []string{StrategyCourseSpecific},
	},
	{
		Name:       "course_code",
		Category:   CourseSpecific,
		Confidence: 0.95,
		OnEntity:   true,
		Priority:   []string{StrategyCourseSpecific},
	},
	{
		Name:       "course_listing",
		Category:   CourseGeneral,
		Confidence: 0.95,
		Phrases:    []*lexicon.Set{lexicon.CourseListing},
		Priority:   []string{StrategyCourseGeneral},
	},
	{
		Name:       "past_questions",
		Category:   Materials,
		Confidence: 0.90,
		Phrases:    []*lexicon.Set{lexicon.PastQuestions},
		Priority:   []string{StrategyPastQuestions, StrategyMaterials},
	},
	{
		Name:       "lecture_notes",
		Category:   Materials,
		Confidence: 0.90,
		Phrases:    []*lexicon.Set{lexicon.LectureNotes},
		Priority:   []string{StrategyLectureNotes, StrategyMaterials},
	},
	{
		Name:       "materials",
		Category:   Materials,
		Confidence: 0.95,
		Phrases:    []*lexicon.Set{lexicon.Materials},
		Priority:   []string{StrategyMaterials},
	},
	{
		Name:       "career",
		Category:   CSGuidance,
		Confidence: 0.90,
		Phrases:    []*lexicon.Set{lexicon.Career},
		Priority:   []string{StrategyCSGuidance},
	},
	{
		Name:       "study_tips",
		Category:   SuccessTips,
		Confidence: 0.85,
		Phrases:    []*lexicon.Set{lexicon.StudyTips},
		Priority:   []string{StrategySuccessTips},
	},
	{
		Name:       "institutional",
		Category:   InstitutionalInfo,
		Confidence: 0.85,
		Phrases:    []*lexicon.Set{lexicon.Institutional},
		Priority:   []string{StrategyInstitutionalInfo},
	},
	{
		Name:       "greeting",
		Category:   Conversational,
		Confidence: 0.95,
		Phrases:    []*lexicon.Set{lexicon.Greeting, lexicon.Thanks, lexicon.Farewell, lexicon.SmallTalk},
		Priority:   []string{StrategyConversational, StrategyAdaptive},
	},
	{
		Name:       "colloquial",
		Category:   Adaptive,
		Confidence: 0.85,
		Phrases:    []*lexicon.Set{lexicon.ColloquialStrong},
		Priority:   []string{StrategyAdaptive, StrategyConversational},
	},
	{
		Name:       "colloquial",
		Category:   Adaptive,
		Confidence: 0.85,
		Phrases:    []*lexicon.Set{lexicon.ColloquialWeak},
		Threshold:  3,
		Priority:   []string{StrategyAdaptive, StrategyConversational},
	},
	{
		Name:       "casual",
		Category:   Adaptive,
		Confidence: 0.85,
		Phrases:    []*lexicon.Set{lexicon.Casual},
		Priority:   []string{StrategyAdaptive, StrategyConversational},
	},
	{
		Name:       "capabilities",
		Category:   General,
		Confidence: 0.80,
		Phrases:    []*lexicon.Set{lexicon.Capabilities},
		Priority:   []string{StrategyGeneral},
	},
	{
		Name:       "subject_mention",
		Category:   CourseGeneral,
		Confidence: 0.70,
		Phrases:    []*lexicon.Set{lexicon.Subjects},
		Priority:   []string{StrategyCourseGeneral},
	},
}
