package intent

import "github.com/bdobrica/futqa/internal/futqa/lexicon"

var (
	newStudentMarkers      = lexicon.NewSet("new_student", "100l", "100 level", "first year", "freshman", "fresher", "new student")
	advancedStudentMarkers = lexicon.NewSet("advanced_student", "400l", "400 level", "500l", "500 level", "final year", "graduating", "project defence")
	strugglingMarkers      = lexicon.NewSet("struggling", "struggling", "difficult", "hard", "confused", "failing", "failed", "carryover", "carry over")
	careerMarkers          = lexicon.NewSet("career_focused", "career", "job", "jobs", "industry", "work", "internship", "salary")
)

// DetectStyle returns the register of text. Colloquial markers win over
// casual ones, which win over formal ones.
func DetectStyle(text string) Style {
	switch {
	case lexicon.ColloquialStrong.Match(text) || lexicon.ColloquialWeak.Count(text) >= 2:
		return Colloquial
	case lexicon.Casual.Match(text):
		return Casual
	case lexicon.Formal.Match(text):
		return Formal
	default:
		return Neutral
	}
}

// InferUserType guesses what kind of student is asking.
func InferUserType(text string) string {
	switch {
	case newStudentMarkers.Match(text):
		return NewStudent
	case advancedStudentMarkers.Match(text):
		return AdvancedStudent
	case strugglingMarkers.Match(text):
		return StrugglingStudent
	case careerMarkers.Match(text):
		return CareerFocused
	default:
		return GeneralStudent
	}
}

// Complexity grades text by length: high above 15 words, medium above 8.
func Complexity(text string) string {
	switch n := lexicon.WordCount(text); {
	case n > 15:
		return "high"
	case n > 8:
		return "medium"
	default:
		return "low"
	}
}

// DetectTopics returns the sub-topics mentioned in text, in the fixed
// reporting order.
func DetectTopics(text string) []string {
	var out []string
	for _, name := range lexicon.TopicOrder {
		if lexicon.Topics[name].Match(text) {
			out = append(out, name)
		}
	}
	return out
}
