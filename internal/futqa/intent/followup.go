package intent

import "github.com/bdobrica/futqa/internal/futqa/lexicon"

// FollowUpConfidence is the confidence of an utterance reclassified as a
// follow-up.
const FollowUpConfidence = 0.90

// FollowUpConfig tunes the word-overlap trigger.
type FollowUpConfig struct {
	// MinOverlap is the number of shared content words with an earlier
	// utterance that marks a follow-up.
	MinOverlap int
	// Window is how many of the most recent turns are compared.
	Window int
}

// DefaultFollowUpConfig returns the default overlap settings.
func DefaultFollowUpConfig() FollowUpConfig {
	return FollowUpConfig{MinOverlap: 2, Window: 3}
}

// FollowUpDetector decides whether an utterance continues an earlier turn.
type FollowUpDetector struct {
	cfg     FollowUpConfig
	phrases *lexicon.Set
}

// NewFollowUpDetector returns a detector using the referential phrase list
// and cfg. Non-positive fields fall back to the defaults.
func NewFollowUpDetector(cfg FollowUpConfig) *FollowUpDetector {
	def := DefaultFollowUpConfig()
	if cfg.MinOverlap <= 0 {
		cfg.MinOverlap = def.MinOverlap
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	return &FollowUpDetector{cfg: cfg, phrases: lexicon.FollowUp}
}

// IsFollowUp reports whether text refers back to recent, which is ordered
// oldest first. Either trigger is sufficient: a referential phrase, or at
// least MinOverlap shared content words with one of the last Window turns.
func (f *FollowUpDetector) IsFollowUp(text string, recent []Turn) bool {
	if len(recent) == 0 {
		return false
	}
	if f.phrases.Match(text) {
		return true
	}

	words := lexicon.ContentWords(text)
	if len(words) < f.cfg.MinOverlap {
		return false
	}
	start := max(len(recent)-f.cfg.Window, 0)
	for _, t := range recent[start:] {
		if overlap(words, lexicon.ContentWords(t.Text)) >= f.cfg.MinOverlap {
			return true
		}
	}
	return false
}

func overlap(a, b []string) int {
	set := make(map[string]bool, len(b))
	for _, w := range b {
		set[w] = true
	}
	n := 0
	for _, w := range a {
		if set[w] {
			n++
		}
	}
	return n
}
