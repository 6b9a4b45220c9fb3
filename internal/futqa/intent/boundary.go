package intent

import "github.com/bdobrica/futqa/internal/futqa/lexicon"

// BoundaryConfidence is the confidence attached to out-of-domain verdicts.
const BoundaryConfidence = 0.95

// BoundaryDetector rejects utterances about topics the assistant does not
// cover (cooking, sport, entertainment and so on).
type BoundaryDetector struct {
	blocklist *lexicon.Set
}

// NewBoundaryDetector returns a detector over blocklist, or over the
// default out-of-domain list when blocklist is nil.
func NewBoundaryDetector(blocklist *lexicon.Set) *BoundaryDetector {
	if blocklist == nil {
		blocklist = lexicon.OutOfDomain
	}
	return &BoundaryDetector{blocklist: blocklist}
}

// OutOfDomain reports whether text mentions a blocklisted topic.
func (b *BoundaryDetector) OutOfDomain(text string) bool {
	return b.blocklist.Match(text)
}

// Matches returns the blocklisted phrases found in text.
func (b *BoundaryDetector) Matches(text string) []string {
	return b.blocklist.Find(text)
}

// boundaryAnalysis records the blocklisted phrases as the topics so the
// rejection can name them.
func boundaryAnalysis(matches []string) Analysis {
	return Analysis{
		Category:   Boundary,
		Base:       Boundary,
		Confidence: BoundaryConfidence,
		Priority:   withGeneral(StrategyBoundary),
		Rule:       "boundary",
		Topics:     matches,
	}
}
