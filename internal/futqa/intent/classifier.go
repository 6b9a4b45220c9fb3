package intent

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/bdobrica/futqa/internal/futqa/knowledge"
	"github.com/bdobrica/futqa/internal/futqa/lexicon"
)

// Options configures a Classifier. The zero value uses the default rule
// table, blocklist and follow-up settings.
type Options struct {
	Rules    []Rule
	FollowUp FollowUpConfig
	Boundary *lexicon.Set
	Logger   *slog.Logger
}

// Classifier runs the analysis pipeline for one utterance at a time. It
// holds no per-conversation state and is safe for concurrent use.
type Classifier struct {
	rules    []Rule
	registry *Registry
	boundary *BoundaryDetector
	followUp *FollowUpDetector
	logger   *slog.Logger
}

// NewClassifier builds a classifier whose entity registry is taken from
// store.
func NewClassifier(store knowledge.Store, opts Options) *Classifier {
	rules := opts.Rules
	if len(rules) == 0 {
		rules = DefaultRules
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		rules:    rules,
		registry: NewRegistry(store),
		boundary: NewBoundaryDetector(opts.Boundary),
		followUp: NewFollowUpDetector(opts.FollowUp),
		logger:   logger,
	}
}

// Registry returns the entity registry the classifier matches against.
func (c *Classifier) Registry() *Registry { return c.registry }

// RuleCount is the number of rows in the rule table.
func (c *Classifier) RuleCount() int { return len(c.rules) }

// Classify analyses text. recent holds the earlier turns of the same
// conversation, oldest first, and may be empty.
func (c *Classifier) Classify(text string, recent []Turn) Analysis {
	if matches := c.boundary.Matches(text); len(matches) > 0 {
		a := boundaryAnalysis(matches)
		a.ContextEntities = contextEntities(recent)
		c.logger.Debug("intent: out of domain", "matches", matches)
		return a
	}

	entities := c.registry.Entities(text)
	rule := FallbackRule
	for _, r := range c.rules {
		if r.fires(text, entities) {
			rule = r
			break
		}
	}

	a := Analysis{
		Category:        rule.Category,
		Base:            rule.Category,
		Confidence:      rule.confidence(entities),
		Entities:        entities,
		Style:           DetectStyle(text),
		Priority:        withGeneral(rule.Priority...),
		Rule:            rule.Name,
		Topics:          DetectTopics(text),
		Level:           lexicon.Level(text),
		ContextEntities: contextEntities(recent),
		UserType:        InferUserType(text),
		Complexity:      Complexity(text),
	}

	if c.considerFollowUp(a) && c.followUp.IsFollowUp(text, recent) {
		a.Category = FollowUp
		a.Confidence = FollowUpConfidence
		a.Priority = withGeneral(append([]string{StrategyContextual}, a.Priority...)...)
	}

	c.logger.Debug("intent: classified",
		"rule", a.Rule,
		"category", a.Category,
		"confidence", a.Confidence,
		"entities", strings.Join(a.Entities, ","),
	)
	return a
}

// IsFollowUp exposes the follow-up detector on its own.
func (c *Classifier) IsFollowUp(text string, recent []Turn) bool {
	return c.followUp.IsFollowUp(text, recent)
}

// considerFollowUp gates the follow-up override. An utterance that names
// its own entity, or is pure small talk, is never a follow-up.
func (c *Classifier) considerFollowUp(a Analysis) bool {
	if len(a.Entities) > 0 {
		return false
	}
	return !slices.Contains([]Category{Conversational, Boundary}, a.Category)
}

// contextEntities returns the entities of the most recent turn that named
// any.
func contextEntities(recent []Turn) []string {
	for i := len(recent) - 1; i >= 0; i-- {
		if len(recent[i].Entities) > 0 {
			return slices.Clone(recent[i].Entities)
		}
	}
	return nil
}
