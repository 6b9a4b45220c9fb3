package strategy

import (
	"context"
	"strings"

	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/knowledge"
)

// Guidance sections of the knowledge store.
const (
	sectionCSGuidance  = "cs_guidance"
	sectionMaterials   = "materials"
	sectionSuccessTips = "success_tips"
)

// guides collects the guides of section for the topics the analysis
// mentions, in the given order, or the section's "general" guide.
func guides(store knowledge.Store, section string, a intent.Analysis, topics ...string) []knowledge.Guide {
	var out []knowledge.Guide
	for _, t := range topics {
		if !a.HasTopic(t) {
			continue
		}
		if g, ok := store.Guide(section, t); ok {
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		if g, ok := store.Guide(section, "general"); ok {
			out = append(out, g)
		}
	}
	return out
}

// writeFAQ appends the general questions filed under one of topics.
func writeFAQ(b *strings.Builder, store knowledge.Store, topics ...string) {
	var items []string
	for _, qa := range store.FAQ() {
		for _, t := range topics {
			if qa.Topic == t {
				items = append(items, "**"+qa.Question+"** "+qa.Answer)
				break
			}
		}
	}
	listSection(b, "Students also ask", items)
}

// CSGuidance gives career and programming advice.
type CSGuidance struct {
	store knowledge.Store
}

var _ Strategy = (*CSGuidance)(nil)

func NewCSGuidance(store knowledge.Store) *CSGuidance {
	return &CSGuidance{store: store}
}

func (s *CSGuidance) Name() string { return intent.StrategyCSGuidance }

func (s *CSGuidance) Respond(_ context.Context, req Request) (Result, bool) {
	gs := guides(s.store, sectionCSGuidance, req.Analysis, "career", "programming")
	if len(gs) == 0 {
		return Result{}, false
	}
	var b strings.Builder
	for _, g := range gs {
		guide(&b, g)
	}
	if req.Analysis.HasTopic("career") || req.Analysis.UserType == intent.CareerFocused {
		writeFAQ(&b, s.store, "career", "associations")
	}
	return result(s.Name(), SourceGuidance, 0.90, b.String())
}

// Materials answers what to buy, install or read, for the course in
// question or for CS studies in general.
type Materials struct {
	store knowledge.Store
}

var _ Strategy = (*Materials)(nil)

func NewMaterials(store knowledge.Store) *Materials {
	return &Materials{store: store}
}

func (s *Materials) Name() string { return intent.StrategyMaterials }

func (s *Materials) Respond(_ context.Context, req Request) (Result, bool) {
	var b strings.Builder
	if courses := targetCourses(s.store, req.Analysis); len(courses) > 0 {
		for _, c := range courses {
			heading(&b, courseLabel(c))
			writeAspect(&b, c, "materials")
			if c.Notes != nil {
				b.WriteString("Lecture notes are also available for this course; ask for them by code.\n\n")
			}
		}
		return result(s.Name(), SourceCourses, 0.90, b.String())
	}

	gs := guides(s.store, sectionMaterials, req.Analysis, "software", "books", "laptop")
	if len(gs) == 0 {
		return Result{}, false
	}
	for _, g := range gs {
		guide(&b, g)
	}
	return result(s.Name(), SourceGuidance, 0.90, b.String())
}

// SuccessTips gives study advice, with a recovery plan first for students
// who say they are struggling.
type SuccessTips struct {
	store knowledge.Store
}

var _ Strategy = (*SuccessTips)(nil)

func NewSuccessTips(store knowledge.Store) *SuccessTips {
	return &SuccessTips{store: store}
}

func (s *SuccessTips) Name() string { return intent.StrategySuccessTips }

func (s *SuccessTips) Respond(_ context.Context, req Request) (Result, bool) {
	a := req.Analysis
	var b strings.Builder

	if a.HasTopic("struggling") || a.UserType == intent.StrugglingStudent {
		if g, ok := s.store.Guide(sectionSuccessTips, "struggling"); ok {
			guide(&b, g)
		}
	}
	if g, ok := s.store.Guide(sectionSuccessTips, "general"); ok {
		guide(&b, g)
	}
	for _, c := range targetCourses(s.store, a) {
		listSection(&b, "Tips for "+courseLabel(c), c.SuccessTips)
	}
	if b.Len() == 0 {
		return Result{}, false
	}
	return result(s.Name(), SourceGuidance, 0.90, b.String())
}

// InstitutionalInfo answers about the university: admission, facilities,
// departments, contact details and history.
type InstitutionalInfo struct {
	store knowledge.Store
}

var _ Strategy = (*InstitutionalInfo)(nil)

func NewInstitutionalInfo(store knowledge.Store) *InstitutionalInfo {
	return &InstitutionalInfo{store: store}
}

func (s *InstitutionalInfo) Name() string { return intent.StrategyInstitutionalInfo }

func (s *InstitutionalInfo) Respond(_ context.Context, req Request) (Result, bool) {
	var topics []string
	for _, t := range knowledge.FactTopics {
		if t != "general" && req.Analysis.HasTopic(t) {
			topics = append(topics, t)
		}
	}
	if len(topics) == 0 {
		topics = []string{"general"}
	}

	var b strings.Builder
	for _, t := range topics {
		fact, ok := s.store.GetInstitutionalFact(t)
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimSpace(fact))
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return Result{}, false
	}
	b.WriteString("\n")
	writeFAQ(&b, s.store, topics...)
	return result(s.Name(), SourceInstitution, 0.90, strings.TrimSpace(b.String()))
}
