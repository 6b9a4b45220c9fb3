package strategy

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bdobrica/futqa/internal/futqa/intent"
	"github.com/bdobrica/futqa/internal/futqa/knowledge"
	"github.com/bdobrica/futqa/internal/futqa/memory"
)

// minAnswer mirrors the dispatcher's default acceptance threshold.
const minAnswer = 50

func testStore(t *testing.T) knowledge.Store {
	t.Helper()
	c, err := knowledge.NewCatalog(knowledge.Document{
		Version: 1,
		Institution: knowledge.Institution{
			Name: "Federal University of Technology, Minna", ShortName: "FUT Minna",
			Established: "1983", Location: "Minna, Niger State",
			Email:     "info@futminna.edu.ng",
			Admission: knowledge.Admission{UTME: "Minimum of 180 in UTME", Process: []string{"Apply through JAMB"}},
		},
		Courses: []knowledge.Course{
			{
				Code: "COS101", Title: "Introduction to Computer Science", Level: 100, Semester: 1, Credits: 3,
				Lecturers:   []string{"A", "B"},
				Materials:   []string{"Intro to CS textbook"},
				SuccessTips: []string{"Practise every day"},
				Assessment:  "CA 30% + Exam 70%",
				Notes:       &knowledge.Notes{Title: "COS101 notes", Files: []string{"cos101.pdf"}, Topics: []string{"History of computing"}},
				PastQuestions: []knowledge.QA{
					{Question: "What is a computer?", Answer: "An electronic device that processes data.", Difficulty: "easy", Topic: "basics"},
				},
			},
			{
				Code: "COS102", Title: "Introduction to Problem Solving", Level: 100, Semester: 2, Credits: 3,
				Prerequisites: []string{"COS101"}, Lecturers: []string{"Dr. Sarah Johnson"},
				Subjects: []string{"programming"},
			},
			{Code: "COS201", Title: "Data Structures", Level: 200, Semester: 1, Credits: 3},
		},
		Guidance: map[string]map[string]knowledge.Guide{
			"cs_guidance": {
				"career":  {Title: "Career Opportunities", Sections: []knowledge.Section{{Heading: "Software", Items: []string{"Backend engineer", "Mobile developer"}}}},
				"general": {Title: "Computer Science at FUT Minna", Sections: []knowledge.Section{{Heading: "Focus", Items: []string{"Fundamentals first"}}}},
			},
			"materials": {
				"laptop":  {Title: "Computer Requirements", Sections: []knowledge.Section{{Heading: "Minimum", Items: []string{"8GB RAM", "SSD storage"}}}},
				"general": {Title: "Materials Checklist", Sections: []knowledge.Section{{Heading: "Basics", Items: []string{"A laptop", "Notebooks"}}}},
			},
			"success_tips": {
				"general":    {Title: "Success Strategies", Sections: []knowledge.Section{{Heading: "Habits", Items: []string{"Attend every lecture"}}}},
				"struggling": {Title: "Getting Back on Track", Sections: []knowledge.Section{{Heading: "First steps", Items: []string{"Talk to your level adviser"}}}},
			},
		},
		FAQ: []knowledge.QA{{Question: "What jobs can CS graduates get?", Answer: "Many.", Topic: "career"}},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func classify(t *testing.T, store knowledge.Store, text string, recent ...intent.Turn) intent.Analysis {
	t.Helper()
	return intent.NewClassifier(store, intent.Options{}).Classify(text, recent)
}

func respond(t *testing.T, s Strategy, req Request) Result {
	t.Helper()
	res, ok := s.Respond(context.Background(), req)
	if !ok {
		t.Fatalf("%s declined %q", s.Name(), req.Utterance)
	}
	if res.Strategy != s.Name() {
		t.Errorf("Strategy = %q, want %q", res.Strategy, s.Name())
	}
	if len(strings.TrimSpace(res.Answer)) <= minAnswer {
		t.Errorf("%s answer too short to be accepted: %q", s.Name(), res.Answer)
	}
	return res
}

func assertContains(t *testing.T, answer string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(answer, p) {
			t.Errorf("answer missing %q:\n%s", p, answer)
		}
	}
}

func TestSet(t *testing.T) {
	set := Defaults(Deps{Store: testStore(t)})
	want := []string{
		"adaptive", "boundary", "contextual", "conversational", "course_general", "course_specific",
		"cs_guidance", "general", "generative", "institutional_info", "lecture_notes", "materials",
		"past_questions", "success_tips",
	}
	if diff := cmp.Diff(want, set.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	if _, ok := set.Get("nope"); ok {
		t.Error("unknown strategy should not be found")
	}
	if set.MustGet(intent.StrategyGeneral).Name() != intent.StrategyGeneral {
		t.Error("MustGet returned the wrong strategy")
	}
}

func TestCourseSpecific_LecturersView(t *testing.T) {
	store := testStore(t)
	a := classify(t, store, "who teaches COS101")
	res := respond(t, NewCourseSpecific(store), Request{Utterance: "who teaches COS101", Analysis: a})
	assertContains(t, res.Answer, "COS101", "1. A", "2. B")
	if res.Confidence < 0.8 || res.Source != SourceCourses {
		t.Errorf("result = %+v", res)
	}
	if strings.Contains(res.Answer, "Intro to CS textbook") {
		t.Error("lecturer view should not include the full course detail")
	}
}

func TestCourseSpecific_FullDetail(t *testing.T) {
	store := testStore(t)
	a := classify(t, store, "tell me about COS101")
	res := respond(t, NewCourseSpecific(store), Request{Utterance: "tell me about COS101", Analysis: a})
	assertContains(t, res.Answer,
		"COS101 - Introduction to Computer Science", "**Credits:** 3", "Prerequisites:** None",
		"Intro to CS textbook", "CA 30% + Exam 70%", "lecture notes and 1 past question")
}

func TestCourseSpecific_UnknownCode(t *testing.T) {
	store := testStore(t)
	a := classify(t, store, "tell me about COS999")
	res := respond(t, NewCourseSpecific(store), Request{Utterance: "tell me about COS999", Analysis: a})
	assertContains(t, res.Answer, "couldn't find COS999", "COS101 - Introduction to Computer Science")
	if res.Confidence >= 0.95 {
		t.Errorf("not-found confidence = %v", res.Confidence)
	}
}

func TestCourseSpecific_LecturerEntity(t *testing.T) {
	store := testStore(t)
	a := intent.Analysis{Category: intent.CourseSpecific, Entities: []string{"Dr. Sarah Johnson"}}
	res := respond(t, NewCourseSpecific(store), Request{Utterance: "what does Dr. Sarah Johnson teach", Analysis: a})
	assertContains(t, res.Answer, "Dr. Sarah Johnson", "COS102 - Introduction to Problem Solving (100 level)")
}

func TestCourseSpecific_SubjectFallbackAndDecline(t *testing.T) {
	store := testStore(t)
	s := NewCourseSpecific(store)

	a := classify(t, store, "who teaches programming")
	res := respond(t, s, Request{Utterance: "who teaches programming", Analysis: a})
	assertContains(t, res.Answer, "COS102", "Dr. Sarah Johnson")

	a = classify(t, store, "who is the lecturer")
	if _, ok := s.Respond(context.Background(), Request{Utterance: "who is the lecturer", Analysis: a}); ok {
		t.Error("lecturer question without course or subject should decline")
	}
}

func TestCourseGeneral(t *testing.T) {
	store := testStore(t)
	s := NewCourseGeneral(store)

	res := respond(t, s, Request{Utterance: "list all courses", Analysis: classify(t, store, "list all courses")})
	assertContains(t, res.Answer, "**100 Level**", "**200 Level**", "COS201 - Data Structures")
	if i, j := strings.Index(res.Answer, "COS101"), strings.Index(res.Answer, "COS201"); i > j {
		t.Error("courses should be grouped by ascending level")
	}

	res = respond(t, s, Request{Utterance: "courses for 200 level", Analysis: classify(t, store, "courses for 200 level")})
	assertContains(t, res.Answer, "200 Level Computer Science Courses", "COS201")
	if strings.Contains(res.Answer, "COS101") {
		t.Error("level filter not applied")
	}

	a := classify(t, store, "list 200 level courses")
	if a.Category != intent.CourseGeneral || a.Level != 200 {
		t.Fatalf("classified as %s level %d", a.Category, a.Level)
	}
	res = respond(t, s, Request{Utterance: "list 200 level courses", Analysis: a})
	assertContains(t, res.Answer, "COS201")
	for _, code := range []string{"COS101", "COS102"} {
		if strings.Contains(res.Answer, code) {
			t.Errorf("200 level listing mentions %s", code)
		}
	}

	if _, ok := s.Respond(context.Background(), Request{Analysis: intent.Analysis{Level: 500}}); ok {
		t.Error("empty level should decline")
	}

	res = respond(t, s, Request{Utterance: "anything on programming", Analysis: intent.Analysis{}})
	assertContains(t, res.Answer, "Courses covering programming", "COS102")
}

func TestLectureNotesAndPastQuestions(t *testing.T) {
	store := testStore(t)
	withCode := intent.Analysis{Entities: []string{"COS101"}}

	res := respond(t, NewLectureNotes(store), Request{Analysis: withCode})
	assertContains(t, res.Answer, "COS101 notes", "cos101.pdf", "History of computing")

	res = respond(t, NewLectureNotes(store), Request{Analysis: intent.Analysis{}})
	assertContains(t, res.Answer, "**COS101**: COS101 notes")

	res = respond(t, NewPastQuestions(store), Request{Analysis: withCode})
	assertContains(t, res.Answer, "What is a computer?", "difficulty: easy", "Answer: An electronic device")

	res = respond(t, NewPastQuestions(store), Request{Analysis: intent.Analysis{}})
	assertContains(t, res.Answer, "**COS101**: 1 question available")

	followUp := intent.Analysis{Category: intent.FollowUp, ContextEntities: []string{"COS102"}}
	res = respond(t, NewPastQuestions(store), Request{Analysis: followUp})
	assertContains(t, res.Answer, "No past questions are on file for COS102")
}

func TestGuidanceStrategies(t *testing.T) {
	store := testStore(t)
	tests := []struct {
		name  string
		s     Strategy
		text  string
		parts []string
	}{
		{"career", NewCSGuidance(store), "what jobs can I get after graduation", []string{"Career Opportunities", "Backend engineer", "What jobs can CS graduates get?"}},
		{"cs general", NewCSGuidance(store), "should I study computer science", []string{"Computer Science at FUT Minna"}},
		{"laptop", NewMaterials(store), "which laptop specs do I need", []string{"Computer Requirements", "8GB RAM"}},
		{"materials general", NewMaterials(store), "what materials do I need", []string{"Materials Checklist"}},
		{"course materials", NewMaterials(store), "materials for COS101", []string{"Materials for COS101", "Intro to CS textbook", "Lecture notes are also available"}},
		{"tips", NewSuccessTips(store), "give me study tips", []string{"Success Strategies", "Attend every lecture"}},
		{"struggling", NewSuccessTips(store), "I am failing and struggling", []string{"Getting Back on Track", "Success Strategies"}},
		{"admission", NewInstitutionalInfo(store), "admission requirements into FUT", []string{"Minimum of 180 in UTME", "Apply through JAMB"}},
		{"institution general", NewInstitutionalInfo(store), "tell me about the university", []string{"Federal University of Technology, Minna"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := respond(t, tt.s, Request{Utterance: tt.text, Analysis: classify(t, store, tt.text)})
			assertContains(t, res.Answer, tt.parts...)
		})
	}

	res := respond(t, NewSuccessTips(store), Request{Utterance: "I am failing and struggling", Analysis: classify(t, store, "I am failing and struggling")})
	if strings.Index(res.Answer, "Getting Back on Track") > strings.Index(res.Answer, "Success Strategies") {
		t.Error("recovery plan should come first for struggling students")
	}
}

func TestConversational_SeededIsDeterministic(t *testing.T) {
	pick := func(seed uint64) []string {
		s := NewConversational(NewRand(seed))
		var out []string
		for range 5 {
			res, _ := s.Respond(context.Background(), Request{Utterance: "hello"})
			out = append(out, res.Answer)
		}
		return out
	}
	if diff := cmp.Diff(pick(42), pick(42)); diff != "" {
		t.Errorf("same seed gave different templates (-first +second):\n%s", diff)
	}
}

func TestConversational_Pools(t *testing.T) {
	s := NewConversational(NewRand(7))
	tests := map[string][]string{
		"hello there":     greetings,
		"thanks a lot":    thanks,
		"ok bye":          farewells,
		"how are you":     smallTalk,
		"Good evening!!!": greetings,
	}
	for text, pool := range tests {
		res := respond(t, s, Request{Utterance: text})
		found := false
		for _, p := range pool {
			found = found || p == res.Answer
		}
		if !found {
			t.Errorf("%q answered from the wrong pool: %q", text, res.Answer)
		}
	}
	if _, ok := s.Respond(context.Background(), Request{Utterance: "what is COS101"}); ok {
		t.Error("non-conversational text should decline")
	}
}

func TestAdaptive(t *testing.T) {
	tests := []struct {
		style    intent.Style
		userType string
		want     string
		ok       bool
	}{
		{intent.Colloquial, "", "Wetin you wan know", true},
		{intent.Casual, "", "What's up with your CS studies", true},
		{intent.Formal, "", "I would be pleased to assist", true},
		{intent.Formal, intent.StrugglingStudent, "many students recover well", true},
		{intent.Neutral, "", "", false},
	}
	for _, tt := range tests {
		res, ok := Adaptive{}.Respond(context.Background(), Request{Analysis: intent.Analysis{Style: tt.style, UserType: tt.userType}})
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.style, ok, tt.ok)
			continue
		}
		if ok && !strings.Contains(res.Answer, tt.want) {
			t.Errorf("%s: answer %q missing %q", tt.style, res.Answer, tt.want)
		}
	}
}

func TestContextual(t *testing.T) {
	store := testStore(t)
	s := NewContextual(store)
	recent := []intent.Turn{{Text: "Tell me about COS101", Entities: []string{"COS101"}}}

	a := classify(t, store, "who teaches it", recent...)
	if a.Category != intent.FollowUp {
		t.Fatalf("category = %s, want follow_up", a.Category)
	}
	res := respond(t, s, Request{Utterance: "who teaches it", Analysis: a})
	assertContains(t, res.Answer, "Following up on COS101", "1. A", "2. B")
	if res.Source != SourceContext {
		t.Errorf("Source = %q", res.Source)
	}
}

func TestContextual_FromRecentTurns(t *testing.T) {
	store := testStore(t)
	recent := []memory.Turn{
		{Utterance: "tell me about COS102", Analysis: intent.Analysis{Entities: []string{"COS102"}}},
		{Utterance: "thanks", Analysis: intent.Analysis{Category: intent.Conversational}},
	}
	a := intent.Analysis{Category: intent.FollowUp, Base: intent.General, Topics: []string{"prerequisites"}}
	res := respond(t, NewContextual(store), Request{Utterance: "what are the prerequisites", Analysis: a, Recent: recent})
	assertContains(t, res.Answer, "Following up on COS102", "Prerequisites:** COS101")
}

func TestContextual_Declines(t *testing.T) {
	store := testStore(t)
	s := NewContextual(store)
	tests := []struct {
		name string
		a    intent.Analysis
	}{
		{"no context", intent.Analysis{Category: intent.FollowUp, Base: intent.General}},
		{"unknown context code", intent.Analysis{Category: intent.FollowUp, ContextEntities: []string{"COS999"}}},
		{"institutional without course aspect", intent.Analysis{
			Category: intent.FollowUp, Base: intent.InstitutionalInfo,
			ContextEntities: []string{"COS101"}, Topics: []string{"admission"},
		}},
	}
	for _, tt := range tests {
		if _, ok := s.Respond(context.Background(), Request{Analysis: tt.a}); ok {
			t.Errorf("%s: expected decline", tt.name)
		}
	}
}

type fakeCompleter struct {
	enabled bool
	out     string
	ok      bool
	prompt  string
	system  string
	timeout time.Duration
}

func (f *fakeCompleter) Enabled() bool { return f.enabled }

func (f *fakeCompleter) Complete(_ context.Context, prompt, system string, timeout time.Duration) (string, bool) {
	f.prompt, f.system, f.timeout = prompt, system, timeout
	return f.out, f.ok
}

func TestGenerative(t *testing.T) {
	long := strings.Repeat("Recursion is a function calling itself. ", 3)
	fc := &fakeCompleter{enabled: true, out: long, ok: true}
	s := NewGenerative(fc, 2*time.Second)

	recent := []memory.Turn{
		{Utterance: "one"}, {Utterance: "two"}, {Utterance: "three", Summary: "answered three"}, {Utterance: "four"},
	}
	res := respond(t, s, Request{Utterance: "explain recursion", Recent: recent})
	if res.Source != SourceGenerative || res.Answer != long {
		t.Errorf("result = %+v", res)
	}
	if strings.Contains(fc.prompt, "Student: one") || !strings.Contains(fc.prompt, "Student: four") {
		t.Errorf("prompt should quote only the last turns:\n%s", fc.prompt)
	}
	assertContains(t, fc.prompt, "Assistant (summary): answered three", "Question: explain recursion")
	if fc.timeout != 2*time.Second || !strings.Contains(fc.system, "FUT Minna") {
		t.Errorf("timeout = %v, system = %q", fc.timeout, fc.system)
	}

	for name, c := range map[string]Completer{
		"nil":      nil,
		"disabled": &fakeCompleter{enabled: false, out: long, ok: true},
		"failed":   &fakeCompleter{enabled: true, ok: false},
	} {
		if _, ok := NewGenerative(c, 0).Respond(context.Background(), Request{Utterance: "x"}); ok {
			t.Errorf("%s backend should decline", name)
		}
	}
}

func TestBoundaryAndGeneral(t *testing.T) {
	store := testStore(t)

	a := classify(t, store, "how do I bake a cake")
	res := respond(t, NewBoundary(store), Request{Utterance: "how do I bake a cake", Analysis: a})
	assertContains(t, res.Answer, "only help with", "Questions about bake, cake are outside")
	if res.Confidence < 0.9 {
		t.Errorf("boundary confidence = %v", res.Confidence)
	}

	res = respond(t, NewGeneral(store), Request{Utterance: "???"})
	assertContains(t, res.Answer, "FUT Minna", "Tell me about COS101", "Who teaches COS201?")
}
