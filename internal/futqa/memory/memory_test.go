package memory

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bdobrica/futqa/internal/futqa/intent"
)

func turn(i int) Turn {
	return Turn{Utterance: fmt.Sprintf("q%d", i), Strategy: "general", At: time.Unix(int64(i), 0)}
}

func utterances(turns []Turn) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = t.Utterance
	}
	return out
}

func TestMemory_EvictsOldestFirst(t *testing.T) {
	const k = 10
	m := New(k)
	for i := range k + 5 {
		m.Append(turn(i))
	}
	if m.Len() != k {
		t.Fatalf("Len = %d, want %d", m.Len(), k)
	}
	var want []string
	for i := 5; i < k+5; i++ {
		want = append(want, fmt.Sprintf("q%d", i))
	}
	if diff := cmp.Diff(want, utterances(m.Turns())); diff != "" {
		t.Errorf("turns mismatch (-want +got):\n%s", diff)
	}
}

func TestMemory_DefaultCapacity(t *testing.T) {
	if got := New(0).Capacity(); got != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", got, DefaultCapacity)
	}
}

func TestMemory_Recent(t *testing.T) {
	m := New(5)
	for i := range 4 {
		m.Append(turn(i))
	}
	tests := []struct {
		n    int
		want []string
	}{
		{2, []string{"q2", "q3"}},
		{0, []string{"q0", "q1", "q2", "q3"}},
		{9, []string{"q0", "q1", "q2", "q3"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, utterances(m.Recent(tt.n))); diff != "" {
			t.Errorf("Recent(%d) mismatch (-want +got):\n%s", tt.n, diff)
		}
	}

	// The returned slice is a copy.
	got := m.Recent(1)
	got[0].Utterance = "changed"
	if m.Recent(1)[0].Utterance != "q3" {
		t.Error("Recent must not expose internal storage")
	}

	m.Reset()
	if m.Len() != 0 || len(m.Recent(3)) != 0 {
		t.Error("Reset should empty the memory")
	}
}

func TestMemory_Context(t *testing.T) {
	m := New(3)
	m.Append(Turn{Utterance: "Tell me about COS101", Analysis: intent.Analysis{
		Category: intent.CourseSpecific, Entities: []string{"COS101"},
	}})
	m.Append(Turn{Utterance: "who teaches it", Analysis: intent.Analysis{
		Category: intent.FollowUp, ContextEntities: []string{"COS101"},
	}})
	m.Append(Turn{Utterance: "thanks", Analysis: intent.Analysis{
		Category: intent.Conversational, ContextEntities: []string{"COS101"},
	}})

	want := []intent.Turn{
		{Text: "Tell me about COS101", Entities: []string{"COS101"}},
		{Text: "who teaches it", Entities: []string{"COS101"}},
		{Text: "thanks"},
	}
	if diff := cmp.Diff(want, m.Context()); diff != "" {
		t.Errorf("Context mismatch (-want +got):\n%s", diff)
	}
}

func TestMemory_Summary(t *testing.T) {
	m := New(10)
	if got := m.Summary(); got != "No conversation history available." {
		t.Errorf("empty summary = %q", got)
	}

	m.Append(Turn{
		Utterance: "Tell me about COS101 and everything I should know before the first lecture",
		Strategy:  "course_specific",
		Analysis:  intent.Analysis{Category: intent.CourseSpecific, Entities: []string{"COS101"}, Style: intent.Neutral},
	})
	m.Append(Turn{Utterance: "hello", Strategy: "conversational", Analysis: intent.Analysis{Category: intent.Conversational}})

	got := m.Summary()
	for _, want := range []string{
		"Conversation summary (2 turns)",
		"Topics: course_specific, conversational",
		"Courses and lecturers: COS101",
		"1. Tell me about COS101 and everything I should know ...",
		"strategy: conversational",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}
