package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bdobrica/futqa/internal/futqa/engine"
	"github.com/bdobrica/futqa/internal/futqa/knowledge"
	"github.com/bdobrica/futqa/internal/futqa/learning"
)

func TestChat(t *testing.T) {
	store, err := knowledge.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	l := learning.NewLogger(nil, learning.Config{}, nil)
	defer l.Close(context.Background())
	eng, err := engine.New(engine.Config{Seed: 3}, engine.Options{Store: store, Learning: l})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	in := strings.NewReader(strings.Join([]string{
		"/feedback too early",
		"Tell me about COS101",
		"who teaches it",
		"/feedback great",
		"/summary",
		"/quit",
		"never reached",
	}, "\n"))
	var out bytes.Buffer
	if err := chat(context.Background(), eng, in, &out, true); err != nil {
		t.Fatalf("chat: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Usage: /feedback",
		"COS101",
		"[follow_up via contextual",
		"Thanks for the feedback.",
		"Conversation summary (2 turns)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if l.Stats().Total != 2 {
		t.Errorf("recorded %d interactions, want 2", l.Stats().Total)
	}
}

func TestPrintCounts(t *testing.T) {
	var out bytes.Buffer
	printCounts(&out, "By strategy", map[string]int{"general": 1, "course_specific": 3, "boundary": 1})
	want := "\nBy strategy:\n  course_specific      3\n  boundary             1\n  general              1\n"
	if out.String() != want {
		t.Errorf("printCounts =\n%q\nwant\n%q", out.String(), want)
	}
}
