package environment_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bdobrica/futqa/common/environment"
)

func TestStringOr(t *testing.T) {
	t.Setenv("FUTQA_TEST_STRING", "  minna ")
	if got := environment.StringOr("FUTQA_TEST_STRING", "default"); got != "minna" {
		t.Errorf("got %q, want %q", got, "minna")
	}
	if got := environment.StringOr("FUTQA_TEST_STRING_MISSING", "default"); got != "default" {
		t.Errorf("got %q, want %q", got, "default")
	}
}

func TestRequired(t *testing.T) {
	t.Setenv("FUTQA_TEST_REQUIRED", "value")
	v, err := environment.Required("FUTQA_TEST_REQUIRED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "value" {
		t.Errorf("got %q, want %q", v, "value")
	}
	if _, err := environment.Required("FUTQA_TEST_REQUIRED_MISSING"); err == nil {
		t.Error("expected error for missing variable")
	}
}

func TestNumericHelpers(t *testing.T) {
	tests := []struct {
		name  string
		value string
		check func(t *testing.T)
	}{
		{
			name:  "int parses",
			value: "42",
			check: func(t *testing.T) {
				if got := environment.IntOr("FUTQA_TEST_NUM", 7); got != 42 {
					t.Errorf("IntOr = %d, want 42", got)
				}
			},
		},
		{
			name:  "int falls back on garbage",
			value: "forty-two",
			check: func(t *testing.T) {
				if got := environment.IntOr("FUTQA_TEST_NUM", 7); got != 7 {
					t.Errorf("IntOr = %d, want 7", got)
				}
			},
		},
		{
			name:  "int64 seed",
			value: "9007199254740993",
			check: func(t *testing.T) {
				if got := environment.Int64Or("FUTQA_TEST_NUM", 1); got != 9007199254740993 {
					t.Errorf("Int64Or = %d", got)
				}
			},
		},
		{
			name:  "float",
			value: "0.75",
			check: func(t *testing.T) {
				if got := environment.FloatOr("FUTQA_TEST_NUM", 0.5); got != 0.75 {
					t.Errorf("FloatOr = %v, want 0.75", got)
				}
			},
		},
		{
			name:  "duration",
			value: "90s",
			check: func(t *testing.T) {
				if got := environment.DurationOr("FUTQA_TEST_NUM", time.Second); got != 90*time.Second {
					t.Errorf("DurationOr = %v, want 90s", got)
				}
			},
		},
		{
			name:  "bool",
			value: "t",
			check: func(t *testing.T) {
				if !environment.BoolOr("FUTQA_TEST_NUM", false) {
					t.Error("BoolOr = false, want true")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FUTQA_TEST_NUM", tt.value)
			tt.check(t)
		})
	}
}

func TestListOr(t *testing.T) {
	t.Setenv("FUTQA_TEST_LIST", " openai, ,groq ,")
	got := environment.ListOr("FUTQA_TEST_LIST", nil)
	if diff := cmp.Diff([]string{"openai", "groq"}, got); diff != "" {
		t.Errorf("ListOr mismatch (-want +got):\n%s", diff)
	}

	t.Setenv("FUTQA_TEST_LIST", " , ")
	got = environment.ListOr("FUTQA_TEST_LIST", []string{"fallback"})
	if diff := cmp.Diff([]string{"fallback"}, got); diff != "" {
		t.Errorf("ListOr fallback mismatch (-want +got):\n%s", diff)
	}
}
