package prompt

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBuild_StringOptions(t *testing.T) {
	got := Build("What is the diagnosis?", json.RawMessage(`"A) flu B) cold"`))

	if !strings.HasPrefix(got, "Please directly answer the question with A, B, C, D, or E.") {
		t.Fatalf("missing instruction: %q", got)
	}
	if !strings.Contains(got, "Question: What is the diagnosis?\n") {
		t.Fatalf("missing question: %q", got)
	}
	if !strings.Contains(got, "Options: A) flu B) cold\n") {
		t.Fatalf("string options should be unquoted: %q", got)
	}
	if !strings.HasSuffix(got, "Answer:") {
		t.Fatalf("missing answer marker: %q", got)
	}
}

func TestBuild_MappingOptions(t *testing.T) {
	raw := json.RawMessage(`{"A": "flu", "B": "cold"}`)
	got := Build("Q", raw)

	if !strings.Contains(got, `Options: {"A": "flu", "B": "cold"}`) {
		t.Fatalf("mapping options should keep raw JSON: %q", got)
	}
}

func TestBuild_EmptyOptions(t *testing.T) {
	got := Build("Q", nil)
	if !strings.Contains(got, "Options: \n") {
		t.Fatalf("empty options: %q", got)
	}
}

func TestBuild_IsPure(t *testing.T) {
	raw := json.RawMessage(`{"A": "x"}`)
	if Build("Q", raw) != Build("Q", raw) {
		t.Fatal("Build is not deterministic")
	}
}
