package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func writeDataset(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeDataset(t,
		`{"question":"Q1","options":{"A":"x","B":"y"},"answer_idx":"a"}`,
		``,
		`{"question":"Q2","options":"A) x B) y","answer_idx":"B"}`,
	)

	items, err := Load(path, LoadOptions{Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items: got %d want 2", len(items))
	}
	if items[0].Question != "Q1" || items[1].Question != "Q2" {
		t.Fatalf("order: %q, %q", items[0].Question, items[1].Question)
	}
	// Ground truth is uppercased at load.
	if items[0].AnswerIdx != "A" {
		t.Fatalf("answer_idx: got %q want A", items[0].AnswerIdx)
	}
	if string(items[1].Options) != `"A) x B) y"` {
		t.Fatalf("options raw json: got %s", items[1].Options)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.jsonl"), LoadOptions{Log: zerolog.Nop()})
	if err == nil {
		t.Fatal("expected error for missing dataset")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err: %v", err)
	}
}

func TestLoad_MalformedSkippedByDefault(t *testing.T) {
	path := writeDataset(t,
		`{"question":"Q1","options":"o","answer_idx":"A"}`,
		`{not json}`,
		`{"question":"","options":"o","answer_idx":"A"}`,
		`{"question":"Q2","options":"o","answer_idx":"B"}`,
	)

	items, err := Load(path, LoadOptions{Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items: got %d want 2", len(items))
	}
}

func TestLoad_MalformedStrictAborts(t *testing.T) {
	path := writeDataset(t,
		`{"question":"Q1","options":"o","answer_idx":"A"}`,
		`{not json}`,
	)

	_, err := Load(path, LoadOptions{Strict: true, Log: zerolog.Nop()})
	if err == nil {
		t.Fatal("expected strict mode to abort on malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err should name the line: %v", err)
	}
}

func TestLoad_BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.jsonl")
	content := "\xef\xbb\xbf" + `{"question":"Q1","options":"o","answer_idx":"C"}` + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	items, err := Load(path, LoadOptions{Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 1 || items[0].AnswerIdx != "C" {
		t.Fatalf("items: %+v", items)
	}
}

func TestLoad_NumericAnswerIdx(t *testing.T) {
	path := writeDataset(t, `{"question":"Q1","options":"o","answer_idx":3}`)

	items, err := Load(path, LoadOptions{Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 1 || items[0].AnswerIdx != "3" {
		t.Fatalf("items: %+v", items)
	}
}

func TestTruncate(t *testing.T) {
	items := []Item{
		{Question: "Q1"}, {Question: "Q2"}, {Question: "Q3"}, {Question: "Q4"}, {Question: "Q5"},
	}

	tests := []struct {
		limit int
		want  int
		first string
	}{
		{limit: 0, want: 5, first: "Q1"},
		{limit: -1, want: 5, first: "Q1"},
		{limit: 1, want: 1, first: "Q1"},
		{limit: 3, want: 3, first: "Q1"},
		{limit: 10, want: 5, first: "Q1"},
	}

	for _, tc := range tests {
		got := Truncate(items, tc.limit)
		if len(got) != tc.want {
			t.Fatalf("Truncate(limit=%d): got %d want %d", tc.limit, len(got), tc.want)
		}
		if got[0].Question != tc.first {
			t.Fatalf("Truncate(limit=%d): first=%q want %q", tc.limit, got[0].Question, tc.first)
		}
	}
}
