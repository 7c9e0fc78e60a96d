package results

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stellarlinkco/medqa-eval/internal/eval"
)

func sampleRecords(n int) []eval.Record {
	out := make([]eval.Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, eval.Record{
			Provider:      "stub",
			Model:         "m",
			Question:      "Q",
			Options:       json.RawMessage(`"A) x B) y"`),
			Answer:        "A",
			ModelResponse: "A",
			Predicted:     "A",
			Resolved:      true,
			Correct:       true,
		})
	}
	return out
}

func TestEncode_OrdinalKeysInOrder(t *testing.T) {
	data, err := Encode(sampleRecords(11), false)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Numeric key order, not lexicographic: "2" must come before "10".
	s := string(data)
	if strings.Index(s, `"2":`) > strings.Index(s, `"10":`) {
		t.Fatalf("keys not in numeric order:\n%s", s)
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 11 {
		t.Fatalf("entries: got %d want 11", len(decoded))
	}
	if _, ok := decoded["0"]["pred"]; ok {
		t.Fatal("pred should be absent without add-eval")
	}
	if decoded["0"]["model_response"] != "A" {
		t.Fatalf("model_response: %v", decoded["0"]["model_response"])
	}
}

func TestEncode_Empty(t *testing.T) {
	data, err := Encode(nil, false)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("empty output is not valid JSON: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("entries: got %d want 0", len(decoded))
	}
}

func TestEncode_AddEval(t *testing.T) {
	records := sampleRecords(1)
	records = append(records, eval.Record{
		Provider:      "stub",
		Model:         "m",
		Question:      "Q2",
		Options:       json.RawMessage(`"o"`),
		Answer:        "B",
		ModelResponse: "<error: boom>",
	})

	data, err := Encode(records, true)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded map[string]map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded["0"]["pred"] != "A" {
		t.Fatalf("pred[0]: %v", decoded["0"]["pred"])
	}
	if decoded["0"]["is_correct"] != true {
		t.Fatalf("is_correct[0]: %v", decoded["0"]["is_correct"])
	}

	// Unresolved prediction serializes as null, scored incorrect.
	if v, ok := decoded["1"]["pred"]; !ok || v != nil {
		t.Fatalf("pred[1]: %v (present=%v)", v, ok)
	}
	if decoded["1"]["is_correct"] != false {
		t.Fatalf("is_correct[1]: %v", decoded["1"]["is_correct"])
	}
}

func TestDefaultPath(t *testing.T) {
	tests := []struct {
		provider string
		model    string
		want     string
	}{
		{provider: "openai", model: "gpt-5-mini", want: "results_medqa_openai_gpt-5-mini.json"},
		{provider: "ollama", model: "llama3:8b", want: "results_medqa_ollama_llama3-8b.json"},
		{provider: "none", model: "", want: "results_medqa_none_none.json"},
	}
	for _, tc := range tests {
		if got := DefaultPath(tc.provider, tc.model); got != tc.want {
			t.Fatalf("DefaultPath(%q, %q): got %q want %q", tc.provider, tc.model, got, tc.want)
		}
	}
}

func TestWriteFile_EmptyPath(t *testing.T) {
	if err := WriteFile("", []byte("{}")); err == nil {
		t.Fatal("expected error for empty path")
	}
}
