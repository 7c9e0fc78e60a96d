package eval

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/stellarlinkco/medqa-eval/internal/dataset"
)

type stubProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Invoke(ctx context.Context, model string, prompt string) (string, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("stub: out of responses")
}

func twoItems() []dataset.Item {
	return []dataset.Item{
		{Question: "Q1", Options: json.RawMessage(`"A) x B) y"`), AnswerIdx: "A"},
		{Question: "Q2", Options: json.RawMessage(`"A) x B) y"`), AnswerIdx: "B"},
	}
}

func TestRunner_Run(t *testing.T) {
	p := &stubProvider{responses: []string{"A", "C"}}
	r := &Runner{
		Provider:     p,
		ProviderName: "stub",
		Model:        "test-model",
		Log:          zerolog.Nop(),
	}

	records, err := r.Run(context.Background(), twoItems())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records: got %d want 2", len(records))
	}
	if p.calls != 2 {
		t.Fatalf("provider calls: got %d want 2", p.calls)
	}

	if records[0].Predicted != "A" || !records[0].Correct {
		t.Fatalf("record 0: predicted=%q correct=%v", records[0].Predicted, records[0].Correct)
	}
	if records[1].Predicted != "C" || records[1].Correct {
		t.Fatalf("record 1: predicted=%q correct=%v", records[1].Predicted, records[1].Correct)
	}
	if records[0].Question != "Q1" || records[1].Question != "Q2" {
		t.Fatalf("record order: %q, %q", records[0].Question, records[1].Question)
	}
}

func TestRunner_ProviderFailureRecorded(t *testing.T) {
	p := &stubProvider{
		responses: []string{"", "B"},
		errs:      []error{errors.New("boom"), nil},
	}
	r := &Runner{Provider: p, ProviderName: "stub", Model: "m", Log: zerolog.Nop()}

	records, err := r.Run(context.Background(), twoItems())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records: got %d want 2", len(records))
	}

	if !strings.HasPrefix(records[0].ModelResponse, "<error: ") {
		t.Fatalf("failure response: got %q", records[0].ModelResponse)
	}
	if records[0].Resolved || records[0].Predicted != "" || records[0].Correct {
		t.Fatalf("failed item should be unresolved and incorrect: %+v", records[0])
	}
	if records[1].Predicted != "B" || !records[1].Correct {
		t.Fatalf("record 1: %+v", records[1])
	}
}

func TestRunner_CanceledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &stubProvider{responses: []string{"A", "B"}}
	r := &Runner{Provider: p, ProviderName: "stub", Model: "m", Log: zerolog.Nop()}

	records, err := r.Run(ctx, twoItems())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err: got %v want context.Canceled", err)
	}
	if len(records) != 0 {
		t.Fatalf("records after immediate cancel: got %d want 0", len(records))
	}
	if p.calls != 0 {
		t.Fatalf("provider calls after cancel: got %d want 0", p.calls)
	}
}

func TestRunner_ProgressCallback(t *testing.T) {
	p := &stubProvider{responses: []string{"A", "B"}}
	var seen [][2]int
	r := &Runner{
		Provider:     p,
		ProviderName: "stub",
		Model:        "m",
		Log:          zerolog.Nop(),
		Progress:     func(done, total int) { seen = append(seen, [2]int{done, total}) },
	}

	if _, err := r.Run(context.Background(), twoItems()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := [][2]int{{1, 2}, {2, 2}}
	if len(seen) != len(want) {
		t.Fatalf("progress calls: got %v want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("progress calls: got %v want %v", seen, want)
		}
	}
}
