package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/stellarlinkco/medqa-eval/internal/eval"
	"github.com/stellarlinkco/medqa-eval/internal/metrics"
)

type itemOutput struct {
	Provider      string          `json:"provider"`
	Model         string          `json:"model"`
	Question      string          `json:"question"`
	Options       json.RawMessage `json:"options"`
	Answer        string          `json:"answer"`
	ModelResponse string          `json:"model_response"`
}

type itemEvalOutput struct {
	itemOutput
	Pred      *string `json:"pred"`
	IsCorrect bool    `json:"is_correct"`
}

// Encode serializes records as a single JSON object keyed by ordinal index.
// Keys are emitted in numeric order; marshaling a map would sort "10" before
// "2". With addEval the per-item pred/is_correct fields are included, pred
// being null for unresolved responses.
func Encode(records []eval.Record, addEval bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")

	for i, rec := range records {
		item, err := marshalItem(rec, addEval)
		if err != nil {
			return nil, fmt.Errorf("results: encode item %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n    ")
		buf.WriteString(strconv.Quote(strconv.Itoa(i)))
		buf.WriteString(": ")
		buf.Write(item)
	}

	if len(records) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func marshalItem(rec eval.Record, addEval bool) ([]byte, error) {
	options := rec.Options
	if len(bytes.TrimSpace(options)) == 0 {
		options = json.RawMessage("null")
	}

	base := itemOutput{
		Provider:      rec.Provider,
		Model:         rec.Model,
		Question:      rec.Question,
		Options:       options,
		Answer:        rec.Answer,
		ModelResponse: rec.ModelResponse,
	}
	if !addEval {
		return json.MarshalIndent(base, "    ", "    ")
	}

	out := itemEvalOutput{itemOutput: base, IsCorrect: rec.Correct}
	if rec.Resolved {
		pred := rec.Predicted
		out.Pred = &pred
	}
	return json.MarshalIndent(out, "    ", "    ")
}

// EncodeMetrics serializes a metrics summary as indented JSON.
func EncodeMetrics(sum metrics.Summary) ([]byte, error) {
	b, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("results: encode metrics: %w", err)
	}
	return append(b, '\n'), nil
}

// WriteFile persists encoded output. Callers treat a failure as fatal but
// should dump the payload elsewhere first so results are not lost silently.
func WriteFile(path string, data []byte) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("results: empty output path")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("results: write %q: %w", path, err)
	}
	return nil
}

// DefaultPath derives the results file name from provider and model.
func DefaultPath(provider string, model string) string {
	return fmt.Sprintf("results_medqa_%s_%s.json", sanitize(provider), sanitize(model))
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "none"
	}
	repl := strings.NewReplacer("/", "-", ":", "-", " ", "-")
	return repl.Replace(s)
}
