package eval

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stellarlinkco/medqa-eval/internal/dataset"
	"github.com/stellarlinkco/medqa-eval/internal/llm"
	"github.com/stellarlinkco/medqa-eval/internal/prompt"
)

// Runner drives the per-item sequence: build prompt, invoke provider, extract
// answer, score, record. Strictly sequential; the result and confusion state
// have no other writers.
type Runner struct {
	Provider     llm.Provider
	ProviderName string
	Model        string
	Log          zerolog.Logger

	// Progress, when set, is called after each item with (done, total).
	Progress func(done, total int)
}

// Run produces exactly one Record per item, in item order. Provider failures
// are embedded as "<error: ...>" responses and scored as unresolved; only a
// caller interrupt (context cancellation) aborts the batch, returning the
// records completed so far alongside the context error.
func (r *Runner) Run(ctx context.Context, items []dataset.Item) ([]Record, error) {
	if r == nil {
		return nil, errors.New("eval: nil runner")
	}
	if ctx == nil {
		return nil, errors.New("eval: nil context")
	}
	if r.Provider == nil {
		return nil, errors.New("eval: nil provider")
	}

	out := make([]Record, 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		p := prompt.Build(item.Question, item.Options)

		r.Log.Debug().
			Int("item", i).
			Str("question", item.Question).
			Str("ground_truth", item.AnswerIdx).
			Msg("asking model")

		raw, err := r.Provider.Invoke(ctx, r.Model, p)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			raw = fmt.Sprintf("<error: %v>", err)
		}

		pred, resolved := ExtractChoice(raw)
		rec := Record{
			Provider:      r.ProviderName,
			Model:         r.Model,
			Question:      item.Question,
			Options:       item.Options,
			Answer:        item.AnswerIdx,
			ModelResponse: raw,
			Predicted:     pred,
			Resolved:      resolved,
			Correct:       resolved && pred == item.AnswerIdx,
		}
		out = append(out, rec)

		r.Log.Debug().
			Int("item", i).
			Str("response", raw).
			Str("predicted", pred).
			Bool("correct", rec.Correct).
			Msg("scored")

		if r.Progress != nil {
			r.Progress(i+1, len(items))
		}
	}
	return out, nil
}
