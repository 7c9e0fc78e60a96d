package metrics

import "github.com/stellarlinkco/medqa-eval/internal/eval"

// Labels is the fixed answer label set.
var Labels = []string{"A", "B", "C", "D", "E"}

// Confusion maps ground-truth label to predicted label to count.
type Confusion map[string]map[string]int

// Summary is derived read-only from a record sequence.
type Summary struct {
	Total     int       `json:"total"`
	Correct   int       `json:"correct"`
	Accuracy  float64   `json:"accuracy"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Confusion Confusion `json:"confusion"`
}

// NewConfusion returns a matrix with all 25 cells initialized to zero.
func NewConfusion() Confusion {
	out := make(Confusion, len(Labels))
	for _, g := range Labels {
		row := make(map[string]int, len(Labels))
		for _, p := range Labels {
			row[p] = 0
		}
		out[g] = row
	}
	return out
}

// Aggregate computes accuracy and the confusion matrix over any record
// sequence, including empty (accuracy 0.0, not a division error). A cell
// increments only when both ground truth and prediction are in the label set;
// unresolved predictions still count toward total and incorrect. Provider and
// model are supplied by the caller so an empty batch still names its run.
func Aggregate(provider string, model string, records []eval.Record) Summary {
	out := Summary{
		Total:     len(records),
		Provider:  provider,
		Model:     model,
		Confusion: NewConfusion(),
	}

	for _, rec := range records {
		if rec.Correct {
			out.Correct++
		}
		if !rec.Resolved {
			continue
		}
		if row, ok := out.Confusion[rec.Answer]; ok {
			if _, ok := row[rec.Predicted]; ok {
				row[rec.Predicted]++
			}
		}
	}

	if out.Total > 0 {
		out.Accuracy = float64(out.Correct) / float64(out.Total)
	}
	return out
}
