package eval

import "encoding/json"

// Record is the terminal outcome for one question item. Records are created
// once by the runner and never mutated; their position in the result slice is
// the item's ordinal position in the dataset.
type Record struct {
	Provider      string
	Model         string
	Question      string
	Options       json.RawMessage
	Answer        string // ground truth, uppercased at load
	ModelResponse string // raw model text, or an "<error: ...>" placeholder

	Predicted string // "" when unresolved
	Resolved  bool
	Correct   bool
}
