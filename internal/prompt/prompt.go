package prompt

import (
	"encoding/json"
	"strings"
)

const instruction = "Please directly answer the question with A, B, C, D, or E. Do not provide any explanation.\n"

// Build formats a question and its options into the fixed instruction
// template, ending with an "Answer:" marker for the model to complete.
func Build(question string, options json.RawMessage) string {
	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString("Question: ")
	sb.WriteString(strings.TrimSpace(question))
	sb.WriteByte('\n')
	sb.WriteString("Options: ")
	sb.WriteString(renderOptions(options))
	sb.WriteByte('\n')
	sb.WriteString("Answer:")
	return sb.String()
}

// renderOptions reproduces the dataset's options field as-is: a JSON string
// is unquoted, any other shape keeps its raw JSON text. Structure is not
// validated.
func renderOptions(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return trimmed
}
