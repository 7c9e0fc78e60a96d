package eval

import (
	"regexp"
	"strings"
)

// Extraction favors precision over recall: a letter embedded inside an
// unrelated word never matches. The first structural match wins, so ties are
// impossible.
var (
	standaloneChoice = regexp.MustCompile(`\b[A-E]\b`)
	delimitedChoice  = regexp.MustCompile(`\b[A-E][\s)\].,:;!?-]`)
)

// ExtractChoice parses free-form model output into a single A-E letter. The
// second form tolerates answers like "C)", "C." or "Answer: C". It returns
// false when no choice can be resolved.
func ExtractChoice(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", false
	}

	if m := standaloneChoice.FindString(s); m != "" {
		return m, true
	}
	if m := delimitedChoice.FindString(s); m != "" {
		return m[:1], true
	}
	return "", false
}
