package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Item is one question record from a JSONL dataset. Options keeps the raw
// JSON of the options field so prompts and result files reproduce it
// verbatim, whether it is a label->text mapping or a plain string.
type Item struct {
	Question  string          `json:"question"`
	Options   json.RawMessage `json:"options"`
	AnswerIdx string          `json:"answer_idx"`
}

type LoadOptions struct {
	// Strict aborts loading on the first malformed line instead of skipping
	// it with a warning.
	Strict bool
	Log    zerolog.Logger
}

type itemRow struct {
	Question  string          `json:"question"`
	Options   json.RawMessage `json:"options"`
	AnswerIdx any             `json:"answer_idx"`
}

// Load reads one Item per non-empty JSONL line. A missing or unreadable file
// is fatal; by default malformed lines are skipped with a warning.
// Ground-truth labels are normalized to uppercase here so downstream
// comparison against the fixed A-E label set never misses on case.
func Load(path string, opts LoadOptions) ([]Item, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("dataset: empty path")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("dataset: not found at %q: %w", path, err)
		}
		return nil, fmt.Errorf("dataset: open %q: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)

	var out []Item
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if lineNo == 1 {
			line = bytes.TrimPrefix(line, []byte("\xef\xbb\xbf"))
		}
		if len(line) == 0 {
			continue
		}

		var row itemRow
		if err := json.Unmarshal(line, &row); err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("dataset: parse %q line %d: %w", path, lineNo, err)
			}
			opts.Log.Warn().Str("path", path).Int("line", lineNo).Err(err).Msg("skipping malformed record")
			continue
		}

		item, err := itemFromRow(&row)
		if err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("dataset: %q line %d: %w", path, lineNo, err)
			}
			opts.Log.Warn().Str("path", path).Int("line", lineNo).Err(err).Msg("skipping malformed record")
			continue
		}
		out = append(out, item)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("dataset: read %q: %w", path, err)
	}
	return out, nil
}

func itemFromRow(row *itemRow) (Item, error) {
	question := strings.TrimSpace(row.Question)
	if question == "" {
		return Item{}, fmt.Errorf("missing question")
	}

	answer := strings.ToUpper(strings.TrimSpace(answerString(row.AnswerIdx)))
	if answer == "" {
		return Item{}, fmt.Errorf("missing answer_idx")
	}

	return Item{
		Question:  question,
		Options:   row.Options,
		AnswerIdx: answer,
	}, nil
}

func answerString(v any) string {
	switch a := v.(type) {
	case nil:
		return ""
	case string:
		return a
	case float64:
		return strings.TrimSuffix(fmt.Sprintf("%v", a), ".0")
	default:
		return fmt.Sprint(a)
	}
}

// Truncate returns the first limit items; 0 or negative means all.
func Truncate(items []Item, limit int) []Item {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	out := make([]Item, 0, limit)
	return append(out, items[:limit]...)
}
