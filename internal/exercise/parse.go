package exercise

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParsedExercise is the outcome of parsing one item of a model response.
// It is either Parsed or Malformed.
type ParsedExercise interface {
	isParsedExercise()
}

// Parsed holds an exercise that passed validation.
type Parsed struct {
	Exercise Exercise
}

// Malformed holds an item that could not be turned into an exercise.
type Malformed struct {
	Raw    string
	Reason string
}

func (Parsed) isParsedExercise()    {}
func (Malformed) isParsedExercise() {}

var trailingComma = regexp.MustCompile(`,\s*([\]}])`)

var smartQuotes = strings.NewReplacer("“", `"`, "”", `"`, "„", `"`)

// extractPayload strips code fences and any prose around the outermost
// JSON array or object.
func extractPayload(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if start := strings.IndexAny(s, "[{"); start > 0 {
		s = s[start:]
	}
	if end := strings.LastIndexAny(s, "]}"); end >= 0 && end < len(s)-1 {
		s = s[:end+1]
	}
	return s
}

// repairs are tried in order until the payload decodes. Typographic quotes
// are only rewritten as a last resort since German text legitimately
// contains them inside string values.
var repairs = []func(string) string{
	func(s string) string { return s },
	func(s string) string { return trailingComma.ReplaceAllString(s, "$1") },
	func(s string) string { return smartQuotes.Replace(trailingComma.ReplaceAllString(s, "$1")) },
}

// ParseBatch parses a model response holding a JSON array of exercises, an
// object with an "exercises" array, or a single exercise object. Every item
// yields one ParsedExercise; a response that is not JSON at all yields a
// single Malformed.
func ParseBatch(raw string, req Request) []ParsedExercise {
	payload := extractPayload(raw)
	if !strings.HasPrefix(payload, "[") && !strings.HasPrefix(payload, "{") {
		return []ParsedExercise{Malformed{Raw: raw, Reason: "no JSON payload found"}}
	}

	var (
		items []json.RawMessage
		err   error
	)
	for _, repair := range repairs {
		if items, err = decodeItems(repair(payload)); err == nil {
			break
		}
	}
	if err != nil {
		return []ParsedExercise{Malformed{Raw: raw, Reason: err.Error()}}
	}

	out := make([]ParsedExercise, 0, len(items))
	for _, item := range items {
		out = append(out, parseItem(item, req))
	}
	return out
}

func decodeItems(payload string) ([]json.RawMessage, error) {
	if strings.HasPrefix(payload, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(payload), &items); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
		return items, nil
	}

	var wrapper struct {
		Exercises []json.RawMessage `json:"exercises"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapper); err != nil {
		return nil, fmt.Errorf("invalid JSON object: %w", err)
	}
	if wrapper.Exercises != nil {
		return wrapper.Exercises, nil
	}
	return []json.RawMessage{json.RawMessage(payload)}, nil
}

func parseItem(item json.RawMessage, req Request) ParsedExercise {
	var ex Exercise
	if err := json.Unmarshal(item, &ex); err != nil {
		return Malformed{Raw: string(item), Reason: err.Error()}
	}
	if err := ex.validate(req.Type); err != nil {
		return Malformed{Raw: string(item), Reason: err.Error()}
	}
	ex.Type = req.Type
	ex.Difficulty = req.Difficulty
	if ex.Topic == "" {
		ex.Topic = req.Topic
	}
	return Parsed{Exercise: ex}
}
