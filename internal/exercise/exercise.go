package exercise

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is the exercise category the learner is practising.
type Kind string

const (
	Vocabulary           Kind = "vocabulary"
	Grammar              Kind = "grammar"
	Reading              Kind = "reading"
	Listening            Kind = "listening"
	Writing              Kind = "writing"
	SentenceConstruction Kind = "sentence_construction"
	ErrorCorrection      Kind = "error_correction"
)

// Kinds lists every supported exercise kind.
var Kinds = []Kind{Vocabulary, Grammar, Reading, Listening, Writing, SentenceConstruction, ErrorCorrection}

// ValidKind reports whether k is a supported exercise kind.
func ValidKind(k Kind) bool {
	return slices.Contains(Kinds, k)
}

// Exercise is a single generated task.
type Exercise struct {
	ID          string   `json:"id" bson:"_id"`
	Type        Kind     `json:"type" bson:"type"`
	Difficulty  string   `json:"difficulty" bson:"difficulty"`
	Topic       string   `json:"topic,omitempty" bson:"topic,omitempty"`
	Prompt      string   `json:"prompt" bson:"prompt"`
	Text        string   `json:"text,omitempty" bson:"text,omitempty"` // reading passage or listening script
	Options     []string `json:"options,omitempty" bson:"options,omitempty"`
	Answer      string   `json:"answer" bson:"answer"`
	Explanation string   `json:"explanation,omitempty" bson:"explanation,omitempty"`
}

// Request asks for Count exercises of one kind.
type Request struct {
	Type       Kind
	Difficulty string
	Topic      string
	Count      int
}

func (e Exercise) validate(want Kind) error {
	if e.Type != "" && e.Type != want {
		return fmt.Errorf("type %q does not match requested %q", e.Type, want)
	}
	if strings.TrimSpace(e.Prompt) == "" {
		return fmt.Errorf("prompt is empty")
	}
	if strings.TrimSpace(e.Answer) == "" && want != Writing {
		return fmt.Errorf("answer is empty")
	}
	switch want {
	case Vocabulary, Grammar:
		if len(e.Options) > 0 && !slices.Contains(e.Options, e.Answer) {
			return fmt.Errorf("answer %q is not among the options", e.Answer)
		}
	case Reading, Listening:
		if strings.TrimSpace(e.Text) == "" {
			return fmt.Errorf("%s exercise has no text", want)
		}
	}
	return nil
}
