package listening

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// MaxReportedErrors caps the number of error details in a Result.
const MaxReportedErrors = 20

// Difficulty levels accepted by the listening exercises. The engine passes
// the label through without using it.
const (
	A2Basic        = "A2_BASIC"
	A2Intermediate = "A2_INTERMEDIATE"
	B1Basic        = "B1_BASIC"
	B1Intermediate = "B1_INTERMEDIATE"
	B1Advanced     = "B1_ADVANCED"
)

// Difficulties lists every known difficulty label, easiest first.
var Difficulties = []string{A2Basic, A2Intermediate, B1Basic, B1Intermediate, B1Advanced}

// ValidDifficulty reports whether d is one of Difficulties.
func ValidDifficulty(d string) bool {
	return slices.Contains(Difficulties, d)
}

// ErrorDetail describes one non-matching word.
type ErrorDetail struct {
	Type        OpKind `json:"type" bson:"type"`
	Expected    string `json:"expected" bson:"expected"`
	Actual      string `json:"actual" bson:"actual"`
	Explanation string `json:"explanation" bson:"explanation"`
}

// Result is the outcome of comparing what the learner heard with the
// reference transcript.
type Result struct {
	Score         int           `json:"score" bson:"score"`
	Similarity    int           `json:"similarity" bson:"similarity"`
	WordErrorRate float64       `json:"wordErrorRate" bson:"wordErrorRate"`
	ExactMatch    bool          `json:"exactMatch" bson:"exactMatch"`
	CorrectedText string        `json:"correctedText" bson:"correctedText"`
	Feedback      string        `json:"feedback" bson:"feedback"`
	Errors        []ErrorDetail `json:"errors" bson:"errors"`
	Difficulty    string        `json:"difficulty" bson:"difficulty"`

	Substitutions int `json:"-" bson:"substitutions"`
	Omissions     int `json:"-" bson:"omissions"`
	Insertions    int `json:"-" bson:"insertions"`
}

// Evaluate scores hypothesisText against referenceText. It never fails.
func Evaluate(referenceText, hypothesisText, difficulty string) Result {
	normalizedRef := Normalize(referenceText)
	normalizedHyp := Normalize(hypothesisText)
	refTokens := Tokenize(referenceText)
	hypTokens := Tokenize(hypothesisText)

	// An empty reference never counts as an exact match, even against an
	// empty hypothesis.
	exact := normalizedRef != "" && normalizedHyp == normalizedRef

	ops := Align(refTokens, hypTokens)

	var subs, oms, ins int
	errs := make([]ErrorDetail, 0)
	for _, op := range ops {
		switch op.Kind {
		case OpMatch:
			continue
		case OpSubstitution:
			subs++
		case OpOmission:
			oms++
		case OpInsertion:
			ins++
		}
		if len(errs) < MaxReportedErrors {
			errs = append(errs, describe(op))
		}
	}

	wer := wordErrorRate(subs+oms+ins, len(refTokens), len(hypTokens))
	similarity := int(math.Round((1 - wer) * 100))

	return Result{
		Score:         similarity,
		Similarity:    similarity,
		WordErrorRate: wer,
		ExactMatch:    exact,
		CorrectedText: strings.TrimSpace(referenceText),
		Feedback:      feedback(exact, subs, oms, ins),
		Errors:        errs,
		Difficulty:    difficulty,
		Substitutions: subs,
		Omissions:     oms,
		Insertions:    ins,
	}
}

func wordErrorRate(edits, refWords, hypWords int) float64 {
	if refWords == 0 {
		if hypWords == 0 {
			return 0
		}
		return 1
	}
	return math.Min(math.Max(float64(edits)/float64(refWords), 0), 1)
}

func describe(op Operation) ErrorDetail {
	switch op.Kind {
	case OpSubstitution:
		return ErrorDetail{
			Type:        OpSubstitution,
			Expected:    op.Expected,
			Actual:      op.Actual,
			Explanation: fmt.Sprintf("Expected \"%s\", but heard \"%s\"", op.Expected, op.Actual),
		}
	case OpOmission:
		return ErrorDetail{
			Type:        OpOmission,
			Expected:    op.Expected,
			Explanation: fmt.Sprintf("Missing word \"%s\"", op.Expected),
		}
	default:
		return ErrorDetail{
			Type:        OpInsertion,
			Actual:      op.Actual,
			Explanation: fmt.Sprintf("Extra word \"%s\"", op.Actual),
		}
	}
}

// feedback builds the summary sentence. Only the insertion count decides
// between "word" and "words".
func feedback(exact bool, subs, oms, ins int) string {
	if exact {
		return "Perfect match!"
	}
	word := "words"
	if ins == 1 {
		word = "word"
	}
	return fmt.Sprintf("Found %d substituted, %d missing and %d extra %s.", subs, oms, ins, word)
}
