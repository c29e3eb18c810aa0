package ai

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Evaluation is the normalized outcome of parsing an AI evaluation response.
// Invariant: 0 <= ScoredMarks <= totalMarks and Percentage is derived from
// the clamped score, regardless of what the AI claimed.
type Evaluation struct {
	ScoredMarks float64 `json:"scoredMarks"`
	Percentage  int     `json:"percentage"`
	Feedback    string  `json:"feedback"`
	Suggestions string  `json:"suggestions"`
}

const (
	defaultFeedback    = "The answer demonstrates a reasonable understanding of the topic."
	defaultSuggestions = "Structure your answer around the relevant statutory provisions and leading cases, and state your conclusion explicitly."

	// Used when no JSON could be located and the response carried no usable text.
	emptyResponseFeedback = "The evaluation service returned no detailed feedback for this answer; a provisional score was assigned."

	// Used when a JSON document was located but had an unusable shape.
	malformedFeedback    = "The answer was evaluated, but the evaluation response had an unexpected format, so a conservative score was assigned."
	malformedSuggestions = "Compare your answer against the syllabus material for this question and resubmit if the score looks wrong."
)

// parseStrategy attempts to locate and decode a JSON document in the raw
// response. The bool reports whether a document was found and decoded; the
// decoded value may still have the wrong shape.
type parseStrategy func(raw string) (interface{}, bool)

// ParseEvaluation extracts a normalized evaluation from the AI's free-form
// response text. It never fails: strategies are tried in order and bottom out
// in a heuristic result, so the caller always receives a bounded evaluation.
func ParseEvaluation(raw string, totalMarks int) Evaluation {
	for _, strategy := range []parseStrategy{parseWholeDocument, parseEmbeddedObject} {
		doc, ok := strategy(raw)
		if !ok {
			continue
		}

		obj, ok := doc.(map[string]interface{})
		if !ok {
			// A JSON document was located but it is not an object:
			// stricter fallback than "no JSON at all".
			return malformedFallback(totalMarks)
		}
		return normalizeParsed(obj, totalMarks)
	}

	return heuristicFallback(raw, totalMarks)
}

// parseWholeDocument treats the entire response text as a JSON document.
func parseWholeDocument(raw string) (interface{}, bool) {
	var doc interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &doc); err != nil {
		return nil, false
	}
	return doc, true
}

// parseEmbeddedObject extracts the span from the first '{' to the last '}'
// and decodes that. Handles responses like "Here is my evaluation: {...} Thanks."
func parseEmbeddedObject(raw string) (interface{}, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &doc); err != nil {
		return nil, false
	}
	return doc, true
}

// normalizeParsed coerces and bounds the fields of a successfully decoded
// evaluation object.
func normalizeParsed(obj map[string]interface{}, totalMarks int) Evaluation {
	scored, ok := coerceNumber(obj["scoredMarks"])
	if !ok {
		scored = 0
	}
	scored = clamp(scored, 0, float64(totalMarks))

	return Evaluation{
		ScoredMarks: scored,
		Percentage:  derivePercentage(scored, totalMarks),
		Feedback:    stringOr(obj["feedback"], defaultFeedback),
		Suggestions: stringOr(obj["suggestions"], defaultSuggestions),
	}
}

// heuristicFallback synthesizes a 70% result when no JSON document could be
// located anywhere in the response.
func heuristicFallback(raw string, totalMarks int) Evaluation {
	scored := math.Floor(float64(totalMarks) * 0.7)

	feedback := joinNonBlankLines(raw)
	if feedback == "" {
		feedback = emptyResponseFeedback
	}

	return Evaluation{
		ScoredMarks: scored,
		Percentage:  derivePercentage(scored, totalMarks),
		Feedback:    feedback,
		Suggestions: defaultSuggestions,
	}
}

// malformedFallback synthesizes a stricter 60% result when a JSON document
// was located but could not be used.
func malformedFallback(totalMarks int) Evaluation {
	scored := math.Floor(float64(totalMarks) * 0.6)
	return Evaluation{
		ScoredMarks: scored,
		Percentage:  derivePercentage(scored, totalMarks),
		Feedback:    malformedFeedback,
		Suggestions: malformedSuggestions,
	}
}

// derivePercentage recomputes the percentage from the clamped score. Any
// AI-provided percentage is discarded in favor of this value.
func derivePercentage(scored float64, totalMarks int) int {
	if totalMarks <= 0 {
		return 0
	}
	return int(math.Round(scored / float64(totalMarks) * 100))
}

func coerceNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func joinNonBlankLines(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, " ")
}
