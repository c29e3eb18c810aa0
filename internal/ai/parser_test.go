package ai

import (
	"strings"
	"testing"
)

func TestParseEvaluationCleanJSON(t *testing.T) {
	raw := `{"scoredMarks": 7.5, "percentage": 12, "feedback": "Good structure.", "suggestions": "Cite more cases."}`

	eval := ParseEvaluation(raw, 10)

	if eval.ScoredMarks != 7.5 {
		t.Errorf("ScoredMarks = %v, want 7.5", eval.ScoredMarks)
	}
	// The AI's own percentage claim is discarded.
	if eval.Percentage != 75 {
		t.Errorf("Percentage = %d, want 75", eval.Percentage)
	}
	if eval.Feedback != "Good structure." {
		t.Errorf("Feedback = %q", eval.Feedback)
	}
	if eval.Suggestions != "Cite more cases." {
		t.Errorf("Suggestions = %q", eval.Suggestions)
	}
}

func TestParseEvaluationEmbeddedJSON(t *testing.T) {
	raw := "Here is my evaluation:\n```json\n{\"scoredMarks\": 4, \"feedback\": \"Partial answer.\"}\n```\nGood luck!"

	eval := ParseEvaluation(raw, 10)

	if eval.ScoredMarks != 4 {
		t.Errorf("ScoredMarks = %v, want 4", eval.ScoredMarks)
	}
	if eval.Percentage != 40 {
		t.Errorf("Percentage = %d, want 40", eval.Percentage)
	}
	if eval.Feedback != "Partial answer." {
		t.Errorf("Feedback = %q", eval.Feedback)
	}
	if eval.Suggestions == "" {
		t.Error("Suggestions should fall back to a non-empty default")
	}
}

func TestParseEvaluationStringScore(t *testing.T) {
	raw := `{"scoredMarks": " 6.5 ", "feedback": "ok", "suggestions": "ok"}`

	eval := ParseEvaluation(raw, 10)
	if eval.ScoredMarks != 6.5 {
		t.Errorf("ScoredMarks = %v, want 6.5", eval.ScoredMarks)
	}
	if eval.Percentage != 65 {
		t.Errorf("Percentage = %d, want 65", eval.Percentage)
	}
}

func TestParseEvaluationClampsScore(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		scored float64
		pct    int
	}{
		{"above total", `{"scoredMarks": 15}`, 10, 100},
		{"negative", `{"scoredMarks": -3}`, 0, 0},
		{"non numeric", `{"scoredMarks": "abc"}`, 0, 0},
		{"missing", `{"feedback": "x"}`, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			eval := ParseEvaluation(tc.raw, 10)
			if eval.ScoredMarks != tc.scored {
				t.Errorf("ScoredMarks = %v, want %v", eval.ScoredMarks, tc.scored)
			}
			if eval.Percentage != tc.pct {
				t.Errorf("Percentage = %d, want %d", eval.Percentage, tc.pct)
			}
		})
	}
}

func TestParseEvaluationHeuristicFallback(t *testing.T) {
	raw := "The answer is quite good.\n\nIt covers the main provisions."

	eval := ParseEvaluation(raw, 10)

	if eval.ScoredMarks != 7 {
		t.Errorf("ScoredMarks = %v, want 7 (70%% of 10)", eval.ScoredMarks)
	}
	if eval.Percentage != 70 {
		t.Errorf("Percentage = %d, want 70", eval.Percentage)
	}
	if !strings.Contains(eval.Feedback, "quite good") {
		t.Errorf("Feedback should carry the response text, got %q", eval.Feedback)
	}
	if !strings.Contains(eval.Feedback, "main provisions") {
		t.Errorf("Feedback should join all non-blank lines, got %q", eval.Feedback)
	}
}

func TestParseEvaluationHeuristicOddTotal(t *testing.T) {
	// 70% of 7 is 4.9; the score floors to 4 and the percentage follows the
	// actual score, not the nominal 70.
	eval := ParseEvaluation("free text only", 7)

	if eval.ScoredMarks != 4 {
		t.Errorf("ScoredMarks = %v, want 4", eval.ScoredMarks)
	}
	if eval.Percentage != 57 {
		t.Errorf("Percentage = %d, want 57", eval.Percentage)
	}
}

func TestParseEvaluationEmptyResponse(t *testing.T) {
	eval := ParseEvaluation("   \n\n  ", 10)

	if eval.ScoredMarks != 7 {
		t.Errorf("ScoredMarks = %v, want 7", eval.ScoredMarks)
	}
	if eval.Feedback == "" {
		t.Error("Feedback must not be empty for a blank response")
	}
}

func TestParseEvaluationMalformedJSON(t *testing.T) {
	// A locatable JSON document that is not an object gets the stricter 60%
	// fallback instead of the heuristic.
	eval := ParseEvaluation(`[1, 2, 3]`, 10)

	if eval.ScoredMarks != 6 {
		t.Errorf("ScoredMarks = %v, want 6 (60%% of 10)", eval.ScoredMarks)
	}
	if eval.Percentage != 60 {
		t.Errorf("Percentage = %d, want 60", eval.Percentage)
	}
	if eval.Feedback == "" || eval.Suggestions == "" {
		t.Error("Malformed fallback must fill feedback and suggestions")
	}
}

func TestParseEvaluationMalformedOddTotal(t *testing.T) {
	// 60% of 7 floors to 4; percentage derives from the floored score.
	eval := ParseEvaluation(`"just a string"`, 7)

	if eval.ScoredMarks != 4 {
		t.Errorf("ScoredMarks = %v, want 4", eval.ScoredMarks)
	}
	if eval.Percentage != 57 {
		t.Errorf("Percentage = %d, want 57", eval.Percentage)
	}
}

func TestParseEvaluationBrokenEmbeddedJSON(t *testing.T) {
	// Braces exist but the span does not decode: that is "no JSON located",
	// so the heuristic applies rather than the malformed fallback.
	eval := ParseEvaluation("I scored it {7 out of 10", 10)

	if eval.ScoredMarks != 7 {
		t.Errorf("ScoredMarks = %v, want 7", eval.ScoredMarks)
	}
	if eval.Percentage != 70 {
		t.Errorf("Percentage = %d, want 70", eval.Percentage)
	}
}

func TestDerivePercentageZeroTotal(t *testing.T) {
	if got := derivePercentage(5, 0); got != 0 {
		t.Errorf("derivePercentage(5, 0) = %d, want 0", got)
	}
}
