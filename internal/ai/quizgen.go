package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoQuizGenerated is returned when the response contained no usable questions.
var ErrNoQuizGenerated = errors.New("no usable questions in AI response")

// GeneratedQuiz is the decoded payload of an AI quiz-generation response.
type GeneratedQuiz struct {
	Title     string              `json:"title"`
	Questions []GeneratedQuestion `json:"questions"`
}

// GeneratedQuestion is one generated multiple-choice question.
type GeneratedQuestion struct {
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

// ParseGeneratedQuiz decodes a quiz from the AI's response text. Unlike
// answer evaluation, this is an admin-facing authoring call, so there is no
// fallback tier: an unusable response is an error. Questions that violate
// the option/correct-index invariant are dropped individually.
func ParseGeneratedQuiz(raw string) (*GeneratedQuiz, error) {
	span := raw
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		span = raw[start : end+1]
	}

	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(span), &quiz); err != nil {
		return nil, fmt.Errorf("decode generated quiz: %w", err)
	}

	valid := quiz.Questions[:0]
	for _, q := range quiz.Questions {
		if strings.TrimSpace(q.QuestionText) == "" || len(q.Options) < 2 {
			continue
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			continue
		}
		valid = append(valid, q)
	}
	quiz.Questions = valid

	if len(quiz.Questions) == 0 {
		return nil, ErrNoQuizGenerated
	}
	return &quiz, nil
}
