package ai

import (
	"errors"
	"testing"
)

func TestParseGeneratedQuiz(t *testing.T) {
	raw := "Here you go:\n" + `{
		"title": "Contract Law Basics",
		"questions": [
			{"question_text": "What is consideration?", "options": ["A", "B", "C", "D"], "correct_option": 2, "explanation": "..."},
			{"question_text": "", "options": ["A", "B"], "correct_option": 0},
			{"question_text": "Bad index", "options": ["A", "B"], "correct_option": 5},
			{"question_text": "One option", "options": ["A"], "correct_option": 0},
			{"question_text": "Valid", "options": ["A", "B"], "correct_option": 1}
		]
	}`

	quiz, err := ParseGeneratedQuiz(raw)
	if err != nil {
		t.Fatalf("ParseGeneratedQuiz: %v", err)
	}

	if quiz.Title != "Contract Law Basics" {
		t.Errorf("Title = %q", quiz.Title)
	}
	// The blank question, the out-of-range index and the single-option
	// question are dropped individually.
	if len(quiz.Questions) != 2 {
		t.Fatalf("len(Questions) = %d, want 2", len(quiz.Questions))
	}
	if quiz.Questions[0].CorrectOption != 2 || quiz.Questions[1].CorrectOption != 1 {
		t.Errorf("kept wrong questions: %+v", quiz.Questions)
	}
}

func TestParseGeneratedQuizNoUsableQuestions(t *testing.T) {
	raw := `{"title": "Empty", "questions": [{"question_text": "x", "options": ["A"], "correct_option": 0}]}`

	if _, err := ParseGeneratedQuiz(raw); !errors.Is(err, ErrNoQuizGenerated) {
		t.Errorf("err = %v, want ErrNoQuizGenerated", err)
	}
}

func TestParseGeneratedQuizUndecodable(t *testing.T) {
	if _, err := ParseGeneratedQuiz("I cannot write quizzes today."); err == nil {
		t.Error("undecodable responses must error, not fall back")
	}
}
