package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lexprep/lexprep-backend/internal/model"
)

func sampleQuestions() []model.QuizQuestion {
	return []model.QuizQuestion{
		{ID: uuid.New(), CorrectOption: 2, Explanation: "Section 10."},
		{ID: uuid.New(), CorrectOption: 0},
		{ID: uuid.New(), CorrectOption: 3},
	}
}

func TestScoreSubmission(t *testing.T) {
	quizID := uuid.New()
	questions := sampleQuestions()

	result := scoreSubmission(quizID, questions, []int{2, 1, 3})

	if result.QuizID != quizID {
		t.Errorf("QuizID = %s", result.QuizID)
	}
	if result.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", result.TotalQuestions)
	}
	if result.Correct != 2 || result.Score != 2 {
		t.Errorf("Correct = %d, Score = %d, want 2 and 2", result.Correct, result.Score)
	}

	if len(result.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(result.Results))
	}
	if !result.Results[0].IsCorrect || result.Results[1].IsCorrect || !result.Results[2].IsCorrect {
		t.Errorf("per-question correctness wrong: %+v", result.Results)
	}
	if result.Results[1].Selected != 1 || result.Results[1].CorrectOption != 0 {
		t.Errorf("Results[1] must reveal selected and correct options: %+v", result.Results[1])
	}
	if result.Results[0].Explanation != "Section 10." {
		t.Errorf("Results[0].Explanation = %q", result.Results[0].Explanation)
	}
}

func TestScoreSubmissionAllWrong(t *testing.T) {
	result := scoreSubmission(uuid.New(), sampleQuestions(), []int{0, 1, 0})

	if result.Correct != 0 || result.Score != 0 {
		t.Errorf("Correct = %d, Score = %d, want 0", result.Correct, result.Score)
	}
	for i, qr := range result.Results {
		if qr.IsCorrect {
			t.Errorf("Results[%d].IsCorrect = true, want false", i)
		}
	}
}

func TestQuestionsFromRequestValidatesCorrectOption(t *testing.T) {
	reqs := []model.QuizQuestionRequest{
		{QuestionText: "Q1", Options: []string{"A", "B"}, CorrectOption: 1},
		{QuestionText: "Q2", Options: []string{"A", "B"}, CorrectOption: 2},
	}

	if _, err := questionsFromRequest(reqs); err == nil {
		t.Fatal("out-of-range correct option must be rejected")
	}

	questions, err := questionsFromRequest(reqs[:1])
	if err != nil {
		t.Fatalf("questionsFromRequest: %v", err)
	}
	if questions[0].OrderNum != 0 {
		t.Errorf("OrderNum = %d, want positional order", questions[0].OrderNum)
	}
}
