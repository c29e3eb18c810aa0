package attempt

import (
	"errors"
	"testing"
)

func mustReduce(t *testing.T, s State, a Action) State {
	t.Helper()
	next, err := Reduce(s, a)
	if err != nil {
		t.Fatalf("Reduce(%v): %v", a.Type, err)
	}
	return next
}

func TestNew(t *testing.T) {
	s, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Phase != PhaseInProgress || s.Current != 0 || len(s.Entries) != 3 {
		t.Errorf("unexpected initial state: %+v", s)
	}
	if s.AnsweredCount() != 0 {
		t.Errorf("AnsweredCount = %d, want 0", s.AnsweredCount())
	}

	if _, err := New(0); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("New(0) err = %v, want ErrNoQuestions", err)
	}
}

func TestSelectAnswerClearsSkip(t *testing.T) {
	s, _ := New(2)

	s = mustReduce(t, s, Action{Type: ActionSkip})
	s = mustReduce(t, s, Action{Type: ActionPrevious})
	if !s.Entries[0].Skipped {
		t.Fatal("question 0 should be skipped")
	}

	s = mustReduce(t, s, Action{Type: ActionSelectAnswer, Index: 2})
	if s.Entries[0].Skipped {
		t.Error("answering must clear the skip flag")
	}
	if s.Entries[0].Selected == nil || *s.Entries[0].Selected != 2 {
		t.Errorf("Selected = %v, want 2", s.Entries[0].Selected)
	}
}

func TestSkipKeepsExistingAnswer(t *testing.T) {
	s, _ := New(2)

	s = mustReduce(t, s, Action{Type: ActionSelectAnswer, Index: 1})
	s = mustReduce(t, s, Action{Type: ActionSkip})

	if s.Entries[0].Skipped {
		t.Error("skipping an answered question must not set the skip flag")
	}
	if s.Entries[0].Selected == nil || *s.Entries[0].Selected != 1 {
		t.Error("skipping must leave the recorded answer in place")
	}
	if s.Current != 1 {
		t.Errorf("Current = %d, want 1 (skip advances)", s.Current)
	}
}

func TestNavigationClamps(t *testing.T) {
	s, _ := New(2)

	s = mustReduce(t, s, Action{Type: ActionPrevious})
	if s.Current != 0 {
		t.Errorf("Previous at question 0: Current = %d, want 0", s.Current)
	}

	s = mustReduce(t, s, Action{Type: ActionNext})
	s = mustReduce(t, s, Action{Type: ActionNext})
	if s.Current != 1 {
		t.Errorf("Next at last question: Current = %d, want 1", s.Current)
	}
}

func TestJumpTo(t *testing.T) {
	s, _ := New(5)

	s = mustReduce(t, s, Action{Type: ActionJumpTo, Index: 3})
	if s.Current != 3 {
		t.Errorf("Current = %d, want 3", s.Current)
	}

	if _, err := Reduce(s, Action{Type: ActionJumpTo, Index: 5}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("jump past the end: err = %v, want ErrOutOfRange", err)
	}
	if _, err := Reduce(s, Action{Type: ActionJumpTo, Index: -1}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("negative jump: err = %v, want ErrOutOfRange", err)
	}
}

func TestToggleReview(t *testing.T) {
	s, _ := New(1)

	s = mustReduce(t, s, Action{Type: ActionToggleReview})
	if !s.Entries[0].Marked {
		t.Error("first toggle must mark")
	}
	s = mustReduce(t, s, Action{Type: ActionToggleReview})
	if s.Entries[0].Marked {
		t.Error("second toggle must unmark")
	}
}

func TestSubmitRequiresAllAnswered(t *testing.T) {
	s, _ := New(2)
	s = mustReduce(t, s, Action{Type: ActionSelectAnswer, Index: 0})

	if _, err := Reduce(s, Action{Type: ActionSubmit}); !errors.Is(err, ErrUnanswered) {
		t.Fatalf("partial submit: err = %v, want ErrUnanswered", err)
	}

	s = mustReduce(t, s, Action{Type: ActionNext})
	s = mustReduce(t, s, Action{Type: ActionSelectAnswer, Index: 3})
	s = mustReduce(t, s, Action{Type: ActionSubmit})

	if s.Phase != PhaseSubmitted {
		t.Errorf("Phase = %s, want SUBMITTED", s.Phase)
	}

	answers, err := s.Answers()
	if err != nil {
		t.Fatalf("Answers: %v", err)
	}
	if len(answers) != 2 || answers[0] != 0 || answers[1] != 3 {
		t.Errorf("Answers = %v, want [0 3]", answers)
	}
}

func TestSubmittedRejectsEverythingButRestart(t *testing.T) {
	s, _ := New(1)
	s = mustReduce(t, s, Action{Type: ActionSelectAnswer, Index: 0})
	s = mustReduce(t, s, Action{Type: ActionSubmit})

	for _, at := range []ActionType{ActionSelectAnswer, ActionSkip, ActionNext, ActionPrevious, ActionJumpTo, ActionToggleReview, ActionSubmit} {
		if _, err := Reduce(s, Action{Type: at}); !errors.Is(err, ErrSubmitted) {
			t.Errorf("%s after submit: err = %v, want ErrSubmitted", at, err)
		}
	}

	fresh := mustReduce(t, s, Action{Type: ActionRestart})
	if fresh.Phase != PhaseInProgress || fresh.AnsweredCount() != 0 || fresh.Current != 0 {
		t.Errorf("restart must reset fully, got %+v", fresh)
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s, _ := New(2)

	next := mustReduce(t, s, Action{Type: ActionSelectAnswer, Index: 1})
	if s.Entries[0].Selected != nil {
		t.Error("input state was mutated")
	}
	if next.Entries[0].Selected == nil {
		t.Error("result state missing the answer")
	}
}

func TestUnknownAction(t *testing.T) {
	s, _ := New(1)
	if _, err := Reduce(s, Action{Type: "fly_to_the_moon"}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("err = %v, want ErrUnknownAction", err)
	}
}

func TestSelectAnswerNegativeIndex(t *testing.T) {
	s, _ := New(1)
	if _, err := Reduce(s, Action{Type: ActionSelectAnswer, Index: -1}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("err = %v, want ErrOutOfRange", err)
	}
}
