// Package attempt implements the quiz-taking state machine as a reducer over
// tagged actions. State values are updated immutably: Reduce returns a new
// State and never mutates its input, so a caller can keep snapshots safely.
package attempt

import "errors"

// Reducer errors.
var (
	ErrNoQuestions   = errors.New("attempt requires at least one question")
	ErrOutOfRange    = errors.New("index out of range")
	ErrUnanswered    = errors.New("answer all questions before submitting")
	ErrSubmitted     = errors.New("attempt already submitted")
	ErrUnknownAction = errors.New("unknown action")
)

// ActionType tags an attempt action.
type ActionType string

const (
	ActionSelectAnswer ActionType = "select_answer"
	ActionSkip         ActionType = "skip"
	ActionNext         ActionType = "next"
	ActionPrevious     ActionType = "previous"
	ActionJumpTo       ActionType = "jump_to"
	ActionToggleReview ActionType = "toggle_review"
	ActionSubmit       ActionType = "submit"
	ActionRestart      ActionType = "restart"
)

// Action is one interaction event. Index carries the chosen option for
// select_answer and the target question for jump_to; it is ignored otherwise.
type Action struct {
	Type  ActionType `json:"action"`
	Index int        `json:"index"`
}

// Phase is the top-level attempt state.
type Phase string

const (
	PhaseInProgress Phase = "IN_PROGRESS"
	PhaseSubmitted  Phase = "SUBMITTED"
)

// Entry tracks one question's sub-state. Selected and Skipped are strictly
// exclusive: recording an answer clears the skip flag, and skipping an
// answered question leaves the answer in place. Marked is orthogonal.
type Entry struct {
	Selected *int `json:"selected,omitempty"`
	Skipped  bool `json:"skipped"`
	Marked   bool `json:"marked"`
}

// State is one in-flight quiz attempt.
type State struct {
	Phase   Phase   `json:"phase"`
	Current int     `json:"current"`
	Entries []Entry `json:"entries"`
}

// New starts an attempt over n questions: every entry unanswered and
// unmarked, cursor at question zero.
func New(n int) (State, error) {
	if n <= 0 {
		return State{}, ErrNoQuestions
	}
	return State{
		Phase:   PhaseInProgress,
		Current: 0,
		Entries: make([]Entry, n),
	}, nil
}

// Reduce applies one action and returns the resulting state. The input state
// is never modified. After submission only a restart is accepted.
func Reduce(s State, a Action) (State, error) {
	if a.Type == ActionRestart {
		return New(len(s.Entries))
	}
	if s.Phase == PhaseSubmitted {
		return s, ErrSubmitted
	}

	switch a.Type {
	case ActionSelectAnswer:
		if a.Index < 0 {
			return s, ErrOutOfRange
		}
		next := cloneState(s)
		selected := a.Index
		next.Entries[s.Current].Selected = &selected
		next.Entries[s.Current].Skipped = false
		return next, nil

	case ActionSkip:
		next := cloneState(s)
		if next.Entries[s.Current].Selected == nil {
			next.Entries[s.Current].Skipped = true
		}
		next.Current = clampIndex(s.Current+1, len(s.Entries))
		return next, nil

	case ActionNext:
		next := cloneState(s)
		next.Current = clampIndex(s.Current+1, len(s.Entries))
		return next, nil

	case ActionPrevious:
		next := cloneState(s)
		next.Current = clampIndex(s.Current-1, len(s.Entries))
		return next, nil

	case ActionJumpTo:
		if a.Index < 0 || a.Index >= len(s.Entries) {
			return s, ErrOutOfRange
		}
		next := cloneState(s)
		next.Current = a.Index
		return next, nil

	case ActionToggleReview:
		next := cloneState(s)
		next.Entries[s.Current].Marked = !next.Entries[s.Current].Marked
		return next, nil

	case ActionSubmit:
		for _, e := range s.Entries {
			if e.Selected == nil {
				return s, ErrUnanswered
			}
		}
		next := cloneState(s)
		next.Phase = PhaseSubmitted
		return next, nil

	default:
		return s, ErrUnknownAction
	}
}

// Answers returns the full answer vector, one selected option index per
// question in order. Fails if any question is unanswered.
func (s State) Answers() ([]int, error) {
	answers := make([]int, len(s.Entries))
	for i, e := range s.Entries {
		if e.Selected == nil {
			return nil, ErrUnanswered
		}
		answers[i] = *e.Selected
	}
	return answers, nil
}

// AnsweredCount reports how many questions have a recorded answer.
func (s State) AnsweredCount() int {
	n := 0
	for _, e := range s.Entries {
		if e.Selected != nil {
			n++
		}
	}
	return n
}

func cloneState(s State) State {
	entries := make([]Entry, len(s.Entries))
	copy(entries, s.Entries)
	return State{Phase: s.Phase, Current: s.Current, Entries: entries}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
