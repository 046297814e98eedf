// internal/game/types.go
//
// Core type definitions for the code-breaker engine.
// Defines:
//   - Secret:   the hidden 4-letter target of one session.
//   - Guess:    one attempt, four single-character positions.
//   - Mark:     per-position result of an attempt (exact/misplaced/absent).
//   - Feedback: the four marks of one attempt, aligned with the guess.
//   - Tally:    per-category counts of a Feedback.

package game

import "errors"

// Size is the number of positions in a secret, a guess and its feedback.
const Size = 4

// MaxAttempts is the attempt budget of one session.
const MaxAttempts = 4

var (
	// ErrInvalidInput reports a secret or guess that breaks the 4-position contract.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSessionOver reports a submission against a won or lost session.
	ErrSessionOver = errors.New("game finished")
)

// Secret is the hidden target: exactly Size uppercase letters A–Z.
type Secret string

// Guess is one attempt as supplied by a client: Size single-character strings.
type Guess []string

// Mark represents the evaluation result for a single position of a guess.
// Possible values:
//   - "exact":     character is in the secret at this position.
//   - "misplaced": character is somewhere in the secret, not at this position.
//   - "absent":    neither of the above.
type Mark string

const (
	MarkExact     Mark = "exact"
	MarkMisplaced Mark = "misplaced"
	MarkAbsent    Mark = "absent"
)

// Feedback holds one Mark per guess position; Feedback[i] describes Guess[i].
type Feedback []Mark

// Solved reports whether every position is exact.
func (f Feedback) Solved() bool {
	if len(f) != Size {
		return false
	}
	for _, m := range f {
		if m != MarkExact {
			return false
		}
	}
	return true
}

// Tally counts each category of a Feedback.
type Tally struct {
	Exact     int `json:"exact"`
	Misplaced int `json:"misplaced"`
	Absent    int `json:"absent"`
}

// Tally returns the per-category counts.
func (f Feedback) Tally() Tally {
	var t Tally
	for _, m := range f {
		switch m {
		case MarkExact:
			t.Exact++
		case MarkMisplaced:
			t.Misplaced++
		case MarkAbsent:
			t.Absent++
		}
	}
	return t
}

// State is the coarse lifecycle of a session.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Terminal reports whether no further attempts are accepted.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }
