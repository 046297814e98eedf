// internal/game/session.go
//
// Session state for one play-through.
// Responsibilities:
//   - Own the secret for the lifetime of the session.
//   - Track the attempt counter (starts at 1) and the remaining budget (starts at 4).
//   - Delegate each attempt to EvaluateRule and record it.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Submit is serialized by a per-session mutex; concurrent callers queue up
//     instead of interleaving counter updates.
//   - Invalid guesses are rejected before any counter moves.

package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Attempt is one evaluated submission.
type Attempt struct {
	Number int      `json:"number"`
	Guess  []string `json:"guess"` // as scored: trimmed, ASCII letters upper-cased
	Marks  Feedback `json:"marks"`
}

// Session holds the state of a single game. Exported fields are the persisted
// shape; read them through Snapshot while the session may be in use.
type Session struct {
	mu sync.Mutex

	ID         string     `json:"id"`
	Secret     Secret     `json:"secret"`
	Rule       Rule       `json:"rule"`
	Daily      string     `json:"daily,omitempty"` // date key for daily sessions
	Attempt    int        `json:"attempt"`         // number of the next attempt
	Remaining  int        `json:"remaining"`
	State      State      `json:"state"`
	History    []Attempt  `json:"history"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Result is what Submit reports back for one attempt.
type Result struct {
	Attempt   int      `json:"attempt"` // number of the attempt just evaluated
	Marks     Feedback `json:"marks"`
	Tally     Tally    `json:"tally"`
	State     State    `json:"state"`
	Remaining int      `json:"remaining"`
}

// NewSession constructs a playing session around secret.
// An empty rule means RuleMembership.
func NewSession(secret Secret, rule Rule) (*Session, error) {
	if err := secret.Validate(); err != nil {
		return nil, err
	}
	if rule == "" {
		rule = RuleMembership
	}
	if rule != RuleMembership && rule != RuleClassic {
		return nil, fmt.Errorf("%w: unknown rule %q", ErrInvalidInput, rule)
	}
	return &Session{
		ID:        uuid.NewString(),
		Secret:    secret,
		Rule:      rule,
		Attempt:   1,
		Remaining: MaxAttempts,
		State:     StatePlaying,
		History:   []Attempt{},
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Submit evaluates guess, records it and advances the counters.
//
// Errors:
//   - ErrSessionOver once the session is won or lost.
//   - ErrInvalidInput for a malformed guess; no attempt is consumed.
func (s *Session) Submit(guess Guess) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.Terminal() || s.Remaining <= 0 {
		return Result{}, fmt.Errorf("%w: session %s is %s", ErrSessionOver, s.ID, s.State)
	}

	scored, marks, err := evaluate(s.Rule, s.Secret, guess)
	if err != nil {
		return Result{}, err
	}

	recorded := make([]string, Size)
	for i, c := range scored {
		recorded[i] = string(c)
	}
	number := s.Attempt
	s.History = append(s.History, Attempt{Number: number, Guess: recorded, Marks: marks})
	s.Attempt++
	s.Remaining--

	if marks.Solved() {
		s.finish(StateWon)
	} else if s.Remaining == 0 {
		s.finish(StateLost)
	}

	return Result{
		Attempt:   number,
		Marks:     marks,
		Tally:     marks.Tally(),
		State:     s.State,
		Remaining: s.Remaining,
	}, nil
}

func (s *Session) finish(st State) {
	now := time.Now().UTC()
	s.State = st
	s.FinishedAt = &now
}

// Snapshot is a consistent copy of a session, safe to read without locking.
type Snapshot struct {
	ID          string     `json:"gameId"`
	Rule        Rule       `json:"rule"`
	Daily       string     `json:"date,omitempty"`
	Attempt     int        `json:"attempt"`
	Remaining   int        `json:"remaining"`
	MaxAttempts int        `json:"maxAttempts"`
	State       State      `json:"state"`
	History     []Attempt  `json:"history"`
	Secret      Secret     `json:"secret,omitempty"` // only once terminal
	CreatedAt   time.Time  `json:"createdAt"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
}

// Snapshot copies the session. The secret is included only when the session is over.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.ID,
		Rule:        s.Rule,
		Daily:       s.Daily,
		Attempt:     s.Attempt,
		Remaining:   s.Remaining,
		MaxAttempts: MaxAttempts,
		State:       s.State,
		History:     append([]Attempt(nil), s.History...),
		CreatedAt:   s.CreatedAt,
		FinishedAt:  s.FinishedAt,
	}
	if s.State.Terminal() {
		snap.Secret = s.Secret
	}
	return snap
}
