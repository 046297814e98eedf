package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, secret Secret, rule Rule) *Session {
	t.Helper()
	s, err := NewSession(secret, rule)
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t, "ABCD", "")
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, RuleMembership, s.Rule)
	assert.Equal(t, 1, s.Attempt)
	assert.Equal(t, MaxAttempts, s.Remaining)
	assert.Equal(t, StatePlaying, s.State)
	assert.Empty(t, s.History)
}

func TestNewSession_Rejects(t *testing.T) {
	_, err := NewSession("ABC", RuleMembership)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewSession("ABCD", "fuzzy")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSession_WinOnSecondAttempt(t *testing.T) {
	s := newTestSession(t, "ABCD", RuleMembership)

	res, err := s.Submit(Guess{"A", "Y", "C", "W"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempt)
	assert.Equal(t, Feedback{E, A, E, A}, res.Marks)
	assert.Equal(t, Tally{Exact: 2, Absent: 2}, res.Tally)
	assert.Equal(t, StatePlaying, res.State)
	assert.Equal(t, 3, res.Remaining)

	res, err = s.Submit(Guess{"a", "b", "c", "d"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempt)
	assert.Equal(t, StateWon, res.State)
	assert.Equal(t, 2, res.Remaining)
	assert.NotNil(t, s.FinishedAt)

	_, err = s.Submit(Guess{"A", "B", "C", "D"})
	assert.ErrorIs(t, err, ErrSessionOver)
	assert.Equal(t, 3, s.Attempt)
	assert.Len(t, s.History, 2)
}

func TestSession_LostAfterFourAttempts(t *testing.T) {
	s := newTestSession(t, "ABCD", RuleMembership)
	for i := 1; i <= MaxAttempts; i++ {
		res, err := s.Submit(Guess{"X", "Y", "Z", "W"})
		require.NoError(t, err)
		assert.Equal(t, i, res.Attempt)
		assert.Equal(t, MaxAttempts-i, res.Remaining)
		if i < MaxAttempts {
			assert.Equal(t, StatePlaying, res.State)
		} else {
			assert.Equal(t, StateLost, res.State)
		}
	}

	_, err := s.Submit(Guess{"A", "B", "C", "D"})
	assert.ErrorIs(t, err, ErrSessionOver)
}

func TestSession_WinOnLastAttempt(t *testing.T) {
	s := newTestSession(t, "ABCD", RuleMembership)
	for i := 0; i < MaxAttempts-1; i++ {
		_, err := s.Submit(Guess{"X", "Y", "Z", "W"})
		require.NoError(t, err)
	}
	res, err := s.Submit(Guess{"A", "B", "C", "D"})
	require.NoError(t, err)
	assert.Equal(t, StateWon, res.State)
	assert.Equal(t, 0, res.Remaining)
}

func TestSession_InvalidGuessConsumesNothing(t *testing.T) {
	s := newTestSession(t, "ABCD", RuleMembership)
	_, err := s.Submit(Guess{"A", "", "C", "D"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 1, s.Attempt)
	assert.Equal(t, MaxAttempts, s.Remaining)
	assert.Empty(t, s.History)
}

func TestSession_ClassicRule(t *testing.T) {
	s := newTestSession(t, "ABCD", RuleClassic)
	res, err := s.Submit(Guess{"B", "B", "B", "B"})
	require.NoError(t, err)
	assert.Equal(t, Feedback{A, E, A, A}, res.Marks)
}

func TestSession_Snapshot(t *testing.T) {
	s := newTestSession(t, "ABCD", RuleMembership)
	_, err := s.Submit(Guess{"d", "c", "b", "a"})
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, s.ID, snap.ID)
	assert.Equal(t, 2, snap.Attempt)
	assert.Equal(t, MaxAttempts, snap.MaxAttempts)
	assert.Empty(t, snap.Secret, "secret hidden while playing")
	require.Len(t, snap.History, 1)
	assert.Equal(t, []string{"D", "C", "B", "A"}, snap.History[0].Guess)

	_, err = s.Submit(Guess{"A", "B", "C", "D"})
	require.NoError(t, err)
	assert.Equal(t, Secret("ABCD"), s.Snapshot().Secret)
	assert.Len(t, snap.History, 1, "earlier snapshot is unaffected")
}

func TestSession_HistoryRecordsScoredGuess(t *testing.T) {
	s := newTestSession(t, "ABID", RuleMembership)
	res, err := s.Submit(Guess{" a", "b ", "ı", "é"})
	require.NoError(t, err)
	assert.Equal(t, Feedback{E, E, A, A}, res.Marks)
	assert.Equal(t, StatePlaying, res.State)

	require.Len(t, s.History, 1)
	assert.Equal(t, []string{"A", "B", "ı", "é"}, s.History[0].Guess)
}

func TestSession_ConcurrentSubmitsAreSerialized(t *testing.T) {
	s := newTestSession(t, "ABCD", RuleMembership)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted []int
		rejected int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Submit(Guess{"X", "Y", "Z", "W"})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ErrSessionOver)
				rejected++
				return
			}
			accepted = append(accepted, res.Attempt)
		}()
	}
	wg.Wait()

	assert.Len(t, accepted, MaxAttempts)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, accepted)
	assert.Equal(t, 16-MaxAttempts, rejected)
	assert.Equal(t, StateLost, s.Snapshot().State)
}
