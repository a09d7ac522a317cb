package game

import (
	"sync"

	"github.com/tactica/tactica-core/internal/errors"
	"github.com/tactica/tactica-core/internal/game/match"
)

// Timeline is a recorded match as a list of state snapshots, one per
// accepted intent, with a playback cursor.
type Timeline struct {
	MatchID      string
	States       []*match.GameState
	CurrentIndex int
	mu           sync.RWMutex
}

// NewTimeline creates an empty timeline.
func NewTimeline(matchID string) *Timeline {
	return &Timeline{
		MatchID: matchID,
		States:  make([]*match.GameState, 0),
	}
}

// BuildTimeline replays events and records every intermediate state. The
// log must start with match_started.
func BuildTimeline(matchID string, events []match.Event) (*Timeline, error) {
	tl := NewTimeline(matchID)
	var started []match.Event
	for _, e := range events {
		if e.Type == match.EventMatchStarted {
			started = append(started, e)
			break
		}
	}
	state, err := match.ReplayMatchFromEvents(match.ReplayInput{Events: started})
	if err != nil {
		return nil, err
	}
	tl.Record(state)
	for i, e := range events {
		if e.Type != match.EventIntentApplied {
			continue
		}
		if e.Intent == nil {
			return nil, errors.Invariant(errors.CodeReplayMismatch, "event %d carries no intent", i)
		}
		res := match.ApplyIntent(state, *e.Intent)
		if !res.Accepted() {
			return nil, errors.Invariant(errors.CodeReplayMismatch, "event %d: %s rejected", i, e.Intent.Type)
		}
		state = res.Next
		tl.Record(state)
	}
	return tl, nil
}

// Record appends a snapshot. States are immutable once recorded, so the
// pointer is stored as is.
func (t *Timeline) Record(state *match.GameState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.States = append(t.States, state)
}

// Start rewinds the cursor and returns the first state.
func (t *Timeline) Start() *match.GameState {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.CurrentIndex = 0
	if len(t.States) == 0 {
		return nil
	}
	return t.States[0]
}

// Current returns the state under the cursor.
func (t *Timeline) Current() *match.GameState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.CurrentIndex < len(t.States) {
		return t.States[t.CurrentIndex]
	}
	return nil
}

// Next advances the cursor and returns the new state, or nil at the end.
func (t *Timeline) Next() *match.GameState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.CurrentIndex+1 < len(t.States) {
		t.CurrentIndex++
		return t.States[t.CurrentIndex]
	}
	return nil
}

// Previous moves the cursor back and returns the new state, or nil at the start.
func (t *Timeline) Previous() *match.GameState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.CurrentIndex > 0 {
		t.CurrentIndex--
		return t.States[t.CurrentIndex]
	}
	return nil
}

// Skip moves the cursor by count, clamped to the recorded range.
func (t *Timeline) Skip(count int) *match.GameState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.States) == 0 {
		return nil
	}
	idx := t.CurrentIndex + count
	if idx >= len(t.States) {
		idx = len(t.States) - 1
	}
	if idx < 0 {
		idx = 0
	}
	t.CurrentIndex = idx
	return t.States[idx]
}

// Size returns the number of recorded states.
func (t *Timeline) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.States)
}

// GetStateAt returns the state at index, or nil when out of range.
func (t *Timeline) GetStateAt(index int) *match.GameState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if index >= 0 && index < len(t.States) {
		return t.States[index]
	}
	return nil
}

// Last returns the most recent state.
func (t *Timeline) Last() *match.GameState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.States) == 0 {
		return nil
	}
	return t.States[len(t.States)-1]
}
