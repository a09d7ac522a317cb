package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/cards"
	"github.com/tactica/tactica-core/internal/game/rules"
)

func seedPtr(v uint32) *uint32 { return &v }

func newMatch(t *testing.T, seed uint32, o *Overrides) *GameState {
	t.Helper()
	s, err := StartMatch(Options{Seed: seedPtr(seed), Config: o})
	require.NoError(t, err)
	return s
}

// recorder applies intents and keeps the event log like a runtime would.
type recorder struct {
	t      *testing.T
	state  *GameState
	events []Event
}

func newRecorder(t *testing.T, seed uint32, o *Overrides) *recorder {
	s := newMatch(t, seed, o)
	return &recorder{t: t, state: s, events: []Event{MatchStarted(s)}}
}

func (r *recorder) apply(in Intent) []Event {
	r.t.Helper()
	res := ApplyIntent(r.state, in)
	require.True(r.t, res.Accepted(), "intent %s rejected in phase %s", in.Type, r.state.Phase)
	r.state = res.Next
	r.events = append(r.events, res.Events...)
	return res.Events
}

func (r *recorder) advanceTo(p rules.Phase) {
	r.t.Helper()
	for i := 0; r.state.Phase != p; i++ {
		require.Less(r.t, i, 20, "never reached %s", p)
		r.apply(NextPhase())
	}
}

// settlePending declines the pending card, or plays it when it is a malus,
// targeting the active player's last listed units.
func (r *recorder) settlePending() {
	r.t.Helper()
	def, ok := catalog.Lookup(r.state.PendingCard)
	require.True(r.t, ok, "no pending card")
	if def.Kind != cards.KindMalus {
		r.apply(NextPhase())
		return
	}
	var targets []string
	for i := len(r.state.Units) - 1; i >= 0 && len(targets) < def.Targeting.Count; i-- {
		if u := r.state.Units[i]; u.Owner == r.state.ActivePlayer {
			targets = append(targets, u.ID)
		}
	}
	r.apply(PlayCard(def.ID, targets...))
}

func assertRejected(t *testing.T, s *GameState, in Intent) {
	t.Helper()
	res := ApplyIntent(s, in)
	assert.Same(t, s, res.Next, "intent %s should be a no-op", in.Type)
	assert.Nil(t, res.Events)
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func unitPos(t *testing.T, s *GameState, id string) board.Cell {
	t.Helper()
	u, idx := board.FindUnit(s.Units, id)
	require.GreaterOrEqual(t, idx, 0, "unit %s missing", id)
	return u.Pos
}

func allTypes(v int) map[board.UnitType]int {
	return map[board.UnitType]int{board.UnitInfantry: v, board.UnitVehicle: v, board.UnitSpecial: v}
}
