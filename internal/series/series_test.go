package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tactica/tactica-core/internal/game/board"
	"go.uber.org/zap/zaptest"
)

func TestSeriesLifecycle(t *testing.T) {
	s := NewSeries("soak", 10, 3)
	assert.Equal(t, StateWaiting, s.State)
	assert.Equal(t, []uint32{10, 11, 12}, s.Seeds())
	assert.Error(t, s.Record(Result{Seed: 10}), "not started")

	require.NoError(t, s.Start())
	assert.Error(t, s.Start())

	require.NoError(t, s.Record(Result{Seed: 11, Winner: board.PlayerB, Verified: true}))
	require.NoError(t, s.Record(Result{Seed: 10, Winner: board.PlayerA, Verified: true}))
	assert.Error(t, s.Record(Result{Seed: 10, Winner: board.PlayerA}), "duplicate")
	assert.Error(t, s.Record(Result{Seed: 13, Winner: board.PlayerA}), "out of range")
	assert.Equal(t, StateInProgress, s.State)

	require.NoError(t, s.Record(Result{Seed: 12, Winner: board.PlayerA}))
	snap := s.Snapshot()
	assert.Equal(t, StateFinished, snap.State)
	assert.Equal(t, "FINISHED", snap.State.String())
	require.NotNil(t, snap.EndTime)
	assert.Equal(t, []uint32{10, 11, 12}, []uint32{snap.Results[0].Seed, snap.Results[1].Seed, snap.Results[2].Seed})
	assert.Equal(t, 1, snap.Unverified)
	assert.Equal(t, []Standing{
		{Player: board.PlayerA, Wins: 2, Losses: 1, Points: 6},
		{Player: board.PlayerB, Wins: 1, Losses: 2, Points: 3},
	}, snap.Standings)
}

func TestSeriesIDsAreDeterministic(t *testing.T) {
	assert.Equal(t, NewSeries("a", 1, 4).ID, NewSeries("a", 1, 4).ID)
	assert.NotEqual(t, NewSeries("a", 1, 4).ID, NewSeries("a", 2, 4).ID)
}

func TestEmptySeriesCannotStart(t *testing.T) {
	assert.Error(t, NewSeries("empty", 1, 0).Start())
}

func TestManager(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))
	s := m.CreateSeries("soak", 1, 1)

	got, ok := m.GetSeries(s.ID)
	require.True(t, ok)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.GetActiveSeriesCount())

	require.NoError(t, s.Start())
	require.NoError(t, s.Record(Result{Seed: 1, Winner: board.PlayerA}))
	assert.Equal(t, 0, m.GetActiveSeriesCount())

	m.RemoveSeries(s.ID)
	_, ok = m.GetSeries(s.ID)
	assert.False(t, ok)
}
