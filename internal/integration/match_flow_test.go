package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/tactica/tactica-core/internal/config"
	"github.com/tactica/tactica-core/internal/game"
	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/match"
	"github.com/tactica/tactica-core/internal/game/rules"
	"github.com/tactica/tactica-core/internal/game/script"
	"github.com/tactica/tactica-core/internal/game/watchers"
	"github.com/tactica/tactica-core/internal/series"
)

const settings = `
logging:
  level: debug
seed: 404
match:
  board:
    width: 9
    height: 7
  unitAttackByType:
    infantry: 99
    vehicle: 99
    special: 99
  terrain:
    roadDensity: 0.2
`

type matchEnv struct {
	cfg    *config.File
	engine *game.Engine
	lost   *watchers.UnitsLostWatcher
	cards  *watchers.CardsPlayedWatcher
	logger *zap.Logger
}

func newMatchEnv(t testing.TB) *matchEnv {
	logger := zaptest.NewLogger(t)

	path := filepath.Join(t.TempDir(), "tactica.yaml")
	require.NoError(t, os.WriteFile(path, []byte(settings), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)

	engine := game.NewEngine(logger)
	t.Cleanup(engine.Close)

	return &matchEnv{
		cfg:    cfg,
		engine: engine,
		lost:   watchers.NewUnitsLostWatcher(),
		cards:  watchers.NewCardsPlayedWatcher(),
		logger: logger,
	}
}

func (env *matchEnv) watch(t testing.TB, matchID string) {
	r := watchers.NewRegistry()
	r.Add(env.lost)
	r.Add(env.cards)
	handle := r.Attach(env.engine.Events(), matchID)
	t.Cleanup(func() { env.engine.Events().Unsubscribe(handle) })
}

func (env *matchEnv) play(t testing.TB, opts match.Options) (string, *match.GameState, int) {
	t.Helper()
	id, state, err := env.engine.StartMatch(opts)
	require.NoError(t, err)
	env.watch(t, id)

	apply := func(in match.Intent) (match.Result, bool) {
		res, err := env.engine.Apply(id, in)
		return res, err == nil
	}
	final, steps, err := script.Drive(context.Background(), state, apply, script.DefaultStepLimit)
	require.NoError(t, err)
	return id, final, steps
}

func TestConfiguredMatchPlaysToVictory(t *testing.T) {
	env := newMatchEnv(t)

	id, final, steps := env.play(t, env.cfg.Options())

	assert.Equal(t, uint32(404), final.Seed)
	assert.Equal(t, 9, final.Width)
	assert.Equal(t, 7, final.Height)
	assert.Equal(t, rules.PhaseVictory, final.Phase)
	require.NotNil(t, final.Winner)
	assert.Zero(t, board.CountOwned(final.Units, final.Winner.Opponent()))

	require.NoError(t, env.engine.Verify(id))

	// watchers saw exactly the units that left the board
	assert.Len(t, env.lost.GetUnitsLost(final.Winner.Opponent()), 5)
	assert.Equal(t, 10-len(final.Units), env.lost.GetTotalAmount())

	events, err := env.engine.Log(id)
	require.NoError(t, err)
	played := 0
	for _, ev := range events {
		if ev.Type == match.EventCardPlayed || ev.Type == match.EventReactionResolved {
			played++
		}
	}
	assert.Equal(t, played, len(env.cards.GetCardsPlayed(board.PlayerA))+len(env.cards.GetCardsPlayed(board.PlayerB)))

	tl, err := env.engine.Timeline(id)
	require.NoError(t, err)
	assert.Equal(t, steps+1, tl.Size())
	assert.Equal(t, rules.PhaseTurnStart, tl.Start().Phase)

	// walking the timeline never shows a unit count increase
	prev := len(tl.Current().Units)
	for s := tl.Next(); s != nil; s = tl.Next() {
		assert.LessOrEqual(t, len(s.Units), prev)
		prev = len(s.Units)
	}

	want, err := match.Checksum(final)
	require.NoError(t, err)
	got, err := match.Checksum(tl.Last())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLogReplaysOutsideEngine(t *testing.T) {
	env := newMatchEnv(t)
	id, final, _ := env.play(t, env.cfg.Options())

	events, err := env.engine.Log(id)
	require.NoError(t, err)
	env.engine.EndMatch(id)

	_, err = env.engine.State(id)
	assert.ErrorIs(t, err, game.ErrMatchNotFound)

	replayed, err := match.ReplayMatchFromEvents(match.ReplayInput{Events: events})
	require.NoError(t, err)
	assert.Equal(t, final, replayed)
}

func TestSeriesOverConfiguredMatches(t *testing.T) {
	env := newMatchEnv(t)
	mgr := series.NewManager(env.logger)
	s := mgr.CreateSeries("integration", 50, 3)
	require.NoError(t, s.Start())

	for _, seed := range s.Seeds() {
		opts := env.cfg.Options()
		opts.Seed = &seed
		id, final, steps := env.play(t, opts)

		sum, err := env.engine.Checksum(id)
		require.NoError(t, err)
		require.NoError(t, s.Record(series.Result{
			Seed:     seed,
			MatchID:  id,
			Winner:   *final.Winner,
			Turns:    final.Turn,
			Steps:    steps,
			Checksum: sum,
			Verified: env.engine.Verify(id) == nil,
		}))
	}

	snap := s.Snapshot()
	assert.Equal(t, series.StateFinished, snap.State)
	assert.Zero(t, snap.Unverified)
	assert.Equal(t, 9, snap.Standings[0].Points+snap.Standings[1].Points)
	assert.GreaterOrEqual(t, env.lost.GetTotalAmount(), 15)
	assert.Len(t, env.engine.MatchIDs(), 3)
	assert.Zero(t, env.engine.ActiveCount())
}
