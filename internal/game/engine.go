// Package game hosts matches for a runtime: it owns the current state and
// event log of each match, fans events out to subscribers and offers replay,
// verification and terrain previews on top of the pure match package.
package game

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tactica/tactica-core/internal/game/match"
	"github.com/tactica/tactica-core/internal/game/terrain"
)

var (
	// ErrMatchNotFound is returned for an unknown match id.
	ErrMatchNotFound = stderrors.New("match not found")
	// ErrIntentRejected is returned when the match ignores an intent.
	ErrIntentRejected = stderrors.New("intent rejected")
)

// matchNamespace scopes the name-based match ids.
var matchNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("tactica:match"))

type session struct {
	id     string
	state  *match.GameState
	events []match.Event
}

// Engine manages concurrently running matches.
type Engine struct {
	logger *zap.Logger
	bus    *EventBus

	mu      sync.RWMutex
	matches map[string]*session
	started uint64

	previewMu sync.Mutex
	worker    *terrain.Worker
	cancel    context.CancelFunc
}

// NewEngine creates an engine and starts its terrain worker.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	worker := terrain.NewWorker(logger.Named("terrain"))
	worker.Start(ctx)
	return &Engine{
		logger:  logger,
		bus:     NewEventBus(),
		matches: make(map[string]*session),
		worker:  worker,
		cancel:  cancel,
	}
}

// Close stops the terrain worker.
func (e *Engine) Close() {
	e.cancel()
	<-e.worker.Done()
}

// Events returns the bus match events are published on.
func (e *Engine) Events() *EventBus {
	return e.bus
}

// StartMatch creates a match and returns its id. Ids are derived from the
// seed and the engine's start counter.
func (e *Engine) StartMatch(opts match.Options) (string, *match.GameState, error) {
	state, err := match.StartMatch(opts)
	if err != nil {
		e.logger.Warn("match rejected", zap.Error(err))
		return "", nil, err
	}
	started := match.MatchStarted(state)

	e.mu.Lock()
	e.started++
	id := uuid.NewSHA1(matchNamespace, []byte(fmt.Sprintf("%d/%d", state.Seed, e.started))).String()
	e.matches[id] = &session{id: id, state: state, events: []match.Event{started}}
	e.mu.Unlock()

	e.logger.Info("match started",
		zap.String("match_id", id),
		zap.Uint32("seed", state.Seed),
		zap.Int("units", len(state.Units)),
	)
	e.bus.Publish(id, started)
	return id, state, nil
}

// Apply submits an intent to a match. Rejected intents leave the match
// untouched and return ErrIntentRejected.
func (e *Engine) Apply(matchID string, intent match.Intent) (match.Result, error) {
	e.mu.Lock()
	s, ok := e.matches[matchID]
	if !ok {
		e.mu.Unlock()
		return match.Result{}, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	res := match.ApplyIntent(s.state, intent)
	if res.Accepted() {
		s.state = res.Next
		s.events = append(s.events, res.Events...)
	}
	e.mu.Unlock()

	if !res.Accepted() {
		e.logger.Debug("intent rejected",
			zap.String("match_id", matchID),
			zap.String("intent", string(intent.Type)),
			zap.String("phase", res.Next.Phase.String()),
		)
		return res, ErrIntentRejected
	}

	e.logger.Debug("intent applied",
		zap.String("match_id", matchID),
		zap.String("intent", string(intent.Type)),
		zap.Int("events", len(res.Events)),
	)
	for _, ev := range res.Events {
		if ev.Type == match.EventVictory {
			e.logger.Info("match won",
				zap.String("match_id", matchID),
				zap.String("winner", string(ev.PlayerID)),
				zap.Int("turn", res.Next.Turn),
			)
		}
	}
	e.bus.PublishBatch(matchID, res.Events)
	return res, nil
}

// State returns the current state of a match.
func (e *Engine) State(matchID string) (*match.GameState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return s.state, nil
}

// Log returns a copy of the event log of a match.
func (e *Engine) Log(matchID string) ([]match.Event, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	out := make([]match.Event, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Clone()
	}
	return out, nil
}

// Checksum returns the state checksum of a match.
func (e *Engine) Checksum(matchID string) (string, error) {
	state, err := e.State(matchID)
	if err != nil {
		return "", err
	}
	return match.Checksum(state)
}

// Verify replays the event log of a match and checks it reproduces the
// current state.
func (e *Engine) Verify(matchID string) error {
	e.mu.RLock()
	s, ok := e.matches[matchID]
	if !ok {
		e.mu.RUnlock()
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	state := s.state
	events := slices.Clone(s.events)
	e.mu.RUnlock()

	if err := match.VerifyReplay(state, match.ReplayInput{Events: events}); err != nil {
		e.logger.Error("replay verification failed", zap.String("match_id", matchID), zap.Error(err))
		return err
	}
	return nil
}

// Timeline rebuilds the state history of a match from its log.
func (e *Engine) Timeline(matchID string) (*Timeline, error) {
	events, err := e.Log(matchID)
	if err != nil {
		return nil, err
	}
	return BuildTimeline(matchID, events)
}

// EndMatch removes a match.
func (e *Engine) EndMatch(matchID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.matches, matchID)
	e.logger.Info("match ended", zap.String("match_id", matchID))
}

// MatchIDs returns the ids of all hosted matches, sorted.
func (e *Engine) MatchIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := make([]string, 0, len(e.matches))
	for id := range e.matches {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ActiveCount returns how many hosted matches have no winner yet.
func (e *Engine) ActiveCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	count := 0
	for _, s := range e.matches {
		if s.state.Winner == nil {
			count++
		}
	}
	return count
}

// PreviewTerrain generates a map on the terrain worker without touching any
// match. Previews are serialized because the worker takes one request at a
// time.
func (e *Engine) PreviewTerrain(ctx context.Context, width, height int, seed uint32, params terrain.Params) (terrain.Terrain, error) {
	e.previewMu.Lock()
	defer e.previewMu.Unlock()

	req := terrain.NewRequest(width, height, seed, params)
	nets, err := e.worker.Generate(ctx, req)
	if err != nil {
		return terrain.Terrain{}, err
	}
	return terrain.FromNetworks(req, nets), nil
}
