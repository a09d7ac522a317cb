package match

import (
	"fmt"

	"github.com/tactica/tactica-core/internal/errors"
	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/cards"
	"github.com/tactica/tactica-core/internal/game/rng"
	"github.com/tactica/tactica-core/internal/game/rules"
	"github.com/tactica/tactica-core/internal/game/terrain"
)

// catalog is the card catalog every match plays with.
var catalog = cards.DefaultCatalog()

// Catalog returns the card catalog matches use.
func Catalog() *cards.Catalog {
	return catalog
}

// Options configure StartMatch.
type Options struct {
	Seed   *uint32
	Config *Overrides
}

// Result is the outcome of ApplyIntent.
type Result struct {
	Next   *GameState
	Events []Event
}

// Accepted reports whether the intent changed anything.
func (r Result) Accepted() bool {
	return len(r.Events) > 0
}

// StartMatch builds the initial state: terrain, units and decks are all
// derived from the seed. The match opens in TURN_START with PLAYER_A.
func StartMatch(opts Options) (*GameState, error) {
	cfg, err := Resolve(opts.Config)
	if err != nil {
		return nil, err
	}
	seed := DefaultSeed
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	return start(seed, cfg)
}

// start builds a state from an already resolved config.
func start(seed uint32, cfg Config) (*GameState, error) {
	cfg = cfg.Clone()
	w, h := cfg.Board.Width, cfg.Board.Height

	terr, err := terrain.Build(terrain.NewRequest(w, h, seed, cfg.Terrain))
	if err != nil {
		return nil, err
	}
	units, err := deploy(cfg)
	if err != nil {
		return nil, err
	}

	next := rng.Seed(terr.NextSeed)
	common, err := cards.Build(catalog, cfg.CommonDeck)
	if err != nil {
		return nil, errors.Config(errors.CodeUnknownCard, "common deck").Wrap(err)
	}
	common, next = cards.Shuffle(next, common)
	tactical, err := cards.Build(catalog, cfg.TacticalDeck)
	if err != nil {
		return nil, errors.Config(errors.CodeUnknownCard, "tactical deck").Wrap(err)
	}
	tactical, next = cards.Shuffle(next, tactical)

	s := &GameState{
		Seed:            seed,
		Config:          cfg,
		Phase:           rules.PhaseTurnStart,
		ActivePlayer:    board.PlayerA,
		Turn:            1,
		Width:           w,
		Height:          h,
		Units:           units,
		MovesRemaining:  cfg.MovesPerTurn,
		Terrain:         terr,
		CommonDeck:      common,
		TacticalDeck:    tactical,
		SelectedTactics: append([]string(nil), cfg.SelectedTactics...),
		NextEffectID:    1,
		RNGSeed:         uint32(next),
	}
	s.Log = append(s.Log, MatchStarted(s).Describe())
	return s, nil
}

// deploy places each player's units on its home rows: PLAYER_A from the top
// edge down, PLAYER_B from the bottom edge up, left to right.
func deploy(cfg Config) ([]board.Unit, error) {
	w, h := cfg.Board.Width, cfg.Board.Height
	var units []board.Unit
	for _, owner := range []board.Player{board.PlayerA, board.PlayerB} {
		slot := 0
		for _, t := range board.UnitTypes {
			for n := 1; n <= cfg.UnitComposition[t]; n++ {
				row := slot / w
				if row >= h/2 {
					return nil, errors.Config(errors.CodeUnitOverflow, "no room for %s %s %d", owner, t, n)
				}
				pos := board.Cell{X: slot % w, Y: row}
				if owner == board.PlayerB {
					pos.Y = h - 1 - row
				}
				if _, taken := board.UnitAt(units, pos); taken {
					return nil, errors.Invariant(errors.CodeCellOccupied, "deployment cell %s already taken", pos)
				}
				units = append(units, board.Unit{
					ID:       unitID(owner, t, n),
					Owner:    owner,
					Type:     t,
					Pos:      pos,
					Movement: cfg.UnitMovementByType[t],
					Attack:   cfg.UnitAttackByType[t],
				})
				slot++
			}
		}
	}
	return units, nil
}

func unitID(owner board.Player, t board.UnitType, n int) string {
	side := "A"
	if owner == board.PlayerB {
		side = "B"
	}
	return fmt.Sprintf("%s-%s-%d", side, t, n)
}

// ApplyIntent applies intent to state and returns the next state and the
// events it produced. It never mutates state. Intents that are illegal in
// the current state return state itself and no events.
func ApplyIntent(state *GameState, intent Intent) Result {
	if state == nil {
		return Result{}
	}
	switch intent.Type {
	case IntentResetGame:
		return resetGame(state, intent)
	case IntentLoadState:
		return loadState(state, intent)
	}
	if state.Phase == rules.PhaseVictory {
		return Result{Next: state}
	}

	t := &transition{next: state.Clone(), intent: intent}
	t.events = append(t.events, IntentApplied(intent, state.Turn))

	var ok bool
	switch intent.Type {
	case IntentNextPhase:
		ok = t.nextPhase()
	case IntentTurnStart:
		ok = t.turnStart()
	case IntentEndTurn:
		ok = t.endTurnIntent()
	case IntentDrawCard:
		ok = t.drawCard()
	case IntentStoreBonus:
		ok = t.storeBonus()
	case IntentPlayCard:
		ok = t.playCard()
	case IntentMoveUnit:
		ok = t.moveUnit()
	case IntentAttackSelect:
		ok = t.attackSelect()
	case IntentRollDice:
		ok = t.rollDice()
	case IntentResolveAttack:
		ok = t.resolveAttack()
	case IntentRegenerateTerrain:
		ok = t.regenerateTerrain()
	}
	if !ok {
		return Result{Next: state}
	}
	return Result{Next: t.next, Events: t.events}
}

func resetGame(state *GameState, intent Intent) Result {
	seed := state.Seed
	if intent.Seed != nil {
		seed = *intent.Seed
	}
	next, err := start(seed, state.Config)
	if err != nil {
		return Result{Next: state}
	}
	reset := Event{Type: EventGameReset, Turn: next.Turn, Seed: &seed}
	next.Log = append(next.Log, reset.Describe())
	return Result{
		Next:   next,
		Events: []Event{IntentApplied(intent, state.Turn), reset},
	}
}

func loadState(state *GameState, intent Intent) Result {
	if intent.State == nil || intent.State.Validate() != nil {
		return Result{Next: state}
	}
	next := intent.State.Clone()
	loaded := Event{Type: EventStateLoaded, Turn: next.Turn, PlayerID: next.ActivePlayer, Data: next.Phase.String()}
	next.Log = append(next.Log, loaded.Describe())
	return Result{
		Next:   next,
		Events: []Event{IntentApplied(intent, state.Turn), loaded},
	}
}

// transition accumulates the changes of one ApplyIntent call on a private
// clone of the input state.
type transition struct {
	next   *GameState
	intent Intent
	events []Event
}

func (t *transition) emit(e Event) {
	e.Turn = t.next.Turn
	t.events = append(t.events, e)
	t.next.Log = append(t.next.Log, e.Describe())
}
