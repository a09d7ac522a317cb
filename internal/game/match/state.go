// Package match implements the match state machine: starting a match,
// applying intents as pure transitions, and replaying recorded event logs.
//
// # Purity
//
// ApplyIntent never mutates its input. It deep-clones the state, applies the
// intent to the clone and returns it together with the events it produced.
// Rejected intents return the input pointer and no events. All randomness
// is drawn from GameState.RNGSeed and the advanced seed is written back.
package match

import (
	"slices"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/combat"
	"github.com/tactica/tactica-core/internal/game/effects"
	"github.com/tactica/tactica-core/internal/game/reaction"
	"github.com/tactica/tactica-core/internal/game/rules"
	"github.com/tactica/tactica-core/internal/game/terrain"
)

// StoredCard is a card kept by a player for later play.
type StoredCard struct {
	Owner  board.Player `json:"owner"`
	CardID string       `json:"cardId"`
}

// MoveRecord is the most recent move of the current turn.
type MoveRecord struct {
	UnitID string     `json:"unitId"`
	From   board.Cell `json:"from"`
	To     board.Cell `json:"to"`
}

// GameState is the single source of truth of a match. Treat values as
// immutable; use Clone before changing anything.
type GameState struct {
	Seed   uint32 `json:"seed"`
	Config Config `json:"config"`

	Phase          rules.Phase  `json:"phase"`
	ActivePlayer   board.Player `json:"activePlayer"`
	Turn           int          `json:"turn"`
	Width          int          `json:"width"`
	Height         int          `json:"height"`
	Units          []board.Unit `json:"units"`
	MovesRemaining int          `json:"movesRemaining"`

	Terrain terrain.Terrain `json:"terrain"`

	CommonDeck      []string     `json:"commonDeck"`
	TacticalDeck    []string     `json:"tacticalDeck"`
	SelectedTactics []string     `json:"selectedTactics"`
	Discard         []string     `json:"discard"`
	PendingCard     string       `json:"pendingCard,omitempty"`
	StoredBonuses   []StoredCard `json:"storedBonuses"`

	PendingAttack *combat.Attack     `json:"pendingAttack,omitempty"`
	LastRoll      *combat.RollResult `json:"lastRoll,omitempty"`
	LastMove      *MoveRecord        `json:"lastMove,omitempty"`

	ActiveEffects []effects.Effect `json:"activeEffects"`
	NextEffectID  int              `json:"nextEffectId"`
	RNGSeed       uint32           `json:"rngSeed"`

	Winner *board.Player `json:"winner,omitempty"`
	Log    []string      `json:"log"`
}

// Clone returns a deep copy of s.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.Config = s.Config.Clone()
	out.Units = slices.Clone(s.Units)
	out.Terrain = s.Terrain.Clone()
	out.CommonDeck = slices.Clone(s.CommonDeck)
	out.TacticalDeck = slices.Clone(s.TacticalDeck)
	out.SelectedTactics = slices.Clone(s.SelectedTactics)
	out.Discard = slices.Clone(s.Discard)
	out.StoredBonuses = slices.Clone(s.StoredBonuses)
	out.ActiveEffects = effects.CloneAll(s.ActiveEffects)
	out.Log = slices.Clone(s.Log)
	if s.PendingAttack != nil {
		v := *s.PendingAttack
		out.PendingAttack = &v
	}
	if s.LastRoll != nil {
		v := *s.LastRoll
		out.LastRoll = &v
	}
	if s.LastMove != nil {
		v := *s.LastMove
		out.LastMove = &v
	}
	if s.Winner != nil {
		v := *s.Winner
		out.Winner = &v
	}
	return &out
}

// Rolled reports whether the pending attack already has a roll.
func (s *GameState) Rolled() bool {
	return s.PendingAttack != nil && s.LastRoll != nil
}

// StoredBy returns the cards p has stored, in storage order.
func (s *GameState) StoredBy(p board.Player) []string {
	var out []string
	for _, c := range s.StoredBonuses {
		if c.Owner == p {
			out = append(out, c.CardID)
		}
	}
	return out
}

func (s *GameState) effectContext() effects.Context {
	return effects.Context{Phase: s.Phase, ActivePlayer: s.ActivePlayer, Turn: s.Turn}
}

func (s *GameState) field() combat.Field {
	return combat.Field{
		Width:   s.Width,
		Height:  s.Height,
		Units:   s.Units,
		Effects: s.ActiveEffects,
		Context: s.effectContext(),
	}
}

func (s *GameState) reactionView() reaction.View {
	return reaction.View{
		Phase:         s.Phase,
		PendingAttack: s.PendingAttack != nil,
		Rolled:        s.Rolled(),
		MovedThisTurn: s.LastMove != nil,
	}
}

func (s *GameState) pending() rules.Pending {
	return rules.Pending{Card: s.PendingCard != "", Attack: s.PendingAttack != nil}
}

// takeStored removes the first card cardID stored by owner.
func (s *GameState) takeStored(owner board.Player, cardID string) bool {
	for i, c := range s.StoredBonuses {
		if c.Owner == owner && c.CardID == cardID {
			s.StoredBonuses = slices.Delete(s.StoredBonuses, i, i+1)
			return true
		}
	}
	return false
}

func (s *GameState) hasStored(owner board.Player, cardID string) bool {
	return slices.Contains(s.StoredBonuses, StoredCard{Owner: owner, CardID: cardID})
}
