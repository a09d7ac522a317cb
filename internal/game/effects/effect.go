// Package effects implements live card effects and the ordered hook fold
// that lets them veto or adjust movement and combat.
//
// Effects are plain data records. Hook behavior is selected by Kind from a
// fixed table and evaluated over the active effect list in slice order, so
// evaluation order is exactly creation order.
package effects

import (
	"fmt"
	"slices"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/rules"
)

// Kind selects the hooks an effect participates in.
type Kind string

const (
	KindMovementDelta   Kind = "MOVEMENT_DELTA"
	KindImmobilize      Kind = "IMMOBILIZE"
	KindDisarm          Kind = "DISARM"
	KindAttackRollDelta Kind = "ATTACK_ROLL_DELTA"
	KindShield          Kind = "SHIELD"
	KindExtraMoves      Kind = "EXTRA_MOVES"

	// Instant kinds resolve once when the card is played and are never
	// registered as active effects.
	KindReroll    Kind = "REROLL"
	KindCancelHit Kind = "CANCEL_HIT"
)

// Instant reports whether the kind resolves immediately instead of lingering.
func (k Kind) Instant() bool {
	return k == KindReroll || k == KindCancelHit
}

// Scope says which units an effect applies to.
type Scope string

const (
	// ScopeTargets binds the effect to the unit ids chosen when the card was played.
	ScopeTargets Scope = "TARGETS"
	// ScopeOwnUnits applies to every unit of the effect owner.
	ScopeOwnUnits Scope = "OWN_UNITS"
	// ScopeEnemyUnits applies to every unit of the owner's opponent.
	ScopeEnemyUnits Scope = "ENEMY_UNITS"
)

// Duration describes when an effect is pruned.
//
// Turns > 0 keeps the effect until that many turn boundaries have passed;
// otherwise it lasts until the next TURN_START. UntilPhase additionally
// expires it on entry to that phase.
type Duration struct {
	Turns      int         `json:"turns,omitempty"`
	UntilPhase rules.Phase `json:"untilPhase,omitempty"`
	Permanent  bool        `json:"permanent,omitempty"`
}

// Definition is the template a card carries.
type Definition struct {
	Kind     Kind     `json:"kind"`
	Amount   int      `json:"amount,omitempty"`
	Scope    Scope    `json:"scope"`
	Duration Duration `json:"duration"`
}

// Effect is a live instance owned by GameState.ActiveEffects.
type Effect struct {
	ID             string       `json:"id"`
	SourceCardID   string       `json:"sourceCardId"`
	Owner          board.Player `json:"owner"`
	Kind           Kind         `json:"kind"`
	Amount         int          `json:"amount,omitempty"`
	Scope          Scope        `json:"scope"`
	Targets        []string     `json:"targets,omitempty"`
	CreatedTurn    int          `json:"createdTurn"`
	ExpiresTurn    int          `json:"expiresTurn,omitempty"`
	ExpiresAtPhase rules.Phase  `json:"expiresAtPhase,omitempty"`
}

// FormatID renders the effect id for a counter value.
func FormatID(counter int) string {
	return fmt.Sprintf("eff-%d", counter)
}

// Instantiate turns a definition into a live effect.
func Instantiate(def Definition, id, sourceCardID string, owner board.Player, targets []string, turn int) Effect {
	e := Effect{
		ID:           id,
		SourceCardID: sourceCardID,
		Owner:        owner,
		Kind:         def.Kind,
		Amount:       def.Amount,
		Scope:        def.Scope,
		CreatedTurn:  turn,
	}
	if def.Scope == ScopeTargets && len(targets) > 0 {
		e.Targets = slices.Clone(targets)
	}

	if !def.Duration.Permanent {
		e.ExpiresAtPhase = def.Duration.UntilPhase
		turns := def.Duration.Turns
		if turns <= 0 {
			turns = 1
		}
		e.ExpiresTurn = turn + turns
	}
	return e
}

// AppliesTo reports whether the effect covers unit.
func (e Effect) AppliesTo(unit board.Unit) bool {
	switch e.Scope {
	case ScopeTargets:
		return slices.Contains(e.Targets, unit.ID)
	case ScopeOwnUnits:
		return unit.Owner == e.Owner
	case ScopeEnemyUnits:
		return unit.Owner == e.Owner.Opponent()
	default:
		return false
	}
}

// Clone returns a deep copy.
func (e Effect) Clone() Effect {
	e.Targets = slices.Clone(e.Targets)
	return e
}

// CloneAll deep-copies an effect list, preserving order.
func CloneAll(list []Effect) []Effect {
	if list == nil {
		return nil
	}
	out := make([]Effect, len(list))
	for i, e := range list {
		out[i] = e.Clone()
	}
	return out
}
