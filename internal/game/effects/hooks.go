package effects

import (
	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/rules"
)

// Context is the read-only match view hooks are evaluated against.
type Context struct {
	Phase        rules.Phase
	ActivePlayer board.Player
	Turn         int
}

// PhaseStartOutcome records what an effect did when a phase began.
type PhaseStartOutcome struct {
	EffectID   string
	Kind       Kind
	ExtraMoves int
}

// hookSet is the behavior of one effect kind. Nil entries mean the kind does
// not take part in that hook.
type hookSet struct {
	canMoveUnit      func(e Effect, ctx Context, unit board.Unit) bool
	canAttack        func(e Effect, ctx Context, attacker, target board.Unit) bool
	modifyMovement   func(e Effect, ctx Context, unit board.Unit, value int) int
	modifyAttackRoll func(e Effect, ctx Context, attacker, target board.Unit, roll int) int
	onPhaseStart     func(e Effect, ctx Context, phase rules.Phase) (PhaseStartOutcome, bool)
}

var hookTable = map[Kind]hookSet{
	KindMovementDelta: {
		modifyMovement: func(e Effect, _ Context, unit board.Unit, value int) int {
			if e.AppliesTo(unit) {
				return value + e.Amount
			}
			return value
		},
	},
	KindImmobilize: {
		canMoveUnit: func(e Effect, _ Context, unit board.Unit) bool {
			return !e.AppliesTo(unit)
		},
	},
	KindDisarm: {
		canAttack: func(e Effect, _ Context, attacker, _ board.Unit) bool {
			return !e.AppliesTo(attacker)
		},
	},
	KindAttackRollDelta: {
		modifyAttackRoll: func(e Effect, _ Context, attacker, _ board.Unit, roll int) int {
			if e.AppliesTo(attacker) {
				return roll + e.Amount
			}
			return roll
		},
	},
	KindShield: {
		modifyAttackRoll: func(e Effect, _ Context, _, target board.Unit, roll int) int {
			if e.AppliesTo(target) {
				return roll - e.Amount
			}
			return roll
		},
	},
	KindExtraMoves: {
		onPhaseStart: func(e Effect, ctx Context, phase rules.Phase) (PhaseStartOutcome, bool) {
			if phase != rules.PhaseMovement || ctx.ActivePlayer != e.Owner {
				return PhaseStartOutcome{}, false
			}
			return PhaseStartOutcome{EffectID: e.ID, Kind: e.Kind, ExtraMoves: e.Amount}, true
		},
	},
}

// CanMoveUnit folds every canMoveUnit hook with logical AND.
func CanMoveUnit(active []Effect, ctx Context, unit board.Unit) bool {
	allowed := true
	for _, e := range active {
		if h := hookTable[e.Kind].canMoveUnit; h != nil {
			allowed = allowed && h(e, ctx, unit)
		}
	}
	return allowed
}

// CanAttack folds every canAttack hook with logical AND.
func CanAttack(active []Effect, ctx Context, attacker, target board.Unit) bool {
	allowed := true
	for _, e := range active {
		if h := hookTable[e.Kind].canAttack; h != nil {
			allowed = allowed && h(e, ctx, attacker, target)
		}
	}
	return allowed
}

// ModifyMovement applies movement hooks in order. The result is never negative.
func ModifyMovement(active []Effect, ctx Context, unit board.Unit) int {
	value := unit.Movement
	for _, e := range active {
		if h := hookTable[e.Kind].modifyMovement; h != nil {
			value = h(e, ctx, unit, value)
		}
	}
	if value < 0 {
		return 0
	}
	return value
}

// ModifyAttackRoll applies attack roll hooks in order.
func ModifyAttackRoll(active []Effect, ctx Context, attacker, target board.Unit, roll int) int {
	value := roll
	for _, e := range active {
		if h := hookTable[e.Kind].modifyAttackRoll; h != nil {
			value = h(e, ctx, attacker, target, value)
		}
	}
	return value
}

// OnPhaseStart runs phase-start hooks in order and returns what fired.
func OnPhaseStart(active []Effect, ctx Context, phase rules.Phase) []PhaseStartOutcome {
	var outcomes []PhaseStartOutcome
	for _, e := range active {
		h := hookTable[e.Kind].onPhaseStart
		if h == nil {
			continue
		}
		if outcome, fired := h(e, ctx, phase); fired {
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes
}
