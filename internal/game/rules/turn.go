package rules

import (
	"fmt"
)

// Phase represents a phase of a player's turn.
type Phase int

const (
	// PhaseNone is the zero value, used where no phase applies (effect expiry).
	PhaseNone Phase = iota
	PhaseTurnStart
	PhaseCardDraw
	PhaseCardResolution
	PhaseMovement
	PhaseAttack
	PhaseDiceResolution
	PhaseEndTurn
	PhaseVictory
)

var phaseNames = map[Phase]string{
	PhaseTurnStart:      "TURN_START",
	PhaseCardDraw:       "CARD_DRAW",
	PhaseCardResolution: "CARD_RESOLUTION",
	PhaseMovement:       "MOVEMENT",
	PhaseAttack:         "ATTACK",
	PhaseDiceResolution: "DICE_RESOLUTION",
	PhaseEndTurn:        "END_TURN",
	PhaseVictory:        "VICTORY",
	PhaseNone:           "NONE",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// ParsePhase resolves a phase name.
func ParsePhase(name string) (Phase, bool) {
	for phase, n := range phaseNames {
		if n == name {
			return phase, true
		}
	}
	return PhaseNone, false
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	phase, ok := ParsePhase(string(text))
	if !ok {
		return fmt.Errorf("unknown phase %q", string(text))
	}
	*p = phase
	return nil
}

// turnSequence is the fixed order of phases within one turn. END_TURN wraps
// to TURN_START of the other player; VICTORY is terminal and not part of it.
var turnSequence = []Phase{
	PhaseTurnStart,
	PhaseCardDraw,
	PhaseCardResolution,
	PhaseMovement,
	PhaseAttack,
	PhaseDiceResolution,
	PhaseEndTurn,
}

// Pending tells the transition table which optional phases have work.
type Pending struct {
	Card   bool
	Attack bool
}

// skippable lists phases that are entered only when they have pending work.
var skippable = map[Phase]func(Pending) bool{
	PhaseCardResolution: func(p Pending) bool { return !p.Card },
	PhaseDiceResolution: func(p Pending) bool { return !p.Attack },
}

// Next returns the phase that follows current, skipping phases with no
// pending action. wraps is true when the turn rolls over to TURN_START.
// VICTORY has no successor and returns itself.
func Next(current Phase, pending Pending) (next Phase, wraps bool) {
	if current == PhaseVictory {
		return PhaseVictory, false
	}
	idx := indexOf(current)
	if idx < 0 {
		return current, false
	}
	for {
		idx++
		if idx >= len(turnSequence) {
			return PhaseTurnStart, true
		}
		candidate := turnSequence[idx]
		if skip, ok := skippable[candidate]; ok && skip(pending) {
			continue
		}
		return candidate, false
	}
}

// InTurn reports whether p is a phase inside a turn (not VICTORY or NONE).
func InTurn(p Phase) bool {
	return indexOf(p) >= 0
}

func indexOf(p Phase) int {
	for i, candidate := range turnSequence {
		if candidate == p {
			return i
		}
	}
	return -1
}
