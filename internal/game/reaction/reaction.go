// Package reaction decides which reaction windows are open and whether a
// tactic card may be played into one.
package reaction

import (
	"slices"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/cards"
	"github.com/tactica/tactica-core/internal/game/rules"
)

// View is the slice of match state reaction windows depend on.
type View struct {
	Phase         rules.Phase
	PendingAttack bool
	Rolled        bool
	MovedThisTurn bool
}

// Play is one tactic submitted alongside an intent. Plays on the same intent
// resolve in submission order, before the intent's own action. An afterMove
// play carried on MOVE_UNIT therefore answers the previous move of the turn,
// not the move it travels with.
type Play struct {
	Player  board.Player `json:"player"`
	CardID  string       `json:"cardId"`
	Window  rules.Window `json:"window"`
	Targets []string     `json:"targets,omitempty"`
}

// OpenWindows derives the currently open windows from phase and pending action.
func OpenWindows(view View) []rules.Window {
	switch view.Phase {
	case rules.PhaseMovement:
		if view.MovedThisTurn {
			return []rules.Window{rules.WindowBeforeMove, rules.WindowAfterMove}
		}
		return []rules.Window{rules.WindowBeforeMove}
	case rules.PhaseDiceResolution:
		if !view.PendingAttack {
			return nil
		}
		if view.Rolled {
			return []rules.Window{rules.WindowAfterAttackRoll, rules.WindowBeforeDamage}
		}
		return []rules.Window{rules.WindowBeforeAttackRoll}
	default:
		return nil
	}
}

// IsOpen reports whether window is currently open.
func IsOpen(window rules.Window, view View) bool {
	return slices.Contains(OpenWindows(view), window)
}

// CanPlayTactic is true iff card is a tactic declared for window and window is open.
func CanPlayTactic(card cards.Definition, window rules.Window, view View) bool {
	if !card.IsTactic() {
		return false
	}
	if card.ReactionWindow != window {
		return false
	}
	return IsOpen(window, view)
}

// Accepts reports whether window can be fed by plays carried on an intent
// that triggers windows, given the windows that intent exposes.
func Accepts(window rules.Window, exposed []rules.Window) bool {
	return slices.Contains(exposed, window)
}

// ClonePlays deep-copies a list of plays.
func ClonePlays(plays []Play) []Play {
	if plays == nil {
		return nil
	}
	out := make([]Play, len(plays))
	for i, p := range plays {
		p.Targets = slices.Clone(p.Targets)
		out[i] = p
	}
	return out
}
