package match

import (
	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/cards"
	"github.com/tactica/tactica-core/internal/game/combat"
	"github.com/tactica/tactica-core/internal/game/reaction"
	"github.com/tactica/tactica-core/internal/game/rules"
)

// GetMoveRange lists the legal destinations of unitID, row-major.
func GetMoveRange(state *GameState, unitID string) []board.Cell {
	if state == nil {
		return nil
	}
	return combat.MoveRange(state.field(), unitID)
}

// GetOpenReactionWindows returns the reaction windows open in state.
func GetOpenReactionWindows(state *GameState) []rules.Window {
	if state == nil {
		return nil
	}
	return reaction.OpenWindows(state.reactionView())
}

// CanPlayTacticInWindow reports whether card may be played into window now.
func CanPlayTacticInWindow(card cards.Definition, window rules.Window, state *GameState) bool {
	if state == nil {
		return false
	}
	return reaction.CanPlayTactic(card, window, state.reactionView())
}
