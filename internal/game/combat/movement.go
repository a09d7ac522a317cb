// Package combat resolves movement legality, attack selection and dice
// outcomes. Everything here is a pure function of its inputs.
package combat

import (
	"errors"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/effects"
)

var (
	ErrUnitNotFound    = errors.New("unit not found")
	ErrNotOwner        = errors.New("unit not owned by player")
	ErrAlreadyMoved    = errors.New("unit already moved this turn")
	ErrNoMovesLeft     = errors.New("move budget exhausted")
	ErrMoveVetoed      = errors.New("movement vetoed by an active effect")
	ErrOutOfRange      = errors.New("destination not in move range")
	ErrAlreadyAttacked = errors.New("unit already attacked this turn")
	ErrSameSide        = errors.New("attacker and target belong to the same player")
	ErrAttackVetoed    = errors.New("attack vetoed by an active effect")
)

// Field is the part of match state movement and combat read.
type Field struct {
	Width   int
	Height  int
	Units   []board.Unit
	Effects []effects.Effect
	Context effects.Context
}

// EffectiveMovement returns the unit's movement after movement hooks.
func (f Field) EffectiveMovement(unit board.Unit) int {
	return effects.ModifyMovement(f.Effects, f.Context, unit)
}

// MoveRange lists every legal destination for unitID in row-major order:
// Manhattan distance in [1, M'], inside the board and unoccupied.
func MoveRange(f Field, unitID string) []board.Cell {
	unit, idx := board.FindUnit(f.Units, unitID)
	if idx < 0 {
		return nil
	}
	reach := f.EffectiveMovement(unit)
	if reach <= 0 {
		return nil
	}

	occupied := board.Occupied(f.Units)
	var cells []board.Cell
	for y := unit.Pos.Y - reach; y <= unit.Pos.Y+reach; y++ {
		for x := unit.Pos.X - reach; x <= unit.Pos.X+reach; x++ {
			c := board.Cell{X: x, Y: y}
			d := board.Manhattan(unit.Pos, c)
			if d < 1 || d > reach {
				continue
			}
			if !board.InBounds(c, f.Width, f.Height) || occupied[c] {
				continue
			}
			cells = append(cells, c)
		}
	}
	return cells
}

// InRange reports whether to is a legal destination for unitID.
func InRange(f Field, unitID string, to board.Cell) bool {
	for _, c := range MoveRange(f, unitID) {
		if c == to {
			return true
		}
	}
	return false
}

// CheckMover runs the static checks that do not depend on effects: the unit
// exists, belongs to player, has not moved and a move is left in the budget.
func CheckMover(f Field, unitID string, player board.Player, movesRemaining int) (board.Unit, error) {
	unit, idx := board.FindUnit(f.Units, unitID)
	if idx < 0 {
		return board.Unit{}, ErrUnitNotFound
	}
	if unit.Owner != player {
		return unit, ErrNotOwner
	}
	if unit.HasMoved {
		return unit, ErrAlreadyMoved
	}
	if movesRemaining <= 0 {
		return unit, ErrNoMovesLeft
	}
	return unit, nil
}

// ValidateMove runs every check MOVE_UNIT needs, hooks included.
func ValidateMove(f Field, unitID string, to board.Cell, player board.Player, movesRemaining int) error {
	unit, err := CheckMover(f, unitID, player, movesRemaining)
	if err != nil {
		return err
	}
	if !effects.CanMoveUnit(f.Effects, f.Context, unit) {
		return ErrMoveVetoed
	}
	if !InRange(f, unitID, to) {
		return ErrOutOfRange
	}
	return nil
}
