// Package board holds the players, units and cells shared by every other
// game package.
package board

import "fmt"

// Player identifies one of the two sides.
type Player string

const (
	PlayerA Player = "PLAYER_A"
	PlayerB Player = "PLAYER_B"
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == PlayerA {
		return PlayerB
	}
	return PlayerA
}

// Valid reports whether p is one of the two players.
func (p Player) Valid() bool {
	return p == PlayerA || p == PlayerB
}

// UnitType is the class of a unit.
type UnitType string

const (
	UnitInfantry UnitType = "INFANTRY"
	UnitVehicle  UnitType = "VEHICLE"
	UnitSpecial  UnitType = "SPECIAL"
)

// UnitTypes lists every unit type in deployment order. Iterating this slice
// instead of a map keeps placement deterministic.
var UnitTypes = []UnitType{UnitInfantry, UnitVehicle, UnitSpecial}

// Valid reports whether t is a known unit type.
func (t UnitType) Valid() bool {
	for _, known := range UnitTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Cell is a board coordinate. Y grows southward.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Manhattan returns the grid distance between two cells.
func Manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// InBounds reports whether c lies on a width x height board.
func InBounds(c Cell, width, height int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < width && c.Y < height
}

// Unit is a piece on the board.
type Unit struct {
	ID          string   `json:"id"`
	Owner       Player   `json:"owner"`
	Type        UnitType `json:"type"`
	Pos         Cell     `json:"pos"`
	Movement    int      `json:"movement"`
	Attack      int      `json:"attack"`
	HasMoved    bool     `json:"hasMoved"`
	HasAttacked bool     `json:"hasAttacked"`
}

// FindUnit returns the unit with id and its index, or -1.
func FindUnit(units []Unit, id string) (Unit, int) {
	for i, u := range units {
		if u.ID == id {
			return u, i
		}
	}
	return Unit{}, -1
}

// UnitAt returns the unit occupying cell, if any.
func UnitAt(units []Unit, cell Cell) (Unit, bool) {
	for _, u := range units {
		if u.Pos == cell {
			return u, true
		}
	}
	return Unit{}, false
}

// Occupied builds an occupancy set for fast lookups.
func Occupied(units []Unit) map[Cell]bool {
	out := make(map[Cell]bool, len(units))
	for _, u := range units {
		out[u.Pos] = true
	}
	return out
}

// CountOwned returns how many units p still has.
func CountOwned(units []Unit, p Player) int {
	n := 0
	for _, u := range units {
		if u.Owner == p {
			n++
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
