package terrain

import (
	"strings"

	"github.com/tactica/tactica-core/internal/game/board"
)

// Direction is a bitmask of compass neighbors.
type Direction uint8

const (
	North Direction = 1 << iota
	East
	South
	West
)

// None is the empty mask.
const None Direction = 0

// Has reports whether every bit of d is set.
func (m Direction) Has(d Direction) bool {
	return m&d == d && d != None
}

// String renders the set directions in N, E, S, W order, e.g. "NE".
func (m Direction) String() string {
	var b strings.Builder
	for _, d := range []struct {
		bit  Direction
		name string
	}{{North, "N"}, {East, "E"}, {South, "S"}, {West, "W"}} {
		if m&d.bit != 0 {
			b.WriteString(d.name)
		}
	}
	return b.String()
}

// Edges computes each cell's connectivity by testing its four neighbors
// for membership in the same set. Isolated cells map to None.
func Edges(cells []board.Cell) map[board.Cell]Direction {
	member := make(map[board.Cell]bool, len(cells))
	for _, c := range cells {
		member[c] = true
	}
	out := make(map[board.Cell]Direction, len(cells))
	for _, c := range cells {
		var m Direction
		if member[board.Cell{X: c.X, Y: c.Y - 1}] {
			m |= North
		}
		if member[board.Cell{X: c.X + 1, Y: c.Y}] {
			m |= East
		}
		if member[board.Cell{X: c.X, Y: c.Y + 1}] {
			m |= South
		}
		if member[board.Cell{X: c.X - 1, Y: c.Y}] {
			m |= West
		}
		out[c] = m
	}
	return out
}

// Connector is the merged road and river connectivity of one cell.
type Connector struct {
	Road  Direction `json:"road"`
	River Direction `json:"river"`
}

// Connectors merges the edges of both networks into one record per cell.
func Connectors(road, river []board.Cell) map[board.Cell]Connector {
	out := make(map[board.Cell]Connector)
	for c, m := range Edges(road) {
		conn := out[c]
		conn.Road = m
		out[c] = conn
	}
	for c, m := range Edges(river) {
		conn := out[c]
		conn.River = m
		out[c] = conn
	}
	return out
}
