package terrain

import (
	"math"
	"slices"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/rng"
)

// Networks is the raw output of generation.
type Networks struct {
	Road     []board.Cell `json:"road"`
	River    []board.Cell `json:"river"`
	Bridges  []board.Cell `json:"bridges,omitempty"`
	NextSeed uint32       `json:"nextSeed"`
}

// Clone deep-copies the networks.
func (n Networks) Clone() Networks {
	n.Road = slices.Clone(n.Road)
	n.River = slices.Clone(n.River)
	n.Bridges = slices.Clone(n.Bridges)
	return n
}

// cellSet keeps cells in first-insertion order.
type cellSet struct {
	order []board.Cell
	has   map[board.Cell]bool
}

func newCellSet() *cellSet {
	return &cellSet{has: make(map[board.Cell]bool)}
}

func (s *cellSet) add(c board.Cell) {
	if s.has[c] {
		return
	}
	s.has[c] = true
	s.order = append(s.order, c)
}

// featureCount scales a density to a number of features across span cells.
func featureCount(density float64, span int) int {
	if density <= 0 {
		return 0
	}
	n := int(math.Round(density * float64(span) / 4))
	if n < 1 {
		n = 1
	}
	return n
}

// Generate builds the road and river networks for req.
func Generate(req Request) (Networks, error) {
	if err := req.Validate(); err != nil {
		return Networks{}, err
	}
	seed := rng.Seed(req.Seed)
	span := max(req.Width, req.Height)

	river := newCellSet()
	for i := featureCount(req.RiverDensity, span); i > 0; i-- {
		seed = walkRiver(seed, req.Width, req.Height, river)
	}

	router := newRouter(req, river.has)
	for i := featureCount(req.RoadDensity, span); i > 0; i-- {
		var from, to board.Cell
		from, to, seed = pickEndpoints(seed, req.Width, req.Height)
		router.connect(from, to)
	}

	return Networks{
		Road:     router.road.order,
		River:    river.order,
		Bridges:  router.bridges,
		NextSeed: uint32(seed),
	}, nil
}

// walkRiver runs one river from the top edge to the bottom or from the left
// edge to the right. Every step moves to a 4-neighbor, so the walk stays
// connected; a sideways drift is always followed by a forward step.
func walkRiver(seed rng.Seed, width, height int, out *cellSet) rng.Seed {
	var vertical int
	vertical, seed = rng.Intn(seed, 2)

	length, breadth := height, width
	if vertical == 0 {
		length, breadth = width, height
	}
	cell := func(along, across int) board.Cell {
		if vertical == 1 {
			return board.Cell{X: across, Y: along}
		}
		return board.Cell{X: along, Y: across}
	}

	var across int
	across, seed = rng.Intn(seed, breadth)
	for along := 0; along < length; along++ {
		out.add(cell(along, across))
		var drift int
		drift, seed = rng.Intn(seed, 4)
		switch {
		case drift == 0 && across > 0:
			across--
			out.add(cell(along, across))
		case drift == 1 && across < breadth-1:
			across++
			out.add(cell(along, across))
		}
	}
	return seed
}

// pickEndpoints chooses a start on one edge and a goal on the opposite edge.
func pickEndpoints(seed rng.Seed, width, height int) (board.Cell, board.Cell, rng.Seed) {
	var axis, a, b int
	axis, seed = rng.Intn(seed, 2)
	if axis == 0 {
		a, seed = rng.Intn(seed, height)
		b, seed = rng.Intn(seed, height)
		return board.Cell{X: 0, Y: a}, board.Cell{X: width - 1, Y: b}, seed
	}
	a, seed = rng.Intn(seed, width)
	b, seed = rng.Intn(seed, width)
	return board.Cell{X: a, Y: 0}, board.Cell{X: b, Y: height - 1}, seed
}
