package terrain

import (
	"slices"

	"github.com/tactica/tactica-core/internal/game/board"
)

// Terrain is the read-only map of a match.
type Terrain struct {
	Road     []board.Cell `json:"road"`
	River    []board.Cell `json:"river"`
	Bridges  []board.Cell `json:"bridges,omitempty"`
	Biomes   BiomeGrid    `json:"biomes"`
	Params   Params       `json:"params"`
	Seed     uint32       `json:"seed"`
	NextSeed uint32       `json:"nextSeed"`
}

// Build generates networks and biomes for req.
func Build(req Request) (Terrain, error) {
	nets, err := Generate(req)
	if err != nil {
		return Terrain{}, err
	}
	return FromNetworks(req, nets), nil
}

// FromNetworks assembles a Terrain from networks generated for req, for
// instance ones returned by a Worker.
func FromNetworks(req Request, nets Networks) Terrain {
	return Terrain{
		Road:     slices.Clone(nets.Road),
		River:    slices.Clone(nets.River),
		Bridges:  slices.Clone(nets.Bridges),
		Biomes:   Biomes(req.Width, req.Height, nets, req.Seed),
		Params:   req.Params(),
		Seed:     req.Seed,
		NextSeed: nets.NextSeed,
	}
}

// Connectors returns the merged per-cell connectors of both networks.
func (t Terrain) Connectors() map[board.Cell]Connector {
	return Connectors(t.Road, t.River)
}

// Clone deep-copies the terrain.
func (t Terrain) Clone() Terrain {
	t.Road = slices.Clone(t.Road)
	t.River = slices.Clone(t.River)
	t.Bridges = slices.Clone(t.Bridges)
	t.Biomes = t.Biomes.Clone()
	t.Params = t.Params.Clone()
	return t
}
