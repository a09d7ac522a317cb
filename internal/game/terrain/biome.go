package terrain

import (
	"maps"
	"math"
	"slices"

	"github.com/tactica/tactica-core/internal/game/board"
)

// TerrainType is the biome class of one cell.
type TerrainType string

const (
	TerrainPlain  TerrainType = "PLAIN"
	TerrainForest TerrainType = "FOREST"
	TerrainHill   TerrainType = "HILL"
	TerrainWater  TerrainType = "WATER"
	TerrainRoad   TerrainType = "ROAD"
	TerrainBridge TerrainType = "BRIDGE"
)

// TerrainTypes lists every biome in a fixed order.
var TerrainTypes = []TerrainType{TerrainPlain, TerrainForest, TerrainHill, TerrainWater, TerrainRoad, TerrainBridge}

const (
	// noiseScale is how many cells one noise lattice step spans.
	noiseScale  = 4.0
	forestLevel = 0.5
	hillLevel   = 0.72
)

// BiomeGrid is the classified board with aggregate statistics.
type BiomeGrid struct {
	// Cells is indexed [y][x].
	Cells   [][]TerrainType     `json:"cells"`
	Counts  map[TerrainType]int `json:"counts"`
	Regions map[TerrainType]int `json:"regions"`
}

// At returns the biome at c, or "" when c is off the grid.
func (g BiomeGrid) At(c board.Cell) TerrainType {
	if c.Y < 0 || c.Y >= len(g.Cells) || c.X < 0 || c.X >= len(g.Cells[c.Y]) {
		return ""
	}
	return g.Cells[c.Y][c.X]
}

// Clone deep-copies the grid.
func (g BiomeGrid) Clone() BiomeGrid {
	out := BiomeGrid{
		Counts:  maps.Clone(g.Counts),
		Regions: maps.Clone(g.Regions),
	}
	if g.Cells != nil {
		out.Cells = make([][]TerrainType, len(g.Cells))
		for y, row := range g.Cells {
			out.Cells[y] = slices.Clone(row)
		}
	}
	return out
}

// Biomes classifies every cell. Networks take precedence; the remaining
// cells follow a seeded value-noise field.
func Biomes(width, height int, nets Networks, seed uint32) BiomeGrid {
	road := make(map[board.Cell]bool, len(nets.Road))
	for _, c := range nets.Road {
		road[c] = true
	}
	river := make(map[board.Cell]bool, len(nets.River))
	for _, c := range nets.River {
		river[c] = true
	}

	grid := BiomeGrid{
		Cells:  make([][]TerrainType, height),
		Counts: make(map[TerrainType]int),
	}
	for y := 0; y < height; y++ {
		grid.Cells[y] = make([]TerrainType, width)
		for x := 0; x < width; x++ {
			c := board.Cell{X: x, Y: y}
			var t TerrainType
			switch {
			case road[c] && river[c]:
				t = TerrainBridge
			case road[c]:
				t = TerrainRoad
			case river[c]:
				t = TerrainWater
			default:
				t = classify(valueNoise2D(float64(x)/noiseScale, float64(y)/noiseScale, int64(seed)))
			}
			grid.Cells[y][x] = t
			grid.Counts[t]++
		}
	}
	grid.Regions = countRegions(grid.Cells)
	return grid
}

func classify(n float64) TerrainType {
	switch {
	case n >= hillLevel:
		return TerrainHill
	case n >= forestLevel:
		return TerrainForest
	default:
		return TerrainPlain
	}
}

// countRegions counts 4-connected components per terrain type.
func countRegions(cells [][]TerrainType) map[TerrainType]int {
	regions := make(map[TerrainType]int)
	seen := make(map[board.Cell]bool)
	for y, row := range cells {
		for x, t := range row {
			start := board.Cell{X: x, Y: y}
			if seen[start] {
				continue
			}
			regions[t]++
			seen[start] = true
			queue := []board.Cell{start}
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				for _, d := range steps {
					n := board.Cell{X: cur.X + d.X, Y: cur.Y + d.Y}
					if n.Y < 0 || n.Y >= len(cells) || n.X < 0 || n.X >= len(cells[n.Y]) {
						continue
					}
					if seen[n] || cells[n.Y][n.X] != t {
						continue
					}
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
	}
	return regions
}

// valueNoise2D returns smooth noise in [0,1] by interpolating lattice values.
func valueNoise2D(x, y float64, seed int64) float64 {
	xi := int(math.Floor(x))
	yi := int(math.Floor(y))
	xf := x - float64(xi)
	yf := y - float64(yi)

	// Hermite smoothstep.
	u := xf * xf * (3 - 2*xf)
	v := yf * yf * (3 - 2*yf)

	n00 := latticeValue(xi, yi, seed)
	n10 := latticeValue(xi+1, yi, seed)
	n01 := latticeValue(xi, yi+1, seed)
	n11 := latticeValue(xi+1, yi+1, seed)

	nx0 := n00*(1-u) + n10*u
	nx1 := n01*(1-u) + n11*u
	return nx0*(1-v) + nx1*v
}

// latticeValue hashes integer coordinates and seed into [0,1].
func latticeValue(x, y int, seed int64) float64 {
	h := uint64(seed)
	h ^= uint64(x) * 0x517cc1b727220a95
	h ^= uint64(y) * 0x6c62272e07bb0142
	h = h*0x2545f4914f6cdd1d + 0x14057b7ef767814f
	h ^= h >> 16
	h *= 0xd6e8feb86659fd93
	h ^= h >> 16
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}
