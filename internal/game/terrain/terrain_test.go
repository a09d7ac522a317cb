package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tactica/tactica-core/internal/errors"
	"github.com/tactica/tactica-core/internal/game/board"
)

func testRequest(seed uint32) Request {
	return NewRequest(12, 10, seed, DefaultParams())
}

func TestGenerateIsPure(t *testing.T) {
	for _, seed := range []uint32{1, 101, 4242, 0xdeadbeef} {
		first, err := Generate(testRequest(seed))
		require.NoError(t, err)
		second, err := Generate(testRequest(seed))
		require.NoError(t, err)

		assert.Equal(t, first.Road, second.Road, "seed %d", seed)
		assert.Equal(t, first.River, second.River, "seed %d", seed)
		assert.Equal(t, first.NextSeed, second.NextSeed, "seed %d", seed)
		assert.NotEqual(t, seed, first.NextSeed)
	}
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	negative := -1
	tests := []struct {
		name string
		req  Request
		code errors.Code
	}{
		{"zero area", Request{Width: 0, Height: 5}, errors.CodeBoardZeroArea},
		{"negative height", Request{Width: 5, Height: -2}, errors.CodeBoardZeroArea},
		{"road density", Request{Width: 5, Height: 5, RoadDensity: 1.5}, errors.CodeDensityOutOfRange},
		{"river density", Request{Width: 5, Height: 5, RiverDensity: -0.1}, errors.CodeDensityOutOfRange},
		{"penalty", Request{Width: 5, Height: 5, Penalties: Penalties{Bridge: -3}}, errors.CodeNegativePenalty},
		{"bridges", Request{Width: 5, Height: 5, MaxBridges: &negative}, errors.CodeNegativeBridges},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.req)
			require.Error(t, err)
			assert.True(t, errors.IsConfig(err))
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestSingleRiverIsConnectedEdgeToEdge(t *testing.T) {
	p := DefaultParams()
	p.RiverDensity = 0.1
	p.RoadDensity = 0
	for seed := uint32(1); seed <= 20; seed++ {
		nets, err := Generate(NewRequest(10, 8, seed, p))
		require.NoError(t, err)
		require.NotEmpty(t, nets.River)
		assert.Empty(t, nets.Road)

		for i := 1; i < len(nets.River); i++ {
			assert.Equal(t, 1, board.Manhattan(nets.River[i-1], nets.River[i]), "seed %d step %d", seed, i)
		}
		first, last := nets.River[0], nets.River[len(nets.River)-1]
		spansRows := first.Y == 0 && last.Y == 7
		spansCols := first.X == 0 && last.X == 9
		assert.True(t, spansRows || spansCols, "seed %d: %v -> %v", seed, first, last)
	}
}

func TestBridgeCapZeroKeepsRoadsOffRivers(t *testing.T) {
	zero := 0
	p := DefaultParams()
	p.MaxBridges = &zero
	for seed := uint32(1); seed <= 20; seed++ {
		nets, err := Generate(NewRequest(12, 10, seed, p))
		require.NoError(t, err)
		river := make(map[board.Cell]bool)
		for _, c := range nets.River {
			river[c] = true
		}
		for _, c := range nets.Road {
			assert.False(t, river[c], "seed %d: road on river at %v", seed, c)
		}
		assert.Empty(t, nets.Bridges)
	}
}

func TestBridgesRespectCap(t *testing.T) {
	p := DefaultParams()
	for seed := uint32(1); seed <= 20; seed++ {
		nets, err := Generate(NewRequest(12, 10, seed, p))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(nets.Bridges), *p.MaxBridges)
	}
}

func TestRouterPrefersExistingRoad(t *testing.T) {
	req := Request{Width: 5, Height: 3, Penalties: Penalties{NewRoad: 10, ExistingRoad: 1}}
	r := newRouter(req, map[board.Cell]bool{})

	require.True(t, r.connect(board.Cell{X: 0, Y: 0}, board.Cell{X: 4, Y: 0}))
	assert.Len(t, r.road.order, 5)

	require.True(t, r.connect(board.Cell{X: 0, Y: 1}, board.Cell{X: 4, Y: 1}))
	assert.Len(t, r.road.order, 7, "second road reuses the first")
	assert.True(t, r.road.has[board.Cell{X: 0, Y: 1}])
	assert.True(t, r.road.has[board.Cell{X: 4, Y: 1}])
	assert.False(t, r.road.has[board.Cell{X: 2, Y: 1}])
}

func TestRouterBlockedByRiverWithoutBridges(t *testing.T) {
	zero := 0
	river := map[board.Cell]bool{{X: 2, Y: 0}: true, {X: 2, Y: 1}: true, {X: 2, Y: 2}: true}
	req := Request{Width: 5, Height: 3, MaxBridges: &zero, Penalties: Penalties{NewRoad: 1}}
	r := newRouter(req, river)
	assert.False(t, r.connect(board.Cell{X: 0, Y: 1}, board.Cell{X: 4, Y: 1}))
	assert.Empty(t, r.road.order)

	one := 1
	req.MaxBridges = &one
	r = newRouter(req, river)
	require.True(t, r.connect(board.Cell{X: 0, Y: 1}, board.Cell{X: 4, Y: 1}))
	assert.Equal(t, []board.Cell{{X: 2, Y: 1}}, r.bridges)
}

func TestEdgesScenario(t *testing.T) {
	road := []board.Cell{{X: 2, Y: 6}, {X: 3, Y: 6}}
	edges := Edges(road)
	assert.Equal(t, East, edges[board.Cell{X: 2, Y: 6}])
	assert.Equal(t, West, edges[board.Cell{X: 3, Y: 6}])
	assert.Equal(t, "E", edges[board.Cell{X: 2, Y: 6}].String())

	isolated := Edges([]board.Cell{{X: 5, Y: 5}})
	assert.Equal(t, None, isolated[board.Cell{X: 5, Y: 5}])
	assert.Equal(t, "", isolated[board.Cell{X: 5, Y: 5}].String())
}

func TestConnectorsMergeNetworks(t *testing.T) {
	road := []board.Cell{{X: 1, Y: 1}, {X: 1, Y: 2}}
	river := []board.Cell{{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}}
	conns := Connectors(road, river)

	crossing := conns[board.Cell{X: 1, Y: 2}]
	assert.Equal(t, North, crossing.Road)
	assert.True(t, crossing.River.Has(East))
	assert.True(t, crossing.River.Has(West))
	assert.Equal(t, "EW", crossing.River.String())

	assert.Equal(t, Connector{Road: South}, conns[board.Cell{X: 1, Y: 1}])
	assert.Equal(t, Connector{River: East}, conns[board.Cell{X: 0, Y: 2}])
}

func TestBiomesCoverBoard(t *testing.T) {
	req := testRequest(101)
	terr, err := Build(req)
	require.NoError(t, err)

	total := 0
	for _, n := range terr.Biomes.Counts {
		total += n
	}
	assert.Equal(t, req.Width*req.Height, total)
	require.Len(t, terr.Biomes.Cells, req.Height)
	for _, row := range terr.Biomes.Cells {
		assert.Len(t, row, req.Width)
	}
	for kind, n := range terr.Biomes.Counts {
		assert.GreaterOrEqual(t, n, terr.Biomes.Regions[kind], kind)
		assert.Positive(t, terr.Biomes.Regions[kind], kind)
	}
	for _, c := range terr.River {
		got := terr.Biomes.At(c)
		assert.Contains(t, []TerrainType{TerrainWater, TerrainBridge}, got)
	}
	for _, c := range terr.Road {
		got := terr.Biomes.At(c)
		assert.Contains(t, []TerrainType{TerrainRoad, TerrainBridge}, got)
	}
	assert.Equal(t, TerrainType(""), terr.Biomes.At(board.Cell{X: -1, Y: 0}))
}

func TestCountRegions(t *testing.T) {
	cells := [][]TerrainType{
		{TerrainPlain, TerrainWater, TerrainPlain},
		{TerrainPlain, TerrainWater, TerrainPlain},
		{TerrainForest, TerrainForest, TerrainForest},
	}
	regions := countRegions(cells)
	assert.Equal(t, 2, regions[TerrainPlain])
	assert.Equal(t, 1, regions[TerrainWater])
	assert.Equal(t, 1, regions[TerrainForest])
}

func TestTerrainCloneIsDeep(t *testing.T) {
	terr, err := Build(testRequest(9))
	require.NoError(t, err)
	cp := terr.Clone()
	assert.Equal(t, terr, cp)

	if len(cp.Road) > 0 {
		cp.Road[0] = board.Cell{X: -5, Y: -5}
		assert.NotEqual(t, cp.Road[0], terr.Road[0])
	}
	cp.Biomes.Cells[0][0] = "changed"
	assert.NotEqual(t, TerrainType("changed"), terr.Biomes.Cells[0][0])
	*cp.Params.MaxBridges = 99
	assert.NotEqual(t, 99, *terr.Params.MaxBridges)
}
