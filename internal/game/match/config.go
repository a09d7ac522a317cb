package match

import (
	"maps"
	"slices"
	"strings"

	"github.com/tactica/tactica-core/internal/errors"
	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/cards"
	"github.com/tactica/tactica-core/internal/game/terrain"
)

// DefaultSeed is used when a match is started without a seed.
const DefaultSeed uint32 = 1

// BoardSize is the board width and height in cells.
type BoardSize struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

// Config is the fully resolved configuration of a match.
type Config struct {
	Board              BoardSize              `json:"board"`
	UnitComposition    map[board.UnitType]int `json:"unitComposition"`
	UnitMovementByType map[board.UnitType]int `json:"unitMovementByType"`
	UnitAttackByType   map[board.UnitType]int `json:"unitAttackByType"`
	MovesPerTurn       int                    `json:"movesPerTurn"`
	Terrain            terrain.Params         `json:"terrain"`
	CommonDeck         []cards.DeckEntry      `json:"commonDeck"`
	TacticalDeck       []cards.DeckEntry      `json:"tacticalDeck"`
	SelectedTactics    []string               `json:"selectedTactics,omitempty"`
}

// TerrainOverrides replaces individual terrain knobs.
type TerrainOverrides struct {
	RoadDensity  *float64           `json:"roadDensity,omitempty" mapstructure:"roadDensity"`
	RiverDensity *float64           `json:"riverDensity,omitempty" mapstructure:"riverDensity"`
	MaxBridges   *int               `json:"maxBridges,omitempty" mapstructure:"maxBridges"`
	Penalties    *terrain.Penalties `json:"penalties,omitempty" mapstructure:"penalties"`
}

// Overrides are optional settings layered onto DefaultConfig. Map entries
// replace the default for that unit type only.
type Overrides struct {
	Board              *BoardSize             `json:"board,omitempty" mapstructure:"board"`
	UnitComposition    map[board.UnitType]int `json:"unitComposition,omitempty" mapstructure:"unitComposition"`
	UnitMovementByType map[board.UnitType]int `json:"unitMovementByType,omitempty" mapstructure:"unitMovementByType"`
	UnitAttackByType   map[board.UnitType]int `json:"unitAttackByType,omitempty" mapstructure:"unitAttackByType"`
	MovesPerTurn       *int                   `json:"movesPerTurn,omitempty" mapstructure:"movesPerTurn"`
	Terrain            *TerrainOverrides      `json:"terrain,omitempty" mapstructure:"terrain"`
	CommonDeck         []cards.DeckEntry      `json:"commonDeck,omitempty" mapstructure:"commonDeck"`
	TacticalDeck       []cards.DeckEntry      `json:"tacticalDeck,omitempty" mapstructure:"tacticalDeck"`
	SelectedTactics    []string               `json:"selectedTactics,omitempty" mapstructure:"selectedTactics"`
}

// DefaultConfig returns the stock match configuration.
func DefaultConfig() Config {
	return Config{
		Board: BoardSize{Width: 10, Height: 8},
		UnitComposition: map[board.UnitType]int{
			board.UnitInfantry: 3,
			board.UnitVehicle:  1,
			board.UnitSpecial:  1,
		},
		UnitMovementByType: map[board.UnitType]int{
			board.UnitInfantry: 2,
			board.UnitVehicle:  4,
			board.UnitSpecial:  3,
		},
		UnitAttackByType: map[board.UnitType]int{
			board.UnitInfantry: 3,
			board.UnitVehicle:  4,
			board.UnitSpecial:  2,
		},
		MovesPerTurn: 2,
		Terrain:      terrain.DefaultParams(),
		CommonDeck:   cards.DefaultCommonDeck(),
		TacticalDeck: cards.DefaultTacticalDeck(),
	}
}

// Resolve layers o onto the defaults and validates the result.
func Resolve(o *Overrides) (Config, error) {
	cfg := DefaultConfig()
	if o != nil {
		if o.Board != nil {
			cfg.Board = *o.Board
		}
		mergeByType(cfg.UnitComposition, o.UnitComposition)
		mergeByType(cfg.UnitMovementByType, o.UnitMovementByType)
		mergeByType(cfg.UnitAttackByType, o.UnitAttackByType)
		if o.MovesPerTurn != nil {
			cfg.MovesPerTurn = *o.MovesPerTurn
		}
		if t := o.Terrain; t != nil {
			if t.RoadDensity != nil {
				cfg.Terrain.RoadDensity = *t.RoadDensity
			}
			if t.RiverDensity != nil {
				cfg.Terrain.RiverDensity = *t.RiverDensity
			}
			if t.MaxBridges != nil {
				v := *t.MaxBridges
				cfg.Terrain.MaxBridges = &v
			}
			if t.Penalties != nil {
				cfg.Terrain.Penalties = *t.Penalties
			}
		}
		if o.CommonDeck != nil {
			cfg.CommonDeck = slices.Clone(o.CommonDeck)
		}
		if o.TacticalDeck != nil {
			cfg.TacticalDeck = slices.Clone(o.TacticalDeck)
		}
		if o.SelectedTactics != nil {
			cfg.SelectedTactics = slices.Clone(o.SelectedTactics)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeByType copies src into dst. Keys are upper-cased because config
// loaders may lower-case map keys.
func mergeByType(dst, src map[board.UnitType]int) {
	for k, v := range src {
		dst[board.UnitType(strings.ToUpper(string(k)))] = v
	}
}

// Validate checks the configuration against the board and card catalog.
func (c Config) Validate() error {
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return errors.Config(errors.CodeBoardZeroArea, "board %dx%d has no area", c.Board.Width, c.Board.Height)
	}
	for _, m := range []map[board.UnitType]int{c.UnitComposition, c.UnitMovementByType, c.UnitAttackByType} {
		for t, v := range m {
			if !t.Valid() {
				return errors.Config(errors.CodeUnknownUnitType, "unknown unit type %q", t)
			}
			if v < 0 {
				return errors.Config(errors.CodeInvalidUnitStat, "%s value %d is negative", t, v)
			}
		}
	}
	perPlayer := 0
	for _, n := range c.UnitComposition {
		perPlayer += n
	}
	if capacity := c.Board.Width * (c.Board.Height / 2); perPlayer > capacity {
		return errors.Config(errors.CodeUnitOverflow, "%d units per player do not fit in %d deployment cells", perPlayer, capacity)
	}
	if c.MovesPerTurn < 0 {
		return errors.Config(errors.CodeInvalidMoveBudget, "moves per turn %d is negative", c.MovesPerTurn)
	}
	if err := c.Terrain.Validate(); err != nil {
		return err
	}
	catalog := cards.DefaultCatalog()
	for _, deck := range [][]cards.DeckEntry{c.CommonDeck, c.TacticalDeck} {
		if _, err := cards.Build(catalog, deck); err != nil {
			return errors.Config(errors.CodeUnknownCard, "invalid deck").Wrap(err)
		}
	}
	for _, id := range c.SelectedTactics {
		def, ok := catalog.Lookup(id)
		if !ok || !def.IsTactic() {
			return errors.Config(errors.CodeUnknownCard, "selected tactic %q is not a tactic card", id)
		}
	}
	return nil
}

// Clone deep-copies the configuration.
func (c Config) Clone() Config {
	c.UnitComposition = maps.Clone(c.UnitComposition)
	c.UnitMovementByType = maps.Clone(c.UnitMovementByType)
	c.UnitAttackByType = maps.Clone(c.UnitAttackByType)
	c.Terrain = c.Terrain.Clone()
	c.CommonDeck = slices.Clone(c.CommonDeck)
	c.TacticalDeck = slices.Clone(c.TacticalDeck)
	c.SelectedTactics = slices.Clone(c.SelectedTactics)
	return c
}
