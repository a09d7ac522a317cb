// Package terrain generates seeded road and river networks, classifies the
// board into biomes and derives per-cell connectors for presentation.
//
// Generation is a pure function of its Request: the same request always
// yields the same networks and the same NextSeed, which is what lets a
// match be rebuilt from its seed alone.
package terrain

import (
	"github.com/tactica/tactica-core/internal/errors"
)

// Penalties are the step costs road routing uses.
type Penalties struct {
	// NewRoad is the cost of laying road on a cell without one.
	NewRoad int `json:"newRoad" mapstructure:"newRoad"`
	// ExistingRoad is the cost of reusing a cell that already has road.
	ExistingRoad int `json:"existingRoad" mapstructure:"existingRoad"`
	// Bridge is added when a new road cell sits on a river.
	Bridge int `json:"bridge" mapstructure:"bridge"`
}

// Params are the tunable generation knobs, independent of board size and seed.
type Params struct {
	RoadDensity  float64   `json:"roadDensity" mapstructure:"roadDensity"`
	RiverDensity float64   `json:"riverDensity" mapstructure:"riverDensity"`
	MaxBridges   *int      `json:"maxBridges,omitempty" mapstructure:"maxBridges"`
	Penalties    Penalties `json:"penalties" mapstructure:"penalties"`
}

// DefaultParams returns the stock generation parameters.
func DefaultParams() Params {
	bridges := 2
	return Params{
		RoadDensity:  0.5,
		RiverDensity: 0.3,
		MaxBridges:   &bridges,
		Penalties: Penalties{
			NewRoad:      4,
			ExistingRoad: 1,
			Bridge:       6,
		},
	}
}

// Clone deep-copies the params.
func (p Params) Clone() Params {
	if p.MaxBridges != nil {
		v := *p.MaxBridges
		p.MaxBridges = &v
	}
	return p
}

// Request is the serializable input of one generation run.
type Request struct {
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Seed         uint32    `json:"seed"`
	RoadDensity  float64   `json:"roadDensity"`
	RiverDensity float64   `json:"riverDensity"`
	MaxBridges   *int      `json:"maxBridges,omitempty"`
	Penalties    Penalties `json:"penalties"`
}

// NewRequest binds params to a board and seed.
func NewRequest(width, height int, seed uint32, p Params) Request {
	p = p.Clone()
	return Request{
		Width:        width,
		Height:       height,
		Seed:         seed,
		RoadDensity:  p.RoadDensity,
		RiverDensity: p.RiverDensity,
		MaxBridges:   p.MaxBridges,
		Penalties:    p.Penalties,
	}
}

// Params extracts the size-independent parameters.
func (r Request) Params() Params {
	return Params{
		RoadDensity:  r.RoadDensity,
		RiverDensity: r.RiverDensity,
		MaxBridges:   r.MaxBridges,
		Penalties:    r.Penalties,
	}.Clone()
}

// Validate returns a configuration error for unusable requests.
func (r Request) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return errors.Config(errors.CodeBoardZeroArea, "board %dx%d has no area", r.Width, r.Height)
	}
	return r.Params().Validate()
}

// Validate checks densities, penalties and the bridge cap.
func (p Params) Validate() error {
	if p.RoadDensity < 0 || p.RoadDensity > 1 {
		return errors.Config(errors.CodeDensityOutOfRange, "road density %v outside [0,1]", p.RoadDensity)
	}
	if p.RiverDensity < 0 || p.RiverDensity > 1 {
		return errors.Config(errors.CodeDensityOutOfRange, "river density %v outside [0,1]", p.RiverDensity)
	}
	if p.Penalties.NewRoad < 0 || p.Penalties.ExistingRoad < 0 || p.Penalties.Bridge < 0 {
		return errors.Config(errors.CodeNegativePenalty, "penalties must not be negative: %+v", p.Penalties)
	}
	if p.MaxBridges != nil && *p.MaxBridges < 0 {
		return errors.Config(errors.CodeNegativeBridges, "max bridges %d is negative", *p.MaxBridges)
	}
	return nil
}
