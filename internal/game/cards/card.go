// Package cards defines card templates, the default catalog, deck handling
// and target validation.
package cards

import (
	"slices"

	"github.com/tactica/tactica-core/internal/game/effects"
	"github.com/tactica/tactica-core/internal/game/rules"
)

// Kind is the broad class of a card.
type Kind string

const (
	KindBonus  Kind = "bonus"
	KindMalus  Kind = "malus"
	KindTactic Kind = "tactic"
)

// Timing says when a card may resolve.
type Timing string

const (
	TimingImmediate Timing = "immediate"
	TimingStored    Timing = "stored"
	TimingReaction  Timing = "reaction"
)

// TargetOwner is whose units a card targets, relative to the player.
type TargetOwner string

const (
	TargetSelf  TargetOwner = "self"
	TargetEnemy TargetOwner = "enemy"
)

// Targeting is a card's target requirement. Count 0 means no targets.
type Targeting struct {
	Count int         `json:"count"`
	Owner TargetOwner `json:"owner,omitempty"`
}

// Definition is an immutable card template.
type Definition struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Kind           Kind                 `json:"kind"`
	Timing         Timing               `json:"timing"`
	Targeting      Targeting            `json:"targeting"`
	Effects        []effects.Definition `json:"effects"`
	ReactionWindow rules.Window         `json:"reactionWindow,omitempty"`
}

// IsTactic reports whether the card is a reaction tactic.
func (d Definition) IsTactic() bool {
	return d.Kind == KindTactic
}

// Storable reports whether the card may be kept for later play.
func (d Definition) Storable() bool {
	return d.Kind == KindBonus || d.Kind == KindTactic
}

// Catalog indexes card definitions by id.
type Catalog struct {
	defs  map[string]Definition
	order []string
}

// NewCatalog builds a catalog. Later definitions replace earlier ones with
// the same id.
func NewCatalog(defs ...Definition) *Catalog {
	c := &Catalog{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if _, exists := c.defs[d.ID]; !exists {
			c.order = append(c.order, d.ID)
		}
		c.defs[d.ID] = d
	}
	return c
}

// Lookup returns the definition for id.
func (c *Catalog) Lookup(id string) (Definition, bool) {
	if c == nil {
		return Definition{}, false
	}
	d, ok := c.defs[id]
	return d, ok
}

// IDs returns every card id in registration order.
func (c *Catalog) IDs() []string {
	return slices.Clone(c.order)
}
