package effects

import "github.com/tactica/tactica-core/internal/game/rules"

// DefinitionBuilder provides a fluent API for composing effect definitions.
// This simplifies writing the card catalog.
type DefinitionBuilder struct {
	def Definition
}

// NewDefinitionBuilder creates a builder for kind, scoped to chosen targets
// and lasting until the next turn start.
func NewDefinitionBuilder(kind Kind) *DefinitionBuilder {
	return &DefinitionBuilder{def: Definition{Kind: kind, Scope: ScopeTargets}}
}

// Amount sets the numeric payload.
func (b *DefinitionBuilder) Amount(n int) *DefinitionBuilder {
	b.def.Amount = n
	return b
}

// OnTargets binds the effect to the card's chosen targets.
func (b *DefinitionBuilder) OnTargets() *DefinitionBuilder {
	b.def.Scope = ScopeTargets
	return b
}

// OnOwnUnits applies the effect to every unit of the card's player.
func (b *DefinitionBuilder) OnOwnUnits() *DefinitionBuilder {
	b.def.Scope = ScopeOwnUnits
	return b
}

// OnEnemyUnits applies the effect to every enemy unit.
func (b *DefinitionBuilder) OnEnemyUnits() *DefinitionBuilder {
	b.def.Scope = ScopeEnemyUnits
	return b
}

// ForTurns keeps the effect for n turn boundaries.
func (b *DefinitionBuilder) ForTurns(n int) *DefinitionBuilder {
	b.def.Duration.Turns = n
	return b
}

// UntilPhase expires the effect on entry to phase.
func (b *DefinitionBuilder) UntilPhase(phase rules.Phase) *DefinitionBuilder {
	b.def.Duration.UntilPhase = phase
	return b
}

// Permanent makes the effect last for the rest of the match.
func (b *DefinitionBuilder) Permanent() *DefinitionBuilder {
	b.def.Duration = Duration{Permanent: true}
	return b
}

// Build returns the definition.
func (b *DefinitionBuilder) Build() Definition {
	return b.def
}
