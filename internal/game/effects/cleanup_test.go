package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tactica/tactica-core/internal/game/rules"
)

func TestPruneByTurn(t *testing.T) {
	active := []Effect{
		{ID: "eff-1", ExpiresTurn: 2},
		{ID: "eff-2", ExpiresTurn: 3},
		{ID: "eff-3"},
	}

	kept, expired := Prune(active, rules.PhaseTurnStart, 2)
	assert.Equal(t, []string{"eff-2", "eff-3"}, ids(kept))
	assert.Equal(t, []string{"eff-1"}, ids(expired))

	// Turn expiry only triggers on TURN_START.
	kept, expired = Prune(active, rules.PhaseMovement, 5)
	assert.Len(t, kept, 3)
	assert.Empty(t, expired)
}

func TestPruneByPhase(t *testing.T) {
	active := []Effect{
		{ID: "eff-1", ExpiresAtPhase: rules.PhaseEndTurn, ExpiresTurn: 9},
		{ID: "eff-2", ExpiresAtPhase: rules.PhaseAttack},
	}

	kept, expired := Prune(active, rules.PhaseEndTurn, 1)
	assert.Equal(t, []string{"eff-2"}, ids(kept))
	assert.Equal(t, []string{"eff-1"}, ids(expired))
}

func TestPruneEmpty(t *testing.T) {
	kept, expired := Prune(nil, rules.PhaseTurnStart, 1)
	assert.Nil(t, kept)
	assert.Nil(t, expired)
}

func ids(list []Effect) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.ID)
	}
	return out
}
