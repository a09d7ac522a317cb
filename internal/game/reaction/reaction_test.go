package reaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tactica/tactica-core/internal/game/cards"
	"github.com/tactica/tactica-core/internal/game/rules"
)

func TestOpenWindows(t *testing.T) {
	tests := []struct {
		name string
		view View
		want []rules.Window
	}{
		{"movement before any move", View{Phase: rules.PhaseMovement}, []rules.Window{rules.WindowBeforeMove}},
		{"movement after a move", View{Phase: rules.PhaseMovement, MovedThisTurn: true}, []rules.Window{rules.WindowBeforeMove, rules.WindowAfterMove}},
		{"attack pending, not rolled", View{Phase: rules.PhaseDiceResolution, PendingAttack: true}, []rules.Window{rules.WindowBeforeAttackRoll}},
		{"attack pending, rolled", View{Phase: rules.PhaseDiceResolution, PendingAttack: true, Rolled: true}, []rules.Window{rules.WindowAfterAttackRoll, rules.WindowBeforeDamage}},
		{"dice phase without attack", View{Phase: rules.PhaseDiceResolution}, nil},
		{"attack selection", View{Phase: rules.PhaseAttack}, nil},
		{"card draw", View{Phase: rules.PhaseCardDraw}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OpenWindows(tt.view))
		})
	}
}

func TestCanPlayTactic(t *testing.T) {
	catalog := cards.DefaultCatalog()
	smoke, ok := catalog.Lookup("smoke-screen")
	require.True(t, ok)
	march, ok := catalog.Lookup("forced-march")
	require.True(t, ok)

	unrolled := View{Phase: rules.PhaseDiceResolution, PendingAttack: true}
	rolled := View{Phase: rules.PhaseDiceResolution, PendingAttack: true, Rolled: true}

	assert.True(t, CanPlayTactic(smoke, rules.WindowBeforeAttackRoll, unrolled))
	assert.False(t, CanPlayTactic(smoke, rules.WindowBeforeAttackRoll, rolled), "window closed")
	assert.False(t, CanPlayTactic(smoke, rules.WindowBeforeDamage, rolled), "wrong declared window")
	assert.False(t, CanPlayTactic(march, rules.WindowBeforeAttackRoll, unrolled), "not a tactic")
}

func TestClonePlaysIsDeep(t *testing.T) {
	plays := []Play{{CardID: "smoke-screen", Targets: []string{"a1"}}}
	cloned := ClonePlays(plays)
	cloned[0].Targets[0] = "changed"
	assert.Equal(t, "a1", plays[0].Targets[0])
	assert.Nil(t, ClonePlays(nil))
}

func TestAccepts(t *testing.T) {
	exposed := []rules.Window{rules.WindowAfterAttackRoll, rules.WindowBeforeDamage}
	assert.True(t, Accepts(rules.WindowBeforeDamage, exposed))
	assert.False(t, Accepts(rules.WindowBeforeMove, exposed))
}
