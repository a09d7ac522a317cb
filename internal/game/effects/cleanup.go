package effects

import (
	"github.com/tactica/tactica-core/internal/game/rules"
)

// Expired reports whether e's duration is satisfied on entry to phase during turn.
func Expired(e Effect, phase rules.Phase, turn int) bool {
	if e.ExpiresAtPhase != rules.PhaseNone && e.ExpiresAtPhase == phase {
		return true
	}
	if e.ExpiresTurn > 0 && phase == rules.PhaseTurnStart && turn >= e.ExpiresTurn {
		return true
	}
	return false
}

// Prune splits active effects into those that survive entry to phase and
// those that expire. Both lists keep the original order.
func Prune(active []Effect, phase rules.Phase, turn int) (kept, expired []Effect) {
	if len(active) == 0 {
		return active, nil
	}
	kept = make([]Effect, 0, len(active))
	for _, e := range active {
		if Expired(e, phase, turn) {
			expired = append(expired, e)
			continue
		}
		kept = append(kept, e)
	}
	return kept, expired
}
