package rules

// Window names a point in the move or attack sequence where a tactic card
// may interrupt resolution.
type Window string

const (
	WindowBeforeMove       Window = "beforeMove"
	WindowAfterMove        Window = "afterMove"
	WindowBeforeAttackRoll Window = "beforeAttackRoll"
	WindowAfterAttackRoll  Window = "afterAttackRoll"
	WindowBeforeDamage     Window = "beforeDamage"
)

// Windows lists every reaction window in sequence order.
var Windows = []Window{
	WindowBeforeMove,
	WindowAfterMove,
	WindowBeforeAttackRoll,
	WindowAfterAttackRoll,
	WindowBeforeDamage,
}

// Valid reports whether w is a known window.
func (w Window) Valid() bool {
	for _, known := range Windows {
		if w == known {
			return true
		}
	}
	return false
}
