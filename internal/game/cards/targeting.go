package cards

import (
	"fmt"

	"github.com/tactica/tactica-core/internal/game/board"
)

// TargetValidator validates that selected targets are legal for a card.
type TargetValidator struct {
	units []board.Unit
}

// NewTargetValidator creates a validator over the current unit list.
func NewTargetValidator(units []board.Unit) *TargetValidator {
	return &TargetValidator{units: units}
}

// ValidateTarget checks a single unit id against the requirement for player.
func (tv *TargetValidator) ValidateTarget(targetID string, req Targeting, player board.Player) error {
	if tv == nil {
		return fmt.Errorf("target validator not initialized")
	}
	unit, idx := board.FindUnit(tv.units, targetID)
	if idx < 0 {
		return fmt.Errorf("target %s not found", targetID)
	}
	switch req.Owner {
	case TargetSelf:
		if unit.Owner != player {
			return fmt.Errorf("target %s is not owned by %s", targetID, player)
		}
	case TargetEnemy:
		if unit.Owner != player.Opponent() {
			return fmt.Errorf("target %s is not an enemy of %s", targetID, player)
		}
	}
	return nil
}

// ValidateTargets checks a full selection: exact count, distinct ids, and
// every id valid on its own.
func (tv *TargetValidator) ValidateTargets(targetIDs []string, req Targeting, player board.Player) error {
	if len(targetIDs) != req.Count {
		return fmt.Errorf("expected %d targets, got %d", req.Count, len(targetIDs))
	}
	seen := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		if seen[id] {
			return fmt.Errorf("duplicate target %s", id)
		}
		seen[id] = true
		if err := tv.ValidateTarget(id, req, player); err != nil {
			return err
		}
	}
	return nil
}

// HasLegalTargets reports whether enough units exist to satisfy req.
func (tv *TargetValidator) HasLegalTargets(req Targeting, player board.Player) bool {
	if req.Count == 0 {
		return true
	}
	available := 0
	for _, u := range tv.units {
		if tv.ValidateTarget(u.ID, req, player) == nil {
			available++
		}
	}
	return available >= req.Count
}
