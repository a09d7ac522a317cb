package match

import (
	"github.com/tactica/tactica-core/internal/errors"
	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/rules"
)

// Validate checks the structural invariants every reachable state holds.
// LOAD_STATE refuses payloads that fail it.
func (s *GameState) Validate() error {
	if s.Phase < rules.PhaseTurnStart || s.Phase > rules.PhaseVictory {
		return errors.Config(errors.CodeInvalidState, "unknown phase %d", int(s.Phase))
	}
	if !s.ActivePlayer.Valid() {
		return errors.Config(errors.CodeInvalidState, "unknown active player %q", s.ActivePlayer)
	}
	if (s.Winner != nil) != (s.Phase == rules.PhaseVictory) {
		return errors.Config(errors.CodeInvalidState, "winner set in phase %s", s.Phase)
	}
	if s.Winner != nil && !s.Winner.Valid() {
		return errors.Config(errors.CodeInvalidState, "unknown winner %q", *s.Winner)
	}
	if s.PendingCard != "" && s.Phase != rules.PhaseCardResolution {
		return errors.Config(errors.CodeInvalidState, "pending card in phase %s", s.Phase)
	}
	if s.PendingAttack != nil && s.Phase != rules.PhaseDiceResolution {
		return errors.Config(errors.CodeInvalidState, "pending attack in phase %s", s.Phase)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return errors.Config(errors.CodeInvalidState, "board %dx%d", s.Width, s.Height)
	}
	if s.MovesRemaining < 0 {
		return errors.Config(errors.CodeInvalidState, "negative move budget %d", s.MovesRemaining)
	}

	ids := make(map[string]bool, len(s.Units))
	cells := make(map[board.Cell]string, len(s.Units))
	for _, u := range s.Units {
		if ids[u.ID] {
			return errors.Config(errors.CodeInvalidState, "duplicate unit id %s", u.ID)
		}
		ids[u.ID] = true
		if !u.Owner.Valid() || !u.Type.Valid() {
			return errors.Config(errors.CodeInvalidState, "unit %s has owner %q type %q", u.ID, u.Owner, u.Type)
		}
		if !board.InBounds(u.Pos, s.Width, s.Height) {
			return errors.Config(errors.CodeInvalidState, "unit %s out of bounds at %s", u.ID, u.Pos)
		}
		if other, ok := cells[u.Pos]; ok {
			return errors.Config(errors.CodeInvalidState, "units %s and %s share %s", other, u.ID, u.Pos)
		}
		cells[u.Pos] = u.ID
	}
	if a := s.PendingAttack; a != nil && (!ids[a.AttackerID] || !ids[a.TargetID]) {
		return errors.Config(errors.CodeInvalidState, "pending attack names missing units")
	}
	return nil
}
