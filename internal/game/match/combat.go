package match

import (
	"fmt"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/combat"
	"github.com/tactica/tactica-core/internal/game/rng"
	"github.com/tactica/tactica-core/internal/game/rules"
	"github.com/tactica/tactica-core/internal/game/terrain"
)

// moveUnit runs the static checks, resolves reactions and then re-checks
// hooks and range against the post-reaction state. A move that fails the
// re-check is cancelled; the intent still counts when a reaction resolved.
func (t *transition) moveUnit() bool {
	s := t.next
	if s.Phase != rules.PhaseMovement || t.intent.To == nil {
		return false
	}
	to := *t.intent.To
	if _, err := combat.CheckMover(s.field(), t.intent.UnitID, s.ActivePlayer, s.MovesRemaining); err != nil {
		return false
	}

	resolved := t.resolveReactions(t.intent.Reactions)

	if err := combat.ValidateMove(s.field(), t.intent.UnitID, to, s.ActivePlayer, s.MovesRemaining); err != nil {
		if resolved == 0 {
			return false
		}
		t.emit(Event{Type: EventMoveCancelled, PlayerID: s.ActivePlayer, TargetID: t.intent.UnitID, Data: err.Error()})
		return true
	}

	_, idx := board.FindUnit(s.Units, t.intent.UnitID)
	from := s.Units[idx].Pos
	s.Units[idx].Pos = to
	s.Units[idx].HasMoved = true
	s.MovesRemaining--
	s.LastMove = &MoveRecord{UnitID: t.intent.UnitID, From: from, To: to}
	t.emit(Event{Type: EventUnitMoved, PlayerID: s.ActivePlayer, TargetID: t.intent.UnitID, From: &from, To: &to})
	return true
}

func (t *transition) attackSelect() bool {
	s := t.next
	if s.Phase != rules.PhaseAttack || s.PendingAttack != nil {
		return false
	}
	if err := combat.ValidateAttack(s.field(), t.intent.AttackerID, t.intent.TargetID, s.ActivePlayer); err != nil {
		return false
	}
	s.PendingAttack = &combat.Attack{AttackerID: t.intent.AttackerID, TargetID: t.intent.TargetID}
	s.LastRoll = nil
	t.emit(Event{Type: EventAttackSelected, PlayerID: s.ActivePlayer, SourceID: t.intent.AttackerID, TargetID: t.intent.TargetID})
	t.enterPhase(rules.PhaseDiceResolution)
	return true
}

func (t *transition) rollDice() bool {
	s := t.next
	if s.Phase != rules.PhaseDiceResolution || s.PendingAttack == nil || s.Rolled() {
		return false
	}
	t.resolveReactions(t.intent.Reactions)

	r, next, err := combat.Roll(rng.Seed(s.RNGSeed), s.field(), *s.PendingAttack)
	if err != nil {
		return false
	}
	s.RNGSeed = uint32(next)
	s.LastRoll = &r
	t.emit(Event{Type: EventDiceRolled, PlayerID: s.ActivePlayer, SourceID: r.AttackerID, TargetID: r.TargetID, Amount: r.Value, Data: string(r.Outcome), Roll: &r})
	return true
}

// resolveAttack applies the recorded roll: a hit removes the target, a miss
// leaves the board alone. The attacker is spent either way.
func (t *transition) resolveAttack() bool {
	s := t.next
	if s.Phase != rules.PhaseDiceResolution || !s.Rolled() {
		return false
	}
	t.resolveReactions(t.intent.Reactions)

	roll := *s.LastRoll
	attack := *s.PendingAttack
	units, removed := combat.Apply(s.Units, roll)
	s.Units = units
	if _, idx := board.FindUnit(s.Units, attack.AttackerID); idx >= 0 {
		s.Units[idx].HasAttacked = true
	}
	s.PendingAttack = nil

	t.emit(Event{Type: EventAttackResolved, PlayerID: s.ActivePlayer, SourceID: attack.AttackerID, TargetID: attack.TargetID, Flag: roll.Hit(), Data: string(roll.Outcome), Roll: &roll})
	if removed != nil {
		t.emit(Event{Type: EventUnitRemoved, PlayerID: removed.Owner, TargetID: removed.ID})
	}
	if t.checkVictory() {
		return true
	}
	t.enterPhase(rules.PhaseAttack)
	return true
}

// regenerateTerrain rebuilds the map from the current RNG seed. The params
// travel with the intent so a replay regenerates the same map.
func (t *transition) regenerateTerrain() bool {
	s := t.next
	if s.Phase != rules.PhaseTurnStart {
		return false
	}
	params := s.Terrain.Params
	if t.intent.Terrain != nil {
		params = t.intent.Terrain.Clone()
	}
	terr, err := terrain.Build(terrain.NewRequest(s.Width, s.Height, s.RNGSeed, params))
	if err != nil {
		return false
	}
	s.Terrain = terr
	s.RNGSeed = terr.NextSeed
	t.emit(Event{
		Type:     EventTerrainGenerated,
		PlayerID: s.ActivePlayer,
		Amount:   len(terr.Road),
		Data:     fmt.Sprintf("%d river cells, next seed %d", len(terr.River), terr.NextSeed),
	})
	return true
}
