package combat

import (
	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/effects"
	"github.com/tactica/tactica-core/internal/game/rng"
)

// HitTarget is the value a d6 roll plus attack must reach: a roll hits when
// it meets or exceeds HitTarget minus the attacker's attack value.
const HitTarget = 7

// DieSides is the die used for attack rolls.
const DieSides = 6

// Outcome is the result of an attack roll.
type Outcome string

const (
	OutcomeHit  Outcome = "HIT"
	OutcomeMiss Outcome = "MISS"
)

// Attack is a selected attacker/target pair.
type Attack struct {
	AttackerID string `json:"attackerId"`
	TargetID   string `json:"targetId"`
}

// RollResult records a resolved roll.
type RollResult struct {
	AttackerID string  `json:"attackerId"`
	TargetID   string  `json:"targetId"`
	Value      int     `json:"value"`
	Modified   int     `json:"modified"`
	Threshold  int     `json:"threshold"`
	Outcome    Outcome `json:"outcome"`
	Rerolled   bool    `json:"rerolled,omitempty"`
	Cancelled  bool    `json:"cancelled,omitempty"`
}

// Hit reports whether the roll landed.
func (r RollResult) Hit() bool {
	return r.Outcome == OutcomeHit
}

// Threshold returns the modified roll needed to hit with attack.
func Threshold(attack int) int {
	return HitTarget - attack
}

// Judge compares a modified roll against the threshold for attack.
func Judge(modified, attack int) Outcome {
	if modified >= Threshold(attack) {
		return OutcomeHit
	}
	return OutcomeMiss
}

// ValidateAttack checks that both units exist, the attacker belongs to player
// and has not attacked, the target is an enemy and no effect vetoes it.
func ValidateAttack(f Field, attackerID, targetID string, player board.Player) error {
	attacker, ai := board.FindUnit(f.Units, attackerID)
	target, ti := board.FindUnit(f.Units, targetID)
	if ai < 0 || ti < 0 {
		return ErrUnitNotFound
	}
	if attacker.Owner != player {
		return ErrNotOwner
	}
	if attacker.Owner == target.Owner {
		return ErrSameSide
	}
	if attacker.HasAttacked {
		return ErrAlreadyAttacked
	}
	if !effects.CanAttack(f.Effects, f.Context, attacker, target) {
		return ErrAttackVetoed
	}
	return nil
}

// Roll draws one die for attack and applies attack roll hooks. It returns
// the advanced seed.
func Roll(seed rng.Seed, f Field, attack Attack) (RollResult, rng.Seed, error) {
	attacker, ai := board.FindUnit(f.Units, attack.AttackerID)
	target, ti := board.FindUnit(f.Units, attack.TargetID)
	if ai < 0 || ti < 0 {
		return RollResult{}, seed, ErrUnitNotFound
	}
	value, next := rng.Roll(seed, DieSides)
	modified := effects.ModifyAttackRoll(f.Effects, f.Context, attacker, target, value)
	return RollResult{
		AttackerID: attack.AttackerID,
		TargetID:   attack.TargetID,
		Value:      value,
		Modified:   modified,
		Threshold:  Threshold(attacker.Attack),
		Outcome:    Judge(modified, attacker.Attack),
	}, next, nil
}

// Reroll replaces a previous roll with a fresh one for the same pair.
func Reroll(seed rng.Seed, f Field, prev RollResult) (RollResult, rng.Seed, error) {
	r, next, err := Roll(seed, f, Attack{AttackerID: prev.AttackerID, TargetID: prev.TargetID})
	if err != nil {
		return prev, seed, err
	}
	r.Rerolled = true
	r.Cancelled = prev.Cancelled
	if r.Cancelled {
		r.Outcome = OutcomeMiss
	}
	return r, next, nil
}

// CancelHit turns a roll into a miss.
func CancelHit(r RollResult) RollResult {
	r.Cancelled = true
	r.Outcome = OutcomeMiss
	return r
}

// Apply removes the target on a hit and returns the new unit list and the
// removed unit, if any. The input slice is not modified.
func Apply(units []board.Unit, r RollResult) ([]board.Unit, *board.Unit) {
	out := make([]board.Unit, 0, len(units))
	var removed *board.Unit
	for _, u := range units {
		if r.Hit() && u.ID == r.TargetID {
			u := u
			removed = &u
			continue
		}
		out = append(out, u)
	}
	return out, removed
}
