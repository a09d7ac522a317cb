// Package script drives a match with a fixed policy: at every step it builds
// an ordered candidate list and submits the first intent the match accepts.
// It plays both sides and is used for headless runs and soak tests.
package script

import (
	"context"
	"errors"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/cards"
	"github.com/tactica/tactica-core/internal/game/match"
	"github.com/tactica/tactica-core/internal/game/reaction"
	"github.com/tactica/tactica-core/internal/game/rules"
	"go.uber.org/zap"
)

// DefaultStepLimit bounds a single scripted match.
const DefaultStepLimit = 5000

var (
	// ErrStepLimit is returned when a match does not finish within the limit.
	ErrStepLimit = errors.New("script: step limit reached before victory")
	// ErrStuck is returned when no candidate intent is accepted.
	ErrStuck = errors.New("script: no legal intent")
)

// Outcome is the result of a scripted match.
type Outcome struct {
	Final  *match.GameState
	Events []match.Event
	Steps  int
}

// Driver runs scripted matches.
type Driver struct {
	logger *zap.Logger
	limit  int
}

// New creates a driver. A non-positive limit selects DefaultStepLimit.
func New(logger *zap.Logger, limit int) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = DefaultStepLimit
	}
	return &Driver{logger: logger, limit: limit}
}

// Play starts a match from opts and steps it until VICTORY. The returned
// event log starts with match_started and replays to Final.
func (d *Driver) Play(ctx context.Context, opts match.Options) (Outcome, error) {
	state, err := match.StartMatch(opts)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Final: state, Events: []match.Event{match.MatchStarted(state)}}
	return d.Continue(ctx, out)
}

// Continue steps an existing outcome further until VICTORY.
func (d *Driver) Continue(ctx context.Context, out Outcome) (Outcome, error) {
	for out.Final.Phase != rules.PhaseVictory {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if out.Steps >= d.limit {
			d.logger.Warn("scripted match hit step limit",
				zap.Uint32("seed", out.Final.Seed),
				zap.Int("turn", out.Final.Turn),
				zap.Int("steps", out.Steps),
			)
			return out, ErrStepLimit
		}
		res, ok := Step(out.Final)
		if !ok {
			return out, ErrStuck
		}
		out.Final = res.Next
		out.Events = append(out.Events, res.Events...)
		out.Steps++
	}

	d.logger.Debug("scripted match finished",
		zap.Uint32("seed", out.Final.Seed),
		zap.Int("turn", out.Final.Turn),
		zap.Int("steps", out.Steps),
		zap.String("winner", string(winner(out.Final))),
	)
	return out, nil
}

// Applier submits an intent to whatever owns the match, such as an engine,
// and reports the result.
type Applier func(match.Intent) (match.Result, bool)

// Drive steps state through apply with the scripted policy until VICTORY.
// It returns the final state and the number of accepted intents.
func Drive(ctx context.Context, state *match.GameState, apply Applier, limit int) (*match.GameState, int, error) {
	steps := 0
	for state.Phase != rules.PhaseVictory {
		if err := ctx.Err(); err != nil {
			return state, steps, err
		}
		if steps >= limit {
			return state, steps, ErrStepLimit
		}
		applied := false
		for _, in := range Candidates(state) {
			if res, ok := apply(in); ok {
				state = res.Next
				applied = true
				break
			}
		}
		if !applied {
			return state, steps, ErrStuck
		}
		steps++
	}
	return state, steps, nil
}

// Step applies the first accepted candidate intent.
func Step(state *match.GameState) (match.Result, bool) {
	for _, in := range Candidates(state) {
		if res := match.ApplyIntent(state, in); res.Accepted() {
			return res, true
		}
	}
	return match.Result{Next: state}, false
}

// Candidates lists intents for the current phase in preference order. Not
// every candidate is legal; Step picks the first one that is.
func Candidates(s *match.GameState) []match.Intent {
	if s == nil {
		return nil
	}
	switch s.Phase {
	case rules.PhaseTurnStart:
		return []match.Intent{match.TurnStart()}
	case rules.PhaseCardDraw:
		return []match.Intent{
			match.DrawCard(match.SourceCommon),
			match.DrawCard(match.SourceTactical),
			match.NextPhase(),
		}
	case rules.PhaseCardResolution:
		return resolutionCandidates(s)
	case rules.PhaseMovement:
		return movementCandidates(s)
	case rules.PhaseAttack:
		return attackCandidates(s)
	case rules.PhaseDiceResolution:
		if !s.Rolled() {
			return []match.Intent{match.RollDice(rollReactions(s)...), match.RollDice(), match.NextPhase()}
		}
		return []match.Intent{match.ResolveAttack(resolveReactions(s)...), match.ResolveAttack()}
	case rules.PhaseEndTurn:
		return []match.Intent{match.EndTurn(), match.NextPhase()}
	}
	return nil
}

func resolutionCandidates(s *match.GameState) []match.Intent {
	def, ok := match.Catalog().Lookup(s.PendingCard)
	if !ok {
		return []match.Intent{match.NextPhase()}
	}
	var out []match.Intent
	switch {
	case def.IsTactic(), def.Timing == cards.TimingStored:
		out = append(out, match.StoreBonus())
	default:
		if targets, ok := pickTargets(s.Units, def.Targeting, s.ActivePlayer); ok {
			out = append(out, match.PlayCard(def.ID, targets...))
		}
	}
	return append(out, match.NextPhase())
}

// movementCandidates plays stored bonuses first, then closes distance to the
// enemy one unit at a time.
func movementCandidates(s *match.GameState) []match.Intent {
	out := storedBonusPlays(s)
	if s.MovesRemaining > 0 {
		for _, u := range s.Units {
			if u.Owner != s.ActivePlayer || u.HasMoved {
				continue
			}
			current := nearestDistance(s.Units, u.Pos, u.Owner)
			best, bestDist := board.Cell{}, current
			for _, c := range match.GetMoveRange(s, u.ID) {
				if d := nearestDistance(s.Units, c, u.Owner); d < bestDist {
					best, bestDist = c, d
				}
			}
			if bestDist < current {
				out = append(out, match.MoveUnit(u.ID, best, moveReactions(s, u.ID)...))
			}
		}
	}
	return append(out, match.NextPhase())
}

func attackCandidates(s *match.GameState) []match.Intent {
	out := storedBonusPlays(s)
	for _, u := range s.Units {
		if u.Owner != s.ActivePlayer || u.HasAttacked {
			continue
		}
		if target, ok := nearestEnemy(s.Units, u.Pos, u.Owner); ok {
			out = append(out, match.AttackSelect(u.ID, target.ID))
		}
	}
	return append(out, match.NextPhase())
}

func storedBonusPlays(s *match.GameState) []match.Intent {
	var out []match.Intent
	for _, id := range s.StoredBy(s.ActivePlayer) {
		def, ok := match.Catalog().Lookup(id)
		if !ok || def.Kind != cards.KindBonus {
			continue
		}
		if targets, ok := pickTargets(s.Units, def.Targeting, s.ActivePlayer); ok {
			out = append(out, match.PlayCard(id, targets...))
		}
	}
	return out
}

// moveReactions has the defender pin the mover and the mover call overwatch
// once a move has already happened this turn.
func moveReactions(s *match.GameState, unitID string) []reaction.Play {
	var plays []reaction.Play
	defender := s.ActivePlayer.Opponent()
	if id, ok := storedFor(s, defender, rules.WindowBeforeMove); ok {
		plays = append(plays, reaction.Play{Player: defender, CardID: id, Window: rules.WindowBeforeMove, Targets: []string{unitID}})
	}
	if s.LastMove != nil {
		if id, ok := storedFor(s, s.ActivePlayer, rules.WindowAfterMove); ok {
			plays = append(plays, reaction.Play{Player: s.ActivePlayer, CardID: id, Window: rules.WindowAfterMove})
		}
	}
	return plays
}

func rollReactions(s *match.GameState) []reaction.Play {
	if s.PendingAttack == nil {
		return nil
	}
	defender := s.ActivePlayer.Opponent()
	id, ok := storedFor(s, defender, rules.WindowBeforeAttackRoll)
	if !ok {
		return nil
	}
	return []reaction.Play{{Player: defender, CardID: id, Window: rules.WindowBeforeAttackRoll, Targets: []string{s.PendingAttack.TargetID}}}
}

// resolveReactions rerolls a miss for the attacker. On a hit the defender
// cancels it if they can and rerolls otherwise.
func resolveReactions(s *match.GameState) []reaction.Play {
	if s.LastRoll == nil {
		return nil
	}
	if !s.LastRoll.Hit() {
		if id, ok := storedFor(s, s.ActivePlayer, rules.WindowAfterAttackRoll); ok {
			return []reaction.Play{{Player: s.ActivePlayer, CardID: id, Window: rules.WindowAfterAttackRoll}}
		}
		return nil
	}
	defender := s.ActivePlayer.Opponent()
	if id, ok := storedFor(s, defender, rules.WindowBeforeDamage); ok {
		return []reaction.Play{{Player: defender, CardID: id, Window: rules.WindowBeforeDamage}}
	}
	if id, ok := storedFor(s, defender, rules.WindowAfterAttackRoll); ok {
		return []reaction.Play{{Player: defender, CardID: id, Window: rules.WindowAfterAttackRoll}}
	}
	return nil
}

// storedFor finds the first stored tactic of player declared for window.
func storedFor(s *match.GameState, player board.Player, window rules.Window) (string, bool) {
	for _, id := range s.StoredBy(player) {
		def, ok := match.Catalog().Lookup(id)
		if ok && def.IsTactic() && def.ReactionWindow == window {
			return id, true
		}
	}
	return "", false
}

func pickTargets(units []board.Unit, req cards.Targeting, player board.Player) ([]string, bool) {
	if req.Count == 0 {
		return nil, true
	}
	tv := cards.NewTargetValidator(units)
	var targets []string
	for _, u := range units {
		if len(targets) == req.Count {
			break
		}
		if tv.ValidateTarget(u.ID, req, player) == nil {
			targets = append(targets, u.ID)
		}
	}
	return targets, len(targets) == req.Count
}

func nearestEnemy(units []board.Unit, from board.Cell, owner board.Player) (board.Unit, bool) {
	var best board.Unit
	bestDist := -1
	for _, u := range units {
		if u.Owner == owner {
			continue
		}
		if d := board.Manhattan(from, u.Pos); bestDist < 0 || d < bestDist {
			best, bestDist = u, d
		}
	}
	return best, bestDist >= 0
}

func nearestDistance(units []board.Unit, from board.Cell, owner board.Player) int {
	u, ok := nearestEnemy(units, from, owner)
	if !ok {
		return 0
	}
	return board.Manhattan(from, u.Pos)
}

func winner(s *match.GameState) board.Player {
	if s.Winner == nil {
		return ""
	}
	return *s.Winner
}
