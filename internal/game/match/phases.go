package match

import (
	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/cards"
	"github.com/tactica/tactica-core/internal/game/effects"
	"github.com/tactica/tactica-core/internal/game/rules"
)

func (t *transition) nextPhase() bool {
	s := t.next
	switch s.Phase {
	case rules.PhaseEndTurn:
		t.endTurn()
		return true
	case rules.PhaseDiceResolution:
		if s.PendingAttack != nil {
			return false
		}
	case rules.PhaseCardResolution:
		if s.PendingCard != "" {
			if mustResolve(s) {
				return false
			}
			t.declinePending()
		}
	}
	next, wraps := rules.Next(s.Phase, s.pending())
	if wraps {
		t.endTurn()
		return true
	}
	if next == s.Phase {
		return false
	}
	t.enterPhase(next)
	return true
}

func (t *transition) turnStart() bool {
	if t.next.Phase != rules.PhaseTurnStart {
		return false
	}
	t.enterPhase(rules.PhaseCardDraw)
	return true
}

func (t *transition) endTurnIntent() bool {
	s := t.next
	if !rules.InTurn(s.Phase) || s.PendingCard != "" || s.PendingAttack != nil {
		return false
	}
	t.endTurn()
	return true
}

// mustResolve reports whether the pending card is a malus that can take
// effect. A malus with no legal targets may be declined.
func mustResolve(s *GameState) bool {
	def, ok := catalog.Lookup(s.PendingCard)
	if !ok || def.Kind != cards.KindMalus {
		return false
	}
	return cards.NewTargetValidator(s.Units).HasLegalTargets(def.Targeting, s.ActivePlayer)
}

func (t *transition) declinePending() {
	s := t.next
	card := s.PendingCard
	s.PendingCard = ""
	s.Discard = append(s.Discard, card)
	t.emit(Event{Type: EventCardDeclined, PlayerID: s.ActivePlayer, SourceID: card})
}

// enterPhase switches phase, runs phase-start hooks in effect order and then
// prunes effects whose duration is satisfied.
func (t *transition) enterPhase(p rules.Phase) {
	s := t.next
	s.Phase = p
	t.emit(Event{Type: EventPhaseChanged, PlayerID: s.ActivePlayer, Data: p.String()})

	for _, out := range effects.OnPhaseStart(s.ActiveEffects, s.effectContext(), p) {
		if out.ExtraMoves != 0 {
			s.MovesRemaining += out.ExtraMoves
			t.emit(Event{Type: EventEffectTriggered, PlayerID: s.ActivePlayer, TargetID: out.EffectID, Amount: out.ExtraMoves, Data: string(out.Kind)})
		}
	}

	kept, expired := effects.Prune(s.ActiveEffects, p, s.Turn)
	s.ActiveEffects = kept
	for _, e := range expired {
		t.emit(Event{Type: EventEffectExpired, PlayerID: e.Owner, TargetID: e.ID, SourceID: e.SourceCardID})
	}
}

// endTurn closes the active player's turn and opens the opponent's. A
// detected victory ends the match instead.
func (t *transition) endTurn() {
	if t.checkVictory() {
		return
	}
	s := t.next
	t.emit(Event{Type: EventTurnEnded, PlayerID: s.ActivePlayer})

	s.Turn++
	for i := range s.Units {
		s.Units[i].HasMoved = false
		s.Units[i].HasAttacked = false
	}
	s.MovesRemaining = s.Config.MovesPerTurn
	s.LastMove = nil
	s.ActivePlayer = s.ActivePlayer.Opponent()

	t.enterPhase(rules.PhaseTurnStart)
	t.emit(Event{Type: EventTurnStarted, PlayerID: s.ActivePlayer})
}

// checkVictory ends the match when a player has no units left.
func (t *transition) checkVictory() bool {
	s := t.next
	var winner board.Player
	switch {
	case board.CountOwned(s.Units, board.PlayerB) == 0:
		winner = board.PlayerA
	case board.CountOwned(s.Units, board.PlayerA) == 0:
		winner = board.PlayerB
	default:
		return false
	}
	s.Winner = &winner
	s.PendingCard = ""
	s.PendingAttack = nil
	s.Phase = rules.PhaseVictory
	t.emit(Event{Type: EventPhaseChanged, PlayerID: s.ActivePlayer, Data: rules.PhaseVictory.String()})
	t.emit(Event{Type: EventVictory, PlayerID: winner})
	return true
}
