package match

import (
	"fmt"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/cards"
	"github.com/tactica/tactica-core/internal/game/combat"
	"github.com/tactica/tactica-core/internal/game/effects"
	"github.com/tactica/tactica-core/internal/game/reaction"
	"github.com/tactica/tactica-core/internal/game/rng"
	"github.com/tactica/tactica-core/internal/game/rules"
)

func (t *transition) drawCard() bool {
	s := t.next
	if s.Phase != rules.PhaseCardDraw || s.PendingCard != "" {
		return false
	}
	source := t.intent.Source
	if source == "" {
		source = SourceCommon
	}

	var card string
	var ok bool
	switch source {
	case SourceCommon:
		card, s.CommonDeck, ok = cards.Draw(s.CommonDeck)
	case SourceTactical:
		if len(s.SelectedTactics) > 0 {
			card, s.SelectedTactics, ok = cards.Draw(s.SelectedTactics)
		} else {
			card, s.TacticalDeck, ok = cards.Draw(s.TacticalDeck)
		}
	}
	if !ok {
		return false
	}
	s.PendingCard = card
	t.emit(Event{Type: EventCardDrawn, PlayerID: s.ActivePlayer, SourceID: card, Data: string(source)})
	t.enterPhase(rules.PhaseCardResolution)
	return true
}

func (t *transition) storeBonus() bool {
	s := t.next
	if s.Phase != rules.PhaseCardResolution || s.PendingCard == "" {
		return false
	}
	def, ok := catalog.Lookup(s.PendingCard)
	if !ok || !def.Storable() {
		return false
	}
	s.StoredBonuses = append(s.StoredBonuses, StoredCard{Owner: s.ActivePlayer, CardID: def.ID})
	s.PendingCard = ""
	t.emit(Event{Type: EventCardStored, PlayerID: s.ActivePlayer, SourceID: def.ID})
	t.leaveCardResolution()
	return true
}

// playCard resolves either the pending card during CARD_RESOLUTION or a
// stored bonus during MOVEMENT or ATTACK.
func (t *transition) playCard() bool {
	s := t.next
	cardID := t.intent.CardID
	player := s.ActivePlayer

	switch s.Phase {
	case rules.PhaseCardResolution:
		if s.PendingCard == "" {
			return false
		}
		if cardID == "" {
			cardID = s.PendingCard
		}
		if cardID != s.PendingCard {
			return false
		}
		def, ok := catalog.Lookup(cardID)
		if !ok || def.IsTactic() || t.validateTargets(def, player, t.intent.Targets) != nil {
			return false
		}
		s.PendingCard = ""
		t.resolveCard(def, player, t.intent.Targets)
		t.leaveCardResolution()
		return true

	case rules.PhaseMovement, rules.PhaseAttack:
		def, ok := catalog.Lookup(cardID)
		if !ok || def.Kind != cards.KindBonus || !s.hasStored(player, cardID) {
			return false
		}
		if t.validateTargets(def, player, t.intent.Targets) != nil {
			return false
		}
		s.takeStored(player, cardID)
		t.resolveCard(def, player, t.intent.Targets)
		return true
	}
	return false
}

func (t *transition) leaveCardResolution() {
	next, _ := rules.Next(rules.PhaseCardResolution, t.next.pending())
	t.enterPhase(next)
}

func (t *transition) validateTargets(def cards.Definition, player board.Player, targets []string) error {
	return cards.NewTargetValidator(t.next.Units).ValidateTargets(targets, def.Targeting, player)
}

// resolveCard discards the card and instantiates its lasting effects.
func (t *transition) resolveCard(def cards.Definition, player board.Player, targets []string) {
	s := t.next
	s.Discard = append(s.Discard, def.ID)
	t.emit(Event{Type: EventCardPlayed, PlayerID: player, SourceID: def.ID, Targets: append([]string(nil), targets...)})
	t.addEffects(def, player, targets)
}

func (t *transition) addEffects(def cards.Definition, player board.Player, targets []string) {
	s := t.next
	for _, ed := range def.Effects {
		if ed.Kind.Instant() {
			t.applyInstant(ed.Kind, player)
			continue
		}
		id := effects.FormatID(s.NextEffectID)
		s.NextEffectID++
		e := effects.Instantiate(ed, id, def.ID, player, targets, s.Turn)
		s.ActiveEffects = append(s.ActiveEffects, e)
		t.emit(Event{Type: EventEffectAdded, PlayerID: player, TargetID: id, SourceID: def.ID, Amount: e.Amount, Data: string(e.Kind), Targets: append([]string(nil), e.Targets...)})
	}
}

// applyInstant resolves kinds that act on the current roll.
func (t *transition) applyInstant(kind effects.Kind, player board.Player) {
	s := t.next
	if s.LastRoll == nil {
		return
	}
	switch kind {
	case effects.KindReroll:
		r, next, err := combat.Reroll(rng.Seed(s.RNGSeed), s.field(), *s.LastRoll)
		if err != nil {
			return
		}
		s.RNGSeed = uint32(next)
		s.LastRoll = &r
		t.emit(Event{Type: EventDiceRolled, PlayerID: player, SourceID: r.AttackerID, TargetID: r.TargetID, Amount: r.Value, Flag: true, Data: string(r.Outcome), Roll: &r})
	case effects.KindCancelHit:
		r := combat.CancelHit(*s.LastRoll)
		s.LastRoll = &r
	}
}

// resolveReactions plays each submitted tactic in submission order. Plays
// that are not legal right now are skipped and the rest still resolve. It
// returns how many resolved.
func (t *transition) resolveReactions(plays []reaction.Play) int {
	resolved := 0
	for _, play := range plays {
		if reason := t.checkReaction(play); reason != "" {
			t.emit(Event{Type: EventReactionSkipped, PlayerID: play.Player, SourceID: play.CardID, Data: reason})
			continue
		}
		s := t.next
		def, _ := catalog.Lookup(play.CardID)
		s.takeStored(play.Player, play.CardID)
		s.Discard = append(s.Discard, def.ID)
		t.emit(Event{Type: EventReactionResolved, PlayerID: play.Player, SourceID: def.ID, Data: string(play.Window), Targets: append([]string(nil), play.Targets...)})
		t.addEffects(def, play.Player, play.Targets)
		resolved++
	}
	return resolved
}

// exposedWindows lists the windows each reaction-carrying intent feeds.
var exposedWindows = map[IntentType][]rules.Window{
	IntentMoveUnit:      {rules.WindowBeforeMove, rules.WindowAfterMove},
	IntentRollDice:      {rules.WindowBeforeAttackRoll},
	IntentResolveAttack: {rules.WindowAfterAttackRoll, rules.WindowBeforeDamage},
}

func (t *transition) checkReaction(play reaction.Play) string {
	s := t.next
	if !play.Player.Valid() {
		return "unknown player"
	}
	if !reaction.Accepts(play.Window, exposedWindows[t.intent.Type]) {
		return fmt.Sprintf("%s does not carry %s", t.intent.Type, play.Window)
	}
	def, ok := catalog.Lookup(play.CardID)
	if !ok {
		return "unknown card"
	}
	if !s.hasStored(play.Player, play.CardID) {
		return "card not stored by player"
	}
	if !reaction.CanPlayTactic(def, play.Window, s.reactionView()) {
		return fmt.Sprintf("cannot play into %s", play.Window)
	}
	if err := t.validateTargets(def, play.Player, play.Targets); err != nil {
		return err.Error()
	}
	return ""
}
