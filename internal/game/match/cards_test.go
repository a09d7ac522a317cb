package match

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/cards"
	"github.com/tactica/tactica-core/internal/game/effects"
	"github.com/tactica/tactica-core/internal/game/reaction"
	"github.com/tactica/tactica-core/internal/game/rules"
)

// stackDeck puts cards on top of the common deck.
func (r *recorder) stackDeck(ids ...string) {
	s := r.state.Clone()
	s.CommonDeck = append(ids, s.CommonDeck...)
	r.state = s
}

func (r *recorder) store(owner board.Player, ids ...string) {
	s := r.state.Clone()
	for _, c := range ids {
		s.StoredBonuses = append(s.StoredBonuses, StoredCard{Owner: owner, CardID: c})
	}
	r.state = s
}

func (r *recorder) drawTop(card string) {
	r.t.Helper()
	r.advanceTo(rules.PhaseCardDraw)
	r.stackDeck(card)
	r.apply(DrawCard(SourceCommon))
	require.Equal(r.t, card, r.state.PendingCard)
}

func TestDrawCardFromCommonDeck(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.advanceTo(rules.PhaseCardDraw)
	top := r.state.CommonDeck[0]
	size := len(r.state.CommonDeck)

	events := r.apply(DrawCard(SourceCommon))
	assert.Equal(t, []EventType{EventIntentApplied, EventCardDrawn, EventPhaseChanged}, eventTypes(events))
	assert.Equal(t, top, r.state.PendingCard)
	assert.Len(t, r.state.CommonDeck, size-1)
	assert.Equal(t, rules.PhaseCardResolution, r.state.Phase)

	assertRejected(t, r.state, DrawCard(SourceCommon))
}

func TestDrawFromEmptyDeckIsNoOp(t *testing.T) {
	r := newRecorder(t, 3, &Overrides{CommonDeck: []cards.DeckEntry{}})
	r.advanceTo(rules.PhaseCardDraw)
	assert.Empty(t, r.state.CommonDeck)
	assertRejected(t, r.state, DrawCard(SourceCommon))
}

func TestTacticalDrawPrefersSelectedTactics(t *testing.T) {
	r := newRecorder(t, 3, &Overrides{SelectedTactics: []string{"take-cover"}})
	r.advanceTo(rules.PhaseCardDraw)
	tacticalTop := r.state.TacticalDeck[0]

	r.apply(DrawCard(SourceTactical))
	assert.Equal(t, "take-cover", r.state.PendingCard)
	assert.Empty(t, r.state.SelectedTactics)

	// Tactics cannot be played outside a reaction window, only stored.
	assertRejected(t, r.state, PlayCard("take-cover"))
	r.apply(StoreBonus())
	assert.Equal(t, []string{"take-cover"}, r.state.StoredBy(board.PlayerA))

	r.apply(EndTurn())
	r.advanceTo(rules.PhaseCardDraw)
	r.apply(DrawCard(SourceTactical))
	assert.Equal(t, tacticalTop, r.state.PendingCard)
}

func TestPlayTargetedCard(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.drawTop("ambush")

	assertRejected(t, r.state, PlayCard("ambush"))
	assertRejected(t, r.state, PlayCard("ambush", "A-INFANTRY-1"))
	assertRejected(t, r.state, PlayCard("mud"))

	events := r.apply(PlayCard("ambush", "B-INFANTRY-1"))
	assert.Equal(t, []EventType{EventIntentApplied, EventCardPlayed, EventEffectAdded, EventPhaseChanged}, eventTypes(events))
	assert.Equal(t, rules.PhaseMovement, r.state.Phase)
	assert.Empty(t, r.state.PendingCard)
	assert.Equal(t, []string{"ambush"}, r.state.Discard)

	require.Len(t, r.state.ActiveEffects, 1)
	e := r.state.ActiveEffects[0]
	assert.Equal(t, "eff-1", e.ID)
	assert.Equal(t, effects.KindImmobilize, e.Kind)
	assert.Equal(t, []string{"B-INFANTRY-1"}, e.Targets)
	assert.Equal(t, 3, e.ExpiresTurn)
	assert.Equal(t, 2, r.state.NextEffectID)
}

func TestEffectExpiresAtTurnBoundary(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.drawTop("ambush")
	r.apply(PlayCard("ambush", "B-INFANTRY-1"))

	r.apply(EndTurn())
	assert.Len(t, r.state.ActiveEffects, 1, "still active during turn 2")
	r.advanceTo(rules.PhaseMovement)
	assertRejected(t, r.state, MoveUnit("B-INFANTRY-1", board.Cell{X: 0, Y: 6}))

	events := r.apply(EndTurn())
	assert.Empty(t, r.state.ActiveEffects)
	assert.Contains(t, eventTypes(events), EventEffectExpired)
	assert.Equal(t, 3, r.state.Turn)
}

func TestDeclinePendingCard(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.drawTop("forced-march")
	events := r.apply(NextPhase())
	assert.Equal(t, []EventType{EventIntentApplied, EventCardDeclined, EventPhaseChanged}, eventTypes(events))
	assert.Equal(t, []string{"forced-march"}, r.state.Discard)
	assert.Equal(t, rules.PhaseMovement, r.state.Phase)
	assert.Empty(t, r.state.ActiveEffects)
}

func TestMalusCannotBeDeclined(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.drawTop("mud")
	assertRejected(t, r.state, NextPhase())
	assertRejected(t, r.state, StoreBonus())

	events := r.apply(PlayCard("mud"))
	assert.Equal(t, []EventType{EventIntentApplied, EventCardPlayed, EventEffectAdded, EventPhaseChanged}, eventTypes(events))
	assert.Equal(t, rules.PhaseMovement, r.state.Phase)
	require.Len(t, r.state.ActiveEffects, 1)
	assert.Equal(t, effects.KindMovementDelta, r.state.ActiveEffects[0].Kind)

	r = newRecorder(t, 3, nil)
	r.drawTop("jammed-rifles")
	assertRejected(t, r.state, NextPhase())
	r.apply(PlayCard("jammed-rifles", "A-SPECIAL-1"))
	assert.Empty(t, r.state.PendingCard)
}

func TestMalusWithoutTargetsMayBeDeclined(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.drawTop("jammed-rifles")
	s := r.state.Clone()
	s.Units = slices.DeleteFunc(s.Units, func(u board.Unit) bool { return u.Owner == board.PlayerA })
	r.state = s

	events := r.apply(NextPhase())
	assert.Equal(t, EventCardDeclined, events[1].Type)
	assert.Equal(t, []string{"jammed-rifles"}, r.state.Discard)
}

func TestStoreBonusAndPlayLater(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.drawTop("mud")
	assertRejected(t, r.state, StoreBonus())

	r = newRecorder(t, 3, nil)
	r.drawTop("sharpshooter")
	r.apply(StoreBonus())
	assert.Equal(t, []StoredCard{{Owner: board.PlayerA, CardID: "sharpshooter"}}, r.state.StoredBonuses)
	assert.Equal(t, rules.PhaseMovement, r.state.Phase)

	assertRejected(t, r.state, PlayCard("forced-march"))
	assertRejected(t, r.state, PlayCard("sharpshooter", "B-INFANTRY-1"))

	r.advanceTo(rules.PhaseAttack)
	events := r.apply(PlayCard("sharpshooter", "A-VEHICLE-1"))
	assert.Equal(t, []EventType{EventIntentApplied, EventCardPlayed, EventEffectAdded}, eventTypes(events))
	assert.Empty(t, r.state.StoredBonuses)
	assert.Equal(t, rules.PhaseAttack, r.state.Phase)
}

func TestStoredCardsBelongToOwner(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.store(board.PlayerB, "forced-march")
	r.advanceTo(rules.PhaseMovement)
	assertRejected(t, r.state, PlayCard("forced-march"))
}

func TestExtraMovesOnMovementStart(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.drawTop("field-rations")
	events := r.apply(PlayCard("field-rations"))
	assert.Contains(t, eventTypes(events), EventEffectTriggered)
	assert.Equal(t, rules.PhaseMovement, r.state.Phase)
	assert.Equal(t, 3, r.state.MovesRemaining)
}

func TestMovementDeltaWidensRange(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.drawTop("forced-march")
	before := GetMoveRange(r.state, "A-INFANTRY-1")
	r.apply(PlayCard("forced-march"))
	after := GetMoveRange(r.state, "A-INFANTRY-1")
	assert.Greater(t, len(after), len(before))
	assert.Contains(t, after, board.Cell{X: 0, Y: 3})
}

func TestCoveringFireCancelsMove(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.store(board.PlayerB, "covering-fire")
	r.advanceTo(rules.PhaseMovement)

	pin := reaction.Play{Player: board.PlayerB, CardID: "covering-fire", Window: rules.WindowBeforeMove, Targets: []string{"A-INFANTRY-1"}}
	events := r.apply(MoveUnit("A-INFANTRY-1", board.Cell{X: 0, Y: 1}, pin))
	assert.Equal(t, []EventType{EventIntentApplied, EventReactionResolved, EventEffectAdded, EventMoveCancelled}, eventTypes(events))
	assert.Equal(t, board.Cell{X: 0, Y: 0}, unitPos(t, r.state, "A-INFANTRY-1"))
	assert.Empty(t, r.state.StoredBonuses)
	assert.Equal(t, []string{"covering-fire"}, r.state.Discard)
	assert.Equal(t, 2, r.state.MovesRemaining)

	// A different unit is free to move; the pin ends with the turn.
	r.apply(MoveUnit("A-INFANTRY-2", board.Cell{X: 1, Y: 1}))
	r.advanceTo(rules.PhaseEndTurn)
	assert.Empty(t, r.state.ActiveEffects)
}

func TestInvalidReactionsAloneDoNotRescueIllegalMove(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.advanceTo(rules.PhaseMovement)
	ghost := reaction.Play{Player: board.PlayerB, CardID: "covering-fire", Window: rules.WindowBeforeMove, Targets: []string{"A-INFANTRY-1"}}
	assertRejected(t, r.state, MoveUnit("A-INFANTRY-1", board.Cell{X: 0, Y: 5}, ghost))

	events := r.apply(MoveUnit("A-INFANTRY-1", board.Cell{X: 0, Y: 1}, ghost))
	assert.Equal(t, []EventType{EventIntentApplied, EventReactionSkipped, EventUnitMoved}, eventTypes(events))
}

func TestReactionWindowMustMatchCarrier(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.store(board.PlayerB, "smoke-screen")
	r.advanceTo(rules.PhaseAttack)
	r.apply(AttackSelect("A-INFANTRY-1", "B-INFANTRY-1"))
	r.apply(RollDice())

	late := reaction.Play{Player: board.PlayerB, CardID: "smoke-screen", Window: rules.WindowBeforeAttackRoll, Targets: []string{"B-INFANTRY-1"}}
	events := r.apply(ResolveAttack(late))
	require.Equal(t, EventReactionSkipped, events[1].Type)
	assert.Equal(t, "RESOLVE_ATTACK does not carry beforeAttackRoll", events[1].Data)
	assert.True(t, r.state.hasStored(board.PlayerB, "smoke-screen"))
}

func TestOverwatchAfterMove(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.store(board.PlayerA, "overwatch")
	r.advanceTo(rules.PhaseMovement)

	early := reaction.Play{Player: board.PlayerA, CardID: "overwatch", Window: rules.WindowAfterMove}
	events := r.apply(MoveUnit("A-INFANTRY-1", board.Cell{X: 0, Y: 1}, early))
	assert.Contains(t, eventTypes(events), EventReactionSkipped, "no move has happened yet")

	events = r.apply(MoveUnit("A-INFANTRY-2", board.Cell{X: 1, Y: 1}, early))
	assert.Contains(t, eventTypes(events), EventReactionResolved)
	require.Len(t, r.state.ActiveEffects, 1)
	assert.Equal(t, effects.KindAttackRollDelta, r.state.ActiveEffects[0].Kind)
}

func TestSmokeScreenShieldsTarget(t *testing.T) {
	r := newRecorder(t, 3, nil)
	r.store(board.PlayerB, "smoke-screen")
	r.advanceTo(rules.PhaseAttack)
	r.apply(AttackSelect("A-INFANTRY-1", "B-INFANTRY-1"))

	smoke := reaction.Play{Player: board.PlayerB, CardID: "smoke-screen", Window: rules.WindowBeforeAttackRoll, Targets: []string{"B-INFANTRY-1"}}
	events := r.apply(RollDice(smoke))
	assert.Equal(t, []EventType{EventIntentApplied, EventReactionResolved, EventEffectAdded, EventDiceRolled}, eventTypes(events))
	require.NotNil(t, r.state.LastRoll)
	assert.Equal(t, r.state.LastRoll.Value-2, r.state.LastRoll.Modified)
}

func TestReactionsResolveInSubmissionOrder(t *testing.T) {
	r := newRecorder(t, 3, &Overrides{UnitAttackByType: allTypes(99)})
	r.store(board.PlayerB, "second-wind", "take-cover")
	r.advanceTo(rules.PhaseAttack)
	r.apply(AttackSelect("A-INFANTRY-1", "B-INFANTRY-1"))
	r.apply(RollDice())
	require.True(t, r.state.LastRoll.Hit())
	units := len(r.state.Units)

	plays := []reaction.Play{
		{Player: board.PlayerB, CardID: "second-wind", Window: rules.WindowAfterAttackRoll},
		{Player: board.PlayerA, CardID: "take-cover", Window: rules.WindowBeforeDamage},
		{Player: board.PlayerB, CardID: "take-cover", Window: rules.WindowBeforeDamage},
	}
	events := r.apply(ResolveAttack(plays...))
	assert.Equal(t, []EventType{
		EventIntentApplied,
		EventReactionResolved,
		EventDiceRolled,
		EventReactionSkipped,
		EventReactionResolved,
		EventAttackResolved,
		EventPhaseChanged,
	}, eventTypes(events))
	assert.Equal(t, "second-wind", events[1].SourceID)
	assert.True(t, events[2].Flag, "reroll")
	assert.Equal(t, board.PlayerA, events[3].PlayerID)
	assert.Equal(t, "take-cover", events[4].SourceID)

	assert.Len(t, r.state.Units, units, "cancelled hit removes nothing")
	assert.Nil(t, r.state.PendingAttack)
	assert.False(t, r.state.LastRoll.Hit())
	assert.True(t, r.state.LastRoll.Rerolled)
	assert.Equal(t, rules.PhaseAttack, r.state.Phase)
	assert.Equal(t, []string{"second-wind", "take-cover"}, r.state.Discard)
}

func TestReactionInClosedWindowIsSkipped(t *testing.T) {
	r := newRecorder(t, 3, &Overrides{UnitAttackByType: allTypes(99)})
	r.store(board.PlayerB, "smoke-screen")
	r.advanceTo(rules.PhaseAttack)
	r.apply(AttackSelect("A-INFANTRY-1", "B-INFANTRY-1"))
	r.apply(RollDice())

	late := reaction.Play{Player: board.PlayerB, CardID: "smoke-screen", Window: rules.WindowBeforeAttackRoll, Targets: []string{"B-INFANTRY-1"}}
	events := r.apply(ResolveAttack(late))
	assert.Contains(t, eventTypes(events), EventReactionSkipped)
	assert.Contains(t, eventTypes(events), EventUnitRemoved)
	assert.Equal(t, []string{"smoke-screen"}, r.state.StoredBy(board.PlayerB))
}
