package cards

import (
	"github.com/tactica/tactica-core/internal/game/effects"
	"github.com/tactica/tactica-core/internal/game/rules"
)

// DeckEntry is a card id and how many copies go into a deck.
type DeckEntry struct {
	CardID string `json:"cardId" mapstructure:"cardId"`
	Copies int    `json:"copies" mapstructure:"copies"`
}

var defaultDefinitions = []Definition{
	{
		ID:          "forced-march",
		Name:        "Forced March",
		Description: "Your units move one extra cell this turn.",
		Kind:        KindBonus,
		Timing:      TimingImmediate,
		Effects: []effects.Definition{
			effects.NewDefinitionBuilder(effects.KindMovementDelta).Amount(1).OnOwnUnits().Build(),
		},
	},
	{
		ID:          "field-rations",
		Name:        "Field Rations",
		Description: "One extra move at the start of your movement phases.",
		Kind:        KindBonus,
		Timing:      TimingStored,
		Effects: []effects.Definition{
			effects.NewDefinitionBuilder(effects.KindExtraMoves).Amount(1).OnOwnUnits().ForTurns(3).Build(),
		},
	},
	{
		ID:          "sharpshooter",
		Name:        "Sharpshooter",
		Description: "A friendly unit adds 2 to its attack rolls this turn.",
		Kind:        KindBonus,
		Timing:      TimingStored,
		Targeting:   Targeting{Count: 1, Owner: TargetSelf},
		Effects: []effects.Definition{
			effects.NewDefinitionBuilder(effects.KindAttackRollDelta).Amount(2).Build(),
		},
	},
	{
		ID:          "ambush",
		Name:        "Ambush",
		Description: "An enemy unit cannot move until the end of its next turn.",
		Kind:        KindBonus,
		Timing:      TimingImmediate,
		Targeting:   Targeting{Count: 1, Owner: TargetEnemy},
		Effects: []effects.Definition{
			effects.NewDefinitionBuilder(effects.KindImmobilize).ForTurns(2).Build(),
		},
	},
	{
		ID:          "mud",
		Name:        "Mud",
		Description: "Your units move one cell less this turn.",
		Kind:        KindMalus,
		Timing:      TimingImmediate,
		Effects: []effects.Definition{
			effects.NewDefinitionBuilder(effects.KindMovementDelta).Amount(-1).OnOwnUnits().Build(),
		},
	},
	{
		ID:          "jammed-rifles",
		Name:        "Jammed Rifles",
		Description: "One of your units cannot attack this turn.",
		Kind:        KindMalus,
		Timing:      TimingImmediate,
		Targeting:   Targeting{Count: 1, Owner: TargetSelf},
		Effects: []effects.Definition{
			effects.NewDefinitionBuilder(effects.KindDisarm).Build(),
		},
	},
	{
		ID:             "covering-fire",
		Name:           "Covering Fire",
		Description:    "Pin an enemy unit before it moves.",
		Kind:           KindTactic,
		Timing:         TimingReaction,
		Targeting:      Targeting{Count: 1, Owner: TargetEnemy},
		ReactionWindow: rules.WindowBeforeMove,
		Effects: []effects.Definition{
			effects.NewDefinitionBuilder(effects.KindImmobilize).UntilPhase(rules.PhaseEndTurn).Build(),
		},
	},
	{
		ID:             "overwatch",
		Name:           "Overwatch",
		Description:    "After a move, your units add 1 to attack rolls this turn.",
		Kind:           KindTactic,
		Timing:         TimingReaction,
		ReactionWindow: rules.WindowAfterMove,
		Effects: []effects.Definition{
			effects.NewDefinitionBuilder(effects.KindAttackRollDelta).Amount(1).OnOwnUnits().Build(),
		},
	},
	{
		ID:             "smoke-screen",
		Name:           "Smoke Screen",
		Description:    "Attack rolls against a friendly unit suffer -2 this turn.",
		Kind:           KindTactic,
		Timing:         TimingReaction,
		Targeting:      Targeting{Count: 1, Owner: TargetSelf},
		ReactionWindow: rules.WindowBeforeAttackRoll,
		Effects: []effects.Definition{
			effects.NewDefinitionBuilder(effects.KindShield).Amount(2).UntilPhase(rules.PhaseEndTurn).Build(),
		},
	},
	{
		ID:             "second-wind",
		Name:           "Second Wind",
		Description:    "Reroll the attack die.",
		Kind:           KindTactic,
		Timing:         TimingReaction,
		ReactionWindow: rules.WindowAfterAttackRoll,
		Effects: []effects.Definition{
			{Kind: effects.KindReroll},
		},
	},
	{
		ID:             "take-cover",
		Name:           "Take Cover",
		Description:    "Cancel a hit before damage is applied.",
		Kind:           KindTactic,
		Timing:         TimingReaction,
		ReactionWindow: rules.WindowBeforeDamage,
		Effects: []effects.Definition{
			{Kind: effects.KindCancelHit},
		},
	},
}

// DefaultCatalog returns the built-in card set.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultDefinitions...)
}

// DefaultCommonDeck is the built-in common deck composition.
func DefaultCommonDeck() []DeckEntry {
	return []DeckEntry{
		{CardID: "forced-march", Copies: 3},
		{CardID: "field-rations", Copies: 2},
		{CardID: "sharpshooter", Copies: 3},
		{CardID: "ambush", Copies: 2},
		{CardID: "mud", Copies: 2},
		{CardID: "jammed-rifles", Copies: 2},
	}
}

// DefaultTacticalDeck is the built-in tactical deck composition.
func DefaultTacticalDeck() []DeckEntry {
	return []DeckEntry{
		{CardID: "covering-fire", Copies: 2},
		{CardID: "overwatch", Copies: 2},
		{CardID: "smoke-screen", Copies: 2},
		{CardID: "second-wind", Copies: 2},
		{CardID: "take-cover", Copies: 2},
	}
}
