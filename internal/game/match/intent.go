package match

import (
	"slices"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/reaction"
	"github.com/tactica/tactica-core/internal/game/terrain"
)

// IntentType names a caller request.
type IntentType string

const (
	IntentNextPhase         IntentType = "NEXT_PHASE"
	IntentTurnStart         IntentType = "TURN_START"
	IntentEndTurn           IntentType = "END_TURN"
	IntentResetGame         IntentType = "RESET_GAME"
	IntentLoadState         IntentType = "LOAD_STATE"
	IntentDrawCard          IntentType = "DRAW_CARD"
	IntentStoreBonus        IntentType = "STORE_BONUS"
	IntentPlayCard          IntentType = "PLAY_CARD"
	IntentAttackSelect      IntentType = "ATTACK_SELECT"
	IntentRollDice          IntentType = "ROLL_DICE"
	IntentResolveAttack     IntentType = "RESOLVE_ATTACK"
	IntentMoveUnit          IntentType = "MOVE_UNIT"
	IntentRegenerateTerrain IntentType = "REGENERATE_TERRAIN"
)

// DrawSource selects the deck DRAW_CARD pops from.
type DrawSource string

const (
	SourceCommon   DrawSource = "COMMON"
	SourceTactical DrawSource = "TACTICAL"
)

// Intent is a request to change match state. Only the fields relevant to
// Type are read.
type Intent struct {
	Type IntentType `json:"type"`

	Seed  *uint32    `json:"seed,omitempty"`
	State *GameState `json:"state,omitempty"`

	Source  DrawSource `json:"source,omitempty"`
	CardID  string     `json:"cardId,omitempty"`
	Targets []string   `json:"targets,omitempty"`

	AttackerID string      `json:"attackerId,omitempty"`
	TargetID   string      `json:"targetId,omitempty"`
	UnitID     string      `json:"unitId,omitempty"`
	To         *board.Cell `json:"to,omitempty"`

	Reactions []reaction.Play `json:"reactions,omitempty"`

	Terrain *terrain.Params `json:"terrain,omitempty"`
}

// Clone deep-copies the intent, including any state payload.
func (i Intent) Clone() Intent {
	if i.Seed != nil {
		v := *i.Seed
		i.Seed = &v
	}
	i.State = i.State.Clone()
	i.Targets = slices.Clone(i.Targets)
	if i.To != nil {
		v := *i.To
		i.To = &v
	}
	i.Reactions = reaction.ClonePlays(i.Reactions)
	if i.Terrain != nil {
		v := i.Terrain.Clone()
		i.Terrain = &v
	}
	return i
}

func NextPhase() Intent {
	return Intent{Type: IntentNextPhase}
}

func TurnStart() Intent {
	return Intent{Type: IntentTurnStart}
}

func EndTurn() Intent {
	return Intent{Type: IntentEndTurn}
}

func StoreBonus() Intent {
	return Intent{Type: IntentStoreBonus}
}

// ResetGame restarts the match. A nil seed reuses the current match seed.
func ResetGame(seed *uint32) Intent {
	return Intent{Type: IntentResetGame, Seed: seed}
}

// LoadState replaces the match with a copy of state.
func LoadState(state *GameState) Intent {
	return Intent{Type: IntentLoadState, State: state.Clone()}
}

func DrawCard(source DrawSource) Intent {
	return Intent{Type: IntentDrawCard, Source: source}
}

// PlayCard plays the pending card or a stored bonus.
func PlayCard(cardID string, targets ...string) Intent {
	return Intent{Type: IntentPlayCard, CardID: cardID, Targets: targets}
}

func AttackSelect(attackerID, targetID string) Intent {
	return Intent{Type: IntentAttackSelect, AttackerID: attackerID, TargetID: targetID}
}

func RollDice(reactions ...reaction.Play) Intent {
	return Intent{Type: IntentRollDice, Reactions: reactions}
}

func ResolveAttack(reactions ...reaction.Play) Intent {
	return Intent{Type: IntentResolveAttack, Reactions: reactions}
}

func MoveUnit(unitID string, to board.Cell, reactions ...reaction.Play) Intent {
	return Intent{Type: IntentMoveUnit, UnitID: unitID, To: &to, Reactions: reactions}
}

// RegenerateTerrain rebuilds terrain; nil params reuse the current ones.
func RegenerateTerrain(params *terrain.Params) Intent {
	return Intent{Type: IntentRegenerateTerrain, Terrain: params}
}
