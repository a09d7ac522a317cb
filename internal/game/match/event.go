package match

import (
	"fmt"
	"slices"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/combat"
)

// EventType indicates what happened.
type EventType string

const (
	EventMatchStarted     EventType = "match_started"
	EventIntentApplied    EventType = "intent_applied"
	EventPhaseChanged     EventType = "phase_changed"
	EventTurnStarted      EventType = "turn_started"
	EventTurnEnded        EventType = "turn_ended"
	EventCardDrawn        EventType = "card_drawn"
	EventCardDeclined     EventType = "card_declined"
	EventCardStored       EventType = "card_stored"
	EventCardPlayed       EventType = "card_played"
	EventEffectAdded      EventType = "effect_added"
	EventEffectTriggered  EventType = "effect_triggered"
	EventEffectExpired    EventType = "effect_expired"
	EventReactionResolved EventType = "reaction_resolved"
	EventReactionSkipped  EventType = "reaction_skipped"
	EventUnitMoved        EventType = "unit_moved"
	EventMoveCancelled    EventType = "move_cancelled"
	EventAttackSelected   EventType = "attack_selected"
	EventDiceRolled       EventType = "dice_rolled"
	EventAttackResolved   EventType = "attack_resolved"
	EventUnitRemoved      EventType = "unit_removed"
	EventTerrainGenerated EventType = "terrain_generated"
	EventStateLoaded      EventType = "state_loaded"
	EventGameReset        EventType = "game_reset"
	EventVictory          EventType = "victory"
)

// Event is a recorded fact. Only match_started and intent_applied are
// needed to rebuild a match; the rest describe what the intent did.
type Event struct {
	Type     EventType    `json:"type"`
	Turn     int          `json:"turn"`
	PlayerID board.Player `json:"playerId,omitempty"`
	TargetID string       `json:"targetId,omitempty"`
	SourceID string       `json:"sourceId,omitempty"`
	Amount   int          `json:"amount,omitempty"`
	Flag     bool         `json:"flag,omitempty"`
	Data     string       `json:"data,omitempty"`
	Targets  []string     `json:"targets,omitempty"`

	Seed   *uint32            `json:"seed,omitempty"`
	Config *Config            `json:"config,omitempty"`
	Intent *Intent            `json:"intent,omitempty"`
	Roll   *combat.RollResult `json:"roll,omitempty"`
	From   *board.Cell        `json:"from,omitempty"`
	To     *board.Cell        `json:"to,omitempty"`
}

// MatchStarted builds the match_started event for a freshly started state.
func MatchStarted(s *GameState) Event {
	seed := s.Seed
	cfg := s.Config.Clone()
	return Event{Type: EventMatchStarted, Turn: s.Turn, Seed: &seed, Config: &cfg}
}

// IntentApplied wraps an intent for the event log.
func IntentApplied(intent Intent, turn int) Event {
	in := intent.Clone()
	return Event{Type: EventIntentApplied, Turn: turn, Intent: &in}
}

// Clone deep-copies the event.
func (e Event) Clone() Event {
	e.Targets = slices.Clone(e.Targets)
	if e.Seed != nil {
		v := *e.Seed
		e.Seed = &v
	}
	if e.Config != nil {
		v := e.Config.Clone()
		e.Config = &v
	}
	if e.Intent != nil {
		v := e.Intent.Clone()
		e.Intent = &v
	}
	if e.Roll != nil {
		v := *e.Roll
		e.Roll = &v
	}
	if e.From != nil {
		v := *e.From
		e.From = &v
	}
	if e.To != nil {
		v := *e.To
		e.To = &v
	}
	return e
}

// Describe renders a one-line summary for the match log.
func (e Event) Describe() string {
	switch e.Type {
	case EventMatchStarted:
		return fmt.Sprintf("match started with seed %d", derefSeed(e.Seed))
	case EventIntentApplied:
		if e.Intent != nil {
			return fmt.Sprintf("intent %s", e.Intent.Type)
		}
		return "intent"
	case EventPhaseChanged:
		return fmt.Sprintf("phase %s", e.Data)
	case EventTurnStarted:
		return fmt.Sprintf("turn %d begins for %s", e.Turn, e.PlayerID)
	case EventTurnEnded:
		return fmt.Sprintf("%s ends turn %d", e.PlayerID, e.Turn)
	case EventCardDrawn:
		return fmt.Sprintf("%s draws %s from %s", e.PlayerID, e.SourceID, e.Data)
	case EventCardDeclined:
		return fmt.Sprintf("%s declines %s", e.PlayerID, e.SourceID)
	case EventCardStored:
		return fmt.Sprintf("%s stores %s", e.PlayerID, e.SourceID)
	case EventCardPlayed:
		return fmt.Sprintf("%s plays %s", e.PlayerID, e.SourceID)
	case EventEffectAdded:
		return fmt.Sprintf("effect %s (%s) from %s", e.TargetID, e.Data, e.SourceID)
	case EventEffectTriggered:
		return fmt.Sprintf("effect %s grants %d extra moves", e.TargetID, e.Amount)
	case EventEffectExpired:
		return fmt.Sprintf("effect %s expires", e.TargetID)
	case EventReactionResolved:
		return fmt.Sprintf("%s reacts with %s in %s", e.PlayerID, e.SourceID, e.Data)
	case EventReactionSkipped:
		return fmt.Sprintf("%s reaction %s skipped: %s", e.PlayerID, e.SourceID, e.Data)
	case EventUnitMoved:
		return fmt.Sprintf("%s moves %s -> %s", e.TargetID, derefCell(e.From), derefCell(e.To))
	case EventMoveCancelled:
		return fmt.Sprintf("%s move cancelled: %s", e.TargetID, e.Data)
	case EventAttackSelected:
		return fmt.Sprintf("%s targets %s", e.SourceID, e.TargetID)
	case EventDiceRolled:
		if e.Roll != nil {
			return fmt.Sprintf("rolled %d (modified %d, needs %d): %s", e.Roll.Value, e.Roll.Modified, e.Roll.Threshold, e.Roll.Outcome)
		}
		return "rolled"
	case EventAttackResolved:
		return fmt.Sprintf("%s attack on %s: %s", e.SourceID, e.TargetID, e.Data)
	case EventUnitRemoved:
		return fmt.Sprintf("%s removed", e.TargetID)
	case EventTerrainGenerated:
		return fmt.Sprintf("terrain generated: %d road cells, %s", e.Amount, e.Data)
	case EventStateLoaded:
		return "state loaded"
	case EventGameReset:
		return fmt.Sprintf("game reset with seed %d", derefSeed(e.Seed))
	case EventVictory:
		return fmt.Sprintf("%s wins", e.PlayerID)
	default:
		return string(e.Type)
	}
}

func derefSeed(s *uint32) uint32 {
	if s == nil {
		return 0
	}
	return *s
}

func derefCell(c *board.Cell) string {
	if c == nil {
		return "?"
	}
	return c.String()
}
