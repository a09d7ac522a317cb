package watchers

import (
	"maps"

	"github.com/tactica/tactica-core/internal/game/board"
	"github.com/tactica/tactica-core/internal/game/match"
)

// CardsPlayedWatcher tracks cards played and reactions resolved per player.
type CardsPlayedWatcher struct {
	*BaseWatcher
	played    map[board.Player][]string
	reactions map[board.Player]int
}

// NewCardsPlayedWatcher creates a new cards played watcher.
func NewCardsPlayedWatcher() *CardsPlayedWatcher {
	return &CardsPlayedWatcher{
		BaseWatcher: NewBaseWatcher(ScopeMatch, "CardsPlayedWatcher"),
		played:      make(map[board.Player][]string),
		reactions:   make(map[board.Player]int),
	}
}

// Watch implements the Watcher interface.
func (w *CardsPlayedWatcher) Watch(event match.Event) {
	if event.PlayerID == "" || event.SourceID == "" {
		return
	}
	switch event.Type {
	case match.EventCardPlayed:
		w.played[event.PlayerID] = append(w.played[event.PlayerID], event.SourceID)
	case match.EventReactionResolved:
		w.played[event.PlayerID] = append(w.played[event.PlayerID], event.SourceID)
		w.reactions[event.PlayerID]++
	default:
		return
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsPlayedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.played = make(map[board.Player][]string)
	w.reactions = make(map[board.Player]int)
}

// GetCardsPlayed returns the card ids a player played, in order.
func (w *CardsPlayedWatcher) GetCardsPlayed(p board.Player) []string {
	return w.played[p]
}

// GetReactionCount returns how many tactics a player resolved as reactions.
func (w *CardsPlayedWatcher) GetReactionCount(p board.Player) int {
	return w.reactions[p]
}

// UnitsLostWatcher tracks removed units by owner.
type UnitsLostWatcher struct {
	*BaseWatcher
	lost map[board.Player][]string
}

// NewUnitsLostWatcher creates a new units lost watcher.
func NewUnitsLostWatcher() *UnitsLostWatcher {
	return &UnitsLostWatcher{
		BaseWatcher: NewBaseWatcher(ScopeMatch, "UnitsLostWatcher"),
		lost:        make(map[board.Player][]string),
	}
}

// Watch implements the Watcher interface.
func (w *UnitsLostWatcher) Watch(event match.Event) {
	if event.Type != match.EventUnitRemoved || event.PlayerID == "" {
		return
	}
	w.lost[event.PlayerID] = append(w.lost[event.PlayerID], event.TargetID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *UnitsLostWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.lost = make(map[board.Player][]string)
}

// GetUnitsLost returns the ids of a player's removed units.
func (w *UnitsLostWatcher) GetUnitsLost(p board.Player) []string {
	return w.lost[p]
}

// GetTotalAmount returns the number of units removed on both sides.
func (w *UnitsLostWatcher) GetTotalAmount() int {
	total := 0
	for _, ids := range w.lost {
		total += len(ids)
	}
	return total
}

// AttackStats is the attack record of one player.
type AttackStats struct {
	Hits     int
	Misses   int
	Rerolls  int
	Canceled int
}

// AttacksWatcher tracks resolved attacks per attacking player.
type AttacksWatcher struct {
	*BaseWatcher
	stats map[board.Player]AttackStats
}

// NewAttacksWatcher creates a new attacks watcher.
func NewAttacksWatcher() *AttacksWatcher {
	return &AttacksWatcher{
		BaseWatcher: NewBaseWatcher(ScopeMatch, "AttacksWatcher"),
		stats:       make(map[board.Player]AttackStats),
	}
}

// Watch implements the Watcher interface.
func (w *AttacksWatcher) Watch(event match.Event) {
	if event.Type != match.EventAttackResolved || event.PlayerID == "" {
		return
	}
	s := w.stats[event.PlayerID]
	if event.Flag {
		s.Hits++
	} else {
		s.Misses++
	}
	if r := event.Roll; r != nil {
		if r.Rerolled {
			s.Rerolls++
		}
		if r.Cancelled {
			s.Canceled++
		}
	}
	w.stats[event.PlayerID] = s
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *AttacksWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.stats = make(map[board.Player]AttackStats)
}

// GetStats returns the attack record of a player.
func (w *AttacksWatcher) GetStats(p board.Player) AttackStats {
	return w.stats[p]
}

// All returns a copy of every player's record.
func (w *AttacksWatcher) All() map[board.Player]AttackStats {
	return maps.Clone(w.stats)
}

// UnitsMovedWatcher tracks which units moved during the current turn.
type UnitsMovedWatcher struct {
	*BaseWatcher
	moved     []string
	cancelled int
}

// NewUnitsMovedWatcher creates a new units moved watcher.
func NewUnitsMovedWatcher() *UnitsMovedWatcher {
	return &UnitsMovedWatcher{
		BaseWatcher: NewBaseWatcher(ScopeTurn, "UnitsMovedWatcher"),
	}
}

// Watch implements the Watcher interface.
func (w *UnitsMovedWatcher) Watch(event match.Event) {
	switch event.Type {
	case match.EventUnitMoved:
		w.moved = append(w.moved, event.TargetID)
		w.SetCondition(true)
	case match.EventMoveCancelled:
		w.cancelled++
	}
}

// Reset clears the watcher's state.
func (w *UnitsMovedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.moved = nil
	w.cancelled = 0
}

// GetMoved returns the ids of units that moved this turn, in order.
func (w *UnitsMovedWatcher) GetMoved() []string {
	return w.moved
}

// GetCancelled returns how many moves were cancelled this turn.
func (w *UnitsMovedWatcher) GetCancelled() int {
	return w.cancelled
}
