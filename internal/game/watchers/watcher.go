// Package watchers keeps running statistics over match events.
package watchers

import (
	"slices"
	"sync"

	"github.com/tactica/tactica-core/internal/game"
	"github.com/tactica/tactica-core/internal/game/match"
)

// Scope defines how long a watcher's tracking lasts.
type Scope int

const (
	// ScopeMatch tracks events for the whole match.
	ScopeMatch Scope = iota
	// ScopeTurn tracks events until the current turn ends.
	ScopeTurn
)

// String returns the string representation of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeMatch:
		return "MATCH"
	case ScopeTurn:
		return "TURN"
	default:
		return "UNKNOWN"
	}
}

// Watcher observes match events and tracks a condition.
type Watcher interface {
	// Watch is called for every event the registry receives.
	Watch(event match.Event)

	// Reset clears the watcher's condition and state.
	Reset()

	// ConditionMet returns true if the tracked condition has been met.
	ConditionMet() bool

	Scope() Scope
	Key() string
}

// BaseWatcher provides the condition flag and identity shared by watchers.
type BaseWatcher struct {
	scope     Scope
	key       string
	condition bool
}

// NewBaseWatcher creates a base watcher.
func NewBaseWatcher(scope Scope, key string) *BaseWatcher {
	return &BaseWatcher{scope: scope, key: key}
}

// Scope returns the watcher's scope.
func (bw *BaseWatcher) Scope() Scope {
	return bw.scope
}

// Key returns the unique key for this watcher.
func (bw *BaseWatcher) Key() string {
	return bw.key
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// Registry dispatches events to its watchers in key order and resets
// turn-scoped watchers when a turn ends.
type Registry struct {
	mu       sync.Mutex
	watchers map[string]Watcher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{watchers: make(map[string]Watcher)}
}

// Add registers w, replacing any watcher with the same key.
func (r *Registry) Add(w Watcher) {
	if w == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers[w.Key()] = w
}

// Remove unregisters the watcher with key.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.watchers, key)
}

// Get returns the watcher with key, or nil.
func (r *Registry) Get(key string) Watcher {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.watchers[key]
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedKeys()
}

func (r *Registry) sortedKeys() []string {
	keys := make([]string, 0, len(r.watchers))
	for k := range r.watchers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Watch feeds one event to every watcher.
func (r *Registry) Watch(event match.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := r.sortedKeys()
	for _, k := range keys {
		r.watchers[k].Watch(event)
	}
	if event.Type == match.EventTurnEnded {
		for _, k := range keys {
			if w := r.watchers[k]; w.Scope() == ScopeTurn {
				w.Reset()
			}
		}
	}
}

// Reset clears every watcher.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.watchers {
		w.Reset()
	}
}

// Attach subscribes the registry to bus. An empty matchID follows every
// match. The returned handle unsubscribes.
func (r *Registry) Attach(bus *game.EventBus, matchID string) int {
	return bus.Subscribe(func(id string, event match.Event) {
		if matchID != "" && id != matchID {
			return
		}
		r.Watch(event)
	})
}
