package cards

import (
	"fmt"
	"slices"

	"github.com/tactica/tactica-core/internal/game/rng"
)

// Build expands deck entries into an ordered list of card ids. Every id must
// exist in the catalog.
func Build(catalog *Catalog, entries []DeckEntry) ([]string, error) {
	var deck []string
	for _, entry := range entries {
		if _, ok := catalog.Lookup(entry.CardID); !ok {
			return nil, fmt.Errorf("unknown card %q", entry.CardID)
		}
		if entry.Copies < 0 {
			return nil, fmt.Errorf("card %q has negative copies %d", entry.CardID, entry.Copies)
		}
		for i := 0; i < entry.Copies; i++ {
			deck = append(deck, entry.CardID)
		}
	}
	return deck, nil
}

// Shuffle returns a shuffled copy of deck and the advanced seed.
func Shuffle(seed rng.Seed, deck []string) ([]string, rng.Seed) {
	return rng.Shuffle(seed, deck)
}

// Draw pops the top card (index 0). ok is false on an empty deck.
func Draw(deck []string) (card string, rest []string, ok bool) {
	if len(deck) == 0 {
		return "", deck, false
	}
	return deck[0], slices.Clone(deck[1:]), true
}
