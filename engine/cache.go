package engine

import (
	"fmt"
	"sync/atomic"
)

// BattleCache is the read-optimized store of card and deck data shared
// by every concurrent battle. Reads hit an immutable snapshot through
// an atomic pointer, so they need no locking; Reload builds a fresh
// snapshot off to the side and swaps it in wholesale. Never mutate a
// snapshot in place.
type BattleCache struct {
	snapshot atomic.Pointer[cacheSnapshot]
}

type cacheSnapshot struct {
	cards  []BattleCard
	byID   map[string]int
	byName map[string]int
	decks  map[string]BattleDeck
}

func NewBattleCache() *BattleCache {
	cache := &BattleCache{}
	cache.snapshot.Store(&cacheSnapshot{
		byID:   map[string]int{},
		byName: map[string]int{},
		decks:  map[string]BattleDeck{},
	})

	return cache
}

// Reload replaces the whole cache contents. Evolution name references
// are resolved to arena indices here, once, so battles never do name
// lookups. An unresolvable evolves_from is left at -1 and reported; it
// only disables the evolution action for that card.
func (c *BattleCache) Reload(cards []BattleCard, decks []BattleDeck) []DataError {
	snapshot := &cacheSnapshot{
		cards:  make([]BattleCard, len(cards)),
		byID:   make(map[string]int, len(cards)),
		byName: make(map[string]int, len(cards)),
		decks:  make(map[string]BattleDeck, len(decks)),
	}
	copy(snapshot.cards, cards)

	errs := make([]DataError, 0)

	for i, card := range snapshot.cards {
		if _, dup := snapshot.byID[card.ID]; dup {
			errs = append(errs, DataError{CardID: card.ID, Field: "id", Reason: "duplicate card id, later record shadowed"})
			continue
		}
		snapshot.byID[card.ID] = i
		snapshot.byName[card.Name] = i
	}

	for i := range snapshot.cards {
		card := &snapshot.cards[i]
		if card.EvolvesFrom == "" {
			card.EvolvesFromIdx = -1
			continue
		}

		idx, ok := snapshot.byName[card.EvolvesFrom]
		if !ok {
			errs = append(errs, DataError{CardID: card.ID, Field: "evolves_from", Reason: fmt.Sprintf("unknown base %q", card.EvolvesFrom)})
			card.EvolvesFromIdx = -1
			continue
		}
		card.EvolvesFromIdx = idx
	}

	for _, deck := range decks {
		snapshot.decks[deck.Name] = deck
	}

	c.snapshot.Store(snapshot)

	internalLogger.WithName("cache").Info("cache reloaded",
		"cards", len(snapshot.cards), "decks", len(snapshot.decks), "data_errors", len(errs))

	return errs
}

// Card returns a pointer into the current snapshot's arena. The pointed
// card is immutable; callers must not write through it.
func (c *BattleCache) Card(id string) (*BattleCard, bool) {
	snapshot := c.snapshot.Load()
	idx, ok := snapshot.byID[id]
	if !ok {
		return nil, false
	}

	return &snapshot.cards[idx], true
}

// CardByIndex resolves an arena index from an EvolvesFromIdx reference.
func (c *BattleCache) CardByIndex(idx int) (*BattleCard, bool) {
	snapshot := c.snapshot.Load()
	if idx < 0 || idx >= len(snapshot.cards) {
		return nil, false
	}

	return &snapshot.cards[idx], true
}

func (c *BattleCache) Deck(name string) (BattleDeck, bool) {
	deck, ok := c.snapshot.Load().decks[name]
	return deck, ok
}

func (c *BattleCache) DeckNames() []string {
	snapshot := c.snapshot.Load()
	names := make([]string, 0, len(snapshot.decks))
	for name := range snapshot.decks {
		names = append(names, name)
	}

	return names
}

func (c *BattleCache) Len() int {
	return len(c.snapshot.Load().cards)
}
