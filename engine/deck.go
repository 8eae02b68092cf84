package engine

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// BattleDeck is a 20-entry list of card-id references plus deck-level
// energy types. It never copies BattleCards; ids resolve through the
// cache.
type BattleDeck struct {
	Name        string
	CardIDs     []string
	EnergyTypes []string
	Archetype   string
}

// ValidateDeck enforces the deck contract against a cache snapshot:
// exactly DeckSize entries, at most MaxCopiesPerName per distinct card
// name, at least one Basic Pokemon, at least one energy type, and every
// id resolvable. Decks arriving from the deck-management collaborator
// are re-validated here; the engine never trusts the caller.
func ValidateDeck(deck BattleDeck, cache *BattleCache, rules RulesConfig) error {
	if len(deck.CardIDs) != rules.DeckSize {
		return ValidationError{Reason: fmt.Sprintf("deck %q has %d cards, want %d", deck.Name, len(deck.CardIDs), rules.DeckSize)}
	}

	if len(deck.EnergyTypes) == 0 {
		return ValidationError{Reason: fmt.Sprintf("deck %q has no energy types", deck.Name)}
	}

	for _, energy := range deck.EnergyTypes {
		if normalizeEnergy(energy) == "" || energy == ENERGY_COLORLESS {
			return ValidationError{Reason: fmt.Sprintf("deck %q has invalid energy type %q", deck.Name, energy)}
		}
	}

	nameCounts := make(map[string]int)
	hasBasic := false

	for _, id := range deck.CardIDs {
		card, ok := cache.Card(id)
		if !ok {
			return ValidationError{Reason: fmt.Sprintf("deck %q references unknown card %q", deck.Name, id)}
		}

		nameCounts[card.Name]++
		if nameCounts[card.Name] > rules.MaxCopiesPerName {
			return ValidationError{Reason: fmt.Sprintf("deck %q has more than %d copies of %q", deck.Name, rules.MaxCopiesPerName, card.Name)}
		}

		if card.IsBasic() {
			hasBasic = true
		}
	}

	if !hasBasic {
		return ValidationError{Reason: fmt.Sprintf("deck %q has no Basic Pokemon", deck.Name)}
	}

	return nil
}

// --- deck files ---

type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

type DeckEntry struct {
	Name      string      `yaml:"name"`
	Archetype string      `yaml:"archetype"`
	Energy    []string    `yaml:"energy"`
	Cards     []CardEntry `yaml:"cards"`
}

type CardEntry struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// ParseDeckFile parses a YAML deck file into BattleDecks, expanding
// per-card counts into flat id lists. Validation happens separately at
// battle setup, not here.
func ParseDeckFile(path string) ([]BattleDeck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseDecks(data)
}

func ParseDecks(data []byte) ([]BattleDeck, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}

	decks := make([]BattleDeck, 0, len(df.Decks))
	for _, entry := range df.Decks {
		deck := BattleDeck{
			Name:      entry.Name,
			Archetype: entry.Archetype,
			EnergyTypes: lo.Map(entry.Energy, func(energy string, _ int) string {
				return normalizeEnergy(energy)
			}),
		}

		for _, card := range entry.Cards {
			for range card.Count {
				deck.CardIDs = append(deck.CardIDs, card.ID)
			}
		}

		decks = append(decks, deck)
	}

	return decks, nil
}

// DeckByName finds a parsed deck by name.
func DeckByName(decks []BattleDeck, name string) (BattleDeck, bool) {
	return lo.Find(decks, func(deck BattleDeck) bool {
		return deck.Name == name
	})
}
