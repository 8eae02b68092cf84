package engine

import (
	"fmt"
	"math"
	"strings"
)

type lowSource struct{}

func (lowSource) Uint64() uint64 {
	return 0
}

type highSource struct{}

func (highSource) Uint64() uint64 {
	return math.MaxUint64
}

// sequenceSource replays a fixed word sequence, cycling at the end.
type sequenceSource struct {
	values []uint64
	index  int
}

func (s *sequenceSource) Uint64() uint64 {
	value := s.values[s.index%len(s.values)]
	s.index++

	return value
}

func pokemonCard(name string, hp int, energyType string, attacks ...Attack) *BattleCard {
	return &BattleCard{
		ID:             strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Name:           name,
		CardType:       CARDTYPE_POKEMON,
		Stage:          STAGE_BASIC,
		HP:             hp,
		EnergyType:     energyType,
		Attacks:        attacks,
		EvolvesFromIdx: -1,
	}
}

func plainAttack(name string, damage int, cost ...string) Attack {
	return Attack{Name: name, Damage: damage, Cost: cost}
}

func withEnergy(pokemon *BattlePokemon, energy ...string) *BattlePokemon {
	pokemon.AttachedEnergy = append(pokemon.AttachedEnergy, energy...)
	return pokemon
}

// simpleState wires a two-player state with both actives placed, a
// memory logger, and a seeded flipper. Turn starts at 2 so evolution
// and attack rules behave as in the mid-game.
func simpleState(active0, active1 *BattlePokemon) *GameState {
	g := &GameState{
		Turn:    2,
		Rules:   DefaultRules(),
		Winner:  NO_WINNER,
		flipper: NewCoinFlipper(1),
		logger:  NewMemoryLogger(),
	}

	for i := range g.Players {
		g.Players[i] = PlayerState{
			Name:  playerName(i),
			Deck:  BattleDeck{Name: "test-deck", EnergyTypes: []string{ENERGY_FIRE}},
			Bench: make([]*BattlePokemon, g.Rules.BenchSize),
		}
	}

	g.Players[PLAYER_ONE].Active = active0
	g.Players[PLAYER_TWO].Active = active1

	return g
}

func testCache(cards ...BattleCard) *BattleCache {
	cache := NewBattleCache()
	if errs := cache.Reload(cards, nil); len(errs) > 0 {
		panic(fmt.Sprintf("unexpected data errors in test cache: %v", errs))
	}

	return cache
}

func memLog(g *GameState) *MemoryLogger {
	return g.logger.(*MemoryLogger)
}
