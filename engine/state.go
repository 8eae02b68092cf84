package engine

import (
	"fmt"

	"github.com/samber/lo"
)

// StatusState tracks conditions on one live Pokemon. Minor damage-over-
// time conditions stack with each other and with the single major
// condition; a new major replaces the old major only.
type StatusState struct {
	Burned   bool
	Poisoned bool
	Major    int
}

func (s StatusState) Any() bool {
	return s.Burned || s.Poisoned || s.Major != STATUS_NONE
}

func (s StatusState) String() string {
	parts := make([]string, 0, 3)
	if s.Major != STATUS_NONE {
		parts = append(parts, StatusName(s.Major))
	}
	if s.Burned {
		parts = append(parts, "Burned")
	}
	if s.Poisoned {
		parts = append(parts, "Poisoned")
	}
	if len(parts) == 0 {
		return "Healthy"
	}

	return fmt.Sprintf("%v", parts)
}

// BattlePokemon is a live, mutable instance of a card in play. It holds
// a reference into the cache's card arena, never a copy.
type BattlePokemon struct {
	Card           *BattleCard
	CurrentHP      int
	MaxHP          int
	AttachedEnergy []string
	Status         StatusState

	// PlacedTurn gates evolution: a Pokemon can't evolve the turn it
	// entered play (or on turn 1).
	PlacedTurn int
}

func NewBattlePokemon(card *BattleCard, turn int) *BattlePokemon {
	return &BattlePokemon{
		Card:           card,
		CurrentHP:      card.HP,
		MaxHP:          card.HP,
		AttachedEnergy: make([]string, 0, 4),
		PlacedTurn:     turn,
	}
}

func (p *BattlePokemon) Alive() bool {
	return p.CurrentHP > 0
}

// ApplyDamage clamps at 0; HP is never negative.
func (p *BattlePokemon) ApplyDamage(damage int) {
	if damage < 0 {
		damage = 0
	}

	p.CurrentHP -= damage
	if p.CurrentHP < 0 {
		p.CurrentHP = 0
	}
}

// Heal clamps at MaxHP.
func (p *BattlePokemon) Heal(amount int) {
	if amount < 0 {
		return
	}

	p.CurrentHP += amount
	if p.CurrentHP > p.MaxHP {
		p.CurrentHP = p.MaxHP
	}
}

func (p *BattlePokemon) EnergyCount(energyType string) int {
	if energyType == "" {
		return len(p.AttachedEnergy)
	}

	return lo.Count(p.AttachedEnergy, energyType)
}

// CanAfford checks an attack or retreat cost against attached energy.
// Colorless cost entries are paid by any type; typed entries need a
// matching attachment.
func (p *BattlePokemon) CanAfford(cost []string) bool {
	remaining := lo.CountValues(p.AttachedEnergy)

	colorless := 0
	for _, required := range cost {
		if required == ENERGY_COLORLESS {
			colorless++
			continue
		}

		if remaining[required] <= 0 {
			return false
		}
		remaining[required]--
	}

	leftover := 0
	for _, count := range remaining {
		leftover += count
	}

	return leftover >= colorless
}

// DiscardEnergy removes up to n attachments, typed ones last so the
// Pokemon keeps attack-relevant energy as long as possible.
func (p *BattlePokemon) DiscardEnergy(n int) int {
	discarded := 0
	for discarded < n && len(p.AttachedEnergy) > 0 {
		p.AttachedEnergy = p.AttachedEnergy[:len(p.AttachedEnergy)-1]
		discarded++
	}

	return discarded
}

// PokemonRef addresses one live Pokemon on the board.
type PokemonRef struct {
	Player int
	// Slot is SLOT_ACTIVE or a bench index.
	Slot int
}

const SLOT_ACTIVE = -1

func ActiveRef(player int) PokemonRef {
	return PokemonRef{Player: player, Slot: SLOT_ACTIVE}
}

// PlayerState is one side of the board, owned exclusively by GameState.
type PlayerState struct {
	Name     string
	Deck     BattleDeck
	DrawPile []*BattleCard
	Hand     []*BattleCard
	Bench    []*BattlePokemon
	Active   *BattlePokemon
	Points   int

	// per-turn flags, reset at TURN_START
	EnergyAttachedThisTurn  bool
	SupporterPlayedThisTurn bool
	RetreatedThisTurn       bool

	// PendingEnergy is the energy type generated for this turn's
	// ENERGY_PHASE, drawn from the deck's energy types.
	PendingEnergy string
}

// Draw moves up to n cards from the draw pile into hand, respecting the
// hand limit. Cards above the limit are simply not drawn (the pile is
// not milled).
func (p *PlayerState) Draw(n int, limit int) []*BattleCard {
	drawn := make([]*BattleCard, 0, n)

	for range n {
		if len(p.DrawPile) == 0 || len(p.Hand) >= limit {
			break
		}

		card := p.DrawPile[0]
		p.DrawPile = p.DrawPile[1:]
		p.Hand = append(p.Hand, card)
		drawn = append(drawn, card)
	}

	return drawn
}

func (p *PlayerState) RemoveFromHand(index int) *BattleCard {
	card := p.Hand[index]
	p.Hand = append(p.Hand[:index], p.Hand[index+1:]...)

	return card
}

func (p *PlayerState) BenchPokemon() []*BattlePokemon {
	return lo.Filter(p.Bench, func(pokemon *BattlePokemon, _ int) bool {
		return pokemon != nil
	})
}

func (p *PlayerState) OpenBenchSlot() int {
	for i, pokemon := range p.Bench {
		if pokemon == nil {
			return i
		}
	}

	return -1
}

func (p *PlayerState) HasBasicInHand() bool {
	return lo.SomeBy(p.Hand, func(card *BattleCard) bool {
		return card.IsBasic()
	})
}

// GameState is the full mutable battle state, created at battle start
// from two validated decks and mutated only by the state machine.
type GameState struct {
	Turn    int
	Current int
	Phase   Phase
	Players [2]PlayerState
	Rules   RulesConfig

	Winner    int
	Tie       bool
	EndReason int

	flipper *CoinFlipper
	logger  EventLogger
	cache   *BattleCache

	// resolution is non-nil only while an attack's effect chain runs
	resolution *attackResolution
}

func (g *GameState) Player(index int) *PlayerState {
	return &g.Players[index]
}

func (g *GameState) CurrentPlayer() *PlayerState {
	return &g.Players[g.Current]
}

func (g *GameState) OpposingPlayer() *PlayerState {
	return &g.Players[Opponent(g.Current)]
}

// Pokemon resolves a ref to the live instance, nil when the slot is
// empty.
func (g *GameState) Pokemon(ref PokemonRef) *BattlePokemon {
	player := g.Player(ref.Player)
	if ref.Slot == SLOT_ACTIVE {
		return player.Active
	}
	if ref.Slot < 0 || ref.Slot >= len(player.Bench) {
		return nil
	}

	return player.Bench[ref.Slot]
}

// Flipper exposes the battle's only randomness source.
func (g *GameState) Flipper() *CoinFlipper {
	return g.flipper
}

func (g *GameState) Seed() uint64 {
	return g.flipper.Seed()
}

func (g *GameState) Log(event GameEvent) {
	event.Turn = g.Turn
	event.Phase = g.Phase.String()
	g.logger.Log(event)
}

func (g *GameState) Events() []GameEvent {
	return g.logger.Events()
}

func (g *GameState) logf(eventType EventType, player int, card string, format string, args ...any) {
	g.Log(GameEvent{
		Player:  player,
		Type:    eventType,
		Card:    card,
		Details: fmt.Sprintf(format, args...),
	})
}
