package engine

import "fmt"

type ActionType int

const (
	ACTION_END_TURN ActionType = iota + 1
	ACTION_ATTACH_ENERGY
	ACTION_PLAY_BASIC
	ACTION_EVOLVE
	ACTION_RETREAT
	ACTION_PLAY_TRAINER
	ACTION_ATTACK
	ACTION_PROMOTE_BENCH
	ACTION_PROMOTE_HAND
)

func (t ActionType) String() string {
	switch t {
	case ACTION_END_TURN:
		return "End Turn"
	case ACTION_ATTACH_ENERGY:
		return "Attach Energy"
	case ACTION_PLAY_BASIC:
		return "Play Basic"
	case ACTION_EVOLVE:
		return "Evolve"
	case ACTION_RETREAT:
		return "Retreat"
	case ACTION_PLAY_TRAINER:
		return "Play Trainer"
	case ACTION_ATTACK:
		return "Attack"
	case ACTION_PROMOTE_BENCH:
		return "Promote From Bench"
	case ACTION_PROMOTE_HAND:
		return "Promote From Hand"
	default:
		return "Unknown"
	}
}

// Action is one player choice. Which index fields matter depends on
// Type; Desc is display text for interactive play.
type Action struct {
	Type        ActionType
	Player      int
	HandIndex   int
	BenchIndex  int // target slot, SLOT_ACTIVE for the active Pokemon
	AttackIndex int
	Desc        string
}

func (a Action) String() string {
	if a.Desc != "" {
		return a.Desc
	}

	return a.Type.String()
}

// ActionProvider selects one of the legal actions for a side. The
// rule-based policy and the interactive view both implement this; the
// state machine has already legality-checked everything it offers, so a
// provider never needs to be trusted for correctness.
type ActionProvider interface {
	Name() string
	ChooseAction(g *GameState, legal []Action) Action
}

// LegalActions enumerates every action the current player may take in
// the ACTION_PHASE right now. Ending the turn is always legal.
func (g *GameState) LegalActions() []Action {
	player := g.CurrentPlayer()
	opponent := g.OpposingPlayer()
	current := g.Current

	actions := []Action{{Type: ACTION_END_TURN, Player: current}}

	if !player.EnergyAttachedThisTurn && player.PendingEnergy != "" {
		targets := []int{}
		if player.Active != nil {
			targets = append(targets, SLOT_ACTIVE)
		}
		for slot, pokemon := range player.Bench {
			if pokemon != nil {
				targets = append(targets, slot)
			}
		}

		for _, slot := range targets {
			pokemon := g.Pokemon(PokemonRef{Player: current, Slot: slot})
			actions = append(actions, Action{
				Type:       ACTION_ATTACH_ENERGY,
				Player:     current,
				BenchIndex: slot,
				Desc:       fmt.Sprintf("Attach %s energy to %s", player.PendingEnergy, pokemon.Card.Name),
			})
		}
	}

	for handIndex, card := range player.Hand {
		switch {
		case card.IsBasic():
			if player.OpenBenchSlot() >= 0 {
				actions = append(actions, Action{
					Type:      ACTION_PLAY_BASIC,
					Player:    current,
					HandIndex: handIndex,
					Desc:      "Bench " + card.Name,
				})
			}
		case card.IsPokemon():
			for _, slot := range g.evolutionTargets(current, card) {
				target := g.Pokemon(PokemonRef{Player: current, Slot: slot})
				actions = append(actions, Action{
					Type:       ACTION_EVOLVE,
					Player:     current,
					HandIndex:  handIndex,
					BenchIndex: slot,
					Desc:       fmt.Sprintf("Evolve %s into %s", target.Card.Name, card.Name),
				})
			}
		case card.CardType == CARDTYPE_SUPPORTER && player.SupporterPlayedThisTurn:
			// one supporter per turn
		default:
			actions = append(actions, Action{
				Type:      ACTION_PLAY_TRAINER,
				Player:    current,
				HandIndex: handIndex,
				Desc:      "Play " + card.Name,
			})
		}
	}

	if g.canRetreat(player) {
		for slot, pokemon := range player.Bench {
			if pokemon == nil {
				continue
			}

			actions = append(actions, Action{
				Type:       ACTION_RETREAT,
				Player:     current,
				BenchIndex: slot,
				Desc:       fmt.Sprintf("Retreat into %s", pokemon.Card.Name),
			})
		}
	}

	if player.Active != nil && opponent.Active != nil &&
		player.Active.Status.Major != STATUS_SLEEP && player.Active.Status.Major != STATUS_PARALYSIS {
		for attackIndex, attack := range player.Active.Card.Attacks {
			if !player.Active.CanAfford(attack.Cost) {
				continue
			}

			actions = append(actions, Action{
				Type:        ACTION_ATTACK,
				Player:      current,
				AttackIndex: attackIndex,
				Desc:        fmt.Sprintf("Attack with %s (%d)", attack.Name, attack.Damage),
			})
		}
	}

	return actions
}

// ReplacementActions enumerates the legal choices inside
// FORCED_POKEMON_SELECTION for one player: promote from bench, or
// promote a Basic straight from hand. Empty result means the player has
// lost.
func (g *GameState) ReplacementActions(playerIndex int) []Action {
	player := g.Player(playerIndex)
	actions := make([]Action, 0)

	for slot, pokemon := range player.Bench {
		if pokemon == nil {
			continue
		}

		actions = append(actions, Action{
			Type:       ACTION_PROMOTE_BENCH,
			Player:     playerIndex,
			BenchIndex: slot,
			Desc:       "Promote " + pokemon.Card.Name,
		})
	}

	for handIndex, card := range player.Hand {
		if !card.IsBasic() {
			continue
		}

		actions = append(actions, Action{
			Type:      ACTION_PROMOTE_HAND,
			Player:    playerIndex,
			HandIndex: handIndex,
			Desc:      "Send out " + card.Name,
		})
	}

	return actions
}

// evolutionTargets finds board slots this evolution card can be played
// onto. The match uses the arena index resolved at cache build time;
// cards with an unresolved base simply never evolve. A Pokemon can't
// evolve the turn it entered play, and nothing evolves on turn 1.
func (g *GameState) evolutionTargets(playerIndex int, card *BattleCard) []int {
	if card.EvolvesFromIdx < 0 || g.Turn <= 1 {
		return nil
	}

	base, ok := g.cache.CardByIndex(card.EvolvesFromIdx)
	if !ok {
		return nil
	}

	player := g.Player(playerIndex)
	slots := make([]int, 0, 1+len(player.Bench))

	check := func(slot int, pokemon *BattlePokemon) {
		if pokemon != nil && pokemon.Card == base && pokemon.PlacedTurn < g.Turn {
			slots = append(slots, slot)
		}
	}

	check(SLOT_ACTIVE, player.Active)
	for slot, pokemon := range player.Bench {
		check(slot, pokemon)
	}

	return slots
}

func (g *GameState) canRetreat(player *PlayerState) bool {
	if player.Active == nil || player.RetreatedThisTurn || len(player.BenchPokemon()) == 0 {
		return false
	}

	if player.Active.Status.Major == STATUS_SLEEP || player.Active.Status.Major == STATUS_PARALYSIS {
		return false
	}

	return len(player.Active.AttachedEnergy) >= player.Active.Card.RetreatCost
}

// sameAction reports whether a proposed action is one of the legal
// ones. Desc is display-only and ignored.
func sameAction(a, b Action) bool {
	a.Desc = ""
	b.Desc = ""

	return a == b
}
