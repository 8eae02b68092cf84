package engine

import (
	"fmt"
	"time"
)

type Phase int

const (
	PHASE_SETUP Phase = iota
	PHASE_TURN_START
	PHASE_ENERGY
	PHASE_ACTION
	PHASE_ATTACK_RESOLUTION
	PHASE_FORCED_SELECTION
	PHASE_TURN_END
	PHASE_GAME_OVER
)

func (p Phase) String() string {
	switch p {
	case PHASE_SETUP:
		return "SETUP"
	case PHASE_TURN_START:
		return "TURN_START"
	case PHASE_ENERGY:
		return "ENERGY_PHASE"
	case PHASE_ACTION:
		return "ACTION_PHASE"
	case PHASE_ATTACK_RESOLUTION:
		return "ATTACK_RESOLUTION"
	case PHASE_FORCED_SELECTION:
		return "FORCED_SELECTION"
	case PHASE_TURN_END:
		return "TURN_END"
	case PHASE_GAME_OVER:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}

// actionsPerTurnCap bounds the ACTION_PHASE loop. Providers that keep
// proposing non-terminal actions can't stall a battle past this.
const actionsPerTurnCap = 30

// Battle is one synchronous, single-threaded battle. Independent
// battles are safe to run concurrently as long as each has its own
// Battle value; the cache is the only shared resource and is read-only
// during play.
type Battle struct {
	state     *GameState
	providers [2]ActionProvider

	// Deadline is an optional wall-clock budget. Exceeding it ends the
	// battle as a tie at the next turn boundary, never an error.
	Deadline time.Time
}

// NewBattle validates both decks and assembles the initial state. An
// invalid deck fails fast with a ValidationError and no GameState is
// ever created.
func NewBattle(cache *BattleCache, deckA, deckB BattleDeck, providers [2]ActionProvider, rules RulesConfig, seed uint64, logger EventLogger) (*Battle, error) {
	for _, deck := range []BattleDeck{deckA, deckB} {
		if err := ValidateDeck(deck, cache, rules); err != nil {
			return nil, err
		}
	}

	if logger == nil {
		logger = NewMemoryLogger()
	}

	state := &GameState{
		Phase:   PHASE_SETUP,
		Rules:   rules,
		Winner:  NO_WINNER,
		flipper: NewCoinFlipper(seed),
		logger:  logger,
		cache:   cache,
	}

	for i, deck := range []BattleDeck{deckA, deckB} {
		pile := make([]*BattleCard, 0, len(deck.CardIDs))
		for _, id := range deck.CardIDs {
			card, ok := cache.Card(id)
			if !ok {
				// ValidateDeck already checked resolvability
				return nil, EngineError{Reason: fmt.Sprintf("card %q vanished between validation and setup", id)}
			}
			pile = append(pile, card)
		}

		state.Players[i] = PlayerState{
			Name:     providers[i].Name(),
			Deck:     deck,
			DrawPile: pile,
			Hand:     make([]*BattleCard, 0, rules.HandLimit),
			Bench:    make([]*BattlePokemon, rules.BenchSize),
		}
	}

	return &Battle{state: state, providers: providers}, nil
}

// State exposes the live state for interactive views. Batch callers
// should only touch the summary.
func (b *Battle) State() *GameState {
	return b.state
}

// Run plays the battle to completion and builds the summary. Engine
// panics are converted to EngineError; the battle is abandoned but the
// cache and any sibling battles are untouched.
func (b *Battle) Run() (summary BattleSummary, err error) {
	started := time.Now()

	defer func() {
		if recovered := recover(); recovered != nil {
			internalLogger.WithName("battle").Error(fmt.Errorf("%v", recovered), "battle aborted by panic")
			err = EngineError{Reason: "panic during battle", Recovered: recovered}
		}

		summary = b.buildSummary(time.Since(started))
	}()

	if err := b.setup(); err != nil {
		return BattleSummary{}, err
	}

	for b.state.Phase != PHASE_GAME_OVER {
		b.playTurn()
	}

	return b.buildSummary(time.Since(started)), nil
}

// setup shuffles, draws opening hands (redrawing any hand without a
// Basic), and has each side place its active Pokemon.
func (b *Battle) setup() error {
	g := b.state

	for playerIndex := range g.Players {
		player := g.Player(playerIndex)

		b.shuffleDrawPile(playerIndex)

		drew := false
		for range g.Rules.MaxSetupRedraws {
			player.Draw(g.Rules.InitialHandSize, g.Rules.HandLimit)
			if player.HasBasicInHand() {
				drew = true
				break
			}

			g.logf(EventRedrawHand, playerIndex, "", "%s has no Basic Pokemon, redrawing", playerName(playerIndex))
			player.DrawPile = append(player.DrawPile, player.Hand...)
			player.Hand = player.Hand[:0]
			b.shuffleDrawPile(playerIndex)
		}

		if !drew {
			return EngineError{Reason: "setup redraw cap exceeded for a validated deck"}
		}
	}

	// both sides place an active before the first turn
	for playerIndex := range g.Players {
		legal := []Action{}
		for handIndex, card := range g.Player(playerIndex).Hand {
			if card.IsBasic() {
				legal = append(legal, Action{
					Type:      ACTION_PROMOTE_HAND,
					Player:    playerIndex,
					HandIndex: handIndex,
					Desc:      "Send out " + card.Name,
				})
			}
		}

		choice := b.chooseFrom(playerIndex, legal)
		b.promoteFromHand(playerIndex, choice.HandIndex)
	}

	return nil
}

func (b *Battle) shuffleDrawPile(playerIndex int) {
	g := b.state
	pile := g.Player(playerIndex).DrawPile

	g.flipper.Shuffle(len(pile), func(i, j int) {
		pile[i], pile[j] = pile[j], pile[i]
	})
	g.logf(EventShuffle, playerIndex, "", "%s shuffles their deck", playerName(playerIndex))
}

// playTurn runs one full turn for the current player.
func (b *Battle) playTurn() {
	g := b.state

	g.Turn++
	g.Phase = PHASE_TURN_START
	player := g.CurrentPlayer()
	player.EnergyAttachedThisTurn = false
	player.SupporterPlayedThisTurn = false
	player.RetreatedThisTurn = false

	g.logf(EventTurnStart, g.Current, "", "=== Turn %d (%s) ===", g.Turn, playerName(g.Current))

	if drawn := player.Draw(1, g.Rules.HandLimit); len(drawn) > 0 {
		g.logf(EventDrawCard, g.Current, drawn[0].Name, "%s draws a card", playerName(g.Current))
	}

	g.Phase = PHASE_ENERGY
	if g.Turn == 1 {
		// player one gets no energy on the very first turn
		player.PendingEnergy = ""
	} else {
		player.PendingEnergy = g.deckEnergy(g.Current)
	}

	attacked := b.actionPhase()

	if !attacked {
		// attacks run their own sweep; anything else that emptied an
		// active slot (there is nothing today, but the invariant is
		// cheap to hold) still must route through forced selection
		g.knockoutSweep()
	}
	if b.resolveEmptyActives() {
		return
	}

	g.Phase = PHASE_TURN_END
	g.processStatusTurnEnd(g.Current)
	g.processStatusTurnEnd(Opponent(g.Current))
	g.knockoutSweep()
	if b.resolveEmptyActives() {
		return
	}

	if b.checkWinConditions() {
		return
	}

	g.logf(EventEndTurn, g.Current, "", "%s ends their turn", playerName(g.Current))
	g.Current = Opponent(g.Current)
}

// actionPhase loops provider choices until the turn ends. Attacking
// ends the turn. Returns whether an attack resolved.
func (b *Battle) actionPhase() bool {
	g := b.state

	for range actionsPerTurnCap {
		g.Phase = PHASE_ACTION
		legal := g.LegalActions()
		choice := b.chooseFrom(g.Current, legal)

		if !isLegal(choice, legal) {
			// illegal proposal: reject it and end the turn instead
			g.logf(EventEndTurn, g.Current, "", "illegal action %s rejected, ending turn", choice)
			internalLogger.WithName("battle").Info("provider proposed illegal action",
				"provider", b.providers[g.Current].Name(), "action", choice.String())
			return false
		}

		switch choice.Type {
		case ACTION_END_TURN:
			return false
		case ACTION_ATTACK:
			g.Phase = PHASE_ATTACK_RESOLUTION
			if err := g.ResolveAttack(choice.AttackIndex); err != nil {
				panic(err)
			}
			return true
		default:
			b.applyAction(choice)
		}
	}

	return false
}

func (b *Battle) applyAction(action Action) {
	g := b.state
	player := g.CurrentPlayer()

	switch action.Type {
	case ACTION_ATTACH_ENERGY:
		pokemon := g.Pokemon(PokemonRef{Player: g.Current, Slot: action.BenchIndex})
		pokemon.AttachedEnergy = append(pokemon.AttachedEnergy, player.PendingEnergy)
		g.logf(EventAttachEnergy, g.Current, pokemon.Card.Name,
			"%s attaches %s energy to %s", playerName(g.Current), player.PendingEnergy, pokemon.Card.Name)
		player.EnergyAttachedThisTurn = true
		player.PendingEnergy = ""

	case ACTION_PLAY_BASIC:
		card := player.RemoveFromHand(action.HandIndex)
		slot := player.OpenBenchSlot()
		player.Bench[slot] = NewBattlePokemon(card, g.Turn)
		g.logf(EventPlayBasic, g.Current, card.Name, "%s benches %s", playerName(g.Current), card.Name)

	case ACTION_EVOLVE:
		card := player.RemoveFromHand(action.HandIndex)
		target := g.Pokemon(PokemonRef{Player: g.Current, Slot: action.BenchIndex})
		b.evolve(target, card)

	case ACTION_RETREAT:
		active := player.Active
		active.DiscardEnergy(active.Card.RetreatCost)
		active.ClearStatus()
		incoming := player.Bench[action.BenchIndex]
		player.Bench[action.BenchIndex] = active
		player.Active = incoming
		player.RetreatedThisTurn = true
		g.logf(EventRetreat, g.Current, incoming.Card.Name,
			"%s retreats %s for %s", playerName(g.Current), active.Card.Name, incoming.Card.Name)

	case ACTION_PLAY_TRAINER:
		card := player.RemoveFromHand(action.HandIndex)
		b.playTrainer(card)

	default:
		panic(EngineError{Reason: "unknown action type in applyAction: " + action.Type.String()})
	}
}

// evolve replaces the live instance's card, keeping accumulated damage
// and energy, and curing every status condition.
func (b *Battle) evolve(target *BattlePokemon, card *BattleCard) {
	g := b.state

	damage := target.MaxHP - target.CurrentHP
	previous := target.Card.Name

	target.Card = card
	target.MaxHP = card.HP
	target.CurrentHP = card.HP - damage
	if target.CurrentHP < 1 {
		target.CurrentHP = 1
	}
	target.ClearStatus()
	target.PlacedTurn = g.Turn

	g.logf(EventEvolve, g.Current, card.Name, "%s evolves %s into %s", playerName(g.Current), previous, card.Name)
}

// playTrainer resolves an Item/Supporter/Tool through the descriptor
// registry, with the player's own active as the effect source.
func (b *Battle) playTrainer(card *BattleCard) {
	g := b.state

	g.logf(EventPlayTrainer, g.Current, card.Name, "%s plays %s", playerName(g.Current), card.Name)

	if card.CardType == CARDTYPE_SUPPORTER {
		g.CurrentPlayer().SupporterPlayedThisTurn = true
	}

	source := ActiveRef(g.Current)
	target := ActiveRef(Opponent(g.Current))

	for _, descriptor := range card.TrainerEffects {
		g.executeDescriptor(source, target, descriptor)
	}

	g.knockoutSweep()
}

// resolveEmptyActives runs FORCED_POKEMON_SELECTION for any side whose
// active slot is empty. A side with no legal replacement loses on the
// spot. Returns true when the battle ended here.
func (b *Battle) resolveEmptyActives() bool {
	g := b.state

	// a prize-point win beats the replacement prompt
	if b.checkWinConditions() {
		return true
	}

	for playerIndex := range g.Players {
		if g.Player(playerIndex).Active != nil {
			continue
		}

		g.Phase = PHASE_FORCED_SELECTION
		legal := g.ReplacementActions(playerIndex)

		if len(legal) == 0 {
			b.declareWinner(Opponent(playerIndex), END_NO_POKEMON)
			return true
		}

		choice := b.chooseFrom(playerIndex, legal)

		switch choice.Type {
		case ACTION_PROMOTE_BENCH:
			player := g.Player(playerIndex)
			player.Active = player.Bench[choice.BenchIndex]
			player.Bench[choice.BenchIndex] = nil
			g.logf(EventPromote, playerIndex, player.Active.Card.Name,
				"%s promotes %s", playerName(playerIndex), player.Active.Card.Name)
		case ACTION_PROMOTE_HAND:
			b.promoteFromHand(playerIndex, choice.HandIndex)
		}
	}

	// the replacement still counts toward prize-point wins
	return b.checkWinConditions()
}

func (b *Battle) promoteFromHand(playerIndex int, handIndex int) {
	g := b.state
	player := g.Player(playerIndex)

	card := player.RemoveFromHand(handIndex)
	player.Active = NewBattlePokemon(card, g.Turn)
	g.logf(EventPromote, playerIndex, card.Name, "%s sends out %s", playerName(playerIndex), card.Name)
}

// checkWinConditions evaluates prize points, then the turn cap and the
// wall-clock budget. Returns true when the battle is over.
func (b *Battle) checkWinConditions() bool {
	g := b.state

	for playerIndex := range g.Players {
		if g.Player(playerIndex).Points >= g.Rules.PrizeTarget {
			b.declareWinner(playerIndex, END_POINTS)
			return true
		}
	}

	if g.Turn >= g.Rules.MaxTurns {
		b.declareTie(END_TURN_CAP)
		return true
	}

	if !b.Deadline.IsZero() && time.Now().After(b.Deadline) {
		b.declareTie(END_DEADLINE)
		return true
	}

	return false
}

func (b *Battle) declareWinner(playerIndex int, reason int) {
	g := b.state
	g.Winner = playerIndex
	g.EndReason = reason
	g.Phase = PHASE_GAME_OVER
	g.logf(EventWin, playerIndex, "", "%s wins (%s)", playerName(playerIndex), EndReasonName(reason))
}

func (b *Battle) declareTie(reason int) {
	g := b.state
	g.Tie = true
	g.Winner = NO_WINNER
	g.EndReason = reason
	g.Phase = PHASE_GAME_OVER
	g.logf(EventTie, NO_WINNER, "", "battle is a tie (%s)", EndReasonName(reason))
}

// chooseFrom asks a provider for a decision, falling back to the first
// legal action when the provider returns something off-menu during
// setup/replacement prompts.
func (b *Battle) chooseFrom(playerIndex int, legal []Action) Action {
	if len(legal) == 0 {
		panic(EngineError{Reason: "chooseFrom with no legal actions"})
	}

	choice := b.providers[playerIndex].ChooseAction(b.state, legal)
	if b.state.Phase != PHASE_ACTION && !isLegal(choice, legal) {
		return legal[0]
	}

	return choice
}

func isLegal(choice Action, legal []Action) bool {
	for _, action := range legal {
		if sameAction(choice, action) {
			return true
		}
	}

	return false
}
