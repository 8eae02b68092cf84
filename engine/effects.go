package engine

// EffectHandler applies one descriptor during attack resolution. Any
// randomness a handler needs comes from the battle's CoinFlipper, never
// an ambient source, so handlers stay replayable under a fixed seed.
type EffectHandler func(g *GameState, source, target PokemonRef, descriptor EffectDescriptor)

// defaultHandlers is the closed registry over EffectKind. A kind with
// no entry resolves as a logged no-op, never a fatal error.
var defaultHandlers = map[EffectKind]EffectHandler{
	EFFECT_COIN_FLIP_DAMAGE:   handleCoinFlipDamage,
	EFFECT_STATUS:             handleStatus,
	EFFECT_HEAL:               handleHeal,
	EFFECT_ENERGY_SCALING:     handleEnergyScaling,
	EFFECT_CONDITIONAL_DAMAGE: handleConditionalDamage,
	EFFECT_ENERGY_DISCARD:     handleEnergyDiscard,
	EFFECT_ENERGY_ACCELERATE:  handleEnergyAccelerate,
	EFFECT_RECOIL:             handleRecoil,
	EFFECT_BENCH_DAMAGE:       handleBenchDamage,
	EFFECT_DRAW:               handleDraw,
}

// attackResolution accumulates pending damage while descriptors run.
// The final amount lands on the defender in one application, after the
// last descriptor, so modifiers see the whole chain.
type attackResolution struct {
	damage    int
	cancelled bool
}

// resolution is only non-nil while ResolveAttack is executing; trainer
// effects resolve without one.
func (g *GameState) resolutionDamage(delta int) {
	if g.resolution == nil {
		internalLogger.WithName("effects").Info("damage descriptor outside attack resolution ignored")
		return
	}

	g.resolution.damage += delta
}

// ResolveAttack plays out one attack by the current player's active
// Pokemon: cost legality, base damage, weakness bonus, descriptors in
// parser order, knockout sweep. The full chain completes atomically
// before any phase transition is observed.
func (g *GameState) ResolveAttack(attackIndex int) error {
	attacker := g.CurrentPlayer().Active
	defender := g.OpposingPlayer().Active

	if attacker == nil || defender == nil {
		return EngineError{Reason: "attack resolution with empty active slot"}
	}
	if attackIndex < 0 || attackIndex >= len(attacker.Card.Attacks) {
		return ValidationError{Reason: "attack index out of range"}
	}

	attack := attacker.Card.Attacks[attackIndex]

	if !attacker.CanAfford(attack.Cost) {
		return ValidationError{Reason: "insufficient energy for " + attack.Name}
	}

	if attacker.Status.Major == STATUS_SLEEP || attacker.Status.Major == STATUS_PARALYSIS {
		return ValidationError{Reason: attacker.Card.Name + " cannot attack while " + StatusName(attacker.Status.Major)}
	}

	g.logf(EventAttackDeclare, g.Current, attacker.Card.Name,
		"%s's %s uses %s", playerName(g.Current), attacker.Card.Name, attack.Name)

	if !g.confusionCheck(g.Current) {
		return nil
	}

	source := ActiveRef(g.Current)
	target := ActiveRef(Opponent(g.Current))

	g.resolution = &attackResolution{damage: attack.Damage}
	defer func() { g.resolution = nil }()

	// weakness bonus, exactly once, only on damaging attacks
	if attack.Damage > 0 && defender.Card.Weakness != "" && attacker.Card.EnergyType == defender.Card.Weakness {
		g.resolution.damage += g.Rules.WeaknessDamageBonus
		g.logf(EventDamage, g.Current, defender.Card.Name,
			"weakness to %s adds %d damage", attacker.Card.EnergyType, g.Rules.WeaknessDamageBonus)
	}

	for _, descriptor := range attack.Effects {
		g.executeDescriptor(source, target, descriptor)
		if g.resolution.cancelled {
			g.logf(EventDamage, g.Current, attacker.Card.Name, "%s does nothing", attack.Name)
			g.knockoutSweep()
			return nil
		}
	}

	if g.resolution.damage > 0 {
		defender.ApplyDamage(g.resolution.damage)
		g.logf(EventDamage, Opponent(g.Current), defender.Card.Name,
			"%s takes %d damage (%d/%d)", defender.Card.Name, g.resolution.damage, defender.CurrentHP, defender.MaxHP)
	}

	g.knockoutSweep()

	return nil
}

// executeDescriptor dispatches one descriptor through the registry.
func (g *GameState) executeDescriptor(source, target PokemonRef, descriptor EffectDescriptor) {
	handler, ok := defaultHandlers[descriptor.Kind]
	if !ok {
		g.logf(EventEffectSkipped, source.Player, "",
			"no handler registered for effect %s, skipping", descriptor.Kind)
		internalLogger.WithName("effects").Info("unhandled effect kind", "kind", descriptor.Kind.String())
		return
	}

	handler(g, source, target, descriptor)
}

// knockoutSweep removes every 0-HP Pokemon from the board and awards
// prize points to the opposing side: 1 per knockout, 2 for an EX.
// Active-slot knockouts are left in place for the state machine to
// route through forced replacement; only the points and events happen
// here.
func (g *GameState) knockoutSweep() {
	for playerIndex := range g.Players {
		player := g.Player(playerIndex)
		opponent := Opponent(playerIndex)

		for slot, pokemon := range player.Bench {
			if pokemon == nil || pokemon.Alive() {
				continue
			}

			g.awardKnockout(opponent, pokemon)
			player.Bench[slot] = nil
		}

		if player.Active != nil && !player.Active.Alive() {
			g.awardKnockout(opponent, player.Active)
			player.Active = nil
		}
	}
}

func (g *GameState) awardKnockout(scorer int, knocked *BattlePokemon) {
	points := 1
	if knocked.Card.IsEX {
		points = 2
	}

	g.Player(scorer).Points += points

	g.logf(EventKnockout, Opponent(scorer), knocked.Card.Name, "%s is knocked out", knocked.Card.Name)
	g.logf(EventPrizePoints, scorer, knocked.Card.Name,
		"%s scores %d point(s), now %d", playerName(scorer), points, g.Player(scorer).Points)
}

// --- handlers ---

func handleCoinFlipDamage(g *GameState, source, _ PokemonRef, descriptor EffectDescriptor) {
	if descriptor.UntilTails {
		results := g.flipUntilTails(source.Player, "attack effect")
		g.resolutionDamage(CountHeads(results) * descriptor.DamagePerHit)
		return
	}

	flips := descriptor.FlipCount
	if flips <= 0 {
		flips = 1
	}

	heads := 0
	for range flips {
		if g.flip(source.Player, "attack effect") {
			heads++
		}
	}

	if descriptor.AllOrNothing {
		if heads == 0 && g.resolution != nil {
			g.resolution.cancelled = true
		}
		return
	}

	g.resolutionDamage(heads * descriptor.DamagePerHit)
}

func handleStatus(g *GameState, source, target PokemonRef, descriptor EffectDescriptor) {
	if descriptor.RequiresHeads && !g.flip(source.Player, "status effect") {
		return
	}

	ref := target
	if descriptor.SelfInflicted {
		ref = source
	}

	pokemon := g.Pokemon(ref)
	if pokemon == nil {
		return
	}

	switch {
	case descriptor.Burn:
		pokemon.Status.Burned = true
		g.logf(EventStatusApplied, ref.Player, pokemon.Card.Name, "%s is now Burned", pokemon.Card.Name)
	case descriptor.Poison:
		pokemon.Status.Poisoned = true
		g.logf(EventStatusApplied, ref.Player, pokemon.Card.Name, "%s is now Poisoned", pokemon.Card.Name)
	case descriptor.Status != STATUS_NONE:
		replaced := pokemon.ApplyMajorStatus(descriptor.Status)
		if replaced != STATUS_NONE {
			g.logf(EventStatusCleared, ref.Player, pokemon.Card.Name,
				"%s is no longer %s", pokemon.Card.Name, StatusName(replaced))
		}
		g.logf(EventStatusApplied, ref.Player, pokemon.Card.Name,
			"%s is now %s", pokemon.Card.Name, StatusName(descriptor.Status))
	}
}

func handleHeal(g *GameState, source, _ PokemonRef, descriptor EffectDescriptor) {
	pokemon := g.Pokemon(source)
	if pokemon == nil {
		return
	}

	pokemon.Heal(descriptor.HealAmount)
	g.logf(EventHeal, source.Player, pokemon.Card.Name,
		"%s heals %d (%d/%d)", pokemon.Card.Name, descriptor.HealAmount, pokemon.CurrentHP, pokemon.MaxHP)
}

func handleEnergyScaling(g *GameState, source, _ PokemonRef, descriptor EffectDescriptor) {
	pokemon := g.Pokemon(source)
	if pokemon == nil {
		return
	}

	g.resolutionDamage(pokemon.EnergyCount(descriptor.EnergyType) * descriptor.DamagePerEnergy)
}

func handleConditionalDamage(g *GameState, source, target PokemonRef, descriptor EffectDescriptor) {
	met := false

	switch descriptor.Condition {
	case COND_SELF_DAMAGED:
		pokemon := g.Pokemon(source)
		met = pokemon != nil && pokemon.CurrentHP < pokemon.MaxHP
	case COND_TARGET_POISONED:
		pokemon := g.Pokemon(target)
		met = pokemon != nil && pokemon.Status.Poisoned
	}

	if met {
		g.resolutionDamage(descriptor.BonusDamage)
	}
}

func handleEnergyDiscard(g *GameState, source, _ PokemonRef, descriptor EffectDescriptor) {
	pokemon := g.Pokemon(source)
	if pokemon == nil {
		return
	}

	discarded := pokemon.DiscardEnergy(descriptor.EnergyCount)
	g.logf(EventAttachEnergy, source.Player, pokemon.Card.Name,
		"%s discards %d energy", pokemon.Card.Name, discarded)
}

func handleEnergyAccelerate(g *GameState, source, _ PokemonRef, descriptor EffectDescriptor) {
	pokemon := g.Pokemon(source)
	if pokemon == nil {
		return
	}

	energy := descriptor.EnergyType
	if energy == "" {
		energy = g.deckEnergy(source.Player)
	}

	for range descriptor.EnergyCount {
		pokemon.AttachedEnergy = append(pokemon.AttachedEnergy, energy)
	}

	g.logf(EventAttachEnergy, source.Player, pokemon.Card.Name,
		"%s gains %d %s energy", pokemon.Card.Name, descriptor.EnergyCount, energy)
}

func handleRecoil(g *GameState, source, _ PokemonRef, descriptor EffectDescriptor) {
	pokemon := g.Pokemon(source)
	if pokemon == nil {
		return
	}

	pokemon.ApplyDamage(descriptor.RecoilDamage)
	g.logf(EventDamage, source.Player, pokemon.Card.Name,
		"%s takes %d recoil damage (%d/%d)", pokemon.Card.Name, descriptor.RecoilDamage, pokemon.CurrentHP, pokemon.MaxHP)
}

func handleBenchDamage(g *GameState, _, target PokemonRef, descriptor EffectDescriptor) {
	player := g.Player(target.Player)

	for _, pokemon := range player.Bench {
		if pokemon == nil {
			continue
		}

		pokemon.ApplyDamage(descriptor.BenchDamage)
		g.logf(EventDamage, target.Player, pokemon.Card.Name,
			"benched %s takes %d damage (%d/%d)", pokemon.Card.Name, descriptor.BenchDamage, pokemon.CurrentHP, pokemon.MaxHP)
	}
}

func handleDraw(g *GameState, source, _ PokemonRef, descriptor EffectDescriptor) {
	player := g.Player(source.Player)

	drawn := player.Draw(descriptor.DrawCount, g.Rules.HandLimit)
	g.logf(EventDrawCard, source.Player, "", "%s draws %d card(s)", playerName(source.Player), len(drawn))
}

// deckEnergy picks the turn's energy type for a player: fixed for
// single-type decks, a flipper draw for multi-type decks.
func (g *GameState) deckEnergy(playerIndex int) string {
	types := g.Player(playerIndex).Deck.EnergyTypes
	if len(types) == 1 {
		return types[0]
	}

	return types[g.flipper.IntN(len(types))]
}
