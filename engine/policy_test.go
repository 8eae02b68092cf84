package engine

import "testing"

func TestPolicyAttachesBeforeAttacking(t *testing.T) {
	attacker := NewBattlePokemon(
		pokemonCard("Charmander", 60, ENERGY_FIRE, plainAttack("Ember", 30, ENERGY_FIRE)), 1)
	withEnergy(attacker, ENERGY_FIRE)

	g := simpleState(attacker, NewBattlePokemon(pokemonCard("Squirtle", 60, ENERGY_WATER), 1))
	g.Players[PLAYER_ONE].PendingEnergy = ENERGY_FIRE

	choice := RulePolicy{}.ChooseAction(g, g.LegalActions())
	if choice.Type != ACTION_ATTACH_ENERGY {
		t.Fatalf("policy should attach before anything else, chose %s", choice.Type)
	}
	if choice.BenchIndex != SLOT_ACTIVE {
		t.Fatalf("policy should prefer the active as attach target, chose slot %d", choice.BenchIndex)
	}
}

func TestPolicyPicksHighestExpectedDamage(t *testing.T) {
	card := pokemonCard("Blastoise", 150, ENERGY_WATER,
		plainAttack("Bite", 40, ENERGY_WATER),
		Attack{Name: "Hydro Cannon", Cost: []string{ENERGY_WATER}, Damage: 30,
			Effects: []EffectDescriptor{{Kind: EFFECT_COIN_FLIP_DAMAGE, FlipCount: 2, DamagePerHit: 50}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_WATER)

	g := simpleState(attacker, NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1))

	// Bite 40 flat vs Hydro Cannon 30 + 2*50*0.5 = 80 expected
	choice := RulePolicy{}.ChooseAction(g, g.LegalActions())
	if choice.Type != ACTION_ATTACK || choice.AttackIndex != 1 {
		t.Fatalf("policy should pick the higher expected damage attack, chose %+v", choice)
	}
}

func TestPolicyExpectedDamageCountsWeakness(t *testing.T) {
	card := pokemonCard("Pikachu", 60, ENERGY_LIGHTNING,
		plainAttack("Quick Attack", 40, ENERGY_LIGHTNING))
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_LIGHTNING)

	weakCard := pokemonCard("Pidgey", 60, ENERGY_COLORLESS)
	weakCard.Weakness = ENERGY_LIGHTNING

	g := simpleState(attacker, NewBattlePokemon(weakCard, 1))

	if expected := expectedDamage(g, 0); expected != 60 {
		t.Fatalf("expected 40 + 20 weakness = 60, got %v", expected)
	}
}

func TestPolicyAllOrNothingHalvesExpectation(t *testing.T) {
	card := pokemonCard("Golem", 130, ENERGY_FIGHTING,
		Attack{Name: "Gamble", Cost: []string{ENERGY_FIGHTING}, Damage: 100,
			Effects: []EffectDescriptor{{Kind: EFFECT_COIN_FLIP_DAMAGE, FlipCount: 1, AllOrNothing: true}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_FIGHTING)

	g := simpleState(attacker, NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1))

	if expected := expectedDamage(g, 0); expected != 50 {
		t.Fatalf("all-or-nothing should halve the base, got %v", expected)
	}
}

func TestPolicyRetreatsCrippledActive(t *testing.T) {
	active := NewBattlePokemon(
		pokemonCard("Charmander", 60, ENERGY_FIRE, plainAttack("Ember", 30, ENERGY_FIRE)), 1)
	withEnergy(active, ENERGY_FIRE)
	active.ApplyDamage(45)

	g := simpleState(active, NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1))
	g.Players[PLAYER_ONE].Bench[0] = NewBattlePokemon(pokemonCard("Growlithe", 70, ENERGY_FIRE), 1)

	// 15/60 left and a healthy bench: pull the active out
	choice := RulePolicy{}.ChooseAction(g, g.LegalActions())
	if choice.Type != ACTION_RETREAT || choice.BenchIndex != 0 {
		t.Fatalf("policy should retreat the crippled active, chose %+v", choice)
	}
}

func TestPolicyKeepsHealthyActiveInPlace(t *testing.T) {
	active := NewBattlePokemon(
		pokemonCard("Charmander", 60, ENERGY_FIRE, plainAttack("Ember", 30, ENERGY_FIRE)), 1)
	withEnergy(active, ENERGY_FIRE)

	g := simpleState(active, NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1))
	g.Players[PLAYER_ONE].Bench[0] = NewBattlePokemon(pokemonCard("Growlithe", 70, ENERGY_FIRE), 1)

	choice := RulePolicy{}.ChooseAction(g, g.LegalActions())
	if choice.Type == ACTION_RETREAT {
		t.Fatal("healthy active should not retreat")
	}
}

func TestPolicyRetreatNeedsHealthierBench(t *testing.T) {
	active := NewBattlePokemon(
		pokemonCard("Charmander", 60, ENERGY_FIRE, plainAttack("Ember", 30, ENERGY_FIRE)), 1)
	withEnergy(active, ENERGY_FIRE)
	active.ApplyDamage(45)

	worse := NewBattlePokemon(pokemonCard("Growlithe", 70, ENERGY_FIRE), 1)
	worse.ApplyDamage(60)

	g := simpleState(active, NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1))
	g.Players[PLAYER_ONE].Bench[0] = worse

	choice := RulePolicy{}.ChooseAction(g, g.LegalActions())
	if choice.Type == ACTION_RETREAT {
		t.Fatal("retreating into a weaker pokemon helps nobody")
	}
}

func TestPolicyEndsTurnWhenNothingBetter(t *testing.T) {
	attacker := NewBattlePokemon(
		pokemonCard("Abra", 60, ENERGY_PSYCHIC, plainAttack("Psybeam", 30, ENERGY_PSYCHIC, ENERGY_PSYCHIC)), 1)

	g := simpleState(attacker, NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1))

	// no pending energy and the attack is unaffordable
	choice := RulePolicy{}.ChooseAction(g, g.LegalActions())
	if choice.Type != ACTION_END_TURN {
		t.Fatalf("policy should end the turn, chose %s", choice.Type)
	}
}

func TestPolicyReplacementScoring(t *testing.T) {
	g := simpleState(
		NewBattlePokemon(pokemonCard("Machamp", 120, ENERGY_FIGHTING), 1),
		nil)

	weak := NewBattlePokemon(pokemonCard("Rattata", 60, ENERGY_COLORLESS), 1)
	weak.ApplyDamage(50)
	strong := NewBattlePokemon(pokemonCard("Raticate", 90, ENERGY_COLORLESS), 1)
	withEnergy(strong, ENERGY_COLORLESS)

	g.Players[PLAYER_TWO].Bench[0] = weak
	g.Players[PLAYER_TWO].Bench[1] = strong

	legal := g.ReplacementActions(PLAYER_TWO)
	choice := RulePolicy{}.ChooseAction(g, legal)

	// 10 HP vs 90 HP + 1 energy
	if choice.Type != ACTION_PROMOTE_BENCH || choice.BenchIndex != 1 {
		t.Fatalf("policy should promote the healthier pokemon, chose %+v", choice)
	}
}

func TestPolicyReplacementTieKeepsOrder(t *testing.T) {
	g := simpleState(NewBattlePokemon(pokemonCard("Machamp", 120, ENERGY_FIGHTING), 1), nil)

	first := NewBattlePokemon(pokemonCard("Doduo", 70, ENERGY_COLORLESS), 1)
	second := NewBattlePokemon(pokemonCard("Spearow", 70, ENERGY_COLORLESS), 1)

	g.Players[PLAYER_TWO].Bench[0] = first
	g.Players[PLAYER_TWO].Bench[1] = second

	choice := RulePolicy{}.ChooseAction(g, g.ReplacementActions(PLAYER_TWO))
	if choice.BenchIndex != 0 {
		t.Fatalf("equal scores should keep bench order, chose slot %d", choice.BenchIndex)
	}
}

func TestPolicyOnlyProposesLegalActions(t *testing.T) {
	attacker := NewBattlePokemon(
		pokemonCard("Charmander", 60, ENERGY_FIRE, plainAttack("Ember", 30, ENERGY_FIRE)), 1)
	withEnergy(attacker, ENERGY_FIRE)

	g := simpleState(attacker, NewBattlePokemon(pokemonCard("Squirtle", 60, ENERGY_WATER), 1))
	g.Players[PLAYER_ONE].PendingEnergy = ENERGY_FIRE

	legal := g.LegalActions()
	for range 5 {
		choice := RulePolicy{}.ChooseAction(g, legal)
		if !isLegal(choice, legal) {
			t.Fatalf("policy proposed an off-menu action: %+v", choice)
		}
	}
}
