package engine

import "testing"

func TestAttackBaseDamageAndClamp(t *testing.T) {
	attacker := NewBattlePokemon(
		pokemonCard("Machop", 70, ENERGY_FIGHTING, plainAttack("Karate Chop", 100, ENERGY_FIGHTING)), 1)
	withEnergy(attacker, ENERGY_FIGHTING)

	defender := NewBattlePokemon(pokemonCard("Rattata", 60, ENERGY_COLORLESS), 1)

	g := simpleState(attacker, defender)
	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}

	if defender.CurrentHP != 0 {
		t.Fatalf("overkill damage must clamp at 0, got %d", defender.CurrentHP)
	}
}

func TestWeaknessKnockoutAwardsTwoPointsForEX(t *testing.T) {
	attacker := NewBattlePokemon(
		pokemonCard("Pikachu", 60, ENERGY_LIGHTNING, plainAttack("Thunder Shock", 60, ENERGY_LIGHTNING)), 1)
	withEnergy(attacker, ENERGY_LIGHTNING)

	exCard := pokemonCard("Articuno ex", 80, ENERGY_WATER)
	exCard.IsEX = true
	exCard.Weakness = ENERGY_LIGHTNING
	defender := NewBattlePokemon(exCard, 1)

	g := simpleState(attacker, defender)
	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}

	// 60 base + 20 weakness = 80, exactly lethal
	if g.Players[PLAYER_TWO].Active != nil {
		t.Fatal("knocked out active should be cleared for forced selection")
	}
	if points := g.Players[PLAYER_ONE].Points; points != 2 {
		t.Fatalf("EX knockout must award 2 points, got %d", points)
	}
}

func TestWeaknessAppliesOnceAndOnlyWhenDamaging(t *testing.T) {
	card := pokemonCard("Vulpix", 60, ENERGY_FIRE,
		plainAttack("Ember", 30, ENERGY_FIRE),
		Attack{Name: "Will-O-Wisp", Cost: []string{ENERGY_FIRE}, Damage: 0,
			Effects: []EffectDescriptor{{Kind: EFFECT_STATUS, Burn: true}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_FIRE)

	weakCard := pokemonCard("Pinsir", 90, ENERGY_GRASS)
	weakCard.Weakness = ENERGY_FIRE
	defender := NewBattlePokemon(weakCard, 1)

	g := simpleState(attacker, defender)

	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}
	if defender.CurrentHP != 90-30-g.Rules.WeaknessDamageBonus {
		t.Fatalf("weakness bonus should apply exactly once, defender at %d", defender.CurrentHP)
	}

	// zero-damage attack never gets the bonus
	if err := g.ResolveAttack(1); err != nil {
		t.Fatalf("attack failed: %v", err)
	}
	if defender.CurrentHP != 90-30-g.Rules.WeaknessDamageBonus {
		t.Fatalf("status-only attack must not deal weakness damage, defender at %d", defender.CurrentHP)
	}
	if !defender.Status.Burned {
		t.Fatal("status-only attack should still burn")
	}
}

func TestCoinFlipDamagePerHeads(t *testing.T) {
	card := pokemonCard("Zapdos", 110, ENERGY_LIGHTNING,
		Attack{Name: "Thunder Storm", Cost: []string{ENERGY_LIGHTNING}, Damage: 0,
			Effects: []EffectDescriptor{{Kind: EFFECT_COIN_FLIP_DAMAGE, FlipCount: 4, DamagePerHit: 30}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_LIGHTNING)
	defender := NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1)

	g := simpleState(attacker, defender)
	g.flipper = NewCoinFlipperFromSource(0, highSource{})

	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}
	if defender.CurrentHP != 140-4*30 {
		t.Fatalf("4 heads at 30 each should deal 120, defender at %d", defender.CurrentHP)
	}
}

func TestCoinFlipUntilTailsDamage(t *testing.T) {
	card := pokemonCard("Staryu", 60, ENERGY_WATER,
		Attack{Name: "Spiral Spin", Cost: []string{ENERGY_COLORLESS}, Damage: 0,
			Effects: []EffectDescriptor{{Kind: EFFECT_COIN_FLIP_DAMAGE, UntilTails: true, DamagePerHit: 30}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_WATER)
	defender := NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1)

	g := simpleState(attacker, defender)
	// heads, heads, tails
	g.flipper = NewCoinFlipperFromSource(0, &sequenceSource{values: []uint64{1, 1, 0}})

	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}
	if defender.CurrentHP != 140-2*30 {
		t.Fatalf("two heads at 30 each should deal 60, defender at %d", defender.CurrentHP)
	}
}

func TestAllOrNothingTailsCancelsEverything(t *testing.T) {
	card := pokemonCard("Golem", 130, ENERGY_FIGHTING,
		Attack{Name: "Double-Edge", Cost: []string{ENERGY_FIGHTING}, Damage: 100,
			Effects: []EffectDescriptor{
				{Kind: EFFECT_COIN_FLIP_DAMAGE, FlipCount: 1, AllOrNothing: true},
				{Kind: EFFECT_RECOIL, RecoilDamage: 50},
			}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_FIGHTING)
	defender := NewBattlePokemon(pokemonCard("Lapras", 120, ENERGY_WATER), 1)

	g := simpleState(attacker, defender)
	g.flipper = NewCoinFlipperFromSource(0, lowSource{})

	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}

	if defender.CurrentHP != 120 {
		t.Fatalf("cancelled attack must deal no damage, defender at %d", defender.CurrentHP)
	}
	if attacker.CurrentHP != 130 {
		t.Fatalf("descriptors after the cancel must not run, attacker at %d", attacker.CurrentHP)
	}
}

func TestEnergyScalingDamage(t *testing.T) {
	card := pokemonCard("Gyarados", 140, ENERGY_WATER,
		Attack{Name: "Hydro Pump", Cost: []string{ENERGY_WATER}, Damage: 20,
			Effects: []EffectDescriptor{{Kind: EFFECT_ENERGY_SCALING, DamagePerEnergy: 30, EnergyType: ENERGY_WATER}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_WATER, ENERGY_WATER, ENERGY_COLORLESS)
	defender := NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1)

	g := simpleState(attacker, defender)
	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}

	// 20 base + 2 water * 30; the colorless attachment does not count
	if defender.CurrentHP != 140-80 {
		t.Fatalf("expected 80 total damage, defender at %d", defender.CurrentHP)
	}
}

func TestRecoilAndSelfKnockout(t *testing.T) {
	card := pokemonCard("Electrode", 30, ENERGY_LIGHTNING,
		Attack{Name: "Explosion", Cost: []string{ENERGY_LIGHTNING}, Damage: 80,
			Effects: []EffectDescriptor{{Kind: EFFECT_RECOIL, RecoilDamage: 50}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_LIGHTNING)
	defender := NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1)

	g := simpleState(attacker, defender)
	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}

	if g.Players[PLAYER_ONE].Active != nil {
		t.Fatal("recoil knockout should clear the attacker's active slot")
	}
	if g.Players[PLAYER_TWO].Points != 1 {
		t.Fatalf("opponent should score the recoil knockout, got %d", g.Players[PLAYER_TWO].Points)
	}
}

func TestBenchDamageHitsEveryBenchedPokemon(t *testing.T) {
	card := pokemonCard("Magneton", 80, ENERGY_LIGHTNING,
		Attack{Name: "Spark", Cost: []string{ENERGY_LIGHTNING}, Damage: 20,
			Effects: []EffectDescriptor{{Kind: EFFECT_BENCH_DAMAGE, BenchDamage: 10}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_LIGHTNING)
	defender := NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1)

	g := simpleState(attacker, defender)
	benched := NewBattlePokemon(pokemonCard("Geodude", 70, ENERGY_FIGHTING), 1)
	g.Players[PLAYER_TWO].Bench[0] = benched

	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}

	if benched.CurrentHP != 60 {
		t.Fatalf("benched pokemon should take splash damage, at %d", benched.CurrentHP)
	}
	if defender.CurrentHP != 120 {
		t.Fatalf("active should take base damage only, at %d", defender.CurrentHP)
	}
}

func TestHealClampsAtMax(t *testing.T) {
	card := pokemonCard("Chansey", 120, ENERGY_COLORLESS,
		Attack{Name: "Soft-Boiled", Cost: []string{ENERGY_COLORLESS}, Damage: 0,
			Effects: []EffectDescriptor{{Kind: EFFECT_HEAL, HealAmount: 60}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_COLORLESS)
	attacker.ApplyDamage(20)

	g := simpleState(attacker, NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1))
	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}

	if attacker.CurrentHP != 120 {
		t.Fatalf("heal must clamp at max HP, got %d", attacker.CurrentHP)
	}
}

func TestStatusRequiresHeads(t *testing.T) {
	card := pokemonCard("Butterfree", 90, ENERGY_GRASS,
		Attack{Name: "Sleep Powder", Cost: []string{ENERGY_GRASS}, Damage: 20,
			Effects: []EffectDescriptor{{Kind: EFFECT_STATUS, Status: STATUS_SLEEP, RequiresHeads: true}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_GRASS)
	defender := NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1)

	g := simpleState(attacker, defender)

	g.flipper = NewCoinFlipperFromSource(0, lowSource{})
	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}
	if defender.Status.Major != STATUS_NONE {
		t.Fatal("tails should block the status")
	}
	if defender.CurrentHP != 120 {
		t.Fatalf("damage lands regardless of the status flip, defender at %d", defender.CurrentHP)
	}

	g.flipper = NewCoinFlipperFromSource(0, highSource{})
	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}
	if defender.Status.Major != STATUS_SLEEP {
		t.Fatal("heads should land the status")
	}
}

func TestUnhandledEffectKindIsNoOp(t *testing.T) {
	card := pokemonCard("Mew", 60, ENERGY_PSYCHIC,
		Attack{Name: "Mystery", Cost: []string{ENERGY_PSYCHIC}, Damage: 30,
			Effects: []EffectDescriptor{{Kind: EffectKind(99)}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_PSYCHIC)
	defender := NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1)

	g := simpleState(attacker, defender)
	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("unhandled kind must not be fatal: %v", err)
	}

	if defender.CurrentHP != 110 {
		t.Fatalf("base damage should still land, defender at %d", defender.CurrentHP)
	}
	if events := memLog(g).EventsOfType(EventEffectSkipped); len(events) != 1 {
		t.Fatalf("expected one skip event, got %d", len(events))
	}
}

func TestEnergyAccelerateUsesDeckEnergy(t *testing.T) {
	card := pokemonCard("Moltres", 100, ENERGY_FIRE,
		Attack{Name: "Inferno Dance", Cost: []string{ENERGY_FIRE}, Damage: 0,
			Effects: []EffectDescriptor{{Kind: EFFECT_ENERGY_ACCELERATE, EnergyCount: 2}}},
	)
	attacker := NewBattlePokemon(card, 1)
	withEnergy(attacker, ENERGY_FIRE)

	g := simpleState(attacker, NewBattlePokemon(pokemonCard("Onix", 140, ENERGY_FIGHTING), 1))
	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}

	// untyped acceleration pulls from deck energy (Fire-only test deck)
	if count := attacker.EnergyCount(ENERGY_FIRE); count != 3 {
		t.Fatalf("expected 1 attached + 2 accelerated Fire, got %d", count)
	}
}

func TestAttackValidation(t *testing.T) {
	attacker := NewBattlePokemon(
		pokemonCard("Machop", 70, ENERGY_FIGHTING, plainAttack("Karate Chop", 30, ENERGY_FIGHTING, ENERGY_FIGHTING)), 1)
	defender := NewBattlePokemon(pokemonCard("Rattata", 60, ENERGY_COLORLESS), 1)
	g := simpleState(attacker, defender)

	if err := g.ResolveAttack(0); err == nil {
		t.Fatal("unaffordable attack should fail validation")
	}

	withEnergy(attacker, ENERGY_FIGHTING, ENERGY_FIGHTING)
	if err := g.ResolveAttack(5); err == nil {
		t.Fatal("out-of-range attack index should fail validation")
	}
}
