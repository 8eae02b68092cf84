package engine

import "testing"

func TestMajorStatusReplacement(t *testing.T) {
	pokemon := NewBattlePokemon(pokemonCard("Snorlax", 120, ENERGY_COLORLESS), 1)

	if replaced := pokemon.ApplyMajorStatus(STATUS_SLEEP); replaced != STATUS_NONE {
		t.Fatalf("fresh pokemon had a major status: %d", replaced)
	}

	if replaced := pokemon.ApplyMajorStatus(STATUS_CONFUSION); replaced != STATUS_SLEEP {
		t.Fatalf("expected sleep to be replaced, got %d", replaced)
	}
	if pokemon.Status.Major != STATUS_CONFUSION {
		t.Fatalf("wrong major after replacement: %d", pokemon.Status.Major)
	}
}

func TestMinorStatusesCoexistWithMajor(t *testing.T) {
	pokemon := NewBattlePokemon(pokemonCard("Snorlax", 120, ENERGY_COLORLESS), 1)

	pokemon.Status.Burned = true
	pokemon.Status.Poisoned = true
	pokemon.ApplyMajorStatus(STATUS_PARALYSIS)

	if !pokemon.Status.Burned || !pokemon.Status.Poisoned {
		t.Fatal("minor conditions should survive a major status")
	}

	pokemon.ApplyMajorStatus(STATUS_SLEEP)
	if !pokemon.Status.Burned || !pokemon.Status.Poisoned {
		t.Fatal("minor conditions should survive major replacement")
	}
}

func TestPoisonTick(t *testing.T) {
	victim := NewBattlePokemon(pokemonCard("Rattata", 60, ENERGY_COLORLESS), 1)
	victim.Status.Poisoned = true

	g := simpleState(NewBattlePokemon(pokemonCard("Ekans", 70, ENERGY_GRASS), 1), victim)
	g.processStatusTurnEnd(PLAYER_TWO)

	if victim.CurrentHP != 60-g.Rules.PoisonDamage {
		t.Fatalf("expected %d poison damage, hp is %d", g.Rules.PoisonDamage, victim.CurrentHP)
	}
	if !victim.Status.Poisoned {
		t.Fatal("poison has no recovery flip and must persist")
	}
}

func TestBurnTickAndRecovery(t *testing.T) {
	victim := NewBattlePokemon(pokemonCard("Scyther", 80, ENERGY_GRASS), 1)
	victim.Status.Burned = true

	g := simpleState(NewBattlePokemon(pokemonCard("Magmar", 80, ENERGY_FIRE), 1), victim)
	g.flipper = NewCoinFlipperFromSource(0, highSource{})
	g.processStatusTurnEnd(PLAYER_TWO)

	if victim.CurrentHP != 80-g.Rules.BurnDamage {
		t.Fatalf("expected %d burn damage, hp is %d", g.Rules.BurnDamage, victim.CurrentHP)
	}
	if victim.Status.Burned {
		t.Fatal("heads on the recovery flip should cure burn")
	}

	// tails keeps it burning, damage still ticks
	victim.Status.Burned = true
	g.flipper = NewCoinFlipperFromSource(0, lowSource{})
	g.processStatusTurnEnd(PLAYER_TWO)

	if !victim.Status.Burned {
		t.Fatal("tails on the recovery flip should keep the burn")
	}
	if victim.CurrentHP != 80-2*g.Rules.BurnDamage {
		t.Fatalf("burn should tick every boundary, hp is %d", victim.CurrentHP)
	}
}

func TestSleepRecoveryFlip(t *testing.T) {
	sleeper := NewBattlePokemon(pokemonCard("Jigglypuff", 70, ENERGY_COLORLESS), 1)
	sleeper.ApplyMajorStatus(STATUS_SLEEP)

	g := simpleState(sleeper, NewBattlePokemon(pokemonCard("Clefairy", 70, ENERGY_COLORLESS), 1))

	g.flipper = NewCoinFlipperFromSource(0, lowSource{})
	g.processStatusTurnEnd(PLAYER_ONE)
	if sleeper.Status.Major != STATUS_SLEEP {
		t.Fatal("tails should keep the pokemon asleep")
	}

	g.flipper = NewCoinFlipperFromSource(0, highSource{})
	g.processStatusTurnEnd(PLAYER_ONE)
	if sleeper.Status.Major != STATUS_NONE {
		t.Fatal("heads should wake the pokemon")
	}
}

func TestParalysisExpiresOnOwnersBoundary(t *testing.T) {
	paralyzed := NewBattlePokemon(pokemonCard("Pikachu", 60, ENERGY_LIGHTNING), 1)
	paralyzed.ApplyMajorStatus(STATUS_PARALYSIS)

	g := simpleState(paralyzed, NewBattlePokemon(pokemonCard("Sandshrew", 70, ENERGY_FIGHTING), 1))

	// opponent's turn boundary: paralysis holds
	g.Current = PLAYER_TWO
	g.processStatusTurnEnd(PLAYER_ONE)
	if paralyzed.Status.Major != STATUS_PARALYSIS {
		t.Fatal("paralysis should persist through the opponent's boundary")
	}

	// owner's turn boundary: paralysis expires
	g.Current = PLAYER_ONE
	g.processStatusTurnEnd(PLAYER_ONE)
	if paralyzed.Status.Major != STATUS_NONE {
		t.Fatal("paralysis should expire after one full turn")
	}
}

func TestConfusionFizzlesOnTails(t *testing.T) {
	confused := NewBattlePokemon(
		pokemonCard("Psyduck", 70, ENERGY_WATER, plainAttack("Headbutt", 30, ENERGY_WATER)), 1)
	confused.ApplyMajorStatus(STATUS_CONFUSION)
	withEnergy(confused, ENERGY_WATER)

	defender := NewBattlePokemon(pokemonCard("Slowpoke", 80, ENERGY_WATER), 1)

	g := simpleState(confused, defender)
	g.flipper = NewCoinFlipperFromSource(0, lowSource{})

	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("confused attack should not error: %v", err)
	}
	if defender.CurrentHP != 80 {
		t.Fatalf("tails on confusion should fizzle the attack, defender at %d", defender.CurrentHP)
	}

	g.flipper = NewCoinFlipperFromSource(0, highSource{})
	if err := g.ResolveAttack(0); err != nil {
		t.Fatalf("attack failed: %v", err)
	}
	if defender.CurrentHP != 50 {
		t.Fatalf("heads on confusion should let the attack land, defender at %d", defender.CurrentHP)
	}
}

func TestSleepBlocksAttack(t *testing.T) {
	sleeper := NewBattlePokemon(
		pokemonCard("Snorlax", 120, ENERGY_COLORLESS, plainAttack("Body Slam", 50, ENERGY_COLORLESS)), 1)
	sleeper.ApplyMajorStatus(STATUS_SLEEP)
	withEnergy(sleeper, ENERGY_COLORLESS)

	g := simpleState(sleeper, NewBattlePokemon(pokemonCard("Machop", 70, ENERGY_FIGHTING), 1))

	err := g.ResolveAttack(0)
	if err == nil {
		t.Fatal("sleeping pokemon must not attack")
	}
	if _, ok := err.(ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}
