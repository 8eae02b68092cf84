package engine

// ApplyMajorStatus puts a major condition on a Pokemon, replacing any
// existing major condition. Minor conditions on the Pokemon survive.
func (p *BattlePokemon) ApplyMajorStatus(status int) (replaced int) {
	replaced = p.Status.Major
	p.Status.Major = status

	return replaced
}

// ClearStatus wipes every condition, used on evolution and retreat.
func (p *BattlePokemon) ClearStatus() {
	p.Status = StatusState{}
}

// processStatusTurnEnd runs the once-per-turn-boundary status pass for
// one player's active Pokemon: DOT damage, recovery flips, expiry.
// Never called mid-attack. Any knockout this causes is picked up by the
// caller's KO check, which routes through the same forced-replacement
// path as combat damage.
func (g *GameState) processStatusTurnEnd(playerIndex int) {
	player := g.Player(playerIndex)
	pokemon := player.Active
	if pokemon == nil || !pokemon.Status.Any() {
		return
	}

	statusLogger := internalLogger.WithName("status")

	if pokemon.Status.Poisoned {
		pokemon.ApplyDamage(g.Rules.PoisonDamage)
		g.logf(EventStatusTick, playerIndex, pokemon.Card.Name,
			"%s takes %d poison damage (%d/%d)", pokemon.Card.Name, g.Rules.PoisonDamage, pokemon.CurrentHP, pokemon.MaxHP)
	}

	if pokemon.Status.Burned {
		pokemon.ApplyDamage(g.Rules.BurnDamage)
		g.logf(EventStatusTick, playerIndex, pokemon.Card.Name,
			"%s takes %d burn damage (%d/%d)", pokemon.Card.Name, g.Rules.BurnDamage, pokemon.CurrentHP, pokemon.MaxHP)

		// burn recovery flip
		if g.flip(playerIndex, "burn recovery") {
			pokemon.Status.Burned = false
			g.logf(EventStatusCleared, playerIndex, pokemon.Card.Name, "%s is no longer Burned", pokemon.Card.Name)
		}
	}

	switch pokemon.Status.Major {
	case STATUS_SLEEP:
		if g.flip(playerIndex, "sleep recovery") {
			pokemon.Status.Major = STATUS_NONE
			g.logf(EventStatusCleared, playerIndex, pokemon.Card.Name, "%s woke up", pokemon.Card.Name)
		} else {
			statusLogger.V(1).Info("sleep recovery failed", "pokemon", pokemon.Card.Name)
		}
	case STATUS_PARALYSIS:
		// paralysis expires after one full turn
		if playerIndex == g.Current {
			pokemon.Status.Major = STATUS_NONE
			g.logf(EventStatusCleared, playerIndex, pokemon.Card.Name, "%s is no longer Paralyzed", pokemon.Card.Name)
		}
	}
}

// confusionCheck runs when a confused Pokemon attacks: tails means the
// attack fizzles.
func (g *GameState) confusionCheck(playerIndex int) bool {
	pokemon := g.Player(playerIndex).Active
	if pokemon.Status.Major != STATUS_CONFUSION {
		return true
	}

	if g.flip(playerIndex, "confusion check") {
		return true
	}

	g.logf(EventStatusTick, playerIndex, pokemon.Card.Name,
		"%s is Confused and botched the attack", pokemon.Card.Name)

	return false
}

// flip draws from the battle flipper and logs the result.
func (g *GameState) flip(playerIndex int, reason string) bool {
	heads := g.flipper.Flip()
	g.logFlip(playerIndex, reason, heads)

	return heads
}

// flipUntilTails runs an open-ended flip chain, logging every result.
func (g *GameState) flipUntilTails(playerIndex int, reason string) []bool {
	flips := g.flipper.FlipUntil(func(heads bool) bool { return !heads })
	for _, heads := range flips {
		g.logFlip(playerIndex, reason, heads)
	}

	return flips
}

func (g *GameState) logFlip(playerIndex int, reason string, heads bool) {
	face := "tails"
	if heads {
		face = "heads"
	}
	g.logf(EventCoinFlip, playerIndex, "", "%s flips %s (%s)", playerName(playerIndex), face, reason)
}
