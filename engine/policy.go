package engine

import (
	"github.com/samber/lo"
)

// RulePolicy is the built-in deterministic battler. It only ever picks
// from the legal list it is handed, so it cannot corrupt a battle no
// matter how bad its choices are.
type RulePolicy struct {
	PolicyName string
}

func (p RulePolicy) Name() string {
	if p.PolicyName == "" {
		return "rule-policy"
	}

	return p.PolicyName
}

// ChooseAction applies a fixed priority order: replace an empty active
// slot, attach energy, evolve, fill the bench, play a trainer, retreat
// a crippled active, then the affordable attack with the highest
// expected damage, and finally end the turn.
func (p RulePolicy) ChooseAction(g *GameState, legal []Action) Action {
	if len(legal) == 0 {
		return Action{Type: ACTION_END_TURN}
	}

	if promotions := actionsOfType(legal, ACTION_PROMOTE_BENCH, ACTION_PROMOTE_HAND); len(promotions) > 0 {
		return p.bestReplacement(g, promotions)
	}

	if attach := p.bestEnergyAttach(g, legal); attach != nil {
		return *attach
	}

	if evolve, ok := firstOfType(legal, ACTION_EVOLVE); ok {
		return evolve
	}

	if bench, ok := firstOfType(legal, ACTION_PLAY_BASIC); ok {
		return bench
	}

	if trainer, ok := firstOfType(legal, ACTION_PLAY_TRAINER); ok {
		return trainer
	}

	if retreat := p.bestRetreat(g, legal); retreat != nil {
		return *retreat
	}

	if attack := p.bestAttack(g, legal); attack != nil {
		return *attack
	}

	if end, ok := firstOfType(legal, ACTION_END_TURN); ok {
		return end
	}

	return legal[0]
}

// bestReplacement scores each candidate by remaining HP plus attached
// energy. Ties keep the earlier candidate, so the choice is stable for
// a given hand/bench order.
func (p RulePolicy) bestReplacement(g *GameState, candidates []Action) Action {
	best := candidates[0]
	bestScore := -1

	for _, candidate := range candidates {
		score := 0
		switch candidate.Type {
		case ACTION_PROMOTE_BENCH:
			pokemon := g.Player(candidate.Player).Bench[candidate.BenchIndex]
			score = pokemon.CurrentHP + len(pokemon.AttachedEnergy)
		case ACTION_PROMOTE_HAND:
			score = g.Player(candidate.Player).Hand[candidate.HandIndex].HP
		}

		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	return best
}

// bestEnergyAttach prefers the active Pokemon; energy on the attacker
// converts to damage soonest. Falls back to the first bench target.
func (p RulePolicy) bestEnergyAttach(g *GameState, legal []Action) *Action {
	attaches := actionsOfType(legal, ACTION_ATTACH_ENERGY)
	if len(attaches) == 0 {
		return nil
	}

	if active, ok := lo.Find(attaches, func(a Action) bool { return a.BenchIndex == SLOT_ACTIVE }); ok {
		return &active
	}

	return &attaches[0]
}

// bestRetreat pulls the active out when it is under a third of its max
// HP and the bench holds something with more HP left. The healthiest
// candidate wins; ties keep bench order.
func (p RulePolicy) bestRetreat(g *GameState, legal []Action) *Action {
	retreats := actionsOfType(legal, ACTION_RETREAT)
	if len(retreats) == 0 {
		return nil
	}

	active := g.CurrentPlayer().Active
	if active == nil || active.CurrentHP*3 > active.MaxHP {
		return nil
	}

	var best *Action
	bestHP := active.CurrentHP
	for i, candidate := range retreats {
		pokemon := g.CurrentPlayer().Bench[candidate.BenchIndex]
		if pokemon.CurrentHP > bestHP {
			best = &retreats[i]
			bestHP = pokemon.CurrentHP
		}
	}

	return best
}

func (p RulePolicy) bestAttack(g *GameState, legal []Action) *Action {
	attacks := actionsOfType(legal, ACTION_ATTACK)
	if len(attacks) == 0 {
		return nil
	}

	best := attacks[0]
	bestDamage := -1.0

	for _, candidate := range attacks {
		expected := expectedDamage(g, candidate.AttackIndex)
		if expected > bestDamage {
			best = candidate
			bestDamage = expected
		}
	}

	return &best
}

// expectedDamage estimates the damage an attack deals to the opposing
// active Pokemon, treating each coin as a fair half.
func expectedDamage(g *GameState, attackIndex int) float64 {
	attacker := g.CurrentPlayer().Active
	defender := g.OpposingPlayer().Active
	if attacker == nil || defender == nil || attackIndex >= len(attacker.Card.Attacks) {
		return 0
	}

	attack := attacker.Card.Attacks[attackIndex]
	expected := float64(attack.Damage)

	for _, descriptor := range attack.Effects {
		switch descriptor.Kind {
		case EFFECT_COIN_FLIP_DAMAGE:
			switch {
			case descriptor.AllOrNothing:
				expected *= 0.5
			case descriptor.UntilTails:
				// one heads on average before the first tails
				expected += float64(descriptor.DamagePerHit)
			default:
				expected += float64(descriptor.FlipCount) * float64(descriptor.DamagePerHit) * 0.5
			}
		case EFFECT_ENERGY_SCALING:
			expected += float64(descriptor.DamagePerEnergy) * float64(attacker.EnergyCount(descriptor.EnergyType))
		case EFFECT_CONDITIONAL_DAMAGE:
			if conditionHolds(g, descriptor.Condition) {
				expected += float64(descriptor.BonusDamage)
			}
		}
	}

	if expected > 0 && defender.Card.Weakness != "" && attacker.Card.EnergyType == defender.Card.Weakness {
		expected += float64(g.Rules.WeaknessDamageBonus)
	}

	return expected
}

func conditionHolds(g *GameState, condition int) bool {
	switch condition {
	case COND_SELF_DAMAGED:
		active := g.CurrentPlayer().Active
		return active != nil && active.CurrentHP < active.MaxHP
	case COND_TARGET_POISONED:
		target := g.OpposingPlayer().Active
		return target != nil && target.Status.Poisoned
	default:
		return false
	}
}

func actionsOfType(legal []Action, types ...ActionType) []Action {
	return lo.Filter(legal, func(a Action, _ int) bool {
		return lo.Contains(types, a.Type)
	})
}

func firstOfType(legal []Action, actionType ActionType) (Action, bool) {
	return lo.Find(legal, func(a Action) bool { return a.Type == actionType })
}
