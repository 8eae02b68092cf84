package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// A recognizer inspects lowercased effect text and either produces a
// descriptor or declines. Recognizers are pure and independent: every
// one of them runs against every attack text, so a single text can
// yield several descriptors.
type recognizer func(text string) (EffectDescriptor, bool)

// Ordered recognizer list. Order only matters for descriptor ordering
// in the output, which in turn is the execution order during attack
// resolution, so damage modifiers come before statuses and utility.
var recognizers = []recognizer{
	recognizeCoinFlipDamage,
	recognizeEnergyScaling,
	recognizeConditionalDamage,
	recognizeBenchDamage,
	recognizeStatus,
	recognizeRecoil,
	recognizeHeal,
	recognizeEnergyDiscard,
	recognizeEnergyAccelerate,
	recognizeDraw,
}

// ParseEffects scans attack or trainer text against every recognizer.
// Identical text always yields an identical descriptor list. Text that
// matches nothing yields an empty list and the attack resolves with its
// base damage only; the parser is intentionally lossy.
func ParseEffects(text string) []EffectDescriptor {
	descriptors := make([]EffectDescriptor, 0)

	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "" {
		return descriptors
	}

	for _, recognize := range recognizers {
		if descriptor, ok := recognize(trimmed); ok {
			descriptors = append(descriptors, descriptor)
		}
	}

	if len(descriptors) == 0 {
		internalLogger.WithName("parser").V(1).Info("no recognizer matched", "text", text)
	}

	return descriptors
}

var (
	flipBonusRe     = regexp.MustCompile(`flip (a|\d+) coins?\.? (?:if heads, )?this attack does (\d+) (?:more )?damage(?: for each heads)?`)
	flipNothingRe   = regexp.MustCompile(`flip a coin\.? if tails, this attack does nothing`)
	flipUntilRe     = regexp.MustCompile(`flip a coin until you get tails\.? this attack does (\d+) damage for each heads`)
	energyScaleRe   = regexp.MustCompile(`this attack does (\d+) (?:more )?damage for each ([a-z]+) energy attached to`)
	condSelfRe      = regexp.MustCompile(`if this pok[eé]mon has (?:any )?damage (?:counters )?on it, this attack does (\d+) more damage`)
	condPoisonRe    = regexp.MustCompile(`if your opponent's active pok[eé]mon is poisoned, this attack does (\d+) more damage`)
	benchDamageRe   = regexp.MustCompile(`(?:this attack )?(?:also )?does (\d+) damage to each of your opponent's benched pok[eé]mon`)
	statusRe        = regexp.MustCompile(`your opponent's active pok[eé]mon is now (asleep|burned|confused|paralyzed|poisoned)`)
	statusSelfRe    = regexp.MustCompile(`this pok[eé]mon is now (asleep|burned|confused|paralyzed|poisoned)`)
	recoilRe        = regexp.MustCompile(`this pok[eé]mon (?:also )?does (\d+) damage to itself`)
	healRe          = regexp.MustCompile(`heal (\d+) damage from this pok[eé]mon`)
	energyDiscardRe = regexp.MustCompile(`discard (an?|\d+) (?:[a-z]+ )?energy from this pok[eé]mon`)
	energyAttachRe  = regexp.MustCompile(`(?:take|attach) (an?|\d+) ([a-z]+) energy .*attach (?:it|them) to`)
	drawRe          = regexp.MustCompile(`draw (a|\d+) cards?`)
)

func recognizeCoinFlipDamage(text string) (EffectDescriptor, bool) {
	if match := flipUntilRe.FindStringSubmatch(text); match != nil {
		return EffectDescriptor{
			Kind:         EFFECT_COIN_FLIP_DAMAGE,
			UntilTails:   true,
			DamagePerHit: mustAtoi(match[1]),
		}, true
	}

	if match := flipBonusRe.FindStringSubmatch(text); match != nil {
		return EffectDescriptor{
			Kind:         EFFECT_COIN_FLIP_DAMAGE,
			FlipCount:    countWord(match[1]),
			DamagePerHit: mustAtoi(match[2]),
		}, true
	}

	if flipNothingRe.MatchString(text) {
		return EffectDescriptor{
			Kind:         EFFECT_COIN_FLIP_DAMAGE,
			FlipCount:    1,
			AllOrNothing: true,
		}, true
	}

	return EffectDescriptor{}, false
}

func recognizeEnergyScaling(text string) (EffectDescriptor, bool) {
	match := energyScaleRe.FindStringSubmatch(text)
	if match == nil {
		return EffectDescriptor{}, false
	}

	descriptor := EffectDescriptor{
		Kind:            EFFECT_ENERGY_SCALING,
		DamagePerEnergy: mustAtoi(match[1]),
	}

	// "each energy" scales on any type
	if energy := normalizeEnergy(match[2]); energy != "" {
		descriptor.EnergyType = energy
	}

	return descriptor, true
}

func recognizeConditionalDamage(text string) (EffectDescriptor, bool) {
	if match := condSelfRe.FindStringSubmatch(text); match != nil {
		return EffectDescriptor{
			Kind:        EFFECT_CONDITIONAL_DAMAGE,
			Condition:   COND_SELF_DAMAGED,
			BonusDamage: mustAtoi(match[1]),
		}, true
	}

	if match := condPoisonRe.FindStringSubmatch(text); match != nil {
		return EffectDescriptor{
			Kind:        EFFECT_CONDITIONAL_DAMAGE,
			Condition:   COND_TARGET_POISONED,
			BonusDamage: mustAtoi(match[1]),
		}, true
	}

	return EffectDescriptor{}, false
}

func recognizeBenchDamage(text string) (EffectDescriptor, bool) {
	match := benchDamageRe.FindStringSubmatch(text)
	if match == nil {
		return EffectDescriptor{}, false
	}

	return EffectDescriptor{
		Kind:        EFFECT_BENCH_DAMAGE,
		BenchDamage: mustAtoi(match[1]),
	}, true
}

func recognizeStatus(text string) (EffectDescriptor, bool) {
	selfInflicted := false
	match := statusRe.FindStringSubmatch(text)
	if match == nil {
		match = statusSelfRe.FindStringSubmatch(text)
		selfInflicted = true
	}
	if match == nil {
		return EffectDescriptor{}, false
	}

	descriptor := EffectDescriptor{
		Kind:          EFFECT_STATUS,
		SelfInflicted: selfInflicted,
		// "flip a coin. if heads, ... is now X" gates the status, not
		// the damage
		RequiresHeads: strings.Contains(text, "if heads") && strings.Index(text, "if heads") < strings.Index(text, "is now"),
	}

	switch match[1] {
	case "asleep":
		descriptor.Status = STATUS_SLEEP
	case "paralyzed":
		descriptor.Status = STATUS_PARALYSIS
	case "confused":
		descriptor.Status = STATUS_CONFUSION
	case "burned":
		descriptor.Burn = true
	case "poisoned":
		descriptor.Poison = true
	}

	return descriptor, true
}

func recognizeRecoil(text string) (EffectDescriptor, bool) {
	match := recoilRe.FindStringSubmatch(text)
	if match == nil {
		return EffectDescriptor{}, false
	}

	return EffectDescriptor{
		Kind:         EFFECT_RECOIL,
		RecoilDamage: mustAtoi(match[1]),
	}, true
}

func recognizeHeal(text string) (EffectDescriptor, bool) {
	match := healRe.FindStringSubmatch(text)
	if match == nil {
		return EffectDescriptor{}, false
	}

	return EffectDescriptor{
		Kind:       EFFECT_HEAL,
		HealAmount: mustAtoi(match[1]),
	}, true
}

func recognizeEnergyDiscard(text string) (EffectDescriptor, bool) {
	match := energyDiscardRe.FindStringSubmatch(text)
	if match == nil {
		return EffectDescriptor{}, false
	}

	return EffectDescriptor{
		Kind:        EFFECT_ENERGY_DISCARD,
		EnergyCount: countWord(match[1]),
	}, true
}

func recognizeEnergyAccelerate(text string) (EffectDescriptor, bool) {
	match := energyAttachRe.FindStringSubmatch(text)
	if match == nil {
		return EffectDescriptor{}, false
	}

	return EffectDescriptor{
		Kind:        EFFECT_ENERGY_ACCELERATE,
		EnergyCount: countWord(match[1]),
		EnergyType:  normalizeEnergy(match[2]),
	}, true
}

func recognizeDraw(text string) (EffectDescriptor, bool) {
	match := drawRe.FindStringSubmatch(text)
	if match == nil {
		return EffectDescriptor{}, false
	}

	return EffectDescriptor{
		Kind:      EFFECT_DRAW,
		DrawCount: countWord(match[1]),
	}, true
}

func countWord(word string) int {
	if word == "a" || word == "an" {
		return 1
	}

	return mustAtoi(word)
}

// mustAtoi is only called on regexp captures of \d+.
func mustAtoi(digits string) int {
	value, err := strconv.Atoi(digits)
	if err != nil {
		panic(err)
	}

	return value
}
