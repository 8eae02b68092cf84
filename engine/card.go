package engine

// EffectKind tags an EffectDescriptor. New kinds need a handler in
// defaultHandlers or they resolve as logged no-ops.
type EffectKind int

const (
	EFFECT_COIN_FLIP_DAMAGE EffectKind = iota + 1
	EFFECT_STATUS
	EFFECT_HEAL
	EFFECT_ENERGY_SCALING
	EFFECT_CONDITIONAL_DAMAGE
	EFFECT_ENERGY_DISCARD
	EFFECT_ENERGY_ACCELERATE
	EFFECT_RECOIL
	EFFECT_BENCH_DAMAGE
	EFFECT_DRAW
)

func (k EffectKind) String() string {
	switch k {
	case EFFECT_COIN_FLIP_DAMAGE:
		return "CoinFlipDamage"
	case EFFECT_STATUS:
		return "Status"
	case EFFECT_HEAL:
		return "Heal"
	case EFFECT_ENERGY_SCALING:
		return "EnergyScaling"
	case EFFECT_CONDITIONAL_DAMAGE:
		return "ConditionalDamage"
	case EFFECT_ENERGY_DISCARD:
		return "EnergyDiscard"
	case EFFECT_ENERGY_ACCELERATE:
		return "EnergyAccelerate"
	case EFFECT_RECOIL:
		return "Recoil"
	case EFFECT_BENCH_DAMAGE:
		return "BenchDamage"
	case EFFECT_DRAW:
		return "Draw"
	default:
		return "Unknown"
	}
}

// Conditions checked by EFFECT_CONDITIONAL_DAMAGE.
const (
	COND_SELF_DAMAGED = iota + 1
	COND_TARGET_POISONED
)

// EffectDescriptor is the parser's structured output, one per matched
// pattern. Go has no tagged unions so this is a single struct with a
// Kind tag; each kind reads only its own fields and ignores the rest.
type EffectDescriptor struct {
	Kind EffectKind

	// EFFECT_COIN_FLIP_DAMAGE
	FlipCount    int
	DamagePerHit int  // bonus damage per heads
	AllOrNothing bool // "if tails, this attack does nothing"
	UntilTails   bool // "flip a coin until you get tails"

	// EFFECT_STATUS
	Status        int  // STATUS_* for majors
	Burn          bool // minor conditions flagged separately
	Poison        bool
	RequiresHeads bool // status only lands on a heads flip
	SelfInflicted bool // applies to the attacker's own active

	// EFFECT_HEAL
	HealAmount int

	// EFFECT_ENERGY_SCALING
	DamagePerEnergy int
	EnergyType      string // "" counts any type

	// EFFECT_CONDITIONAL_DAMAGE
	Condition   int
	BonusDamage int

	// EFFECT_ENERGY_DISCARD / EFFECT_ENERGY_ACCELERATE
	EnergyCount int

	// EFFECT_RECOIL
	RecoilDamage int

	// EFFECT_BENCH_DAMAGE
	BenchDamage int

	// EFFECT_DRAW
	DrawCount int
}

// Attack is one attack on a BattleCard. Effects is parser output and is
// never mutated after cache build.
type Attack struct {
	Name       string
	Cost       []string
	Damage     int
	EffectText string
	Effects    []EffectDescriptor
}

// BattleCard is the engine-native card structure. Cards are immutable
// once built and owned by the BattleCache; live battle state wraps them
// in BattlePokemon instead of copying.
type BattleCard struct {
	ID          string
	Name        string
	CardType    int
	Stage       int
	HP          int
	Attacks     []Attack
	Weakness    string // energy type, "" for none
	RetreatCost int
	EnergyType  string
	IsEX        bool

	// EvolvesFrom is the raw name reference; EvolvesFromIdx is the
	// arena index resolved at cache build time (-1 when unresolved).
	EvolvesFrom    string
	EvolvesFromIdx int

	// TrainerText drives Item/Supporter cards through the same
	// descriptor machinery as attacks.
	TrainerText    string
	TrainerEffects []EffectDescriptor
}

func (c BattleCard) IsPokemon() bool {
	return c.CardType == CARDTYPE_POKEMON
}

func (c BattleCard) IsBasic() bool {
	return c.CardType == CARDTYPE_POKEMON && c.Stage == STAGE_BASIC
}

func (c BattleCard) String() string {
	return c.Name
}
