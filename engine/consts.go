package engine

const (
	ENERGY_GRASS     = "Grass"
	ENERGY_FIRE      = "Fire"
	ENERGY_WATER     = "Water"
	ENERGY_LIGHTNING = "Lightning"
	ENERGY_PSYCHIC   = "Psychic"
	ENERGY_FIGHTING  = "Fighting"
	ENERGY_DARKNESS  = "Darkness"
	ENERGY_METAL     = "Metal"
	ENERGY_COLORLESS = "Colorless"
)

// ALL_ENERGY_TYPES lists every payable energy type. Colorless is last
// because it only ever appears as a cost, never as deck energy.
var ALL_ENERGY_TYPES = []string{
	ENERGY_GRASS,
	ENERGY_FIRE,
	ENERGY_WATER,
	ENERGY_LIGHTNING,
	ENERGY_PSYCHIC,
	ENERGY_FIGHTING,
	ENERGY_DARKNESS,
	ENERGY_METAL,
	ENERGY_COLORLESS,
}

// Single-letter codes accepted in raw attack cost strings ("RRC" == two
// Fire and one Colorless).
var ENERGY_LETTER_MAP = map[byte]string{
	'G': ENERGY_GRASS,
	'R': ENERGY_FIRE,
	'W': ENERGY_WATER,
	'L': ENERGY_LIGHTNING,
	'P': ENERGY_PSYCHIC,
	'F': ENERGY_FIGHTING,
	'D': ENERGY_DARKNESS,
	'M': ENERGY_METAL,
	'C': ENERGY_COLORLESS,
}

const (
	CARDTYPE_POKEMON = iota + 1
	CARDTYPE_ITEM
	CARDTYPE_SUPPORTER
	CARDTYPE_TOOL
)

const (
	STAGE_BASIC = iota
	STAGE_ONE
	STAGE_TWO
)

// Major status conditions. A Pokemon holds at most one of these at a
// time; applying a new one replaces the old. Burn and poison are minor
// conditions tracked separately and may coexist with a major one.
const (
	STATUS_NONE = iota
	STATUS_SLEEP
	STATUS_PARALYSIS
	STATUS_CONFUSION
)

func StatusName(status int) string {
	switch status {
	case STATUS_SLEEP:
		return "Asleep"
	case STATUS_PARALYSIS:
		return "Paralyzed"
	case STATUS_CONFUSION:
		return "Confused"
	default:
		return "None"
	}
}

// Player indices. The engine only ever runs two-player battles.
const (
	PLAYER_ONE = 0
	PLAYER_TWO = 1
)

// NO_WINNER is used in GameState.Winner while the battle is live and in
// summaries of tied battles.
const NO_WINNER = -1

// Opponent flips a player index.
func Opponent(player int) int {
	if player == PLAYER_ONE {
		return PLAYER_TWO
	}

	return PLAYER_ONE
}

// RulesConfig holds every tunable constant for a battle. It is passed by
// value into NewBattle and never mutated mid-battle.
type RulesConfig struct {
	DeckSize            int
	MaxCopiesPerName    int
	HandLimit           int
	BenchSize           int
	InitialHandSize     int
	PrizeTarget         int
	MaxTurns            int
	WeaknessDamageBonus int
	BurnDamage          int
	PoisonDamage        int
	// MaxSetupRedraws caps the redraw-on-no-Basic loop during SETUP. A
	// validated deck always terminates the loop well before this.
	MaxSetupRedraws int
}

func DefaultRules() RulesConfig {
	return RulesConfig{
		DeckSize:            20,
		MaxCopiesPerName:    2,
		HandLimit:           10,
		BenchSize:           3,
		InitialHandSize:     5,
		PrizeTarget:         3,
		MaxTurns:            100,
		WeaknessDamageBonus: 20,
		BurnDamage:          20,
		PoisonDamage:        10,
		MaxSetupRedraws:     50,
	}
}
