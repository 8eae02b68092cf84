package engine

import (
	"encoding/json"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// looseNumber holds whatever the raw feed puts in a numeric field: a
// bare JSON number, a quoted string ("60", "30+", "??"), or null. It
// never rejects a value; parseLooseInt sorts the text out later so a
// bad field stays a per-field DataError instead of aborting the load.
type looseNumber string

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = looseNumber(s)
		return nil
	}

	if string(data) == "null" {
		*n = ""
		return nil
	}

	*n = looseNumber(data)
	return nil
}

func (n looseNumber) String() string {
	return string(n)
}

// RawCard mirrors one record from the persistent card database. The
// source data is loosely typed: numbers arrive as strings ("60", "30+"),
// costs as comma lists or letter codes, and most fields can be missing.
type RawCard struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	CardType    string      `json:"card_type"`
	Stage       string      `json:"stage"`
	HP          looseNumber `json:"hp"`
	EnergyType  string      `json:"energy_type"`
	Weakness    string      `json:"weakness"`
	RetreatCost looseNumber `json:"retreat_cost"`
	EX          bool        `json:"ex"`
	EvolvesFrom string      `json:"evolves_from"`
	Attacks     []RawAttack `json:"attacks"`
	Text        string      `json:"text"`
}

type RawAttack struct {
	Name   string      `json:"name"`
	Cost   string      `json:"cost"`
	Damage looseNumber `json:"damage"`
	Text   string      `json:"text"`
}

var titleCaser = cases.Title(language.English)

// BuildCard converts one raw record into a BattleCard. It never fails:
// every malformed field is replaced with a safe default and reported as
// a DataError. Defaults: missing HP -> 0, bad cost -> empty cost list,
// bad damage -> 0, unknown card type -> Pokemon, unknown stage -> Basic.
func BuildCard(raw RawCard) (BattleCard, []DataError) {
	errs := make([]DataError, 0)

	report := func(field, reason string) {
		errs = append(errs, DataError{CardID: raw.ID, Field: field, Reason: reason})
		internalLogger.WithName("bridge").Info("malformed card field, using default",
			"card_id", raw.ID, "field", field, "reason", reason)
	}

	card := BattleCard{
		ID:             raw.ID,
		Name:           normalizeName(raw.Name),
		EvolvesFrom:    normalizeName(raw.EvolvesFrom),
		EvolvesFromIdx: -1,
		IsEX:           raw.EX,
	}

	if card.Name == "" {
		report("name", "missing name")
		card.Name = "Unknown Card " + raw.ID
	}

	switch strings.ToLower(strings.TrimSpace(raw.CardType)) {
	case "pokemon", "pokémon", "":
		card.CardType = CARDTYPE_POKEMON
		if raw.CardType == "" {
			report("card_type", "missing card type")
		}
	case "item", "trainer-item", "trainer":
		card.CardType = CARDTYPE_ITEM
	case "supporter":
		card.CardType = CARDTYPE_SUPPORTER
	case "tool", "trainer-tool":
		card.CardType = CARDTYPE_TOOL
	default:
		report("card_type", "unknown card type "+strconv.Quote(raw.CardType))
		card.CardType = CARDTYPE_POKEMON
	}

	if card.CardType != CARDTYPE_POKEMON {
		card.TrainerText = raw.Text
		card.TrainerEffects = ParseEffects(raw.Text)
		return card, errs
	}

	switch strings.ToLower(strings.TrimSpace(raw.Stage)) {
	case "basic", "":
		card.Stage = STAGE_BASIC
		if raw.Stage == "" && raw.EvolvesFrom != "" {
			report("stage", "missing stage on evolution card")
			card.Stage = STAGE_ONE
		}
	case "stage1", "stage-1", "stage 1":
		card.Stage = STAGE_ONE
	case "stage2", "stage-2", "stage 2":
		card.Stage = STAGE_TWO
	default:
		report("stage", "unknown stage "+strconv.Quote(raw.Stage))
		card.Stage = STAGE_BASIC
	}

	hp, err := parseLooseInt(raw.HP)
	if err != nil {
		report("hp", "unparsable hp "+strconv.Quote(raw.HP.String()))
		hp = 0
	}
	if hp < 0 {
		report("hp", "negative hp")
		hp = 0
	}
	card.HP = hp

	card.EnergyType = normalizeEnergy(raw.EnergyType)
	if card.EnergyType == "" && raw.EnergyType != "" {
		report("energy_type", "unknown energy type "+strconv.Quote(raw.EnergyType))
	}

	card.Weakness = normalizeEnergy(raw.Weakness)
	if card.Weakness == "" && raw.Weakness != "" {
		report("weakness", "unknown weakness type "+strconv.Quote(raw.Weakness))
	}

	retreat, err := parseLooseInt(raw.RetreatCost)
	if err != nil || retreat < 0 {
		if raw.RetreatCost.String() != "" {
			report("retreat_cost", "unparsable retreat cost")
		}
		retreat = 0
	}
	card.RetreatCost = retreat

	card.Attacks = make([]Attack, 0, len(raw.Attacks))
	for i, rawAttack := range raw.Attacks {
		attack := Attack{
			Name:       rawAttack.Name,
			EffectText: rawAttack.Text,
			Effects:    ParseEffects(rawAttack.Text),
		}

		if attack.Name == "" {
			report("attacks", "attack "+strconv.Itoa(i)+" has no name")
			attack.Name = "Attack"
		}

		cost, ok := ParseCost(rawAttack.Cost)
		if !ok {
			report("attacks", "unparsable cost "+strconv.Quote(rawAttack.Cost)+" on "+attack.Name)
		}
		attack.Cost = cost

		damage, err := parseLooseInt(rawAttack.Damage)
		if err != nil || damage < 0 {
			if rawAttack.Damage.String() != "" {
				report("attacks", "unparsable damage on "+attack.Name)
			}
			damage = 0
		}
		attack.Damage = damage

		card.Attacks = append(card.Attacks, attack)
	}

	return card, errs
}

// LoadCards parses a JSON array of raw records. The 1:1 contract holds:
// one BattleCard per input record, however mangled the record is.
func LoadCards(fileBytes []byte) ([]BattleCard, []DataError, error) {
	rawCards := make([]RawCard, 0)
	if err := json.Unmarshal(fileBytes, &rawCards); err != nil {
		return nil, nil, err
	}

	cards := make([]BattleCard, 0, len(rawCards))
	allErrs := make([]DataError, 0)

	for _, raw := range rawCards {
		card, errs := BuildCard(raw)
		cards = append(cards, card)
		allErrs = append(allErrs, errs...)
	}

	internalLogger.WithName("bridge").Info("loaded cards", "count", len(cards), "data_errors", len(allErrs))

	return cards, allErrs, nil
}

// ParseCost accepts either comma/space separated type names
// ("Fire, Fire, Colorless") or single-letter codes ("RRC"). The second
// return is false when any part of the string was dropped.
func ParseCost(cost string) ([]string, bool) {
	cost = strings.TrimSpace(cost)
	if cost == "" {
		return []string{}, true
	}

	if strings.ContainsAny(cost, ", ") {
		parts := strings.FieldsFunc(cost, func(r rune) bool {
			return r == ',' || r == ' '
		})

		parsed := make([]string, 0, len(parts))
		ok := true
		for _, part := range parts {
			energy := normalizeEnergy(part)
			if energy == "" {
				ok = false
				continue
			}
			parsed = append(parsed, energy)
		}

		return parsed, ok
	}

	// letter-code form
	parsed := make([]string, 0, len(cost))
	ok := true
	for i := 0; i < len(cost); i++ {
		energy, found := ENERGY_LETTER_MAP[cost[i]]
		if !found {
			ok = false
			continue
		}
		parsed = append(parsed, energy)
	}

	return parsed, ok
}

func normalizeEnergy(name string) string {
	normalized := titleCaser.String(strings.ToLower(strings.TrimSpace(name)))

	for _, energy := range ALL_ENERGY_TYPES {
		if normalized == energy {
			return energy
		}
	}

	// common aliases in the raw corpus
	switch normalized {
	case "Electric":
		return ENERGY_LIGHTNING
	case "Dark":
		return ENERGY_DARKNESS
	case "Steel":
		return ENERGY_METAL
	case "Normal":
		return ENERGY_COLORLESS
	}

	return ""
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.TrimSpace(name)), " ")
}

// parseLooseInt handles json numbers that arrive as strings, possibly
// with trailing markers like "30+" or "50x".
func parseLooseInt(num looseNumber) (int, error) {
	s := strings.TrimSpace(num.String())
	if s == "" {
		return 0, nil
	}

	s = strings.TrimRight(s, "+x×")

	parsed, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}

	return int(parsed), nil
}
