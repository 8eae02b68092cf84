// Command pocketsim runs card battles from the command line: a single
// interactive battle against the rule policy, or a headless batch for
// archetype statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"

	"pocketsim/engine"
	"pocketsim/runner"
	"pocketsim/tui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	switch args[0] {
	case "battle":
		return runBattle(args[1:])
	case "batch":
		return runBatch(args[1:])
	case "decks":
		return runDecks(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: pocketsim <command> [flags]

commands:
  battle   play one interactive battle against the rule policy
  batch    run many headless battles and print aggregate results
  decks    list the decks in the deck file`)
}

func setupLogging(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(level)

	// engine internals log through logr; bridge them onto the same sink
	engine.SetInternalLogger(zerologr.New(&logger))

	return logger
}

// loadData builds the battle cache from the card and deck files.
func loadData(logger zerolog.Logger, cardsPath, decksPath string) (*engine.BattleCache, []engine.BattleDeck, error) {
	cardBytes, err := os.ReadFile(cardsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read card file: %w", err)
	}

	cards, dataErrs, err := engine.LoadCards(cardBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("parse card file: %w", err)
	}

	decks, err := engine.ParseDeckFile(decksPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read deck file: %w", err)
	}

	cache := engine.NewBattleCache()
	dataErrs = append(dataErrs, cache.Reload(cards, decks)...)

	for _, dataErr := range dataErrs {
		logger.Warn().Str("card", dataErr.CardID).Str("field", dataErr.Field).Msg(dataErr.Reason)
	}
	logger.Info().Int("cards", cache.Len()).Int("decks", len(decks)).Msg("data loaded")

	return cache, decks, nil
}

func pickDeck(cache *engine.BattleCache, name string) (engine.BattleDeck, error) {
	deck, ok := cache.Deck(name)
	if !ok {
		return engine.BattleDeck{}, fmt.Errorf("no deck named %q, try the decks command", name)
	}

	return deck, nil
}

func seedFlag(seed uint64) uint64 {
	if seed == 0 {
		return engine.RandomSeed()
	}

	return seed
}

func runBattle(args []string) int {
	flags := flag.NewFlagSet("battle", flag.ExitOnError)
	cardsPath := flags.String("cards", "data/cards.json", "card database file")
	decksPath := flags.String("decks", "data/decks.yaml", "deck file")
	playerDeck := flags.String("deck", "", "your deck name")
	enemyDeck := flags.String("enemy-deck", "", "opponent deck name (defaults to yours)")
	seed := flags.Uint64("seed", 0, "battle seed, 0 for random")
	verbose := flags.Bool("v", false, "verbose logging")
	flags.Parse(args)

	logger := setupLogging(*verbose)

	cache, decks, err := loadData(logger, *cardsPath, *decksPath)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load data")
		return 1
	}

	if *playerDeck == "" && len(decks) > 0 {
		*playerDeck = decks[0].Name
	}
	if *enemyDeck == "" {
		*enemyDeck = *playerDeck
	}

	mine, err := pickDeck(cache, *playerDeck)
	if err != nil {
		logger.Error().Err(err).Msg("deck selection failed")
		return 1
	}
	theirs, err := pickDeck(cache, *enemyDeck)
	if err != nil {
		logger.Error().Err(err).Msg("deck selection failed")
		return 1
	}

	if err := tui.Play(cache, mine, theirs, engine.DefaultRules(), seedFlag(*seed)); err != nil {
		logger.Error().Err(err).Msg("battle failed")
		return 1
	}

	return 0
}

func runBatch(args []string) int {
	flags := flag.NewFlagSet("batch", flag.ExitOnError)
	cardsPath := flags.String("cards", "data/cards.json", "card database file")
	decksPath := flags.String("decks", "data/decks.yaml", "deck file")
	deckA := flags.String("deck-a", "", "player one deck name")
	deckB := flags.String("deck-b", "", "player two deck name")
	battles := flags.Int("n", 100, "number of battles")
	concurrency := flags.Int("c", 0, "concurrent battles, 0 for one per CPU")
	seed := flags.Uint64("seed", 0, "batch seed, 0 for random")
	timeout := flags.Duration("timeout", 30*time.Second, "per-battle wall-clock budget")
	verbose := flags.Bool("v", false, "verbose logging")
	flags.Parse(args)

	logger := setupLogging(*verbose)

	cache, decks, err := loadData(logger, *cardsPath, *decksPath)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load data")
		return 1
	}

	if *deckA == "" && len(decks) > 0 {
		*deckA = decks[0].Name
	}
	if *deckB == "" {
		*deckB = *deckA
	}

	a, err := pickDeck(cache, *deckA)
	if err != nil {
		logger.Error().Err(err).Msg("deck selection failed")
		return 1
	}
	b, err := pickDeck(cache, *deckB)
	if err != nil {
		logger.Error().Err(err).Msg("deck selection failed")
		return 1
	}

	report, err := runner.Run(context.Background(), cache, runner.Config{
		Battles:     *battles,
		Concurrency: *concurrency,
		Seed:        seedFlag(*seed),
		Timeout:     *timeout,
		DeckA:       a,
		DeckB:       b,
		Rules:       engine.DefaultRules(),
		Logger:      logger,
	})
	if err != nil {
		logger.Error().Err(err).Msg("batch failed")
		return 1
	}

	fmt.Println(report)

	if report.Aborted > 0 {
		return 1
	}

	return 0
}

func runDecks(args []string) int {
	flags := flag.NewFlagSet("decks", flag.ExitOnError)
	decksPath := flags.String("decks", "data/decks.yaml", "deck file")
	flags.Parse(args)

	decks, err := engine.ParseDeckFile(*decksPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read deck file: %v\n", err)
		return 1
	}

	for _, deck := range decks {
		fmt.Printf("%-20s %-10s %d cards, energy %v\n", deck.Name, deck.Archetype, len(deck.CardIDs), deck.EnergyTypes)
	}

	return 0
}
