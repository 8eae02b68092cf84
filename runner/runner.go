// Package runner executes batches of battles concurrently and
// aggregates their summaries. Battles are embarrassingly parallel: each
// one owns its state and flipper, and the cache is read-only while a
// batch is in flight.
package runner

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pocketsim/engine"
)

type Config struct {
	Battles     int
	Concurrency int

	// Seed is the batch seed; each battle derives its own seed from it
	// so the whole batch replays from one number.
	Seed uint64

	// Timeout is the per-battle wall-clock budget, zero for none.
	// An exceeded budget is a tie, not an error.
	Timeout time.Duration

	DeckA, DeckB engine.BattleDeck
	Rules        engine.RulesConfig

	// Providers build the two decision makers for one battle. Nil
	// means the built-in rule policy on both sides.
	Providers func() [2]engine.ActionProvider

	Logger zerolog.Logger
}

// Report aggregates one batch.
type Report struct {
	Summaries []engine.BattleSummary
	Wins      [2]int
	Ties      int
	Aborted   int
	Elapsed   time.Duration
	TurnTotal int
}

func (r Report) AverageTurns() float64 {
	finished := len(r.Summaries)
	if finished == 0 {
		return 0
	}

	return float64(r.TurnTotal) / float64(finished)
}

func (r Report) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "battles: %d (%.2fs)\n", len(r.Summaries)+r.Aborted, r.Elapsed.Seconds())
	fmt.Fprintf(&sb, "  P1 wins: %d\n", r.Wins[engine.PLAYER_ONE])
	fmt.Fprintf(&sb, "  P2 wins: %d\n", r.Wins[engine.PLAYER_TWO])
	fmt.Fprintf(&sb, "  ties:    %d\n", r.Ties)
	if r.Aborted > 0 {
		fmt.Fprintf(&sb, "  aborted: %d\n", r.Aborted)
	}
	fmt.Fprintf(&sb, "  avg turns: %.1f", r.AverageTurns())

	return sb.String()
}

// Run plays cfg.Battles battles and aggregates the outcomes. A battle
// that aborts with an EngineError is counted and logged but never stops
// the rest of the batch; the returned error is reserved for the context
// being cancelled.
func Run(ctx context.Context, cache *engine.BattleCache, cfg Config) (Report, error) {
	if cfg.Battles <= 0 {
		cfg.Battles = 1
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}
	if cfg.Providers == nil {
		cfg.Providers = func() [2]engine.ActionProvider {
			return [2]engine.ActionProvider{
				engine.RulePolicy{PolicyName: "rule-p1"},
				engine.RulePolicy{PolicyName: "rule-p2"},
			}
		}
	}

	started := time.Now()

	results := make([]*engine.BattleSummary, cfg.Battles)
	aborted := 0

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.Concurrency)

	for i := range cfg.Battles {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			seed := deriveSeed(cfg.Seed, uint64(i))
			battleLogger := cfg.Logger.With().Int("battle", i).Uint64("seed", seed).Logger()

			battle, err := engine.NewBattle(cache, cfg.DeckA, cfg.DeckB, cfg.Providers(), cfg.Rules, seed, nil)
			if err != nil {
				// invalid decks fail the whole batch, they would fail
				// every battle identically
				return err
			}

			if cfg.Timeout > 0 {
				battle.Deadline = time.Now().Add(cfg.Timeout)
			}

			summary, err := battle.Run()
			if err != nil {
				battleLogger.Error().Err(err).Msg("battle aborted")
				return nil
			}

			battleLogger.Debug().
				Int("winner", summary.Winner).
				Bool("tie", summary.IsTie).
				Int("turns", summary.TotalTurns).
				Msg("battle finished")

			results[i] = &summary
			return nil
		})
	}

	err := group.Wait()

	report := Report{Elapsed: time.Since(started)}
	for _, summary := range results {
		if summary == nil {
			aborted++
			continue
		}

		report.Summaries = append(report.Summaries, *summary)
		report.TurnTotal += summary.TotalTurns

		switch {
		case summary.IsTie:
			report.Ties++
		default:
			report.Wins[summary.Winner]++
		}
	}
	report.Aborted = aborted

	if err != nil {
		return report, err
	}

	cfg.Logger.Info().
		Int("battles", len(report.Summaries)).
		Int("p1_wins", report.Wins[engine.PLAYER_ONE]).
		Int("p2_wins", report.Wins[engine.PLAYER_TWO]).
		Int("ties", report.Ties).
		Int("aborted", report.Aborted).
		Dur("elapsed", report.Elapsed).
		Msg("batch finished")

	return report, nil
}

// deriveSeed mixes the batch seed with a battle index, splitmix64
// style, so per-battle streams are independent but replayable.
func deriveSeed(batchSeed, index uint64) uint64 {
	z := batchSeed + (index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb

	return z ^ (z >> 31)
}
