package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BattleSummary is the batch-facing result of one battle. It carries
// everything the aggregate report needs without retaining the state.
type BattleSummary struct {
	ID             uuid.UUID
	Winner         int
	IsTie          bool
	TotalTurns     int
	FinalScores    [2]int
	Duration       time.Duration
	DeckArchetypes [2]string
	Seed           uint64
	EndReason      int
}

func (b *Battle) buildSummary(elapsed time.Duration) BattleSummary {
	g := b.state

	return BattleSummary{
		ID:         uuid.New(),
		Winner:     g.Winner,
		IsTie:      g.Tie,
		TotalTurns: g.Turn,
		FinalScores: [2]int{
			g.Players[PLAYER_ONE].Points,
			g.Players[PLAYER_TWO].Points,
		},
		Duration: elapsed,
		DeckArchetypes: [2]string{
			g.Players[PLAYER_ONE].Deck.Archetype,
			g.Players[PLAYER_TWO].Deck.Archetype,
		},
		Seed:      g.Seed(),
		EndReason: g.EndReason,
	}
}

func (s BattleSummary) String() string {
	outcome := "tie"
	if !s.IsTie {
		outcome = fmt.Sprintf("%s wins", playerName(s.Winner))
	}

	return fmt.Sprintf("%s in %d turns (%d-%d, %s)",
		outcome, s.TotalTurns, s.FinalScores[0], s.FinalScores[1], EndReasonName(s.EndReason))
}
