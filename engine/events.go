package engine

import (
	"fmt"
	"io"
	"strings"
)

// EventType enumerates every observable game event.
type EventType int

const (
	EventTurnStart EventType = iota
	EventPhaseChange
	EventShuffle
	EventDrawCard
	EventRedrawHand
	EventPlayBasic
	EventEvolve
	EventAttachEnergy
	EventPlayTrainer
	EventRetreat
	EventAttackDeclare
	EventCoinFlip
	EventDamage
	EventHeal
	EventStatusApplied
	EventStatusTick
	EventStatusCleared
	EventKnockout
	EventPrizePoints
	EventPromote
	EventEndTurn
	EventWin
	EventTie
	EventDataWarning
	EventEffectSkipped
)

func (e EventType) String() string {
	switch e {
	case EventTurnStart:
		return "TurnStart"
	case EventPhaseChange:
		return "PhaseChange"
	case EventShuffle:
		return "Shuffle"
	case EventDrawCard:
		return "DrawCard"
	case EventRedrawHand:
		return "RedrawHand"
	case EventPlayBasic:
		return "PlayBasic"
	case EventEvolve:
		return "Evolve"
	case EventAttachEnergy:
		return "AttachEnergy"
	case EventPlayTrainer:
		return "PlayTrainer"
	case EventRetreat:
		return "Retreat"
	case EventAttackDeclare:
		return "AttackDeclare"
	case EventCoinFlip:
		return "CoinFlip"
	case EventDamage:
		return "Damage"
	case EventHeal:
		return "Heal"
	case EventStatusApplied:
		return "StatusApplied"
	case EventStatusTick:
		return "StatusTick"
	case EventStatusCleared:
		return "StatusCleared"
	case EventKnockout:
		return "Knockout"
	case EventPrizePoints:
		return "PrizePoints"
	case EventPromote:
		return "Promote"
	case EventEndTurn:
		return "EndTurn"
	case EventWin:
		return "Win"
	case EventTie:
		return "Tie"
	case EventDataWarning:
		return "DataWarning"
	case EventEffectSkipped:
		return "EffectSkipped"
	default:
		return "Unknown"
	}
}

// GameEvent is one record in the turn-by-turn structured log consumed
// by the logging/analytics collaborator.
type GameEvent struct {
	Seq     int
	Turn    int
	Phase   string
	Player  int
	Type    EventType
	Card    string
	Details string
}

// EventLogger receives each event as it happens.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// MemoryLogger stores events in memory; it backs every battle log and
// doubles as the assertion target in tests.
type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	result := make([]GameEvent, 0)
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}

	return result
}

func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}

	return l.events[len(l.events)-1]
}

// TextLogger additionally writes human-readable lines to an io.Writer.
type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

func playerName(player int) string {
	return fmt.Sprintf("P%d", player+1)
}

func FormatEvent(e GameEvent) string {
	phase := e.Phase
	for len(phase) < 18 {
		phase += " "
	}

	return fmt.Sprintf("T%-3d %s| %s", e.Turn, phase, e.Details)
}

func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}

	return sb.String()
}
