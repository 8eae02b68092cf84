package engine

import "fmt"

// DataError reports a malformed field in a raw card record. The bridge
// recovers with a documented default and keeps going; these are only
// surfaced so callers can log them.
type DataError struct {
	CardID string
	Field  string
	Reason string
}

func (e DataError) Error() string {
	return fmt.Sprintf("card %q field %q: %s", e.CardID, e.Field, e.Reason)
}

// ValidationError reports an illegal deck or an illegal proposed action.
// An invalid deck prevents a battle from starting; an illegal action is
// rejected and the turn ends instead.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// EngineError reports a broken internal invariant. It is fatal to the
// single battle it occurred in and nothing else.
type EngineError struct {
	Reason    string
	Recovered any
}

func (e EngineError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("engine invariant violated: %s (recovered: %v)", e.Reason, e.Recovered)
	}

	return "engine invariant violated: " + e.Reason
}

// Battle end reasons recorded in summaries. Timeouts are ties by design,
// not errors.
const (
	END_POINTS = iota + 1
	END_NO_POKEMON
	END_TURN_CAP
	END_DEADLINE
)

func EndReasonName(reason int) string {
	switch reason {
	case END_POINTS:
		return "prize points"
	case END_NO_POKEMON:
		return "no remaining Pokemon"
	case END_TURN_CAP:
		return "turn cap"
	case END_DEADLINE:
		return "wall-clock budget"
	default:
		return "unknown"
	}
}
