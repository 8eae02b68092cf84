package engine

import "github.com/go-logr/logr"

var internalLogger = logr.Logger{}

// SetInternalLogger wires an application logger into the engine.
// The zero logger discards everything, so callers that don't care
// about engine internals can skip this entirely.
func SetInternalLogger(logger logr.Logger) {
	internalLogger = logger.WithName("engine")
}
