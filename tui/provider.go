package tui

import (
	"pocketsim/engine"
)

// prompt is one decision request surfaced to the view. It carries a
// board snapshot taken while the engine goroutine is paused, so the
// render loop never touches live state.
type prompt struct {
	legal []engine.Action
	board boardSnapshot
}

// humanProvider bridges the synchronous engine to the event-driven
// view. ChooseAction blocks the battle goroutine on a channel until the
// view delivers a pick; the engine never knows the difference.
type humanProvider struct {
	name    string
	prompts chan prompt
	choices chan engine.Action
}

func newHumanProvider(name string) *humanProvider {
	return &humanProvider{
		name:    name,
		prompts: make(chan prompt),
		choices: make(chan engine.Action),
	}
}

func (p *humanProvider) Name() string {
	return p.name
}

func (p *humanProvider) ChooseAction(g *engine.GameState, legal []engine.Action) engine.Action {
	p.prompts <- prompt{legal: legal, board: snapshotBoard(g)}
	return <-p.choices
}
