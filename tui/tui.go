// Package tui is the interactive battle view: a human plays one side
// against the built-in rule policy. The battle engine runs unchanged on
// its own goroutine; this package only feeds it decisions.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"pocketsim/engine"
)

var (
	termWidth, termHeight, _ = term.GetSize(int(os.Stdout.Fd()))

	highlightColor = lipgloss.Color("45")

	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(highlightColor)
	panelStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(0, 1)
	itemStyle        = lipgloss.NewStyle().PaddingLeft(2)
	highlightedStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(highlightColor)
	faintStyle       = lipgloss.NewStyle().Faint(true)

	selectKey   = key.NewBinding(key.WithKeys("enter"))
	moveUpKey   = key.NewBinding(key.WithKeys("up", "k"))
	moveDownKey = key.NewBinding(key.WithKeys("down", "j"))
	quitKey     = key.NewBinding(key.WithKeys("q", "ctrl+c"))
)

type promptMsg prompt

type battleDoneMsg struct {
	summary engine.BattleSummary
	err     error
	board   boardSnapshot
}

// boardSnapshot is a plain-value copy of everything the view renders.
// The engine mutates its state freely between prompts, so the render
// loop never reads GameState; each prompt and the final result carry
// one of these, built while the engine goroutine is at rest.
type boardSnapshot struct {
	turn  int
	sides [2]sideSnapshot
	log   []string
}

type sideSnapshot struct {
	points   int
	handSize int
	active   string
	bench    []string
}

func snapshotBoard(g *engine.GameState) boardSnapshot {
	snap := boardSnapshot{turn: g.Turn}

	for i := range snap.sides {
		player := g.Player(i)
		side := sideSnapshot{
			points:   player.Points,
			handSize: len(player.Hand),
			active:   pokemonLine(player.Active),
		}
		for _, pokemon := range player.BenchPokemon() {
			side.bench = append(side.bench, pokemonLine(pokemon))
		}
		snap.sides[i] = side
	}

	for _, event := range g.Events() {
		snap.log = append(snap.log, engine.FormatEvent(event))
	}

	return snap
}

func pokemonLine(pokemon *engine.BattlePokemon) string {
	if pokemon == nil {
		return faintStyle.Render("(none)")
	}

	line := fmt.Sprintf("%s %d/%d HP", pokemon.Card.Name, pokemon.CurrentHP, pokemon.MaxHP)
	if energy := len(pokemon.AttachedEnergy); energy > 0 {
		line += fmt.Sprintf(" [%d energy]", energy)
	}
	if pokemon.Status.Any() {
		line += " " + pokemon.Status.String()
	}

	return line
}

// Model drives one interactive battle.
type Model struct {
	battle *engine.Battle
	human  *humanProvider

	board    boardSnapshot
	legal    []engine.Action
	cursor   int
	waiting  bool
	done     bool
	summary  engine.BattleSummary
	runErr   error
	logLines int
}

// NewModel assembles a battle where the human plays player one.
func NewModel(cache *engine.BattleCache, playerDeck, enemyDeck engine.BattleDeck, rules engine.RulesConfig, seed uint64) (Model, error) {
	human := newHumanProvider("You")
	providers := [2]engine.ActionProvider{human, engine.RulePolicy{PolicyName: "Rival"}}

	battle, err := engine.NewBattle(cache, playerDeck, enemyDeck, providers, rules, seed, nil)
	if err != nil {
		return Model{}, err
	}

	// the pre-game board; Run has not started yet
	board := snapshotBoard(battle.State())

	return Model{battle: battle, human: human, board: board, logLines: 12}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(runBattle(m.battle), waitForPrompt(m.human))
}

// runBattle plays the engine side on its own goroutine. The command
// returns only when the battle is over, with the final board attached.
func runBattle(battle *engine.Battle) tea.Cmd {
	return func() tea.Msg {
		summary, err := battle.Run()
		return battleDoneMsg{summary: summary, err: err, board: snapshotBoard(battle.State())}
	}
}

func waitForPrompt(human *humanProvider) tea.Cmd {
	return func() tea.Msg {
		return promptMsg(<-human.prompts)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case promptMsg:
		m.board = msg.board
		m.legal = msg.legal
		m.cursor = 0
		m.waiting = true
		return m, nil

	case battleDoneMsg:
		m.done = true
		m.waiting = false
		m.board = msg.board
		m.summary = msg.summary
		m.runErr = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		termWidth, termHeight = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, quitKey):
			return m, tea.Quit

		case key.Matches(msg, moveUpKey) && m.waiting:
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, moveDownKey) && m.waiting:
			if m.cursor < len(m.legal)-1 {
				m.cursor++
			}

		case key.Matches(msg, selectKey):
			if m.done {
				return m, tea.Quit
			}
			if m.waiting {
				m.waiting = false
				choice := m.legal[m.cursor]
				return m, tea.Batch(
					func() tea.Msg {
						m.human.choices <- choice
						return nil
					},
					waitForPrompt(m.human),
				)
			}
		}
	}

	return m, nil
}

func (m Model) View() string {
	board := lipgloss.JoinVertical(lipgloss.Left,
		sideView("Rival", m.board.sides[engine.PLAYER_TWO]),
		sideView("You", m.board.sides[engine.PLAYER_ONE]),
	)

	var right string
	switch {
	case m.done:
		right = m.endView()
	case m.waiting:
		right = m.actionView()
	default:
		right = faintStyle.Render("Rival is thinking...")
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(board),
		panelStyle.Render(right),
	)

	screen := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Turn %d", m.board.turn)),
		main,
		panelStyle.Render(m.logView()),
	)

	return lipgloss.PlaceHorizontal(termWidth, lipgloss.Left, screen)
}

func sideView(label string, side sideSnapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s  (%d pts, %d cards in hand)\n", titleStyle.Render(label), side.points, side.handSize)
	sb.WriteString("  Active: " + side.active + "\n")
	for _, line := range side.bench {
		sb.WriteString("  Bench:  " + line + "\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) actionView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Choose an action") + "\n")

	for i, action := range m.legal {
		if i == m.cursor {
			sb.WriteString(highlightedStyle.Render("> "+action.String()) + "\n")
		} else {
			sb.WriteString(itemStyle.Render(action.String()) + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) endView() string {
	if m.runErr != nil {
		return titleStyle.Render("Battle aborted") + "\n" + m.runErr.Error()
	}

	return titleStyle.Render("Battle over") + "\n" + m.summary.String() + "\n\n" + faintStyle.Render("enter to exit")
}

func (m Model) logView() string {
	start := len(m.board.log) - m.logLines
	if start < 0 {
		start = 0
	}

	return strings.Join(m.board.log[start:], "\n")
}

// Play runs the interactive battle until the user exits.
func Play(cache *engine.BattleCache, playerDeck, enemyDeck engine.BattleDeck, rules engine.RulesConfig, seed uint64) error {
	model, err := NewModel(cache, playerDeck, enemyDeck, rules, seed)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
