// Package tui is a terminal front end for a single game.
package tui

import (
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

var (
	xStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007e50ff", Dark: "#6afd76ff"}).Render
	oStyle       = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0003adff", Dark: "#5f61fcff"}).Render
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#960000ff", Dark: "#fc7e7eff"}).Render
	winStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#bb0000ff", Dark: "#df1010ff"}).Render
	gridStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#414141ff", Dark: "#8f8f8fff"}).Render
	promptStyle  = lipgloss.NewStyle().Bold(true).Render
	helpStyle    = lipgloss.NewStyle().Faint(true).Render
	headerStyle1 = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#4204b5ff", Dark: "#4204b5ff"}).Render
	headerStyle2 = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#19b504ff", Dark: "#19b504ff"}).Render
)

// refreshMsg tells the model the controller changed outside Update.
type refreshMsg struct{}

// Bridge forwards controller events into a running program.
type Bridge struct {
	mu sync.Mutex
	p  *tea.Program
}

// Attach sets the program that receives events.
func (b *Bridge) Attach(p *tea.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.p = p
}

// Listener returns the controller listener. Sends are asynchronous because
// events raised from inside Update would otherwise block the event loop.
func (b *Bridge) Listener() app.Listener {
	send := func() {
		b.mu.Lock()
		p := b.p
		b.mu.Unlock()
		if p != nil {
			go p.Send(refreshMsg{})
		}
	}
	return app.ListenerFuncs{
		TurnChanged: func(app.TurnInfo) { send() },
		GameEnded:   func(domain.Outcome) { send() },
	}
}

// Model is the bubbletea model for one game.
type Model struct {
	ctrl    *app.Controller
	snap    app.Snapshot
	cursor  int
	spinner spinner.Model
	status  string
}

// NewModel creates a model with the cursor on the centre cell.
func NewModel(ctrl *app.Controller) *Model {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &Model{ctrl: ctrl, snap: ctrl.Snapshot(), cursor: 4, spinner: s}
}

func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.snap = m.ctrl.Snapshot()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h":
			if m.cursor%3 > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor%3 < 2 {
				m.cursor++
			}
		case "up", "k":
			if m.cursor > 2 {
				m.cursor -= 3
			}
		case "down", "j":
			if m.cursor < 6 {
				m.cursor += 3
			}
		case "enter", " ":
			if err := m.ctrl.ApplyHumanMove(m.cursor); err != nil {
				m.status = rejection(err)
			}
		case "r":
			m.ctrl.Reset()
		case "m":
			m.ctrl.ToggleMode()
		}
		m.snap = m.ctrl.Snapshot()
	}
	return m, nil
}

func rejection(err error) string {
	switch {
	case errors.Is(err, domain.ErrOccupied):
		return "That cell is taken"
	case errors.Is(err, domain.ErrGameOver):
		return "Game over, press r to play again"
	case errors.Is(err, app.ErrNotYourTurn):
		return "Wait for the computer"
	default:
		return "Invalid move"
	}
}

func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle2("---") + " " + headerStyle1("Tic Tac Toe") + " " + headerStyle2("---") + "\n\n")

	winning := map[int]bool{}
	if m.snap.Outcome.Kind == domain.Win {
		for _, idx := range m.snap.Outcome.Line {
			winning[idx] = true
		}
	}

	for row := range 3 {
		for col := range 3 {
			idx := row*3 + col
			sb.WriteString(m.renderCell(idx, winning[idx]))
			if col < 2 {
				sb.WriteString(gridStyle("│"))
			}
		}
		sb.WriteString("\n")
		if row < 2 {
			sb.WriteString(gridStyle("───┼───┼───") + "\n")
		}
	}

	sb.WriteString("\n")
	if m.snap.Turn.ComputerTurn {
		sb.WriteString(m.spinner.View() + " ")
	}
	sb.WriteString(promptStyle(m.snap.Prompt()) + "\n")
	if m.status != "" {
		sb.WriteString(m.status + "\n")
	}
	sb.WriteString("\n" + helpStyle("mode: "+m.snap.Mode.Label()+" • arrows/hjkl move • enter play • r reset • m mode • q quit") + "\n")
	return sb.String()
}

func (m *Model) renderCell(idx int, win bool) string {
	mark := m.snap.Board[idx].String()
	if mark == "" {
		mark = " "
	}
	switch {
	case win:
		mark = winStyle(mark)
	case m.snap.Board[idx] == domain.X:
		mark = xStyle(mark)
	case m.snap.Board[idx] == domain.O:
		mark = oStyle(mark)
	}
	if idx == m.cursor && !m.snap.Outcome.Terminal() {
		return cursorStyle("[") + mark + cursorStyle("]")
	}
	return " " + mark + " "
}
