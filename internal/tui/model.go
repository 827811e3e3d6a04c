// Package tui provides the Bubble Tea live travel view.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keytravel/internal/keyboard"
	"github.com/verte-zerg/keytravel/internal/model"
	"github.com/verte-zerg/keytravel/internal/typist"
)

// keyCells is the rendered width of one key.
const keyCells = 4

type measurement struct {
	total   float64
	perChar float64
	fingers []rune
	err     error
}

// Model implements the Bubble Tea live view. Each typist measures the line
// being typed; Enter commits the line into running totals.
type Model struct {
	layout  *keyboard.Layout
	typists []typist.Typist
	input   textinput.Model

	width  int
	height int

	current   []measurement
	typed     map[rune]struct{}
	totals    []float64
	committed [][]model.LineResult
	startedAt time.Time
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	typedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	leftStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#5FAFD7"))
	rightStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#D7875F"))
	singleStyle  = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#87D787"))
	labelStyle   = lipgloss.NewStyle().Width(12)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	panelPadding = lipgloss.NewStyle().Padding(1, 2)
)

// NewModel constructs a live view for typists measuring on layout.
func NewModel(layout *keyboard.Layout, typists []typist.Typist) *Model {
	in := textinput.New()
	in.Placeholder = "type a line, Enter to add it"
	in.Prompt = "> "
	in.Focus()

	m := &Model{
		layout:    layout,
		typists:   typists,
		input:     in,
		totals:    make([]float64, len(typists)),
		committed: make([][]model.LineResult, len(typists)),
		startedAt: time.Now(),
	}
	m.measure()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-8, 10)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.commit()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.measure()
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		titleStyle.Render(fmt.Sprintf("keytravel live: %s", m.layout.Name())),
		m.renderKeyboard(),
		m.input.View(),
		m.renderMeasurements(),
		m.renderFooter(),
	}
	return panelPadding.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// Results returns the committed line results for each typist, in typist order.
func (m *Model) Results() [][]model.LineResult {
	return m.committed
}

// StartedAt returns when the view was opened.
func (m *Model) StartedAt() time.Time {
	return m.startedAt
}

func (m *Model) measure() {
	text := m.input.Value()
	m.typed = map[rune]struct{}{}
	for _, r := range typist.Clean(text) {
		m.typed[r] = struct{}{}
	}
	m.current = make([]measurement, len(m.typists))
	chars := len(typist.Clean(text))
	for i, t := range m.typists {
		total, err := t.Distance(text)
		if err != nil {
			m.current[i] = measurement{err: err}
			continue
		}
		fingers, err := t.Fingers(text)
		if err != nil {
			m.current[i] = measurement{err: err}
			continue
		}
		perChar, err := typist.PerCharacter(total, chars)
		if err != nil {
			perChar = 0
		}
		m.current[i] = measurement{total: total, perChar: perChar, fingers: fingers}
	}
}

func (m *Model) commit() {
	chars := len(typist.Clean(m.input.Value()))
	for i, cur := range m.current {
		if cur.err != nil {
			continue
		}
		m.totals[i] += cur.total
		m.committed[i] = append(m.committed[i], model.LineResult{
			Line:    len(m.committed[i]) + 1,
			Chars:   chars,
			Total:   cur.total,
			PerChar: cur.perChar,
		})
	}
	m.input.Reset()
	m.measure()
}

func (m *Model) renderKeyboard() string {
	marks := m.fingerMarks()
	rows := m.layout.Rows()
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		first := []rune(row)[0]
		if pt, err := m.layout.Coordinate(first); err == nil {
			b.WriteString(strings.Repeat(" ", int(pt.X/keyboard.Pitch*keyCells+0.5)))
		}
		for _, key := range row {
			cell := fmt.Sprintf("[%c]", key)
			style := keyStyle
			if _, ok := m.typed[key]; ok {
				style = typedStyle
			}
			if mark, ok := marks[key]; ok {
				style = mark
			}
			b.WriteString(style.Render(cell))
			b.WriteByte(' ')
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}

// fingerMarks styles the keys fingers rest on. Two-finger positions win over
// the single finger when they share a key.
func (m *Model) fingerMarks() map[rune]lipgloss.Style {
	marks := map[rune]lipgloss.Style{}
	for i, t := range m.typists {
		if t.Strategy() != typist.OneFingerStrategy || m.current[i].err != nil {
			continue
		}
		for _, k := range m.current[i].fingers {
			marks[k] = singleStyle
		}
	}
	for i, t := range m.typists {
		if t.Strategy() != typist.TwoFingerStrategy || m.current[i].err != nil {
			continue
		}
		fingers := m.current[i].fingers
		if len(fingers) == 2 {
			marks[fingers[0]] = leftStyle
			marks[fingers[1]] = rightStyle
		}
	}
	return marks
}

func (m *Model) renderMeasurements() string {
	lines := make([]string, 0, len(m.typists))
	for i, t := range m.typists {
		label := labelStyle.Render(string(t.Strategy()))
		cur := m.current[i]
		if cur.err != nil {
			lines = append(lines, label+errorStyle.Render(cur.err.Error()))
			continue
		}
		lines = append(lines, label+fmt.Sprintf("%8.2f mm  %6.2f mm/char  total %10.2f mm over %d lines",
			cur.total, cur.perChar, keyboard.Round2(m.totals[i]), len(m.committed[i])))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	return footerStyle.Render("enter add line  esc quit")
}
