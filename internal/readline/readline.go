// Package readline is the one-line editor used by the command and search
// prompts. It runs a small inline bubbletea program on the prompt row.
package readline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxHistory = 100

// Editor reads single lines and remembers the ones it returned.
type Editor struct {
	in      io.Reader
	out     io.Writer
	marker  string
	style   lipgloss.Style
	history []string
}

// New returns an editor reading from in and drawing to out.
func New(in io.Reader, out io.Writer) *Editor {
	return &Editor{in: in, out: out}
}

// Prompt sets the marker drawn before the input field.
func (e *Editor) Prompt(marker string, style lipgloss.Style) {
	e.marker = marker
	e.style = style
}

// History returns the accepted lines, oldest first.
func (e *Editor) History() []string {
	return append([]string(nil), e.history...)
}

// Read runs the editor until the line is submitted or cancelled. Esc
// cancels with an empty line; Ctrl-C reports ok=false.
func (e *Editor) Read() (string, bool, error) {
	m := newModel(e.marker, e.style, e.history)
	program := tea.NewProgram(m, tea.WithInput(e.in), tea.WithOutput(e.out))
	final, err := program.Run()
	if err != nil {
		return "", false, fmt.Errorf("failed to run line editor: %w", err)
	}
	res, ok := final.(model)
	if !ok {
		return "", false, fmt.Errorf("unexpected editor model %T", final)
	}
	if res.aborted {
		return "", false, nil
	}
	e.remember(res.line)
	return res.line, true, nil
}

func (e *Editor) remember(line string) {
	if line == "" {
		return
	}
	if n := len(e.history); n > 0 && e.history[n-1] == line {
		return
	}
	e.history = append(e.history, line)
	if len(e.history) > maxHistory {
		e.history = e.history[len(e.history)-maxHistory:]
	}
}

type model struct {
	input   textinput.Model
	history []string
	// pos indexes history while browsing; len(history) is the draft.
	pos     int
	draft   string
	line    string
	done    bool
	aborted bool
}

func newModel(marker string, style lipgloss.Style, history []string) model {
	input := textinput.New()
	input.Prompt = marker
	input.PromptStyle = style
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorStatic)
	input.Focus()
	return model{input: input, history: history, pos: len(history)}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	switch key.Type {
	case tea.KeyCtrlC:
		m.done, m.aborted = true, true
		return m, tea.Quit
	case tea.KeyEsc:
		m.done = true
		m.line = ""
		return m, tea.Quit
	case tea.KeyEnter:
		m.done = true
		m.line = m.input.Value()
		return m, tea.Quit
	case tea.KeyUp:
		m.browse(-1)
		return m, nil
	case tea.KeyDown:
		m.browse(1)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// browse moves through history, keeping the unsent draft at the end.
func (m *model) browse(delta int) {
	next := m.pos + delta
	if next < 0 || next > len(m.history) {
		return
	}
	if m.pos == len(m.history) {
		m.draft = m.input.Value()
	}
	m.pos = next
	if m.pos == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[m.pos])
	}
	m.input.CursorEnd()
}

func (m model) View() string {
	if m.done {
		return ""
	}
	return m.input.View()
}
