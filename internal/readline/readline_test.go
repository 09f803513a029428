package readline

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func typeText(m model, text string) model {
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}
	return m
}

func press(m model, k tea.KeyType) model {
	next, _ := m.Update(tea.KeyMsg{Type: k})
	return next.(model)
}

func TestSubmit(t *testing.T) {
	m := newModel(":", lipgloss.NewStyle(), nil)
	m = typeText(m, "wpm 300")
	m = press(m, tea.KeyEnter)
	if !m.done || m.aborted || m.line != "wpm 300" {
		t.Fatalf("unexpected model state done=%v aborted=%v line=%q", m.done, m.aborted, m.line)
	}
	if m.View() != "" {
		t.Fatalf("expected empty view after submit")
	}
}

func TestCancelAndAbort(t *testing.T) {
	m := typeText(newModel("/", lipgloss.NewStyle(), nil), "fox")
	m = press(m, tea.KeyEsc)
	if !m.done || m.aborted || m.line != "" {
		t.Fatalf("esc should cancel with an empty line")
	}

	m = typeText(newModel("/", lipgloss.NewStyle(), nil), "fox")
	m = press(m, tea.KeyCtrlC)
	if !m.aborted {
		t.Fatalf("ctrl-c should abort")
	}
}

func TestHistoryBrowse(t *testing.T) {
	m := newModel(":", lipgloss.NewStyle(), []string{"wpm 300", "goto 10"})
	m = typeText(m, "dra")
	m = press(m, tea.KeyUp)
	if got := m.input.Value(); got != "goto 10" {
		t.Fatalf("expected goto 10, got %q", got)
	}
	m = press(m, tea.KeyUp)
	m = press(m, tea.KeyUp)
	if got := m.input.Value(); got != "wpm 300" {
		t.Fatalf("expected wpm 300, got %q", got)
	}
	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown)
	if got := m.input.Value(); got != "dra" {
		t.Fatalf("expected draft restored, got %q", got)
	}
}

func TestRemember(t *testing.T) {
	e := New(nil, nil)
	e.remember("a")
	e.remember("a")
	e.remember("")
	e.remember("b")
	if got := e.History(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected history %v", got)
	}
	for i := 0; i < maxHistory+5; i++ {
		e.remember(string(rune('a' + i%2)))
	}
	if len(e.History()) > maxHistory {
		t.Fatalf("history not capped")
	}
}
