package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/fltrdr/internal/model"
)

func newCommandController(t *testing.T) (*Controller, *fakeReader) {
	t.Helper()
	r := newFakeReader(20)
	return New(r, Options{Settings: model.DefaultSettings()}), r
}

func TestStylePrimaryIsIdempotent(t *testing.T) {
	c, _ := newCommandController(t)
	if out := c.Command("style primary #336699"); out != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	once := c.s.Style
	if out := c.Command("style primary #336699"); out != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	twice := c.s.Style

	want := lipgloss.Color("#336699")
	if once.WordPrimary.GetForeground() != want || twice.WordPrimary.GetForeground() != want {
		t.Fatalf("text primary not set")
	}
	if once.Background.GetBackground() != want || twice.Background.GetBackground() != want {
		t.Fatalf("status background not set")
	}
	if once.Primary.GetForeground() != want || twice.Primary.GetForeground() != want {
		t.Fatalf("status primary not set")
	}
	if once.Border.GetForeground() != twice.Border.GetForeground() {
		t.Fatalf("border changed on repeat")
	}
}

func TestStyleRejectsShortHex(t *testing.T) {
	c, _ := newCommandController(t)
	out := c.Command("style primary FF00")
	if out == nil || out.OK {
		t.Fatalf("expected failure, got %+v", out)
	}
	if out.Message != "unknown command 'style primary FF00'" {
		t.Fatalf("unexpected message %q", out.Message)
	}
}

func TestStyleSubSlots(t *testing.T) {
	c, _ := newCommandController(t)
	before := c.s.Style

	if out := c.Command("style status-primary red bright"); out != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if got := c.s.Style.Primary.GetForeground(); got != lipgloss.Color("9") {
		t.Fatalf("expected bright red, got %v", got)
	}
	if c.s.Style.Background.GetBackground() != before.Background.GetBackground() {
		t.Fatalf("status-primary touched the background")
	}

	if out := c.Command("style text-highlight 196"); out != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if got := c.s.Style.WordHighlight.GetForeground(); got != lipgloss.Color("196") {
		t.Fatalf("expected 196, got %v", got)
	}

	if out := c.Command("style countdown blue"); out != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if got := c.s.Style.Countdown.GetBackground(); got != lipgloss.Color("4") {
		t.Fatalf("expected blue background, got %v", got)
	}

	out := c.Command("style text-highlight 300")
	if out == nil || out.OK || out.Message != "invalid color '300'" {
		t.Fatalf("expected invalid color, got %+v", out)
	}
}

func TestStyleSecondaryGroup(t *testing.T) {
	c, _ := newCommandController(t)
	if out := c.Command("style secondary 808080"); out != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	want := lipgloss.Color("#808080")
	for name, st := range map[string]lipgloss.Style{
		"status-secondary": c.s.Style.Secondary,
		"progress bar":     c.s.Style.ProgressBar,
		"text-secondary":   c.s.Style.WordSecondary,
		"text-quote":       c.s.Style.WordQuote,
		"error":            c.s.Style.Error,
	} {
		if st.GetForeground() != want {
			t.Fatalf("%s not updated", name)
		}
	}
}

func TestSymbolValidation(t *testing.T) {
	c, _ := newCommandController(t)

	if out := c.Command("sym progress X"); out != nil {
		t.Fatalf("single byte rejected: %+v", out)
	}
	if c.s.Sym.Progress != "X" {
		t.Fatalf("expected X, got %q", c.s.Sym.Progress)
	}

	out := c.Command("sym progress ab")
	if out == nil || out.OK || out.Message != "invalid symbol 'ab'" {
		t.Fatalf("expected invalid symbol, got %+v", out)
	}
	if c.s.Sym.Progress != "X" {
		t.Fatalf("rejected symbol was applied")
	}

	if out := c.Command("sym progress é"); out != nil {
		t.Fatalf("two-byte glyph rejected: %+v", out)
	}
	if c.s.Sym.Progress != "é" {
		t.Fatalf("expected é, got %q", c.s.Sym.Progress)
	}

	if out := c.Command("sym border.top.line ═"); out != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if c.s.Sym.BorderTop != "═" || c.s.Sym.BorderTopMark != "═" {
		t.Fatalf("compound symbol not applied: %+v", c.s.Sym)
	}

	if out := c.Command("sym border-bottom-mark"); out != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if c.s.Sym.BorderBottomMark != " " {
		t.Fatalf("expected blank reset, got %q", c.s.Sym.BorderBottomMark)
	}
}

func TestToggles(t *testing.T) {
	c, r := newCommandController(t)
	cmds := []string{"set border off", "set progress 0", "set status f", "set view"}
	for _, cmd := range cmds {
		if out := c.Command(cmd); out != nil {
			t.Fatalf("%s: unexpected outcome %+v", cmd, out)
		}
	}
	if c.s.Show.BorderTop || c.s.Show.BorderBottom || c.s.Show.Progress || c.s.Show.Status {
		t.Fatalf("toggles not cleared: %+v", c.s.Show)
	}
	if !r.showLine {
		t.Fatalf("expected view enabled")
	}
	if out := c.Command("set border-top"); out != nil || !c.s.Show.BorderTop || c.s.Show.BorderBottom {
		t.Fatalf("border-top toggle failed: %+v", c.s.Show)
	}
}

func TestReaderCommands(t *testing.T) {
	c, r := newCommandController(t)
	for _, cmd := range []string{"prev 3", "next 8", "wpm 400", "goto 4", "offset 5"} {
		if out := c.Command(cmd); out != nil {
			t.Fatalf("%s: unexpected outcome %+v", cmd, out)
		}
	}
	if r.showPrev != 3 || r.showNext != 8 || r.wpm != 400 || r.index != 4 || c.s.OffsetValue != 5 {
		t.Fatalf("unexpected state: prev %d next %d wpm %d index %d offset %d",
			r.showPrev, r.showNext, r.wpm, r.index, c.s.OffsetValue)
	}
	if out := c.Command("next"); out != nil || r.showNext != 0 {
		t.Fatalf("expected next reset to 0")
	}
	if out := c.Command("offset 9"); out == nil || out.OK {
		t.Fatalf("expected offset 9 to be unknown")
	}

	c.Command("reset wpm")
	if r.resetWPM != 1 || r.resetTimer != 0 {
		t.Fatalf("reset wpm touched the timer")
	}
	c.Command("reset")
	if r.resetWPM != 2 || r.resetTimer != 1 {
		t.Fatalf("reset should clear both")
	}
}

func TestOpenCommand(t *testing.T) {
	c, r := newCommandController(t)
	missing := filepath.Join(t.TempDir(), "missing.txt")
	out := c.Command("open " + missing)
	if out == nil || out.OK || out.Message != "could not open file '"+missing+"'" {
		t.Fatalf("expected open failure, got %+v", out)
	}

	path := filepath.Join(t.TempDir(), "book.txt")
	if err := os.WriteFile(path, []byte("one two three"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if out := c.Command("open " + path); out != nil {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if c.s.File.Path != path || len(r.words) != 3 {
		t.Fatalf("file not opened: %+v %v", c.s.File, r.words)
	}
}

func TestQuitAndUnknown(t *testing.T) {
	c, _ := newCommandController(t)
	if out := c.Command("bogus"); out == nil || out.Message != "unknown command 'bogus'" {
		t.Fatalf("expected unknown command, got %+v", out)
	}
	if out := c.Command("   "); out != nil {
		t.Fatalf("blank input should be silent")
	}
	if out := c.Command("quit"); out != nil || c.s.Running {
		t.Fatalf("quit should stop silently")
	}
	if out := c.Command("bogus"); out != nil {
		t.Fatalf("commands after quit should be ignored")
	}
}

func TestApplyConfig(t *testing.T) {
	c, r := newCommandController(t)
	path := filepath.Join(t.TempDir(), "config")
	data := "# comment\n\nwpm 320\nbogus\n  set status off  \n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	problems := c.ApplyConfig(path)
	if len(problems) != 1 || problems[0] != path+":4: unknown command 'bogus'" {
		t.Fatalf("unexpected problems %v", problems)
	}
	if r.wpm != 320 || c.s.Show.Status {
		t.Fatalf("config not applied")
	}

	missing := filepath.Join(t.TempDir(), "nope")
	problems = c.ApplyConfig(missing)
	if len(problems) != 1 || problems[0] != "error: could not open config file '"+missing+"'" {
		t.Fatalf("unexpected problems %v", problems)
	}
}

func TestCommandPromptShowsOutcome(t *testing.T) {
	r := newFakeReader(20)
	ed := &fakeEditor{line: "bogus"}
	ft := &fakeTerminal{width: 80, height: 24}
	c := New(r, Options{Settings: model.DefaultSettings(), Command: ed})
	c.term = ft
	c.s.Width, c.s.Height = 80, 24

	if err := c.commandPrompt(); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if ed.marker != ":" || ft.cooked != 1 {
		t.Fatalf("editor not run in line mode")
	}
	if c.s.Prompt.Text != "unknown command 'bogus'" || c.s.Prompt.Count != 40 {
		t.Fatalf("unexpected prompt state %+v", c.s.Prompt)
	}

	ed.aborted = true
	if err := c.commandPrompt(); err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if c.s.Running {
		t.Fatalf("abort should stop the session")
	}
}

func TestSearchMissShowsMessage(t *testing.T) {
	r := newFakeReader(20)
	ed := &fakeEditor{line: "zebra"}
	ft := &fakeTerminal{width: 80, height: 24}
	c := New(r, Options{Settings: model.DefaultSettings(), Search: ed})
	c.term = ft
	c.s.Width, c.s.Height = 80, 24
	c.s.Wait = 250

	if err := c.searchPrompt("/", r.SearchForward); err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(r.searches) != 1 || r.searches[0] != "zebra" {
		t.Fatalf("unexpected searches %v", r.searches)
	}
	if c.s.Prompt.Text != "zebra" || c.s.Prompt.Count != 5 {
		t.Fatalf("unexpected prompt state %+v", c.s.Prompt)
	}
}
