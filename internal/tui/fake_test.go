package tui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/verte-zerg/fltrdr/internal/model"
	"github.com/verte-zerg/fltrdr/internal/reader"
)

// TestMain forces a color profile so rendered frames carry their styles
// even though test output is not a terminal.
func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.TrueColor)
	os.Exit(m.Run())
}

type fakeReader struct {
	words    []string
	index    int
	wpm      int
	wait     int
	showPrev int
	showNext int
	showLine bool
	active   bool

	timerStarts int
	beginCalls  int
	resetWPM    int
	resetTimer  int
	searches    []string
	found       bool
}

func newFakeReader(n int) *fakeReader {
	words := make([]string, n)
	for i := range words {
		words[i] = "word"
	}
	return &fakeReader{words: words, wpm: 250, wait: 240}
}

func (f *fakeReader) Parse(src io.Reader) bool {
	data, err := io.ReadAll(src)
	if err != nil {
		return false
	}
	words := strings.Fields(string(data))
	if len(words) == 0 {
		return false
	}
	f.words, f.index = words, 0
	return true
}

func (f *fakeReader) ScreenSize(int, int) {}
func (f *fakeReader) NextWord() {
	if f.index < len(f.words)-1 {
		f.index++
	}
}
func (f *fakeReader) PrevWord() {
	if f.index > 0 {
		f.index--
	}
}
func (f *fakeReader) NextSentence() {}
func (f *fakeReader) PrevSentence() {}
func (f *fakeReader) NextChapter()  {}
func (f *fakeReader) PrevChapter()  {}
func (f *fakeReader) Begin() {
	f.beginCalls++
	f.index = 0
}
func (f *fakeReader) End()      { f.index = len(f.words) - 1 }
func (f *fakeReader) EOF() bool { return f.index >= len(f.words)-1 }

func (f *fakeReader) SetLine(int) {}
func (f *fakeReader) Line() reader.Line {
	return reader.Line{Curr: f.Word()}
}
func (f *fakeReader) Progress() int {
	if len(f.words) <= 1 {
		return 100
	}
	return f.index * 100 / (len(f.words) - 1)
}
func (f *fakeReader) Stats() string { return "0/250 WPM 0% 00:00:00" }
func (f *fakeReader) SetIndex(n int) {
	f.index = min(max(n, 0), len(f.words)-1)
}
func (f *fakeReader) Word() string { return f.words[f.index] }

func (f *fakeReader) WPM() int          { return f.wpm }
func (f *fakeReader) SetWPM(n int)      { f.wpm = n }
func (f *fakeReader) IncWPM()           { f.wpm += 10 }
func (f *fakeReader) DecWPM()           { f.wpm -= 10 }
func (f *fakeReader) CalcWPMAvg()       {}
func (f *fakeReader) ResetWPMAvg()      { f.resetWPM++ }
func (f *fakeReader) WPMAvg() int       { return f.wpm }
func (f *fakeReader) Wait() int         { return f.wait }
func (f *fakeReader) TimerActive() bool { return f.active }
func (f *fakeReader) StartTimer() {
	f.timerStarts++
	f.active = true
}
func (f *fakeReader) StopTimer()             { f.active = false }
func (f *fakeReader) ResetTimer()            { f.resetTimer++ }
func (f *fakeReader) Elapsed() time.Duration { return 0 }

func (f *fakeReader) SearchForward(text string) bool {
	f.searches = append(f.searches, text)
	return f.found
}
func (f *fakeReader) SearchBackward(text string) bool {
	f.searches = append(f.searches, text)
	return f.found
}
func (f *fakeReader) SearchNext() bool { return f.found }
func (f *fakeReader) SearchPrev() bool { return f.found }

func (f *fakeReader) ShowPrev() int      { return f.showPrev }
func (f *fakeReader) SetShowPrev(n int)  { f.showPrev = n }
func (f *fakeReader) ShowNext() int      { return f.showNext }
func (f *fakeReader) SetShowNext(n int)  { f.showNext = n }
func (f *fakeReader) ShowLine() bool     { return f.showLine }
func (f *fakeReader) SetShowLine(v bool) { f.showLine = v }

// fakeTerminal hands out scripted input one byte per read.
type fakeTerminal struct {
	in     []byte
	out    bytes.Buffer
	width  int
	height int
	cooked int
}

func (f *fakeTerminal) Read(p []byte) (int, error) {
	if len(f.in) == 0 {
		return 0, nil
	}
	n := copy(p, f.in[:1])
	f.in = f.in[1:]
	return n, nil
}

func (f *fakeTerminal) Write(p []byte) (int, error) { return f.out.Write(p) }

func (f *fakeTerminal) Size() (int, int, error) { return f.width, f.height, nil }

func (f *fakeTerminal) Cooked() func() {
	f.cooked++
	return func() {}
}

// fakeEditor returns a fixed line.
type fakeEditor struct {
	line    string
	aborted bool
	marker  string
}

func (f *fakeEditor) Prompt(marker string, _ lipgloss.Style) { f.marker = marker }

func (f *fakeEditor) Read() (string, bool, error) {
	return f.line, !f.aborted, nil
}

// script feeds input on the numbered sleep call and records every sleep.
type script struct {
	term   *fakeTerminal
	steps  map[int]string
	calls  int
	limit  int
	onCall func(call int)
}

func (s *script) sleep(time.Duration) {
	s.calls++
	if in, ok := s.steps[s.calls]; ok {
		s.term.in = append(s.term.in, in...)
	}
	if s.onCall != nil {
		s.onCall(s.calls)
	}
	if s.limit > 0 && s.calls >= s.limit {
		s.term.in = append(s.term.in, 'q')
	}
}

func newTestController(r *fakeReader, settings model.Settings) (*Controller, *fakeTerminal, *script) {
	t := &fakeTerminal{width: 80, height: 24}
	sc := &script{term: t, steps: map[int]string{}, limit: 1000}
	c := New(r, Options{Settings: settings, Sleep: sc.sleep})
	return c, t, sc
}
