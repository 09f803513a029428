// Package tui is the interactive controller of the reader: the event loop,
// key dispatch, the frame compositor and the command interpreter.
package tui

import (
	"io"
	"time"

	"github.com/verte-zerg/fltrdr/internal/keys"
	"github.com/verte-zerg/fltrdr/internal/model"
	"github.com/verte-zerg/fltrdr/internal/reader"
)

// Mode is the playback state.
type Mode int

const (
	// Paused shows the current word and waits for input.
	Paused Mode = iota
	// CountingDown is the pre-roll after resuming play.
	CountingDown
	// Active advances one word per tick.
	Active
)

// Mode labels shown in the status bar.
const (
	labelPlay  = "PLAY"
	labelPause = "PAUSE"
)

// Reader is the document model the controller drives.
type Reader interface {
	Parse(src io.Reader) bool
	ScreenSize(width, height int)

	NextWord()
	PrevWord()
	NextSentence()
	PrevSentence()
	NextChapter()
	PrevChapter()
	Begin()
	End()
	EOF() bool

	SetLine(offset int)
	Line() reader.Line
	Progress() int
	Stats() string
	SetIndex(n int)
	Word() string

	WPM() int
	SetWPM(n int)
	IncWPM()
	DecWPM()
	CalcWPMAvg()
	ResetWPMAvg()
	WPMAvg() int
	Wait() int

	StartTimer()
	StopTimer()
	TimerActive() bool
	ResetTimer()
	Elapsed() time.Duration

	SearchForward(text string) bool
	SearchBackward(text string) bool
	SearchNext() bool
	SearchPrev() bool

	ShowPrev() int
	SetShowPrev(n int)
	ShowNext() int
	SetShowNext(n int)
	ShowLine() bool
	SetShowLine(v bool)
}

// Terminal is the raw-mode terminal the controller reads keys from and
// draws frames to.
type Terminal interface {
	io.ReadWriter
	Size() (int, int, error)
	// Cooked restores line mode and returns a function re-entering raw mode.
	Cooked() func()
}

// Geometry is the terminal size and its minimum.
type Geometry struct {
	Width     int
	Height    int
	MinWidth  int
	MinHeight int
}

// Valid reports whether the terminal is large enough to draw a frame.
func (g Geometry) Valid() bool {
	return g.Width >= g.MinWidth && g.Height >= g.MinHeight
}

// Playback is the scheduler state. CountDown and CountTotal are only
// meaningful while Mode is CountingDown.
type Playback struct {
	Mode          Mode
	CountDown     int
	CountTotal    int
	Wait          int
	RefreshRate   int
	InputInterval int
}

// Playing reports whether playback is counting down or active.
func (p Playback) Playing() bool {
	return p.Mode != Paused
}

// Show holds the visibility toggles.
type Show struct {
	BorderTop    bool
	BorderBottom bool
	Progress     bool
	Status       bool
}

// Symbols holds the glyphs used to draw borders and the progress bar.
type Symbols struct {
	BorderTop        string
	BorderTopMark    string
	BorderBottom     string
	BorderBottomMark string
	Progress         string
}

// FileInfo describes the open document.
type FileInfo struct {
	Path string
	Name string
}

// PromptMessage is a transient message on the last row. It is drawn while
// Count is positive, and Count drops by one per frame.
type PromptMessage struct {
	Text    string
	Count   int
	Timeout int
}

// KeyBuffer holds up to two pending keys for two-key sequences.
type KeyBuffer [2]keys.Key

// Reset empties the buffer.
func (b *KeyBuffer) Reset() {
	b[0], b[1] = keys.None, keys.None
}

// Session is the mutable state of one interactive run.
type Session struct {
	Geometry
	Playback

	Running     bool
	OffsetValue int
	Offset      int

	Style  Styles
	Show   Show
	Sym    Symbols
	File   FileInfo
	Prompt PromptMessage
	Keys   KeyBuffer
	Status string
}

// NewSession returns a paused session built from settings.
func NewSession(settings model.Settings) *Session {
	return &Session{
		Geometry: Geometry{
			MinWidth:  settings.MinWidth,
			MinHeight: settings.MinHeight,
		},
		Playback: Playback{
			Mode:          Paused,
			CountTotal:    settings.Countdown,
			RefreshRate:   settings.RefreshRate,
			InputInterval: settings.InputInterval,
		},
		Running: true,
		Style:   DefaultStyles(),
		Show: Show{
			BorderTop:    true,
			BorderBottom: true,
			Progress:     true,
			Status:       true,
		},
		Sym: Symbols{
			BorderTop:        "─",
			BorderTopMark:    "┬",
			BorderBottom:     "─",
			BorderBottomMark: "┴",
			Progress:         "━",
		},
		Prompt: PromptMessage{Timeout: settings.PromptTimeout},
		Status: labelPause,
	}
}

// offsetColumns converts the 0-8 offset value into columns left of center.
func (s *Session) offsetColumns() int {
	return int(float64(s.OffsetValue) / 10.0 * float64(s.Width/2))
}
