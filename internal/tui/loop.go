package tui

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/fltrdr/internal/keys"
	"github.com/verte-zerg/fltrdr/internal/model"
)

// ErrAborted is returned when the user declines to continue.
var ErrAborted = errors.New("aborted by user")

// LineEditor reads one line of text on the prompt row.
type LineEditor interface {
	Prompt(marker string, style lipgloss.Style)
	// Read returns the entered line. ok is false when the user aborted
	// the whole session while editing.
	Read() (line string, ok bool, err error)
}

// Options configures a Controller.
type Options struct {
	Settings model.Settings
	File     FileInfo
	Command  LineEditor
	Search   LineEditor
	Sleep    func(time.Duration)
	Now      func() time.Time
	OpenFile func(path string) (io.ReadCloser, error)
}

// Controller runs the interactive reader over one terminal.
type Controller struct {
	s        *Session
	r        Reader
	term     Terminal
	keys     *keys.Decoder
	command  LineEditor
	search   LineEditor
	sleep    func(time.Duration)
	now      func() time.Time
	openFile func(path string) (io.ReadCloser, error)
	buf      strings.Builder

	startedAt time.Time
	wordsRead int
}

// New returns a paused controller over r.
func New(r Reader, opts Options) *Controller {
	c := &Controller{
		s:        NewSession(opts.Settings),
		r:        r,
		command:  opts.Command,
		search:   opts.Search,
		sleep:    opts.Sleep,
		now:      opts.Now,
		openFile: opts.OpenFile,
	}
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.openFile == nil {
		c.openFile = openRegular
	}
	c.s.File = opts.File
	if opts.Settings.WPM > 0 {
		r.SetWPM(opts.Settings.WPM)
	}
	c.startedAt = c.now()
	return c
}

// Session exposes the controller state.
func (c *Controller) Session() *Session {
	return c.s
}

// Run drives the event loop on t until the user quits. Input errors end
// the loop and are returned.
func (c *Controller) Run(t Terminal) error {
	c.term = t
	c.keys = keys.NewDecoder(t)
	for c.s.Running {
		w, h, err := c.term.Size()
		if err != nil {
			return err
		}
		c.s.Width, c.s.Height = w, h

		if !c.s.Valid() {
			c.pause()
			if err := c.drawGeometryError(); err != nil {
				return err
			}
			c.sleep(millis(c.s.InputInterval))
			if err := c.pollQuit(); err != nil {
				return err
			}
			continue
		}

		c.r.ScreenSize(w, h)
		c.s.Offset = c.s.offsetColumns()

		if c.s.Mode == Active {
			c.r.NextWord()
			c.wordsRead++
			c.r.CalcWPMAvg()
			if c.r.EOF() {
				c.pause()
			}
		}

		if err := c.render(); err != nil {
			return err
		}

		if c.s.Mode == CountingDown {
			c.tick()
		}

		c.setWait()
		if err := c.consumeWait(); err != nil {
			return err
		}
	}
	return nil
}

// tick advances the countdown by one step.
func (c *Controller) tick() {
	if c.s.CountDown > 0 {
		c.s.CountDown--
	}
	if c.s.CountDown == 0 {
		c.s.Mode = Active
		c.r.StartTimer()
	}
}

func (c *Controller) setWait() {
	switch c.s.Mode {
	case CountingDown:
		c.s.Wait = 60000 / max(c.r.WPM(), 1)
	case Active:
		c.s.Wait = c.r.Wait()
	default:
		c.s.Wait = c.s.RefreshRate
	}
}

// consumeWait sleeps through the current wait in input-interval steps,
// polling for keys after each step.
func (c *Controller) consumeWait() error {
	wait := c.s.Wait
	for c.s.Running && wait > 0 {
		step := wait
		if c.s.InputInterval > 0 && wait > c.s.InputInterval {
			step = c.s.InputInterval
		}
		c.sleep(millis(step))
		wait -= step

		if c.s.Keys[1] != keys.None {
			c.s.Keys.Reset()
		}
		if err := c.input(&wait); err != nil {
			return err
		}
	}
	return nil
}

// pollQuit reads one key and stops the session on a quit key.
func (c *Controller) pollQuit() error {
	k, err := c.keys.Next()
	if err != nil {
		return err
	}
	if isQuit(k) {
		c.s.Running = false
	}
	return nil
}

func (c *Controller) play() {
	if c.s.Playing() {
		return
	}
	c.s.Status = labelPlay
	c.s.Prompt.Count = 0
	if c.s.CountTotal <= 0 {
		c.s.Mode = Active
		c.r.StartTimer()
		return
	}
	c.s.Mode = CountingDown
	c.s.CountDown = c.s.CountTotal
}

func (c *Controller) pause() {
	if !c.s.Playing() {
		return
	}
	if c.r.TimerActive() {
		c.r.StopTimer()
	}
	c.s.Mode = Paused
	c.s.Status = labelPause
	c.s.CountDown = 0
}

// Summary describes the run so far for the reading history.
func (c *Controller) Summary() model.ReadingSession {
	return model.ReadingSession{
		StartedAt:  c.startedAt,
		EndedAt:    c.now(),
		File:       c.s.File.Name,
		Words:      c.wordsRead,
		ActiveMs:   c.r.Elapsed().Milliseconds(),
		AverageWPM: c.r.WPMAvg(),
		Progress:   c.r.Progress(),
	}
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
