package tui

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/fltrdr/internal/keys"
	"github.com/verte-zerg/fltrdr/internal/term"
)

func isQuit(k keys.Key) bool {
	return k == 'q' || k == 'Q' || k == keys.Ctrl('c')
}

// input drains pending keys, dispatching each and redrawing after it. A
// dispatched key that changes the playback mode cuts the remaining wait.
func (c *Controller) input(wait *int) error {
	for {
		k, err := c.keys.Next()
		if err != nil {
			return err
		}
		if k == keys.None {
			return nil
		}
		if isQuit(k) {
			c.s.Running = false
			return nil
		}

		if c.s.Keys[0] == keys.None {
			c.s.Keys[0] = k
		} else {
			c.s.Keys[1] = k
			k = c.s.Keys[0]
		}

		before := c.s.Mode
		single, err := c.dispatch(k)
		if err != nil {
			return err
		}
		if !c.s.Running {
			return nil
		}
		if c.s.Mode != before {
			*wait = 0
		}
		if before == Paused && c.s.Mode != Paused {
			c.s.Keys.Reset()
			return nil
		}

		if err := c.render(); err != nil {
			return err
		}
		if single {
			c.s.Keys.Reset()
		}
	}
}

// dispatch runs the action bound to k. It reports false while a two-key
// sequence is waiting for its second key.
func (c *Controller) dispatch(k keys.Key) (bool, error) {
	switch k {
	case '\n', '\r':
		c.s.Keys.Reset()
	case keys.Esc:
		c.pause()
		c.s.Prompt.Count = 0
		c.s.Keys.Reset()
	case 'g':
		if c.s.Keys[1] != 'g' {
			return false, nil
		}
		c.pause()
		c.r.Begin()
	case 'G':
		c.pause()
		c.r.End()
	case ' ':
		if c.s.Playing() {
			c.pause()
		} else {
			c.play()
		}
	case 'i':
		c.r.SetShowPrev(c.r.ShowPrev() + 1)
	case 'I':
		c.r.SetShowPrev(c.r.ShowPrev() - 1)
	case 'o':
		c.r.SetShowNext(c.r.ShowNext() + 1)
	case 'O':
		c.r.SetShowNext(c.r.ShowNext() - 1)
	case '*':
		c.pause()
		c.r.SearchForward(c.r.Word())
	case '#':
		c.pause()
		c.r.SearchBackward(c.r.Word())
	case 'n':
		c.pause()
		c.r.SearchNext()
	case 'N':
		c.pause()
		c.r.SearchPrev()
	case 'h', keys.Left:
		c.pause()
		c.r.PrevWord()
	case 'l', keys.Right:
		c.pause()
		c.r.NextWord()
	case 'H':
		c.pause()
		c.r.PrevSentence()
	case 'L':
		c.pause()
		c.r.NextSentence()
	case 'k', keys.Up:
		c.r.IncWPM()
	case 'j', keys.Down:
		c.r.DecWPM()
	case 'J':
		c.pause()
		c.r.PrevChapter()
	case 'K':
		c.pause()
		c.r.NextChapter()
	case 'v':
		c.r.SetShowLine(!c.r.ShowLine())
	case ':':
		c.pause()
		err := c.commandPrompt()
		c.s.Keys.Reset()
		return true, err
	case '/':
		c.pause()
		err := c.searchPrompt("/", c.r.SearchForward)
		c.s.Keys.Reset()
		return true, err
	case '?':
		c.pause()
		err := c.searchPrompt("?", c.r.SearchBackward)
		c.s.Keys.Reset()
		return true, err
	}
	return true, nil
}

// readLine runs an editor on the prompt row with the terminal in line mode.
func (c *Controller) readLine(ed LineEditor, marker string) (string, bool, error) {
	if ed == nil {
		return "", true, nil
	}
	if err := c.writeString(term.CursorSave + term.CursorSet(1, c.s.Height) + term.EraseLine + term.CursorShow); err != nil {
		return "", false, err
	}
	c.s.Prompt.Count = 0

	ed.Prompt(marker, c.s.Style.Prompt)
	raw := c.term.Cooked()
	line, ok, err := ed.Read()
	raw()
	if err != nil {
		return "", false, err
	}

	if err := c.writeString(term.CursorHide + term.CR + term.EraseLine); err != nil {
		return "", false, err
	}
	return line, ok, nil
}

func (c *Controller) commandPrompt() error {
	line, ok, err := c.readLine(c.command, ":")
	if err != nil {
		return err
	}
	if !ok {
		c.s.Running = false
		return c.writeString(term.CursorLoad)
	}
	if out := c.Command(line); out != nil {
		c.s.Style.PromptStatus = c.s.Style.Error
		if out.OK {
			c.s.Style.PromptStatus = c.s.Style.Success
		}
		c.s.Prompt.Text = out.Message
		c.s.Prompt.Count = c.s.Prompt.Timeout
		if err := c.writeMessage(">", c.s.Style.PromptStatus); err != nil {
			return err
		}
	}
	return c.writeString(term.CursorLoad)
}

func (c *Controller) searchPrompt(marker string, search func(string) bool) error {
	line, ok, err := c.readLine(c.search, marker)
	if err != nil {
		return err
	}
	if !ok {
		c.s.Running = false
		return c.writeString(term.CursorLoad)
	}
	if line != "" && !search(line) {
		c.s.Prompt.Text = line
		c.s.Style.PromptStatus = c.s.Style.Error
		if c.s.InputInterval > 0 {
			c.s.Prompt.Count = c.s.Wait / c.s.InputInterval
		}
		if err := c.writeMessage("?", c.s.Style.Error); err != nil {
			return err
		}
	}
	return c.writeString(term.CursorLoad)
}

func (c *Controller) writeMessage(marker string, style lipgloss.Style) error {
	return c.writeString(c.s.Style.Prompt.Render(marker) + style.Render(c.truncateMessage(c.s.Prompt.Text)))
}

func (c *Controller) writeString(s string) error {
	_, err := io.WriteString(c.term, s)
	return err
}
