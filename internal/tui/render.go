package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/fltrdr/internal/reader"
	"github.com/verte-zerg/fltrdr/internal/term"
)

type cell struct {
	value  string
	style  lipgloss.Style
	styled bool
	band   bool
}

func (c cell) render(countdown lipgloss.Style) string {
	switch {
	case c.value == "":
		return ""
	case c.styled && c.band:
		return c.style.Inherit(countdown).Render(c.value)
	case c.band:
		return countdown.Render(c.value)
	case c.styled:
		return c.style.Render(c.value)
	}
	return c.value
}

// focusWidths splits the row around the focal column.
func focusWidths(width, offset int) (int, int) {
	left := width/2 - offset
	right := width/2 + offset + width%2
	return left, right
}

// classify picks the style of a word character outside the focal column.
func (st Styles) classify(r rune, primary lipgloss.Style) lipgloss.Style {
	switch {
	case r == '-':
		return st.WordSecondary
	case r == '\'' || r == '"':
		return st.WordQuote
	case r <= unicode.MaxASCII && (unicode.IsPunct(r) || unicode.IsSymbol(r)):
		return st.WordPunct
	}
	return primary
}

// layoutContent places the line context into exactly width cells. A wide
// rune fills its cell and leaves the next one empty.
func layoutContent(s *Session, line reader.Line) []cell {
	cells := make([]cell, s.Width)
	for i := range cells {
		cells[i].value = " "
	}

	left, right := focusWidths(s.Width, s.Offset)
	if s.Mode == CountingDown && s.CountTotal > 0 {
		if s.CountDown > 1 || s.CountDown == s.CountTotal {
			frac := float64(s.CountDown) / float64(s.CountTotal)
			percLeft := int(float64(left) * frac)
			percRight := int(float64(right) * frac)
			for i := left - percLeft; i < left+percRight && i < len(cells); i++ {
				if i >= 0 {
					cells[i].band = true
				}
			}
		} else if left-1 >= 0 && left-1 < len(cells) {
			cells[left-1].band = true
		}
	}

	pos := 0
	put := func(span string, current bool) {
		for _, r := range span {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				if pos > 0 {
					cells[pos-1].value += string(r)
				}
				continue
			}
			if pos+w > len(cells) {
				pos = len(cells)
				return
			}
			c := &cells[pos]
			c.value = string(r)
			switch {
			case current && pos == left-1:
				c.style, c.styled = s.Style.WordHighlight, true
			case !current && r == ' ':
			case current:
				c.style, c.styled = s.Style.classify(r, s.Style.WordPrimary), true
			default:
				c.style, c.styled = s.Style.classify(r, s.Style.WordSecondary), true
			}
			for i := 1; i < w; i++ {
				cells[pos+i].value = ""
			}
			pos += w
		}
	}
	put(line.Prev, false)
	put(line.Curr, true)
	put(line.Next, false)
	return cells
}

// composeContent renders the content row.
func composeContent(s *Session, line reader.Line) string {
	var b strings.Builder
	for _, c := range layoutContent(s, line) {
		b.WriteString(c.render(s.Style.Countdown))
	}
	return b.String()
}

// dropFront removes the first n display columns of s.
func dropFront(s string, n int) string {
	for i, r := range s {
		if n <= 0 {
			return s[i:]
		}
		n -= runewidth.RuneWidth(r)
	}
	return ""
}

// composeStatus builds the status bar: the mode tag, the file name and the
// reading stats. When the row is too narrow the file name is shortened
// first, then dropped, then the stats are shortened.
func composeStatus(st Styles, width int, mode, name, stats string) string {
	bar := st.Primary.Inherit(st.Background)

	var b strings.Builder
	b.WriteString(bar.Render(" " + mode + " "))
	b.WriteString(" ")

	nameWidth := runewidth.StringWidth(name)
	lenMode := 2 + runewidth.StringWidth(mode)
	lenFile := 2 + nameWidth
	lenStats := 2 + runewidth.StringWidth(stats)
	pad := width - lenMode - lenFile - lenStats

	if pad >= 0 {
		b.WriteString(st.Secondary.Render(name))
		b.WriteString(" ")
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(bar.Render(" " + stats + " "))
		return b.String()
	}

	deficit := -pad
	switch {
	case deficit < nameWidth:
		b.WriteString(st.Secondary.Render("<" + dropFront(name, deficit+1)))
		b.WriteString(" ")
		b.WriteString(bar.Render(" " + stats + " "))
	case deficit == nameWidth:
		b.WriteString(" ")
		b.WriteString(bar.Render(" " + stats + " "))
	case deficit == nameWidth+1:
		b.WriteString(bar.Render(" " + stats + " "))
	default:
		b.WriteString(bar.Render(" <" + dropFront(stats, deficit-nameWidth) + " "))
	}
	return b.String()
}

func (c *Controller) clear() {
	c.buf.WriteString(term.CursorSet(1, c.s.Height))
	for i := 0; i < c.s.Height; i++ {
		c.buf.WriteString(term.EraseLine + term.CursorUp)
	}
}

func (c *Controller) draw() {
	c.drawContent()
	c.drawBorder(c.s.Show.BorderTop, c.s.Height/2-2, c.s.Sym.BorderTop, c.s.Sym.BorderTopMark)
	c.drawBorder(c.s.Show.BorderBottom, c.s.Height/2, c.s.Sym.BorderBottom, c.s.Sym.BorderBottomMark)
	c.drawProgress()
	c.drawStatus()
	c.drawPromptMessage()
	c.drawKeyBuffer()
}

func (c *Controller) drawContent() {
	c.buf.WriteString(term.CursorSave + term.CursorSet(1, c.s.Height/2-1) + term.EraseLine)
	c.buf.WriteString(composeContent(c.s, c.r.Line()))
	c.buf.WriteString(term.Reset + term.CursorLoad)
}

func (c *Controller) drawBorder(show bool, row int, fill, mark string) {
	if !show {
		return
	}
	left, _ := focusWidths(c.s.Width, c.s.Offset)
	c.buf.WriteString(term.CursorSave + term.CursorSet(1, row) + term.EraseLine)
	c.buf.WriteString(c.s.Style.Border.Render(strings.Repeat(fill, c.s.Width)))
	c.buf.WriteString(term.CursorSet(left, row))
	c.buf.WriteString(c.s.Style.Border.Render(mark))
	c.buf.WriteString(term.CursorLoad)
}

func (c *Controller) drawProgress() {
	if !c.s.Show.Progress {
		return
	}
	row := c.s.Height - 2
	if !c.s.Show.Status {
		row = c.s.Height - 1
	}
	filled := c.r.Progress() * c.s.Width / 100
	c.buf.WriteString(term.CursorSave + term.CursorSet(1, row) + term.EraseLine)
	c.buf.WriteString(c.s.Style.ProgressBar.Render(strings.Repeat(c.s.Sym.Progress, c.s.Width)))
	c.buf.WriteString(term.CR)
	if filled > 0 {
		c.buf.WriteString(c.s.Style.ProgressFill.Render(strings.Repeat(c.s.Sym.Progress, filled)))
	}
	c.buf.WriteString(term.CursorLoad)
}

func (c *Controller) drawStatus() {
	if !c.s.Show.Status {
		return
	}
	c.buf.WriteString(term.CursorSave + term.CursorSet(1, c.s.Height-1))
	c.buf.WriteString(composeStatus(c.s.Style, c.s.Width, c.s.Status, c.s.File.Name, c.r.Stats()))
	c.buf.WriteString(term.CursorLoad)
}

func (c *Controller) drawPromptMessage() {
	if c.s.Prompt.Count <= 0 {
		return
	}
	c.s.Prompt.Count--
	c.buf.WriteString(term.CursorSave + term.CursorSet(1, c.s.Height))
	c.buf.WriteString(c.s.Style.Prompt.Render("?"))
	c.buf.WriteString(c.s.Style.PromptStatus.Render(c.truncateMessage(c.s.Prompt.Text)))
	c.buf.WriteString(term.CursorLoad)
}

func (c *Controller) drawKeyBuffer() {
	c.buf.WriteString(term.CursorSave + term.CursorSet(c.s.Width-3, c.s.Height) + term.EraseEnd)
	c.buf.WriteString(c.s.Style.Secondary.Render(" " + c.s.Keys[0].String() + c.s.Keys[1].String() + " "))
	c.buf.WriteString(term.CursorLoad)
}

func (c *Controller) truncateMessage(msg string) string {
	return runewidth.Truncate(msg, max(c.s.Width-2, 0), "")
}

// geometryError describes why the terminal is too small.
func geometryError(g Geometry) string {
	widthBad := g.Width < g.MinWidth
	heightBad := g.Height < g.MinHeight
	switch {
	case widthBad && heightBad:
		return fmt.Sprintf("Error: width %d (%d min) & height %d (%d min)", g.Width, g.MinWidth, g.Height, g.MinHeight)
	case widthBad:
		return fmt.Sprintf("Error: width %d (%d min)", g.Width, g.MinWidth)
	case heightBad:
		return fmt.Sprintf("Error: height %d (%d min)", g.Height, g.MinHeight)
	}
	return ""
}

func (c *Controller) drawGeometryError() error {
	c.clear()
	c.buf.WriteString(geometryError(c.s.Geometry) + term.NL)
	return c.flush()
}

// render draws a full frame for the current model state and flushes it.
func (c *Controller) render() error {
	c.r.SetLine(c.s.Offset)
	c.clear()
	c.draw()
	return c.flush()
}

func (c *Controller) flush() error {
	defer c.buf.Reset()
	if _, err := c.term.Write([]byte(c.buf.String())); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}
