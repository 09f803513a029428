// Package term owns the interactive terminal: raw input mode, the alternate
// screen, size queries and the escape sequences used to draw frames.
package term

import (
	"strconv"

	"github.com/charmbracelet/x/ansi"
)

// Escape sequences written by the session and the frame compositor.
const (
	CursorHide  = "\x1b[?25l"
	CursorShow  = "\x1b[?25h"
	ScreenPush  = "\x1b[?1049h"
	ScreenPop   = "\x1b[?1049l"
	ScreenClear = "\x1b[2J"
	CursorHome  = "\x1b[H"
	CursorSave  = "\x1b7"
	CursorLoad  = "\x1b8"
	CursorUp    = "\x1b[1A"
	EraseLine   = "\x1b[2K"
	EraseEnd    = "\x1b[K"
	Reset       = "\x1b[0m"
	CR          = "\r"
	NL          = "\r\n"
)

// CursorSet moves the cursor to column x, row y (1-based; 0 is treated as 1
// by terminals).
func CursorSet(x, y int) string {
	return "\x1b[" + strconv.Itoa(y) + ";" + strconv.Itoa(x) + "H"
}

// VisibleWidth returns the display width of s, ignoring escape sequences.
func VisibleWidth(s string) int {
	return ansi.StringWidth(s)
}

// Strip removes escape sequences from s.
func Strip(s string) string {
	return ansi.Strip(s)
}
