package tui

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the style table. Background and Countdown carry a background
// color; every other slot carries a foreground color.
type Styles struct {
	Primary       lipgloss.Style
	Secondary     lipgloss.Style
	Background    lipgloss.Style
	Border        lipgloss.Style
	ProgressBar   lipgloss.Style
	ProgressFill  lipgloss.Style
	WordPrimary   lipgloss.Style
	WordSecondary lipgloss.Style
	WordHighlight lipgloss.Style
	WordPunct     lipgloss.Style
	WordQuote     lipgloss.Style
	Prompt        lipgloss.Style
	PromptStatus  lipgloss.Style
	Success       lipgloss.Style
	Error         lipgloss.Style
	Countdown     lipgloss.Style
}

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Background(c)
}

// DefaultStyles returns the built-in palette.
func DefaultStyles() Styles {
	accent := lipgloss.Color("#C89A3A")
	muted := lipgloss.Color("#6E6E6E")
	light := lipgloss.Color("#8C8C8C")
	return Styles{
		Primary:       fg(lipgloss.Color("#1A1A1A")),
		Secondary:     fg(light),
		Background:    bg(accent),
		Border:        fg(muted),
		ProgressBar:   fg(muted),
		ProgressFill:  fg(accent),
		WordPrimary:   fg(lipgloss.Color("#F0F0F0")),
		WordSecondary: fg(muted),
		WordHighlight: fg(accent),
		WordPunct:     fg(light),
		WordQuote:     fg(light),
		Prompt:        fg(accent),
		PromptStatus:  fg(light),
		Success:       fg(lipgloss.Color("#52C41A")),
		Error:         fg(lipgloss.Color("#FF4D4F")),
		Countdown:     bg(lipgloss.Color("#4A4A4A")),
	}
}

// colorPattern matches a 24-bit hex code, an 8-bit palette index or one of
// the eight named 4-bit colors with an optional "bright" suffix.
const colorPattern = `(#?[0-9a-fA-F]{6}|[0-9]{1,3}|(?:black|red|green|yellow|blue|magenta|cyan|white)(?:\s+bright)?)`

var (
	hexColorRx   = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)
	indexColorRx = regexp.MustCompile(`^[0-9]{1,3}$`)
	namedColorRx = regexp.MustCompile(`^(black|red|green|yellow|blue|magenta|cyan|white)(\s+bright)?$`)
)

var namedColors = map[string]int{
	"black":   0,
	"red":     1,
	"green":   2,
	"yellow":  3,
	"blue":    4,
	"magenta": 5,
	"cyan":    6,
	"white":   7,
}

// parseColor converts a color value into a lipgloss color. It reports false
// for palette indexes above 255 or unrecognized values.
func parseColor(value string) (lipgloss.Color, bool) {
	value = strings.TrimSpace(value)
	if m := hexColorRx.FindStringSubmatch(value); m != nil {
		return lipgloss.Color("#" + strings.ToUpper(m[1])), true
	}
	if indexColorRx.MatchString(value) {
		n, err := strconv.Atoi(value)
		if err != nil || n > 255 {
			return "", false
		}
		return lipgloss.Color(strconv.Itoa(n)), true
	}
	if m := namedColorRx.FindStringSubmatch(value); m != nil {
		n := namedColors[m[1]]
		if strings.TrimSpace(m[2]) != "" {
			n += 8
		}
		return lipgloss.Color(strconv.Itoa(n)), true
	}
	return "", false
}

// styleSlot names a style target of the "style" command and the slots it
// writes. Grouped slots fan out to several entries of the table.
type styleSlot struct {
	name string
	set  func(*Styles, lipgloss.Color)
}

// styleSlots is ordered by priority: specific hyphenated keys are listed
// with their family so a shorter key can never shadow them.
var styleSlots = []styleSlot{
	{"primary", func(s *Styles, c lipgloss.Color) {
		s.Primary = fg(c)
		s.Background = bg(c)
		s.Border = fg(c)
		s.ProgressFill = fg(c)
		s.WordPrimary = fg(c)
		s.Prompt = fg(c)
		s.Success = fg(c)
	}},
	{"secondary", func(s *Styles, c lipgloss.Color) {
		s.Secondary = fg(c)
		s.ProgressBar = fg(c)
		s.WordSecondary = fg(c)
		s.WordHighlight = fg(c)
		s.WordPunct = fg(c)
		s.WordQuote = fg(c)
		s.Error = fg(c)
	}},
	{"text", func(s *Styles, c lipgloss.Color) {
		s.WordPrimary = fg(c)
		s.WordSecondary = fg(c)
		s.WordHighlight = fg(c)
		s.WordPunct = fg(c)
		s.WordQuote = fg(c)
	}},
	{"status-background", func(s *Styles, c lipgloss.Color) { s.Background = bg(c) }},
	{"countdown", func(s *Styles, c lipgloss.Color) { s.Countdown = bg(c) }},
	{"status-primary", func(s *Styles, c lipgloss.Color) { s.Primary = fg(c) }},
	{"status-secondary", func(s *Styles, c lipgloss.Color) { s.Secondary = fg(c) }},
	{"border", func(s *Styles, c lipgloss.Color) { s.Border = fg(c) }},
	{"progress-primary", func(s *Styles, c lipgloss.Color) { s.ProgressBar = fg(c) }},
	{"progress-secondary", func(s *Styles, c lipgloss.Color) { s.ProgressFill = fg(c) }},
	{"prompt", func(s *Styles, c lipgloss.Color) { s.Prompt = fg(c) }},
	{"success", func(s *Styles, c lipgloss.Color) { s.Success = fg(c) }},
	{"error", func(s *Styles, c lipgloss.Color) { s.Error = fg(c) }},
	{"text-primary", func(s *Styles, c lipgloss.Color) { s.WordPrimary = fg(c) }},
	{"text-secondary", func(s *Styles, c lipgloss.Color) { s.WordSecondary = fg(c) }},
	{"text-highlight", func(s *Styles, c lipgloss.Color) { s.WordHighlight = fg(c) }},
	{"text-punct", func(s *Styles, c lipgloss.Color) { s.WordPunct = fg(c) }},
	{"text-quote", func(s *Styles, c lipgloss.Color) { s.WordQuote = fg(c) }},
}
