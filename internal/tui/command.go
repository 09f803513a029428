package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Outcome is the result of a command that has something to report.
// A nil *Outcome means silent success.
type Outcome struct {
	OK      bool
	Message string
}

func failure(format string, args ...any) *Outcome {
	return &Outcome{Message: fmt.Sprintf(format, args...)}
}

// rule pairs a command pattern with the action run on its submatches.
type rule struct {
	rx    *regexp.Regexp
	apply func(c *Controller, m []string) *Outcome
}

const boolPattern = `(?:\s+(true|false|t|f|1|0|on|off))?`

var rules = buildRules()

func buildRules() []rule {
	var out []rule
	add := func(pattern string, apply func(c *Controller, m []string) *Outcome) {
		out = append(out, rule{rx: regexp.MustCompile(pattern), apply: apply})
	}

	add(`^(q|Q|quit|Quit)$`, func(c *Controller, _ []string) *Outcome {
		c.s.Running = false
		return nil
	})

	for _, slot := range styleSlots {
		set := slot.set
		add(`^style\s+`+regexp.QuoteMeta(slot.name)+`\s+`+colorPattern+`$`, func(c *Controller, m []string) *Outcome {
			color, ok := parseColor(m[1])
			if !ok {
				return failure("invalid color '%s'", m[1])
			}
			set(&c.s.Style, color)
			return nil
		})
	}

	toggles := []struct {
		name string
		set  func(c *Controller, v bool)
	}{
		{"border-top", func(c *Controller, v bool) { c.s.Show.BorderTop = v }},
		{"border-bottom", func(c *Controller, v bool) { c.s.Show.BorderBottom = v }},
		{"progress", func(c *Controller, v bool) { c.s.Show.Progress = v }},
		{"status", func(c *Controller, v bool) { c.s.Show.Status = v }},
	}
	for _, tg := range toggles {
		set := tg.set
		add(`^set\s+`+regexp.QuoteMeta(tg.name)+boolPattern+`$`, func(c *Controller, m []string) *Outcome {
			set(c, parseToggle(m[1]))
			return nil
		})
	}

	symbols := []struct {
		name string
		set  func(s *Symbols, glyph string)
	}{
		{"progress", func(s *Symbols, g string) { s.Progress = g }},
		{"border-top", func(s *Symbols, g string) { s.BorderTop = g }},
		{"border-top-mark", func(s *Symbols, g string) { s.BorderTopMark = g }},
		{"border-bottom", func(s *Symbols, g string) { s.BorderBottom = g }},
		{"border-bottom-mark", func(s *Symbols, g string) { s.BorderBottomMark = g }},
		{"border.top.line", func(s *Symbols, g string) { s.BorderTop, s.BorderTopMark = g, g }},
		{"border.bottom.line", func(s *Symbols, g string) { s.BorderBottom, s.BorderBottomMark = g, g }},
	}
	for _, sym := range symbols {
		set := sym.set
		add(`^sym\s+`+regexp.QuoteMeta(sym.name)+`(?:\s+(.{0,4}))?$`, func(c *Controller, m []string) *Outcome {
			glyph, ok := parseGlyph(m[1])
			if !ok {
				return failure("invalid symbol '%s'", strings.TrimSpace(m[1]))
			}
			set(&c.s.Sym, glyph)
			return nil
		})
	}

	add(`^set\s+border`+boolPattern+`$`, func(c *Controller, m []string) *Outcome {
		v := parseToggle(m[1])
		c.s.Show.BorderTop, c.s.Show.BorderBottom = v, v
		return nil
	})
	add(`^set\s+view`+boolPattern+`$`, func(c *Controller, m []string) *Outcome {
		c.r.SetShowLine(parseToggle(m[1]))
		return nil
	})

	add(`^prev(?:\s+([0-8]))?$`, func(c *Controller, m []string) *Outcome {
		c.r.SetShowPrev(atoiOrZero(m[1]))
		return nil
	})
	add(`^next(?:\s+([0-8]))?$`, func(c *Controller, m []string) *Outcome {
		c.r.SetShowNext(atoiOrZero(m[1]))
		return nil
	})

	add(`^reset(?:\s+(wpm|timer))?$`, func(c *Controller, m []string) *Outcome {
		switch m[1] {
		case "wpm":
			c.r.ResetWPMAvg()
		case "timer":
			c.r.ResetTimer()
		default:
			c.r.ResetTimer()
			c.r.ResetWPMAvg()
		}
		return nil
	})

	add(`^open\s+(.+)$`, func(c *Controller, m []string) *Outcome {
		return c.open(m[1])
	})

	add(`^wpm\s+([0-9]+)$`, func(c *Controller, m []string) *Outcome {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return failure("invalid number '%s'", m[1])
		}
		c.r.SetWPM(n)
		return nil
	})
	add(`^goto\s+([0-9]+)$`, func(c *Controller, m []string) *Outcome {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return failure("invalid number '%s'", m[1])
		}
		c.r.SetIndex(n)
		return nil
	})
	add(`^offset\s+([0-8])$`, func(c *Controller, m []string) *Outcome {
		c.s.OffsetValue = atoiOrZero(m[1])
		return nil
	})

	return out
}

// Command runs one line of the command language against the session.
func (c *Controller) Command(input string) *Outcome {
	if !c.s.Running {
		return nil
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	for _, r := range rules {
		if m := r.rx.FindStringSubmatch(input); m != nil {
			return r.apply(c, m)
		}
	}
	return failure("unknown command '%s'", input)
}

func (c *Controller) open(path string) *Outcome {
	f, err := c.openFile(path)
	if err != nil {
		return failure("could not open file '%s'", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close of a read-only file.
			_ = cerr
		}
	}()
	if !c.r.Parse(f) {
		return failure("no words in file '%s'", path)
	}
	c.s.File = FileInfo{Path: path, Name: filepath.Clean(path)}
	return nil
}

func openRegular(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func parseToggle(value string) bool {
	switch value {
	case "", "true", "t", "1", "on":
		return true
	}
	return false
}

// parseGlyph validates a display symbol. An empty value resets the slot to
// a blank; a multi-byte value must consist of continuation bytes after the
// first one.
func parseGlyph(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return " ", true
	}
	if len(value) > 4 {
		return "", false
	}
	for i := 1; i < len(value); i++ {
		if value[i]&0x80 == 0 {
			return "", false
		}
	}
	return value, true
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
