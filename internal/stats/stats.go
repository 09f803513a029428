// Package stats contains reading-history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/fltrdr/internal/model"
)

const (
	sparkChars   = " .:-=+*#%@"
	maxFileWidth = 40
)

// SessionPace returns the words read per active minute.
func SessionPace(words int, activeMs int64) float64 {
	if activeMs <= 0 {
		return 0
	}
	minutes := float64(activeMs) / 60000.0
	return float64(words) / minutes
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(idx, last))])
	}
	return b.String()
}

// FormatDuration renders a duration as HH:MM:SS.
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// RenderSummary prints totals for the sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var words int
	var activeMs int64
	best := 0.0
	for _, s := range sessions {
		words += s.Words
		activeMs += s.ActiveMs
		best = math.Max(best, SessionPace(s.Words, s.ActiveMs))
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Words: %d", words),
		fmt.Sprintf("Active: %s", FormatDuration(activeMs)),
		fmt.Sprintf("Avg WPM: %.1f", SessionPace(words, activeMs)),
		fmt.Sprintf("Best WPM: %.1f", best),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSessions prints one row per session.
func RenderSessions(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		return nil
	}
	tbl := newTable(
		column{title: "Ended"},
		column{title: "File", max: maxFileWidth},
		column{title: "Words", right: true},
		column{title: "Active", right: true},
		column{title: "WPM", right: true},
		column{title: "Progress", right: true},
	)
	for _, s := range sessions {
		tbl.add(
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.File,
			fmt.Sprintf("%d", s.Words),
			FormatDuration(s.ActiveMs),
			fmt.Sprintf("%d", s.AverageWPM),
			fmt.Sprintf("%d%%", s.Progress),
		)
	}
	return tbl.write(w)
}

// RenderTrend prints a sparkline of the smoothed per-session pace.
func RenderTrend(w io.Writer, sessions []model.SessionAggregate, window int) error {
	if len(sessions) < 2 {
		return nil
	}
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = float64(s.AverageWPM)
	}
	smoothed := MovingAverage(values, window)
	_, err := fmt.Fprintf(w, "WPM trend (window %d): [%s] %.0f -> %.0f\n\n",
		window, Sparkline(smoothed), smoothed[0], smoothed[len(smoothed)-1])
	return err
}

// RenderFiles prints per-document totals.
func RenderFiles(w io.Writer, files []model.FileAggregate) error {
	if len(files) == 0 {
		return nil
	}
	tbl := newTable(
		column{title: "File", max: maxFileWidth},
		column{title: "Sessions", right: true},
		column{title: "Words", right: true},
		column{title: "Active", right: true},
		column{title: "Furthest", right: true},
		column{title: "Last read"},
	)
	for _, f := range files {
		tbl.add(
			f.File,
			fmt.Sprintf("%d", f.Sessions),
			fmt.Sprintf("%d", f.Words),
			FormatDuration(f.ActiveMs),
			fmt.Sprintf("%d%%", f.Progress),
			f.LastRead.Local().Format("2006-01-02"),
		)
	}
	return tbl.write(w)
}
