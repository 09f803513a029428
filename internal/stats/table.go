package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// column describes one table column. Cells wider than max are cut with an
// ellipsis; a zero max leaves them whole.
type column struct {
	title string
	right bool
	max   int
}

// table lays rows out in display-width aligned columns.
type table struct {
	cols []column
	rows [][]string
}

func newTable(cols ...column) *table {
	return &table{cols: cols}
}

func (t *table) add(cells ...string) {
	row := make([]string, len(t.cols))
	for i := range row {
		if i < len(cells) {
			row[i] = t.fit(i, cells[i])
		}
	}
	t.rows = append(t.rows, row)
}

func (t *table) fit(col int, cell string) string {
	limit := t.cols[col].max
	if limit <= 0 || runewidth.StringWidth(cell) <= limit {
		return cell
	}
	return runewidth.Truncate(cell, limit, ellipsis)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.cols))
	for i, col := range t.cols {
		widths[i] = runewidth.StringWidth(col.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

// lines returns the header followed by one line per row. Trailing padding
// of the last column is kept so every line has the same width.
func (t *table) lines() []string {
	if len(t.cols) == 0 {
		return nil
	}
	widths := t.widths()
	titles := make([]string, len(t.cols))
	for i, col := range t.cols {
		titles[i] = col.title
	}

	out := make([]string, 0, len(t.rows)+1)
	out = append(out, t.join(titles, widths))
	for _, row := range t.rows {
		out = append(out, t.join(row, widths))
	}
	return out
}

func (t *table) join(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if t.cols[i].right {
			parts[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.Join(parts, " ")
}

// write prints the table followed by a blank line.
func (t *table) write(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}
