package term

import "testing"

func TestCursorSet(t *testing.T) {
	if got := CursorSet(3, 7); got != "\x1b[7;3H" {
		t.Fatalf("unexpected sequence %q", got)
	}
}

func TestVisibleWidthIgnoresEscapes(t *testing.T) {
	s := "\x1b[31mab\x1b[0m" + CursorSet(1, 1) + "c"
	if got := VisibleWidth(s); got != 3 {
		t.Fatalf("expected width 3, got %d", got)
	}
	if got := Strip("\x1b[1mhi\x1b[0m"); got != "hi" {
		t.Fatalf("expected stripped text, got %q", got)
	}
}
