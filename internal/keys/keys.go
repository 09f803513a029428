// Package keys decodes raw terminal input into logical key codes.
package keys

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

// Key is a decoded key code. Values below 256 are the raw byte that was read;
// the named keys below sit outside the byte range.
type Key int

// None means no input was available.
const None Key = 0

// Esc is the escape byte, also returned for unrecognized escape sequences.
const Esc Key = 27

// Named keys produced from escape sequences.
const (
	Up Key = iota + 1000
	Down
	Left
	Right
	Delete
)

// Ctrl returns the control code for c (Ctrl-C is Ctrl('c')).
func Ctrl(c byte) Key {
	return Key(c & 0x1f)
}

// String returns a single-column label for the key buffer indicator.
func (k Key) String() string {
	switch k {
	case None:
		return " "
	case Up:
		return "↑"
	case Down:
		return "↓"
	case Left:
		return "←"
	case Right:
		return "→"
	case Delete:
		return "⌦"
	}
	if k < 32 || k == 127 {
		return "^"
	}
	return string(rune(k))
}

// Decoder reads one logical key per call from a short-read source. The source
// is expected to return 0 bytes (or io.EOF / EAGAIN) when nothing is pending.
type Decoder struct {
	src io.Reader
	buf [1]byte
}

// NewDecoder returns a Decoder reading from src.
func NewDecoder(src io.Reader) *Decoder {
	return &Decoder{src: src}
}

// readByte returns ok=false when no byte is available.
func (d *Decoder) readByte() (byte, bool, error) {
	n, err := d.src.Read(d.buf[:])
	if n >= 1 {
		return d.buf[0], true, nil
	}
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR) {
		return 0, false, nil
	}
	return 0, false, fmt.Errorf("failed to read input: %w", err)
}

// Next decodes the next key, returning None when no input is available.
// Malformed or partial escape sequences fall back to Esc and never block.
func (d *Decoder) Next() (Key, error) {
	b, ok, err := d.readByte()
	if err != nil || !ok {
		return None, err
	}
	if Key(b) != Esc {
		return Key(b), nil
	}

	first, ok, err := d.readByte()
	if err != nil {
		return None, err
	}
	if !ok {
		return Esc, nil
	}
	second, ok, err := d.readByte()
	if err != nil {
		return None, err
	}
	if !ok || first != '[' {
		return Esc, nil
	}

	if second >= '0' && second <= '9' {
		third, ok, err := d.readByte()
		if err != nil {
			return None, err
		}
		if ok && third == '~' && second == '3' {
			return Delete, nil
		}
		return Esc, nil
	}

	switch second {
	case 'A':
		return Up, nil
	case 'B':
		return Down, nil
	case 'C':
		return Right, nil
	case 'D':
		return Left, nil
	default:
		return Esc, nil
	}
}
