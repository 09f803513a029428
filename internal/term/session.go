package term

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

// ErrNotTerminal is returned when no terminal is available for key input.
var ErrNotTerminal = errors.New("input is not a terminal")

// Session holds the terminal in raw mode on the alternate screen. Close must
// be called on every exit path; it is safe to call more than once.
type Session struct {
	in   *os.File
	out  *os.File
	orig *unix.Termios

	once  sync.Once
	sigCh chan os.Signal
	done  chan struct{}
}

// OpenInput returns the file keys should be read from. When stdin carries
// the document text, the controlling terminal is opened instead.
func OpenInput(stdinConsumed bool) (*os.File, error) {
	if !stdinConsumed && xterm.IsTerminal(int(os.Stdin.Fd())) {
		return os.Stdin, nil
	}
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotTerminal, err)
	}
	return tty, nil
}

// Start switches to the alternate screen and puts in into raw mode with a
// zero-byte minimum read, so reads return immediately when no key is pending.
func Start(in, out *os.File) (*Session, error) {
	fd := int(in.Fd())
	if !xterm.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	orig, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, fmt.Errorf("failed to get termios: %w", err)
	}

	raw := *orig
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Oflag &^= unix.OPOST
	raw.Cflag |= unix.CS8
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN | unix.ISIG
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return nil, fmt.Errorf("failed to set raw mode: %w", err)
	}

	s := &Session{
		in:    in,
		out:   out,
		orig:  orig,
		sigCh: make(chan os.Signal, 1),
		done:  make(chan struct{}),
	}
	if _, err := io.WriteString(out, CursorHide+ScreenPush+CursorHide+ScreenClear+CursorHome); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to write to terminal: %w", err)
	}

	// Restore the terminal if the process is told to go away.
	signal.Notify(s.sigCh, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		select {
		case <-s.sigCh:
			s.Close()
			os.Exit(1)
		case <-s.done:
		}
	}()

	return s, nil
}

// Read reads pending input bytes without blocking.
func (s *Session) Read(p []byte) (int, error) {
	return s.in.Read(p)
}

// Write writes to the terminal output.
func (s *Session) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

// Size returns the current terminal width and height.
func (s *Session) Size() (int, int, error) {
	return Size(s.out)
}

// Cooked temporarily restores the original terminal mode and returns a
// function that re-enters raw mode. Used while the line editor owns input.
func (s *Session) Cooked() func() {
	fd := int(s.in.Fd())
	raw, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return func() {}
	}
	_ = unix.IoctlSetTermios(fd, ioctlWriteTermios, s.orig)
	return func() {
		_ = unix.IoctlSetTermios(fd, ioctlWriteTermios, raw)
	}
}

// Close leaves the alternate screen and restores the original mode.
func (s *Session) Close() {
	s.once.Do(func() {
		signal.Stop(s.sigCh)
		close(s.done)
		_, _ = io.WriteString(s.out, NL+ScreenPop+CursorShow)
		_ = unix.IoctlSetTermios(int(s.in.Fd()), ioctlWriteTermios, s.orig)
	})
}

// Size reports the dimensions of the terminal attached to f.
func Size(f *os.File) (int, int, error) {
	w, h, err := xterm.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get terminal size: %w", err)
	}
	return w, h, nil
}

// PressToContinue prints a prompt and waits for one key in raw mode. A want
// of 0 accepts any key; otherwise the key must equal want.
func PressToContinue(in *os.File, out io.Writer, label string, want byte) (bool, error) {
	if _, err := fmt.Fprintf(out, "Press %s to continue", label); err != nil {
		return false, err
	}
	fd := int(in.Fd())
	state, err := xterm.MakeRaw(fd)
	if err != nil {
		return false, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	buf := make([]byte, 1)
	n, rerr := in.Read(buf)
	if err := xterm.Restore(fd, state); err != nil {
		return false, fmt.Errorf("failed to restore terminal: %w", err)
	}
	if _, err := io.WriteString(out, "\n"); err != nil {
		return false, err
	}
	if rerr != nil || n == 0 {
		return false, rerr
	}
	return want == 0 || buf[0] == want || (want == '\n' && buf[0] == '\r'), nil
}
