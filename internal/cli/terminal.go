package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/OilerRig/WebApp/internal/port"
)

var ErrInputClosed = errors.New("input closed")

var (
	_ port.Notifier  = (*Terminal)(nil)
	_ port.Confirmer = (*Terminal)(nil)
)

// Terminal prints notifications and asks for confirmations on a line based
// terminal. Shell commands and confirmation answers must share its reader.
type Terminal struct {
	mu        sync.Mutex
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func NewTerminal(in io.Reader, out io.Writer, assumeYes bool) *Terminal {
	return &Terminal{
		in:        bufio.NewReader(in),
		out:       out,
		assumeYes: assumeYes,
	}
}

func (t *Terminal) Success(_ context.Context, title, text string) {
	t.print("OK", title, text)
}

func (t *Terminal) Error(_ context.Context, title, text string) {
	t.print("ERROR", title, text)
}

func (t *Terminal) print(tag, title, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if text == "" {
		fmt.Fprintf(t.out, "[%s] %s\n", tag, title)
		return
	}
	fmt.Fprintf(t.out, "[%s] %s: %s\n", tag, title, text)
}

// Confirm accepts "y" and "yes" in any case. Anything else, including end
// of input, declines.
func (t *Terminal) Confirm(_ context.Context, title, text string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.assumeYes {
		return true, nil
	}

	fmt.Fprintf(t.out, "%s %s [y/N]: ", title, text)

	line, err := t.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("t.in.ReadString: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// ReadLine returns the next input line without its line ending.
func (t *Terminal) ReadLine() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	line, err := t.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			return "", ErrInputClosed
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	if err != nil {
		return "", fmt.Errorf("t.in.ReadString: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) Prompt(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprint(t.out, s)
}
