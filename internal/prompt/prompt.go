// Package prompt supplies interactive input for settings that no other
// configuration source provided. The terminal provider is only handed out
// when stdin is a real terminal, so scheduled runs fail fast instead of
// hanging on a prompt nobody will answer.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Provider asks the user for a value and returns what was typed.
type Provider interface {
	Prompt(label string) (string, error)
}

// Terminal reads prompt responses line by line.
type Terminal struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewTerminal builds a provider over the given streams.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{reader: bufio.NewReader(in), writer: out}
}

// Prompt prints the label and returns the trimmed response line.
func (t *Terminal) Prompt(label string) (string, error) {
	fmt.Fprintf(t.writer, "\n%s: ", label)
	line, err := t.reader.ReadString('\n')
	if err != nil && (line == "" || err != io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Interactive reports whether stdin is attached to a terminal.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ForStdin returns a terminal provider when running interactively, nil
// otherwise. Callers treat nil as "prompting unavailable".
func ForStdin() Provider {
	if !Interactive() {
		return nil
	}
	return NewTerminal(os.Stdin, os.Stdout)
}
