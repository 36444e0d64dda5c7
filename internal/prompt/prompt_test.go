package prompt_test

import (
	"bytes"
	"strings"
	"testing"

	"extrasync/internal/prompt"
)

func TestTerminalPromptReadsTrimmedLine(t *testing.T) {
	var out bytes.Buffer
	term := prompt.NewTerminal(strings.NewReader("  answer  \n"), &out)

	got, err := term.Prompt("Enter your Plex token")
	if err != nil {
		t.Fatalf("Prompt returned error: %v", err)
	}
	if got != "answer" {
		t.Fatalf("expected trimmed answer, got %q", got)
	}
	if !strings.Contains(out.String(), "Enter your Plex token:") {
		t.Fatalf("expected label in output, got %q", out.String())
	}
}

func TestTerminalPromptAcceptsFinalLineWithoutNewline(t *testing.T) {
	term := prompt.NewTerminal(strings.NewReader("value"), &bytes.Buffer{})
	got, err := term.Prompt("label")
	if err != nil {
		t.Fatalf("Prompt returned error: %v", err)
	}
	if got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}
