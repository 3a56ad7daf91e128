package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StdinConfirmer asks yes/no questions on a terminal. Only "y" or "Y"
// answers yes; anything else, including EOF, declines.
type StdinConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewStdinConfirmer reads answers from in and writes prompts to out.
// Nil arguments select os.Stdin and os.Stdout.
func NewStdinConfirmer(in io.Reader, out io.Writer) *StdinConfirmer {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &StdinConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm prints prompt and reads one line.
func (c *StdinConfirmer) Confirm(prompt string) bool {
	mark := lipgloss.NewStyle().Foreground(ColorWarning).Bold(true).Render("?")
	fmt.Fprintf(c.out, "  %s %s [y/N]: ", mark, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.out)
		return false
	}
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

// AutoConfirmer answers yes to everything; used with --yes.
type AutoConfirmer struct{}

func (AutoConfirmer) Confirm(string) bool { return true }
