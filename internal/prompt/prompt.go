// Package prompt renders the interactive prompt. Both the line actor
// and the signal dispatcher draw through the same Prompt so the text
// and styling stay consistent.
package prompt

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"gosh/internal/config"
)

// Prompt writes the shell prompt to a fixed output stream.
type Prompt struct {
	out      io.Writer
	rendered string
}

// New builds a Prompt from configuration. An empty color leaves the
// text unstyled; out defaults to stdout.
func New(cfg config.PromptConfig, out io.Writer) *Prompt {
	if out == nil {
		out = os.Stdout
	}
	text := cfg.Text
	if text == "" {
		text = "$ "
	}
	rendered := text
	if cfg.Color != "" {
		rendered = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Color)).Render(text)
	}
	return &Prompt{out: out, rendered: rendered}
}

// Draw prints the prompt at the current cursor position.
func (p *Prompt) Draw() error {
	_, err := io.WriteString(p.out, p.rendered)
	return err
}

// Redraw starts a fresh line first; used after a signal or a job
// status line interrupted whatever was on the current one.
func (p *Prompt) Redraw() error {
	_, err := fmt.Fprintf(p.out, "\n%s", p.rendered)
	return err
}
