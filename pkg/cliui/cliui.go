// Package cliui provides reusable terminal UI helpers (styles, spinners,
// step indicators, amounts and markdown rendering) for billetera commands.
package cliui

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	SuccessMark = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")

	StepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	NameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	HeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true).Underline(true)
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	HashStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))

	AmountStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	DebitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// spinnerFrames matches bubbletea's spinner.Dot pattern used in the chat TUI.
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Step prints an animated spinner while fn runs, then replaces it with
// a ✓ or ✗ checkmark and elapsed time.
func Step(w io.Writer, msg string, fn func() error) error {
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			fmt.Fprintf(w, "\r  %s %s",
				spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]),
				msg,
			)

			select {
			case <-done:
				return
			case <-ticker.C:
				frame++
			}
		}
	}()

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	close(done)
	<-stopped

	fmt.Fprintf(w, "\r  %s %s %s\n",
		Mark(err),
		msg,
		StepStyle.Render(fmt.Sprintf("(%s)", FormatDuration(elapsed))),
	)

	return err
}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatAmount formats a wallet amount with two decimals and thousands
// separators, e.g. "$1,234.50" or "-$20.00".
func FormatAmount(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	cents := int64(math.Round(v * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents%100)
}

// SignedAmount renders v with a leading +/- in the credit or debit style.
func SignedAmount(v float64, credit bool) string {
	if credit {
		return AmountStyle.Render("+" + FormatAmount(v))
	}
	return DebitStyle.Render("-" + FormatAmount(v))
}

// RenderMarkdown renders markdown content for terminal display using glamour.
// A non-positive width uses 80 columns.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}

	return rendered, nil
}
