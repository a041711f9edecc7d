// Package render formats a finished assistant answer. The raw answer is
// loosely markdown: line breaks are significant and runs of numbered or
// bulleted lines are lists.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/papercomputeco/billetera/pkg/cliui"
)

// Mode names a Renderer.
type Mode string

const (
	ModeMarkdown Mode = "markdown"
	ModeHTML     Mode = "html"
	ModePlain    Mode = "plain"
)

// Modes lists the valid render modes.
var Modes = []Mode{ModeMarkdown, ModeHTML, ModePlain}

// Renderer turns answer text into its display form.
type Renderer interface {
	Render(text string) (string, error)
}

// New returns the Renderer for mode. width is the wrap width of terminal
// markdown; it is ignored by the other modes.
func New(mode Mode, width int) (Renderer, error) {
	switch mode {
	case ModeMarkdown, "":
		return Terminal{Width: width}, nil
	case ModeHTML:
		return NewHTML(), nil
	case ModePlain:
		return Plain{}, nil
	default:
		return nil, fmt.Errorf("unknown render mode %q (want markdown, html or plain)", mode)
	}
}

// Plain returns the text unchanged.
type Plain struct{}

func (Plain) Render(text string) (string, error) {
	return text, nil
}

// Terminal renders markdown for a terminal with glamour.
type Terminal struct {
	Width int
}

func (t Terminal) Render(text string) (string, error) {
	return cliui.RenderMarkdown(Normalize(text), t.Width)
}

// HTML renders the answer as an HTML fragment. Single newlines become <br>,
// list runs become <ol>/<ul>, and raw markup in the answer is escaped.
type HTML struct {
	md goldmark.Markdown
}

// NewHTML returns an HTML renderer.
func NewHTML() *HTML {
	return &HTML{
		md: goldmark.New(
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;")

func (h *HTML) Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(htmlEscaper.Replace(Normalize(text))), &buf); err != nil {
		return "", fmt.Errorf("rendering html: %w", err)
	}
	return buf.String(), nil
}

var (
	bulletLine   = regexp.MustCompile(`^(\s*)[•*]\s+`)
	numberedLine = regexp.MustCompile(`^\s*\d+[.)]\s+`)
)

// Normalize rewrites the answer's list conventions into markdown: "•"
// bullets become "-" items, and a blank line is inserted before a list run
// that directly follows a paragraph line so it parses as a list.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	out := make([]string, 0, len(lines))
	prevItem := false
	for i, line := range lines {
		line = bulletLine.ReplaceAllString(line, "$1- ")
		item := isListItem(line)

		if item && !prevItem && i > 0 && strings.TrimSpace(lines[i-1]) != "" {
			out = append(out, "")
		}

		out = append(out, line)
		prevItem = item
	}

	return strings.Join(out, "\n")
}

func isListItem(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || numberedLine.MatchString(line)
}
