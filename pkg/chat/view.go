package chat

import (
	"fmt"
	"io"
	"strings"
)

// Placeholder is shown while an assistant message waits for its first text.
const Placeholder = "▊"

// Renderer formats a finished answer.
type Renderer interface {
	Render(text string) (string, error)
}

// PlainView is a line-oriented Subscriber writing the assistant side of a
// conversation to w.
//
// Without a Renderer, text deltas are written as they arrive. With one, the
// answer is held back and written once, rendered, when it completes.
type PlainView struct {
	w           io.Writer
	prefix      string
	placeholder bool
	renderer    Renderer
	errPrefix   string

	showing bool
	wrote   bool
}

// PlainViewOption configures a PlainView.
type PlainViewOption func(*PlainView)

// WithPrefix writes prefix before each assistant answer.
func WithPrefix(prefix string) PlainViewOption {
	return func(v *PlainView) {
		v.prefix = prefix
	}
}

// WithPlaceholder shows Placeholder until the first text arrives. Only use
// it on terminals; it is erased with a backspace.
func WithPlaceholder() PlainViewOption {
	return func(v *PlainView) {
		v.placeholder = true
	}
}

// WithRenderer renders the finished answer through r.
func WithRenderer(r Renderer) PlainViewOption {
	return func(v *PlainView) {
		v.renderer = r
	}
}

// WithErrorPrefix writes prefix before an error body.
func WithErrorPrefix(prefix string) PlainViewOption {
	return func(v *PlainView) {
		v.errPrefix = prefix
	}
}

// NewPlainView returns a PlainView writing to w.
func NewPlainView(w io.Writer, opts ...PlainViewOption) *PlainView {
	v := &PlainView{w: w}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *PlainView) Started(m *Message) {
	if m.Role != RoleAssistant {
		return
	}
	fmt.Fprint(v.w, v.prefix)
	if v.placeholder {
		fmt.Fprint(v.w, Placeholder)
		v.showing = true
	}
}

func (v *PlainView) Updated(m *Message, ev Event) {
	if m.Role != RoleAssistant || ev.Kind != EventText {
		return
	}
	v.clearPlaceholder()
	if v.renderer == nil {
		fmt.Fprint(v.w, ev.Text)
		v.wrote = true
	}
}

func (v *PlainView) Finished(m *Message) {
	if m.Role != RoleAssistant {
		return
	}
	v.clearPlaceholder()
	defer func() { v.wrote = false }()

	switch {
	case m.Status == StatusError:
		if v.wrote {
			fmt.Fprintln(v.w)
		}
		fmt.Fprintf(v.w, "%s%s\n", v.errPrefix, m.Text)
	case v.renderer != nil:
		out, err := v.renderer.Render(m.Text)
		if err != nil {
			out = m.Text
		}
		fmt.Fprintln(v.w, strings.TrimRight(out, "\n"))
	default:
		fmt.Fprintln(v.w)
	}
}

func (v *PlainView) clearPlaceholder() {
	if !v.showing {
		return
	}
	fmt.Fprint(v.w, "\b \b")
	v.showing = false
}
