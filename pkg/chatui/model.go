// Package chatui is the full-screen terminal view of the wallet assistant.
// It subscribes to a chat.Controller and redraws the conversation as
// answer deltas stream in.
package chatui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/billetera/pkg/chat"
	"github.com/papercomputeco/billetera/pkg/cliui"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

const (
	headerHeight = 2
	inputHeight  = 2
	footerHeight = 1
)

type keyMap struct {
	Send   key.Binding
	Cancel key.Binding
	Clear  key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Cancel, k.Clear, k.Up, k.Down, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Send, k.Cancel, k.Clear}, {k.Up, k.Down, k.Quit}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop")),
		Clear:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Up:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		Down:   key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	}
}

// entry is one rendered line of the conversation.
type entry struct {
	message  chat.Message
	rendered string
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	ctx      context.Context
	ctrl     *chat.Controller
	bridge   *bridge
	renderer chat.Renderer
	user     string

	entries []entry
	busy    bool
	cancel  context.CancelFunc
	status  string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithRenderer sets the final render pass applied to finished answers.
func WithRenderer(r chat.Renderer) Option {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithUser shows name in the header.
func WithUser(name string) Option {
	return func(m *Model) {
		m.user = name
	}
}

// New returns a Model driving ctrl. It subscribes to ctrl.
func New(ctrl *chat.Controller, opts ...Option) Model {
	in := textinput.New()
	in.Placeholder = "Ask about your balance, cards or transfers..."
	in.Prompt = userStyle.Render("you> ")
	in.CharLimit = 2000
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = assistantStyle

	m := Model{
		ctx:      context.Background(),
		ctrl:     ctrl,
		bridge:   newBridge(),
		input:    in,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		help:     help.New(),
		keys:     defaultKeyMap(),
		width:    80,
	}
	for _, opt := range opts {
		opt(&m)
	}

	ctrl.Subscribe(m.bridge)
	return m
}

// Run starts the full-screen chat until the user quits or ctx ends.
func Run(ctx context.Context, ctrl *chat.Controller, opts ...Option) error {
	model := New(ctrl, opts...)
	model.ctx = ctx
	defer model.bridge.close()

	program := bubbletea.NewProgram(model,
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

func (m Model) Init() bubbletea.Cmd {
	return bubbletea.Batch(textinput.Blink, m.bridge.wait())
}

func (m Model) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case messageMsg:
		m.upsert(msg)
		return m, m.bridge.wait()

	case answerDoneMsg:
		m.busy = false
		m.cancel = nil
		switch {
		case msg.err == nil:
			m.status = ""
		case errors.Is(msg.err, context.Canceled):
			m.status = "stopped"
		default:
			m.status = msg.err.Error()
		}
		m.refresh()
		return m, m.bridge.wait()

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd bubbletea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd bubbletea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		m.bridge.close()
		return m, bubbletea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.cancel != nil {
			m.cancel()
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if m.busy {
			return m, nil
		}
		m.ctrl.Clear()
		m.entries = nil
		m.status = ""
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd bubbletea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Send):
		question := strings.TrimSpace(m.input.Value())
		if question == "" || m.busy {
			return m, nil
		}
		m.input.Reset()
		m.busy = true
		m.status = ""

		ctx, cancel := context.WithCancel(m.ctx)
		m.cancel = cancel
		return m, bubbletea.Batch(m.submit(ctx, cancel, question), m.spinner.Tick)
	}

	var cmd bubbletea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the question on a command goroutine. Progress reaches Update
// through the bridge, in order, followed by answerDoneMsg.
func (m Model) submit(ctx context.Context, cancel context.CancelFunc, question string) bubbletea.Cmd {
	ctrl, b := m.ctrl, m.bridge
	return func() bubbletea.Msg {
		defer cancel()
		_, err := ctrl.Submit(ctx, question)
		b.send(answerDoneMsg{err: err})
		return nil
	}
}

func (m *Model) upsert(msg messageMsg) {
	e := entry{message: msg.message}
	if msg.finished && msg.message.Status == chat.StatusComplete && m.renderer != nil {
		if out, err := m.renderer.Render(msg.message.Text); err == nil {
			e.rendered = strings.TrimRight(out, "\n")
		}
	}

	replaced := false
	for i := range m.entries {
		if m.entries[i].message.ID == e.message.ID {
			m.entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		m.entries = append(m.entries, e)
	}

	m.refresh()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-headerHeight-inputHeight-footerHeight, 1)
	m.input.Width = max(width-8, 10)
	m.help.Width = width
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.conversation())
	m.viewport.GotoBottom()
}

func (m Model) conversation() string {
	wrap := lipgloss.NewStyle().Width(max(m.width-2, 10))

	var b strings.Builder
	for _, e := range m.entries {
		switch e.message.Role {
		case chat.RoleUser:
			b.WriteString(userStyle.Render("you> "))
			b.WriteString(wrap.Render(e.message.Text))
		case chat.RoleAssistant:
			b.WriteString(assistantStyle.Render("assistant> "))
			switch {
			case e.message.Status == chat.StatusPending:
				b.WriteString(m.spinner.View())
			case e.message.Status == chat.StatusError:
				b.WriteString(errorStyle.Render(cliui.FailMark + " " + e.message.Text))
			case e.rendered != "":
				b.WriteString("\n" + e.rendered)
			default:
				b.WriteString(wrap.Render(e.message.Text))
				if e.message.Status == chat.StatusStreaming {
					b.WriteString(chat.Placeholder)
				}
			}
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m Model) View() string {
	title := titleStyle.Render("billetera assistant")
	if m.user != "" {
		title += statusStyle.Render(" · " + m.user)
	}

	status := ""
	switch {
	case m.busy:
		status = statusStyle.Render("answering...")
	case m.status != "":
		status = statusStyle.Render(m.status)
	}

	return fmt.Sprintf("%s %s\n\n%s\n%s\n%s",
		title,
		status,
		m.viewport.View(),
		m.input.View(),
		m.help.View(m.keys),
	)
}

// Entries returns the displayed conversation messages, oldest first.
func (m Model) Entries() []chat.Message {
	out := make([]chat.Message, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.message)
	}
	return out
}
