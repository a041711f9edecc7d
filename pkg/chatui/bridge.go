package chatui

import (
	bubbletea "github.com/charmbracelet/bubbletea"

	"github.com/papercomputeco/billetera/pkg/chat"
)

// messageMsg carries a snapshot of a conversation message after a change.
type messageMsg struct {
	message  chat.Message
	event    *chat.Event
	finished bool
}

// answerDoneMsg is sent once Submit returned.
type answerDoneMsg struct {
	err error
}

// bridge is the chat.Subscriber that forwards controller callbacks into the
// bubbletea event loop. Callbacks run on the submit goroutine; sends give up
// once the program quits.
type bridge struct {
	events chan bubbletea.Msg
	quit   chan struct{}
}

func newBridge() *bridge {
	return &bridge{
		events: make(chan bubbletea.Msg, 64),
		quit:   make(chan struct{}),
	}
}

func (b *bridge) send(msg bubbletea.Msg) {
	select {
	case b.events <- msg:
	case <-b.quit:
	}
}

func (b *bridge) Started(m *chat.Message) {
	b.send(messageMsg{message: *m})
}

func (b *bridge) Updated(m *chat.Message, ev chat.Event) {
	b.send(messageMsg{message: *m, event: &ev})
}

func (b *bridge) Finished(m *chat.Message) {
	b.send(messageMsg{message: *m, finished: true})
}

// wait returns a command delivering the next forwarded message.
func (b *bridge) wait() bubbletea.Cmd {
	return func() bubbletea.Msg {
		select {
		case msg := <-b.events:
			return msg
		case <-b.quit:
			return nil
		}
	}
}

func (b *bridge) close() {
	select {
	case <-b.quit:
	default:
		close(b.quit)
	}
}
