package chat

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status is the lifecycle state of a Message.
type Status string

const (
	// StatusPending is an assistant message waiting for its first event.
	StatusPending Status = "pending"

	// StatusStreaming is an assistant message receiving text.
	StatusStreaming Status = "streaming"

	// StatusComplete is a finished message.
	StatusComplete Status = "complete"

	// StatusError is a message ended by an error event; Text holds the error.
	StatusError Status = "error"
)

// Message is one entry of a conversation. Once its status is complete or
// error it no longer changes.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserMessage returns a complete message holding the user's question.
func NewUserMessage(text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      text,
		Status:    StatusComplete,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage returns an empty pending assistant message.
func NewAssistantMessage() *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// Terminal reports whether m is complete or errored.
func (m *Message) Terminal() bool {
	return m.Status == StatusComplete || m.Status == StatusError
}

// Apply folds ev into m. It returns false, leaving m untouched, when m is
// already terminal.
func (m *Message) Apply(ev Event) bool {
	if m.Terminal() {
		return false
	}

	switch ev.Kind {
	case EventText:
		m.Text += ev.Text
		m.Status = StatusStreaming
	case EventDone:
		m.Status = StatusComplete
	case EventError:
		m.Text = ev.Message
		m.Status = StatusError
	default:
		return false
	}
	return true
}

// Finalize marks a non-terminal message complete, keeping its text.
// It returns false if m was already terminal.
func (m *Message) Finalize() bool {
	if m.Terminal() {
		return false
	}
	m.Status = StatusComplete
	return true
}
