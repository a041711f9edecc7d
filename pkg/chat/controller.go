package chat

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/papercomputeco/billetera/pkg/logger"
)

// Asker opens the answer stream for a question. *Client implements it.
type Asker interface {
	Ask(ctx context.Context, question string) (*Stream, error)
}

// Subscriber observes a conversation. Callbacks run on the goroutine that
// called Submit.
type Subscriber interface {
	// Started is called when m joins the conversation.
	Started(m *Message)

	// Updated is called after ev was applied to m.
	Updated(m *Message, ev Event)

	// Finished is called once m is terminal.
	Finished(m *Message)
}

// Controller runs a conversation: it submits questions through an Asker,
// applies stream events to the assistant message, notifies subscribers,
// and keeps the transcript.
type Controller struct {
	asker  Asker
	logger *zap.Logger

	mu          sync.Mutex
	subscribers []Subscriber
	transcript  []*Message
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithSubscriber adds s to the controller's subscribers.
func WithSubscriber(s Subscriber) ControllerOption {
	return func(c *Controller) {
		c.subscribers = append(c.subscribers, s)
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = l
	}
}

// NewController returns a Controller asking through asker.
func NewController(asker Asker, opts ...ControllerOption) *Controller {
	c := &Controller{
		asker:  asker,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe adds s to the controller's subscribers.
func (c *Controller) Subscribe(s Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, s)
}

// Submit asks question and blocks until its answer is finished, the stream
// ends, or ctx is cancelled. It returns the assistant message, which is
// always terminal on return. On cancellation the partial answer is kept and
// ctx.Err() is returned.
func (c *Controller) Submit(ctx context.Context, question string) (*Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	user := NewUserMessage(question)
	assistant := NewAssistantMessage()
	c.add(user)
	c.add(assistant)

	stream, err := c.asker.Ask(ctx, question)
	if err != nil {
		assistant.Apply(ErrorEvent(err.Error()))
		c.finished(assistant)
		return assistant, err
	}
	defer stream.Close()

	// Cancelling ctx must also unblock a read in progress.
	stop := context.AfterFunc(ctx, stream.Cancel)
	defer stop()

	for ev := range stream.All() {
		if !assistant.Apply(ev) {
			continue
		}
		for _, s := range c.subs() {
			s.Updated(assistant, ev)
		}
	}

	if err := stream.Err(); err != nil {
		c.logger.Debug("chat transport failed", zap.Error(err))
	}

	assistant.Finalize()
	c.finished(assistant)

	if stream.Cancelled() && ctx.Err() != nil {
		return assistant, ctx.Err()
	}
	return assistant, nil
}

// Transcript returns the messages of the conversation in order.
func (c *Controller) Transcript() []*Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.transcript)
}

// Clear drops the transcript.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript = nil
}

func (c *Controller) add(m *Message) {
	c.mu.Lock()
	c.transcript = append(c.transcript, m)
	c.mu.Unlock()

	for _, s := range c.subs() {
		s.Started(m)
	}
}

func (c *Controller) finished(m *Message) {
	for _, s := range c.subs() {
		s.Finished(m)
	}
}

func (c *Controller) subs() []Subscriber {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.subscribers)
}
