package chat

import (
	"context"
	"errors"
	"io"
	"iter"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/papercomputeco/billetera/pkg/sse"
)

// Stream is the lazy, finite, non-restartable sequence of events for one
// question. Next and All must be called from one goroutine; Cancel and
// Close may be called from any.
type Stream struct {
	ctx    context.Context
	body   io.ReadCloser
	lines  *sse.Reader
	cancel context.CancelFunc
	logger *zap.Logger

	queue []Event
	err   error

	finished  atomic.Bool
	cancelled atomic.Bool
	closeOnce sync.Once
}

func newStream(ctx context.Context, body io.ReadCloser, rec io.Writer, cancel context.CancelFunc, logger *zap.Logger) *Stream {
	return &Stream{
		ctx:    ctx,
		body:   body,
		lines:  sse.NewTeeReader(body, rec),
		cancel: cancel,
		logger: logger,
	}
}

// failedStream is a stream holding only the connection-failure event.
func failedStream(err error, cancel context.CancelFunc) *Stream {
	return &Stream{
		cancel: cancel,
		queue:  []Event{ErrorEvent(ConnectionFailureMessage)},
		err:    err,
	}
}

// Next returns the next event. It returns false once the stream ended, was
// cancelled, or delivered its terminal event.
func (s *Stream) Next() (Event, bool) {
	for {
		if s.finished.Load() {
			return Event{}, false
		}
		if s.ctx != nil && errors.Is(s.ctx.Err(), context.Canceled) {
			s.cancelled.Store(true)
		}
		if s.cancelled.Load() {
			s.finish()
			return Event{}, false
		}

		if len(s.queue) > 0 {
			ev := s.queue[0]
			s.queue = s.queue[1:]
			if ev.Terminal() {
				s.finish()
			}
			return ev, true
		}

		if s.lines == nil {
			s.finish()
			return Event{}, false
		}

		line, err := s.lines.NextLine()
		if err != nil {
			s.readFailed(err)
			continue
		}

		events, err := decodeLine(line)
		if err != nil {
			s.logger.Debug("skipping stream record", zap.Error(err), zap.String("line", line))
			continue
		}
		s.queue = append(s.queue, events...)
	}
}

func (s *Stream) readFailed(err error) {
	switch {
	case s.cancelled.Load():
	case errors.Is(err, io.EOF):
		if partial := s.lines.Partial(); partial != "" {
			s.logger.Debug("discarding incomplete trailing line", zap.String("line", partial))
		}
		s.logger.Debug("chat stream ended without done")
	case errors.Is(err, context.Canceled), s.ctx != nil && errors.Is(s.ctx.Err(), context.Canceled):
		s.cancelled.Store(true)
	default:
		s.err = &TransportError{Err: err}
		s.logger.Debug("chat stream read failed", zap.Error(err))
		s.queue = append(s.queue, ErrorEvent(ConnectionFailureMessage))
	}
	s.lines = nil
}

// All ranges over the remaining events. Breaking out of the loop closes the
// stream.
func (s *Stream) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for {
			ev, ok := s.Next()
			if !ok {
				return
			}
			if !yield(ev) {
				s.Close()
				return
			}
		}
	}
}

// Cancel aborts the in-flight read. No event is delivered after Cancel.
// Cancelling a stream that already ended only releases it.
func (s *Stream) Cancel() {
	if !s.finished.Load() {
		s.cancelled.Store(true)
	}
	s.Close()
}

// Cancelled reports whether Cancel was called or the request context ended
// before the stream finished.
func (s *Stream) Cancelled() bool {
	return s.cancelled.Load()
}

// Close releases the response body. It is idempotent.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		if s.body != nil {
			err = s.body.Close()
		}
	})
	return err
}

// Err returns the transport failure behind a connection-failure event,
// if any.
func (s *Stream) Err() error {
	return s.err
}

func (s *Stream) finish() {
	s.finished.Store(true)
	s.queue = nil
	s.Close()
}
