package chat

import (
	"errors"
	"fmt"
)

// ConnectionFailureMessage is the body of the error event emitted when the
// chat endpoint cannot be reached or answers with a non-2xx status.
const ConnectionFailureMessage = "Connection error. Check that the assistant backend is running."

// ErrEmptyQuestion is returned by Ask for a blank question.
var ErrEmptyQuestion = errors.New("question must not be empty")

// TransportError is a network failure or a non-2xx response from the chat
// endpoint. StatusCode is zero when no response was received.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		if e.Err != nil {
			return fmt.Sprintf("chat endpoint returned status %d: %v", e.StatusCode, e.Err)
		}
		return fmt.Sprintf("chat endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("chat transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is a data line whose payload is not valid JSON.
// It is skipped; the stream continues.
type DecodeError struct {
	Line string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding stream record: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ProtocolError is a well-formed record carrying none of error, text or done.
// It is skipped; the stream continues.
type ProtocolError struct {
	Line string
}

func (e *ProtocolError) Error() string {
	return "stream record has no error, text or done field"
}
