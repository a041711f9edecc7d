package chat

import (
	"encoding/json"
	"fmt"

	"github.com/papercomputeco/billetera/pkg/sse"
)

// EventKind discriminates the events a Stream produces.
type EventKind int

const (
	// EventText carries a text delta to append to the answer.
	EventText EventKind = iota + 1

	// EventDone marks the successful end of the answer.
	EventDone

	// EventError ends the answer with an error message.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventDone:
		return "done"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a single decoded stream record. Text is set for EventText,
// Message for EventError.
type Event struct {
	Kind    EventKind
	Text    string
	Message string
}

// Terminal reports whether no further events follow e.
func (e Event) Terminal() bool {
	return e.Kind == EventDone || e.Kind == EventError
}

// TextEvent returns an EventText carrying text.
func TextEvent(text string) Event {
	return Event{Kind: EventText, Text: text}
}

// DoneEvent returns an EventDone.
func DoneEvent() Event {
	return Event{Kind: EventDone}
}

// ErrorEvent returns an EventError carrying msg.
func ErrorEvent(msg string) Event {
	return Event{Kind: EventError, Message: msg}
}

// record is the JSON payload of one "data: " line.
type record struct {
	Error string `json:"error"`
	Text  string `json:"text"`
	Done  bool   `json:"done"`
}

// decodeLine turns one complete line into zero or more events.
// Lines that are not data records decode to nothing.
func decodeLine(line string) ([]Event, error) {
	payload, ok := sse.Data(line)
	if !ok {
		return nil, nil
	}

	var rec record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, &DecodeError{Line: line, Err: err}
	}

	switch {
	case rec.Error != "":
		return []Event{ErrorEvent(rec.Error)}, nil
	case rec.Text != "":
		if rec.Done {
			return []Event{TextEvent(rec.Text), DoneEvent()}, nil
		}
		return []Event{TextEvent(rec.Text)}, nil
	case rec.Done:
		return []Event{DoneEvent()}, nil
	default:
		return nil, &ProtocolError{Line: line}
	}
}
