package chat_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/papercomputeco/billetera/pkg/chat"
)

// captured is the last request seen by a fake chat endpoint.
type captured struct {
	mu       sync.Mutex
	method   string
	path     string
	auth     string
	accept   string
	question string
}

func (c *captured) snapshot() captured {
	c.mu.Lock()
	defer c.mu.Unlock()
	return captured{method: c.method, path: c.path, auth: c.auth, accept: c.accept, question: c.question}
}

// streamServer answers every request with status and then writes each chunk
// followed by a flush, so the client sees them as separate reads.
func streamServer(status int, chunks []string, rec *captured) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			var body struct {
				Pregunta string `json:"pregunta"`
			}
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &body)

			rec.mu.Lock()
			rec.method = r.Method
			rec.path = r.URL.Path
			rec.auth = r.Header.Get("Authorization")
			rec.accept = r.Header.Get("Accept")
			rec.question = body.Pregunta
			rec.mu.Unlock()
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(status)
		flusher, _ := w.(http.Flusher)
		for _, chunk := range chunks {
			_, _ = io.WriteString(w, chunk)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
}

// hangingServer writes chunks, then holds the response open until the client
// goes away. started is closed once the chunks are flushed.
func hangingServer(chunks []string, started chan<- struct{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, chunk := range chunks {
			_, _ = io.WriteString(w, chunk)
		}
		w.(http.Flusher).Flush()
		close(started)
		<-r.Context().Done()
	}))
}

func collect(s *chat.Stream) []chat.Event {
	var events []chat.Event
	for ev := range s.All() {
		events = append(events, ev)
	}
	return events
}

func kinds(events []chat.Event) []chat.EventKind {
	out := make([]chat.EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func joinedText(events []chat.Event) string {
	var text string
	for _, ev := range events {
		if ev.Kind == chat.EventText {
			text += ev.Text
		}
	}
	return text
}

// recordingSubscriber logs every callback.
type recordingSubscriber struct {
	started  []chat.Role
	updates  []chat.Event
	finished []chat.Message
}

func (r *recordingSubscriber) Started(m *chat.Message) {
	r.started = append(r.started, m.Role)
}

func (r *recordingSubscriber) Updated(_ *chat.Message, ev chat.Event) {
	r.updates = append(r.updates, ev)
}

func (r *recordingSubscriber) Finished(m *chat.Message) {
	r.finished = append(r.finished, *m)
}
