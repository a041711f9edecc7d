package chat_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/billetera/pkg/chat"
	"github.com/papercomputeco/billetera/pkg/session"
)

var _ = Describe("Client", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("NewClient", func() {
		It("joins the base URL and chat path", func() {
			c := chat.NewClient("http://localhost:5000/", "api/ai-chat")
			Expect(c.Endpoint()).To(Equal("http://localhost:5000/api/ai-chat"))
		})

		It("defaults the chat path", func() {
			c := chat.NewClient("http://localhost:5000", "")
			Expect(c.Endpoint()).To(Equal("http://localhost:5000" + chat.DefaultPath))
		})
	})

	Describe("Ask", func() {
		It("posts the question with the bearer token", func() {
			rec := &captured{}
			srv := streamServer(http.StatusOK, []string{"data: {\"done\":true}\n\n"}, rec)
			defer srv.Close()

			c := chat.NewClient(srv.URL, "/api/ai-chat", chat.WithToken(chat.StaticToken("tok-123")))
			s, err := c.Ask(ctx, "  ¿Cuál es mi saldo?  ")
			Expect(err).NotTo(HaveOccurred())
			collect(s)

			got := rec.snapshot()
			Expect(got.method).To(Equal(http.MethodPost))
			Expect(got.path).To(Equal("/api/ai-chat"))
			Expect(got.auth).To(Equal("Bearer tok-123"))
			Expect(got.accept).To(Equal("text/event-stream"))
			Expect(got.question).To(Equal("¿Cuál es mi saldo?"))
		})

		It("accepts a session as token source", func() {
			rec := &captured{}
			srv := streamServer(http.StatusOK, []string{"data: {\"done\":true}\n"}, rec)
			defer srv.Close()

			sess := &session.Session{Token: "from-session"}
			c := chat.NewClient(srv.URL, "", chat.WithToken(sess))
			s, err := c.Ask(ctx, "hola")
			Expect(err).NotTo(HaveOccurred())
			collect(s)

			Expect(rec.snapshot().auth).To(Equal("Bearer from-session"))
		})

		It("rejects a blank question without contacting the server", func() {
			c := chat.NewClient("http://127.0.0.1:1", "")
			s, err := c.Ask(ctx, " \n\t")
			Expect(err).To(MatchError(chat.ErrEmptyQuestion))
			Expect(s).To(BeNil())
		})

		It("reassembles text deltas and ends on done", func() {
			srv := streamServer(http.StatusOK, []string{
				"data: {\"text\":\"Hel\"}\n\n",
				"data: {\"text\":\"lo\"}\n\n",
				"data: {\"done\":true}\n\n",
			}, nil)
			defer srv.Close()

			s, err := chat.NewClient(srv.URL, "").Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())

			events := collect(s)
			Expect(joinedText(events)).To(Equal("Hello"))
			Expect(kinds(events)).To(Equal([]chat.EventKind{chat.EventText, chat.EventText, chat.EventDone}))
		})

		It("yields two events when a chunk ends exactly between records", func() {
			srv := streamServer(http.StatusOK, []string{
				"data: {\"text\":\"a\"}\n",
				"data: {\"text\":\"b\"}\n",
			}, nil)
			defer srv.Close()

			s, err := chat.NewClient(srv.URL, "").Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())

			events := collect(s)
			Expect(events).To(Equal([]chat.Event{chat.TextEvent("a"), chat.TextEvent("b")}))
		})

		It("skips a malformed line between good ones", func() {
			srv := streamServer(http.StatusOK, []string{
				"data: {\"text\":\"uno \"}\n",
				"data: {not json\n",
				"data: {\"text\":\"dos\"}\n",
				"data: {\"done\":true}\n",
			}, nil)
			defer srv.Close()

			s, err := chat.NewClient(srv.URL, "").Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())

			events := collect(s)
			Expect(joinedText(events)).To(Equal("uno dos"))
			Expect(events[len(events)-1].Kind).To(Equal(chat.EventDone))
		})

		It("skips records with no known field", func() {
			srv := streamServer(http.StatusOK, []string{
				"data: {\"foo\":1}\n",
				": keepalive\n",
				"data: {\"text\":\"x\",\"done\":true}\n",
			}, nil)
			defer srv.Close()

			s, err := chat.NewClient(srv.URL, "").Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())

			Expect(collect(s)).To(Equal([]chat.Event{chat.TextEvent("x"), chat.DoneEvent()}))
		})

		It("stops after an error record", func() {
			srv := streamServer(http.StatusOK, []string{
				"data: {\"text\":\"parcial\"}\n",
				"data: {\"error\":\"modelo no disponible\",\"text\":\"ignored\"}\n",
				"data: {\"text\":\"after\"}\n",
				"data: {\"done\":true}\n",
			}, nil)
			defer srv.Close()

			s, err := chat.NewClient(srv.URL, "").Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())

			events := collect(s)
			Expect(events).To(Equal([]chat.Event{
				chat.TextEvent("parcial"),
				chat.ErrorEvent("modelo no disponible"),
			}))

			_, ok := s.Next()
			Expect(ok).To(BeFalse())
		})

		It("ends quietly when the body closes without done", func() {
			srv := streamServer(http.StatusOK, []string{
				"data: {\"text\":\"sin fin\"}\n",
				"data: {\"text\":\"trunc",
			}, nil)
			defer srv.Close()

			s, err := chat.NewClient(srv.URL, "").Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())

			Expect(collect(s)).To(Equal([]chat.Event{chat.TextEvent("sin fin")}))
			Expect(s.Err()).NotTo(HaveOccurred())
		})

		It("turns a non-2xx response into a single error event without parsing", func() {
			srv := streamServer(http.StatusInternalServerError, []string{
				"data: {\"text\":\"should not be parsed\"}\n",
			}, nil)
			defer srv.Close()

			s, err := chat.NewClient(srv.URL, "").Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())

			Expect(collect(s)).To(Equal([]chat.Event{chat.ErrorEvent(chat.ConnectionFailureMessage)}))

			var terr *chat.TransportError
			Expect(errors.As(s.Err(), &terr)).To(BeTrue())
			Expect(terr.StatusCode).To(Equal(http.StatusInternalServerError))
		})

		It("turns a connection failure into a single error event", func() {
			srv := streamServer(http.StatusOK, nil, nil)
			url := srv.URL
			srv.Close()

			s, err := chat.NewClient(url, "").Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())

			Expect(collect(s)).To(Equal([]chat.Event{chat.ErrorEvent(chat.ConnectionFailureMessage)}))

			var terr *chat.TransportError
			Expect(errors.As(s.Err(), &terr)).To(BeTrue())
			Expect(terr.StatusCode).To(BeZero())
		})

		It("records the raw response bytes", func() {
			chunks := []string{"data: {\"text\":\"a\"}\n\n", "data: {\"done\":true}\n\n"}
			srv := streamServer(http.StatusOK, chunks, nil)
			defer srv.Close()

			rec := &bytes.Buffer{}
			s, err := chat.NewClient(srv.URL, "", chat.WithRecorder(rec)).Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())
			collect(s)

			Expect(rec.String()).To(Equal(strings.Join(chunks, "")))
		})
	})

	Describe("Stream cancellation", func() {
		It("suppresses further events after Cancel", func() {
			started := make(chan struct{})
			srv := hangingServer([]string{"data: {\"text\":\"uno\"}\n"}, started)
			defer srv.Close()

			s, err := chat.NewClient(srv.URL, "").Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())
			Eventually(started).Should(BeClosed())

			ev, ok := s.Next()
			Expect(ok).To(BeTrue())
			Expect(ev).To(Equal(chat.TextEvent("uno")))

			go func() {
				time.Sleep(50 * time.Millisecond)
				s.Cancel()
			}()

			done := make(chan bool)
			go func() {
				_, ok := s.Next()
				done <- ok
			}()
			Eventually(done, 5*time.Second).Should(Receive(BeFalse()))
			Expect(s.Cancelled()).To(BeTrue())

			_, ok = s.Next()
			Expect(ok).To(BeFalse())
		})

		It("suppresses further events when the context is cancelled", func() {
			started := make(chan struct{})
			srv := hangingServer([]string{"data: {\"text\":\"uno\"}\n"}, started)
			defer srv.Close()

			cctx, cancel := context.WithCancel(ctx)
			s, err := chat.NewClient(srv.URL, "").Ask(cctx, "hi")
			Expect(err).NotTo(HaveOccurred())
			Eventually(started).Should(BeClosed())

			_, ok := s.Next()
			Expect(ok).To(BeTrue())

			cancel()
			done := make(chan bool)
			go func() {
				_, ok := s.Next()
				done <- ok
			}()
			Eventually(done, 5*time.Second).Should(Receive(BeFalse()))
			Expect(s.Err()).NotTo(HaveOccurred())
		})

		It("does not report a completed stream as cancelled", func() {
			srv := streamServer(http.StatusOK, []string{
				"data: {\"text\":\"Hel\"}\n\n",
				"data: {\"text\":\"lo\"}\n\n",
				"data: {\"done\":true}\n\n",
			}, nil)
			defer srv.Close()

			s, err := chat.NewClient(srv.URL, "").Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())

			Expect(kinds(collect(s))).To(Equal([]chat.EventKind{chat.EventText, chat.EventText, chat.EventDone}))
			Expect(s.Cancelled()).To(BeFalse())

			s.Cancel()
			Expect(s.Cancelled()).To(BeFalse())
			_, ok := s.Next()
			Expect(ok).To(BeFalse())
		})

		It("closes idempotently", func() {
			srv := streamServer(http.StatusOK, []string{"data: {\"done\":true}\n"}, nil)
			defer srv.Close()

			s, err := chat.NewClient(srv.URL, "").Ask(ctx, "hi")
			Expect(err).NotTo(HaveOccurred())

			Expect(s.Close()).To(Succeed())
			Expect(s.Close()).To(Succeed())

			_, ok := s.Next()
			Expect(ok).To(BeFalse())
		})
	})
})
