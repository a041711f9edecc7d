package chat_test

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/billetera/pkg/chat"
)

var _ = Describe("Controller", func() {
	var (
		ctx context.Context
		sub *recordingSubscriber
	)

	BeforeEach(func() {
		ctx = context.Background()
		sub = &recordingSubscriber{}
	})

	It("drives a question to a complete answer", func() {
		srv := streamServer(http.StatusOK, []string{
			"data: {\"text\":\"Tu saldo \"}\n",
			"data: {\"text\":\"es 100\"}\n",
			"data: {\"done\":true}\n",
		}, nil)
		defer srv.Close()

		ctrl := chat.NewController(chat.NewClient(srv.URL, ""), chat.WithSubscriber(sub))
		answer, err := ctrl.Submit(ctx, "¿saldo?")
		Expect(err).NotTo(HaveOccurred())

		Expect(answer.Text).To(Equal("Tu saldo es 100"))
		Expect(answer.Status).To(Equal(chat.StatusComplete))

		Expect(sub.started).To(Equal([]chat.Role{chat.RoleUser, chat.RoleAssistant}))
		Expect(kinds(sub.updates)).To(Equal([]chat.EventKind{chat.EventText, chat.EventText, chat.EventDone}))
		Expect(sub.finished).To(HaveLen(1))
		Expect(sub.finished[0].Status).To(Equal(chat.StatusComplete))

		transcript := ctrl.Transcript()
		Expect(transcript).To(HaveLen(2))
		Expect(transcript[0].Text).To(Equal("¿saldo?"))
		Expect(transcript[1]).To(BeIdenticalTo(answer))
	})

	It("finalizes an answer whose stream ends without done", func() {
		srv := streamServer(http.StatusOK, []string{"data: {\"text\":\"a medias\"}\n"}, nil)
		defer srv.Close()

		ctrl := chat.NewController(chat.NewClient(srv.URL, ""), chat.WithSubscriber(sub))
		answer, err := ctrl.Submit(ctx, "hi")
		Expect(err).NotTo(HaveOccurred())

		Expect(answer.Status).To(Equal(chat.StatusComplete))
		Expect(answer.Text).To(Equal("a medias"))
		Expect(kinds(sub.updates)).To(Equal([]chat.EventKind{chat.EventText}))
		Expect(sub.finished).To(HaveLen(1))
	})

	It("ends the answer with the connection failure message", func() {
		srv := streamServer(http.StatusUnauthorized, nil, nil)
		defer srv.Close()

		ctrl := chat.NewController(chat.NewClient(srv.URL, ""))
		ctrl.Subscribe(sub)
		answer, err := ctrl.Submit(ctx, "hi")
		Expect(err).NotTo(HaveOccurred())

		Expect(answer.Status).To(Equal(chat.StatusError))
		Expect(answer.Text).To(Equal(chat.ConnectionFailureMessage))
		Expect(sub.updates).To(HaveLen(1))
	})

	It("rejects a blank question before touching the transcript", func() {
		ctrl := chat.NewController(chat.NewClient("http://127.0.0.1:1", ""), chat.WithSubscriber(sub))
		_, err := ctrl.Submit(ctx, "   ")
		Expect(err).To(MatchError(chat.ErrEmptyQuestion))
		Expect(ctrl.Transcript()).To(BeEmpty())
		Expect(sub.started).To(BeEmpty())
	})

	It("keeps the partial answer when cancelled", func() {
		started := make(chan struct{})
		srv := hangingServer([]string{"data: {\"text\":\"pensando\"}\n"}, started)
		defer srv.Close()

		cctx, cancel := context.WithCancel(ctx)
		ctrl := chat.NewController(chat.NewClient(srv.URL, ""))

		go func() {
			<-started
			time.Sleep(100 * time.Millisecond)
			cancel()
		}()

		answer, err := ctrl.Submit(cctx, "hi")
		Expect(err).To(MatchError(context.Canceled))
		Expect(answer.Text).To(Equal("pensando"))
		Expect(answer.Terminal()).To(BeTrue())
	})

	It("clears the transcript", func() {
		srv := streamServer(http.StatusOK, []string{"data: {\"done\":true}\n"}, nil)
		defer srv.Close()

		ctrl := chat.NewController(chat.NewClient(srv.URL, ""))
		_, err := ctrl.Submit(ctx, "uno")
		Expect(err).NotTo(HaveOccurred())
		_, err = ctrl.Submit(ctx, "dos")
		Expect(err).NotTo(HaveOccurred())
		Expect(ctrl.Transcript()).To(HaveLen(4))

		ctrl.Clear()
		Expect(ctrl.Transcript()).To(BeEmpty())
	})
})
