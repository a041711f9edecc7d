package chat_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/billetera/pkg/chat"
)

var _ = Describe("Message", func() {
	var m *chat.Message

	BeforeEach(func() {
		m = chat.NewAssistantMessage()
	})

	It("starts pending with a fresh id", func() {
		Expect(m.Status).To(Equal(chat.StatusPending))
		Expect(m.Role).To(Equal(chat.RoleAssistant))
		Expect(m.ID).NotTo(BeEmpty())
		Expect(chat.NewAssistantMessage().ID).NotTo(Equal(m.ID))
	})

	It("appends text deltas in order", func() {
		Expect(m.Apply(chat.TextEvent("Hel"))).To(BeTrue())
		Expect(m.Status).To(Equal(chat.StatusStreaming))
		Expect(m.Apply(chat.TextEvent("lo"))).To(BeTrue())
		Expect(m.Apply(chat.DoneEvent())).To(BeTrue())

		Expect(m.Text).To(Equal("Hello"))
		Expect(m.Status).To(Equal(chat.StatusComplete))
	})

	It("replaces the body on error", func() {
		m.Apply(chat.TextEvent("partial"))
		Expect(m.Apply(chat.ErrorEvent("boom"))).To(BeTrue())

		Expect(m.Text).To(Equal("boom"))
		Expect(m.Status).To(Equal(chat.StatusError))
	})

	It("is immutable once complete", func() {
		m.Apply(chat.TextEvent("fin"))
		m.Apply(chat.DoneEvent())

		Expect(m.Apply(chat.TextEvent("more"))).To(BeFalse())
		Expect(m.Apply(chat.ErrorEvent("late"))).To(BeFalse())
		Expect(m.Finalize()).To(BeFalse())
		Expect(m.Text).To(Equal("fin"))
		Expect(m.Status).To(Equal(chat.StatusComplete))
	})

	It("is immutable once errored", func() {
		m.Apply(chat.ErrorEvent("boom"))

		Expect(m.Apply(chat.TextEvent("more"))).To(BeFalse())
		Expect(m.Apply(chat.DoneEvent())).To(BeFalse())
		Expect(m.Status).To(Equal(chat.StatusError))
	})

	It("finalizes a streaming message as complete", func() {
		m.Apply(chat.TextEvent("cut short"))
		Expect(m.Finalize()).To(BeTrue())
		Expect(m.Status).To(Equal(chat.StatusComplete))
		Expect(m.Text).To(Equal("cut short"))
	})

	It("builds complete user messages", func() {
		u := chat.NewUserMessage("hola")
		Expect(u.Role).To(Equal(chat.RoleUser))
		Expect(u.Terminal()).To(BeTrue())
	})
})

var _ = Describe("EventKind", func() {
	It("names each kind", func() {
		Expect(chat.EventText.String()).To(Equal("text"))
		Expect(chat.EventDone.String()).To(Equal("done"))
		Expect(chat.EventError.String()).To(Equal("error"))
		Expect(chat.EventKind(9).String()).To(Equal("EventKind(9)"))
	})

	It("marks done and error as terminal", func() {
		Expect(chat.TextEvent("x").Terminal()).To(BeFalse())
		Expect(chat.DoneEvent().Terminal()).To(BeTrue())
		Expect(chat.ErrorEvent("x").Terminal()).To(BeTrue())
	})
})
