package chat_test

import (
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/billetera/pkg/chat"
)

type upperRenderer struct{ err error }

func (u upperRenderer) Render(text string) (string, error) {
	return strings.ToUpper(text) + "\n\n", u.err
}

// play feeds a scripted answer through v.
func play(v chat.Subscriber, events ...chat.Event) {
	user := chat.NewUserMessage("q")
	m := chat.NewAssistantMessage()
	v.Started(user)
	v.Started(m)
	for _, ev := range events {
		if m.Apply(ev) {
			v.Updated(m, ev)
		}
	}
	m.Finalize()
	v.Finished(m)
}

var _ = Describe("PlainView", func() {
	var out *bytes.Buffer

	BeforeEach(func() {
		out = &bytes.Buffer{}
	})

	It("streams text deltas as they arrive", func() {
		v := chat.NewPlainView(out, chat.WithPrefix("assistant> "))
		play(v, chat.TextEvent("Hel"), chat.TextEvent("lo"), chat.DoneEvent())

		Expect(out.String()).To(Equal("assistant> Hello\n"))
	})

	It("clears the placeholder on the first text", func() {
		v := chat.NewPlainView(out, chat.WithPlaceholder())
		play(v, chat.TextEvent("a"), chat.TextEvent("b"), chat.DoneEvent())

		Expect(out.String()).To(Equal(chat.Placeholder + "\b \bab\n"))
	})

	It("writes the error on its own line", func() {
		v := chat.NewPlainView(out, chat.WithErrorPrefix("✗ "))
		play(v, chat.TextEvent("partial"), chat.ErrorEvent("boom"))

		Expect(out.String()).To(Equal("partial\n✗ boom\n"))
	})

	It("renders the finished answer once", func() {
		v := chat.NewPlainView(out, chat.WithRenderer(upperRenderer{}))
		play(v, chat.TextEvent("hola "), chat.TextEvent("mundo"), chat.DoneEvent())

		Expect(out.String()).To(Equal("HOLA MUNDO\n"))
	})

	It("falls back to raw text when rendering fails", func() {
		v := chat.NewPlainView(out, chat.WithRenderer(upperRenderer{err: errors.New("nope")}))
		play(v, chat.TextEvent("hola"), chat.DoneEvent())

		Expect(out.String()).To(Equal("hola\n"))
	})

	It("ignores user messages", func() {
		v := chat.NewPlainView(out, chat.WithPrefix("> "))
		v.Started(chat.NewUserMessage("q"))
		Expect(out.String()).To(BeEmpty())
	})
})
