package sse_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/billetera/pkg/sse"
)

var _ = Describe("LineBuffer", func() {
	var buf *sse.LineBuffer

	BeforeEach(func() {
		buf = &sse.LineBuffer{}
	})

	It("returns complete lines and keeps the partial tail", func() {
		lines := buf.Write([]byte("data: {\"text\":\"a\"}\n\ndata: {\"te"))
		Expect(lines).To(Equal([]string{`data: {"text":"a"}`, ""}))
		Expect(buf.Pending()).To(Equal(`data: {"te`))

		lines = buf.Write([]byte("xt\":\"b\"}\n"))
		Expect(lines).To(Equal([]string{`data: {"text":"b"}`}))
		Expect(buf.Pending()).To(BeEmpty())
	})

	It("returns nothing until a newline arrives", func() {
		Expect(buf.Write([]byte("data: "))).To(BeEmpty())
		Expect(buf.Write([]byte("{}"))).To(BeEmpty())
		Expect(buf.Write([]byte("\n"))).To(Equal([]string{"data: {}"}))
	})

	It("drops carriage returns before the newline", func() {
		Expect(buf.Write([]byte("data: x\r\n\r\n"))).To(Equal([]string{"data: x", ""}))
	})

	It("reassembles a multi-byte rune split across chunks", func() {
		raw := []byte("data: {\"text\":\"ñ\"}\n")
		idx := len("data: {\"text\":\"") + 1 // inside the two-byte ñ

		Expect(buf.Write(raw[:idx])).To(BeEmpty())
		Expect(buf.Write(raw[idx:])).To(Equal([]string{`data: {"text":"ñ"}`}))
	})

	It("discards buffered bytes on Reset", func() {
		buf.Write([]byte("partial"))
		buf.Reset()
		Expect(buf.Pending()).To(BeEmpty())
		Expect(buf.Write([]byte("\n"))).To(Equal([]string{""}))
	})
})

var _ = Describe("Data", func() {
	It("extracts the payload of a data line", func() {
		payload, ok := sse.Data(`data: {"done":true}`)
		Expect(ok).To(BeTrue())
		Expect(payload).To(Equal(`{"done":true}`))
	})

	It("rejects other lines", func() {
		for _, line := range []string{"", ": keepalive", "event: message", "data:{}", " data: {}"} {
			_, ok := sse.Data(line)
			Expect(ok).To(BeFalse(), line)
		}
	})
})
