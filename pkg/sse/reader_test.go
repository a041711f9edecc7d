package sse_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/billetera/pkg/sse"
)

// chunkedReader returns its input in the given chunk sizes, then the
// remainder in one read.
type chunkedReader struct {
	data  []byte
	sizes []int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := len(c.data)
	if len(c.sizes) > 0 {
		n = min(c.sizes[0], n)
		c.sizes = c.sizes[1:]
	}
	n = copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func readAll(r *sse.Reader) ([]string, error) {
	var lines []string
	for {
		line, err := r.NextLine()
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}

const stream = "data: {\"text\":\"Hel\"}\n\ndata: {\"text\":\"lo\"}\n\ndata: {\"done\":true}\n\n"

var _ = Describe("Reader", func() {
	var want []string

	BeforeEach(func() {
		want = []string{
			`data: {"text":"Hel"}`, "",
			`data: {"text":"lo"}`, "",
			`data: {"done":true}`, "",
		}
	})

	It("yields complete lines then io.EOF", func() {
		r := sse.NewReader(strings.NewReader(stream))

		lines, err := readAll(r)
		Expect(err).To(MatchError(io.EOF))
		Expect(lines).To(Equal(want))
		Expect(r.Exhausted()).To(BeTrue())
	})

	It("yields the same lines for one-byte reads", func() {
		r := sse.NewReader(iotest.OneByteReader(strings.NewReader(stream)))

		lines, err := readAll(r)
		Expect(err).To(MatchError(io.EOF))
		Expect(lines).To(Equal(want))
	})

	It("yields the same lines when a chunk ends exactly on a record boundary", func() {
		first := len("data: {\"text\":\"Hel\"}\n\n")
		r := sse.NewReader(&chunkedReader{data: []byte(stream), sizes: []int{first, 3, 17}})

		lines, err := readAll(r)
		Expect(err).To(MatchError(io.EOF))
		Expect(lines).To(Equal(want))
	})

	It("never returns an unterminated trailing line", func() {
		r := sse.NewReader(strings.NewReader("data: {\"text\":\"a\"}\ndata: {\"tex"))

		lines, err := readAll(r)
		Expect(err).To(MatchError(io.EOF))
		Expect(lines).To(Equal([]string{`data: {"text":"a"}`}))
		Expect(r.Partial()).To(Equal(`data: {"tex`))
	})

	It("tees the exact raw bytes to the destination", func() {
		dst := &bytes.Buffer{}
		r := sse.NewTeeReader(iotest.HalfReader(strings.NewReader(stream)), dst)

		_, err := readAll(r)
		Expect(err).To(MatchError(io.EOF))
		Expect(dst.String()).To(Equal(stream))
	})

	It("drains completed lines before surfacing a source error", func() {
		boom := errors.New("connection reset")
		src := io.MultiReader(strings.NewReader("data: {}\n"), iotest.ErrReader(boom))
		r := sse.NewReader(src)

		line, err := r.NextLine()
		Expect(err).NotTo(HaveOccurred())
		Expect(line).To(Equal("data: {}"))

		_, err = r.NextLine()
		Expect(err).To(MatchError(boom))
		Expect(r.Exhausted()).To(BeFalse())
	})

	It("fails a source that never makes progress", func() {
		r := sse.NewReader(iotest.ErrReader(nil))

		_, err := r.NextLine()
		Expect(err).To(MatchError(io.ErrNoProgress))
	})
})
