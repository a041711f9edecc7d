package sse

import (
	"errors"
	"io"
)

const (
	defaultChunkSize = 4 * 1024
	maxEmptyReads    = 100
)

// Reader pulls chunks from a source io.Reader, splits them into complete
// lines with a LineBuffer, and optionally tees every raw byte verbatim to a
// destination io.Writer.
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────────┐
// │    LineBuffer    │──▶│ destination io.Writer │
// └──────────────────┘   └───────────────────────┘
// │
// ▼
// ┌──────────────────┐
// │  complete lines  │
// └──────────────────┘
//
// The destination receives the exact bytes read from the source, which is
// what "billetera chat --record" stores and "billetera replay" serves back.
type Reader struct {
	src   io.Reader
	dest  io.Writer
	chunk []byte

	buf     LineBuffer
	pending []string
	empty   int
	err     error
}

// NewReader returns a Reader over src.
func NewReader(src io.Reader) *Reader {
	return NewTeeReader(src, nil)
}

// NewTeeReader returns a Reader over src that also writes all raw bytes
// to dest. A nil dest disables the tee.
func NewTeeReader(src io.Reader, dest io.Writer) *Reader {
	return &Reader{
		src:   src,
		dest:  dest,
		chunk: make([]byte, defaultChunkSize),
	}
}

// NextLine returns the next complete line. It blocks on the source until a
// line is complete. At the end of the source it returns io.EOF; any
// incomplete trailing line is left in Partial and never returned.
// Errors from the source or the tee destination are returned as-is once
// already-completed lines have been drained.
func (r *Reader) NextLine() (string, error) {
	for {
		if len(r.pending) > 0 {
			line := r.pending[0]
			r.pending = r.pending[1:]
			return line, nil
		}

		if r.err != nil {
			return "", r.err
		}

		n, err := r.src.Read(r.chunk)
		if n > 0 {
			if r.dest != nil {
				if _, werr := r.dest.Write(r.chunk[:n]); werr != nil {
					r.err = werr
				}
			}
			r.pending = append(r.pending, r.buf.Write(r.chunk[:n])...)
		}

		if err != nil && r.err == nil {
			r.err = err
		}

		if n == 0 && err == nil {
			r.empty++
			if r.empty >= maxEmptyReads {
				r.err = io.ErrNoProgress
			}
		} else {
			r.empty = 0
		}
	}
}

// Partial returns the incomplete trailing line buffered so far.
func (r *Reader) Partial() string {
	return r.buf.Pending()
}

// Exhausted reports whether the source reached a clean end of input.
func (r *Reader) Exhausted() bool {
	return errors.Is(r.err, io.EOF) && len(r.pending) == 0
}
