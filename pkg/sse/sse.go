// Package sse provides a minimal, purpose-built reader for the line-oriented
// "data: <json>" streams emitted by the wallet backend's chat endpoint.
//
// Transport chunks do not align with record boundaries: a read may end in the
// middle of a line, or even in the middle of a multi-byte rune. LineBuffer
// holds the incomplete trailing line across reads so that only complete
// lines are ever handed to a parser.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
package sse

import (
	"bytes"
	"strings"
)

// DataPrefix marks a record line carrying a JSON payload.
const DataPrefix = "data: "

// LineBuffer accumulates raw bytes and yields complete newline-terminated
// lines. It is owned by a single stream and is not safe for concurrent use.
type LineBuffer struct {
	buf []byte
}

// Write appends chunk to the buffer and returns every line completed by it,
// in order, without the trailing "\n" (a "\r" before it is dropped too).
// The last, possibly incomplete, segment stays buffered.
func (b *LineBuffer) Write(chunk []byte) []string {
	b.buf = append(b.buf, chunk...)

	var lines []string
	for {
		i := bytes.IndexByte(b.buf, '\n')
		if i < 0 {
			break
		}
		line := b.buf[:i]
		line = bytes.TrimSuffix(line, []byte("\r"))
		lines = append(lines, string(line))
		b.buf = b.buf[i+1:]
	}

	// Compact so a long stream does not pin the whole history in memory.
	if len(b.buf) == 0 {
		b.buf = b.buf[:0:0]
	}

	return lines
}

// Pending returns the buffered incomplete line.
func (b *LineBuffer) Pending() string {
	return string(b.buf)
}

// Reset discards any buffered bytes.
func (b *LineBuffer) Reset() {
	b.buf = nil
}

// Data returns the payload of a "data: " record line. ok is false for any
// other line (blank separators, comments, other SSE fields).
func Data(line string) (payload string, ok bool) {
	return strings.CutPrefix(line, DataPrefix)
}
