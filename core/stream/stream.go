// Package stream is the byte cursor the metadata decoder reads through.
// A Stream only moves forward: bytes are pulled with Get or dropped with
// Skip, and nothing already consumed is read again.
package stream

import (
	"bufio"
	"io"
)

// Stream hands out the next n bytes of an underlying source.
type Stream interface {
	// Get returns the next n bytes and advances past them. It reports
	// false when fewer than n bytes remain; the stream is then spent.
	Get(n int) ([]byte, bool)
	// Skip advances n bytes. It reports false if the source ends first.
	Skip(n int) bool
}

// ─── In-memory ───────────────────────────────────────────────────────────────

// Buffer is a Stream over a byte slice. Slices returned by Get alias the
// original data.
type Buffer struct {
	data []byte
	pos  int
}

// Bytes returns a Stream reading b from the start.
func Bytes(b []byte) *Buffer { return &Buffer{data: b} }

func (b *Buffer) Get(n int) ([]byte, bool) {
	if n < 0 || n > len(b.data)-b.pos {
		return nil, false
	}
	p := b.data[b.pos : b.pos+n]
	b.pos += n
	return p, true
}

func (b *Buffer) Skip(n int) bool {
	_, ok := b.Get(n)
	return ok
}

// Offset is the number of bytes consumed so far.
func (b *Buffer) Offset() int { return b.pos }

// ─── io.Reader ───────────────────────────────────────────────────────────────

// Reader is a Stream over an io.Reader. The slice returned by Get is only
// valid until the next call.
type Reader struct {
	r   *bufio.Reader
	buf []byte
	err error
}

// NewReader wraps r. Reads are buffered.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 64*1024)}
}

func (r *Reader) Get(n int) ([]byte, bool) {
	if n < 0 || r.err != nil {
		return nil, false
	}
	if cap(r.buf) < n {
		r.buf = make([]byte, n)
	}
	p := r.buf[:n]
	if _, err := io.ReadFull(r.r, p); err != nil {
		r.err = err
		return nil, false
	}
	return p, true
}

func (r *Reader) Skip(n int) bool {
	if n < 0 || r.err != nil {
		return false
	}
	d, err := r.r.Discard(n)
	if err != nil || d != n {
		r.err = io.ErrUnexpectedEOF
		return false
	}
	return true
}

// Err returns the first read error other than a clean end of input.
func (r *Reader) Err() error {
	if r.err == io.EOF || r.err == io.ErrUnexpectedEOF {
		return nil
	}
	return r.err
}
