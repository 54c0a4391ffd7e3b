// Package arena is the fixed-capacity string store that backs every text
// value of a decoded metadata record.
//
// A value is addressed by a Text offset. Every value is a run of
// NUL-terminated items closed by an empty item, so a single string reads
// as "value\x00\x00" and a list as "a\x00b\x00\x00". Offsets 0 and 1 hold
// the reserved double NUL: the zero Text is both the empty string and the
// empty list, which lets readers scan any field without a presence check.
//
// The arena never grows. A write that does not fit is refused whole.
package arena

import "bytes"

// DefaultSize matches the largest possible APP1 segment.
const DefaultSize = 64 * 1024

// reserved is the size of the leading double-NUL sentinel.
const reserved = 2

// Text is the offset of a value inside an Arena.
type Text uint32

// Empty is the sentinel value: an empty string and an empty list.
const Empty Text = 0

// Arena is a byte buffer with a write cursor.
type Arena struct {
	buf  []byte
	next int
}

// New returns an arena holding up to size bytes including the sentinel.
// Sizes below the sentinel are raised to it.
func New(size int) *Arena {
	if size < reserved {
		size = reserved
	}
	return &Arena{buf: make([]byte, size), next: reserved}
}

// Cap returns the total capacity.
func (a *Arena) Cap() int { return len(a.buf) }

// Used returns the number of bytes consumed, sentinel included.
func (a *Arena) Used() int { return a.next }

func (a *Arena) free() int { return len(a.buf) - a.next }

// Reset discards every value. Previously returned Texts become invalid.
func (a *Arena) Reset() {
	clear(a.buf)
	a.next = reserved
}

// Put stores b as a single-item value. It reports false, writing nothing,
// when b and its two terminators do not fit.
func (a *Arena) Put(b []byte) (Text, bool) {
	if len(b)+2 > a.free() {
		return Empty, false
	}
	t := Text(a.next)
	n := copy(a.buf[a.next:], b)
	a.buf[a.next+n] = 0
	a.buf[a.next+n+1] = 0
	a.next += n + 2
	return t, true
}

// PutString is Put for a string.
func (a *Arena) PutString(s string) (Text, bool) {
	if len(s)+2 > a.free() {
		return Empty, false
	}
	return a.Put([]byte(s))
}

// String returns the first item of t.
func (a *Arena) String(t Text) string {
	p := a.at(t)
	if i := bytes.IndexByte(p, 0); i >= 0 {
		p = p[:i]
	}
	return string(p)
}

// List splits the run at t into its items, stopping at the first empty one.
func (a *Arena) List(t Text) []string {
	raw := a.Raw(t)
	var out []string
	for len(raw) > 0 && raw[0] != 0 {
		i := bytes.IndexByte(raw, 0)
		if i < 0 {
			out = append(out, string(raw))
			break
		}
		out = append(out, string(raw[:i]))
		raw = raw[i+1:]
	}
	return out
}

// Raw returns the run at t: its items with their terminators and the
// closing empty item.
func (a *Arena) Raw(t Text) []byte {
	p := a.at(t)
	i := 0
	for i < len(p) && p[i] != 0 {
		j := bytes.IndexByte(p[i:], 0)
		if j < 0 {
			return p
		}
		i += j + 1
	}
	if i < len(p) {
		i++
	}
	return p[:i]
}

// at relies on every byte past the cursor being zero.
func (a *Arena) at(t Text) []byte {
	if int(t) > a.next || int(t) >= len(a.buf) {
		return a.buf[:1]
	}
	return a.buf[t:]
}

// ─── Runs ────────────────────────────────────────────────────────────────────
//
// A run is built item by item while a value is captured. While a run is
// open the cursor sits on its closing NUL, so the run always reads as a
// well-terminated list; Close steps past that NUL.

// Open starts a new empty run at the cursor.
func (a *Arena) Open() (Text, bool) {
	if a.free() < 1 {
		return Empty, false
	}
	a.buf[a.next] = 0
	return Text(a.next), true
}

// Reopen continues the closed run at t. The run must be the last value
// written; otherwise its items are first copied to the cursor and the
// returned Text differs from t. Reopen reports false when the copy does
// not fit.
func (a *Arena) Reopen(t Text) (Text, bool) {
	raw := a.Raw(t)
	if int(t)+len(raw) == a.next && t != Empty {
		a.next--
		return t, true
	}
	items := raw[:len(raw)-1]
	if len(items)+1 > a.free() {
		return Empty, false
	}
	nt := Text(a.next)
	copy(a.buf[a.next:], items)
	a.next += len(items)
	a.buf[a.next] = 0
	return nt, true
}

// Cursor is the offset of the next write.
func (a *Arena) Cursor() int { return a.next }

// Append adds p to the item in progress. It reports false, writing
// nothing, when p does not fit alongside the item and run terminators.
func (a *Arena) Append(p []byte) bool {
	if len(p)+2 > a.free() {
		return false
	}
	copy(a.buf[a.next:], p)
	a.next += len(p)
	a.buf[a.next] = 0
	a.buf[a.next+1] = 0
	return true
}

// EndItem terminates the item that started at start. An empty item is
// left open, since terminating it would end the run.
func (a *Arena) EndItem(start int) {
	if a.next == start {
		return
	}
	a.next++
}

// Truncate drops everything written from pos on, leaving the cursor on a
// closing NUL at pos.
func (a *Arena) Truncate(pos int) {
	if pos < reserved || pos > a.next {
		return
	}
	clear(a.buf[pos:a.next])
	a.next = pos
	if a.next < len(a.buf) {
		a.buf[a.next] = 0
	}
}

// Close finishes the open run by stepping past its closing NUL.
func (a *Arena) Close() {
	if a.next < len(a.buf) {
		a.next++
	}
}
