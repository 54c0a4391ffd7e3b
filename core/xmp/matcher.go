// Package xmp decodes the fixed set of XMP properties held by exif.XMP
// from an XMP packet, by matching element paths against an ordered
// descriptor table while the packet is tokenized.
package xmp

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"unicode"

	"github.com/ankit-chaubey/exif-surgery/core/arena"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
)

// Magic opens an XMP APP1 body, NUL included.
var Magic = []byte("http://ns.adobe.com/xap/1.0/\x00")

// MaxDepth bounds element nesting.
const MaxDepth = 64

// ParseSegment decodes the APP1 body seg. It returns exif.ErrAbsentData
// when seg does not start with Magic and exif.ErrCorruptData when nothing
// follows it.
func ParseSegment(rec *exif.Record, seg []byte, logger *log.Logger) error {
	if len(seg) < len(Magic) || !bytes.Equal(seg[:len(Magic)], Magic) {
		return exif.ErrAbsentData
	}
	if len(seg) == len(Magic) {
		return fmt.Errorf("empty XMP packet: %w", exif.ErrCorruptData)
	}
	return Parse(rec, seg[len(Magic):], logger)
}

// Parse decodes an XMP packet into rec.XMP and the drone and camera
// fields that XMP carries.
//
// Fields the packet does not mention keep their previous value, which for
// a fresh record is the empty sentinel. When the string arena fills up,
// rec.NotEnoughMemory is set and the rest of the packet is read without
// storing anything. A malformed packet, or one nested deeper than
// MaxDepth, is exif.ErrCorruptData; fields captured before the error are
// kept.
func Parse(rec *exif.Record, packet []byte, logger *log.Logger) error {
	m := &matcher{
		rec:    rec,
		a:      rec.Strings,
		log:    logger,
		stack:  make([]string, 0, MaxDepth),
		legacy: make(props),
	}
	d := xml.NewDecoder(bytes.NewReader(packet))
	elements := 0
	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("xmp: %v: %w", err, exif.ErrCorruptData)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			elements++
			if err := m.start(t); err != nil {
				return err
			}
		case xml.EndElement:
			if err := m.end(qname(t.Name)); err != nil {
				return err
			}
		case xml.CharData:
			m.content(t)
		}
	}
	if len(m.stack) > 0 {
		return fmt.Errorf("xmp: element %s not closed: %w", m.stack[len(m.stack)-1], exif.ErrCorruptData)
	}
	if elements == 0 {
		return fmt.Errorf("xmp: no elements: %w", exif.ErrCorruptData)
	}
	m.legacy.apply(rec)
	return nil
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// ─── Matcher ─────────────────────────────────────────────────────────────────

type state uint8

const (
	idle state = iota
	capturing
)

type matcher struct {
	rec *exif.Record
	a   *arena.Arena
	log *log.Logger

	stack []string

	state     state
	active    int // descriptor index while capturing
	itemStart int // arena offset of the item being captured

	// full is set once the arena ran out; nothing is stored after that
	full bool

	legacy    props
	legacyEl  string // legacy property element whose text is collected
	legacyBuf []byte
}

func (m *matcher) tracef(format string, args ...any) {
	if m.log != nil {
		m.log.Printf(format, args...)
	}
}

func (m *matcher) start(t xml.StartElement) error {
	if len(m.stack) >= MaxDepth {
		return fmt.Errorf("xmp: nesting deeper than %d: %w", MaxDepth, exif.ErrCorruptData)
	}
	name := qname(t.Name)
	m.stack = append(m.stack, name)
	m.collectLegacy(name, t.Attr)

	if m.state == capturing || m.full {
		return nil
	}
	for i := range table {
		if m.matches(&table[i]) {
			m.activate(i)
			break
		}
	}
	return nil
}

// matches reports whether d applies to the element just pushed: the
// element, or its ancestor d.Up levels up, carries d.Name, and d.Parent if
// set is open somewhere above the element.
func (m *matcher) matches(d *Descriptor) bool {
	top := len(m.stack) - 1
	up := ""
	if top-d.Up >= 0 {
		up = m.stack[top-d.Up]
	}
	if up != d.Name && m.stack[top] != d.Name {
		return false
	}
	if d.Parent == "" {
		return true
	}
	for _, s := range m.stack[:top] {
		if s == d.Parent {
			return true
		}
	}
	return false
}

func (m *matcher) activate(i int) {
	d := &table[i]
	f := d.field(&m.rec.XMP)
	var (
		t  arena.Text
		ok bool
	)
	if d.List && m.a.Raw(*f)[0] != 0 {
		t, ok = m.a.Reopen(*f)
	} else {
		t, ok = m.a.Open()
	}
	if !ok {
		m.exhausted()
		return
	}
	*f = t
	m.state = capturing
	m.active = i
	m.itemStart = m.a.Cursor()
	m.tracef("xmp: capture %s", d.Name)
}

func (m *matcher) content(p []byte) {
	if m.legacyEl != "" {
		m.legacyBuf = append(m.legacyBuf, p...)
	}
	if m.state != capturing {
		return
	}
	if m.a.Cursor() == m.itemStart {
		p = bytes.TrimLeftFunc(p, unicode.IsSpace)
	}
	if len(p) == 0 {
		return
	}
	if !m.a.Append(p) {
		m.a.Truncate(m.itemStart)
		m.a.Close()
		m.exhausted()
	}
}

func (m *matcher) end(name string) error {
	top := len(m.stack) - 1
	if top < 0 || m.stack[top] != name {
		return fmt.Errorf("xmp: unexpected </%s>: %w", name, exif.ErrCorruptData)
	}
	if m.legacyEl == name && top >= 1 && m.stack[top-1] == rdfDescription {
		m.legacy.set(name, string(bytes.TrimSpace(m.legacyBuf)))
		m.legacyEl = ""
	}
	if m.state == capturing {
		m.a.EndItem(m.itemStart)
		m.itemStart = m.a.Cursor()
		if name == table[m.active].Name {
			m.a.Close()
			m.state = idle
		}
	}
	m.stack = m.stack[:top]
	return nil
}

func (m *matcher) exhausted() {
	if !m.full {
		m.tracef("xmp: string arena full after %d bytes", m.a.Used())
	}
	m.rec.NotEnoughMemory = true
	m.full = true
	m.state = idle
}
