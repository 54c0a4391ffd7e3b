package tiff

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"github.com/ankit-chaubey/exif-surgery/core/arena"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
)

// Magic opens every EXIF APP1 body.
var Magic = []byte("Exif\x00\x00")

// Parse decodes the EXIF APP1 body seg into rec.
//
// It returns exif.ErrAbsentData when seg does not start with Magic, so the
// caller can try another interpretation, exif.ErrUnknownByteAlign for an
// unknown byte order and exif.ErrCorruptData when a directory runs past the
// segment. Fields decoded before a corrupt directory are kept. logger may
// be nil.
func Parse(rec *exif.Record, seg []byte, logger *log.Logger) error {
	if len(seg) < len(Magic) || !bytes.Equal(seg[:len(Magic)], Magic) {
		return exif.ErrAbsentData
	}
	// byte order, 0x2A and the IFD0 offset
	if len(seg) < origin+8 {
		return fmt.Errorf("tiff header truncated at %d bytes: %w", len(seg), exif.ErrCorruptData)
	}
	w := &walker{rec: rec, seg: seg, log: logger}
	switch string(seg[origin : origin+2]) {
	case "II":
		w.order = Intel
	case "MM":
		w.order = Motorola
	default:
		return fmt.Errorf("byte order %q: %w", seg[origin:origin+2], exif.ErrUnknownByteAlign)
	}
	if m := Uint16(seg[origin+2:], w.order); m != 0x2A {
		return fmt.Errorf("tiff magic 0x%04X: %w", m, exif.ErrCorruptData)
	}
	ifd0 := uint64(origin) + uint64(Uint32(seg[origin+4:], w.order))
	if ifd0 >= uint64(len(seg)) {
		return fmt.Errorf("IFD0 offset %d past segment end: %w", ifd0, exif.ErrCorruptData)
	}

	w.exifIFD = uint64(len(seg))
	w.gpsIFD = uint64(len(seg))
	if err := w.directory(ifd0, w.image); err != nil {
		return err
	}
	if w.exifIFD+4 <= uint64(len(seg)) {
		if err := w.directory(w.exifIFD, w.exif); err != nil {
			return err
		}
	}
	if w.gpsIFD+4 <= uint64(len(seg)) {
		if err := w.directory(w.gpsIFD, w.gps); err != nil {
			return err
		}
		rec.GeoLocation.ConvertCoords()
	}
	return nil
}

type walker struct {
	rec   *exif.Record
	seg   []byte
	order Order
	log   *log.Logger

	// sub-directory offsets from IFD0, len(seg) when absent
	exifIFD uint64
	gpsIFD  uint64

	// first out-of-range value in the current directory
	err error
}

func (w *walker) tracef(format string, args ...any) {
	if w.log != nil {
		w.log.Printf(format, args...)
	}
}

// directory visits every entry of the IFD at off. The entry count and all
// entries must lie inside the segment, including the 4-byte next-IFD link.
func (w *walker) directory(off uint64, visit func(Entry)) error {
	n := uint64(len(w.seg))
	if off+2 > n {
		return fmt.Errorf("IFD at %d: count past segment end: %w", off, exif.ErrCorruptData)
	}
	count := uint64(Uint16(w.seg[off:], w.order))
	if off+6+entrySize*count > n {
		return fmt.Errorf("IFD at %d: %d entries past segment end %d: %w", off, count, n, exif.ErrCorruptData)
	}
	w.err = nil
	for i := uint64(0); i < count; i++ {
		visit(readEntry(w.seg[off+2+entrySize*i:], w.order))
		if w.err != nil {
			return w.err
		}
	}
	return nil
}

// subIFD converts a pointer entry into a segment offset.
func (w *walker) subIFD(e Entry) uint64 {
	raw, ok := e.Value.Inline()
	if !ok {
		off, _ := e.Value.Offset()
		return uint64(origin) + uint64(off)
	}
	return uint64(origin) + uint64(Uint32(raw[:], w.order))
}

// ─── Fetchers ────────────────────────────────────────────────────────────────
//
// Each fetcher checks the entry's type and count and reports whether the
// target was set. A value outside the segment stops the directory with
// ErrCorruptData.

func (w *walker) data(e Entry) []byte {
	b, err := e.Data(w.seg)
	if err != nil {
		if w.err == nil {
			w.err = err
		}
		return nil
	}
	return b
}

// ascii returns the text of an ASCII entry, cut at the first NUL. Text
// stored out of line also loses its trailing spaces. Text outside the
// segment is ignored.
func (w *walker) ascii(e Entry) ([]byte, bool) {
	if e.Type != ASCII || e.Count == 0 {
		return nil, false
	}
	var s []byte
	if raw, ok := e.Value.Inline(); ok {
		s = raw[:e.Count]
	} else {
		off, _ := e.Value.Offset()
		start := uint64(origin) + uint64(off)
		if start+uint64(e.Count) > uint64(len(w.seg)) {
			return nil, false
		}
		s = w.seg[start : start+uint64(e.Count)]
	}
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if _, ok := e.Value.Offset(); ok {
		s = bytes.TrimRight(s, " ")
	}
	return s, true
}

// str stores an ASCII entry in the arena. A full arena leaves *dst alone.
func (w *walker) str(e Entry, dst *arena.Text) bool {
	s, ok := w.ascii(e)
	if !ok {
		return false
	}
	t, ok := w.rec.Strings.Put(s)
	if !ok {
		return false
	}
	*dst = t
	return true
}

func (w *walker) u8(e Entry, dst *uint8) bool {
	if (e.Type != BYTE && e.Type != ASCII && e.Type != SBYTE) || e.Count == 0 {
		return false
	}
	b := w.data(e)
	if b == nil {
		return false
	}
	*dst = b[0]
	return true
}

func (w *walker) u16(e Entry, dst *uint16) bool { return w.u16At(e, dst, 0) }

func (w *walker) u16At(e Entry, dst *uint16, i uint32) bool {
	if e.Type != SHORT || e.Count <= i {
		return false
	}
	b := w.data(e)
	if b == nil {
		return false
	}
	*dst = Uint16(b[2*i:], w.order)
	return true
}

func (w *walker) u32(e Entry, dst *uint32) bool {
	if e.Type != LONG || e.Count == 0 {
		return false
	}
	b := w.data(e)
	if b == nil {
		return false
	}
	*dst = Uint32(b, w.order)
	return true
}

// u32or16 accepts a LONG or a SHORT.
func (w *walker) u32or16(e Entry, dst *uint32) bool {
	if w.u32(e, dst) {
		return true
	}
	var v uint16
	if w.u16(e, &v) {
		*dst = uint32(v)
		return true
	}
	return false
}

func (w *walker) f32(e Entry, dst *float64) bool {
	if e.Type != FLOAT || e.Count == 0 {
		return false
	}
	b := w.data(e)
	if b == nil {
		return false
	}
	*dst = float64(Float32(b, w.order))
	return true
}

func (w *walker) rational(e Entry, dst *float64) bool { return w.rationalAt(e, dst, 0) }

func (w *walker) rationalAt(e Entry, dst *float64, i uint32) bool {
	if !e.Type.IsRational() || e.Count <= i {
		return false
	}
	b := w.data(e)
	if b == nil {
		return false
	}
	if e.Type == SRATIONAL {
		*dst = SRational(b[8*i:], w.order)
	} else {
		*dst = Rational(b[8*i:], w.order)
	}
	return true
}

// version reads a 4-byte version such as ExifVersion, written either as a
// LONG or as four UNDEFINED bytes.
func (w *walker) version(e Entry, dst *uint32) bool {
	if e.Type == UNDEFINED && e.Count == 4 {
		raw, _ := e.Value.Inline()
		*dst = Uint32(raw[:], w.order)
		return true
	}
	return w.u32(e, dst)
}

// userComment reads a UserComment. An UNDEFINED value carries an 8-byte
// character code; only ASCII and undefined codes are kept.
func (w *walker) userComment(e Entry, dst *arena.Text) bool {
	if e.Type == ASCII {
		return w.str(e, dst)
	}
	if e.Type != UNDEFINED || e.Count <= 8 {
		return false
	}
	b := w.data(e)
	if b == nil {
		return false
	}
	code := string(bytes.TrimRight(b[:8], "\x00 "))
	if code != "ASCII" && code != "" {
		w.tracef("tiff: user comment in %s skipped", code)
		return false
	}
	s := b[8:]
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	s = bytes.TrimRight(s, " ")
	if len(s) == 0 {
		return false
	}
	t, ok := w.rec.Strings.Put(s)
	if ok {
		*dst = t
	}
	return ok
}

func isDJI(s string) bool { return strings.EqualFold(s, "DJI") }
