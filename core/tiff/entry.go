package tiff

import (
	"fmt"

	"github.com/ankit-chaubey/exif-surgery/core/exif"
)

// origin is the offset of the TIFF header inside the APP1 body, just past
// "Exif\0\0". Value offsets are relative to it.
const origin = 6

// entrySize is the size of one directory entry.
const entrySize = 12

// Slot is the 4-byte value field of a directory entry. It holds the value
// itself when the value fits, otherwise an offset to it.
type Slot struct {
	inline bool
	raw    [4]byte
	offset uint32
}

// Inline returns the slot bytes when the value is stored in place.
func (s Slot) Inline() ([4]byte, bool) { return s.raw, s.inline }

// Offset returns the value offset, relative to the TIFF header, when the
// value is stored elsewhere in the segment.
func (s Slot) Offset() (uint32, bool) { return s.offset, !s.inline }

// Entry is one decoded 12-byte directory entry.
type Entry struct {
	Tag   uint16
	Type  Type
	Count uint32
	Value Slot
}

// Size is the byte length of the entry's value.
func (e Entry) Size() uint64 {
	return uint64(e.Count) * uint64(e.Type.Size())
}

// readEntry decodes the entry at b, which must hold at least 12 bytes.
func readEntry(b []byte, o Order) Entry {
	e := Entry{
		Tag:   Uint16(b, o),
		Type:  Type(Uint16(b[2:], o)),
		Count: Uint32(b[4:], o),
	}
	if e.Size() <= 4 {
		e.Value.inline = true
		copy(e.Value.raw[:], b[8:12])
	} else {
		e.Value.offset = Uint32(b[8:], o)
	}
	return e
}

// Data resolves the entry's value inside seg, the whole APP1 body. An
// offset value that runs past the segment is ErrCorruptData.
func (e Entry) Data(seg []byte) ([]byte, error) {
	size := e.Size()
	if raw, ok := e.Value.Inline(); ok {
		return raw[:size], nil
	}
	off, _ := e.Value.Offset()
	start := uint64(origin) + uint64(off)
	if start+size > uint64(len(seg)) {
		return nil, fmt.Errorf("tag 0x%04X: %d bytes at offset %d past segment end %d: %w",
			e.Tag, size, off, len(seg), exif.ErrCorruptData)
	}
	return seg[start : start+size], nil
}
