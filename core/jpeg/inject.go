package jpeg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/tiff"
)

// DateTimeLayout is the EXIF date format, e.g. "2023:06:19 15:30:00".
const DateTimeLayout = "2006:01:02 15:04:05"

// ErrExifPresent is returned by Inject when the file already has an EXIF
// segment. Strip it first to replace it.
var ErrExifPresent = errors.New("jpeg: EXIF segment already present")

// FormatDateTime renders t for DateTimeOriginal.
func FormatDateTime(t time.Time) string { return t.Format(DateTimeLayout) }

// Inject returns a copy of src with a new EXIF APP1 segment right after
// SOI. The segment holds a big-endian IFD0 with two ASCII entries,
// DateTimeOriginal and ImageDescription, whose strings follow the
// directory in entry order and are closed by a zero next-IFD link.
func Inject(src []byte, dateTimeOriginal, imageDescription string) ([]byte, error) {
	if len(src) < 2 || src[0] != Prefix || Marker(src[1]) != SOI {
		return nil, exif.ErrInvalidJpeg
	}
	if HasEXIF(src) {
		return nil, ErrExifPresent
	}
	t, err := time.Parse(DateTimeLayout, dateTimeOriginal)
	if err != nil {
		return nil, fmt.Errorf("jpeg: DateTimeOriginal %q: %v", dateTimeOriginal, err)
	}
	// The entry is always 20 bytes; time.Parse also takes "5:30:00" and
	// fractional seconds.
	if FormatDateTime(t) != dateTimeOriginal {
		return nil, fmt.Errorf("jpeg: DateTimeOriginal %q is not in %q form", dateTimeOriginal, DateTimeLayout)
	}

	seg, err := exifSegment(dateTimeOriginal, imageDescription)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(src)+len(seg))
	out = append(out, Prefix, byte(SOI))
	out = append(out, seg...)
	return append(out, src[2:]...), nil
}

const ifd0 = 8 // IFD0 offset inside the TIFF block

// exifSegment builds the full APP1 segment, marker and length included.
func exifSegment(date, desc string) ([]byte, error) {
	var buf bytes.Buffer
	be16 := func(v uint16) { binary.Write(&buf, binary.BigEndian, v) }
	be32 := func(v uint32) { binary.Write(&buf, binary.BigEndian, v) }

	buf.Write([]byte{Prefix, byte(APP1), 0, 0}) // length patched below
	buf.Write(tiff.Magic)
	buf.WriteString("MM")
	be16(0x2A)
	be32(ifd0)

	type entry struct {
		tag   uint16
		value string
	}
	entries := []entry{
		{tiff.TagDateTimeOriginal, date},
		{tiff.TagImageDescription, desc},
	}

	be16(uint16(len(entries)))
	next := uint32(ifd0 + 2 + len(entries)*12) // first string
	var values bytes.Buffer
	for _, e := range entries {
		val := e.value + "\x00"
		be16(e.tag)
		be16(uint16(tiff.ASCII))
		be32(uint32(len(val)))
		if len(val) <= 4 {
			var inline [4]byte
			copy(inline[:], val)
			buf.Write(inline[:])
			continue
		}
		be32(next)
		next += uint32(len(val))
		values.WriteString(val)
	}
	buf.Write(values.Bytes())
	be32(0) // next IFD

	b := buf.Bytes()
	n := len(b) - 2 // from the length field on
	if n > 0xFFFF {
		return nil, fmt.Errorf("jpeg: EXIF segment of %d bytes exceeds 65535", n)
	}
	binary.BigEndian.PutUint16(b[2:], uint16(n))
	return b, nil
}
