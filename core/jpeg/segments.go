package jpeg

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/tiff"
	"github.com/ankit-chaubey/exif-surgery/core/xmp"
)

// Segment is one marker segment of a JPEG file. Standalone markers have no
// Data. The entropy-coded tail after SOS is kept as a Segment with marker 0.
type Segment struct {
	Marker Marker
	Data   []byte
}

// Kind classifies the metadata a segment carries.
type Kind uint8

const (
	KindNone Kind = iota
	KindEXIF
	KindXMP
	KindICC
	KindIPTC
	KindComment
)

var kindNames = [...]string{"", "exif", "xmp", "icc", "iptc", "comment"}

func (k Kind) String() string { return kindNames[k] }

var (
	iccMagic  = []byte("ICC_PROFILE\x00")
	iptcMagic = []byte("Photoshop 3.0\x00")
)

// Kind reports which metadata s carries, if any.
func (s Segment) Kind() Kind {
	if !s.Marker.Metadata() {
		return KindNone
	}
	switch {
	case s.Marker == APP1 && bytes.HasPrefix(s.Data, tiff.Magic):
		return KindEXIF
	case s.Marker == APP1 && bytes.HasPrefix(s.Data, xmp.Magic):
		return KindXMP
	case s.Marker == APP2 && bytes.HasPrefix(s.Data, iccMagic):
		return KindICC
	case s.Marker == APP13 && bytes.HasPrefix(s.Data, iptcMagic):
		return KindIPTC
	case s.Marker == COM:
		return KindComment
	}
	return KindNone
}

// Split cuts a whole JPEG file into its segments. Everything from the
// first byte after the SOS header on is kept whole as the last segment.
// Data slices alias data.
func Split(data []byte) ([]Segment, error) {
	segs, err := split(data)
	if err != nil {
		return nil, err
	}
	return segs, nil
}

// split returns the segments read before any error along with it.
func split(data []byte) ([]Segment, error) {
	if len(data) < 2 || data[0] != Prefix || Marker(data[1]) != SOI {
		return nil, exif.ErrInvalidJpeg
	}
	segs := []Segment{{Marker: SOI}}

	i := 2
	for i < len(data) {
		if data[i] != Prefix {
			segs = append(segs, Segment{Data: data[i:]})
			break
		}
		for i < len(data) && data[i] == Prefix {
			i++
		}
		if i >= len(data) {
			break
		}
		m := Marker(data[i])
		i++

		if m == 0 {
			// stuffed byte outside scan data, kept verbatim
			segs = append(segs, Segment{Data: []byte{Prefix, 0}})
			continue
		}
		if m.Standalone() || m == EOI {
			segs = append(segs, Segment{Marker: m})
			if m == EOI {
				if i < len(data) {
					segs = append(segs, Segment{Data: data[i:]})
				}
				break
			}
			continue
		}

		if i+2 > len(data) {
			return segs, fmt.Errorf("%s at %d: length truncated: %w", m, i, exif.ErrInvalidJpeg)
		}
		n := int(binary.BigEndian.Uint16(data[i:])) - 2
		i += 2
		if n < 0 || i+n > len(data) {
			return segs, fmt.Errorf("%s at %d: %d bytes past end: %w", m, i, n, exif.ErrInvalidJpeg)
		}
		segs = append(segs, Segment{Marker: m, Data: data[i : i+n]})
		i += n
		if m == SOS {
			if i < len(data) {
				segs = append(segs, Segment{Data: data[i:]})
			}
			break
		}
	}
	return segs, nil
}

// Join writes segs back into a JPEG file.
func Join(segs []Segment) ([]byte, error) {
	var buf bytes.Buffer
	for _, s := range segs {
		switch {
		case s.Marker == 0:
			buf.Write(s.Data)
		case s.Marker.Standalone() || s.Marker == EOI:
			buf.Write([]byte{Prefix, byte(s.Marker)})
		default:
			if len(s.Data)+2 > 0xFFFF {
				return nil, fmt.Errorf("%s segment of %d bytes exceeds 65533", s.Marker, len(s.Data))
			}
			buf.Write([]byte{Prefix, byte(s.Marker)})
			binary.Write(&buf, binary.BigEndian, uint16(len(s.Data)+2))
			buf.Write(s.Data)
		}
	}
	return buf.Bytes(), nil
}

// HasEXIF reports whether data carries an EXIF APP1 segment before its
// image data. Segments ahead of a malformed one still count.
func HasEXIF(data []byte) bool {
	segs, _ := split(data)
	for _, s := range segs {
		if s.Kind() == KindEXIF {
			return true
		}
	}
	return false
}
