package tiff

// Test fixtures: EXIF APP1 bodies assembled field by field.

type field struct {
	tag   uint16
	typ   Type
	count uint32
	data  []byte // encoded value, already in the segment's byte order
}

type segment struct {
	order Order
	ifd0  []field
	exif  []field // written with a pointer from IFD0 when non-nil
	gps   []field
}

// bytes lays the segment out as header, IFD0, EXIF IFD, GPS IFD, then the
// out-of-line values in entry order.
func (s segment) bytes() []byte {
	bo := s.order.ByteOrder()
	ifd0 := append([]field(nil), s.ifd0...)
	if s.exif != nil {
		ifd0 = append(ifd0, field{TagExifIFD, LONG, 1, nil})
	}
	if s.gps != nil {
		ifd0 = append(ifd0, field{TagGPSIFD, LONG, 1, nil})
	}
	dirSize := func(fs []field) int {
		if fs == nil {
			return 0
		}
		return 2 + entrySize*len(fs) + 4
	}
	off0 := 8
	offExif := off0 + dirSize(ifd0)
	offGPS := offExif + dirSize(s.exif)
	dataOff := offGPS + dirSize(s.gps)

	for i := range ifd0 {
		var ptr int
		switch ifd0[i].tag {
		case TagExifIFD:
			ptr = offExif
		case TagGPSIFD:
			ptr = offGPS
		default:
			continue
		}
		ifd0[i].data = make([]byte, 4)
		bo.PutUint32(ifd0[i].data, uint32(ptr))
	}

	tiff := make([]byte, dataOff)
	if s.order == Intel {
		copy(tiff, "II")
	} else {
		copy(tiff, "MM")
	}
	bo.PutUint16(tiff[2:], 0x2A)
	bo.PutUint32(tiff[4:], uint32(off0))

	var extra []byte
	writeDir := func(at int, fs []field) {
		bo.PutUint16(tiff[at:], uint16(len(fs)))
		for i, f := range fs {
			e := tiff[at+2+entrySize*i:]
			bo.PutUint16(e, f.tag)
			bo.PutUint16(e[2:], uint16(f.typ))
			bo.PutUint32(e[4:], f.count)
			if len(f.data) <= 4 {
				copy(e[8:12], f.data)
				continue
			}
			bo.PutUint32(e[8:], uint32(dataOff+len(extra)))
			extra = append(extra, f.data...)
		}
	}
	writeDir(off0, ifd0)
	if s.exif != nil {
		writeDir(offExif, s.exif)
	}
	if s.gps != nil {
		writeDir(offGPS, s.gps)
	}
	out := append([]byte("Exif\x00\x00"), tiff...)
	return append(out, extra...)
}

func asciiField(tag uint16, s string) field {
	b := append([]byte(s), 0)
	return field{tag, ASCII, uint32(len(b)), b}
}

func shortField(o Order, tag uint16, vs ...uint16) field {
	b := make([]byte, 2*len(vs))
	for i, v := range vs {
		o.ByteOrder().PutUint16(b[2*i:], v)
	}
	return field{tag, SHORT, uint32(len(vs)), b}
}

func longField(o Order, tag uint16, v uint32) field {
	b := make([]byte, 4)
	o.ByteOrder().PutUint32(b, v)
	return field{tag, LONG, 1, b}
}

func byteField(tag uint16, typ Type, v byte) field {
	return field{tag, typ, 1, []byte{v}}
}

// rationalField takes numerator, denominator pairs.
func rationalField(o Order, tag uint16, typ Type, nd ...uint32) field {
	b := make([]byte, 4*len(nd))
	for i, v := range nd {
		o.ByteOrder().PutUint32(b[4*i:], v)
	}
	return field{tag, typ, uint32(len(nd) / 2), b}
}
