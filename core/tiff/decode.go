// Package tiff walks the TIFF structure inside an EXIF APP1 segment and
// fills an exif.Record from the image, EXIF, GPS and DJI MakerNote
// directories.
package tiff

import (
	"encoding/binary"
	"math"
)

// Order is the byte order declared by the TIFF header.
type Order uint8

const (
	Motorola Order = iota // "MM", big endian
	Intel                 // "II", little endian
)

// ByteOrder returns the encoding/binary order for o.
func (o Order) ByteOrder() binary.ByteOrder {
	if o == Intel {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (o Order) String() string {
	if o == Intel {
		return "II"
	}
	return "MM"
}

// ─── Primitive decoders ──────────────────────────────────────────────────────
//
// Callers check the slice length first; none of these bounds-check.

func Uint16(b []byte, o Order) uint16 { return o.ByteOrder().Uint16(b) }

func Uint32(b []byte, o Order) uint32 { return o.ByteOrder().Uint32(b) }

// Float32 reinterprets a 32-bit integer as an IEEE single.
func Float32(b []byte, o Order) float32 {
	return math.Float32frombits(Uint32(b, o))
}

// Rational decodes an unsigned numerator/denominator pair. A zero
// denominator yields 0.
func Rational(b []byte, o Order) float64 {
	den := Uint32(b[4:], o)
	if den == 0 {
		return 0
	}
	return float64(Uint32(b, o)) / float64(den)
}

// SRational is Rational with both halves read as two's complement.
func SRational(b []byte, o Order) float64 {
	den := int32(Uint32(b[4:], o))
	if den == 0 {
		return 0
	}
	return float64(int32(Uint32(b, o))) / float64(den)
}

// ─── Field types ─────────────────────────────────────────────────────────────

type Type uint16

// TIFF data types, named as in TIFF 6.0.
const (
	BYTE      Type = 1
	ASCII     Type = 2
	SHORT     Type = 3
	LONG      Type = 4
	RATIONAL  Type = 5
	SBYTE     Type = 6
	UNDEFINED Type = 7
	SSHORT    Type = 8
	SLONG     Type = 9
	SRATIONAL Type = 10
	FLOAT     Type = 11
	DOUBLE    Type = 12
)

var typeNames = map[Type]string{
	BYTE:      "Byte",
	ASCII:     "ASCII",
	SHORT:     "Short",
	LONG:      "Long",
	RATIONAL:  "Rational",
	SBYTE:     "SByte",
	UNDEFINED: "Undefined",
	SSHORT:    "SShort",
	SLONG:     "SLong",
	SRATIONAL: "SRational",
	FLOAT:     "Float",
	DOUBLE:    "Double",
}

// Name returns the TIFF type name, or "Unknown".
func (t Type) Name() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Byte size of a single value of each TIFF type.
var TypeSizes = map[Type]uint32{
	BYTE:      1,
	ASCII:     1,
	SHORT:     2,
	LONG:      4,
	RATIONAL:  8,
	SBYTE:     1,
	UNDEFINED: 1,
	SSHORT:    2,
	SLONG:     4,
	SRATIONAL: 8,
	FLOAT:     4,
	DOUBLE:    8,
}

// Return the size of a single value of a TIFF type, or 0 if unknown.
func (t Type) Size() uint32 {
	return TypeSizes[t]
}

// Indicate if the given type is one of the TIFF rational types.
func (t Type) IsRational() bool {
	return t == RATIONAL || t == SRATIONAL
}
