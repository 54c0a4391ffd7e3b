package exif

import "errors"

// Decode results. A nil error is success.
var (
	// ErrInvalidJpeg: no start-of-image marker, or the stream ended inside
	// a marker before any metadata was found.
	ErrInvalidJpeg = errors.New("exif: invalid JPEG")
	// ErrUnknownByteAlign: the TIFF byte order token is neither II nor MM.
	ErrUnknownByteAlign = errors.New("exif: unknown byte alignment")
	// ErrAbsentData: the expected magic is not there. Callers treat this
	// as "try the other interpretation", not as a failure.
	ErrAbsentData = errors.New("exif: no metadata")
	// ErrCorruptData: a declared offset or count runs past the segment.
	ErrCorruptData = errors.New("exif: corrupt metadata")
)
