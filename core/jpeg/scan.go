package jpeg

import (
	"errors"
	"fmt"
	"log"

	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/stream"
	"github.com/ankit-chaubey/exif-surgery/core/tiff"
	"github.com/ankit-chaubey/exif-surgery/core/xmp"
)

// Options tunes a decode. The zero value and nil both mean defaults.
type Options struct {
	// ArenaSize is the string arena capacity; 0 means arena.DefaultSize.
	ArenaSize int
	// Logger receives trace lines. nil is silent.
	Logger *log.Logger
}

// DecodeBytes is Decode over an in-memory file.
func DecodeBytes(b []byte, opts *Options) (*exif.Record, error) {
	return Decode(stream.Bytes(b), opts)
}

// Decode scans a JPEG stream up to the first image data and decodes the
// EXIF and XMP APP1 segments it meets into a fresh record.
//
// The error is nil when at least one kind of metadata was found, even if a
// later segment is damaged; rec.Fields tells which. Otherwise it is one of
// the exif sentinels: exif.ErrAbsentData for a well-formed file without
// metadata, exif.ErrInvalidJpeg for a missing SOI marker or a stream that
// ends inside a segment. The record is returned in every case so that
// fields decoded before a failure stay visible.
func Decode(s stream.Stream, opts *Options) (*exif.Record, error) {
	if opts == nil {
		opts = &Options{}
	}
	rec := exif.NewRecord(opts.ArenaSize)
	sc := &scanner{s: s, rec: rec, log: opts.Logger}
	err := sc.run()
	rec.Fields = sc.found
	return rec, err
}

type scanner struct {
	s     stream.Stream
	rec   *exif.Record
	log   *log.Logger
	found exif.FieldSet
}

func (sc *scanner) tracef(format string, args ...any) {
	if sc.log != nil {
		sc.log.Printf(format, args...)
	}
}

// result maps a failure onto the final outcome: anything found so far
// wins over err.
func (sc *scanner) result(err error) error {
	if sc.found != exif.FieldNone {
		return nil
	}
	return err
}

func (sc *scanner) run() error {
	b, ok := sc.s.Get(2)
	if !ok || b[0] != Prefix || Marker(b[1]) != SOI {
		return exif.ErrInvalidJpeg
	}
	for {
		b, ok := sc.s.Get(2)
		if !ok || b[0] != Prefix {
			break
		}
		m := Marker(b[1])
		for m == Prefix {
			if b, ok = sc.s.Get(1); !ok {
				return sc.result(exif.ErrInvalidJpeg)
			}
			m = Marker(b[0])
		}

		switch {
		case m.Standalone():
			continue
		case m == SOS || m == EOI:
			return sc.result(exif.ErrAbsentData)
		case m == APP1:
			body, err := sc.segment(m)
			if err != nil {
				return sc.result(err)
			}
			sc.rec.HasApp1 = true
			if err := sc.app1(body); err != nil {
				return sc.result(err)
			}
			if sc.found == exif.FieldAll {
				return nil
			}
		default:
			n, err := sc.length(m)
			if err != nil {
				return sc.result(err)
			}
			switch m {
			case APP13, APP14, SOF0, DHT, DQT, DRI:
			default:
				sc.tracef("jpeg: unhandled marker %s", m)
			}
			if !sc.s.Skip(n) {
				return sc.result(exif.ErrInvalidJpeg)
			}
		}
	}
	return sc.result(exif.ErrAbsentData)
}

// length reads a segment length field and returns the body size.
func (sc *scanner) length(m Marker) (int, error) {
	b, ok := sc.s.Get(2)
	if !ok {
		return 0, fmt.Errorf("%s length: %w", m, exif.ErrInvalidJpeg)
	}
	n := int(b[0])<<8 | int(b[1])
	if n <= 2 {
		return 0, fmt.Errorf("%s length %d: %w", m, n, exif.ErrInvalidJpeg)
	}
	return n - 2, nil
}

func (sc *scanner) segment(m Marker) ([]byte, error) {
	n, err := sc.length(m)
	if err != nil {
		return nil, err
	}
	body, ok := sc.s.Get(n)
	if !ok {
		return nil, fmt.Errorf("%s body of %d bytes truncated: %w", m, n, exif.ErrInvalidJpeg)
	}
	return body, nil
}

// app1 tries the body as EXIF, then as XMP. A body that is neither is
// skipped.
func (sc *scanner) app1(body []byte) error {
	err := tiff.Parse(sc.rec, body, sc.log)
	if err == nil {
		sc.found |= exif.FieldEXIF
		return nil
	}
	if !errors.Is(err, exif.ErrAbsentData) {
		return err
	}
	switch err := xmp.ParseSegment(sc.rec, body, sc.log); {
	case err == nil:
		sc.rec.HasXMP = true
		sc.found |= exif.FieldXMP
	case errors.Is(err, exif.ErrAbsentData):
		sc.tracef("jpeg: APP1 of %d bytes is neither EXIF nor XMP", len(body))
	default:
		return err
	}
	return nil
}
