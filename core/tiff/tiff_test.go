package tiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	goexif "github.com/rwcarlsen/goexif/exif"

	"github.com/ankit-chaubey/exif-surgery/core/arena"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
)

func TestByteOrderSymmetry(t *testing.T) {
	for _, b := range [][]byte{
		{0x00, 0x00, 0x00, 0x00},
		{0x01, 0x02, 0x03, 0x04},
		{0xFF, 0x00, 0x7F, 0x80},
		{0xDE, 0xAD, 0xBE, 0xEF},
	} {
		rev := []byte{b[3], b[2], b[1], b[0]}
		if Uint32(b, Intel) != Uint32(rev, Motorola) {
			t.Errorf("Uint32(% X, II) = %#x, Uint32(% X, MM) = %#x", b, Uint32(b, Intel), rev, Uint32(rev, Motorola))
		}
		if Uint16(b, Intel) != Uint16([]byte{b[1], b[0]}, Motorola) {
			t.Errorf("Uint16 disagrees for % X", b[:2])
		}
	}
}

func TestRational(t *testing.T) {
	tests := []struct {
		name   string
		num    uint32
		den    uint32
		signed bool
		want   float64
	}{
		{"plain", 1, 250, false, 0.004},
		{"zero denominator", 7, 0, false, 0},
		{"signed zero denominator", 7, 0, true, 0},
		{"negative", uint32(0xFFFFFFFF), 3, true, -1.0 / 3},
		{"unsigned reads high bit", 0x80000000, 2, false, 1 << 30},
	}
	for _, tt := range tests {
		for _, o := range []Order{Intel, Motorola} {
			b := make([]byte, 8)
			o.ByteOrder().PutUint32(b, tt.num)
			o.ByteOrder().PutUint32(b[4:], tt.den)
			var got float64
			if tt.signed {
				got = SRational(b, o)
			} else {
				got = Rational(b, o)
			}
			if got != tt.want {
				t.Errorf("%s/%v: got %v, want %v", tt.name, o, got, tt.want)
			}
		}
	}
}

func TestFloat32(t *testing.T) {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, math.Float32bits(-12.5))
	if got := Float32(b, Motorola); got != -12.5 {
		t.Errorf("Float32 = %v", got)
	}
}

func TestEntrySlot(t *testing.T) {
	raw := []byte{0x01, 0x10, 0x00, 0x02, 0x00, 0x00, 0x00, 0x03, 'R', '5', 0, 0}
	e := readEntry(raw, Motorola)
	if e.Tag != 0x0110 || e.Type != ASCII || e.Count != 3 {
		t.Fatalf("readEntry = %+v", e)
	}
	in, ok := e.Value.Inline()
	if !ok || !bytes.Equal(in[:3], []byte("R5\x00")) {
		t.Errorf("Inline() = % X, %v", in, ok)
	}
	if _, ok := e.Value.Offset(); ok {
		t.Error("inline slot reports an offset")
	}

	// a RATIONAL never fits in the slot
	raw = []byte{0x82, 0x9A, 0x00, 0x05, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x10}
	e = readEntry(raw, Motorola)
	off, ok := e.Value.Offset()
	if !ok || off != 0x10 {
		t.Fatalf("Offset() = %d, %v", off, ok)
	}
	seg := make([]byte, origin+0x10+8)
	if _, err := e.Data(seg); err != nil {
		t.Errorf("Data in range: %v", err)
	}
	if _, err := e.Data(seg[:len(seg)-1]); !errors.Is(err, exif.ErrCorruptData) {
		t.Errorf("Data out of range: err = %v, want ErrCorruptData", err)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	good := segment{order: Intel, ifd0: []field{shortField(Intel, TagOrientation, 1)}}.bytes()

	badOrder := append([]byte(nil), good...)
	copy(badOrder[origin:], "IM")
	badMagic := append([]byte(nil), good...)
	badMagic[origin+2] = 0x2B
	farIFD := append([]byte(nil), good...)
	binary.LittleEndian.PutUint32(farIFD[origin+4:], 0x1000)
	manyEntries := append([]byte(nil), good...)
	binary.LittleEndian.PutUint16(manyEntries[origin+8:], 40)

	tests := []struct {
		name string
		seg  []byte
		want error
	}{
		{"ok", good, nil},
		{"no magic", append([]byte("Exif\x00\x01"), good[6:]...), exif.ErrAbsentData},
		{"xmp body", []byte("http://ns.adobe.com/xap/1.0/\x00<x/>"), exif.ErrAbsentData},
		{"empty", nil, exif.ErrAbsentData},
		{"header truncated", good[:13], exif.ErrCorruptData},
		{"unknown byte order", badOrder, exif.ErrUnknownByteAlign},
		{"bad tiff magic", badMagic, exif.ErrCorruptData},
		{"IFD0 past end", farIFD, exif.ErrCorruptData},
		{"truncated IFD", manyEntries, exif.ErrCorruptData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Parse(exif.NewRecord(0), tt.seg, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() = %v, want %v", err, tt.want)
			}
		})
	}
}

// summary is the subset of a record the field tests look at.
type summary struct {
	Make, Model, Software, DateTimeOriginal, LensModel string

	Orientation     uint16
	XResolution     float64
	ImageWidth      uint32
	ExposureTime    float64
	FNumber         float64
	ISO             uint16
	ShutterSpeed    float64
	Aperture        float64
	SubjectAreas    uint16
	SubjectArea     [4]uint16
	FocalLengthMin  float64
	FocalLengthMax  float64
	FStopMin        float64
	FStopMax        float64
	FocalLength35mm float64
	ExposureBias    float64
}

func summarize(r *exif.Record) summary {
	return summary{
		Make:             r.Text(r.Make),
		Model:            r.Text(r.Model),
		Software:         r.Text(r.Software),
		DateTimeOriginal: r.Text(r.DateTimeOriginal),
		LensModel:        r.Text(r.LensInfo.Model),
		Orientation:      r.Orientation,
		XResolution:      r.XResolution,
		ImageWidth:       r.ImageWidth,
		ExposureTime:     r.ExposureTime,
		FNumber:          r.FNumber,
		ISO:              r.ISOSpeedRatings,
		ShutterSpeed:     r.ShutterSpeedValue,
		Aperture:         r.ApertureValue,
		SubjectAreas:     r.SubjectAreas,
		SubjectArea:      r.SubjectArea,
		FocalLengthMin:   r.LensInfo.FocalLengthMin,
		FocalLengthMax:   r.LensInfo.FocalLengthMax,
		FStopMin:         r.LensInfo.FStopMin,
		FStopMax:         r.LensInfo.FStopMax,
		FocalLength35mm:  r.LensInfo.FocalLengthIn35mm,
		ExposureBias:     r.ExposureBiasValue,
	}
}

func cameraSegment(o Order) segment {
	return segment{
		order: o,
		ifd0: []field{
			asciiField(TagMake, "Canon"),
			asciiField(TagModel, "R5"),
			asciiField(TagSoftware, "Firmware 1.8.1   "),
			shortField(o, TagOrientation, 6),
			rationalField(o, TagXResolution, RATIONAL, 72, 1),
			// an EXIF tag written into IFD0
			rationalField(o, TagExposureBias, SRATIONAL, uint32(0xFFFFFFFD), 3),
		},
		exif: []field{
			asciiField(TagDateTimeOriginal, "2023:06:19 15:30:00"),
			rationalField(o, TagExposureTime, RATIONAL, 1, 250),
			rationalField(o, TagFNumber, RATIONAL, 28, 10),
			shortField(o, TagISOSpeed, 400),
			// ignored, ISO already set
			rationalField(o, TagExposureIndex, RATIONAL, 100, 1),
			rationalField(o, TagShutterSpeed, SRATIONAL, 8, 1),
			rationalField(o, TagAperture, RATIONAL, 4, 1),
			shortField(o, TagSubjectArea, 10, 20, 30, 40, 50),
			shortField(o, TagPixelXDimension, 8192),
			rationalField(o, TagLensSpecification, RATIONAL, 24, 1, 105, 1, 4, 1, 4, 1),
			shortField(o, TagFocalLengthIn35mm, 50),
			asciiField(TagLensModel, "RF24-105mm F4 L IS USM"),
			// unknown tags are skipped
			shortField(o, 0xA40A, 1),
		},
	}
}

func TestParseFields(t *testing.T) {
	want := summary{
		Make:             "Canon",
		Model:            "R5",
		Software:         "Firmware 1.8.1",
		DateTimeOriginal: "2023:06:19 15:30:00",
		LensModel:        "RF24-105mm F4 L IS USM",
		Orientation:      6,
		XResolution:      72,
		ImageWidth:       8192,
		ExposureTime:     0.004,
		FNumber:          2.8,
		ISO:              400,
		ShutterSpeed:     1.0 / 256,
		Aperture:         4,
		SubjectAreas:     4,
		SubjectArea:      [4]uint16{10, 20, 30, 40},
		FocalLengthMin:   24,
		FocalLengthMax:   105,
		FStopMin:         4,
		FStopMax:         4,
		FocalLength35mm:  50,
		ExposureBias:     -1,
	}
	for _, o := range []Order{Intel, Motorola} {
		t.Run(o.String(), func(t *testing.T) {
			rec := exif.NewRecord(0)
			if err := Parse(rec, cameraSegment(o).bytes(), nil); err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(want, summarize(rec), cmpopts.EquateApprox(0, 1e-12)); d != "" {
				t.Errorf("fields (-want +got):\n%s", d)
			}
		})
	}
}

func TestExposureIndexFallback(t *testing.T) {
	o := Motorola
	tests := []struct {
		num, den uint32
		want     uint16
	}{
		{800, 1, 800},
		{65535, 1, 65535},
		{65536, 1, 0},
		{4000000, 2, 0},
	}
	for _, tt := range tests {
		seg := segment{order: o, ifd0: []field{
			rationalField(o, TagExposureIndex, RATIONAL, tt.num, tt.den),
		}}.bytes()
		rec := exif.NewRecord(0)
		if err := Parse(rec, seg, nil); err != nil {
			t.Fatal(err)
		}
		if rec.ISOSpeedRatings != tt.want {
			t.Errorf("ExposureIndex %d/%d: ISO = %d, want %d", tt.num, tt.den, rec.ISOSpeedRatings, tt.want)
		}
	}
}

func TestSkippedTagTrace(t *testing.T) {
	o := Intel
	seg := segment{order: o, ifd0: []field{
		shortField(o, 0xABCD, 1, 2, 3),
	}}.bytes()
	var buf bytes.Buffer
	if err := Parse(exif.NewRecord(0), seg, log.New(&buf, "", 0)); err != nil {
		t.Fatal(err)
	}
	if want := "tiff: skip tag 0xABCD (Short, count 3)"; !strings.Contains(buf.String(), want) {
		t.Errorf("trace = %q, want a line %q", buf.String(), want)
	}
	if got := Type(99).Name(); got != "Unknown" {
		t.Errorf("Type(99).Name() = %q", got)
	}
}

func TestParseGPS(t *testing.T) {
	for _, o := range []Order{Intel, Motorola} {
		t.Run(o.String(), func(t *testing.T) {
			seg := segment{
				order: o,
				ifd0:  []field{asciiField(TagMake, "Canon")},
				gps: []field{
					asciiField(TagGPSLatitudeRef, "S"),
					rationalField(o, TagGPSLatitude, RATIONAL, 45, 1, 30, 1, 0, 1),
					asciiField(TagGPSLongitudeRef, "W"),
					rationalField(o, TagGPSLongitude, RATIONAL, 122, 1, 15, 1, 36, 1),
					byteField(TagGPSAltitudeRef, BYTE, 1),
					rationalField(o, TagGPSAltitude, RATIONAL, 105, 10),
					rationalField(o, TagGPSTimeStamp, RATIONAL, 15, 1, 30, 1, 125, 10),
					asciiField(TagGPSMapDatum, "WGS-84"),
					asciiField(TagGPSDateStamp, "2023:06:19"),
					shortField(o, TagGPSDifferential, 1),
				},
			}.bytes()
			rec := exif.NewRecord(0)
			if err := Parse(rec, seg, nil); err != nil {
				t.Fatal(err)
			}
			g := rec.GeoLocation
			if g.Latitude != -45.5 {
				t.Errorf("Latitude = %v, want -45.5", g.Latitude)
			}
			if math.Abs(g.Longitude-(-122.26)) > 1e-12 {
				t.Errorf("Longitude = %v, want -122.26", g.Longitude)
			}
			if g.Altitude != -10.5 {
				t.Errorf("Altitude = %v, want -10.5", g.Altitude)
			}
			got := []string{rec.Text(g.GPSTimeStamp), rec.Text(g.GPSMapDatum), rec.Text(g.GPSDateStamp)}
			if d := cmp.Diff([]string{"15 30 12.5", "WGS-84", "2023:06:19"}, got); d != "" {
				t.Errorf("GPS text (-want +got):\n%s", d)
			}
			if g.GPSDifferential != 1 {
				t.Errorf("GPSDifferential = %d", g.GPSDifferential)
			}
		})
	}
}

func TestNoGPSLeavesCoordinatesUnset(t *testing.T) {
	rec := exif.NewRecord(0)
	if err := Parse(rec, cameraSegment(Intel).bytes(), nil); err != nil {
		t.Fatal(err)
	}
	if rec.GeoLocation.HasLatLon() || rec.GeoLocation.Altitude != exif.Unset {
		t.Errorf("coordinates set without a GPS directory: %+v", rec.GeoLocation)
	}
}

func djiNote(o Order, maker string, attitude map[uint16]float32) []byte {
	bo := o.ByteOrder()
	tags := []uint16{djiSpeedX, djiSpeedY, djiSpeedZ, djiPitch, djiYaw, djiRoll}
	var entries [][]byte
	first := make([]byte, entrySize)
	bo.PutUint16(first, djiMake)
	bo.PutUint16(first[2:], uint16(ASCII))
	bo.PutUint32(first[4:], 4)
	copy(first[8:], maker)
	entries = append(entries, first)
	for _, tag := range tags {
		v, ok := attitude[tag]
		if !ok {
			continue
		}
		e := make([]byte, entrySize)
		bo.PutUint16(e, tag)
		bo.PutUint16(e[2:], uint16(FLOAT))
		bo.PutUint32(e[4:], 1)
		bo.PutUint32(e[8:], math.Float32bits(v))
		entries = append(entries, e)
	}
	note := make([]byte, 2)
	bo.PutUint16(note, uint16(len(entries)))
	for _, e := range entries {
		note = append(note, e...)
	}
	return note
}

func TestDJIMakerNote(t *testing.T) {
	attitude := map[uint16]float32{
		djiSpeedX: 1.5, djiSpeedY: -2, djiSpeedZ: 0.25,
		djiPitch: -90, djiYaw: 12.5, djiRoll: 0,
	}
	tests := []struct {
		name      string
		camera    string
		noteMaker string
		wantPitch float64
		wantSpeed float64
	}{
		{"dji", "DJI", "DJI\x00", -90, 1.5},
		{"case insensitive make", "dji", "DJI\x00", -90, 1.5},
		{"other camera", "Canon", "DJI\x00", exif.Unset, exif.Unset},
		{"other note maker", "DJI", "XYZ\x00", exif.Unset, exif.Unset},
	}
	for _, tt := range tests {
		for _, o := range []Order{Intel, Motorola} {
			t.Run(tt.name+"/"+o.String(), func(t *testing.T) {
				note := djiNote(o, tt.noteMaker, attitude)
				seg := segment{
					order: o,
					ifd0:  []field{asciiField(TagMake, tt.camera)},
					exif: []field{
						{TagMakerNote, UNDEFINED, uint32(len(note)), note},
						shortField(o, TagISOSpeed, 100),
					},
				}.bytes()
				rec := exif.NewRecord(0)
				if err := Parse(rec, seg, nil); err != nil {
					t.Fatal(err)
				}
				g := rec.GeoLocation
				if g.PitchDegree != tt.wantPitch || g.SpeedX != tt.wantSpeed {
					t.Errorf("pitch, speedX = %v, %v; want %v, %v", g.PitchDegree, g.SpeedX, tt.wantPitch, tt.wantSpeed)
				}
				if rec.ISOSpeedRatings != 100 {
					t.Error("entries after the MakerNote were not decoded")
				}
			})
		}
	}
}

func TestMakerNoteTruncatedIsIgnored(t *testing.T) {
	o := Intel
	note := djiNote(o, "DJI\x00", map[uint16]float32{djiPitch: -45})
	o.ByteOrder().PutUint16(note, 30) // more entries than the note holds
	seg := segment{
		order: o,
		ifd0:  []field{asciiField(TagMake, "DJI")},
		exif:  []field{{TagMakerNote, UNDEFINED, uint32(len(note)), note}},
	}.bytes()
	rec := exif.NewRecord(0)
	if err := Parse(rec, seg, nil); err != nil {
		t.Fatalf("Parse() = %v, want nil", err)
	}
	if rec.GeoLocation.PitchDegree != exif.Unset {
		t.Errorf("PitchDegree = %v", rec.GeoLocation.PitchDegree)
	}
}

func TestCorruptSubIFDKeepsIFD0(t *testing.T) {
	o := Motorola
	seg := segment{
		order: o,
		ifd0:  []field{asciiField(TagMake, "Nikon")},
		exif:  []field{shortField(o, TagISOSpeed, 200)},
	}.bytes()
	// IFD0 holds Make and the EXIF pointer; the EXIF IFD follows it.
	exifAt := origin + 8 + 2 + 2*entrySize + 4
	o.ByteOrder().PutUint16(seg[exifAt:], 500)

	rec := exif.NewRecord(0)
	err := Parse(rec, seg, nil)
	if !errors.Is(err, exif.ErrCorruptData) {
		t.Fatalf("Parse() = %v, want ErrCorruptData", err)
	}
	if got := rec.Text(rec.Make); got != "Nikon" {
		t.Errorf("Make = %q, want it kept", got)
	}
	if rec.ISOSpeedRatings != 0 {
		t.Error("corrupt directory was decoded")
	}
}

func TestValueOutsideSegment(t *testing.T) {
	o := Intel
	seg := segment{order: o, ifd0: []field{
		rationalField(o, TagXResolution, RATIONAL, 300, 1),
	}}.bytes()
	rec := exif.NewRecord(0)
	if err := Parse(rec, seg[:len(seg)-4], nil); !errors.Is(err, exif.ErrCorruptData) {
		t.Errorf("Parse() = %v, want ErrCorruptData", err)
	}
}

func TestStringOutsideSegmentIsSkipped(t *testing.T) {
	o := Intel
	seg := segment{order: o, ifd0: []field{
		shortField(o, TagOrientation, 3),
		asciiField(TagMake, "Hasselblad"),
	}}.bytes()
	rec := exif.NewRecord(0)
	if err := Parse(rec, seg[:len(seg)-3], nil); err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if rec.Make != 0 || rec.Orientation != 3 {
		t.Errorf("Make = %d, Orientation = %d", rec.Make, rec.Orientation)
	}
}

func TestArenaExhaustionIsSilent(t *testing.T) {
	o := Intel
	seg := segment{order: o, ifd0: []field{
		asciiField(TagMake, "Canon"),
		shortField(o, TagOrientation, 8),
	}}.bytes()
	rec := exif.NewRecord(8)
	if err := Parse(rec, seg, nil); err != nil {
		t.Fatal(err)
	}
	if rec.Make != 0 {
		t.Errorf("Make = %q, want unset", rec.Text(rec.Make))
	}
	if rec.NotEnoughMemory {
		t.Error("EXIF path must not raise the exhaustion flag")
	}
	if rec.Orientation != 8 {
		t.Errorf("Orientation = %d", rec.Orientation)
	}
}

func TestUserComment(t *testing.T) {
	o := Motorola
	comment := append([]byte("ASCII\x00\x00\x00"), "hello  "...)
	seg := segment{order: o, ifd0: []field{}, exif: []field{
		{TagUserComment, UNDEFINED, uint32(len(comment)), comment},
	}}.bytes()
	rec := exif.NewRecord(0)
	if err := Parse(rec, seg, nil); err != nil {
		t.Fatal(err)
	}
	if got := rec.Text(rec.UserComment); got != "hello" {
		t.Errorf("UserComment = %q", got)
	}
}

func TestEmbeddedXMP(t *testing.T) {
	o := Intel
	packet := []byte(`<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">` +
		`<rdf:Description xmlns:xmp="http://ns.adobe.com/xap/1.0/"><xmp:CreatorTool>Lightroom</xmp:CreatorTool>` +
		`</rdf:Description></rdf:RDF></x:xmpmeta>`)
	seg := segment{order: o, ifd0: []field{
		{TagXMP, UNDEFINED, uint32(len(packet)), packet},
	}}.bytes()
	rec := exif.NewRecord(0)
	if err := Parse(rec, seg, nil); err != nil {
		t.Fatal(err)
	}
	if !rec.HasXMP {
		t.Error("HasXMP not set")
	}
	if got := rec.Text(rec.XMP.CreatorTool); got != "Lightroom" {
		t.Errorf("CreatorTool = %q", got)
	}
}

func TestParseIdempotent(t *testing.T) {
	seg := cameraSegment(Motorola).bytes()
	a, b := exif.NewRecord(0), exif.NewRecord(0)
	if err := Parse(a, seg, nil); err != nil {
		t.Fatal(err)
	}
	if err := Parse(b, seg, nil); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(a, b, cmp.AllowUnexported(arena.Arena{})); d != "" {
		t.Errorf("second decode differs (-first +second):\n%s", d)
	}
}

// TestAgainstGoexif decodes the same segment with an independent reader.
func TestAgainstGoexif(t *testing.T) {
	for _, o := range []Order{Intel, Motorola} {
		seg := cameraSegment(o).bytes()
		jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE1, 0, 0}
		binary.BigEndian.PutUint16(jpeg[4:], uint16(len(seg)+2))
		jpeg = append(jpeg, seg...)
		jpeg = append(jpeg, 0xFF, 0xD9)

		x, err := goexif.Decode(bytes.NewReader(jpeg))
		if err != nil {
			t.Fatalf("%v: goexif: %v", o, err)
		}
		rec := exif.NewRecord(0)
		if err := Parse(rec, seg, nil); err != nil {
			t.Fatal(err)
		}
		for name, got := range map[goexif.FieldName]string{
			goexif.Make:             rec.Text(rec.Make),
			goexif.Model:            rec.Text(rec.Model),
			goexif.DateTimeOriginal: rec.Text(rec.DateTimeOriginal),
		} {
			tag, err := x.Get(name)
			if err != nil {
				t.Errorf("%v: goexif has no %s: %v", o, name, err)
				continue
			}
			want, err := tag.StringVal()
			if err != nil {
				t.Errorf("%v: %s: %v", o, name, err)
				continue
			}
			if got != want {
				t.Errorf("%v: %s = %q, goexif reads %q", o, name, got, want)
			}
		}
		tag, err := x.Get(goexif.Orientation)
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := tag.Int(0); v != int(rec.Orientation) {
			t.Errorf("%v: Orientation = %d, goexif reads %d", o, rec.Orientation, v)
		}
	}
}
