// Package exif holds the result of decoding a JPEG's camera metadata: the
// Record, its string arena and the decode result codes.
//
// A Record is owned by one decode call. Nothing in it is shared with other
// records, so independent decodes may run concurrently.
package exif

import (
	"math"

	"github.com/ankit-chaubey/exif-surgery/core/arena"
)

// Unset marks an absent floating point field.
const Unset = math.MaxFloat64

// FieldSet records which metadata kinds were decoded.
type FieldSet uint32

const (
	FieldEXIF FieldSet = 1 << iota
	FieldXMP

	FieldNone FieldSet = 0
	FieldAll           = FieldEXIF | FieldXMP
)

// Record is everything decoded from one image. Text fields are offsets into
// Strings; read them with Text and List.
type Record struct {
	HasApp1         bool // an APP1 segment was seen
	HasXMP          bool // XMP content was seen
	NotEnoughMemory bool // the arena filled up while capturing XMP

	Strings *arena.Arena
	Fields  FieldSet

	ExifVersion        uint32 // 4 bytes such as "0230", in file byte order
	ImageWidth         uint32
	ImageHeight        uint32
	RelatedImageWidth  uint32
	RelatedImageHeight uint32
	ImageDescription   arena.Text
	Artist             arena.Text
	UserComment        arena.Text
	Make               arena.Text
	Model              arena.Text
	SerialNumber       arena.Text
	Orientation        uint16 // 0 unspecified, 1 upper left, 3 lower right, 6 upper right, 8 lower left
	XResolution        float64
	YResolution        float64
	ResolutionUnit     uint16 // 1 none, 2 inch, 3 centimeter
	BitsPerSample      uint16
	Software           arena.Text
	DateTime           arena.Text
	DateTimeOriginal   arena.Text
	DateTimeDigitized  arena.Text
	SubSecTimeOriginal arena.Text
	Copyright          arena.Text
	OffsetTimeOriginal arena.Text
	FlashPixVersion    uint32

	ExposureTime      float64 // seconds
	FNumber           float64
	ExposureProgram   uint16
	ColorSpace        uint16 // 1 sRGB
	SceneType         uint16
	ExposureMode      uint16
	WhiteBalance      uint16
	CaptureType       uint16
	ComponentConfig   uint16
	YCCPositioning    uint16
	SensingMethod     uint16
	ISOSpeedRatings   uint16
	ShutterSpeedValue float64 // seconds, converted from APEX
	MaxAperture       float64
	ApertureValue     float64 // f-number, converted from APEX
	BrightnessValue   float64
	ExposureBiasValue float64
	SubjectDistance   float64 // meters
	FocalLength       float64 // millimeters
	Flash             uint16
	MeteringMode      uint16
	LightSource       uint16
	ProjectionType    uint16 // 1 perspective, 2 equirectangular
	SubjectAreas      uint16 // number of SubjectArea values stored
	SubjectArea       [4]uint16

	Calibration Calibration
	LensInfo    LensInfo
	GeoLocation GeoLocation
	GPano       GPano
	MicroVideo  MicroVideo

	XMP XMP
}

// Calibration is camera calibration in pixels.
type Calibration struct {
	FocalLength    float64
	OpticalCenterX float64
	OpticalCenterY float64
}

type LensInfo struct {
	FStopMin                 float64
	FStopMax                 float64
	FocalLengthMin           float64 // mm
	FocalLengthMax           float64 // mm
	DigitalZoomRatio         float64
	FocalLengthIn35mm        float64
	FocalPlaneXResolution    float64
	FocalPlaneYResolution    float64
	FocalPlaneResolutionUnit uint16
	Make                     arena.Text
	Model                    arena.Text
}

// Coord is a latitude or longitude as stored in the GPS directory.
type Coord struct {
	Degrees   float64
	Minutes   float64
	Seconds   float64
	Direction byte // 'N', 'S', 'E' or 'W'
}

// Decimal converts c to signed decimal degrees.
func (c Coord) Decimal() float64 {
	d := c.Degrees + c.Minutes/60 + c.Seconds/3600
	if c.Direction == 'S' || c.Direction == 'W' {
		d = -d
	}
	return d
}

type GeoLocation struct {
	Latitude         float64
	Longitude        float64
	Altitude         float64 // meters relative to sea level
	AltitudeRef      int8    // 0 above sea level, 1 below
	RelativeAltitude float64
	RollDegree       float64
	PitchDegree      float64
	YawDegree        float64
	SpeedX           float64 // m/s
	SpeedY           float64
	SpeedZ           float64
	AccuracyXY       float64
	AccuracyZ        float64
	GPSDOP           float64
	GPSDifferential  uint16
	GPSMapDatum      arena.Text
	GPSTimeStamp     arena.Text
	GPSDateStamp     arena.Text
	LatComponents    Coord
	LonComponents    Coord
}

// HasLatLon reports whether both coordinates were decoded.
func (g *GeoLocation) HasLatLon() bool {
	return g.Latitude != Unset && g.Longitude != Unset
}

// ConvertCoords derives the decimal coordinates from the raw components
// and applies the altitude reference.
func (g *GeoLocation) ConvertCoords() {
	if c := g.LatComponents; c.Degrees != Unset || c.Minutes != 0 || c.Seconds != 0 {
		g.Latitude = c.Decimal()
	}
	if c := g.LonComponents; c.Degrees != Unset || c.Minutes != 0 || c.Seconds != 0 {
		g.Longitude = c.Decimal()
	}
	if g.Altitude != Unset && g.AltitudeRef == 1 {
		g.Altitude = -g.Altitude
	}
}

// GPano is spherical panorama pose, in degrees.
type GPano struct {
	PosePitchDegrees float64
	PoseRollDegrees  float64
}

// MicroVideo describes a motion photo's trailing video.
type MicroVideo struct {
	HasMicroVideo     uint32
	MicroVideoVersion uint32
	MicroVideoOffset  uint32 // from the end of the file
}

// NewRecord returns a cleared record with an arena of arenaSize bytes, or
// arena.DefaultSize if arenaSize is not positive.
func NewRecord(arenaSize int) *Record {
	if arenaSize <= 0 {
		arenaSize = arena.DefaultSize
	}
	r := &Record{Strings: arena.New(arenaSize)}
	r.clear()
	return r
}

// Reset clears r for reuse, keeping its arena allocation.
func (r *Record) Reset() {
	s := r.Strings
	s.Reset()
	*r = Record{Strings: s}
	r.clear()
}

func (r *Record) clear() {
	g := &r.GeoLocation
	g.Latitude = Unset
	g.Longitude = Unset
	g.Altitude = Unset
	g.RelativeAltitude = Unset
	g.RollDegree = Unset
	g.PitchDegree = Unset
	g.YawDegree = Unset
	g.SpeedX = Unset
	g.SpeedY = Unset
	g.SpeedZ = Unset
	g.LatComponents.Degrees = Unset
	g.LonComponents.Degrees = Unset
	r.GPano.PosePitchDegrees = Unset
	r.GPano.PoseRollDegrees = Unset
}

// Text returns the string value of t.
func (r *Record) Text(t arena.Text) string { return r.Strings.String(t) }

// List returns the items of the list value t.
func (r *Record) List(t arena.Text) []string { return r.Strings.List(t) }

// PutText stores s in the arena. It reports false when the arena is full.
func (r *Record) PutText(s string) (arena.Text, bool) { return r.Strings.PutString(s) }
