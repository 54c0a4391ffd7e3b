package xmp

import (
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/ankit-chaubey/exif-surgery/core/exif"
)

// Drone and camera vendors write their pose and calibration as simple
// properties of rdf:Description, either as attributes or as child
// elements. They are collected while the packet is read and applied to the
// record's numeric fields at the end.

const (
	rdfDescription = "rdf:Description"
	rdfAbout       = "rdf:about"
)

var legacyNames = map[string]bool{
	rdfAbout: true,

	"drone-dji:AbsoluteAltitude":         true,
	"drone-dji:RelativeAltitude":         true,
	"drone-dji:GimbalRollDegree":         true,
	"drone-dji:GimbalPitchDegree":        true,
	"drone-dji:GimbalYawDegree":          true,
	"drone-dji:CalibratedFocalLength":    true,
	"drone-dji:CalibratedOpticalCenterX": true,
	"drone-dji:CalibratedOpticalCenterY": true,

	"Camera:Roll":                true,
	"Camera:Pitch":               true,
	"Camera:Yaw":                 true,
	"Camera:GPSXYAccuracy":       true,
	"Camera:GPSZAccuracy":        true,
	"Camera:AboveGroundAltitude": true,

	"drone-parrot:CameraRollDegree":  true,
	"drone-parrot:CameraPitchDegree": true,
	"drone-parrot:CameraYawDegree":   true,

	"GPano:PosePitchDegrees": true,
	"GPano:PoseRollDegrees":  true,
	"GPano:ProjectionType":   true,

	"GCamera:MicroVideo":        true,
	"GCamera:MicroVideoVersion": true,
	"GCamera:MicroVideoOffset":  true,

	"tiff:Orientation":    true,
	"tiff:ImageWidth":     true,
	"tiff:ImageHeight":    true,
	"tiff:ImageLength":    true,
	"tiff:XResolution":    true,
	"tiff:YResolution":    true,
	"tiff:ResolutionUnit": true,
}

// props maps a property name to its first value in the packet.
type props map[string]string

func (p props) set(name, value string) {
	if _, ok := p[name]; !ok {
		p[name] = value
	}
}

func (m *matcher) collectLegacy(name string, attrs []xml.Attr) {
	if name == rdfDescription {
		for _, a := range attrs {
			if n := qname(a.Name); legacyNames[n] {
				m.legacy.set(n, strings.TrimSpace(a.Value))
			}
		}
		return
	}
	if len(m.stack) >= 2 && m.stack[len(m.stack)-2] == rdfDescription && legacyNames[name] {
		m.legacyEl = name
		m.legacyBuf = m.legacyBuf[:0]
	}
}

// float reads a plain number or an "a/b" fraction.
func (p props) float(name string, dst *float64) bool {
	s, ok := p[name]
	if !ok {
		return false
	}
	num, den, frac := strings.Cut(s, "/")
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return false
	}
	if frac {
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || d == 0 {
			return false
		}
		v /= d
	}
	*dst = v
	return true
}

// unsigned reads an unsigned integer in C notation (decimal, 0x hex, 0 octal).
func (p props) unsigned(name string, dst *uint32) bool {
	s, ok := p[name]
	if !ok {
		return false
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return false
	}
	*dst = uint32(v)
	return true
}

// norm180 wraps an angle into [-180, 180).
func norm180(d float64) float64 {
	if d = math.Mod(d+180, 360); d < 0 {
		return d + 180
	}
	return d - 180
}

func (p props) apply(rec *exif.Record) {
	if len(p) == 0 {
		return
	}
	g := &rec.GeoLocation
	maker := rec.Text(rec.Make)
	switch {
	case strings.EqualFold(maker, "DJI") || strings.EqualFold(p[rdfAbout], "DJI Meta Data"):
		p.float("drone-dji:AbsoluteAltitude", &g.Altitude)
		p.float("drone-dji:RelativeAltitude", &g.RelativeAltitude)
		p.float("drone-dji:GimbalRollDegree", &g.RollDegree)
		p.float("drone-dji:GimbalPitchDegree", &g.PitchDegree)
		p.float("drone-dji:GimbalYawDegree", &g.YawDegree)
		p.float("drone-dji:CalibratedFocalLength", &rec.Calibration.FocalLength)
		p.float("drone-dji:CalibratedOpticalCenterX", &rec.Calibration.OpticalCenterX)
		p.float("drone-dji:CalibratedOpticalCenterY", &rec.Calibration.OpticalCenterY)
	case strings.EqualFold(maker, "senseFly") || strings.EqualFold(maker, "Sentera"):
		p.float("Camera:Roll", &g.RollDegree)
		// nadir is pitch 0 here and -90 for DJI
		if p.float("Camera:Pitch", &g.PitchDegree) {
			g.PitchDegree = norm180(g.PitchDegree - 90)
		}
		p.float("Camera:Yaw", &g.YawDegree)
		p.float("Camera:GPSXYAccuracy", &g.AccuracyXY)
		p.float("Camera:GPSZAccuracy", &g.AccuracyZ)
	case strings.EqualFold(maker, "PARROT"):
		_ = p.float("Camera:Roll", &g.RollDegree) ||
			p.float("drone-parrot:CameraRollDegree", &g.RollDegree)
		if p.float("Camera:Pitch", &g.PitchDegree) ||
			p.float("drone-parrot:CameraPitchDegree", &g.PitchDegree) {
			g.PitchDegree = norm180(g.PitchDegree - 90)
		}
		_ = p.float("Camera:Yaw", &g.YawDegree) ||
			p.float("drone-parrot:CameraYawDegree", &g.YawDegree)
		p.float("Camera:AboveGroundAltitude", &g.RelativeAltitude)
	}

	p.float("GPano:PosePitchDegrees", &rec.GPano.PosePitchDegrees)
	p.float("GPano:PoseRollDegrees", &rec.GPano.PoseRollDegrees)
	switch pt := p["GPano:ProjectionType"]; {
	case strings.EqualFold(pt, "perspective"):
		rec.ProjectionType = 1
	case strings.EqualFold(pt, "equirectangular"), strings.EqualFold(pt, "spherical"):
		rec.ProjectionType = 2
	}

	if _, ok := p["GCamera:MicroVideo"]; ok {
		mv := &rec.MicroVideo
		p.unsigned("GCamera:MicroVideo", &mv.HasMicroVideo)
		p.unsigned("GCamera:MicroVideoVersion", &mv.MicroVideoVersion)
		p.unsigned("GCamera:MicroVideoOffset", &mv.MicroVideoOffset)
	}

	// tiff: properties only fill in what EXIF left out
	var v uint32
	if rec.Orientation == 0 && p.unsigned("tiff:Orientation", &v) {
		rec.Orientation = uint16(v)
	}
	if rec.ImageWidth == 0 && rec.ImageHeight == 0 {
		p.unsigned("tiff:ImageWidth", &rec.ImageWidth)
		if !p.unsigned("tiff:ImageHeight", &rec.ImageHeight) {
			p.unsigned("tiff:ImageLength", &rec.ImageHeight)
		}
	}
	if rec.XResolution == 0 && rec.YResolution == 0 && rec.ResolutionUnit == 0 {
		p.float("tiff:XResolution", &rec.XResolution)
		p.float("tiff:YResolution", &rec.YResolution)
		if p.unsigned("tiff:ResolutionUnit", &v) {
			rec.ResolutionUnit = uint16(v)
		}
	}
}
