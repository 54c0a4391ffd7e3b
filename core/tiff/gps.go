package tiff

import "fmt"

// GPS sub-IFD tags.
const (
	TagGPSLatitudeRef  = 0x0001
	TagGPSLatitude     = 0x0002
	TagGPSLongitudeRef = 0x0003
	TagGPSLongitude    = 0x0004
	TagGPSAltitudeRef  = 0x0005
	TagGPSAltitude     = 0x0006
	TagGPSTimeStamp    = 0x0007
	TagGPSDOP          = 0x000B
	TagGPSMapDatum     = 0x0012
	TagGPSDateStamp    = 0x001D
	TagGPSDifferential = 0x001E
)

// gps handles a GPS sub-IFD entry. Coordinates are converted to decimal
// once the whole directory has been read.
func (w *walker) gps(e Entry) {
	g := &w.rec.GeoLocation
	switch e.Tag {
	case TagGPSLatitudeRef:
		w.u8(e, &g.LatComponents.Direction)
	case TagGPSLatitude:
		if e.Type.IsRational() && e.Count == 3 {
			w.rationalAt(e, &g.LatComponents.Degrees, 0)
			w.rationalAt(e, &g.LatComponents.Minutes, 1)
			w.rationalAt(e, &g.LatComponents.Seconds, 2)
		}
	case TagGPSLongitudeRef:
		w.u8(e, &g.LonComponents.Direction)
	case TagGPSLongitude:
		if e.Type.IsRational() && e.Count == 3 {
			w.rationalAt(e, &g.LonComponents.Degrees, 0)
			w.rationalAt(e, &g.LonComponents.Minutes, 1)
			w.rationalAt(e, &g.LonComponents.Seconds, 2)
		}
	case TagGPSAltitudeRef:
		var ref uint8
		w.u8(e, &ref)
		g.AltitudeRef = int8(ref)
	case TagGPSAltitude:
		w.rational(e, &g.Altitude)
	case TagGPSTimeStamp:
		if e.Type.IsRational() && e.Count == 3 {
			var h, m, s float64
			w.rationalAt(e, &h, 0)
			w.rationalAt(e, &m, 1)
			w.rationalAt(e, &s, 2)
			if t, ok := w.rec.PutText(fmt.Sprintf("%g %g %g", h, m, s)); ok {
				g.GPSTimeStamp = t
			}
		}
	case TagGPSDOP:
		w.rational(e, &g.GPSDOP)
	case TagGPSMapDatum:
		w.str(e, &g.GPSMapDatum)
	case TagGPSDateStamp:
		w.str(e, &g.GPSDateStamp)
	case TagGPSDifferential:
		w.u16(e, &g.GPSDifferential)
	}
}
