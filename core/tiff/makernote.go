package tiff

// DJI MakerNote tags. The note is a bare IFD whose first entry names the
// maker; offsets are relative to the TIFF header like the main IFDs.
const (
	djiMake   = 0x01
	djiSpeedX = 0x03
	djiSpeedY = 0x04
	djiSpeedZ = 0x05
	djiPitch  = 0x09
	djiYaw    = 0x0A
	djiRoll   = 0x0B
)

// makerNote decodes the DJI flight attitude from a MakerNote. It only runs
// for DJI cameras, and any mismatch leaves the record as it was without
// failing the EXIF directory.
func (w *walker) makerNote(e Entry) {
	if !isDJI(w.rec.Text(w.rec.Make)) {
		return
	}
	if _, ok := e.Value.Offset(); !ok {
		return
	}
	off := w.subIFD(e)
	n := uint64(len(w.seg))
	if off+2 > n {
		return
	}
	count := uint64(Uint16(w.seg[off:], w.order))
	if count == 0 || 2+entrySize*count > uint64(e.Count) || off+2+entrySize*count > n {
		return
	}

	saved := w.err
	defer func() { w.err = saved }()

	first := readEntry(w.seg[off+2:], w.order)
	if first.Tag != djiMake {
		return
	}
	maker, ok := w.ascii(first)
	if !ok || !isDJI(string(maker)) {
		return
	}
	g := &w.rec.GeoLocation
	for i := uint64(1); i < count && w.err == nil; i++ {
		e := readEntry(w.seg[off+2+entrySize*i:], w.order)
		switch e.Tag {
		case djiSpeedX:
			w.f32(e, &g.SpeedX)
		case djiSpeedY:
			w.f32(e, &g.SpeedY)
		case djiSpeedZ:
			w.f32(e, &g.SpeedZ)
		case djiPitch:
			w.f32(e, &g.PitchDegree)
		case djiYaw:
			w.f32(e, &g.YawDegree)
		case djiRoll:
			w.f32(e, &g.RollDegree)
		}
	}
}
