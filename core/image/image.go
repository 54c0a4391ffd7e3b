// Package image handles metadata for JPEG/JPG images on top of the
// streaming EXIF/XMP codec.
package image

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/arena"
	"github.com/ankit-chaubey/exif-surgery/core/exif"
	"github.com/ankit-chaubey/exif-surgery/core/jpeg"
	"github.com/ankit-chaubey/exif-surgery/core/stream"
	"github.com/ankit-chaubey/exif-surgery/core/xmp"
)

// ──────────────────────────────────────────────────────────────────────────────
// Handler
// ──────────────────────────────────────────────────────────────────────────────

// Handler implements core.Handler for JPEG.
type Handler struct {
	format core.FormatID
	opts   jpeg.Options
	out    *log.Logger // dry-run reports
}

// New returns a Handler for the given format. Only core.FmtJPEG can view,
// edit or strip; other formats report their capabilities only.
func New(format core.FormatID) *Handler {
	return &Handler{format: format, out: log.New(os.Stdout, "", 0)}
}

// WithOptions sets the decode options used by View.
func (h *Handler) WithOptions(opts jpeg.Options) *Handler {
	h.opts = opts
	return h
}

func (h *Handler) Info() core.FormatInfo {
	info, ok := formatInfo[h.format]
	if !ok {
		return core.FormatInfo{Name: strings.ToUpper(string(h.format)), Notes: "not supported"}
	}
	return info
}

var formatInfo = map[core.FormatID]core.FormatInfo{
	core.FmtJPEG: {
		Name:           "JPEG",
		Extensions:     []string{".jpg", ".jpeg", ".jpe", ".jfif"},
		MIMETypes:      []string{"image/jpeg"},
		CanView:        true,
		CanEdit:        true,
		CanStrip:       true,
		EditableFields: core.SortedKeys(editableFields),
		Notes:          "EXIF (IFD0, EXIF, GPS, DJI MakerNote) and XMP in APP1; edit writes a new EXIF block",
	},
	core.FmtPNG:  {Name: "PNG", Extensions: []string{".png"}, MIMETypes: []string{"image/png"}, Notes: "not supported"},
	core.FmtGIF:  {Name: "GIF", Extensions: []string{".gif"}, MIMETypes: []string{"image/gif"}, Notes: "not supported"},
	core.FmtWebP: {Name: "WebP", Extensions: []string{".webp"}, MIMETypes: []string{"image/webp"}, Notes: "not supported"},
	core.FmtTIFF: {Name: "TIFF", Extensions: []string{".tif", ".tiff"}, MIMETypes: []string{"image/tiff"}, Notes: "not supported"},
	core.FmtHEIC: {Name: "HEIC", Extensions: []string{".heic", ".heif"}, MIMETypes: []string{"image/heic"}, Notes: "not supported"},
}

func (h *Handler) supported() error {
	if h.format != core.FmtJPEG {
		return fmt.Errorf("%s is not supported", h.Info().Name)
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// View
// ──────────────────────────────────────────────────────────────────────────────

func (h *Handler) View(path string) (*core.Metadata, error) {
	if err := h.supported(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := stream.NewReader(f)
	rec, err := jpeg.Decode(s, &h.opts)
	if rerr := s.Err(); rerr != nil {
		return nil, errors.Wrapf(rerr, "read %s", path)
	}
	if err != nil && !errors.Is(err, exif.ErrAbsentData) {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return Flatten(path, rec), nil
}

// Flatten turns a decoded record into display fields.
func Flatten(path string, rec *exif.Record) *core.Metadata {
	m := &core.Metadata{FilePath: path, Format: "JPEG"}
	if rec.NotEnoughMemory {
		m.Notes = append(m.Notes, fmt.Sprintf("string arena full after %d bytes; some XMP values are missing", rec.Strings.Used()))
	}
	if rec.HasApp1 && rec.Fields == exif.FieldNone {
		m.Notes = append(m.Notes, "APP1 present but neither EXIF nor XMP could be decoded")
	}
	fl := flattener{rec: rec, m: m}
	fl.exif()
	fl.gps()
	fl.lens()
	fl.drone()
	fl.xmp()
	return m
}

type flattener struct {
	rec *exif.Record
	m   *core.Metadata
	cat string
}

func (fl *flattener) add(key, value, raw string) {
	if value == "" {
		return
	}
	fl.m.Fields = append(fl.m.Fields, core.MetaField{
		Key:      key,
		Value:    value,
		Category: fl.cat,
		Editable: fl.cat == "EXIF" && editableFields[key] != 0,
		Raw:      raw,
	})
}

// text decodes t, reading non UTF-8 bytes as ISO-8859-1.
func (fl *flattener) text(key string, t arena.Text) {
	s := fl.rec.Text(t)
	if utf8.ValidString(s) {
		fl.add(key, s, "")
		return
	}
	dec, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		dec = strings.ToValidUTF8(s, "�")
	}
	fl.add(key, dec, fmt.Sprintf("% X", s))
}

func (fl *flattener) list(key string, t arena.Text) {
	items := fl.rec.List(t)
	for i, s := range items {
		if !utf8.ValidString(s) {
			if dec, err := charmap.ISO8859_1.NewDecoder().String(s); err == nil {
				items[i] = dec
			}
		}
	}
	fl.add(key, strings.Join(items, "; "), "")
}

func (fl *flattener) float(key string, v float64) {
	if v == exif.Unset || v == 0 {
		return
	}
	fl.add(key, strconv.FormatFloat(v, 'g', -1, 64), "")
}

// signed keeps zero, which is a meaningful angle or altitude.
func (fl *flattener) signed(key string, v float64) {
	if v == exif.Unset {
		return
	}
	fl.add(key, strconv.FormatFloat(v, 'g', -1, 64), "")
}

func (fl *flattener) count(key string, v uint64) {
	if v == 0 {
		return
	}
	fl.add(key, strconv.FormatUint(v, 10), "")
}

func (fl *flattener) exif() {
	r := fl.rec
	fl.cat = "EXIF"
	fl.text("Make", r.Make)
	fl.text("Model", r.Model)
	fl.text("SerialNumber", r.SerialNumber)
	fl.text("Software", r.Software)
	fl.text("ImageDescription", r.ImageDescription)
	fl.text("UserComment", r.UserComment)
	fl.text("Artist", r.Artist)
	fl.text("Copyright", r.Copyright)
	fl.text("DateTime", r.DateTime)
	fl.text("DateTimeOriginal", r.DateTimeOriginal)
	fl.text("DateTimeDigitized", r.DateTimeDigitized)
	fl.text("SubSecTimeOriginal", r.SubSecTimeOriginal)
	fl.text("OffsetTimeOriginal", r.OffsetTimeOriginal)
	if r.ExifVersion != 0 {
		fl.add("ExifVersion", version(r.ExifVersion), fmt.Sprintf("0x%08X", r.ExifVersion))
	}
	if r.FlashPixVersion != 0 {
		fl.add("FlashPixVersion", version(r.FlashPixVersion), fmt.Sprintf("0x%08X", r.FlashPixVersion))
	}
	fl.count("ImageWidth", uint64(r.ImageWidth))
	fl.count("ImageHeight", uint64(r.ImageHeight))
	fl.count("RelatedImageWidth", uint64(r.RelatedImageWidth))
	fl.count("RelatedImageHeight", uint64(r.RelatedImageHeight))
	fl.count("Orientation", uint64(r.Orientation))
	fl.float("XResolution", r.XResolution)
	fl.float("YResolution", r.YResolution)
	fl.count("ResolutionUnit", uint64(r.ResolutionUnit))
	fl.count("BitsPerSample", uint64(r.BitsPerSample))
	if r.ExposureTime > 0 && r.ExposureTime < 1 {
		fl.add("ExposureTime", fmt.Sprintf("1/%.0f", 1/r.ExposureTime), strconv.FormatFloat(r.ExposureTime, 'g', -1, 64))
	} else {
		fl.float("ExposureTime", r.ExposureTime)
	}
	fl.float("FNumber", r.FNumber)
	fl.count("ExposureProgram", uint64(r.ExposureProgram))
	fl.count("ISOSpeedRatings", uint64(r.ISOSpeedRatings))
	fl.float("ShutterSpeedValue", r.ShutterSpeedValue)
	fl.float("ApertureValue", r.ApertureValue)
	fl.float("MaxAperture", r.MaxAperture)
	fl.float("BrightnessValue", r.BrightnessValue)
	fl.float("ExposureBiasValue", r.ExposureBiasValue)
	fl.float("SubjectDistance", r.SubjectDistance)
	fl.float("FocalLength", r.FocalLength)
	fl.count("Flash", uint64(r.Flash))
	fl.count("MeteringMode", uint64(r.MeteringMode))
	fl.count("LightSource", uint64(r.LightSource))
	fl.count("ColorSpace", uint64(r.ColorSpace))
	fl.count("SceneType", uint64(r.SceneType))
	fl.count("ExposureMode", uint64(r.ExposureMode))
	fl.count("WhiteBalance", uint64(r.WhiteBalance))
	fl.count("SceneCaptureType", uint64(r.CaptureType))
	fl.count("ComponentsConfiguration", uint64(r.ComponentConfig))
	fl.count("YCbCrPositioning", uint64(r.YCCPositioning))
	fl.count("SensingMethod", uint64(r.SensingMethod))
	if n := int(r.SubjectAreas); n > 0 {
		if n > len(r.SubjectArea) {
			n = len(r.SubjectArea)
		}
		parts := make([]string, n)
		for i := range parts {
			parts[i] = strconv.Itoa(int(r.SubjectArea[i]))
		}
		fl.add("SubjectArea", strings.Join(parts, " "), "")
	}
	switch r.ProjectionType {
	case 1:
		fl.add("ProjectionType", "perspective", "1")
	case 2:
		fl.add("ProjectionType", "equirectangular", "2")
	}
}

// version renders a 4-byte version such as "0230" as "2.30".
func version(v uint32) string {
	b := []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	if b[0] > '9' || b[0] < '0' {
		// stored little-endian
		b[0], b[1], b[2], b[3] = b[3], b[2], b[1], b[0]
	}
	s := strings.TrimLeft(string(b[:2]), "0")
	if s == "" {
		s = "0"
	}
	return s + "." + string(b[2:])
}

func (fl *flattener) gps() {
	g := &fl.rec.GeoLocation
	fl.cat = "GPS"
	if g.HasLatLon() {
		fl.add("Latitude", strconv.FormatFloat(g.Latitude, 'f', 7, 64), dms(g.LatComponents))
		fl.add("Longitude", strconv.FormatFloat(g.Longitude, 'f', 7, 64), dms(g.LonComponents))
	}
	fl.signed("Altitude", g.Altitude)
	fl.text("GPSMapDatum", g.GPSMapDatum)
	fl.text("GPSDateStamp", g.GPSDateStamp)
	fl.text("GPSTimeStamp", g.GPSTimeStamp)
	fl.float("GPSDOP", g.GPSDOP)
	fl.count("GPSDifferential", uint64(g.GPSDifferential))
}

func dms(c exif.Coord) string {
	if c.Degrees == exif.Unset {
		return ""
	}
	return fmt.Sprintf("%g° %g' %g\" %c", c.Degrees, c.Minutes, c.Seconds, c.Direction)
}

func (fl *flattener) lens() {
	l := &fl.rec.LensInfo
	fl.cat = "Lens"
	fl.text("LensMake", l.Make)
	fl.text("LensModel", l.Model)
	fl.float("FStopMin", l.FStopMin)
	fl.float("FStopMax", l.FStopMax)
	fl.float("FocalLengthMin", l.FocalLengthMin)
	fl.float("FocalLengthMax", l.FocalLengthMax)
	fl.float("DigitalZoomRatio", l.DigitalZoomRatio)
	fl.float("FocalLengthIn35mm", l.FocalLengthIn35mm)
	fl.float("FocalPlaneXResolution", l.FocalPlaneXResolution)
	fl.float("FocalPlaneYResolution", l.FocalPlaneYResolution)
	fl.count("FocalPlaneResolutionUnit", uint64(l.FocalPlaneResolutionUnit))
}

func (fl *flattener) drone() {
	r := fl.rec
	g := &r.GeoLocation
	fl.cat = "Drone"
	fl.signed("RelativeAltitude", g.RelativeAltitude)
	fl.signed("RollDegree", g.RollDegree)
	fl.signed("PitchDegree", g.PitchDegree)
	fl.signed("YawDegree", g.YawDegree)
	fl.signed("SpeedX", g.SpeedX)
	fl.signed("SpeedY", g.SpeedY)
	fl.signed("SpeedZ", g.SpeedZ)
	fl.float("AccuracyXY", g.AccuracyXY)
	fl.float("AccuracyZ", g.AccuracyZ)
	fl.float("CalibratedFocalLength", r.Calibration.FocalLength)
	fl.float("CalibratedOpticalCenterX", r.Calibration.OpticalCenterX)
	fl.float("CalibratedOpticalCenterY", r.Calibration.OpticalCenterY)
	fl.signed("PosePitchDegrees", r.GPano.PosePitchDegrees)
	fl.signed("PoseRollDegrees", r.GPano.PoseRollDegrees)
	if mv := r.MicroVideo; mv.HasMicroVideo != 0 {
		fl.count("MicroVideoVersion", uint64(mv.MicroVideoVersion))
		fl.count("MicroVideoOffset", uint64(mv.MicroVideoOffset))
	}
}

// xmp lists every captured XMP property in descriptor order. Properties
// that share a name are told apart by their parent.
func (fl *flattener) xmp() {
	fl.cat = "XMP"
	for _, d := range xmp.Descriptors() {
		key := d.Name
		if d.Parent != "" {
			key = d.Parent + "/" + d.Name
		}
		if t := *d.Field(&fl.rec.XMP); d.List {
			fl.list(key, t)
		} else {
			fl.text(key, t)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Edit
// ──────────────────────────────────────────────────────────────────────────────

// editableFields are the EXIF tags Edit can write.
var editableFields = map[string]uint16{
	"DateTimeOriginal": 0x9003,
	"ImageDescription": 0x010E,
}

func (h *Handler) Edit(path string, outPath string, opts core.EditOptions) error {
	if err := h.supported(); err != nil {
		return err
	}
	for k := range opts.Set {
		if _, ok := editableFields[k]; !ok {
			return errors.Errorf("field %q cannot be edited; supported: %s",
				k, strings.Join(core.SortedKeys(editableFields), ", "))
		}
	}
	date, ok := opts.Set["DateTimeOriginal"]
	if !ok {
		return errors.New("DateTimeOriginal is required: a new EXIF block always carries it")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if opts.Replace {
		if data, err = stripKinds(data, map[jpeg.Kind]bool{jpeg.KindEXIF: true}); err != nil {
			return errors.Wrapf(err, "strip EXIF from %s", path)
		}
	}
	out, err := jpeg.Inject(data, date, opts.Set["ImageDescription"])
	if err != nil {
		if errors.Is(err, jpeg.ErrExifPresent) {
			return errors.Wrapf(err, "%s (use -replace to overwrite it)", path)
		}
		return errors.Wrapf(err, "inject into %s", path)
	}

	if opts.DryRun {
		h.out.Println("Dry-run: JPEG EXIF would be written with:")
		for _, k := range core.SortedKeys(opts.Set) {
			h.out.Printf("  %s = %s", k, opts.Set[k])
		}
		return nil
	}
	return os.WriteFile(core.ResolveOutPath(path, outPath), out, 0644)
}

// ──────────────────────────────────────────────────────────────────────────────
// Strip
// ──────────────────────────────────────────────────────────────────────────────

var kindByName = map[string]jpeg.Kind{
	"exif":    jpeg.KindEXIF,
	"xmp":     jpeg.KindXMP,
	"icc":     jpeg.KindICC,
	"iptc":    jpeg.KindIPTC,
	"comment": jpeg.KindComment,
}

func (h *Handler) Strip(path string, outPath string, opts core.StripOptions) error {
	if err := h.supported(); err != nil {
		return err
	}
	drop := map[jpeg.Kind]bool{}
	for _, k := range kindByName {
		drop[k] = true
	}
	for _, name := range opts.KeepFields {
		k, ok := kindByName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return errors.Errorf("unknown metadata kind %q; known: %s",
				name, strings.Join(core.SortedKeys(kindByName), ", "))
		}
		delete(drop, k)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if opts.DryRun {
		segs, err := jpeg.Split(data)
		if err != nil {
			return errors.Wrapf(err, "read %s", path)
		}
		h.out.Println("Dry-run: would remove:")
		for _, s := range segs {
			if drop[s.Kind()] {
				h.out.Printf("  %s %s (%d bytes)", s.Marker, s.Kind(), len(s.Data))
			}
		}
		return nil
	}
	out, err := stripKinds(data, drop)
	if err != nil {
		return errors.Wrapf(err, "strip %s", path)
	}
	return os.WriteFile(core.ResolveOutPath(path, outPath), out, 0644)
}

// stripKinds removes every segment whose kind is in drop.
func stripKinds(data []byte, drop map[jpeg.Kind]bool) ([]byte, error) {
	segs, err := jpeg.Split(data)
	if err != nil {
		return nil, err
	}
	kept := segs[:0]
	for _, s := range segs {
		if !drop[s.Kind()] {
			kept = append(kept, s)
		}
	}
	return jpeg.Join(kept)
}
