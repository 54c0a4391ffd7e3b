package tiff

import (
	"bytes"
	"math"

	"github.com/ankit-chaubey/exif-surgery/core/xmp"
)

// Tags decoded from IFD0 and the EXIF sub-IFD.
const (
	TagBitsPerSample      = 0x0102
	TagImageDescription   = 0x010E
	TagMake               = 0x010F
	TagModel              = 0x0110
	TagOrientation        = 0x0112
	TagXResolution        = 0x011A
	TagYResolution        = 0x011B
	TagResolutionUnit     = 0x0128
	TagSoftware           = 0x0131
	TagDateTime           = 0x0132
	TagArtist             = 0x013B
	TagYCbCrPositioning   = 0x0213
	TagXMP                = 0x02BC
	TagRelatedImageWidth  = 0x1001
	TagRelatedImageHeight = 0x1002
	TagCopyright          = 0x8298
	TagExposureTime       = 0x829A
	TagFNumber            = 0x829D
	TagExifIFD            = 0x8769
	TagExposureProgram    = 0x8822
	TagGPSIFD             = 0x8825
	TagISOSpeed           = 0x8827

	TagExifVersion              = 0x9000
	TagDateTimeOriginal         = 0x9003
	TagDateTimeDigitized        = 0x9004
	TagOffsetTimeOriginal       = 0x9011
	TagComponentConfig          = 0x9101
	TagShutterSpeed             = 0x9201
	TagAperture                 = 0x9202
	TagBrightness               = 0x9203
	TagExposureBias             = 0x9204
	TagMaxAperture              = 0x9205
	TagSubjectDistance          = 0x9206
	TagMeteringMode             = 0x9207
	TagLightSource              = 0x9208
	TagFlash                    = 0x9209
	TagFocalLength              = 0x920A
	TagSubjectArea              = 0x9214
	TagMakerNote                = 0x927C
	TagUserComment              = 0x9286
	TagSubSecTimeOriginal       = 0x9291
	TagFlashPixVersion          = 0xA000
	TagColorSpace               = 0xA001
	TagPixelXDimension          = 0xA002
	TagPixelYDimension          = 0xA003
	TagFocalPlaneXResolution    = 0xA20E
	TagFocalPlaneYResolution    = 0xA20F
	TagFocalPlaneResolutionUnit = 0xA210
	TagExposureIndex            = 0xA215
	TagSensingMethod            = 0xA217
	TagSceneType                = 0xA301
	TagExposureMode             = 0xA402
	TagWhiteBalance             = 0xA403
	TagDigitalZoomRatio         = 0xA404
	TagFocalLengthIn35mm        = 0xA405
	TagSceneCaptureType         = 0xA406
	TagBodySerialNumber         = 0xA431
	TagLensSpecification        = 0xA432
	TagLensMake                 = 0xA433
	TagLensModel                = 0xA434
)

// image handles an IFD0 entry. Tags it does not know are retried as EXIF
// tags, since some writers put those in IFD0.
func (w *walker) image(e Entry) {
	r := w.rec
	switch e.Tag {
	case TagBitsPerSample:
		w.u16(e, &r.BitsPerSample)
	case TagImageDescription:
		w.str(e, &r.ImageDescription)
	case TagMake:
		w.str(e, &r.Make)
	case TagModel:
		w.str(e, &r.Model)
	case TagOrientation:
		w.u16(e, &r.Orientation)
	case TagXResolution:
		w.rational(e, &r.XResolution)
	case TagYResolution:
		w.rational(e, &r.YResolution)
	case TagResolutionUnit:
		w.u16(e, &r.ResolutionUnit)
	case TagSoftware:
		w.str(e, &r.Software)
	case TagDateTime:
		// "YYYY:MM:DD HH:MM:SS"
		w.str(e, &r.DateTime)
	case TagRelatedImageWidth:
		w.u32or16(e, &r.RelatedImageWidth)
	case TagRelatedImageHeight:
		w.u32or16(e, &r.RelatedImageHeight)
	case TagCopyright:
		w.str(e, &r.Copyright)
	case TagExifIFD:
		w.exifIFD = w.subIFD(e)
	case TagGPSIFD:
		w.gpsIFD = w.subIFD(e)
	default:
		w.exif(e)
	}
}

// exif handles an EXIF sub-IFD entry.
func (w *walker) exif(e Entry) {
	r := w.rec
	switch e.Tag {
	case TagXMP:
		r.HasXMP = true
		if e.Type != UNDEFINED && e.Type != BYTE {
			break
		}
		if b := w.data(e); b != nil {
			if i := bytes.IndexByte(b, 0); i >= 0 {
				b = b[:i]
			}
			if err := xmp.Parse(r, b, w.log); err != nil {
				w.tracef("tiff: embedded XMP: %v", err)
			}
		}
	case TagExposureTime:
		w.rational(e, &r.ExposureTime)
	case TagFNumber:
		w.rational(e, &r.FNumber)
	case TagExposureProgram:
		w.u16(e, &r.ExposureProgram)
	case TagISOSpeed:
		w.u16(e, &r.ISOSpeedRatings)
	case TagDateTimeOriginal:
		w.str(e, &r.DateTimeOriginal)
	case TagDateTimeDigitized:
		w.str(e, &r.DateTimeDigitized)
	case TagShutterSpeed:
		// APEX Tv: exposure = 1/2^Tv
		var v float64
		if w.rational(e, &v) {
			r.ShutterSpeedValue = 1 / math.Exp(v*math.Ln2)
		}
	case TagAperture:
		// APEX Av: f-number = 2^(Av/2)
		var v float64
		if w.rational(e, &v) {
			r.ApertureValue = math.Exp(v * math.Ln2 * 0.5)
		}
	case TagBrightness:
		w.rational(e, &r.BrightnessValue)
	case TagExposureBias:
		w.rational(e, &r.ExposureBiasValue)
	case TagSubjectDistance:
		w.rational(e, &r.SubjectDistance)
	case TagMeteringMode:
		w.u16(e, &r.MeteringMode)
	case TagLightSource:
		w.u16(e, &r.LightSource)
	case TagFlash:
		w.u16(e, &r.Flash)
	case TagFocalLength:
		w.rational(e, &r.FocalLength)
	case TagSubjectArea:
		if e.Type == SHORT && e.Count > 1 {
			n := min(e.Count, uint32(len(r.SubjectArea)))
			r.SubjectAreas = uint16(n)
			for i := uint32(0); i < n; i++ {
				w.u16At(e, &r.SubjectArea[i], i)
			}
		}
	case TagMakerNote:
		w.makerNote(e)
	case TagUserComment:
		w.userComment(e, &r.UserComment)
	case TagSubSecTimeOriginal:
		w.str(e, &r.SubSecTimeOriginal)
	case TagPixelXDimension:
		w.u32or16(e, &r.ImageWidth)
	case TagPixelYDimension:
		w.u32or16(e, &r.ImageHeight)
	case TagFocalPlaneXResolution:
		w.rational(e, &r.LensInfo.FocalPlaneXResolution)
	case TagFocalPlaneYResolution:
		w.rational(e, &r.LensInfo.FocalPlaneYResolution)
	case TagFocalPlaneResolutionUnit:
		w.u16(e, &r.LensInfo.FocalPlaneResolutionUnit)
	case TagExposureIndex:
		// used as ISO when no ISO speed was written
		var v float64
		if r.ISOSpeedRatings == 0 && w.rational(e, &v) && v >= 0 && v <= math.MaxUint16 {
			r.ISOSpeedRatings = uint16(v)
		}
	case TagDigitalZoomRatio:
		w.rational(e, &r.LensInfo.DigitalZoomRatio)
	case TagFocalLengthIn35mm:
		if !w.rational(e, &r.LensInfo.FocalLengthIn35mm) {
			var v uint16
			if w.u16(e, &v) {
				r.LensInfo.FocalLengthIn35mm = float64(v)
			}
		}
	case TagBodySerialNumber:
		w.str(e, &r.SerialNumber)
	case TagLensSpecification:
		l := &r.LensInfo
		_ = w.rationalAt(e, &l.FocalLengthMin, 0) &&
			w.rationalAt(e, &l.FocalLengthMax, 1) &&
			w.rationalAt(e, &l.FStopMin, 2) &&
			w.rationalAt(e, &l.FStopMax, 3)
	case TagLensMake:
		w.str(e, &r.LensInfo.Make)
	case TagLensModel:
		w.str(e, &r.LensInfo.Model)
	case TagArtist:
		w.str(e, &r.Artist)
	case TagExifVersion:
		w.version(e, &r.ExifVersion)
	case TagMaxAperture:
		w.rational(e, &r.MaxAperture)
	case TagColorSpace:
		w.u16(e, &r.ColorSpace)
	case TagSensingMethod:
		w.u16(e, &r.SensingMethod)
	case TagSceneType:
		w.u16(e, &r.SceneType)
	case TagExposureMode:
		w.u16(e, &r.ExposureMode)
	case TagWhiteBalance:
		w.u16(e, &r.WhiteBalance)
	case TagSceneCaptureType:
		w.u16(e, &r.CaptureType)
	case TagYCbCrPositioning:
		w.u16(e, &r.YCCPositioning)
	case TagOffsetTimeOriginal:
		w.str(e, &r.OffsetTimeOriginal)
	case TagComponentConfig:
		w.u16(e, &r.ComponentConfig)
	case TagFlashPixVersion:
		w.version(e, &r.FlashPixVersion)
	default:
		w.tracef("tiff: skip tag 0x%04X (%s, count %d)", e.Tag, e.Type.Name(), e.Count)
	}
}
