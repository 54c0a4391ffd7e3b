// Package jpeg finds the metadata segments of a JPEG stream and writes
// new EXIF segments into one.
package jpeg

import "fmt"

// Marker is the byte following 0xFF in a JPEG marker.
type Marker byte

// Prefix opens every marker. Runs of it are fill bytes.
const Prefix = 0xFF

const (
	SOF0  Marker = 0xC0
	SOF1  Marker = 0xC1
	SOF2  Marker = 0xC2
	SOF3  Marker = 0xC3
	DHT   Marker = 0xC4
	SOF5  Marker = 0xC5
	SOF6  Marker = 0xC6
	SOF7  Marker = 0xC7
	JPG   Marker = 0xC8
	SOF9  Marker = 0xC9
	SOF10 Marker = 0xCA
	SOF11 Marker = 0xCB
	DAC   Marker = 0xCC
	SOF13 Marker = 0xCD
	SOF14 Marker = 0xCE
	SOF15 Marker = 0xCF
	RST0  Marker = 0xD0
	RST7  Marker = 0xD7
	SOI   Marker = 0xD8
	EOI   Marker = 0xD9
	SOS   Marker = 0xDA
	DQT   Marker = 0xDB
	DNL   Marker = 0xDC
	DRI   Marker = 0xDD
	DHP   Marker = 0xDE
	EXP   Marker = 0xDF
	APP0  Marker = 0xE0
	APP1  Marker = 0xE1 // EXIF and XMP
	APP2  Marker = 0xE2 // ICC profile
	APP13 Marker = 0xED // IPTC
	APP14 Marker = 0xEE
	APP15 Marker = 0xEF
	JPG0  Marker = 0xF0
	JPG13 Marker = 0xFD
	COM   Marker = 0xFE
)

var markerNames = map[Marker]string{
	SOF0: "SOF0", SOF1: "SOF1", SOF2: "SOF2", SOF3: "SOF3",
	DHT: "DHT", SOF5: "SOF5", SOF6: "SOF6", SOF7: "SOF7",
	JPG: "JPG", SOF9: "SOF9", SOF10: "SOF10", SOF11: "SOF11",
	DAC: "DAC", SOF13: "SOF13", SOF14: "SOF14", SOF15: "SOF15",
	SOI: "SOI", EOI: "EOI", SOS: "SOS", DQT: "DQT",
	DNL: "DNL", DRI: "DRI", DHP: "DHP", EXP: "EXP",
	COM: "COM",
}

// Name returns the conventional mnemonic, e.g. "APP1" or "RST3".
func (m Marker) Name() string {
	switch {
	case m >= RST0 && m <= RST7:
		return fmt.Sprintf("RST%d", m-RST0)
	case m >= APP0 && m <= APP15:
		return fmt.Sprintf("APP%d", m-APP0)
	case m >= JPG0 && m <= JPG13:
		return fmt.Sprintf("JPG%d", m-JPG0)
	}
	if s, ok := markerNames[m]; ok {
		return s
	}
	return fmt.Sprintf("0x%02X", byte(m))
}

func (m Marker) String() string { return m.Name() }

// Standalone reports whether the marker has no length field: the restart
// markers, SOI, and the reserved codes 0x00 and 0x01.
func (m Marker) Standalone() bool {
	return m == 0x00 || m == 0x01 || m == SOI || (m >= RST0 && m <= RST7)
}

// Metadata reports whether segments with this marker carry metadata
// rather than image data.
func (m Marker) Metadata() bool {
	return m == APP1 || m == APP2 || m == APP13 || m == COM
}
