package jpg

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// canonJPEG holds IFD0 with Make "Canon" (offset) and Model "EOS" (inline).
func canonJPEG() []byte {
	var tiff bytes.Buffer
	be := func(v any) { binary.Write(&tiff, binary.BigEndian, v) }
	tiff.WriteString("MM")
	be(uint16(0x2A))
	be(uint32(8))
	be(uint16(2))
	be([]uint16{0x010F, 2})
	be(uint32(6))
	be(uint32(8 + 2 + 2*12 + 4))
	be([]uint16{0x0110, 2})
	be(uint32(4))
	tiff.WriteString("EOS\x00")
	be(uint32(0))
	tiff.WriteString("Canon\x00")

	body := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	out := []byte{0xFF, 0xD8, 0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(out[4:], uint16(len(body)+2))
	out = append(out, body...)
	return append(out, 0xFF, 0xD9)
}

func TestWalk(t *testing.T) {
	fields, err := Walk(bytes.NewReader(canonJPEG()))
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, f := range fields {
		got[f.Key] = f.Value
		if f.Category != "Raw" || f.Raw == "" {
			t.Errorf("%s: category %q raw %q", f.Key, f.Category, f.Raw)
		}
	}
	if d := cmp.Diff(map[string]string{"Make": "Canon", "Model": "EOS"}, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}
}

func TestWalkWithoutExif(t *testing.T) {
	if _, err := Walk(bytes.NewReader([]byte{0xFF, 0xD8, 0xFF, 0xD9})); err == nil {
		t.Error("Walk() found EXIF in an empty JPEG")
	}
}
