// Package jpg dumps every EXIF tag of a JPEG with the goexif reader. It is
// independent of the streaming codec and serves as its cross-check.
package jpg

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"github.com/ankit-chaubey/exif-surgery/core"
)

// Walk decodes the EXIF block in r and returns one field per tag, sorted by
// name. Non-string values use goexif's own rendering.
func Walk(r io.Reader) ([]core.MetaField, error) {
	x, err := exif.Decode(r)
	if err != nil && exif.IsCriticalError(err) {
		return nil, errors.Wrap(err, "no EXIF metadata found")
	}

	w := &walker{}
	if err := x.Walk(w); err != nil {
		return nil, err
	}
	sort.Slice(w.fields, func(i, j int) bool { return w.fields[i].Key < w.fields[j].Key })
	return w.fields, nil
}

type walker struct {
	fields []core.MetaField
}

func (w *walker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	f := core.MetaField{
		Key:      string(name),
		Category: "Raw",
		Raw:      fmt.Sprintf("id=0x%04X type=%d count=%d", tag.Id, tag.Type, tag.Count),
	}
	if tag.Format() == tiff.StringVal {
		s, err := tag.StringVal()
		if err == nil {
			f.Value = s
		}
	}
	if f.Value == "" {
		f.Value = tag.String()
	}
	w.fields = append(w.fields, f)
	return nil
}
