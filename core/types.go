// Package core defines the shared types, interfaces, and format registry
// for EXIF Surgery.
package core

import "strings"

// MetaField represents a single metadata key-value pair.
type MetaField struct {
	Key      string // Canonical field name (e.g. "Make", "DateTimeOriginal")
	Value    string // String representation of the value
	Category string // Category label (e.g. "EXIF", "GPS", "XMP")
	Editable bool   // Whether this field can be written back by surgery
	Raw      string // Raw / hex representation if different from Value
}

// Metadata holds all metadata extracted from a single file.
type Metadata struct {
	FilePath string
	Format   string // Human-readable format name (e.g. "JPEG")
	Fields   []MetaField
	// Notes carries soft warnings from the decoder, such as a full string
	// arena.
	Notes []string
}

// Summary returns a one-line digest: camera, capture time and title,
// whichever are present.
func (m *Metadata) Summary() string {
	var parts []string
	for _, key := range []string{"Make", "Model", "DateTimeOriginal", "dc:title"} {
		if v, ok := m.Get(key); ok && v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return m.FilePath + ": no metadata"
	}
	return m.FilePath + ": " + strings.Join(parts, ", ")
}

// Get returns the value of the first field named key.
func (m *Metadata) Get(key string) (string, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// StripOptions controls which parts of metadata to remove.
type StripOptions struct {
	// KeepFields lists metadata kinds that should NOT be removed:
	// "exif", "xmp", "icc", "iptc" or "comment".
	// If empty, all metadata is stripped.
	KeepFields []string
	// DryRun lists what would be removed without writing.
	DryRun bool
}

// EditOptions holds field changes for an edit operation.
type EditOptions struct {
	// Set is a map of Key → Value for fields to set.
	Set map[string]string
	// Replace removes an existing EXIF block before writing the new one.
	// Without it, editing a file that already has EXIF fails.
	Replace bool
	// DryRun previews changes without writing.
	DryRun bool
}

// FormatInfo describes what a format handler supports.
type FormatInfo struct {
	Name           string   // "JPEG"
	Extensions     []string // [".jpg", ".jpeg"]
	MIMETypes      []string
	CanView        bool
	CanEdit        bool
	CanStrip       bool
	EditableFields []string // Names of fields the handler can write
	Notes          string   // Any caveats or notes
}

// Handler is the interface every format must implement.
type Handler interface {
	// View reads and returns all discoverable metadata from path.
	View(path string) (*Metadata, error)
	// Edit writes new/updated fields into path, saving to outPath.
	// outPath == "" means in-place edit.
	Edit(path string, outPath string, opts EditOptions) error
	// Strip removes metadata from path, saving to outPath.
	Strip(path string, outPath string, opts StripOptions) error
	// Info returns format capabilities.
	Info() FormatInfo
}
