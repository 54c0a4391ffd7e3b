package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

// Printer handles all display output for the CLI.
type Printer struct {
	JSON    bool
	Verbose bool
	Writer  io.Writer
}

// NewPrinter creates a default Printer writing to stdout.
func NewPrinter(jsonMode, verbose bool) *Printer {
	return &Printer{JSON: jsonMode, Verbose: verbose, Writer: os.Stdout}
}

// Group splits fields by category, keeping categories in first-seen order.
func Group(fields []MetaField) (order []string, groups map[string][]MetaField) {
	groups = make(map[string][]MetaField)
	for _, f := range fields {
		if _, ok := groups[f.Category]; !ok {
			order = append(order, f.Category)
		}
		groups[f.Category] = append(groups[f.Category], f)
	}
	return order, groups
}

// PrintMetadata renders a Metadata struct to the configured output.
func (p *Printer) PrintMetadata(m *Metadata) {
	if p.JSON {
		p.printJSON(m)
		return
	}
	p.printText(m)
}

func (p *Printer) printText(m *Metadata) {
	fmt.Fprintf(p.Writer, "File  : %s\n", m.FilePath)
	fmt.Fprintf(p.Writer, "Format: %s\n", m.Format)
	for _, n := range m.Notes {
		fmt.Fprintf(p.Writer, "Note  : %s\n", n)
	}
	if len(m.Fields) == 0 {
		fmt.Fprintln(p.Writer, "(no metadata found)")
		return
	}
	fmt.Fprintln(p.Writer)

	order, groups := Group(m.Fields)
	for _, cat := range order {
		fmt.Fprintf(p.Writer, "── %s ──\n", cat)
		for _, f := range groups[cat] {
			edit := ""
			if f.Editable {
				edit = " [editable]"
			}
			fmt.Fprintf(p.Writer, "  %-30s %s%s\n", f.Key+":", f.Value, edit)
			if p.Verbose && f.Raw != "" && f.Raw != f.Value {
				fmt.Fprintf(p.Writer, "  %-30s %s\n", "", f.Raw)
			}
		}
		fmt.Fprintln(p.Writer)
	}
}

type jsonField struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Category string `json:"category"`
	Editable bool   `json:"editable"`
	Raw      string `json:"raw,omitempty"`
}

type jsonOutput struct {
	FilePath   string                 `json:"file"`
	Format     string                 `json:"format"`
	Notes      []string               `json:"notes,omitempty"`
	Categories []string               `json:"categories"`
	Fields     map[string][]jsonField `json:"fields"`
}

func (p *Printer) printJSON(m *Metadata) {
	out := jsonOutput{
		FilePath: m.FilePath,
		Format:   m.Format,
		Notes:    m.Notes,
		Fields:   make(map[string][]jsonField),
	}
	_, groups := Group(m.Fields)
	out.Categories = maps.Keys(groups)
	slices.Sort(out.Categories)
	for cat, fs := range groups {
		for _, f := range fs {
			jf := jsonField{
				Key:      f.Key,
				Value:    f.Value,
				Category: f.Category,
				Editable: f.Editable,
			}
			if p.Verbose {
				jf.Raw = f.Raw
			}
			out.Fields[cat] = append(out.Fields[cat], jf)
		}
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Fprintln(p.Writer, string(b))
}

// PrintFormatInfo renders a handler's capabilities.
func (p *Printer) PrintFormatInfo(info FormatInfo) {
	if p.JSON {
		b, _ := json.MarshalIndent(info, "", "  ")
		fmt.Fprintln(p.Writer, string(b))
		return
	}
	yes := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	fmt.Fprintf(p.Writer, "Format    : %s\n", info.Name)
	fmt.Fprintf(p.Writer, "Extensions: %s\n", strings.Join(info.Extensions, ", "))
	fmt.Fprintf(p.Writer, "MIME      : %s\n", strings.Join(info.MIMETypes, ", "))
	fmt.Fprintf(p.Writer, "View      : %s\n", yes(info.CanView))
	fmt.Fprintf(p.Writer, "Edit      : %s\n", yes(info.CanEdit))
	fmt.Fprintf(p.Writer, "Strip     : %s\n", yes(info.CanStrip))
	if len(info.EditableFields) > 0 {
		fmt.Fprintf(p.Writer, "Editable  : %s\n", strings.Join(info.EditableFields, ", "))
	}
	if info.Notes != "" {
		fmt.Fprintf(p.Writer, "Notes     : %s\n", info.Notes)
	}
}

// PrintSuccess prints a success message.
func (p *Printer) PrintSuccess(msg string) {
	fmt.Fprintln(p.Writer, "✓ "+msg)
}

// PrintInfo prints an info line (suppressed in JSON mode).
func (p *Printer) PrintInfo(msg string) {
	if !p.JSON {
		fmt.Fprintln(p.Writer, msg)
	}
}

// PrintError prints an error to stderr.
func PrintError(msg string) {
	fmt.Fprintln(os.Stderr, "✗ Error: "+msg)
}

// ParseKV parses a "Key=Value" string.
func ParseKV(s string) (key, value string, ok bool) {
	k, v, found := strings.Cut(s, "=")
	if !found || strings.TrimSpace(k) == "" {
		return "", "", false
	}
	return strings.TrimSpace(k), strings.TrimSpace(v), true
}

// ResolveOutPath returns dst if non-empty, otherwise src (in-place).
func ResolveOutPath(src, dst string) string {
	if dst == "" {
		return src
	}
	return dst
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
