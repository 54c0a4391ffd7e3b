// Command surgery views, edits and strips JPEG metadata.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/ankit-chaubey/exif-surgery/core"
	"github.com/ankit-chaubey/exif-surgery/core/image"
	"github.com/ankit-chaubey/exif-surgery/core/jpeg"
	"github.com/ankit-chaubey/exif-surgery/core/jpg"
)

const usage = `Usage: surgery <command> [flags] <file>

Commands:
  view    decoded EXIF, GPS, drone and XMP fields
  raw     every EXIF tag as read by goexif
  inject  write DateTimeOriginal and ImageDescription
  strip   remove metadata segments
  info    format capabilities

Run 'surgery <command> -h' for the flags of a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		core.PrintError(err.Error())
		os.Exit(1)
	}
}

func run(cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "print JSON")
	verbose := fs.Bool("verbose", false, "show raw values and trace decoding on stderr")
	var (
		out     *string
		date    *string
		desc    *string
		replace *bool
		dryRun  *bool
		keep    *string
		arena   *int
		summary *bool
	)
	switch cmd {
	case "view":
		arena = fs.Int("arena", 0, "string arena size in bytes (0 = 64 KiB)")
		summary = fs.Bool("s", false, "print a one-line summary")
	case "raw", "info":
	case "inject":
		out = fs.String("o", "", "output file (default: edit in place)")
		date = fs.String("date", "", `DateTimeOriginal, "YYYY:MM:DD HH:MM:SS" (default: now)`)
		desc = fs.String("desc", "", "ImageDescription")
		replace = fs.Bool("replace", false, "replace an existing EXIF block")
		dryRun = fs.Bool("n", false, "dry run")
	case "strip":
		out = fs.String("o", "", "output file (default: edit in place)")
		keep = fs.String("keep", "", "comma-separated kinds to keep: exif,xmp,icc,iptc,comment")
		dryRun = fs.Bool("n", false, "dry run")
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
		return nil
	default:
		return errors.Errorf("unknown command %q", cmd)
	}
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one file")
	}
	file := fs.Arg(0)
	p := core.NewPrinter(*jsonOut, *verbose)

	format, err := core.DetectFormat(file)
	if err != nil {
		return err
	}
	h := image.New(format)
	if cmd == "info" {
		p.PrintFormatInfo(h.Info())
		return nil
	}
	if format != core.FmtJPEG {
		return errors.Errorf("%s: %s files are not supported, only JPEG", file, h.Info().Name)
	}

	switch cmd {
	case "view":
		opts := jpeg.Options{ArenaSize: *arena}
		if *verbose {
			opts.Logger = log.New(os.Stderr, "trace: ", 0)
		}
		m, err := h.WithOptions(opts).View(file)
		if err != nil {
			return err
		}
		if *summary {
			p.PrintInfo(m.Summary())
			return nil
		}
		p.PrintMetadata(m)

	case "raw":
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		fields, err := jpg.Walk(f)
		if err != nil {
			return errors.Wrapf(err, "%s", file)
		}
		p.PrintMetadata(&core.Metadata{FilePath: file, Format: "JPEG", Fields: fields})

	case "inject":
		d := *date
		if d == "" {
			d = jpeg.FormatDateTime(timeNow())
		}
		err := h.Edit(file, *out, core.EditOptions{
			Set:     map[string]string{"DateTimeOriginal": d, "ImageDescription": *desc},
			Replace: *replace,
			DryRun:  *dryRun,
		})
		if err != nil {
			return err
		}
		if !*dryRun {
			p.PrintSuccess("EXIF written to " + core.ResolveOutPath(file, *out))
		}

	case "strip":
		var kinds []string
		if *keep != "" {
			kinds = strings.Split(*keep, ",")
		}
		if err := h.Strip(file, *out, core.StripOptions{KeepFields: kinds, DryRun: *dryRun}); err != nil {
			return err
		}
		if !*dryRun {
			p.PrintSuccess("metadata stripped from " + core.ResolveOutPath(file, *out))
		}
	}
	return nil
}
