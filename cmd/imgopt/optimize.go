package main

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
)

// Options configures one run.
type Options struct {
	Dir         string
	OutDir      string
	Write       bool
	MaxWidth    int
	MaxHeight   int
	JPEGQuality int
}

// FileResult is the outcome for one image. After is zero on a dry run or
// when the file could not be processed.
type FileResult struct {
	Name   string
	Before int64
	After  int64
	Width  int
	Height int
	Err    error
}

// Report collects per-file results in name order.
type Report struct {
	Files []FileResult
}

// Totals sums the sizes of every file that was processed without error.
func (r Report) Totals() (before, after int64) {
	for _, f := range r.Files {
		before += f.Before
		after += f.After
	}
	return before, after
}

// Print writes a human readable table to w.
func (r Report) Print(w io.Writer) {
	for _, f := range r.Files {
		switch {
		case f.Err != nil:
			fmt.Fprintf(w, "%-50s %10s  error: %v\n", f.Name, humanize.Bytes(uint64(f.Before)), f.Err)
		case f.After > 0:
			fmt.Fprintf(w, "%-50s %10s -> %10s  %dx%d\n", f.Name,
				humanize.Bytes(uint64(f.Before)), humanize.Bytes(uint64(f.After)), f.Width, f.Height)
		default:
			fmt.Fprintf(w, "%-50s %10s\n", f.Name, humanize.Bytes(uint64(f.Before)))
		}
	}
	before, after := r.Totals()
	fmt.Fprintf(w, "%d files, %s", len(r.Files), humanize.Bytes(uint64(before)))
	if after > 0 {
		fmt.Fprintf(w, " -> %s", humanize.Bytes(uint64(after)))
	}
	fmt.Fprintln(w)
}

// encodable lists the formats imaging can both decode and encode.
var encodable = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Run walks opts.Dir (non-recursively) and reports every image in it. With
// opts.Write each image is fitted inside MaxWidth x MaxHeight, never
// upscaled, and saved under the same name in opts.OutDir. A file that fails
// to decode is recorded and skipped; only directory errors abort the run.
func Run(opts Options, log *slog.Logger) (Report, error) {
	entries, err := os.ReadDir(opts.Dir)
	if err != nil {
		return Report{}, fmt.Errorf("imgopt.Run: %w", err)
	}
	if opts.Write {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return Report{}, fmt.Errorf("imgopt.Run: %w", err)
		}
	}

	var report Report
	for _, e := range entries {
		if e.IsDir() || !encodable[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return Report{}, fmt.Errorf("imgopt.Run: %w", err)
		}
		res := FileResult{Name: e.Name(), Before: info.Size()}
		if opts.Write {
			res = optimize(opts, res)
			if res.Err != nil {
				log.Warn("skipping image", "file", res.Name, "error", res.Err)
			}
		}
		report.Files = append(report.Files, res)
	}
	sort.Slice(report.Files, func(i, j int) bool { return report.Files[i].Name < report.Files[j].Name })
	return report, nil
}

func optimize(opts Options, res FileResult) FileResult {
	img, err := imaging.Open(filepath.Join(opts.Dir, res.Name), imaging.AutoOrientation(true))
	if err != nil {
		res.Err = err
		return res
	}
	fitted := imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)

	dst := filepath.Join(opts.OutDir, res.Name)
	if err := imaging.Save(fitted, dst,
		imaging.JPEGQuality(opts.JPEGQuality),
		imaging.PNGCompressionLevel(png.BestCompression),
	); err != nil {
		res.Err = err
		return res
	}
	info, err := os.Stat(dst)
	if err != nil {
		res.Err = err
		return res
	}
	res.After = info.Size()
	b := fitted.Bounds()
	res.Width, res.Height = b.Dx(), b.Dy()
	return res
}
