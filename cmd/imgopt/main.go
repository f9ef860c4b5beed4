// Command imgopt audits the guide's image directory and, with -write,
// re-encodes every JPEG and PNG so it fits a mobile-first bounding box.
//
//	imgopt -dir ./public/Images                      # report only
//	imgopt -dir ./public/Images -out ./Images-optimized -write
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

func main() {
	var opts Options
	flag.StringVar(&opts.Dir, "dir", "./public/Images", "directory holding the source images")
	flag.StringVar(&opts.OutDir, "out", "./Images-optimized", "directory optimized images are written to")
	flag.BoolVar(&opts.Write, "write", false, "re-encode images into -out instead of only reporting")
	flag.IntVar(&opts.MaxWidth, "max-width", 800, "maximum output width in pixels")
	flag.IntVar(&opts.MaxHeight, "max-height", 600, "maximum output height in pixels")
	flag.IntVar(&opts.JPEGQuality, "quality", 85, "JPEG quality (1-100)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	report, err := Run(opts, logger)
	if err != nil {
		logger.Error("imgopt failed", "error", err)
		os.Exit(1)
	}
	report.Print(os.Stdout)
	if !opts.Write {
		fmt.Println("dry run; pass -write to produce optimized copies")
	}
}
