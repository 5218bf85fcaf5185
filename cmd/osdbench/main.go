/*
DESCRIPTION
  osdbench exercises the compositor against a synthetic bitmap list
  and a blank video frame of a chosen target format, reporting the
  frame time for repeated draws. Useful as a smoke test and a rough
  throughput check for a given format/tile/worker configuration.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command osdbench is a small benchmarking and smoke-test harness for
// the compositor.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ausocean/osdcompose/compositor"
	"github.com/ausocean/osdcompose/config"
	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/mlog"
	"github.com/ausocean/osdcompose/repack"
	"github.com/ausocean/osdcompose/sbitmap"
)

var formatNames = map[string]imgfmt.ID{
	"bgra":    imgfmt.BGRA,
	"i420":    imgfmt.I420,
	"i420a":   imgfmt.I420A,
	"yuv444":  imgfmt.YUV444,
	"yuv444a": imgfmt.YUV444A,
	"gbrp":    imgfmt.GBRP,
	"gbrap":   imgfmt.GBRAP,
}

func main() {
	width := flag.Int("w", 1280, "frame width")
	height := flag.Int("h", 720, "frame height")
	format := flag.String("format", "i420", "target pixel format: bgra, i420, i420a, yuv444, yuv444a, gbrp, gbrap")
	tiles := flag.Bool("tiles", true, "convert the overlay tile by tile")
	workers := flag.Int("workers", 1, "goroutines used to blend")
	frames := flag.Int("frames", 100, "number of draws to time")
	parts := flag.Int("parts", 4, "number of synthetic mono-alpha bitmap parts per frame")
	flag.Parse()

	id, ok := formatNames[*format]
	if !ok {
		fmt.Fprintf(os.Stderr, "osdbench: unknown format %q\n", *format)
		os.Exit(2)
	}
	desc := imgfmt.MustGet(id)

	cfg := config.Config{
		ScaleInTiles: *tiles,
		Workers:      *workers,
		Logger:       mlog.New(mlog.Config{Development: true}, mlog.Info),
	}

	dst := repack.NewImage(desc, *width, *height)
	dst.Params = imgfmt.Params{
		W: *width, H: *height, Format: id,
		Color: imgfmt.ColorParams{Space: imgfmt.ColorSpaceBT709, Levels: imgfmt.LevelsLimited},
		Alpha: imgfmt.AlphaPremul,
	}

	bitmaps := syntheticBitmaps(*width, *height, *parts)

	var cache *compositor.Cache
	start := time.Now()
	for i := 0; i < *frames; i++ {
		bitmaps.ChangeID = int64(i) // force a fresh rasterize pass every frame.
		if !compositor.Draw(&cache, cfg, dst, bitmaps) {
			fmt.Fprintln(os.Stderr, "osdbench: draw failed")
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("osdbench: %dx%d %s tiles=%v workers=%d: %d frames in %s (%.3f ms/frame)\n",
		*width, *height, *format, *tiles, *workers, *frames, elapsed, float64(elapsed.Milliseconds())/float64(*frames))
}

func syntheticBitmaps(w, h, n int) *sbitmap.List {
	list := &sbitmap.List{BBoxW: w, BBoxH: h}
	item := sbitmap.Item{ChangeID: 0, RenderIndex: 0, Format: sbitmap.FormatLibass}
	bw, bh := w/8, h/8
	if bw < 1 {
		bw = 1
	}
	if bh < 1 {
		bh = 1
	}
	stride := bw
	coverage := make([]byte, stride*bh)
	for i := range coverage {
		coverage[i] = 255
	}
	for i := 0; i < n; i++ {
		x := (i * bw) % (w - bw + 1)
		y := (i * bh) % (h - bh + 1)
		item.Parts = append(item.Parts, sbitmap.Bitmap{
			X: x, Y: y, W: bw, H: bh, DW: bw, DH: bh,
			Bitmap: coverage, Stride: stride,
			Libass: sbitmap.LibassInfo{Color: 0xff000000},
		})
	}
	list.Items = []sbitmap.Item{item}
	return list
}
