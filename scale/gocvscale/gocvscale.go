//go:build withcv
// +build withcv

/*
DESCRIPTION
  A scale.Scaler backend built on OpenCV via gocv, for deployments that
  already carry the OpenCV shared libraries. Covers the two cases the
  compositor actually needs: same-format resampling, and BGRA-to-I420
  (or I420A) colorspace conversion. Anything else falls outside this
  backend's SupportsFormats and callers should fall back to imgscale.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package gocvscale

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/repack"
)

// Scaler is a scale.Scaler backed by gocv.Resize and gocv.CvtColor.
type Scaler struct{}

func New() *Scaler { return &Scaler{} }

func isI420Family(id imgfmt.ID) bool {
	return id == imgfmt.I420 || id == imgfmt.I420A
}

func (s *Scaler) SupportsFormats(dst, src imgfmt.Desc) bool {
	if dst.ID == src.ID {
		return true
	}
	return src.ID == imgfmt.BGRA && isI420Family(dst.ID)
}

func (s *Scaler) Scale(dst, src *repack.Image) error {
	switch {
	case dst.Desc.ID == src.Desc.ID:
		return s.resizeSameFormat(dst, src)
	case src.Desc.ID == imgfmt.BGRA && isI420Family(dst.Desc.ID):
		return s.bgraToI420(dst, src)
	default:
		return fmt.Errorf("gocvscale: unsupported conversion %s -> %s", src.Desc.Name, dst.Desc.Name)
	}
}

// extractPlane copies plane pl of im's sub-rectangle [0,lumaW)x[0,lumaH)
// (in plane-0 coordinates) into a tightly packed row-major buffer at
// that plane's own resolution. im.Planes[pl].Pix is the backing store
// of the whole parent image, not just the crop im may be a view over,
// so gocv (which needs a contiguous buffer matching exactly the rows
// and columns it's told about) cannot wrap it directly.
func extractPlane(im *repack.Image, pl, lumaW, lumaH int) (buf []byte, w, h int) {
	xs, ys := im.Desc.PlaneSubsampling(pl)
	bpp := repack.BytesPerPixel(im.Desc.Planes[pl])
	w = repack.CeilShift(lumaW, xs)
	h = repack.CeilShift(lumaH, ys)
	rowBytes := w * bpp

	buf = make([]byte, rowBytes*h)
	stepY := 1 << uint(ys)
	for i, y := 0, 0; i < h; i, y = i+1, y+stepY {
		row := im.PixelPtr(pl, 0, y)
		copy(buf[i*rowBytes:(i+1)*rowBytes], row[:rowBytes])
	}
	return buf, w, h
}

// storePlane is extractPlane's inverse: it copies a tightly packed
// row-major buffer (w x h at plane pl's own resolution) back into im's
// sub-rectangle starting at plane-0 coordinate (0, 0).
func storePlane(im *repack.Image, pl int, buf []byte, w, h int) {
	_, ys := im.Desc.PlaneSubsampling(pl)
	bpp := repack.BytesPerPixel(im.Desc.Planes[pl])
	rowBytes := w * bpp

	stepY := 1 << uint(ys)
	for i, y := 0, 0; i < h; i, y = i+1, y+stepY {
		row := im.PixelPtr(pl, 0, y)
		copy(row[:rowBytes], buf[i*rowBytes:(i+1)*rowBytes])
	}
}

func (s *Scaler) resizeSameFormat(dst, src *repack.Image) error {
	planes := len(dst.Desc.Planes)
	if n := len(src.Desc.Planes); n < planes {
		planes = n
	}
	for pl := 0; pl < planes; pl++ {
		mt := gocv.MatTypeCV8UC1
		if len(src.Desc.Planes[pl].Components) == 4 {
			mt = gocv.MatTypeCV8UC4
		}

		srcBuf, srcW, srcH := extractPlane(src, pl, src.W, src.H)

		srcMat, err := gocv.NewMatFromBytes(srcH, srcW, mt, srcBuf)
		if err != nil {
			return fmt.Errorf("gocvscale: wrap src plane %d: %w", pl, err)
		}
		defer srcMat.Close()

		dxs, dys := dst.Desc.PlaneSubsampling(pl)
		dstW := repack.CeilShift(dst.W, dxs)
		dstH := repack.CeilShift(dst.H, dys)

		resized := gocv.NewMat()
		gocv.Resize(srcMat, &resized, image.Pt(dstW, dstH), 0, 0, gocv.InterpolationLinear)

		out, err := resized.DataPtrUint8()
		if err != nil {
			resized.Close()
			return fmt.Errorf("gocvscale: read resized plane %d: %w", pl, err)
		}
		storePlane(dst, pl, out, dstW, dstH)
		resized.Close()
	}
	return nil
}

func (s *Scaler) bgraToI420(dst, src *repack.Image) error {
	srcBuf, srcW, srcH := extractPlane(src, 0, src.W, src.H)

	srcMat, err := gocv.NewMatFromBytes(srcH, srcW, gocv.MatTypeCV8UC4, srcBuf)
	if err != nil {
		return fmt.Errorf("gocvscale: wrap src BGRA: %w", err)
	}
	defer srcMat.Close()

	yuv := gocv.NewMat()
	defer yuv.Close()
	gocv.CvtColor(srcMat, &yuv, gocv.ColorBGRAToYUVI420)

	packed, err := yuv.DataPtrUint8()
	if err != nil {
		return fmt.Errorf("gocvscale: read I420 output: %w", err)
	}

	w, h := srcW, srcH
	ySize := w * h
	cw, ch := (w+1)/2, (h+1)/2
	cSize := cw * ch

	storePlane(dst, 0, packed[:ySize], w, h)
	storePlane(dst, 1, packed[ySize:ySize+cSize], cw, ch)
	storePlane(dst, 2, packed[ySize+cSize:ySize+2*cSize], cw, ch)

	ap, _, ok := dst.Desc.AlphaPlane()
	if !ok {
		return nil
	}
	// gocv's BGRA->I420 conversion has no alpha channel of its own;
	// carry the source's straight from its interleaved alpha component.
	srcAlphaIdx := -1
	for i, c := range src.Desc.Planes[0].Components {
		if c.ID == imgfmt.AlphaComponentID {
			srcAlphaIdx = i
			break
		}
	}
	if srcAlphaIdx < 0 {
		for y := 0; y < h; y++ {
			row := dst.PixelPtr(ap, 0, y)
			for x := 0; x < w; x++ {
				row[x] = 255
			}
		}
		return nil
	}
	bpp := len(src.Desc.Planes[0].Components)
	for y := 0; y < h; y++ {
		srcRow := src.PixelPtr(0, 0, y)
		dstRow := dst.PixelPtr(ap, 0, y)
		for x := 0; x < w; x++ {
			dstRow[x] = srcRow[x*bpp+srcAlphaIdx]
		}
	}
	return nil
}
