// Package repack defines the planar pixel buffer used throughout the
// compositor, plus the repack interface (and a reference
// planar/float32 implementation): an operation that converts a strip
// of pixels between the storage pixel format and a planar float32
// working format.
package repack

import (
	"encoding/binary"
	"math"

	"github.com/ausocean/osdcompose/imgfmt"
)

// Plane is one owned (or borrowed) row-major byte buffer.
type Plane struct {
	Pix    []byte
	Stride int // bytes per row.
}

// Image is an owning 2D pixel buffer with per-plane stride. A non-owning
// "view" aliasing another image's single plane (used to expose the
// alpha plane of video_overlay as a standalone gray image) is built with
// View, which shares the same backing Pix slice.
type Image struct {
	Desc   imgfmt.Desc
	Params imgfmt.Params

	W, H int // pixel dimensions at plane-0 resolution.

	Planes []Plane

	// OffX, OffY translate plane-0 pixel coordinates for crops and views
	// that share a parent's backing storage.
	OffX, OffY int
}

// CeilShift divides v by 1<<shift, rounding up; used throughout the
// compositor to turn a plane-0 dimension into a subsampled plane's own
// dimension (e.g. chroma width for a 4:2:0 plane).
func CeilShift(v, shift int) int {
	if shift == 0 {
		return v
	}
	return (v + (1 << shift) - 1) >> shift
}

// Clamp255 rounds v*255 to the nearest integer and clamps it to a
// byte, the shared quantization step every [0,1]-range-to-uint8
// conversion in the compositor uses.
func Clamp255(v float64) byte {
	iv := int(v*255.0 + 0.5)
	if iv < 0 {
		return 0
	}
	if iv > 255 {
		return 255
	}
	return byte(iv)
}

func bytesPerPixel(p imgfmt.Plane) int {
	n := 0
	for _, c := range p.Components {
		n += c.Size
	}
	return n
}

// NewImage allocates a fresh, owning image of the given descriptor and
// plane-0 dimensions.
func NewImage(desc imgfmt.Desc, w, h int) *Image {
	planes := make([]Plane, len(desc.Planes))
	for i, pd := range desc.Planes {
		xs, ys := desc.PlaneSubsampling(i)
		pw := CeilShift(w, xs)
		ph := CeilShift(h, ys)
		stride := pw * bytesPerPixel(pd)
		planes[i] = Plane{Pix: make([]byte, stride*ph), Stride: stride}
	}
	return &Image{Desc: desc, W: w, H: h, Planes: planes}
}

// Crop returns a view over the sub-rectangle [x0,y0)-[x1,y1), sharing
// backing storage with im. Equivalent to mp_image_crop.
func (im *Image) Crop(x0, y0, x1, y1 int) *Image {
	out := *im
	out.OffX = im.OffX + x0
	out.OffY = im.OffY + y0
	out.W = x1 - x0
	out.H = y1 - y0
	return &out
}

// View returns a non-owning single-plane alias of one plane of im,
// described as a one-component format matching that plane's component.
// Used for exposing a parent image's alpha plane as a standalone gray
// image (alpha_overlay).
func (im *Image) View(plane int) *Image {
	pd := im.Desc.Planes[plane]
	xs, ys := im.Desc.PlaneSubsampling(plane)

	viewDesc := imgfmt.Desc{
		ID:            imgfmt.Gray8,
		Name:          "view",
		ComponentType: im.Desc.ComponentType,
		Planes:        []imgfmt.Plane{pd},
		AlignX:        im.Desc.AlignX,
		AlignY:        im.Desc.AlignY,
	}

	return &Image{
		Desc:   viewDesc,
		Params: im.Params,
		W:      CeilShift(im.W, xs),
		H:      CeilShift(im.H, ys),
		Planes: []Plane{im.Planes[plane]},
		OffX:   im.OffX >> xs,
		OffY:   im.OffY >> ys,
	}
}

// pixelByteIndex returns the byte offset of pixel (x, y) in the given
// plane, accounting for the image's crop offset and that plane's
// subsampling.
func (im *Image) pixelByteIndex(plane, x, y int) int {
	xs, ys := im.Desc.PlaneSubsampling(plane)
	px := (im.OffX + x) >> xs
	py := (im.OffY + y) >> ys
	bpp := bytesPerPixel(im.Desc.Planes[plane])
	return py*im.Planes[plane].Stride + px*bpp
}

// PixelPtr returns the byte slice starting at pixel (x, y) of the given
// plane, running to the end of that row's backing buffer.
func (im *Image) PixelPtr(plane, x, y int) []byte {
	i := im.pixelByteIndex(plane, x, y)
	return im.Planes[plane].Pix[i:]
}

// Stride returns the plane's row stride in bytes.
func (im *Image) Stride(plane int) int { return im.Planes[plane].Stride }

// BytesPerPixel returns the number of bytes one sample of the given
// plane descriptor occupies (the sum of its component sizes), for
// callers outside this package that need to size a row buffer for a
// specific plane (e.g. a scaler wrapping a plane for an external
// library that requires tightly-packed rows).
func BytesPerPixel(p imgfmt.Plane) int { return bytesPerPixel(p) }

// F32At reads one float32 sample from a planar float32 image, such as
// the working strips a Repacker converts into and out of.
func (im *Image) F32At(plane, x, y int) float32 {
	b := im.PixelPtr(plane, x, y)
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// SetF32At writes one float32 sample into a planar float32 image.
func (im *Image) SetF32At(plane, x, y int, v float32) {
	b := im.PixelPtr(plane, x, y)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// Clear zeroes the rectangle [x0,y0)-[x1,y1) of plane 0. Used by the
// rasterizer's clear pass on the RGBA overlay.
func (im *Image) Clear(x0, y0, x1, y1 int) {
	bpp := bytesPerPixel(im.Desc.Planes[0])
	for y := y0; y < y1; y++ {
		row := im.PixelPtr(0, x0, y)
		n := (x1 - x0) * bpp
		for i := 0; i < n; i++ {
			row[i] = 0
		}
	}
}
