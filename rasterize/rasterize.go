// Package rasterize turns one sbitmap.Bitmap into premultiplied-alpha
// pixels inside the RGBA overlay, marking the slice map as it goes.
// Two paths exist, mirroring the two sbitmap.Format values: a
// mono-alpha coverage-plus-flat-color path for FormatLibass, and a
// pre-scaled, cached, premultiplied-source path for FormatRGBA.
package rasterize

import (
	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/repack"
	"github.com/ausocean/osdcompose/sbitmap"
	"github.com/ausocean/osdcompose/slicemap"
)

// Mono draws one FormatLibass bitmap into dst (a BGRA, premultiplied
// overlay image), blending the bitmap's 8-bit coverage plane through
// its flat libass color, and marks the affected region of sm. This is
// the draw_ass_rgba path: no scaling, source-over only. alignX, alignY
// are the target video format's repack alignment, not BGRA's own (1,1):
// mark_rect rounds to them so the blender's row bands stay consistent.
func Mono(dst *repack.Image, sm *slicemap.Map, b sbitmap.Bitmap, alignX, alignY int) {
	r, g, bl, a := unpackLibassColor(b.Libass.Color)

	x0, y0 := b.X, b.Y
	x1, y1 := b.X+b.W, b.Y+b.H
	cx0, cy0, cx1, cy1 := clipRect(x0, y0, x1, y1, dst.W, dst.H)
	if cx0 >= cx1 || cy0 >= cy1 {
		return
	}

	for y := cy0; y < cy1; y++ {
		srcRow := b.Bitmap[(y-y0)*b.Stride:]
		for x := cx0; x < cx1; x++ {
			coverage := float64(srcRow[x-x0]) / 255.0
			srcA := coverage * a

			dstPx := dst.PixelPtr(0, x, y)
			blendPremul(dstPx, r*srcA, g*srcA, bl*srcA, srcA)
		}
	}

	sm.MarkRect(cx0, cy0, cx1, cy1, alignX, alignY)
}

// unpackLibassColor splits a 0xRRGGBBAA libass color (where the low
// byte is transparency, not opacity) into straight-alpha [0,1]
// components.
func unpackLibassColor(c uint32) (r, g, b, a float64) {
	r = float64((c>>24)&0xff) / 255.0
	g = float64((c>>16)&0xff) / 255.0
	b = float64((c>>8)&0xff) / 255.0
	a = 1.0 - float64(c&0xff)/255.0
	return
}

// blendPremul composites a premultiplied source (sr, sg, sb, sa, each
// in [0,1]) over the BGRA pixel at dst using source-over, and writes
// the premultiplied result back in place. The byte order at dst is
// fixed to the registered BGRA layout (see bgraOrder); it is not read
// from the image's descriptor.
func blendPremul(px []byte, sr, sg, sb, sa float64) {
	r, g, b, a := readPremul(px)
	or := sr + r*(1-sa)
	og := sg + g*(1-sa)
	ob := sb + b*(1-sa)
	oa := sa + a*(1-sa)
	writePremul(px, or, og, ob, oa)
}

func readPremul(px []byte) (r, g, b, a float64) {
	order := bgraOrder
	return float64(px[order[0]]) / 255.0, float64(px[order[1]]) / 255.0, float64(px[order[2]]) / 255.0, float64(px[order[3]]) / 255.0
}

func writePremul(px []byte, r, g, b, a float64) {
	order := bgraOrder
	px[order[0]] = repack.Clamp255(r)
	px[order[1]] = repack.Clamp255(g)
	px[order[2]] = repack.Clamp255(b)
	px[order[3]] = repack.Clamp255(a)
}

// bgraOrder gives the byte offset within a BGRA pixel for R, G, B, A
// respectively, matching the registered BGRA descriptor's component
// layout (memory order B, G, R, A).
var bgraOrder = [4]int{2, 1, 0, 3}

func clipRect(x0, y0, x1, y1, w, h int) (int, int, int, int) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > w {
		x1 = w
	}
	if y1 > h {
		y1 = h
	}
	return x0, y0, x1, y1
}

var bgraDesc = imgfmt.MustGet(imgfmt.BGRA)
