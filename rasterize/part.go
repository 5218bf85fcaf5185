package rasterize

import (
	"github.com/ausocean/osdcompose/repack"
	"github.com/ausocean/osdcompose/sbitmap"
	"github.com/ausocean/osdcompose/scale"
	"github.com/ausocean/osdcompose/slicemap"
)

// Part caches one render index's pre-scaled, premultiplied BGRA
// source, tagged with the bitmap list item's change id. RGBA draws a bitmap
// list part through Cache.RGBA, which allocates and reuses these.
type Part struct {
	ChangeID int64
	Image    *repack.Image
}

// Cache holds one Part per render index, reused across frames until
// that item's change id moves on. AlignX, AlignY are the target video
// format's repack alignment, used to mark_rect the same way Mono does.
type Cache struct {
	Scaler scale.Scaler
	parts  map[int]*Part

	AlignX, AlignY int
}

// NewCache returns a cache that scales with s, marking rects aligned
// to (alignX, alignY).
func NewCache(s scale.Scaler, alignX, alignY int) *Cache {
	return &Cache{Scaler: s, parts: make(map[int]*Part), AlignX: alignX, AlignY: alignY}
}

// Reset drops every cached part, forcing a full rescale on next use.
func (c *Cache) Reset() {
	c.parts = make(map[int]*Part)
}

// RGBA draws one FormatRGBA bitmap into dst, scaling it (through the
// cache's Scaler, caching the scaled result against renderIndex and
// changeID) and compositing it with source-over. This is the
// render_rgba path: scale once per distinct change id, blend every
// frame.
//
// The destination rectangle is clipped to dst's bounds first; if that
// clipping shrank it, the source rectangle is clipped proportionally
// (fx = dw/w, fy = dh/h, each floored to width/height 1) rather than
// scaling the full source and cropping the result, bounding the work
// done at extreme scale factors. When the post-clip destination size
// still matches the post-clip source size, no scaling is needed at
// all and no Part is allocated.
func (c *Cache) RGBA(dst *repack.Image, sm *slicemap.Map, renderIndex int, changeID int64, b sbitmap.Bitmap) error {
	x0, y0 := b.X, b.Y
	x1, y1 := b.X+b.DW, b.Y+b.DH
	cx0, cy0, cx1, cy1 := clipRect(x0, y0, x1, y1, dst.W, dst.H)
	if cx0 >= cx1 || cy0 >= cy1 {
		return nil
	}
	dw, dh := cx1-cx0, cy1-cy0

	sx0, sy0, sx1, sy1 := 0, 0, b.W, b.H
	if cx0 != x0 || cy0 != y0 || cx1 != x1 || cy1 != y1 {
		fx := float64(b.DW) / float64(b.W)
		fy := float64(b.DH) / float64(b.H)
		sx0 = clampInt(int(float64(cx0-x0)/fx), 0, b.W-1)
		sy0 = clampInt(int(float64(cy0-y0)/fy), 0, b.H-1)
		sx1 = clampInt(sx0+maxInt(int(float64(dw)/fx), 1), sx0+1, b.W)
		sy1 = clampInt(sy0+maxInt(int(float64(dh)/fy), 1), sy0+1, b.H)
	}
	sw, sh := sx1-sx0, sy1-sy0

	full := &repack.Image{
		Desc:   bgraDesc,
		W:      b.W,
		H:      b.H,
		Planes: []repack.Plane{{Pix: b.Bitmap, Stride: b.Stride}},
	}
	srcView := full.Crop(sx0, sy0, sx1, sy1)

	var src *repack.Image
	if dw == sw && dh == sh {
		// Pass-through: no scaling taken, no Part allocated.
		src = srcView
	} else {
		part := c.parts[renderIndex]
		if part == nil || part.ChangeID != changeID || part.Image.W != dw || part.Image.H != dh {
			part = &Part{ChangeID: changeID, Image: repack.NewImage(bgraDesc, dw, dh)}
			if err := c.Scaler.Scale(part.Image, srcView); err != nil {
				return err
			}
			c.parts[renderIndex] = part
		}
		src = part.Image
	}

	for y := cy0; y < cy1; y++ {
		for x := cx0; x < cx1; x++ {
			srcPx := src.PixelPtr(0, x-cx0, y-cy0)
			r, g, bl, a := readPremul(srcPx)
			dstPx := dst.PixelPtr(0, x, y)
			blendPremul(dstPx, r, g, bl, a)
		}
	}

	sm.MarkRect(cx0, cy0, cx1, cy1, c.AlignX, c.AlignY)
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
