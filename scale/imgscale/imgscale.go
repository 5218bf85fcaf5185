package imgscale

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/imgfmt/colormatrix"
	"github.com/ausocean/osdcompose/repack"
)

// Scaler is the default scale.Scaler backend. It handles same-format
// resizes (used for the pre-scaled RGBA bitmap path and for shrinking
// the alpha plane to chroma resolution) and BGRA-to-planar-YUV
// colorspace conversion at matching size (the overlay conversion
// step), using a box filter for any subsampled chroma planes.
type Scaler struct {
	Primaries colormatrix.Primaries
	Levels    colormatrix.Levels
}

// New returns an imgscale.Scaler using BT.709 primaries and limited
// range, the common defaults for SD/HD video targets.
func New() *Scaler {
	return &Scaler{Primaries: colormatrix.BT709, Levels: colormatrix.Limited}
}

func (s *Scaler) SupportsFormats(dst, src imgfmt.Desc) bool {
	if dst.ID == src.ID {
		return true
	}
	return src.ID == imgfmt.BGRA && isPlanarYUV(dst.ID)
}

func isPlanarYUV(id imgfmt.ID) bool {
	switch id {
	case imgfmt.I420, imgfmt.I420A, imgfmt.YUV444, imgfmt.YUV444A:
		return true
	}
	return false
}

func (s *Scaler) Scale(dst, src *repack.Image) error {
	switch {
	case dst.Desc.ID == src.Desc.ID:
		return s.resizeSameFormat(dst, src)
	case src.Desc.ID == imgfmt.BGRA && isPlanarYUV(dst.Desc.ID):
		return s.convertBGRAToYUV(dst, src)
	default:
		return fmt.Errorf("imgscale: unsupported conversion %s -> %s", src.Desc.Name, dst.Desc.Name)
	}
}

func (s *Scaler) resizeSameFormat(dst, src *repack.Image) error {
	planes := len(dst.Desc.Planes)
	if n := len(src.Desc.Planes); n < planes {
		planes = n
	}
	for pl := 0; pl < planes; pl++ {
		dstImg := newPlaneImage(dst, pl)
		srcImg := newPlaneImage(src, pl)
		if dstImg.Bounds() == srcImg.Bounds() {
			copyPlane(dstImg, srcImg)
			continue
		}
		draw.BiLinear.Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), draw.Src, nil)
	}
	return nil
}

func copyPlane(dst, src *planeImage) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
}

// convertBGRAToYUV converts a premultiplied BGRA overlay into a planar
// YUV target of identical plane-0 size, deriving chroma samples with a
// box filter over each subsampled block. This is a simplified
// colorimetric conversion, not a bit-exact match for any particular
// video library's swscale-equivalent; the compositor only requires
// that the conversion is consistent and respects the alpha convention.
func (s *Scaler) convertBGRAToYUV(dst, src *repack.Image) error {
	w, h := src.W, src.H
	mtx := colormatrix.Build(s.Primaries, s.Levels)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.PixelPtr(0, x, y)
			r, g, b, _ := bgraAt(src, c)
			yv, _, _ := mtx.Apply(r, g, b)
			writeComponent8(dst, 0, x, y, yv)
		}
	}

	if ap, _, ok := dst.Desc.AlphaPlane(); ok {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.PixelPtr(0, x, y)
				_, _, _, a := bgraAt(src, c)
				writeComponent8(dst, ap, x, y, a)
			}
		}
	}

	if dst.Desc.NumPlanes() < 3 {
		return nil
	}
	xs, ys := dst.Desc.XS, dst.Desc.YS
	cw := (w + (1 << xs) - 1) >> xs
	ch := (h + (1 << ys) - 1) >> ys
	bw, bh := 1<<xs, 1<<ys

	for cy := 0; cy < ch; cy++ {
		for cx := 0; cx < cw; cx++ {
			var rs, gs, bs float64
			n := 0
			for by := 0; by < bh; by++ {
				sy := cy<<uint(ys) + by
				if sy >= h {
					continue
				}
				for bx := 0; bx < bw; bx++ {
					sx := cx<<uint(xs) + bx
					if sx >= w {
						continue
					}
					r, g, b, _ := bgraAt(src, src.PixelPtr(0, sx, sy))
					rs += r
					gs += g
					bs += b
					n++
				}
			}
			if n == 0 {
				continue
			}
			_, u, v := mtx.Apply(rs/float64(n), gs/float64(n), bs/float64(n))
			writeComponent8(dst, 1, cx, cy, u)
			writeComponent8(dst, 2, cx, cy, v)
		}
	}
	return nil
}

func bgraAt(src *repack.Image, px []byte) (r, g, b, a float64) {
	order := src.Desc.Planes[0].Components
	var rv, gv, bv, av byte
	for i, c := range order {
		switch c.ID {
		case 1:
			rv = px[i]
		case 2:
			gv = px[i]
		case 3:
			bv = px[i]
		case imgfmt.AlphaComponentID:
			av = px[i]
		}
	}
	return float64(rv) / 255.0, float64(gv) / 255.0, float64(bv) / 255.0, float64(av) / 255.0
}

func writeComponent8(im *repack.Image, plane, x, y int, v float64) {
	iv := int(v*255.0 + 0.5)
	if iv < 0 {
		iv = 0
	}
	if iv > 255 {
		iv = 255
	}
	im.PixelPtr(plane, x, y)[0] = byte(iv)
}

var _ image.Image = (*planeImage)(nil)
