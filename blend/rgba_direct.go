package blend

import (
	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/repack"
	"github.com/ausocean/osdcompose/slicemap"
)

// RGBADirect blends the premultiplied interleaved BGRA overlay
// straight onto a planar RGB-colorspace destination (GBRP/GBRAP),
// where rasterize's overlay buffer already serves as the video
// overlay with nothing converted first. Unlike Slices, source and
// destination do not share plane geometry, so each destination plane
// is located by component ID rather than by plane index.
func RGBADirect(dst, overlay *repack.Image, sm *slicemap.Map) {
	if !sm.AnyOSD {
		return
	}
	for y := 0; y < sm.H; y++ {
		for sx, s := range sm.Row(y) {
			if s.Empty() {
				continue
			}
			x0 := sx*slicemap.SliceW + int(s.X0)
			x1 := sx*slicemap.SliceW + int(s.X1)
			blendRGBADirectRow(dst, overlay, x0, x1, y)
		}
	}
}

func blendRGBADirectRow(dst, overlay *repack.Image, x0, x1, y int) {
	_, _, hasAlpha := overlay.Desc.AlphaPlane()

	for x := x0; x < x1; x++ {
		srcPx := overlay.PixelPtr(0, x, y)
		r, g, b, a := componentsByID(overlay.Desc.Planes[0], srcPx)
		if !hasAlpha {
			a = 1.0
		}

		for pl, pd := range dst.Desc.Planes {
			dstPx := dst.PixelPtr(pl, x, y)
			for i, c := range pd.Components {
				var sv float64
				switch c.ID {
				case 1:
					sv = r
				case 2:
					sv = g
				case 3:
					sv = b
				case imgfmt.AlphaComponentID:
					sv = a
				default:
					continue
				}
				out := sv + float64(dstPx[i])/255.0*(1-a)
				dstPx[i] = repack.Clamp255(out)
			}
		}
	}
}

func componentsByID(plane imgfmt.Plane, px []byte) (r, g, b, a float64) {
	a = 1.0
	for i, c := range plane.Components {
		v := float64(px[i]) / 255.0
		switch c.ID {
		case 1:
			r = v
		case 2:
			g = v
		case 3:
			b = v
		case imgfmt.AlphaComponentID:
			a = v
		}
	}
	return
}
