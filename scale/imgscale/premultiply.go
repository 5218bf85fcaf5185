package imgscale

import (
	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/repack"
)

// PremultiplyScaler converts between straight and premultiplied alpha
// in place, at matching size and format. It implements scale.Scaler,
// even though it never resamples; compositor.Draw builds one for each
// side of the premultiply bracket.
type PremultiplyScaler struct {
	// Invert selects premultiplied-to-straight (true) over the default
	// straight-to-premultiplied (false).
	Invert bool
}

func (s *PremultiplyScaler) SupportsFormats(dst, src imgfmt.Desc) bool {
	return dst.ID == src.ID && dst.HasAlpha()
}

func (s *PremultiplyScaler) Scale(dst, src *repack.Image) error {
	ap, _, ok := src.Desc.AlphaPlane()
	if !ok {
		return nil
	}
	w, h := src.W, src.H

	for pl := range src.Desc.Planes {
		if pl == ap {
			continue
		}
		xs, ys := src.Desc.PlaneSubsampling(pl)
		pw := (w + (1 << xs) - 1) >> xs
		ph := (h + (1 << ys) - 1) >> ys

		for y := 0; y < ph; y++ {
			for x := 0; x < pw; x++ {
				frac := float64(src.PixelPtr(ap, x<<uint(xs), y<<uint(ys))[0]) / 255.0
				v := src.PixelPtr(pl, x, y)[0]
				dst.PixelPtr(pl, x, y)[0] = premul(v, frac, s.Invert)
			}
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.PixelPtr(ap, x, y)[0] = src.PixelPtr(ap, x, y)[0]
		}
	}
	return nil
}

func premul(v byte, frac float64, invert bool) byte {
	var out float64
	if !invert {
		out = float64(v) * frac
	} else if frac > 0 {
		out = float64(v) / frac
	} else {
		out = 0
	}
	if out < 0 {
		out = 0
	}
	if out > 255 {
		out = 255
	}
	return byte(out + 0.5)
}
