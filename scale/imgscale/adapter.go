// Package imgscale is the dependency-light scale.Scaler backend: it
// resamples using golang.org/x/image/draw and does colorspace
// conversion with imgfmt/colormatrix, so it never needs cgo or a
// system image library. The compositor always uses it in builds
// without the withcv tag, and in withcv builds when config.Config's
// Backend is BackendImgscale.
package imgscale

import (
	"image"
	"image/color"

	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/repack"
)

// planeImage adapts one plane of a repack.Image to image.Image and
// draw.Image, so golang.org/x/image/draw can resample it without
// caring about our component ordering or subsampling bookkeeping.
// Each pixel is read and written as color.RGBA (premultiplied alpha,
// matching the overlay's alpha convention), with missing components
// (a plane with fewer than 4 components) defaulting R, G, B to the
// single stored component and A to fully opaque. An alpha-only plane
// reads as A = the stored value with R, G, B zero.
type planeImage struct {
	im       *repack.Image
	plane    int
	order    []int // component ID stored at each byte offset in this plane.
	w, h     int
}

func newPlaneImage(im *repack.Image, plane int) *planeImage {
	d := im.Desc.Planes[plane]
	order := make([]int, len(d.Components))
	for i, c := range d.Components {
		order[i] = c.ID
	}
	xs, ys := im.Desc.PlaneSubsampling(plane)
	w := (im.W + (1 << xs) - 1) >> xs
	h := (im.H + (1 << ys) - 1) >> ys
	return &planeImage{im: im, plane: plane, order: order, w: w, h: h}
}

func (p *planeImage) ColorModel() color.Model { return color.RGBAModel }
func (p *planeImage) Bounds() image.Rectangle { return image.Rect(0, 0, p.w, p.h) }

func (p *planeImage) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		return color.RGBA{}
	}
	px := p.im.PixelPtr(p.plane, x, y)
	c := color.RGBA{A: 255}
	for i, id := range p.order {
		v := px[i]
		switch id {
		case 1:
			c.R = v
		case 2:
			c.G = v
		case 3:
			c.B = v
		case imgfmt.AlphaComponentID:
			c.A = v
		default:
			c.R, c.G, c.B = v, v, v
		}
	}
	if len(p.order) == 1 && p.order[0] != imgfmt.AlphaComponentID {
		v := px[0]
		c = color.RGBA{R: v, G: v, B: v, A: 255}
	}
	return c
}

func (p *planeImage) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 || x >= p.w || y >= p.h {
		return
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	px := p.im.PixelPtr(p.plane, x, y)
	for i, id := range p.order {
		switch id {
		case 1:
			px[i] = rgba.R
		case 2:
			px[i] = rgba.G
		case 3:
			px[i] = rgba.B
		case imgfmt.AlphaComponentID:
			px[i] = rgba.A
		default:
			px[i] = rgba.R
		}
	}
}
