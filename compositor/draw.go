package compositor

import (
	"github.com/ausocean/osdcompose/blend"
	"github.com/ausocean/osdcompose/config"
	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/overlay"
	"github.com/ausocean/osdcompose/rasterize"
	"github.com/ausocean/osdcompose/repack"
	"github.com/ausocean/osdcompose/sbitmap"
	"github.com/ausocean/osdcompose/scale/imgscale"
)

// Draw composites bitmaps onto dst, reusing or reinitializing *cache
// as dst's parameters require. *cache may point at nil; Draw then
// allocates a fresh one. It reports whether the draw succeeded; a
// failure is logged through cfg.Logger, matching mpv's draw_osd: a
// failure to draw subtitles must never fail the surrounding render.
// A failure before the premultiply/blend stage leaves dst unmodified;
// once that stage has begun, dst may be left partially updated.
func Draw(cache **Cache, cfg config.Config, dst *repack.Image, bitmaps *sbitmap.List) bool {
	if *cache == nil {
		c, err := New(cfg)
		if err != nil {
			cfg.Logger.Error("compositor: cache init failed", "err", err)
			return false
		}
		*cache = c
	}
	c := *cache

	if err := c.ensure(dst.Params); err != nil {
		c.cfg.Logger.Error("compositor: reinit failed", "err", err)
		return false
	}

	if bitmaps.ChangeID != c.changeID {
		if err := c.rasterizeAll(bitmaps); err != nil {
			c.cfg.Logger.Error("compositor: rasterize failed", "err", err)
			return false
		}
		c.changeID = bitmaps.ChangeID
	}

	if !c.sliceMap.AnyOSD {
		return true
	}

	if c.plan.VideoDesc.ID != imgfmt.BGRA {
		if err := overlay.Convert(c.videoOverlay, c.calphaOverlay, c.rgbaOverlay, c.sliceMap, c.scaler, c.plan.Tiled); err != nil {
			c.cfg.Logger.Error("compositor: overlay conversion failed", "err", err)
			return false
		}
	}

	needBracket := dst.Desc.HasAlpha() && dst.Params.Alpha == imgfmt.AlphaStraight
	if needBracket {
		premul := &imgscale.PremultiplyScaler{}
		if err := premul.Scale(dst, dst); err != nil {
			c.cfg.Logger.Error("compositor: premultiply failed", "err", err)
			return false
		}
	}

	if c.plan.VideoDesc.ID == imgfmt.BGRA {
		blend.RGBADirect(dst, c.rgbaOverlay, c.sliceMap)
	} else if err := c.blend(dst, c.videoOverlay); err != nil {
		c.cfg.Logger.Error("compositor: blend failed", "err", err)
		return false
	}

	if needBracket {
		unpremul := &imgscale.PremultiplyScaler{Invert: true}
		if err := unpremul.Scale(dst, dst); err != nil {
			c.cfg.Logger.Error("compositor: unpremultiply failed", "err", err)
			return false
		}
	}

	return true
}

func (c *Cache) rasterizeAll(bitmaps *sbitmap.List) error {
	c.sliceMap.Reset()
	c.rgbaOverlay.Clear(0, 0, c.rgbaOverlay.W, c.rgbaOverlay.H)

	for _, item := range bitmaps.Items {
		for _, part := range item.Parts {
			switch item.Format {
			case sbitmap.FormatLibass:
				rasterize.Mono(c.rgbaOverlay, c.sliceMap, part, c.alignX, c.alignY)
			case sbitmap.FormatRGBA:
				if err := c.parts.RGBA(c.rgbaOverlay, c.sliceMap, item.RenderIndex, item.ChangeID, part); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *Cache) blend(dst, target *repack.Image) error {
	return blend.Slices(dst, target, c.calphaOverlay, c.sliceMap, c.cfg.Workers)
}
