package overlay

import (
	"github.com/ausocean/osdcompose/repack"
	"github.com/ausocean/osdcompose/scale"
	"github.com/ausocean/osdcompose/slicemap"
)

// Convert turns rgbaOverlay (a premultiplied BGRA buffer) into
// videoOverlay, and, if calpha is non-nil, the separately-downsampled
// alpha plane into calpha. With tiled set it processes SliceW-wide by
// TileH-tall tiles, skipping any tile the slice map reports as
// entirely empty in that column; otherwise it converts the whole image
// in one call.
func Convert(videoOverlay, calpha, rgbaOverlay *repack.Image, sm *slicemap.Map, s scale.Scaler, tiled bool) error {
	if !sm.AnyOSD {
		return nil
	}

	if videoOverlay.Desc.ID == rgbaOverlay.Desc.ID {
		// RGB colorspace target: the RGBA buffer already serves as the
		// video overlay directly, nothing to convert.
		return nil
	}

	ap, _, hasAlpha := rgbaOverlay.Desc.AlphaPlane()

	if !tiled {
		return convertTile(videoOverlay, calpha, rgbaOverlay, nil, s, ap, hasAlpha)
	}

	for y0 := 0; y0 < rgbaOverlay.H; y0 += TileH {
		y1 := y0 + TileH
		if y1 > rgbaOverlay.H {
			y1 = rgbaOverlay.H
		}
		for sx := 0; sx < sm.PerRow; sx++ {
			if !sm.AnyNonEmptyInColumn(sx, y0, y1) {
				continue
			}
			x0 := sx * slicemap.SliceW
			x1 := x0 + slicemap.SliceW
			if x1 > rgbaOverlay.W {
				x1 = rgbaOverlay.W
			}
			if err := convertTile(videoOverlay, calpha, rgbaOverlay, &tileRect{x0, x1, y0, y1}, s, ap, hasAlpha); err != nil {
				return err
			}
		}
	}
	return nil
}

type tileRect struct{ x0, x1, y0, y1 int }

func convertTile(videoOverlay, calpha, rgbaOverlay *repack.Image, tile *tileRect, s scale.Scaler, ap int, hasAlpha bool) error {
	if tile == nil {
		if err := s.Scale(videoOverlay, rgbaOverlay); err != nil {
			return err
		}
		if calpha != nil && hasAlpha {
			return s.Scale(calpha, rgbaOverlay.View(ap))
		}
		return nil
	}

	dstCrop := videoOverlay.Crop(tile.x0, tile.y0, tile.x1, tile.y1)
	srcCrop := rgbaOverlay.Crop(tile.x0, tile.y0, tile.x1, tile.y1)
	if err := s.Scale(dstCrop, srcCrop); err != nil {
		return err
	}

	if calpha == nil || !hasAlpha {
		return nil
	}
	xs, ys := videoOverlay.Desc.PlaneSubsampling(1)
	calphaCrop := calpha.Crop(tile.x0>>uint(xs), tile.y0>>uint(ys), repack.CeilShift(tile.x1, xs), repack.CeilShift(tile.y1, ys))
	alphaSrc := rgbaOverlay.View(ap).Crop(tile.x0, tile.y0, tile.x1, tile.y1)
	return s.Scale(calphaCrop, alphaSrc)
}
