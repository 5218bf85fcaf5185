// Package overlay converts the rasterized RGBA overlay into the video
// target's pixel format, either in one pass or, for eligible targets,
// tile by tile so unmarked rows are skipped entirely.
package overlay

import "github.com/ausocean/osdcompose/imgfmt"

// TileH is the tile height the tiled converter bands rows into. The
// compositor's reinit rejects targets whose align_y exceeds it.
const TileH = 4

// Plan is the result of choosing how to overlay onto a given video
// target format: which formats the video overlay and the chroma-alpha
// side buffer must be allocated in, and whether row-tiling applies.
type Plan struct {
	// VideoDesc is the format the overlay must be converted into before
	// blending: for YUV targets, the target's own format if it already
	// has an 8-bit alpha plane, otherwise the registered format that
	// adds one. For RGB colorspace targets (GBRP/GBRAP) it is BGRA.
	VideoDesc imgfmt.Desc

	// CalphaDesc is set only when VideoDesc's chroma planes subsample:
	// the alpha plane then has to be downsampled separately into a
	// standalone gray buffer, since the alpha component itself does
	// not subsample.
	CalphaDesc imgfmt.Desc
	NeedCalpha bool

	// Tiled reports whether the overlay converter should work tile by
	// tile. Forced false for RGB colorspace targets with 3 or more
	// planes (GBRP/GBRAP): rasterize's BGRA buffer already serves
	// directly as the video overlay there, with nothing to tile.
	Tiled bool

	// ChromaLocation is forced to Center whenever tiling is in play, so
	// every tile's chroma siting agrees regardless of where the tile
	// boundary falls.
	ChromaLocation imgfmt.ChromaLocation
}

// rgbPlanar reports whether id is one of the RGB-colorspace planar
// formats (3+ planes, no chroma subsampling).
func rgbPlanar(id imgfmt.ID) bool {
	return id == imgfmt.GBRP || id == imgfmt.GBRAP
}

// withAlpha maps a target format onto the registered format that adds
// an 8-bit alpha plane to it, per reinit's "switch to 8-bit, append
// alpha if missing" rule. Formats that already carry alpha map to
// themselves.
func withAlpha(id imgfmt.ID) (imgfmt.ID, bool) {
	switch id {
	case imgfmt.I420, imgfmt.I420A:
		return imgfmt.I420A, true
	case imgfmt.YUV444, imgfmt.YUV444A:
		return imgfmt.YUV444A, true
	case imgfmt.GBRP, imgfmt.GBRAP:
		return imgfmt.GBRAP, true
	default:
		return imgfmt.Unknown, false
	}
}

// PlanFor builds the conversion plan for targeting desc: RGB targets
// with 3+ planes take the RGBA overlay directly and never tile;
// everything else gets an alpha-added video overlay format, a
// separate chroma-alpha buffer when chroma subsamples, and tiling
// enabled unless the caller disables it.
func PlanFor(desc imgfmt.Desc, scaleInTiles bool) (Plan, bool) {
	if rgbPlanar(desc.ID) {
		return Plan{
			VideoDesc:      imgfmt.MustGet(imgfmt.BGRA),
			Tiled:          false,
			ChromaLocation: imgfmt.ChromaUnknown,
		}, true
	}

	withA, ok := withAlpha(desc.ID)
	if !ok {
		return Plan{}, false
	}
	videoDesc := imgfmt.MustGet(withA)

	p := Plan{
		VideoDesc:      videoDesc,
		Tiled:          scaleInTiles,
		ChromaLocation: imgfmt.ChromaUnknown,
	}
	if videoDesc.XS != 0 || videoDesc.YS != 0 {
		p.NeedCalpha = true
		p.CalphaDesc = imgfmt.MustGet(imgfmt.Gray8)
	}
	if p.Tiled {
		p.ChromaLocation = imgfmt.ChromaCenter
	}
	return p, true
}
