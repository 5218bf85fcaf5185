// Package compositor ties the rasterizer, overlay converter and
// blender together into a reusable cache: one persistent RGBA
// overlay, one converted video-format overlay (plus an optional
// chroma-alpha side buffer), a slice map, and the rasterizer's
// per-part cache, all reinitialized together whenever the destination
// image's format, size or color parameters change.
package compositor

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ausocean/osdcompose/config"
	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/overlay"
	"github.com/ausocean/osdcompose/rasterize"
	"github.com/ausocean/osdcompose/repack"
	"github.com/ausocean/osdcompose/sbitmap"
	"github.com/ausocean/osdcompose/scale"
	"github.com/ausocean/osdcompose/slicemap"
)

// Cache holds everything a Draw call needs that is worth keeping
// across frames: the overlay buffers, the slice map, the rasterizer's
// scaled-part cache, the repack handle the blender and rasterizer
// align against, and the scaler backend.
type Cache struct {
	cfg    config.Config
	scaler scale.Scaler

	params imgfmt.Params
	plan   overlay.Plan

	rgbaOverlay   *repack.Image
	videoOverlay  *repack.Image
	calphaOverlay *repack.Image

	// videoRepack is the repack handle for the target format; alignX
	// and alignY are queried from it once at reinit and drive every
	// mark_rect call so the blender's align_y-rounded row bands stay
	// consistent with what the rasterizer and overlay converter marked.
	videoRepack repack.Repacker
	alignX      int
	alignY      int

	sliceMap *slicemap.Map
	parts    *rasterize.Cache

	changeID int64
}

// New builds an empty cache for cfg; it is reinitialized lazily on the
// first Draw call once the destination image's parameters are known.
func New(cfg config.Config) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "compositor: invalid config")
	}
	return &Cache{cfg: cfg, scaler: newBackendScaler(cfg), changeID: -1}, nil
}

// ensure reinitializes the cache if it has never been initialized, or
// if dstParams differs from the parameters it was last built for.
func (c *Cache) ensure(dstParams imgfmt.Params) error {
	if c.sliceMap != nil && c.params.Equal(dstParams) {
		return nil
	}
	return c.reinit(dstParams)
}

func (c *Cache) reinit(dstParams imgfmt.Params) error {
	dstDesc, ok := imgfmt.Get(dstParams.Format)
	if !ok {
		return errors.Errorf("compositor: unregistered target format %d", dstParams.Format)
	}

	plan, ok := overlay.PlanFor(dstDesc, c.cfg.ScaleInTiles)
	if !ok {
		return errors.Errorf("compositor: no overlay plan for format %q", dstDesc.Name)
	}

	if !c.scaler.SupportsFormats(plan.VideoDesc, imgfmt.MustGet(imgfmt.BGRA)) {
		return errors.Errorf("compositor: scaler backend cannot convert overlay into %q", plan.VideoDesc.Name)
	}

	videoRepack := repack.NewPlanarF32(dstDesc, repack.ToF32)
	alignX, alignY := videoRepack.AlignX(), videoRepack.AlignY()
	if alignX <= 0 {
		alignX = 1
	}
	if alignY <= 0 {
		alignY = 1
	}
	if alignX > slicemap.SliceW {
		return errors.Errorf("compositor: align_x %d exceeds SliceW %d", alignX, slicemap.SliceW)
	}
	if alignY > overlay.TileH {
		return errors.Errorf("compositor: align_y %d exceeds TileH %d", alignY, overlay.TileH)
	}

	rgbaDesc := imgfmt.MustGet(imgfmt.BGRA)
	c.rgbaOverlay = repack.NewImage(rgbaDesc, dstParams.W, dstParams.H)
	c.videoOverlay = repack.NewImage(plan.VideoDesc, dstParams.W, dstParams.H)

	if plan.NeedCalpha {
		c.calphaOverlay = repack.NewImage(plan.CalphaDesc, dstParams.W, dstParams.H)
	} else {
		c.calphaOverlay = nil
	}

	c.videoRepack = videoRepack
	c.alignX, c.alignY = alignX, alignY
	c.sliceMap = slicemap.New(dstParams.W, dstParams.H)
	c.parts = rasterize.NewCache(c.scaler, alignX, alignY)
	c.plan = plan
	c.params = dstParams
	c.changeID = -1
	return nil
}

// DebugInfo summarizes the cache's current state, for diagnostics.
func (c *Cache) DebugInfo() string {
	if c.sliceMap == nil {
		return "compositor: cache uninitialized"
	}
	calphaName := "none"
	if c.calphaOverlay != nil {
		calphaName = c.calphaOverlay.Desc.Name
	}
	return fmt.Sprintf(
		"compositor: %dx%d rgba=%s video=%s calpha=%s align=%dx%d tiled=%v anyOSD=%v changeID=%d",
		c.params.W, c.params.H, c.rgbaOverlay.Desc.Name, c.plan.VideoDesc.Name, calphaName,
		c.alignX, c.alignY, c.plan.Tiled, c.sliceMap.AnyOSD, c.changeID,
	)
}

// SupportedFormats reports which sbitmap.Format values the compositor
// can currently rasterize; both are always supported, so this exists
// mainly as a point of extension mirroring mp_draw_sub_formats.
func SupportedFormats() map[sbitmap.Format]bool {
	return map[sbitmap.Format]bool{
		sbitmap.FormatLibass: true,
		sbitmap.FormatRGBA:   true,
	}
}
