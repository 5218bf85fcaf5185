// Package blend composites the converted video-format overlay onto
// the destination video frame, walking only the rectangles the slice
// map marked. Each visited strip is repacked into a planar float32
// working format before the blend math runs, and repacked back
// afterwards, so the same premultiplied source-over kernel applies
// regardless of the destination's storage format (8-bit planar YUV,
// subsampled or not).
package blend

import (
	"sync"

	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/repack"
	"github.com/ausocean/osdcompose/slicemap"
)

// Strips holds one worker's float32 working buffers: overlay_tmp and
// video_tmp are SliceW x alignY at plane-0 resolution; calpha_tmp,
// when present, is SliceW x 1. They are scratch space reused for
// every slice the worker visits and carry no state between calls.
type Strips struct {
	Overlay *repack.Image
	Video   *repack.Image
	Calpha  *repack.Image

	overlayRepack repack.Repacker
	videoRepack   repack.Repacker
	calphaRepack  repack.Repacker
}

// NewStrips builds the working strips and repackers for one worker,
// given the overlay's format, the destination's format, and (when
// needCalpha) the chroma-alpha side buffer's format.
func NewStrips(overlayDesc, dstDesc, calphaDesc imgfmt.Desc, needCalpha bool) *Strips {
	alignY := dstDesc.AlignY
	if alignY <= 0 {
		alignY = 1
	}
	s := &Strips{
		Overlay:       repack.NewImage(overlayDesc.AsFloat32(), slicemap.SliceW, alignY),
		Video:         repack.NewImage(dstDesc.AsFloat32(), slicemap.SliceW, alignY),
		overlayRepack: repack.NewPlanarF32(overlayDesc, repack.ToF32),
		videoRepack:   repack.NewPlanarF32(dstDesc, repack.ToF32),
	}
	if needCalpha {
		s.Calpha = repack.NewImage(calphaDesc.AsFloat32(), slicemap.SliceW, 1)
		s.calphaRepack = repack.NewPlanarF32(calphaDesc, repack.ToF32)
	}
	return s
}

// Slices blends overlay (and, if non-nil, calpha) onto dst, visiting
// only the marked regions of sm. With workers > 1 the image's rows are
// split into that many align_y-rounded bands and blended concurrently,
// each with its own working strips; dst, overlay and calpha must not
// otherwise be in use while this runs.
func Slices(dst, overlay, calpha *repack.Image, sm *slicemap.Map, workers int) error {
	if !sm.AnyOSD {
		return nil
	}

	alignY := dst.Desc.AlignY
	if alignY <= 0 {
		alignY = 1
	}
	needCalpha := calpha != nil
	var calphaDesc imgfmt.Desc
	if needCalpha {
		calphaDesc = calpha.Desc
	}

	if workers <= 1 {
		strips := NewStrips(overlay.Desc, dst.Desc, calphaDesc, needCalpha)
		blendRows(dst, overlay, calpha, sm, strips, 0, sm.H, alignY)
		return nil
	}

	bandH := alignUp((sm.H+workers-1)/workers, alignY)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		y0 := i * bandH
		y1 := y0 + bandH
		if y1 > sm.H {
			y1 = sm.H
		}
		if y0 >= y1 {
			continue
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			strips := NewStrips(overlay.Desc, dst.Desc, calphaDesc, needCalpha)
			blendRows(dst, overlay, calpha, sm, strips, y0, y1, alignY)
		}(y0, y1)
	}
	wg.Wait()
	return nil
}

func alignUp(v, align int) int {
	if align <= 1 {
		return v
	}
	if r := v % align; r != 0 {
		return v + align - r
	}
	return v
}

// blendRows walks row bands of alignY rows at a time, visiting each
// band's slice columns once: mark_rect always expands the rows it
// touches to align_y multiples, so every row within a band shares the
// same slice range and it suffices to read the band's first row.
func blendRows(dst, overlay, calpha *repack.Image, sm *slicemap.Map, strips *Strips, y0, y1, alignY int) {
	for y := y0; y < y1; y += alignY {
		for sx, s := range sm.Row(y) {
			if s.Empty() {
				continue
			}
			x0 := sx*slicemap.SliceW + int(s.X0)
			x1 := sx*slicemap.SliceW + int(s.X1)
			w := x1 - x0
			if w <= 0 {
				continue
			}
			blendSlice(dst, overlay, calpha, strips, x0, w, y, alignY)
		}
	}
}

// blendSlice repacks one strip from video_overlay into overlay_tmp and
// from dst into video_tmp (plus, if calpha exists, a chroma-resampled
// strip into calpha_tmp), runs the float32 blend kernel, and repacks
// video_tmp back into dst.
func blendSlice(dst, overlay, calpha *repack.Image, strips *Strips, x, w, y, alignY int) {
	strips.overlayRepack.ConfigureBuffers(strips.Overlay, overlay)
	strips.overlayRepack.RepackLine(0, 0, x, y, w)

	strips.videoRepack.ConfigureBuffers(strips.Video, dst)
	strips.videoRepack.RepackLine(0, 0, x, y, w)

	if strips.Calpha != nil && calpha != nil {
		xs, ys := overlay.Desc.PlaneSubsampling(1)
		cw := repack.CeilShift(w, xs)
		strips.calphaRepack.ConfigureBuffers(strips.Calpha, calpha)
		strips.calphaRepack.RepackLine(0, 0, x>>uint(xs), y>>uint(ys), cw)
	}

	blendSliceF32(strips.Video, strips.Overlay, strips.Calpha, w, alignY)

	strips.videoRepack.ConfigureBuffers(dst, strips.Video)
	strips.videoRepack.RepackLine(x, y, 0, 0, w)
}

// blendSliceF32 applies premultiplied source-over to every plane of
// video_tmp, in place, sourcing color from overlay_tmp and alpha from
// overlay_tmp's own alpha plane (luma/RGB planes) or calpha_tmp
// (chroma planes).
//
// F32At/SetF32At take plane-0-scale coordinates and shift internally
// per the target plane's own subsampling, so pl's samples are visited
// at luma-scale x (lx), stepping by that plane's column ratio; calpha_tmp
// carries no subsampling of its own (it is already stored chroma-native),
// so it is indexed by the chroma-scale counterpart (cx) instead.
func blendSliceF32(videoTmp, overlayTmp, calphaTmp *repack.Image, w, alignY int) {
	ap, _, hasAlpha := overlayTmp.Desc.AlphaPlane()

	for pl := range videoTmp.Desc.Planes {
		xs, ys := videoTmp.Desc.PlaneSubsampling(pl)
		rows := 1
		if ys == 0 {
			rows = alignY
		}
		step := 1 << uint(xs)

		for r := 0; r < rows; r++ {
			for lx, cx := 0, 0; lx < w; lx, cx = lx+step, cx+1 {
				var alpha float32
				switch {
				case !hasAlpha:
					alpha = 1
				case xs == 0 && ys == 0:
					alpha = overlayTmp.F32At(ap, lx, r)
				case calphaTmp != nil:
					alpha = calphaTmp.F32At(0, cx, 0)
				default:
					alpha = overlayTmp.F32At(ap, lx, r)
				}

				srcV := overlayTmp.F32At(pl, lx, r)
				dstV := videoTmp.F32At(pl, lx, r)
				videoTmp.SetF32At(pl, lx, r, srcV+dstV*(1-alpha))
			}
		}
	}
}

