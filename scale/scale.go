// Package scale defines the pixel-scaling/format-conversion black box
// the compositor relies on for every resampling or colorspace step:
// converting the premultiplied RGBA overlay into the target video
// format, shrinking the alpha plane to chroma resolution, scaling
// pre-rendered subtitle bitmaps into the overlay, and the
// premultiply/unpremultiply bracket around non-premultiplied targets.
//
// Concrete backends live in subpackages (imgscale, gocvscale) so the
// compositor can be built against either without a hard cgo
// dependency.
package scale

import (
	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/repack"
)

// Scaler converts pixels from a src image into a dst image, which may
// differ in size (resampling), pixel format (colorspace conversion),
// or both. Implementations are free to support only a subset of format
// pairs; SupportsFormats lets callers probe before committing to one.
type Scaler interface {
	// SupportsFormats reports whether this backend can convert between
	// the given descriptors at all (independent of any particular
	// image size).
	SupportsFormats(dst, src imgfmt.Desc) bool

	// Scale converts src into dst in place. dst and src must already be
	// allocated at their respective target sizes.
	Scale(dst, src *repack.Image) error
}
