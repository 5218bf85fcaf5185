package imgfmt

// ID names a registered pixel format.
type ID int

// Registered pixel formats. BGRA is the compositor's native overlay
// format (one interleaved plane, alpha component ID 4, no subsampling).
// The planar YUV formats model common video targets; the planar RGB
// formats model an RGB colorspace target with three or more planes.
const (
	Unknown ID = iota
	BGRA       // interleaved B,G,R,A (memory order); 1 plane.
	I420       // planar Y,U,V 4:2:0, no alpha.
	I420A      // planar Y,U,V,A 4:2:0.
	YUV444     // planar Y,U,V, no subsampling, no alpha.
	YUV444A    // planar Y,U,V,A, no subsampling.
	GBRP       // planar G,B,R (RGB colorspace), no alpha.
	GBRAP      // planar G,B,R,A (RGB colorspace).
	Gray8      // single plane, one component, ID 4 (used for alpha views).
)

// AlphaComponentID is the component ID that, by convention, always
// identifies the alpha channel when one is present.
const AlphaComponentID = 4

// Desc is a pixel format descriptor: plane count, per-plane component
// layout, chroma subsampling (expressed as log2 ratios) and the
// alignment the repack stage requires.
type Desc struct {
	ID            ID
	Name          string
	ComponentType ComponentType
	Planes        []Plane
	XS, YS        int // chroma subsampling log2 factors, applied to the planes that subsample.
	AlignX, AlignY int
}

// NumPlanes returns the plane count.
func (d Desc) NumPlanes() int { return len(d.Planes) }

// HasAlpha reports whether any plane carries the alpha component.
func (d Desc) HasAlpha() bool {
	for _, p := range d.Planes {
		if _, ok := p.HasComponent(AlphaComponentID); ok {
			return true
		}
	}
	return false
}

// AlphaPlane returns the index of the plane carrying the alpha
// component, and its component index within that plane.
func (d Desc) AlphaPlane() (plane, comp int, ok bool) {
	for pi, p := range d.Planes {
		if ci, ok := p.HasComponent(AlphaComponentID); ok {
			return pi, ci, true
		}
	}
	return 0, 0, false
}

// PlaneSubsampling returns the (xs, ys) subsampling factors that apply to
// the given plane. By convention plane 0 (luma or the first RGB
// component) and the alpha plane never subsample; chroma planes use the
// descriptor's XS/YS.
func (d Desc) PlaneSubsampling(plane int) (xs, ys int) {
	if plane == 0 {
		return 0, 0
	}
	if ap, _, ok := d.AlphaPlane(); ok && ap == plane {
		return 0, 0
	}
	return d.XS, d.YS
}

// AsFloat32 returns a derived descriptor with identical plane and
// subsampling layout but 4-byte float32 component storage and 1x1
// alignment. This
// models what the repack library produces as its "planar float32 working
// format" for any given source descriptor.
func (d Desc) AsFloat32() Desc {
	out := d
	out.ComponentType = ComponentFloat32
	out.AlignX, out.AlignY = 1, 1
	planes := make([]Plane, len(d.Planes))
	for i, p := range d.Planes {
		comps := make([]Component, len(p.Components))
		for j, c := range p.Components {
			comps[j] = Component{ID: c.ID, Size: 4}
		}
		planes[i] = Plane{Components: comps}
	}
	out.Planes = planes
	return out
}

// componentOrder returns the component IDs of each plane, one slice
// per plane in plane order. Used for structural comparisons of plane
// layout between descriptors.
func (d Desc) componentOrder() [][]int {
	out := make([][]int, len(d.Planes))
	for i, p := range d.Planes {
		ids := make([]int, len(p.Components))
		for j, c := range p.Components {
			ids[j] = c.ID
		}
		out[i] = ids
	}
	return out
}
