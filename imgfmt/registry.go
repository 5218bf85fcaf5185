package imgfmt

// registry holds the fixed set of pixel formats this compositor knows
// about. Grounded on the small FourCC-keyed lookup table in
// vladimirvivien/go4vl's v4l2 package (a map from format ID to a
// descriptive entry, plus helper predicates over it) rather than a full
// codec-style format database, since the compositor only ever needs to
// query a handful of planar layouts.
var registry = map[ID]Desc{
	BGRA: {
		ID: BGRA, Name: "bgra", ComponentType: ComponentUint8,
		Planes: []Plane{{Components: []Component{
			{ID: 3, Size: 1}, {ID: 2, Size: 1}, {ID: 1, Size: 1}, {ID: 4, Size: 1},
		}}},
		AlignX: 1, AlignY: 1,
	},
	I420: {
		ID: I420, Name: "yuv420p", ComponentType: ComponentUint8,
		Planes: []Plane{
			{Components: []Component{{ID: 1, Size: 1}}},
			{Components: []Component{{ID: 2, Size: 1}}},
			{Components: []Component{{ID: 3, Size: 1}}},
		},
		XS: 1, YS: 1, AlignX: 2, AlignY: 2,
	},
	I420A: {
		ID: I420A, Name: "yuva420p", ComponentType: ComponentUint8,
		Planes: []Plane{
			{Components: []Component{{ID: 1, Size: 1}}},
			{Components: []Component{{ID: 2, Size: 1}}},
			{Components: []Component{{ID: 3, Size: 1}}},
			{Components: []Component{{ID: 4, Size: 1}}},
		},
		XS: 1, YS: 1, AlignX: 2, AlignY: 2,
	},
	YUV444: {
		ID: YUV444, Name: "yuv444p", ComponentType: ComponentUint8,
		Planes: []Plane{
			{Components: []Component{{ID: 1, Size: 1}}},
			{Components: []Component{{ID: 2, Size: 1}}},
			{Components: []Component{{ID: 3, Size: 1}}},
		},
		AlignX: 1, AlignY: 1,
	},
	YUV444A: {
		ID: YUV444A, Name: "yuva444p", ComponentType: ComponentUint8,
		Planes: []Plane{
			{Components: []Component{{ID: 1, Size: 1}}},
			{Components: []Component{{ID: 2, Size: 1}}},
			{Components: []Component{{ID: 3, Size: 1}}},
			{Components: []Component{{ID: 4, Size: 1}}},
		},
		AlignX: 1, AlignY: 1,
	},
	GBRP: {
		ID: GBRP, Name: "gbrp", ComponentType: ComponentUint8,
		Planes: []Plane{
			{Components: []Component{{ID: 2, Size: 1}}},
			{Components: []Component{{ID: 3, Size: 1}}},
			{Components: []Component{{ID: 1, Size: 1}}},
		},
		AlignX: 1, AlignY: 1,
	},
	GBRAP: {
		ID: GBRAP, Name: "gbrap", ComponentType: ComponentUint8,
		Planes: []Plane{
			{Components: []Component{{ID: 2, Size: 1}}},
			{Components: []Component{{ID: 3, Size: 1}}},
			{Components: []Component{{ID: 1, Size: 1}}},
			{Components: []Component{{ID: 4, Size: 1}}},
		},
		AlignX: 1, AlignY: 1,
	},
	Gray8: {
		ID: Gray8, Name: "gray8", ComponentType: ComponentUint8,
		Planes: []Plane{{Components: []Component{{ID: 4, Size: 1}}}},
		AlignX: 1, AlignY: 1,
	},
}

// Get returns the descriptor for a registered format.
func Get(id ID) (Desc, bool) {
	d, ok := registry[id]
	return d, ok
}

// MustGet is like Get but panics for an unregistered ID; used where the
// caller constructed the ID itself and a miss indicates programmer
// error.
func MustGet(id ID) Desc {
	d, ok := registry[id]
	if !ok {
		panic("imgfmt: unregistered format")
	}
	return d
}

// RegularDesc is a structural pixel-format query: a candidate
// descriptor built up field by field and then resolved to a
// registered ID with FindRegular. The compositor's reinit does not go
// through it; overlay.PlanFor picks the alpha-added format from a
// fixed table instead.
type RegularDesc struct {
	ComponentType ComponentType
	NumPlanes     int
	PlaneComps    [4]int // component ID of each plane's sole component (only single-component planes are modeled, which covers every planar format this compositor uses).
	ChromaXS      int
	ChromaYS      int
}

// toRegular reduces a full Desc to its RegularDesc shape, for comparison
// against FindRegular's candidates. Only single-component-per-plane
// formats are representable; BGRA (4 components in 1 plane) is not and
// is matched by ID directly where needed instead.
func (d Desc) toRegular() (RegularDesc, bool) {
	var r RegularDesc
	r.ComponentType = d.ComponentType
	r.NumPlanes = len(d.Planes)
	if r.NumPlanes > 4 {
		return r, false
	}
	r.ChromaXS, r.ChromaYS = d.XS, d.YS
	for i, p := range d.Planes {
		if len(p.Components) != 1 {
			return r, false
		}
		r.PlaneComps[i] = p.Components[0].ID
	}
	return r, true
}

// FindRegular looks up a registered planar format matching the given
// structural description exactly (component type, plane count, each
// plane's component ID in order, and chroma subsampling). It returns
// false if no such format is registered, mirroring mp_find_regular_imgfmt
// returning 0.
func FindRegular(want RegularDesc) (ID, bool) {
	for id, d := range registry {
		got, ok := d.toRegular()
		if !ok {
			continue
		}
		if got.ComponentType != want.ComponentType || got.NumPlanes != want.NumPlanes {
			continue
		}
		if got.ChromaXS != want.ChromaXS || got.ChromaYS != want.ChromaYS {
			continue
		}
		match := true
		for i := 0; i < got.NumPlanes; i++ {
			if got.PlaneComps[i] != want.PlaneComps[i] {
				match = false
				break
			}
		}
		if match {
			return id, true
		}
	}
	return Unknown, false
}
