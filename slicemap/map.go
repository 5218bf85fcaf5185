package slicemap

// Map is a 2D array of Slice, one per (row, slice column), row-major:
// Slices[y*PerRow + x/SliceW].
type Map struct {
	Slices []Slice
	PerRow int
	H      int

	// AnyOSD is true iff at least one slice is non-empty. MarkRect sets
	// it; Reset clears it.
	AnyOSD bool
}

// New allocates a slice map for an overlay of width w and height h,
// rounded as the caller has already rounded w (slices_per_row =
// ceil(w / SliceW)).
func New(w, h int) *Map {
	perRow := (w + SliceW - 1) / SliceW
	m := &Map{
		Slices: make([]Slice, perRow*h),
		PerRow: perRow,
		H:      h,
	}
	m.Reset()
	return m
}

func alignDown(v, align int) int { return v - v%align }
func alignUp(v, align int) int {
	if r := v % align; r != 0 {
		return v + align - r
	}
	return v
}

// line returns the slices for row y.
func (m *Map) line(y int) []Slice {
	return m.Slices[y*m.PerRow : (y+1)*m.PerRow]
}

// Row returns the slices for row y, for callers outside the package
// (the overlay converter and blend kernel walk marked slices
// directly).
func (m *Map) Row(y int) []Slice { return m.line(y) }

// MarkRect records that every pixel inside the axis-aligned rectangle
// [x0, x1) x [y0, y1) may be non-transparent. The rectangle must already
// be clipped to [0, W] x [0, H]; it is then expanded outward to
// (alignX, alignY) multiples before marking, so downstream plane access
// in subsampled formats stays on chroma macro-pixel boundaries.
//
// The operation is monotone: within one render pass it only grows
// intervals, never shrinks them.
func (m *Map) MarkRect(x0, y0, x1, y1, alignX, alignY int) {
	x0 = alignDown(x0, alignX)
	y0 = alignDown(y0, alignY)
	x1 = alignUp(x1, alignX)
	y1 = alignUp(y1, alignY)

	if x0 < 0 || x0 > x1 || x1 > m.PerRow*SliceW {
		panic("slicemap: x range out of bounds after alignment")
	}
	if y0 < 0 || y0 > y1 || y1 > m.H {
		panic("slicemap: y range out of bounds after alignment")
	}
	if x0 == x1 || y0 == y1 {
		return
	}

	sx0 := x0 / SliceW
	sx1 := (x1 - 1) / SliceW // x1 is exclusive; this is the last touched column.
	x0Local := uint16(x0 % SliceW)
	x1Local := uint16(x1 - sx1*SliceW) // SliceW when x1 lands on a slice boundary.

	for y := y0; y < y1; y++ {
		line := m.line(y)

		s0 := &line[sx0]
		s1 := &line[sx1]

		if x0Local < s0.X0 {
			s0.X0 = x0Local
		}
		if x1Local > s1.X1 {
			s1.X1 = x1Local
		}

		if s0 != s1 {
			s0.X1 = SliceW
			s1.X0 = 0
			for x := sx0 + 1; x < sx1; x++ {
				line[x] = Slice{X0: 0, X1: SliceW}
			}
		}

		m.AnyOSD = true
	}
}

// Reset clears every slice back to empty and resets AnyOSD. Callers
// that also need to zero the backing pixel buffer should clear that
// separately, in the same pass.
func (m *Map) Reset() {
	for i := range m.Slices {
		m.Slices[i] = emptySlice
	}
	m.AnyOSD = false
}

// AnyNonEmpty reports whether any slice in rows [y0, y1) is non-empty,
// across all slice columns. The tiled overlay converter tests columns
// individually with AnyNonEmptyInColumn instead.
func (m *Map) AnyNonEmpty(y0, y1 int) bool {
	for y := y0; y < y1; y++ {
		for _, s := range m.line(y) {
			if !s.Empty() {
				return true
			}
		}
	}
	return false
}

// AnyNonEmptyInColumn reports whether slice column sx is non-empty in
// any row of [y0, y1). Used by the tiled overlay converter to skip
// individual column tiles within a row band that carry no OSD content,
// rather than only skipping whole-width bands.
func (m *Map) AnyNonEmptyInColumn(sx, y0, y1 int) bool {
	for y := y0; y < y1; y++ {
		if !m.line(y)[sx].Empty() {
			return true
		}
	}
	return false
}

// Valid reports whether every slice satisfies the map's invariant:
// empty (X0 > X1) or 0 <= X0 <= X1 <= SliceW.
func (m *Map) Valid() bool {
	for _, s := range m.Slices {
		if s.Empty() {
			continue
		}
		if s.X0 > s.X1 || s.X1 > SliceW {
			return false
		}
	}
	return true
}
