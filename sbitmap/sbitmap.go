// Package sbitmap defines the subtitle/OSD bitmap list consumed by the
// compositor. The producer (an ASS renderer, or any external RGBA
// source) is a black box; this package only names the shape of what it
// hands over.
package sbitmap

// Format identifies which rasterizer code path a Bitmap uses.
type Format int

const (
	FormatUnknown Format = iota
	FormatLibass         // 8-bit coverage plane + flat color.
	FormatRGBA           // pre-scaled, premultiplied BGRA source.
)

// LibassInfo carries the mono-alpha path's flat color, packed as
// 0xRRGGBBAA where the low byte is *transparency*, not opacity (A = 255
// - (color & 0xFF)).
type LibassInfo struct {
	Color uint32
}

// Bitmap is one part of a bitmap list item: a single rectangle to
// rasterize.
type Bitmap struct {
	// Destination position in the overlay, and source size.
	X, Y int
	W, H int

	// Destination size for the pre-scaled RGBA path; for the mono-alpha
	// path DW == W and DH == H always (no independent scaling).
	DW, DH int

	// Bitmap holds the source pixels: one byte of coverage per pixel for
	// FormatLibass, or 4 bytes (premultiplied, memory order B, G, R, A)
	// per pixel for
	// FormatRGBA.
	Bitmap []byte
	Stride int

	Libass LibassInfo
}

// Item is one sub_bitmap_list entry: a set of parts sharing a format and
// a change id used to detect unchanged content.
type Item struct {
	ChangeID    int64
	RenderIndex int
	Format      Format
	Parts       []Bitmap
}

// List is the full bitmap list handed to the compositor for one frame.
type List struct {
	ChangeID int64
	Items    []Item

	// BBoxW, BBoxH bound every item's destination rectangle; Draw
	// requires dst to be at least this large.
	BBoxW, BBoxH int
}
