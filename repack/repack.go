package repack

import "github.com/ausocean/osdcompose/imgfmt"

// Repacker converts strips of pixels between a storage pixel format
// and a planar float32 working format: create a planar/float32
// converter for a format, query alignment, configure source and
// destination buffers, then repack lines on demand.
type Repacker interface {
	// AlignX, AlignY report the alignment the repacker requires of any
	// strip it is asked to convert.
	AlignX() int
	AlignY() int

	// FormatSrc, FormatDst report the component-level shape of the
	// repacker's source and destination sides, so callers (reinit) can
	// verify plane-layout agreement without touching pixels. They
	// describe the repacker itself, not any particular buffer.
	FormatSrc() imgfmt.Desc
	FormatDst() imgfmt.Desc

	// ConfigureBuffers fixes the concrete source and destination images
	// subsequent RepackLine calls operate on.
	ConfigureBuffers(dst, src *Image) error

	// RepackLine converts one strip of width w, reading from (srcX,
	// srcY) in the configured source image and writing to (dstX, dstY)
	// in the configured destination image. The number of rows processed
	// is implicit in the configured buffers' heights.
	RepackLine(dstX, dstY, srcX, srcY, w int)
}
