package rasterize

import (
	"testing"

	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/repack"
	"github.com/ausocean/osdcompose/sbitmap"
	"github.com/ausocean/osdcompose/slicemap"
)

func TestMonoOpaqueCoverageReplacesTransparentDest(t *testing.T) {
	dst := repack.NewImage(bgraDesc, 4, 4)
	sm := slicemap.New(4, 4)

	cov := make([]byte, 16)
	for i := range cov {
		cov[i] = 255 // full coverage everywhere.
	}
	b := sbitmap.Bitmap{
		X: 0, Y: 0, W: 4, H: 4, DW: 4, DH: 4,
		Bitmap: cov,
		Stride: 4,
		Libass: sbitmap.LibassInfo{Color: (200 << 24) | (100 << 16) | (50 << 8) | 0}, // opaque.
	}

	Mono(dst, sm, b, 1, 1)

	px := dst.PixelPtr(0, 1, 1)
	if px[0] != 50 || px[1] != 100 || px[2] != 200 || px[3] != 255 {
		t.Fatalf("pixel = %v, want B,G,R,A = 50,100,200,255", px[:4])
	}
	if !sm.AnyOSD {
		t.Error("AnyOSD should be set after drawing")
	}
}

func TestMonoZeroCoverageLeavesDestUntouched(t *testing.T) {
	dst := repack.NewImage(bgraDesc, 4, 4)
	for i := range dst.Planes[0].Pix {
		dst.Planes[0].Pix[i] = 77
	}
	sm := slicemap.New(4, 4)

	cov := make([]byte, 16) // all zero coverage.
	b := sbitmap.Bitmap{
		X: 0, Y: 0, W: 4, H: 4, DW: 4, DH: 4,
		Bitmap: cov,
		Stride: 4,
		Libass: sbitmap.LibassInfo{Color: (255 << 24) | (255 << 16) | (255 << 8) | 0},
	}

	Mono(dst, sm, b, 1, 1)

	for _, v := range dst.Planes[0].Pix {
		if v != 77 {
			t.Fatal("zero-coverage bitmap altered dest pixels")
		}
	}
}

func TestMonoClipsToDestBounds(t *testing.T) {
	dst := repack.NewImage(bgraDesc, 2, 2)
	sm := slicemap.New(2, 2)

	cov := make([]byte, 16) // 4x4, drawn at (0,0) onto a 2x2 dest.
	for i := range cov {
		cov[i] = 255
	}
	b := sbitmap.Bitmap{
		X: 0, Y: 0, W: 4, H: 4, DW: 4, DH: 4,
		Bitmap: cov,
		Stride: 4,
		Libass: sbitmap.LibassInfo{Color: (10 << 24) | (20 << 16) | (30 << 8) | 0},
	}

	Mono(dst, sm, b, 1, 1) // must not panic or write out of bounds.

	px := dst.PixelPtr(0, 1, 1)
	if px[0] != 30 || px[1] != 20 || px[2] != 10 {
		t.Fatalf("clipped pixel = %v", px[:3])
	}
}

func TestUnpackLibassColor(t *testing.T) {
	// Transparency byte 64 of 255 -> alpha = 1 - 64/255.
	r, g, b, a := unpackLibassColor((10 << 24) | (20 << 16) | (30 << 8) | 64)
	if r <= 0 || g <= 0 || b <= 0 {
		t.Fatal("expected non-zero color components")
	}
	wantA := 1.0 - 64.0/255.0
	if diff := a - wantA; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("alpha = %v, want %v", a, wantA)
	}
}

func TestCacheRGBARescalesOnChangeID(t *testing.T) {
	dst := repack.NewImage(bgraDesc, 8, 8)
	sm := slicemap.New(8, 8)
	s := &countingScaler{}
	c := NewCache(s, 1, 1)

	// DW/DH differ from W/H, so this always takes the scaling path.
	part := sbitmap.Bitmap{
		X: 0, Y: 0, W: 2, H: 2, DW: 4, DH: 4,
		Bitmap: make([]byte, 2*2*4),
		Stride: 2 * 4,
	}

	if err := c.RGBA(dst, sm, 0, 1, part); err != nil {
		t.Fatal(err)
	}
	if s.scaleCalls != 1 {
		t.Fatalf("scaleCalls = %d, want 1 after first draw", s.scaleCalls)
	}

	// Same change id, same render index: must reuse the cached part.
	if err := c.RGBA(dst, sm, 0, 1, part); err != nil {
		t.Fatal(err)
	}
	if s.scaleCalls != 1 {
		t.Fatalf("scaleCalls = %d, want 1 after repeated draw with same changeID", s.scaleCalls)
	}

	// New change id: must rescale.
	if err := c.RGBA(dst, sm, 0, 2, part); err != nil {
		t.Fatal(err)
	}
	if s.scaleCalls != 2 {
		t.Fatalf("scaleCalls = %d, want 2 after changeID moved on", s.scaleCalls)
	}
}

// TestCacheRGBAPassThroughSkipsScale covers S2: when the bitmap's
// destination size already matches its source size, no Part is
// allocated and the scaler is never called.
func TestCacheRGBAPassThroughSkipsScale(t *testing.T) {
	dst := repack.NewImage(bgraDesc, 8, 8)
	sm := slicemap.New(8, 8)
	s := &countingScaler{}
	c := NewCache(s, 1, 1)

	cov := make([]byte, 2*2*4)
	for i := range cov {
		cov[i] = 200
	}
	part := sbitmap.Bitmap{
		X: 1, Y: 1, W: 2, H: 2, DW: 2, DH: 2,
		Bitmap: cov,
		Stride: 2 * 4,
	}

	if err := c.RGBA(dst, sm, 0, 1, part); err != nil {
		t.Fatal(err)
	}
	if s.scaleCalls != 0 {
		t.Fatalf("scaleCalls = %d, want 0 for a pass-through draw", s.scaleCalls)
	}
	if len(c.parts) != 0 {
		t.Fatalf("parts cached = %d, want 0 for a pass-through draw", len(c.parts))
	}

	px := dst.PixelPtr(0, 1, 1)
	if px[0] != 200 {
		t.Fatalf("pass-through pixel = %v, want premultiplied 200 straight through", px[:4])
	}
}

// TestCacheRGBAClipsSourceProportionally covers S3: clipping the
// destination rectangle against dst's bounds must clip the source
// rectangle proportionally rather than scaling the full source to the
// full (unclipped) destination size and cropping the result.
func TestCacheRGBAClipsSourceProportionally(t *testing.T) {
	dst := repack.NewImage(bgraDesc, 4, 4)
	sm := slicemap.New(4, 4)
	s := &recordingScaler{}
	c := NewCache(s, 1, 1)

	// 2x2 source scaled to a 4x4 destination at (-2,-2), so that
	// clipping to dst's [0,4)x[0,4) keeps only the destination's
	// bottom-right 2x2 quarter, (0,0)-(2,2) in dst coordinates.
	part := sbitmap.Bitmap{
		X: -2, Y: -2, W: 2, H: 2, DW: 4, DH: 4,
		Bitmap: make([]byte, 2*2*4),
		Stride: 2 * 4,
	}

	if err := c.RGBA(dst, sm, 0, 1, part); err != nil {
		t.Fatal(err)
	}
	if s.lastSrcW != 1 || s.lastSrcH != 1 {
		t.Fatalf("scaled source size = %dx%d, want 1x1 (source clipped proportionally)", s.lastSrcW, s.lastSrcH)
	}
	if s.lastDstW != 2 || s.lastDstH != 2 {
		t.Fatalf("scaled dest size = %dx%d, want 2x2", s.lastDstW, s.lastDstH)
	}
	part0 := c.parts[0]
	if part0 == nil || part0.Image.W != 2 || part0.Image.H != 2 {
		t.Fatal("expected the clipped-and-scaled result cached in parts[0]")
	}
}

type countingScaler struct {
	scaleCalls int
}

func (s *countingScaler) SupportsFormats(dst, src imgfmt.Desc) bool { return true }

func (s *countingScaler) Scale(dst, src *repack.Image) error {
	s.scaleCalls++
	return nil
}

type recordingScaler struct {
	lastSrcW, lastSrcH int
	lastDstW, lastDstH int
}

func (s *recordingScaler) SupportsFormats(dst, src imgfmt.Desc) bool { return true }

func (s *recordingScaler) Scale(dst, src *repack.Image) error {
	s.lastSrcW, s.lastSrcH = src.W, src.H
	s.lastDstW, s.lastDstH = dst.W, dst.H
	return nil
}
