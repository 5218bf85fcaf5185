package compositor

import (
	"testing"

	"github.com/ausocean/osdcompose/config"
	"github.com/ausocean/osdcompose/imgfmt"
	"github.com/ausocean/osdcompose/mlog"
	"github.com/ausocean/osdcompose/repack"
	"github.com/ausocean/osdcompose/sbitmap"
)

func testConfig(tiles bool) config.Config {
	return config.Config{
		ScaleInTiles: tiles,
		Workers:      2,
		Logger:       mlog.New(mlog.Config{}, mlog.Error),
	}
}

func libassList(w, h int, transparencyByte uint32) *sbitmap.List {
	cov := make([]byte, w*h)
	for i := range cov {
		cov[i] = 255
	}
	return &sbitmap.List{
		ChangeID: 1,
		BBoxW:    w, BBoxH: h,
		Items: []sbitmap.Item{
			{
				ChangeID:    1,
				RenderIndex: 0,
				Format:      sbitmap.FormatLibass,
				Parts: []sbitmap.Bitmap{
					{
						X: 0, Y: 0, W: w, H: h, DW: w, DH: h,
						Bitmap: cov,
						Stride: w,
						Libass: sbitmap.LibassInfo{Color: (250 << 24) | (250 << 16) | (250 << 8) | transparencyByte},
					},
				},
			},
		},
	}
}

func TestDrawI420OpaqueRaisesLuma(t *testing.T) {
	w, h := 16, 16
	desc := imgfmt.MustGet(imgfmt.I420)
	dst := repack.NewImage(desc, w, h)
	for i := range dst.Planes[0].Pix {
		dst.Planes[0].Pix[i] = 16 // dark background.
	}
	dst.Params = imgfmt.Params{W: w, H: h, Format: imgfmt.I420, Color: imgfmt.ColorParams{Space: imgfmt.ColorSpaceBT709, Levels: imgfmt.LevelsLimited}}

	cfg := testConfig(false)
	var cache *Cache
	bitmaps := libassList(w, h, 0) // fully opaque near-white.

	if !Draw(&cache, cfg, dst, bitmaps) {
		t.Fatal("Draw reported failure")
	}
	if got := dst.PixelPtr(0, w/2, h/2)[0]; got < 100 {
		t.Errorf("luma after opaque white overlay = %d, want a much higher value than the 16 background", got)
	}
}

func TestDrawI420TiledMatchesWholeImagePath(t *testing.T) {
	w, h := 16, 16
	desc := imgfmt.MustGet(imgfmt.I420)

	run := func(tiled bool) *repack.Image {
		dst := repack.NewImage(desc, w, h)
		for i := range dst.Planes[0].Pix {
			dst.Planes[0].Pix[i] = 16
		}
		dst.Params = imgfmt.Params{W: w, H: h, Format: imgfmt.I420}
		var cache *Cache
		bitmaps := libassList(w, h, 0)
		if !Draw(&cache, testConfig(tiled), dst, bitmaps) {
			t.Fatal("Draw reported failure")
		}
		return dst
	}

	whole := run(false)
	tiled := run(true)

	for i := range whole.Planes[0].Pix {
		if whole.Planes[0].Pix[i] != tiled.Planes[0].Pix[i] {
			t.Fatalf("luma byte %d differs between whole-image and tiled paths: %d vs %d",
				i, whole.Planes[0].Pix[i], tiled.Planes[0].Pix[i])
		}
	}
}

func TestDrawGBRPDirectPath(t *testing.T) {
	w, h := 8, 8
	desc := imgfmt.MustGet(imgfmt.GBRP)
	dst := repack.NewImage(desc, w, h)
	for pl := range dst.Planes {
		for i := range dst.Planes[pl].Pix {
			dst.Planes[pl].Pix[i] = 5
		}
	}
	dst.Params = imgfmt.Params{W: w, H: h, Format: imgfmt.GBRP}

	cfg := testConfig(true) // RGB targets must ignore ScaleInTiles.
	var cache *Cache
	bitmaps := libassList(w, h, 0)

	if !Draw(&cache, cfg, dst, bitmaps) {
		t.Fatal("Draw reported failure")
	}
	// Opaque near-white libass color should closely replace the dark
	// background on every plane.
	for pl := 0; pl < 3; pl++ {
		if got := dst.PixelPtr(pl, w/2, h/2)[0]; got < 200 {
			t.Errorf("plane %d = %d, want a high value after opaque overlay", pl, got)
		}
	}
}

func TestDrawI420AStraightAlphaBracket(t *testing.T) {
	w, h := 8, 8
	desc := imgfmt.MustGet(imgfmt.I420A)
	dst := repack.NewImage(desc, w, h)
	ap, _, _ := desc.AlphaPlane()
	for i := range dst.Planes[0].Pix {
		dst.Planes[0].Pix[i] = 40
	}
	for i := range dst.Planes[ap].Pix {
		dst.Planes[ap].Pix[i] = 255 // fully opaque background, straight alpha.
	}
	dst.Params = imgfmt.Params{W: w, H: h, Format: imgfmt.I420A, Alpha: imgfmt.AlphaStraight}

	cfg := testConfig(false)
	var cache *Cache
	bitmaps := libassList(w, h, 0)

	if !Draw(&cache, cfg, dst, bitmaps) {
		t.Fatal("Draw reported failure")
	}
	if got := dst.PixelPtr(ap, w/2, h/2)[0]; got != 255 {
		t.Errorf("alpha after straight-alpha bracket = %d, want 255 (background stays opaque)", got)
	}
	if got := dst.PixelPtr(0, w/2, h/2)[0]; got < 100 {
		t.Errorf("luma after opaque overlay = %d, want higher than the 40 background", got)
	}
}

func TestDrawReusesCacheAcrossFrames(t *testing.T) {
	w, h := 8, 8
	desc := imgfmt.MustGet(imgfmt.I420)
	dst := repack.NewImage(desc, w, h)
	dst.Params = imgfmt.Params{W: w, H: h, Format: imgfmt.I420}

	cfg := testConfig(false)
	var cache *Cache
	bitmaps := libassList(w, h, 0)

	if !Draw(&cache, cfg, dst, bitmaps) {
		t.Fatal("first Draw reported failure")
	}
	first := cache
	if !Draw(&cache, cfg, dst, bitmaps) {
		t.Fatal("second Draw reported failure")
	}
	if cache != first {
		t.Error("Draw should reuse the same cache across frames with unchanged params")
	}
}

func TestDrawNoContentIsNoop(t *testing.T) {
	w, h := 8, 8
	desc := imgfmt.MustGet(imgfmt.I420)
	dst := repack.NewImage(desc, w, h)
	for i := range dst.Planes[0].Pix {
		dst.Planes[0].Pix[i] = 33
	}
	dst.Params = imgfmt.Params{W: w, H: h, Format: imgfmt.I420}

	cfg := testConfig(false)
	var cache *Cache
	empty := &sbitmap.List{ChangeID: 1, BBoxW: w, BBoxH: h}

	if !Draw(&cache, cfg, dst, empty) {
		t.Fatal("Draw reported failure")
	}
	for _, b := range dst.Planes[0].Pix {
		if b != 33 {
			t.Fatal("Draw with an empty bitmap list altered the destination")
		}
	}
}
