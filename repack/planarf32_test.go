package repack

import (
	"testing"

	"github.com/ausocean/osdcompose/imgfmt"
)

func TestPlanarF32RoundTrip(t *testing.T) {
	desc := imgfmt.MustGet(imgfmt.I420)
	src := NewImage(desc, 4, 4)
	for i := range src.Planes[0].Pix {
		src.Planes[0].Pix[i] = byte(i * 17)
	}
	for i := range src.Planes[1].Pix {
		src.Planes[1].Pix[i] = byte(i * 41)
	}

	toF32 := NewPlanarF32(desc, ToF32)
	f32 := NewImage(toF32.FormatDst(), 4, 4)
	if err := toF32.ConfigureBuffers(f32, src); err != nil {
		t.Fatal(err)
	}
	toF32.RepackLine(0, 0, 0, 0, 4)

	fromF32 := NewPlanarF32(desc, FromF32)
	back := NewImage(desc, 4, 4)
	if err := fromF32.ConfigureBuffers(back, f32); err != nil {
		t.Fatal(err)
	}
	fromF32.RepackLine(0, 0, 0, 0, 4)

	for i := range src.Planes[0].Pix {
		if got, want := back.Planes[0].Pix[i], src.Planes[0].Pix[i]; got != want {
			t.Errorf("plane 0 byte %d: got %d, want %d", i, got, want)
		}
	}
	for i := range src.Planes[1].Pix {
		if got, want := back.Planes[1].Pix[i], src.Planes[1].Pix[i]; got != want {
			t.Errorf("plane 1 byte %d: got %d, want %d", i, got, want)
		}
	}
}

func TestPlanarF32Alignment(t *testing.T) {
	desc := imgfmt.MustGet(imgfmt.I420)
	p := NewPlanarF32(desc, ToF32)
	if p.AlignX() != desc.AlignX || p.AlignY() != desc.AlignY {
		t.Fatalf("alignment %d,%d does not match source descriptor %d,%d",
			p.AlignX(), p.AlignY(), desc.AlignX, desc.AlignY)
	}
}
