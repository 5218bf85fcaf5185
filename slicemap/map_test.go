package slicemap

import "testing"

func TestMarkRectWithinOneSlice(t *testing.T) {
	m := New(512, 4)
	m.MarkRect(10, 0, 20, 2, 1, 1)

	if !m.AnyOSD {
		t.Fatal("expected AnyOSD to be true")
	}
	if !m.Valid() {
		t.Fatal("slice map invariant violated")
	}

	s := m.line(0)[0]
	if s.X0 != 10 || s.X1 != 20 {
		t.Fatalf("row 0: got %+v, want X0=10 X1=20", s)
	}
	if !m.line(2)[0].Empty() {
		t.Fatal("row 2 should remain untouched")
	}
}

func TestMarkRectSpansMultipleSlices(t *testing.T) {
	m := New(1024, 1)
	m.MarkRect(200, 0, 300, 1, 1, 1)

	line := m.line(0)
	if line[0].X0 != 200 || line[0].X1 != SliceW {
		t.Fatalf("slice 0: got %+v", line[0])
	}
	if line[1].X0 != 0 || line[1].X1 != 300-SliceW {
		t.Fatalf("slice 1: got %+v", line[1])
	}
}

func TestMarkRectExactSliceWidthBoundary(t *testing.T) {
	m := New(SliceW*2, 1)
	m.MarkRect(0, 0, SliceW*2, 1, 1, 1) // full width, an exact multiple of SliceW.

	line := m.line(0)
	if line[0].X0 != 0 || line[0].X1 != SliceW {
		t.Fatalf("slice 0: got %+v, want full [0,SliceW)", line[0])
	}
	if line[1].X0 != 0 || line[1].X1 != SliceW {
		t.Fatalf("slice 1: got %+v, want full [0,SliceW)", line[1])
	}
}

func TestMarkRectMonotone(t *testing.T) {
	m := New(512, 1)
	m.MarkRect(100, 0, 150, 1, 1, 1)
	m.MarkRect(120, 0, 130, 1, 1, 1) // fully contained; must not shrink.

	s := m.line(0)[0]
	if s.X0 != 100 || s.X1 != 150 {
		t.Fatalf("got %+v, want unchanged X0=100 X1=150", s)
	}
}

func TestMarkRectAlignment(t *testing.T) {
	m := New(512, 8)
	m.MarkRect(3, 1, 13, 5, 4, 2)

	s := m.line(0)[0]
	if s.X0 != 0 || s.X1 != 16 {
		t.Fatalf("expected alignment to expand to [0,16), got %+v", s)
	}
	// y0=1 is aligned down to 0 and y1=5 aligned up to 6, so rows 0-5
	// should be marked and row 6 left untouched.
	for y := 0; y < 6; y++ {
		if m.line(y)[0].Empty() {
			t.Fatalf("row %d should be marked", y)
		}
	}
	if !m.line(6)[0].Empty() {
		t.Fatal("row 6 should remain untouched")
	}
}
