package repack

import (
	"encoding/binary"
	"math"

	"github.com/ausocean/osdcompose/imgfmt"
)

// Direction selects which way a PlanarF32 repacker converts.
type Direction int

const (
	// ToF32 converts a real (uint8) format into planar float32.
	ToF32 Direction = iota
	// FromF32 converts planar float32 back into a real format.
	FromF32
)

// PlanarF32 is the reference Repacker: it expands an 8-bit planar
// format's samples to [0, 1]-range float32, or packs them back.
//
// This is a faithful-in-spirit, not bit-exact, stand-in for a real
// repack library: round-tripping through it must stay consistent and
// honor alignment, but the exact arithmetic is this package's own.
type PlanarF32 struct {
	real imgfmt.Desc
	f32  imgfmt.Desc
	dir  Direction

	dst, src *Image
	rows     int
}

// NewPlanarF32 builds a repacker for the given real (non-float)
// descriptor and direction.
func NewPlanarF32(real imgfmt.Desc, dir Direction) *PlanarF32 {
	return &PlanarF32{real: real, f32: real.AsFloat32(), dir: dir}
}

func (p *PlanarF32) AlignX() int { return p.real.AlignX }
func (p *PlanarF32) AlignY() int { return p.real.AlignY }

func (p *PlanarF32) FormatSrc() imgfmt.Desc {
	if p.dir == ToF32 {
		return p.real
	}
	return p.f32
}

func (p *PlanarF32) FormatDst() imgfmt.Desc {
	if p.dir == ToF32 {
		return p.f32
	}
	return p.real
}

func (p *PlanarF32) ConfigureBuffers(dst, src *Image) error {
	p.dst, p.src = dst, src
	p.rows = dst.H
	if src.H < p.rows {
		p.rows = src.H
	}
	return nil
}

func (p *PlanarF32) RepackLine(dstX, dstY, srcX, srcY, w int) {
	if p.dst == nil || p.src == nil {
		panic("repack: buffers not configured")
	}

	planes := len(p.dst.Desc.Planes)
	if n := len(p.src.Desc.Planes); n < planes {
		planes = n
	}

	for pl := 0; pl < planes; pl++ {
		xs, ys := p.real.PlaneSubsampling(pl)
		cw := CeilShift(w, xs)
		rows := CeilShift(p.rows, ys)

		for y := 0; y < rows; y++ {
			srcRow := p.src.PixelPtr(pl, srcX, srcY+y)
			dstRow := p.dst.PixelPtr(pl, dstX, dstY+y)
			convertRow(p.dst.Desc.ComponentType, p.src.Desc.ComponentType, dstRow, srcRow, cw)
		}
	}
}

func convertRow(dstCT, srcCT imgfmt.ComponentType, dst, src []byte, n int) {
	for x := 0; x < n; x++ {
		v := readComponent(srcCT, src, x)
		writeComponent(dstCT, dst, x, v)
	}
}

func readComponent(ct imgfmt.ComponentType, buf []byte, idx int) float64 {
	if ct == imgfmt.ComponentFloat32 {
		bits := binary.LittleEndian.Uint32(buf[idx*4:])
		return float64(math.Float32frombits(bits))
	}
	return float64(buf[idx]) / 255.0
}

func writeComponent(ct imgfmt.ComponentType, buf []byte, idx int, v float64) {
	if ct == imgfmt.ComponentFloat32 {
		binary.LittleEndian.PutUint32(buf[idx*4:], math.Float32bits(float32(v)))
		return
	}
	iv := int(v*255.0 + 0.5)
	if iv < 0 {
		iv = 0
	}
	if iv > 255 {
		iv = 255
	}
	buf[idx] = byte(iv)
}
