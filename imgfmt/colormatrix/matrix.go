// Package colormatrix builds the small 3x4 RGB<->YUV conversion matrices
// the repack stage needs when a strip crosses a color-space or level
// boundary (BT.601 vs BT.709 primaries, studio vs full range). The
// matrix-times-vector work is done with gonum.org/v1/gonum/mat rather
// than hand-rolled fixed point; this package is the module's only
// gonum user.
package colormatrix

import "gonum.org/v1/gonum/mat"

// Matrix is a row-major 3x4 affine transform: [Y;U;V] = M * [R;G;B;1].
type Matrix struct {
	m *mat.Dense
}

// Primaries selects the luma coefficients for a YUV matrix.
type Primaries struct {
	Kr, Kb float64
}

var (
	BT601 = Primaries{Kr: 0.2990, Kb: 0.1140}
	BT709 = Primaries{Kr: 0.2126, Kb: 0.0722}
	BT2020 = Primaries{Kr: 0.2627, Kb: 0.0593}
)

// Levels selects studio (limited) vs full range scaling.
type Levels int

const (
	Full Levels = iota
	Limited
)

// Build computes the RGB (full range, [0,1]) -> YUV conversion matrix for
// the given primaries and output level convention, with Y, U, V all
// normalized to [0, 1] (U, V offset by 0.5).
func Build(p Primaries, lv Levels) *Matrix {
	kr, kb := p.Kr, p.Kb
	kg := 1 - kr - kb

	scaleY, addY := 1.0, 0.0
	scaleUV, addUV := 0.5, 0.5
	if lv == Limited {
		scaleY = 219.0 / 255.0
		addY = 16.0 / 255.0
		scaleUV = 224.0 / 255.0 * 0.5
	}

	cb := scaleUV / (1 - kb)
	cr := scaleUV / (1 - kr)

	data := []float64{
		kr * scaleY, kg * scaleY, kb * scaleY, addY,
		-kr * cb, -kg * cb, (1 - kb) * cb, addUV,
		(1 - kr) * cr, -kg * cr, -kb * cr, addUV,
	}
	return &Matrix{m: mat.NewDense(3, 4, data)}
}

// Apply converts one RGB triple (each in [0, 1]) to Y, U, V.
func (mx *Matrix) Apply(r, g, b float64) (y, u, v float64) {
	in := mat.NewVecDense(4, []float64{r, g, b, 1})
	var out mat.VecDense
	out.MulVec(mx.m, in)
	return out.AtVec(0), out.AtVec(1), out.AtVec(2)
}
