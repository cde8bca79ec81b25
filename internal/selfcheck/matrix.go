package selfcheck

import (
	"math"
	"math/rand/v2"

	"github.com/samcharles93/blasq/pkg/blas"
)

// matrix is a logical r-by-c matrix kept row by row, independent of the
// storage order it is handed to a kernel in.
type matrix[T blas.Scalar] struct {
	r, c int
	v    []T
}

func randomMatrix[T blas.Scalar](rng *rand.Rand, r, c int) matrix[T] {
	m := matrix[T]{r: r, c: c, v: make([]T, r*c)}
	for i := range m.v {
		m.v[i] = blas.FromParts[T](rng.Float64()*2-1, rng.Float64()*2-1)
	}
	return m
}

// diagonallyDominant makes a square matrix safe to solve against.
func (m matrix[T]) diagonallyDominant() matrix[T] {
	for i := range min(m.r, m.c) {
		m.v[i*m.c+i] += blas.FromFloat[T](float64(m.r + 1))
	}
	return m
}

func (m matrix[T]) at(i, j int) T { return m.v[i*m.c+j] }

// store lays m out in layout with the tightest leading dimension.
func (m matrix[T]) store(layout blas.Layout) ([]T, int64) {
	ld := m.c
	if layout == blas.ColMajor {
		ld = m.r
	}
	ld = max(ld, 1)
	out := make([]T, max(m.r*m.c, 1))
	for i := range m.r {
		for j := range m.c {
			out[offset(layout, ld, i, j)] = m.at(i, j)
		}
	}
	return out, int64(ld)
}

func loadMatrix[T blas.Scalar](layout blas.Layout, v []T, ld int64, r, c int) matrix[T] {
	m := matrix[T]{r: r, c: c, v: make([]T, r*c)}
	for i := range r {
		for j := range c {
			m.v[i*c+j] = v[offset(layout, int(ld), i, j)]
		}
	}
	return m
}

func offset(layout blas.Layout, ld, i, j int) int {
	if layout == blas.ColMajor {
		return j*ld + i
	}
	return i*ld + j
}

func vector[T blas.Scalar](v []T) matrix[T] {
	return matrix[T]{r: 1, c: len(v), v: v}
}

func scalar[T blas.Scalar](v T) matrix[T] {
	return matrix[T]{r: 1, c: 1, v: []T{v}}
}

// relErr is the largest elementwise difference between got and want,
// relative to the largest magnitude in want. With uplo set only that
// triangle is compared.
func relErr[T blas.Scalar](got, want matrix[T], uplo blas.Uplo) float64 {
	if got.r != want.r || got.c != want.c {
		return math.Inf(1)
	}
	var diff, scale float64
	for i := range want.r {
		for j := range want.c {
			if uplo == blas.Upper && j < i || uplo == blas.Lower && j > i {
				continue
			}
			gr, gi := blas.Parts(got.at(i, j))
			wr, wi := blas.Parts(want.at(i, j))
			diff = max(diff, math.Hypot(gr-wr, gi-wi))
			scale = max(scale, math.Hypot(wr, wi))
		}
	}
	return diff / max(scale, 1)
}

// tolerance is the accepted relative error for a precision.
func tolerance(d blas.Domain) float64 {
	if d.Real() == blas.RealSingle {
		return 1e-4
	}
	return 1e-10
}
