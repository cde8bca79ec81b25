package dispatch

import (
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/pkg/blas"
)

const tol = 1e-10

// dense is a logical matrix held row by row, independent of any layout.
type dense[T blas.Scalar] struct {
	r, c int
	v    []T
}

func random[T blas.Scalar](rng *rand.Rand, r, c int) dense[T] {
	m := dense[T]{r: r, c: c, v: make([]T, r*c)}
	for i := range m.v {
		m.v[i] = blas.FromParts[T](rng.Float64()*2-1, rng.Float64()*2-1)
	}
	return m
}

func (m dense[T]) at(i, j int) T { return m.v[i*m.c+j] }

// store lays m out in the given order with the tightest leading dimension.
func (m dense[T]) store(layout blas.Layout) ([]T, int64) {
	ld := m.c
	if layout == blas.ColMajor {
		ld = m.r
	}
	ld = max(ld, 1)
	out := make([]T, max(m.r*m.c, 1))
	for i := range m.r {
		for j := range m.c {
			if layout == blas.ColMajor {
				out[j*ld+i] = m.at(i, j)
			} else {
				out[i*ld+j] = m.at(i, j)
			}
		}
	}
	return out, int64(ld)
}

func load[T blas.Scalar](layout blas.Layout, v []T, ld int64, r, c int) dense[T] {
	m := dense[T]{r: r, c: c, v: make([]T, r*c)}
	for i := range r {
		for j := range c {
			if layout == blas.ColMajor {
				m.v[i*c+j] = v[j*int(ld)+i]
			} else {
				m.v[i*c+j] = v[i*int(ld)+j]
			}
		}
	}
	return m
}

func near[T blas.Scalar](a, b T) bool {
	ar, ai := blas.Parts(a)
	br, bi := blas.Parts(b)
	return math.Hypot(ar-br, ai-bi) <= tol*max(1, math.Hypot(br, bi))
}

// sameMatrix compares two logical matrices, optionally only on one
// triangle.
func sameMatrix[T blas.Scalar](t *testing.T, name string, got, want dense[T], uplo blas.Uplo) {
	t.Helper()
	for i := range want.r {
		for j := range want.c {
			if uplo == blas.Upper && j < i || uplo == blas.Lower && j > i {
				continue
			}
			if !near(got.at(i, j), want.at(i, j)) {
				t.Fatalf("%s[%d,%d] = %v, want %v", name, i, j, got.at(i, j), want.at(i, j))
			}
		}
	}
}

// tracer records the routines a kernel set is asked to run.
type tracer struct {
	mu    sync.Mutex
	calls []string
}

func (tr *tracer) record(routine string) {
	tr.mu.Lock()
	tr.calls = append(tr.calls, routine)
	tr.mu.Unlock()
}

func (tr *tracer) routines() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return slices.Clone(tr.calls)
}

// tracedSet returns fresh kernels recording every kernel call.
func tracedSet() (*kernel.Set, *tracer) {
	set := kernel.Gonum()
	tr := &tracer{}
	set.Trace = tr.record
	return set, tr
}

func newRNG() *rand.Rand { return rand.New(rand.NewPCG(7, 11)) }

// dims returns the shape of X when op(X) is r-by-c.
func dims(trans blas.Op, r, c int) (int, int) {
	if trans == blas.NoTrans {
		return r, c
	}
	return c, r
}
