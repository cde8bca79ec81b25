// Package narrow converts the 64-bit sizes of a call to the integer width
// of the native kernel, refusing values that would not survive the cast.
package narrow

import (
	"math"

	"github.com/samcharles93/blasq/internal/op"
	"github.com/samcharles93/blasq/pkg/blas"
)

// Native holds the narrowed sizes of one call.
type Native struct {
	M, N, K       int32
	LdA, LdB, LdC int32
	IncX, IncY    int32
}

// Guard checks sizes against the largest value the kernel's integer type
// can hold. A zero Max means math.MaxInt32.
type Guard struct {
	Max int64
}

func (g Guard) limit() int64 {
	if g.Max <= 0 || g.Max > math.MaxInt32 {
		return math.MaxInt32
	}
	return g.Max
}

// Fits reports whether v, or its magnitude for increments, can be narrowed.
func (g Guard) Fits(v int64) bool {
	m := g.limit()
	if v < 0 {
		// -MinInt64 overflows; compare without negating.
		return v >= -m
	}
	return v <= m
}

// Desc narrows every size of d. It fails with Overflow naming the first
// offending parameter before any value is converted.
func (g Guard) Desc(d *op.Desc) (Native, error) {
	fields := [...]struct {
		name string
		v    int64
	}{
		{"m", d.M}, {"n", d.N}, {"k", d.K},
		{"lda", d.LdA}, {"ldb", d.LdB}, {"ldc", d.LdC},
		{"incx", d.IncX}, {"incy", d.IncY},
	}
	for _, f := range fields {
		if !g.Fits(f.v) {
			return Native{}, blas.NewOverflow(d.OpName(), f.name, f.v, g.limit())
		}
	}
	return Native{
		M: int32(d.M), N: int32(d.N), K: int32(d.K),
		LdA: int32(d.LdA), LdB: int32(d.LdB), LdC: int32(d.LdC),
		IncX: int32(d.IncX), IncY: int32(d.IncY),
	}, nil
}
