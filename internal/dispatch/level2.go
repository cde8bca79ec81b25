package dispatch

import (
	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/internal/op"
	"github.com/samcharles93/blasq/pkg/blas"
)

// Ger computes A += alpha*x*y^H when conj is set and A += alpha*x*y^T
// otherwise. For real elements the two are the same update.
func Ger[T blas.Scalar](t Target, conj bool, layout blas.Layout, m, n int64, alpha T, x []T, incx int64, y []T, incy int64, a []T, lda int64) error {
	d := op.Desc{
		Family: op.Ger, Name: "ger", Elem: blas.DomainOf[T](), Layout: layout,
		M: m, N: n, IncX: incx, IncY: incy, LdA: lda,
	}
	if d.Complex() {
		d.Conj = conj
		if !conj {
			d.Name = "geru"
		}
	}
	set := t.Kernels()
	nd, nat, err := prepare(set, &d)
	if err != nil {
		return err
	}
	e := kernel.Resolve[T](set)
	f, base := e.Geru, "geru"
	if nd.Conj {
		f, base = e.Gerc, "gerc"
	}
	if !nd.Complex() {
		base = "ger"
	}
	first, second, firstName, secondName := x, y, "x", "y"
	if nd.SwapOperands {
		first, second, firstName, secondName = y, x, "y", "x"
	}
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&nd, base), func() {
			v, incV := first, int(nat.IncX)
			// The conjugated form in the other storage order is an
			// unconjugated update with a conjugated first operand.
			if nd.ConjFirst || incV < 0 {
				v, incV = packed(firstName, first, int(nat.M), incV, nd.ConjFirst), 1
			}
			w, incW := second, int(nat.IncY)
			if incW < 0 {
				w, incW = packed(secondName, second, int(nat.N), incW, false), 1
			}
			f(int(nat.M), int(nat.N), alpha, v, incV, w, incW, a, int(nat.LdA))
		})
	})
}

// packed returns the n logical elements of v with unit stride, conjugated
// when conj is set. The real ger kernels take unsigned strides, so
// negative increments never reach them. packed runs inside the kernel call
// so that it reads v only once earlier queued work on v has finished.
func packed[T blas.Scalar](name string, v []T, n, inc int, conj bool) []T {
	if n == 0 {
		return nil
	}
	step := inc
	if step < 0 {
		step = -step
	}
	if len(v) <= (n-1)*step {
		panic("blas: insufficient length of " + name)
	}
	out := make([]T, n)
	for i := range out {
		j := i * step
		if inc < 0 {
			j = (n - 1 - i) * step
		}
		out[i] = v[j]
		if conj {
			out[i] = blas.Conj(out[i])
		}
	}
	return out
}
