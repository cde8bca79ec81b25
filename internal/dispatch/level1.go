package dispatch

import (
	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/internal/op"
	"github.com/samcharles93/blasq/pkg/blas"
)

// Dot stores the dot product of x and y in *out. For complex elements
// conj selects x^H*y over x^T*y; for real elements both are the same
// kernel.
func Dot[T blas.Scalar](t Target, conj bool, n int64, x []T, incx int64, y []T, incy int64, out *T) error {
	d := op.Desc{Family: op.Dot, Name: "dot", Elem: blas.DomainOf[T](), N: n, IncX: incx, IncY: incy, Conj: conj}
	if !conj {
		d.Name = "dotu"
	}
	set := t.Kernels()
	_, nat, err := prepare(set, &d)
	if err != nil {
		return err
	}
	e := kernel.Resolve[T](set)
	f, base := e.Dotu, "dotu"
	if conj {
		f, base = e.Dotc, "dotc"
	}
	if !d.Complex() {
		base = "dot"
	}
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&d, base), func() {
			*out = f(int(nat.N), x, int(nat.IncX), y, int(nat.IncY))
		})
	})
}

// Axpy computes y += alpha*x.
func Axpy[T blas.Scalar](t Target, n int64, alpha T, x []T, incx int64, y []T, incy int64) error {
	d := op.Desc{Family: op.Axpy, Elem: blas.DomainOf[T](), N: n, IncX: incx, IncY: incy}
	set := t.Kernels()
	_, nat, err := prepare(set, &d)
	if err != nil {
		return err
	}
	f := kernel.Resolve[T](set).Axpy
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&d, "axpy"), func() {
			f(int(nat.N), alpha, x, int(nat.IncX), y, int(nat.IncY))
		})
	})
}

// Copy copies x into y.
func Copy[T blas.Scalar](t Target, n int64, x []T, incx int64, y []T, incy int64) error {
	return pair(t, op.Copy, n, x, incx, y, incy)
}

// Swap exchanges x and y.
func Swap[T blas.Scalar](t Target, n int64, x []T, incx int64, y []T, incy int64) error {
	return pair(t, op.Swap, n, x, incx, y, incy)
}

func pair[T blas.Scalar](t Target, f op.Family, n int64, x []T, incx int64, y []T, incy int64) error {
	d := op.Desc{Family: f, Elem: blas.DomainOf[T](), N: n, IncX: incx, IncY: incy}
	set := t.Kernels()
	_, nat, err := prepare(set, &d)
	if err != nil {
		return err
	}
	e := kernel.Resolve[T](set)
	fn := e.Copy
	if f == op.Swap {
		fn = e.Swap
	}
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&d, d.OpName()), func() {
			fn(int(nat.N), x, int(nat.IncX), y, int(nat.IncY))
		})
	})
}

// Scal computes x *= alpha. The increment must be positive.
func Scal[T blas.Scalar](t Target, n int64, alpha T, x []T, incx int64) error {
	d := op.Desc{Family: op.Scal, Elem: blas.DomainOf[T](), N: n, IncX: incx}
	set := t.Kernels()
	_, nat, err := prepare(set, &d)
	if err != nil {
		return err
	}
	f := kernel.Resolve[T](set).Scal
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&d, "scal"), func() {
			f(int(nat.N), alpha, x, int(nat.IncX))
		})
	})
}

// Rot applies the plane rotation (c, s) to the pairs (x_i, y_i). The
// rotation is real for every element type; c and s must match the
// precision of the elements.
func Rot[T blas.Scalar, R blas.Real](t Target, n int64, x []T, incx int64, y []T, incy int64, c, s R) error {
	d := op.Desc{Family: op.Rot, Elem: blas.DomainOf[T](), Coeff: blas.RealDomainOf[R](), N: n, IncX: incx, IncY: incy}
	set := t.Kernels()
	_, nat, err := prepare(set, &d)
	if err != nil {
		return err
	}
	f := kernel.Resolve[T](set).Rot
	base := "rot"
	if d.Complex() {
		base = blas.RealDomainOf[R]().Prefix() + "rot"
	}
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&d, base), func() {
			f(int(nat.N), x, int(nat.IncX), y, int(nat.IncY), float64(c), float64(s))
		})
	})
}
