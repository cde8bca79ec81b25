// Package kernel binds the native BLAS implementations that blasq
// dispatches to. A Set carries one implementation per precision together
// with the storage order and integer width those implementations expect.
package kernel

import (
	"errors"
	"math"

	gblas "gonum.org/v1/gonum/blas"

	"github.com/samcharles93/blasq/pkg/blas"
)

// Set is a complete group of kernels. Build it with New; the exported
// fields other than the implementations may be adjusted afterwards.
type Set struct {
	Name string
	// Layout is the storage order the kernels address natively.
	Layout blas.Layout
	// IntMax is the largest size the kernels' integer arguments may carry.
	IntMax int64
	// Trace, when set, is called before every kernel invocation with the
	// BLAS routine name, e.g. "dgemm".
	Trace func(routine string)

	impl Impl

	f32  *Entries[float32]
	f64  *Entries[float64]
	c64  *Entries[complex64]
	c128 *Entries[complex128]
}

// Impl is any value implementing all four precisions, such as
// gonum.Implementation or netlib.Implementation.
type Impl interface {
	gblas.Float32
	gblas.Float64
	gblas.Complex64
	gblas.Complex128
}

// New builds a row-major set with 32-bit sizes from a four-precision
// implementation.
func New(name string, impl Impl) *Set {
	return &Set{
		Name:   name,
		Layout: blas.RowMajor,
		IntMax: math.MaxInt32,
		impl:   impl,
		f32:    real32(impl),
		f64:    real64(impl),
		c64:    complex64s(impl, impl),
		c128:   complex128s(impl, impl),
	}
}

// Validate reports whether the set is usable.
func (s *Set) Validate() error {
	if s == nil {
		return errors.New("kernel: nil set")
	}
	if s.impl == nil || s.f32 == nil {
		return errors.New("kernel: set " + s.Name + " was not built with kernel.New")
	}
	if !s.Layout.Valid() {
		return errors.New("kernel: set " + s.Name + " has no native layout")
	}
	return nil
}

// Impl returns the underlying implementation.
func (s *Set) Impl() Impl { return s.impl }

func (s *Set) trace(routine string) {
	if s.Trace != nil {
		s.Trace(routine)
	}
}
