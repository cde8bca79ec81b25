package kernel

import (
	gblas "gonum.org/v1/gonum/blas"

	"github.com/samcharles93/blasq/pkg/blas"
)

// Run invokes fn, which calls into s, and turns a kernel panic into a
// BackendFault for op. Native kernels report bad input by panicking; the
// panic value is kept untranslated.
func (s *Set) Run(op, routine string, fn func()) (err error) {
	s.trace(routine)
	defer func() {
		if rec := recover(); rec != nil {
			err = blas.NewBackendFault(op, rec)
		}
	}()
	fn()
	return nil
}

// The blasq enumerations share their byte values with gonum's.

func Transpose(o blas.Op) gblas.Transpose { return gblas.Transpose(o) }
func Uplo(u blas.Uplo) gblas.Uplo         { return gblas.Uplo(u) }
func Side(s blas.Side) gblas.Side         { return gblas.Side(s) }
func Diag(d blas.Diag) gblas.Diag         { return gblas.Diag(d) }
