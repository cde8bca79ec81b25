package kernel

import (
	"unsafe"

	gblas "gonum.org/v1/gonum/blas"

	"github.com/samcharles93/blasq/pkg/blas"
)

// Entries are the kernel entry points of one precision. Functions that do
// not exist for a precision are nil; the dispatcher redirects those calls
// before reaching the table.
type Entries[T blas.Scalar] struct {
	Dotu  func(n int, x []T, incX int, y []T, incY int) T
	Dotc  func(n int, x []T, incX int, y []T, incY int) T
	Axpy  func(n int, alpha T, x []T, incX int, y []T, incY int)
	Copy  func(n int, x []T, incX int, y []T, incY int)
	Swap  func(n int, x []T, incX int, y []T, incY int)
	Scal  func(n int, alpha T, x []T, incX int)
	Rot   func(n int, x []T, incX int, y []T, incY int, c, s float64)
	Geru  func(m, n int, alpha T, x []T, incX int, y []T, incY int, a []T, lda int)
	Gerc  func(m, n int, alpha T, x []T, incX int, y []T, incY int, a []T, lda int)
	Gemm  func(tA, tB gblas.Transpose, m, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int)
	Symm  func(s gblas.Side, ul gblas.Uplo, m, n int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int)
	Hemm  func(s gblas.Side, ul gblas.Uplo, m, n int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int)
	Syrk  func(ul gblas.Uplo, t gblas.Transpose, n, k int, alpha T, a []T, lda int, beta T, c []T, ldc int)
	Syr2k func(ul gblas.Uplo, t gblas.Transpose, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int)
	Herk  func(ul gblas.Uplo, t gblas.Transpose, n, k int, alpha float64, a []T, lda int, beta float64, c []T, ldc int)
	Her2k func(ul gblas.Uplo, t gblas.Transpose, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta float64, c []T, ldc int)
	Trsm  func(s gblas.Side, ul gblas.Uplo, tA gblas.Transpose, d gblas.Diag, m, n int, alpha T, a []T, lda int, b []T, ldb int)
}

// Resolve returns the entry points of s for element type T.
func Resolve[T blas.Scalar](s *Set) *Entries[T] {
	var e any
	switch any(*new(T)).(type) {
	case float32:
		e = s.f32
	case float64:
		e = s.f64
	case complex64:
		e = s.c64
	default:
		e = s.c128
	}
	return e.(*Entries[T])
}

func real32(k gblas.Float32) *Entries[float32] {
	return &Entries[float32]{
		Dotu: k.Sdot,
		Dotc: k.Sdot,
		Axpy: k.Saxpy,
		Copy: k.Scopy,
		Swap: k.Sswap,
		Scal: k.Sscal,
		Rot: func(n int, x []float32, incX int, y []float32, incY int, c, s float64) {
			k.Srot(n, x, incX, y, incY, float32(c), float32(s))
		},
		Geru:  k.Sger,
		Gerc:  k.Sger,
		Gemm:  k.Sgemm,
		Symm:  k.Ssymm,
		Syrk:  k.Ssyrk,
		Syr2k: k.Ssyr2k,
		Trsm:  k.Strsm,
	}
}

func real64(k gblas.Float64) *Entries[float64] {
	return &Entries[float64]{
		Dotu:  k.Ddot,
		Dotc:  k.Ddot,
		Axpy:  k.Daxpy,
		Copy:  k.Dcopy,
		Swap:  k.Dswap,
		Scal:  k.Dscal,
		Rot:   k.Drot,
		Geru:  k.Dger,
		Gerc:  k.Dger,
		Gemm:  k.Dgemm,
		Symm:  k.Dsymm,
		Syrk:  k.Dsyrk,
		Syr2k: k.Dsyr2k,
		Trsm:  k.Dtrsm,
	}
}

func complex64s(k gblas.Complex64, r gblas.Float32) *Entries[complex64] {
	return &Entries[complex64]{
		Dotu: k.Cdotu,
		Dotc: k.Cdotc,
		Axpy: k.Caxpy,
		Copy: k.Ccopy,
		Swap: k.Cswap,
		Scal: k.Cscal,
		// csrot: the same real rotation applied to real and imaginary parts.
		Rot: func(n int, x []complex64, incX int, y []complex64, incY int, c, s float64) {
			if n <= 0 {
				return
			}
			xr, yr := floats32(x), floats32(y)
			r.Srot(n, xr, 2*incX, yr, 2*incY, float32(c), float32(s))
			r.Srot(n, xr[1:], 2*incX, yr[1:], 2*incY, float32(c), float32(s))
		},
		Geru:  k.Cgeru,
		Gerc:  k.Cgerc,
		Gemm:  k.Cgemm,
		Symm:  k.Csymm,
		Hemm:  k.Chemm,
		Syrk:  k.Csyrk,
		Syr2k: k.Csyr2k,
		Herk: func(ul gblas.Uplo, t gblas.Transpose, n, kk int, alpha float64, a []complex64, lda int, beta float64, c []complex64, ldc int) {
			k.Cherk(ul, t, n, kk, float32(alpha), a, lda, float32(beta), c, ldc)
		},
		Her2k: func(ul gblas.Uplo, t gblas.Transpose, n, kk int, alpha complex64, a []complex64, lda int, b []complex64, ldb int, beta float64, c []complex64, ldc int) {
			k.Cher2k(ul, t, n, kk, alpha, a, lda, b, ldb, float32(beta), c, ldc)
		},
		Trsm: k.Ctrsm,
	}
}

func complex128s(k gblas.Complex128, r gblas.Float64) *Entries[complex128] {
	return &Entries[complex128]{
		Dotu: k.Zdotu,
		Dotc: k.Zdotc,
		Axpy: k.Zaxpy,
		Copy: k.Zcopy,
		Swap: k.Zswap,
		Scal: k.Zscal,
		// zdrot
		Rot: func(n int, x []complex128, incX int, y []complex128, incY int, c, s float64) {
			if n <= 0 {
				return
			}
			xr, yr := floats64(x), floats64(y)
			r.Drot(n, xr, 2*incX, yr, 2*incY, c, s)
			r.Drot(n, xr[1:], 2*incX, yr[1:], 2*incY, c, s)
		},
		Geru:  k.Zgeru,
		Gerc:  k.Zgerc,
		Gemm:  k.Zgemm,
		Symm:  k.Zsymm,
		Hemm:  k.Zhemm,
		Syrk:  k.Zsyrk,
		Syr2k: k.Zsyr2k,
		Herk:  k.Zherk,
		Her2k: k.Zher2k,
		Trsm:  k.Ztrsm,
	}
}

// floats32 views a complex64 slice as interleaved real and imaginary parts.
func floats32(v []complex64) []float32 {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(unsafe.SliceData(v))), 2*len(v))
}

func floats64(v []complex128) []float64 {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(unsafe.SliceData(v))), 2*len(v))
}
