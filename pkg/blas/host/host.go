// Package host runs BLAS operations synchronously on the caller's
// goroutine. Each call validates its arguments, rewrites a call in the
// foreign storage order into the kernels' native order, narrows sizes to
// the kernels' integer width and invokes the kernel before returning.
//
// Functions are generic over float32, float64, complex64 and complex128.
// Sizes, leading dimensions and increments are int64. A rejected call
// returns a *blas.Error and leaves every array untouched.
package host

import (
	"github.com/samcharles93/blasq/internal/dispatch"
	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/pkg/blas"
)

var target = dispatch.Host(kernel.Default())

// Kernels returns the name of the kernel set host calls reach.
func Kernels() string { return target.Kernels().Name }

// Dot returns x^H*y for complex elements and x^T*y for real ones.
func Dot[T blas.Scalar](n int64, x []T, incx int64, y []T, incy int64) (T, error) {
	var out T
	err := dispatch.Dot(target, true, n, x, incx, y, incy, &out)
	return out, err
}

// Dotu returns x^T*y without conjugation.
func Dotu[T blas.Scalar](n int64, x []T, incx int64, y []T, incy int64) (T, error) {
	var out T
	err := dispatch.Dot(target, false, n, x, incx, y, incy, &out)
	return out, err
}

// Axpy computes y += alpha*x.
func Axpy[T blas.Scalar](n int64, alpha T, x []T, incx int64, y []T, incy int64) error {
	return dispatch.Axpy(target, n, alpha, x, incx, y, incy)
}

// Copy copies x into y.
func Copy[T blas.Scalar](n int64, x []T, incx int64, y []T, incy int64) error {
	return dispatch.Copy(target, n, x, incx, y, incy)
}

// Scal computes x *= alpha. incx must be positive.
func Scal[T blas.Scalar](n int64, alpha T, x []T, incx int64) error {
	return dispatch.Scal(target, n, alpha, x, incx)
}

// Swap exchanges x and y.
func Swap[T blas.Scalar](n int64, x []T, incx int64, y []T, incy int64) error {
	return dispatch.Swap(target, n, x, incx, y, incy)
}

// Rot applies the real plane rotation (c, s) to the pairs (x_i, y_i):
//
//	x_i = c*x_i + s*y_i
//	y_i = c*y_i - s*x_i
//
// c and s must have the precision of the elements.
func Rot[T blas.Scalar, R blas.Real](n int64, x []T, incx int64, y []T, incy int64, c, s R) error {
	return dispatch.Rot(target, n, x, incx, y, incy, c, s)
}

// Ger computes A += alpha*x*y^H, or A += alpha*x*y^T for real elements,
// where A is m by n.
func Ger[T blas.Scalar](layout blas.Layout, m, n int64, alpha T, x []T, incx int64, y []T, incy int64, a []T, lda int64) error {
	return dispatch.Ger(target, true, layout, m, n, alpha, x, incx, y, incy, a, lda)
}

// Geru computes A += alpha*x*y^T.
func Geru[T blas.Scalar](layout blas.Layout, m, n int64, alpha T, x []T, incx int64, y []T, incy int64, a []T, lda int64) error {
	return dispatch.Ger(target, false, layout, m, n, alpha, x, incx, y, incy, a, lda)
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C where op(A) is m by k, op(B)
// is k by n and C is m by n.
func Gemm[T blas.Scalar](layout blas.Layout, transA, transB blas.Op, m, n, k int64, alpha T, a []T, lda int64, b []T, ldb int64, beta T, c []T, ldc int64) error {
	return dispatch.Gemm(target, layout, transA, transB, m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

// Symm computes C = alpha*A*B + beta*C or C = alpha*B*A + beta*C with A
// symmetric and only its uplo triangle read.
func Symm[T blas.Scalar](layout blas.Layout, side blas.Side, uplo blas.Uplo, m, n int64, alpha T, a []T, lda int64, b []T, ldb int64, beta T, c []T, ldc int64) error {
	return dispatch.Symm(target, false, layout, side, uplo, m, n, alpha, a, lda, b, ldb, beta, c, ldc)
}

// Hemm is Symm with A Hermitian. The imaginary part of A's diagonal is not
// read.
func Hemm[T blas.Scalar](layout blas.Layout, side blas.Side, uplo blas.Uplo, m, n int64, alpha T, a []T, lda int64, b []T, ldb int64, beta T, c []T, ldc int64) error {
	return dispatch.Symm(target, true, layout, side, uplo, m, n, alpha, a, lda, b, ldb, beta, c, ldc)
}

// Syrk computes C = alpha*op(A)*op(A)^T + beta*C on the uplo triangle of
// the n by n matrix C, where op(A) is n by k. Complex elements accept
// NoTrans and Trans only.
func Syrk[T blas.Scalar](layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha T, a []T, lda int64, beta T, c []T, ldc int64) error {
	return dispatch.Syrk(target, layout, uplo, trans, n, k, alpha, a, lda, beta, c, ldc)
}

// Herk computes C = alpha*op(A)*op(A)^H + beta*C with real alpha and beta
// of the elements' precision. Complex elements accept NoTrans and
// ConjTrans only.
func Herk[T blas.Scalar, R blas.Real](layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha R, a []T, lda int64, beta R, c []T, ldc int64) error {
	return dispatch.Herk(target, layout, uplo, trans, n, k, alpha, a, lda, beta, c, ldc)
}

// Syr2k computes C = alpha*op(A)*op(B)^T + alpha*op(B)*op(A)^T + beta*C.
func Syr2k[T blas.Scalar](layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha T, a []T, lda int64, b []T, ldb int64, beta T, c []T, ldc int64) error {
	return dispatch.Syr2k(target, layout, uplo, trans, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

// Her2k computes C = alpha*op(A)*op(B)^H + conj(alpha)*op(B)*op(A)^H +
// beta*C with real beta.
func Her2k[T blas.Scalar, R blas.Real](layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha T, a []T, lda int64, b []T, ldb int64, beta R, c []T, ldc int64) error {
	return dispatch.Her2k(target, layout, uplo, trans, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

// Trsm solves op(A)*X = alpha*B or X*op(A) = alpha*B for X, overwriting
// the m by n matrix B. A is triangular; diag Unit assumes a unit diagonal
// without reading it.
func Trsm[T blas.Scalar](layout blas.Layout, side blas.Side, uplo blas.Uplo, trans blas.Op, diag blas.Diag, m, n int64, alpha T, a []T, lda int64, b []T, ldb int64) error {
	return dispatch.Trsm(target, layout, side, uplo, trans, diag, m, n, alpha, a, lda, b, ldb)
}
