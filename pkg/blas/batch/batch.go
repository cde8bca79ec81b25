// Package batch runs groups of independent matrix-matrix operations on a
// device.Queue. Every per-item argument is a slice holding either one value
// shared by all items or one value per item; any other length is a
// SizeMismatch. All items are validated before any is dispatched, and info
// (of length 0, 1 or batchCount) receives the per-item status: 0, or the
// negated position of the item's first invalid argument. Valid batches are
// spread over the queue's forked streams and joined before return.
package batch

import (
	"github.com/samcharles93/blasq/internal/dispatch"
	"github.com/samcharles93/blasq/pkg/blas"
	"github.com/samcharles93/blasq/pkg/blas/device"
)

func Gemm[T blas.Scalar](layout blas.Layout, transA, transB []blas.Op, m, n, k []int64,
	alpha []T, a [][]T, lda []int64, b [][]T, ldb []int64, beta []T, c [][]T, ldc []int64,
	batchCount int, info []int64, q *device.Queue) error {
	return dispatch.BatchGemm(q, layout, transA, transB, m, n, k, alpha, a, lda, b, ldb, beta, c, ldc, batchCount, info)
}

func Symm[T blas.Scalar](layout blas.Layout, side []blas.Side, uplo []blas.Uplo, m, n []int64,
	alpha []T, a [][]T, lda []int64, b [][]T, ldb []int64, beta []T, c [][]T, ldc []int64,
	batchCount int, info []int64, q *device.Queue) error {
	return dispatch.BatchSymm(q, false, layout, side, uplo, m, n, alpha, a, lda, b, ldb, beta, c, ldc, batchCount, info)
}

func Hemm[T blas.Scalar](layout blas.Layout, side []blas.Side, uplo []blas.Uplo, m, n []int64,
	alpha []T, a [][]T, lda []int64, b [][]T, ldb []int64, beta []T, c [][]T, ldc []int64,
	batchCount int, info []int64, q *device.Queue) error {
	return dispatch.BatchSymm(q, true, layout, side, uplo, m, n, alpha, a, lda, b, ldb, beta, c, ldc, batchCount, info)
}

func Syrk[T blas.Scalar](layout blas.Layout, uplo []blas.Uplo, trans []blas.Op, n, k []int64,
	alpha []T, a [][]T, lda []int64, beta []T, c [][]T, ldc []int64,
	batchCount int, info []int64, q *device.Queue) error {
	return dispatch.BatchSyrk(q, layout, uplo, trans, n, k, alpha, a, lda, beta, c, ldc, batchCount, info)
}

// Herk takes real alpha and beta of the elements' precision.
func Herk[T blas.Scalar, R blas.Real](layout blas.Layout, uplo []blas.Uplo, trans []blas.Op, n, k []int64,
	alpha []R, a [][]T, lda []int64, beta []R, c [][]T, ldc []int64,
	batchCount int, info []int64, q *device.Queue) error {
	return dispatch.BatchHerk(q, layout, uplo, trans, n, k, alpha, a, lda, beta, c, ldc, batchCount, info)
}

func Syr2k[T blas.Scalar](layout blas.Layout, uplo []blas.Uplo, trans []blas.Op, n, k []int64,
	alpha []T, a [][]T, lda []int64, b [][]T, ldb []int64, beta []T, c [][]T, ldc []int64,
	batchCount int, info []int64, q *device.Queue) error {
	return dispatch.BatchSyr2k(q, layout, uplo, trans, n, k, alpha, a, lda, b, ldb, beta, c, ldc, batchCount, info)
}

// Her2k takes a real beta of the elements' precision.
func Her2k[T blas.Scalar, R blas.Real](layout blas.Layout, uplo []blas.Uplo, trans []blas.Op, n, k []int64,
	alpha []T, a [][]T, lda []int64, b [][]T, ldb []int64, beta []R, c [][]T, ldc []int64,
	batchCount int, info []int64, q *device.Queue) error {
	return dispatch.BatchHer2k(q, layout, uplo, trans, n, k, alpha, a, lda, b, ldb, beta, c, ldc, batchCount, info)
}

func Trsm[T blas.Scalar](layout blas.Layout, side []blas.Side, uplo []blas.Uplo, trans []blas.Op, diag []blas.Diag,
	m, n []int64, alpha []T, a [][]T, lda []int64, b [][]T, ldb []int64,
	batchCount int, info []int64, q *device.Queue) error {
	return dispatch.BatchTrsm(q, layout, side, uplo, trans, diag, m, n, alpha, a, lda, b, ldb, batchCount, info)
}
