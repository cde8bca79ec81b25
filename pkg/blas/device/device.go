// Package device enqueues BLAS operations on a Queue. A call validates its
// arguments immediately and returns any argument error; the kernel then
// runs on the queue's current stream in submission order. Kernel faults
// are reported by the next Queue.Sync or Queue.Join. Arrays passed to a
// call must not be touched until then.
package device

import (
	"github.com/samcharles93/blasq/internal/dispatch"
	"github.com/samcharles93/blasq/internal/stream"
	"github.com/samcharles93/blasq/pkg/blas"
)

type (
	// Queue orders asynchronous work on a device and can fork into
	// several concurrent streams.
	Queue = stream.Queue
	// Config selects a queue's device, kernels and parallelism.
	Config = stream.Config
	// Device describes an execution target.
	Device = stream.Device
)

// DefaultForkSize is the fork width batched calls use when Config leaves it
// unset.
const DefaultForkSize = stream.DefaultForkSize

// NewQueue starts a queue on cfg.Device.
func NewQueue(cfg Config) (*Queue, error) { return stream.New(cfg) }

// Devices lists the devices a Queue may select.
func Devices() []Device { return stream.Devices() }

// DeviceCount returns len(Devices()).
func DeviceCount() int { return stream.DeviceCount() }

// Dot stores x^H*y (x^T*y for real elements) in *result once the call has
// run.
func Dot[T blas.Scalar](n int64, x []T, incx int64, y []T, incy int64, result *T, q *Queue) error {
	return dispatch.Dot(dispatch.Queue(q), true, n, x, incx, y, incy, result)
}

// Dotu stores x^T*y in *result once the call has run.
func Dotu[T blas.Scalar](n int64, x []T, incx int64, y []T, incy int64, result *T, q *Queue) error {
	return dispatch.Dot(dispatch.Queue(q), false, n, x, incx, y, incy, result)
}

func Axpy[T blas.Scalar](n int64, alpha T, x []T, incx int64, y []T, incy int64, q *Queue) error {
	return dispatch.Axpy(dispatch.Queue(q), n, alpha, x, incx, y, incy)
}

func Copy[T blas.Scalar](n int64, x []T, incx int64, y []T, incy int64, q *Queue) error {
	return dispatch.Copy(dispatch.Queue(q), n, x, incx, y, incy)
}

func Scal[T blas.Scalar](n int64, alpha T, x []T, incx int64, q *Queue) error {
	return dispatch.Scal(dispatch.Queue(q), n, alpha, x, incx)
}

func Swap[T blas.Scalar](n int64, x []T, incx int64, y []T, incy int64, q *Queue) error {
	return dispatch.Swap(dispatch.Queue(q), n, x, incx, y, incy)
}

// Rot applies the real plane rotation (c, s).
func Rot[T blas.Scalar, R blas.Real](n int64, x []T, incx int64, y []T, incy int64, c, s R, q *Queue) error {
	return dispatch.Rot(dispatch.Queue(q), n, x, incx, y, incy, c, s)
}

// Ger computes A += alpha*x*y^H.
func Ger[T blas.Scalar](layout blas.Layout, m, n int64, alpha T, x []T, incx int64, y []T, incy int64, a []T, lda int64, q *Queue) error {
	return dispatch.Ger(dispatch.Queue(q), true, layout, m, n, alpha, x, incx, y, incy, a, lda)
}

// Geru computes A += alpha*x*y^T.
func Geru[T blas.Scalar](layout blas.Layout, m, n int64, alpha T, x []T, incx int64, y []T, incy int64, a []T, lda int64, q *Queue) error {
	return dispatch.Ger(dispatch.Queue(q), false, layout, m, n, alpha, x, incx, y, incy, a, lda)
}

func Gemm[T blas.Scalar](layout blas.Layout, transA, transB blas.Op, m, n, k int64, alpha T, a []T, lda int64, b []T, ldb int64, beta T, c []T, ldc int64, q *Queue) error {
	return dispatch.Gemm(dispatch.Queue(q), layout, transA, transB, m, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

func Symm[T blas.Scalar](layout blas.Layout, side blas.Side, uplo blas.Uplo, m, n int64, alpha T, a []T, lda int64, b []T, ldb int64, beta T, c []T, ldc int64, q *Queue) error {
	return dispatch.Symm(dispatch.Queue(q), false, layout, side, uplo, m, n, alpha, a, lda, b, ldb, beta, c, ldc)
}

func Hemm[T blas.Scalar](layout blas.Layout, side blas.Side, uplo blas.Uplo, m, n int64, alpha T, a []T, lda int64, b []T, ldb int64, beta T, c []T, ldc int64, q *Queue) error {
	return dispatch.Symm(dispatch.Queue(q), true, layout, side, uplo, m, n, alpha, a, lda, b, ldb, beta, c, ldc)
}

func Syrk[T blas.Scalar](layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha T, a []T, lda int64, beta T, c []T, ldc int64, q *Queue) error {
	return dispatch.Syrk(dispatch.Queue(q), layout, uplo, trans, n, k, alpha, a, lda, beta, c, ldc)
}

func Herk[T blas.Scalar, R blas.Real](layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha R, a []T, lda int64, beta R, c []T, ldc int64, q *Queue) error {
	return dispatch.Herk(dispatch.Queue(q), layout, uplo, trans, n, k, alpha, a, lda, beta, c, ldc)
}

func Syr2k[T blas.Scalar](layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha T, a []T, lda int64, b []T, ldb int64, beta T, c []T, ldc int64, q *Queue) error {
	return dispatch.Syr2k(dispatch.Queue(q), layout, uplo, trans, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

func Her2k[T blas.Scalar, R blas.Real](layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha T, a []T, lda int64, b []T, ldb int64, beta R, c []T, ldc int64, q *Queue) error {
	return dispatch.Her2k(dispatch.Queue(q), layout, uplo, trans, n, k, alpha, a, lda, b, ldb, beta, c, ldc)
}

func Trsm[T blas.Scalar](layout blas.Layout, side blas.Side, uplo blas.Uplo, trans blas.Op, diag blas.Diag, m, n int64, alpha T, a []T, lda int64, b []T, ldb int64, q *Queue) error {
	return dispatch.Trsm(dispatch.Queue(q), layout, side, uplo, trans, diag, m, n, alpha, a, lda, b, ldb)
}
