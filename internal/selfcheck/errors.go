package selfcheck

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/samcharles93/blasq/internal/dispatch"
	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/internal/stream"
	"github.com/samcharles93/blasq/pkg/blas"
)

type errorScenario struct {
	name string
	want error
	// kernelCalls is the number of kernel invocations the call must make.
	kernelCalls int64
	run         func(tg dispatch.Target, q *stream.Queue) error
}

func errorScenarios() []errorScenario {
	return []errorScenario{
		{
			name: "negative dimension",
			want: blas.ErrInvalidArgument,
			run: func(tg dispatch.Target, _ *stream.Queue) error {
				c := []float64{1, 2, 3, 4}
				return dispatch.Gemm(tg, blas.ColMajor, blas.NoTrans, blas.NoTrans, -1, 2, 2, 1.0, c, 2, c, 2, 0.0, c, 2)
			},
		},
		{
			name: "zero increment",
			want: blas.ErrInvalidArgument,
			run: func(tg dispatch.Target, _ *stream.Queue) error {
				x := []complex64{1, 2}
				return dispatch.Axpy(tg, 2, complex64(1), x, 0, x, 1)
			},
		},
		{
			name: "invalid uplo",
			want: blas.ErrInvalidArgument,
			run: func(tg dispatch.Target, _ *stream.Queue) error {
				return dispatch.Trsm[float32](tg, blas.RowMajor, blas.Left, blas.Uplo(0), blas.NoTrans, blas.NonUnit, 2, 2, 1, nil, 2, nil, 2)
			},
		},
		{
			name: "coefficient precision",
			want: blas.ErrInvalidArgument,
			run: func(tg dispatch.Target, _ *stream.Queue) error {
				z := []complex128{1}
				return dispatch.Herk[complex128, float32](tg, blas.ColMajor, blas.Upper, blas.NoTrans, 1, 1, 1, z, 1, 0, z, 1)
			},
		},
		{
			name: "size beyond kernel integers",
			want: blas.ErrOverflow,
			run: func(tg dispatch.Target, _ *stream.Queue) error {
				limit := tg.Kernels().IntMax
				if limit == math.MaxInt64 {
					return blas.ErrOverflow
				}
				return dispatch.Copy[float64](tg, limit+1, nil, 1, nil, 1)
			},
		},
		{
			name: "batch size mismatch",
			want: blas.ErrSizeMismatch,
			run: func(_ dispatch.Target, q *stream.Queue) error {
				c := [][]float64{{0}}
				one := []int64{1}
				nt := []blas.Op{blas.NoTrans}
				return dispatch.BatchGemm(q, blas.ColMajor, nt, nt, []int64{1, 1}, one, one,
					[]float64{1}, c, one, c, one, []float64{0}, c, one, 3, nil)
			},
		},
		{
			name:        "kernel fault",
			want:        blas.ErrBackendFault,
			kernelCalls: 1,
			run: func(tg dispatch.Target, _ *stream.Queue) error {
				return dispatch.Axpy(tg, 3, 1.0, []float64{1}, 1, []float64{1, 2, 3}, 1)
			},
		},
		{
			name:        "queued kernel fault",
			want:        blas.ErrBackendFault,
			kernelCalls: 1,
			run: func(_ dispatch.Target, q *stream.Queue) error {
				if err := dispatch.Scal(dispatch.Queue(q), 3, float32(2), []float32{1}, 1); err != nil {
					return fmt.Errorf("enqueue: %w", err)
				}
				return q.Sync()
			},
		},
	}
}

// check runs the scenario on a private traced copy of the kernels.
func (s errorScenario) check(h *harness) Result {
	res := Result{Name: "error/" + s.name}
	set := kernel.New(h.opts.Kernels.Name, h.opts.Kernels.Impl())
	set.Layout, set.IntMax = h.opts.Kernels.Layout, h.opts.Kernels.IntMax
	var calls atomic.Int64
	set.Trace = func(string) { calls.Add(1) }

	q, err := stream.New(stream.Config{Kernels: set, Logger: h.opts.Logger})
	if err != nil {
		res.Message = err.Error()
		h.log.Warn("scenario failed", "name", res.Name, "message", res.Message)
		return res
	}
	defer func() { _ = q.Close() }()

	err = s.run(dispatch.Host(set), q)
	switch {
	case !errors.Is(err, s.want):
		res.Message = fmt.Sprintf("got %v, want %v", err, s.want)
	case calls.Load() != s.kernelCalls:
		res.Message = fmt.Sprintf("%d kernel calls, want %d", calls.Load(), s.kernelCalls)
	default:
		res.Passed = true
		res.Message = err.Error()
	}
	if !res.Passed {
		h.log.Warn("scenario failed", "name", res.Name, "message", res.Message)
	}
	return res
}
