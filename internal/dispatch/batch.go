package dispatch

import (
	"errors"

	"github.com/samcharles93/blasq/internal/batchparam"
	"github.com/samcharles93/blasq/internal/op"
	"github.com/samcharles93/blasq/internal/stream"
	"github.com/samcharles93/blasq/pkg/blas"
)

// batchCall is one batched operation: count items sharing a queue, with
// per-item arguments resolved through batchparam.Extract.
type batchCall struct {
	name   string
	count  int
	info   []int64
	params []batchparam.Param
	desc   func(i int) op.Desc
	run    func(t Target, i int, d *op.Desc) error
}

// do checks every parameter size and every item before any item is
// dispatched, then forks the queue, enqueues the items round-robin and
// joins. info, when given per item, receives 0 or the negated argument
// position of each item's first invalid argument; a single-element info
// receives the status of the first invalid item.
func (b batchCall) do(q *stream.Queue) error {
	if q == nil {
		return blas.NewInvalidArgument(b.name, "queue", 0, "nil queue")
	}
	if b.count < 0 {
		return blas.NewInvalidArgument(b.name, "batch", 0, "%d < 0", b.count)
	}
	if n := len(b.info); n != 0 && n != 1 && n != b.count {
		return blas.NewSizeMismatch(b.name, "info", n, b.count)
	}
	if err := batchparam.CheckAll(b.name, b.count, b.params...); err != nil {
		return err
	}

	set := q.Kernels()
	var first error
	if len(b.info) == 1 {
		b.info[0] = 0
	}
	for i := range b.count {
		d := b.desc(i)
		var status int64
		if _, _, err := prepare(set, &d); err != nil {
			status = -1
			var e *blas.Error
			if errors.As(err, &e) {
				status = e.Status()
				err = e.AtItem(i)
			}
			if first == nil {
				first = err
				if len(b.info) == 1 {
					b.info[0] = status
				}
			}
		}
		if len(b.info) == b.count && b.count > 1 {
			b.info[i] = status
		}
	}
	if first != nil {
		return first
	}
	if b.count == 0 {
		return nil
	}

	if err := q.Fork(min(b.count, q.ForkSize())); err != nil {
		return err
	}
	for i := range b.count {
		d := b.desc(i)
		if err := b.run(itemTarget{Target: Queue(q), item: i}, i, &d); err != nil {
			return errors.Join(atItem(err, i), q.Join())
		}
		q.Revolve()
	}
	return q.Join()
}

// itemTarget attributes faults to a batch item.
type itemTarget struct {
	Target
	item int
}

func (t itemTarget) Submit(fn func() error) error {
	return t.Target.Submit(func() error {
		return atItem(fn(), t.item)
	})
}

func atItem(err error, i int) error {
	var e *blas.Error
	if errors.As(err, &e) {
		return e.AtItem(i)
	}
	return err
}

// BatchGemm runs count independent Gemm calls on q.
func BatchGemm[T blas.Scalar](q *stream.Queue, layout blas.Layout, transA, transB []blas.Op, m, n, k []int64,
	alpha []T, a [][]T, lda []int64, b [][]T, ldb []int64, beta []T, c [][]T, ldc []int64, count int, info []int64) error {
	x := batchparam.Extract[int64]
	return batchCall{
		name: "gemm", count: count, info: info,
		params: []batchparam.Param{
			batchparam.Of("transA", transA), batchparam.Of("transB", transB),
			batchparam.Of("m", m), batchparam.Of("n", n), batchparam.Of("k", k),
			batchparam.Of("alpha", alpha), batchparam.Of("A", a), batchparam.Of("lda", lda),
			batchparam.Of("B", b), batchparam.Of("ldb", ldb),
			batchparam.Of("beta", beta), batchparam.Of("C", c), batchparam.Of("ldc", ldc),
		},
		desc: func(i int) op.Desc {
			return gemmDesc[T](layout, batchparam.Extract(transA, i), batchparam.Extract(transB, i),
				x(m, i), x(n, i), x(k, i), x(lda, i), x(ldb, i), x(ldc, i))
		},
		run: func(t Target, i int, d *op.Desc) error {
			return gemm(t, d, batchparam.Extract(alpha, i), batchparam.Extract(a, i), batchparam.Extract(b, i),
				batchparam.Extract(beta, i), batchparam.Extract(c, i))
		},
	}.do(q)
}

// BatchSymm runs count independent Symm calls on q; hermitian selects Hemm.
func BatchSymm[T blas.Scalar](q *stream.Queue, hermitian bool, layout blas.Layout, side []blas.Side, uplo []blas.Uplo, m, n []int64,
	alpha []T, a [][]T, lda []int64, b [][]T, ldb []int64, beta []T, c [][]T, ldc []int64, count int, info []int64) error {
	x := batchparam.Extract[int64]
	name := "symm"
	if hermitian {
		name = "hemm"
	}
	return batchCall{
		name: name, count: count, info: info,
		params: []batchparam.Param{
			batchparam.Of("side", side), batchparam.Of("uplo", uplo),
			batchparam.Of("m", m), batchparam.Of("n", n),
			batchparam.Of("alpha", alpha), batchparam.Of("A", a), batchparam.Of("lda", lda),
			batchparam.Of("B", b), batchparam.Of("ldb", ldb),
			batchparam.Of("beta", beta), batchparam.Of("C", c), batchparam.Of("ldc", ldc),
		},
		desc: func(i int) op.Desc {
			return symmDesc[T](hermitian, layout, batchparam.Extract(side, i), batchparam.Extract(uplo, i),
				x(m, i), x(n, i), x(lda, i), x(ldb, i), x(ldc, i))
		},
		run: func(t Target, i int, d *op.Desc) error {
			return symm(t, d, batchparam.Extract(alpha, i), batchparam.Extract(a, i), batchparam.Extract(b, i),
				batchparam.Extract(beta, i), batchparam.Extract(c, i))
		},
	}.do(q)
}

// BatchSyrk runs count independent Syrk calls on q.
func BatchSyrk[T blas.Scalar](q *stream.Queue, layout blas.Layout, uplo []blas.Uplo, trans []blas.Op, n, k []int64,
	alpha []T, a [][]T, lda []int64, beta []T, c [][]T, ldc []int64, count int, info []int64) error {
	x := batchparam.Extract[int64]
	return batchCall{
		name: "syrk", count: count, info: info,
		params: []batchparam.Param{
			batchparam.Of("uplo", uplo), batchparam.Of("trans", trans),
			batchparam.Of("n", n), batchparam.Of("k", k),
			batchparam.Of("alpha", alpha), batchparam.Of("A", a), batchparam.Of("lda", lda),
			batchparam.Of("beta", beta), batchparam.Of("C", c), batchparam.Of("ldc", ldc),
		},
		desc: func(i int) op.Desc {
			return rankDesc[T](op.Syrk, layout, batchparam.Extract(uplo, i), batchparam.Extract(trans, i),
				x(n, i), x(k, i), x(lda, i), 0, x(ldc, i))
		},
		run: func(t Target, i int, d *op.Desc) error {
			return syrk(t, d, batchparam.Extract(alpha, i), batchparam.Extract(a, i),
				batchparam.Extract(beta, i), batchparam.Extract(c, i))
		},
	}.do(q)
}

// BatchHerk runs count independent Herk calls on q.
func BatchHerk[T blas.Scalar, R blas.Real](q *stream.Queue, layout blas.Layout, uplo []blas.Uplo, trans []blas.Op, n, k []int64,
	alpha []R, a [][]T, lda []int64, beta []R, c [][]T, ldc []int64, count int, info []int64) error {
	x := batchparam.Extract[int64]
	return batchCall{
		name: "herk", count: count, info: info,
		params: []batchparam.Param{
			batchparam.Of("uplo", uplo), batchparam.Of("trans", trans),
			batchparam.Of("n", n), batchparam.Of("k", k),
			batchparam.Of("alpha", alpha), batchparam.Of("A", a), batchparam.Of("lda", lda),
			batchparam.Of("beta", beta), batchparam.Of("C", c), batchparam.Of("ldc", ldc),
		},
		desc: func(i int) op.Desc {
			d := rankDesc[T](op.Herk, layout, batchparam.Extract(uplo, i), batchparam.Extract(trans, i),
				x(n, i), x(k, i), x(lda, i), 0, x(ldc, i))
			d.Coeff = blas.RealDomainOf[R]()
			return d
		},
		run: func(t Target, i int, d *op.Desc) error {
			return herk(t, d, float64(batchparam.Extract(alpha, i)), batchparam.Extract(a, i),
				float64(batchparam.Extract(beta, i)), batchparam.Extract(c, i))
		},
	}.do(q)
}

// BatchSyr2k runs count independent Syr2k calls on q.
func BatchSyr2k[T blas.Scalar](q *stream.Queue, layout blas.Layout, uplo []blas.Uplo, trans []blas.Op, n, k []int64,
	alpha []T, a [][]T, lda []int64, b [][]T, ldb []int64, beta []T, c [][]T, ldc []int64, count int, info []int64) error {
	x := batchparam.Extract[int64]
	return batchCall{
		name: "syr2k", count: count, info: info,
		params: []batchparam.Param{
			batchparam.Of("uplo", uplo), batchparam.Of("trans", trans),
			batchparam.Of("n", n), batchparam.Of("k", k),
			batchparam.Of("alpha", alpha), batchparam.Of("A", a), batchparam.Of("lda", lda),
			batchparam.Of("B", b), batchparam.Of("ldb", ldb),
			batchparam.Of("beta", beta), batchparam.Of("C", c), batchparam.Of("ldc", ldc),
		},
		desc: func(i int) op.Desc {
			return rankDesc[T](op.Syr2k, layout, batchparam.Extract(uplo, i), batchparam.Extract(trans, i),
				x(n, i), x(k, i), x(lda, i), x(ldb, i), x(ldc, i))
		},
		run: func(t Target, i int, d *op.Desc) error {
			return syr2k(t, d, batchparam.Extract(alpha, i), batchparam.Extract(a, i), batchparam.Extract(b, i),
				batchparam.Extract(beta, i), batchparam.Extract(c, i))
		},
	}.do(q)
}

// BatchHer2k runs count independent Her2k calls on q.
func BatchHer2k[T blas.Scalar, R blas.Real](q *stream.Queue, layout blas.Layout, uplo []blas.Uplo, trans []blas.Op, n, k []int64,
	alpha []T, a [][]T, lda []int64, b [][]T, ldb []int64, beta []R, c [][]T, ldc []int64, count int, info []int64) error {
	x := batchparam.Extract[int64]
	return batchCall{
		name: "her2k", count: count, info: info,
		params: []batchparam.Param{
			batchparam.Of("uplo", uplo), batchparam.Of("trans", trans),
			batchparam.Of("n", n), batchparam.Of("k", k),
			batchparam.Of("alpha", alpha), batchparam.Of("A", a), batchparam.Of("lda", lda),
			batchparam.Of("B", b), batchparam.Of("ldb", ldb),
			batchparam.Of("beta", beta), batchparam.Of("C", c), batchparam.Of("ldc", ldc),
		},
		desc: func(i int) op.Desc {
			d := rankDesc[T](op.Her2k, layout, batchparam.Extract(uplo, i), batchparam.Extract(trans, i),
				x(n, i), x(k, i), x(lda, i), x(ldb, i), x(ldc, i))
			d.Coeff = blas.RealDomainOf[R]()
			return d
		},
		run: func(t Target, i int, d *op.Desc) error {
			return her2k(t, d, batchparam.Extract(alpha, i), batchparam.Extract(a, i), batchparam.Extract(b, i),
				float64(batchparam.Extract(beta, i)), batchparam.Extract(c, i))
		},
	}.do(q)
}

// BatchTrsm runs count independent Trsm calls on q.
func BatchTrsm[T blas.Scalar](q *stream.Queue, layout blas.Layout, side []blas.Side, uplo []blas.Uplo, trans []blas.Op, diag []blas.Diag,
	m, n []int64, alpha []T, a [][]T, lda []int64, b [][]T, ldb []int64, count int, info []int64) error {
	x := batchparam.Extract[int64]
	return batchCall{
		name: "trsm", count: count, info: info,
		params: []batchparam.Param{
			batchparam.Of("side", side), batchparam.Of("uplo", uplo),
			batchparam.Of("trans", trans), batchparam.Of("diag", diag),
			batchparam.Of("m", m), batchparam.Of("n", n),
			batchparam.Of("alpha", alpha), batchparam.Of("A", a), batchparam.Of("lda", lda),
			batchparam.Of("B", b), batchparam.Of("ldb", ldb),
		},
		desc: func(i int) op.Desc {
			return trsmDesc[T](layout, batchparam.Extract(side, i), batchparam.Extract(uplo, i),
				batchparam.Extract(trans, i), batchparam.Extract(diag, i),
				x(m, i), x(n, i), x(lda, i), x(ldb, i))
		},
		run: func(t Target, i int, d *op.Desc) error {
			return trsm(t, d, batchparam.Extract(alpha, i), batchparam.Extract(a, i), batchparam.Extract(b, i))
		},
	}.do(q)
}
