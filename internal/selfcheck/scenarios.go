package selfcheck

import (
	"math/rand/v2"

	"github.com/samcharles93/blasq/internal/dispatch"
	"github.com/samcharles93/blasq/pkg/blas"
)

// call is one run of an operation: the target to use, the storage order to
// address operands in, the data source and the synchronization to wait
// for before reading results.
type call struct {
	tg      dispatch.Target
	layout  blas.Layout
	rng     *rand.Rand
	sync    func() error
	m, n, k int
}

// scenario runs one operation and returns its logical output. A non-zero
// uplo restricts the comparison to that triangle.
type scenario[T blas.Scalar] struct {
	name string
	run  func(c call) (matrix[T], blas.Uplo, error)
}

func scenarios[T blas.Scalar]() []scenario[T] {
	return []scenario[T]{
		{"dot", func(c call) (matrix[T], blas.Uplo, error) { return dotRun[T](c, true) }},
		{"dotu", func(c call) (matrix[T], blas.Uplo, error) { return dotRun[T](c, false) }},
		{"axpy", axpyRun[T]},
		{"copy", copyRun[T]},
		{"scal", scalRun[T]},
		{"swap", swapRun[T]},
		{"rot", rotRun[T]},
		{"ger", func(c call) (matrix[T], blas.Uplo, error) { return gerRun[T](c, true) }},
		{"geru", func(c call) (matrix[T], blas.Uplo, error) { return gerRun[T](c, false) }},
		{"gemm/nn", func(c call) (matrix[T], blas.Uplo, error) { return gemmRun[T](c, blas.NoTrans, blas.NoTrans) }},
		{"gemm/tc", func(c call) (matrix[T], blas.Uplo, error) { return gemmRun[T](c, blas.Trans, blas.ConjTrans) }},
		{"symm", func(c call) (matrix[T], blas.Uplo, error) { return symmRun[T](c, false, blas.Left, blas.Upper) }},
		{"hemm", func(c call) (matrix[T], blas.Uplo, error) { return symmRun[T](c, true, blas.Right, blas.Lower) }},
		{"syrk", func(c call) (matrix[T], blas.Uplo, error) { return rankRun[T](c, "syrk", blas.Upper, blas.NoTrans) }},
		{"herk", func(c call) (matrix[T], blas.Uplo, error) { return rankRun[T](c, "herk", blas.Lower, blas.ConjTrans) }},
		{"syr2k", func(c call) (matrix[T], blas.Uplo, error) { return rankRun[T](c, "syr2k", blas.Lower, blas.Trans) }},
		{"her2k", func(c call) (matrix[T], blas.Uplo, error) { return rankRun[T](c, "her2k", blas.Upper, blas.NoTrans) }},
		{"trsm/lut", func(c call) (matrix[T], blas.Uplo, error) {
			return trsmRun[T](c, blas.Left, blas.Upper, blas.Trans, blas.NonUnit)
		}},
		{"trsm/rlc", func(c call) (matrix[T], blas.Uplo, error) {
			return trsmRun[T](c, blas.Right, blas.Lower, blas.ConjTrans, blas.Unit)
		}},
	}
}

func coeff[T blas.Scalar](rng *rand.Rand) T {
	return blas.FromParts[T](rng.Float64()+0.5, rng.Float64()-0.5)
}

func dotRun[T blas.Scalar](c call, conj bool) (matrix[T], blas.Uplo, error) {
	x := randomMatrix[T](c.rng, 1, 2*c.n).v
	y := randomMatrix[T](c.rng, 1, c.n).v
	var out T
	if err := dispatch.Dot(c.tg, conj, int64(c.n), x, 2, y, -1, &out); err != nil {
		return matrix[T]{}, 0, err
	}
	if err := c.sync(); err != nil {
		return matrix[T]{}, 0, err
	}
	return scalar(out), 0, nil
}

func axpyRun[T blas.Scalar](c call) (matrix[T], blas.Uplo, error) {
	alpha := coeff[T](c.rng)
	x := randomMatrix[T](c.rng, 1, c.n).v
	y := randomMatrix[T](c.rng, 1, 3*c.n).v
	if err := dispatch.Axpy(c.tg, int64(c.n), alpha, x, 1, y, 3); err != nil {
		return matrix[T]{}, 0, err
	}
	if err := c.sync(); err != nil {
		return matrix[T]{}, 0, err
	}
	return vector(y), 0, nil
}

func copyRun[T blas.Scalar](c call) (matrix[T], blas.Uplo, error) {
	x := randomMatrix[T](c.rng, 1, c.n).v
	y := make([]T, c.n)
	if err := dispatch.Copy(c.tg, int64(c.n), x, 1, y, -1); err != nil {
		return matrix[T]{}, 0, err
	}
	if err := c.sync(); err != nil {
		return matrix[T]{}, 0, err
	}
	return vector(y), 0, nil
}

func scalRun[T blas.Scalar](c call) (matrix[T], blas.Uplo, error) {
	alpha := coeff[T](c.rng)
	x := randomMatrix[T](c.rng, 1, 2*c.n).v
	if err := dispatch.Scal(c.tg, int64(c.n), alpha, x, 2); err != nil {
		return matrix[T]{}, 0, err
	}
	if err := c.sync(); err != nil {
		return matrix[T]{}, 0, err
	}
	return vector(x), 0, nil
}

func swapRun[T blas.Scalar](c call) (matrix[T], blas.Uplo, error) {
	x := randomMatrix[T](c.rng, 1, c.n).v
	y := randomMatrix[T](c.rng, 1, c.n).v
	if err := dispatch.Swap(c.tg, int64(c.n), x, 1, y, -1); err != nil {
		return matrix[T]{}, 0, err
	}
	if err := c.sync(); err != nil {
		return matrix[T]{}, 0, err
	}
	return vector(append(x, y...)), 0, nil
}

func rotRun[T blas.Scalar](c call) (matrix[T], blas.Uplo, error) {
	x := randomMatrix[T](c.rng, 1, c.n).v
	y := randomMatrix[T](c.rng, 1, c.n).v
	const cs, sn = 0.6, 0.8
	var err error
	if blas.DomainOf[T]().Real() == blas.RealSingle {
		err = dispatch.Rot(c.tg, int64(c.n), x, 1, y, 1, float32(cs), float32(sn))
	} else {
		err = dispatch.Rot(c.tg, int64(c.n), x, 1, y, 1, cs, sn)
	}
	if err != nil {
		return matrix[T]{}, 0, err
	}
	if err := c.sync(); err != nil {
		return matrix[T]{}, 0, err
	}
	return vector(append(x, y...)), 0, nil
}

func gerRun[T blas.Scalar](c call, conj bool) (matrix[T], blas.Uplo, error) {
	alpha := coeff[T](c.rng)
	x := randomMatrix[T](c.rng, 1, c.m).v
	y := randomMatrix[T](c.rng, 1, 2*c.n).v
	a, lda := randomMatrix[T](c.rng, c.m, c.n).store(c.layout)
	if err := dispatch.Ger(c.tg, conj, c.layout, int64(c.m), int64(c.n), alpha, x, 1, y, -2, a, lda); err != nil {
		return matrix[T]{}, 0, err
	}
	if err := c.sync(); err != nil {
		return matrix[T]{}, 0, err
	}
	return loadMatrix(c.layout, a, lda, c.m, c.n), 0, nil
}

// shape returns the stored shape of X when op(X) is r-by-c.
func shape(trans blas.Op, r, c int) (int, int) {
	if trans == blas.NoTrans {
		return r, c
	}
	return c, r
}

func gemmRun[T blas.Scalar](c call, transA, transB blas.Op) (matrix[T], blas.Uplo, error) {
	alpha, beta := coeff[T](c.rng), coeff[T](c.rng)
	ar, ac := shape(transA, c.m, c.k)
	br, bc := shape(transB, c.k, c.n)
	a, lda := randomMatrix[T](c.rng, ar, ac).store(c.layout)
	b, ldb := randomMatrix[T](c.rng, br, bc).store(c.layout)
	cc, ldc := randomMatrix[T](c.rng, c.m, c.n).store(c.layout)
	err := dispatch.Gemm(c.tg, c.layout, transA, transB, int64(c.m), int64(c.n), int64(c.k), alpha, a, lda, b, ldb, beta, cc, ldc)
	if err != nil {
		return matrix[T]{}, 0, err
	}
	if err := c.sync(); err != nil {
		return matrix[T]{}, 0, err
	}
	return loadMatrix(c.layout, cc, ldc, c.m, c.n), 0, nil
}

func symmRun[T blas.Scalar](c call, hermitian bool, side blas.Side, uplo blas.Uplo) (matrix[T], blas.Uplo, error) {
	alpha, beta := coeff[T](c.rng), coeff[T](c.rng)
	na := c.m
	if side == blas.Right {
		na = c.n
	}
	a, lda := randomMatrix[T](c.rng, na, na).store(c.layout)
	b, ldb := randomMatrix[T](c.rng, c.m, c.n).store(c.layout)
	cc, ldc := randomMatrix[T](c.rng, c.m, c.n).store(c.layout)
	err := dispatch.Symm(c.tg, hermitian, c.layout, side, uplo, int64(c.m), int64(c.n), alpha, a, lda, b, ldb, beta, cc, ldc)
	if err != nil {
		return matrix[T]{}, 0, err
	}
	if err := c.sync(); err != nil {
		return matrix[T]{}, 0, err
	}
	return loadMatrix(c.layout, cc, ldc, c.m, c.n), 0, nil
}

func rankRun[T blas.Scalar](c call, name string, uplo blas.Uplo, trans blas.Op) (matrix[T], blas.Uplo, error) {
	alpha, beta := coeff[T](c.rng), coeff[T](c.rng)
	ar, ac := shape(trans, c.n, c.k)
	a, lda := randomMatrix[T](c.rng, ar, ac).store(c.layout)
	b, ldb := randomMatrix[T](c.rng, ar, ac).store(c.layout)
	cc, ldc := randomMatrix[T](c.rng, c.n, c.n).store(c.layout)
	n, k := int64(c.n), int64(c.k)
	ra, rb := realPart(alpha), realPart(beta)
	single := blas.DomainOf[T]().Real() == blas.RealSingle

	var err error
	switch name {
	case "syrk":
		err = dispatch.Syrk(c.tg, c.layout, uplo, trans, n, k, alpha, a, lda, beta, cc, ldc)
	case "syr2k":
		err = dispatch.Syr2k(c.tg, c.layout, uplo, trans, n, k, alpha, a, lda, b, ldb, beta, cc, ldc)
	case "herk":
		if single {
			err = dispatch.Herk(c.tg, c.layout, uplo, trans, n, k, float32(ra), a, lda, float32(rb), cc, ldc)
		} else {
			err = dispatch.Herk(c.tg, c.layout, uplo, trans, n, k, ra, a, lda, rb, cc, ldc)
		}
	case "her2k":
		if single {
			err = dispatch.Her2k(c.tg, c.layout, uplo, trans, n, k, alpha, a, lda, b, ldb, float32(rb), cc, ldc)
		} else {
			err = dispatch.Her2k(c.tg, c.layout, uplo, trans, n, k, alpha, a, lda, b, ldb, rb, cc, ldc)
		}
	}
	if err != nil {
		return matrix[T]{}, 0, err
	}
	if err := c.sync(); err != nil {
		return matrix[T]{}, 0, err
	}
	return loadMatrix(c.layout, cc, ldc, c.n, c.n), uplo, nil
}

func realPart[T blas.Scalar](v T) float64 {
	re, _ := blas.Parts(v)
	return re
}

func trsmRun[T blas.Scalar](c call, side blas.Side, uplo blas.Uplo, trans blas.Op, diag blas.Diag) (matrix[T], blas.Uplo, error) {
	alpha := coeff[T](c.rng)
	na := c.m
	if side == blas.Right {
		na = c.n
	}
	a, lda := randomMatrix[T](c.rng, na, na).diagonallyDominant().store(c.layout)
	b, ldb := randomMatrix[T](c.rng, c.m, c.n).store(c.layout)
	err := dispatch.Trsm(c.tg, c.layout, side, uplo, trans, diag, int64(c.m), int64(c.n), alpha, a, lda, b, ldb)
	if err != nil {
		return matrix[T]{}, 0, err
	}
	if err := c.sync(); err != nil {
		return matrix[T]{}, 0, err
	}
	return loadMatrix(c.layout, b, ldb, c.m, c.n), 0, nil
}
