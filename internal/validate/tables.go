package validate

import (
	"github.com/samcharles93/blasq/internal/op"
	"github.com/samcharles93/blasq/pkg/blas"
)

func getM(d *op.Desc) int64    { return d.M }
func getN(d *op.Desc) int64    { return d.N }
func getK(d *op.Desc) int64    { return d.K }
func getLdA(d *op.Desc) int64  { return d.LdA }
func getLdB(d *op.Desc) int64  { return d.LdB }
func getLdC(d *op.Desc) int64  { return d.LdC }
func getIncX(d *op.Desc) int64 { return d.IncX }
func getIncY(d *op.Desc) int64 { return d.IncY }

// rowsOf picks the extent a leading dimension spans: the row count of the
// stored matrix in column-major order, its column count in row-major order.
func rowsOf(d *op.Desc, rowName string, rows int64, colName string, cols int64) (string, int64) {
	if d.ColMajor() {
		return rowName, rows
	}
	return colName, cols
}

// outputExtent is the extent of an m-by-n output such as C or B.
func outputExtent(d *op.Desc) (string, int64) { return rowsOf(d, "m", d.M, "n", d.N) }

// gemmA: A is m-by-k, or k-by-m when transposed.
func gemmA(d *op.Desc) (string, int64) {
	if d.TransA == blas.NoTrans {
		return rowsOf(d, "m", d.M, "k", d.K)
	}
	return rowsOf(d, "k", d.K, "m", d.M)
}

// gemmB: B is k-by-n, or n-by-k when transposed.
func gemmB(d *op.Desc) (string, int64) {
	if d.TransB == blas.NoTrans {
		return rowsOf(d, "k", d.K, "n", d.N)
	}
	return rowsOf(d, "n", d.N, "k", d.K)
}

// rankA: the rank-k operands are n-by-k, or k-by-n when transposed.
func rankA(d *op.Desc) (string, int64) {
	if d.TransA == blas.NoTrans {
		return rowsOf(d, "n", d.N, "k", d.K)
	}
	return rowsOf(d, "k", d.K, "n", d.N)
}

// sideA: the structured operand is square, m-by-m on the left and n-by-n
// on the right.
func sideA(d *op.Desc) (string, int64) {
	if d.Side == blas.Left {
		return "m", d.M
	}
	return "n", d.N
}

func square(d *op.Desc) (string, int64) { return "n", d.N }

// symm and hemm share argument rules.
var symmRules = []Rule{
	layout(1), side(2), uplo(3),
	dim("m", 4, getM), dim("n", 5, getN),
	leading("lda", 8, getLdA, sideA),
	leading("ldb", 10, getLdB, outputExtent),
	leading("ldc", 13, getLdC, outputExtent),
}

var table = map[op.Family][]Rule{
	op.Dot:  {dim("n", 1, getN), inc("incx", 3, getIncX), inc("incy", 5, getIncY)},
	op.Copy: {dim("n", 1, getN), inc("incx", 3, getIncX), inc("incy", 5, getIncY)},
	op.Swap: {dim("n", 1, getN), inc("incx", 3, getIncX), inc("incy", 5, getIncY)},
	op.Axpy: {dim("n", 1, getN), inc("incx", 4, getIncX), inc("incy", 6, getIncY)},
	op.Scal: {dim("n", 1, getN), positiveInc("incx", 4, getIncX)},
	op.Rot: {
		dim("n", 1, getN), inc("incx", 3, getIncX), inc("incy", 5, getIncY),
		coeff("c", 6),
	},
	op.Ger: {
		layout(1), dim("m", 2, getM), dim("n", 3, getN),
		inc("incx", 6, getIncX), inc("incy", 8, getIncY),
		leading("lda", 10, getLdA, outputExtent),
	},
	op.Gemm: {
		layout(1),
		trans("transA", 2, transA, anyOp), trans("transB", 3, transB, anyOp),
		dim("m", 4, getM), dim("n", 5, getN), dim("k", 6, getK),
		leading("lda", 9, getLdA, gemmA),
		leading("ldb", 11, getLdB, gemmB),
		leading("ldc", 14, getLdC, outputExtent),
	},
	op.Symm: symmRules,
	op.Hemm: symmRules,
	op.Syrk: {
		layout(1), uplo(2), trans("trans", 3, transA, symmetricOps),
		dim("n", 4, getN), dim("k", 5, getK),
		leading("lda", 8, getLdA, rankA),
		leading("ldc", 11, getLdC, square),
	},
	op.Herk: {
		layout(1), uplo(2), trans("trans", 3, transA, hermitianOps),
		dim("n", 4, getN), dim("k", 5, getK),
		coeff("alpha", 6),
		leading("lda", 8, getLdA, rankA),
		leading("ldc", 11, getLdC, square),
	},
	op.Syr2k: {
		layout(1), uplo(2), trans("trans", 3, transA, symmetricOps),
		dim("n", 4, getN), dim("k", 5, getK),
		leading("lda", 8, getLdA, rankA),
		leading("ldb", 10, getLdB, rankA),
		leading("ldc", 13, getLdC, square),
	},
	op.Her2k: {
		layout(1), uplo(2), trans("trans", 3, transA, hermitianOps),
		dim("n", 4, getN), dim("k", 5, getK),
		leading("lda", 8, getLdA, rankA),
		leading("ldb", 10, getLdB, rankA),
		coeff("beta", 11),
		leading("ldc", 13, getLdC, square),
	},
	op.Trsm: {
		layout(1), side(2), uplo(3),
		trans("trans", 4, transA, anyOp), diag(5),
		dim("m", 6, getM), dim("n", 7, getN),
		leading("lda", 10, getLdA, sideA),
		leading("ldb", 12, getLdB, outputExtent),
	},
}
