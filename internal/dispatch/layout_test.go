package dispatch

import (
	"fmt"
	"testing"

	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/pkg/blas"
)

var layouts = []blas.Layout{blas.RowMajor, blas.ColMajor}

// opAt reads element (i, j) of op(x).
func opAt[T blas.Scalar](x dense[T], trans blas.Op, i, j int) T {
	switch trans {
	case blas.Trans:
		return x.at(j, i)
	case blas.ConjTrans:
		return blas.Conj(x.at(j, i))
	}
	return x.at(i, j)
}

func TestGemmLayouts(t *testing.T) {
	t.Parallel()
	t.Run("float64", checkGemm[float64])
	t.Run("complex128", checkGemm[complex128])
}

func checkGemm[T blas.Scalar](t *testing.T) {
	t.Parallel()
	rng := newRNG()
	const m, n, k = 4, 3, 5
	alpha, beta := blas.FromParts[T](0.7, -0.3), blas.FromParts[T](0.4, 0.2)
	for _, ta := range []blas.Op{blas.NoTrans, blas.Trans, blas.ConjTrans} {
		for _, tb := range []blas.Op{blas.NoTrans, blas.Trans, blas.ConjTrans} {
			ar, ac := dims(ta, m, k)
			br, bc := dims(tb, k, n)
			A, B, C := random[T](rng, ar, ac), random[T](rng, br, bc), random[T](rng, m, n)

			want := dense[T]{r: m, c: n, v: make([]T, m*n)}
			for i := range m {
				for j := range n {
					var s T
					for l := range k {
						s += opAt(A, ta, i, l) * opAt(B, tb, l, j)
					}
					want.v[i*n+j] = alpha*s + beta*C.at(i, j)
				}
			}

			for _, layout := range layouts {
				a, lda := A.store(layout)
				b, ldb := B.store(layout)
				c, ldc := C.store(layout)
				if err := Gemm(Host(kernel.Gonum()), layout, ta, tb, m, n, k, alpha, a, lda, b, ldb, beta, c, ldc); err != nil {
					t.Fatalf("gemm %v %v %v: %v", layout, ta, tb, err)
				}
				sameMatrix(t, fmt.Sprintf("gemm %v %v %v C", layout, ta, tb), load(layout, c, ldc, m, n), want, 0)
			}
		}
	}
}

func TestSymmLayouts(t *testing.T) {
	t.Parallel()
	t.Run("float64", func(t *testing.T) { checkSymm[float64](t, false) })
	t.Run("complex128", func(t *testing.T) { checkSymm[complex128](t, false) })
	t.Run("hemm/float64", func(t *testing.T) { checkSymm[float64](t, true) })
	t.Run("hemm/complex128", func(t *testing.T) { checkSymm[complex128](t, true) })
}

func checkSymm[T blas.Scalar](t *testing.T, hermitian bool) {
	t.Parallel()
	rng := newRNG()
	const m, n = 4, 3
	alpha, beta := blas.FromParts[T](1.1, 0.5), blas.FromParts[T](-0.2, 0.3)
	for _, side := range []blas.Side{blas.Left, blas.Right} {
		for _, uplo := range []blas.Uplo{blas.Upper, blas.Lower} {
			na := m
			if side == blas.Right {
				na = n
			}
			// Only the uplo triangle of A is read, so A need not be symmetric.
			A, B, C := random[T](rng, na, na), random[T](rng, m, n), random[T](rng, m, n)
			var got []dense[T]
			for _, layout := range layouts {
				a, lda := A.store(layout)
				b, ldb := B.store(layout)
				c, ldc := C.store(layout)
				if err := Symm(Host(kernel.Gonum()), hermitian, layout, side, uplo, m, n, alpha, a, lda, b, ldb, beta, c, ldc); err != nil {
					t.Fatalf("symm %v %v %v: %v", layout, side, uplo, err)
				}
				got = append(got, load(layout, c, ldc, m, n))
			}
			sameMatrix(t, fmt.Sprintf("symm %v %v C", side, uplo), got[1], got[0], 0)
		}
	}
}

func TestRankKLayouts(t *testing.T) {
	t.Parallel()
	t.Run("syrk/float64", checkSyrk[float64])
	t.Run("syrk/complex128", checkSyrk[complex128])
	t.Run("herk/float64", checkHerk[float64, float64])
	t.Run("herk/complex128", checkHerk[complex128, float64])
	t.Run("syr2k/float64", checkSyr2k[float64])
	t.Run("syr2k/complex128", checkSyr2k[complex128])
	t.Run("her2k/float64", checkHer2k[float64, float64])
	t.Run("her2k/complex128", checkHer2k[complex128, float64])
}

func rankOps[T blas.Scalar](hermitian bool) []blas.Op {
	d := blas.DomainOf[T]()
	switch {
	case !d.IsComplex():
		return []blas.Op{blas.NoTrans, blas.Trans, blas.ConjTrans}
	case hermitian:
		return []blas.Op{blas.NoTrans, blas.ConjTrans}
	}
	return []blas.Op{blas.NoTrans, blas.Trans}
}

func checkSyrk[T blas.Scalar](t *testing.T) {
	t.Parallel()
	checkRank[T](t, "syrk", false, false, func(layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, a []T, lda int64, _ []T, _ int64, c []T, ldc int64) error {
		return Syrk(Host(kernel.Gonum()), layout, uplo, trans, n, k, blas.FromParts[T](0.8, 0.1), a, lda, blas.FromParts[T](0.5, -0.5), c, ldc)
	})
}

func checkHerk[T blas.Scalar, R blas.Real](t *testing.T) {
	t.Parallel()
	checkRank[T](t, "herk", true, false, func(layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, a []T, lda int64, _ []T, _ int64, c []T, ldc int64) error {
		return Herk(Host(kernel.Gonum()), layout, uplo, trans, n, k, R(0.8), a, lda, R(0.5), c, ldc)
	})
}

func checkSyr2k[T blas.Scalar](t *testing.T) {
	t.Parallel()
	checkRank[T](t, "syr2k", false, true, func(layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, a []T, lda int64, b []T, ldb int64, c []T, ldc int64) error {
		return Syr2k(Host(kernel.Gonum()), layout, uplo, trans, n, k, blas.FromParts[T](0.8, 0.1), a, lda, b, ldb, blas.FromParts[T](0.5, -0.5), c, ldc)
	})
}

func checkHer2k[T blas.Scalar, R blas.Real](t *testing.T) {
	t.Parallel()
	// A complex alpha tells apart an update that forgets to conjugate it
	// when the storage order changes.
	checkRank[T](t, "her2k", true, true, func(layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, a []T, lda int64, b []T, ldb int64, c []T, ldc int64) error {
		return Her2k(Host(kernel.Gonum()), layout, uplo, trans, n, k, blas.FromParts[T](0.3, 0.9), a, lda, b, ldb, R(0.5), c, ldc)
	})
}

type rankCall[T blas.Scalar] func(layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, a []T, lda int64, b []T, ldb int64, c []T, ldc int64) error

func checkRank[T blas.Scalar](t *testing.T, name string, hermitian, twoOperands bool, call rankCall[T]) {
	t.Helper()
	rng := newRNG()
	const n, k = 4, 3
	for _, uplo := range []blas.Uplo{blas.Upper, blas.Lower} {
		for _, trans := range rankOps[T](hermitian) {
			ar, ac := dims(trans, n, k)
			A, B, C := random[T](rng, ar, ac), random[T](rng, ar, ac), random[T](rng, n, n)
			var got []dense[T]
			for _, layout := range layouts {
				a, lda := A.store(layout)
				var b []T
				var ldb int64
				if twoOperands {
					b, ldb = B.store(layout)
				}
				c, ldc := C.store(layout)
				if err := call(layout, uplo, trans, n, k, a, lda, b, ldb, c, ldc); err != nil {
					t.Fatalf("%s %v %v %v: %v", name, layout, uplo, trans, err)
				}
				got = append(got, load(layout, c, ldc, n, n))
			}
			sameMatrix(t, fmt.Sprintf("%s %v %v C", name, uplo, trans), got[1], got[0], uplo)
		}
	}
}

func TestTrsmLayouts(t *testing.T) {
	t.Parallel()
	t.Run("float64", checkTrsm[float64])
	t.Run("complex128", checkTrsm[complex128])
}

func checkTrsm[T blas.Scalar](t *testing.T) {
	t.Parallel()
	rng := newRNG()
	const m, n = 4, 3
	alpha := blas.FromParts[T](1.5, -0.5)
	for _, side := range []blas.Side{blas.Left, blas.Right} {
		for _, uplo := range []blas.Uplo{blas.Upper, blas.Lower} {
			for _, trans := range []blas.Op{blas.NoTrans, blas.Trans, blas.ConjTrans} {
				for _, diag := range []blas.Diag{blas.NonUnit, blas.Unit} {
					na := m
					if side == blas.Right {
						na = n
					}
					A := random[T](rng, na, na)
					for i := range na {
						A.v[i*na+i] += blas.FromFloat[T](4)
					}
					B := random[T](rng, m, n)
					var got []dense[T]
					for _, layout := range layouts {
						a, lda := A.store(layout)
						b, ldb := B.store(layout)
						if err := Trsm(Host(kernel.Gonum()), layout, side, uplo, trans, diag, m, n, alpha, a, lda, b, ldb); err != nil {
							t.Fatalf("trsm %v %v %v %v %v: %v", layout, side, uplo, trans, diag, err)
						}
						got = append(got, load(layout, b, ldb, m, n))
					}
					sameMatrix(t, fmt.Sprintf("trsm %v %v %v %v B", side, uplo, trans, diag), got[1], got[0], 0)
				}
			}
		}
	}
}

func TestGerLayouts(t *testing.T) {
	t.Parallel()
	t.Run("float64", checkGer[float64])
	t.Run("complex128", checkGer[complex128])
}

func checkGer[T blas.Scalar](t *testing.T) {
	t.Parallel()
	rng := newRNG()
	const m, n = 4, 3
	alpha := blas.FromParts[T](0.6, 0.4)
	// x with stride 2, y walked backwards.
	xs := random[T](rng, 1, 2*m-1).v
	ys := random[T](rng, 1, n).v
	xAt := func(i int) T { return xs[2*i] }
	yAt := func(j int) T { return ys[n-1-j] }

	for _, conj := range []bool{false, true} {
		A := random[T](rng, m, n)
		want := dense[T]{r: m, c: n, v: make([]T, m*n)}
		for i := range m {
			for j := range n {
				y := yAt(j)
				if conj {
					y = blas.Conj(y)
				}
				want.v[i*n+j] = A.at(i, j) + alpha*xAt(i)*y
			}
		}
		for _, layout := range layouts {
			a, lda := A.store(layout)
			if err := Ger(Host(kernel.Gonum()), conj, layout, m, n, alpha, xs, 2, ys, -1, a, lda); err != nil {
				t.Fatalf("ger conj=%v %v: %v", conj, layout, err)
			}
			sameMatrix(t, fmt.Sprintf("ger conj=%v %v A", conj, layout), load(layout, a, lda, m, n), want, 0)
		}
	}
}

func TestGerRoutines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		layout blas.Layout
		conj   bool
		want   string
	}{
		{blas.RowMajor, false, "zgeru"},
		{blas.RowMajor, true, "zgerc"},
		{blas.ColMajor, false, "zgeru"},
		{blas.ColMajor, true, "zgeru"},
	}
	for _, tt := range tests {
		set, tr := tracedSet()
		x := []complex128{1 + 1i, 2}
		y := []complex128{3, 4 - 1i, 5}
		a := make([]complex128, 6)
		lda := int64(3)
		if tt.layout == blas.ColMajor {
			lda = 2
		}
		if err := Ger(Host(set), tt.conj, tt.layout, 2, 3, 1, x, 1, y, 1, a, lda); err != nil {
			t.Fatalf("%v conj=%v: %v", tt.layout, tt.conj, err)
		}
		if got := tr.routines(); len(got) != 1 || got[0] != tt.want {
			t.Fatalf("%v conj=%v: routines = %v, want [%s]", tt.layout, tt.conj, got, tt.want)
		}
		want := (1 + 1i) * complex128(4-1i)
		if tt.conj {
			want = (1 + 1i) * (4 + 1i)
		}
		if got := load(tt.layout, a, lda, 2, 3).at(0, 1); got != want {
			t.Fatalf("%v conj=%v: A[0,1] = %v, want %v", tt.layout, tt.conj, got, want)
		}
	}
}
