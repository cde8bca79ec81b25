package dispatch

import (
	"github.com/samcharles93/blasq/internal/kernel"
	"github.com/samcharles93/blasq/internal/op"
	"github.com/samcharles93/blasq/internal/validate"
	"github.com/samcharles93/blasq/pkg/blas"
)

// Gemm computes C = alpha*op(A)*op(B) + beta*C.
func Gemm[T blas.Scalar](t Target, layout blas.Layout, transA, transB blas.Op, m, n, k int64, alpha T, a []T, lda int64, b []T, ldb int64, beta T, c []T, ldc int64) error {
	d := gemmDesc[T](layout, transA, transB, m, n, k, lda, ldb, ldc)
	return gemm(t, &d, alpha, a, b, beta, c)
}

func gemmDesc[T blas.Scalar](layout blas.Layout, transA, transB blas.Op, m, n, k, lda, ldb, ldc int64) op.Desc {
	return op.Desc{
		Family: op.Gemm, Elem: blas.DomainOf[T](), Layout: layout,
		TransA: transA, TransB: transB, M: m, N: n, K: k, LdA: lda, LdB: ldb, LdC: ldc,
	}
}

func gemm[T blas.Scalar](t Target, d *op.Desc, alpha T, a, b []T, beta T, c []T) error {
	set := t.Kernels()
	nd, nat, err := prepare(set, d)
	if err != nil {
		return err
	}
	if nd.SwapOperands {
		a, b = b, a
	}
	f := kernel.Resolve[T](set).Gemm
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&nd, "gemm"), func() {
			f(kernel.Transpose(nd.TransA), kernel.Transpose(nd.TransB),
				int(nat.M), int(nat.N), int(nat.K),
				alpha, a, int(nat.LdA), b, int(nat.LdB), beta, c, int(nat.LdC))
		})
	})
}

// Symm computes C = alpha*A*B + beta*C (Side Left) or alpha*B*A + beta*C
// (Side Right) with A symmetric, or Hermitian when hermitian is set. A
// real Hermitian matrix is symmetric, so real hemm is symm.
func Symm[T blas.Scalar](t Target, hermitian bool, layout blas.Layout, side blas.Side, uplo blas.Uplo, m, n int64, alpha T, a []T, lda int64, b []T, ldb int64, beta T, c []T, ldc int64) error {
	d := symmDesc[T](hermitian, layout, side, uplo, m, n, lda, ldb, ldc)
	return symm(t, &d, alpha, a, b, beta, c)
}

func symmDesc[T blas.Scalar](hermitian bool, layout blas.Layout, side blas.Side, uplo blas.Uplo, m, n, lda, ldb, ldc int64) op.Desc {
	d := op.Desc{
		Family: op.Symm, Elem: blas.DomainOf[T](), Layout: layout,
		Side: side, Uplo: uplo, M: m, N: n, LdA: lda, LdB: ldb, LdC: ldc,
	}
	if hermitian {
		d.Name = "hemm"
		if d.Complex() {
			d.Family = op.Hemm
		}
	}
	return d
}

func symm[T blas.Scalar](t Target, d *op.Desc, alpha T, a, b []T, beta T, c []T) error {
	set := t.Kernels()
	nd, nat, err := prepare(set, d)
	if err != nil {
		return err
	}
	e := kernel.Resolve[T](set)
	f, base := e.Symm, "symm"
	if nd.Family == op.Hemm {
		f, base = e.Hemm, "hemm"
	}
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&nd, base), func() {
			f(kernel.Side(nd.Side), kernel.Uplo(nd.Uplo), int(nat.M), int(nat.N),
				alpha, a, int(nat.LdA), b, int(nat.LdB), beta, c, int(nat.LdC))
		})
	})
}

// Syrk computes C = alpha*op(A)*op(A)^T + beta*C on the uplo triangle.
func Syrk[T blas.Scalar](t Target, layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha T, a []T, lda int64, beta T, c []T, ldc int64) error {
	d := rankDesc[T](op.Syrk, layout, uplo, trans, n, k, lda, 0, ldc)
	return syrk(t, &d, alpha, a, beta, c)
}

// rankDesc describes the rank-k and rank-2k families.
func rankDesc[T blas.Scalar](f op.Family, layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k, lda, ldb, ldc int64) op.Desc {
	return op.Desc{
		Family: f, Elem: blas.DomainOf[T](), Layout: layout,
		Uplo: uplo, TransA: trans, N: n, K: k, LdA: lda, LdB: ldb, LdC: ldc,
	}
}

func syrk[T blas.Scalar](t Target, d *op.Desc, alpha T, a []T, beta T, c []T) error {
	set := t.Kernels()
	nd, nat, err := prepare(set, d)
	if err != nil {
		return err
	}
	f := kernel.Resolve[T](set).Syrk
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&nd, "syrk"), func() {
			f(kernel.Uplo(nd.Uplo), kernel.Transpose(nd.TransA), int(nat.N), int(nat.K),
				alpha, a, int(nat.LdA), beta, c, int(nat.LdC))
		})
	})
}

// Herk computes C = alpha*op(A)*op(A)^H + beta*C with real alpha and beta.
// For real elements it is Syrk.
func Herk[T blas.Scalar, R blas.Real](t Target, layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha R, a []T, lda int64, beta R, c []T, ldc int64) error {
	d := rankDesc[T](op.Herk, layout, uplo, trans, n, k, lda, 0, ldc)
	d.Coeff = blas.RealDomainOf[R]()
	return herk(t, &d, float64(alpha), a, float64(beta), c)
}

func herk[T blas.Scalar](t Target, d *op.Desc, alpha float64, a []T, beta float64, c []T) error {
	if !d.Complex() {
		if err := validate.Check(d); err != nil {
			return err
		}
		s := *d
		s.Family, s.Name, s.Coeff = op.Syrk, "herk", 0
		return syrk(t, &s, blas.FromFloat[T](alpha), a, blas.FromFloat[T](beta), c)
	}
	set := t.Kernels()
	nd, nat, err := prepare(set, d)
	if err != nil {
		return err
	}
	f := kernel.Resolve[T](set).Herk
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&nd, "herk"), func() {
			f(kernel.Uplo(nd.Uplo), kernel.Transpose(nd.TransA), int(nat.N), int(nat.K),
				alpha, a, int(nat.LdA), beta, c, int(nat.LdC))
		})
	})
}

// Syr2k computes C = alpha*op(A)*op(B)^T + alpha*op(B)*op(A)^T + beta*C.
func Syr2k[T blas.Scalar](t Target, layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha T, a []T, lda int64, b []T, ldb int64, beta T, c []T, ldc int64) error {
	d := rankDesc[T](op.Syr2k, layout, uplo, trans, n, k, lda, ldb, ldc)
	return syr2k(t, &d, alpha, a, b, beta, c)
}

func syr2k[T blas.Scalar](t Target, d *op.Desc, alpha T, a, b []T, beta T, c []T) error {
	set := t.Kernels()
	nd, nat, err := prepare(set, d)
	if err != nil {
		return err
	}
	f := kernel.Resolve[T](set).Syr2k
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&nd, "syr2k"), func() {
			f(kernel.Uplo(nd.Uplo), kernel.Transpose(nd.TransA), int(nat.N), int(nat.K),
				alpha, a, int(nat.LdA), b, int(nat.LdB), beta, c, int(nat.LdC))
		})
	})
}

// Her2k computes C = alpha*op(A)*op(B)^H + conj(alpha)*op(B)*op(A)^H +
// beta*C with real beta. For real elements it is Syr2k.
func Her2k[T blas.Scalar, R blas.Real](t Target, layout blas.Layout, uplo blas.Uplo, trans blas.Op, n, k int64, alpha T, a []T, lda int64, b []T, ldb int64, beta R, c []T, ldc int64) error {
	d := rankDesc[T](op.Her2k, layout, uplo, trans, n, k, lda, ldb, ldc)
	d.Coeff = blas.RealDomainOf[R]()
	return her2k(t, &d, alpha, a, b, float64(beta), c)
}

func her2k[T blas.Scalar](t Target, d *op.Desc, alpha T, a, b []T, beta float64, c []T) error {
	if !d.Complex() {
		if err := validate.Check(d); err != nil {
			return err
		}
		s := *d
		s.Family, s.Name, s.Coeff = op.Syr2k, "her2k", 0
		return syr2k(t, &s, alpha, a, b, blas.FromFloat[T](beta), c)
	}
	set := t.Kernels()
	nd, nat, err := prepare(set, d)
	if err != nil {
		return err
	}
	if nd.ConjAlpha {
		alpha = blas.Conj(alpha)
	}
	f := kernel.Resolve[T](set).Her2k
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&nd, "her2k"), func() {
			f(kernel.Uplo(nd.Uplo), kernel.Transpose(nd.TransA), int(nat.N), int(nat.K),
				alpha, a, int(nat.LdA), b, int(nat.LdB), beta, c, int(nat.LdC))
		})
	})
}

// Trsm solves op(A)*X = alpha*B (Side Left) or X*op(A) = alpha*B (Side
// Right) for X, overwriting B.
func Trsm[T blas.Scalar](t Target, layout blas.Layout, side blas.Side, uplo blas.Uplo, trans blas.Op, diag blas.Diag, m, n int64, alpha T, a []T, lda int64, b []T, ldb int64) error {
	d := trsmDesc[T](layout, side, uplo, trans, diag, m, n, lda, ldb)
	return trsm(t, &d, alpha, a, b)
}

func trsmDesc[T blas.Scalar](layout blas.Layout, side blas.Side, uplo blas.Uplo, trans blas.Op, diag blas.Diag, m, n, lda, ldb int64) op.Desc {
	return op.Desc{
		Family: op.Trsm, Elem: blas.DomainOf[T](), Layout: layout,
		Side: side, Uplo: uplo, TransA: trans, Diag: diag, M: m, N: n, LdA: lda, LdB: ldb,
	}
}

func trsm[T blas.Scalar](t Target, d *op.Desc, alpha T, a, b []T) error {
	set := t.Kernels()
	nd, nat, err := prepare(set, d)
	if err != nil {
		return err
	}
	f := kernel.Resolve[T](set).Trsm
	return t.Submit(func() error {
		return set.Run(d.OpName(), routine(&nd, "trsm"), func() {
			f(kernel.Side(nd.Side), kernel.Uplo(nd.Uplo), kernel.Transpose(nd.TransA), kernel.Diag(nd.Diag),
				int(nat.M), int(nat.N), alpha, a, int(nat.LdA), b, int(nat.LdB))
		})
	})
}
