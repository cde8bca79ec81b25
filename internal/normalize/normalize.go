// Package normalize rewrites a call addressed in one storage order into the
// equivalent call in the other, changing only parameters, never data.
//
// A matrix stored row-major is its transpose stored column-major, so a
// call in the foreign order is rewritten by transposing the whole
// identity it computes. Each rewrite is its own inverse.
package normalize

import (
	"github.com/samcharles93/blasq/internal/op"
	"github.com/samcharles93/blasq/pkg/blas"
)

type rewrite func(d *op.Desc)

var rewrites = map[op.Family]rewrite{
	op.Ger:   ger,
	op.Gemm:  gemm,
	op.Symm:  symm,
	op.Hemm:  symm,
	op.Syrk:  syrk,
	op.Syr2k: syrk,
	op.Herk:  herk,
	op.Her2k: her2k,
	op.Trsm:  trsm,
}

// To returns d rewritten for a kernel whose native order is native. Vector
// operations and calls already in the native order are returned unchanged.
func To(native blas.Layout, d op.Desc) op.Desc {
	if d.Family.Level1() || d.Layout == native {
		return d
	}
	if r, ok := rewrites[d.Family]; ok {
		r(&d)
	}
	d.Layout = native
	return d
}

// C = alpha*op(A)*op(B) + beta*C  <=>  C^T = alpha*op(B)^T*op(A)^T + beta*C^T
func gemm(d *op.Desc) {
	d.M, d.N = d.N, d.M
	d.TransA, d.TransB = d.TransB, d.TransA
	d.LdA, d.LdB = d.LdB, d.LdA
	d.SwapOperands = !d.SwapOperands
}

// C = alpha*A*B + beta*C with A symmetric on the left becomes
// C^T = alpha*B^T*A^T + beta*C^T, A^T symmetric on the right. The stored
// triangle of A^T is the opposite one. For Hermitian A the transpose is
// conj(A), which is the same matrix read through the other triangle.
func symm(d *op.Desc) {
	d.Side = d.Side.Flip()
	d.Uplo = d.Uplo.Flip()
	d.M, d.N = d.N, d.M
}

// A n-by-k read in the other order is k-by-n, so the transpose flag
// toggles. Real symmetric updates accept any transposed form; complex ones
// only plain transposition.
func syrk(d *op.Desc) {
	d.Uplo = d.Uplo.Flip()
	if d.TransA == blas.NoTrans {
		d.TransA = blas.Trans
	} else {
		d.TransA = blas.NoTrans
	}
}

// C = alpha*A*A^H  <=>  C^T = alpha*conj(A)*A^T = alpha*(A^T)^H*(A^T).
func herk(d *op.Desc) {
	d.Uplo = d.Uplo.Flip()
	if d.TransA == blas.NoTrans {
		if d.Complex() {
			d.TransA = blas.ConjTrans
		} else {
			d.TransA = blas.Trans
		}
	} else {
		d.TransA = blas.NoTrans
	}
}

// C = alpha*A*B^H + conj(alpha)*B*A^H transposes to
// C^T = conj(alpha)*(A^T)^H*(B^T) + alpha*(B^T)^H*(A^T), the same update
// with the coefficient conjugated.
func her2k(d *op.Desc) {
	herk(d)
	if d.Complex() {
		d.ConjAlpha = !d.ConjAlpha
	}
}

// op(A)*X = alpha*B with A on the left becomes X^T*op(A)^T = alpha*B^T:
// A moves to the right, its stored triangle flips and op is unchanged.
func trsm(d *op.Desc) {
	d.Side = d.Side.Flip()
	d.Uplo = d.Uplo.Flip()
	d.M, d.N = d.N, d.M
}

// A += alpha*x*y^T  <=>  A^T += alpha*y*x^T. For the conjugated form
// A += alpha*x*y^H the transpose is A^T += alpha*conj(y)*x^T, an
// unconjugated update whose first operand is conjugated.
func ger(d *op.Desc) {
	d.M, d.N = d.N, d.M
	d.IncX, d.IncY = d.IncY, d.IncX
	d.SwapOperands = !d.SwapOperands
	if d.Conj && d.Complex() {
		d.Conj = false
		d.ConjFirst = true
	} else if d.ConjFirst {
		d.ConjFirst = false
		d.Conj = true
	}
}
