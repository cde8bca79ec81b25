// Package op describes a single BLAS call independently of its operands'
// memory. The validator, the layout normalizer and the narrowing guard all
// work on a Desc.
package op

import "github.com/samcharles93/blasq/pkg/blas"

// Family groups operations that share argument rules and layout rewrites.
type Family uint8

const (
	Dot Family = iota + 1
	Axpy
	Copy
	Swap
	Scal
	Rot
	Ger
	Gemm
	Symm
	Hemm
	Syrk
	Herk
	Syr2k
	Her2k
	Trsm
)

var familyNames = [...]string{
	Dot:   "dot",
	Axpy:  "axpy",
	Copy:  "copy",
	Swap:  "swap",
	Scal:  "scal",
	Rot:   "rot",
	Ger:   "ger",
	Gemm:  "gemm",
	Symm:  "symm",
	Hemm:  "hemm",
	Syrk:  "syrk",
	Herk:  "herk",
	Syr2k: "syr2k",
	Her2k: "her2k",
	Trsm:  "trsm",
}

func (f Family) String() string {
	if int(f) < len(familyNames) && familyNames[f] != "" {
		return familyNames[f]
	}
	return "unknown"
}

// Level1 reports whether the family operates on vectors only. Vector
// operations carry no layout.
func (f Family) Level1() bool { return f >= Dot && f <= Rot }

// Desc is the shape of one call. Unused fields stay zero.
type Desc struct {
	Name   string // reported in errors; defaults to the family name
	Family Family

	Elem   blas.Domain // element type of the arrays
	Coeff  blas.Domain // type of real-valued coefficients, zero if none
	Layout blas.Layout
	Side   blas.Side
	Uplo   blas.Uplo
	TransA blas.Op
	TransB blas.Op
	Diag   blas.Diag

	M, N, K       int64
	LdA, LdB, LdC int64
	IncX, IncY    int64

	// Set by layout normalization.
	SwapOperands bool // exchange A/B (or x/y) before the kernel call
	ConjAlpha    bool // pass conj(alpha) to the kernel
	ConjFirst    bool // conjugate the first vector operand, gerc rewritten as geru
	Conj         bool // conjugated form of a dot or outer product
}

// OpName is the name used in errors.
func (d *Desc) OpName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Family.String()
}

// Complex reports whether the elements are complex.
func (d *Desc) Complex() bool { return d.Elem.IsComplex() }

// ColMajor reports whether the call addresses its matrices column by column.
func (d *Desc) ColMajor() bool { return d.Layout == blas.ColMajor }
