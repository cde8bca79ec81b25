package blas

import (
	"fmt"
	"strings"
)

// Layout is the storage order of a dense matrix.
// The zero value is not a valid layout.
type Layout byte

const (
	ColMajor Layout = 'C'
	RowMajor Layout = 'R'
)

// Op selects how an operand enters a computation.
type Op byte

const (
	NoTrans   Op = 'N'
	Trans     Op = 'T'
	ConjTrans Op = 'C'
)

// Uplo selects the referenced triangle of a symmetric, Hermitian or
// triangular matrix.
type Uplo byte

const (
	Upper Uplo = 'U'
	Lower Uplo = 'L'
)

// Side selects whether the structured operand multiplies from the left or
// from the right.
type Side byte

const (
	Left  Side = 'L'
	Right Side = 'R'
)

// Diag reports whether a triangular matrix has an implicit unit diagonal.
type Diag byte

const (
	NonUnit Diag = 'N'
	Unit    Diag = 'U'
)

func (l Layout) Valid() bool { return l == ColMajor || l == RowMajor }
func (o Op) Valid() bool     { return o == NoTrans || o == Trans || o == ConjTrans }
func (u Uplo) Valid() bool   { return u == Upper || u == Lower }
func (s Side) Valid() bool   { return s == Left || s == Right }
func (d Diag) Valid() bool   { return d == NonUnit || d == Unit }

// Flip returns the other storage order.
func (l Layout) Flip() Layout {
	switch l {
	case ColMajor:
		return RowMajor
	case RowMajor:
		return ColMajor
	}
	return l
}

// Flip returns the opposite triangle. Transposing a matrix stored in one
// layout is the same memory read in the other layout, and transposition
// maps the upper triangle onto the lower one.
func (u Uplo) Flip() Uplo {
	switch u {
	case Upper:
		return Lower
	case Lower:
		return Upper
	}
	return u
}

func (s Side) Flip() Side {
	switch s {
	case Left:
		return Right
	case Right:
		return Left
	}
	return s
}

// Transposed reports whether o reads the operand transposed, conjugated or not.
func (o Op) Transposed() bool { return o == Trans || o == ConjTrans }

func (l Layout) String() string {
	switch l {
	case ColMajor:
		return "ColMajor"
	case RowMajor:
		return "RowMajor"
	}
	return fmt.Sprintf("Layout(%d)", byte(l))
}

func (o Op) String() string {
	switch o {
	case NoTrans:
		return "NoTrans"
	case Trans:
		return "Trans"
	case ConjTrans:
		return "ConjTrans"
	}
	return fmt.Sprintf("Op(%d)", byte(o))
}

func (u Uplo) String() string {
	switch u {
	case Upper:
		return "Upper"
	case Lower:
		return "Lower"
	}
	return fmt.Sprintf("Uplo(%d)", byte(u))
}

func (s Side) String() string {
	switch s {
	case Left:
		return "Left"
	case Right:
		return "Right"
	}
	return fmt.Sprintf("Side(%d)", byte(s))
}

func (d Diag) String() string {
	switch d {
	case NonUnit:
		return "NonUnit"
	case Unit:
		return "Unit"
	}
	return fmt.Sprintf("Diag(%d)", byte(d))
}

// ParseLayout accepts "col", "colmajor", "c", "row", "rowmajor" or "r",
// case-insensitively.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "col", "colmajor", "column":
		return ColMajor, nil
	case "r", "row", "rowmajor":
		return RowMajor, nil
	}
	return 0, fmt.Errorf("unknown layout %q", s)
}

// ParseOp accepts the BLAS character codes N, T and C as well as the long
// names.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "notrans":
		return NoTrans, nil
	case "t", "trans":
		return Trans, nil
	case "c", "conjtrans":
		return ConjTrans, nil
	}
	return 0, fmt.Errorf("unknown transpose op %q", s)
}

func ParseUplo(s string) (Uplo, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u", "upper":
		return Upper, nil
	case "l", "lower":
		return Lower, nil
	}
	return 0, fmt.Errorf("unknown uplo %q", s)
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

func ParseDiag(s string) (Diag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "nonunit":
		return NonUnit, nil
	case "u", "unit":
		return Unit, nil
	}
	return 0, fmt.Errorf("unknown diag %q", s)
}
