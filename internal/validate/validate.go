// Package validate checks a call descriptor against the argument rules of
// its operation family before any kernel runs.
package validate

import (
	"fmt"

	"github.com/samcharles93/blasq/internal/op"
	"github.com/samcharles93/blasq/pkg/blas"
)

// Rule is one precondition on a descriptor.
type Rule struct {
	Param string
	Pos   int
	// Check returns an empty string when the descriptor satisfies the rule,
	// or a description of the violation.
	Check func(d *op.Desc) string
}

// Check runs the rules for the descriptor's family in order and reports the
// first violation as an InvalidArgument error. The descriptor is not
// modified.
func Check(d *op.Desc) error {
	rules, ok := table[d.Family]
	if !ok {
		return blas.NewInvalidArgument(d.OpName(), "", 0, "unknown operation family %d", d.Family)
	}
	for _, r := range rules {
		if msg := r.Check(d); msg != "" {
			return blas.NewInvalidArgument(d.OpName(), r.Param, r.Pos, "%s", msg)
		}
	}
	return nil
}

// Rules returns the ordered rules for a family.
func Rules(f op.Family) []Rule {
	return table[f]
}

func layout(pos int) Rule {
	return Rule{Param: "layout", Pos: pos, Check: func(d *op.Desc) string {
		if !d.Layout.Valid() {
			return fmt.Sprintf("%v is not a layout", d.Layout)
		}
		return ""
	}}
}

func side(pos int) Rule {
	return Rule{Param: "side", Pos: pos, Check: func(d *op.Desc) string {
		if !d.Side.Valid() {
			return fmt.Sprintf("%v is not a side", d.Side)
		}
		return ""
	}}
}

func uplo(pos int) Rule {
	return Rule{Param: "uplo", Pos: pos, Check: func(d *op.Desc) string {
		if !d.Uplo.Valid() {
			return fmt.Sprintf("%v is not a triangle", d.Uplo)
		}
		return ""
	}}
}

func diag(pos int) Rule {
	return Rule{Param: "diag", Pos: pos, Check: func(d *op.Desc) string {
		if !d.Diag.Valid() {
			return fmt.Sprintf("%v is not a diagonal kind", d.Diag)
		}
		return ""
	}}
}

// trans checks an op against the set allowed for the element domain.
func trans(name string, pos int, get func(*op.Desc) blas.Op, allowed func(*op.Desc) []blas.Op) Rule {
	return Rule{Param: name, Pos: pos, Check: func(d *op.Desc) string {
		t := get(d)
		for _, a := range allowed(d) {
			if t == a {
				return ""
			}
		}
		if t.Valid() {
			return fmt.Sprintf("%v not allowed for %v elements", t, d.Elem)
		}
		return fmt.Sprintf("%v is not a transpose op", t)
	}}
}

func anyOp(*op.Desc) []blas.Op { return []blas.Op{blas.NoTrans, blas.Trans, blas.ConjTrans} }

// symmetricOps is the set accepted by syrk and syr2k: conjugate transpose
// is meaningless for a complex symmetric update.
func symmetricOps(d *op.Desc) []blas.Op {
	if d.Complex() {
		return []blas.Op{blas.NoTrans, blas.Trans}
	}
	return anyOp(d)
}

// hermitianOps is the set accepted by herk and her2k.
func hermitianOps(d *op.Desc) []blas.Op {
	if d.Complex() {
		return []blas.Op{blas.NoTrans, blas.ConjTrans}
	}
	return anyOp(d)
}

func transA(d *op.Desc) blas.Op { return d.TransA }
func transB(d *op.Desc) blas.Op { return d.TransB }

func dim(name string, pos int, get func(*op.Desc) int64) Rule {
	return Rule{Param: name, Pos: pos, Check: func(d *op.Desc) string {
		if v := get(d); v < 0 {
			return fmt.Sprintf("%d < 0", v)
		}
		return ""
	}}
}

func inc(name string, pos int, get func(*op.Desc) int64) Rule {
	return Rule{Param: name, Pos: pos, Check: func(d *op.Desc) string {
		if get(d) == 0 {
			return "must not be zero"
		}
		return ""
	}}
}

func positiveInc(name string, pos int, get func(*op.Desc) int64) Rule {
	return Rule{Param: name, Pos: pos, Check: func(d *op.Desc) string {
		if v := get(d); v <= 0 {
			return fmt.Sprintf("%d <= 0", v)
		}
		return ""
	}}
}

// extent names the dimension a leading dimension must cover.
type extent func(d *op.Desc) (string, int64)

func leading(name string, pos int, get func(*op.Desc) int64, ext extent) Rule {
	return Rule{Param: name, Pos: pos, Check: func(d *op.Desc) string {
		en, ev := ext(d)
		if ld := get(d); ld < max(1, ev) {
			return fmt.Sprintf("%d < max(1, %s=%d)", ld, en, ev)
		}
		return ""
	}}
}

// coeff checks that real-valued coefficients match the precision of the
// elements.
func coeff(name string, pos int) Rule {
	return Rule{Param: name, Pos: pos, Check: func(d *op.Desc) string {
		if d.Coeff != 0 && d.Coeff != d.Elem.Real() {
			return fmt.Sprintf("%v coefficient with %v elements", d.Coeff, d.Elem)
		}
		return ""
	}}
}
