// Package batchparam resolves batched arguments that are either broadcast
// (one value for every item) or given per item.
package batchparam

import "github.com/samcharles93/blasq/pkg/blas"

// Extract returns the value of p for item i: p[0] when p is broadcast,
// p[i] otherwise. p must have passed Check.
func Extract[E any](p []E, i int) E {
	if len(p) == 1 {
		return p[0]
	}
	return p[i]
}

// Check reports a SizeMismatch when a parameter of the given size can be
// neither broadcast nor indexed per item.
func Check(op, name string, size, count int) error {
	if size == 1 || size == count {
		return nil
	}
	return blas.NewSizeMismatch(op, name, size, count)
}

// Param names a batched argument and its length.
type Param struct {
	Name string
	Size int
}

// Of describes a batched argument.
func Of[E any](name string, p []E) Param {
	return Param{Name: name, Size: len(p)}
}

// CheckAll runs Check over every parameter in order and returns the first
// mismatch.
func CheckAll(op string, count int, params ...Param) error {
	for _, p := range params {
		if err := Check(op, p.Name, p.Size, count); err != nil {
			return err
		}
	}
	return nil
}
