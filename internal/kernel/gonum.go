//go:build !netlib

package kernel

// Default returns the pure Go kernels.
func Default() *Set {
	return Gonum()
}
