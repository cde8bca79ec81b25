//go:build netlib

package kernel

import "gonum.org/v1/netlib/blas/netlib"

// Default returns the cblas kernels. Building with -tags netlib requires
// cgo and a CBLAS library; see the netlib package for linker flags.
func Default() *Set {
	return Netlib()
}

// Netlib returns a set backed by the system CBLAS. The bindings drive cblas
// in row-major order with C int sizes.
func Netlib() *Set {
	return New("netlib", netlib.Implementation{})
}

func init() {
	sets["netlib"] = Netlib
}
