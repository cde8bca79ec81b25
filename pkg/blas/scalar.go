package blas

import "fmt"

// Scalar is the set of element types every operation accepts.
type Scalar interface {
	float32 | float64 | complex64 | complex128
}

// Real is the set of real-valued scalars, used for the real coefficients of
// Hermitian updates and plane rotations.
type Real interface {
	float32 | float64
}

// Domain is the numeric domain of an element type.
type Domain uint8

const (
	RealSingle Domain = iota + 1
	RealDouble
	ComplexSingle
	ComplexDouble
)

func (d Domain) IsComplex() bool { return d == ComplexSingle || d == ComplexDouble }

// Real returns the domain of the real part of d.
func (d Domain) Real() Domain {
	switch d {
	case ComplexSingle:
		return RealSingle
	case ComplexDouble:
		return RealDouble
	}
	return d
}

// Prefix is the conventional BLAS precision letter.
func (d Domain) Prefix() string {
	switch d {
	case RealSingle:
		return "s"
	case RealDouble:
		return "d"
	case ComplexSingle:
		return "c"
	case ComplexDouble:
		return "z"
	}
	return "?"
}

func (d Domain) String() string {
	switch d {
	case RealSingle:
		return "float32"
	case RealDouble:
		return "float64"
	case ComplexSingle:
		return "complex64"
	case ComplexDouble:
		return "complex128"
	}
	return fmt.Sprintf("Domain(%d)", uint8(d))
}

// ParseDomain accepts a precision letter (s, d, c, z) or a Go type name.
func ParseDomain(s string) (Domain, error) {
	switch s {
	case "s", "float32":
		return RealSingle, nil
	case "d", "float64":
		return RealDouble, nil
	case "c", "complex64":
		return ComplexSingle, nil
	case "z", "complex128":
		return ComplexDouble, nil
	}
	return 0, fmt.Errorf("unknown precision %q", s)
}

// DomainOf resolves the domain of T.
func DomainOf[T Scalar]() Domain {
	var z T
	switch any(z).(type) {
	case float32:
		return RealSingle
	case float64:
		return RealDouble
	case complex64:
		return ComplexSingle
	default:
		return ComplexDouble
	}
}

// RealDomainOf resolves the domain of a real coefficient type.
func RealDomainOf[R Real]() Domain {
	var z R
	if _, ok := any(z).(float32); ok {
		return RealSingle
	}
	return RealDouble
}

// FromFloat converts a real value into T.
func FromFloat[T Scalar](v float64) T {
	var out any
	switch any(*new(T)).(type) {
	case float32:
		out = float32(v)
	case float64:
		out = v
	case complex64:
		out = complex(float32(v), 0)
	default:
		out = complex(v, 0)
	}
	return out.(T)
}

// FromParts builds a T from real and imaginary parts. The imaginary part is
// dropped for real T.
func FromParts[T Scalar](re, im float64) T {
	var out any
	switch any(*new(T)).(type) {
	case float32:
		out = float32(re)
	case float64:
		out = re
	case complex64:
		out = complex(float32(re), float32(im))
	default:
		out = complex(re, im)
	}
	return out.(T)
}

// Parts splits v into real and imaginary parts.
func Parts[T Scalar](v T) (re, im float64) {
	switch x := any(v).(type) {
	case float32:
		return float64(x), 0
	case float64:
		return x, 0
	case complex64:
		return float64(real(x)), float64(imag(x))
	case complex128:
		return real(x), imag(x)
	}
	return 0, 0
}

// Conj returns the complex conjugate of v; real values are returned as is.
func Conj[T Scalar](v T) T {
	switch x := any(v).(type) {
	case complex64:
		return any(complex(real(x), -imag(x))).(T)
	case complex128:
		return any(complex(real(x), -imag(x))).(T)
	}
	return v
}
