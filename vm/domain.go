package vm

import (
	"math"
	"math/bits"
	"math/cmplx"
)

// Number is the register type of a kernel.
type Number interface {
	float64 | complex128
}

// domain bundles the operations that differ between real and complex
// registers. There is one instance per register type.
type domain[T Number] struct {
	units int // float64 units per register
	lib   []libFunc[T]

	truth func(T) bool
	powf  func(T, T) T

	// load reads register p from flat units spaced stride apart.
	load func(flat []float64, base, p, stride int) T
	// store writes register p back.
	store func(flat []float64, base, p, stride int, v T)
	// fromConst narrows a pool constant to the register type.
	fromConst func(complex128) T
}

var realDomain = &domain[float64]{
	units: 1,
	lib:   realLib,
	truth: func(x float64) bool { return x != 0 },
	powf:  math.Pow,
	load: func(flat []float64, base, p, stride int) float64 {
		return flat[base+p*stride]
	},
	store: func(flat []float64, base, p, stride int, v float64) {
		flat[base+p*stride] = v
	},
	fromConst: func(z complex128) float64 { return real(z) },
}

var complexDomain = &domain[complex128]{
	units: 2,
	lib:   complexLib,
	truth: func(z complex128) bool { return real(z) != 0 },
	powf:  cmplx.Pow,
	load: func(flat []float64, base, p, stride int) complex128 {
		return complex(flat[base+2*p*stride], flat[base+(2*p+1)*stride])
	},
	store: func(flat []float64, base, p, stride int, v complex128) {
		flat[base+2*p*stride] = real(v)
		flat[base+(2*p+1)*stride] = imag(v)
	},
	fromConst: func(z complex128) complex128 { return z },
}

// domainOf returns the domain of register type T.
func domainOf[T Number]() *domain[T] {
	var zero T
	switch any(zero).(type) {
	case float64:
		return any(realDomain).(*domain[T])
	default:
		return any(complexDomain).(*domain[T])
	}
}

// powi raises x to an integer power by binary exponentiation, starting
// from the highest set bit. Negative powers invert the result.
func powi[T Number](x T, n int64) T {
	if n == 0 {
		return 1
	}
	neg := n < 0
	u := uint64(n)
	if neg {
		u = uint64(-n)
	}
	acc := x
	for i := bits.Len64(u) - 2; i >= 0; i-- {
		acc *= acc
		if u>>uint(i)&1 == 1 {
			acc *= x
		}
	}
	if neg {
		return 1 / acc
	}
	return acc
}
