package bridge

import (
	"fmt"
	"unsafe"

	"github.com/chazu/symjit/vm"
)

// F64x4 is one vector of vm.Lanes float64 lanes.
type F64x4 [vm.Lanes]float64

// ComplexF64x4 is one vector of complex lanes: all real parts, then all
// imaginary parts.
type ComplexF64x4 struct {
	Re F64x4
	Im F64x4
}

// flatElem lists the element types that are contiguous float64 runs.
type flatElem interface {
	complex128 | F64x4 | ComplexF64x4
}

// flatten reinterprets s as the float64 units it is made of, without
// copying. Size and alignment are checked once per call.
func flatten[E flatElem](s []E) []float64 {
	if len(s) == 0 {
		return nil
	}
	var zero E
	size := unsafe.Sizeof(zero)
	unit := unsafe.Sizeof(float64(0))
	if size%unit != 0 {
		panic(fmt.Sprintf("bridge: %T is %d bytes, not a whole number of float64", zero, size))
	}
	p := unsafe.Pointer(unsafe.SliceData(s))
	if uintptr(p)%unsafe.Alignof(float64(0)) != 0 {
		panic(fmt.Sprintf("bridge: %T buffer is not float64 aligned", zero))
	}
	return unsafe.Slice((*float64)(p), len(s)*int(size/unit))
}

// flattenCoeff views a coefficient slice as float64 units.
func flattenCoeff[T Coefficient](s []T) []float64 {
	switch s := any(s).(type) {
	case []float64:
		return s
	case []complex128:
		return flatten(s)
	}
	panic("unreachable")
}

// unitsOf returns the float64 units per coefficient.
func unitsOf[T Coefficient]() int {
	var zero T
	if _, ok := any(zero).(complex128); ok {
		return 2
	}
	return 1
}
