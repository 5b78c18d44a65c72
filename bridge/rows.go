package bridge

import "fmt"

// rowCount derives the number of rows (or lane blocks) from flat buffer
// lengths. perArg and perOut are the units of one row. When a program has
// no parameters the count comes from outs. Contract violations panic.
func rowCount(flatArgs, flatOuts, perArg, perOut int) int {
	var n int
	switch {
	case perArg > 0:
		if flatArgs%perArg != 0 {
			panic(fmt.Sprintf("bridge: %d arg units is not a whole number of %d-unit rows", flatArgs, perArg))
		}
		n = flatArgs / perArg
	case perOut > 0:
		n = flatOuts / perOut
	}
	if flatOuts < n*perOut {
		panic(fmt.Sprintf("bridge: outs has %d units, %d rows need %d", flatOuts, n, n*perOut))
	}
	return n
}
