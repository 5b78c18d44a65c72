package vm

import (
	"fmt"
	"runtime"
	"sync"
)

// EvaluateMatrix evaluates n row-major rows in order. args holds
// n*CountParams units and outs at least n*CountObs.
func (a *Artifact) EvaluateMatrix(args, outs []float64, n int) {
	a.check(args, outs, n, 1)
	a.engine.run(args, outs, 0, n, 1)
}

// EvaluateMatrixThreaded is EvaluateMatrix fanned out over workers.
func (a *Artifact) EvaluateMatrixThreaded(args, outs []float64, n int) {
	a.check(args, outs, n, 1)
	a.fork(args, outs, n, 1)
}

// EvaluateMatrixSIMD evaluates n lane-major blocks. Block b holds Lanes
// rows; unit u of lane l lives at b*CountParams*Lanes + u*Lanes + l.
func (a *Artifact) EvaluateMatrixSIMD(args, outs []float64, n int) {
	a.checkSIMD()
	a.check(args, outs, n, Lanes)
	a.engine.run(args, outs, 0, n, Lanes)
}

// EvaluateMatrixThreadedSIMD is EvaluateMatrixSIMD fanned out over workers.
func (a *Artifact) EvaluateMatrixThreadedSIMD(args, outs []float64, n int) {
	a.checkSIMD()
	a.check(args, outs, n, Lanes)
	a.fork(args, outs, n, Lanes)
}

func (a *Artifact) checkSIMD() {
	if !a.config.SIMD {
		panic("vm: artifact was not compiled for vector lanes")
	}
}

// check enforces the buffer contract. Violations are programming errors.
func (a *Artifact) check(args, outs []float64, n, lanes int) {
	if n < 0 {
		panic(fmt.Sprintf("vm: negative row count %d", n))
	}
	if need := n * a.countParams * lanes; len(args) < need {
		panic(fmt.Sprintf("vm: args has %d units, %d rows need %d", len(args), n, need))
	}
	if need := n * a.countObs * lanes; len(outs) < need {
		panic(fmt.Sprintf("vm: outs has %d units, %d rows need %d", len(outs), n, need))
	}
}

// workers returns how many goroutines to use for n rows.
func (a *Artifact) workers(n int) int {
	w := a.config.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return max(1, min(w, n))
}

// chunkRows returns the rows per worker. When a row's outputs are smaller
// than a cache line, the chunk is rounded up so that every chunk boundary
// in outs falls on a cache line multiple.
func (a *Artifact) chunkRows(n, w, lanes int) int {
	chunk := (n + w - 1) / w
	stride := a.countObs * lanes * 8
	if stride == 0 || stride >= cacheLineSize {
		return chunk
	}
	align := cacheLineSize / gcd(stride, cacheLineSize)
	return (chunk + align - 1) / align * align
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// fork splits rows into contiguous chunks, one goroutine each, and waits
// for all of them. Chunks share no mutable state.
func (a *Artifact) fork(args, outs []float64, n, lanes int) {
	w := a.workers(n)
	if w == 1 {
		a.engine.run(args, outs, 0, n, lanes)
		return
	}

	chunk := a.chunkRows(n, w, lanes)
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			a.engine.run(args, outs, lo, hi, lanes)
		}(lo, hi)
	}
	wg.Wait()
}
