package vm

import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// cacheLineSize is the host cache line in bytes. Threaded evaluation keeps
// worker chunks of outs apart by it.
var cacheLineSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))

// Features reports the vector extensions of the host CPU.
type Features struct {
	Arch    string
	AVX     bool
	AVX2    bool
	AVX512F bool
	FMA     bool
	ASIMD   bool

	CacheLine int
}

// HostFeatures detects the features of the running CPU.
func HostFeatures() Features {
	return Features{
		Arch:    runtime.GOARCH,
		AVX:     cpu.X86.HasAVX,
		AVX2:    cpu.X86.HasAVX2,
		AVX512F: cpu.X86.HasAVX512F,
		FMA:     cpu.X86.HasFMA,
		ASIMD:   cpu.ARM64.HasASIMD,

		CacheLine: cacheLineSize,
	}
}

func (f Features) String() string {
	var tags []string
	for _, t := range []struct {
		name string
		on   bool
	}{
		{"avx", f.AVX},
		{"avx2", f.AVX2},
		{"avx512f", f.AVX512F},
		{"fma", f.FMA},
		{"asimd", f.ASIMD},
	} {
		if t.on {
			tags = append(tags, t.name)
		}
	}
	s := f.Arch
	if len(tags) > 0 {
		s += " " + strings.Join(tags, ",")
	}
	return fmt.Sprintf("%s cacheline=%d", s, f.CacheLine)
}
