package cachebench

import (
	"fmt"
	"io"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// SIMDFeatures returns a comma-separated list of the SIMD extensions the
// host CPU advertises. On non-x86 targets every probe reads false and the
// fallback string is returned.
func SIMDFeatures() string {
	var features []string

	if xcpu.X86.HasSSE41 || xcpu.X86.HasSSE42 {
		features = append(features, "SSE4")
	}
	if xcpu.X86.HasAVX {
		features = append(features, "AVX")
	}
	if xcpu.X86.HasAVX2 {
		features = append(features, "AVX2")
	}
	if xcpu.X86.HasFMA {
		features = append(features, "FMA")
	}
	if xcpu.X86.HasAVX512F {
		features = append(features, "AVX512F")
	}
	if xcpu.ARM64.HasASIMD {
		features = append(features, "ASIMD")
	}
	if xcpu.ARM64.HasSVE {
		features = append(features, "SVE")
	}

	if len(features) == 0 {
		return "no SIMD extensions detected"
	}
	return strings.Join(features, ", ")
}

// WriteHostInfo prints a short host summary: CPU model, logical core count,
// physical memory, and SIMD features. Fields whose probes fail are simply
// omitted; the summary is informational and never blocks a run.
func WriteHostInfo(w io.Writer) {
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 && infos[0].ModelName != "" {
		fmt.Fprintf(w, "CPU: %s\n", infos[0].ModelName)
	}
	if n, err := cpu.Counts(true); err == nil {
		fmt.Fprintf(w, "Logical cores: %d\n", n)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Fprintf(w, "Memory: %.1f GB\n", float64(vm.Total)/(1024*1024*1024))
	}
	fmt.Fprintf(w, "SIMD: %s\n", SIMDFeatures())
}
