// Package cachebench configuration and tunables
package cachebench

import (
	"flag"
	"fmt"
	"io"
)

// Memory layout constants
const (
	// BufferAlignment is the start-address alignment for the shared buffers.
	// 2 MiB matches large-page and way-association boundaries and avoids
	// systematic cache-set aliasing between tiers.
	BufferAlignment = 2 * 1024 * 1024

	// PageSize is the granularity of the pre-fault pass
	PageSize = 4096

	// CacheLineSize in bytes, used by the warm-up passes
	CacheLineSize = 64

	// WordSize is the width of the elements the bandwidth kernels stream
	// and of the slots the latency chase follows
	WordSize = 8
)

// Latency kernel tuning
const (
	// chaseSeed makes the shuffled traversal identical across runs
	chaseSeed = 1234567

	// warmupHops conditions predictor and TLB state before timing
	warmupHops = 2000

	// hopsPerNode scales the timed hop count with the working set,
	// clamped to [minDerefs, maxDerefs] so no tier dominates total runtime
	hopsPerNode = 8
	minDerefs   = 40000
	maxDerefs   = 150000
)

// Defaults and quick-mode overrides
const (
	DefaultIters  = 3
	DefaultStride = 64
	DefaultL1KB   = 32
	DefaultL2KB   = 512
	DefaultL3KB   = 8192
	DefaultMemKB  = 131072

	// QuickIters replaces the iteration count in quick mode
	QuickIters = 2
	// QuickMemCapKB caps the memory tier in quick mode
	QuickMemCapKB = 65536
)

// Config holds the parsed tunables for one benchmark run. It is produced
// once, normalized, and read-only afterward.
type Config struct {
	// Iters is the number of timed repetitions per bandwidth kernel
	Iters int `json:"iters"`

	// Stride is the byte distance between pointer-chase nodes. Normalize
	// rounds it up to a multiple of WordSize.
	Stride int `json:"stride"`

	// Tier working-set sizes in KB
	L1KB  int `json:"l1_kb"`
	L2KB  int `json:"l2_kb"`
	L3KB  int `json:"l3_kb"`
	MemKB int `json:"mem_kb"`

	// Quick reduces Iters and caps MemKB to shorten total run time
	Quick bool `json:"quick"`

	// CPUInfo prints a host summary before the report
	CPUInfo bool `json:"-"`

	// JSONPath, when non-empty, receives a JSON report of the run
	JSONPath string `json:"-"`
}

// DefaultConfig returns the built-in tunables: 3 iterations, 64-byte stride,
// and 32 KB / 512 KB / 8 MB / 128 MB tiers.
func DefaultConfig() Config {
	return Config{
		Iters:  DefaultIters,
		Stride: DefaultStride,
		L1KB:   DefaultL1KB,
		L2KB:   DefaultL2KB,
		L3KB:   DefaultL3KB,
		MemKB:  DefaultMemKB,
	}
}

// Validate rejects out-of-range tunables before any measurement begins.
func (c Config) Validate() error {
	if c.Iters < 1 {
		return NewInvalidArgError("Validate", "iteration count must be at least 1")
	}
	if c.Stride < 1 {
		return NewInvalidArgError("Validate", "stride must be positive")
	}
	for _, t := range []struct {
		name string
		kb   int
	}{
		{"l1KB", c.L1KB}, {"l2KB", c.L2KB}, {"l3KB", c.L3KB}, {"memKB", c.MemKB},
	} {
		if t.kb < 1 {
			return NewInvalidArgError("Validate", fmt.Sprintf("%s must be at least 1", t.name))
		}
	}
	return nil
}

// Normalize rounds the stride up to a multiple of the native word size and
// applies the quick-mode overrides after all other tunables are in place.
func (c *Config) Normalize() {
	if c.Stride%WordSize != 0 {
		c.Stride = (c.Stride + WordSize - 1) / WordSize * WordSize
	}
	if c.Quick {
		c.Iters = QuickIters
		if c.MemKB > QuickMemCapKB {
			c.MemKB = QuickMemCapKB
		}
	}
}

// MaxTierBytes returns the byte size of the largest configured tier.
func (c Config) MaxTierBytes() int {
	max := c.L1KB
	for _, kb := range []int{c.L2KB, c.L3KB, c.MemKB} {
		if kb > max {
			max = kb
		}
	}
	return max * 1024
}

// ParseFlags parses command-line arguments into a validated, normalized
// Config. Unknown flags, missing values, and malformed numbers surface as
// invalid-argument errors; -h and --help return flag.ErrHelp.
func ParseFlags(name string, args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&cfg.Iters, "iters", cfg.Iters, "timed repetitions per bandwidth kernel")
	fs.IntVar(&cfg.Stride, "stride", cfg.Stride, "bytes between pointer-chase nodes")
	fs.IntVar(&cfg.L1KB, "l1KB", cfg.L1KB, "L1 tier working-set size in KB")
	fs.IntVar(&cfg.L2KB, "l2KB", cfg.L2KB, "L2 tier working-set size in KB")
	fs.IntVar(&cfg.L3KB, "l3KB", cfg.L3KB, "L3 tier working-set size in KB")
	fs.IntVar(&cfg.MemKB, "memKB", cfg.MemKB, "memory tier working-set size in KB")
	fs.BoolVar(&cfg.Quick, "quick", false, "reduce iterations and cap the memory tier")
	fs.BoolVar(&cfg.CPUInfo, "cpuinfo", false, "print a host summary before the report")
	fs.StringVar(&cfg.JSONPath, "json", "", "write a JSON report to this file")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return cfg, err
		}
		return cfg, &BenchError{Type: ErrTypeInvalidArg, Op: "ParseFlags", Message: err.Error(), Err: err}
	}
	if fs.NArg() > 0 {
		return cfg, NewInvalidArgError("ParseFlags", fmt.Sprintf("unexpected argument: %s", fs.Arg(0)))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.Normalize()
	return cfg, nil
}
