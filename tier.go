package cachebench

import (
	"github.com/pkg/errors"
)

// Sink accumulates measured values so the compiler cannot discard the loops
// that produced them. It is created once per Runner and never reset; its
// value carries no meaning beyond being observably written.
type Sink struct {
	v uint64
}

// Fold mixes a measured value into the accumulator.
func (s *Sink) Fold(x uint64) {
	s.v ^= x
}

// Value returns the accumulated value for inclusion in the report.
func (s *Sink) Value() uint64 {
	return s.v
}

// Result holds one tier's measurements: throughput in bytes per second and
// latency in nanoseconds per access. Immutable after creation.
type Result struct {
	ReadBps   float64 `json:"read_bytes_per_sec"`
	WriteBps  float64 `json:"write_bytes_per_sec"`
	CopyBps   float64 `json:"copy_bytes_per_sec"`
	LatencyNs float64 `json:"latency_ns"`
}

// TierResult pairs a tier's name with its measurements.
type TierResult struct {
	Name string `json:"name"`
	Result
}

// Runner owns the two shared buffers and drives every probe over each
// tier's working set. The buffers are allocated once, pre-faulted, and
// reused without reallocation; each kernel's own warm-up pass reconditions
// the working set, so tiers have no ordering dependency.
type Runner struct {
	cfg  Config
	buf1 *Buffer
	buf2 *Buffer
	sink Sink
}

// NewRunner allocates the shared buffers for the given configuration.
// Allocation failure is fatal for the run; callers report it and exit.
func NewRunner(cfg Config) (*Runner, error) {
	total := cfg.MaxTierBytes()
	// A stride larger than half the largest tier still needs two nodes.
	if 2*cfg.Stride > total {
		total = 2 * cfg.Stride
	}
	total += BufferAlignment

	buf1, err := NewBuffer(total, BufferAlignment)
	if err != nil {
		return nil, errors.Wrap(err, "allocating primary buffer")
	}
	buf2, err := NewBuffer(total, BufferAlignment)
	if err != nil {
		return nil, errors.Wrap(err, "allocating copy buffer")
	}
	buf1.Prefault()
	buf2.Prefault()

	return &Runner{cfg: cfg, buf1: buf1, buf2: buf2}, nil
}

// RunTier measures read, write, and copy bandwidth plus chase latency over
// the first kb*1024 bytes of the shared buffers.
func (r *Runner) RunTier(kb int) Result {
	size := kb * 1024
	return Result{
		ReadBps:   ReadBandwidth(r.buf1, size, r.cfg.Iters, &r.sink),
		WriteBps:  WriteBandwidth(r.buf1, size, r.cfg.Iters),
		CopyBps:   CopyBandwidth(r.buf2, r.buf1, size, r.cfg.Iters),
		LatencyNs: MeasureLatency(r.buf1, size, r.cfg.Stride, &r.sink),
	}
}

// Run measures all four tiers in the fixed Memory, L1, L2, L3 order and
// returns one row per tier.
func (r *Runner) Run() []TierResult {
	tiers := []struct {
		name string
		kb   int
	}{
		{"Memory", r.cfg.MemKB},
		{"L1", r.cfg.L1KB},
		{"L2", r.cfg.L2KB},
		{"L3", r.cfg.L3KB},
	}

	rows := make([]TierResult, 0, len(tiers))
	for _, t := range tiers {
		rows = append(rows, TierResult{Name: t.name, Result: r.RunTier(t.kb)})
	}
	return rows
}

// SinkValue exposes the accumulated sink for the report.
func (r *Runner) SinkValue() uint64 {
	return r.sink.Value()
}
