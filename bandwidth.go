package cachebench

import (
	"math"
	"time"
)

// The three bandwidth kernels stream a contiguous prefix of a shared buffer
// as 8-byte elements. Each kernel runs one untimed warm-up pass to condition
// the intended cache level, then iters timed full passes, and reports
// bytes per second computed from the average pass duration. Read sums are
// folded into the sink so the summation cannot be eliminated as dead work.

// ReadBandwidth measures sequential read throughput over the first size
// bytes of buf.
func ReadBandwidth(buf *Buffer, size, iters int, sink *Sink) float64 {
	els := size / WordSize
	p := buf.Float64()[:els]

	warm := 0.0
	for i := 0; i < els; i += CacheLineSize / WordSize {
		warm += p[i]
	}
	sink.Fold(math.Float64bits(warm))

	var total time.Duration
	for r := 0; r < iters; r++ {
		start := time.Now()
		sum := 0.0
		for i := 0; i < els; i++ {
			sum += p[i]
		}
		total += time.Since(start)
		sink.Fold(math.Float64bits(sum))
	}
	return throughput(size, total, iters)
}

// WriteBandwidth measures sequential write throughput over the first size
// bytes of buf.
func WriteBandwidth(buf *Buffer, size, iters int) float64 {
	els := size / WordSize
	p := buf.Float64()[:els]

	for i := 0; i < els; i += CacheLineSize / WordSize {
		p[i] = float64(i)
	}

	var total time.Duration
	for r := 0; r < iters; r++ {
		start := time.Now()
		for i := 0; i < els; i++ {
			p[i] = float64(i)
		}
		total += time.Since(start)
	}
	return throughput(size, total, iters)
}

// CopyBandwidth measures bulk copy throughput from the first size bytes of
// src into dst.
func CopyBandwidth(dst, src *Buffer, size, iters int) float64 {
	d := dst.Byte()[:size]
	s := src.Byte()[:size]

	copy(d, s)

	var total time.Duration
	for r := 0; r < iters; r++ {
		start := time.Now()
		copy(d, s)
		total += time.Since(start)
	}
	return throughput(size, total, iters)
}

// throughput converts a summed pass duration into bytes per second. A pass
// under the clock's resolution is floored to one nanosecond so the result
// stays finite.
func throughput(size int, total time.Duration, iters int) float64 {
	if total <= 0 {
		total = time.Nanosecond
	}
	avg := total.Seconds() / float64(iters)
	return float64(size) / avg
}
