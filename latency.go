package cachebench

import (
	"math/rand"
	"time"
)

// The latency probe builds a randomized pointer chase inside the buffer
// itself: node i sits at byte offset i*stride, and its first 8 bytes hold
// the byte offset of the next node. A Fisher-Yates shuffle with a fixed
// seed links every node into one cycle, so following "next" visits every
// node exactly once before returning to the start, and successive runs
// with identical inputs traverse identical orders.
//
// The chase is index-based rather than a raw-pointer dereference chain, so
// each hop loads one 8-byte slot and uses it to address the next. The
// random traversal order and its cache-defeating property are preserved;
// absolute numbers are not comparable with address-chasing implementations.

// chaseNodes returns the node count for a working set: one node per stride,
// never fewer than two.
func chaseNodes(size, stride int) int {
	n := size / stride
	if n < 2 {
		n = 2
	}
	return n
}

// chaseDerefs returns the timed hop count for a node count, scaled by
// hopsPerNode and clamped so total measurement time stays bounded while the
// smallest tiers still get a statistically stable sample.
func chaseDerefs(nodes int) int {
	d := nodes * hopsPerNode
	if d < minDerefs {
		d = minDerefs
	}
	if d > maxDerefs {
		d = maxDerefs
	}
	return d
}

// buildChase links nodes nodes spaced stride bytes apart into a single
// random cycle stored in words, and returns the byte offset of the cycle's
// starting node.
func buildChase(words []uint64, nodes, stride int) uint64 {
	idx := make([]int, nodes)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(chaseSeed))
	rng.Shuffle(len(idx), func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})

	for i := 0; i+1 < nodes; i++ {
		words[idx[i]*stride/WordSize] = uint64(idx[i+1] * stride)
	}
	words[idx[nodes-1]*stride/WordSize] = uint64(idx[0] * stride)

	return uint64(idx[0] * stride)
}

// MeasureLatency times a randomized pointer chase over the first size bytes
// of buf and returns nanoseconds per access. The stride must be a positive
// multiple of WordSize (Config.Normalize guarantees this).
func MeasureLatency(buf *Buffer, size, stride int, sink *Sink) float64 {
	nodes := chaseNodes(size, stride)
	words := buf.Uint64()
	off := buildChase(words, nodes, stride)

	for i := 0; i < warmupHops; i++ {
		off = words[off/WordSize]
	}

	derefs := chaseDerefs(nodes)
	start := time.Now()
	for i := 0; i < derefs; i++ {
		off = words[off/WordSize]
	}
	elapsed := time.Since(start)
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	sink.Fold(off)

	return float64(elapsed.Nanoseconds()) / float64(derefs)
}
