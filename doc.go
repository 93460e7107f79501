// Package cachebench measures empirical performance characteristics of the
// memory hierarchy: sequential read, write, and copy bandwidth plus
// random-access latency, across caller-chosen working-set sizes intended to
// land in the L1, L2, and L3 caches and in main memory.
//
// The package is a diagnostic instrument, not a general-purpose library. Two
// shared buffers are allocated once, aligned to a 2 MiB boundary and
// pre-faulted, and every tier's kernels run over a prefix of those buffers.
// Measured values are folded into an escaping sink so the compiler cannot
// discard the measurement loops as dead work.
//
// Example usage:
//
//	cfg := cachebench.DefaultConfig()
//	cfg.Quick = true
//	cfg.Normalize()
//
//	runner, err := cachebench.NewRunner(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	cachebench.WriteReport(os.Stdout, runner.Run())
package cachebench
