package cachebench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallConfig keeps working sets tiny so the full pipeline runs in
// milliseconds under go test.
func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Iters = 1
	cfg.L1KB = 4
	cfg.L2KB = 8
	cfg.L3KB = 16
	cfg.MemKB = 32
	return cfg
}

func TestRunnerTierOrder(t *testing.T) {
	runner, err := NewRunner(smallConfig())
	require.NoError(t, err)

	rows := runner.Run()
	require.Len(t, rows, 4)

	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Name
	}
	assert.Equal(t, []string{"Memory", "L1", "L2", "L3"}, names)
}

func TestRunnerRowFields(t *testing.T) {
	runner, err := NewRunner(smallConfig())
	require.NoError(t, err)

	for _, row := range runner.Run() {
		assertPositiveFinite(t, row.ReadBps, row.Name+" read")
		assertPositiveFinite(t, row.WriteBps, row.Name+" write")
		assertPositiveFinite(t, row.CopyBps, row.Name+" copy")
		assertPositiveFinite(t, row.LatencyNs, row.Name+" latency")
	}
}

func TestRunnerBuffersCoverLargeStride(t *testing.T) {
	cfg := smallConfig()
	cfg.Stride = 64 * 1024 // wider than every tier
	cfg.Normalize()

	runner, err := NewRunner(cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, runner.buf1.Len(), 2*cfg.Stride)

	rows := runner.Run()
	require.Len(t, rows, 4)
}

func TestSinkFold(t *testing.T) {
	var s Sink
	assert.Zero(t, s.Value())

	s.Fold(0xAB)
	s.Fold(0xCD)
	assert.EqualValues(t, 0xAB^0xCD, s.Value())

	// Folding the same value twice cancels, never resets anything else.
	s.Fold(0xCD)
	assert.EqualValues(t, 0xAB, s.Value())
}

func TestRunTierReusesBuffers(t *testing.T) {
	runner, err := NewRunner(smallConfig())
	require.NoError(t, err)

	addr1 := runner.buf1.Addr()
	runner.RunTier(4)
	runner.RunTier(32)
	assert.Equal(t, addr1, runner.buf1.Addr(), "buffers are allocated once and reused")
}
