package cachebench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferAlignment(t *testing.T) {
	sizes := []int{4096, 1 << 20, 3*1024*1024 + 17}

	for _, size := range sizes {
		buf, err := NewBuffer(size, BufferAlignment)
		require.NoError(t, err, "size %d", size)
		assert.Zero(t, buf.Addr()%BufferAlignment, "start address must sit on a 2 MiB boundary")
		assert.Equal(t, size, buf.Len())
	}
}

func TestBufferSmallAlignment(t *testing.T) {
	buf, err := NewBuffer(4096, 64)
	require.NoError(t, err)
	assert.Zero(t, buf.Addr()%64)
}

func TestNewBufferInvalid(t *testing.T) {
	_, err := NewBuffer(0, BufferAlignment)
	assert.True(t, IsInvalidArgError(err))

	_, err = NewBuffer(-1, BufferAlignment)
	assert.True(t, IsInvalidArgError(err))

	_, err = NewBuffer(4096, 3) // not a power of two
	assert.True(t, IsInvalidArgError(err))

	_, err = NewBuffer(4096, 0)
	assert.True(t, IsInvalidArgError(err))
}

func TestPrefaultTouchesEveryPage(t *testing.T) {
	buf, err := NewBuffer(8*PageSize+123, BufferAlignment)
	require.NoError(t, err)

	buf.Prefault()

	data := buf.Byte()
	for off := 0; off < len(data); off += PageSize {
		assert.EqualValues(t, 1, data[off], "page at offset %d not committed", off)
	}
}

func TestBufferViews(t *testing.T) {
	buf, err := NewBuffer(1024, BufferAlignment)
	require.NoError(t, err)

	f := buf.Float64()
	u := buf.Uint64()
	require.Len(t, f, 128)
	require.Len(t, u, 128)

	// The views alias the same storage.
	f[3] = 2.5
	assert.EqualValues(t, 0x4004000000000000, u[3])

	u[7] = 0xFF
	assert.EqualValues(t, 0xFF, buf.Byte()[7*8])
}

func TestAllocRawRejectsAbsurdSize(t *testing.T) {
	// Larger than the runtime's maximum slice allocation, so make panics
	// and the recover path converts it into a memory error.
	_, err := allocRaw(1 << 62)
	require.Error(t, err)
	assert.True(t, IsMemoryError(err))
}
