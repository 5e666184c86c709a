package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.NumWorkers = 4
	cfg.MinChunkSize = 10

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestForChunks_CoversRangeOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 7}

	n := 100
	hits := make([]int32, n)
	var calls int64
	ForChunks(n, func(start, end int) {
		atomic.AddInt64(&calls, 1)
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	}, cfg)

	for i, h := range hits {
		require.Equalf(t, int32(1), h, "index %d visited %d times", i, h)
	}
	assert.Greater(t, calls, int64(1), "expected the range to be split")
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(100), counter)
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to a single sequential call.
	cfg := DefaultConfig()

	var calls int64
	ForChunks(cfg.MinChunkSize-1, func(_, _ int) {
		atomic.AddInt64(&calls, 1)
	}, cfg)

	assert.Equal(t, int64(1), calls)
}

func TestForChunks_Empty(t *testing.T) {
	called := false
	ForChunks(0, func(_, _ int) { called = true }, DefaultConfig())
	assert.False(t, called)
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 1 << 18

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfgSeq)
		}
	})
}
