package lazy

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetComputesOnce(t *testing.T) {
	var v Value[int]
	calls := 0
	fn := func() *int {
		calls++
		n := 42
		return &n
	}
	require.False(t, v.Loaded())
	first := v.Get(fn)
	second := v.Get(fn)
	require.Equal(t, 1, calls)
	require.Same(t, first, second)
	require.True(t, v.Loaded())
}

func TestGetPublishesOnce(t *testing.T) {
	var v Value[int64]
	var counter atomic.Int64
	var wg sync.WaitGroup
	results := make([]*int64, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = v.Get(func() *int64 {
				n := counter.Add(1)
				return &n
			})
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		require.Same(t, results[0], r)
	}
}
