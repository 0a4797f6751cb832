package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/neonsurge/internal/storage"
	"github.com/cory-johannsen/neonsurge/internal/storage/memory"
)

func TestStore_GetMissing(t *testing.T) {
	s := memory.New()
	_, err := s.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Set(ctx, "k", "v1"))
	require.NoError(t, s.Set(ctx, "k", "v2"))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, "shared", "x")
			_, _ = s.Get(ctx, "shared")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}

func TestProperty_LastWriteWins(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		s := memory.New()
		values := rapid.SliceOfN(rapid.String(), 1, 10).Draw(rt, "values")
		for _, v := range values {
			require.NoError(rt, s.Set(ctx, "k", v))
		}
		got, err := s.Get(ctx, "k")
		require.NoError(rt, err)
		assert.Equal(rt, values[len(values)-1], got)
	})
}

var _ storage.KV = (*memory.Store)(nil)
