package credential

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/MirrorChyan/ota-agent/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStore struct {
	gets int
	puts int
}

func (f *failingStore) Get(_ context.Context, _, _, def string) (string, error) {
	f.gets++
	return def, errors.New("flash unavailable")
}

func (f *failingStore) Put(context.Context, string, string, string) error {
	f.puts++
	return errors.New("flash unavailable")
}

func (f *failingStore) Close() error {
	return nil
}

func TestLoadPolicy(t *testing.T) {
	testCases := []struct {
		Name      string
		Persisted string
		Fallback  string
		Policy    Policy
		Expected  string
	}{
		{Name: "persisted only", Persisted: "ghp_saved", Expected: "ghp_saved"},
		{Name: "fallback fills empty", Fallback: "ghp_built", Expected: "ghp_built"},
		{Name: "persisted beats fallback", Persisted: "ghp_saved", Fallback: "ghp_built", Expected: "ghp_saved"},
		{Name: "fallback always wins", Persisted: "ghp_saved", Fallback: "ghp_built", Policy: PreferFallback, Expected: "ghp_built"},
		{Name: "prefer fallback without fallback", Persisted: "ghp_saved", Policy: PreferFallback, Expected: "ghp_saved"},
		{Name: "nothing", Expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()
			kv := db.NewMemory()
			if tc.Persisted != "" {
				require.NoError(t, kv.Put(ctx, Namespace, TokenKey, tc.Persisted))
			}

			s := New(zap.NewNop(), kv, tc.Fallback, tc.Policy)
			require.Equal(t, tc.Expected, s.Load(ctx))
			require.Equal(t, tc.Expected != "", s.Has(ctx))
		})
	}
}

func TestLoadIsCached(t *testing.T) {
	kv := &failingStore{}
	s := New(zap.NewNop(), kv, "", FallbackWhenEmpty)

	require.Equal(t, "", s.Load(context.Background()))
	require.False(t, s.Has(context.Background()))
	require.Equal(t, 1, kv.gets)
}

func TestSavePersists(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemory()
	s := New(zap.NewNop(), kv, "", FallbackWhenEmpty)

	s.Save(ctx, "ghp_new")
	require.Equal(t, "ghp_new", s.Load(ctx))

	val, err := kv.Get(ctx, Namespace, TokenKey, "")
	require.NoError(t, err)
	require.Equal(t, "ghp_new", val)

	// a fresh store sees the persisted value
	require.Equal(t, "ghp_new", New(zap.NewNop(), kv, "", FallbackWhenEmpty).Load(ctx))
}

func TestSaveDegradesToMemory(t *testing.T) {
	ctx := context.Background()
	kv := &failingStore{}
	s := New(zap.NewNop(), kv, "", FallbackWhenEmpty)

	s.Save(ctx, "ghp_volatile")

	require.Equal(t, 1, kv.puts)
	require.Equal(t, "ghp_volatile", s.Load(ctx))
	require.True(t, s.Has(ctx))
	require.Equal(t, 0, kv.gets)
}

func TestConcurrentSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := New(zap.NewNop(), db.NewMemory(), "", FallbackWhenEmpty)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Save(ctx, "ghp_aaaa")
		}()
		go func() {
			defer wg.Done()
			tok := s.Load(ctx)
			assert.Contains(t, []string{"", "ghp_aaaa"}, tok)
		}()
	}
	wg.Wait()
	require.Equal(t, "ghp_aaaa", s.Load(ctx))
}

func TestMask(t *testing.T) {
	require.Equal(t, "", Mask(""))
	require.Equal(t, "****", Mask("short"))
	require.Equal(t, "ghp_123456...wxyz", Mask("ghp_1234567890abcdefwxyz"))
}
