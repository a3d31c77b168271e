package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidenlippert/zerostate/libs/cdvvset/cdvvset"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(&Config{BaseDir: t.TempDir()}, nil)
	require.NoError(t, err)
	return s
}

func TestGetMissingKeyIsNotAnError(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.Get("absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutThenGetRoundTrips(t *testing.T) {
	s := openTestStore(t)
	client, err := cdvvset.Update2(cdvvset.New[string, string](nil, []string{"v1"}), "a")
	require.NoError(t, err)

	require.NoError(t, s.Put("k1", client))

	got, ok, err := s.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, cdvvset.Equal(client, got))
	assert.Equal(t, cdvvset.Values(client), cdvvset.Values(got))
}

func TestUpdateSerializesAgainstConcurrentWrites(t *testing.T) {
	s := openTestStore(t)
	const writers = 8

	done := make(chan error, writers)
	for i := 0; i < writers; i++ {
		id := string(rune('a' + i))
		go func() {
			done <- s.Update("shared", func(clock cdvvset.Clock[string, string], ok bool) (cdvvset.Clock[string, string], error) {
				var causal cdvvset.Causal[string]
				if ok {
					causal = cdvvset.Join(clock)
				}
				client := cdvvset.New[string, string](causal, []string{"v-" + id})
				if ok {
					return cdvvset.Update3(client, clock, id)
				}
				return cdvvset.Update2(client, id)
			})
		}()
	}
	for i := 0; i < writers; i++ {
		require.NoError(t, <-done)
	}

	got, ok, err := s.Get("shared")
	require.NoError(t, err)
	require.True(t, ok)
	// Each serialized write carries the full context of the one before it,
	// so only the last value stays live, but every writer's replica id
	// remains in the causal history.
	assert.Equal(t, 1, cdvvset.Size(got))
	assert.Len(t, cdvvset.Ids(got), writers)
}

func TestDeleteThenGetIsAbsent(t *testing.T) {
	s := openTestStore(t)
	client, err := cdvvset.Update2(cdvvset.New[string, string](nil, []string{"v1"}), "a")
	require.NoError(t, err)
	require.NoError(t, s.Put("k1", client))

	require.NoError(t, s.Delete("k1"))

	_, ok, err := s.Get("k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteOfMissingKeyIsNotAnError(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.Delete("never-existed"))
}
