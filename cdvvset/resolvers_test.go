package cdvvset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S6 — two replicas each contribute a sibling value, then the resolvers
// (last, lww, reconcile) collapse them under f = "a is no greater than b".
func buildS6(t *testing.T) Clock[string, string] {
	t.Helper()
	X, err := Update2(New[string, string](nil, []string{"b"}), "x")
	require.NoError(t, err)
	Y, err := Update2(New[string, string](nil, []string{"a"}), "y")
	require.NoError(t, err)
	return Sync(X, Y)
}

func lexLE(a, b string) bool { return a <= b }

func TestLast(t *testing.T) {
	c := buildS6(t)
	winner, err := Last(lexLE, c)
	require.NoError(t, err)
	assert.Equal(t, "b", winner)
}

func TestLastEmptyClock(t *testing.T) {
	_, err := Last(lexLE, Clock[string, string]{})
	assert.ErrorIs(t, err, ErrEmptyClock)
}

func TestFindEntryOrigin(t *testing.T) {
	c := buildS6(t)
	winner, origin, ok := FindEntry(lexLE, c)
	require.True(t, ok)
	assert.Equal(t, "b", winner)
	require.True(t, origin.IsEntry())
	assert.Equal(t, "x", origin.ReplicaId)
}

func TestLWWCollapsesToSingleSibling(t *testing.T) {
	c := buildS6(t)
	lww, err := LWW(lexLE, c)
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, Values(lww))
	assert.Equal(t, Join(c), Join(lww), "lww must preserve the causal summary")
}

func TestLWWIdempotent(t *testing.T) {
	c := buildS6(t)
	once, err := LWW(lexLE, c)
	require.NoError(t, err)
	twice, err := LWW(lexLE, once)
	require.NoError(t, err)
	assert.Equal(t, Values(once), Values(twice))
	assert.True(t, Equal(once, twice))
}

func TestLWWEmptyClock(t *testing.T) {
	_, err := LWW(lexLE, Clock[string, string]{})
	assert.ErrorIs(t, err, ErrEmptyClock)
}

func TestReconcileConcatenatesAll(t *testing.T) {
	c := buildS6(t)
	merged, err := Reconcile(func(vs []string) string { return strings.Join(vs, "+") }, c)
	require.NoError(t, err)

	assert.Equal(t, []string{"b+a"}, Values(merged))
	assert.Equal(t, Join(c), Join(merged))
}

func TestReconcileEmptyClock(t *testing.T) {
	_, err := Reconcile(func(vs []string) string { return "" }, Clock[string, string]{})
	assert.ErrorIs(t, err, ErrEmptyClock)
}

func TestMapPreservesStructure(t *testing.T) {
	c := buildS6(t)
	upper := Map(strings.ToUpper, c)

	assert.True(t, Equal(c, upper), "map must not alter the causal summary")
	assert.Equal(t, Join(c), Join(upper))
	assert.ElementsMatch(t, []string{"A", "B"}, Values(upper))
}

func TestMapOnEmptyClock(t *testing.T) {
	upper := Map(strings.ToUpper, Clock[string, string]{})
	assert.Nil(t, upper.Entries)
	assert.Nil(t, upper.Anonymous)
}
