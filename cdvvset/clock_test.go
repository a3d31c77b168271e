package cdvvset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1 — join progression.
func TestJoinProgression(t *testing.T) {
	A := New[string, string](nil, []string{"v1"})
	A1, err := Update2(A, "a")
	require.NoError(t, err)
	assert.Equal(t, Causal[string]{{ReplicaId: "a", Base: 1, Exceptions: nil}}, Join(A1))

	B := New(Join(A1), []string{"v2"})
	B1, err := Update3(B, A1, "b")
	require.NoError(t, err)
	assert.Equal(t, Causal[string]{
		{ReplicaId: "a", Base: 1, Exceptions: nil},
		{ReplicaId: "b", Base: 1, Exceptions: nil},
	}, Join(B1))
}

// S2 — event.
func TestEvent(t *testing.T) {
	A, err := Update2(New[string, string](nil, []string{"v1"}), "a")
	require.NoError(t, err)
	require.Equal(t, []Entry[string, string]{{ReplicaId: "a", Values: []dotted[string]{{Dot: 1, Value: "v1"}}}}, A.Entries)

	e1 := event(A.Entries, "a", "v2")
	require.Len(t, e1, 1)
	assert.Equal(t, []dotted[string]{{Dot: 2, Value: "v2"}, {Dot: 1, Value: "v1"}}, e1[0].Values)

	e2 := event(A.Entries, "b", "v2")
	require.Len(t, e2, 2)
	assert.Equal(t, "a", e2[0].ReplicaId)
	assert.Equal(t, "b", e2[1].ReplicaId)
	assert.Equal(t, []dotted[string]{{Dot: 1, Value: "v2"}}, e2[1].Values)
}

// S3 — sibling accumulation then resolution.
func TestSiblingAccumulationThenResolution(t *testing.T) {
	A0, err := Update2(New[string, string](nil, []string{"v1"}), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, headValues(A0, "a"))

	A1, err := Update3(New(Join(A0), []string{"v2"}), A0, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, headValues(A1, "a"))

	A2, err := Update3(New(Join(A1), []string{"v3"}), A1, "b")
	require.NoError(t, err)
	assert.Empty(t, headValues(A2, "a"))
	assert.Equal(t, []string{"v3"}, headValues(A2, "b"))

	// v4's context only carries v1 (it branches from A0, not A1): v2 survives as a sibling.
	A3, err := Update3(New(Join(A0), []string{"v4"}), A1, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, headValues(A3, "a"))
	assert.Equal(t, []string{"v4"}, headValues(A3, "b"))

	// v5 is concurrent with v2 under replica "a".
	A4, err := Update3(New(Join(A0), []string{"v5"}), A1, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"v5", "v2"}, headValues(A4, "a"))
}

// headValues returns the live values for a given replica, in the clock's
// own (newest-first) order — a small test helper, not part of the API.
func headValues[I Id, V comparable](c Clock[I, V], id I) []V {
	for _, e := range c.Entries {
		if e.ReplicaId == id {
			out := make([]V, len(e.Values))
			for i, dv := range e.Values {
				out[i] = dv.Value
			}
			return out
		}
	}
	return nil
}

// S4-style — convergence: two branches of the same history, synced back
// together, agree on the surviving siblings and causal summary regardless
// of merge order (commutativity is covered separately in properties_test.go;
// this exercises a concrete multi-replica scenario).
func TestSyncConvergence(t *testing.T) {
	A0, err := Update2(New[string, string](nil, []string{"v1"}), "a")
	require.NoError(t, err)
	A1, err := Update3(New(Join(A0), []string{"v2"}), A0, "a")
	require.NoError(t, err)

	// Two divergent branches off A1.
	left, err := Update3(New(Join(A1), []string{"v3"}), A1, "b")
	require.NoError(t, err)
	right, err := Update3(New(Join(A1), []string{"v4"}), A1, "c")
	require.NoError(t, err)

	merged := Sync(left, right)
	// Both branches were written with A1's context, so v2 is superseded.
	assert.ElementsMatch(t, []string{"v3", "v4"}, Values(merged))
	assert.Equal(t, []string{"a", "b", "c"}, Ids(merged))
	assert.True(t, Equal(merged, Sync(right, left)), "sync must be commutative")
}

// S5 — less ordering over a small causal graph:
// A < B < C (same replica progressing), A < B2 (a second replica branches
// off A), B2 < D, C < D (D syncs B2's context against C), B ∥ B2, B2 ∥ C.
func TestLessOrdering(t *testing.T) {
	A, err := Update2(New[string, string](nil, []string{"vA"}), "r1")
	require.NoError(t, err)
	B, err := Update3(New(Join(A), []string{"vB"}), A, "r1")
	require.NoError(t, err)
	C, err := Update3(New(Join(B), []string{"vC"}), B, "r1")
	require.NoError(t, err)
	B2, err := Update3(New(Join(A), []string{"vB2"}), A, "r2")
	require.NoError(t, err)
	D, err := Update3(New(Join(B2), []string{"vD"}), C, "r2")
	require.NoError(t, err)

	assert.True(t, Less(A, B))
	assert.True(t, Less(B, C))
	assert.True(t, Less(A, C))
	assert.True(t, Less(A, B2))
	assert.True(t, Less(B2, D))
	assert.True(t, Less(C, D))

	assert.False(t, Less(B, B2))
	assert.False(t, Less(B2, B))
	assert.False(t, Less(B2, C))
	assert.False(t, Less(C, B2))
	assert.False(t, Less(A, A))
}

func TestUpdatePreconditionRejected(t *testing.T) {
	bad := Clock[string, string]{
		Entries:   []Entry[string, string]{{ReplicaId: "a", Values: []dotted[string]{{Dot: 1, Value: "x"}}}},
		Anonymous: []string{"v"},
	}
	_, err := Update2(bad, "a")
	assert.ErrorIs(t, err, ErrInvalidUpdateClient)

	twoAnon := New[string, string](nil, []string{"v1", "v2"})
	_, err = Update2(twoAnon, "a")
	assert.ErrorIs(t, err, ErrInvalidUpdateClient)
}
