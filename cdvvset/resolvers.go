package cdvvset

// Map rewrites every value in c — anonymous and dotted alike — with f.
// Structure (ids, dots, ordering) is preserved; f is applied purely for
// its result, never for side effects the rest of this package depends on.
func Map[I Id, V comparable](f func(V) V, c Clock[I, V]) Clock[I, V] {
	var anon []V
	if len(c.Anonymous) > 0 {
		anon = make([]V, len(c.Anonymous))
		for i, v := range c.Anonymous {
			anon[i] = f(v)
		}
	}
	var entries []Entry[I, V]
	if len(c.Entries) > 0 {
		entries = make([]Entry[I, V], len(c.Entries))
		for i, e := range c.Entries {
			var values []dotted[V]
			if len(e.Values) > 0 {
				values = make([]dotted[V], len(e.Values))
				for j, dv := range e.Values {
					values[j] = dotted[V]{Dot: dv.Dot, Value: f(dv.Value)}
				}
			}
			entries[i] = Entry[I, V]{ReplicaId: e.ReplicaId, Base: e.Base, Exceptions: e.Exceptions, Values: values}
		}
	}
	return Clock[I, V]{Entries: entries, Anonymous: anon}
}

// FindEntry folds a reflexive "a ≤ b" predicate f across every live value
// in c — every anonymous value, and the newest (head) dotted value of
// every entry that has one — and returns the winner together with where
// it came from. Candidates are folded per-entry heads first, in ascending
// ReplicaId order, then anonymous values. On a tie (f returns true) the
// later candidate wins, so the origin degrades to Anonymous as soon as an
// anonymous candidate ties-or-beats the running winner.
//
// FindEntry reports ok=false when c has no live values at all.
func FindEntry[I Id, V comparable](f func(a, b V) bool, c Clock[I, V]) (winner V, origin Origin[I], ok bool) {
	consider := func(v V, o Origin[I]) {
		if !ok {
			winner, origin, ok = v, o, true
			return
		}
		if f(winner, v) {
			winner, origin = v, o
		}
	}

	for _, e := range c.Entries {
		if len(e.Values) == 0 {
			continue
		}
		consider(e.Values[0].Value, Origin[I]{kind: originEntry, ReplicaId: e.ReplicaId})
	}
	for _, v := range c.Anonymous {
		consider(v, Origin[I]{kind: originAnonymous})
	}
	return winner, origin, ok
}

// Last returns the single value FindEntry picks as the winner under f.
func Last[I Id, V comparable](f func(a, b V) bool, c Clock[I, V]) (V, error) {
	winner, _, ok := FindEntry(f, c)
	if !ok {
		var zero V
		return zero, ErrEmptyClock
	}
	return winner, nil
}

// widenAndLift folds e's live value dots into its exceptions (as Join
// does), skipping keep, then lifts. Passing keep=0 (never a valid dot)
// folds every live value in.
func widenAndLift[I Id, V comparable](e Entry[I, V], keep Counter) (Counter, []Counter) {
	exc := e.Exceptions
	for _, dv := range e.Values {
		if dv.Dot == keep {
			continue
		}
		exc = insertSorted(exc, dv.Dot)
	}
	return lift(e.Base, exc)
}

// LWW returns a clock with the same causal summary as c (same Join), but
// with only the f-winning value retained as a sibling. Every entry's
// non-winning dots are folded into its base/exceptions exactly as Join
// would, so the surviving causal history is unchanged; the winning
// entry additionally keeps its winning dot live. If the winner was
// anonymous, the result is rebuilt fresh from Join(c) carrying only the
// winning value.
func LWW[I Id, V comparable](f func(a, b V) bool, c Clock[I, V]) (Clock[I, V], error) {
	winner, origin, ok := FindEntry(f, c)
	if !ok {
		return Clock[I, V]{}, ErrEmptyClock
	}
	if origin.IsAnonymous() {
		return New(Join(c), []V{winner}), nil
	}
	entries := make([]Entry[I, V], len(c.Entries))
	for i, e := range c.Entries {
		if e.ReplicaId == origin.ReplicaId {
			winnerDot := e.Values[0].Dot
			base, exc := widenAndLift(e, winnerDot)
			entries[i] = Entry[I, V]{
				ReplicaId:  e.ReplicaId,
				Base:       base,
				Exceptions: exc,
				Values:     []dotted[V]{{Dot: winnerDot, Value: winner}},
			}
			continue
		}
		base, exc := widenAndLift(e, 0)
		entries[i] = Entry[I, V]{ReplicaId: e.ReplicaId, Base: base, Exceptions: exc}
	}
	return Clock[I, V]{Entries: entries}, nil
}

// Reconcile replaces every value in c with the single value f produces
// from all of them (dotted and anonymous together, in Values(c) order),
// keeping only c's causal summary.
func Reconcile[I Id, V comparable](f func([]V) V, c Clock[I, V]) (Clock[I, V], error) {
	if Size(c) == 0 {
		return Clock[I, V]{}, ErrEmptyClock
	}
	return New(Join(c), []V{f(Values(c))}), nil
}
