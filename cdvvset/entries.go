package cdvvset

// syncDots merges two entries sharing the same ReplicaId, reconciling
// their bases, exception sets, and live values. Each side's values stay
// newest-first; since neither side's head can be dominated by the other
// after the discard pass, kept1 followed by kept2 preserves that
// convention for the merged entry too.
func syncDots[I Id, V comparable](e1, e2 Entry[I, V]) Entry[I, V] {
	base := e1.Base
	if e2.Base > base {
		base = e2.Base
	}
	exc0 := sortedUnion(e1.Exceptions, e2.Exceptions)

	exc1, kept1 := discard(base, exc0, e1.Values)
	exc2, kept2 := discard(base, exc1, e2.Values)
	base2, exc3 := lift(base, exc2)

	// A dot uniquely identifies a single write, so if both sides still
	// carry it live (e.g. syncing a clock with itself, or with another
	// clock descended from the same unlifted ancestor) it names the same
	// value on both sides; keep it once.
	var values []dotted[V]
	seen := make(map[Counter]struct{}, len(kept1)+len(kept2))
	for _, dv := range kept1 {
		seen[dv.Dot] = struct{}{}
		values = append(values, dv)
	}
	for _, dv := range kept2 {
		if _, dup := seen[dv.Dot]; dup {
			continue
		}
		values = append(values, dv)
	}

	return Entry[I, V]{ReplicaId: e1.ReplicaId, Base: base2, Exceptions: exc3, Values: values}
}

// syncEntries performs the classic sorted merge of two entry lists: the
// smaller id is copied through as-is, equal ids are reconciled with
// syncDots, and leftovers are appended once one side is exhausted.
func syncEntries[I Id, V comparable](a, b []Entry[I, V]) []Entry[I, V] {
	out := make([]Entry[I, V], 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].ReplicaId < b[j].ReplicaId:
			out = append(out, a[i])
			i++
		case a[i].ReplicaId > b[j].ReplicaId:
			out = append(out, b[j])
			j++
		default:
			out = append(out, syncDots(a[i], b[j]))
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// maxKnownDot returns the maximum dot known for this entry: the greatest
// of its base, its exceptions, and the dots of its still-live values.
func maxKnownDot[I Id, V comparable](e Entry[I, V]) Counter {
	max := e.Base
	if n := len(e.Exceptions); n > 0 && e.Exceptions[n-1] > max {
		max = e.Exceptions[n-1]
	}
	for _, dv := range e.Values {
		if dv.Dot > max {
			max = dv.Dot
		}
	}
	return max
}

// event inserts a fresh write by replica id, authored with value v, into
// entries. If id is new, a zeroed entry carrying the single dot 1 is
// inserted at its sorted position. Otherwise the new dot is one past the
// highest dot this entry already knows about, and it is prepended —
// keeping the newest-first convention — without lifting base/exceptions;
// that happens later, in syncDots or Join.
func event[I Id, V comparable](entries []Entry[I, V], id I, v V) []Entry[I, V] {
	for i, e := range entries {
		if e.ReplicaId == id {
			newDot := maxKnownDot(e) + 1
			values := make([]dotted[V], 0, len(e.Values)+1)
			values = append(values, dotted[V]{Dot: newDot, Value: v})
			values = append(values, e.Values...)
			out := make([]Entry[I, V], len(entries))
			copy(out, entries)
			out[i] = Entry[I, V]{ReplicaId: id, Base: e.Base, Exceptions: e.Exceptions, Values: values}
			return out
		}
		if e.ReplicaId > id {
			return insertEntryAt(entries, i, Entry[I, V]{ReplicaId: id, Base: 0, Values: []dotted[V]{{Dot: 1, Value: v}}})
		}
	}
	return insertEntryAt(entries, len(entries), Entry[I, V]{ReplicaId: id, Base: 0, Values: []dotted[V]{{Dot: 1, Value: v}}})
}

func insertEntryAt[I Id, V comparable](entries []Entry[I, V], at int, e Entry[I, V]) []Entry[I, V] {
	out := make([]Entry[I, V], 0, len(entries)+1)
	out = append(out, entries[:at]...)
	out = append(out, e)
	out = append(out, entries[at:]...)
	return out
}
