package cdvvset

import "sort"

// lift absorbs the maximal contiguous run of counters starting at base+1
// into base, returning the new base and the residual (still-sorted)
// exceptions. exceptions must be sorted ascending on entry; the result is
// too.
func lift(base Counter, exceptions []Counter) (Counter, []Counter) {
	i := 0
	for i < len(exceptions) && exceptions[i] == base+1 {
		base++
		i++
	}
	if i == 0 {
		return base, exceptions
	}
	return base, append([]Counter(nil), exceptions[i:]...)
}

// containsSorted reports whether dot is present in a sorted, deduplicated
// slice of counters.
func containsSorted(sorted []Counter, dot Counter) bool {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= dot })
	return i < len(sorted) && sorted[i] == dot
}

// insertSorted returns sorted with dot inserted in order, unless dot is
// already present.
func insertSorted(sorted []Counter, dot Counter) []Counter {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= dot })
	if i < len(sorted) && sorted[i] == dot {
		return sorted
	}
	out := make([]Counter, 0, len(sorted)+1)
	out = append(out, sorted[:i]...)
	out = append(out, dot)
	out = append(out, sorted[i:]...)
	return out
}

// sortedUnion merges two sorted, deduplicated counter slices.
func sortedUnion(a, b []Counter) []Counter {
	out := make([]Counter, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	if len(out) == 0 {
		return nil
	}
	return out
}

// discard partitions dottedValues against (base, exceptions): a pair
// survives iff its dot is newly observed (dot > base and not already in
// exceptions). Surviving pairs are returned in their input order. A
// dropped pair's dot is folded into the returned exception set only when
// it is actually beyond base — a dot at or below base is already implied
// by it, and recording it again would violate the invariant that
// exceptions holds nothing ≤ base+1.
func discard[V comparable](base Counter, exceptions []Counter, values []dotted[V]) ([]Counter, []dotted[V]) {
	exc := exceptions
	var kept []dotted[V]
	for _, dv := range values {
		if dv.Dot > base && !containsSorted(exc, dv.Dot) {
			kept = append(kept, dv)
		} else if dv.Dot > base {
			exc = insertSorted(exc, dv.Dot)
		}
	}
	return exc, kept
}
