package cdvvset

import "slices"

// isSubset reports whether the known dot set of (bBase, bExc) is a subset
// of the known dot set of (aBase, aExc), where a known dot set is
// {1..base} ∪ exceptions. Runs in time linear in the exception sets; never
// materializes either set.
func isSubset(bBase Counter, bExc []Counter, aBase Counter, aExc []Counter) bool {
	if bBase > aBase {
		need := bBase - aBase
		var covered Counter
		for _, e := range aExc {
			if e > aBase && e <= bBase {
				covered++
			}
		}
		if covered != need {
			return false
		}
	}
	for _, e := range bExc {
		if e <= aBase {
			continue
		}
		if !containsSorted(aExc, e) {
			return false
		}
	}
	return true
}

// greater walks two id-sorted entry lists in lockstep, deciding causal
// dominance entry by entry rather than recursing.
func greater[I Id, V comparable](a, b []Entry[I, V], strict bool) bool {
	i, j := 0, 0
	for {
		switch {
		case i == len(a) && j == len(b):
			return strict
		case i == len(a):
			return false
		case j == len(b):
			return true
		}
		ai, bj := a[i], b[j]
		switch {
		case ai.ReplicaId == bj.ReplicaId:
			// Live value dots are known dots too; count them as Join does.
			aBase, aExc := widenAndLift(ai, 0)
			bBase, bExc := widenAndLift(bj, 0)
			if aBase == bBase && slices.Equal(aExc, bExc) {
				i++
				j++
				continue
			}
			if isSubset(bBase, bExc, aBase, aExc) {
				strict = true
				i++
				j++
				continue
			}
			return false
		case ai.ReplicaId < bj.ReplicaId:
			i++
			strict = true
		default: // ai.ReplicaId > bj.ReplicaId: b knows a replica a has no entry for
			return false
		}
	}
}

// Less reports whether c1 causally precedes c2: c2 knows every dot c1
// knows (counting each entry's live value dots, as Join does), and knows
// strictly more — a dot c1 lacks, or a replica c1 has no entry for.
// Anonymous values carry no causal information and are ignored.
func Less[I Id, V comparable](c1, c2 Clock[I, V]) bool {
	return greater(c2.Entries, c1.Entries, false)
}

// Equal reports whether two clocks have identical causal history: same
// entries (by id, base, and exception set) in the same order, and the
// same number of live values per entry. The values themselves, and the
// anonymous lists, are not compared.
func Equal[I Id, V comparable](c1, c2 Clock[I, V]) bool {
	if len(c1.Entries) != len(c2.Entries) {
		return false
	}
	for i := range c1.Entries {
		e1, e2 := c1.Entries[i], c2.Entries[i]
		if e1.ReplicaId != e2.ReplicaId || e1.Base != e2.Base {
			return false
		}
		if !slices.Equal(e1.Exceptions, e2.Exceptions) {
			return false
		}
		if len(e1.Values) != len(e2.Values) {
			return false
		}
	}
	return true
}
