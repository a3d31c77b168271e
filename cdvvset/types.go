package cdvvset

import "cmp"

// Counter is a non-negative, monotonically-increasing per-(Id,Clock) integer.
type Counter = uint64

// Id is the constraint satisfied by replica identifiers: any type with a
// total order. Strings (the common case — a node name or UUID) and
// integers both satisfy it directly.
type Id interface {
	cmp.Ordered
}

// dotted pairs a Counter with the Value written at that event.
type dotted[V comparable] struct {
	Dot   Counter
	Value V
}

// Entry is the per-replica causal-history bucket inside a Clock.
//
// The known dot set for this entry is {1..Base} ∪ Exceptions. Exceptions
// holds counters strictly greater than Base+1 (anything contiguous with
// Base has already been folded into it by lift). Values holds the still-
// live (dot, value) pairs for this replica, newest dot first.
type Entry[I Id, V comparable] struct {
	ReplicaId  I
	Base       Counter
	Exceptions []Counter
	Values     []dotted[V]
}

// Clock is the full causal-history-plus-siblings container for one key.
//
// Entries is sorted strictly ascending by ReplicaId with unique ids.
// Anonymous holds values with no assigned dot: client-submitted writes
// prior to Update, or values whose dot has since been discarded.
type Clock[I Id, V comparable] struct {
	Entries   []Entry[I, V]
	Anonymous []V
}

// CausalEntry is one replica's entry in a causal summary: the
// values-stripped form of an Entry.
type CausalEntry[I Id] struct {
	ReplicaId  I
	Base       Counter
	Exceptions []Counter
}

// Causal is the "version vector with exceptions" a client echoes back to
// the store on its next write, as returned by Join.
type Causal[I Id] []CausalEntry[I]

// originKind tags where a resolver's winning value came from.
type originKind int

const (
	originNone originKind = iota
	originAnonymous
	originEntry
)

// Origin identifies which part of a Clock a resolved value originated
// from: an anonymous sibling, or the dotted head of a specific replica's
// entry.
type Origin[I Id] struct {
	kind      originKind
	ReplicaId I // valid only when IsEntry() is true
}

// IsAnonymous reports whether the resolved value came from the anonymous list.
func (o Origin[I]) IsAnonymous() bool { return o.kind == originAnonymous }

// IsEntry reports whether the resolved value came from a replica entry's head.
func (o Origin[I]) IsEntry() bool { return o.kind == originEntry }
