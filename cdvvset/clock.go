package cdvvset

// New builds a Clock from a causal summary (typically one echoed back by
// a client from a prior Join) and a set of anonymous values awaiting
// their first dot. The returned entries carry no values of their own —
// only the causal shell — which is the shape Update2/Update3 require of
// a client clock.
//
// Call New(nil, values) for a client clock with no prior causal context
// (a brand-new key).
func New[I Id, V comparable](causal Causal[I], anonymous []V) Clock[I, V] {
	var entries []Entry[I, V]
	if len(causal) > 0 {
		entries = make([]Entry[I, V], len(causal))
		for i, ce := range causal {
			entries[i] = Entry[I, V]{ReplicaId: ce.ReplicaId, Base: ce.Base, Exceptions: ce.Exceptions}
		}
	}
	return Clock[I, V]{Entries: entries, Anonymous: append([]V(nil), anonymous...)}
}

// NewList is equivalent to New; it exists for parity with the reference
// algebra's new/new_list pair, for callers that already hold the causal
// context as a plain entry list rather than having just received it from
// Join.
func NewList[I Id, V comparable](causal Causal[I], anonymous []V) Clock[I, V] {
	return New(causal, anonymous)
}

// dedupValues returns the set-union of two value slices, preserving a's
// order and appending b's values not already present.
func dedupValues[V comparable](a, b []V) []V {
	seen := make(map[V]struct{}, len(a)+len(b))
	out := make([]V, 0, len(a)+len(b))
	for _, v := range a {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	for _, v := range b {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Sync merges two clocks: entries are reconciled id-by-id (causally
// dominated values are dropped, concurrent ones survive), and anonymous
// values are kept only when neither side dominates the other — otherwise
// the dominated side's anonymous values are discarded along with the rest
// of its history.
func Sync[I Id, V comparable](c1, c2 Clock[I, V]) Clock[I, V] {
	entries := syncEntries(c1.Entries, c2.Entries)

	var anon []V
	switch {
	case len(c1.Anonymous) == 0 && len(c2.Anonymous) == 0:
		anon = nil
	case Less(c1, c2):
		anon = append([]V(nil), c2.Anonymous...)
	case Less(c2, c1):
		anon = append([]V(nil), c1.Anonymous...)
	default:
		anon = dedupValues(c1.Anonymous, c2.Anonymous)
	}

	return Clock[I, V]{Entries: entries, Anonymous: anon}
}

// SyncAll folds Sync across a list of clocks, left to right, starting
// from the empty (neutral) clock.
func SyncAll[I Id, V comparable](clocks []Clock[I, V]) Clock[I, V] {
	acc := Clock[I, V]{}
	for _, c := range clocks {
		acc = Sync(acc, c)
	}
	return acc
}

// Join extracts the causal summary from a clock: for every entry, its
// exceptions are widened to include the dots of its still-live values,
// then lifted. This is the version vector a client should echo back to
// the store on its next write.
func Join[I Id, V comparable](c Clock[I, V]) Causal[I] {
	if len(c.Entries) == 0 {
		return nil
	}
	out := make(Causal[I], len(c.Entries))
	for i, e := range c.Entries {
		exc := e.Exceptions
		for _, dv := range e.Values {
			exc = insertSorted(exc, dv.Dot)
		}
		base, exc := lift(e.Base, exc)
		out[i] = CausalEntry[I]{ReplicaId: e.ReplicaId, Base: base, Exceptions: exc}
	}
	return out
}

// Update2 records a local write: it generates a fresh event for replica
// id carrying client's sole anonymous value, against client's own causal
// context. client must have exactly one anonymous value and no entries
// with values (see ErrInvalidUpdateClient).
func Update2[I Id, V comparable](client Clock[I, V], id I) (Clock[I, V], error) {
	v, err := soleAnonymousValue(client)
	if err != nil {
		return Clock[I, V]{}, err
	}
	return Clock[I, V]{Entries: event(client.Entries, id, v)}, nil
}

// Update3 records a local write made with stale context: client's causal
// context is first synced against the server's current clock (without
// introducing client's value into that merge), and only then is the new
// event appended. The result is strictly causally greater than both
// client and server.
func Update3[I Id, V comparable](client, server Clock[I, V], id I) (Clock[I, V], error) {
	v, err := soleAnonymousValue(client)
	if err != nil {
		return Clock[I, V]{}, err
	}
	synced := Sync(Clock[I, V]{Entries: client.Entries}, server)
	return Clock[I, V]{Entries: event(synced.Entries, id, v), Anonymous: synced.Anonymous}, nil
}

func soleAnonymousValue[I Id, V comparable](client Clock[I, V]) (V, error) {
	var zero V
	if len(client.Anonymous) != 1 {
		return zero, ErrInvalidUpdateClient
	}
	for _, e := range client.Entries {
		if len(e.Values) != 0 {
			return zero, ErrInvalidUpdateClient
		}
	}
	return client.Anonymous[0], nil
}
