// Package cdvvset implements a Compact Dotted Version Vector Set: the
// causal-history algebra behind a single key in an eventually-consistent,
// multi-master key-value store.
//
// A Clock is the value stored for one key. It carries a compact per-replica
// version summary (so two replicas can tell whether one clock's history
// causally dominates the other's) plus the sibling values still live for
// that key — values written concurrently, whose relative order causality
// alone cannot resolve.
//
// Every exported function here is a pure, total function over immutable
// values: none of them perform I/O, logging, or locking. The embedding
// store (see internal/kvstore) owns persistence and per-key write
// serialization; cmd/cdvvsetctl supplies the replica identity.
package cdvvset
