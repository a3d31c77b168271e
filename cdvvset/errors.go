package cdvvset

import "errors"

// ErrEmptyClock is returned by Last, LWW, and Reconcile when called on a
// Clock with Size == 0: there is no value to resolve a winner from. The
// reference algebra this package is modeled on loops forever in that case;
// this implementation refuses instead.
var ErrEmptyClock = errors.New("cdvvset: resolver called on empty clock")

// ErrInvalidUpdateClient is returned by Update2 and Update3 when the
// supplied client clock does not have the shape a freshly-constructed
// client clock must have: exactly one anonymous value and no entry
// carrying any dotted values.
var ErrInvalidUpdateClient = errors.New("cdvvset: client clock must have exactly one anonymous value and no dotted entries")
