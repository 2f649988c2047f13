// Package order contains the Order aggregate and its lifecycle state
// machine, the payment status, and the append-only audit events recorded
// for every accepted transition.
//
// The aggregate is the single writer of order state: all mutations go
// through validated methods, and every accepted status transition is meant
// to be persisted together with exactly one Event row in the same unit of
// work.
package order
