// Package courier contains the courier profile: the availability flag every
// assignment race converges on, plus an overwrite-only cache of the last
// reported position.
//
// Invariant: isAvailable is false exactly while the courier holds one
// non-terminal delivery; a courier holds at most one active delivery at a
// time. The flag is only ever flipped through conditional updates in the
// repository so interleaved requests cannot double-book a courier.
package courier
