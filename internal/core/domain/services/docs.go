// Package services provides domain services that coordinate business
// decisions across multiple aggregates.
//
// The package includes:
//   - CourierPicker: selects the courier to offer a READY order to
//
// Domain services implement logic that does not naturally belong to a
// single aggregate root.
package services
