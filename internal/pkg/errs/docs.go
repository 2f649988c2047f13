// Package errs provides the standardized error taxonomy for the order
// lifecycle application. It implements a consistent pattern for error
// creation, formatting, and unwrapping that is used throughout the
// application.
//
// The package defines one error family per failure class:
//   - AuthenticationError: missing or invalid credential at a boundary
//   - AuthorizationError: role/ownership mismatch for an action
//   - ValidationError: malformed input or a violated business rule
//   - InvalidTransitionError: illegal state-machine edge
//   - NotFoundError: unknown entity id
//   - ConflictError: a lost race (zero rows affected by a conditional
//     update) or a structurally blocked operation
//   - ExternalServiceError: a dependent external system failed
//
// Each family follows the same pattern:
//   - A sentinel error variable (e.g. ErrConflict)
//   - A struct type carrying error details
//   - Constructor functions with and without a cause
//   - Error() for formatting and Unwrap() so errors.Is matches the sentinel
//
// Callers classify errors with errors.Is against the sentinels and never by
// string comparison.
package errs
