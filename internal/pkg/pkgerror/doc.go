// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// Sentinel errors (ErrNotFound) are checked with errors.Is. The structured
// Error type carries a user-facing message, a type and a code; handlers map the
// code to an HTTP status at the edge.
package pkgerror
