// Package pkgerror defines shared error types and sentinel errors used across
// the application.
//
// Errors created here carry a type, a stable code, a user-facing message and,
// for validation failures, a per-field detail map. The HTTP layer turns them
// into a status code and a JSON body; anything that is not a *Error is
// reported as an internal error without leaking its text.
package pkgerror
