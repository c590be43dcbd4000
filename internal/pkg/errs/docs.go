// Package errs provides the typed errors shared by the logistics core.
//
// Every error type follows the same pattern:
//   - a sentinel error variable (e.g. ErrValueIsRequired) returned by Unwrap
//   - a struct carrying the offending parameter and an optional cause
//   - constructors with and without a cause
//
// Domain constructors collect setter failures with errors.Join, so a single
// call can report several invalid fields; errors.Is and errors.As work on the
// joined result.
package errs
