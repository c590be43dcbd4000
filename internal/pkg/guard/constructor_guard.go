// Package guard provides ConstructorGuard, a marker embedded in value objects,
// entities and commands so that zero-value instances can be told apart from
// ones built through their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard. Embed it in a struct and
// call Validate from the struct's own Validate method:
//
//	type ManualTransportCommand struct {
//	    source kernel.EntityRef
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c ManualTransportCommand) Validate() error {
//	    return c.guard.Validate(ErrManualTransportCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marking its owner as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard, otherwise validationError
// (or ErrDefaultConstructorGuard when validationError is nil).
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
