package kernel

import (
	"strings"

	"logistics/internal/pkg/errs"
)

// ErrResourceIsRequired is returned for an empty resource identifier.
var ErrResourceIsRequired = errs.NewValueIsRequiredError("resource")

// ResourceID names a tradeable good ("grain", "steel", ...). It is kept as a
// string everywhere, including snapshots.
type ResourceID string

// NewResourceID trims s and rejects empty identifiers.
func NewResourceID(s string) (ResourceID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrResourceIsRequired
	}
	return ResourceID(s), nil
}

// Validate rejects the empty identifier.
func (r ResourceID) Validate() error {
	if strings.TrimSpace(string(r)) == "" {
		return ErrResourceIsRequired
	}
	return nil
}

func (r ResourceID) String() string {
	return string(r)
}

// OrderID identifies a delivery order. NoOrder marks jobs that serve no order.
type OrderID int64

// NoOrder is the order id of jobs created outside of order planning.
const NoOrder OrderID = 0

// IsNone reports whether id is NoOrder.
func (id OrderID) IsNone() bool {
	return id == NoOrder
}
