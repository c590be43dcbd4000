package deliveryorder

import (
	"fmt"
	"strings"

	"logistics/internal/pkg/errs"
)

// Status is derived from remaining demand and in-flight jobs:
//
//	Open         remaining > 0, no jobs in flight
//	InTransport  at least one job in flight
//	Completed    remaining reached 0
type Status int

const (
	Unknown Status = iota
	Open
	InTransport
	Completed
)

func (s Status) String() string {
	switch s {
	case Open:
		return "Open"
	case InTransport:
		return "InTransport"
	case Completed:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Completed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid delivery order status", s))
	}
	return nil
}

// ParseStatus maps a status name back to its value, case-insensitively.
func ParseStatus(name string) (Status, bool) {
	for _, s := range []Status{Open, InTransport, Completed} {
		if strings.EqualFold(s.String(), strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Unknown, false
}
