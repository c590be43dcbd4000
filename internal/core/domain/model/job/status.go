package job

import (
	"fmt"
	"strings"

	"logistics/internal/pkg/errs"
)

// Status is the lifecycle state of a Job.
//
// State transitions:
//
//	Planned ──> Assigned ──> InTransit ──┬──> Completed
//	   ^           │            │        └──> Failed
//	   └───────────┴────────────┘
//	         (requeue)
//
// Completed and Failed are terminal: the ledger drops the job when it enters
// either of them. Any live status may fail (entity destroyed, cancellation).
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Planned jobs sit in the ledger queue waiting for a carrier.
	Planned

	// Assigned jobs were dequeued and are about to get a carrier.
	Assigned

	// InTransit jobs have a carrier on the road.
	InTransit

	// Completed jobs delivered their cargo.
	Completed

	// Failed jobs were cancelled or lost their supplier or target.
	Failed
)

var statusNames = map[Status]string{
	Unknown:   "Unknown",
	Planned:   "Planned",
	Assigned:  "Assigned",
	InTransit: "InTransit",
	Completed: "Completed",
	Failed:    "Failed",
}

// ParseStatus maps a status name back to its value, case-insensitively.
// Unrecognized names yield (Unknown, false).
func ParseStatus(name string) (Status, bool) {
	for s, n := range statusNames {
		if s != Unknown && strings.EqualFold(n, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return Unknown, false
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid job status", s))
	}
	return nil
}

// IsTerminal reports whether s is Completed or Failed.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Failed
}

// IsLive reports whether a job in status s still belongs in the ledger.
func (s Status) IsLive() bool {
	return s == Planned || s == Assigned || s == InTransit
}

// Assign transitions Planned -> Assigned.
func (s Status) Assign() (Status, error) {
	if s != Planned {
		return Unknown, transitionError(s, Assigned)
	}
	return Assigned, nil
}

// Start transitions Assigned -> InTransit.
func (s Status) Start() (Status, error) {
	if s != Assigned {
		return Unknown, transitionError(s, InTransit)
	}
	return InTransit, nil
}

// Requeue transitions Assigned or InTransit back to Planned.
func (s Status) Requeue() (Status, error) {
	if s != Assigned && s != InTransit {
		return Unknown, transitionError(s, Planned)
	}
	return Planned, nil
}

// Complete transitions any live status to Completed.
func (s Status) Complete() (Status, error) {
	if !s.IsLive() {
		return Unknown, transitionError(s, Completed)
	}
	return Completed, nil
}

// Fail transitions any live status to Failed.
func (s Status) Fail() (Status, error) {
	if !s.IsLive() {
		return Unknown, transitionError(s, Failed)
	}
	return Failed, nil
}

func transitionError(from, to Status) error {
	return errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("%s is not a valid status to move to %s", from, to),
	)
}
