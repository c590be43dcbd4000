package events

import (
	"time"

	"logistics/internal/core/domain/model/job"
)

// Kind is the job lifecycle stage an event reports.
type Kind int

const (
	KindPlanned Kind = iota + 1
	KindStarted
	KindCompleted
	KindFailed
)

// AllKinds lists every kind in lifecycle order.
var AllKinds = []Kind{KindPlanned, KindStarted, KindCompleted, KindFailed}

func (k Kind) String() string {
	switch k {
	case KindPlanned:
		return "job_planned"
	case KindStarted:
		return "job_started"
	case KindCompleted:
		return "job_completed"
	case KindFailed:
		return "job_failed"
	default:
		return "unknown"
	}
}

// Event is what subscribers receive. Job is the ledger's own instance and must
// be treated as read-only. Delivered is set for KindCompleted.
type Event struct {
	Kind       Kind
	Job        *job.Job
	Delivered  int
	OccurredAt time.Time
}

// Filter selects the kinds a subscription receives. A nil or empty filter
// receives everything.
type Filter []Kind

// Match reports whether k passes the filter.
func (f Filter) Match(k Kind) bool {
	if len(f) == 0 {
		return true
	}
	for _, want := range f {
		if want == k {
			return true
		}
	}
	return false
}

func kindOf(n job.NotificationKind) (Kind, bool) {
	switch n {
	case job.NotifyStarted:
		return KindStarted, true
	case job.NotifyCompleted:
		return KindCompleted, true
	case job.NotifyFailed:
		return KindFailed, true
	default:
		return 0, false
	}
}
