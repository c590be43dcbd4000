package queries

import (
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/job"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrGetJobsQueryIsNotConstructed = errors.New(
		"GetJobsQuery must be created via NewGetJobsQuery constructor",
	)
)

// GetJobsQuery lists live jobs, optionally only those in one status.
//
// Example:
//
//	query, _ := NewGetJobsQuery("InTransit")
//	jobs, err := handler.Handle(ctx, query)
type GetJobsQuery struct {
	status job.Status

	guard guard.ConstructorGuard
}

// NewGetJobsQuery parses status case-insensitively. An empty status selects
// every live job.
func NewGetJobsQuery(status string) (GetJobsQuery, error) {
	q := GetJobsQuery{guard: guard.NewConstructorGuard()}
	if status == "" {
		return q, nil
	}

	s, ok := job.ParseStatus(status)
	if !ok {
		return GetJobsQuery{}, errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a job status", status))
	}
	q.status = s
	return q, nil
}

func (q GetJobsQuery) Validate() error {
	return q.guard.Validate(ErrGetJobsQueryIsNotConstructed)
}

// Status is Unknown when the query is not filtered.
func (q GetJobsQuery) Status() job.Status {
	return q.status
}

// GetJobsQueryResponse is one job as shown to the player.
type GetJobsQueryResponse struct {
	ID           int64   `json:"id"`
	OrderID      int64   `json:"order_id,omitempty"`
	Resource     string  `json:"resource"`
	Quantity     int     `json:"quantity"`
	Cost         string  `json:"cost"`
	PricePerUnit string  `json:"price_per_unit"`
	Status       string  `json:"status"`
	Supplier     string  `json:"supplier"`
	Target       string  `json:"target"`
	From         Point   `json:"from"`
	To           Point   `json:"to"`
	Carrier      *string `json:"carrier,omitempty"`
	Queued       bool    `json:"queued"`
}
