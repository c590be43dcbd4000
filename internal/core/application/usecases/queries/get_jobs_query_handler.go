package queries

import (
	"context"
	"slices"

	"logistics/internal/core/domain/model/job"
)

// GetJobsQueryHandler reads live jobs from the coordinator in id order.
type GetJobsQueryHandler struct {
	reader TransportReader
}

func NewGetJobsQueryHandler(reader TransportReader) GetJobsQueryHandler {
	return GetJobsQueryHandler{reader: reader}
}

func (h GetJobsQueryHandler) Handle(ctx context.Context, query GetJobsQuery) ([]GetJobsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	queue := h.reader.QueueOrder()
	jobs := make([]GetJobsQueryResponse, 0)
	for _, j := range h.reader.Jobs() {
		if query.Status() != job.Unknown && j.Status != query.Status() {
			continue
		}

		resp := GetJobsQueryResponse{
			ID:           int64(j.ID),
			OrderID:      int64(j.OrderID),
			Resource:     j.Resource.String(),
			Quantity:     j.Quantity,
			Cost:         j.Cost.StringFixed(2),
			PricePerUnit: j.PricePerUnit.String(),
			Status:       j.Status.String(),
			Supplier:     j.Supplier.String(),
			Target:       j.Target.String(),
			From:         pointOf(j.StartPosition),
			To:           pointOf(j.TargetPosition),
			Queued:       slices.Contains(queue, j.ID),
		}
		if j.Carrier != nil {
			id := j.Carrier.String()
			resp.Carrier = &id
		}
		jobs = append(jobs, resp)
	}
	return jobs, nil
}
