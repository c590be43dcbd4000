package queries

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/pkg/guard"
)

var (
	ErrGetOrdersQueryIsNotConstructed = errors.New(
		"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
	)
)

// GetOrdersQuery lists delivery orders. With uncompletedOnly set, completed
// orders are left out.
type GetOrdersQuery struct {
	uncompletedOnly bool

	guard guard.ConstructorGuard
}

func NewGetOrdersQuery(uncompletedOnly bool) GetOrdersQuery {
	return GetOrdersQuery{uncompletedOnly: uncompletedOnly, guard: guard.NewConstructorGuard()}
}

func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

func (q GetOrdersQuery) UncompletedOnly() bool {
	return q.uncompletedOnly
}

// GetOrdersQueryResponse is one delivery order with its progress.
type GetOrdersQueryResponse struct {
	ID           int64   `json:"id"`
	Resource     string  `json:"resource"`
	ProductName  string  `json:"product_name"`
	Total        int     `json:"total"`
	Remaining    int     `json:"remaining"`
	Reserved     int     `json:"reserved"`
	Outstanding  int     `json:"outstanding"`
	PricePerUnit string  `json:"price_per_unit"`
	Status       string  `json:"status"`
	Accepted     bool    `json:"accepted"`
	Destination  string  `json:"destination,omitempty"`
	JobIDs       []int64 `json:"job_ids"`
}

// GetOrdersQueryHandler reads delivery orders from the coordinator in id order.
type GetOrdersQueryHandler struct {
	reader TransportReader
}

func NewGetOrdersQueryHandler(reader TransportReader) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{reader: reader}
}

func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) ([]GetOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	orders := make([]GetOrdersQueryResponse, 0)
	for _, o := range h.reader.Orders() {
		if query.UncompletedOnly() && o.Status == deliveryorder.Completed {
			continue
		}

		resp := GetOrdersQueryResponse{
			ID:           int64(o.ID),
			Resource:     o.Resource.String(),
			ProductName:  o.ProductName,
			Total:        o.Total,
			Remaining:    o.Remaining,
			Reserved:     o.Reserved,
			Outstanding:  o.Outstanding,
			PricePerUnit: o.PricePerUnit.String(),
			Status:       o.Status.String(),
			Accepted:     o.Accepted,
			JobIDs:       make([]int64, 0, len(o.JobIDs)),
		}
		if !o.Destination.IsNone() {
			resp.Destination = o.Destination.String()
		}
		for _, id := range o.JobIDs {
			resp.JobIDs = append(resp.JobIDs, int64(id))
		}
		orders = append(orders, resp)
	}
	return orders, nil
}
