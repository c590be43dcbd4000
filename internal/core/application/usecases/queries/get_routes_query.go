package queries

import (
	"context"
	"errors"

	"logistics/internal/pkg/guard"
)

var (
	ErrGetRoutesQueryIsNotConstructed = errors.New(
		"GetRoutesQuery must be created via NewGetRoutesQuery constructor",
	)
)

type GetRoutesQuery struct {
	guard guard.ConstructorGuard
}

func NewGetRoutesQuery() GetRoutesQuery {
	return GetRoutesQuery{guard: guard.NewConstructorGuard()}
}

func (q GetRoutesQuery) Validate() error {
	return q.guard.Validate(ErrGetRoutesQueryIsNotConstructed)
}

type GetRoutesQueryResponse struct {
	ID          int64   `json:"id"`
	Supplier    string  `json:"supplier"`
	Consumer    string  `json:"consumer"`
	Resource    string  `json:"resource"`
	Period      float64 `json:"period"`
	Capacity    int     `json:"capacity"`
	Accumulator float64 `json:"accumulator"`
	InTransit   bool    `json:"in_transit"`
}

type GetRoutesQueryHandler struct {
	reader TransportReader
}

func NewGetRoutesQueryHandler(reader TransportReader) GetRoutesQueryHandler {
	return GetRoutesQueryHandler{reader: reader}
}

func (h GetRoutesQueryHandler) Handle(_ context.Context, query GetRoutesQuery) ([]GetRoutesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	routes := make([]GetRoutesQueryResponse, 0)
	for _, r := range h.reader.Routes() {
		routes = append(routes, GetRoutesQueryResponse{
			ID:          int64(r.ID),
			Supplier:    r.Supplier.String(),
			Consumer:    r.Consumer.String(),
			Resource:    r.Resource.String(),
			Period:      r.Period,
			Capacity:    r.Capacity,
			Accumulator: r.Accumulator,
			InTransit:   r.InTransit,
		})
	}
	return routes, nil
}
