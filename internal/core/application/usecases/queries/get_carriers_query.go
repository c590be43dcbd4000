package queries

import (
	"context"
	"errors"

	"logistics/internal/pkg/guard"
)

var (
	ErrGetCarriersQueryIsNotConstructed = errors.New(
		"GetCarriersQuery must be created via NewGetCarriersQuery constructor",
	)
)

// GetCarriersQuery lists carriers on the road, in spawn order.
type GetCarriersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetCarriersQuery() GetCarriersQuery {
	return GetCarriersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetCarriersQuery) Validate() error {
	return q.guard.Validate(ErrGetCarriersQueryIsNotConstructed)
}

// GetCarriersQueryResponse is one carrier and where it is headed.
type GetCarriersQueryResponse struct {
	ID        string  `json:"id"`
	JobID     int64   `json:"job_id,omitempty"`
	RouteID   int64   `json:"route_id,omitempty"`
	Resource  string  `json:"resource"`
	Quantity  int     `json:"quantity"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Position  Point   `json:"position"`
	Target    Point   `json:"target"`
	ReturnLeg bool    `json:"return_leg"`
	Waypoints []Point `json:"waypoints"`
}

type GetCarriersQueryHandler struct {
	reader TransportReader
}

func NewGetCarriersQueryHandler(reader TransportReader) GetCarriersQueryHandler {
	return GetCarriersQueryHandler{reader: reader}
}

func (h GetCarriersQueryHandler) Handle(ctx context.Context, query GetCarriersQuery) ([]GetCarriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	carriers := make([]GetCarriersQueryResponse, 0)
	for _, c := range h.reader.Carriers() {
		resp := GetCarriersQueryResponse{
			ID:        c.ID.String(),
			JobID:     int64(c.JobID),
			RouteID:   int64(c.RouteID),
			Resource:  c.Resource.String(),
			Quantity:  c.Quantity,
			From:      c.From.String(),
			To:        c.To.String(),
			Position:  pointOf(c.Position),
			Target:    pointOf(c.Target),
			ReturnLeg: c.ReturnLeg,
			Waypoints: make([]Point, 0, len(c.Waypoints)),
		}
		for _, wp := range c.Waypoints {
			resp.Waypoints = append(resp.Waypoints, pointOf(wp))
		}
		carriers = append(carriers, resp)
	}
	return carriers, nil
}
