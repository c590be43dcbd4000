package http

import (
	"fmt"

	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/generated/servers"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toJob(j queries.GetJobsQueryResponse) (servers.Job, error) {
	item := servers.Job{
		Id:           j.ID,
		OrderId:      j.OrderID,
		Resource:     j.Resource,
		Quantity:     j.Quantity,
		Cost:         j.Cost,
		PricePerUnit: j.PricePerUnit,
		Status:       j.Status,
		Supplier:     j.Supplier,
		Target:       j.Target,
		From:         toPoint(j.From),
		To:           toPoint(j.To),
		Queued:       j.Queued,
	}
	if j.Carrier != nil {
		id, err := toUUID(*j.Carrier)
		if err != nil {
			return servers.Job{}, err
		}
		item.Carrier = &id
	}
	return item, nil
}

func toCarrier(c queries.GetCarriersQueryResponse) (servers.Carrier, error) {
	id, err := toUUID(c.ID)
	if err != nil {
		return servers.Carrier{}, err
	}
	waypoints := make([]servers.Point, 0, len(c.Waypoints))
	for _, p := range c.Waypoints {
		waypoints = append(waypoints, toPoint(p))
	}

	item := servers.Carrier{
		Id:        id,
		Resource:  c.Resource,
		Quantity:  c.Quantity,
		From:      c.From,
		To:        c.To,
		Position:  toPoint(c.Position),
		Target:    toPoint(c.Target),
		ReturnLeg: c.ReturnLeg,
		Waypoints: waypoints,
	}
	if c.JobID > 0 {
		item.JobId = &c.JobID
	}
	if c.RouteID > 0 {
		item.RouteId = &c.RouteID
	}
	return item, nil
}

func toPoint(p queries.Point) servers.Point {
	return servers.Point{X: p.X, Y: p.Y}
}

// toUUID fails with an unclassified error, answered as 500: ids come from
// the coordinator, not the client.
func toUUID(s string) (openapi_types.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return openapi_types.UUID{}, fmt.Errorf("carrier id %q: %w", s, err)
	}
	return id, nil
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// optional maps the zero value to an absent field.
func optional[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
