package queries

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/guard"
)

var (
	ErrGetSupplyQueryIsNotConstructed = errors.New(
		"GetSupplyQuery must be created via NewGetSupplyQuery constructor",
	)
)

// GetSupplyQuery shows the supply index records of one resource as of the
// last plan.
type GetSupplyQuery struct {
	resource kernel.ResourceID

	guard guard.ConstructorGuard
}

func NewGetSupplyQuery(resource string) (GetSupplyQuery, error) {
	r, err := kernel.NewResourceID(resource)
	if err != nil {
		return GetSupplyQuery{}, err
	}
	return GetSupplyQuery{resource: r, guard: guard.NewConstructorGuard()}, nil
}

func (q GetSupplyQuery) Validate() error {
	return q.guard.Validate(ErrGetSupplyQueryIsNotConstructed)
}

func (q GetSupplyQuery) Resource() kernel.ResourceID {
	return q.resource
}

type GetSupplyQueryResponse struct {
	ID        string `json:"id"`
	Entity    string `json:"entity"`
	Available int    `json:"available"`
	Reserved  int    `json:"reserved"`
	Free      int    `json:"free"`
}

type GetSupplyQueryHandler struct {
	reader TransportReader
}

func NewGetSupplyQueryHandler(reader TransportReader) GetSupplyQueryHandler {
	return GetSupplyQueryHandler{reader: reader}
}

// Handle lists records in planning order.
func (h GetSupplyQueryHandler) Handle(_ context.Context, query GetSupplyQuery) ([]GetSupplyQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	records := make([]GetSupplyQueryResponse, 0)
	for _, s := range h.reader.Supply(query.Resource()) {
		records = append(records, GetSupplyQueryResponse{
			ID:        s.ID,
			Entity:    s.Entity.String(),
			Available: s.Available,
			Reserved:  s.Reserved,
			Free:      s.Free,
		})
	}
	return records, nil
}
