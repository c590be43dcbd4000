package queries

import (
	"context"
	"errors"
	"time"

	"logistics/internal/pkg/guard"

	"gorm.io/gorm"
)

var (
	ErrGetSavedSlotsQueryIsNotConstructed = errors.New(
		"GetSavedSlotsQuery must be created via NewGetSavedSlotsQuery constructor",
	)
)

// GetSavedSlotsQuery lists the slots held by the database snapshot store
// with their row counts, without loading any of them.
type GetSavedSlotsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetSavedSlotsQuery() GetSavedSlotsQuery {
	return GetSavedSlotsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetSavedSlotsQuery) Validate() error {
	return q.guard.Validate(ErrGetSavedSlotsQueryIsNotConstructed)
}

type GetSavedSlotsQueryResponse struct {
	Name          string    `json:"name"`
	SchemaVersion int       `json:"schema_version"`
	SavedAt       time.Time `json:"saved_at"`
	Jobs          int       `json:"jobs"`
	Orders        int       `json:"orders"`
	Routes        int       `json:"routes"`
}

// GetSavedSlotsQueryHandler reads slot headers straight from the snapshot
// tables.
type GetSavedSlotsQueryHandler struct {
	db *gorm.DB
}

func NewGetSavedSlotsQueryHandler(db *gorm.DB) GetSavedSlotsQueryHandler {
	return GetSavedSlotsQueryHandler{db: db}
}

func (h GetSavedSlotsQueryHandler) Handle(
	ctx context.Context,
	query GetSavedSlotsQuery,
) ([]GetSavedSlotsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	slots := make([]GetSavedSlotsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.name,
			s.schema_version,
			s.saved_at,
			(SELECT COUNT(*) FROM snapshot_jobs j WHERE j.slot = s.name),
			(SELECT COUNT(*) FROM snapshot_orders o WHERE o.slot = s.name),
			(SELECT COUNT(*) FROM snapshot_routes r WHERE r.slot = s.name)
		FROM snapshot_slots s
		ORDER BY s.name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var slot GetSavedSlotsQueryResponse
		err = rows.Scan(
			&slot.Name,
			&slot.SchemaVersion,
			&slot.SavedAt,
			&slot.Jobs,
			&slot.Orders,
			&slot.Routes,
		)
		if err != nil {
			return nil, err
		}
		slot.SavedAt = slot.SavedAt.UTC()
		slots = append(slots, slot)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}
