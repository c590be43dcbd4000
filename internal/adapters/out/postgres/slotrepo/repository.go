package slotrepo

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/snapshot"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"gorm.io/gorm"
)

var _ ports.SlotRepository = (*Repository)(nil)

type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to db, which is either the base
// connection or an open transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Replace drops every row of the slot and inserts snap. Callers wrap it in
// a transaction so readers never observe a half-written slot.
func (r *Repository) Replace(ctx context.Context, slot string, snap snapshot.Snapshot) error {
	if slot == "" {
		return errs.NewValueIsRequiredError("slot")
	}

	out, err := fromDomain(slot, snap)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("snapshot", err)
	}

	db := r.db.WithContext(ctx)
	for _, model := range []any{&JobDTO{}, &OrderDTO{}, &RouteDTO{}} {
		if err := db.Where("slot = ?", slot).Delete(model).Error; err != nil {
			return err
		}
	}
	if err := db.Where("name = ?", slot).Delete(&SlotDTO{}).Error; err != nil {
		return err
	}

	if err := db.Create(&out.slot).Error; err != nil {
		return err
	}
	if len(out.jobs) > 0 {
		if err := db.Create(&out.jobs).Error; err != nil {
			return err
		}
	}
	if len(out.orders) > 0 {
		if err := db.Create(&out.orders).Error; err != nil {
			return err
		}
	}
	if len(out.routes) > 0 {
		if err := db.Create(&out.routes).Error; err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, slot string) (snapshot.Snapshot, error) {
	db := r.db.WithContext(ctx)

	var in rows
	if err := db.Where("name = ?", slot).First(&in.slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return snapshot.Snapshot{}, errs.NewObjectNotFoundError("slot", slot)
		}
		return snapshot.Snapshot{}, err
	}

	if err := db.Where("slot = ?", slot).Order("id").Find(&in.jobs).Error; err != nil {
		return snapshot.Snapshot{}, err
	}
	if err := db.Where("slot = ?", slot).Order("id").Find(&in.orders).Error; err != nil {
		return snapshot.Snapshot{}, err
	}
	if err := db.Where("slot = ?", slot).Order("id").Find(&in.routes).Error; err != nil {
		return snapshot.Snapshot{}, err
	}

	snap, err := toDomain(in)
	if err != nil {
		return snapshot.Snapshot{}, errs.NewValueIsInvalidErrorWithCause("slot "+slot, err)
	}
	return snap, nil
}

func (r *Repository) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&SlotDTO{}).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
