package memworld

import (
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// Seed describes a building placed at startup.
type Seed struct {
	Name            string
	Kind            string
	X, Y            float64
	CarrierCapacity int
	Stock           map[string]int
}

// Populate places every seed in order. Nothing is placed when any seed is invalid.
func (w *World) Populate(seeds []Seed) error {
	var errList []error
	for i, s := range seeds {
		if err := s.validate(); err != nil {
			errList = append(errList, fmt.Errorf("seed %d (%s): %w", i, s.Name, err))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	for _, s := range seeds {
		pos := kernel.MustNewPosition(s.X, s.Y)
		if kernel.ParseEntityKind(s.Kind) == kernel.EntityCity {
			w.AddCity(s.Name, pos)
			continue
		}
		stock := make(map[kernel.ResourceID]int, len(s.Stock))
		for r, qty := range s.Stock {
			stock[kernel.ResourceID(r)] = qty
		}
		if _, err := w.AddBuilding(s.Name, pos, s.CarrierCapacity, stock); err != nil {
			return err
		}
	}
	return nil
}

func (s Seed) validate() error {
	var errList []error
	if kernel.ParseEntityKind(s.Kind) == kernel.EntityNone {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not building or city", s.Kind)))
	}
	if _, err := kernel.NewPosition(s.X, s.Y); err != nil {
		errList = append(errList, err)
	}
	if s.CarrierCapacity < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("carrier capacity", fmt.Errorf("%d is negative", s.CarrierCapacity)))
	}
	for r, qty := range s.Stock {
		if _, err := kernel.NewResourceID(r); err != nil {
			errList = append(errList, err)
		}
		if qty < 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause("stock", fmt.Errorf("%s: %d is negative", r, qty)))
		}
	}
	return errors.Join(errList...)
}
