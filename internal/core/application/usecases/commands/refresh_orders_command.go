package commands

import (
	"errors"
	"fmt"
	"slices"

	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/pkg/guard"
)

var ErrRefreshOrdersCommandIsNotConstructed = errors.New(
	"RefreshOrdersCommand must be created via NewRefreshOrdersCommand constructor",
)

// RefreshOrdersCommand carries the market's current demand list.
type RefreshOrdersCommand struct { //nolint:recvcheck //using for validation
	demands []deliveryorder.Demand

	guard guard.ConstructorGuard
}

// NewRefreshOrdersCommand rejects the list when any demand is invalid. Each
// error names the position of the offending demand.
func NewRefreshOrdersCommand(demands []deliveryorder.Demand) (RefreshOrdersCommand, error) {
	var errList []error
	for i, d := range demands {
		if err := d.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("demand %d: %w", i, err))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return RefreshOrdersCommand{}, err
	}

	return RefreshOrdersCommand{
		demands: slices.Clone(demands),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RefreshOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRefreshOrdersCommandIsNotConstructed)
}

func (c RefreshOrdersCommand) Demands() []deliveryorder.Demand {
	return slices.Clone(c.demands)
}
