package coordinator_test

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"logistics/internal/adapters/out/memworld"
	"logistics/internal/core/application/coordinator"
	"logistics/internal/core/application/events"
	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/services"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type planningContext struct {
	world    *memworld.World
	coord    *coordinator.Coordinator
	result   services.Result
	failures map[job.ID]int
	sub      events.Subscription
}

func (pc *planningContext) reset() error {
	pc.sub.Cancel()
	pc.world = memworld.NewWorld()
	pc.world.MarkReady()
	pc.result = services.Result{}
	pc.failures = make(map[job.ID]int)

	c, err := coordinator.New(testSettings(), coordinator.Dependencies{
		Registry: pc.world,
		Roads:    memworld.StraightRoads{},
		Economy:  memworld.NewEconomy(decimal.NewFromInt(1000)),
	})
	if err != nil {
		return err
	}
	if err := c.Attach(context.Background(), pc.world); err != nil {
		return err
	}
	pc.coord = c
	pc.sub = c.Events().OnJobFailed(func(j *job.Job) { pc.failures[j.ID()]++ })
	return nil
}

// Given steps

func (pc *planningContext) aBuildingHolding(name string, x, y float64, qty int, resource string) error {
	_, err := pc.world.AddBuilding(name, kernel.MustNewPosition(x, y), 0,
		map[kernel.ResourceID]int{kernel.ResourceID(resource): qty})
	return err
}

func (pc *planningContext) aCity(name string, x, y float64) error {
	pc.world.AddCity(name, kernel.MustNewPosition(x, y))
	return nil
}

func (pc *planningContext) ticksPass(n int) error {
	for range n {
		pc.coord.Tick(context.Background(), 1)
	}
	return nil
}

// When steps

func (pc *planningContext) orderAsksFor(id int64, qty int, resource, destination string) error {
	dst, err := pc.find(destination)
	if err != nil {
		return err
	}
	pc.result = pc.coord.AcceptDeliveryOrder(context.Background(), deliveryorder.Demand{
		OrderID:      kernel.OrderID(id),
		Resource:     kernel.ResourceID(resource),
		ProductName:  resource,
		Total:        qty,
		Remaining:    qty,
		PricePerUnit: decimal.NewFromInt(1),
	}, dst.Ref())
	return nil
}

func (pc *planningContext) jobFails(id int64) error {
	if !pc.coord.FailJob(job.ID(id)) {
		return fmt.Errorf("job %d is not live", id)
	}
	return nil
}

func (pc *planningContext) isDestroyed(name string) error {
	b, err := pc.find(name)
	if err != nil {
		return err
	}
	pc.coord.EntityDestroyed(context.Background(), b.Ref())
	return pc.world.Remove(b.Ref())
}

// Then steps

func (pc *planningContext) planningSucceedsWithJobs(n int) error {
	if !pc.result.Success {
		return fmt.Errorf("planning failed: %s", pc.result.Message)
	}
	if len(pc.result.Jobs) != n {
		return fmt.Errorf("expected %d jobs, got %d", n, len(pc.result.Jobs))
	}
	return nil
}

func (pc *planningContext) planningFailsWith(reason string) error {
	if pc.result.Success {
		return fmt.Errorf("expected planning to fail with %s", reason)
	}
	if string(pc.result.Reason) != reason {
		return fmt.Errorf("expected reason %s, got %s", reason, pc.result.Reason)
	}
	return nil
}

func (pc *planningContext) jobCarriesFrom(id int64, qty int, supplier string) error {
	j, ok := pc.coord.Job(job.ID(id))
	if !ok {
		return fmt.Errorf("job %d not found", id)
	}
	b, err := pc.find(supplier)
	if err != nil {
		return err
	}
	if !j.Supplier.IsEqual(b.Ref()) {
		return fmt.Errorf("job %d comes from %s, not %s", id, j.Supplier, supplier)
	}
	if j.Quantity != qty {
		return fmt.Errorf("job %d carries %d, expected %d", id, j.Quantity, qty)
	}
	return nil
}

func (pc *planningContext) everyJobCarries(qty int) error {
	for _, j := range pc.coord.Jobs() {
		if j.Quantity != qty {
			return fmt.Errorf("job %d carries %d, expected %d", j.ID, j.Quantity, qty)
		}
	}
	return nil
}

func (pc *planningContext) supplyShows(resource, name string, reserved, free int) error {
	b, err := pc.find(name)
	if err != nil {
		return err
	}
	for _, s := range pc.coord.Supply(kernel.ResourceID(resource)) {
		if !s.Entity.IsEqual(b.Ref()) {
			continue
		}
		if s.Reserved != reserved || s.Free != free {
			return fmt.Errorf("%s shows %d reserved and %d free, expected %d and %d",
				name, s.Reserved, s.Free, reserved, free)
		}
		return nil
	}
	return fmt.Errorf("no %s supply record for %s", resource, name)
}

func (pc *planningContext) orderHasReserved(id int64, reserved int) error {
	o, err := pc.order(id)
	if err != nil {
		return err
	}
	if o.Reserved != reserved {
		return fmt.Errorf("order %d has %d reserved, expected %d", id, o.Reserved, reserved)
	}
	return nil
}

func (pc *planningContext) orderStillHasRemaining(id int64, remaining int) error {
	o, err := pc.order(id)
	if err != nil {
		return err
	}
	if o.Remaining != remaining {
		return fmt.Errorf("order %d has %d remaining, expected %d", id, o.Remaining, remaining)
	}
	return nil
}

func (pc *planningContext) orderHasNoJobs(id int64) error {
	o, err := pc.order(id)
	if err != nil {
		return err
	}
	if len(o.JobIDs) > 0 {
		return fmt.Errorf("order %d lists jobs %v", id, o.JobIDs)
	}
	return nil
}

func (pc *planningContext) orderNoLongerListsJob(id, jobID int64) error {
	o, err := pc.order(id)
	if err != nil {
		return err
	}
	if slices.Contains(o.JobIDs, job.ID(jobID)) {
		return fmt.Errorf("order %d still lists job %d", id, jobID)
	}
	return nil
}

func (pc *planningContext) jobIsInTransit(id int64) error {
	return pc.jobHasStatus(id, job.InTransit)
}

func (pc *planningContext) jobIsQueued(id int64) error {
	if err := pc.jobHasStatus(id, job.Planned); err != nil {
		return err
	}
	if !slices.Contains(pc.coord.QueueOrder(), job.ID(id)) {
		return fmt.Errorf("job %d is not in the queue", id)
	}
	return nil
}

func (pc *planningContext) replanningIsRequested() error {
	if !pc.coord.NeedsReplanning() {
		return fmt.Errorf("replanning was not requested")
	}
	return nil
}

func (pc *planningContext) holds(name string, qty int, resource string) error {
	b, err := pc.find(name)
	if err != nil {
		return err
	}
	if got := b.Stock().Get(kernel.ResourceID(resource)); got != qty {
		return fmt.Errorf("%s holds %d %s, expected %d", name, got, resource, qty)
	}
	return nil
}

func (pc *planningContext) jobFailedExactlyOnce(id int64) error {
	if n := pc.failures[job.ID(id)]; n != 1 {
		return fmt.Errorf("job %d failed %d times", id, n)
	}
	return nil
}

func (pc *planningContext) thereAreNoJobs() error {
	if jobs := pc.coord.Jobs(); len(jobs) > 0 {
		return fmt.Errorf("%d jobs are still live", len(jobs))
	}
	return nil
}

// Helpers

func (pc *planningContext) find(name string) (*memworld.Building, error) {
	b, ok := pc.world.FindByName(name)
	if !ok {
		return nil, fmt.Errorf("no building named %q", name)
	}
	return b, nil
}

func (pc *planningContext) order(id int64) (coordinator.OrderView, error) {
	o, ok := pc.coord.Order(kernel.OrderID(id))
	if !ok {
		return coordinator.OrderView{}, fmt.Errorf("order %d not found", id)
	}
	return o, nil
}

func (pc *planningContext) jobHasStatus(id int64, want job.Status) error {
	j, ok := pc.coord.Job(job.ID(id))
	if !ok {
		return fmt.Errorf("job %d not found", id)
	}
	if j.Status != want {
		return fmt.Errorf("job %d is %s, expected %s", id, j.Status, want)
	}
	return nil
}

func InitializePlanningScenario(ctx *godog.ScenarioContext) {
	pc := &planningContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, pc.reset()
	})

	ctx.Step(`^a building "([^"]*)" at (-?\d+),(-?\d+) holding (\d+) "([^"]*)"$`, pc.aBuildingHolding)
	ctx.Step(`^a city "([^"]*)" at (-?\d+),(-?\d+)$`, pc.aCity)
	ctx.Step(`^(\d+) ticks? pass(?:es)?$`, pc.ticksPass)
	ctx.Step(`^order (\d+) asks for (\d+) "([^"]*)" at "([^"]*)"$`, pc.orderAsksFor)
	ctx.Step(`^job (\d+) fails$`, pc.jobFails)
	ctx.Step(`^"([^"]*)" is destroyed$`, pc.isDestroyed)

	ctx.Step(`^planning succeeds with (\d+) jobs$`, pc.planningSucceedsWithJobs)
	ctx.Step(`^planning fails with "([^"]*)"$`, pc.planningFailsWith)
	ctx.Step(`^job (\d+) carries (\d+) from "([^"]*)"$`, pc.jobCarriesFrom)
	ctx.Step(`^every job carries (\d+)$`, pc.everyJobCarries)
	ctx.Step(`^the supply of "([^"]*)" at "([^"]*)" shows (\d+) reserved and (\d+) free$`, pc.supplyShows)
	ctx.Step(`^order (\d+) has (\d+) reserved$`, pc.orderHasReserved)
	ctx.Step(`^order (\d+) still has (\d+) remaining$`, pc.orderStillHasRemaining)
	ctx.Step(`^order (\d+) has no jobs$`, pc.orderHasNoJobs)
	ctx.Step(`^order (\d+) no longer lists job (\d+)$`, pc.orderNoLongerListsJob)
	ctx.Step(`^job (\d+) is in transit$`, pc.jobIsInTransit)
	ctx.Step(`^job (\d+) is queued$`, pc.jobIsQueued)
	ctx.Step(`^replanning is requested$`, pc.replanningIsRequested)
	ctx.Step(`^"([^"]*)" holds (\d+) "([^"]*)"$`, pc.holds)
	ctx.Step(`^job (\d+) failed exactly once$`, pc.jobFailedExactlyOnce)
	ctx.Step(`^there are no jobs$`, pc.thereAreNoJobs)
}

func TestPlanningFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializePlanningScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
