package coordinator_test

import (
	"context"
	"testing"
	"time"

	"logistics/internal/adapters/out/memworld"
	"logistics/internal/core/application/coordinator"
	"logistics/internal/core/application/events"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/snapshot"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("should reject missing registry and bad settings", func(t *testing.T) {
		s := testSettings()
		s.CarrierCapacity = 0
		s.CarrierSpeed = -1

		_, err := coordinator.New(s, coordinator.Dependencies{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "carrier capacity")
		assert.Contains(t, err.Error(), "carrier speed")
	})
}

func TestCoordinator_Attach(t *testing.T) {
	t.Run("should do nothing before attach", func(t *testing.T) {
		w := memworld.NewWorld()
		c, err := coordinator.New(testSettings(), coordinator.Dependencies{Registry: w})
		require.NoError(t, err)
		city := w.AddCity("town", kernel.MustNewPosition(320, 0))

		result := c.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), city.Ref())

		assert.False(t, result.Success)
		assert.Equal(t, services.ReasonNotReady, result.Reason)
		assert.Equal(t, coordinator.TickReport{}, c.Tick(t.Context(), 1))
	})

	t.Run("should give up when the context ends first", func(t *testing.T) {
		w := memworld.NewWorld()
		c, err := coordinator.New(testSettings(), coordinator.Dependencies{Registry: w})
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err = c.Attach(ctx, w)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("should wait for the registry to become ready", func(t *testing.T) {
		w := memworld.NewWorld()
		c, err := coordinator.New(testSettings(), coordinator.Dependencies{Registry: w})
		require.NoError(t, err)
		go func() {
			time.Sleep(10 * time.Millisecond)
			w.MarkReady()
		}()

		require.NoError(t, c.Attach(t.Context(), w))
		require.NoError(t, c.Attach(t.Context(), w))
	})

	t.Run("should stop ticking after detach", func(t *testing.T) {
		f := newFixture(t)
		f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		city := f.city("town", 320, 0)
		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), city.Ref()).Success)

		f.coord.Detach()

		assert.Zero(t, f.tick(1).Dispatched)
		assert.Empty(t, f.coord.Carriers())
	})
}

func TestCoordinator_AcceptDeliveryOrder(t *testing.T) {
	t.Run("should plan from the nearest supplier first", func(t *testing.T) {
		f := newFixture(t)
		far := f.building(t, "far bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		near := f.building(t, "near bakery", 300, 0, map[kernel.ResourceID]int{"bread": 15})
		city := f.city("town", 320, 0)

		result := f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 20), city.Ref())

		require.True(t, result.Success, result.Message)
		require.Len(t, result.Jobs, 3)
		assert.True(t, result.Jobs[0].Supplier().IsEqual(near.Ref()))
		assert.Equal(t, 10, result.Jobs[0].Quantity())
		assert.True(t, result.Jobs[1].Supplier().IsEqual(near.Ref()))
		assert.Equal(t, 5, result.Jobs[1].Quantity())
		assert.True(t, result.Jobs[2].Supplier().IsEqual(far.Ref()))
		assert.Equal(t, 5, result.Jobs[2].Quantity())

		o, ok := f.coord.Order(1)
		require.True(t, ok)
		assert.True(t, o.Accepted)
		assert.True(t, o.Destination.IsEqual(city.Ref()))
		assert.True(t, f.coord.NeedsReplanning())
	})

	t.Run("should price jobs by straight line", func(t *testing.T) {
		f := newFixture(t)
		f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		city := f.city("town", 320, 0)

		result := f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 30), city.Ref())

		require.True(t, result.Success)
		// 10 tiles x 1 per tile x 10 units + 5 fixed, three times.
		assert.True(t, result.TotalCost.Equal(decimal.NewFromInt(315)), result.TotalCost.String())
	})

	t.Run("should reject without accepting when stock is short", func(t *testing.T) {
		f := newFixture(t)
		f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		city := f.city("town", 320, 0)

		result := f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 100), city.Ref())

		assert.False(t, result.Success)
		assert.Equal(t, services.ReasonInsufficientStock, result.Reason)
		assert.Equal(t, "insufficient stock: needed 100, available 40", result.Message)
		assert.Empty(t, f.coord.Jobs())
		o, ok := f.coord.Order(1)
		require.True(t, ok)
		assert.False(t, o.Accepted)
		assert.Equal(t, 100, o.Remaining)
	})

	t.Run("should fail without suppliers", func(t *testing.T) {
		f := newFixture(t)
		city := f.city("town", 320, 0)

		result := f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), city.Ref())

		assert.Equal(t, services.ReasonNoSuppliers, result.Reason)
	})

	t.Run("should reject an unknown destination", func(t *testing.T) {
		f := newFixture(t)
		f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})

		result := f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), kernel.CityRef(kernel.NewUUID()))

		assert.Equal(t, services.ReasonInvalidRequest, result.Reason)
		assert.Empty(t, f.coord.Jobs())
	})

	t.Run("should never draw from the destination itself", func(t *testing.T) {
		f := newFixture(t)
		depot := f.building(t, "depot", 0, 0, map[kernel.ResourceID]int{"bread": 40})

		result := f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), depot.Ref())

		assert.Equal(t, services.ReasonNoSuppliers, result.Reason)
	})
}

func TestCoordinator_Delivery(t *testing.T) {
	t.Run("should deliver an order to a city end to end", func(t *testing.T) {
		f := newFixture(t)
		bakery := f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		city := f.city("town", 320, 0)
		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 30), city.Ref()).Success)

		report := f.tick(1)

		assert.Equal(t, 3, report.Dispatched)
		assert.Len(t, f.coord.Carriers(), 3)
		assert.Equal(t, 10, bakery.Stock().Get("bread"))
		for _, j := range f.coord.Jobs() {
			assert.Equal(t, job.InTransit, j.Status)
			assert.NotNil(t, j.Carrier)
		}

		report = f.tick(4)

		assert.Equal(t, 3, report.Arrived)
		assert.Empty(t, f.coord.Carriers(), "cities get no return leg")
		assert.Empty(t, f.coord.Jobs())
		o, ok := f.coord.Order(1)
		require.True(t, ok)
		assert.Equal(t, 0, o.Remaining)
		assert.Empty(t, o.JobIDs)
		assert.Equal(t, "Completed", o.Status.String())
		// 1000 - 315 transport + 30 x 2 sales.
		assert.True(t, f.economy.Balance().Equal(decimal.NewFromInt(745)), f.economy.Balance().String())
	})

	t.Run("should send the carrier back empty between buildings", func(t *testing.T) {
		f := newFixture(t)
		bakery := f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		shop := f.building(t, "shop", 200, 0, nil)
		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), shop.Ref()).Success)

		f.tick(3)

		assert.Equal(t, 10, shop.Stock().Get("bread"))
		carriers := f.coord.Carriers()
		require.Len(t, carriers, 1)
		assert.True(t, carriers[0].ReturnLeg)
		assert.Zero(t, carriers[0].Quantity)
		assert.True(t, carriers[0].To.IsEqual(bakery.Ref()))

		f.tick(2)

		assert.Empty(t, f.coord.Carriers())
		assert.Equal(t, 30, bakery.Stock().Get("bread"))
	})

	t.Run("should publish lifecycle events in order", func(t *testing.T) {
		f := newFixture(t)
		f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		city := f.city("town", 100, 0)
		var kinds []string
		sub := f.coord.Events().Subscribe(nil, func(e events.Event) { kinds = append(kinds, e.Kind.String()) })
		defer sub.Cancel()

		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), city.Ref()).Success)
		f.tick(2)

		assert.Equal(t, []string{"job_planned", "job_started", "job_completed"}, kinds)
	})
}

func TestCoordinator_FailureCompensation(t *testing.T) {
	t.Run("should release the reservation of a job that never left", func(t *testing.T) {
		f := newFixture(t)
		f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		city := f.city("town", 320, 0)
		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 20), city.Ref()).Success)

		require.True(t, f.coord.FailJob(1))

		o, _ := f.coord.Order(1)
		assert.Equal(t, []job.ID{2}, o.JobIDs)
		assert.Equal(t, 20, o.Remaining)
		assert.Equal(t, 10, o.Reserved)
		supply := f.coord.Supply("bread")
		require.Len(t, supply, 1)
		assert.Equal(t, 10, supply[0].Reserved)
		assert.True(t, f.coord.NeedsReplanning())

		report := f.tick(1)

		assert.Equal(t, 2, report.Dispatched)
		var ids []job.ID
		for _, j := range f.coord.Jobs() {
			ids = append(ids, j.ID)
		}
		assert.Equal(t, []job.ID{2, 3}, ids)
	})

	t.Run("should return the cargo of a job on the road", func(t *testing.T) {
		f := newFixture(t)
		bakery := f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		city := f.city("town", 320, 0)
		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), city.Ref()).Success)
		f.tick(2)
		require.Equal(t, 30, bakery.Stock().Get("bread"))

		require.True(t, f.coord.FailJob(1))

		assert.Empty(t, f.coord.Carriers())
		assert.Equal(t, 40, bakery.Stock().Get("bread"))
		o, _ := f.coord.Order(1)
		assert.Equal(t, 10, o.Remaining)
		assert.Equal(t, "Open", o.Status.String())

		f.tick(1)

		assert.Len(t, f.coord.Carriers(), 1, "accepted orders are replanned")
	})

	t.Run("should fail a job whose supplier ran short", func(t *testing.T) {
		f := newFixture(t)
		bakery := f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 10})
		city := f.city("town", 320, 0)
		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), city.Ref()).Success)
		bakery.Stock().Consume("bread", 5)

		report := f.tick(1)

		assert.Zero(t, report.Dispatched)
		assert.Empty(t, f.coord.Jobs())
		assert.Equal(t, 5, bakery.Stock().Get("bread"))
		assert.True(t, f.coord.NeedsReplanning())

		f.tick(1)

		assert.Empty(t, f.coord.Jobs(), "5 units cannot cover 10")
		assert.False(t, f.coord.NeedsReplanning())
	})

	t.Run("should isolate faults of the world", func(t *testing.T) {
		reg := &explodingRegistry{}
		f := newFixtureWith(t, fixtureOptions{registry: reg})
		reg.World = f.world
		f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		city := f.city("town", 320, 0)
		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), city.Ref()).Success)

		reg.explode = true
		result := f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(2, 10), city.Ref())
		report := f.tick(1)

		assert.Equal(t, services.ReasonInternal, result.Reason)
		assert.GreaterOrEqual(t, report.Faults, 1)
		assert.Empty(t, f.coord.Jobs(), "the job that could not be dispatched failed")
	})
}

func TestCoordinator_Routes(t *testing.T) {
	t.Run("should keep one round trip per route", func(t *testing.T) {
		f := newFixture(t)
		farm := f.building(t, "farm", 0, 0, map[kernel.ResourceID]int{"wheat": 20})
		mill := f.building(t, "mill", 100, 0, nil)
		id, err := f.coord.AddRoute(farm.Ref(), mill.Ref(), "wheat", 2, 5)
		require.NoError(t, err)

		f.tick(1)
		assert.Empty(t, f.coord.Carriers())

		f.tick(1)
		assert.Equal(t, 15, farm.Stock().Get("wheat"))
		assert.True(t, f.coord.Routes()[0].InTransit)

		f.tick(1)
		assert.Equal(t, 5, mill.Stock().Get("wheat"))
		assert.True(t, f.coord.Routes()[0].InTransit, "the empty leg is still out")
		assert.Equal(t, 15, farm.Stock().Get("wheat"))

		f.tick(1)
		assert.Equal(t, 10, farm.Stock().Get("wheat"), "next trip leaves once the carrier is back")

		assert.True(t, f.coord.RemoveRoute(id))
		assert.False(t, f.coord.RemoveRoute(id))
		assert.Empty(t, f.coord.Routes())
	})

	t.Run("should not ship stock promised to jobs", func(t *testing.T) {
		f := newFixture(t)
		farm := f.building(t, "farm", 0, 0, map[kernel.ResourceID]int{"bread": 10})
		mill := f.building(t, "mill", 100, 0, nil)
		city := f.city("town", 320, 0)
		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), city.Ref()).Success)
		_, err := f.coord.AddRoute(farm.Ref(), mill.Ref(), "bread", 1, 5)
		require.NoError(t, err)

		f.tick(1)

		carriers := f.coord.Carriers()
		require.Len(t, carriers, 1)
		assert.Equal(t, job.ID(1), carriers[0].JobID)
		assert.False(t, f.coord.Routes()[0].InTransit)
	})

	t.Run("should validate endpoints", func(t *testing.T) {
		f := newFixture(t)
		farm := f.building(t, "farm", 0, 0, nil)

		_, err := f.coord.AddRoute(farm.Ref(), farm.Ref(), "wheat", 2, 5)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = f.coord.AddRoute(farm.Ref(), kernel.BuildingRef(kernel.NewUUID()), "wheat", 2, 5)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestCoordinator_RequestTransport(t *testing.T) {
	t.Run("should move the largest holding capped by the target", func(t *testing.T) {
		f := newFixture(t)
		bakery := f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 30, "flour": 12})
		shop, err := f.world.AddBuilding("shop", kernel.MustNewPosition(100, 0), 8, nil)
		require.NoError(t, err)

		require.NoError(t, f.coord.RequestTransport(bakery.Ref(), shop.Ref(), ""))
		report := f.tick(1)

		assert.Equal(t, 1, report.Dispatched)
		carriers := f.coord.Carriers()
		require.Len(t, carriers, 1)
		assert.Equal(t, kernel.ResourceID("bread"), carriers[0].Resource)
		assert.Equal(t, 8, carriers[0].Quantity)
		assert.Zero(t, carriers[0].JobID)
		assert.Equal(t, 22, bakery.Stock().Get("bread"))
	})

	t.Run("should validate endpoints", func(t *testing.T) {
		f := newFixture(t)
		bakery := f.building(t, "bakery", 0, 0, nil)

		require.ErrorIs(t, f.coord.RequestTransport(kernel.NoEntity(), bakery.Ref(), ""), errs.ErrValueIsRequired)
		require.ErrorIs(t, f.coord.RequestTransport(bakery.Ref(), bakery.Ref(), ""), errs.ErrValueIsInvalid)
		require.ErrorIs(t, f.coord.RequestTransport(bakery.Ref(), kernel.CityRef(kernel.NewUUID()), ""), errs.ErrObjectNotFound)
	})
}

func TestCoordinator_EntityDestroyed(t *testing.T) {
	t.Run("should drop routes and manual requests touching the entity", func(t *testing.T) {
		f := newFixture(t)
		farm := f.building(t, "farm", 0, 0, map[kernel.ResourceID]int{"wheat": 20})
		mill := f.building(t, "mill", 100, 0, nil)
		_, err := f.coord.AddRoute(farm.Ref(), mill.Ref(), "wheat", 1, 5)
		require.NoError(t, err)
		require.NoError(t, f.coord.RequestTransport(farm.Ref(), mill.Ref(), "wheat"))

		f.coord.EntityDestroyed(t.Context(), mill.Ref())
		require.NoError(t, f.world.Remove(mill.Ref()))
		f.tick(1)

		assert.Empty(t, f.coord.Routes())
		assert.Empty(t, f.coord.Carriers())
		assert.Equal(t, 20, farm.Stock().Get("wheat"))
	})
}

func TestCoordinator_RoadNetworkChanged(t *testing.T) {
	t.Run("should reroute carriers from where they stand", func(t *testing.T) {
		roads := memworld.NewGridRoads(32)
		f := newFixtureWith(t, fixtureOptions{roads: roads})
		f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		city := f.city("town", 320, 320)
		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 10), city.Ref()).Success)
		f.tick(2)
		carriers := f.coord.Carriers()
		require.Len(t, carriers, 1)
		require.Equal(t, []kernel.Position{kernel.MustNewPosition(320, 0)}, carriers[0].Waypoints)

		roads.Close(kernel.MustNewPosition(320, 0))
		f.coord.RoadNetworkChanged(t.Context())

		carriers = f.coord.Carriers()
		require.Len(t, carriers, 1)
		assert.Empty(t, carriers[0].Waypoints, "no road left, drive straight")
		assert.True(t, carriers[0].Position.IsEqual(kernel.MustNewPosition(100, 0)))
		assert.True(t, f.coord.NeedsReplanning())
	})
}

func TestCoordinator_SaveLoad(t *testing.T) {
	t.Run("should requeue every job after a load", func(t *testing.T) {
		f := newFixture(t)
		bakery := f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		shop := f.building(t, "shop", 100, 0, nil)
		city := f.city("town", 320, 0)
		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 20), city.Ref()).Success)
		_, err := f.coord.AddRoute(bakery.Ref(), shop.Ref(), "bread", 5, 5)
		require.NoError(t, err)
		f.tick(1)
		store := newMemStore()

		require.NoError(t, f.coord.Save(t.Context(), store, "slot-1"))
		report, err := f.coord.Load(t.Context(), store, "slot-1")

		require.NoError(t, err)
		assert.Equal(t, 2, report.Jobs)
		assert.Equal(t, 1, report.Orders)
		assert.Empty(t, f.coord.Carriers())
		for _, j := range f.coord.Jobs() {
			assert.Equal(t, job.Planned, j.Status)
			assert.Nil(t, j.Carrier)
		}
		assert.Equal(t, []job.ID{1, 2}, f.coord.QueueOrder())
		routes := f.coord.Routes()
		require.Len(t, routes, 1)
		assert.False(t, routes[0].InTransit)
		assert.True(t, f.coord.NeedsReplanning())
		assert.False(t, store.slots["slot-1"].SavedAt.IsZero())
	})

	t.Run("should report a missing slot", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.coord.Load(t.Context(), newMemStore(), "nope")

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should keep state when the snapshot is too new", func(t *testing.T) {
		f := newFixture(t)
		f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
		city := f.city("town", 320, 0)
		require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 20), city.Ref()).Success)
		store := newMemStore()
		store.slots["future"] = snapshot.Snapshot{SchemaVersion: snapshot.SchemaVersion + 1}

		_, err := f.coord.Load(t.Context(), store, "future")

		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
		assert.Len(t, f.coord.Jobs(), 2)
	})
}

func TestCoordinator_Metrics(t *testing.T) {
	m := &MetricsMock{}
	m.On("JobPlanned", "bread").Return()
	m.On("JobStarted", "bread").Return()
	m.On("PlanRejected", "insufficient_stock").Return()
	m.On("CarriersActive", mock.Anything).Return()
	m.On("TickObserved", mock.Anything).Return()
	f := newFixtureWith(t, fixtureOptions{metrics: m})
	f.building(t, "bakery", 0, 0, map[kernel.ResourceID]int{"bread": 40})
	city := f.city("town", 320, 0)

	require.True(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(1, 20), city.Ref()).Success)
	require.False(t, f.coord.AcceptDeliveryOrder(t.Context(), breadOrder(2, 90), city.Ref()).Success)
	f.tick(1)

	m.AssertNumberOfCalls(t, "JobPlanned", 2)
	m.AssertNumberOfCalls(t, "JobStarted", 2)
	m.AssertCalled(t, "PlanRejected", "insufficient_stock")
	m.AssertCalled(t, "CarriersActive", 2)
}

type MetricsMock struct{ mock.Mock }

func (m *MetricsMock) JobPlanned(resource string) { m.Called(resource) }
func (m *MetricsMock) JobStarted(resource string) { m.Called(resource) }
func (m *MetricsMock) JobCompleted(resource string, delivered int) { m.Called(resource, delivered) }
func (m *MetricsMock) JobFailed(resource string) { m.Called(resource) }
func (m *MetricsMock) PlanRejected(reason string) { m.Called(reason) }
func (m *MetricsMock) CarriersActive(n int) { m.Called(n) }
func (m *MetricsMock) TickObserved(d time.Duration) { m.Called(d) }
func (m *MetricsMock) FaultRecovered(phase string) { m.Called(phase) }

type explodingRegistry struct {
	*memworld.World
	explode bool
}

func (r *explodingRegistry) Lookup(ref kernel.EntityRef) (ports.Building, bool) {
	if r.explode {
		panic("registry exploded")
	}
	return r.World.Lookup(ref)
}

func (r *explodingRegistry) Holding(resource kernel.ResourceID) []ports.Building {
	if r.explode {
		panic("registry exploded")
	}
	return r.World.Holding(resource)
}
