package commands_test

import (
	"context"

	"logistics/internal/core/application/coordinator"
	"logistics/internal/core/application/persistence"
	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/domain/model/snapshot"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockTransport struct{ mock.Mock }

func (m *MockTransport) AcceptDeliveryOrder(ctx context.Context, demand deliveryorder.Demand, target kernel.EntityRef) services.Result {
	args := m.Called(ctx, demand, target)
	return args.Get(0).(services.Result)
}

func (m *MockTransport) RefreshOrders(demands []deliveryorder.Demand) error {
	args := m.Called(demands)
	return args.Error(0)
}

func (m *MockTransport) RequestTransport(source, target kernel.EntityRef, resource kernel.ResourceID) error {
	args := m.Called(source, target, resource)
	return args.Error(0)
}

func (m *MockTransport) AddRoute(
	supplier, consumer kernel.EntityRef,
	resource kernel.ResourceID,
	period float64,
	capacity int,
) (route.ID, error) {
	args := m.Called(supplier, consumer, resource, period, capacity)
	return args.Get(0).(route.ID), args.Error(1)
}

func (m *MockTransport) RemoveRoute(id route.ID) bool {
	return m.Called(id).Bool(0)
}

func (m *MockTransport) EntityDestroyed(ctx context.Context, ref kernel.EntityRef) []*job.Job {
	args := m.Called(ctx, ref)
	jobs, _ := args.Get(0).([]*job.Job)
	return jobs
}

func (m *MockTransport) RoadNetworkChanged(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockTransport) FailJob(id job.ID) bool {
	return m.Called(id).Bool(0)
}

func (m *MockTransport) Tick(ctx context.Context, dt float64) coordinator.TickReport {
	args := m.Called(ctx, dt)
	return args.Get(0).(coordinator.TickReport)
}

func (m *MockTransport) Save(ctx context.Context, store ports.SnapshotStore, slot string) error {
	args := m.Called(ctx, store, slot)
	return args.Error(0)
}

func (m *MockTransport) Load(ctx context.Context, store ports.SnapshotStore, slot string) (persistence.RestoreReport, error) {
	args := m.Called(ctx, store, slot)
	return args.Get(0).(persistence.RestoreReport), args.Error(1)
}

type MockSnapshotStore struct{ mock.Mock }

func (m *MockSnapshotStore) Save(ctx context.Context, slot string, snap snapshot.Snapshot) error {
	return m.Called(ctx, slot, snap).Error(0)
}

func (m *MockSnapshotStore) Load(ctx context.Context, slot string) (snapshot.Snapshot, error) {
	args := m.Called(ctx, slot)
	return args.Get(0).(snapshot.Snapshot), args.Error(1)
}

func (m *MockSnapshotStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	slots, _ := args.Get(0).([]string)
	return slots, args.Error(1)
}
