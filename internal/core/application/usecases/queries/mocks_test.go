package queries_test

import (
	"logistics/internal/core/application/coordinator"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/mock"
)

type MockTransportReader struct {
	mock.Mock
}

func (m *MockTransportReader) Jobs() []coordinator.JobView {
	args := m.Called()
	return args.Get(0).([]coordinator.JobView)
}

func (m *MockTransportReader) QueueOrder() []job.ID {
	args := m.Called()
	return args.Get(0).([]job.ID)
}

func (m *MockTransportReader) Orders() []coordinator.OrderView {
	args := m.Called()
	return args.Get(0).([]coordinator.OrderView)
}

func (m *MockTransportReader) Carriers() []coordinator.CarrierView {
	args := m.Called()
	return args.Get(0).([]coordinator.CarrierView)
}

func (m *MockTransportReader) Routes() []coordinator.RouteView {
	args := m.Called()
	return args.Get(0).([]coordinator.RouteView)
}

func (m *MockTransportReader) Supply(resource kernel.ResourceID) []coordinator.SupplyView {
	args := m.Called(resource)
	return args.Get(0).([]coordinator.SupplyView)
}
