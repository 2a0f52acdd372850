package service

import (
	"context"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/stretchr/testify/mock"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyRegistrationConfirmed(ctx context.Context, reg model.Registration, event model.Event) {
	m.Called(ctx, reg, event)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]model.Event)
	return events, args.Error(1)
}

func (m *mockStore) GetByID(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	event, _ := args.Get(0).(*model.Event)
	return event, args.Error(1)
}

func (m *mockStore) Book(ctx context.Context, reg model.Registration, seats int) (*model.Event, error) {
	args := m.Called(ctx, reg, seats)
	event, _ := args.Get(0).(*model.Event)
	return event, args.Error(1)
}

func (m *mockStore) ListRegistrations(ctx context.Context, eventID string) ([]model.Registration, error) {
	args := m.Called(ctx, eventID)
	regs, _ := args.Get(0).([]model.Registration)
	return regs, args.Error(1)
}
