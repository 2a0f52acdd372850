package service

import (
	"context"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/session"
)

// EventStore is the slice of the repository the services depend on.
type EventStore interface {
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Book(ctx context.Context, reg model.Registration, seats int) (*model.Event, error)
	ListRegistrations(ctx context.Context, eventID string) ([]model.Registration, error)
}

// SessionStore tracks signed-in users and their registration workflow.
type SessionStore interface {
	Get(token string) (model.Session, error)
	Begin(token, eventID string) error
	Abort(token, eventID string)
	RegisterForEvent(token string, reg model.Registration) (model.Registration, bool)
	State(token, eventID string) session.State
}

// RegistrationNotifier is told about every completed registration.
type RegistrationNotifier interface {
	NotifyRegistrationConfirmed(ctx context.Context, reg model.Registration, event model.Event)
}
