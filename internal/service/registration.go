package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/config"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/pricing"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/Shivanand-hulikatti/eventhub/internal/session"
	"github.com/Shivanand-hulikatti/eventhub/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RegistrationResult is the outcome of a completed registration.
type RegistrationResult struct {
	Registration model.Registration `json:"registration"`
	Event        model.EventView    `json:"event"`
	Quote        pricing.Quote      `json:"quote"`
}

type outcome struct {
	result *RegistrationResult
	err    error
}

// RegistrationService runs the registration workflow:
// Unregistered -> Registering -> Registered.
type RegistrationService struct {
	store    EventStore
	sessions SessionStore
	notifier RegistrationNotifier
	log      *slog.Logger

	latency      time.Duration
	countTickets bool
	now          func() time.Time
}

// NewRegistrationService constructs a RegistrationService applying the
// latency and seat-counting settings of cfg.
func NewRegistrationService(
	store EventStore,
	sessions SessionStore,
	notifier RegistrationNotifier,
	log *slog.Logger,
	cfg config.RegistrationConfig,
) *RegistrationService {
	return &RegistrationService{
		store:        store,
		sessions:     sessions,
		notifier:     notifier,
		log:          log,
		latency:      cfg.Latency,
		countTickets: cfg.CountTickets,
		now:          time.Now,
	}
}

// Quote prices the requested tickets after clamping them to what the event
// can still sell.
func (s *RegistrationService) Quote(ctx context.Context, eventID string, tickets int) (pricing.Quote, error) {
	event, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("get event: %w", err)
	}
	return pricing.For(event.Price, tickets, event.Remaining()), nil
}

// State reports where the session stands for eventID.
func (s *RegistrationService) State(token, eventID string) session.State {
	return s.sessions.State(token, eventID)
}

// Register books tickets for the session behind token.
//
// The booking is applied after the configured latency by a callback that is
// detached from ctx: if the caller gives up first, Register returns ctx's
// error but the registration still completes.
func (s *RegistrationService) Register(ctx context.Context, token, eventID string, requested int) (*RegistrationResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "registration.register")
	defer span.End()
	span.SetAttributes(
		attribute.String("event.id", eventID),
		attribute.Int("registration.requested", requested),
	)

	sess, err := s.sessions.Get(token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, model.ErrLoginRequired
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	event, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	tickets := pricing.ClampTickets(requested, event.Remaining())
	if tickets == 0 {
		return nil, repository.ErrSoldOut
	}
	span.SetAttributes(attribute.Int("registration.tickets", tickets))

	if err := s.sessions.Begin(token, eventID); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, model.ErrLoginRequired
		}
		return nil, err
	}

	done := make(chan outcome, 1)
	detached := context.WithoutCancel(ctx)
	time.AfterFunc(s.latency, func() {
		done <- s.complete(detached, token, sess.Email, eventID, tickets)
	})

	select {
	case out := <-done:
		if out.err != nil {
			span.RecordError(out.err)
			span.SetStatus(codes.Error, out.err.Error())
		}
		return out.result, out.err
	case <-ctx.Done():
		s.log.WarnContext(ctx, "client left before registration completed",
			slog.String("event_id", eventID),
			slog.String("user_email", sess.Email),
		)
		return nil, ctx.Err()
	}
}

func (s *RegistrationService) complete(ctx context.Context, token, email, eventID string, tickets int) outcome {
	// Seats may have gone while waiting, so the count is clamped again
	// against the event as it is now. Book re-checks under its own lock.
	event, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		s.sessions.Abort(token, eventID)
		if errors.Is(err, repository.ErrNotFound) {
			return outcome{err: repository.ErrNotFound}
		}
		return outcome{err: fmt.Errorf("get event: %w", err)}
	}
	tickets = pricing.ClampTickets(tickets, event.Remaining())
	if tickets == 0 {
		s.sessions.Abort(token, eventID)
		return outcome{err: repository.ErrSoldOut}
	}

	reg := model.Registration{
		ID:          uuid.New().String(),
		EventID:     event.ID,
		EventTitle:  event.Title,
		UserEmail:   email,
		TicketCount: tickets,
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}

	seats := 1
	if s.countTickets {
		seats = tickets
	}

	updated, err := s.store.Book(ctx, reg, seats)
	if err != nil {
		s.sessions.Abort(token, event.ID)
		if errors.Is(err, repository.ErrSoldOut) || errors.Is(err, repository.ErrNotFound) {
			return outcome{err: err}
		}
		s.log.ErrorContext(ctx, "registration failed",
			slog.String("event_id", event.ID),
			slog.String("user_email", email),
			slog.String("error", err.Error()),
		)
		return outcome{err: fmt.Errorf("book event: %w", err)}
	}

	if _, ok := s.sessions.RegisterForEvent(token, reg); !ok {
		s.log.InfoContext(ctx, "session ended before registration completed",
			slog.String("registration_id", reg.ID),
		)
	}

	s.log.InfoContext(ctx, "registration completed",
		slog.String("registration_id", reg.ID),
		slog.String("event_id", reg.EventID),
		slog.String("user_email", reg.UserEmail),
		slog.Int("tickets", reg.TicketCount),
		slog.Int("seats", seats),
		slog.Int("registered", updated.Registered),
		slog.Int("capacity", updated.Capacity),
	)

	go s.notifier.NotifyRegistrationConfirmed(ctx, reg, *updated)

	return outcome{result: &RegistrationResult{
		Registration: reg,
		Event:        model.NewEventView(*updated),
		Quote:        pricing.NewQuote(updated.Price, tickets),
	}}
}
