// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/Shivanand-hulikatti/eventhub/internal/catalog"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/pricing"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/Shivanand-hulikatti/eventhub/internal/search"
	"github.com/Shivanand-hulikatti/eventhub/internal/telemetry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	relatedLimit  = 3
	upcomingLimit = 3
	manageLimit   = 3
	statusActive  = "Active"
)

var createEventMessages = map[string]string{
	"title":       "Title must be at least 5 characters long",
	"description": "Description must be at least 20 characters long",
	"location":    "Location is required",
	"category":    "Category is required",
	"capacity":    "Capacity must be at least 1",
	"image_url":   "Image URL must be a valid URL",
	"start_date":  "Date range is required",
	"end_date":    "Date range is required",
}

// EventService answers catalog queries and validates new events.
type EventService struct {
	store    EventStore
	log      *slog.Logger
	validate *validator.Validate
}

// NewEventService constructs an EventService with its dependencies.
func NewEventService(store EventStore, log *slog.Logger) *EventService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &EventService{store: store, log: log, validate: v}
}

// Categories returns the category filter choices, sentinel first.
func (s *EventService) Categories() []string {
	return catalog.Categories()
}

// ListEvents returns the events matching c in catalog order.
func (s *EventService) ListEvents(ctx context.Context, c search.Criteria) ([]model.EventView, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "events.search")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.query", c.Query),
		attribute.String("search.category", c.Category),
		attribute.String("search.location", c.Location),
	)

	events, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	matched := search.Filter(events, c)
	span.SetAttributes(attribute.Int("search.results", len(matched)))
	return model.EventViews(matched), nil
}

// GetEvent returns a single event by ID.
func (s *EventService) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	event, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// Detail returns the event page: derived figures plus up to three events of
// the same category.
func (s *EventService) Detail(ctx context.Context, id string) (*model.EventDetail, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return &model.EventDetail{
		EventView:  model.NewEventView(*event),
		MaxTickets: pricing.MaxTickets(event.Remaining()),
		Related:    model.EventViews(search.Related(events, *event, relatedLimit)),
	}, nil
}

// Home returns the featured events and the first few catalog entries.
func (s *EventService) Home(ctx context.Context) (*model.Home, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	var featured []model.Event
	for _, e := range events {
		if e.Featured {
			featured = append(featured, e)
		}
	}
	return &model.Home{
		Featured:   model.EventViews(featured),
		Upcoming:   model.EventViews(events[:min(upcomingLimit, len(events))]),
		Categories: catalog.Categories(),
	}, nil
}

// Dashboard joins the session's registrations with their events. Admins
// also get the manage-events table.
func (s *EventService) Dashboard(ctx context.Context, sess model.Session) (*model.Dashboard, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	byID := make(map[string]model.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	d := &model.Dashboard{
		Name:     sess.Name,
		Email:    sess.Email,
		IsAdmin:  sess.IsAdmin,
		Upcoming: make([]model.DashboardEntry, 0, len(sess.Registrations)),
		Past:     []model.DashboardEntry{},
	}
	for _, reg := range sess.Registrations {
		entry := model.DashboardEntry{Registration: reg}
		if e, ok := byID[reg.EventID]; ok {
			date := e.Date
			entry.EventDate = &date
		}
		d.Upcoming = append(d.Upcoming, entry)
	}

	if sess.IsAdmin {
		d.Manage = make([]model.ManagedEvent, 0, manageLimit)
		for _, e := range events[:min(manageLimit, len(events))] {
			d.Manage = append(d.Manage, model.ManagedEvent{
				ID:         e.ID,
				Title:      e.Title,
				Date:       e.Date,
				Status:     statusActive,
				Registered: e.Registered,
				Capacity:   e.Capacity,
			})
		}
	}
	return d, nil
}

// CreateEvent validates the request and logs the event it would create.
// Nothing is stored.
func (s *EventService) CreateEvent(ctx context.Context, sess model.Session, req model.CreateEventRequest) (*model.Event, error) {
	if !sess.IsAdmin {
		return nil, model.ErrForbidden
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	req.Category = strings.TrimSpace(req.Category)

	if err := s.validateCreate(req); err != nil {
		return nil, err
	}

	event := &model.Event{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Date:        *req.StartDate,
		Time:        req.Time,
		Location:    req.Location,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Category:    req.Category,
		Image:       req.ImageURL,
		Featured:    req.IsFeatured,
	}

	s.log.InfoContext(ctx, "event submitted",
		slog.String("id", event.ID),
		slog.String("title", event.Title),
		slog.String("category", event.Category),
		slog.String("location", event.Location),
		slog.String("start_date", req.StartDate.String()),
		slog.String("end_date", req.EndDate.String()),
		slog.Int("capacity", event.Capacity),
		slog.String("price", event.Price.String()),
		slog.Bool("featured", event.Featured),
		slog.String("submitted_by", sess.Email),
	)
	return event, nil
}

// ListRegistrations returns the ledger of one event. Admin only.
func (s *EventService) ListRegistrations(ctx context.Context, sess model.Session, eventID string) ([]model.Registration, error) {
	if !sess.IsAdmin {
		return nil, model.ErrForbidden
	}
	regs, err := s.store.ListRegistrations(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	return regs, nil
}

func (s *EventService) validateCreate(req model.CreateEventRequest) error {
	fields := make(map[string]string)

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate event: %w", err)
		}
		for _, fe := range verrs {
			msg, ok := createEventMessages[fe.Field()]
			if !ok {
				msg = fmt.Sprintf("failed %s validation", fe.Tag())
			}
			fields[fe.Field()] = msg
		}
	}

	if req.Price.IsNegative() {
		fields["price"] = "Price must be 0 or greater"
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(req.StartDate.Time) {
		fields["end_date"] = "End date must not be before the start date"
	}
	return model.NewValidationError(fields)
}
