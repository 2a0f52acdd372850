// Package model defines the core domain types for the event discovery service.
package model

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Event is a schedulable occurrence with a fixed capacity and ticket price.
// Registered is the only field that changes after the catalog is loaded.
type Event struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
	Time        string          `json:"time"`
	Location    string          `json:"location"`
	Price       decimal.Decimal `json:"price"`
	Capacity    int             `json:"capacity"`
	Registered  int             `json:"registered"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Featured    bool            `json:"featured"`
}

// Remaining returns the number of available seats.
func (e *Event) Remaining() int {
	return e.Capacity - e.Registered
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.Registered >= e.Capacity
}

// PercentageFilled returns registered/capacity as a whole percentage.
func (e *Event) PercentageFilled() int {
	if e.Capacity <= 0 {
		return 0
	}
	return int(math.Round(float64(e.Registered) / float64(e.Capacity) * 100))
}

// EventView is an Event plus the derived figures every listing shows.
type EventView struct {
	Event
	Remaining        int  `json:"remaining"`
	SoldOut          bool `json:"sold_out"`
	PercentageFilled int  `json:"percentage_filled"`
}

// NewEventView derives the listing figures for e.
func NewEventView(e Event) EventView {
	return EventView{
		Event:            e,
		Remaining:        e.Remaining(),
		SoldOut:          e.IsFull(),
		PercentageFilled: e.PercentageFilled(),
	}
}

// EventViews maps NewEventView over events, never returning nil.
func EventViews(events []Event) []EventView {
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, NewEventView(e))
	}
	return views
}

// EventDetail is the payload of the event detail page.
type EventDetail struct {
	EventView
	MaxTickets        int         `json:"max_tickets"`
	RegistrationState string      `json:"registration_state,omitempty"`
	Related           []EventView `json:"related"`
}

// Registration is a user's claim on some number of tickets for one event.
// It is immutable once created.
type Registration struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	EventTitle  string    `json:"event_title"`
	UserEmail   string    `json:"user_email"`
	TicketCount int       `json:"ticket_count"`
	CreatedAt   time.Time `json:"registered_at"`
}

// Session is a snapshot of a logged-in identity and its registrations.
type Session struct {
	Token         string         `json:"-"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	IsAdmin       bool           `json:"is_admin"`
	Registrations []Registration `json:"registrations"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Home is the landing page payload.
type Home struct {
	Featured   []EventView `json:"featured"`
	Upcoming   []EventView `json:"upcoming"`
	Categories []string    `json:"categories"`
}

// DashboardEntry is one of the user's registrations joined with its event.
type DashboardEntry struct {
	Registration
	EventDate *Date `json:"event_date"`
}

// ManagedEvent is a row of the admin "manage events" table.
type ManagedEvent struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Date       Date   `json:"date"`
	Status     string `json:"status"`
	Registered int    `json:"registered"`
	Capacity   int    `json:"capacity"`
}

// Dashboard is the signed-in user's overview.
type Dashboard struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	IsAdmin  bool             `json:"is_admin"`
	Upcoming []DashboardEntry `json:"upcoming"`
	Past     []DashboardEntry `json:"past"`
	Manage   []ManagedEvent   `json:"manage,omitempty"`
}

// FeaturedSlide is the event currently shown by the featured rotation.
type FeaturedSlide struct {
	Index int       `json:"index"`
	Count int       `json:"count"`
	Event EventView `json:"event"`
}

// LoginRequest is the payload for signing in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the new session token with the signed-in user.
type LoginResponse struct {
	Token string  `json:"token"`
	User  Session `json:"user"`
}

// RegisterRequest is the payload for registering for an event.
type RegisterRequest struct {
	TicketCount int `json:"ticket_count"`
}

// CreateEventRequest is the payload of the create-event form.
type CreateEventRequest struct {
	Title       string          `json:"title"       validate:"min=5"`
	Description string          `json:"description" validate:"min=20"`
	Location    string          `json:"location"    validate:"min=3"`
	Category    string          `json:"category"    validate:"min=2"`
	Capacity    int             `json:"capacity"    validate:"min=1"`
	Price       decimal.Decimal `json:"price"`
	Time        string          `json:"time"`
	IsFeatured  bool            `json:"is_featured"`
	ImageURL    string          `json:"image_url"   validate:"omitempty,url"`
	StartDate   *Date           `json:"start_date"  validate:"required"`
	EndDate     *Date           `json:"end_date"    validate:"required"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
