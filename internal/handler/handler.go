// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/pricing"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/Shivanand-hulikatti/eventhub/internal/search"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
	"github.com/Shivanand-hulikatti/eventhub/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// EventSvc answers catalog, dashboard and admin queries.
type EventSvc interface {
	Categories() []string
	ListEvents(ctx context.Context, c search.Criteria) ([]model.EventView, error)
	Detail(ctx context.Context, id string) (*model.EventDetail, error)
	Home(ctx context.Context) (*model.Home, error)
	Dashboard(ctx context.Context, sess model.Session) (*model.Dashboard, error)
	CreateEvent(ctx context.Context, sess model.Session, req model.CreateEventRequest) (*model.Event, error)
	ListRegistrations(ctx context.Context, sess model.Session, eventID string) ([]model.Registration, error)
}

// RegistrationSvc quotes and books tickets.
type RegistrationSvc interface {
	Quote(ctx context.Context, eventID string, tickets int) (pricing.Quote, error)
	Register(ctx context.Context, token, eventID string, tickets int) (*service.RegistrationResult, error)
	State(token, eventID string) session.State
}

// FeaturedSvc drives the featured-event rotation.
type FeaturedSvc interface {
	Current(ctx context.Context) (*model.FeaturedSlide, error)
	Next(ctx context.Context) (*model.FeaturedSlide, error)
	Prev(ctx context.Context) (*model.FeaturedSlide, error)
	Select(ctx context.Context, index int) (*model.FeaturedSlide, error)
}

// SessionManager signs users in and out and resolves tokens.
type SessionManager interface {
	Login(email, password string) (model.Session, error)
	Logout(token string)
	Get(token string) (model.Session, error)
}

// Handler holds all HTTP handlers for the event discovery API.
type Handler struct {
	events        EventSvc
	registrations RegistrationSvc
	featured      FeaturedSvc
	sessions      SessionManager
	log           *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(
	events EventSvc,
	registrations RegistrationSvc,
	featured FeaturedSvc,
	sessions SessionManager,
	log *slog.Logger,
) *Handler {
	return &Handler{
		events:        events,
		registrations: registrations,
		featured:      featured,
		sessions:      sessions,
		log:           log,
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps domain errors onto HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, model.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrSoldOut):
		writeError(w, http.StatusConflict, "event is sold out")
	case errors.Is(err, session.ErrAlreadyRegistered):
		writeError(w, http.StatusConflict, "you are already registered for this event")
	case errors.Is(err, session.ErrRegistrationInProgress):
		writeError(w, http.StatusConflict, "registration is already in progress")
	case errors.Is(err, model.ErrLoginRequired):
		writeError(w, http.StatusUnauthorized, "login required")
	case errors.Is(err, model.ErrForbidden):
		writeError(w, http.StatusForbidden, "admin access required")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.log.WarnContext(r.Context(), "request abandoned",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ─── Catalog ──────────────────────────────────────────────────────────────────

// Home handles GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.events.Home(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, home)
}

// Categories handles GET /categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.events.Categories())
}

// ListEvents handles GET /events and GET /search
// Returns the events matching q, category and location in catalog order.
// Date and price ranges are parsed but do not narrow the result.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	events, err := h.events.ListEvents(r.Context(), criteria)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.events.Detail(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if token, ok := tokenFrom(r.Context()); ok {
		detail.RegistrationState = string(h.registrations.State(token, id))
	}
	writeJSON(w, http.StatusOK, detail)
}

// Quote handles GET /events/{id}/quote?tickets=N
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tickets := 1
	if raw := r.URL.Query().Get("tickets"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeServiceError(w, r, model.NewValidationError(map[string]string{"tickets": "tickets must be a whole number"}))
			return
		}
		tickets = n
	}

	quote, err := h.registrations.Quote(r.Context(), id, tickets)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// CreateEvent handles POST /events
// Validates the event and logs it. Nothing is stored.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		h.writeServiceError(w, r, model.ErrLoginRequired)
		return
	}

	var req model.CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.events.CreateEvent(r.Context(), sess, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, event)
}

// ─── Registration ─────────────────────────────────────────────────────────────

// Register handles POST /events/{id}/register
// Blocks for the registration latency, then returns the booked registration.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	token, ok := tokenFrom(r.Context())
	if !ok {
		h.writeServiceError(w, r, model.ErrLoginRequired)
		return
	}

	req := model.RegisterRequest{TicketCount: 1}
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.registrations.Register(r.Context(), token, id, req.TicketCount)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ListRegistrations handles GET /events/{id}/registrations
// Returns the registration ledger of an event. Admin only.
func (h *Handler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		h.writeServiceError(w, r, model.ErrLoginRequired)
		return
	}

	regs, err := h.events.ListRegistrations(r.Context(), sess, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, regs)
}

// Dashboard handles GET /dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		h.writeServiceError(w, r, model.ErrLoginRequired)
		return
	}

	d, err := h.events.Dashboard(r.Context(), sess)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ─── Featured rotation ────────────────────────────────────────────────────────

// Featured handles GET /featured
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	h.writeSlide(w, r)(h.featured.Current(r.Context()))
}

// FeaturedNext handles POST /featured/next
func (h *Handler) FeaturedNext(w http.ResponseWriter, r *http.Request) {
	h.writeSlide(w, r)(h.featured.Next(r.Context()))
}

// FeaturedPrev handles POST /featured/prev
func (h *Handler) FeaturedPrev(w http.ResponseWriter, r *http.Request) {
	h.writeSlide(w, r)(h.featured.Prev(r.Context()))
}

// FeaturedSelect handles POST /featured/select/{index}
func (h *Handler) FeaturedSelect(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.writeServiceError(w, r, model.NewValidationError(map[string]string{"index": "index must be a whole number"}))
		return
	}
	h.writeSlide(w, r)(h.featured.Select(r.Context(), index))
}

func (h *Handler) writeSlide(w http.ResponseWriter, r *http.Request) func(*model.FeaturedSlide, error) {
	return func(slide *model.FeaturedSlide, err error) {
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, slide)
	}
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound answers every unrouted path.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed answers a known path hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func parseCriteria(r *http.Request) (search.Criteria, error) {
	q := r.URL.Query()
	c := search.Criteria{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Location: q.Get("location"),
	}

	fields := make(map[string]string)
	for key, dst := range map[string]**model.Date{"from": &c.From, "to": &c.To} {
		if raw := q.Get(key); raw != "" {
			d, err := model.ParseDate(raw)
			if err != nil {
				fields[key] = "must be a date in YYYY-MM-DD form"
				continue
			}
			*dst = &d
		}
	}
	for key, dst := range map[string]**decimal.Decimal{"min_price": &c.MinPrice, "max_price": &c.MaxPrice} {
		if raw := q.Get(key); raw != "" {
			p, err := decimal.NewFromString(raw)
			if err != nil {
				fields[key] = "must be a number"
				continue
			}
			*dst = &p
		}
	}
	return c, model.NewValidationError(fields)
}
