package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Shivanand-hulikatti/eventhub/internal/catalog"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/Shivanand-hulikatti/eventhub/internal/search"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seededStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Seed(context.Background(), catalog.Events()))
	return store
}

func ids(views []model.EventView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func TestEventService_ListEvents_SentinelReturnsCatalog(t *testing.T) {
	svc := NewEventService(seededStore(t), newTestLogger())

	events, err := svc.ListEvents(context.Background(), search.Criteria{Category: catalog.AllCategories})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(events))
}

func TestEventService_ListEvents_Filters(t *testing.T) {
	svc := NewEventService(seededStore(t), newTestLogger())
	ctx := context.Background()

	events, err := svc.ListEvents(ctx, search.Criteria{Query: "WORKSHOP"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "5"}, ids(events))

	events, err = svc.ListEvents(ctx, search.Criteria{Category: "Technology", Location: "boston"})
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, ids(events))

	events, err = svc.ListEvents(ctx, search.Criteria{Query: "nothing matches this"})
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestEventService_ListEvents_StoreError(t *testing.T) {
	store := &mockStore{}
	store.On("List", mock.Anything).Return(nil, errors.New("connection reset"))
	svc := NewEventService(store, newTestLogger())

	_, err := svc.ListEvents(context.Background(), search.Criteria{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list events")
	store.AssertExpectations(t)
}

func TestEventService_Detail(t *testing.T) {
	svc := NewEventService(seededStore(t), newTestLogger())

	d, err := svc.Detail(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Tech Conference 2024", d.Title)
	assert.Equal(t, 158, d.Remaining)
	assert.Equal(t, 68, d.PercentageFilled)
	assert.False(t, d.SoldOut)
	assert.Equal(t, 10, d.MaxTickets)
	assert.Equal(t, []string{"4", "6"}, ids(d.Related))

	d, err = svc.Detail(context.Background(), "6")
	require.NoError(t, err)
	assert.Equal(t, 2, d.MaxTickets)
	assert.Equal(t, 95, d.PercentageFilled)
	assert.Equal(t, []string{"1", "4"}, ids(d.Related))

	d, err = svc.Detail(context.Background(), "5")
	require.NoError(t, err)
	assert.NotNil(t, d.Related)
	assert.Empty(t, d.Related)
}

func TestEventService_DetailNotFound(t *testing.T) {
	svc := NewEventService(seededStore(t), newTestLogger())

	_, err := svc.Detail(context.Background(), "999")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Detail(context.Background(), "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventService_Home(t *testing.T) {
	svc := NewEventService(seededStore(t), newTestLogger())

	home, err := svc.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "4"}, ids(home.Featured))
	assert.Equal(t, []string{"1", "2", "3"}, ids(home.Upcoming))
	require.NotEmpty(t, home.Categories)
	assert.Equal(t, catalog.AllCategories, home.Categories[0])
}

func TestEventService_Dashboard(t *testing.T) {
	svc := NewEventService(seededStore(t), newTestLogger())

	sess := model.Session{
		Name:  "Regular User",
		Email: "user@example.com",
		Registrations: []model.Registration{
			{ID: "r1", EventID: "3", EventTitle: "UX Design Workshop", TicketCount: 2},
			{ID: "r2", EventID: "gone", EventTitle: "Removed", TicketCount: 1},
		},
	}

	d, err := svc.Dashboard(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, d.Upcoming, 2)
	require.NotNil(t, d.Upcoming[0].EventDate)
	assert.Equal(t, "2024-08-05", d.Upcoming[0].EventDate.String())
	assert.Nil(t, d.Upcoming[1].EventDate)
	assert.NotNil(t, d.Past)
	assert.Empty(t, d.Past)
	assert.Nil(t, d.Manage)
}

func TestEventService_DashboardAdmin(t *testing.T) {
	svc := NewEventService(seededStore(t), newTestLogger())

	d, err := svc.Dashboard(context.Background(), model.Session{Name: "Admin User", Email: "admin@example.com", IsAdmin: true})
	require.NoError(t, err)
	require.Len(t, d.Manage, 3)
	assert.Equal(t, "1", d.Manage[0].ID)
	assert.Equal(t, "Active", d.Manage[0].Status)
	assert.Equal(t, 342, d.Manage[0].Registered)
	assert.Equal(t, 500, d.Manage[0].Capacity)
	assert.Empty(t, d.Upcoming)
}

func validCreateRequest() model.CreateEventRequest {
	start := model.MustDate("2025-03-01")
	end := model.MustDate("2025-03-02")
	return model.CreateEventRequest{
		Title:       "Go Meetup Berlin",
		Description: "An evening of talks about Go in production.",
		Location:    "Berlin",
		Category:    "Technology",
		Capacity:    80,
		Price:       decimal.RequireFromString("12.50"),
		ImageURL:    "https://example.com/meetup.png",
		StartDate:   &start,
		EndDate:     &end,
	}
}

func TestEventService_CreateEvent_ValidIsNotStored(t *testing.T) {
	store := seededStore(t)
	svc := NewEventService(store, newTestLogger())
	admin := model.Session{Email: "admin@example.com", IsAdmin: true}

	event, err := svc.CreateEvent(context.Background(), admin, validCreateRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "Go Meetup Berlin", event.Title)
	assert.Equal(t, "2025-03-01", event.Date.String())
	assert.True(t, decimal.RequireFromString("12.5").Equal(event.Price))

	events, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, len(catalog.Events()))
}

func TestEventService_CreateEvent_RequiresAdmin(t *testing.T) {
	svc := NewEventService(seededStore(t), newTestLogger())

	_, err := svc.CreateEvent(context.Background(), model.Session{Email: "user@example.com"}, validCreateRequest())
	assert.ErrorIs(t, err, model.ErrForbidden)
}

func TestEventService_CreateEvent_Validation(t *testing.T) {
	svc := NewEventService(seededStore(t), newTestLogger())
	admin := model.Session{Email: "admin@example.com", IsAdmin: true}

	req := model.CreateEventRequest{
		Title:       "Go",
		Description: "too short",
		Location:    "  ",
		Category:    "x",
		Capacity:    0,
		Price:       decimal.NewFromInt(-1),
		ImageURL:    "not a url",
	}

	_, err := svc.CreateEvent(context.Background(), admin, req)
	require.ErrorIs(t, err, model.ErrValidation)

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"title", "description", "location", "category", "capacity", "price", "image_url", "start_date", "end_date"} {
		assert.Contains(t, verr.Fields, field)
	}
	assert.Equal(t, "Title must be at least 5 characters long", verr.Fields["title"])
	assert.Equal(t, "Price must be 0 or greater", verr.Fields["price"])
}

func TestEventService_CreateEvent_EndBeforeStart(t *testing.T) {
	svc := NewEventService(seededStore(t), newTestLogger())
	admin := model.Session{Email: "admin@example.com", IsAdmin: true}

	req := validCreateRequest()
	end := model.MustDate("2025-02-01")
	req.EndDate = &end

	_, err := svc.CreateEvent(context.Background(), admin, req)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"end_date": "End date must not be before the start date"}, verr.Fields)
}

func TestEventService_ListRegistrations(t *testing.T) {
	store := seededStore(t)
	svc := NewEventService(store, newTestLogger())
	ctx := context.Background()
	admin := model.Session{Email: "admin@example.com", IsAdmin: true}

	_, err := svc.ListRegistrations(ctx, model.Session{Email: "user@example.com"}, "1")
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = svc.ListRegistrations(ctx, admin, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	regs, err := svc.ListRegistrations(ctx, admin, "1")
	require.NoError(t, err)
	assert.NotNil(t, regs)
	assert.Empty(t, regs)

	_, err = store.Book(ctx, model.Registration{ID: "r1", EventID: "1", TicketCount: 2}, 1)
	require.NoError(t, err)

	regs, err = svc.ListRegistrations(ctx, admin, "1")
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "r1", regs[0].ID)
}
