package repository_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/catalog"
	"github.com/Shivanand-hulikatti/eventhub/internal/config"
	"github.com/Shivanand-hulikatti/eventhub/internal/database"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store interface {
	Seed(ctx context.Context, events []model.Event) error
	List(ctx context.Context) ([]model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Book(ctx context.Context, reg model.Registration, seats int) (*model.Event, error)
	ListRegistrations(ctx context.Context, eventID string) ([]model.Registration, error)
	Close() error
}

type backend struct {
	name string
	open func(t *testing.T) store
}

func backends() []backend {
	return []backend{
		{name: "memory", open: func(t *testing.T) store {
			return repository.NewMemoryStore()
		}},
		{name: "sqlite", open: func(t *testing.T) store {
			db, err := database.OpenSQLite(context.Background(), "file::memory:")
			require.NoError(t, err)
			return repository.NewSQLiteStore(db)
		}},
		{name: "postgres", open: openPostgres},
	}
}

// openPostgres runs against a disposable database named by
// EVENTHUB_TEST_POSTGRES_DSN and skips otherwise.
func openPostgres(t *testing.T) store {
	dsn := os.Getenv("EVENTHUB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("EVENTHUB_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	poolCfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg := config.PostgresConfig{
		Host:     poolCfg.ConnConfig.Host,
		Port:     int(poolCfg.ConnConfig.Port),
		User:     poolCfg.ConnConfig.User,
		Password: poolCfg.ConnConfig.Password,
		DBName:   poolCfg.ConnConfig.Database,
		SSLMode:  "disable",
		MaxConns: 20,
		MinConns: 1,
	}
	pool, err := database.NewPool(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `TRUNCATE registrations, events`)
	require.NoError(t, err)
	return repository.NewPostgresStore(pool)
}

func seeded(t *testing.T, b backend) store {
	t.Helper()
	s := b.open(t)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Seed(context.Background(), catalog.Events()))
	return s
}

func newRegistration(eventID string, tickets int) model.Registration {
	return model.Registration{
		ID:          uuid.New().String(),
		EventID:     eventID,
		EventTitle:  "title " + eventID,
		UserEmail:   "user@example.com",
		TicketCount: tickets,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestStore_ListPreservesCatalogOrder(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := seeded(t, b)

			events, err := s.List(context.Background())
			require.NoError(t, err)

			want := catalog.Events()
			require.Len(t, events, len(want))
			for i := range want {
				assert.Equal(t, want[i].ID, events[i].ID)
				assert.Equal(t, want[i].Date.String(), events[i].Date.String())
				assert.True(t, want[i].Price.Equal(events[i].Price))
				assert.Equal(t, want[i].Featured, events[i].Featured)
				assert.Equal(t, want[i].Registered, events[i].Registered)
			}
		})
	}
}

func TestStore_SeedIsIdempotent(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := seeded(t, b)
			ctx := context.Background()

			_, err := s.Book(ctx, newRegistration("1", 1), 1)
			require.NoError(t, err)
			require.NoError(t, s.Seed(ctx, catalog.Events()))

			events, err := s.List(ctx)
			require.NoError(t, err)
			assert.Len(t, events, len(catalog.Events()))

			e, err := s.GetByID(ctx, "1")
			require.NoError(t, err)
			assert.Equal(t, 343, e.Registered)
		})
	}
}

func TestStore_GetByIDNotFound(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := seeded(t, b)

			_, err := s.GetByID(context.Background(), "missing")
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestStore_BookIncrementsAndRecords(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := seeded(t, b)
			ctx := context.Background()
			reg := newRegistration("3", 4)

			e, err := s.Book(ctx, reg, 1)
			require.NoError(t, err)
			assert.Equal(t, 44, e.Registered)

			regs, err := s.ListRegistrations(ctx, "3")
			require.NoError(t, err)
			require.Len(t, regs, 1)
			assert.Equal(t, reg.ID, regs[0].ID)
			assert.Equal(t, 4, regs[0].TicketCount)
			assert.Equal(t, reg.UserEmail, regs[0].UserEmail)
			assert.True(t, reg.CreatedAt.Equal(regs[0].CreatedAt))
		})
	}
}

func TestStore_BookRefusesToExceedCapacity(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := seeded(t, b)
			ctx := context.Background()

			// Event 6 has 2 seats left.
			_, err := s.Book(ctx, newRegistration("6", 3), 3)
			assert.ErrorIs(t, err, repository.ErrSoldOut)

			e, err := s.Book(ctx, newRegistration("6", 2), 2)
			require.NoError(t, err)
			assert.Equal(t, e.Capacity, e.Registered)

			_, err = s.Book(ctx, newRegistration("6", 1), 1)
			assert.ErrorIs(t, err, repository.ErrSoldOut)

			regs, err := s.ListRegistrations(ctx, "6")
			require.NoError(t, err)
			assert.Len(t, regs, 1)
		})
	}
}

func TestStore_BookRefusesTicketsBeyondRemaining(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := seeded(t, b)
			ctx := context.Background()

			// Event 6 has 2 seats left; one goes to another registrant.
			_, err := s.Book(ctx, newRegistration("6", 1), 1)
			require.NoError(t, err)

			// One seat consumed, but two tickets claimed with one left.
			_, err = s.Book(ctx, newRegistration("6", 2), 1)
			assert.ErrorIs(t, err, repository.ErrSoldOut)

			e, err := s.Book(ctx, newRegistration("6", 1), 1)
			require.NoError(t, err)
			assert.Equal(t, 40, e.Registered)

			regs, err := s.ListRegistrations(ctx, "6")
			require.NoError(t, err)
			require.Len(t, regs, 2)
			for _, r := range regs {
				assert.Equal(t, 1, r.TicketCount)
			}
		})
	}
}

func TestStore_ListRegistrationsOldestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 5, 0, time.UTC)
	offsets := []time.Duration{
		0,
		100 * time.Millisecond,
		120 * time.Millisecond,
		500 * time.Millisecond,
		time.Second,
	}

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := seeded(t, b)
			ctx := context.Background()

			var want []string
			for _, off := range offsets {
				reg := newRegistration("1", 1)
				reg.CreatedAt = base.Add(off)
				_, err := s.Book(ctx, reg, 1)
				require.NoError(t, err)
				want = append(want, reg.ID)
			}

			regs, err := s.ListRegistrations(ctx, "1")
			require.NoError(t, err)
			got := make([]string, 0, len(regs))
			for i, r := range regs {
				got = append(got, r.ID)
				assert.True(t, base.Add(offsets[i]).Equal(r.CreatedAt), "registration %d at %s", i, r.CreatedAt)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestStore_ListRegistrationsSameInstantKeepsBookingOrder(t *testing.T) {
	stamp := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := seeded(t, b)
			ctx := context.Background()

			var want []string
			for range 5 {
				reg := newRegistration("2", 1)
				reg.CreatedAt = stamp
				_, err := s.Book(ctx, reg, 1)
				require.NoError(t, err)
				want = append(want, reg.ID)
			}

			regs, err := s.ListRegistrations(ctx, "2")
			require.NoError(t, err)
			got := make([]string, 0, len(regs))
			for _, r := range regs {
				got = append(got, r.ID)
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestStore_BookUnknownEvent(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := seeded(t, b)

			_, err := s.Book(context.Background(), newRegistration("missing", 1), 1)
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestStore_BookRejectsNonPositiveSeats(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := seeded(t, b)

			_, err := s.Book(context.Background(), newRegistration("1", 1), 0)
			assert.ErrorIs(t, err, repository.ErrInvalidSeats)
		})
	}
}

func TestStore_ListRegistrationsUnknownEvent(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := seeded(t, b)

			_, err := s.ListRegistrations(context.Background(), "missing")
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

// TestStore_ConcurrentBookingNeverOverbooks fires 100 registrants at an
// event with 5 free seats.
func TestStore_ConcurrentBookingNeverOverbooks(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			t.Cleanup(func() { _ = s.Close() })
			ctx := context.Background()

			event := catalog.Events()[0]
			event.ID = "concurrency"
			event.Capacity = 5
			event.Registered = 0
			event.Price = decimal.Zero
			require.NoError(t, s.Seed(ctx, []model.Event{event}))

			const requests = 100
			var (
				wg      sync.WaitGroup
				success atomic.Int32
				soldOut atomic.Int32
				other   atomic.Int32
			)
			wg.Add(requests)
			for i := range requests {
				go func(i int) {
					defer wg.Done()
					reg := newRegistration(event.ID, 1)
					reg.UserEmail = fmt.Sprintf("gopher%d@example.com", i)

					_, err := s.Book(ctx, reg, 1)
					switch {
					case err == nil:
						success.Add(1)
					case errors.Is(err, repository.ErrSoldOut):
						soldOut.Add(1)
					default:
						other.Add(1)
					}
				}(i)
			}
			wg.Wait()

			assert.EqualValues(t, 5, success.Load())
			assert.EqualValues(t, requests-5, soldOut.Load())
			assert.Zero(t, other.Load())

			e, err := s.GetByID(ctx, event.ID)
			require.NoError(t, err)
			assert.Equal(t, 5, e.Registered)

			regs, err := s.ListRegistrations(ctx, event.ID)
			require.NoError(t, err)
			assert.Len(t, regs, 5)
		})
	}
}
