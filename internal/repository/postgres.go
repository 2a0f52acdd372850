package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore persists the catalog and ledger in PostgreSQL using pgx
// directly (no ORM).
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Prices travel as text so no precision is lost between NUMERIC and decimal.
const postgresEventColumns = `id, title, description, event_date, time_range, location,
	price::text, capacity, registered, category, image, featured`

// Seed inserts events that are not present yet, keeping their order.
func (s *PostgresStore) Seed(ctx context.Context, events []model.Event) error {
	batch := &pgx.Batch{}
	for i, e := range events {
		batch.Queue(
			`INSERT INTO events (id, title, description, event_date, time_range, location,
				price, capacity, registered, category, image, featured, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12, $13)
			 ON CONFLICT (id) DO NOTHING`,
			e.ID, e.Title, e.Description, e.Date.Time, e.Time, e.Location,
			e.Price.String(), e.Capacity, e.Registered, e.Category, e.Image, e.Featured, i,
		)
	}
	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed events: %w", err)
	}
	return nil
}

// List returns all events in catalog order.
func (s *PostgresStore) List(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+postgresEventColumns+` FROM events ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanPostgresEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetByID returns a single event or ErrNotFound.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, err := scanPostgresEvent(s.db.QueryRow(ctx,
		`SELECT `+postgresEventColumns+` FROM events WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// Book performs a concurrency-safe registration inside one transaction.
//
// SELECT ... FOR UPDATE takes a row-level lock on the event, so concurrent
// Book calls for the same event run their read-check-write one at a time
// and two registrants can never both see the last free seat.
func (s *PostgresStore) Book(ctx context.Context, reg model.Registration, seats int) (*model.Event, error) {
	if seats < 1 {
		return nil, ErrInvalidSeats
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var capacity, registered int
	err = tx.QueryRow(ctx,
		`SELECT capacity, registered
		 FROM events
		 WHERE id = $1
		 FOR UPDATE`,
		reg.EventID,
	).Scan(&capacity, &registered)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}

	if registered+roomNeeded(reg, seats) > capacity {
		err = ErrSoldOut
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE events SET registered = registered + $2 WHERE id = $1`,
		reg.EventID, seats,
	)
	if err != nil {
		return nil, fmt.Errorf("increment registered: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO registrations (id, event_id, event_title, user_email, ticket_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		reg.ID, reg.EventID, reg.EventTitle, reg.UserEmail, reg.TicketCount, reg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	var e *model.Event
	e, err = scanPostgresEvent(tx.QueryRow(ctx,
		`SELECT `+postgresEventColumns+` FROM events WHERE id = $1`, reg.EventID))
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return e, nil
}

// ListRegistrations returns the ledger of one event, oldest first.
func (s *PostgresStore) ListRegistrations(ctx context.Context, eventID string) ([]model.Registration, error) {
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, event_id, event_title, user_email, ticket_count, created_at
		 FROM registrations
		 WHERE event_id = $1
		 ORDER BY created_at ASC, seq ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.EventTitle, &reg.UserEmail, &reg.TicketCount, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

func scanPostgresEvent(row pgx.Row) (*model.Event, error) {
	var (
		e     model.Event
		price string
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date.Time, &e.Time, &e.Location,
		&price, &e.Capacity, &e.Registered, &e.Category, &e.Image, &e.Featured)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	e.Date = model.DateOf(e.Date.Time)
	if e.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	return &e, nil
}
