package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/shopspring/decimal"
)

// SQLiteStore persists the catalog and ledger in SQLite. The handle is
// expected to be limited to a single open connection, so writers are
// serialised by the driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore constructs a SQLiteStore over a migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// sqliteTimeLayout is fixed width so created_at sorts as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

const sqliteEventColumns = `id, title, description, event_date, time_range, location,
	price, capacity, registered, category, image, featured`

// Seed inserts events that are not present yet, keeping their order.
func (s *SQLiteStore) Seed(ctx context.Context, events []model.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, e := range events {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (`+sqliteEventColumns+`, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (id) DO NOTHING`,
			e.ID, e.Title, e.Description, e.Date.String(), e.Time, e.Location,
			e.Price.String(), e.Capacity, e.Registered, e.Category, e.Image, e.Featured, i,
		)
		if err != nil {
			return fmt.Errorf("seed event %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// List returns all events in catalog order.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteEventColumns+` FROM events ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanSQLiteEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetByID returns a single event or ErrNotFound.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*model.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteEventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanSQLiteEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// Book reserves seats with a conditional UPDATE and records reg in the same
// transaction. The WHERE clause is the capacity guard: when it matches no
// row the event is either missing or cannot fit reg.
func (s *SQLiteStore) Book(ctx context.Context, reg model.Registration, seats int) (*model.Event, error) {
	if seats < 1 {
		return nil, ErrInvalidSeats
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE events SET registered = registered + ?
		 WHERE id = ? AND registered + ? <= capacity`,
		seats, reg.EventID, roomNeeded(reg, seats),
	)
	if err != nil {
		return nil, fmt.Errorf("increment registered: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		err = tx.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, reg.EventID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("check event: %w", err)
		}
		return nil, ErrSoldOut
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO registrations (id, event_id, event_title, user_email, ticket_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		reg.ID, reg.EventID, reg.EventTitle, reg.UserEmail, reg.TicketCount,
		reg.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	e, err := scanSQLiteEvent(tx.QueryRowContext(ctx,
		`SELECT `+sqliteEventColumns+` FROM events WHERE id = ?`, reg.EventID))
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return e, nil
}

// ListRegistrations returns the ledger of one event, oldest first.
func (s *SQLiteStore) ListRegistrations(ctx context.Context, eventID string) ([]model.Registration, error) {
	if _, err := s.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, event_title, user_email, ticket_count, created_at
		 FROM registrations
		 WHERE event_id = ?
		 ORDER BY created_at ASC, rowid ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var (
			reg       model.Registration
			createdAt string
		)
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.EventTitle, &reg.UserEmail, &reg.TicketCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		if reg.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse registration time: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteEvent(row rowScanner) (*model.Event, error) {
	var (
		e     model.Event
		date  string
		price string
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &date, &e.Time, &e.Location,
		&price, &e.Capacity, &e.Registered, &e.Category, &e.Image, &e.Featured)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	if e.Date, err = model.ParseDate(date); err != nil {
		return nil, err
	}
	if e.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	return &e, nil
}
