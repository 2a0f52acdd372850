// Package repository stores the event catalog and the registration ledger.
// Three backends share one contract: an in-memory store, SQLite and
// PostgreSQL. Every backend increments Event.registered with a guarded
// compare-and-swap so capacity is never exceeded, whatever the number of
// concurrent registrants.
package repository

import (
	"errors"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrSoldOut is returned when an event cannot take the requested seats.
var ErrSoldOut = errors.New("event is sold out")

// ErrInvalidSeats is returned when a booking asks for fewer than one seat.
var ErrInvalidSeats = errors.New("seats must be positive")

// roomNeeded is how many free seats must exist before reg is booked. A
// registration never claims more tickets than remain, even when it only
// consumes one seat.
func roomNeeded(reg model.Registration, seats int) int {
	return max(seats, reg.TicketCount)
}
