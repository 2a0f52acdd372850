// Package pricing computes ticket quotes. All arithmetic is decimal at full
// precision; values are only rounded to cents when rendered.
package pricing

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MaxTicketsPerRegistration caps a single registration action.
const MaxTicketsPerRegistration = 10

// ServiceFeeRate is applied to the subtotal.
var ServiceFeeRate = decimal.RequireFromString("0.05")

// Quote is the price breakdown for a number of tickets.
type Quote struct {
	Tickets    int
	MaxTickets int
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
	ServiceFee decimal.Decimal
	Total      decimal.Decimal
}

// MaxTickets returns min(remaining, MaxTicketsPerRegistration), floored at 0.
func MaxTickets(remaining int) int {
	return max(0, min(remaining, MaxTicketsPerRegistration))
}

// ClampTickets bounds requested to [1, MaxTickets(remaining)]. It returns 0
// when nothing remains; callers treat that as sold out.
func ClampTickets(requested, remaining int) int {
	limit := MaxTickets(remaining)
	if limit == 0 {
		return 0
	}
	return max(1, min(requested, limit))
}

// NewQuote prices tickets at unitPrice.
func NewQuote(unitPrice decimal.Decimal, tickets int) Quote {
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(tickets)))
	fee := subtotal.Mul(ServiceFeeRate)
	return Quote{
		Tickets:    tickets,
		MaxTickets: tickets,
		UnitPrice:  unitPrice,
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      subtotal.Add(fee),
	}
}

// For prices the clamped ticket count against the seats remaining.
func For(unitPrice decimal.Decimal, requested, remaining int) Quote {
	q := NewQuote(unitPrice, ClampTickets(requested, remaining))
	q.MaxTickets = MaxTickets(remaining)
	return q
}

// MarshalJSON renders money with two decimals.
func (q Quote) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Tickets    int    `json:"tickets"`
		MaxTickets int    `json:"max_tickets"`
		UnitPrice  string `json:"unit_price"`
		Subtotal   string `json:"subtotal"`
		ServiceFee string `json:"service_fee"`
		Total      string `json:"total"`
	}{
		Tickets:    q.Tickets,
		MaxTickets: q.MaxTickets,
		UnitPrice:  q.UnitPrice.StringFixed(2),
		Subtotal:   q.Subtotal.StringFixed(2),
		ServiceFee: q.ServiceFee.StringFixed(2),
		Total:      q.Total.StringFixed(2),
	})
}
