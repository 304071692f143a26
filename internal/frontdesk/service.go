// Package frontdesk wires the pricing, availability and billing engines to
// storage for the front-desk surfaces (HTTP API and staff chat).
package frontdesk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/bookings"
	"github.com/Spok95/frontdesk/internal/domain/deals"
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/stay"
)

var (
	// ErrBackendUnavailable wraps every storage failure that is not a
	// domain outcome such as not-found.
	ErrBackendUnavailable = errors.New("frontdesk: backend unavailable")
	ErrBookingClosed      = errors.New("frontdesk: booking is cancelled or checked out")
	ErrRoomOccupied       = errors.New("frontdesk: room is not free for the new dates")
)

type RoomStore interface {
	List(ctx context.Context) ([]rooms.Room, error)
	Get(ctx context.Context, id int64) (rooms.Room, error)
	ApplyRateRows(ctx context.Context, rows []rooms.RateRow) (int, error)
}

type DealStore interface {
	ListActive(ctx context.Context) ([]deals.Deal, error)
}

type BookingStore interface {
	Get(ctx context.Context, id int64) (bookings.Booking, error)
	ListOverlapping(ctx context.Context, rg stay.Range) ([]bookings.Booking, error)
	// MoveCheckOut saves the new check-out together with the billed line.
	MoveCheckOut(ctx context.Context, id int64, checkOut time.Time, invoiceID int64, line billing.LineItem) error
}

type InvoiceStore interface {
	GetByBooking(ctx context.Context, bookingID int64) (billing.Invoice, error)
	LoadDraft(ctx context.Context, bookingID int64) (billing.Draft, error)
	Create(ctx context.Context, bookingID, guestID int64, lines []billing.LineItem) (billing.Invoice, error)
	Submit(ctx context.Context, invoiceID int64, sub billing.Submission) (billing.Invoice, error)
}

// Recorder receives business counters. The prometheus implementation lives
// in infra/metrics.
type Recorder interface {
	Quote(outcome string)
	Submit(outcome string)
	RejectedRemoval(source string)
}

type nopRecorder struct{}

func (nopRecorder) Quote(string)           {}
func (nopRecorder) Submit(string)          {}
func (nopRecorder) RejectedRemoval(string) {}

type Deps struct {
	Rooms    RoomStore
	Deals    DealStore
	Bookings BookingStore
	Invoices InvoiceStore
	Metrics  Recorder
	// Location stamps paid_at; UTC when nil.
	Location *time.Location
}

type Service struct {
	log      *slog.Logger
	rooms    RoomStore
	deals    DealStore
	bookings BookingStore
	invoices InvoiceStore
	metrics  Recorder
	now      func() time.Time
}

func New(log *slog.Logger, d Deps) *Service {
	rec := d.Metrics
	if rec == nil {
		rec = nopRecorder{}
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		log:      log,
		rooms:    d.Rooms,
		deals:    d.Deals,
		bookings: d.Bookings,
		invoices: d.Invoices,
		metrics:  rec,
		now:      func() time.Time { return time.Now().In(loc) },
	}
}

// Now is the desk clock in the configured hotel timezone.
func (s *Service) Now() time.Time { return s.now() }

// domain outcomes pass through untouched; anything else is a backend failure
var passThrough = []error{
	rooms.ErrNotFound,
	bookings.ErrNotFound,
	billing.ErrNotFound,
	billing.ErrInvoiceCancelled,
	billing.ErrValidationFailed,
	context.Canceled,
}

func backend(op string, err error) error {
	for _, target := range passThrough {
		if errors.Is(err, target) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrBackendUnavailable, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, stay.ErrInvalidDateRange):
		return "invalid_range"
	case errors.Is(err, rooms.ErrRateUnavailable):
		return "rate_unavailable"
	case errors.Is(err, billing.ErrValidationFailed):
		return "invalid"
	case errors.Is(err, billing.ErrInvoiceCancelled):
		return "cancelled"
	case errors.Is(err, ErrBackendUnavailable):
		return "backend_error"
	default:
		return "rejected"
	}
}
