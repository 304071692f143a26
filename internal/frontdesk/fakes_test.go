package frontdesk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/bookings"
	"github.com/Spok95/frontdesk/internal/domain/deals"
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/stay"
)

var errDown = errors.New("connection refused")

type fakeRooms struct {
	list    []rooms.Room
	err     error
	applied []rooms.RateRow
}

func (f *fakeRooms) List(context.Context) ([]rooms.Room, error) { return f.list, f.err }

func (f *fakeRooms) Get(_ context.Context, id int64) (rooms.Room, error) {
	if f.err != nil {
		return rooms.Room{}, f.err
	}
	for _, r := range f.list {
		if r.ID == id {
			return r, nil
		}
	}
	return rooms.Room{}, fmt.Errorf("room %d: %w", id, rooms.ErrNotFound)
}

func (f *fakeRooms) ApplyRateRows(_ context.Context, rows []rooms.RateRow) (int, error) {
	f.applied = rows
	return len(rows), f.err
}

type fakeDeals struct {
	list []deals.Deal
	err  error
}

func (f *fakeDeals) ListActive(context.Context) ([]deals.Deal, error) { return f.list, f.err }

type fakeBookings struct {
	list []bookings.Booking
	err  error
	// bill stands in for the invoice write sharing the check-out transaction
	bill func(invoiceID int64, line billing.LineItem) error
}

func (f *fakeBookings) Get(_ context.Context, id int64) (bookings.Booking, error) {
	for _, b := range f.list {
		if b.ID == id {
			return b, nil
		}
	}
	return bookings.Booking{}, fmt.Errorf("booking %d: %w", id, bookings.ErrNotFound)
}

func (f *fakeBookings) ListOverlapping(_ context.Context, rg stay.Range) ([]bookings.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []bookings.Booking
	for _, b := range f.list {
		if b.Range().Overlaps(rg) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) MoveCheckOut(_ context.Context, id int64, checkOut time.Time, invoiceID int64, line billing.LineItem) error {
	for i := range f.list {
		if f.list[i].ID != id {
			continue
		}
		if err := f.bill(invoiceID, line); err != nil {
			return err
		}
		f.list[i].CheckOut = checkOut
		return nil
	}
	return bookings.ErrNotFound
}

// fakeInvoices keeps one invoice per booking in memory.
type fakeInvoices struct {
	invoices  map[int64]billing.Invoice
	items     map[int64][]billing.StoredItem
	submitErr error
	addErr    error
	submitted []billing.Submission
	nextID    int64
}

func newFakeInvoices() *fakeInvoices {
	return &fakeInvoices{invoices: map[int64]billing.Invoice{}, items: map[int64][]billing.StoredItem{}, nextID: 100}
}

func (f *fakeInvoices) GetByBooking(_ context.Context, bookingID int64) (billing.Invoice, error) {
	inv, ok := f.invoices[bookingID]
	if !ok {
		return billing.Invoice{}, fmt.Errorf("booking %d: %w", bookingID, billing.ErrNotFound)
	}
	return inv, nil
}

func (f *fakeInvoices) LoadDraft(ctx context.Context, bookingID int64) (billing.Draft, error) {
	inv, err := f.GetByBooking(ctx, bookingID)
	if err != nil {
		return billing.Draft{}, err
	}
	return billing.NewDraft(inv, f.items[inv.ID]), nil
}

func (f *fakeInvoices) Create(_ context.Context, bookingID, guestID int64, lines []billing.LineItem) (billing.Invoice, error) {
	f.nextID++
	inv := billing.Invoice{ID: f.nextID, BookingID: bookingID, GuestID: guestID, Status: billing.StatusPending}
	for _, l := range lines {
		f.items[inv.ID] = append(f.items[inv.ID], l.Stored())
	}
	inv.Total = f.total(inv.ID)
	f.invoices[bookingID] = inv
	return inv, nil
}

func (f *fakeInvoices) byID(invoiceID int64) (billing.Invoice, bool) {
	for _, inv := range f.invoices {
		if inv.ID == invoiceID {
			return inv, true
		}
	}
	return billing.Invoice{}, false
}

func (f *fakeInvoices) appendGenerated(invoiceID int64, line billing.LineItem) error {
	if f.addErr != nil {
		return f.addErr
	}
	inv, ok := f.byID(invoiceID)
	if !ok {
		return billing.ErrNotFound
	}
	if inv.Status == billing.StatusCancelled {
		return fmt.Errorf("invoice %d: %w", invoiceID, billing.ErrInvoiceCancelled)
	}
	f.items[invoiceID] = append(f.items[invoiceID], line.Stored())
	return nil
}

func (f *fakeInvoices) cancel(bookingID int64) {
	inv := f.invoices[bookingID]
	inv.Status = billing.StatusCancelled
	f.invoices[bookingID] = inv
}

func (f *fakeInvoices) Submit(_ context.Context, invoiceID int64, sub billing.Submission) (billing.Invoice, error) {
	if f.submitErr != nil {
		return billing.Invoice{}, f.submitErr
	}
	current, ok := f.byID(invoiceID)
	if !ok {
		return billing.Invoice{}, billing.ErrNotFound
	}
	if current.Status == billing.StatusCancelled || !current.Status.CanTransition(sub.Status) {
		return billing.Invoice{}, fmt.Errorf("invoice %d: %w", invoiceID, billing.ErrInvoiceCancelled)
	}
	f.submitted = append(f.submitted, sub)

	kept := []billing.StoredItem{}
	for _, s := range f.items[invoiceID] {
		if s.Source != billing.SourceCustom && s.Source != billing.SourceDiscount {
			kept = append(kept, s)
		}
	}
	kept = append(kept, sub.CustomItems...)
	if sub.DiscountItem != nil {
		kept = append(kept, sub.DiscountItem.Line().Stored())
	}
	f.items[invoiceID] = kept

	inv := f.invoices[sub.BookingID]
	inv.Status = sub.Status
	inv.Total = f.total(invoiceID)
	f.invoices[sub.BookingID] = inv
	return inv, nil
}

func (f *fakeInvoices) total(invoiceID int64) float64 {
	lines := make([]billing.LineItem, 0, len(f.items[invoiceID]))
	for _, s := range f.items[invoiceID] {
		lines = append(lines, billing.FromStored(s))
	}
	return billing.ComputeTotals(lines).Total
}

type countingRecorder struct {
	quotes, submits, removals map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{quotes: map[string]int{}, submits: map[string]int{}, removals: map[string]int{}}
}

func (c *countingRecorder) Quote(o string)           { c.quotes[o]++ }
func (c *countingRecorder) Submit(o string)          { c.submits[o]++ }
func (c *countingRecorder) RejectedRemoval(s string) { c.removals[s]++ }

type fixture struct {
	svc      *Service
	rooms    *fakeRooms
	deals    *fakeDeals
	bookings *fakeBookings
	invoices *fakeInvoices
	rec      *countingRecorder
}

func jan(d int) time.Time { return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC) }

func newFixture() *fixture {
	r101 := rooms.Room{ID: 1, Number: "101", Type: "Standard", Rate: 90}
	r101.MonthlyRates[0] = 100
	r102 := rooms.Room{ID: 2, Number: "102", Type: "Suite", Rate: 250}

	f := &fixture{
		rooms: &fakeRooms{list: []rooms.Room{r101, r102}},
		deals: &fakeDeals{list: []deals.Deal{
			{ID: 1, Name: "Winter", RoomTypes: []string{"standard"}, Discount: 20, Status: deals.StatusOngoing},
		}},
		bookings: &fakeBookings{list: []bookings.Booking{
			{ID: 10, RoomID: 1, GuestID: 5, CheckIn: jan(10), CheckOut: jan(15), Status: bookings.StatusConfirmed},
			{ID: 11, RoomID: 1, GuestID: 6, CheckIn: jan(17), CheckOut: jan(20), Status: bookings.StatusConfirmed},
			{ID: 12, RoomID: 2, GuestID: 7, CheckIn: jan(1), CheckOut: jan(3), Status: bookings.StatusCancelled},
		}},
		invoices: newFakeInvoices(),
		rec:      newCountingRecorder(),
	}
	f.svc = New(slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{
		Rooms:    f.rooms,
		Deals:    f.deals,
		Bookings: f.bookings,
		Invoices: f.invoices,
		Metrics:  f.rec,
	})
	f.bookings.bill = f.invoices.appendGenerated
	f.svc.now = func() time.Time { return jan(16) }
	return f
}
