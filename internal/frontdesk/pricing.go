package frontdesk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/bookings"
	"github.com/Spok95/frontdesk/internal/domain/pricing"
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/stay"
)

// Quote prices a prospective stay in room roomID.
func (s *Service) Quote(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (q pricing.Quote, err error) {
	defer func() { s.metrics.Quote(outcome(err)) }()

	if _, err = stay.NewRange(checkIn, checkOut); err != nil {
		return pricing.Quote{}, err
	}
	room, err := s.rooms.Get(ctx, roomID)
	if err != nil {
		return pricing.Quote{}, backend("load room", err)
	}
	active, err := s.deals.ListActive(ctx)
	if err != nil {
		return pricing.Quote{}, backend("load deals", err)
	}
	return pricing.QuoteStay(room, checkIn, checkOut, active)
}

// Availability lists rooms free for rg. excluding names a booking to ignore,
// typically the one being edited.
func (s *Service) Availability(ctx context.Context, rg stay.Range, excluding *int64) ([]rooms.Room, error) {
	if _, err := stay.NewRange(rg.CheckIn, rg.CheckOut); err != nil {
		return nil, err
	}
	all, err := s.rooms.List(ctx)
	if err != nil {
		return nil, backend("load rooms", err)
	}
	taken, err := s.bookings.ListOverlapping(ctx, rg)
	if err != nil {
		return nil, backend("load bookings", err)
	}
	return bookings.AvailableRooms(all, taken, rg, excluding), nil
}

// ExtendStay moves a booking's check-out and bills the difference on its
// invoice. An invoice is generated first when the booking has none yet.
func (s *Service) ExtendStay(ctx context.Context, bookingID int64, newCheckOut time.Time) (pricing.Charge, error) {
	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return pricing.Charge{}, backend("load booking", err)
	}
	if !b.Blocks() {
		return pricing.Charge{}, ErrBookingClosed
	}
	room, err := s.rooms.Get(ctx, b.RoomID)
	if err != nil {
		return pricing.Charge{}, backend("load room", err)
	}
	active, err := s.deals.ListActive(ctx)
	if err != nil {
		return pricing.Charge{}, backend("load deals", err)
	}

	charge, err := pricing.ExtensionCharge(room, b.Range(), newCheckOut, active)
	if err != nil {
		return pricing.Charge{}, err
	}

	if charge.Direction == pricing.DirectionExtend {
		added := stay.Range{CheckIn: b.CheckOut, CheckOut: newCheckOut}
		free, err := s.Availability(ctx, added, &b.ID)
		if err != nil {
			return pricing.Charge{}, err
		}
		if !containsRoom(free, room.ID) {
			return pricing.Charge{}, ErrRoomOccupied
		}
	}

	inv, err := s.invoices.GetByBooking(ctx, bookingID)
	if errors.Is(err, billing.ErrNotFound) {
		if _, err = s.GenerateInvoice(ctx, bookingID); err == nil {
			inv, err = s.invoices.GetByBooking(ctx, bookingID)
		}
	}
	if err != nil {
		return pricing.Charge{}, backend("load invoice", err)
	}

	if inv.Status == billing.StatusCancelled {
		return pricing.Charge{}, fmt.Errorf("booking %d: invoice %d: %w", bookingID, inv.ID, billing.ErrInvoiceCancelled)
	}

	if err := s.bookings.MoveCheckOut(ctx, bookingID, newCheckOut, inv.ID, charge.LineItem()); err != nil {
		return pricing.Charge{}, backend("move check-out", err)
	}

	s.log.Info("stay changed",
		"booking_id", bookingID,
		"direction", charge.Direction,
		"nights", charge.Nights,
		"amount", charge.Amount,
	)
	return charge, nil
}

func containsRoom(list []rooms.Room, id int64) bool {
	for _, r := range list {
		if r.ID == id {
			return true
		}
	}
	return false
}
