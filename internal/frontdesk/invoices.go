package frontdesk

import (
	"context"
	"errors"
	"fmt"

	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/pricing"
)

// GenerateInvoice creates the invoice of a booking with its room line priced
// by the current rate table and deals. An existing invoice is returned as is.
func (s *Service) GenerateInvoice(ctx context.Context, bookingID int64) (billing.Draft, error) {
	d, err := s.invoices.LoadDraft(ctx, bookingID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, billing.ErrNotFound) {
		return billing.Draft{}, backend("load invoice", err)
	}

	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return billing.Draft{}, backend("load booking", err)
	}
	room, err := s.rooms.Get(ctx, b.RoomID)
	if err != nil {
		return billing.Draft{}, backend("load room", err)
	}
	active, err := s.deals.ListActive(ctx)
	if err != nil {
		return billing.Draft{}, backend("load deals", err)
	}
	q, err := pricing.QuoteStay(room, b.CheckIn, b.CheckOut, active)
	if err != nil {
		return billing.Draft{}, err
	}

	line := billing.LineItem{
		Description: fmt.Sprintf("Room %s x %d night(s)", room.Number, q.Nights),
		Quantity:    q.Nights,
		Rate:        q.EffectiveNightlyRate,
		Amount:      q.Total,
		Category:    billing.CategoryRoom,
		Source:      billing.SourceBooking,
	}
	inv, err := s.invoices.Create(ctx, b.ID, b.GuestID, []billing.LineItem{line})
	if err != nil {
		return billing.Draft{}, backend("create invoice", err)
	}
	s.log.Info("invoice generated", "booking_id", bookingID, "invoice_id", inv.ID, "total", inv.Total)

	d, err = s.invoices.LoadDraft(ctx, bookingID)
	if err != nil {
		return billing.Draft{}, backend("load invoice", err)
	}
	return d, nil
}

func (s *Service) OpenInvoice(ctx context.Context, bookingID int64) (billing.Draft, error) {
	d, err := s.invoices.LoadDraft(ctx, bookingID)
	if err != nil {
		return billing.Draft{}, backend("load invoice", err)
	}
	return d, nil
}

// RemoveLine removes line index from d and counts rejected attempts.
func (s *Service) RemoveLine(d billing.Draft, index int) (billing.Draft, error) {
	out, err := d.Remove(index)
	if errors.Is(err, billing.ErrImmutableLineItem) {
		lines := d.Lines()
		s.metrics.RejectedRemoval(string(lines[index].Source))
	}
	return out, err
}

// SubmitInvoice saves the custom lines, discount and status of d. On failure
// the caller's draft comes back unchanged so the edit can be retried. A draft
// whose stored invoice is already cancelled is rejected.
func (s *Service) SubmitInvoice(ctx context.Context, d billing.Draft) (billing.Draft, error) {
	current, err := s.invoices.GetByBooking(ctx, d.BookingID)
	if err != nil {
		err = backend("load invoice", err)
		s.metrics.Submit(outcome(err))
		return d, err
	}
	if current.Status == billing.StatusCancelled {
		s.metrics.Submit("cancelled")
		return d, fmt.Errorf("invoice %d: %w", current.ID, billing.ErrInvoiceCancelled)
	}
	if d.Status == billing.StatusPaid {
		s.log.Warn("submitting edits to a paid invoice",
			"invoice_id", d.InvoiceID,
			"booking_id", d.BookingID,
		)
	}

	inv, err := s.invoices.Submit(ctx, d.InvoiceID, d.Submission())
	if err != nil {
		err = backend("submit invoice", err)
		s.metrics.Submit(outcome(err))
		s.log.Error("invoice submit failed", "invoice_id", d.InvoiceID, "err", err)
		return d, err
	}
	s.metrics.Submit("ok")

	saved, err := s.invoices.LoadDraft(ctx, d.BookingID)
	if err != nil {
		// saved but not reloaded: the caller keeps its own copy
		s.log.Warn("reload after submit failed", "invoice_id", inv.ID, "err", err)
		return d, nil
	}
	return saved, nil
}

// Edits is a complete set of staff edits for one invoice.
type Edits struct {
	CustomItems []billing.CustomInput
	Discount    *billing.Discount
	Status      billing.Status
}

// ApplyEdits replaces the staff-entered part of the booking's invoice with e
// and saves it.
func (s *Service) ApplyEdits(ctx context.Context, bookingID int64, e Edits) (billing.Draft, error) {
	d, err := s.OpenInvoice(ctx, bookingID)
	if err != nil {
		return billing.Draft{}, err
	}
	if d.Status == billing.StatusCancelled {
		return d, fmt.Errorf("invoice %d: %w", d.InvoiceID, billing.ErrInvoiceCancelled)
	}

	next := d.WithoutEdits()
	for _, in := range e.CustomItems {
		if next, err = next.AddCustom(in); err != nil {
			return d, err
		}
	}
	if e.Discount != nil {
		if next, err = next.SetDiscount(e.Discount.Amount, e.Discount.Description); err != nil {
			return d, err
		}
	}
	if e.Status != "" {
		if next, err = next.SetStatus(e.Status, s.now()); err != nil {
			return d, err
		}
	}
	return s.SubmitInvoice(ctx, next)
}
