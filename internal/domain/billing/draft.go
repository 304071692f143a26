package billing

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Draft is the in-progress edit of one invoice. It is a plain value owned by
// the caller: every operation returns a new Draft and leaves the receiver
// untouched, so callers can keep the previous value for undo or retry.
//
// Items holds every non-discount line in invoice order. The discount lives in
// its own field and appears as a line only through Lines.
type Draft struct {
	InvoiceID int64      `json:"invoiceId"`
	BookingID int64      `json:"bookingId"`
	GuestID   int64      `json:"guestId"`
	Status    Status     `json:"status"`
	Items     []LineItem `json:"items"`
	Discount  *Discount  `json:"discount,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
}

type CustomInput struct {
	Description string
	Quantity    int
	Rate        float64
	Category    Category
}

func (d Draft) clone() Draft {
	out := d
	out.Items = append([]LineItem(nil), d.Items...)
	if d.Discount != nil {
		disc := *d.Discount
		out.Discount = &disc
	}
	return out
}

func (d Draft) editable() error {
	if d.Status == StatusCancelled {
		return fmt.Errorf("invoice %d: %w", d.InvoiceID, ErrInvoiceCancelled)
	}
	return nil
}

// Lines is the full line-item view: stored and custom items followed by the
// discount line, if any.
func (d Draft) Lines() []LineItem {
	out := make([]LineItem, 0, len(d.Items)+1)
	out = append(out, d.Items...)
	if d.Discount != nil {
		out = append(out, d.Discount.Line())
	}
	return out
}

func (d Draft) Totals() Totals { return ComputeTotals(d.Lines()) }

// CustomItems returns only the staff-entered lines.
func (d Draft) CustomItems() []LineItem {
	var out []LineItem
	for _, it := range d.Items {
		if it.Source == SourceCustom {
			out = append(out, it)
		}
	}
	return out
}

// WithoutEdits drops the custom lines and the discount, leaving only the
// generated part of the invoice.
func (d Draft) WithoutEdits() Draft {
	out := d.clone()
	out.Items = out.Items[:0]
	for _, it := range d.Items {
		if it.Source != SourceCustom {
			out.Items = append(out.Items, it)
		}
	}
	out.Discount = nil
	return out
}

func (d Draft) AddCustom(in CustomInput) (Draft, error) {
	if err := d.editable(); err != nil {
		return d, err
	}

	ve := newValidationError()
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		ve.add("description", "provide a description")
	}
	if in.Quantity < 1 {
		ve.add("qty", "quantity must be a whole number of at least 1")
	}
	if in.Rate < 0 || math.IsNaN(in.Rate) || math.IsInf(in.Rate, 0) {
		ve.add("rate", "rate must be zero or more")
	}
	cat := in.Category
	if cat == "" {
		cat = CategoryOther
	}
	if !cat.customAllowed() {
		ve.add("category", "category must be room, meal, service or other")
	}
	if err := ve.orNil(); err != nil {
		return d, err
	}

	out := d.clone()
	out.Items = append(out.Items, LineItem{
		Description: desc,
		Quantity:    in.Quantity,
		Rate:        in.Rate,
		Amount:      float64(in.Quantity) * in.Rate,
		Category:    cat,
		Source:      SourceCustom,
	})
	return out, nil
}

// SetDiscount replaces the current discount. amount is the positive value
// taken off the bill.
func (d Draft) SetDiscount(amount float64, description string) (Draft, error) {
	if err := d.editable(); err != nil {
		return d, err
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		ve := newValidationError()
		ve.add("discount.amount", "discount must be a positive amount")
		return d, ve
	}

	out := d.clone()
	out.Discount = &Discount{Amount: amount, Description: strings.TrimSpace(description)}
	return out, nil
}

func (d Draft) ClearDiscount() (Draft, error) {
	if err := d.editable(); err != nil {
		return d, err
	}
	out := d.clone()
	out.Discount = nil
	return out, nil
}

// Remove deletes the line at index in Lines(). Removing the discount line
// clears the discount.
func (d Draft) Remove(index int) (Draft, error) {
	if err := d.editable(); err != nil {
		return d, err
	}

	lines := d.Lines()
	if index < 0 || index >= len(lines) {
		ve := newValidationError()
		ve.add("index", fmt.Sprintf("line %d does not exist (invoice has %d lines)", index, len(lines)))
		return d, ve
	}

	item := lines[index]
	if !CanRemove(item) {
		return d, fmt.Errorf("line %d %q (%s): %s: %w",
			index, item.Description, item.Source, RemovalBlockedReason(item), ErrImmutableLineItem)
	}

	out := d.clone()
	if item.Source == SourceDiscount {
		out.Discount = nil
		return out, nil
	}
	out.Items = append(out.Items[:index], out.Items[index+1:]...)
	return out, nil
}

// SetStatus moves the invoice to a new status. Paid invoices stay editable;
// cancelled ones are terminal.
func (d Draft) SetStatus(to Status, now time.Time) (Draft, error) {
	if !to.Valid() {
		ve := newValidationError()
		ve.add("status", fmt.Sprintf("unknown status %q", to))
		return d, ve
	}
	if !d.Status.CanTransition(to) {
		return d, fmt.Errorf("invoice %d: %s -> %s: %w", d.InvoiceID, d.Status, to, ErrInvoiceCancelled)
	}

	out := d.clone()
	out.Status = to
	switch {
	case to == StatusPaid && out.PaidAt == nil:
		paid := now
		out.PaidAt = &paid
	case to == StatusPending:
		out.PaidAt = nil
	}
	return out, nil
}
