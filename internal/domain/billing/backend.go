package billing

import "math"

// FromStored reshapes a backend row into a line item, deriving the rate.
func FromStored(s StoredItem) LineItem {
	qty := s.Qty
	if qty < 1 {
		qty = 1
	}
	return LineItem{
		Description:  s.Description,
		Quantity:     s.Qty,
		Rate:         s.Amount / float64(qty),
		Amount:       s.Amount,
		Category:     s.Category,
		Source:       s.Source,
		SourceStatus: s.Status,
	}
}

func (it LineItem) Stored() StoredItem {
	return StoredItem{
		Description: it.Description,
		Qty:         it.Quantity,
		Amount:      it.Amount,
		Category:    it.Category,
		Source:      it.Source,
		Status:      it.SourceStatus,
	}
}

// NewDraft builds an editing draft from a loaded invoice. Discount rows are
// folded into the single Discount field; their magnitudes add up.
func NewDraft(inv Invoice, stored []StoredItem) Draft {
	d := Draft{
		InvoiceID: inv.ID,
		BookingID: inv.BookingID,
		GuestID:   inv.GuestID,
		Status:    inv.Status,
		CreatedAt: inv.CreatedAt,
		PaidAt:    inv.PaidAt,
		Items:     make([]LineItem, 0, len(stored)),
	}
	for _, s := range stored {
		if s.Source != SourceDiscount {
			d.Items = append(d.Items, FromStored(s))
			continue
		}
		if d.Discount == nil {
			d.Discount = &Discount{Description: s.Description}
		}
		d.Discount.Amount += math.Abs(s.Amount)
	}
	return d
}

// Submission is what goes back to the backend on save: only staff-entered
// lines and the discount. Booking, trip and order lines are recomputed
// server-side and never sent.
type Submission struct {
	BookingID    int64        `json:"bookingId"`
	CustomItems  []StoredItem `json:"customItems"`
	Status       Status       `json:"status"`
	DiscountItem *Discount    `json:"discountItem"`
}

func (d Draft) Submission() Submission {
	sub := Submission{
		BookingID:   d.BookingID,
		CustomItems: []StoredItem{},
		Status:      d.Status,
	}
	for _, it := range d.CustomItems() {
		s := it.Stored()
		s.Status = ""
		sub.CustomItems = append(sub.CustomItems, s)
	}
	if d.Discount != nil {
		disc := *d.Discount
		sub.DiscountItem = &disc
	}
	return sub
}
