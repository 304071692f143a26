package billing

import "time"

// Source is the provenance of a line item. It decides whether staff may
// remove the line; see CanRemove.
type Source string

const (
	SourceBooking  Source = "booking"
	SourceTrip     Source = "trip"
	SourceOrder    Source = "order"
	SourceCustom   Source = "custom"
	SourceDiscount Source = "discount"
)

type Category string

const (
	CategoryRoom     Category = "room"
	CategoryMeal     Category = "meal"
	CategoryService  Category = "service"
	CategoryOther    Category = "other"
	CategoryDiscount Category = "discount"
)

// custom lines may use every category except discount
func (c Category) customAllowed() bool {
	switch c {
	case CategoryRoom, CategoryMeal, CategoryService, CategoryOther:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusPaid || s == StatusCancelled
}

// CanTransition: cancelled is terminal, everything else may move freely.
func (s Status) CanTransition(to Status) bool {
	if !to.Valid() {
		return false
	}
	if s == to {
		return true
	}
	return s != StatusCancelled
}

// LineItem is one billable entry. Amount equals Quantity × Rate for every
// source except discount, whose Amount is the negative value subtracted.
type LineItem struct {
	Description  string   `json:"description"`
	Quantity     int      `json:"qty"`
	Rate         float64  `json:"rate"`
	Amount       float64  `json:"amount"`
	Category     Category `json:"category"`
	Source       Source   `json:"source"`
	SourceStatus string   `json:"status,omitempty"`
}

type Discount struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// Line is the synthetic line-item view of the discount.
func (d Discount) Line() LineItem {
	desc := d.Description
	if desc == "" {
		desc = "Discount"
	}
	return LineItem{
		Description: desc,
		Quantity:    1,
		Rate:        -d.Amount,
		Amount:      -d.Amount,
		Category:    CategoryDiscount,
		Source:      SourceDiscount,
	}
}

// Invoice is the stored invoice header.
type Invoice struct {
	ID        int64      `json:"id"`
	BookingID int64      `json:"bookingId"`
	GuestID   int64      `json:"guestId"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	Total     float64    `json:"total"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
}

// StoredItem is the backend shape of a line item: no rate, only qty and amount.
type StoredItem struct {
	Description string   `json:"description"`
	Qty         int      `json:"qty"`
	Amount      float64  `json:"amount"`
	Category    Category `json:"category"`
	Source      Source   `json:"source"`
	Status      string   `json:"status,omitempty"`
}
