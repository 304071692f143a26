package pricing

import (
	"time"

	"github.com/Spok95/frontdesk/internal/domain/deals"
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/stay"
)

// Quote is the price breakdown of one stay. It is recomputed on every input
// change and never stored.
type Quote struct {
	RoomID               int64       `json:"roomId"`
	Stay                 stay.Range  `json:"stay"`
	NightlyBaseRate      float64     `json:"nightlyBaseRate"`
	Nights               int         `json:"nights"`
	AppliedDeal          *deals.Deal `json:"appliedDeal"`
	DiscountPercent      float64     `json:"discountPercent"`
	EffectiveNightlyRate float64     `json:"effectiveNightlyRate"`
	Subtotal             float64     `json:"subtotal"`
	DiscountAmount       float64     `json:"discountAmount"`
	Total                float64     `json:"total"`
}

// QuoteStay prices [checkIn, checkOut) for room. The whole stay is charged at
// the check-in month's base rate and the deal is matched once, on check-in.
func QuoteStay(room rooms.Room, checkIn, checkOut time.Time, list []deals.Deal) (Quote, error) {
	r, err := stay.NewRange(checkIn, checkOut)
	if err != nil {
		return Quote{}, err
	}
	base, err := rooms.ResolveBaseRate(room, checkIn)
	if err != nil {
		return Quote{}, err
	}

	deal, effective := deals.SelectBest(room.Type, checkIn, base, list)
	nights := float64(r.Nights())

	return Quote{
		RoomID:               room.ID,
		Stay:                 r,
		NightlyBaseRate:      base,
		Nights:               r.Nights(),
		AppliedDeal:          deal,
		DiscountPercent:      discountPercent(deal, base, effective),
		EffectiveNightlyRate: effective,
		Subtotal:             base * nights,
		DiscountAmount:       (base - effective) * nights,
		Total:                effective * nights,
	}, nil
}

// fixed-price deals report the percentage they take off the base rate
func discountPercent(deal *deals.Deal, base, effective float64) float64 {
	switch {
	case deal == nil:
		return 0
	case deal.HasFixedPrice():
		return (base - effective) / base * 100
	default:
		return deal.Discount
	}
}

// EffectiveRate is the nightly rate room would be charged for a stay that
// starts on date.
func EffectiveRate(room rooms.Room, date time.Time, list []deals.Deal) (float64, *deals.Deal, error) {
	base, err := rooms.ResolveBaseRate(room, date)
	if err != nil {
		return 0, nil, err
	}
	deal, effective := deals.SelectBest(room.Type, date, base, list)
	return effective, deal, nil
}
