package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/deals"
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/stay"
)

type Direction string

const (
	DirectionExtend  Direction = "extend"
	DirectionShorten Direction = "shorten"
)

// ShortenPenaltyNights is charged on every early check-out, however many
// nights were dropped.
const ShortenPenaltyNights = 1

type Extension struct {
	Direction     Direction `json:"direction"`
	AddedNights   int       `json:"addedNights"`
	RemovedNights int       `json:"removedNights"`
	PenaltyNights int       `json:"penaltyNights"`
}

// QuoteExtension classifies a check-out change. Moving check-out to the same
// day counts as shortening.
func QuoteExtension(originalCheckOut, newCheckOut time.Time) Extension {
	if newCheckOut.After(originalCheckOut) {
		return Extension{
			Direction:   DirectionExtend,
			AddedNights: stay.Range{CheckIn: originalCheckOut, CheckOut: newCheckOut}.Nights(),
		}
	}
	return Extension{
		Direction:     DirectionShorten,
		RemovedNights: int(math.Ceil(originalCheckOut.Sub(newCheckOut).Hours() / 24)),
		PenaltyNights: ShortenPenaltyNights,
	}
}

// Charge is the extra room charge caused by a check-out change.
type Charge struct {
	Extension
	RoomNumber string      `json:"roomNumber"`
	Nights     int         `json:"nights"`
	Rate       float64     `json:"rate"`
	Amount     float64     `json:"amount"`
	Deal       *deals.Deal `json:"deal,omitempty"`
}

// ExtensionCharge prices moving original's check-out to newCheckOut.
// Added nights are quoted as a fresh stay starting at the old check-out.
// Shortening costs one night at the rate in effect for the original check-in.
func ExtensionCharge(room rooms.Room, original stay.Range, newCheckOut time.Time, list []deals.Deal) (Charge, error) {
	if _, err := stay.NewRange(original.CheckIn, newCheckOut); err != nil {
		return Charge{}, err
	}

	ext := QuoteExtension(original.CheckOut, newCheckOut)
	c := Charge{Extension: ext, RoomNumber: room.Number}

	if ext.Direction == DirectionExtend {
		q, err := QuoteStay(room, original.CheckOut, newCheckOut, list)
		if err != nil {
			return Charge{}, err
		}
		c.Nights = q.Nights
		c.Rate = q.EffectiveNightlyRate
		c.Amount = q.Total
		c.Deal = q.AppliedDeal
		return c, nil
	}

	rate, deal, err := EffectiveRate(room, original.CheckIn, list)
	if err != nil {
		return Charge{}, err
	}
	c.Nights = ext.PenaltyNights
	c.Rate = rate
	c.Amount = rate * float64(ext.PenaltyNights)
	c.Deal = deal
	return c, nil
}

// LineItem turns the charge into a generated room line for the invoice.
func (c Charge) LineItem() billing.LineItem {
	desc := fmt.Sprintf("Room %s: %d extra night(s)", c.RoomNumber, c.Nights)
	if c.Direction == DirectionShorten {
		desc = fmt.Sprintf("Room %s: early check-out fee (%d night)", c.RoomNumber, c.Nights)
	}
	return billing.LineItem{
		Description: desc,
		Quantity:    c.Nights,
		Rate:        c.Rate,
		Amount:      c.Amount,
		Category:    billing.CategoryRoom,
		Source:      billing.SourceBooking,
	}
}
