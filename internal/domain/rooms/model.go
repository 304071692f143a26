package rooms

import "time"

// Room is the rate profile of a single room: its type, a nightly rate per
// calendar month (index 0 = January) and a flat fallback rate.
type Room struct {
	ID           int64       `json:"id"`
	Number       string      `json:"roomNumber"`
	Type         string      `json:"type"`
	Rate         float64     `json:"rate"`
	MonthlyRates [12]float64 `json:"monthlyRates"`
	CreatedAt    time.Time   `json:"-"`
}

// RateRow is one parsed line of the rate spreadsheet. Nil means "keep".
type RateRow struct {
	RoomID  int64
	Rate    *float64
	Monthly [12]*float64
}

func (r RateRow) Empty() bool {
	if r.Rate != nil {
		return false
	}
	for _, m := range r.Monthly {
		if m != nil {
			return false
		}
	}
	return true
}

// WithRates returns a copy of the room with the non-nil values of row applied.
func (r Room) WithRates(row RateRow) Room {
	if row.Rate != nil {
		r.Rate = *row.Rate
	}
	for i, m := range row.Monthly {
		if m != nil {
			r.MonthlyRates[i] = *m
		}
	}
	return r
}
