package rooms

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrRateUnavailable = errors.New("rooms: no nightly rate available")

// ResolveBaseRate returns the nightly rate for the calendar month of date,
// falling back to the room's flat rate when the monthly entry is unusable.
func ResolveBaseRate(room Room, date time.Time) (float64, error) {
	if v := room.MonthlyRates[date.Month()-1]; usable(v) {
		return v, nil
	}
	if usable(room.Rate) {
		return room.Rate, nil
	}
	return 0, fmt.Errorf("room %s (%s) in %s: %w", room.Number, room.Type, date.Format("2006-01"), ErrRateUnavailable)
}

func usable(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
