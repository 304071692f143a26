package stay

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

var ErrInvalidDateRange = errors.New("stay: check-out must be after check-in")

// Range is a half-open stay interval [CheckIn, CheckOut).
type Range struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}

func NewRange(checkIn, checkOut time.Time) (Range, error) {
	if !checkOut.After(checkIn) {
		return Range{}, fmt.Errorf("%s .. %s: %w", checkIn.Format(dayLayout), checkOut.Format(dayLayout), ErrInvalidDateRange)
	}
	return Range{CheckIn: checkIn, CheckOut: checkOut}, nil
}

// Nights rounds partial days up and never returns less than one.
func (r Range) Nights() int {
	days := r.CheckOut.Sub(r.CheckIn).Hours() / 24
	n := int(math.Ceil(days))
	if n < 1 {
		return 1
	}
	return n
}

func (r Range) Overlaps(other Range) bool {
	return r.CheckIn.Before(other.CheckOut) && r.CheckOut.After(other.CheckIn)
}

func (r Range) String() string {
	return r.CheckIn.Format(dayLayout) + " .. " + r.CheckOut.Format(dayLayout)
}

// Day drops the clock part and moves t to UTC midnight of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(dayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

// ParseRange parses two YYYY-MM-DD dates into a validated Range.
func ParseRange(checkIn, checkOut string) (Range, error) {
	in, err := ParseDay(checkIn)
	if err != nil {
		return Range{}, err
	}
	out, err := ParseDay(checkOut)
	if err != nil {
		return Range{}, err
	}
	return NewRange(in, out)
}
