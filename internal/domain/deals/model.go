package deals

import (
	"math"
	"strings"
	"time"
)

type Status string

const (
	StatusOngoing  Status = "Ongoing"
	StatusNew      Status = "New"
	StatusInactive Status = "Inactive"
	StatusFull     Status = "Full"
	StatusFinished Status = "Finished"
)

// Eligible reports whether a deal in this status may be auto-applied.
// Inactive and Full still qualify; only Finished (and unknown values) do not.
func (s Status) Eligible() bool {
	switch s {
	case StatusOngoing, StatusNew, StatusInactive, StatusFull:
		return true
	default:
		return false
	}
}

// Deal is a promotional override of a room type's nightly rate.
type Deal struct {
	ID          int64      `json:"id"`
	Name        string     `json:"dealName"`
	RoomTypes   []string   `json:"roomType"`
	Price       *float64   `json:"price,omitempty"`
	Discount    float64    `json:"discount"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Status      Status     `json:"status"`
	Description string     `json:"description,omitempty"`
}

// Applicable checks status, room type and the inclusive validity window.
// A deal without dates is always in its window.
func (d Deal) Applicable(roomType string, date time.Time) bool {
	return d.Status.Eligible() && d.coversRoomType(roomType) && d.coversDate(date)
}

func (d Deal) coversRoomType(roomType string) bool {
	for _, t := range d.RoomTypes {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(roomType)) {
			return true
		}
	}
	return false
}

func (d Deal) coversDate(date time.Time) bool {
	if d.StartDate != nil && date.Before(*d.StartDate) {
		return false
	}
	if d.EndDate != nil && date.After(*d.EndDate) {
		return false
	}
	return true
}

// HasFixedPrice is true when the override price is a finite number above zero.
func (d Deal) HasFixedPrice() bool {
	return d.Price != nil && *d.Price > 0 && !math.IsInf(*d.Price, 0) && !math.IsNaN(*d.Price)
}

func (d Deal) CandidateRate(baseRate float64) float64 {
	if d.HasFixedPrice() {
		return *d.Price
	}
	return baseRate * (1 - d.Discount/100)
}
