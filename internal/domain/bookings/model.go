package bookings

import (
	"time"

	"github.com/Spok95/frontdesk/internal/domain/stay"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusConfirmed  Status = "Confirmed"
	StatusCheckedIn  Status = "CheckedIn"
	StatusCheckedOut Status = "CheckedOut"
	StatusCancelled  Status = "Cancelled"
)

type Booking struct {
	ID        int64     `json:"id"`
	RoomID    int64     `json:"roomId"`
	GuestID   int64     `json:"guestId"`
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"-"`
}

func (b Booking) Range() stay.Range {
	return stay.Range{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// Blocks reports whether the booking still holds its room.
func (b Booking) Blocks() bool {
	return b.Status != StatusCancelled && b.Status != StatusCheckedOut
}
