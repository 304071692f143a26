package bookings

import (
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/stay"
)

// AvailableRooms returns the rooms of allRooms, in their original order, that
// no blocking booking occupies during candidate. The booking with id
// excludingID, if given, is ignored so it does not conflict with itself.
func AvailableRooms(allRooms []rooms.Room, list []Booking, candidate stay.Range, excludingID *int64) []rooms.Room {
	occupied := make(map[int64]struct{})
	for _, b := range list {
		if excludingID != nil && b.ID == *excludingID {
			continue
		}
		if !b.Blocks() || !b.Range().Overlaps(candidate) {
			continue
		}
		occupied[b.RoomID] = struct{}{}
	}

	out := make([]rooms.Room, 0, len(allRooms))
	for _, r := range allRooms {
		if _, taken := occupied[r.ID]; !taken {
			out = append(out, r)
		}
	}
	return out
}
