package billing

// Lifecycle states of the entity behind a trip or order line that lock the
// line on the invoice.
var (
	tripLockedStatuses  = map[string]bool{"Confirmed": true, "Approved": true, "Completed": true}
	orderLockedStatuses = map[string]bool{"Ready": true, "Served": true}
)

// CanRemove decides whether staff may delete a line from an invoice.
// Trip and order lines stay on the invoice whatever their status; the lock
// lists above only shape the message from RemovalBlockedReason.
func CanRemove(item LineItem) bool {
	switch item.Source {
	case SourceCustom, SourceDiscount:
		return true
	case SourceBooking, SourceTrip, SourceOrder:
		return false
	default:
		return false
	}
}

// RemovalBlockedReason explains a false CanRemove in staff-facing words.
func RemovalBlockedReason(item LineItem) string {
	switch item.Source {
	case SourceCustom, SourceDiscount:
		return ""
	case SourceBooking:
		return "room charges are generated from the booking and cannot be removed"
	case SourceTrip:
		if tripLockedStatuses[item.SourceStatus] {
			return "trip is " + item.SourceStatus + "; cancel the trip first"
		}
		return "trip charges are managed from the trip itself"
	case SourceOrder:
		if orderLockedStatuses[item.SourceStatus] {
			return "order is already " + item.SourceStatus
		}
		return "order charges are managed from the order itself"
	default:
		return "unknown line source " + string(item.Source)
	}
}
