package bot

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/bookings"
	"github.com/Spok95/frontdesk/internal/domain/pricing"
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/stay"
	"github.com/Spok95/frontdesk/internal/frontdesk"
)

const helpText = `Commands:
/quote <room id> <check-in> <check-out> - price a stay
/avail <check-in> <check-out> - free rooms
/extend <booking id> <new check-out> - move check-out and bill it
/invoice <booking id> - open an invoice for editing
/add <qty> <rate> [room|meal|service|other] <description> - add a custom line
/discount <amount> [description] | /discount off
/remove <line number>
/status <pending|paid|cancelled>
/submit - save the open invoice
/export - invoice as xlsx
/rates - download the rate sheet, then send it back edited
Dates are YYYY-MM-DD.`

func money(v float64, currency string) string {
	return fmt.Sprintf("%.2f %s", v, currency)
}

func renderQuote(q pricing.Quote, currency string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Room %d, %s (%d night(s))\n", q.RoomID, q.Stay, q.Nights)
	fmt.Fprintf(&sb, "Base rate: %s / night\n", money(q.NightlyBaseRate, currency))
	if q.AppliedDeal != nil {
		fmt.Fprintf(&sb, "Deal: %s (-%.0f%%)\n", q.AppliedDeal.Name, q.DiscountPercent)
	}
	fmt.Fprintf(&sb, "Effective rate: %s / night\n", money(q.EffectiveNightlyRate, currency))
	fmt.Fprintf(&sb, "Subtotal: %s\n", money(q.Subtotal, currency))
	if q.DiscountAmount > 0 {
		fmt.Fprintf(&sb, "Deal savings: %s\n", money(q.DiscountAmount, currency))
	}
	fmt.Fprintf(&sb, "Total: %s", money(q.Total, currency))
	return sb.String()
}

func renderRooms(rg stay.Range, list []rooms.Room) string {
	if len(list) == 0 {
		return "No free rooms for " + rg.String()
	}
	byType := map[string][]string{}
	for _, r := range list {
		byType[r.Type] = append(byType[r.Type], r.Number)
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Strings(types)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Free for %s:", rg)
	for _, t := range types {
		fmt.Fprintf(&sb, "\n%s: %s", t, strings.Join(byType[t], ", "))
	}
	return sb.String()
}

func renderCharge(c pricing.Charge, currency string) string {
	if c.Direction == pricing.DirectionExtend {
		return fmt.Sprintf("Stay extended by %d night(s): %s added to the invoice.",
			c.AddedNights, money(c.Amount, currency))
	}
	return fmt.Sprintf("Early check-out (%d night(s) dropped): fee of %s added to the invoice.",
		c.RemovedNights, money(c.Amount, currency))
}

func renderInvoice(d billing.Draft, currency string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Invoice #%d, booking #%d [%s]\n", d.InvoiceID, d.BookingID, d.Status)
	for i, it := range d.Lines() {
		lock := ""
		if !billing.CanRemove(it) {
			lock = " 🔒"
		}
		fmt.Fprintf(&sb, "%d. %s: %d x %.2f = %.2f (%s)%s\n",
			i+1, it.Description, it.Quantity, it.Rate, it.Amount, it.Source, lock)
	}
	t := d.Totals()
	fmt.Fprintf(&sb, "Subtotal before discount: %s\n", money(t.PreDiscountSubtotal, currency))
	if t.Discount > 0 {
		fmt.Fprintf(&sb, "Discount: -%s\n", money(t.Discount, currency))
	}
	fmt.Fprintf(&sb, "Tax (10%%): %s\n", money(t.Tax, currency))
	fmt.Fprintf(&sb, "Total: %s", money(t.Total, currency))
	if d.Status == billing.StatusPaid {
		sb.WriteString("\n⚠️ Invoice is already paid; edits change a settled bill.")
	}
	return sb.String()
}

// userMessage turns an error into a message for staff.
func userMessage(err error) string {
	var locked *lockedLineError
	if errors.As(err, &locked) {
		return "This line cannot be removed: " + locked.reason
	}
	if ve := billing.IsValidationError(err); ve != nil {
		keys := make([]string, 0, len(ve.Fields()))
		for k := range ve.Fields() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msgs := make([]string, 0, len(keys))
		for _, k := range keys {
			msgs = append(msgs, strings.Join(ve.Fields()[k], "; "))
		}
		return "Not saved: " + strings.Join(msgs, "; ")
	}

	switch {
	case errors.Is(err, errUsage):
		return "Wrong arguments. See /help."
	case errors.Is(err, stay.ErrInvalidDateRange):
		return "Check-out must be after check-in."
	case errors.Is(err, rooms.ErrRateUnavailable):
		return "This room has no rate for that month. Pick another room or date."
	case errors.Is(err, billing.ErrImmutableLineItem):
		return "This line cannot be removed."
	case errors.Is(err, billing.ErrInvoiceCancelled):
		return "The invoice is cancelled and cannot be changed."
	case errors.Is(err, rooms.ErrBadSheet):
		return "The rate sheet is malformed: " + err.Error()
	case errors.Is(err, rooms.ErrNotFound):
		return "Room not found."
	case errors.Is(err, bookings.ErrNotFound):
		return "Booking not found."
	case errors.Is(err, billing.ErrNotFound):
		return "Invoice not found."
	case errors.Is(err, frontdesk.ErrRoomOccupied):
		return "The room is booked by someone else for the new dates."
	case errors.Is(err, frontdesk.ErrBookingClosed):
		return "The booking is cancelled or already checked out."
	case errors.Is(err, frontdesk.ErrBackendUnavailable):
		return "The hotel system is not responding. Your edits are kept, try again."
	default:
		return "Something went wrong. Try again."
	}
}
