package pricing

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/deals"
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/stay"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func ptr[T any](v T) *T { return &v }

func jan(d int) time.Time { return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC) }

func deluxe() rooms.Room {
	r := rooms.Room{ID: 7, Number: "204", Type: "Deluxe", Rate: 120}
	r.MonthlyRates[0] = 100 // January
	return r
}

func TestQuoteStayNoDeals(t *testing.T) {
	for nights := 1; nights <= 10; nights++ {
		q, err := QuoteStay(deluxe(), jan(10), jan(10+nights), nil)
		if err != nil {
			t.Fatal(err)
		}
		if q.Nights != nights {
			t.Fatalf("nights = %d, want %d", q.Nights, nights)
		}
		if q.AppliedDeal != nil || q.DiscountPercent != 0 || q.DiscountAmount != 0 {
			t.Fatalf("unexpected deal in %+v", q)
		}
		if !approx(q.Total, 100*float64(nights)) || !approx(q.Subtotal, q.Total) {
			t.Fatalf("total = %v", q.Total)
		}
	}
}

func TestQuoteStayPartialDay(t *testing.T) {
	in := jan(10)
	out := in.Add(30 * time.Hour)
	q, err := QuoteStay(deluxe(), in, out, nil)
	if err != nil {
		t.Fatal(err)
	}
	if q.Nights != 2 {
		t.Fatalf("nights = %d, want 2", q.Nights)
	}

	short, err := QuoteStay(deluxe(), in, in.Add(3*time.Hour), nil)
	if err != nil {
		t.Fatal(err)
	}
	if short.Nights != 1 {
		t.Fatalf("nights = %d, want 1", short.Nights)
	}
}

func TestQuoteStayPercentDeal(t *testing.T) {
	list := []deals.Deal{{Name: "Winter", RoomTypes: []string{"deluxe"}, Discount: 20, Status: deals.StatusOngoing}}

	q, err := QuoteStay(deluxe(), jan(10), jan(13), list)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(q.EffectiveNightlyRate, 80) {
		t.Fatalf("effective = %v, want 80", q.EffectiveNightlyRate)
	}
	if q.AppliedDeal == nil || q.AppliedDeal.Name != "Winter" || q.DiscountPercent != 20 {
		t.Fatalf("deal = %+v, percent = %v", q.AppliedDeal, q.DiscountPercent)
	}
	if !approx(q.Subtotal, 300) || !approx(q.DiscountAmount, 60) || !approx(q.Total, 240) {
		t.Fatalf("quote = %+v", q)
	}
}

func TestQuoteStayLowestDealWins(t *testing.T) {
	list := []deals.Deal{
		{Name: "A", RoomTypes: []string{"Deluxe"}, Price: ptr(70.0), Status: deals.StatusNew},
		{Name: "B", RoomTypes: []string{"Deluxe"}, Discount: 40, Status: deals.StatusOngoing},
	}
	q, err := QuoteStay(deluxe(), jan(10), jan(12), list)
	if err != nil {
		t.Fatal(err)
	}
	if q.AppliedDeal == nil || q.AppliedDeal.Name != "B" || !approx(q.EffectiveNightlyRate, 60) {
		t.Fatalf("quote = %+v", q)
	}

	fixed := []deals.Deal{{Name: "Flat", RoomTypes: []string{"Deluxe"}, Price: ptr(75.0), Status: deals.StatusOngoing}}
	q, err = QuoteStay(deluxe(), jan(10), jan(12), fixed)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(q.DiscountPercent, 25) {
		t.Fatalf("derived percent = %v, want 25", q.DiscountPercent)
	}
}

func TestQuoteStayUsesCheckInMonth(t *testing.T) {
	r := deluxe()
	r.MonthlyRates[1] = 300 // February
	q, err := QuoteStay(r, jan(30), time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatal(err)
	}
	if q.NightlyBaseRate != 100 || !approx(q.Total, 400) {
		t.Fatalf("quote = %+v", q)
	}
}

func TestQuoteStayErrors(t *testing.T) {
	if _, err := QuoteStay(deluxe(), jan(10), jan(10), nil); !errors.Is(err, stay.ErrInvalidDateRange) {
		t.Fatalf("equal dates: %v", err)
	}
	if _, err := QuoteStay(deluxe(), jan(10), jan(9), nil); !errors.Is(err, stay.ErrInvalidDateRange) {
		t.Fatalf("reversed dates: %v", err)
	}

	noRate := rooms.Room{Number: "1", Type: "Single"}
	if _, err := QuoteStay(noRate, jan(1), jan(2), nil); !errors.Is(err, rooms.ErrRateUnavailable) {
		t.Fatalf("no rate: %v", err)
	}
}

func TestQuoteExtension(t *testing.T) {
	cases := []struct {
		name   string
		newOut time.Time
		want   Extension
	}{
		{"extend", jan(18), Extension{Direction: DirectionExtend, AddedNights: 3}},
		{"shorten", jan(13), Extension{Direction: DirectionShorten, RemovedNights: 2, PenaltyNights: 1}},
		{"same day", jan(15), Extension{Direction: DirectionShorten, PenaltyNights: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := QuoteExtension(jan(15), tc.newOut); got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestExtensionChargeShortenIsOneNight(t *testing.T) {
	list := []deals.Deal{{Name: "Winter", RoomTypes: []string{"Deluxe"}, Discount: 20, Status: deals.StatusOngoing}}
	original := stay.Range{CheckIn: jan(10), CheckOut: jan(15)}

	for _, newOut := range []time.Time{jan(14), jan(13), jan(11)} {
		c, err := ExtensionCharge(deluxe(), original, newOut, list)
		if err != nil {
			t.Fatal(err)
		}
		if c.Direction != DirectionShorten || c.Nights != 1 || !approx(c.Amount, 80) {
			t.Fatalf("new check-out %s: charge = %+v", newOut.Format("Jan 2"), c)
		}
	}

	if _, err := ExtensionCharge(deluxe(), original, jan(10), list); !errors.Is(err, stay.ErrInvalidDateRange) {
		t.Fatalf("check-out on check-in day: %v", err)
	}
}

func TestExtensionChargeExtend(t *testing.T) {
	r := deluxe()
	r.MonthlyRates[1] = 150
	original := stay.Range{CheckIn: jan(25), CheckOut: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)}
	newOut := time.Date(2025, time.February, 4, 0, 0, 0, 0, time.UTC)

	c, err := ExtensionCharge(r, original, newOut, nil)
	if err != nil {
		t.Fatal(err)
	}
	// added nights start in February and are priced at February's rate
	if c.Direction != DirectionExtend || c.Nights != 3 || c.Rate != 150 || !approx(c.Amount, 450) {
		t.Fatalf("charge = %+v", c)
	}

	line := c.LineItem()
	if line.Source != billing.SourceBooking || line.Category != billing.CategoryRoom {
		t.Fatalf("line = %+v", line)
	}
	if line.Quantity != 3 || !approx(line.Amount, float64(line.Quantity)*line.Rate) {
		t.Fatalf("line arithmetic = %+v", line)
	}
	if billing.CanRemove(line) {
		t.Fatal("generated room line must not be removable")
	}
}
