package billing

import (
	"errors"
	"math"
	"testing"
	"time"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func loadedDraft() Draft {
	return Draft{
		InvoiceID: 10,
		BookingID: 20,
		GuestID:   30,
		Status:    StatusPending,
		Items: []LineItem{
			{Description: "Room 101 x 3 nights", Quantity: 3, Rate: 100, Amount: 300, Category: CategoryRoom, Source: SourceBooking},
			{Description: "City tour", Quantity: 2, Rate: 40, Amount: 80, Category: CategoryService, Source: SourceTrip, SourceStatus: "Pending"},
			{Description: "Dinner", Quantity: 1, Rate: 25, Amount: 25, Category: CategoryMeal, Source: SourceOrder, SourceStatus: "Served"},
		},
	}
}

func TestAddCustom(t *testing.T) {
	d := loadedDraft()

	got, err := d.AddCustom(CustomInput{Description: "  Minibar  ", Quantity: 3, Rate: 4.5, Category: CategoryService})
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Items) != 3 {
		t.Fatal("receiver draft was modified")
	}
	last := got.Items[len(got.Items)-1]
	if last.Description != "Minibar" || last.Source != SourceCustom || !approx(last.Amount, 13.5) {
		t.Fatalf("unexpected line %+v", last)
	}

	noCat, err := d.AddCustom(CustomInput{Description: "Late checkout", Quantity: 1, Rate: 0})
	if err != nil {
		t.Fatal(err)
	}
	if noCat.Items[3].Category != CategoryOther {
		t.Fatalf("default category = %q", noCat.Items[3].Category)
	}
}

func TestAddCustomValidation(t *testing.T) {
	cases := []struct {
		name  string
		in    CustomInput
		field string
	}{
		{"blank description", CustomInput{Description: "   ", Quantity: 1, Rate: 1}, "description"},
		{"zero qty", CustomInput{Description: "x", Quantity: 0, Rate: 1}, "qty"},
		{"negative qty", CustomInput{Description: "x", Quantity: -2, Rate: 1}, "qty"},
		{"negative rate", CustomInput{Description: "x", Quantity: 1, Rate: -0.01}, "rate"},
		{"NaN rate", CustomInput{Description: "x", Quantity: 1, Rate: math.NaN()}, "rate"},
		{"discount category", CustomInput{Description: "x", Quantity: 1, Rate: 1, Category: CategoryDiscount}, "category"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := loadedDraft()
			got, err := d.AddCustom(tc.in)
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("err = %v, want ErrValidationFailed", err)
			}
			ve := IsValidationError(err)
			if ve == nil || len(ve.Fields()[tc.field]) == 0 {
				t.Fatalf("missing field %q in %v", tc.field, err)
			}
			if len(got.Items) != len(d.Items) {
				t.Fatal("rejected add changed the draft")
			}
		})
	}
}

func TestRemove(t *testing.T) {
	d := loadedDraft()
	d, _ = d.AddCustom(CustomInput{Description: "Laundry", Quantity: 1, Rate: 12})
	d, _ = d.SetDiscount(30, "Loyalty")

	// lines: 0 booking, 1 trip, 2 order, 3 custom, 4 discount
	for _, idx := range []int{0, 1, 2} {
		_, err := d.Remove(idx)
		if !errors.Is(err, ErrImmutableLineItem) {
			t.Fatalf("remove %d: err = %v, want ErrImmutableLineItem", idx, err)
		}
	}

	noCustom, err := d.Remove(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(noCustom.CustomItems()) != 0 || noCustom.Discount == nil {
		t.Fatalf("custom removal went wrong: %+v", noCustom)
	}

	noDiscount, err := d.Remove(4)
	if err != nil {
		t.Fatal(err)
	}
	if noDiscount.Discount != nil {
		t.Fatal("discount removal must clear the discount field")
	}
	if len(noDiscount.Items) != 4 {
		t.Fatalf("items changed: %d", len(noDiscount.Items))
	}

	if _, err := d.Remove(5); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("out of range: err = %v", err)
	}
	if _, err := d.Remove(-1); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("negative index: err = %v", err)
	}
	if len(d.Lines()) != 5 {
		t.Fatal("receiver draft was modified")
	}
}

func TestSetDiscount(t *testing.T) {
	d := loadedDraft()

	for _, bad := range []float64{0, -5, math.Inf(1), math.NaN()} {
		if _, err := d.SetDiscount(bad, ""); !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("amount %v: err = %v", bad, err)
		}
	}

	d1, err := d.SetDiscount(20, "  Promo ")
	if err != nil {
		t.Fatal(err)
	}
	d2, err := d1.SetDiscount(35, "")
	if err != nil {
		t.Fatal(err)
	}
	if d1.Discount.Amount != 20 || d1.Discount.Description != "Promo" {
		t.Fatalf("first discount altered: %+v", d1.Discount)
	}
	if d2.Discount.Amount != 35 {
		t.Fatalf("discount not replaced: %+v", d2.Discount)
	}

	lines := d2.Lines()
	last := lines[len(lines)-1]
	if last.Source != SourceDiscount || last.Amount != -35 || last.Description != "Discount" {
		t.Fatalf("derived discount line = %+v", last)
	}

	cleared, err := d2.ClearDiscount()
	if err != nil {
		t.Fatal(err)
	}
	if cleared.Discount != nil || d2.Discount == nil {
		t.Fatal("ClearDiscount must only affect the returned draft")
	}
}

func TestCancelledDraftIsImmutable(t *testing.T) {
	d := loadedDraft()
	d, _ = d.SetDiscount(10, "")
	d.Status = StatusCancelled

	if _, err := d.AddCustom(CustomInput{Description: "x", Quantity: 1, Rate: 1}); !errors.Is(err, ErrInvoiceCancelled) {
		t.Fatalf("add: %v", err)
	}
	if _, err := d.SetDiscount(5, ""); !errors.Is(err, ErrInvoiceCancelled) {
		t.Fatalf("discount: %v", err)
	}
	if _, err := d.ClearDiscount(); !errors.Is(err, ErrInvoiceCancelled) {
		t.Fatalf("clear: %v", err)
	}
	if _, err := d.Remove(3); !errors.Is(err, ErrInvoiceCancelled) {
		t.Fatalf("remove: %v", err)
	}
	if _, err := d.SetStatus(StatusPending, time.Now()); !errors.Is(err, ErrInvoiceCancelled) {
		t.Fatalf("reopen: %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	d := loadedDraft()

	paid, err := d.SetStatus(StatusPaid, now)
	if err != nil {
		t.Fatal(err)
	}
	if paid.PaidAt == nil || !paid.PaidAt.Equal(now) {
		t.Fatalf("paidAt = %v", paid.PaidAt)
	}

	// paid invoices still accept edits
	edited, err := paid.AddCustom(CustomInput{Description: "Parking", Quantity: 2, Rate: 10})
	if err != nil {
		t.Fatalf("edit after paid: %v", err)
	}
	if edited.Status != StatusPaid {
		t.Fatal("status lost")
	}

	reopened, err := paid.SetStatus(StatusPending, now)
	if err != nil {
		t.Fatal(err)
	}
	if reopened.PaidAt != nil {
		t.Fatal("reopening must clear paidAt")
	}

	if _, err := d.SetStatus("refunded", now); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("unknown status: %v", err)
	}
}
