package payments

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Spok95/frontdesk/internal/domain/billing"
)

type fakeSetter struct {
	err  error
	got  int64
	with billing.Status
}

func (f *fakeSetter) SetStatus(_ context.Context, id int64, s billing.Status) error {
	f.got, f.with = id, s
	return f.err
}

func TestPaymentURL(t *testing.T) {
	s := NewService("https://desk.example.com/", "EUR")
	link := s.PaymentURL(billing.Invoice{ID: 42, Total: 433.2})

	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	if u.Path != "/payments/pay" || u.Query().Get("invoice") != "42" || u.Query().Get("amount") != "433.20" || u.Query().Get("currency") != "EUR" {
		t.Fatalf("link = %s", link)
	}
}

func TestHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cases := []struct {
		name  string
		query string
		err   error
		code  int
	}{
		{"paid", "invoice=7&amount=10.00", nil, http.StatusOK},
		{"missing", "", nil, http.StatusBadRequest},
		{"garbage", "invoice=abc", nil, http.StatusBadRequest},
		{"unknown", "invoice=7", fmt.Errorf("invoice 7: %w", billing.ErrNotFound), http.StatusNotFound},
		{"cancelled", "invoice=7", billing.ErrInvoiceCancelled, http.StatusConflict},
		{"db down", "invoice=7", fmt.Errorf("conn closed"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := &fakeSetter{err: tc.err}
			rec := httptest.NewRecorder()
			NewHandler(log, fs).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/payments/pay?"+tc.query, nil))
			if rec.Code != tc.code {
				t.Fatalf("code = %d, want %d", rec.Code, tc.code)
			}
			if tc.code == http.StatusOK {
				if fs.got != 7 || fs.with != billing.StatusPaid {
					t.Fatalf("set %d -> %s", fs.got, fs.with)
				}
				if !strings.Contains(rec.Body.String(), "#7") {
					t.Fatalf("body = %s", rec.Body.String())
				}
			}
		})
	}
}
