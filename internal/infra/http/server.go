package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/pricing"
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/stay"
	"github.com/Spok95/frontdesk/internal/frontdesk"
	"github.com/Spok95/frontdesk/internal/infra/metrics"
)

// Desk is the part of frontdesk.Service the API serves.
type Desk interface {
	Quote(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (pricing.Quote, error)
	Availability(ctx context.Context, rg stay.Range, excluding *int64) ([]rooms.Room, error)
	ExtendStay(ctx context.Context, bookingID int64, newCheckOut time.Time) (pricing.Charge, error)
	GenerateInvoice(ctx context.Context, bookingID int64) (billing.Draft, error)
	OpenInvoice(ctx context.Context, bookingID int64) (billing.Draft, error)
	ApplyEdits(ctx context.Context, bookingID int64, e frontdesk.Edits) (billing.Draft, error)
	RemoveLine(d billing.Draft, index int) (billing.Draft, error)
	SubmitInvoice(ctx context.Context, d billing.Draft) (billing.Draft, error)
	RateSheet(ctx context.Context) ([]byte, error)
	ImportRateSheet(ctx context.Context, data []byte) (int, error)
}

type Options struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ExposeMetrics     bool
	Metrics           *metrics.Metrics
	// Payments serves /payments/pay when set.
	Payments http.Handler
}

type Server struct {
	srv  *http.Server
	log  *slog.Logger
	desk Desk
	met  *metrics.Metrics
}

func New(log *slog.Logger, desk Desk, opts Options) *Server {
	s := &Server{log: log, desk: desk, met: opts.Metrics}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if opts.ExposeMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	if opts.Payments != nil {
		mux.Handle("GET /payments/pay", opts.Payments)
	}
	s.addRoutes(mux)

	timeout := opts.ReadHeaderTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           applyMiddlewares(mux, s.accessLog, s.recoverPanic, withRequestID),
		ReadHeaderTimeout: timeout,
	}
	return s
}

func (s *Server) addRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/quote", s.quote)
	mux.HandleFunc("GET /api/availability", s.availability)
	mux.HandleFunc("POST /api/bookings/{id}/extend", s.extendStay)

	mux.HandleFunc("POST /api/invoices/{bookingID}", s.generateInvoice)
	mux.HandleFunc("GET /api/invoices/{bookingID}", s.getInvoice)
	mux.HandleFunc("POST /api/invoices/{bookingID}/submit", s.submitInvoice)
	mux.HandleFunc("DELETE /api/invoices/{bookingID}/lines/{index}", s.removeLine)
	mux.HandleFunc("GET /api/invoices/{bookingID}/export.xlsx", s.exportInvoice)

	mux.HandleFunc("GET /api/rooms/rates.xlsx", s.exportRates)
	mux.HandleFunc("PUT /api/rooms/rates.xlsx", s.importRates)
}

// Handler exposes the full middleware-wrapped router.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
