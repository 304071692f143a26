package payments

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Spok95/frontdesk/internal/domain/billing"
)

type StatusSetter interface {
	SetStatus(ctx context.Context, invoiceID int64, status billing.Status) error
}

type Handler struct {
	log      *slog.Logger
	invoices StatusSetter
}

func NewHandler(log *slog.Logger, invoices StatusSetter) *Handler {
	return &Handler{log: log, invoices: invoices}
}

// ServeHTTP stands in for the provider callback:
// /payments/pay?invoice=123 marks the invoice paid and renders a receipt page.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invoiceStr := r.URL.Query().Get("invoice")
	if invoiceStr == "" {
		http.Error(w, "missing invoice parameter", http.StatusBadRequest)
		return
	}
	invoiceID, err := strconv.ParseInt(invoiceStr, 10, 64)
	if err != nil || invoiceID <= 0 {
		http.Error(w, "invalid invoice parameter", http.StatusBadRequest)
		return
	}

	if err := h.invoices.SetStatus(ctx, invoiceID, billing.StatusPaid); err != nil {
		switch {
		case errors.Is(err, billing.ErrNotFound):
			http.Error(w, "invoice not found", http.StatusNotFound)
		case errors.Is(err, billing.ErrInvoiceCancelled):
			http.Error(w, "invoice is cancelled", http.StatusConflict)
		default:
			h.log.Error("failed to mark invoice as paid", "invoice_id", invoiceID, "err", err)
			http.Error(w, "failed to update invoice status", http.StatusInternalServerError)
		}
		return
	}
	h.log.Info("invoice paid", "invoice_id", invoiceID)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprintf(w,
		"<html><body><h1>Payment received</h1><p>Invoice #%d is marked as paid (%s).</p></body></html>",
		invoiceID, html.EscapeString(r.URL.Query().Get("amount")),
	)
}
