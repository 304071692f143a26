package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/bookings"
	"github.com/Spok95/frontdesk/internal/domain/rooms"
	"github.com/Spok95/frontdesk/internal/domain/stay"
	"github.com/Spok95/frontdesk/internal/frontdesk"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxSheetBytes   = 10 << 20
)

var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, billing.ErrValidationFailed),
		errors.Is(err, stay.ErrInvalidDateRange),
		errors.Is(err, rooms.ErrBadSheet):
		return http.StatusBadRequest
	case errors.Is(err, rooms.ErrNotFound),
		errors.Is(err, bookings.ErrNotFound),
		errors.Is(err, billing.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, billing.ErrImmutableLineItem),
		errors.Is(err, billing.ErrInvoiceCancelled),
		errors.Is(err, frontdesk.ErrBookingClosed),
		errors.Is(err, frontdesk.ErrRoomOccupied):
		return http.StatusConflict
	case errors.Is(err, rooms.ErrRateUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, frontdesk.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	body := errorBody{Error: err.Error()}
	if ve := billing.IsValidationError(err); ve != nil {
		body.Fields = ve.Fields()
	}
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
		body.Error = http.StatusText(code)
	}
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeXLSX(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(data)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", name, r.PathValue(name), errBadRequest)
	}
	return id, nil
}

func (s *Server) quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomID, err := strconv.ParseInt(q.Get("room"), 10, 64)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("room: %w", errBadRequest))
		return
	}
	rg, err := parseRange(q.Get("checkIn"), q.Get("checkOut"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	quote, err := s.desk.Quote(r.Context(), roomID, rg.CheckIn, rg.CheckOut)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) availability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rg, err := parseRange(q.Get("checkIn"), q.Get("checkOut"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var excluding *int64
	if v := q.Get("excluding"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("excluding: %w", errBadRequest))
			return
		}
		excluding = &id
	}
	free, err := s.desk.Availability(r.Context(), rg, excluding)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, free)
}

// unparsable dates are a bad request, reversed ones an invalid range
func parseRange(checkIn, checkOut string) (stay.Range, error) {
	rg, err := stay.ParseRange(checkIn, checkOut)
	if err != nil && !errors.Is(err, stay.ErrInvalidDateRange) {
		return stay.Range{}, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return rg, err
}

type extendRequest struct {
	CheckOut string `json:"checkOut"`
}

func (s *Server) extendStay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req extendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	checkOut, err := stay.ParseDay(req.CheckOut)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	charge, err := s.desk.ExtendStay(r.Context(), id, checkOut)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, charge)
}

type lineView struct {
	Index int `json:"index"`
	billing.LineItem
	Removable     bool   `json:"removable"`
	BlockedReason string `json:"blockedReason,omitempty"`
}

type invoiceView struct {
	Invoice billing.Draft  `json:"invoice"`
	Lines   []lineView     `json:"lines"`
	Totals  billing.Totals `json:"totals"`
}

func viewOf(d billing.Draft) invoiceView {
	lines := d.Lines()
	out := invoiceView{Invoice: d, Lines: make([]lineView, 0, len(lines)), Totals: d.Totals()}
	for i, it := range lines {
		out.Lines = append(out.Lines, lineView{
			Index:         i,
			LineItem:      it,
			Removable:     billing.CanRemove(it),
			BlockedReason: billing.RemovalBlockedReason(it),
		})
	}
	return out
}

func (s *Server) generateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookingID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.desk.GenerateInvoice(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(d))
}

func (s *Server) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookingID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.desk.OpenInvoice(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(d))
}

type customItemRequest struct {
	Description string  `json:"description"`
	Qty         int     `json:"qty"`
	Rate        float64 `json:"rate"`
	Category    string  `json:"category"`
}

type submitRequest struct {
	CustomItems  []customItemRequest `json:"customItems"`
	DiscountItem *billing.Discount   `json:"discountItem"`
	Status       billing.Status      `json:"status"`
}

func (req submitRequest) edits() frontdesk.Edits {
	e := frontdesk.Edits{Discount: req.DiscountItem, Status: req.Status}
	for _, it := range req.CustomItems {
		e.CustomItems = append(e.CustomItems, billing.CustomInput{
			Description: it.Description,
			Quantity:    it.Qty,
			Rate:        it.Rate,
			Category:    billing.Category(strings.ToLower(strings.TrimSpace(it.Category))),
		})
	}
	return e
}

func (s *Server) submitInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookingID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	d, err := s.desk.ApplyEdits(r.Context(), id, req.edits())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(d))
}

func (s *Server) removeLine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookingID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("index: %w", errBadRequest))
		return
	}

	d, err := s.desk.OpenInvoice(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	next, err := s.desk.RemoveLine(d, index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	saved, err := s.desk.SubmitInvoice(r.Context(), next)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(saved))
}

func (s *Server) exportInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "bookingID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.desk.OpenInvoice(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := billing.ExportXLSX(d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeXLSX(w, fmt.Sprintf("invoice-%d.xlsx", d.InvoiceID), data)
}

func (s *Server) exportRates(w http.ResponseWriter, r *http.Request) {
	data, err := s.desk.RateSheet(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeXLSX(w, "room-rates.xlsx", data)
}

func (s *Server) importRates(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxSheetBytes))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	n, err := s.desk.ImportRateSheet(r.Context(), data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}
