package payments

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Spok95/frontdesk/internal/domain/billing"
)

type Service struct {
	baseURL  string
	currency string
}

func NewService(baseURL, currency string) *Service {
	return &Service{baseURL: strings.TrimRight(baseURL, "/"), currency: currency}
}

// PaymentURL builds the pay link for an invoice. Until a real provider is
// wired the link points back at our own /payments/pay handler.
func (s *Service) PaymentURL(inv billing.Invoice) string {
	q := url.Values{}
	q.Set("invoice", fmt.Sprint(inv.ID))
	q.Set("amount", fmt.Sprintf("%.2f", inv.Total))
	if s.currency != "" {
		q.Set("currency", s.currency)
	}
	return s.baseURL + "/payments/pay?" + q.Encode()
}
