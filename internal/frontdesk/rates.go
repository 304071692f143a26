package frontdesk

import (
	"context"

	"github.com/Spok95/frontdesk/internal/domain/rooms"
)

func (s *Service) RateSheet(ctx context.Context) ([]byte, error) {
	all, err := s.rooms.List(ctx)
	if err != nil {
		return nil, backend("load rooms", err)
	}
	return rooms.ExportRates(all)
}

// ImportRateSheet applies an edited rate sheet and returns the number of
// rooms that changed.
func (s *Service) ImportRateSheet(ctx context.Context, data []byte) (int, error) {
	rows, err := rooms.ParseRates(data)
	if err != nil {
		return 0, err
	}
	n, err := s.rooms.ApplyRateRows(ctx, rows)
	if err != nil {
		return 0, backend("apply rates", err)
	}
	s.log.Info("rate sheet imported", "rows", len(rows), "changed", n)
	return n, nil
}
