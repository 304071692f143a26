package rooms

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrBadSheet = errors.New("rooms: malformed rate sheet")

var sheetHeader = []interface{}{
	"id", "room_number", "type", "rate",
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// ExportRates renders the rate table as an xlsx workbook. Staff edit the rate
// columns and upload the file back through ParseRates.
func ExportRates(list []Room) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetRow(sheet, "A1", &sheetHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, room := range list {
		row := []interface{}{room.ID, room.Number, room.Type, room.Rate}
		for _, m := range room.MonthlyRates {
			row = append(row, m)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write room %d: %w", room.ID, err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseRates reads a workbook produced by ExportRates. An empty rate cell
// keeps the stored value.
func ParseRates(data []byte) ([]RateRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w: %w", ErrBadSheet, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows: %w", ErrBadSheet)
	}
	if len(rows[0]) < len(sheetHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d: %w", len(sheetHeader), len(rows[0]), ErrBadSheet)
	}

	var out []RateRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}

		id, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad id %q: %w", i+1, row[0], ErrBadSheet)
		}
		rr := RateRow{RoomID: id}

		if rr.Rate, err = cellRate(row, 3); err != nil {
			return nil, fmt.Errorf("row %d rate: %w", i+1, err)
		}
		for m := 0; m < 12; m++ {
			if rr.Monthly[m], err = cellRate(row, 4+m); err != nil {
				return nil, fmt.Errorf("row %d %s: %w", i+1, sheetHeader[4+m], err)
			}
		}
		out = append(out, rr)
	}
	return out, nil
}

func cellRate(row []string, col int) (*float64, error) {
	if col >= len(row) {
		return nil, nil
	}
	s := strings.TrimSpace(row[col])
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("%q is not a non-negative number: %w", s, ErrBadSheet)
	}
	return &v, nil
}
