package billing

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	linesSheet  = "Lines"
	totalsSheet = "Totals"
)

// ExportXLSX writes the draft's line-item view and totals into a workbook.
func ExportXLSX(d Draft) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), linesSheet); err != nil {
		return nil, err
	}

	header := []interface{}{"#", "description", "qty", "rate", "amount", "category", "source", "source_status"}
	if err := f.SetSheetRow(linesSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, it := range d.Lines() {
		row := []interface{}{i + 1, it.Description, it.Quantity, it.Rate, it.Amount, string(it.Category), string(it.Source), it.SourceStatus}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(linesSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write line %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(totalsSheet); err != nil {
		return nil, err
	}
	t := d.Totals()
	summary := [][]interface{}{
		{"invoice_id", d.InvoiceID},
		{"booking_id", d.BookingID},
		{"status", string(d.Status)},
		{"pre_discount_subtotal", t.PreDiscountSubtotal},
		{"discount", t.Discount},
		{"subtotal", t.Subtotal},
		{"tax", t.Tax},
		{"total", t.Total},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(totalsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write totals: %w", err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
