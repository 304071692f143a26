package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const selectInvoice = `
	SELECT id, booking_id, guest_id, subtotal, tax, total, status, created_at, paid_at
	FROM invoices`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var (
		inv    Invoice
		status string
	)
	if err := row.Scan(&inv.ID, &inv.BookingID, &inv.GuestID, &inv.Subtotal, &inv.Tax, &inv.Total, &status, &inv.CreatedAt, &inv.PaidAt); err != nil {
		return Invoice{}, err
	}
	inv.Status = Status(status)
	return inv, nil
}

func (r *Repo) GetByBooking(ctx context.Context, bookingID int64) (Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx, selectInvoice+` WHERE booking_id = $1`, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}
	return inv, err
}

func (r *Repo) Items(ctx context.Context, invoiceID int64) ([]StoredItem, error) {
	return items(ctx, r.pool, invoiceID)
}

func items(ctx context.Context, q querier, invoiceID int64) ([]StoredItem, error) {
	rows, err := q.Query(ctx, `
		SELECT description, qty, amount, category, source, source_status
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []StoredItem{}
	for rows.Next() {
		var (
			s             StoredItem
			category, src string
		)
		if err := rows.Scan(&s.Description, &s.Qty, &s.Amount, &category, &src, &s.Status); err != nil {
			return nil, err
		}
		s.Category = Category(category)
		s.Source = Source(src)
		out = append(out, s)
	}
	return out, rows.Err()
}

// LoadDraft fetches the invoice of a booking with its lines.
func (r *Repo) LoadDraft(ctx context.Context, bookingID int64) (Draft, error) {
	inv, err := r.GetByBooking(ctx, bookingID)
	if err != nil {
		return Draft{}, err
	}
	stored, err := r.Items(ctx, inv.ID)
	if err != nil {
		return Draft{}, fmt.Errorf("items of invoice %d: %w", inv.ID, err)
	}
	return NewDraft(inv, stored), nil
}

func insertItem(ctx context.Context, q querier, invoiceID int64, s StoredItem) error {
	_, err := q.Exec(ctx, `
		INSERT INTO invoice_items (invoice_id, description, qty, amount, category, source, source_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, invoiceID, s.Description, s.Qty, s.Amount, string(s.Category), string(s.Source), s.Status)
	return err
}

// refreshTotals recomputes the stored header totals from the current rows.
func refreshTotals(ctx context.Context, q querier, invoiceID int64) (Totals, error) {
	stored, err := items(ctx, q, invoiceID)
	if err != nil {
		return Totals{}, err
	}
	lines := make([]LineItem, 0, len(stored))
	for _, s := range stored {
		lines = append(lines, FromStored(s))
	}
	t := ComputeTotals(lines)
	_, err = q.Exec(ctx, `
		UPDATE invoices SET subtotal = $2, tax = $3, total = $4, updated_at = now()
		WHERE id = $1
	`, invoiceID, t.Subtotal, t.Tax, t.Total)
	return t, err
}

func lockStatus(ctx context.Context, q querier, invoiceID int64) (Status, error) {
	var status string
	err := q.QueryRow(ctx, `SELECT status FROM invoices WHERE id = $1 FOR UPDATE`, invoiceID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
	}
	return Status(status), err
}

// Create materializes a new invoice for a booking with its generated lines.
func (r *Repo) Create(ctx context.Context, bookingID, guestID int64, lines []LineItem) (Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Invoice{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO invoices (booking_id, guest_id, status)
		VALUES ($1,$2,'pending')
		RETURNING id
	`, bookingID, guestID).Scan(&id); err != nil {
		return Invoice{}, err
	}
	for _, it := range lines {
		if err := insertItem(ctx, tx, id, it.Stored()); err != nil {
			return Invoice{}, err
		}
	}
	if _, err := refreshTotals(ctx, tx, id); err != nil {
		return Invoice{}, err
	}

	inv, err := scanInvoice(tx.QueryRow(ctx, selectInvoice+` WHERE id = $1`, id))
	if err != nil {
		return Invoice{}, err
	}
	return inv, tx.Commit(ctx)
}

// AppendGenerated appends a backend-owned line (booking, trip or order)
// inside the caller's transaction. The invoice row stays locked until the
// transaction ends, so the caller's other writes commit or roll back with it.
func AppendGenerated(ctx context.Context, tx pgx.Tx, invoiceID int64, line LineItem) error {
	if line.Source == SourceCustom || line.Source == SourceDiscount {
		return fmt.Errorf("generated line with source %q: %w", line.Source, ErrValidationFailed)
	}

	status, err := lockStatus(ctx, tx, invoiceID)
	if err != nil {
		return err
	}
	if status == StatusCancelled {
		return fmt.Errorf("invoice %d: %w", invoiceID, ErrInvoiceCancelled)
	}
	if err := insertItem(ctx, tx, invoiceID, line.Stored()); err != nil {
		return err
	}
	_, err = refreshTotals(ctx, tx, invoiceID)
	return err
}

// Submit replaces the custom and discount rows of an invoice and applies the
// submitted status. Concurrent submits are not coordinated: the last one wins.
func (r *Repo) Submit(ctx context.Context, invoiceID int64, sub Submission) (Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Invoice{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := lockStatus(ctx, tx, invoiceID)
	if err != nil {
		return Invoice{}, err
	}
	if current == StatusCancelled {
		return Invoice{}, fmt.Errorf("invoice %d: %w", invoiceID, ErrInvoiceCancelled)
	}
	if !current.CanTransition(sub.Status) {
		return Invoice{}, fmt.Errorf("invoice %d: %s -> %s: %w", invoiceID, current, sub.Status, ErrInvoiceCancelled)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM invoice_items WHERE invoice_id = $1 AND source IN ('custom','discount')
	`, invoiceID); err != nil {
		return Invoice{}, err
	}
	for _, s := range sub.CustomItems {
		s.Source = SourceCustom
		if err := insertItem(ctx, tx, invoiceID, s); err != nil {
			return Invoice{}, err
		}
	}
	if sub.DiscountItem != nil {
		if err := insertItem(ctx, tx, invoiceID, sub.DiscountItem.Line().Stored()); err != nil {
			return Invoice{}, err
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE invoices SET
			status  = $2,
			paid_at = CASE WHEN $2::text = 'paid' THEN COALESCE(paid_at, now())
			               WHEN $2::text = 'pending' THEN NULL
			               ELSE paid_at END
		WHERE id = $1
	`, invoiceID, string(sub.Status)); err != nil {
		return Invoice{}, err
	}
	if _, err := refreshTotals(ctx, tx, invoiceID); err != nil {
		return Invoice{}, err
	}

	inv, err := scanInvoice(tx.QueryRow(ctx, selectInvoice+` WHERE id = $1`, invoiceID))
	if err != nil {
		return Invoice{}, err
	}
	return inv, tx.Commit(ctx)
}

// SetStatus changes only the status, e.g. when a payment comes in.
func (r *Repo) SetStatus(ctx context.Context, invoiceID int64, status Status) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := lockStatus(ctx, tx, invoiceID)
	if err != nil {
		return err
	}
	if !current.CanTransition(status) {
		return fmt.Errorf("invoice %d: %s -> %s: %w", invoiceID, current, status, ErrInvoiceCancelled)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE invoices SET
			status  = $2,
			paid_at = CASE WHEN $2::text = 'paid' THEN COALESCE(paid_at, now())
			               WHEN $2::text = 'pending' THEN NULL
			               ELSE paid_at END,
			updated_at = now()
		WHERE id = $1
	`, invoiceID, string(status)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
