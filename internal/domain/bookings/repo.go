package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/frontdesk/internal/domain/billing"
	"github.com/Spok95/frontdesk/internal/domain/stay"
)

var ErrNotFound = errors.New("bookings: booking not found")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const selectBooking = `SELECT id, room_id, guest_id, check_in, check_out, status, created_at FROM bookings`

func scanBooking(row pgx.Row) (Booking, error) {
	var (
		b      Booking
		status string
	)
	if err := row.Scan(&b.ID, &b.RoomID, &b.GuestID, &b.CheckIn, &b.CheckOut, &status, &b.CreatedAt); err != nil {
		return Booking{}, err
	}
	b.Status = Status(status)
	return b, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (Booking, error) {
	b, err := scanBooking(r.pool.QueryRow(ctx, selectBooking+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return b, err
}

// ListOverlapping returns bookings whose stay intersects rg, whatever their
// status. Callers decide which ones block.
func (r *Repo) ListOverlapping(ctx context.Context, rg stay.Range) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, selectBooking+`
		WHERE check_in < $2 AND check_out > $1
		ORDER BY room_id, check_in
	`, rg.CheckIn, rg.CheckOut)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// MoveCheckOut sets a new check-out and bills the change on invoiceID in one
// transaction: when either write fails neither is kept.
func (r *Repo) MoveCheckOut(ctx context.Context, id int64, checkOut time.Time, invoiceID int64, line billing.LineItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := billing.AppendGenerated(ctx, tx, invoiceID, line); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
		UPDATE bookings SET check_out = $2, updated_at = now()
		WHERE id = $1 AND check_in < $2
	`, id, checkOut)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return tx.Commit(ctx)
}
