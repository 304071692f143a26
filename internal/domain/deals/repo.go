package deals

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const selectDeal = `
	SELECT id, deal_name, room_types, price, discount, start_date, end_date, status, COALESCE(description, '')
	FROM deals`

// ListActive returns the deals whose status may still be auto-applied.
// Date and room type filtering is left to SelectBest.
func (r *Repo) ListActive(ctx context.Context) ([]Deal, error) {
	return r.query(ctx, selectDeal+` WHERE status IN ('Ongoing','New','Inactive','Full') ORDER BY id`)
}

func (r *Repo) query(ctx context.Context, q string, args ...any) ([]Deal, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDeal(row pgx.Row) (Deal, error) {
	var (
		d      Deal
		status string
	)
	if err := row.Scan(&d.ID, &d.Name, &d.RoomTypes, &d.Price, &d.Discount, &d.StartDate, &d.EndDate, &status, &d.Description); err != nil {
		return Deal{}, err
	}
	d.Status = Status(status)
	return d, nil
}
