package rooms

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("rooms: room not found")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const selectRoom = `SELECT id, room_number, type, rate, monthly_rates, created_at FROM rooms`

func scanRoom(row pgx.Row) (Room, error) {
	var (
		r       Room
		monthly []float64
	)
	if err := row.Scan(&r.ID, &r.Number, &r.Type, &r.Rate, &monthly, &r.CreatedAt); err != nil {
		return Room{}, err
	}
	// a short array leaves the missing months at zero (= use flat rate)
	copy(r.MonthlyRates[:], monthly)
	return r, nil
}

func (r *Repo) List(ctx context.Context) ([]Room, error) {
	rows, err := r.pool.Query(ctx, selectRoom+` ORDER BY room_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (Room, error) {
	room, err := scanRoom(r.pool.QueryRow(ctx, selectRoom+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Room{}, fmt.Errorf("room %d: %w", id, ErrNotFound)
	}
	return room, err
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// saveRates overwrites the flat and monthly rates of an existing room.
func saveRates(ctx context.Context, q execer, room Room) error {
	tag, err := q.Exec(ctx, `
		UPDATE rooms SET rate = $2, monthly_rates = $3, updated_at = now()
		WHERE id = $1
	`, room.ID, room.Rate, room.MonthlyRates[:])
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room %d: %w", room.ID, ErrNotFound)
	}
	return nil
}

// ApplyRateRows merges spreadsheet rows into stored rooms inside one
// transaction and returns how many rooms changed.
func (r *Repo) ApplyRateRows(ctx context.Context, rows []RateRow) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	updated := 0
	for _, row := range rows {
		if row.Empty() {
			continue
		}
		room, err := scanRoom(tx.QueryRow(ctx, selectRoom+` WHERE id = $1 FOR UPDATE`, row.RoomID))
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("room %d: %w", row.RoomID, ErrNotFound)
		}
		if err != nil {
			return 0, err
		}
		if err := saveRates(ctx, tx, room.WithRates(row)); err != nil {
			return 0, err
		}
		updated++
	}

	return updated, tx.Commit(ctx)
}
