// README: Delivery store backed by Postgres; pending reads and delivered/payment writes.
package delivery

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rota/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

type Record struct {
	ID       types.ID
	Customer string
	Address  string
	Lat      float64
	Lng      float64
	Notes    string
}

// PendingByDriver returns today's undelivered deliveries for a driver, with
// the client's geocoordinates joined in.
func (s *Store) PendingByDriver(ctx context.Context, driverID types.ID) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT d.id, c.name, c.address, c.lat, c.lng, COALESCE(d.notes, '')
		FROM deliveries d
		JOIN clients c ON c.id = d.client_id
		WHERE d.driver_id = $1
		  AND d.delivery_date = CURRENT_DATE
		  AND d.delivered_at IS NULL
		ORDER BY d.id`, string(driverID))
	if err != nil {
		return nil, fmt.Errorf("query pending deliveries: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Customer, &r.Address, &r.Lat, &r.Lng, &r.Notes); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MarkDelivered stamps the delivery as done. Already-delivered rows are left
// alone, so retrying is safe.
func (s *Store) MarkDelivered(ctx context.Context, deliveryID types.ID) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE deliveries SET delivered_at = now()
		WHERE id = $1 AND delivered_at IS NULL`, string(deliveryID))
	if err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either unknown or already delivered; confirm it exists.
		var exists bool
		if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM deliveries WHERE id = $1)`, string(deliveryID)).Scan(&exists); err != nil {
			return fmt.Errorf("mark delivered: %w", err)
		}
		if !exists {
			return pgx.ErrNoRows
		}
	}
	return nil
}

// InsertPayment records a payment against the delivery and marks it
// delivered in the same transaction.
func (s *Store) InsertPayment(ctx context.Context, deliveryID types.ID, amount float64, method string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin payment tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO payments (delivery_id, amount, method, created_at)
		VALUES ($1, $2, $3, now())`, string(deliveryID), amount, method); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE deliveries SET delivered_at = now()
		WHERE id = $1 AND delivered_at IS NULL`, string(deliveryID)); err != nil {
		return fmt.Errorf("mark delivered with payment: %w", err)
	}

	return tx.Commit(ctx)
}
