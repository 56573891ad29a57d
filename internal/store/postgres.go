package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tripay/tripay/internal/payable"
)

// PostgresStore is the hosted backend. Queries go through database/sql on
// the pgx driver; change notifications arrive over a dedicated LISTEN
// connection (see Listener).
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects, pings, and applies migrations.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := migratePostgres(db); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

// DB exposes the underlying handle for co-located tables (users).
func (s *PostgresStore) DB() *sql.DB { return s.db }

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) List(ctx context.Context, ownerID string) ([]payable.Payable, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, owner_id, vendor, amount::text, due_date, status, category,
	       invoice_number, notes, contact, created_at, updated_at
	FROM payables
	WHERE owner_id = $1
	ORDER BY due_date ASC, created_at ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list payables: %w", err)
	}
	defer rows.Close()
	return collectPayables(rows)
}

func (s *PostgresStore) Insert(ctx context.Context, ownerID string, d payable.Draft) (string, error) {
	if d.Amount.IsNegative() {
		return "", ErrNegativeAmount
	}
	id := uuid.NewString()
	ts := now()
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO payables(
	 id, owner_id, vendor, amount, due_date, status, category,
	 invoice_number, notes, contact, created_at, updated_at)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, ownerID, d.Vendor, d.Amount.String(), d.DueDate, string(d.Status),
		d.Category, d.InvoiceNumber, d.Notes, d.Contact, ts, ts)
	if err != nil {
		return "", fmt.Errorf("insert payable: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) UpdateField(ctx context.Context, id string, upd payable.FieldUpdate) error {
	val, err := updateValue(upd)
	if err != nil {
		return err
	}
	// Column name comes from the closed FieldUpdate set, never from input.
	q := fmt.Sprintf(`UPDATE payables SET %s = $1, updated_at = $2 WHERE id = $3`, upd.Field())
	res, err := s.db.ExecContext(ctx, q, val, now(), id)
	if err != nil {
		return fmt.Errorf("update %s: %w", upd.Field(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM payables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payable: %w", err)
	}
	return nil
}
