package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/tripay/tripay/internal/payable"
)

// SQLiteStore is the local backend: a single sqlite file plus an in-process
// change bus standing in for the hosted database's notification channel.
type SQLiteStore struct {
	db  *sql.DB
	bus *notifier
}

// OpenSQLite opens the sqlite file with sensible defaults and applies
// migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	if err := migrateSQLite(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, bus: newNotifier()}, nil
}

// DB exposes the underlying handle for co-located tables (users).
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Close() error {
	s.bus.closeAll()
	return s.db.Close()
}

// now returns UTC truncated to seconds, consistent with what sqlite's
// CURRENT_TIMESTAMP would store.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func (s *SQLiteStore) List(ctx context.Context, ownerID string) ([]payable.Payable, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, owner_id, vendor, amount, due_date, status, category,
	       invoice_number, notes, contact, created_at, updated_at
	FROM payables
	WHERE owner_id = ?
	ORDER BY due_date ASC, created_at ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list payables: %w", err)
	}
	defer rows.Close()
	return collectPayables(rows)
}

func (s *SQLiteStore) Insert(ctx context.Context, ownerID string, d payable.Draft) (string, error) {
	if d.Amount.IsNegative() {
		return "", ErrNegativeAmount
	}
	id := uuid.NewString()
	ts := now()
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO payables(
	 id, owner_id, vendor, amount, due_date, status, category,
	 invoice_number, notes, contact, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ownerID, d.Vendor, d.Amount.String(), d.DueDate, string(d.Status),
		d.Category, d.InvoiceNumber, d.Notes, d.Contact, ts, ts)
	if err != nil {
		return "", fmt.Errorf("insert payable: %w", err)
	}
	s.bus.broadcast(ownerID)
	return id, nil
}

func (s *SQLiteStore) UpdateField(ctx context.Context, id string, upd payable.FieldUpdate) error {
	val, err := updateValue(upd)
	if err != nil {
		return err
	}
	// Column name comes from the closed FieldUpdate set, never from input.
	q := fmt.Sprintf(`UPDATE payables SET %s = ?, updated_at = ? WHERE id = ?`, upd.Field())
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
	if owner, ok := s.ownerOf(ctx, id); ok {
		s.bus.broadcast(owner)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	owner, existed := s.ownerOf(ctx, id)
	_, err := s.db.ExecContext(ctx, `DELETE FROM payables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payable: %w", err)
	}
	if existed {
		s.bus.broadcast(owner)
	}
	return nil
}

// Subscribe implements Watcher over the in-process bus.
func (s *SQLiteStore) Subscribe(ownerID string) (<-chan Event, func(), error) {
	ch, cancel := s.bus.subscribe(ownerID)
	return ch, cancel, nil
}

func (s *SQLiteStore) ownerOf(ctx context.Context, id string) (string, bool) {
	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT owner_id FROM payables WHERE id = ?`, id).Scan(&owner)
	if err != nil {
		return "", false
	}
	return owner, true
}

// updateValue maps a FieldUpdate variant to its driver value, enforcing the
// non-negative amount invariant at the boundary.
func updateValue(upd payable.FieldUpdate) (any, error) {
	switch u := upd.(type) {
	case payable.VendorUpdate:
		return u.Value, nil
	case payable.AmountUpdate:
		if u.Value.IsNegative() {
			return nil, ErrNegativeAmount
		}
		return u.Value.String(), nil
	case payable.DueDateUpdate:
		return u.Value, nil
	case payable.StatusUpdate:
		return string(u.Value), nil
	case payable.CategoryUpdate:
		return u.Value, nil
	case payable.InvoiceNumberUpdate:
		return u.Value, nil
	case payable.NotesUpdate:
		return u.Value, nil
	case payable.ContactUpdate:
		return u.Value, nil
	}
	return nil, fmt.Errorf("store: unknown field update %T", upd)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayable(r rowScanner) (payable.Payable, error) {
	var p payable.Payable
	var amount, status string
	err := r.Scan(&p.ID, &p.OwnerID, &p.Vendor, &amount, &p.DueDate, &status,
		&p.Category, &p.InvoiceNumber, &p.Notes, &p.Contact, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return payable.Payable{}, err
	}
	p.Status = payable.Status(status)
	p.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return payable.Payable{}, fmt.Errorf("bad stored amount %q: %w", amount, err)
	}
	return p, nil
}

func collectPayables(rows *sql.Rows) ([]payable.Payable, error) {
	var out []payable.Payable
	for rows.Next() {
		p, err := scanPayable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
