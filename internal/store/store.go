// Package store is the relational data access layer. Queries are built with
// ent's dialect-aware SQL builders and executed through an ent SQL driver; no
// generated client is involved, and no operation here opens a transaction.
package store

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrNotFound = errors.New("store: record not found")

// IsNotFound reports whether err (or anything it wraps) is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUniqueViolation reports a Postgres unique_violation (23505).
func IsUniqueViolation(err error) bool {
	return pqCode(err) == "23505"
}

// IsForeignKeyViolation reports a Postgres foreign_key_violation (23503).
func IsForeignKeyViolation(err error) bool {
	return pqCode(err) == "23503"
}

// ViolatedConstraint names the constraint a Postgres error refers to, if any.
func ViolatedConstraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

type Store struct {
	drv *entsql.Driver
	now func() time.Time
}

func New(drv *entsql.Driver) *Store {
	return &Store{drv: drv, now: time.Now}
}

// WithClock overrides the timestamp source used for created_at/updated_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Driver() *entsql.Driver {
	return s.drv
}

func (s *Store) sql() *entsql.DialectBuilder {
	return entsql.Dialect(s.drv.Dialect())
}

func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return id
}

// exec runs a write and returns the number of affected rows.
func (s *Store) exec(ctx context.Context, q entsql.Querier) (int64, error) {
	query, args := q.Query()
	var res stdsql.Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// execOne runs a write that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, q entsql.Querier) error {
	n, err := s.exec(ctx, q)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) query(ctx context.Context, q entsql.Querier, each func(rows *entsql.Rows) error) error {
	query, args := q.Query()
	rows := &entsql.Rows{}
	if err := s.drv.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := each(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// queryOne scans the first row and reports ErrNotFound when there is none.
func (s *Store) queryOne(ctx context.Context, q entsql.Querier, scan func(rows *entsql.Rows) error) error {
	found := false
	err := s.query(ctx, q, func(rows *entsql.Rows) error {
		if found {
			return nil
		}
		found = true
		return scan(rows)
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// count returns the number of rows in table.
func (s *Store) count(ctx context.Context, table, op string) (int, error) {
	q := s.sql().Select(entsql.Count("*")).From(entsql.Table(table))

	var n int
	err := s.queryOne(ctx, q, func(rows *entsql.Rows) error { return rows.Scan(&n) })
	if err != nil {
		return 0, wrap(op, err)
	}
	return n, nil
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func strPtr(ns stdsql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func timePtr(nt stdsql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Time
	return &v
}

func uuidPtr(nu uuid.NullUUID) *uuid.UUID {
	if !nu.Valid {
		return nil
	}
	v := nu.UUID
	return &v
}

// anyUUIDs adapts ids for entsql.In.
func anyUUIDs(ids []uuid.UUID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
