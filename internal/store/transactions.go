package store

import (
	"context"
	stdsql "database/sql"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/Alijeyrad/vitum_backend/internal/model"
)

const tableTransactions = "transactions"

var transactionColumns = []string{
	"id", "patient_id", "type", "description", "amount_cents", "due_date", "category",
	"status", "payment_method", "payment_date", "created_at", "updated_at",
}

type TransactionFilter struct {
	Type *model.TransactionType
}

func scanTransaction(rows *entsql.Rows, t *model.Transaction) error {
	var (
		patientID   uuid.NullUUID
		typ, status string
		method      stdsql.NullString
		paymentDate stdsql.NullTime
	)
	if err := rows.Scan(
		&t.ID, &patientID, &typ, &t.Description, &t.AmountCents, &t.DueDate, &t.Category,
		&status, &method, &paymentDate, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return err
	}
	t.PatientID = uuidPtr(patientID)
	t.Type = model.TransactionType(typ)
	t.Status = model.TransactionStatus(status)
	t.PaymentMethod = strPtr(method)
	t.PaymentDate = timePtr(paymentDate)
	return nil
}

func (s *Store) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	now := s.now()
	t.ID = newID()
	t.CreatedAt, t.UpdatedAt = now, now

	q := s.sql().Insert(tableTransactions).
		Columns(transactionColumns...).
		Values(
			t.ID, t.PatientID, string(t.Type), t.Description, t.AmountCents, t.DueDate, t.Category,
			string(t.Status), t.PaymentMethod, t.PaymentDate, t.CreatedAt, t.UpdatedAt,
		)
	_, err := s.exec(ctx, q)
	return wrap("create transaction", err)
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	q := s.sql().Select(transactionColumns...).
		From(entsql.Table(tableTransactions)).
		Where(entsql.EQ("id", id))

	var t model.Transaction
	if err := s.queryOne(ctx, q, func(rows *entsql.Rows) error { return scanTransaction(rows, &t) }); err != nil {
		return nil, wrap("get transaction", err)
	}
	return &t, nil
}

func (s *Store) ListTransactions(ctx context.Context, f TransactionFilter) ([]model.Transaction, error) {
	q := s.sql().Select(transactionColumns...).
		From(entsql.Table(tableTransactions)).
		OrderBy("due_date")
	if f.Type != nil {
		q.Where(entsql.EQ("type", string(*f.Type)))
	}

	var out []model.Transaction
	err := s.query(ctx, q, func(rows *entsql.Rows) error {
		var t model.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, wrap("list transactions", err)
	}
	return out, nil
}

func (s *Store) SettleTransaction(ctx context.Context, id uuid.UUID, method *string, paidOn time.Time) error {
	q := s.sql().Update(tableTransactions).
		Set("status", string(model.TxPaid)).
		Set("payment_date", paidOn).
		Set("payment_method", method).
		Set("updated_at", s.now()).
		Where(entsql.EQ("id", id))
	return wrap("settle transaction", s.execOne(ctx, q))
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	q := s.sql().Delete(tableTransactions).Where(entsql.EQ("id", id))
	return wrap("delete transaction", s.execOne(ctx, q))
}
