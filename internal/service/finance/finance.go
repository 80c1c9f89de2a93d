// Package finance keeps the clinic's receivables and payables.
//
// Atrasado is never written: a Pendente row whose due date is before today
// (clinic timezone) is reported as Atrasado on read.
package finance

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/Alijeyrad/vitum_backend/internal/model"
	"github.com/Alijeyrad/vitum_backend/internal/store"
	"github.com/Alijeyrad/vitum_backend/pkg/validation"
)

const DefaultCategory = "Outros"

var (
	Categories     = []string{"Mensalidade", "Insumos", "Aluguel", "Salário", "Outros"}
	PaymentMethods = []string{"Pix", "Cartão de Crédito", "Cartão de Débito", "Dinheiro", "Transferência"}
)

const dateLayout = "2006-01-02"

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateTransactionRequest struct {
	Type        model.TransactionType `json:"type" validate:"required,oneof=Receber Pagar"`
	PatientID   *uuid.UUID            `json:"patient_id"`
	Description string                `json:"description" validate:"required,max=200"`
	AmountCents int64                 `json:"amount_cents" validate:"gt=0"`
	DueDate     time.Time             `json:"due_date" validate:"required"`
	Category    string                `json:"category" validate:"max=60"`
	// PaymentMethod is only kept for receivables.
	PaymentMethod *string `json:"payment_method"`
}

type MonthlyFlow struct {
	Month        string `json:"month"` // YYYY-MM
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
}

type CategoryTotal struct {
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
}

// Summary signs amounts: receivables count positive, payables negative.
type Summary struct {
	PendingCents      int64           `json:"pending_cents"`
	PaidCents         int64           `json:"paid_cents"`
	BalanceCents      int64           `json:"balance_cents"`
	Monthly           []MonthlyFlow   `json:"monthly"`
	IncomeByCategory  []CategoryTotal `json:"income_by_category"`
	ExpenseByCategory []CategoryTotal `json:"expense_by_category"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Repository interface {
	CreateTransaction(ctx context.Context, t *model.Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	ListTransactions(ctx context.Context, f store.TransactionFilter) ([]model.Transaction, error)
	SettleTransaction(ctx context.Context, id uuid.UUID, method *string, paidOn time.Time) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

type Service interface {
	Create(ctx context.Context, req CreateTransactionRequest) (*model.Transaction, error)
	// List returns overdue rows first, then pending, then paid; due date
	// ascending within each group.
	List(ctx context.Context, typ *model.TransactionType) ([]model.Transaction, error)
	// Settle marks a row Pago as of today. Receivables need a payment method,
	// either already on the row or passed in.
	Settle(ctx context.Context, id uuid.UUID, method *string) (*model.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context) (*Summary, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type financeService struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func New(repo Repository, loc *time.Location, now func() time.Time) Service {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &financeService{repo: repo, loc: loc, now: now}
}

func (s *financeService) Create(ctx context.Context, req CreateTransactionRequest) (*model.Transaction, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	desc := strings.TrimSpace(req.Description)
	if desc == "" {
		return nil, validation.Field("description", "is required")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}

	var method *string
	if req.Type == model.Receivable && req.PaymentMethod != nil {
		m, ok := canonicalMethod(*req.PaymentMethod)
		if !ok {
			return nil, validation.Field("payment_method", "must be one of "+strings.Join(PaymentMethods, ", "))
		}
		method = &m
	}

	t := &model.Transaction{
		PatientID:     req.PatientID,
		Type:          req.Type,
		Description:   desc,
		AmountCents:   req.AmountCents,
		DueDate:       dateOf(req.DueDate),
		Category:      category,
		Status:        model.TxPending,
		PaymentMethod: method,
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}

func (s *financeService) List(ctx context.Context, typ *model.TransactionType) ([]model.Transaction, error) {
	rows, err := s.repo.ListTransactions(ctx, store.TransactionFilter{Type: typ})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	today := s.today()
	rows = lo.Map(rows, func(t model.Transaction, _ int) model.Transaction {
		if t.Status == model.TxPending && t.DueDate.Format(dateLayout) < today.Format(dateLayout) {
			t.Status = model.TxOverdue
		}
		return t
	})
	slices.SortStableFunc(rows, func(a, b model.Transaction) int {
		if c := cmp.Compare(statusRank(a.Status), statusRank(b.Status)); c != 0 {
			return c
		}
		return a.DueDate.Compare(b.DueDate)
	})
	return rows, nil
}

func (s *financeService) Settle(ctx context.Context, id uuid.UUID, method *string) (*model.Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, id)
	if store.IsNotFound(err) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if t.Status == model.TxPaid {
		return nil, ErrAlreadyPaid
	}

	chosen := t.PaymentMethod
	if method != nil && strings.TrimSpace(*method) != "" {
		m, ok := canonicalMethod(*method)
		if !ok {
			return nil, validation.Field("payment_method", "must be one of "+strings.Join(PaymentMethods, ", "))
		}
		chosen = &m
	}
	if t.Type == model.Receivable && chosen == nil {
		return nil, validation.Field("payment_method", "is required")
	}

	paidOn := s.today()
	if err := s.repo.SettleTransaction(ctx, id, chosen, paidOn); err != nil {
		if store.IsNotFound(err) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("settle transaction: %w", err)
	}
	t.Status = model.TxPaid
	t.PaymentMethod = chosen
	t.PaymentDate = &paidOn
	return t, nil
}

func (s *financeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		if store.IsNotFound(err) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *financeService) Summary(ctx context.Context) (*Summary, error) {
	rows, err := s.repo.ListTransactions(ctx, store.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	paid, pending := lo.FilterReject(rows, func(t model.Transaction, _ int) bool {
		return t.Status == model.TxPaid
	})
	signed := func(t model.Transaction) int64 { return t.Sign() * t.AmountCents }

	out := &Summary{
		PendingCents: lo.SumBy(pending, signed),
		PaidCents:    lo.SumBy(paid, signed),
	}
	out.BalanceCents = out.PendingCents + out.PaidCents

	byMonth := lo.GroupBy(paid, func(t model.Transaction) string {
		d := t.DueDate
		if t.PaymentDate != nil {
			d = *t.PaymentDate
		}
		return d.Format("2006-01")
	})
	out.Monthly = lo.MapToSlice(byMonth, func(month string, txs []model.Transaction) MonthlyFlow {
		income, expense := lo.FilterReject(txs, func(t model.Transaction, _ int) bool {
			return t.Type == model.Receivable
		})
		return MonthlyFlow{
			Month:        month,
			IncomeCents:  lo.SumBy(income, amount),
			ExpenseCents: lo.SumBy(expense, amount),
		}
	})
	slices.SortFunc(out.Monthly, func(a, b MonthlyFlow) int { return cmp.Compare(a.Month, b.Month) })

	income, expense := lo.FilterReject(paid, func(t model.Transaction, _ int) bool {
		return t.Type == model.Receivable
	})
	out.IncomeByCategory = categoryTotals(income)
	out.ExpenseByCategory = categoryTotals(expense)
	return out, nil
}

// today is the current date in the clinic timezone, as a UTC date value
// matching how DATE columns come back from the driver.
func (s *financeService) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(t model.Transaction) int64 { return t.AmountCents }

// categoryTotals sums by category, largest first.
func categoryTotals(txs []model.Transaction) []CategoryTotal {
	groups := lo.GroupBy(txs, func(t model.Transaction) string { return t.Category })
	totals := lo.MapToSlice(groups, func(cat string, ts []model.Transaction) CategoryTotal {
		return CategoryTotal{Category: cat, AmountCents: lo.SumBy(ts, amount)}
	})
	slices.SortFunc(totals, func(a, b CategoryTotal) int {
		if c := cmp.Compare(b.AmountCents, a.AmountCents); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return totals
}

func statusRank(s model.TransactionStatus) int {
	switch s {
	case model.TxOverdue:
		return 0
	case model.TxPending:
		return 1
	default:
		return 2
	}
}

func canonicalMethod(m string) (string, bool) {
	m = strings.TrimSpace(m)
	return lo.Find(PaymentMethods, func(candidate string) bool {
		return strings.EqualFold(candidate, m)
	})
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
