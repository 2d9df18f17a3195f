package installmentmock

import (
	"context"
	"time"

	domain "prestamos-backend/internal/domain/installment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateBatchFn           func(ctx context.Context, rows []domain.Installment) error
	ExistsForLoanFn         func(ctx context.Context, loanID uint64) (bool, error)
	GetByIDFn               func(ctx context.Context, id uint64) (*domain.Installment, error)
	ListByLoanFn            func(ctx context.Context, loanID uint64) ([]domain.Installment, error)
	ListByLoansFn           func(ctx context.Context, loanIDs []uint64) ([]domain.Installment, error)
	CountNotInStatusFn      func(ctx context.Context, loanID uint64, status domain.Status) (int64, error)
	UpdateIfStatusFn        func(ctx context.Context, id uint64, from domain.Status, c domain.Change) (bool, error)
	ListOverdueCandidatesFn func(ctx context.Context, today time.Time, limit int) ([]domain.Installment, error)
}

func (m *Repo) CreateBatch(ctx context.Context, rows []domain.Installment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, rows)
	}
	return nil
}

func (m *Repo) ExistsForLoan(ctx context.Context, loanID uint64) (bool, error) {
	if m.ExistsForLoanFn != nil {
		return m.ExistsForLoanFn(ctx, loanID)
	}
	return false, nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Installment, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByLoan(ctx context.Context, loanID uint64) ([]domain.Installment, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) ListByLoans(ctx context.Context, loanIDs []uint64) ([]domain.Installment, error) {
	if m.ListByLoansFn != nil {
		return m.ListByLoansFn(ctx, loanIDs)
	}
	return nil, nil
}

func (m *Repo) CountNotInStatus(ctx context.Context, loanID uint64, status domain.Status) (int64, error) {
	if m.CountNotInStatusFn != nil {
		return m.CountNotInStatusFn(ctx, loanID, status)
	}
	return 0, nil
}

func (m *Repo) UpdateIfStatus(ctx context.Context, id uint64, from domain.Status, c domain.Change) (bool, error) {
	if m.UpdateIfStatusFn != nil {
		return m.UpdateIfStatusFn(ctx, id, from, c)
	}
	return true, nil
}

func (m *Repo) ListOverdueCandidates(ctx context.Context, today time.Time, limit int) ([]domain.Installment, error) {
	if m.ListOverdueCandidatesFn != nil {
		return m.ListOverdueCandidatesFn(ctx, today, limit)
	}
	return nil, nil
}

// Audit is a function-backed domain.AuditSink.
type Audit struct {
	AppendFn func(ctx context.Context, l *domain.Log) error
}

func (a *Audit) Append(ctx context.Context, l *domain.Log) error {
	if a.AppendFn != nil {
		return a.AppendFn(ctx, l)
	}
	return nil
}
