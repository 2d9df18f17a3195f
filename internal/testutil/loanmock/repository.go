package loanmock

import (
	"context"
	"time"

	domain "prestamos-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Reads with no function set fail with context.Canceled; writes succeed.
type Repo struct {
	CreateFn                     func(ctx context.Context, l *domain.Loan) error
	GetByIDFn                    func(ctx context.Context, id uint64) (*domain.Loan, error)
	GetByLoanIDFn                func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByIDForUpdateFn           func(ctx context.Context, id uint64) (*domain.Loan, error)
	GetByLoanIDForUpdateFn       func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetPendingLoanByBorrowerIDFn func(ctx context.Context, borrowerID uint64) (*domain.Loan, error)
	ListByBorrowerFn             func(ctx context.Context, borrowerID uint64) ([]domain.Loan, error)
	ListByStatusFn               func(ctx context.Context, statuses ...domain.Status) ([]domain.Loan, error)
	MarkSignedFn                 func(ctx context.Context, id uint64, mode domain.SignMode, payload string, at time.Time) (bool, error)
	UpdateStatusIfFn             func(ctx context.Context, id uint64, from, to domain.Status, at time.Time) (bool, error)
	MarkSettledFn                func(ctx context.Context, id uint64, at time.Time) (bool, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPendingLoanByBorrowerID(ctx context.Context, borrowerID uint64) (*domain.Loan, error) {
	if m.GetPendingLoanByBorrowerIDFn != nil {
		return m.GetPendingLoanByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByBorrower(ctx context.Context, borrowerID uint64) ([]domain.Loan, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, borrowerID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, statuses ...domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, statuses...)
	}
	return nil, context.Canceled
}

func (m *Repo) MarkSigned(ctx context.Context, id uint64, mode domain.SignMode, payload string, at time.Time) (bool, error) {
	if m.MarkSignedFn != nil {
		return m.MarkSignedFn(ctx, id, mode, payload, at)
	}
	return true, nil
}

func (m *Repo) UpdateStatusIf(ctx context.Context, id uint64, from, to domain.Status, at time.Time) (bool, error) {
	if m.UpdateStatusIfFn != nil {
		return m.UpdateStatusIfFn(ctx, id, from, to, at)
	}
	return true, nil
}

func (m *Repo) MarkSettled(ctx context.Context, id uint64, at time.Time) (bool, error) {
	if m.MarkSettledFn != nil {
		return m.MarkSettledFn(ctx, id, at)
	}
	return true, nil
}
