package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// lock the row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	// lock the row until the surrounding transaction ends
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetPendingLoanByBorrowerID(ctx context.Context, borrowerID uint64) (*Loan, error)
	ListByBorrower(ctx context.Context, borrowerID uint64) ([]Loan, error)
	ListByStatus(ctx context.Context, statuses ...Status) ([]Loan, error)

	// MarkSigned writes the signature columns only while the loan is
	// unsigned and still pendiente or aprobado. Status is never touched.
	MarkSigned(ctx context.Context, id uint64, mode SignMode, payload string, at time.Time) (bool, error)

	// UpdateStatusIf sets status to `to` only while the row is still in
	// `from`. It reports whether a row changed.
	UpdateStatusIf(ctx context.Context, id uint64, from, to Status, at time.Time) (bool, error)
	// MarkSettled moves the loan to liquidado unless it already is.
	MarkSettled(ctx context.Context, id uint64, at time.Time) (bool, error)
}
