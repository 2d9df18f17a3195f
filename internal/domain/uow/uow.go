package uow

import (
	"context"

	"prestamos-backend/internal/domain/approval"
	"prestamos-backend/internal/domain/installment"
	"prestamos-backend/internal/domain/loan"
	"prestamos-backend/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Loans        loan.Repository
	Approvals    approval.Repository
	Installments installment.Repository
	Users        user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row by public id first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
