package settlement

import (
	"context"
	"time"

	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/domain/installment"
	"prestamos-backend/internal/domain/loan"
	domain "prestamos-backend/internal/domain/settlement"
	"prestamos-backend/internal/domain/uow"
	"prestamos-backend/internal/domain/user"
)

// LoanProgress pairs an active loan with its roll-up.
type LoanProgress struct {
	Loan     loan.Loan       `json:"loan"`
	Progress domain.Progress `json:"progress"`
}

type Usecase struct {
	loans        loan.Repository
	installments installment.Repository
}

func NewUsecase(loans loan.Repository, installments installment.Repository) *Usecase {
	return &Usecase{loans: loans, installments: installments}
}

func (u *Usecase) Progress(ctx context.Context, loanID string, actor user.Actor) (*domain.Progress, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(l.BorrowerID) {
		return nil, errs.Forbidden("loan belongs to another borrower")
	}
	rows, err := u.installments.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	p := domain.Compute(l.LoanID, rows)
	return &p, nil
}

// ActiveLoans lists approved loans that are not settled yet.
func (u *Usecase) ActiveLoans(ctx context.Context) ([]LoanProgress, error) {
	loans, err := u.loans.ListByStatus(ctx, loan.StatusAprobado)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(loans))
	for _, l := range loans {
		ids = append(ids, l.ID)
	}
	rows, err := u.installments.ListByLoans(ctx, ids)
	if err != nil {
		return nil, err
	}
	byLoan := make(map[uint64][]installment.Installment, len(loans))
	for _, r := range rows {
		byLoan[r.LoanID] = append(byLoan[r.LoanID], r)
	}
	out := make([]LoanProgress, 0, len(loans))
	for _, l := range loans {
		out = append(out, LoanProgress{Loan: l, Progress: domain.Compute(l.LoanID, byLoan[l.ID])})
	}
	return out, nil
}

// SettleIfComplete runs inside the caller's transaction, which must hold
// the loan row lock so two last payments cannot both count an open row.
// It returns true only for the call that actually moved the loan to
// liquidado.
func SettleIfComplete(ctx context.Context, r uow.Repos, loanID uint64, at time.Time) (bool, error) {
	open, err := r.Installments.CountNotInStatus(ctx, loanID, installment.StatusPagado)
	if err != nil {
		return false, err
	}
	if open > 0 {
		return false, nil
	}
	exists, err := r.Installments.ExistsForLoan(ctx, loanID)
	if err != nil || !exists {
		return false, err
	}
	return r.Loans.MarkSettled(ctx, loanID, at)
}
