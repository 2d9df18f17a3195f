package approval

import "context"

type Repository interface {
	// Create fails with a duplicate-key error if the loan was approved before.
	Create(ctx context.Context, a *Approval) error

	GetByLoanID(ctx context.Context, loanID uint64) (*Approval, error)
}
