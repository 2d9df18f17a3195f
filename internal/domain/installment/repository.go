package installment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Change is the column set written by a guarded status update. Nil fields
// are left as they are.
type Change struct {
	Status     Status
	PaidAmount *decimal.NullDecimal
	PaidAt     *time.Time
	ReportedAt *time.Time
	Receipt    *Receipt
}

type Repository interface {
	// CreateBatch inserts the whole schedule. Callers run it inside a
	// transaction so a failure leaves no rows behind.
	CreateBatch(ctx context.Context, rows []Installment) error
	ExistsForLoan(ctx context.Context, loanID uint64) (bool, error)
	GetByID(ctx context.Context, id uint64) (*Installment, error)
	ListByLoan(ctx context.Context, loanID uint64) ([]Installment, error)
	ListByLoans(ctx context.Context, loanIDs []uint64) ([]Installment, error)
	CountNotInStatus(ctx context.Context, loanID uint64, status Status) (int64, error)

	// UpdateIfStatus applies c only while the row is still in `from`.
	// It reports whether a row changed.
	UpdateIfStatus(ctx context.Context, id uint64, from Status, c Change) (bool, error)

	// ListOverdueCandidates returns rows in OverdueCandidates whose
	// OverdueAfter is strictly before today.
	ListOverdueCandidates(ctx context.Context, today time.Time, limit int) ([]Installment, error)
}

// AuditSink is write-only from the core's point of view.
type AuditSink interface {
	Append(ctx context.Context, l *Log) error
}
