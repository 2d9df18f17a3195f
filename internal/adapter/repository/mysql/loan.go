package mysql

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "prestamos-backend/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *LoanRepository) Tx(ctx context.Context, fn func(repo loanDomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LoanRepository{db: tx})
	})
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return pkgerrors.Wrap(r.db.WithContext(ctx).Create(l).Error, "create loan")
}

func (r *LoanRepository) MarkSigned(ctx context.Context, id uint64, mode loanDomain.SignMode, payload string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("id = ? AND sign_status <> ? AND signed_at IS NULL AND COALESCE(signature_payload, '') = ''", id, loanDomain.SignSigned).
		Where("status IN ?", loanDomain.Signable).
		Updates(map[string]any{
			"sign_status":       loanDomain.SignSigned,
			"sign_mode":         mode,
			"signature_payload": payload,
			"signed_at":         at,
		})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "mark loan signed")
	}
	return res.RowsAffected == 1, nil
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).First(&out, id)
	if err := wrapFind(res.Error, "loan", idKey(id)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if err := wrapFind(res.Error, "loan", loanID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&out, id)
	if err := wrapFind(res.Error, "loan", idKey(id)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	if err := wrapFind(res.Error, "loan", loanID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) GetPendingLoanByBorrowerID(ctx context.Context, borrowerID uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower_id = ? AND status = ?", borrowerID, loanDomain.StatusPendiente).
		Order("status_updated_at DESC, id DESC").
		First(&out)
	if err := wrapFind(res.Error, "pending loan of borrower", idKey(borrowerID)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LoanRepository) ListByBorrower(ctx context.Context, borrowerID uint64) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("borrower_id = ?", borrowerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, pkgerrors.Wrap(res.Error, "list loans by borrower")
}

// ListByStatus lists every loan when no status is given.
func (r *LoanRepository) ListByStatus(ctx context.Context, statuses ...loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	return out, pkgerrors.Wrap(q.Find(&out).Error, "list loans by status")
}

func (r *LoanRepository) UpdateStatusIf(ctx context.Context, id uint64, from, to loanDomain.Status, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "status_updated_at": at})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "update loan status")
	}
	return res.RowsAffected == 1, nil
}

func (r *LoanRepository) MarkSettled(ctx context.Context, id uint64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("id = ? AND status <> ?", id, loanDomain.StatusLiquidado).
		Updates(map[string]any{"status": loanDomain.StatusLiquidado, "status_updated_at": at})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "mark loan settled")
	}
	return res.RowsAffected == 1, nil
}
