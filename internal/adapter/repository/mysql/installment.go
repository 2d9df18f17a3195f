package mysql

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"prestamos-backend/internal/domain/installment"
)

type InstallmentRepository struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) CreateBatch(ctx context.Context, rows []installment.Installment) error {
	if len(rows) == 0 {
		return nil
	}
	return pkgerrors.Wrap(r.db.WithContext(ctx).Create(&rows).Error, "create installments")
}

func (r *InstallmentRepository) ExistsForLoan(ctx context.Context, loanID uint64) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&installment.Installment{}).Where("loan_id = ?", loanID).Count(&n)
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "count installments")
	}
	return n > 0, nil
}

func (r *InstallmentRepository) GetByID(ctx context.Context, id uint64) (*installment.Installment, error) {
	var out installment.Installment
	res := r.db.WithContext(ctx).First(&out, id)
	if err := wrapFind(res.Error, "installment", idKey(id)); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByLoan omits the receipt blob.
func (r *InstallmentRepository) ListByLoan(ctx context.Context, loanID uint64) ([]installment.Installment, error) {
	var out []installment.Installment
	res := r.db.WithContext(ctx).
		Omit("receipt_file").
		Where("loan_id = ?", loanID).
		Order("installment_number ASC").
		Find(&out)
	return out, pkgerrors.Wrap(res.Error, "list installments")
}

func (r *InstallmentRepository) ListByLoans(ctx context.Context, loanIDs []uint64) ([]installment.Installment, error) {
	if len(loanIDs) == 0 {
		return nil, nil
	}
	var out []installment.Installment
	res := r.db.WithContext(ctx).
		Omit("receipt_file").
		Where("loan_id IN ?", loanIDs).
		Order("loan_id ASC, installment_number ASC").
		Find(&out)
	return out, pkgerrors.Wrap(res.Error, "list installments of loans")
}

func (r *InstallmentRepository) CountNotInStatus(ctx context.Context, loanID uint64, status installment.Status) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&installment.Installment{}).
		Where("loan_id = ? AND status <> ?", loanID, status).
		Count(&n)
	return n, pkgerrors.Wrap(res.Error, "count open installments")
}

func (r *InstallmentRepository) UpdateIfStatus(ctx context.Context, id uint64, from installment.Status, c installment.Change) (bool, error) {
	cols := map[string]any{"status": c.Status}
	if c.PaidAmount != nil {
		cols["paid_amount"] = *c.PaidAmount
	}
	if c.PaidAt != nil {
		cols["paid_at"] = *c.PaidAt
	}
	if c.ReportedAt != nil {
		cols["reported_at"] = *c.ReportedAt
	}
	if c.Receipt != nil {
		cols["receipt_file"] = c.Receipt.Data
		cols["receipt_mime"] = c.Receipt.Mime
		cols["receipt_original_name"] = c.Receipt.OriginalName
		cols["receipt_meta"] = c.Receipt.Meta
	}
	res := r.db.WithContext(ctx).
		Model(&installment.Installment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(cols)
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "update installment status")
	}
	return res.RowsAffected == 1, nil
}

func (r *InstallmentRepository) ListOverdueCandidates(ctx context.Context, today time.Time, limit int) ([]installment.Installment, error) {
	var out []installment.Installment
	q := r.db.WithContext(ctx).
		Omit("receipt_file").
		Where("status IN ? AND overdue_after < ?", installment.OverdueCandidates, installment.DateOnly(today)).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, pkgerrors.Wrap(q.Find(&out).Error, "list overdue candidates")
}

// AuditRepository appends installment_logs rows.
type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Append(ctx context.Context, l *installment.Log) error {
	return pkgerrors.Wrap(r.db.WithContext(ctx).Create(l).Error, "append installment log")
}

func (r *AuditRepository) ListByInstallment(ctx context.Context, installmentID uint64) ([]installment.Log, error) {
	var out []installment.Log
	res := r.db.WithContext(ctx).Where("installment_id = ?", installmentID).Order("id ASC").Find(&out)
	return out, pkgerrors.Wrap(res.Error, "list installment logs")
}
