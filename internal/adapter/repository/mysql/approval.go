package mysql

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	approvalDomain "prestamos-backend/internal/domain/approval"
)

type ApprovalRepository struct{ db *gorm.DB }

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository { return &ApprovalRepository{db: db} }

// Create returns gorm.ErrDuplicatedKey (translated) when the loan already
// has an approval row.
func (r *ApprovalRepository) Create(ctx context.Context, a *approvalDomain.Approval) error {
	return pkgerrors.Wrap(r.db.WithContext(ctx).Create(a).Error, "create approval")
}

func (r *ApprovalRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*approvalDomain.Approval, error) {
	var out approvalDomain.Approval
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		First(&out)
	if err := wrapFind(res.Error, "approval of loan", idKey(loanNumericID)); err != nil {
		return nil, err
	}
	return &out, nil
}
