package approval

import (
	"time"

	"prestamos-backend/internal/domain/user"
)

// Approval records one approval event of a loan. The unique loan index is
// what makes the borrower tier advance at most once per loan.
type Approval struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	ApprovalID string    `gorm:"column:approval_id;type:char(32);not null;uniqueIndex:ux_approvals_approval_id"`
	LoanID     uint64    `gorm:"column:loan_id;not null;uniqueIndex:ux_approvals_loan"`
	AdminID    uint64    `gorm:"column:admin_id;not null"`
	TierBefore user.Tier `gorm:"column:tier_before;not null"`
	TierAfter  user.Tier `gorm:"column:tier_after;not null"`
	ApprovedAt time.Time `gorm:"column:approved_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Approval) TableName() string { return "approvals" }
