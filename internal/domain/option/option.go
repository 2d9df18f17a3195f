package option

import (
	"context"

	"github.com/shopspring/decimal"

	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/domain/user"
)

// LoanOption is a catalog entry borrowers can pick when requesting a loan.
type LoanOption struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"id"`
	MinAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"min_amount"`
	MaxAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"max_amount"`
	AnnualInterestPct decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"annual_interest_pct"`
	TermMonths        int             `gorm:"not null" json:"term_months"`
	MinTier           user.Tier       `gorm:"not null;default:0" json:"min_tier"`
}

func (LoanOption) TableName() string { return "loan_options" }

// CheckEligibility enforces the amount range and the minimum tier.
func (o *LoanOption) CheckEligibility(amount decimal.Decimal, tier user.Tier) error {
	if amount.LessThan(o.MinAmount) || amount.GreaterThan(o.MaxAmount) {
		return errs.Validation("principal", "must be between "+o.MinAmount.StringFixed(2)+" and "+o.MaxAmount.StringFixed(2))
	}
	if tier < o.MinTier {
		return errs.Validation("loan_option_id", "requires tier "+o.MinTier.String()+" or higher")
	}
	return nil
}

type Repository interface {
	List(ctx context.Context) ([]LoanOption, error)
	GetByID(ctx context.Context, id uint64) (*LoanOption, error)
	Create(ctx context.Context, o *LoanOption) error
}
