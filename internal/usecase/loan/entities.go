package loan

import (
	"time"

	"github.com/shopspring/decimal"

	domain "prestamos-backend/internal/domain/loan"
	"prestamos-backend/internal/domain/user"
)

// CreateLoanInput takes either LoanOptionID or the explicit terms
// (TermMonths, AnnualInterestPct), never both. Principal is always given.
type CreateLoanInput struct {
	Actor             user.Actor
	LoanOptionID      *uint64
	Principal         decimal.Decimal
	TermMonths        *int
	AnnualInterestPct *decimal.Decimal
	Purpose           string
}

type SignInput struct {
	LoanID  string
	Actor   user.Actor
	Mode    string
	Payload string
}

type LoanDTO struct {
	LoanID            string            `json:"loan_id"`
	BorrowerID        uint64            `json:"borrower_id"`
	Principal         decimal.Decimal   `json:"principal"`
	TermMonths        int               `json:"term_months"`
	AnnualInterestPct decimal.Decimal   `json:"annual_interest_pct"`
	Purpose           string            `json:"purpose,omitempty"`
	LoanOptionID      *uint64           `json:"loan_option_id,omitempty"`
	Status            string            `json:"status"`
	StatusUpdatedAt   time.Time         `json:"status_updated_at"`
	SignStatus        domain.SignStatus `json:"sign_status"`
	SignMode          domain.SignMode   `json:"sign_mode,omitempty"`
	SignedAt          *time.Time        `json:"signed_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

func toDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:            l.LoanID,
		BorrowerID:        l.BorrowerID,
		Principal:         l.Principal,
		TermMonths:        l.TermMonths,
		AnnualInterestPct: l.AnnualInterestPct,
		Purpose:           l.Purpose,
		LoanOptionID:      l.LoanOptionID,
		Status:            string(l.Status),
		StatusUpdatedAt:   l.StatusUpdatedAt,
		SignStatus:        l.EffectiveSignStatus(),
		SignMode:          l.SignMode,
		SignedAt:          l.SignedAt,
		CreatedAt:         l.CreatedAt,
	}
}

func toDTOs(ls []domain.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out
}
