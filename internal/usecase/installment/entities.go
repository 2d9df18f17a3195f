package installment

import (
	"time"

	"github.com/shopspring/decimal"

	domain "prestamos-backend/internal/domain/installment"
	"prestamos-backend/internal/domain/user"
)

type ReportInput struct {
	InstallmentID uint64
	Actor         user.Actor
	Receipt       domain.Receipt
}

type UpdateStatusInput struct {
	InstallmentID uint64
	AdminID       uint64
	Status        string
	// PaidAmount only applies to pagado and defaults to the total due.
	PaidAmount *decimal.Decimal
}

type UpdateStatusResult struct {
	Installment domain.Installment `json:"installment"`
	LoanSettled bool               `json:"loan_settled"`
}

type SweepResult struct {
	Updated int       `json:"updated"`
	Today   time.Time `json:"today"`
}
