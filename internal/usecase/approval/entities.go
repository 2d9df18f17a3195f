package approval

import (
	"time"

	"prestamos-backend/internal/domain/installment"
)

type ApproveInput struct {
	LoanID  string
	AdminID uint64
	// AsOf anchors the schedule; zero means now.
	AsOf time.Time
}

type RejectInput struct {
	LoanID  string
	AdminID uint64
	Reason  string
}

type ApprovalDTO struct {
	ApprovalID      string                    `json:"approval_id"`
	LoanID          string                    `json:"loan_id"`
	Status          string                    `json:"status"`
	TierBefore      string                    `json:"tier_before"`
	TierAfter       string                    `json:"tier_after"`
	ApprovedAt      time.Time                 `json:"approved_at"`
	ScheduleSkipped bool                      `json:"schedule_skipped"`
	Installments    []installment.Installment `json:"installments"`
}

type RejectDTO struct {
	LoanID     string    `json:"loan_id"`
	Status     string    `json:"status"`
	RejectedAt time.Time `json:"rejected_at"`
}
