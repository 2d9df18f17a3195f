package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domainApproval "prestamos-backend/internal/domain/approval"
	"prestamos-backend/internal/domain/errs"
	domainLoan "prestamos-backend/internal/domain/loan"
	"prestamos-backend/internal/domain/notify"
	"prestamos-backend/internal/domain/uow"
	"prestamos-backend/internal/infrastructure/metrics"
	"prestamos-backend/internal/usecase/schedule"
	"prestamos-backend/pkg/id"
	"prestamos-backend/pkg/logger"
)

type Usecase struct {
	uow      uow.UnitOfWork
	notifier notify.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, n notify.Notifier, m *metrics.Metrics) *Usecase {
	return &Usecase{uow: tx, notifier: n, metrics: m, now: func() time.Time { return time.Now().UTC() }}
}

// Approve moves the loan to aprobado, advances the borrower one tier and
// writes the schedule with the new tier's grace days, all in one
// transaction.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*ApprovalDTO, error) {
	now := u.now()
	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = now
	}

	var (
		dto        *ApprovalDTO
		borrowerID uint64
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !domainLoan.CanTransition(l.Status, domainLoan.StatusAprobado) {
			return errs.InvalidTransition(string(l.Status), string(domainLoan.StatusAprobado))
		}
		ok, err := r.Loans.UpdateStatusIf(ctx, l.ID, l.Status, domainLoan.StatusAprobado, now)
		if err != nil {
			return err
		}
		if !ok {
			return errs.InvalidTransition(string(l.Status), string(domainLoan.StatusAprobado))
		}

		borrower, err := r.Users.GetByIDForUpdate(ctx, l.BorrowerID)
		if err != nil {
			return err
		}
		a := &domainApproval.Approval{
			ApprovalID: id.NewID32(),
			LoanID:     l.ID,
			AdminID:    in.AdminID,
			TierBefore: borrower.Tier,
			TierAfter:  borrower.Tier.Next(),
			ApprovedAt: now,
		}
		// the unique loan index turns a second approval event into a conflict
		if err := r.Approvals.Create(ctx, a); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Conflict("loan was already approved once")
			}
			return err
		}
		if err := r.Users.AdvanceTier(ctx, borrower.ID); err != nil {
			return err
		}

		res, err := schedule.GenerateInTx(ctx, r, schedule.GenerateInput{
			LoanID:            l.ID,
			Principal:         l.Principal,
			TermMonths:        l.TermMonths,
			AnnualInterestPct: l.AnnualInterestPct,
			GraceDays:         a.TierAfter.GraceDays(),
			AsOf:              asOf,
		})
		if err != nil {
			return err
		}

		borrowerID = l.BorrowerID
		dto = &ApprovalDTO{
			ApprovalID:      a.ApprovalID,
			LoanID:          l.LoanID, // public id
			Status:          string(domainLoan.StatusAprobado),
			TierBefore:      a.TierBefore.String(),
			TierAfter:       a.TierAfter.String(),
			ApprovedAt:      a.ApprovedAt,
			ScheduleSkipped: res.Skipped,
			Installments:    res.Installments,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.Schedule(dto.ScheduleSkipped)
	logger.Info(ctx, "loan: approved",
		zap.String("loan_id", dto.LoanID),
		zap.String("tier_after", dto.TierAfter),
		zap.Int("installments", len(dto.Installments)))
	if u.notifier != nil {
		u.notifier.Notify(ctx, borrowerID, notify.Message{
			Title: "Préstamo aprobado",
			Body:  fmt.Sprintf("Tu préstamo %s fue aprobado. Ya puedes ver tu calendario de cuotas.", dto.LoanID),
			Data:  map[string]any{"loan_id": dto.LoanID, "tier": dto.TierAfter},
		})
	}
	return dto, nil
}

func (u *Usecase) Reject(ctx context.Context, in RejectInput) (*RejectDTO, error) {
	now := u.now()
	var (
		dto        *RejectDTO
		borrowerID uint64
	)
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !domainLoan.CanTransition(l.Status, domainLoan.StatusRechazado) {
			return errs.InvalidTransition(string(l.Status), string(domainLoan.StatusRechazado))
		}
		ok, err := r.Loans.UpdateStatusIf(ctx, l.ID, l.Status, domainLoan.StatusRechazado, now)
		if err != nil {
			return err
		}
		if !ok {
			return errs.InvalidTransition(string(l.Status), string(domainLoan.StatusRechazado))
		}
		borrowerID = l.BorrowerID
		dto = &RejectDTO{LoanID: l.LoanID, Status: string(domainLoan.StatusRechazado), RejectedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "loan: rejected", zap.String("loan_id", dto.LoanID), zap.Uint64("admin_id", in.AdminID))
	if u.notifier != nil {
		body := fmt.Sprintf("Tu préstamo %s fue rechazado.", dto.LoanID)
		if in.Reason != "" {
			body += " Motivo: " + in.Reason
		}
		u.notifier.Notify(ctx, borrowerID, notify.Message{
			Title: "Préstamo rechazado",
			Body:  body,
			Data:  map[string]any{"loan_id": dto.LoanID},
		})
	}
	return dto, nil
}
