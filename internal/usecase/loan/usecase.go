package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/domain/loan"
	"prestamos-backend/internal/domain/notify"
	"prestamos-backend/internal/domain/option"
	"prestamos-backend/internal/domain/user"
	"prestamos-backend/pkg/id"
	"prestamos-backend/pkg/logger"
)

const (
	maxTermMonths = 360
	maxRatePct    = 100
)

type Usecase struct {
	repo     loan.Repository
	users    user.Repository
	options  option.Repository
	notifier notify.Notifier
	now      func() time.Time
}

func NewUsecase(r loan.Repository, users user.Repository, options option.Repository, n notify.Notifier) *Usecase {
	return &Usecase{repo: r, users: users, options: options, notifier: n, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if in.Actor.IsAdmin() {
		return nil, errs.Forbidden("admins cannot request loans")
	}
	if !in.Principal.IsPositive() {
		return nil, errs.Validation("principal", "must be greater than 0")
	}
	if !in.Principal.Equal(in.Principal.Round(2)) {
		return nil, errs.Validation("principal", "must have at most 2 decimal places")
	}

	l := &loan.Loan{
		LoanID:          id.NewID32(),
		BorrowerID:      in.Actor.ID,
		Principal:       in.Principal,
		Purpose:         in.Purpose,
		Status:          loan.StatusPendiente,
		StatusUpdatedAt: u.now(),
		SignStatus:      loan.SignUnsigned,
	}
	if err := u.applyTerms(ctx, in, l); err != nil {
		return nil, err
	}

	// Block if the borrower already has a pending loan.
	pending, err := u.repo.GetPendingLoanByBorrowerID(ctx, in.Actor.ID)
	switch {
	case err == nil:
		return nil, errs.Conflict(fmt.Sprintf("borrower already has a pending loan: %s", pending.LoanID))
	case !errors.Is(err, errs.ErrNotFound):
		return nil, err
	}

	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	logger.Info(ctx, "loan: created", zap.String("loan_id", l.LoanID), zap.Uint64("borrower_id", l.BorrowerID))
	return toDTO(l), nil
}

// applyTerms copies the option's terms or validates the explicit ones.
func (u *Usecase) applyTerms(ctx context.Context, in CreateLoanInput, l *loan.Loan) error {
	if in.LoanOptionID != nil {
		if in.TermMonths != nil || in.AnnualInterestPct != nil {
			return errs.Validation("loan_option_id", "cannot be combined with term_months or annual_interest_pct")
		}
		opt, err := u.options.GetByID(ctx, *in.LoanOptionID)
		if err != nil {
			return err
		}
		borrower, err := u.users.GetByID(ctx, in.Actor.ID)
		if err != nil {
			return err
		}
		if err := opt.CheckEligibility(in.Principal, borrower.Tier); err != nil {
			return err
		}
		l.LoanOptionID = &opt.ID
		l.TermMonths = opt.TermMonths
		l.AnnualInterestPct = opt.AnnualInterestPct
		return nil
	}

	switch {
	case in.TermMonths == nil:
		return errs.Validation("term_months", "is required without loan_option_id")
	case in.AnnualInterestPct == nil:
		return errs.Validation("annual_interest_pct", "is required without loan_option_id")
	case *in.TermMonths <= 0 || *in.TermMonths > maxTermMonths:
		return errs.Validation("term_months", fmt.Sprintf("must be between 1 and %d", maxTermMonths))
	case in.AnnualInterestPct.IsNegative() || in.AnnualInterestPct.GreaterThan(decimal.NewFromInt(maxRatePct)):
		return errs.Validation("annual_interest_pct", fmt.Sprintf("must be between 0 and %d", maxRatePct))
	}
	l.TermMonths = *in.TermMonths
	l.AnnualInterestPct = in.AnnualInterestPct.Round(2)
	return nil
}

func (u *Usecase) Get(ctx context.Context, loanID string, actor user.Actor) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(l.BorrowerID) {
		return nil, errs.Forbidden("loan belongs to another borrower")
	}
	return toDTO(l), nil
}

func (u *Usecase) ListByBorrower(ctx context.Context, actor user.Actor) ([]LoanDTO, error) {
	ls, err := u.repo.ListByBorrower(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

// ListAll is the admin view. An empty status lists every loan.
func (u *Usecase) ListAll(ctx context.Context, status string) ([]LoanDTO, error) {
	var statuses []loan.Status
	if status != "" {
		st := loan.Status(status)
		switch st {
		case loan.StatusPendiente, loan.StatusAprobado, loan.StatusRechazado, loan.StatusLiquidado:
			statuses = append(statuses, st)
		default:
			return nil, errs.Validation("status", "unknown loan status")
		}
	}
	ls, err := u.repo.ListByStatus(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

// Sign records the borrower's signature once. SignStatus is the field
// that is written; the legacy columns are filled alongside it. The write
// is a guarded column update and never touches the loan status.
func (u *Usecase) Sign(ctx context.Context, in SignInput) (*LoanDTO, error) {
	mode, ok := loan.ParseSignMode(in.Mode)
	if !ok {
		return nil, errs.Validation("mode", "must be one of drawn, typed, accepted")
	}
	if mode != loan.SignModeAccepted && in.Payload == "" {
		return nil, errs.Validation("payload", "is required for drawn and typed signatures")
	}

	l, err := u.repo.GetByLoanID(ctx, in.LoanID)
	if err != nil {
		return nil, err
	}
	if l.BorrowerID != in.Actor.ID {
		return nil, errs.Forbidden("only the borrower can sign")
	}
	if l.EffectiveSignStatus() == loan.SignSigned {
		return nil, errs.Conflict("loan already signed")
	}
	if !signable(l.Status) {
		return nil, errs.InvalidTransition(string(l.Status), "signed")
	}

	ok, err = u.repo.MarkSigned(ctx, l.ID, mode, in.Payload, u.now())
	if err != nil {
		return nil, err
	}
	// re-read so a status change that landed meanwhile is reported as is
	if l, err = u.repo.GetByLoanID(ctx, in.LoanID); err != nil {
		return nil, err
	}
	if !ok {
		if l.EffectiveSignStatus() == loan.SignSigned {
			return nil, errs.Conflict("loan already signed")
		}
		return nil, errs.InvalidTransition(string(l.Status), "signed")
	}
	if u.notifier != nil {
		u.notifier.Notify(ctx, l.BorrowerID, notify.Message{
			Title: "Contrato firmado",
			Body:  fmt.Sprintf("Firmaste el contrato del préstamo %s.", l.LoanID),
			Data:  map[string]any{"loan_id": l.LoanID},
		})
	}
	return toDTO(l), nil
}

func signable(s loan.Status) bool {
	for _, st := range loan.Signable {
		if st == s {
			return true
		}
	}
	return false
}

// Options lists the loan catalog.
func (u *Usecase) Options(ctx context.Context) ([]option.LoanOption, error) {
	return u.options.List(ctx)
}
