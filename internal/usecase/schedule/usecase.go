package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/domain/installment"
	"prestamos-backend/internal/domain/loan"
	"prestamos-backend/internal/domain/uow"
	"prestamos-backend/internal/infrastructure/metrics"
	"prestamos-backend/pkg/logger"
)

type GenerateInput struct {
	LoanID            uint64
	Principal         decimal.Decimal
	TermMonths        int
	AnnualInterestPct decimal.Decimal
	GraceDays         int
	AsOf              time.Time
}

// Result carries the loan's schedule. Skipped is set when rows already
// existed and nothing was written.
type Result struct {
	Installments []installment.Installment `json:"installments"`
	Skipped      bool                      `json:"skipped"`
}

var errSkipped = errs.Conflict("schedule already exists")

type Usecase struct {
	uow     uow.UnitOfWork
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, m *metrics.Metrics) *Usecase {
	return &Usecase{uow: tx, metrics: m, now: func() time.Time { return time.Now().UTC() }}
}

// Generate writes the schedule of one loan in its own transaction.
// Input errors are returned before anything is written.
func (u *Usecase) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	rows, err := build(in)
	if err != nil {
		return nil, err
	}

	var res *Result
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		res, err = insert(ctx, r, in.LoanID, rows)
		if err != nil {
			return err
		}
		if res.Skipped {
			// nothing to keep, and a failed insert must not commit
			return errSkipped
		}
		return nil
	})
	if errors.Is(err, errSkipped) {
		res, err = u.existing(ctx, in.LoanID)
	}
	if err != nil {
		return nil, err
	}
	u.metrics.Schedule(res.Skipped)
	logger.Info(ctx, "schedule: generated",
		zap.Uint64("loan_id", in.LoanID),
		zap.Int("rows", len(res.Installments)),
		zap.Bool("skipped", res.Skipped))
	return res, nil
}

// EnsureForLoan generates the schedule of an approved loan using the
// borrower's current tier for grace days.
func (u *Usecase) EnsureForLoan(ctx context.Context, loanID string, asOf time.Time) (*Result, error) {
	if asOf.IsZero() {
		asOf = u.now()
	}
	var res *Result
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if !l.Status.HasSchedule() {
			return errs.InvalidTransition(string(l.Status), "schedule")
		}
		borrower, err := r.Users.GetByID(ctx, l.BorrowerID)
		if err != nil {
			return err
		}
		res, err = GenerateInTx(ctx, r, GenerateInput{
			LoanID:            l.ID,
			Principal:         l.Principal,
			TermMonths:        l.TermMonths,
			AnnualInterestPct: l.AnnualInterestPct,
			GraceDays:         borrower.Tier.GraceDays(),
			AsOf:              asOf,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	u.metrics.Schedule(res.Skipped)
	return res, nil
}

// GenerateInTx is Generate for callers that already hold a transaction
// and a lock on the loan row.
func GenerateInTx(ctx context.Context, r uow.Repos, in GenerateInput) (*Result, error) {
	rows, err := build(in)
	if err != nil {
		return nil, err
	}
	res, err := insert(ctx, r, in.LoanID, rows)
	if err != nil {
		return nil, err
	}
	if res.Skipped {
		return existingIn(ctx, r.Installments, in.LoanID)
	}
	return res, nil
}

func build(in GenerateInput) ([]installment.Installment, error) {
	return installment.BuildSchedule(installment.ScheduleInput{
		LoanID:            in.LoanID,
		Principal:         in.Principal,
		TermMonths:        in.TermMonths,
		AnnualInterestPct: in.AnnualInterestPct,
		GraceDays:         in.GraceDays,
		AsOf:              in.AsOf,
	})
}

func insert(ctx context.Context, r uow.Repos, loanID uint64, rows []installment.Installment) (*Result, error) {
	exists, err := r.Installments.ExistsForLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if exists {
		return &Result{Skipped: true}, nil
	}
	if err := r.Installments.CreateBatch(ctx, rows); err != nil {
		// a concurrent generator won the unique (loan_id, installment_number) index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &Result{Skipped: true}, nil
		}
		return nil, err
	}
	return &Result{Installments: rows}, nil
}

func (u *Usecase) existing(ctx context.Context, loanID uint64) (*Result, error) {
	var res *Result
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		res, err = existingIn(ctx, r.Installments, loanID)
		return err
	})
	return res, err
}

func existingIn(ctx context.Context, repo installment.Repository, loanID uint64) (*Result, error) {
	rows, err := repo.ListByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return &Result{Installments: rows, Skipped: true}, nil
}
