package installment

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"prestamos-backend/internal/domain/errs"
	domain "prestamos-backend/internal/domain/installment"
	"prestamos-backend/internal/domain/loan"
	"prestamos-backend/internal/domain/notify"
	"prestamos-backend/internal/domain/uow"
	"prestamos-backend/internal/domain/user"
	"prestamos-backend/internal/infrastructure/metrics"
	"prestamos-backend/internal/usecase/settlement"
	"prestamos-backend/pkg/logger"
)

// sweepBatch bounds one overdue query.
const sweepBatch = 500

type Deps struct {
	UoW          uow.UnitOfWork
	Installments domain.Repository
	Loans        loan.Repository
	Users        user.Repository
	Audit        domain.AuditSink
	Notifier     notify.Notifier
	Metrics      *metrics.Metrics
}

type Usecase struct {
	Deps
	now func() time.Time
}

func NewUsecase(d Deps) *Usecase {
	return &Usecase{Deps: d, now: func() time.Time { return time.Now().UTC() }}
}

// Report attaches the borrower's receipt and moves the row to reportado.
func (u *Usecase) Report(ctx context.Context, in ReportInput) (*domain.Installment, error) {
	if len(in.Receipt.Data) == 0 {
		return nil, errs.Validation("receipt", "is required")
	}
	row, l, err := u.load(ctx, in.InstallmentID)
	if err != nil {
		return nil, err
	}
	if l.BorrowerID != in.Actor.ID {
		return nil, errs.Forbidden("installment belongs to another borrower")
	}
	if err := domain.Validate(row.Status, domain.StatusReportado); err != nil {
		return nil, err
	}

	now := u.now()
	receipt := in.Receipt
	ok, err := u.Installments.UpdateIfStatus(ctx, row.ID, row.Status, domain.Change{
		Status:     domain.StatusReportado,
		ReportedAt: &now,
		Receipt:    &receipt,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, u.lostRace(ctx, row.ID, domain.StatusReportado)
	}

	from := row.Status
	u.record(ctx, &domain.Log{InstallmentID: row.ID, OldStatus: from, NewStatus: domain.StatusReportado,
		PaidAmountBefore: row.PaidAmount, PaidAmountAfter: row.PaidAmount})
	u.notifyAdmins(ctx, notify.Message{
		Title: "Nuevo recibo de cuota reportado",
		Body:  fmt.Sprintf("Se reportó el pago de la cuota #%d del préstamo %s.", row.InstallmentNumber, l.LoanID),
		Data:  map[string]any{"installment_id": row.ID, "loan_id": l.LoanID, "user_id": in.Actor.ID},
	})

	return u.Installments.GetByID(ctx, row.ID)
}

// UpdateStatus applies an admin decision. A pagado that completes the
// schedule settles the loan in the same transaction.
func (u *Usecase) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*UpdateStatusResult, error) {
	to, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if in.PaidAmount != nil {
		if to != domain.StatusPagado {
			return nil, errs.Validation("paid_amount", "only allowed when status is pagado")
		}
		if !in.PaidAmount.IsPositive() {
			return nil, errs.Validation("paid_amount", "must be greater than 0")
		}
	}

	var (
		before  domain.Installment
		settled bool
		l       *loan.Loan
	)
	// loan_id never changes, so it is safe to read before the lock
	target, err := u.Installments.GetByID(ctx, in.InstallmentID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	err = u.UoW.WithinTx(ctx, func(r uow.Repos) error {
		// Decisions on one loan queue on its row lock. The installment
		// reads below start after the previous decision committed, so the
		// settlement count sees every earlier pagado.
		var err error
		if l, err = r.Loans.GetByIDForUpdate(ctx, target.LoanID); err != nil {
			return err
		}
		row, err := r.Installments.GetByID(ctx, in.InstallmentID)
		if err != nil {
			return err
		}
		before = *row
		if err := domain.Validate(row.Status, to); err != nil {
			return err
		}

		c := domain.Change{Status: to}
		if to == domain.StatusPagado {
			amount := row.TotalDue
			if in.PaidAmount != nil {
				amount = in.PaidAmount.Round(2)
			}
			paid := decimal.NewNullDecimal(amount)
			c.PaidAmount = &paid
			c.PaidAt = &now
		}
		ok, err := r.Installments.UpdateIfStatus(ctx, row.ID, row.Status, c)
		if err != nil {
			return err
		}
		if !ok {
			return u.lostRaceIn(ctx, r.Installments, row.ID, to)
		}
		if to == domain.StatusPagado {
			settled, err = settlement.SettleIfComplete(ctx, r, row.LoanID, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	after, err := u.Installments.GetByID(ctx, in.InstallmentID)
	if err != nil {
		return nil, err
	}
	admin := in.AdminID
	u.record(ctx, &domain.Log{InstallmentID: after.ID, OldStatus: before.Status, NewStatus: to, AdminID: &admin,
		PaidAmountBefore: before.PaidAmount, PaidAmountAfter: after.PaidAmount})
	u.notifyBorrower(ctx, l, after, to)
	if settled {
		u.Metrics.Settled()
		logger.Info(ctx, "loan: settled", zap.String("loan_id", l.LoanID))
		u.notify(ctx, l.BorrowerID, notify.Message{
			Title: "Préstamo liquidado",
			Body:  fmt.Sprintf("Pagaste todas las cuotas del préstamo %s.", l.LoanID),
			Data:  map[string]any{"loan_id": l.LoanID},
		})
	}
	return &UpdateStatusResult{Installment: *after, LoanSettled: settled}, nil
}

// SweepOverdue flips pendiente and reportado rows past their grace period
// to atrasado. Running it twice for the same day changes nothing the
// second time.
func (u *Usecase) SweepOverdue(ctx context.Context, today time.Time) (*SweepResult, error) {
	if today.IsZero() {
		today = u.now()
	}
	today = domain.DateOnly(today)
	res := &SweepResult{Today: today}
	for {
		rows, err := u.Installments.ListOverdueCandidates(ctx, today, sweepBatch)
		if err != nil {
			return res, err
		}
		updated := 0
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			ok, err := u.Installments.UpdateIfStatus(ctx, row.ID, row.Status, domain.Change{Status: domain.StatusAtrasado})
			if err != nil {
				return res, err
			}
			if !ok {
				continue
			}
			updated++
			u.record(ctx, &domain.Log{InstallmentID: row.ID, OldStatus: row.Status, NewStatus: domain.StatusAtrasado,
				PaidAmountBefore: row.PaidAmount, PaidAmountAfter: row.PaidAmount})
		}
		res.Updated += updated
		if len(rows) < sweepBatch || updated == 0 {
			break
		}
	}
	u.Metrics.OverdueMarked(res.Updated)
	logger.Info(ctx, "installments: overdue sweep", zap.Time("today", today), zap.Int("updated", res.Updated))
	return res, nil
}

// Receipt returns the stored upload to its owner or an admin.
func (u *Usecase) Receipt(ctx context.Context, installmentID uint64, actor user.Actor) (*domain.Receipt, error) {
	row, l, err := u.load(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(l.BorrowerID) {
		return nil, errs.Forbidden("installment belongs to another borrower")
	}
	if !row.HasReceipt() {
		return nil, errs.NotFound("receipt of installment", fmt.Sprint(installmentID))
	}
	return &domain.Receipt{
		Data:         row.ReceiptFile,
		Mime:         row.ReceiptMime,
		OriginalName: row.ReceiptOriginalName,
		Meta:         row.ReceiptMeta,
	}, nil
}

func (u *Usecase) ListByLoan(ctx context.Context, loanID string, actor user.Actor) ([]domain.Installment, error) {
	l, err := u.Loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(l.BorrowerID) {
		return nil, errs.Forbidden("loan belongs to another borrower")
	}
	return u.Installments.ListByLoan(ctx, l.ID)
}

func (u *Usecase) load(ctx context.Context, installmentID uint64) (*domain.Installment, *loan.Loan, error) {
	row, err := u.Installments.GetByID(ctx, installmentID)
	if err != nil {
		return nil, nil, err
	}
	l, err := u.Loans.GetByID(ctx, row.LoanID)
	if err != nil {
		return nil, nil, err
	}
	return row, l, nil
}

func (u *Usecase) lostRace(ctx context.Context, id uint64, to domain.Status) error {
	return u.lostRaceIn(ctx, u.Installments, id, to)
}

// lostRaceIn re-reads a row whose guarded update matched nothing and
// reports the status that beat us.
func (u *Usecase) lostRaceIn(ctx context.Context, repo domain.Repository, id uint64, to domain.Status) error {
	cur, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return errs.InvalidTransition(string(cur.Status), string(to))
}

// record writes the audit row after the change committed. A failure here
// is logged and never undoes the transition.
func (u *Usecase) record(ctx context.Context, l *domain.Log) {
	u.Metrics.Transition(string(l.OldStatus), string(l.NewStatus))
	if u.Audit == nil {
		return
	}
	if err := u.Audit.Append(ctx, l); err != nil {
		logger.Warn(ctx, "installments: audit append failed",
			zap.Uint64("installment_id", l.InstallmentID),
			zap.String("from", string(l.OldStatus)),
			zap.String("to", string(l.NewStatus)),
			zap.Error(err))
	}
}

func (u *Usecase) notifyBorrower(ctx context.Context, l *loan.Loan, row *domain.Installment, to domain.Status) {
	var title, verb string
	switch to {
	case domain.StatusPagado:
		title, verb = "Cuota aprobada", "aprobado"
	case domain.StatusRechazado:
		title, verb = "Cuota rechazada", "rechazado"
	default:
		return
	}
	u.notify(ctx, l.BorrowerID, notify.Message{
		Title: title,
		Body:  fmt.Sprintf("Tu comprobante de la cuota #%d fue %s por el administrador.", row.InstallmentNumber, verb),
		Data:  map[string]any{"installment_id": row.ID, "loan_id": l.LoanID},
	})
}

func (u *Usecase) notifyAdmins(ctx context.Context, m notify.Message) {
	if u.Notifier == nil || u.Users == nil {
		return
	}
	admins, err := u.Users.ListAdmins(ctx)
	if err != nil {
		logger.Warn(ctx, "installments: list admins failed", zap.Error(err))
		return
	}
	for _, a := range admins {
		u.Notifier.Notify(ctx, a.ID, m)
	}
}

func (u *Usecase) notify(ctx context.Context, userID uint64, m notify.Message) {
	if u.Notifier == nil {
		return
	}
	u.Notifier.Notify(ctx, userID, m)
}
