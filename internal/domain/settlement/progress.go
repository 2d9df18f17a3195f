package settlement

import (
	"github.com/shopspring/decimal"

	"prestamos-backend/internal/domain/installment"
)

var hundred = decimal.NewFromInt(100)

// Progress is the read-side roll-up of one loan's installments.
type Progress struct {
	LoanID         string          `json:"loan_id"`
	Total          int             `json:"total"`
	Paid           int             `json:"paid"`
	Reported       int             `json:"reported"`
	Pending        int             `json:"pending"`
	Overdue        int             `json:"overdue"`
	Rejected       int             `json:"rejected"`
	TotalScheduled decimal.Decimal `json:"total_scheduled"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	PercentPaid    decimal.Decimal `json:"percent_paid"`
}

// Compute aggregates rows. PercentPaid is 0 when nothing is scheduled.
func Compute(loanID string, rows []installment.Installment) Progress {
	p := Progress{
		LoanID:         loanID,
		Total:          len(rows),
		TotalScheduled: decimal.Zero,
		TotalPaid:      decimal.Zero,
		PercentPaid:    decimal.Zero,
	}
	for _, r := range rows {
		switch r.Status {
		case installment.StatusPagado:
			p.Paid++
		case installment.StatusReportado:
			p.Reported++
		case installment.StatusPendiente:
			p.Pending++
		case installment.StatusAtrasado:
			p.Overdue++
		case installment.StatusRechazado:
			p.Rejected++
		}
		p.TotalScheduled = p.TotalScheduled.Add(r.TotalDue)
		if r.PaidAmount.Valid {
			p.TotalPaid = p.TotalPaid.Add(r.PaidAmount.Decimal)
		}
	}
	p.TotalScheduled = p.TotalScheduled.Round(2)
	p.TotalPaid = p.TotalPaid.Round(2)
	if p.TotalScheduled.IsPositive() {
		p.PercentPaid = p.TotalPaid.Div(p.TotalScheduled).Mul(hundred).Round(2)
	}
	return p
}

// Complete reports whether every row is pagado. An empty schedule is not
// complete.
func (p Progress) Complete() bool { return p.Total > 0 && p.Paid == p.Total }
