package installment

import (
	"time"

	"github.com/shopspring/decimal"

	"prestamos-backend/internal/domain/errs"
)

// PeriodDays is the fixed spacing between due dates. It is not calendar
// month arithmetic.
const PeriodDays = 30

const moneyPlaces = 2

var monthsTimesPercent = decimal.NewFromInt(12 * 100)

// ScheduleInput describes one loan to amortize.
type ScheduleInput struct {
	LoanID            uint64
	Principal         decimal.Decimal
	TermMonths        int
	AnnualInterestPct decimal.Decimal
	GraceDays         int
	AsOf              time.Time
}

func (in ScheduleInput) validate() error {
	switch {
	case !in.Principal.IsPositive():
		return errs.Validation("principal", "must be greater than 0")
	case !in.Principal.Equal(in.Principal.Round(moneyPlaces)):
		return errs.Validation("principal", "must have at most 2 decimal places")
	case in.TermMonths <= 0:
		return errs.Validation("term_months", "must be greater than 0")
	case in.AnnualInterestPct.IsNegative():
		return errs.Validation("annual_interest_pct", "must not be negative")
	case in.GraceDays < 0:
		return errs.Validation("grace_days", "must not be negative")
	case in.AsOf.IsZero():
		return errs.Validation("as_of", "is required")
	}
	return nil
}

// DateOnly truncates t to midnight UTC of its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildSchedule computes an even-capital schedule with simple monthly
// interest on the outstanding balance. The last period takes whatever
// capital is left so the capital column sums to the principal exactly.
func BuildSchedule(in ScheduleInput) ([]Installment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	n := in.TermMonths
	base := DateOnly(in.AsOf)
	evenCapital := in.Principal.Div(decimal.NewFromInt(int64(n))).Round(moneyPlaces)
	remaining := in.Principal

	rows := make([]Installment, 0, n)
	for k := 1; k <= n; k++ {
		interest := remaining.Mul(in.AnnualInterestPct).Div(monthsTimesPercent).Round(moneyPlaces)
		capital := evenCapital
		if k == n {
			capital = remaining
		}
		if capital.IsNegative() {
			return nil, errs.Validation("principal", "too small to split over the requested term")
		}
		due := base.AddDate(0, 0, PeriodDays*k)
		rows = append(rows, Installment{
			LoanID:            in.LoanID,
			InstallmentNumber: k,
			DueDate:           due,
			Capital:           capital,
			Interest:          interest,
			TotalDue:          capital.Add(interest).Round(moneyPlaces),
			Status:            StatusPendiente,
			GraceDays:         in.GraceDays,
			OverdueAfter:      due.AddDate(0, 0, in.GraceDays),
		})
		remaining = remaining.Sub(capital)
	}
	return rows, nil
}
