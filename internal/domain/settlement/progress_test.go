package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"prestamos-backend/internal/domain/installment"
)

func row(status installment.Status, total string, paid string) installment.Installment {
	r := installment.Installment{Status: status, TotalDue: decimal.RequireFromString(total)}
	if paid != "" {
		r.PaidAmount = decimal.NewNullDecimal(decimal.RequireFromString(paid))
	}
	return r
}

func TestCompute_Empty(t *testing.T) {
	p := Compute("LN", nil)
	require.Equal(t, 0, p.Total)
	require.True(t, p.PercentPaid.IsZero())
	require.True(t, p.TotalScheduled.IsZero())
	require.False(t, p.Complete())
}

func TestCompute_Mixed(t *testing.T) {
	rows := []installment.Installment{
		row(installment.StatusPagado, "343.33", "343.33"),
		row(installment.StatusReportado, "340.00", ""),
		row(installment.StatusAtrasado, "336.67", ""),
		row(installment.StatusPendiente, "100.00", ""),
		row(installment.StatusRechazado, "100.00", ""),
	}
	p := Compute("LN-1", rows)
	require.Equal(t, "LN-1", p.LoanID)
	require.Equal(t, 5, p.Total)
	require.Equal(t, 1, p.Paid)
	require.Equal(t, 1, p.Reported)
	require.Equal(t, 1, p.Overdue)
	require.Equal(t, 1, p.Pending)
	require.Equal(t, 1, p.Rejected)
	require.Equal(t, "1220", p.TotalScheduled.String())
	require.Equal(t, "343.33", p.TotalPaid.String())
	// 343.33 / 1220 * 100 = 28.1418...
	require.Equal(t, "28.14", p.PercentPaid.StringFixed(2))
	require.False(t, p.Complete())
}

func TestCompute_AllPaid(t *testing.T) {
	rows := []installment.Installment{
		row(installment.StatusPagado, "343.33", "343.33"),
		row(installment.StatusPagado, "340.00", "340.00"),
		row(installment.StatusPagado, "336.67", "336.67"),
	}
	p := Compute("LN-2", rows)
	require.True(t, p.Complete())
	require.Equal(t, "100.00", p.PercentPaid.StringFixed(2))
}
