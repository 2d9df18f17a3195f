package schedule

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"prestamos-backend/internal/adapter/repository/mysql"
	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/domain/loan"
	"prestamos-backend/internal/domain/user"
	"prestamos-backend/internal/infrastructure/metrics"
	"prestamos-backend/internal/testutil/dbtest"
)

var asOf = time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

func TestGenerate_WritesThenSkips(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	uc := NewUsecase(mysql.NewGormUoW(gdb), m)

	b := dbtest.SeedUser(t, gdb, user.RoleCliente, user.TierHierro)
	l := dbtest.SeedLoan(t, gdb, b.ID, loan.StatusAprobado, "10000", 3, "12")
	in := GenerateInput{
		LoanID:            l.ID,
		Principal:         l.Principal,
		TermMonths:        3,
		AnnualInterestPct: l.AnnualInterestPct,
		GraceDays:         3,
		AsOf:              asOf,
	}

	first, err := uc.Generate(ctx, in)
	require.NoError(t, err)
	require.False(t, first.Skipped)
	require.Len(t, first.Installments, 3)
	// 10000 at 12% over 3: capital 3333.33, 3333.33, 3333.34
	require.Equal(t, "3433.33", first.Installments[0].TotalDue.StringFixed(2))
	require.Equal(t, "3400.00", first.Installments[1].TotalDue.StringFixed(2))
	require.Equal(t, "3366.67", first.Installments[2].TotalDue.StringFixed(2))
	require.Equal(t, "2025-02-17", first.Installments[0].OverdueAfter.Format(time.DateOnly))

	second, err := uc.Generate(ctx, in)
	require.NoError(t, err)
	require.True(t, second.Skipped)
	require.Len(t, second.Installments, 3)
	for i := range second.Installments {
		require.Equal(t, first.Installments[i].ID, second.Installments[i].ID)
	}

	expected := `
# HELP schedules_generated_total Schedule generation calls by result (created, skipped).
# TYPE schedules_generated_total counter
schedules_generated_total{result="created"} 1
schedules_generated_total{result="skipped"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "schedules_generated_total"))
}

func TestGenerate_InvalidInputWritesNothing(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	uc := NewUsecase(mysql.NewGormUoW(gdb), nil)

	b := dbtest.SeedUser(t, gdb, user.RoleCliente, user.TierHierro)
	l := dbtest.SeedLoan(t, gdb, b.ID, loan.StatusAprobado, "100", 2, "5")

	for _, in := range []GenerateInput{
		{LoanID: l.ID, Principal: decimal.Zero, TermMonths: 2, AnnualInterestPct: decimal.NewFromInt(5), AsOf: asOf},
		{LoanID: l.ID, Principal: decimal.NewFromInt(100), TermMonths: 0, AnnualInterestPct: decimal.NewFromInt(5), AsOf: asOf},
		{LoanID: l.ID, Principal: decimal.NewFromInt(100), TermMonths: 2, AnnualInterestPct: decimal.NewFromInt(-1), AsOf: asOf},
		{LoanID: l.ID, Principal: decimal.NewFromInt(100), TermMonths: 2, AnnualInterestPct: decimal.NewFromInt(5), GraceDays: -1, AsOf: asOf},
	} {
		_, err := uc.Generate(ctx, in)
		require.ErrorIs(t, err, errs.ErrValidation)
	}

	exists, err := mysql.NewInstallmentRepository(gdb).ExistsForLoan(ctx, l.ID)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestGenerate_ConcurrentCallsWriteOnce(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	uc := NewUsecase(mysql.NewGormUoW(gdb), nil)

	b := dbtest.SeedUser(t, gdb, user.RoleCliente, user.TierHierro)
	l := dbtest.SeedLoan(t, gdb, b.ID, loan.StatusAprobado, "1200", 12, "24")
	in := GenerateInput{LoanID: l.ID, Principal: l.Principal, TermMonths: 12, AnnualInterestPct: l.AnnualInterestPct, AsOf: asOf}

	const callers = 4
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := uc.Generate(ctx, in)
			if err != nil {
				t.Errorf("Generate: %v", err)
				return
			}
			if !res.Skipped {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, created)

	rows, err := mysql.NewInstallmentRepository(gdb).ListByLoan(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, rows, 12)
}

func TestEnsureForLoan(t *testing.T) {
	gdb := dbtest.Open(t)
	ctx := context.Background()
	uc := NewUsecase(mysql.NewGormUoW(gdb), nil)

	b := dbtest.SeedUser(t, gdb, user.RoleCliente, user.TierDiamante)

	pending := dbtest.SeedLoan(t, gdb, b.ID, loan.StatusPendiente, "500", 2, "10")
	_, err := uc.EnsureForLoan(ctx, pending.LoanID, asOf)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	_, err = uc.EnsureForLoan(ctx, "ffffffffffffffffffffffffffffffff", asOf)
	require.ErrorIs(t, err, errs.ErrNotFound)

	approved := dbtest.SeedLoan(t, gdb, b.ID, loan.StatusAprobado, "500", 2, "10")
	res, err := uc.EnsureForLoan(ctx, approved.LoanID, asOf)
	require.NoError(t, err)
	require.False(t, res.Skipped)
	require.Len(t, res.Installments, 2)
	require.Equal(t, user.TierDiamante.GraceDays(), res.Installments[0].GraceDays)

	res, err = uc.EnsureForLoan(ctx, approved.LoanID, time.Time{})
	require.NoError(t, err)
	require.True(t, res.Skipped)
	require.Len(t, res.Installments, 2)
}
