package dbtest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"prestamos-backend/internal/domain/loan"
	"prestamos-backend/internal/domain/user"
	"prestamos-backend/pkg/id"
)

func SeedUser(t testing.TB, gdb *gorm.DB, role user.Role, tier user.Tier) *user.User {
	t.Helper()
	uid := id.NewID32()
	u := &user.User{
		UserID: uid,
		Name:   "user " + uid[:6],
		Email:  uid + "@example.com",
		Role:   role,
		Tier:   tier,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedLoan(t testing.TB, gdb *gorm.DB, borrowerID uint64, status loan.Status, principal string, term int, rate string) *loan.Loan {
	t.Helper()
	l := &loan.Loan{
		LoanID:            id.NewID32(),
		BorrowerID:        borrowerID,
		Principal:         decimal.RequireFromString(principal),
		TermMonths:        term,
		AnnualInterestPct: decimal.RequireFromString(rate),
		Status:            status,
		StatusUpdatedAt:   time.Now().UTC(),
		SignStatus:        loan.SignUnsigned,
	}
	if err := gdb.Create(l).Error; err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}
