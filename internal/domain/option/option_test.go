package option

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/domain/user"
)

func TestCheckEligibility(t *testing.T) {
	o := &LoanOption{
		MinAmount: decimal.NewFromInt(100),
		MaxAmount: decimal.NewFromInt(1000),
		MinTier:   user.TierOro,
	}
	tests := []struct {
		name    string
		amount  int64
		tier    user.Tier
		wantErr bool
	}{
		{"inside range and tier", 500, user.TierOro, false},
		{"bounds are inclusive", 1000, user.TierEsmeralda, false},
		{"below range", 99, user.TierOro, true},
		{"above range", 1001, user.TierOro, true},
		{"tier too low", 500, user.TierPlata, true},
	}
	for _, tt := range tests {
		err := o.CheckEligibility(decimal.NewFromInt(tt.amount), tt.tier)
		if tt.wantErr && !errors.Is(err, errs.ErrValidation) {
			t.Errorf("%s: want validation error, got %v", tt.name, err)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("%s: unexpected err %v", tt.name, err)
		}
	}
}
