package loan

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPendiente, StatusAprobado, StatusRechazado, StatusLiquidado}
	allowed := map[[2]Status]bool{
		{StatusPendiente, StatusAprobado}:  true,
		{StatusPendiente, StatusRechazado}: true,
		{StatusRechazado, StatusAprobado}:  true,
	}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestHasSchedule(t *testing.T) {
	if StatusPendiente.HasSchedule() || StatusRechazado.HasSchedule() {
		t.Fatalf("pending/rejected loans own no installments")
	}
	if !StatusAprobado.HasSchedule() || !StatusLiquidado.HasSchedule() {
		t.Fatalf("approved/settled loans own installments")
	}
}

func TestEffectiveSignStatus_Precedence(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name string
		l    Loan
		want SignStatus
	}{
		{"authoritative field", Loan{SignStatus: SignSigned}, SignSigned},
		{"legacy timestamp", Loan{SignStatus: SignUnsigned, SignedAt: &now}, SignSigned},
		{"legacy payload", Loan{SignaturePayload: "data:image/png;base64,AAAA"}, SignSigned},
		{"nothing", Loan{SignStatus: SignUnsigned}, SignUnsigned},
		{"zero value", Loan{}, SignUnsigned},
	}
	for _, tt := range tests {
		if got := tt.l.EffectiveSignStatus(); got != tt.want {
			t.Errorf("%s: got %s want %s", tt.name, got, tt.want)
		}
	}
}
