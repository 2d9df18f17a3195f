package installment

import (
	"errors"
	"testing"

	"prestamos-backend/internal/domain/errs"
)

func TestTransitionTable_Complete(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPendiente, StatusReportado}: true,
		{StatusPendiente, StatusAtrasado}:  true,
		{StatusReportado, StatusPagado}:    true,
		{StatusReportado, StatusRechazado}: true,
		{StatusReportado, StatusAtrasado}:  true,
		{StatusRechazado, StatusReportado}: true,
		{StatusRechazado, StatusPendiente}: true,
		{StatusAtrasado, StatusReportado}:  true,
		{StatusAtrasado, StatusPendiente}:  true,
	}
	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			err := Validate(from, to)
			if allowed[[2]Status{from, to}] {
				if err != nil {
					t.Errorf("%s -> %s should be allowed, got %v", from, to, err)
				}
				continue
			}
			var ite *errs.InvalidTransitionError
			if !errors.As(err, &ite) {
				t.Errorf("%s -> %s: want InvalidTransitionError, got %v", from, to, err)
				continue
			}
			if ite.Current != string(from) || ite.Requested != string(to) {
				t.Errorf("%s -> %s: error names %s -> %s", from, to, ite.Current, ite.Requested)
			}
		}
	}
}

func TestPagadoIsTerminal(t *testing.T) {
	if !StatusPagado.Terminal() {
		t.Fatalf("pagado must be terminal")
	}
	for _, to := range AllStatuses {
		if CanTransition(StatusPagado, to) {
			t.Fatalf("pagado -> %s must be rejected", to)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if st, err := ParseStatus(" PAGADO "); err != nil || st != StatusPagado {
		t.Fatalf("ParseStatus = %v, %v", st, err)
	}
	if _, err := ParseStatus("cancelado"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestReportableFromMatchesTable(t *testing.T) {
	for _, from := range ReportableFrom {
		if !CanTransition(from, StatusReportado) {
			t.Fatalf("%s listed as reportable but table disagrees", from)
		}
	}
	for _, from := range OverdueCandidates {
		if !CanTransition(from, StatusAtrasado) {
			t.Fatalf("%s listed as overdue candidate but table disagrees", from)
		}
	}
}
