package installment

import (
	"strconv"
	"strings"

	"prestamos-backend/internal/domain/errs"
)

type Status string

const (
	StatusPendiente Status = "pendiente"
	StatusReportado Status = "reportado"
	StatusPagado    Status = "pagado"
	StatusRechazado Status = "rechazado"
	StatusAtrasado  Status = "atrasado"
)

var AllStatuses = []Status{StatusPendiente, StatusReportado, StatusPagado, StatusRechazado, StatusAtrasado}

// transitions is the full table; a pair missing here is rejected.
// pagado has no way out.
var transitions = map[Status][]Status{
	StatusPendiente: {StatusReportado, StatusAtrasado},
	StatusReportado: {StatusPagado, StatusRechazado, StatusAtrasado},
	StatusRechazado: {StatusReportado, StatusPendiente},
	StatusAtrasado:  {StatusReportado, StatusPendiente},
}

// OverdueCandidates are the statuses the overdue sweep may flip.
var OverdueCandidates = []Status{StatusPendiente, StatusReportado}

// ReportableFrom lists the statuses a borrower may report a receipt from.
var ReportableFrom = []Status{StatusPendiente, StatusRechazado, StatusAtrasado}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", errs.Validation("status", "unknown installment status "+strconv.Quote(s))
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Validate returns an InvalidTransitionError naming both states when the
// move is not in the table.
func Validate(from, to Status) error {
	if !CanTransition(from, to) {
		return errs.InvalidTransition(string(from), string(to))
	}
	return nil
}

func (s Status) Terminal() bool { return s == StatusPagado }
