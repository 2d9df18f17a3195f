package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPendiente Status = "pendiente"
	StatusAprobado  Status = "aprobado"
	StatusRechazado Status = "rechazado"
	StatusLiquidado Status = "liquidado"
)

// transitions lists admin-driven moves. aprobado -> liquidado is only ever
// applied by the settlement check and is kept out of this table.
var transitions = map[Status][]Status{
	StatusPendiente: {StatusAprobado, StatusRechazado},
	StatusRechazado: {StatusAprobado},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// HasSchedule reports whether a loan in status s has reached aprobado at
// least once and so owns installments.
func (s Status) HasSchedule() bool {
	return s == StatusAprobado || s == StatusLiquidado
}

// Signable lists the loan statuses a borrower may still sign in.
var Signable = []Status{StatusPendiente, StatusAprobado}

type SignStatus string

const (
	SignUnsigned SignStatus = "unsigned"
	SignSigned   SignStatus = "signed"
)

type SignMode string

const (
	SignModeDrawn    SignMode = "drawn"
	SignModeTyped    SignMode = "typed"
	SignModeAccepted SignMode = "accepted"
)

func ParseSignMode(s string) (SignMode, bool) {
	switch SignMode(s) {
	case SignModeDrawn, SignModeTyped, SignModeAccepted:
		return SignMode(s), true
	}
	return "", false
}

type Loan struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID            string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID        uint64          `gorm:"not null;index:idx_loans_borrower_status" json:"-"`
	Principal         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"principal"`
	TermMonths        int             `gorm:"not null" json:"term_months"`
	AnnualInterestPct decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"annual_interest_pct"`
	Purpose           string          `gorm:"type:text" json:"purpose"`
	LoanOptionID      *uint64         `gorm:"column:loan_option_id" json:"loan_option_id,omitempty"`
	Status            Status          `gorm:"type:varchar(16);not null;default:'pendiente';index:idx_loans_borrower_status" json:"status"`
	StatusUpdatedAt   time.Time       `gorm:"autoCreateTime" json:"status_updated_at"`

	// SignStatus is authoritative. SignedAt and SignaturePayload are kept
	// for rows written before it existed; see EffectiveSignStatus.
	SignStatus       SignStatus `gorm:"type:varchar(16);not null;default:'unsigned'" json:"sign_status"`
	SignaturePayload string     `gorm:"type:text" json:"-"`
	SignedAt         *time.Time `json:"signed_at,omitempty"`
	SignMode         SignMode   `gorm:"type:varchar(16)" json:"sign_mode,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// EffectiveSignStatus resolves legacy rows. Precedence: SignStatus when
// signed, then a non-nil SignedAt, then a non-empty payload.
func (l *Loan) EffectiveSignStatus() SignStatus {
	switch {
	case l.SignStatus == SignSigned:
		return SignSigned
	case l.SignedAt != nil:
		return SignSigned
	case l.SignaturePayload != "":
		return SignSigned
	}
	return SignUnsigned
}
