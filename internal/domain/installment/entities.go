package installment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Installment struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"id"`
	LoanID            uint64          `gorm:"not null;uniqueIndex:ux_installments_loan_number,priority:1" json:"-"`
	InstallmentNumber int             `gorm:"not null;uniqueIndex:ux_installments_loan_number,priority:2" json:"installment_number"`
	DueDate           time.Time       `gorm:"type:date;not null" json:"due_date"`
	Capital           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"capital"`
	Interest          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"interest"`
	TotalDue          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_due"`
	Status            Status          `gorm:"type:varchar(16);not null;default:'pendiente';index:idx_installments_sweep,priority:1" json:"status"`
	GraceDays         int             `gorm:"not null;default:0" json:"grace_days"`
	// OverdueAfter is DueDate + GraceDays. Both are immutable, so it is
	// computed once at generation.
	OverdueAfter time.Time           `gorm:"type:date;not null;index:idx_installments_sweep,priority:2" json:"overdue_after"`
	PaidAmount   decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"paid_amount"`
	PaidAt       *time.Time          `json:"paid_at,omitempty"`
	ReportedAt   *time.Time          `json:"reported_at,omitempty"`

	ReceiptFile         []byte `gorm:"type:longblob" json:"-"`
	ReceiptMime         string `gorm:"size:120" json:"receipt_mime,omitempty"`
	ReceiptOriginalName string `gorm:"size:255" json:"receipt_original_name,omitempty"`
	ReceiptMeta         string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Installment) TableName() string { return "installments" }

func (i *Installment) HasReceipt() bool { return len(i.ReceiptFile) > 0 }

// Receipt is the opaque upload attached when a borrower reports a payment.
// Its contents are never inspected.
type Receipt struct {
	Data         []byte
	Mime         string
	OriginalName string
	Meta         string
}

// Log is one append-only audit row per applied transition.
type Log struct {
	ID               uint64              `gorm:"primaryKey;column:id"`
	InstallmentID    uint64              `gorm:"not null;index"`
	OldStatus        Status              `gorm:"type:varchar(16);not null"`
	NewStatus        Status              `gorm:"type:varchar(16);not null"`
	AdminID          *uint64             `gorm:"column:admin_id"`
	PaidAmountBefore decimal.NullDecimal `gorm:"type:decimal(18,2)"`
	PaidAmountAfter  decimal.NullDecimal `gorm:"type:decimal(18,2)"`
	CreatedAt        time.Time           `gorm:"autoCreateTime"`
}

func (Log) TableName() string { return "installment_logs" }
