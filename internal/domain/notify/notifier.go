package notify

import (
	"context"
	"time"
)

// Message is the {title, body, data} triple handed to delivery channels.
type Message struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

// Notifier delivers best effort. Implementations never report delivery
// failures back to the caller.
type Notifier interface {
	Notify(ctx context.Context, userID uint64, m Message)
}

// Notification is a row of a user's in-app inbox.
type Notification struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_notifications_user_read,priority:1" json:"-"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Data      string    `gorm:"type:text" json:"data,omitempty"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxSent    OutboxStatus = "sent"
	OutboxFailed  OutboxStatus = "failed"
)

// OutboxEmail is an e-mail waiting for an external sender.
type OutboxEmail struct {
	ID        uint64       `gorm:"primaryKey;column:id"`
	Target    string       `gorm:"size:190;not null"`
	From      string       `gorm:"column:from_address;size:190"`
	Subject   string       `gorm:"size:255;not null"`
	Body      string       `gorm:"type:text"`
	Status    OutboxStatus `gorm:"type:varchar(16);not null;default:'pending';index"`
	Attempts  int          `gorm:"not null;default:0"`
	CreatedAt time.Time    `gorm:"autoCreateTime"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime"`
}

func (OutboxEmail) TableName() string { return "email_outbox" }

type Repository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	ListNotifications(ctx context.Context, userID uint64, limit, offset int) ([]Notification, error)
	EnqueueEmail(ctx context.Context, e *OutboxEmail) error
}
