package setting

import (
	"context"
	"time"
)

const (
	KeyDocumentTargetEmail = "document_target_email"
	KeyDocumentFromEmail   = "document_from_email"
)

// Known lists the keys exposed to admins.
var Known = []string{KeyDocumentTargetEmail, KeyDocumentFromEmail}

func IsKnown(key string) bool {
	for _, k := range Known {
		if k == key {
			return true
		}
	}
	return false
}

type Setting struct {
	Key       string    `gorm:"primaryKey;size:64;column:key"`
	Value     string    `gorm:"type:text;column:value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Setting) TableName() string { return "settings" }

type Repository interface {
	// Get returns "" and no error when the key is unset.
	Get(ctx context.Context, key string) (string, error)
	Upsert(ctx context.Context, key, value string) error
}

// Provider is the read path used by the rest of the service.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Refresh(ctx context.Context, key string) (string, error)
}
