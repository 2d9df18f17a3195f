package mysql

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"prestamos-backend/internal/domain/notify"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *notify.Notification) error {
	return pkgerrors.Wrap(r.db.WithContext(ctx).Create(n).Error, "create notification")
}

func (r *NotificationRepository) ListNotifications(ctx context.Context, userID uint64, limit, offset int) ([]notify.Notification, error) {
	var out []notify.Notification
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return out, pkgerrors.Wrap(q.Find(&out).Error, "list notifications")
}

func (r *NotificationRepository) EnqueueEmail(ctx context.Context, e *notify.OutboxEmail) error {
	if e.Status == "" {
		e.Status = notify.OutboxPending
	}
	return pkgerrors.Wrap(r.db.WithContext(ctx).Create(e).Error, "enqueue email")
}
