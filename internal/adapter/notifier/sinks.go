package notifier

import (
	"context"
	"encoding/json"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"prestamos-backend/internal/domain/notify"
	"prestamos-backend/internal/domain/setting"
	"prestamos-backend/internal/domain/user"
	"prestamos-backend/pkg/logger"
)

// InboxSink stores the message in the user's in-app inbox.
type InboxSink struct{ repo notify.Repository }

func NewInboxSink(repo notify.Repository) *InboxSink { return &InboxSink{repo: repo} }

func (s *InboxSink) Name() string { return "inbox" }

func (s *InboxSink) Deliver(ctx context.Context, userID uint64, m notify.Message) error {
	n := &notify.Notification{UserID: userID, Title: m.Title, Body: m.Body}
	if len(m.Data) > 0 {
		raw, err := json.Marshal(m.Data)
		if err != nil {
			return pkgerrors.Wrap(err, "encode notification data")
		}
		n.Data = string(raw)
	}
	return s.repo.CreateNotification(ctx, n)
}

// OutboxSink queues an e-mail to the user. Sending it is left to an
// external worker.
type OutboxSink struct {
	repo     notify.Repository
	users    user.Repository
	settings setting.Provider
}

func NewOutboxSink(repo notify.Repository, users user.Repository, settings setting.Provider) *OutboxSink {
	return &OutboxSink{repo: repo, users: users, settings: settings}
}

func (s *OutboxSink) Name() string { return "email_outbox" }

func (s *OutboxSink) Deliver(ctx context.Context, userID uint64, m notify.Message) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.Email == "" {
		return nil
	}
	from, err := s.settings.Get(ctx, setting.KeyDocumentFromEmail)
	if err != nil {
		return err
	}
	return s.repo.EnqueueEmail(ctx, &notify.OutboxEmail{
		Target:  u.Email,
		From:    from,
		Subject: m.Title,
		Body:    m.Body,
	})
}

// LogSink writes every message to the structured log.
type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Deliver(ctx context.Context, userID uint64, m notify.Message) error {
	logger.Info(ctx, "notify", zap.Uint64("user_id", userID), zap.String("title", m.Title), zap.Any("data", m.Data))
	return nil
}
