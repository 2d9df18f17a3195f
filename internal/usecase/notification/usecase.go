package notification

import (
	"context"

	"prestamos-backend/internal/domain/notify"
	"prestamos-backend/internal/domain/user"
)

const maxPage = 100

type Usecase struct{ repo notify.Repository }

func NewUsecase(r notify.Repository) *Usecase { return &Usecase{repo: r} }

// Inbox lists the actor's notifications, newest first.
func (u *Usecase) Inbox(ctx context.Context, actor user.Actor, limit, offset int) ([]notify.Notification, error) {
	if limit <= 0 || limit > maxPage {
		limit = maxPage
	}
	if offset < 0 {
		offset = 0
	}
	return u.repo.ListNotifications(ctx, actor.ID, limit, offset)
}
