package document

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "prestamos-backend/internal/domain/document"
	"prestamos-backend/internal/domain/errs"
	"prestamos-backend/internal/domain/notify"
	"prestamos-backend/internal/domain/setting"
	"prestamos-backend/internal/domain/uow"
	"prestamos-backend/internal/domain/user"
	"prestamos-backend/pkg/logger"
)

type StatusDTO struct {
	Code  int                          `json:"code"`
	Slots map[domain.Slot]domain.State `json:"slots"`
}

type Usecase struct {
	uow      uow.UnitOfWork
	users    user.Repository
	outbox   notify.Repository
	settings setting.Provider
	notifier notify.Notifier
}

func NewUsecase(tx uow.UnitOfWork, users user.Repository, outbox notify.Repository, settings setting.Provider, n notify.Notifier) *Usecase {
	return &Usecase{uow: tx, users: users, outbox: outbox, settings: settings, notifier: n}
}

// Target resolves whose documents a request addresses. An empty publicID
// means the actor; only admins may name someone else.
func (u *Usecase) Target(ctx context.Context, actor user.Actor, publicID string) (uint64, error) {
	if publicID == "" {
		return actor.ID, nil
	}
	usr, err := u.users.GetByUserID(ctx, publicID)
	if err != nil {
		return 0, err
	}
	if !actor.CanAccess(usr.ID) {
		return 0, errs.Forbidden("documents belong to another user")
	}
	return usr.ID, nil
}

func (u *Usecase) Status(ctx context.Context, userID uint64) (*StatusDTO, error) {
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toStatus(usr.DocumentStatusCode)
}

// SetSlot rewrites one slot of the user's code with the row locked. An
// unchanged code is not written again.
func (u *Usecase) SetSlot(ctx context.Context, userID uint64, slot, state string) (*StatusDTO, error) {
	s, err := domain.ParseSlot(slot)
	if err != nil {
		return nil, err
	}
	st, err := domain.ParseState(state)
	if err != nil {
		return nil, err
	}

	var code int
	changed := false
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		code, err = domain.Encode(usr.DocumentStatusCode, s, st)
		if err != nil {
			return err
		}
		if code == usr.DocumentStatusCode {
			return nil
		}
		changed = true
		return r.Users.UpdateDocumentStatusCode(ctx, userID, code)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		logger.Info(ctx, "documents: slot updated",
			zap.Uint64("user_id", userID), zap.String("slot", string(s)),
			zap.String("state", string(st)), zap.Int("code", code))
		if u.notifier != nil {
			u.notifier.Notify(ctx, userID, notify.Message{
				Title: "Estado de documentos",
				Body:  "Se actualizó el estado de tus documentos.",
				Data:  map[string]any{"slot": string(s), "state": string(st), "code": code},
			})
		}
	}
	return toStatus(code)
}

// MarkUploaded records a borrower upload and asks the back office to
// review it by e-mail.
func (u *Usecase) MarkUploaded(ctx context.Context, userID uint64, slot string) (*StatusDTO, error) {
	dto, err := u.SetSlot(ctx, userID, slot, string(domain.StateEnviado))
	if err != nil {
		return nil, err
	}
	u.enqueueReview(ctx, userID, slot)
	return dto, nil
}

func (u *Usecase) enqueueReview(ctx context.Context, userID uint64, slot string) {
	if u.outbox == nil || u.settings == nil {
		return
	}
	target, err := u.settings.Get(ctx, setting.KeyDocumentTargetEmail)
	if err != nil || target == "" {
		logger.Warn(ctx, "documents: no review target configured", zap.Error(err))
		return
	}
	from, err := u.settings.Get(ctx, setting.KeyDocumentFromEmail)
	if err != nil {
		logger.Warn(ctx, "documents: read from address failed", zap.Error(err))
	}
	usr, err := u.users.GetByID(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "documents: load user failed", zap.Error(err))
		return
	}
	mail := &notify.OutboxEmail{
		Target:  target,
		From:    from,
		Subject: fmt.Sprintf("Documento %s enviado por %s", slot, usr.Name),
		Body:    fmt.Sprintf("El usuario %s (%s) envió el documento %s para revisión.", usr.Name, usr.Email, slot),
	}
	if err := u.outbox.EnqueueEmail(ctx, mail); err != nil {
		logger.Warn(ctx, "documents: enqueue review email failed", zap.Error(err))
	}
}

func toStatus(code int) (*StatusDTO, error) {
	slots, err := domain.Decode(code)
	if err != nil {
		return nil, err
	}
	return &StatusDTO{Code: code, Slots: slots}, nil
}
