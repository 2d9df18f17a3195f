package usermock

import (
	"context"

	domain "prestamos-backend/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                   func(ctx context.Context, u *domain.User) error
	GetByIDFn                  func(ctx context.Context, id uint64) (*domain.User, error)
	GetByUserIDFn              func(ctx context.Context, userID string) (*domain.User, error)
	GetByIDForUpdateFn         func(ctx context.Context, id uint64) (*domain.User, error)
	ListAdminsFn               func(ctx context.Context) ([]domain.User, error)
	AdvanceTierFn              func(ctx context.Context, id uint64) error
	UpdateDocumentStatusCodeFn func(ctx context.Context, id uint64, code int) error
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.User, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *Repo) ListAdmins(ctx context.Context) ([]domain.User, error) {
	if m.ListAdminsFn != nil {
		return m.ListAdminsFn(ctx)
	}
	return nil, nil
}

func (m *Repo) AdvanceTier(ctx context.Context, id uint64) error {
	if m.AdvanceTierFn != nil {
		return m.AdvanceTierFn(ctx, id)
	}
	return nil
}

func (m *Repo) UpdateDocumentStatusCode(ctx context.Context, id uint64, code int) error {
	if m.UpdateDocumentStatusCodeFn != nil {
		return m.UpdateDocumentStatusCodeFn(ctx, id, code)
	}
	return nil
}
