package mysql

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prestamos-backend/internal/domain/user"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return pkgerrors.Wrap(r.db.WithContext(ctx).Create(u).Error, "create user")
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*user.User, error) {
	var out user.User
	if err := wrapFind(r.db.WithContext(ctx).First(&out, id).Error, "user", idKey(id)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	var out user.User
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	if err := wrapFind(res.Error, "user", userID); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*user.User, error) {
	var out user.User
	res := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&out, id)
	if err := wrapFind(res.Error, "user", idKey(id)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepository) ListAdmins(ctx context.Context) ([]user.User, error) {
	var out []user.User
	res := r.db.WithContext(ctx).Where("role = ?", user.RoleAdmin).Order("id ASC").Find(&out)
	return out, pkgerrors.Wrap(res.Error, "list admins")
}

// AdvanceTier is a single conditional increment, so it stays capped even
// without a row lock.
func (r *UserRepository) AdvanceTier(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ? AND tier < ?", id, user.TopTier).
		UpdateColumn("tier", gorm.Expr("tier + 1"))
	return pkgerrors.Wrap(res.Error, "advance tier")
}

func (r *UserRepository) UpdateDocumentStatusCode(ctx context.Context, id uint64, code int) error {
	res := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", id).
		Update("document_status_code", code)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "update document status code")
	}
	if res.RowsAffected == 0 {
		return wrapFind(gorm.ErrRecordNotFound, "user", idKey(id))
	}
	return nil
}
