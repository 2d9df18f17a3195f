package mysql

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"prestamos-backend/internal/domain/option"
)

type OptionRepository struct{ db *gorm.DB }

func NewOptionRepository(db *gorm.DB) *OptionRepository { return &OptionRepository{db: db} }

func (r *OptionRepository) List(ctx context.Context) ([]option.LoanOption, error) {
	var out []option.LoanOption
	res := r.db.WithContext(ctx).Order("min_amount ASC, id ASC").Find(&out)
	return out, pkgerrors.Wrap(res.Error, "list loan options")
}

func (r *OptionRepository) GetByID(ctx context.Context, id uint64) (*option.LoanOption, error) {
	var out option.LoanOption
	if err := wrapFind(r.db.WithContext(ctx).First(&out, id).Error, "loan option", idKey(id)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *OptionRepository) Create(ctx context.Context, o *option.LoanOption) error {
	return pkgerrors.Wrap(r.db.WithContext(ctx).Create(o).Error, "create loan option")
}
