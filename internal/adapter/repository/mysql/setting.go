package mysql

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prestamos-backend/internal/domain/setting"
)

type SettingRepository struct{ db *gorm.DB }

func NewSettingRepository(db *gorm.DB) *SettingRepository { return &SettingRepository{db: db} }

func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	var rows []setting.Setting
	// struct conditions keep the reserved `key` column quoted
	res := r.db.WithContext(ctx).Where(&setting.Setting{Key: key}).Limit(1).Find(&rows)
	if res.Error != nil {
		return "", pkgerrors.Wrapf(res.Error, "get setting %s", key)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Value, nil
}

func (r *SettingRepository) Upsert(ctx context.Context, key, value string) error {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting.Setting{Key: key, Value: value})
	return pkgerrors.Wrapf(res.Error, "upsert setting %s", key)
}
