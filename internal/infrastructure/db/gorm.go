package db

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"prestamos-backend/internal/domain/approval"
	"prestamos-backend/internal/domain/installment"
	"prestamos-backend/internal/domain/loan"
	"prestamos-backend/internal/domain/notify"
	"prestamos-backend/internal/domain/option"
	"prestamos-backend/internal/domain/setting"
	"prestamos-backend/internal/domain/user"
	applog "prestamos-backend/pkg/logger"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

// OpenGormWithDialector opens, tunes the pool and pings.
func OpenGormWithDialector(d gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// surfaces gorm.ErrDuplicatedKey for unique index violations
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
	db, err := gorm.Open(d, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	applog.L().Info("gorm: connected", zap.String("dialect", d.Name()))
	return db, nil
}

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&user.User{},
		&option.LoanOption{},
		&loan.Loan{},
		&approval.Approval{},
		&installment.Installment{},
		&installment.Log{},
		&notify.Notification{},
		&notify.OutboxEmail{},
		&setting.Setting{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
