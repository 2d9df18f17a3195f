// Package app wires repositories, usecases and the echo server.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "prestamos-backend/internal/adapter/http"
	"prestamos-backend/internal/adapter/middleware"
	"prestamos-backend/internal/adapter/notifier"
	"prestamos-backend/internal/adapter/repository/mysql"
	"prestamos-backend/internal/adapter/settings"
	"prestamos-backend/internal/infrastructure/metrics"
	"prestamos-backend/internal/usecase/approval"
	"prestamos-backend/internal/usecase/document"
	"prestamos-backend/internal/usecase/installment"
	"prestamos-backend/internal/usecase/loan"
	"prestamos-backend/internal/usecase/notification"
	"prestamos-backend/internal/usecase/schedule"
	"prestamos-backend/internal/usecase/settlement"
	"prestamos-backend/pkg/logger"
)

type Options struct {
	IdempotencyTTL   time.Duration
	SettingsCacheTTL time.Duration
	NotifierPoolSize int
	RequestTimeout   time.Duration
	// BodyLimit uses echo's notation, e.g. "12M".
	BodyLimit string
	// Registry backs /metrics; nil gets a fresh one.
	Registry *prometheus.Registry
}

type App struct {
	Echo         *echo.Echo
	Installments *installment.Usecase
	Notifier     *notifier.Dispatcher
}

func New(gdb *gorm.DB, rdb *redis.Client, opt Options) (*App, error) {
	if opt.Registry == nil {
		opt.Registry = prometheus.NewRegistry()
	}
	if opt.NotifierPoolSize <= 0 {
		opt.NotifierPoolSize = 8
	}
	if opt.BodyLimit == "" {
		opt.BodyLimit = "12M"
	}
	m := metrics.New(opt.Registry)

	loans := mysql.NewLoanRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	rows := mysql.NewInstallmentRepository(gdb)
	outbox := mysql.NewNotificationRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	provider := settings.NewCachedProvider(mysql.NewSettingRepository(gdb), rdb, opt.SettingsCacheTTL)

	disp, err := notifier.NewDispatcher(opt.NotifierPoolSize, 5*time.Second,
		notifier.NewInboxSink(outbox),
		notifier.NewOutboxSink(outbox, users, provider),
		notifier.LogSink{},
	)
	if err != nil {
		return nil, err
	}

	instUC := installment.NewUsecase(installment.Deps{
		UoW:          tx,
		Installments: rows,
		Loans:        loans,
		Users:        users,
		Audit:        mysql.NewAuditRepository(gdb),
		Notifier:     disp,
		Metrics:      m,
	})
	h := httpadp.Handlers{
		Health: httpadp.NewHandler(
			httpadp.Check{Name: "mysql", Ping: func(ctx context.Context) error {
				sqlDB, err := gdb.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}},
			httpadp.Check{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		),
		Loans: httpadp.NewLoanHandler(
			loan.NewUsecase(loans, users, mysql.NewOptionRepository(gdb), disp),
			settlement.NewUsecase(loans, rows),
		),
		Approvals:     httpadp.NewApprovalHandler(approval.NewUsecase(tx, disp, m)),
		Installments:  httpadp.NewInstallmentHandler(instUC, schedule.NewUsecase(tx, m)),
		Documents:     httpadp.NewDocumentHandler(document.NewUsecase(tx, users, outbox, provider, disp)),
		Settings:      httpadp.NewSettingsHandler(provider),
		Notifications: httpadp.NewNotificationHandler(notification.NewUsecase(outbox)),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		echomw.Recover(),
		echomw.RequestID(),
		requestContext,
		echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
			LogURI:       true,
			LogStatus:    true,
			LogMethod:    true,
			LogLatency:   true,
			LogRequestID: true,
			LogError:     true,
			LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
				fields := []zap.Field{
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Duration("latency", v.Latency),
				}
				if v.Error != nil {
					fields = append(fields, zap.Error(v.Error))
				}
				logger.Info(c.Request().Context(), "http request", fields...)
				return nil
			},
		}),
		echomw.BodyLimit(opt.BodyLimit),
	)
	if opt.RequestTimeout > 0 {
		e.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{Timeout: opt.RequestTimeout}))
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opt.Registry, promhttp.HandlerOpts{})))

	httpadp.Register(e, h,
		middleware.ActorMiddleware(users),
		middleware.IdempotencyMiddleware(rdb, opt.IdempotencyTTL),
	)
	return &App{Echo: e, Installments: instUC, Notifier: disp}, nil
}

// Shutdown stops the server and drains pending notifications.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	if err == http.ErrServerClosed {
		err = nil
	}
	a.Notifier.Close()
	return err
}

// requestContext carries echo's request id into the context so the
// logger helpers can attach it.
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		if rid != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), rid)))
		}
		return next(c)
	}
}
