package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"prestamos-backend/internal/usecase/installment"
	"prestamos-backend/pkg/logger"
)

type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, today time.Time) (*installment.SweepResult, error)
}

// OverdueSweepJob marks late installments as atrasado on a fixed interval.
// It sweeps once right after Start so a restart does not wait a full tick.
type OverdueSweepJob struct {
	uc       OverdueSweeper
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

func NewOverdueSweepJob(uc OverdueSweeper, interval time.Duration) *OverdueSweepJob {
	return &OverdueSweepJob{uc: uc, interval: interval, stop: make(chan struct{})}
}

// Start blocks until ctx is done or Stop is called. A non-positive
// interval disables the job.
func (j *OverdueSweepJob) Start(ctx context.Context) {
	if j.interval <= 0 {
		logger.Info(ctx, "overdue sweep job disabled")
		return
	}
	logger.Info(ctx, "overdue sweep job started", zap.Duration("interval", j.interval))

	j.run(ctx)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "overdue sweep job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "overdue sweep job stopped")
			return
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *OverdueSweepJob) Stop() { j.once.Do(func() { close(j.stop) }) }

func (j *OverdueSweepJob) run(ctx context.Context) {
	res, err := j.uc.SweepOverdue(ctx, time.Time{})
	if err != nil {
		updated := 0
		if res != nil {
			updated = res.Updated
		}
		logger.Error(ctx, "overdue sweep failed", zap.Int("updated_before_error", updated), zap.Error(err))
	}
}
