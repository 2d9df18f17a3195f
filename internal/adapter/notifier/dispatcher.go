package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"prestamos-backend/internal/domain/notify"
	"prestamos-backend/pkg/logger"
)

// Sink is one delivery channel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, userID uint64, m notify.Message) error
}

// Dispatcher fans each message out to every sink on a bounded worker
// pool. It satisfies notify.Notifier.
type Dispatcher struct {
	pool    *ants.Pool
	sinks   []Sink
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ notify.Notifier = (*Dispatcher)(nil)

func NewDispatcher(size int, timeout time.Duration, sinks ...Sink) (*Dispatcher, error) {
	if size <= 0 {
		size = 1
	}
	pool, err := ants.NewPool(size,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p interface{}) {
			logger.L().Error("notifier: sink panic", zap.Any("panic", p))
		}))
	if err != nil {
		return nil, err
	}
	return &Dispatcher{pool: pool, sinks: sinks, timeout: timeout}, nil
}

// Notify never blocks on delivery and never reports failures. When every
// worker is busy the message is dropped for that sink and logged. The
// request context is detached so deliveries outlive the response.
func (d *Dispatcher) Notify(ctx context.Context, userID uint64, m notify.Message) {
	base := context.WithoutCancel(ctx)
	for _, s := range d.sinks {
		sink := s
		d.wg.Add(1)
		err := d.pool.Submit(func() {
			defer d.wg.Done()
			d.deliver(base, sink, userID, m)
		})
		if err == nil {
			continue
		}
		d.wg.Done()
		if errors.Is(err, ants.ErrPoolOverload) {
			logger.Warn(ctx, "notifier: pool overloaded, message dropped",
				zap.String("sink", sink.Name()),
				zap.Uint64("user_id", userID),
				zap.String("title", m.Title))
			continue
		}
		logger.Warn(ctx, "notifier: submit failed", zap.String("sink", sink.Name()), zap.Error(err))
	}
}

func (d *Dispatcher) deliver(ctx context.Context, s Sink, userID uint64, m notify.Message) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	if err := s.Deliver(ctx, userID, m); err != nil {
		logger.Warn(ctx, "notifier: delivery failed",
			zap.String("sink", s.Name()),
			zap.Uint64("user_id", userID),
			zap.String("title", m.Title),
			zap.Error(err))
	}
}

// Wait blocks until every submitted delivery finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Close drains pending deliveries and releases the pool.
func (d *Dispatcher) Close() {
	d.wg.Wait()
	d.pool.Release()
}
