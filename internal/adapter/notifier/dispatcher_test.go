package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"prestamos-backend/internal/domain/notify"
	"prestamos-backend/pkg/logger"
)

type recordingSink struct {
	name string
	err  error
	mu   sync.Mutex
	got  []notify.Message
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(ctx context.Context, _ uint64, m notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, m)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

type panicSink struct{}

func (panicSink) Name() string { return "panic" }
func (panicSink) Deliver(context.Context, uint64, notify.Message) error {
	panic("boom")
}

func TestDispatcher_FansOutToEverySink(t *testing.T) {
	ok := &recordingSink{name: "ok"}
	failing := &recordingSink{name: "failing", err: errors.New("smtp down")}
	d, err := NewDispatcher(16, time.Second, ok, failing, panicSink{})
	require.NoError(t, err)
	defer d.Close()

	for i := 0; i < 5; i++ {
		d.Notify(context.Background(), 1, notify.Message{Title: "t"})
	}
	d.Wait()

	require.Equal(t, 5, ok.count())
	require.Equal(t, 5, failing.count())
}

func TestDispatcher_OutlivesRequestContext(t *testing.T) {
	sink := &recordingSink{name: "ok"}
	d, err := NewDispatcher(1, time.Second, sink)
	require.NoError(t, err)
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, 1, notify.Message{Title: "t"})
	cancel()
	d.Wait()
	require.Equal(t, 1, sink.count())
}

type blockingSink struct {
	started chan struct{}
	release chan struct{}
}

func (s *blockingSink) Name() string { return "blocking" }

func (s *blockingSink) Deliver(ctx context.Context, _ uint64, _ notify.Message) error {
	s.started <- struct{}{}
	<-s.release
	return nil
}

func TestDispatcher_DropsWhenPoolIsBusy(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.L()
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(prev) })

	sink := &blockingSink{started: make(chan struct{}, 1), release: make(chan struct{})}
	d, err := NewDispatcher(1, time.Second, sink)
	require.NoError(t, err)
	defer d.Close()

	d.Notify(context.Background(), 1, notify.Message{Title: "first"})
	<-sink.started

	returned := make(chan struct{})
	go func() {
		d.Notify(context.Background(), 1, notify.Message{Title: "second"})
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		close(sink.release)
		t.Fatal("Notify blocked while the pool was busy")
	}

	close(sink.release)
	d.Wait()

	dropped := logs.FilterMessage("notifier: pool overloaded, message dropped").All()
	require.Len(t, dropped, 1)
	require.Equal(t, "second", dropped[0].ContextMap()["title"])
}
