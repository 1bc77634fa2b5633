package helper

import (
	"context"
	"sync"
	"time"
)

// DrainTimeout сколько итерация может доделываться после Stop.
// Должно быть меньше таймаута OnStop у fx (15s).
const DrainTimeout = 10 * time.Second

// Loop фоновая горутина со своим ctx: fx-шный ctx из OnStart живёт
// только до конца старта, поэтому цикл на нём держать нельзя.
type Loop struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Start запускает run. Повторный Start до Stop игнорируется.
func (l *Loop) Start(run func(ctx context.Context)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		run(ctx)
	}()
}

// Stop отменяет ctx и ждёт завершения текущей итерации.
// Саму итерацию цикл ведёт на ctx из Detach, иначе она оборвётся на полпути.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.cancel = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	l.wg.Wait()
}

// Detach ctx для работы одной итерации: не отменяется вместе с parent,
// а доживает ещё grace после его отмены.
func Detach(parent context.Context, grace time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	stop := context.AfterFunc(parent, func() {
		mu.Lock()
		timer = time.AfterFunc(grace, cancel)
		mu.Unlock()
	})
	return ctx, func() {
		stop()
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		cancel()
	}
}
