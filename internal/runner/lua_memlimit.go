package runner

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

// memoryMonitor watches process memory growth during a Lua run and
// cancels the run if the allocation delta exceeds the configured limit.
//
// gopher-lua has no per-VM memory tracking, so this uses runtime.MemStats
// as an approximation. The measurement is process-wide.
type memoryMonitor struct {
	limitBytes uint64
	baseline   uint64
	exceeded   atomic.Bool
}

// newMemoryMonitor returns nil (monitoring disabled) when maxMB <= 0.
func newMemoryMonitor(maxMB int) *memoryMonitor {
	if maxMB <= 0 {
		return nil
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	return &memoryMonitor{
		limitBytes: uint64(maxMB) * 1024 * 1024,
		baseline:   stats.Alloc,
	}
}

// watch polls memory until the returned stop function is called and
// calls kill once the limit is exceeded.
func (m *memoryMonitor) watch(ctx context.Context, kill context.CancelFunc, name string) (stop func()) {
	if m == nil {
		return func() {}
	}

	monCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-monCtx.Done():
				return
			case <-ticker.C:
				var stats runtime.MemStats
				runtime.ReadMemStats(&stats)

				delta := uint64(0)
				if stats.Alloc > m.baseline {
					delta = stats.Alloc - m.baseline
				}

				if delta > m.limitBytes {
					m.exceeded.Store(true)
					log.Warnf("memory limit exceeded for %s (delta=%dMB, limit=%dMB), stopping run",
						name, delta/(1024*1024), m.limitBytes/(1024*1024))
					kill()
					return
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (m *memoryMonitor) wasExceeded() bool {
	if m == nil {
		return false
	}
	return m.exceeded.Load()
}
