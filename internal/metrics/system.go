package metrics

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// SystemCollector periodically updates the uptime and goroutine gauges
type SystemCollector struct {
	metrics   *Metrics
	interval  time.Duration
	startTime time.Time

	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewSystemCollector creates a collector. interval 0 means 15s.
func NewSystemCollector(m *Metrics, interval time.Duration) *SystemCollector {
	if interval == 0 {
		interval = 15 * time.Second
	}
	return &SystemCollector{
		metrics:   m,
		interval:  interval,
		startTime: time.Now(),
		stopCh:    make(chan struct{}),
	}
}

// Start begins updating gauges in the background
func (c *SystemCollector) Start(ctx context.Context) {
	c.collect()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopCh:
				return
			case <-ticker.C:
				c.collect()
			}
		}
	}()
}

// Stop stops the collector
func (c *SystemCollector) Stop() {
	c.once.Do(func() { close(c.stopCh) })
	c.wg.Wait()
}

func (c *SystemCollector) collect() {
	c.metrics.UptimeSeconds.Set(time.Since(c.startTime).Seconds())
	c.metrics.Goroutines.Set(float64(runtime.NumGoroutine()))
}
