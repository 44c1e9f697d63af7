package draft

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/foxzi/lexdraft/internal/metrics"
)

// CleanerConfig contains retention settings for generated drafts
type CleanerConfig struct {
	MaxAge   time.Duration
	Interval time.Duration
}

// Cleaner periodically expires old drafts and deletes their files
type Cleaner struct {
	store  Store
	cfg    CleanerConfig
	logger *slog.Logger
	wg     sync.WaitGroup
	done   chan struct{}
}

// NewCleaner creates a new cleaner for store
func NewCleaner(store Store, cfg CleanerConfig, logger *slog.Logger) *Cleaner {
	return &Cleaner{
		store:  store,
		cfg:    cfg,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start starts the cleanup goroutine. It does nothing when retention is disabled.
func (c *Cleaner) Start(ctx context.Context) {
	if c.cfg.MaxAge <= 0 || c.cfg.Interval <= 0 {
		return
	}

	c.wg.Add(1)
	go c.loop(ctx)

	c.logger.Info("draft cleaner started",
		"max_age", c.cfg.MaxAge,
		"interval", c.cfg.Interval,
	)
}

// Stop stops the cleaner and waits for the goroutine to finish
func (c *Cleaner) Stop() {
	select {
	case <-c.done:
		return
	default:
	}
	close(c.done)
	c.wg.Wait()
}

func (c *Cleaner) loop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-ticker.C:
			c.RunOnce(ctx)
		}
	}
}

// RunOnce expires drafts older than MaxAge and returns how many were removed
func (c *Cleaner) RunOnce(ctx context.Context) int {
	if c.cfg.MaxAge <= 0 {
		return 0
	}

	expired, err := c.store.Expire(ctx, c.cfg.MaxAge)
	if err != nil {
		c.logger.Error("failed to expire drafts", "error", err)
		return 0
	}

	for _, d := range expired {
		if err := os.Remove(d.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("failed to remove draft file", "id", d.ID, "path", d.Path, "error", err)
		}
	}

	metrics.AddDraftsExpired(len(expired))
	if len(expired) > 0 {
		c.logger.Info("cleaned up drafts", "deleted", len(expired))
	}
	return len(expired)
}
