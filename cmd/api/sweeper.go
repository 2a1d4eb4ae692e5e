package main

import (
	"context"
	"time"

	"github.com/gaonbazar/gaonbazar-backend/pkg/config"
	"github.com/gaonbazar/gaonbazar-backend/pkg/logger"
)

// idleSweeper drops per-session state nobody has touched within idle.
type idleSweeper interface {
	Sweep(idle time.Duration) int
}

// sweepIdleSessions evicts idle carts and conversations on every tick until ctx ends.
func sweepIdleSessions(ctx context.Context, cfg config.SessionConfig, logg *logger.Logger, sweepers map[string]idleSweeper) error {
	if cfg.IdleTTL <= 0 || cfg.SweepInterval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for name, sweeper := range sweepers {
				if closed := sweeper.Sweep(cfg.IdleTTL); closed > 0 && logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{"registry": name, "closed": closed})
					logg.Debug(logCtx, "sessions.swept")
				}
			}
		}
	}
}
