package services

import (
	"context"
	"time"

	"vendora/pkg/logger"
)

// EscalationSweeper periodically promotes stale unassigned queue items.
type EscalationSweeper struct {
	moderation *ModerationService
	interval   time.Duration
	log        *logger.Logger
}

func NewEscalationSweeper(moderation *ModerationService, interval time.Duration, log *logger.Logger) *EscalationSweeper {
	return &EscalationSweeper{moderation: moderation, interval: interval, log: log}
}

func (s *EscalationSweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *EscalationSweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.moderation.EscalateStale(ctx)
			if err != nil {
				s.log.Errorf("escalation sweep: %s", err.Error())
				continue
			}
			if n > 0 {
				s.log.Infof("escalated %d stale queue items", n)
			}
		}
	}
}
