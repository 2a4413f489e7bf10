// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/yukikurage/vcc-collab-api/internal/logger"
	"go.uber.org/zap"
)

const badgeSweepJob = "badge-sweep"

// Sweeper recomputes derived user state in bulk.
type Sweeper interface {
	SweepAll(ctx context.Context) (int, error)
}

// Manager owns the gocron scheduler.
type Manager struct {
	scheduler gocron.Scheduler
	ctx       context.Context
	cancel    context.CancelFunc
	log       *zap.Logger
}

// NewManager creates a stopped Manager.
func NewManager() (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		scheduler: s,
		ctx:       ctx,
		cancel:    cancel,
		log:       logger.Named("scheduler"),
	}, nil
}

// RegisterBadgeSweep runs sweeper every interval. A run still in progress
// when the next one is due causes that one to be skipped.
func (m *Manager) RegisterBadgeSweep(sweeper Sweeper, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid badge sweep interval %s", interval)
	}
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			started := time.Now()
			changed, err := sweeper.SweepAll(m.ctx)
			if err != nil {
				m.log.Error("badge sweep failed", zap.Error(err))
				return
			}
			m.log.Info("badge sweep finished",
				zap.Int("changed", changed),
				zap.Duration("took", time.Since(started)))
		}),
		gocron.WithName(badgeSweepJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", badgeSweepJob, err)
	}
	return nil
}

// Start begins running the registered jobs.
func (m *Manager) Start() {
	m.scheduler.Start()
	m.log.Info("scheduler started", zap.Int("jobs", len(m.scheduler.Jobs())))
}

// Stop cancels running jobs and waits for the scheduler to shut down.
func (m *Manager) Stop() error {
	m.cancel()
	if err := m.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	m.log.Info("scheduler stopped")
	return nil
}
