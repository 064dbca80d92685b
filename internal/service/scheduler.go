package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ifuryst/beacon/internal/config"
	"github.com/ifuryst/beacon/internal/models"
)

// Janitor periodically closes lapsed job postings and purges expired sessions.
type Janitor struct {
	config *config.SchedulerConfig
	db     *gorm.DB
	auth   *AuthService
	logger *zap.Logger
	now    func() time.Time
	ticker *time.Ticker
	stopCh chan struct{}
}

func NewJanitor(cfg *config.SchedulerConfig, db *gorm.DB, auth *AuthService, logger *zap.Logger) *Janitor {
	return &Janitor{
		config: cfg,
		db:     db,
		auth:   auth,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		stopCh: make(chan struct{}),
	}
}

func (j *Janitor) Start(ctx context.Context) error {
	if !j.config.Enabled {
		j.logger.Info("Janitor is disabled")
		return nil
	}

	interval, err := time.ParseDuration(j.config.Interval)
	if err != nil {
		j.logger.Error("Invalid janitor interval", zap.String("interval", j.config.Interval), zap.Error(err))
		return err
	}

	j.logger.Info("Starting janitor", zap.String("interval", j.config.Interval))

	j.ticker = time.NewTicker(interval)

	go func() {
		j.runOnce(ctx)
		for {
			select {
			case <-j.ticker.C:
				j.runOnce(ctx)
			case <-j.stopCh:
				j.logger.Info("Janitor stopped")
				return
			case <-ctx.Done():
				j.logger.Info("Janitor context cancelled")
				return
			}
		}
	}()

	return nil
}

func (j *Janitor) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.stopCh)
	j.logger.Info("Janitor shutdown completed")
}

// RunOnce performs one sweep and reports what it changed.
func (j *Janitor) RunOnce(ctx context.Context) (closedJobs, purgedSessions int64, err error) {
	closedJobs, err = CloseExpiredJobs(ctx, j.db, j.now())
	if err != nil {
		return 0, 0, err
	}

	purgedSessions, err = j.auth.PurgeExpired(ctx)
	if err != nil {
		return closedJobs, 0, err
	}

	return closedJobs, purgedSessions, nil
}

func (j *Janitor) runOnce(ctx context.Context) {
	start := time.Now()
	closed, purged, err := j.RunOnce(ctx)
	duration := time.Since(start)

	if err != nil {
		j.logger.Error("Janitor sweep failed",
			zap.Error(err),
			zap.Duration("duration", duration))
		return
	}

	j.logger.Info("Janitor sweep completed",
		zap.Int64("closed_jobs", closed),
		zap.Int64("purged_sessions", purged),
		zap.Duration("duration", duration))
}

// CloseExpiredJobs moves open jobs whose expiry date has passed to closed.
func CloseExpiredJobs(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&models.Job{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", models.JobStatusOpen, now).
		Update("status", models.JobStatusClosed)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to close expired jobs: %w", res.Error)
	}
	return res.RowsAffected, nil
}
