package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"tutorlink.backend/pkg/logger"
)

const sweepBatchSize = 100

// reVerificationSweeper is satisfied by usecases.VerificationUsecase
type reVerificationSweeper interface {
	SweepDueReVerifications(ctx context.Context, batchSize int) (int, error)
}

// ReVerificationSweepJob reopens verified requests whose re-verification date has passed
type ReVerificationSweepJob struct {
	sweeper  reVerificationSweeper
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func NewReVerificationSweepJob(sweeper reVerificationSweeper, interval time.Duration) *ReVerificationSweepJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReVerificationSweepJob{
		sweeper:  sweeper,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *ReVerificationSweepJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting re-verification sweep job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Re-verification sweep job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Re-verification sweep job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *ReVerificationSweepJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

// sweep drains due requests batch by batch until a short batch comes back
func (j *ReVerificationSweepJob) sweep(ctx context.Context) {
	total := 0
	for {
		moved, err := j.sweeper.SweepDueReVerifications(ctx, sweepBatchSize)
		total += moved
		if err != nil {
			logger.Error(ctx, "Re-verification sweep failed", zap.Int("moved", total), zap.Error(err))
			return
		}
		if moved < sweepBatchSize || ctx.Err() != nil {
			break
		}
	}

	if total > 0 {
		logger.Info(ctx, "Re-verification sweep reopened requests", zap.Int("count", total))
	}
}
