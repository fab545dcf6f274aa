package job

import (
	"context"
	"sync"
	"time"

	"github.com/NMHx2005/lms-backend-sub006/internal/infrastructure/cache"
	"github.com/NMHx2005/lms-backend-sub006/internal/usecase"

	"go.uber.org/zap"
)

const reconciliationLockKey = "lock:cron_job:payment_reconciliation"

// ReconciliationJob sweeps expired PENDING payments. One instance runs at a
// time across the fleet; the others skip the tick.
type ReconciliationJob struct {
	uc        usecase.IReconciliationUseCase
	locker    cache.Locker
	key       string
	lockTTL   time.Duration
	log       *zap.Logger
	localLock sync.Mutex
}

var _ Job = (*ReconciliationJob)(nil)

func NewReconciliationJob(uc usecase.IReconciliationUseCase, locker cache.Locker, lockTTL time.Duration, log *zap.Logger) *ReconciliationJob {
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ReconciliationJob{
		uc:      uc,
		locker:  locker,
		key:     reconciliationLockKey,
		lockTTL: lockTTL,
		log:     log,
	}
}

func (j *ReconciliationJob) Name() string { return "payment_reconciliation" }

// Run bounds the sweep by the lock TTL so the lock never expires under a
// running sweep.
func (j *ReconciliationJob) Run() error {
	if !j.localLock.TryLock() {
		j.log.Info("[payment][job] previous sweep still running, skipping tick")
		return nil
	}
	defer j.localLock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), j.lockTTL)
	defer cancel()

	unlock, ok, err := j.locker.TryLock(ctx, j.key, j.lockTTL)
	if err != nil {
		return err
	}
	if !ok {
		j.log.Debug("[payment][job] sweep lock held by another instance")
		return nil
	}
	defer func() {
		uctx, ucancel := context.WithTimeout(context.Background(), time.Second)
		defer ucancel()
		if err := unlock(uctx); err != nil {
			j.log.Warn("[payment][job] release sweep lock failed", zap.Error(err))
		}
	}()

	sum, err := j.uc.SweepExpired(ctx)
	if err != nil {
		return err
	}
	if sum.Discrepancies > 0 {
		j.log.Warn("[payment][job] sweep found discrepancies",
			zap.Int("checked", sum.Checked),
			zap.Int("discrepancies", sum.Discrepancies))
	}
	return nil
}
