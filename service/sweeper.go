// file: service/sweeper.go

package service

import (
	"context"
	"go-blog-api/logger"
	"time"

	"github.com/robfig/cron/v3"
)

// LedgerSweeper periodically drops ledger entries whose tokens have expired.
type LedgerSweeper struct {
	ledger RevocationLedger
	cron   *cron.Cron
	now    func() time.Time
}

func NewLedgerSweeper(ledger RevocationLedger) *LedgerSweeper {
	return &LedgerSweeper{
		ledger: ledger,
		cron:   cron.New(),
		now:    time.Now,
	}
}

// SweepOnce removes expired entries and returns how many were dropped.
func (s *LedgerSweeper) SweepOnce(ctx context.Context) (int64, error) {
	removed, err := s.ledger.Sweep(ctx, s.now())
	if err != nil {
		logger.Log.WithError(err).Error("Revocation ledger sweep failed")
		return 0, err
	}
	logger.Log.WithField("removed", removed).Info("Revocation ledger sweep completed")
	return removed, nil
}

// Start schedules SweepOnce with a cron spec such as "@every 1h".
func (s *LedgerSweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.SweepOnce(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop waits for a running sweep to finish.
func (s *LedgerSweeper) Stop() {
	<-s.cron.Stop().Done()
}
