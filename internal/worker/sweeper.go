package worker

import (
	"context"
	"log/slog"
	"time"

	"parking-reservation/internal/pkg/config"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/shared"

	"golang.org/x/sync/errgroup"
)

// only one replica sweeps per interval
const sweeperLockKey = "reservation:sweeper"

type Report struct {
	ExpiredReservations int
	FailedReservations  int
	ExpiredCoupons      int64
	RemovedWaitlists    int
}

// Sweeper periodically expires unpaid reservations and due coupons and drops
// waitlists whose window has passed.
type Sweeper struct {
	expiry commands.ExpiryCommands
	locker shared.Locker
	cfg    config.SweeperConfig
	logger *slog.Logger
}

func NewSweeper(expiry commands.ExpiryCommands, locker shared.Locker, cfg config.SweeperConfig, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		expiry: expiry,
		locker: locker,
		cfg:    cfg,
		logger: logger,
	}
}

// Run blocks until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("sweeper started", "interval", s.cfg.Interval.String(), "initial_delay", s.cfg.InitialDelay.String())

	delay := time.NewTimer(s.cfg.InitialDelay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		s.logger.Info("sweeper stopped")
		return
	case <-delay.C:
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	started := time.Now()
	report, ran, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "error", err.Error())
		return
	}
	if !ran {
		s.logger.Debug("sweep skipped, another instance holds the sweeper lock")
		return
	}
	s.logger.Info("sweep finished",
		"expired_reservations", report.ExpiredReservations,
		"failed_reservations", report.FailedReservations,
		"expired_coupons", report.ExpiredCoupons,
		"removed_waitlists", report.RemovedWaitlists,
		"elapsed_ms", time.Since(started).Milliseconds())
}

// RunOnce performs one sweep. ran is false when another instance is already sweeping.
// The three passes are independent; a failing pass does not stop the others.
func (s *Sweeper) RunOnce(ctx context.Context) (report Report, ran bool, err error) {
	token, ok, err := s.locker.TryAcquire(ctx, sweeperLockKey, s.lockTTL())
	if err != nil {
		return Report{}, false, err
	}
	if !ok {
		return Report{}, false, nil
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if relErr := s.locker.Release(releaseCtx, sweeperLockKey, token); relErr != nil {
			s.logger.Warn("failed to release sweeper lock", "error", relErr.Error())
		}
	}()

	var g errgroup.Group
	g.Go(func() error {
		res, err := s.expiry.ExpireStalePending(ctx)
		report.ExpiredReservations = res.Expired
		report.FailedReservations = res.Failed
		if err != nil {
			s.logger.Error("pending expiry pass failed", "error", err.Error())
		}
		return err
	})
	g.Go(func() error {
		n, err := s.expiry.ExpireDueCoupons(ctx)
		report.ExpiredCoupons = n
		if err != nil {
			s.logger.Error("coupon expiry pass failed", "error", err.Error())
		}
		return err
	})
	g.Go(func() error {
		n, err := s.expiry.CleanupWaitlists(ctx)
		report.RemovedWaitlists = n
		if err != nil {
			s.logger.Error("waitlist cleanup pass failed", "error", err.Error())
		}
		return err
	})

	err = g.Wait()
	return report, true, err
}

func (s *Sweeper) lockTTL() time.Duration {
	if s.cfg.Interval > 0 {
		return s.cfg.Interval
	}
	return time.Minute
}
