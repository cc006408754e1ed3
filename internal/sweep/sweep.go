package sweep

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Expirer interface {
	ExpireLapsed(ctx context.Context) (int64, error)
}

// Service periodically demotes lapsed subscriptions. Pure bookkeeping: access
// decisions re-check the time window and never depend on the sweep having
// run.
type Service struct {
	interval time.Duration
	expirer  Expirer
}

func New(interval time.Duration, expirer Expirer) *Service {
	if interval <= 0 {
		interval = time.Minute * 10
	}
	return &Service{
		interval: interval,
		expirer:  expirer,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("expiration sweep started", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("expiration sweep stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce is idempotent; running it twice in the same period finds nothing
// new the second time.
func (s *Service) RunOnce(ctx context.Context) int64 {
	n, err := s.expirer.ExpireLapsed(ctx)
	if err != nil {
		zap.L().Error("expiration sweep failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		zap.L().Info("expired lapsed subscriptions", zap.Int64("count", n))
	}
	return n
}
