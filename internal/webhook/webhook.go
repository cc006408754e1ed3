package webhook

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/edupay-dz/edupay/internal/domain"
	"github.com/edupay-dz/edupay/internal/metrics"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

var ErrQueueFull = errors.New("webhook queue is full")

// Job is one raw delivery waiting for normalization and ledger processing.
type Job struct {
	Provider   string
	Payload    []byte
	ReceivedAt time.Time
}

type Normalizer interface {
	Normalize(provider string, raw []byte) (*domain.PaymentEvent, error)
}

type Processor interface {
	ProcessEvent(ctx context.Context, event *domain.PaymentEvent) (*domain.PaymentRecord, error)
}

// Notifier pushes parked events to an ops endpoint for manual review.
type Notifier interface {
	Post(url string, body []byte) (int, error)
}

// Service decouples provider-side timeout expectations from the ledger's
// transactional work: intake enqueues and returns, workers drain the queue.
type Service struct {
	queue      chan Job
	workers    int
	normalizer Normalizer
	processor  Processor
	notifier   Notifier
	opsURL     string
	backoff    time.Duration
}

func New(queueSize, workers int, normalizer Normalizer, processor Processor, notifier Notifier, opsURL string) *Service {
	return &Service{
		queue:      make(chan Job, queueSize),
		workers:    workers,
		normalizer: normalizer,
		processor:  processor,
		notifier:   notifier,
		opsURL:     opsURL,
		backoff:    retryInterval,
	}
}

// Enqueue never blocks the intake request; a full queue is surfaced so the
// endpoint can shed load.
func (s *Service) Enqueue(ctx context.Context, job Job) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case s.queue <- job:
		metrics.IncWebhookReceived(job.Provider)
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *Service) Start(ctx context.Context) error {
	zap.L().Info("webhook workers started", zap.Int("workers", s.workers))

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			return s.worker(ctx)
		})
	}
	return g.Wait()
}

func (s *Service) worker(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-s.queue:
			s.process(ctx, job)
		}
	}
}

func (s *Service) process(ctx context.Context, job Job) {
	event, err := s.normalizer.Normalize(job.Provider, job.Payload)
	if err != nil {
		// Untrusted or malformed deliveries are dropped, never retried.
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			metrics.IncWebhookRejected(job.Provider, "signature")
		case errors.Is(err, domain.ErrUnknownProvider):
			metrics.IncWebhookRejected(job.Provider, "unknown_provider")
		default:
			metrics.IncWebhookRejected(job.Provider, "validation")
		}
		zap.L().Warn("webhook event rejected",
			zap.String("provider", job.Provider),
			zap.Error(err))
		return
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		_, err = s.processor.ProcessEvent(ctx, event)
		if err == nil {
			return
		}
		if errors.Is(err, domain.ErrDuplicateEvent) {
			metrics.IncWebhookDuplicate(job.Provider)
			return
		}
		if errors.Is(err, domain.ErrValidation) {
			metrics.IncWebhookRejected(job.Provider, "validation")
			zap.L().Warn("webhook event invalid",
				zap.String("provider", job.Provider),
				zap.String("external_tx_id", event.ExternalTxID),
				zap.Error(err))
			return
		}

		if attempt < maxRetries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.backoff * time.Duration(attempt)):
			}
		}
	}

	s.park(job, err)
}

// park retains the full payload for replay: re-delivery through the intake
// endpoint is free thanks to the idempotent upsert.
func (s *Service) park(job Job, cause error) {
	metrics.IncWebhookParked(job.Provider)
	zap.L().Error("webhook event parked after retry budget",
		zap.String("provider", job.Provider),
		zap.ByteString("payload", job.Payload),
		zap.Error(cause))

	if s.opsURL == "" || s.notifier == nil {
		return
	}
	if _, err := s.notifier.Post(s.opsURL, job.Payload); err != nil {
		zap.L().Error("failed to notify ops about parked event", zap.Error(err))
	}
}
