package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edupay_webhook_events_received_total",
		Help: "Webhook events accepted at intake, by provider tag.",
	}, []string{"provider"})

	webhookRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edupay_webhook_events_rejected_total",
		Help: "Webhook events dropped before the ledger, by reason.",
	}, []string{"provider", "reason"})

	webhookParked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edupay_webhook_events_parked_total",
		Help: "Webhook events that exhausted the retry budget.",
	}, []string{"provider"})

	webhookDuplicate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "edupay_webhook_events_duplicate_total",
		Help: "Webhook events resolved as idempotent no-ops.",
	}, []string{"provider"})

	paymentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edupay_payments_completed_total",
		Help: "Payments that reached the completed status.",
	})

	subscriptionsActivated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edupay_subscriptions_activated_total",
		Help: "Pending subscriptions activated from balance.",
	})

	subscriptionsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "edupay_subscriptions_expired_total",
		Help: "Subscriptions demoted by the expiration sweep.",
	})
)

func IncWebhookReceived(provider string) {
	webhookReceived.WithLabelValues(provider).Inc()
}

func IncWebhookRejected(provider, reason string) {
	webhookRejected.WithLabelValues(provider, reason).Inc()
}

func IncWebhookParked(provider string) {
	webhookParked.WithLabelValues(provider).Inc()
}

func IncWebhookDuplicate(provider string) {
	webhookDuplicate.WithLabelValues(provider).Inc()
}

func IncPaymentsCompleted() {
	paymentsCompleted.Inc()
}

func IncSubscriptionsActivated(n int) {
	subscriptionsActivated.Add(float64(n))
}

func IncSubscriptionsExpired(n int64) {
	subscriptionsExpired.Add(float64(n))
}
