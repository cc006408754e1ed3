package adapter

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"go.uber.org/zap"

	"github.com/edupay-dz/edupay/internal/domain"
)

// ProviderAdapter normalizes one provider's webhook payload into the
// canonical PaymentEvent, validating provenance on the way.
type ProviderAdapter interface {
	Normalize(raw []byte) (*domain.PaymentEvent, error)
}

// Registry selects the adapter by the provider tag supplied at intake.
// Adding a provider means registering a new adapter, nothing downstream
// changes.
type Registry struct {
	adapters map[string]ProviderAdapter
}

// NewRegistry builds the production adapter set from per-provider secrets.
// The generic adapter is bound only to the literal "generic" tag; it skips
// signature validation and must never carry money-bearing production traffic.
func NewRegistry(secrets map[string]string) *Registry {
	r := &Registry{adapters: make(map[string]ProviderAdapter)}
	r.Register("chargily", NewChargilyAdapter(secrets["chargily"]))
	r.Register("satim", NewSatimAdapter(secrets["satim"]))
	r.Register("generic", NewGenericAdapter())
	return r
}

func (r *Registry) Register(tag string, adapter ProviderAdapter) {
	r.adapters[tag] = adapter
}

func (r *Registry) Normalize(provider string, raw []byte) (*domain.PaymentEvent, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		zap.L().Warn("webhook for unregistered provider", zap.String("provider", provider))
		return nil, domain.ErrUnknownProvider
	}

	event, err := adapter.Normalize(raw)
	if err != nil {
		return nil, err
	}
	event.Provider = provider
	event.Method = domain.PaymentMethodOnline
	event.Raw = raw
	return event, nil
}

func verifySignature(secret, message, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// mapStatus folds a provider vocabulary into the canonical set. Unrecognized
// values become pending with a warning, never silently dropped.
func mapStatus(provider, raw string, vocabulary map[string]string) string {
	if canonical, ok := vocabulary[raw]; ok {
		return canonical
	}
	zap.L().Warn("unrecognized provider status mapped to pending",
		zap.String("provider", provider),
		zap.String("status", raw))
	return domain.EventStatusPending
}
