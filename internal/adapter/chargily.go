package adapter

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/edupay-dz/edupay/internal/domain"
)

var chargilyStatuses = map[string]string{
	"paid":       domain.EventStatusSuccess,
	"success":    domain.EventStatusSuccess,
	"failed":     domain.EventStatusFailed,
	"canceled":   domain.EventStatusFailed,
	"expired":    domain.EventStatusFailed,
	"pending":    domain.EventStatusPending,
	"processing": domain.EventStatusPending,
}

type chargilyPayload struct {
	ID              string      `json:"id"`
	CheckoutID      string      `json:"checkout_id"`
	Amount          json.Number `json:"amount"`
	Currency        string      `json:"currency"`
	Status          string      `json:"status"`
	ClientReference string      `json:"client_reference"`
	Signature       string      `json:"signature"`
}

// ChargilyAdapter validates HMAC-SHA256 over id+amount+status with the
// configured webhook secret.
type ChargilyAdapter struct {
	secret string
}

func NewChargilyAdapter(secret string) *ChargilyAdapter {
	return &ChargilyAdapter{secret: secret}
}

func (a *ChargilyAdapter) Normalize(raw []byte) (*domain.PaymentEvent, error) {
	var payload chargilyPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		zap.L().Warn("malformed chargily payload", zap.Error(err))
		return nil, domain.ErrValidation
	}
	if payload.ID == "" {
		return nil, domain.ErrValidation
	}

	message := payload.ID + payload.Amount.String() + payload.Status
	if !verifySignature(a.secret, message, payload.Signature) {
		zap.L().Warn("chargily signature mismatch", zap.String("transaction_id", payload.ID))
		return nil, domain.ErrInvalidSignature
	}

	amount, err := payload.Amount.Float64()
	if err != nil {
		return nil, domain.ErrValidation
	}
	userID, err := strconv.Atoi(payload.ClientReference)
	if err != nil {
		zap.L().Warn("chargily client reference is not a user id", zap.String("client_reference", payload.ClientReference))
		return nil, domain.ErrValidation
	}

	return &domain.PaymentEvent{
		ExternalTxID: payload.ID,
		OrderID:      payload.CheckoutID,
		Amount:       amount,
		Currency:     strings.ToUpper(payload.Currency),
		Status:       mapStatus("chargily", payload.Status, chargilyStatuses),
		StatusRaw:    payload.Status,
		UserID:       userID,
	}, nil
}
