package adapter

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/edupay-dz/edupay/internal/domain"
)

var satimStatuses = map[string]string{
	"ACCEPTED": domain.EventStatusSuccess,
	"APPROVED": domain.EventStatusSuccess,
	"REJECTED": domain.EventStatusFailed,
	"DECLINED": domain.EventStatusFailed,
	"REVERSED": domain.EventStatusFailed,
	"CREATED":  domain.EventStatusPending,
}

type satimPayload struct {
	TransactionID string      `json:"transactionId"`
	OrderID       string      `json:"orderId"`
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	ActionCode    string      `json:"actionCode"`
	ClientID      string      `json:"clientId"`
	Signature     string      `json:"signature"`
}

// SatimAdapter validates HMAC-SHA256 over transactionId+orderId+amount.
type SatimAdapter struct {
	secret string
}

func NewSatimAdapter(secret string) *SatimAdapter {
	return &SatimAdapter{secret: secret}
}

func (a *SatimAdapter) Normalize(raw []byte) (*domain.PaymentEvent, error) {
	var payload satimPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		zap.L().Warn("malformed satim payload", zap.Error(err))
		return nil, domain.ErrValidation
	}
	if payload.TransactionID == "" {
		return nil, domain.ErrValidation
	}

	message := payload.TransactionID + payload.OrderID + payload.Amount.String()
	if !verifySignature(a.secret, message, payload.Signature) {
		zap.L().Warn("satim signature mismatch", zap.String("transaction_id", payload.TransactionID))
		return nil, domain.ErrInvalidSignature
	}

	amount, err := payload.Amount.Float64()
	if err != nil {
		return nil, domain.ErrValidation
	}
	userID, err := strconv.Atoi(payload.ClientID)
	if err != nil {
		zap.L().Warn("satim client id is not a user id", zap.String("client_id", payload.ClientID))
		return nil, domain.ErrValidation
	}

	currency := payload.Currency
	if currency == "" {
		currency = "DZD"
	}

	return &domain.PaymentEvent{
		ExternalTxID: payload.TransactionID,
		OrderID:      payload.OrderID,
		Amount:       amount,
		Currency:     strings.ToUpper(currency),
		Status:       mapStatus("satim", payload.ActionCode, satimStatuses),
		StatusRaw:    payload.ActionCode,
		UserID:       userID,
	}, nil
}
