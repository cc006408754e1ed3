package adapter

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/edupay-dz/edupay/internal/domain"
)

var genericStatuses = map[string]string{
	"success":   domain.EventStatusSuccess,
	"completed": domain.EventStatusSuccess,
	"paid":      domain.EventStatusSuccess,
	"failed":    domain.EventStatusFailed,
	"declined":  domain.EventStatusFailed,
	"pending":   domain.EventStatusPending,
}

type genericPayload struct {
	TransactionID string      `json:"transaction_id"`
	TxID          string      `json:"tx_id"`
	OrderID       string      `json:"order_id"`
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	Status        string      `json:"status"`
	UserID        json.Number `json:"user_id"`
}

// GenericAdapter performs best-effort field extraction with NO signature
// validation. It exists for trusted internal testing paths only and must not
// be routed money-bearing production traffic.
type GenericAdapter struct{}

func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

func (a *GenericAdapter) Normalize(raw []byte) (*domain.PaymentEvent, error) {
	var payload genericPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		zap.L().Warn("malformed generic payload", zap.Error(err))
		return nil, domain.ErrValidation
	}

	txID := payload.TransactionID
	if txID == "" {
		txID = payload.TxID
	}
	if txID == "" {
		return nil, domain.ErrValidation
	}

	amount, err := payload.Amount.Float64()
	if err != nil {
		return nil, domain.ErrValidation
	}
	userID, err := strconv.Atoi(payload.UserID.String())
	if err != nil {
		return nil, domain.ErrValidation
	}

	currency := payload.Currency
	if currency == "" {
		currency = "DZD"
	}

	status := strings.ToLower(payload.Status)
	return &domain.PaymentEvent{
		ExternalTxID: txID,
		OrderID:      payload.OrderID,
		Amount:       amount,
		Currency:     strings.ToUpper(currency),
		Status:       mapStatus("generic", status, genericStatuses),
		StatusRaw:    payload.Status,
		UserID:       userID,
	}, nil
}
