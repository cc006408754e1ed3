package dto

import "time"

type CashPaymentRequestDTO struct {
	UserID    int     `json:"user_id" example:"42"`
	Amount    float64 `json:"amount" example:"1500"`
	Reference string  `json:"reference,omitempty" example:"CASH_A1B2C3D4"`
}

type RejectPaymentRequestDTO struct {
	Reason string `json:"reason" example:"amount mismatch"`
}

type PaymentResponseDTO struct {
	ID           int        `json:"id" example:"1"`
	ExternalTxID *string    `json:"external_transaction_id,omitempty"`
	UserID       int        `json:"user_id" example:"42"`
	Amount       float64    `json:"amount" example:"1500"`
	Currency     string     `json:"currency" example:"DZD"`
	Method       string     `json:"payment_method" example:"cash"`
	Status       string     `json:"status" example:"completed"`
	Reference    string     `json:"reference" example:"CASH_A1B2C3D4"`
	ProcessedBy  *int       `json:"processed_by,omitempty" example:"1"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
