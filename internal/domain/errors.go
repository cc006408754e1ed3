package domain

import "errors"

var (
	ErrValidation          = errors.New("invalid input")
	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrUnknownProvider     = errors.New("unknown payment provider")
	ErrDuplicateEvent      = errors.New("payment event already processed")
	ErrStateConflict       = errors.New("illegal payment state transition")
	ErrConflict            = errors.New("conflicting subscription exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotFound            = errors.New("entity not found")
)
