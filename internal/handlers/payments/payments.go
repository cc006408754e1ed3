package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edupay-dz/edupay/internal/domain"
	"github.com/edupay-dz/edupay/internal/dto"
	"github.com/edupay-dz/edupay/pkg/auth"
	"github.com/edupay-dz/edupay/pkg/utils"
)

type Service interface {
	RecordCash(ctx context.Context, userID int, amount float64, staffID int, reference string) (*domain.PaymentRecord, error)
	Approve(ctx context.Context, paymentID, staffID int) (*domain.PaymentRecord, error)
	Reject(ctx context.Context, paymentID, staffID int, reason string) (*domain.PaymentRecord, error)
	Cancel(ctx context.Context, paymentID, staffID int) (*domain.PaymentRecord, error)
	GetPayments(ctx context.Context, userID int) ([]domain.PaymentRecord, error)
}

type PaymentHandler struct {
	paymentService Service
}

func New(paymentService Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// RecordCash godoc
//
//	@Summary		Record a cash payment
//	@Description	Staff-entered cash is trusted and final: the payment record is created completed and the user balance credited synchronously.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CashPaymentRequestDTO	true	"Cash payment payload"
//	@Success		201		{object}	dto.PaymentResponseDTO		"Created payment record"
//	@Failure		400		{object}	utils.Response				"Invalid payload"
//	@Failure		401		{object}	utils.Response				"User not authorized"
//	@Failure		403		{object}	utils.Response				"Staff role required"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/payments/cash [post]
func (h *PaymentHandler) RecordCash(w http.ResponseWriter, r *http.Request) {
	staffID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.CashPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.paymentService.RecordCash(r.Context(), req.UserID, req.Amount, staffID, req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toPaymentDTO(record))
}

// Approve godoc
//
//	@Summary		Approve a pending payment
//	@Description	Moves a pending payment to completed and credits the user balance.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int						true	"Payment ID"
//	@Success		200	{object}	dto.PaymentResponseDTO	"Updated payment record"
//	@Failure		404	{object}	utils.Response			"Payment not found"
//	@Failure		409	{object}	utils.Response			"Payment is not pending"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/payments/{id}/approve [post]
func (h *PaymentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	staffID := r.Context().Value(auth.UserIDKey).(int)
	paymentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	record, err := h.paymentService.Approve(r.Context(), paymentID, staffID)
	if err != nil {
		respondTransitionError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toPaymentDTO(record))
}

// Reject godoc
//
//	@Summary		Reject a pending payment
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Payment ID"
//	@Param			request	body		dto.RejectPaymentRequestDTO	true	"Rejection reason"
//	@Success		200		{object}	dto.PaymentResponseDTO		"Updated payment record"
//	@Failure		404		{object}	utils.Response				"Payment not found"
//	@Failure		409		{object}	utils.Response				"Payment is not pending"
//	@Failure		500		{object}	utils.Response				"Internal server error"
//	@Router			/api/payments/{id}/reject [post]
func (h *PaymentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	staffID := r.Context().Value(auth.UserIDKey).(int)
	paymentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	var req dto.RejectPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.paymentService.Reject(r.Context(), paymentID, staffID, req.Reason)
	if err != nil {
		respondTransitionError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toPaymentDTO(record))
}

// Cancel godoc
//
//	@Summary		Cancel a pending payment
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int						true	"Payment ID"
//	@Success		200	{object}	dto.PaymentResponseDTO	"Updated payment record"
//	@Failure		404	{object}	utils.Response			"Payment not found"
//	@Failure		409	{object}	utils.Response			"Payment is not pending"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	staffID := r.Context().Value(auth.UserIDKey).(int)
	paymentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payment id")
		return
	}

	record, err := h.paymentService.Cancel(r.Context(), paymentID, staffID)
	if err != nil {
		respondTransitionError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toPaymentDTO(record))
}

// GetPayments godoc
//
//	@Summary		List payments of a user
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			user_id	query		int	true	"User ID"
//	@Success		200		{array}		dto.PaymentResponseDTO
//	@Success		204		{object}	utils.Response	"No payments found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/payments [get]
func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	payments, err := h.paymentService.GetPayments(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(payments) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "No payments found")
		return
	}

	response := make([]dto.PaymentResponseDTO, len(payments))
	for i, p := range payments {
		p := p
		response[i] = toPaymentDTO(&p)
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func respondTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStateConflict):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toPaymentDTO(p *domain.PaymentRecord) dto.PaymentResponseDTO {
	return dto.PaymentResponseDTO{
		ID:           p.ID,
		ExternalTxID: p.ExternalTxID,
		UserID:       p.UserID,
		Amount:       p.Amount,
		Currency:     p.Currency,
		Method:       p.Method,
		Status:       p.Status,
		Reference:    p.Reference,
		ProcessedBy:  p.ProcessedBy,
		ProcessedAt:  p.ProcessedAt,
		CreatedAt:    p.CreatedAt,
	}
}
