package subscriptions

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/edupay-dz/edupay/internal/domain"
	"github.com/edupay-dz/edupay/internal/dto"
	"github.com/edupay-dz/edupay/internal/service/subscriptionservice"
	"github.com/edupay-dz/edupay/pkg/auth"
	"github.com/edupay-dz/edupay/pkg/utils"
)

type Service interface {
	Create(ctx context.Context, userID, teacherID, durationMonths int, req subscriptionservice.AccessRequest, paymentMethod string, amount float64) (*domain.Subscription, *domain.PaymentRecord, error)
	Extend(ctx context.Context, subscriptionID, durationMonths, staffID int) (*domain.Subscription, error)
	Cancel(ctx context.Context, subscriptionID, staffID int, reason string) (*domain.Subscription, error)
	ExpireLapsed(ctx context.Context) (int64, error)
}

type SubscriptionHandler struct {
	subscriptionService Service
}

func New(subscriptionService Service) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// Create godoc
//
//	@Summary		Purchase a subscription
//	@Description	Creates the subscription and its paired payment record together. Cash purchases start active; online purchases stay pending until the provider confirms payment.
//	@Tags			Subscriptions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateSubscriptionRequestDTO	true	"Purchase payload"
//	@Success		201		{object}	dto.PurchaseResponseDTO				"Subscription and payment pair"
//	@Failure		400		{object}	utils.Response						"Invalid payload"
//	@Failure		404		{object}	utils.Response						"Teacher not found"
//	@Failure		409		{object}	utils.Response						"Overlapping subscription exists"
//	@Failure		500		{object}	utils.Response						"Internal server error"
//	@Router			/api/subscriptions [post]
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.CreateSubscriptionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subscription, payment, err := h.subscriptionService.Create(
		r.Context(), userID, req.TeacherID, req.DurationMonths,
		subscriptionservice.AccessRequest{
			Videos:      req.VideosAccess,
			Lives:       req.LivesAccess,
			SchoolEntry: req.SchoolEntryAccess,
		},
		req.PaymentMethod, req.Amount,
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrConflict):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dto.PurchaseResponseDTO{
		Subscription: toSubscriptionDTO(subscription),
		Payment: dto.PaymentResponseDTO{
			ID:          payment.ID,
			UserID:      payment.UserID,
			Amount:      payment.Amount,
			Currency:    payment.Currency,
			Method:      payment.Method,
			Status:      payment.Status,
			Reference:   payment.Reference,
			ProcessedAt: payment.ProcessedAt,
			CreatedAt:   payment.CreatedAt,
		},
	})
}

// Extend godoc
//
//	@Summary		Extend a subscription
//	@Description	Pushes ends_at forward and reactivates the subscription.
//	@Tags			Subscriptions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int								true	"Subscription ID"
//	@Param			request	body		dto.ExtendSubscriptionRequestDTO	true	"Extension payload"
//	@Success		200		{object}	dto.SubscriptionResponseDTO		"Updated subscription"
//	@Failure		404		{object}	utils.Response					"Subscription not found"
//	@Failure		500		{object}	utils.Response					"Internal server error"
//	@Router			/api/subscriptions/{id}/extend [post]
func (h *SubscriptionHandler) Extend(w http.ResponseWriter, r *http.Request) {
	staffID := r.Context().Value(auth.UserIDKey).(int)
	subscriptionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	var req dto.ExtendSubscriptionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subscription, err := h.subscriptionService.Extend(r.Context(), subscriptionID, req.DurationMonths, staffID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toSubscriptionDTO(subscription))
}

// Cancel godoc
//
//	@Summary		Cancel a subscription
//	@Tags			Subscriptions
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int								true	"Subscription ID"
//	@Param			request	body		dto.CancelSubscriptionRequestDTO	true	"Cancellation payload"
//	@Success		200		{object}	dto.SubscriptionResponseDTO		"Updated subscription"
//	@Failure		404		{object}	utils.Response					"Subscription not found"
//	@Failure		409		{object}	utils.Response					"Already cancelled"
//	@Failure		500		{object}	utils.Response					"Internal server error"
//	@Router			/api/subscriptions/{id}/cancel [post]
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	staffID := r.Context().Value(auth.UserIDKey).(int)
	subscriptionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	var req dto.CancelSubscriptionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	subscription, err := h.subscriptionService.Cancel(r.Context(), subscriptionID, staffID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrConflict):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toSubscriptionDTO(subscription))
}

// Sweep godoc
//
//	@Summary		Run one expiration sweep pass
//	@Description	Demotes every active subscription whose window has closed. Idempotent; intended for an external scheduler.
//	@Tags			Subscriptions
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.SweepResponseDTO	"Number of demoted subscriptions"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/admin/sweep [post]
func (h *SubscriptionHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	expired, err := h.subscriptionService.ExpireLapsed(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.SweepResponseDTO{Expired: expired})
}

func toSubscriptionDTO(s *domain.Subscription) dto.SubscriptionResponseDTO {
	return dto.SubscriptionResponseDTO{
		ID:                s.ID,
		UserID:            s.UserID,
		TeacherID:         s.TeacherID,
		Amount:            s.Amount,
		VideosAccess:      s.VideosAccess,
		LivesAccess:       s.LivesAccess,
		SchoolEntryAccess: s.SchoolEntryAccess,
		StartsAt:          s.StartsAt,
		EndsAt:            s.EndsAt,
		ActivatedAt:       s.ActivatedAt,
		Status:            s.Status,
	}
}
