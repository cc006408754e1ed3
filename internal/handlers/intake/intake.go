package intake

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edupay-dz/edupay/internal/webhook"
	"github.com/edupay-dz/edupay/pkg/utils"
)

type Queue interface {
	Enqueue(ctx context.Context, job webhook.Job) error
}

type IntakeHandler struct {
	queue Queue
}

func New(queue Queue) *IntakeHandler {
	return &IntakeHandler{
		queue: queue,
	}
}

// Receive godoc
//
//	@Summary		Receive a provider webhook
//	@Description	Fire-and-forget intake: the event is enqueued and 202 returned immediately. Payment outcome is never reported synchronously; provenance is validated asynchronously by the provider adapter.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			provider	path		string			true	"Provider tag"
//	@Param			payload		body		string			true	"Raw provider payload"
//	@Success		202			{object}	utils.Response	"Accepted for processing"
//	@Failure		400			{object}	utils.Response	"Empty body"
//	@Failure		503			{object}	utils.Response	"Queue is full"
//	@Router			/api/payments/webhook/{provider} [post]
func (h *IntakeHandler) Receive(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "empty payload")
		return
	}

	err = h.queue.Enqueue(r.Context(), webhook.Job{
		Provider:   provider,
		Payload:    body,
		ReceivedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, webhook.ErrQueueFull) {
			utils.RespondWithError(w, http.StatusServiceUnavailable, "try again later")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusAccepted, utils.Response{Message: "accepted"})
}
