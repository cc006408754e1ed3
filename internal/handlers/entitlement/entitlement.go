package entitlement

import (
	"context"
	"net/http"
	"strconv"

	"github.com/edupay-dz/edupay/internal/domain"
	"github.com/edupay-dz/edupay/internal/dto"
	"github.com/edupay-dz/edupay/pkg/auth"
	"github.com/edupay-dz/edupay/pkg/utils"
)

type Service interface {
	Resolve(ctx context.Context, user domain.User, content domain.ContentItem) (*domain.EntitlementDecision, error)
}

type EntitlementHandler struct {
	entitlementService Service
}

func New(entitlementService Service) *EntitlementHandler {
	return &EntitlementHandler{
		entitlementService: entitlementService,
	}
}

// Resolve godoc
//
//	@Summary		Resolve an entitlement
//	@Description	Answers whether the authenticated user may access the described content right now. Read-only; content-serving collaborators call this on every access check.
//	@Tags			Entitlement
//	@Security		BearerAuth
//	@Produce		json
//	@Param			teacher_id	query		int		true	"Teacher owning the content"
//	@Param			access		query		string	true	"Required access flag"	Enums(videos, lives, school_entry)
//	@Param			free		query		bool	false	"Content is free"
//	@Success		200			{object}	dto.EntitlementResponseDTO
//	@Failure		400			{object}	utils.Response	"Invalid query"
//	@Failure		401			{object}	utils.Response	"User not authorized"
//	@Failure		500			{object}	utils.Response	"Internal server error"
//	@Router			/api/entitlement [get]
func (h *EntitlementHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)
	role, _ := r.Context().Value(auth.RoleKey).(string)

	free := r.URL.Query().Get("free") == "true"
	teacherID, err := strconv.Atoi(r.URL.Query().Get("teacher_id"))
	if err != nil && !free {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid teacher id")
		return
	}

	decision, err := h.entitlementService.Resolve(r.Context(),
		domain.User{ID: userID, Role: role},
		domain.ContentItem{
			TeacherID:      teacherID,
			Free:           free,
			RequiredAccess: r.URL.Query().Get("access"),
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.EntitlementResponseDTO{
		Granted:    decision.Granted,
		AccessType: decision.AccessType,
		Reason:     decision.Reason,
	})
}
