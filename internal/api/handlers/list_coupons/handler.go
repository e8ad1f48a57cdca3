package list_coupons

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/coupons"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service CouponService
	logger  Logger
}

func NewHandler(service CouponService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/coupons
// Query params: activeOnly (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /coupons - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	activeOnly := false
	if v := r.URL.Query().Get("activeOnly"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			h.logger.Warn("GET /coupons - Invalid activeOnly %q", v)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		activeOnly = parsed
	}

	result, err := h.service.List(r.Context(), actor, activeOnly)
	if err != nil {
		if errors.Is(err, coupons.ErrAccessDenied) {
			h.logger.Warn("GET /coupons - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("GET /coupons - Failed to list coupons: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /coupons - Coupons retrieved: count=%d", len(result.Coupons))
	handlers.RespondJSON(w, http.StatusOK, result.Coupons)
}
