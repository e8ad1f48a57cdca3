package deactivate_coupon

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/coupons"
)

const (
	msgInvalidCouponID = "некорректный ID купона"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgForbidden       = "доступ запрещен"
	msgNotFound        = "купон не найден"
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

// Handle PATCH /api/v1/coupons/{couponId}/deactivate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	couponID, err := handlers.PathInt64(r, "couponId")
	if err != nil {
		h.logger.Warn("PATCH /coupons/{id}/deactivate - Invalid coupon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCouponID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /coupons/{id}/deactivate - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.Deactivate(r.Context(), actor, couponID); err != nil {
		switch {
		case errors.Is(err, coupons.ErrAccessDenied):
			h.logger.Warn("PATCH /coupons/{id}/deactivate - Access denied: user_id=%d", actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, coupons.ErrCouponNotFound):
			h.logger.Warn("PATCH /coupons/{id}/deactivate - Coupon not found: id=%d", couponID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PATCH /coupons/{id}/deactivate - Failed: id=%d, error=%v", couponID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /coupons/{id}/deactivate - Coupon deactivated: id=%d", couponID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
