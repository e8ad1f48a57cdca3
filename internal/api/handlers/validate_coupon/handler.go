package validate_coupon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/coupons"
)

const (
	msgInvalidPrice    = "некорректная цена"
	msgInvalidCode     = "некорректный код купона"
	msgNotFound        = "купон не найден"
	msgCouponNotUsable = "купон недействителен"
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

// Handle GET /api/v1/coupons/{code}/validate?price=
// Предварительный расчёт скидки, купон не расходуется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	price, err := strconv.ParseFloat(r.URL.Query().Get("price"), 64)
	if err != nil || price < 0 {
		h.logger.Warn("GET /coupons/{code}/validate - Invalid price %q", r.URL.Query().Get("price"))
		handlers.RespondBadRequest(w, msgInvalidPrice)
		return
	}

	result, err := h.service.Validate(r.Context(), code, price)
	if err != nil {
		switch {
		case errors.Is(err, coupons.ErrInvalidInput):
			h.logger.Warn("GET /coupons/{code}/validate - Invalid code %q", code)
			handlers.RespondBadRequest(w, msgInvalidCode)

		case errors.Is(err, coupons.ErrCouponNotFound):
			h.logger.Warn("GET /coupons/{code}/validate - Coupon not found: code=%s", code)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, coupons.ErrCouponNotUsable):
			h.logger.Warn("GET /coupons/{code}/validate - Coupon not usable: code=%s", code)
			handlers.RespondBadRequest(w, msgCouponNotUsable)

		default:
			h.logger.Error("GET /coupons/{code}/validate - Failed: code=%s, error=%v", code, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /coupons/{code}/validate - code=%s, discount=%.2f", result.Code, result.Discount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
