package validate_coupon

import (
	"context"

	"github.com/m04kA/SMC-TherapyBookingService/internal/service/coupons/models"
)

type CouponService interface {
	Validate(ctx context.Context, code string, price float64) (*models.ValidateResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
