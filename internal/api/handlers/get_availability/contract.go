package get_availability

import (
	"context"

	"github.com/m04kA/SMC-TherapyBookingService/internal/service/availability/models"
)

type AvailabilityService interface {
	GetResponse(ctx context.Context, therapistID int64) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
