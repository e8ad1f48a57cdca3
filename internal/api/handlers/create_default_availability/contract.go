package create_default_availability

import (
	"context"

	"github.com/m04kA/SMC-TherapyBookingService/internal/service/availability/models"
)

type AvailabilityService interface {
	CreateDefault(ctx context.Context, req *models.CreateDefaultRequest) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
