package create_default_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/availability"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/availability/models"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/therapists/{therapistId}/availability/default
// Онбординг: сохраняет расписание по умолчанию (пн-пт 09:00-17:00)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	therapistID, err := handlers.PathInt64(r, "therapistId")
	if err != nil {
		h.logger.Warn("POST /therapists/{id}/availability/default - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /therapists/{id}/availability/default - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.CreateDefault(r.Context(), &models.CreateDefaultRequest{
		Actor:       actor,
		TherapistID: therapistID,
	})
	if err != nil {
		if errors.Is(err, availability.ErrAccessDenied) {
			h.logger.Warn("POST /therapists/{id}/availability/default - Access denied: therapist_id=%d, user_id=%d",
				therapistID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
		h.logger.Error("POST /therapists/{id}/availability/default - Failed: therapist_id=%d, error=%v", therapistID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /therapists/{id}/availability/default - Default availability created: therapist_id=%d", therapistID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
