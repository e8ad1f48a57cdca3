package update_availability

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/availability"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/availability/models"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidConfig      = "некорректная конфигурация доступности"
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

// Handle PUT /api/v1/therapists/{therapistId}/availability
// Конфигурация заменяется целиком, частичное обновление не поддерживается
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	therapistID, err := handlers.PathInt64(r, "therapistId")
	if err != nil {
		h.logger.Warn("PUT /therapists/{id}/availability - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /therapists/{id}/availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var body models.AvailabilityBody
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PUT /therapists/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Save(r.Context(), &models.SaveAvailabilityRequest{
		Actor:       actor,
		TherapistID: therapistID,
		Body:        body,
	})
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /therapists/{id}/availability - Access denied: therapist_id=%d, user_id=%d",
				therapistID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /therapists/{id}/availability - Invalid config: therapist_id=%d, error=%v", therapistID, err)
			handlers.RespondBadRequest(w, msgInvalidConfig+": "+details(err))

		default:
			h.logger.Error("PUT /therapists/{id}/availability - Failed to save availability: therapist_id=%d, error=%v",
				therapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /therapists/{id}/availability - Availability saved: therapist_id=%d, duplicates=%d",
		therapistID, len(result.DuplicateDates))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// details возвращает "поле: причина" без префикса sentinel ошибки
func details(err error) string {
	return strings.TrimPrefix(err.Error(), availability.ErrInvalidInput.Error()+": ")
}
