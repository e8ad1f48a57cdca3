package get_availability

import (
	"net/http"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
)

const msgInvalidTherapistID = "некорректный ID терапевта"

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

// Handle GET /api/v1/therapists/{therapistId}/availability
// Если терапевт ещё не настроил расписание, возвращаются значения по умолчанию с isDefault=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	therapistID, err := handlers.PathInt64(r, "therapistId")
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/availability - Invalid therapist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	result, err := h.service.GetResponse(r.Context(), therapistID)
	if err != nil {
		h.logger.Error("GET /therapists/{id}/availability - Failed to get availability: therapist_id=%d, error=%v",
			therapistID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /therapists/{id}/availability - Availability retrieved: therapist_id=%d, default=%t",
		therapistID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
