package get_therapist_bookings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings/models"
)

// ToServiceRequest создает запрос сервиса из query параметров
// from, to - RFC 3339; status; includeInactive - true/false
func ToServiceRequest(actor domain.Actor, therapistID int64, query url.Values) (*models.GetTherapistBookingsRequest, error) {
	req := &models.GetTherapistBookingsRequest{
		Actor:       actor,
		TherapistID: therapistID,
	}

	if from := query.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, err
		}
		req.From = &t
	}

	if to := query.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, err
		}
		req.To = &t
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if includeInactive := query.Get("includeInactive"); includeInactive != "" {
		v, err := strconv.ParseBool(includeInactive)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = v
	}

	return req, nil
}
