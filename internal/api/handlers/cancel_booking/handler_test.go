package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings/models"
)

type mockService struct{ mock.Mock }

func (m *mockService) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	return m.Called(ctx, bookingID, req).Error(0)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var client = domain.Actor{UserID: 15, Role: domain.RoleClient}

func serve(svc *mockService, target, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/bookings/{bookingId}/cancel", NewHandler(svc, nopLogger{}).Handle)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPatch, target, nil)
	} else {
		req = httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body))
	}
	req = req.WithContext(middleware.WithActor(req.Context(), client))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_WithReason(t *testing.T) {
	svc := &mockService{}
	svc.On("Cancel", mock.Anything, int64(100), mock.MatchedBy(func(req *models.CancelBookingRequest) bool {
		return req.Actor == client && req.CancellationReason != nil && *req.CancellationReason == "заболел"
	})).Return(nil)

	rec := serve(svc, "/bookings/100/cancel", `{"cancellationReason":"заболел"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandle_EmptyBody(t *testing.T) {
	svc := &mockService{}
	svc.On("Cancel", mock.Anything, int64(100), mock.MatchedBy(func(req *models.CancelBookingRequest) bool {
		return req.CancellationReason == nil
	})).Return(nil)

	rec := serve(svc, "/bookings/100/cancel", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "already completed", err: bookings.ErrCannotCancel, wantStatus: http.StatusConflict},
		{name: "internal", err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Cancel", mock.Anything, int64(100), mock.Anything).Return(tt.err)

			rec := serve(svc, "/bookings/100/cancel", "")
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_InvalidID(t *testing.T) {
	svc := &mockService{}
	rec := serve(svc, "/bookings/zero/cancel", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
}
