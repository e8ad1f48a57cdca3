package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-TherapyBookingService/internal/availability"
	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	createBooking "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/create_booking"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{"therapistId":7,"serviceId":3,"startAt":"2025-01-08T10:00:00+03:00","couponCode":"WELCOME10"}`

func request(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	return req.WithContext(middleware.WithActor(req.Context(), domain.Actor{UserID: 15, Role: domain.RoleClient}))
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	start := time.Date(2025, 1, 8, 7, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createBooking.Request) bool {
		return r.ClientID == 15 && r.TherapistID == 7 && r.ServiceID == 3 &&
			r.StartAt.Equal(start) && r.CouponCode != nil && *r.CouponCode == "WELCOME10"
	})).Return(&createBooking.Response{
		ID: 100, ClientID: 15, TherapistID: 7, ServiceID: 3,
		StartAt: start, EndAt: start.Add(50 * time.Minute), DurationMinutes: 50,
		Status: "pending", PaymentStatus: "unpaid", FinalPrice: 72,
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, request(validBody))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(100), body.ID)
	assert.Equal(t, "2025-01-08T07:50:00Z", body.EndAt)
	assert.Equal(t, 72.0, body.FinalPrice)
	uc.AssertExpectations(t)
}

func TestHandle_SlotRejectedCarriesReason(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("wrapped: %w", &createBooking.SlotNotAvailableError{Reason: availability.ReasonDuringBreak}))

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, request(validBody))

	require.Equal(t, http.StatusConflict, rec.Code)
	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "DURING_BREAK", body.Reason)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "service not found", err: createBooking.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "client not found", err: createBooking.ErrClientNotFound, wantStatus: http.StatusNotFound},
		{name: "coupon not found", err: createBooking.ErrCouponNotFound, wantStatus: http.StatusNotFound},
		{name: "coupon not usable", err: createBooking.ErrCouponNotUsable, wantStatus: http.StatusBadRequest},
		{name: "invalid input", err: fmt.Errorf("%w: notes too long", createBooking.ErrInvalidInput), wantStatus: http.StatusBadRequest},
		{name: "catalog down", err: createBooking.ErrCatalogUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "internal", err: createBooking.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, request(validBody))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"therapistId":`},
		{name: "no zone in start", body: `{"therapistId":7,"serviceId":3,"startAt":"2025-01-08T10:00:00"}`},
		{name: "unknown field", body: `{"therapistId":7,"serviceId":3,"startAt":"2025-01-08T10:00:00Z","carId":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, request(tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_Unauthorized(t *testing.T) {
	uc := &mockUseCase{}
	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(validBody)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
