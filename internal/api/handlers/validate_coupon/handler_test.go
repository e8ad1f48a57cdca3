package validate_coupon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBookingService/internal/service/coupons"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/coupons/models"
)

type mockService struct{ mock.Mock }

func (m *mockService) Validate(ctx context.Context, code string, price float64) (*models.ValidateResponse, error) {
	args := m.Called(ctx, code, price)
	resp, _ := args.Get(0).(*models.ValidateResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(svc *mockService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/coupons/{code}/validate", NewHandler(svc, nopLogger{}).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &mockService{}
	svc.On("Validate", mock.Anything, "welcome10", 80.0).
		Return(&models.ValidateResponse{Code: "WELCOME10", Price: 80, Discount: 8, FinalPrice: 72}, nil)

	rec := serve(svc, "/coupons/welcome10/validate?price=80")

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.ValidateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 72.0, body.FinalPrice)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "missing price", target: "/coupons/WELCOME10/validate", wantStatus: http.StatusBadRequest},
		{name: "negative price", target: "/coupons/WELCOME10/validate?price=-1", wantStatus: http.StatusBadRequest},
		{name: "not found", target: "/coupons/NOPE1/validate?price=10", err: coupons.ErrCouponNotFound, wantStatus: http.StatusNotFound},
		{name: "expired", target: "/coupons/OLD10/validate?price=10", err: coupons.ErrCouponNotUsable, wantStatus: http.StatusBadRequest},
		{name: "malformed code", target: "/coupons/a/validate?price=10", err: coupons.ErrInvalidInput, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Validate", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			rec := serve(svc, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
