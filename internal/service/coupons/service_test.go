package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	couponRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/coupon"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/coupons/models"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/ptr"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Create(ctx context.Context, coupon *domain.Coupon) (*domain.Coupon, error) {
	args := m.Called(ctx, coupon)
	c, _ := args.Get(0).(*domain.Coupon)
	return c, args.Error(1)
}

func (m *mockRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*domain.Coupon)
	return c, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Coupon, error) {
	args := m.Called(ctx, activeOnly)
	c, _ := args.Get(0).([]*domain.Coupon)
	return c, args.Error(1)
}

func (m *mockRepo) Deactivate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	admin  = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	client = domain.Actor{UserID: 5, Role: domain.RoleClient}
	now    = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newTestService() (*Service, *mockRepo) {
	repo := &mockRepo{}
	return NewService(repo, fixedTime{now: now}, nopLogger{}), repo
}

func TestService_Create(t *testing.T) {
	svc, repo := newTestService()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Coupon) bool {
		return c.Code == "SPRING25" && c.IsActive
	})).Return(&domain.Coupon{ID: 1, Code: "SPRING25", DiscountType: domain.DiscountPercent, DiscountValue: 25, IsActive: true}, nil)

	resp, err := svc.Create(context.Background(), &models.CreateCouponRequest{
		Actor: admin, Code: "spring25", DiscountType: "percent", DiscountValue: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, "SPRING25", resp.Code)
}

func TestService_Create_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateCouponRequest
		wantErr error
	}{
		{name: "not admin", req: models.CreateCouponRequest{Actor: client, Code: "ABC", DiscountType: "fixed", DiscountValue: 5}, wantErr: ErrAccessDenied},
		{name: "bad code", req: models.CreateCouponRequest{Actor: admin, Code: "a b", DiscountType: "fixed", DiscountValue: 5}, wantErr: ErrInvalidInput},
		{name: "percent over 100", req: models.CreateCouponRequest{Actor: admin, Code: "BIG", DiscountType: "percent", DiscountValue: 150}, wantErr: ErrInvalidInput},
		{name: "unknown type", req: models.CreateCouponRequest{Actor: admin, Code: "BIG", DiscountType: "bogo", DiscountValue: 1}, wantErr: ErrInvalidInput},
		{name: "zero max uses", req: models.CreateCouponRequest{Actor: admin, Code: "BIG", DiscountType: "fixed", DiscountValue: 1, MaxUses: ptr.Ptr(0)}, wantErr: ErrInvalidInput},
		{name: "inverted window", req: models.CreateCouponRequest{Actor: admin, Code: "BIG", DiscountType: "fixed", DiscountValue: 1, ValidFrom: ptr.Ptr(now), ValidUntil: ptr.Ptr(now.Add(-time.Hour))}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			_, err := svc.Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Create_Duplicate(t *testing.T) {
	svc, repo := newTestService()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil, couponRepo.ErrCouponExists)

	_, err := svc.Create(context.Background(), &models.CreateCouponRequest{
		Actor: admin, Code: "DUP", DiscountType: "fixed", DiscountValue: 10,
	})
	assert.ErrorIs(t, err, ErrCouponExists)
}

func TestService_Validate(t *testing.T) {
	svc, repo := newTestService()
	repo.On("GetByCode", mock.Anything, "WELCOME").Return(&domain.Coupon{
		Code: "WELCOME", DiscountType: domain.DiscountFixed, DiscountValue: 100, IsActive: true,
	}, nil)
	repo.On("GetByCode", mock.Anything, "OLD").Return(&domain.Coupon{
		Code: "OLD", DiscountType: domain.DiscountFixed, DiscountValue: 10, IsActive: true,
		ValidUntil: ptr.Ptr(now.Add(-time.Hour)),
	}, nil)
	repo.On("GetByCode", mock.Anything, "MISSING").Return(nil, couponRepo.ErrCouponNotFound)

	resp, err := svc.Validate(context.Background(), "welcome", 80)
	require.NoError(t, err)
	assert.Equal(t, 80.0, resp.Discount)
	assert.Equal(t, 0.0, resp.FinalPrice)

	_, err = svc.Validate(context.Background(), "OLD", 80)
	assert.ErrorIs(t, err, ErrCouponNotUsable)

	_, err = svc.Validate(context.Background(), "MISSING", 80)
	assert.ErrorIs(t, err, ErrCouponNotFound)

	_, err = svc.Validate(context.Background(), "!!", 80)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_ListAndDeactivate(t *testing.T) {
	svc, repo := newTestService()
	repo.On("List", mock.Anything, true).Return([]*domain.Coupon{{ID: 1, Code: "A1B", IsActive: true}}, nil)
	repo.On("Deactivate", mock.Anything, int64(2)).Return(couponRepo.ErrCouponNotFound)

	resp, err := svc.List(context.Background(), admin, true)
	require.NoError(t, err)
	assert.Len(t, resp.Coupons, 1)

	_, err = svc.List(context.Background(), client, true)
	assert.ErrorIs(t, err, ErrAccessDenied)

	assert.ErrorIs(t, svc.Deactivate(context.Background(), admin, 2), ErrCouponNotFound)
}
