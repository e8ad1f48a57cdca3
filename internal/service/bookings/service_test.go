package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings/models"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *mockRepo) GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	args := m.Called(ctx, clientID, status)
	b, _ := args.Get(0).([]*domain.Booking)
	return b, args.Error(1)
}

func (m *mockRepo) GetByTherapistWithFilter(ctx context.Context, filter domain.TherapistBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	b, _ := args.Get(0).([]*domain.Booking)
	return b, args.Error(1)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockRepo) Cancel(ctx context.Context, id int64, reason *string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *mockRepo) UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	client    = domain.Actor{UserID: 5, Role: domain.RoleClient}
	stranger  = domain.Actor{UserID: 6, Role: domain.RoleClient}
	therapist = domain.Actor{UserID: 7, Role: domain.RoleTherapist}
	admin     = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
)

func newTestService() (*Service, *mockRepo, *mockPublisher) {
	repo := &mockRepo{}
	pub := &mockPublisher{}
	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	return NewService(repo, inlineTx{}, pub, fixedTime{now: now}, nopLogger{}), repo, pub
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:              10,
		ClientID:        5,
		TherapistID:     7,
		ServiceID:       3,
		StartAt:         time.Date(2025, 1, 8, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 50,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentUnpaid,
	}
}

func eventOfType(t events.EventType) interface{} {
	return mock.MatchedBy(func(e events.BookingEvent) bool { return e.Type == t })
}

func TestService_GetByID(t *testing.T) {
	tests := []struct {
		name    string
		actor   domain.Actor
		wantErr error
	}{
		{name: "owner", actor: client},
		{name: "therapist", actor: therapist},
		{name: "admin", actor: admin},
		{name: "stranger", actor: stranger, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			repo.On("GetByID", mock.Anything, int64(10)).Return(pendingBooking(), nil)

			resp, err := svc.GetByID(context.Background(), 10, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, time.Date(2025, 1, 8, 10, 50, 0, 0, time.UTC), resp.EndAt)
		})
	}
}

func TestService_GetByID_NotFound(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := svc.GetByID(context.Background(), 99, admin)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_GetClientBookings(t *testing.T) {
	svc, repo, _ := newTestService()
	status := "pending"
	want := domain.StatusPending
	repo.On("GetByClientID", mock.Anything, int64(5), &want).Return([]*domain.Booking{pendingBooking()}, nil)

	resp, err := svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		Actor: client, ClientID: 5, Status: &status,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	_, err = svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{Actor: stranger, ClientID: 5})
	assert.ErrorIs(t, err, ErrAccessDenied)

	bad := "no_show"
	_, err = svc.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{Actor: client, ClientID: 5, Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetTherapistBookings(t *testing.T) {
	svc, repo, _ := newTestService()
	from := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	repo.On("GetByTherapistWithFilter", mock.Anything, mock.MatchedBy(func(f domain.TherapistBookingsFilter) bool {
		return f.TherapistID == 7 && f.From.Equal(from) && f.To.Equal(to)
	})).Return([]*domain.Booking{}, nil)

	resp, err := svc.GetTherapistBookings(context.Background(), &models.GetTherapistBookingsRequest{
		Actor: therapist, TherapistID: 7, From: &from, To: &to,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)

	_, err = svc.GetTherapistBookings(context.Background(), &models.GetTherapistBookingsRequest{
		Actor: therapist, TherapistID: 7, From: &to, To: &from,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetTherapistBookings(context.Background(), &models.GetTherapistBookingsRequest{Actor: client, TherapistID: 7})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_Cancel(t *testing.T) {
	svc, repo, pub := newTestService()
	reason := "feeling unwell"

	repo.On("GetByID", mock.Anything, int64(10)).Return(pendingBooking(), nil)
	repo.On("Cancel", mock.Anything, int64(10), &reason).Return(nil)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e events.BookingEvent) bool {
		return e.Type == events.EventBookingCancelled && e.Status == "cancelled" && *e.Reason == reason
	})).Return(nil)

	err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{Actor: client, CancellationReason: &reason})
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestService_Cancel_PublishFailureIsNotFatal(t *testing.T) {
	svc, repo, pub := newTestService()

	repo.On("GetByID", mock.Anything, int64(10)).Return(pendingBooking(), nil)
	repo.On("Cancel", mock.Anything, int64(10), (*string)(nil)).Return(nil)
	pub.On("Publish", mock.Anything, eventOfType(events.EventBookingCancelled)).Return(errors.New("broker down"))

	assert.NoError(t, svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{Actor: therapist}))
}

func TestService_Cancel_Rejected(t *testing.T) {
	completed := pendingBooking()
	completed.Status = domain.StatusCompleted

	tests := []struct {
		name    string
		booking *domain.Booking
		actor   domain.Actor
		wantErr error
	}{
		{name: "stranger", booking: pendingBooking(), actor: stranger, wantErr: ErrAccessDenied},
		{name: "completed", booking: completed, actor: admin, wantErr: ErrCannotCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, pub := newTestService()
			repo.On("GetByID", mock.Anything, int64(10)).Return(tt.booking, nil)

			err := svc.Cancel(context.Background(), 10, &models.CancelBookingRequest{Actor: tt.actor})
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
			pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	svc, repo, pub := newTestService()

	repo.On("GetByID", mock.Anything, int64(10)).Return(pendingBooking(), nil)
	repo.On("UpdateStatus", mock.Anything, int64(10), domain.StatusConfirmed).Return(nil)
	pub.On("Publish", mock.Anything, eventOfType(events.EventBookingStatusChanged)).Return(nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{Actor: therapist, Status: "confirmed"}))
	pub.AssertExpectations(t)
}

func TestService_UpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name    string
		actor   domain.Actor
		status  string
		wantErr error
	}{
		{name: "unknown status", actor: therapist, status: "in_progress", wantErr: ErrInvalidInput},
		{name: "client cannot confirm", actor: client, status: "confirmed", wantErr: ErrAccessDenied},
		{name: "pending to completed", actor: admin, status: "completed", wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			repo.On("GetByID", mock.Anything, int64(10)).Return(pendingBooking(), nil)

			err := svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{Actor: tt.actor, Status: tt.status})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_UpdateStatus_CancelUsesCancel(t *testing.T) {
	svc, repo, pub := newTestService()

	repo.On("GetByID", mock.Anything, int64(10)).Return(pendingBooking(), nil)
	repo.On("Cancel", mock.Anything, int64(10), (*string)(nil)).Return(nil)
	pub.On("Publish", mock.Anything, eventOfType(events.EventBookingCancelled)).Return(nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), 10, &models.UpdateStatusRequest{Actor: admin, Status: "cancelled"}))
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdatePayment(t *testing.T) {
	svc, repo, pub := newTestService()

	repo.On("GetByID", mock.Anything, int64(10)).Return(pendingBooking(), nil)
	repo.On("UpdatePayment", mock.Anything, int64(10), domain.PaymentPaid).Return(nil)
	pub.On("Publish", mock.Anything, eventOfType(events.EventBookingPaid)).Return(nil)

	require.NoError(t, svc.UpdatePayment(context.Background(), 10, &models.UpdatePaymentRequest{Actor: admin, PaymentStatus: "paid"}))

	pub.AssertExpectations(t)
}

func TestService_UpdatePayment_RefundUnpaid(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.On("GetByID", mock.Anything, int64(10)).Return(pendingBooking(), nil)

	err := svc.UpdatePayment(context.Background(), 10, &models.UpdatePaymentRequest{Actor: admin, PaymentStatus: "refunded"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	repo.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything, mock.Anything)
}
