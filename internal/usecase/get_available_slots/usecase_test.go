package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	_ "time/tzdata"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByTherapistWithFilter(ctx context.Context, filter domain.TherapistBookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	b, _ := args.Get(0).([]*domain.Booking)
	return b, args.Error(1)
}

type mockAvailability struct{ mock.Mock }

func (m *mockAvailability) GetOrDefault(ctx context.Context, therapistID int64) (*domain.AvailabilityConfig, bool, error) {
	args := m.Called(ctx, therapistID)
	c, _ := args.Get(0).(*domain.AvailabilityConfig)
	return c, args.Bool(1), args.Error(2)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetService(ctx context.Context, serviceID int64) (*catalogservice.Service, error) {
	args := m.Called(ctx, serviceID)
	s, _ := args.Get(0).(*catalogservice.Service)
	return s, args.Error(1)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Понедельник 2025-01-06 09:00 UTC
var now = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

func newUseCase() (*UseCase, *mockBookingRepo, *mockAvailability, *mockCatalog) {
	repo := &mockBookingRepo{}
	avail := &mockAvailability{}
	catalog := &mockCatalog{}
	uc := NewUseCase(repo, avail, catalog, fixedTime{now: now}, Options{}, nopLogger{})
	return uc, repo, avail, catalog
}

func hourSession() *catalogservice.Service {
	return &catalogservice.Service{ID: 3, TherapistID: 7, Name: "Session", DurationMinutes: 60, Price: 80, IsActive: true}
}

func TestExecute_GroupsSlotsByDate(t *testing.T) {
	uc, repo, avail, catalog := newUseCase()
	cfg := domain.DefaultAvailabilityConfig(7, "UTC")
	cfg.Breaks = []domain.TimeRange{{Start: "12:00", End: "13:00"}}

	catalog.On("GetService", mock.Anything, int64(3)).Return(hourSession(), nil)
	avail.On("GetOrDefault", mock.Anything, int64(7)).Return(cfg, false, nil)
	repo.On("GetByTherapistWithFilter", mock.Anything, mock.Anything).Return([]*domain.Booking{
		{ID: 1, TherapistID: 7, StartAt: time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC), DurationMinutes: 60, Status: domain.StatusConfirmed},
	}, nil)

	// Вт-Сб: суббота выходной, в среду 09:00 занято
	resp, err := uc.Execute(context.Background(), &Request{
		TherapistID: 7, ServiceID: 3, From: "2025-01-07", To: "2025-01-11", StepMinutes: 60,
	})
	require.NoError(t, err)

	require.Len(t, resp.Days, 4)
	assert.Equal(t, types.DateString("2025-01-07"), resp.Days[0].Date)
	assert.Equal(t, types.DateString("2025-01-10"), resp.Days[3].Date)

	// 09..16 без перерыва 12:00 = 7 слотов
	assert.Len(t, resp.Days[0].Slots, 7)
	assert.Len(t, resp.Days[1].Slots, 6)
	assert.Equal(t, types.TimeString("10:00"), resp.Days[1].Slots[0].StartTime)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "UTC", resp.TimeZone)
}

func TestExecute_DefaultsAndBookingWindow(t *testing.T) {
	uc, repo, avail, catalog := newUseCase()
	cfg := domain.DefaultAvailabilityConfig(7, "Europe/Moscow")
	cfg.BufferMinutes = 30

	catalog.On("GetService", mock.Anything, int64(3)).Return(hourSession(), nil)
	avail.On("GetOrDefault", mock.Anything, int64(7)).Return(cfg, true, nil)

	moscow, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	dayStart := time.Date(2025, 1, 8, 0, 0, 0, 0, moscow)

	repo.On("GetByTherapistWithFilter", mock.Anything, mock.MatchedBy(func(f domain.TherapistBookingsFilter) bool {
		return f.From.Equal(dayStart.Add(-30*time.Minute)) && f.To.Equal(dayStart.AddDate(0, 0, 1).Add(30*time.Minute))
	})).Return([]*domain.Booking{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{TherapistID: 7, ServiceID: 3, From: "2025-01-08"})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSlotStepMinutes, resp.StepMinutes)
	require.Len(t, resp.Days, 1)
	// 09:00..16:00 с шагом 30 минут для часовой сессии = 15 слотов
	assert.Len(t, resp.Days[0].Slots, 15)
	first := resp.Days[0].Slots[0]
	assert.Equal(t, types.TimeString("09:00"), first.StartTime)
	assert.Equal(t, "Europe/Moscow", first.StartAt.Location().String())
	repo.AssertExpectations(t)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "therapist", req: Request{ServiceID: 3, From: "2025-01-08"}, wantErr: ErrInvalidInput},
		{name: "service", req: Request{TherapistID: 7, From: "2025-01-08"}, wantErr: ErrInvalidInput},
		{name: "bad date", req: Request{TherapistID: 7, ServiceID: 3, From: "08.01.2025"}, wantErr: ErrInvalidInput},
		{name: "inverted", req: Request{TherapistID: 7, ServiceID: 3, From: "2025-01-08", To: "2025-01-07"}, wantErr: ErrInvalidInput},
		{name: "too long", req: Request{TherapistID: 7, ServiceID: 3, From: "2025-01-01", To: "2025-01-15"}, wantErr: ErrRangeTooLong},
		{name: "negative step", req: Request{TherapistID: 7, ServiceID: 3, From: "2025-01-08", StepMinutes: -5}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _, catalog := newUseCase()
			_, err := uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			catalog.AssertNotCalled(t, "GetService", mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_ServiceOfOtherTherapist(t *testing.T) {
	uc, _, avail, catalog := newUseCase()
	service := hourSession()
	service.TherapistID = 8
	catalog.On("GetService", mock.Anything, int64(3)).Return(service, nil)

	_, err := uc.Execute(context.Background(), &Request{TherapistID: 7, ServiceID: 3, From: "2025-01-08"})
	assert.ErrorIs(t, err, ErrServiceNotFound)
	avail.AssertNotCalled(t, "GetOrDefault", mock.Anything, mock.Anything)
}

func TestExecute_CatalogUnavailable(t *testing.T) {
	uc, _, _, catalog := newUseCase()
	catalog.On("GetService", mock.Anything, int64(3)).Return(nil, catalogservice.ErrUnavailable)

	_, err := uc.Execute(context.Background(), &Request{TherapistID: 7, ServiceID: 3, From: "2025-01-08"})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}
