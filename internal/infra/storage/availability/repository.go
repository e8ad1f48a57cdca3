package availability

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// upsertSuffix перезаписывает строку целиком: частичных обновлений конфигурации не бывает
const upsertSuffix = `ON CONFLICT (therapist_id) DO UPDATE SET
	time_zone = EXCLUDED.time_zone,
	working_days = EXCLUDED.working_days,
	working_hours_start = EXCLUDED.working_hours_start,
	working_hours_end = EXCLUDED.working_hours_end,
	breaks = EXCLUDED.breaks,
	blocked_dates = EXCLUDED.blocked_dates,
	custom_schedule = EXCLUDED.custom_schedule,
	buffer_minutes = EXCLUDED.buffer_minutes,
	max_advance_booking_days = EXCLUDED.max_advance_booking_days,
	min_advance_notice_hours = EXCLUDED.min_advance_notice_hours,
	updated_at = NOW()
RETURNING created_at, updated_at`

// Repository репозиторий конфигураций доступности терапевтов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигураций доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByTherapistID получает конфигурацию терапевта
// Внутри транзакции строка блокируется на чтение (FOR SHARE), чтобы конфигурация
// не изменилась между проверкой слота и коммитом бронирования
func (r *Repository) GetByTherapistID(ctx context.Context, therapistID int64) (*domain.AvailabilityConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"therapist_id",
		"time_zone",
		"working_days",
		"working_hours_start",
		"working_hours_end",
		"breaks",
		"blocked_dates",
		"custom_schedule",
		"buffer_minutes",
		"max_advance_booking_days",
		"min_advance_notice_hours",
		"created_at",
		"updated_at",
	).
		From("therapist_availability").
		Where(squirrel.Eq{"therapist_id": therapistID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		cfg          domain.AvailabilityConfig
		workingDays  pq.Int64Array
		blockedDates pq.StringArray
		breaksJSON   []byte
		customJSON   []byte
		createdAt    sql.NullTime
		updatedAt    sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.TherapistID,
		&cfg.TimeZone,
		&workingDays,
		&cfg.WorkingHours.Start,
		&cfg.WorkingHours.End,
		&breaksJSON,
		&blockedDates,
		&customJSON,
		&cfg.BufferMinutes,
		&cfg.MaxAdvanceBookingDays,
		&cfg.MinAdvanceNoticeHours,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistID - scan config: %w", ErrScanRow, err)
	}

	cfg.WorkingDays = make([]time.Weekday, 0, len(workingDays))
	for _, d := range workingDays {
		cfg.WorkingDays = append(cfg.WorkingDays, time.Weekday(d))
	}

	cfg.BlockedDates = make([]types.DateString, 0, len(blockedDates))
	for _, d := range blockedDates {
		cfg.BlockedDates = append(cfg.BlockedDates, types.DateString(d))
	}

	cfg.Breaks = make([]domain.TimeRange, 0)
	if err := json.Unmarshal(breaksJSON, &cfg.Breaks); err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistID - decode breaks: %v", ErrScanRow, err)
	}

	cfg.CustomSchedule = make([]domain.CustomScheduleEntry, 0)
	if err := json.Unmarshal(customJSON, &cfg.CustomSchedule); err != nil {
		return nil, fmt.Errorf("%w: GetByTherapistID - decode custom schedule: %v", ErrScanRow, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// Upsert сохраняет конфигурацию терапевта целиком (INSERT ... ON CONFLICT DO UPDATE)
// Конфигурация должна быть уже нормализована
func (r *Repository) Upsert(ctx context.Context, cfg *domain.AvailabilityConfig) (*domain.AvailabilityConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	workingDays := make(pq.Int64Array, 0, len(cfg.WorkingDays))
	for _, d := range cfg.WorkingDays {
		workingDays = append(workingDays, int64(d))
	}

	blockedDates := make(pq.StringArray, 0, len(cfg.BlockedDates))
	for _, d := range cfg.BlockedDates {
		blockedDates = append(blockedDates, d.String())
	}

	breaks := cfg.Breaks
	if breaks == nil {
		breaks = []domain.TimeRange{}
	}
	breaksJSON, err := json.Marshal(breaks)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - encode breaks: %v", ErrEncode, err)
	}

	custom := cfg.CustomSchedule
	if custom == nil {
		custom = []domain.CustomScheduleEntry{}
	}
	customJSON, err := json.Marshal(custom)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - encode custom schedule: %v", ErrEncode, err)
	}

	query, args, err := psqlbuilder.Insert("therapist_availability").
		Columns(
			"therapist_id",
			"time_zone",
			"working_days",
			"working_hours_start",
			"working_hours_end",
			"breaks",
			"blocked_dates",
			"custom_schedule",
			"buffer_minutes",
			"max_advance_booking_days",
			"min_advance_notice_hours",
		).
		Values(
			cfg.TherapistID,
			cfg.TimeZone,
			workingDays,
			cfg.WorkingHours.Start,
			cfg.WorkingHours.End,
			string(breaksJSON),
			blockedDates,
			string(customJSON),
			cfg.BufferMinutes,
			cfg.MaxAdvanceBookingDays,
			cfg.MinAdvanceNoticeHours,
		).
		Suffix(upsertSuffix).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	saved := *cfg
	saved.CreatedAt = createdAt.Time
	saved.UpdatedAt = updatedAt.Time

	return &saved, nil
}
