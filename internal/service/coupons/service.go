package coupons

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	couponRepo "github.com/m04kA/SMC-TherapyBookingService/internal/infra/storage/coupon"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/coupons/models"
)

// Service сервис управления купонами
type Service struct {
	couponRepo   CouponRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса купонов
func NewService(couponRepo CouponRepository, timeProvider TimeProvider, logger Logger) *Service {
	return &Service{
		couponRepo:   couponRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create создает купон
// Доступно только администратору
func (s *Service) Create(ctx context.Context, req *models.CreateCouponRequest) (*models.CouponResponse, error) {
	s.logger.Info("Create: creating coupon code=%s by user=%d", req.Code, req.Actor.UserID)

	if !req.Actor.IsAdmin() {
		s.logger.Warn("Create: user=%d is not an admin", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	code, err := validateCreate(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.couponRepo.Create(ctx, req.ToDomain(code))
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponExists) {
			s.logger.Warn("Create: coupon code=%s already exists", code)
			return nil, ErrCouponExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created coupon id=%d code=%s", created.ID, created.Code)
	return models.FromDomainCoupon(created), nil
}

// List возвращает купоны
// Доступно только администратору
func (s *Service) List(ctx context.Context, actor domain.Actor, activeOnly bool) (*models.CouponListResponse, error) {
	s.logger.Info("List: listing coupons activeOnly=%t by user=%d", activeOnly, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("List: user=%d is not an admin", actor.UserID)
		return nil, ErrAccessDenied
	}

	coupons, err := s.couponRepo.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d coupons", len(coupons))
	return models.FromDomainCouponList(coupons), nil
}

// Deactivate выключает купон
// Уже созданные бронирования сохраняют скидку
func (s *Service) Deactivate(ctx context.Context, actor domain.Actor, id int64) error {
	s.logger.Info("Deactivate: deactivating coupon id=%d by user=%d", id, actor.UserID)

	if !actor.IsAdmin() {
		s.logger.Warn("Deactivate: user=%d is not an admin", actor.UserID)
		return ErrAccessDenied
	}

	if err := s.couponRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			s.logger.Warn("Deactivate: coupon id=%d not found", id)
			return ErrCouponNotFound
		}
		s.logger.Error("Deactivate: repository error for coupon id=%d: %v", id, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Deactivate: successfully deactivated coupon id=%d", id)
	return nil
}

// Validate рассчитывает скидку по купону без его использования
// Публичный метод - клиент видит итоговую цену до бронирования
func (s *Service) Validate(ctx context.Context, code string, price float64) (*models.ValidateResponse, error) {
	normalized, ok := domain.NormalizeCouponCode(code)
	if !ok {
		return nil, fmt.Errorf("%w: malformed coupon code", ErrInvalidInput)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	coupon, err := s.couponRepo.GetByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, couponRepo.ErrCouponNotFound) {
			s.logger.Warn("Validate: coupon code=%s not found", normalized)
			return nil, ErrCouponNotFound
		}
		s.logger.Error("Validate: repository error for code=%s: %v", normalized, err)
		return nil, fmt.Errorf("%w: Validate - repository error: %v", ErrInternal, err)
	}

	if !coupon.IsUsableAt(s.timeProvider.Now()) {
		s.logger.Warn("Validate: coupon code=%s is not usable", normalized)
		return nil, ErrCouponNotUsable
	}

	discount := coupon.DiscountFor(price)
	return &models.ValidateResponse{
		Code:       coupon.Code,
		Price:      price,
		Discount:   discount,
		FinalPrice: price - discount,
	}, nil
}

func validateCreate(req *models.CreateCouponRequest) (string, error) {
	code, ok := domain.NormalizeCouponCode(req.Code)
	if !ok {
		return "", fmt.Errorf("%w: code must be 3-32 characters of A-Z, 0-9, '_' or '-'", ErrInvalidInput)
	}

	switch domain.DiscountType(req.DiscountType) {
	case domain.DiscountPercent:
		if req.DiscountValue <= 0 || req.DiscountValue > 100 {
			return "", fmt.Errorf("%w: percent discount must be between 1 and 100", ErrInvalidInput)
		}
	case domain.DiscountFixed:
		if req.DiscountValue <= 0 {
			return "", fmt.Errorf("%w: fixed discount must be positive", ErrInvalidInput)
		}
	default:
		return "", fmt.Errorf("%w: discountType must be percent or fixed", ErrInvalidInput)
	}

	if req.MaxUses != nil && *req.MaxUses <= 0 {
		return "", fmt.Errorf("%w: maxUses must be positive", ErrInvalidInput)
	}

	if req.ValidFrom != nil && req.ValidUntil != nil && !req.ValidFrom.Before(*req.ValidUntil) {
		return "", fmt.Errorf("%w: validFrom must be before validUntil", ErrInvalidInput)
	}

	return code, nil
}
