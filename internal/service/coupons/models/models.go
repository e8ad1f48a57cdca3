package models

import (
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// Request модели

// CreateCouponRequest запрос на создание купона
type CreateCouponRequest struct {
	Actor         domain.Actor `json:"-"`
	Code          string       `json:"code"`
	DiscountType  string       `json:"discountType"` // percent | fixed
	DiscountValue float64      `json:"discountValue"`
	MaxUses       *int         `json:"maxUses,omitempty"` // nil = без ограничений
	ValidFrom     *time.Time   `json:"validFrom,omitempty"`
	ValidUntil    *time.Time   `json:"validUntil,omitempty"`
}

// ToDomain конвертирует запрос в domain модель
func (r *CreateCouponRequest) ToDomain(code string) *domain.Coupon {
	return &domain.Coupon{
		Code:          code,
		DiscountType:  domain.DiscountType(r.DiscountType),
		DiscountValue: r.DiscountValue,
		MaxUses:       r.MaxUses,
		ValidFrom:     r.ValidFrom,
		ValidUntil:    r.ValidUntil,
		IsActive:      true,
	}
}

// Response модели

// CouponResponse ответ с данными купона
type CouponResponse struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	DiscountType  string     `json:"discountType"`
	DiscountValue float64    `json:"discountValue"`
	MaxUses       *int       `json:"maxUses,omitempty"`
	UsedCount     int        `json:"usedCount"`
	ValidFrom     *time.Time `json:"validFrom,omitempty"`
	ValidUntil    *time.Time `json:"validUntil,omitempty"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// CouponListResponse ответ со списком купонов
type CouponListResponse struct {
	Coupons []CouponResponse `json:"coupons"`
}

// ValidateResponse предварительный расчёт скидки
type ValidateResponse struct {
	Code       string  `json:"code"`
	Price      float64 `json:"price"`
	Discount   float64 `json:"discount"`
	FinalPrice float64 `json:"finalPrice"`
}

// FromDomainCoupon конвертирует domain модель в DTO
func FromDomainCoupon(c *domain.Coupon) *CouponResponse {
	if c == nil {
		return nil
	}
	return &CouponResponse{
		ID:            c.ID,
		Code:          c.Code,
		DiscountType:  string(c.DiscountType),
		DiscountValue: c.DiscountValue,
		MaxUses:       c.MaxUses,
		UsedCount:     c.UsedCount,
		ValidFrom:     c.ValidFrom,
		ValidUntil:    c.ValidUntil,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
	}
}

// FromDomainCouponList конвертирует список domain моделей в DTO
func FromDomainCouponList(coupons []*domain.Coupon) *CouponListResponse {
	resp := &CouponListResponse{Coupons: make([]CouponResponse, 0, len(coupons))}
	for _, c := range coupons {
		if couponResp := FromDomainCoupon(c); couponResp != nil {
			resp.Coupons = append(resp.Coupons, *couponResp)
		}
	}
	return resp
}
