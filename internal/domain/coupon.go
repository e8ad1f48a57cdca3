package domain

import (
	"regexp"
	"strings"
	"time"
)

var couponCodePattern = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)

// DiscountType represents how a coupon discount is computed
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// Coupon represents a discount code applicable to a booking
type Coupon struct {
	ID            int64
	Code          string
	DiscountType  DiscountType
	DiscountValue float64
	MaxUses       *int // nil = unlimited
	UsedCount     int
	ValidFrom     *time.Time
	ValidUntil    *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsUsableAt returns true if the coupon can be applied at the given instant
func (c *Coupon) IsUsableAt(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return false
	}
	return true
}

// DiscountFor returns the discount for the given price, never more than the price itself
func (c *Coupon) DiscountFor(price float64) float64 {
	var discount float64
	switch c.DiscountType {
	case DiscountPercent:
		discount = price * c.DiscountValue / 100
	case DiscountFixed:
		discount = c.DiscountValue
	}
	if discount > price {
		discount = price
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// NormalizeCouponCode upper-cases the code and reports whether it is well-formed
func NormalizeCouponCode(code string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	return normalized, couponCodePattern.MatchString(normalized)
}
