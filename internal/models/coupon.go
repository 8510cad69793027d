package models

import "time"

type Coupon struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Code            string     `json:"code" gorm:"uniqueIndex;not null"`
	DiscountPercent int        `json:"discount_percent" gorm:"not null"`
	MaxUses         *int       `json:"max_uses,omitempty"`
	UsedCount       int        `json:"used_count" gorm:"not null;default:0"`
	MinAmount       int64      `json:"min_amount" gorm:"not null;default:0"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	IsActive        bool       `json:"is_active" gorm:"not null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CouponRequest struct {
	Code            string     `json:"code" validate:"required"`
	DiscountPercent int        `json:"discount_percent" validate:"min=1,max=100"`
	MaxUses         *int       `json:"max_uses" validate:"omitempty,min=1"`
	MinAmount       int64      `json:"min_amount" validate:"min=0"`
	ExpiresAt       *time.Time `json:"expires_at"`
	IsActive        bool       `json:"is_active"`
}
