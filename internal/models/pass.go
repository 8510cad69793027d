package models

import "time"

type PassType string

const (
	PassTypeVedicMaths PassType = "VEDIC_MATHS"
)

// PassProduct satışa sunulan kredi paketinin tanımı
type PassProduct struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PassType        PassType  `json:"pass_type" gorm:"type:varchar(32);uniqueIndex;not null"`
	SessionCategory string    `json:"session_category" gorm:"type:varchar(32);not null"`
	Title           string    `json:"title" gorm:"not null"`
	Subtitle        string    `json:"subtitle"`
	TotalCredits    int       `json:"total_credits" gorm:"not null;check:chk_pass_products_total_credits,total_credits > 0"`
	DurationMins    int       `json:"duration_mins" gorm:"not null;default:60"`
	Currency        string    `json:"currency" gorm:"type:varchar(3);not null;default:'INR'"`
	MrpCents        int64     `json:"mrp_cents" gorm:"not null;default:0"`
	PriceCents      int64     `json:"price_cents" gorm:"not null"`
	TermsVersion    string    `json:"terms_version" gorm:"not null;default:'v1'"`
	IsActive        bool      `json:"is_active" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionPass kullanıcının satın aldığı kredi paketi.
// 0 <= UsedCredits <= TotalCredits her zaman geçerlidir.
type SessionPass struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	UserID          uint          `json:"user_id" gorm:"not null;index:idx_session_passes_owner"`
	PassType        PassType      `json:"pass_type" gorm:"type:varchar(32);not null;index:idx_session_passes_owner"`
	ProductID       uint          `json:"product_id" gorm:"not null"`
	TotalCredits    int           `json:"total_credits" gorm:"not null"`
	UsedCredits     int           `json:"used_credits" gorm:"not null;default:0;check:chk_session_passes_credits,used_credits >= 0 AND used_credits <= total_credits"`
	Currency        string        `json:"currency" gorm:"type:varchar(3);not null"`
	MrpCents        int64         `json:"mrp_cents" gorm:"not null;default:0"`
	PriceCents      int64         `json:"price_cents" gorm:"not null"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"type:varchar(16);not null;default:'PENDING'"`
	Gateway         string        `json:"gateway" gorm:"type:varchar(16);not null"`
	OrderID         string        `json:"order_id" gorm:"uniqueIndex;not null"`
	PaymentID       *string       `json:"payment_id,omitempty"`
	Signature       *string       `json:"-"`
	TermsVersion    string        `json:"terms_version" gorm:"not null"`
	TermsAcceptedAt *time.Time    `json:"terms_accepted_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (p *SessionPass) RemainingCredits() int {
	return p.TotalCredits - p.UsedCredits
}

// IsActive ödenmiş ve kredisi kalmış pass
func (p *SessionPass) IsActive() bool {
	return p.PaymentStatus == PaymentStatusSuccess && p.UsedCredits < p.TotalCredits
}

type PassStatus struct {
	TotalCredits int `json:"total_credits"`
	UsedCredits  int `json:"used_credits"`
}

type UpdatePassProductRequest struct {
	Title        *string `json:"title"`
	Subtitle     *string `json:"subtitle"`
	TotalCredits *int    `json:"total_credits" validate:"omitempty,min=1"`
	MrpCents     *int64  `json:"mrp_cents" validate:"omitempty,min=0"`
	PriceCents   *int64  `json:"price_cents" validate:"omitempty,min=0"`
	IsActive     *bool   `json:"is_active"`
	TermsVersion *string `json:"terms_version"`
	DurationMins *int    `json:"duration_mins" validate:"omitempty,min=1"`
	Currency     *string `json:"currency" validate:"omitempty,len=3"`
}
