package models

import "time"

const (
	SessionCategoryGeneral = "general"
	SessionCategoryVedic   = "vedic"
)

const (
	SessionTypeOneOnOne = "ONE_ON_ONE"
	SessionTypeBatch    = "BATCH"
)

const (
	SessionModeOnline  = "ONLINE"
	SessionModeOffline = "OFFLINE"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// ActiveBookingStatuses kapasiteden yer kaplayan durumlar
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// Booking kayıtlarına yazılan şartlar sürümü
const BookingTermsVersion = "v1"

type LiveSession struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Title        string    `json:"title" gorm:"not null"`
	Description  string    `json:"description"`
	Category     string    `json:"category" gorm:"type:varchar(32);not null;default:'general';index"`
	SessionType  string    `json:"session_type" gorm:"type:varchar(16);not null;default:'ONE_ON_ONE'"`
	Mode         string    `json:"mode" gorm:"type:varchar(16);not null;default:'ONLINE'"`
	MaxStudents  int       `json:"max_students" gorm:"not null;default:1;check:chk_live_sessions_max_students,max_students > 0"`
	PricePerSlot int64     `json:"price_per_slot" gorm:"not null;default:0"`
	ScheduledAt  time.Time `json:"scheduled_at" gorm:"not null;index"`
	DurationMins int       `json:"duration_mins" gorm:"not null;default:60"`
	MeetingLink  string    `json:"meeting_link,omitempty"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LiveBooking her (user, session) çifti için en fazla bir kayıt
type LiveBooking struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	UserID          uint          `json:"user_id" gorm:"not null;uniqueIndex:idx_live_bookings_user_session"`
	LiveSessionID   uint          `json:"live_session_id" gorm:"not null;uniqueIndex:idx_live_bookings_user_session;index"`
	Status          BookingStatus `json:"status" gorm:"type:varchar(16);not null;default:'PENDING'"`
	AmountPaid      int64         `json:"amount_paid" gorm:"not null;default:0"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"type:varchar(16);not null;default:'PENDING'"`
	PassID          *uint         `json:"pass_id,omitempty" gorm:"index"`
	TermsVersion    string        `json:"terms_version"`
	TermsAcceptedAt *time.Time    `json:"terms_accepted_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	LiveSession     *LiveSession  `json:"live_session,omitempty" gorm:"foreignKey:LiveSessionID"`
}

// BookableSession katalogda listelenen, kapasitesi hesaplanmış oturum
type BookableSession struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	SessionType  string    `json:"session_type"`
	Mode         string    `json:"mode"`
	MaxStudents  int       `json:"max_students"`
	ScheduledAt  time.Time `json:"scheduled_at"`
	DurationMins int       `json:"duration_mins"`
	BookedCount  int       `json:"booked_count"`
	SpotsLeft    int       `json:"spots_left"`
}

type AdminLiveSession struct {
	LiveSession
	BookingCount int64 `json:"booking_count"`
}

type BookSessionRequest struct {
	LiveSessionID uint `json:"live_session_id" validate:"required"`
}

type BookingResult struct {
	OK           bool `json:"ok"`
	BookingID    uint `json:"booking_id"`
	CreditsUsed  int  `json:"credits_used"`
	CreditsTotal int  `json:"credits_total"`
}

type CreateLiveSessionRequest struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	SessionType  string    `json:"session_type" validate:"omitempty,oneof=ONE_ON_ONE BATCH"`
	Category     string    `json:"category" validate:"omitempty,oneof=general vedic"`
	Mode         string    `json:"mode" validate:"omitempty,oneof=ONLINE OFFLINE"`
	MaxStudents  int       `json:"max_students" validate:"omitempty,min=1"`
	PricePerSlot int64     `json:"price_per_slot" validate:"omitempty,min=0"`
	ScheduledAt  time.Time `json:"scheduled_at" validate:"required"`
	DurationMins int       `json:"duration_mins" validate:"omitempty,min=1"`
	MeetingLink  string    `json:"meeting_link" validate:"omitempty,url"`
	IsActive     bool      `json:"is_active"`
}

type UpdateLiveSessionRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1"`
	Description  *string    `json:"description"`
	SessionType  *string    `json:"session_type" validate:"omitempty,oneof=ONE_ON_ONE BATCH"`
	Category     *string    `json:"category" validate:"omitempty,oneof=general vedic"`
	Mode         *string    `json:"mode" validate:"omitempty,oneof=ONLINE OFFLINE"`
	MaxStudents  *int       `json:"max_students" validate:"omitempty,min=1"`
	PricePerSlot *int64     `json:"price_per_slot" validate:"omitempty,min=0"`
	ScheduledAt  *time.Time `json:"scheduled_at"`
	DurationMins *int       `json:"duration_mins" validate:"omitempty,min=1"`
	MeetingLink  *string    `json:"meeting_link"`
}

type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}
