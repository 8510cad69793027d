package models

import "time"

type SubjectPurchase struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	UserID        uint          `json:"user_id" gorm:"not null;uniqueIndex:idx_subject_purchases_user_subject"`
	SubjectID     uint          `json:"subject_id" gorm:"not null;uniqueIndex:idx_subject_purchases_user_subject"`
	AmountPaid    int64         `json:"amount_paid" gorm:"not null"`
	Currency      string        `json:"currency" gorm:"type:varchar(3);not null"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(16);not null;default:'PENDING'"`
	Gateway       string        `json:"gateway" gorm:"type:varchar(16);not null"`
	PaymentRef    string        `json:"payment_ref"`
	OrderID       string        `json:"order_id" gorm:"uniqueIndex;not null"`
	PaymentID     *string       `json:"payment_id,omitempty"`
	Signature     *string       `json:"-"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type PackagePurchase struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	UserID        uint          `json:"user_id" gorm:"not null;uniqueIndex:idx_package_purchases_user_package"`
	PackageID     uint          `json:"package_id" gorm:"not null;uniqueIndex:idx_package_purchases_user_package"`
	Package       *Package      `json:"package,omitempty"`
	AmountPaid    int64         `json:"amount_paid" gorm:"not null"`
	Currency      string        `json:"currency" gorm:"type:varchar(3);not null"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(16);not null;default:'PENDING'"`
	Gateway       string        `json:"gateway" gorm:"type:varchar(16);not null"`
	PaymentRef    string        `json:"payment_ref"`
	OrderID       string        `json:"order_id" gorm:"uniqueIndex;not null"`
	PaymentID     *string       `json:"payment_id,omitempty"`
	Signature     *string       `json:"-"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
