package models

import "time"

// Package birden fazla dersi tek fiyatla satar
type Package struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	Price       int64     `json:"price" gorm:"not null"`
	Mrp         int64     `json:"mrp" gorm:"not null;default:0"`
	SalePrice   int64     `json:"sale_price" gorm:"not null;default:0"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	Subjects    []Subject `json:"subjects,omitempty" gorm:"many2many:package_subjects"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Package) SubjectIDs() []uint {
	ids := make([]uint, 0, len(p.Subjects))
	for _, s := range p.Subjects {
		ids = append(ids, s.ID)
	}
	return ids
}

type AdminPackage struct {
	Package
	SubjectIDs    []uint `json:"subject_ids"`
	PurchaseCount int64  `json:"purchase_count"`
}

type PackageRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"min=0"`
	Mrp         int64  `json:"mrp" validate:"min=0"`
	SalePrice   int64  `json:"sale_price" validate:"min=0"`
	SubjectIDs  []uint `json:"subject_ids"`
	IsActive    bool   `json:"is_active"`
}
