package repository

import (
	"context"

	"github.com/meritrix/meritrix-backend/internal/models"
	"gorm.io/gorm"
)

type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{
		db: db,
	}
}

func (r *PackageRepository) GetByID(ctx context.Context, id uint) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.WithContext(ctx).Preload("Subjects").First(&pkg, id).Error; err != nil {
		return nil, translate(err)
	}
	return &pkg, nil
}

func (r *PackageRepository) GetBySlug(ctx context.Context, slug string) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.WithContext(ctx).Preload("Subjects").Where("slug = ?", slug).First(&pkg).Error; err != nil {
		return nil, translate(err)
	}
	return &pkg, nil
}

// GetActive fiyata göre sıralı aktif paketler
func (r *PackageRepository) GetActive(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	err := r.db.WithContext(ctx).Preload("Subjects.Grade").
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&packages).Error
	return packages, err
}

func (r *PackageRepository) GetAll(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	err := r.db.WithContext(ctx).Preload("Subjects").Order("id ASC").Find(&packages).Error
	return packages, err
}

// Create paketi ve ders ilişkilerini tek transaction'da yazar
func (r *PackageRepository) Create(ctx context.Context, pkg *models.Package) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

func (r *PackageRepository) Update(ctx context.Context, pkg *models.Package, subjects []models.Subject) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Subjects").Save(pkg).Error; err != nil {
			return err
		}
		if err := tx.Model(pkg).Association("Subjects").Replace(subjects); err != nil {
			return err
		}
		pkg.Subjects = subjects
		return nil
	})
}

func (r *PackageRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkg := &models.Package{ID: id}
		if err := tx.Model(pkg).Association("Subjects").Clear(); err != nil {
			return err
		}
		if err := tx.Where("package_id = ?", id).Delete(&models.PackagePurchase{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &models.Package{}, id)
	})
}

func (r *PackageRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Package{}).Count(&count).Error
	return count, err
}

// SubjectsByIDs bilinmeyen id'ler sessizce atlanır
func (r *PackageRepository) SubjectsByIDs(ctx context.Context, ids []uint) ([]models.Subject, error) {
	if len(ids) == 0 {
		return []models.Subject{}, nil
	}
	var subjects []models.Subject
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&subjects).Error
	return subjects, err
}
