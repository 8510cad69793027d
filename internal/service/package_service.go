package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/pkg/money"
)

// PackageService admin paket yönetimi
type PackageService struct {
	packageRepo  *repository.PackageRepository
	purchaseRepo *repository.PurchaseRepository
}

func NewPackageService(packageRepo *repository.PackageRepository, purchaseRepo *repository.PurchaseRepository) *PackageService {
	return &PackageService{
		packageRepo:  packageRepo,
		purchaseRepo: purchaseRepo,
	}
}

func (s *PackageService) GetAllPackages(ctx context.Context) ([]models.AdminPackage, error) {
	packages, err := s.packageRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.purchaseRepo.CountByPackage(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.AdminPackage, 0, len(packages))
	for _, pkg := range packages {
		result = append(result, models.AdminPackage{
			Package:       pkg,
			SubjectIDs:    pkg.SubjectIDs(),
			PurchaseCount: counts[pkg.ID],
		})
	}
	return result, nil
}

func (s *PackageService) GetPackageByID(ctx context.Context, id uint) (*models.Package, error) {
	pkg, err := s.packageRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return pkg, err
}

// CreatePackage satış fiyatı verilmezse liste fiyatı kullanılır; price her zaman satış fiyatıdır
func (s *PackageService) CreatePackage(ctx context.Context, req models.PackageRequest) (*models.Package, error) {
	subjects, err := s.packageRepo.SubjectsByIDs(ctx, req.SubjectIDs)
	if err != nil {
		return nil, err
	}
	pkg := &models.Package{}
	applyPackage(pkg, req)
	pkg.Subjects = subjects

	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: slug is taken", ErrAlreadyExists)
		}
		return nil, err
	}
	return pkg, nil
}

func (s *PackageService) UpdatePackage(ctx context.Context, id uint, req models.PackageRequest) (*models.Package, error) {
	pkg, err := s.GetPackageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	subjects, err := s.packageRepo.SubjectsByIDs(ctx, req.SubjectIDs)
	if err != nil {
		return nil, err
	}
	applyPackage(pkg, req)

	if err := s.packageRepo.Update(ctx, pkg, subjects); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: slug is taken", ErrAlreadyExists)
		}
		return nil, err
	}
	return pkg, nil
}

func (s *PackageService) DeletePackage(ctx context.Context, id uint) error {
	err := s.packageRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func applyPackage(pkg *models.Package, req models.PackageRequest) {
	sale := money.EffectivePrice(req.Price, req.SalePrice)
	pkg.Name = strings.TrimSpace(req.Name)
	pkg.Slug = strings.TrimSpace(req.Slug)
	pkg.Description = req.Description
	pkg.Mrp = req.Mrp
	pkg.SalePrice = sale
	pkg.Price = sale
	pkg.IsActive = req.IsActive
}
