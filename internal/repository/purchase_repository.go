package repository

import (
	"context"

	"github.com/meritrix/meritrix-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{
		db: db,
	}
}

// pendingReset yeni siparişte eski ödeme bilgileri temizlenir
func pendingReset() clause.Set {
	set := clause.AssignmentColumns([]string{"amount_paid", "currency", "payment_status", "gateway", "payment_ref", "order_id", "updated_at"})
	return append(set,
		clause.Assignment{Column: clause.Column{Name: "payment_id"}, Value: nil},
		clause.Assignment{Column: clause.Column{Name: "signature"}, Value: nil},
	)
}

// Subject purchases

func (r *PurchaseRepository) HasSuccessfulSubject(ctx context.Context, userID, subjectID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SubjectPurchase{}).
		Where("user_id = ? AND subject_id = ? AND payment_status = ?", userID, subjectID, models.PaymentStatusSuccess).
		Count(&count).Error
	return count > 0, err
}

// SuccessfulSubjectIDs kullanıcının doğrudan veya paket yoluyla eriştiği dersler
func (r *PurchaseRepository) SuccessfulSubjectIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var direct []uint
	if err := r.db.WithContext(ctx).Model(&models.SubjectPurchase{}).
		Where("user_id = ? AND payment_status = ?", userID, models.PaymentStatusSuccess).
		Pluck("subject_id", &direct).Error; err != nil {
		return nil, err
	}

	var viaPackage []uint
	if err := r.db.WithContext(ctx).Table("package_purchases").
		Joins("JOIN package_subjects ON package_subjects.package_id = package_purchases.package_id").
		Where("package_purchases.user_id = ? AND package_purchases.payment_status = ?", userID, models.PaymentStatusSuccess).
		Pluck("package_subjects.subject_id", &viaPackage).Error; err != nil {
		return nil, err
	}

	set := make(map[uint]bool, len(direct)+len(viaPackage))
	for _, id := range direct {
		set[id] = true
	}
	for _, id := range viaPackage {
		set[id] = true
	}
	return set, nil
}

// UpsertSubjectPending (user, subject) başına tek satır, her siparişte PENDING'e döner
func (r *PurchaseRepository) UpsertSubjectPending(ctx context.Context, purchase *models.SubjectPurchase) error {
	purchase.PaymentStatus = models.PaymentStatusPending
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "subject_id"}},
		DoUpdates: pendingReset(),
	}).Create(purchase).Error
}

func (r *PurchaseRepository) FindSubjectPurchase(ctx context.Context, userID, subjectID uint, orderID string) (*models.SubjectPurchase, error) {
	var purchase models.SubjectPurchase
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND subject_id = ? AND order_id = ?", userID, subjectID, orderID).
		First(&purchase).Error
	if err != nil {
		return nil, translate(err)
	}
	return &purchase, nil
}

func (r *PurchaseRepository) TransitionSubject(ctx context.Context, id uint, from, to models.PaymentStatus, fields map[string]any) (bool, error) {
	return transition(r.db.WithContext(ctx), &models.SubjectPurchase{}, id, from, to, fields)
}

func (r *PurchaseRepository) TransitionSubjectByOrder(ctx context.Context, orderID string, from, to models.PaymentStatus, fields map[string]any) (bool, error) {
	return transitionWhere(r.db.WithContext(ctx), &models.SubjectPurchase{}, "order_id = ?", orderID, from, to, fields)
}

// Package purchases

func (r *PurchaseRepository) HasSuccessfulPackage(ctx context.Context, userID, packageID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PackagePurchase{}).
		Where("user_id = ? AND package_id = ? AND payment_status = ?", userID, packageID, models.PaymentStatusSuccess).
		Count(&count).Error
	return count > 0, err
}

func (r *PurchaseRepository) UpsertPackagePending(ctx context.Context, purchase *models.PackagePurchase) error {
	purchase.PaymentStatus = models.PaymentStatusPending
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "package_id"}},
		DoUpdates: pendingReset(),
	}).Create(purchase).Error
}

func (r *PurchaseRepository) FindPackagePurchase(ctx context.Context, userID, packageID uint, orderID string) (*models.PackagePurchase, error) {
	var purchase models.PackagePurchase
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND package_id = ? AND order_id = ?", userID, packageID, orderID).
		First(&purchase).Error
	if err != nil {
		return nil, translate(err)
	}
	return &purchase, nil
}

func (r *PurchaseRepository) TransitionPackage(ctx context.Context, id uint, from, to models.PaymentStatus, fields map[string]any) (bool, error) {
	return transition(r.db.WithContext(ctx), &models.PackagePurchase{}, id, from, to, fields)
}

func (r *PurchaseRepository) TransitionPackageByOrder(ctx context.Context, orderID string, from, to models.PaymentStatus, fields map[string]any) (bool, error) {
	return transitionWhere(r.db.WithContext(ctx), &models.PackagePurchase{}, "order_id = ?", orderID, from, to, fields)
}

type packageCount struct {
	PackageID uint
	Total     int64
}

func (r *PurchaseRepository) CountByPackage(ctx context.Context) (map[uint]int64, error) {
	var rows []packageCount
	err := r.db.WithContext(ctx).Model(&models.PackagePurchase{}).
		Select("package_id, COUNT(*) AS total").
		Group("package_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.PackageID] = row.Total
	}
	return counts, nil
}
