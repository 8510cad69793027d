package repository

import (
	"context"

	"github.com/meritrix/meritrix-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PassRepository struct {
	db *gorm.DB
}

func NewPassRepository(db *gorm.DB) *PassRepository {
	return &PassRepository{
		db: db,
	}
}

// WithTx aynı repository'yi verilen transaction üzerinde döner
func (r *PassRepository) WithTx(tx *gorm.DB) *PassRepository {
	return &PassRepository{db: tx}
}

// Pass ürünleri

func (r *PassRepository) GetProductByType(ctx context.Context, passType models.PassType) (*models.PassProduct, error) {
	var product models.PassProduct
	if err := r.db.WithContext(ctx).Where("pass_type = ?", passType).First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *PassRepository) GetProductByID(ctx context.Context, id uint) (*models.PassProduct, error) {
	var product models.PassProduct
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *PassRepository) ListProducts(ctx context.Context) ([]models.PassProduct, error) {
	var products []models.PassProduct
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&products).Error
	return products, err
}

func (r *PassRepository) UpdateProduct(ctx context.Context, id uint, fields map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.PassProduct{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertProduct pass_type üzerinden ekler ya da günceller
func (r *PassRepository) UpsertProduct(ctx context.Context, product *models.PassProduct) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pass_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "subtitle", "session_category", "updated_at"}),
	}).Create(product).Error
}

// Session pass kayıtları

func (r *PassRepository) Create(ctx context.Context, pass *models.SessionPass) error {
	return r.db.WithContext(ctx).Create(pass).Error
}

func (r *PassRepository) GetByID(ctx context.Context, id uint) (*models.SessionPass, error) {
	var pass models.SessionPass
	if err := r.db.WithContext(ctx).First(&pass, id).Error; err != nil {
		return nil, translate(err)
	}
	return &pass, nil
}

func (r *PassRepository) GetByOrderID(ctx context.Context, orderID string) (*models.SessionPass, error) {
	var pass models.SessionPass
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&pass).Error; err != nil {
		return nil, translate(err)
	}
	return &pass, nil
}

// LatestSuccessful kullanıcının en son ödenmiş pass'i
func (r *PassRepository) LatestSuccessful(ctx context.Context, userID uint, passType models.PassType) (*models.SessionPass, error) {
	return r.latestSuccessful(r.db.WithContext(ctx), userID, passType)
}

// LatestSuccessfulForUpdate aynı sorgu, satırı transaction sonuna kadar kilitler
func (r *PassRepository) LatestSuccessfulForUpdate(ctx context.Context, userID uint, passType models.PassType) (*models.SessionPass, error) {
	return r.latestSuccessful(r.db.WithContext(ctx).Clauses(forUpdate()), userID, passType)
}

func (r *PassRepository) latestSuccessful(q *gorm.DB, userID uint, passType models.PassType) (*models.SessionPass, error) {
	var pass models.SessionPass
	err := q.Where("user_id = ? AND pass_type = ? AND payment_status = ?", userID, passType, models.PaymentStatusSuccess).
		Order("created_at DESC").
		Order("id DESC").
		First(&pass).Error
	if err != nil {
		return nil, translate(err)
	}
	return &pass, nil
}

// HasActivePass kredisi kalan herhangi bir ödenmiş pass var mı
func (r *PassRepository) HasActivePass(ctx context.Context, userID uint, passType models.PassType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SessionPass{}).
		Where("user_id = ? AND pass_type = ? AND payment_status = ? AND used_credits < total_credits",
			userID, passType, models.PaymentStatusSuccess).
		Count(&count).Error
	return count > 0, err
}

// ConsumeCredit kredi sadece limit aşılmıyorsa artırılır
func (r *PassRepository) ConsumeCredit(ctx context.Context, passID uint) error {
	result := r.db.WithContext(ctx).Model(&models.SessionPass{}).
		Where("id = ? AND payment_status = ? AND used_credits < total_credits", passID, models.PaymentStatusSuccess).
		UpdateColumn("used_credits", gorm.Expr("used_credits + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// TransitionStatus durum sadece mevcut durum `from` ise değişir
func (r *PassRepository) TransitionStatus(ctx context.Context, id uint, from, to models.PaymentStatus, fields map[string]any) (bool, error) {
	return transition(r.db.WithContext(ctx), &models.SessionPass{}, id, from, to, fields)
}

func (r *PassRepository) TransitionByOrderID(ctx context.Context, orderID string, from, to models.PaymentStatus, fields map[string]any) (bool, error) {
	return transitionWhere(r.db.WithContext(ctx), &models.SessionPass{}, "order_id = ?", orderID, from, to, fields)
}

func transition(db *gorm.DB, model any, id uint, from, to models.PaymentStatus, fields map[string]any) (bool, error) {
	return transitionWhere(db, model, "id = ?", id, from, to, fields)
}

func transitionWhere(db *gorm.DB, model any, cond string, arg any, from, to models.PaymentStatus, fields map[string]any) (bool, error) {
	updates := map[string]any{"payment_status": to}
	for k, v := range fields {
		updates[k] = v
	}
	result := db.Model(model).
		Where(cond, arg).
		Where("payment_status = ?", from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
