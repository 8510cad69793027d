package repository

import (
	"context"
	"time"

	"github.com/meritrix/meritrix-backend/internal/models"
	"gorm.io/gorm"
)

type LiveSessionRepository struct {
	db *gorm.DB
}

func NewLiveSessionRepository(db *gorm.DB) *LiveSessionRepository {
	return &LiveSessionRepository{
		db: db,
	}
}

func (r *LiveSessionRepository) WithTx(tx *gorm.DB) *LiveSessionRepository {
	return &LiveSessionRepository{db: tx}
}

func (r *LiveSessionRepository) Create(ctx context.Context, session *models.LiveSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *LiveSessionRepository) GetByID(ctx context.Context, id uint) (*models.LiveSession, error) {
	var session models.LiveSession
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

// GetByIDForUpdate oturum satırını kilitler; aynı oturuma gelen rezervasyonlar sıraya girer
func (r *LiveSessionRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.LiveSession, error) {
	var session models.LiveSession
	if err := r.db.WithContext(ctx).Clauses(forUpdate()).First(&session, id).Error; err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *LiveSessionRepository) Update(ctx context.Context, session *models.LiveSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *LiveSessionRepository) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.LiveSession{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LiveSessionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.LiveSession{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LiveSessionRepository) ListAll(ctx context.Context) ([]models.LiveSession, error) {
	var sessions []models.LiveSession
	err := r.db.WithContext(ctx).Order("scheduled_at DESC").Find(&sessions).Error
	return sessions, err
}

// ListBookable aktif oturumlar, from verilirse o andan sonrakiler, tarihe göre artan
func (r *LiveSessionRepository) ListBookable(ctx context.Context, category string, from *time.Time) ([]models.LiveSession, error) {
	var sessions []models.LiveSession
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if from != nil {
		q = q.Where("scheduled_at >= ?", *from)
	}
	err := q.Order("scheduled_at ASC").Order("id ASC").Find(&sessions).Error
	return sessions, err
}

// LiveBooking

type LiveBookingRepository struct {
	db *gorm.DB
}

func NewLiveBookingRepository(db *gorm.DB) *LiveBookingRepository {
	return &LiveBookingRepository{
		db: db,
	}
}

func (r *LiveBookingRepository) WithTx(tx *gorm.DB) *LiveBookingRepository {
	return &LiveBookingRepository{db: tx}
}

func (r *LiveBookingRepository) Create(ctx context.Context, booking *models.LiveBooking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *LiveBookingRepository) Exists(ctx context.Context, userID, sessionID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LiveBooking{}).
		Where("user_id = ? AND live_session_id = ?", userID, sessionID).
		Count(&count).Error
	return count > 0, err
}

// CountActive kapasiteden düşen (PENDING, CONFIRMED) rezervasyon sayısı
func (r *LiveBookingRepository) CountActive(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LiveBooking{}).
		Where("live_session_id = ? AND status IN ?", sessionID, models.ActiveBookingStatuses).
		Count(&count).Error
	return count, err
}

func (r *LiveBookingRepository) CountAll(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LiveBooking{}).
		Where("live_session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

type sessionCount struct {
	LiveSessionID uint
	Total         int64
}

// CountBySessions oturum başına sayım; activeOnly ise sadece PENDING ve CONFIRMED
func (r *LiveBookingRepository) CountBySessions(ctx context.Context, sessionIDs []uint, activeOnly bool) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return counts, nil
	}

	var rows []sessionCount
	q := r.db.WithContext(ctx).Model(&models.LiveBooking{}).
		Select("live_session_id, COUNT(*) AS total").
		Where("live_session_id IN ?", sessionIDs)
	if activeOnly {
		q = q.Where("status IN ?", models.ActiveBookingStatuses)
	}
	if err := q.Group("live_session_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.LiveSessionID] = row.Total
	}
	return counts, nil
}

func (r *LiveBookingRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*models.LiveBooking, error) {
	var booking models.LiveBooking
	err := r.db.WithContext(ctx).Preload("LiveSession").
		Where("id = ? AND user_id = ?", id, userID).
		First(&booking).Error
	if err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (r *LiveBookingRepository) ListByUser(ctx context.Context, userID uint) ([]models.LiveBooking, error) {
	var bookings []models.LiveBooking
	err := r.db.WithContext(ctx).Preload("LiveSession").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}
