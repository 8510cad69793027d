package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LiveSessionService admin tarafı oturum yönetimi
type LiveSessionService struct {
	db          *gorm.DB
	sessionRepo *repository.LiveSessionRepository
	bookingRepo *repository.LiveBookingRepository
	validator   *utils.Validator
	logger      *zap.Logger
}

func NewLiveSessionService(
	db *gorm.DB,
	sessionRepo *repository.LiveSessionRepository,
	bookingRepo *repository.LiveBookingRepository,
	validator *utils.Validator,
	logger *zap.Logger,
) *LiveSessionService {
	return &LiveSessionService{
		db:          db,
		sessionRepo: sessionRepo,
		bookingRepo: bookingRepo,
		validator:   validator,
		logger:      logger.Named("live_session"),
	}
}

func (s *LiveSessionService) ListAll(ctx context.Context) ([]models.AdminLiveSession, error) {
	sessions, err := s.sessionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	ids := make([]uint, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)
	}
	counts, err := s.bookingRepo.CountBySessions(ctx, ids, false)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	result := make([]models.AdminLiveSession, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, models.AdminLiveSession{
			LiveSession:  session,
			BookingCount: counts[session.ID],
		})
	}
	return result, nil
}

func (s *LiveSessionService) Create(ctx context.Context, req models.CreateLiveSessionRequest) (*models.LiveSession, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.ScheduledAt.IsZero() {
		return nil, ErrInvalidInput
	}

	session := &models.LiveSession{
		Title:        title,
		Description:  req.Description,
		Category:     valueOr(req.Category, models.SessionCategoryGeneral),
		SessionType:  valueOr(req.SessionType, models.SessionTypeOneOnOne),
		Mode:         valueOr(req.Mode, models.SessionModeOnline),
		MaxStudents:  req.MaxStudents,
		PricePerSlot: req.PricePerSlot,
		ScheduledAt:  req.ScheduledAt,
		DurationMins: req.DurationMins,
		MeetingLink:  strings.TrimSpace(req.MeetingLink),
		IsActive:     req.IsActive,
	}
	if session.MaxStudents <= 0 {
		session.MaxStudents = 1
	}
	if session.DurationMins <= 0 {
		session.DurationMins = 60
	}
	if session.IsActive && session.MeetingLink == "" {
		return nil, ErrMeetingLinkRequired
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Info("live session created", zap.Uint("session_id", session.ID), zap.String("category", session.Category))
	return session, nil
}

// Update oturum satırını rezervasyon motoruyla aynı kilitle günceller;
// kapasite mevcut aktif rezervasyonların altına indirilemez
func (s *LiveSessionService) Update(ctx context.Context, id uint, req models.UpdateLiveSessionRequest) (*models.LiveSession, error) {
	var session *models.LiveSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = s.lock(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := applySessionUpdate(session, req, s.validator); err != nil {
			return err
		}

		// Aktif oturumun linki boşaltılamaz
		if session.IsActive && session.MeetingLink == "" {
			return ErrMeetingLinkRequired
		}

		if req.MaxStudents != nil {
			active, err := s.bookingRepo.WithTx(tx).CountActive(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to count bookings: %w", err)
			}
			if int64(session.MaxStudents) < active {
				return fmt.Errorf("%w: %d active bookings", ErrCapacityBelowBookings, active)
			}
		}

		if err := s.sessionRepo.WithTx(tx).Update(ctx, session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func applySessionUpdate(session *models.LiveSession, req models.UpdateLiveSessionRequest, v *utils.Validator) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return ErrInvalidInput
		}
		session.Title = title
	}
	if req.Description != nil {
		session.Description = *req.Description
	}
	if req.SessionType != nil {
		session.SessionType = *req.SessionType
	}
	if req.Category != nil {
		session.Category = *req.Category
	}
	if req.Mode != nil {
		session.Mode = *req.Mode
	}
	if req.MaxStudents != nil {
		if *req.MaxStudents <= 0 {
			return fmt.Errorf("%w: max students must be positive", ErrInvalidInput)
		}
		session.MaxStudents = *req.MaxStudents
	}
	if req.PricePerSlot != nil {
		session.PricePerSlot = *req.PricePerSlot
	}
	if req.ScheduledAt != nil {
		session.ScheduledAt = *req.ScheduledAt
	}
	if req.DurationMins != nil {
		session.DurationMins = *req.DurationMins
	}
	if req.MeetingLink != nil {
		link := strings.TrimSpace(*req.MeetingLink)
		if link != "" {
			if err := v.Var(link, "url"); err != nil {
				return fmt.Errorf("%w: meeting link must be a URL", ErrInvalidInput)
			}
		}
		session.MeetingLink = link
	}
	return nil
}

// SetActive aktifleştirme için toplantı linki zorunlu
func (s *LiveSessionService) SetActive(ctx context.Context, id uint, active bool) (*models.LiveSession, error) {
	var session *models.LiveSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		session, err = s.lock(ctx, tx, id)
		if err != nil {
			return err
		}
		if active && strings.TrimSpace(session.MeetingLink) == "" {
			return ErrMeetingLinkRequired
		}
		if err := s.sessionRepo.WithTx(tx).SetActive(ctx, id, active); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		session.IsActive = active
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("live session toggled", zap.Uint("session_id", id), zap.Bool("active", active))
	return session, nil
}

func (s *LiveSessionService) lock(ctx context.Context, tx *gorm.DB, id uint) (*models.LiveSession, error) {
	session, err := s.sessionRepo.WithTx(tx).GetByIDForUpdate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (s *LiveSessionService) Delete(ctx context.Context, id uint) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	count, err := s.bookingRepo.CountAll(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count bookings: %w", err)
	}
	if count > 0 {
		return ErrSessionHasBookings
	}
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *LiveSessionService) get(ctx context.Context, id uint) (*models.LiveSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return session, err
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
