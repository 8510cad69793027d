package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meritrix/meritrix-backend/internal/metrics"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/pkg/email"
	"github.com/meritrix/meritrix-backend/pkg/qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultBookingAttempts = 3

type BookingService struct {
	db          *gorm.DB
	passRepo    *repository.PassRepository
	sessionRepo *repository.LiveSessionRepository
	bookingRepo *repository.LiveBookingRepository
	userRepo    *repository.UserRepository
	mailer      email.Mailer
	qr          *qrcode.QRService
	logger      *zap.Logger

	passType    models.PassType
	category    string
	maxAttempts int
}

func NewBookingService(
	db *gorm.DB,
	passRepo *repository.PassRepository,
	sessionRepo *repository.LiveSessionRepository,
	bookingRepo *repository.LiveBookingRepository,
	userRepo *repository.UserRepository,
	mailer email.Mailer,
	qr *qrcode.QRService,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		db:          db,
		passRepo:    passRepo,
		sessionRepo: sessionRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		qr:          qr,
		logger:      logger.Named("booking"),
		passType:    models.PassTypeVedicMaths,
		category:    models.SessionCategoryVedic,
		maxAttempts: defaultBookingAttempts,
	}
}

// BookSession pass kredisiyle bir oturumda yer ayırır.
// Pass ve oturum satırları aynı transaction içinde kilitlenir; kapasite ve kredi
// kontrolleri kilit alındıktan sonra yapılır, rezervasyon ve kredi düşümü birlikte commit edilir.
func (s *BookingService) BookSession(ctx context.Context, userID, sessionID uint) (*models.BookingResult, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}

	start := time.Now()
	var (
		result  *models.BookingResult
		session *models.LiveSession
		err     error
	)
	for attempt := 1; ; attempt++ {
		result, session, err = s.bookOnce(ctx, userID, sessionID)
		if err == nil || !repository.IsRetryable(err) || attempt >= s.maxAttempts {
			break
		}
		metrics.BookingRetries.Inc()
		s.logger.Warn("booking transaction retried",
			zap.Uint("user_id", userID),
			zap.Uint("session_id", sessionID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	metrics.BookingDuration.Observe(time.Since(start).Seconds())
	metrics.BookingAttempts.WithLabelValues(bookingResult(err)).Inc()

	if err != nil {
		return nil, err
	}

	s.logger.Info("session booked",
		zap.Uint("user_id", userID),
		zap.Uint("session_id", sessionID),
		zap.Uint("booking_id", result.BookingID),
		zap.Int("credits_used", result.CreditsUsed),
	)
	go s.sendConfirmation(userID, *session)

	return result, nil
}

func (s *BookingService) bookOnce(ctx context.Context, userID, sessionID uint) (*models.BookingResult, *models.LiveSession, error) {
	var (
		result  models.BookingResult
		session *models.LiveSession
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		passes := s.passRepo.WithTx(tx)
		sessions := s.sessionRepo.WithTx(tx)
		bookings := s.bookingRepo.WithTx(tx)

		pass, err := passes.LatestSuccessfulForUpdate(ctx, userID, s.passType)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoActivePass
		}
		if err != nil {
			return fmt.Errorf("failed to load pass: %w", err)
		}
		if pass.UsedCredits >= pass.TotalCredits {
			return ErrCreditsExhausted
		}

		session, err = sessions.GetByIDForUpdate(ctx, sessionID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionUnavailable
		}
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if !session.IsActive || session.Category != s.category {
			return ErrSessionUnavailable
		}

		booked, err := bookings.CountActive(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to count bookings: %w", err)
		}
		if booked >= int64(session.MaxStudents) {
			return ErrSessionFull
		}

		exists, err := bookings.Exists(ctx, userID, sessionID)
		if err != nil {
			return fmt.Errorf("failed to check booking: %w", err)
		}
		if exists {
			return ErrAlreadyBooked
		}

		now := time.Now()
		booking := &models.LiveBooking{
			UserID:          userID,
			LiveSessionID:   sessionID,
			Status:          models.BookingStatusConfirmed,
			AmountPaid:      0,
			PaymentStatus:   models.PaymentStatusSuccess,
			PassID:          &pass.ID,
			TermsVersion:    models.BookingTermsVersion,
			TermsAcceptedAt: &now,
		}
		if err := bookings.Create(ctx, booking); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrAlreadyBooked
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if err := passes.ConsumeCredit(ctx, pass.ID); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrCreditsExhausted
			}
			return fmt.Errorf("failed to consume credit: %w", err)
		}

		result = models.BookingResult{
			OK:           true,
			BookingID:    booking.ID,
			CreditsUsed:  pass.UsedCredits + 1,
			CreditsTotal: pass.TotalCredits,
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &result, session, nil
}

func bookingResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNoActivePass):
		return "no_active_pass"
	case errors.Is(err, ErrCreditsExhausted):
		return "credits_exhausted"
	case errors.Is(err, ErrSessionUnavailable):
		return "session_unavailable"
	case errors.Is(err, ErrSessionFull):
		return "session_full"
	case errors.Is(err, ErrAlreadyBooked):
		return "already_booked"
	default:
		return "error"
	}
}

func (s *BookingService) sendConfirmation(userID uint, session models.LiveSession) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("booking email skipped", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	if err := s.mailer.SendBookingConfirmed(ctx, user.Email, user.Name, session.Title, session.ScheduledAt, session.MeetingLink); err != nil {
		s.logger.Error("failed to send booking email", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// ListBookableSessions kategoriye göre aktif oturumlar, doluluk bilgisiyle
func (s *BookingService) ListBookableSessions(ctx context.Context, category string, upcomingOnly bool) ([]models.BookableSession, error) {
	var from *time.Time
	if upcomingOnly {
		now := time.Now()
		from = &now
	}

	sessions, err := s.sessionRepo.ListBookable(ctx, category, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	ids := make([]uint, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)
	}
	counts, err := s.bookingRepo.CountBySessions(ctx, ids, true)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	catalog := make([]models.BookableSession, 0, len(sessions))
	for _, session := range sessions {
		booked := int(counts[session.ID])
		spots := session.MaxStudents - booked
		if spots < 0 {
			spots = 0
		}
		catalog = append(catalog, models.BookableSession{
			ID:           session.ID,
			Title:        session.Title,
			Description:  session.Description,
			SessionType:  session.SessionType,
			Mode:         session.Mode,
			MaxStudents:  session.MaxStudents,
			ScheduledAt:  session.ScheduledAt,
			DurationMins: session.DurationMins,
			BookedCount:  booked,
			SpotsLeft:    spots,
		})
	}
	return catalog, nil
}

func (s *BookingService) MyBookings(ctx context.Context, userID uint) ([]models.LiveBooking, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	return s.bookingRepo.ListByUser(ctx, userID)
}

// BookingQRCode rezervasyon sahibine toplantı linkinin QR kodunu üretir
func (s *BookingService) BookingQRCode(ctx context.Context, userID, bookingID uint) ([]byte, error) {
	booking, err := s.bookingRepo.GetByIDForUser(ctx, bookingID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if booking.LiveSession == nil || booking.LiveSession.MeetingLink == "" {
		return nil, ErrMeetingLinkRequired
	}
	return s.qr.GenerateQRCode(booking.LiveSession.MeetingLink)
}
